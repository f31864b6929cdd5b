// Package query contains read operations following CQRS pattern.
// Queries never modify state - they only read and return data.
package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vigetlabs/slackfit/internal/domain/checkin"
	"github.com/vigetlabs/slackfit/internal/domain/leaderboard"
)

// GetLeaderboardQuery requests a ranking for one aggregation window.
type GetLeaderboardQuery struct {
	// Kind selects the weekly or monthly window containing Now.
	Kind checkin.WindowKind

	// Now anchors the window; the zero value means time.Now().
	Now time.Time
}

// Validate validates the query.
func (q *GetLeaderboardQuery) Validate() error {
	switch q.Kind {
	case checkin.WindowWeekly, checkin.WindowMonthly:
		return nil
	default:
		return fmt.Errorf("get_leaderboard: unknown window kind: %s", q.Kind)
	}
}

// GetLeaderboardResult is the computed ranking for a window.
type GetLeaderboardResult struct {
	// Window is the concrete period the entries cover.
	Window leaderboard.Window

	// Entries are sorted non-increasing by points, ties in first-seen
	// ledger order.
	Entries []leaderboard.Entry
}

// GetLeaderboardHandler handles GetLeaderboardQuery.
type GetLeaderboardHandler struct {
	ledger   checkin.Ledger
	resolver leaderboard.NameResolver
	location *time.Location
	logger   *slog.Logger
}

// NewGetLeaderboardHandler creates the handler. The resolver may be nil,
// in which case entries carry raw user ids.
func NewGetLeaderboardHandler(ledger checkin.Ledger, resolver leaderboard.NameResolver, location *time.Location, logger *slog.Logger) *GetLeaderboardHandler {
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GetLeaderboardHandler{
		ledger:   ledger,
		resolver: resolver,
		location: location,
		logger:   logger,
	}
}

// Handle computes the leaderboard for the requested window. A window with
// zero check-ins returns leaderboard.ErrNoData so callers can distinguish
// "nothing recorded" from a real ranking.
func (h *GetLeaderboardHandler) Handle(ctx context.Context, q GetLeaderboardQuery) (*GetLeaderboardResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	now := q.Now
	if now.IsZero() {
		now = time.Now()
	}

	var window leaderboard.Window
	if q.Kind == checkin.WindowMonthly {
		window = leaderboard.NewMonthlyWindow(now, h.location)
	} else {
		window = leaderboard.NewWeeklyWindow(now, h.location)
	}

	snap, err := h.ledger.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("get_leaderboard: %w", err)
	}

	entries, err := leaderboard.Build(ctx, snap.CheckIns, window, h.resolver)
	if errors.Is(err, leaderboard.ErrNoData) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("get_leaderboard: %w", err)
	}

	h.logger.Debug("leaderboard computed",
		"window", string(q.Kind),
		"entries", len(entries),
	)
	return &GetLeaderboardResult{
		Window:  window,
		Entries: entries,
	}, nil
}
