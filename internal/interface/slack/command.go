package slack

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/vigetlabs/slackfit/internal/application/query"
	"github.com/vigetlabs/slackfit/internal/domain/checkin"
	"github.com/vigetlabs/slackfit/internal/domain/leaderboard"
	"github.com/vigetlabs/slackfit/internal/interface/slack/presenter"
)

// WhiteboardHandler serves the /whiteboard slash command: the current
// weekly and monthly standings in one message.
type WhiteboardHandler struct {
	leaderboards *query.GetLeaderboardHandler
	logger       *slog.Logger
}

// NewWhiteboardHandler creates the slash command handler.
func NewWhiteboardHandler(leaderboards *query.GetLeaderboardHandler, logger *slog.Logger) *WhiteboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WhiteboardHandler{
		leaderboards: leaderboards,
		logger:       logger,
	}
}

// Handle renders the combined weekly and monthly leaderboard text. When
// neither window has data it returns a single no-data message instead of
// two empty sections. Storage faults propagate.
func (h *WhiteboardHandler) Handle(ctx context.Context) (string, error) {
	weekly, err := h.section(ctx, checkin.WindowWeekly)
	if err != nil {
		return "", err
	}
	monthly, err := h.section(ctx, checkin.WindowMonthly)
	if err != nil {
		return "", err
	}

	if weekly == "" && monthly == "" {
		return presenter.NoDataMessage, nil
	}

	parts := make([]string, 0, 2)
	if weekly != "" {
		parts = append(parts, weekly)
	}
	if monthly != "" {
		parts = append(parts, monthly)
	}
	return strings.Join(parts, "\n\n"), nil
}

// section renders one window, mapping ErrNoData to an empty section.
func (h *WhiteboardHandler) section(ctx context.Context, kind checkin.WindowKind) (string, error) {
	result, err := h.leaderboards.Handle(ctx, query.GetLeaderboardQuery{Kind: kind})
	if errors.Is(err, leaderboard.ErrNoData) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return presenter.FormatLeaderboard(result.Window.Label(), result.Entries), nil
}
