// Package leaderboard derives rankings from the check-in ledger.
// Entries are computed fresh per query and never stored: the ledger is the
// only source of truth, and a window's leaderboard is just the records
// whose civil date falls inside that window.
package leaderboard

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/vigetlabs/slackfit/internal/domain/checkin"
)

// ErrNoData is returned when a window has zero qualifying check-ins. It is
// an explicit result so callers can post a "no data" message instead of an
// empty ranking.
var ErrNoData = errors.New("leaderboard: no check-ins recorded for window")

// Window is an aggregation period over which points are summed.
// Start is inclusive, End exclusive, both at local midnight.
type Window struct {
	Kind  checkin.WindowKind
	Start time.Time
	End   time.Time
}

// NewWeeklyWindow returns the Monday-to-Sunday window containing now.
func NewWeeklyWindow(now time.Time, loc *time.Location) Window {
	start := startOfWeek(now, loc)
	return Window{
		Kind:  checkin.WindowWeekly,
		Start: start,
		End:   start.AddDate(0, 0, 7),
	}
}

// NewMonthlyWindow returns the calendar-month window containing now.
func NewMonthlyWindow(now time.Time, loc *time.Location) Window {
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	return Window{
		Kind:  checkin.WindowMonthly,
		Start: start,
		End:   start.AddDate(0, 1, 0),
	}
}

func startOfWeek(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	weekday := int(local.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	day := local.AddDate(0, 0, -(weekday - 1))
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
}

// Label returns the period label used in rendered leaderboards.
func (w Window) Label() string {
	if w.Kind == checkin.WindowMonthly {
		return "month"
	}
	return "week"
}

// Contains reports whether the given civil date falls inside the window.
func (w Window) Contains(d checkin.Date) bool {
	t := d.Time(w.Start.Location())
	if t.IsZero() {
		return false
	}
	return !t.Before(w.Start) && t.Before(w.End)
}

// Entry is one derived leaderboard row.
type Entry struct {
	// ID is the raw user identifier.
	ID string

	// DisplayName is the resolved name, or the raw ID when resolution
	// fails or is unavailable.
	DisplayName string

	// Points is the summed point total for the window.
	Points int
}

// NameResolver resolves a user ID to a display name. Implementations are
// best-effort: an error means the caller falls back to the raw ID, never
// that the query aborts.
type NameResolver interface {
	ResolveDisplayName(ctx context.Context, userID string) (string, error)
}

// Build computes the leaderboard for a window from ledger records, summing
// each record's cached point total.
//
// Ordering contract: strictly non-increasing by points. Ties keep the
// first-seen user order from the ledger, which is append-ordered and
// therefore reproducible across repeated calls on the same data.
func Build(ctx context.Context, records []checkin.CheckInRecord, w Window, resolver NameResolver) ([]Entry, error) {
	totals := make(map[checkin.UserID]int)
	order := make([]checkin.UserID, 0)

	for _, r := range records {
		if !w.Contains(r.Date) {
			continue
		}
		if _, seen := totals[r.User]; !seen {
			order = append(order, r.User)
		}
		totals[r.User] += r.Points
	}

	if len(order) == 0 {
		return nil, ErrNoData
	}

	entries := make([]Entry, 0, len(order))
	for _, user := range order {
		entries = append(entries, Entry{
			ID:          user.String(),
			DisplayName: resolveName(ctx, resolver, user.String()),
			Points:      totals[user],
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Points > entries[j].Points
	})

	return entries, nil
}

// resolveName falls back to the raw ID on any resolution failure.
func resolveName(ctx context.Context, resolver NameResolver, userID string) string {
	if resolver == nil {
		return userID
	}
	name, err := resolver.ResolveDisplayName(ctx, userID)
	if err != nil || name == "" {
		return userID
	}
	return name
}
