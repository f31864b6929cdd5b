package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vigetlabs/slackfit/internal/domain/checkin"
	"github.com/vigetlabs/slackfit/internal/domain/leaderboard"
)

type snapshotLedger struct {
	snap checkin.Snapshot
}

func (l *snapshotLedger) RecordCheckIn(context.Context, checkin.UserID, checkin.Date, bool, string) (checkin.CheckInOutcome, error) {
	return checkin.CheckInCreated, nil
}

func (l *snapshotLedger) RecordReaction(context.Context, checkin.UserID, checkin.UserID, string, string) (checkin.ReactionOutcome, error) {
	return checkin.ReactionApplied, nil
}

func (l *snapshotLedger) CheckInByTS(context.Context, string) (*checkin.CheckInRecord, error) {
	return nil, checkin.ErrLedgerNotFound
}

func (l *snapshotLedger) CheckInsByDate(context.Context, checkin.Date) ([]checkin.CheckInRecord, error) {
	return nil, nil
}

func (l *snapshotLedger) All(context.Context) (*checkin.Snapshot, error) {
	return &l.snap, nil
}

func (l *snapshotLedger) ResetWindow(context.Context, checkin.WindowKind) error {
	return nil
}

func TestGetLeaderboardQuery_Validate(t *testing.T) {
	assert.NoError(t, (&GetLeaderboardQuery{Kind: checkin.WindowWeekly}).Validate())
	assert.NoError(t, (&GetLeaderboardQuery{Kind: checkin.WindowMonthly}).Validate())
	assert.Error(t, (&GetLeaderboardQuery{Kind: "yearly"}).Validate())
	assert.Error(t, (&GetLeaderboardQuery{}).Validate())
}

func TestGetLeaderboard_WeeklyWindowFiltersByAnchor(t *testing.T) {
	ledger := &snapshotLedger{snap: checkin.Snapshot{CheckIns: []checkin.CheckInRecord{
		{ID: "r1", User: "U1", TS: "1.0", Date: "2024-06-05", Points: 10},
		{ID: "r2", User: "U2", TS: "2.0", Date: "2024-05-29", Points: 15},
	}}}
	h := NewGetLeaderboardHandler(ledger, nil, time.UTC, nil)

	result, err := h.Handle(context.Background(), GetLeaderboardQuery{
		Kind: checkin.WindowWeekly,
		Now:  time.Date(2024, 6, 5, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, "U1", result.Entries[0].ID)
	assert.Equal(t, checkin.WindowWeekly, result.Window.Kind)
}

func TestGetLeaderboard_MonthlyWindow(t *testing.T) {
	ledger := &snapshotLedger{snap: checkin.Snapshot{CheckIns: []checkin.CheckInRecord{
		{ID: "r1", User: "U1", TS: "1.0", Date: "2024-06-05", Points: 10},
		{ID: "r2", User: "U2", TS: "2.0", Date: "2024-05-29", Points: 15},
	}}}
	h := NewGetLeaderboardHandler(ledger, nil, time.UTC, nil)

	result, err := h.Handle(context.Background(), GetLeaderboardQuery{
		Kind: checkin.WindowMonthly,
		Now:  time.Date(2024, 6, 20, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, "U1", result.Entries[0].ID)
}

func TestGetLeaderboard_NoDataPassesThrough(t *testing.T) {
	h := NewGetLeaderboardHandler(&snapshotLedger{}, nil, time.UTC, nil)

	_, err := h.Handle(context.Background(), GetLeaderboardQuery{
		Kind: checkin.WindowWeekly,
		Now:  time.Date(2024, 6, 5, 12, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, leaderboard.ErrNoData)
}
