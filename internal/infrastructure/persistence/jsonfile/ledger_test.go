package jsonfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vigetlabs/slackfit/internal/domain/checkin"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "db.json"), nil)
	require.NoError(t, err)
	return l
}

func TestOpen_CreatesEmptyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")

	l, err := Open(path, nil)
	require.NoError(t, err)

	snap, err := l.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.CheckIns)
	assert.Empty(t, snap.Reactions)

	// The empty document is flushed immediately.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"checkIns":[],"reactions":[]}`, string(data))
}

func TestOpen_CorruptDocumentIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Open(path, nil)
	assert.Error(t, err)
}

func TestRecordCheckIn(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()

	outcome, err := l.RecordCheckIn(ctx, "U1", "2024-06-03", false, "100.1")
	require.NoError(t, err)
	assert.Equal(t, checkin.CheckInCreated, outcome)

	record, err := l.CheckInByTS(ctx, "100.1")
	require.NoError(t, err)
	assert.Equal(t, checkin.UserID("U1"), record.User)
	assert.Equal(t, 5, record.Points)
	assert.NotEmpty(t, record.ID)
}

func TestRecordCheckIn_DuplicateDateIsNoOp(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()

	_, err := l.RecordCheckIn(ctx, "U1", "2024-06-03", false, "100.1")
	require.NoError(t, err)

	// Second reply on the same date, different message.
	outcome, err := l.RecordCheckIn(ctx, "U1", "2024-06-03", true, "100.2")
	require.NoError(t, err)
	assert.Equal(t, checkin.CheckInAlreadyExists, outcome)

	snap, err := l.All(ctx)
	require.NoError(t, err)
	require.Len(t, snap.CheckIns, 1)
	// The original record is untouched.
	assert.Equal(t, "100.1", snap.CheckIns[0].TS)
	assert.False(t, snap.CheckIns[0].HasMedia)
}

func TestRecordCheckIn_SameUserDifferentDates(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()

	_, err := l.RecordCheckIn(ctx, "U1", "2024-06-03", false, "100.1")
	require.NoError(t, err)
	outcome, err := l.RecordCheckIn(ctx, "U1", "2024-06-04", true, "200.1")
	require.NoError(t, err)
	assert.Equal(t, checkin.CheckInCreated, outcome)

	records, err := l.CheckInsByDate(ctx, "2024-06-04")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 10, records[0].Points)
}

func TestRecordReaction(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()

	_, err := l.RecordCheckIn(ctx, "U1", "2024-06-03", false, "100.1")
	require.NoError(t, err)

	outcome, err := l.RecordReaction(ctx, "U1", "U2", "100.1", "101.0")
	require.NoError(t, err)
	assert.Equal(t, checkin.ReactionApplied, outcome)

	record, err := l.CheckInByTS(ctx, "100.1")
	require.NoError(t, err)
	assert.Equal(t, 1, record.ReactionsReceived)
	assert.Equal(t, 6, record.Points)

	snap, err := l.All(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Reactions, 1)
	assert.Equal(t, checkin.UserID("U2"), snap.Reactions[0].Reactor)
	assert.Equal(t, "100.1", snap.Reactions[0].PostTS)
}

func TestRecordReaction_SelfRejected(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()

	_, err := l.RecordCheckIn(ctx, "U1", "2024-06-03", false, "100.1")
	require.NoError(t, err)

	outcome, err := l.RecordReaction(ctx, "U1", "U1", "100.1", "101.0")
	require.NoError(t, err)
	assert.Equal(t, checkin.ReactionRejectedSelf, outcome)

	record, err := l.CheckInByTS(ctx, "100.1")
	require.NoError(t, err)
	assert.Equal(t, 0, record.ReactionsReceived)

	snap, err := l.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Reactions)
}

func TestRecordReaction_NoMatchingCheckIn(t *testing.T) {
	l := openTestLedger(t)

	outcome, err := l.RecordReaction(context.Background(), "U1", "U2", "999.9", "101.0")
	require.NoError(t, err)
	assert.Equal(t, checkin.ReactionRejectedNoCheckIn, outcome)
}

// Walks a media check-in from 10 points through the reaction cap.
func TestScoringScenario_MediaPostWithManyReactions(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()

	_, err := l.RecordCheckIn(ctx, "U1", "2024-06-03", true, "100.1")
	require.NoError(t, err)

	wantPoints := []int{11, 12, 13, 14, 15, 15, 15}
	reactors := []checkin.UserID{"U2", "U3", "U4", "U5", "U6", "U7", "U8"}
	for i, reactor := range reactors {
		_, err := l.RecordReaction(ctx, "U1", reactor, "100.1", "101.0")
		require.NoError(t, err)

		record, err := l.CheckInByTS(ctx, "100.1")
		require.NoError(t, err)
		assert.Equal(t, wantPoints[i], record.Points, "after reaction %d", i+1)
	}

	record, err := l.CheckInByTS(ctx, "100.1")
	require.NoError(t, err)
	assert.Equal(t, 7, record.ReactionsReceived)
}

func TestReopen_PreservesState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	ctx := context.Background()

	l, err := Open(path, nil)
	require.NoError(t, err)
	_, err = l.RecordCheckIn(ctx, "U1", "2024-06-03", true, "100.1")
	require.NoError(t, err)
	_, err = l.RecordReaction(ctx, "U1", "U2", "100.1", "101.0")
	require.NoError(t, err)

	reopened, err := Open(path, nil)
	require.NoError(t, err)

	record, err := reopened.CheckInByTS(ctx, "100.1")
	require.NoError(t, err)
	assert.Equal(t, 11, record.Points)
	assert.Equal(t, 1, record.ReactionsReceived)

	snap, err := reopened.All(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Reactions, 1)
}

func TestResetWindow_RetainsRecords(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()

	_, err := l.RecordCheckIn(ctx, "U1", "2024-06-03", false, "100.1")
	require.NoError(t, err)

	require.NoError(t, l.ResetWindow(ctx, checkin.WindowWeekly))
	require.NoError(t, l.ResetWindow(ctx, checkin.WindowMonthly))

	snap, err := l.All(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.CheckIns, 1)
}

func TestAll_ReturnsCopies(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()

	_, err := l.RecordCheckIn(ctx, "U1", "2024-06-03", false, "100.1")
	require.NoError(t, err)

	snap, err := l.All(ctx)
	require.NoError(t, err)
	snap.CheckIns[0].Points = 999

	record, err := l.CheckInByTS(ctx, "100.1")
	require.NoError(t, err)
	assert.Equal(t, 5, record.Points)
}

func TestOpen_MigratesLegacyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	legacy := `{
		"users": {
			"U1": {
				"name": "Ada",
				"checkIns": ["2024-06-03", "2024-06-04"],
				"mediaCheckIns": ["2024-06-04"],
				"reactionsGiven": 3,
				"reactionsReceived": 2
			}
		}
	}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	l, err := Open(path, nil)
	require.NoError(t, err)

	snap, err := l.All(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.CheckIns, 2)

	byDate := map[checkin.Date]checkin.CheckInRecord{}
	for _, r := range snap.CheckIns {
		byDate[r.Date] = r
	}
	assert.Equal(t, 5, byDate["2024-06-03"].Points)
	assert.True(t, byDate["2024-06-04"].HasMedia)
	assert.Equal(t, 10, byDate["2024-06-04"].Points)

	// The migrated layout is written back immediately.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, "checkIns")
	assert.NotContains(t, doc, "users")
}

func TestOpen_CurrentLayoutNotRemigrated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	current := `{
		"checkIns": [
			{"id":"r1","user":"U1","ts":"100.1","date":"2024-06-03","hasMedia":false,"reactionsReceived":2,"points":7}
		],
		"reactions": []
	}`
	require.NoError(t, os.WriteFile(path, []byte(current), 0o644))

	l, err := Open(path, nil)
	require.NoError(t, err)

	record, err := l.CheckInByTS(context.Background(), "100.1")
	require.NoError(t, err)
	assert.Equal(t, 7, record.Points)
	assert.Equal(t, 2, record.ReactionsReceived)
}
