package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vigetlabs/slackfit/internal/domain/checkin"
)

// stubLedger scripts outcomes for handler tests.
type stubLedger struct {
	checkInOutcome  checkin.CheckInOutcome
	reactionOutcome checkin.ReactionOutcome
	byTS            *checkin.CheckInRecord
	err             error

	gotPoster  checkin.UserID
	gotReactor checkin.UserID
}

func (l *stubLedger) RecordCheckIn(context.Context, checkin.UserID, checkin.Date, bool, string) (checkin.CheckInOutcome, error) {
	return l.checkInOutcome, l.err
}

func (l *stubLedger) RecordReaction(_ context.Context, poster, reactor checkin.UserID, _, _ string) (checkin.ReactionOutcome, error) {
	l.gotPoster = poster
	l.gotReactor = reactor
	return l.reactionOutcome, l.err
}

func (l *stubLedger) CheckInByTS(context.Context, string) (*checkin.CheckInRecord, error) {
	if l.byTS == nil {
		return nil, checkin.ErrLedgerNotFound
	}
	return l.byTS, nil
}

func (l *stubLedger) CheckInsByDate(context.Context, checkin.Date) ([]checkin.CheckInRecord, error) {
	return nil, nil
}

func (l *stubLedger) All(context.Context) (*checkin.Snapshot, error) {
	return &checkin.Snapshot{}, nil
}

func (l *stubLedger) ResetWindow(context.Context, checkin.WindowKind) error {
	return nil
}

func TestRecordCheckInCommand_Validate(t *testing.T) {
	valid := RecordCheckInCommand{UserID: "U1", Date: "2024-06-03", MessageTS: "100.1"}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name string
		cmd  RecordCheckInCommand
	}{
		{"missing user", RecordCheckInCommand{Date: "2024-06-03", MessageTS: "100.1"}},
		{"bad date", RecordCheckInCommand{UserID: "U1", Date: "yesterday", MessageTS: "100.1"}},
		{"missing ts", RecordCheckInCommand{UserID: "U1", Date: "2024-06-03"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.cmd.Validate())
		})
	}
}

func TestRecordCheckInHandler_OutcomePassthrough(t *testing.T) {
	h := NewRecordCheckInHandler(&stubLedger{checkInOutcome: checkin.CheckInAlreadyExists}, nil)

	outcome, err := h.Handle(context.Background(), RecordCheckInCommand{
		UserID: "U1", Date: "2024-06-03", MessageTS: "100.1",
	})
	require.NoError(t, err)
	assert.Equal(t, checkin.CheckInAlreadyExists, outcome)
}

func TestRecordCheckInHandler_StorageFaultPropagates(t *testing.T) {
	boom := errors.New("disk full")
	h := NewRecordCheckInHandler(&stubLedger{err: boom}, nil)

	_, err := h.Handle(context.Background(), RecordCheckInCommand{
		UserID: "U1", Date: "2024-06-03", MessageTS: "100.1",
	})
	assert.ErrorIs(t, err, boom)
}

func TestRecordReactionHandler_ResolvesPosterFromLedger(t *testing.T) {
	ledger := &stubLedger{
		byTS:            &checkin.CheckInRecord{User: "U1", TS: "100.1"},
		reactionOutcome: checkin.ReactionApplied,
	}
	h := NewRecordReactionHandler(ledger, nil)

	outcome, err := h.Handle(context.Background(), RecordReactionCommand{
		ReactorID: "U2", PostTS: "100.1", EventTS: "300.3",
	})
	require.NoError(t, err)
	assert.Equal(t, checkin.ReactionApplied, outcome)
	assert.Equal(t, checkin.UserID("U1"), ledger.gotPoster)
	assert.Equal(t, checkin.UserID("U2"), ledger.gotReactor)
}

func TestRecordReactionHandler_NoCheckInMatched(t *testing.T) {
	h := NewRecordReactionHandler(&stubLedger{}, nil)

	outcome, err := h.Handle(context.Background(), RecordReactionCommand{
		ReactorID: "U2", PostTS: "999.9",
	})
	require.NoError(t, err)
	assert.Equal(t, checkin.ReactionRejectedNoCheckIn, outcome)
}
