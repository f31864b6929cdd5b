package checkin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckInPoints(t *testing.T) {
	tests := []struct {
		name     string
		hasMedia bool
		want     int
	}{
		{"text only", false, 5},
		{"with media", true, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &CheckInRecord{HasMedia: tt.hasMedia}
			assert.Equal(t, tt.want, CheckInPoints(r))
		})
	}
}

func TestReactionContribution_CapsAtFive(t *testing.T) {
	tests := []struct {
		reactions int
		want      int
	}{
		{0, 0},
		{1, 1},
		{4, 4},
		{5, 5},
		{6, 5},
		{100, 5},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ReactionContribution(tt.reactions), "reactions=%d", tt.reactions)
	}
}

func TestTotalPoints(t *testing.T) {
	r := &CheckInRecord{HasMedia: true, ReactionsReceived: 7}
	assert.Equal(t, 15, TotalPoints(r))

	r = &CheckInRecord{HasMedia: false, ReactionsReceived: 2}
	assert.Equal(t, 7, TotalPoints(r))
}

func TestNewCheckInRecord(t *testing.T) {
	r, err := NewCheckInRecord(NewCheckInRecordParams{
		ID:       "rec-1",
		User:     "U123",
		TS:       "1717406400.000200",
		Date:     "2024-06-03",
		HasMedia: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, r.Points)
	assert.Equal(t, 0, r.ReactionsReceived)
}

func TestNewCheckInRecord_Validation(t *testing.T) {
	tests := []struct {
		name    string
		params  NewCheckInRecordParams
		wantErr error
	}{
		{
			name:    "missing user",
			params:  NewCheckInRecordParams{TS: "1.0", Date: "2024-06-03"},
			wantErr: ErrInvalidUserID,
		},
		{
			name:    "bad date",
			params:  NewCheckInRecordParams{User: "U1", TS: "1.0", Date: "June 3rd"},
			wantErr: ErrInvalidDate,
		},
		{
			name:    "missing ts",
			params:  NewCheckInRecordParams{User: "U1", Date: "2024-06-03"},
			wantErr: ErrInvalidPostTS,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCheckInRecord(tt.params)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestApplyReaction_CounterUnboundedPointsCapped(t *testing.T) {
	r, err := NewCheckInRecord(NewCheckInRecordParams{
		ID: "rec-1", User: "U123", TS: "1.0", Date: "2024-06-03",
	})
	require.NoError(t, err)

	for i := 0; i < 8; i++ {
		r.ApplyReaction()
	}

	assert.Equal(t, 8, r.ReactionsReceived)
	assert.Equal(t, 10, r.Points)
}

func TestIsSelfReaction(t *testing.T) {
	assert.True(t, ReactionEvent{User: "U1", Reactor: "U1"}.IsSelfReaction())
	assert.False(t, ReactionEvent{User: "U1", Reactor: "U2"}.IsSelfReaction())
}
