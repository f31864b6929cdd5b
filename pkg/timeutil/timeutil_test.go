package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUTCOffsetHours_TracksDST(t *testing.T) {
	winter := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	summer := time.Date(2024, 7, 15, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, -5, UTCOffsetHours(EasternTZ, winter))
	assert.Equal(t, -4, UTCOffsetHours(EasternTZ, summer))
}

func TestCivilDate_CrossesMidnightBoundary(t *testing.T) {
	// 03:00 UTC on June 4 is still June 3 in New York.
	instant := time.Date(2024, 6, 4, 3, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024-06-03", CivilDate(instant, EasternTZ))
	assert.Equal(t, "2024-06-04", CivilDate(instant, time.UTC))
}

func TestStartOfWeek_MondayBased(t *testing.T) {
	loc := time.UTC

	// Wednesday.
	got := StartOfWeek(time.Date(2024, 6, 5, 15, 30, 0, 0, loc), loc)
	assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, loc), got)

	// Sunday belongs to the week that started the previous Monday.
	got = StartOfWeek(time.Date(2024, 6, 9, 23, 59, 0, 0, loc), loc)
	assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, loc), got)

	// Monday is its own week start.
	got = StartOfWeek(time.Date(2024, 6, 3, 0, 0, 0, 0, loc), loc)
	assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, loc), got)
}

func TestStartAndEndOfMonth(t *testing.T) {
	loc := time.UTC
	at := time.Date(2024, 2, 15, 12, 0, 0, 0, loc)

	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, loc), StartOfMonth(at, loc))
	// Leap year February: exclusive end is March 1st.
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, loc), EndOfMonth(at, loc))
}

func TestTomorrowIsFirstOfMonth(t *testing.T) {
	loc := time.UTC

	tests := []struct {
		at   time.Time
		want bool
	}{
		{time.Date(2024, 6, 30, 17, 0, 0, 0, loc), true},
		{time.Date(2024, 6, 29, 17, 0, 0, 0, loc), false},
		{time.Date(2024, 2, 29, 17, 0, 0, 0, loc), true},  // leap year
		{time.Date(2023, 2, 28, 17, 0, 0, 0, loc), true},  // short February
		{time.Date(2024, 12, 31, 17, 0, 0, 0, loc), true}, // year boundary
		{time.Date(2024, 7, 28, 17, 0, 0, 0, loc), false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TomorrowIsFirstOfMonth(tt.at, loc), "at %s", tt.at)
	}
}

func TestSlackTimestampTime(t *testing.T) {
	got := SlackTimestampTime("1717416000.000200")
	require.False(t, got.IsZero())
	assert.Equal(t, time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC), got)

	// No uniqueness suffix.
	got = SlackTimestampTime("1717416000")
	assert.Equal(t, time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC), got)

	// Garbage yields the zero time.
	assert.True(t, SlackTimestampTime("not-a-ts").IsZero())
	assert.True(t, SlackTimestampTime("").IsZero())
	assert.True(t, SlackTimestampTime(".000200").IsZero())
}
