package leaderboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vigetlabs/slackfit/internal/domain/checkin"
)

type stubResolver struct {
	names map[string]string
	err   error
}

func (r *stubResolver) ResolveDisplayName(_ context.Context, userID string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return r.names[userID], nil
}

func record(user checkin.UserID, date checkin.Date, points int) checkin.CheckInRecord {
	return checkin.CheckInRecord{ID: string(user) + "/" + string(date), User: user, TS: "1.0", Date: date, Points: points}
}

func TestNewWeeklyWindow(t *testing.T) {
	loc := time.UTC
	// Wednesday 2024-06-05
	now := time.Date(2024, 6, 5, 15, 0, 0, 0, loc)

	w := NewWeeklyWindow(now, loc)
	assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, loc), w.Start)
	assert.Equal(t, time.Date(2024, 6, 10, 0, 0, 0, 0, loc), w.End)
	assert.Equal(t, "week", w.Label())
}

func TestNewWeeklyWindow_SundayBelongsToCurrentWeek(t *testing.T) {
	loc := time.UTC
	// Sunday 2024-06-09
	now := time.Date(2024, 6, 9, 23, 0, 0, 0, loc)

	w := NewWeeklyWindow(now, loc)
	assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, loc), w.Start)
}

func TestNewMonthlyWindow(t *testing.T) {
	loc := time.UTC
	now := time.Date(2024, 2, 15, 12, 0, 0, 0, loc)

	w := NewMonthlyWindow(now, loc)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, loc), w.Start)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, loc), w.End)
	assert.Equal(t, "month", w.Label())
}

func TestWindowContains(t *testing.T) {
	w := NewWeeklyWindow(time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC), time.UTC)

	assert.True(t, w.Contains("2024-06-03"))
	assert.True(t, w.Contains("2024-06-09"))
	assert.False(t, w.Contains("2024-06-02"))
	assert.False(t, w.Contains("2024-06-10"))
	assert.False(t, w.Contains("not-a-date"))
}

func TestBuild_SumsAndSorts(t *testing.T) {
	w := NewWeeklyWindow(time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC), time.UTC)
	records := []checkin.CheckInRecord{
		record("U1", "2024-06-03", 5),
		record("U2", "2024-06-03", 10),
		record("U1", "2024-06-04", 7),
	}

	entries, err := Build(context.Background(), records, w, nil)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "U1", entries[0].ID)
	assert.Equal(t, 12, entries[0].Points)
	assert.Equal(t, "U2", entries[1].ID)
	assert.Equal(t, 10, entries[1].Points)
}

func TestBuild_TiesKeepFirstSeenOrder(t *testing.T) {
	w := NewWeeklyWindow(time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC), time.UTC)
	records := []checkin.CheckInRecord{
		record("U3", "2024-06-03", 5),
		record("U1", "2024-06-03", 5),
		record("U2", "2024-06-04", 5),
	}

	entries, err := Build(context.Background(), records, w, nil)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, []string{"U3", "U1", "U2"}, []string{entries[0].ID, entries[1].ID, entries[2].ID})
}

func TestBuild_FiltersOutsideWindow(t *testing.T) {
	w := NewWeeklyWindow(time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC), time.UTC)
	records := []checkin.CheckInRecord{
		record("U1", "2024-05-27", 15),
		record("U2", "2024-06-04", 5),
	}

	entries, err := Build(context.Background(), records, w, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "U2", entries[0].ID)
}

func TestBuild_NoDataInWindow(t *testing.T) {
	w := NewWeeklyWindow(time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC), time.UTC)
	records := []checkin.CheckInRecord{
		record("U1", "2024-05-01", 5),
	}

	_, err := Build(context.Background(), records, w, nil)
	assert.ErrorIs(t, err, ErrNoData)

	_, err = Build(context.Background(), nil, w, nil)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestBuild_NameResolution(t *testing.T) {
	w := NewWeeklyWindow(time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC), time.UTC)
	records := []checkin.CheckInRecord{
		record("U1", "2024-06-03", 5),
		record("U2", "2024-06-03", 5),
	}

	resolver := &stubResolver{names: map[string]string{"U1": "Ada Lovelace"}}
	entries, err := Build(context.Background(), records, w, resolver)
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", entries[0].DisplayName)
	// Unknown users fall back to the raw id.
	assert.Equal(t, "U2", entries[1].DisplayName)
}

func TestBuild_ResolverErrorFallsBack(t *testing.T) {
	w := NewWeeklyWindow(time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC), time.UTC)
	records := []checkin.CheckInRecord{record("U1", "2024-06-03", 5)}

	resolver := &stubResolver{err: errors.New("slack down")}
	entries, err := Build(context.Background(), records, w, resolver)
	require.NoError(t, err)
	assert.Equal(t, "U1", entries[0].DisplayName)
}
