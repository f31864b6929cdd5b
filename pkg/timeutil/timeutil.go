// Package timeutil provides civil-timezone helpers for SlackFit.
// The exercise thread runs on US Eastern wall-clock time, which observes
// daylight saving, so the UTC offset must always be computed from a concrete
// date rather than cached once at startup.
package timeutil

import (
	"time"
	// Embed the IANA database so Eastern DST rules resolve even on hosts
	// without a system tzdata package.
	_ "time/tzdata"
)

// EasternTZ is the wall-clock timezone for all scheduled posts.
var EasternTZ = mustLoadEastern()

func mustLoadEastern() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		// With time/tzdata embedded this cannot happen; fall back to EST
		// so the scheduler still runs rather than crashing at init.
		return time.FixedZone("EST", -5*60*60)
	}
	return loc
}

// Now returns the current time in Eastern timezone.
func Now() time.Time {
	return time.Now().In(EasternTZ)
}

// ToEastern converts a time to Eastern timezone.
func ToEastern(t time.Time) time.Time {
	return t.In(EasternTZ)
}

// UTCOffsetHours returns the UTC offset, in whole hours, that the given
// location has at the given instant. For Eastern time this is -5 (EST)
// or -4 (EDT) depending on the date.
func UTCOffsetHours(loc *time.Location, t time.Time) int {
	_, offsetSeconds := t.In(loc).Zone()
	return offsetSeconds / 3600
}

// FormatDate is the civil date layout used as the check-in aggregation
// bucket (YYYY-MM-DD).
const FormatDate = "2006-01-02"

// CivilDate formats a time as a civil date string in the given location.
func CivilDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(FormatDate)
}

// StartOfDay returns the start of the day (00:00:00) in the given location.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// StartOfWeek returns the start of the week (Monday 00:00:00) in the given
// location.
func StartOfWeek(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	weekday := int(local.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	return StartOfDay(local.AddDate(0, 0, -(weekday-1)), loc)
}

// EndOfWeek returns the start of the next week (exclusive bound).
func EndOfWeek(t time.Time, loc *time.Location) time.Time {
	return StartOfWeek(t, loc).AddDate(0, 0, 7)
}

// StartOfMonth returns the start of the month in the given location.
func StartOfMonth(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
}

// EndOfMonth returns the start of the next month (exclusive bound).
func EndOfMonth(t time.Time, loc *time.Location) time.Time {
	return StartOfMonth(t, loc).AddDate(0, 1, 0)
}

// TomorrowIsFirstOfMonth reports whether the day after t, in the given
// location, falls on the 1st. The monthly leaderboard job uses this to fire
// exactly once, on the final day of each month, from a 28th-31st trigger.
func TomorrowIsFirstOfMonth(t time.Time, loc *time.Location) bool {
	return t.In(loc).AddDate(0, 0, 1).Day() == 1
}

// SlackTimestampTime converts a Slack message timestamp ("1717406400.000200")
// into a time.Time. Slack timestamps are seconds since the epoch with a
// uniqueness suffix after the dot; the suffix is ignored here.
func SlackTimestampTime(ts string) time.Time {
	if ts == "" || ts[0] == '.' {
		return time.Time{}
	}
	var seconds int64
	for i := 0; i < len(ts); i++ {
		c := ts[i]
		if c == '.' {
			break
		}
		if c < '0' || c > '9' {
			return time.Time{}
		}
		seconds = seconds*10 + int64(c-'0')
	}
	return time.Unix(seconds, 0).UTC()
}
