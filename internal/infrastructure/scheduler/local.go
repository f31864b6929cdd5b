package scheduler

import (
	"fmt"
	"time"
)

// DeriveUTCCron converts a fixed wall-clock trigger time in a civil
// timezone into a UTC cron expression, using the UTC offset the location
// has at the given instant. Callers must re-derive around daylight-saving
// transitions rather than caching the result; LocalTimeSchedule does this
// on every Next call.
//
// The day-of-week and day-of-month fields are passed through unshifted,
// which is correct as long as the local trigger time maps into the same
// UTC day. All SlackFit triggers are between 08:00 and 19:59 Eastern, so
// the UTC hour stays within the same day year-round.
func DeriveUTCCron(minute, hour int, dayOfMonth, dayOfWeek string, loc *time.Location, now time.Time) string {
	_, offsetSeconds := now.In(loc).Zone()
	utcHour := hour - offsetSeconds/3600
	if utcHour < 0 {
		utcHour += 24
	}
	if utcHour >= 24 {
		utcHour -= 24
	}
	return fmt.Sprintf("%d %d %s * %s", minute, utcHour, dayOfMonth, dayOfWeek)
}

// LocalTimeSchedule fires at a fixed wall-clock time in a civil timezone.
// It re-derives its UTC trigger from the current date on every Next call,
// so the trigger tracks daylight-saving transitions instead of drifting by
// an hour twice a year.
type LocalTimeSchedule struct {
	// Minute and Hour are the local wall-clock trigger time.
	Minute int
	Hour   int

	// DayOfMonth and DayOfWeek are cron field specs ("*", "1-5", "28-31", "0").
	DayOfMonth string
	DayOfWeek  string

	// Location is the civil timezone the trigger time is expressed in.
	Location *time.Location
}

var _ Schedule = (*LocalTimeSchedule)(nil)

// Next returns the next UTC instant matching the local trigger time.
func (s *LocalTimeSchedule) Next(t time.Time) time.Time {
	dom := s.DayOfMonth
	if dom == "" {
		dom = "*"
	}
	dow := s.DayOfWeek
	if dow == "" {
		dow = "*"
	}

	expr, err := ParseCronExpression(DeriveUTCCron(s.Minute, s.Hour, dom, dow, s.Location, t))
	if err != nil {
		// Field specs are fixed at wiring time; a parse failure here is a
		// programming error. Returning zero disables the job rather than
		// firing it at a wrong time.
		return time.Time{}
	}

	next := expr.Next(t.UTC())

	// If a DST transition sits between now and the computed trigger, the
	// offset used for derivation is stale; re-derive at the candidate
	// instant so the trigger lands on the correct wall-clock hour.
	expr2, err := ParseCronExpression(DeriveUTCCron(s.Minute, s.Hour, dom, dow, s.Location, next))
	if err != nil {
		return time.Time{}
	}
	if expr2.String() != expr.String() {
		next = expr2.Next(t.UTC())
	}
	return next
}

// String returns a human-readable representation of the schedule.
func (s *LocalTimeSchedule) String() string {
	dom := s.DayOfMonth
	if dom == "" {
		dom = "*"
	}
	dow := s.DayOfWeek
	if dow == "" {
		dow = "*"
	}
	return fmt.Sprintf("%02d:%02d %s (dom=%s dow=%s)", s.Hour, s.Minute, s.Location.String(), dom, dow)
}
