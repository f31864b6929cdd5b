package jobs

import (
	"time"

	"github.com/vigetlabs/slackfit/internal/infrastructure/scheduler"
)

// The standing SlackFit cadence, expressed in the channel's civil timezone.
// All four schedules re-derive their UTC trigger per firing, so they hold
// their wall-clock times across daylight-saving transitions.

// WeekdayPromptSchedule fires 08:00 local, Monday through Friday.
func WeekdayPromptSchedule(loc *time.Location) scheduler.Schedule {
	return &scheduler.LocalTimeSchedule{Minute: 0, Hour: 8, DayOfWeek: "1-5", Location: loc}
}

// WeekendPromptSchedule fires 17:00 local on Sunday, covering both weekend
// days in one thread.
func WeekendPromptSchedule(loc *time.Location) scheduler.Schedule {
	return &scheduler.LocalTimeSchedule{Minute: 0, Hour: 17, DayOfWeek: "0", Location: loc}
}

// WeeklyLeaderboardSchedule fires 08:00 local on Monday, just after the
// week boundary.
func WeeklyLeaderboardSchedule(loc *time.Location) scheduler.Schedule {
	return &scheduler.LocalTimeSchedule{Minute: 0, Hour: 8, DayOfWeek: "1", Location: loc}
}

// MonthlyLeaderboardSchedule fires 17:00 local on days 28 through 31; the
// monthly job itself skips every firing except the month's true last day.
func MonthlyLeaderboardSchedule(loc *time.Location) scheduler.Schedule {
	return &scheduler.LocalTimeSchedule{Minute: 0, Hour: 17, DayOfMonth: "28-31", Location: loc}
}
