// Package jobs contains the scheduled jobs that drive SlackFit's cadence:
// the daily and weekend check-in prompts and the weekly and monthly
// leaderboard posts.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
)

// MessagePoster posts plain text to a channel.
type MessagePoster interface {
	PostMessage(ctx context.Context, channel, text string) error
}

// PostThreadJob posts a check-in prompt to the exercise channel. Members
// reply in the resulting thread; the prompt message is the thread root the
// event handler later validates against.
type PostThreadJob struct {
	name      string
	text      string
	poster    MessagePoster
	channelID string
	logger    *slog.Logger
}

// NewWeekdayThreadJob creates the Monday-through-Friday morning prompt job.
func NewWeekdayThreadJob(poster MessagePoster, channelID, text string, logger *slog.Logger) *PostThreadJob {
	return newPostThreadJob("weekday_checkin_thread", poster, channelID, text, logger)
}

// NewWeekendThreadJob creates the Sunday evening prompt job covering both
// weekend days.
func NewWeekendThreadJob(poster MessagePoster, channelID, text string, logger *slog.Logger) *PostThreadJob {
	return newPostThreadJob("weekend_checkin_thread", poster, channelID, text, logger)
}

func newPostThreadJob(name string, poster MessagePoster, channelID, text string, logger *slog.Logger) *PostThreadJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostThreadJob{
		name:      name,
		text:      text,
		poster:    poster,
		channelID: channelID,
		logger:    logger,
	}
}

// Name returns the unique name of the job.
func (j *PostThreadJob) Name() string {
	return j.name
}

// Description returns a human-readable description of the job.
func (j *PostThreadJob) Description() string {
	return fmt.Sprintf("posts a check-in prompt thread to %s", j.channelID)
}

// Run posts the prompt. Post failure propagates so the scheduler logs it;
// the prompt is not retried until the next scheduled firing.
func (j *PostThreadJob) Run(ctx context.Context) error {
	if err := j.poster.PostMessage(ctx, j.channelID, j.text); err != nil {
		return fmt.Errorf("%s: %w", j.name, err)
	}
	j.logger.Info("check-in prompt posted",
		"job", j.name,
		"channel", j.channelID,
	)
	return nil
}
