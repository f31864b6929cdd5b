package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vigetlabs/slackfit/internal/application/query"
	"github.com/vigetlabs/slackfit/internal/domain/checkin"
	"github.com/vigetlabs/slackfit/internal/domain/leaderboard"
	"github.com/vigetlabs/slackfit/internal/interface/slack/presenter"
	"github.com/vigetlabs/slackfit/pkg/timeutil"
)

// MonthlyLeaderboardJob posts the month's standings on its final evening.
//
// Cron has no "last day of month" field, so the schedule triggers on days
// 28 through 31 and the job itself checks whether tomorrow is the 1st. On
// any other evening in that range the run is a silent no-op.
type MonthlyLeaderboardJob struct {
	leaderboards *query.GetLeaderboardHandler
	ledger       checkin.Ledger
	poster       MessagePoster
	channelID    string
	location     *time.Location
	now          func() time.Time
	logger       *slog.Logger
}

// NewMonthlyLeaderboardJob creates the job.
func NewMonthlyLeaderboardJob(
	leaderboards *query.GetLeaderboardHandler,
	ledger checkin.Ledger,
	poster MessagePoster,
	channelID string,
	location *time.Location,
	logger *slog.Logger,
) *MonthlyLeaderboardJob {
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MonthlyLeaderboardJob{
		leaderboards: leaderboards,
		ledger:       ledger,
		poster:       poster,
		channelID:    channelID,
		location:     location,
		now:          time.Now,
		logger:       logger,
	}
}

// Name returns the unique name of the job.
func (j *MonthlyLeaderboardJob) Name() string {
	return "monthly_leaderboard"
}

// Description returns a human-readable description of the job.
func (j *MonthlyLeaderboardJob) Description() string {
	return "posts the month's leaderboard on the last day of the month"
}

// Run posts the ranking if today is the month's final day, then records the
// monthly rollover.
func (j *MonthlyLeaderboardJob) Run(ctx context.Context) error {
	now := j.now()
	if !timeutil.TomorrowIsFirstOfMonth(now, j.location) {
		j.logger.Debug("not the last day of the month, skipping")
		return nil
	}

	text := presenter.NoDataMessage
	result, err := j.leaderboards.Handle(ctx, query.GetLeaderboardQuery{
		Kind: checkin.WindowMonthly,
		Now:  now,
	})
	switch {
	case errors.Is(err, leaderboard.ErrNoData):
	case err != nil:
		return fmt.Errorf("monthly_leaderboard: %w", err)
	default:
		text = presenter.FormatLeaderboard(result.Window.Label(), result.Entries)
	}

	if err := j.poster.PostMessage(ctx, j.channelID, text); err != nil {
		return fmt.Errorf("monthly_leaderboard: post: %w", err)
	}

	if err := j.ledger.ResetWindow(ctx, checkin.WindowMonthly); err != nil {
		return fmt.Errorf("monthly_leaderboard: reset: %w", err)
	}

	j.logger.Info("monthly leaderboard posted", "channel", j.channelID)
	return nil
}
