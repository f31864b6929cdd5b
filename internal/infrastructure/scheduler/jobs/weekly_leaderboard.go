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
)

// WeeklyLeaderboardJob posts the closing week's standings Monday morning,
// then marks the weekly rollover on the ledger.
//
// The job fires after the week boundary, so the ranking is computed for the
// window containing the last instant of the finished week, not the window
// containing the firing time.
type WeeklyLeaderboardJob struct {
	leaderboards *query.GetLeaderboardHandler
	ledger       checkin.Ledger
	poster       MessagePoster
	channelID    string
	location     *time.Location
	now          func() time.Time
	logger       *slog.Logger
}

// NewWeeklyLeaderboardJob creates the job.
func NewWeeklyLeaderboardJob(
	leaderboards *query.GetLeaderboardHandler,
	ledger checkin.Ledger,
	poster MessagePoster,
	channelID string,
	location *time.Location,
	logger *slog.Logger,
) *WeeklyLeaderboardJob {
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &WeeklyLeaderboardJob{
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
func (j *WeeklyLeaderboardJob) Name() string {
	return "weekly_leaderboard"
}

// Description returns a human-readable description of the job.
func (j *WeeklyLeaderboardJob) Description() string {
	return "posts the finished week's leaderboard and rolls the weekly window"
}

// Run posts the ranking and records the rollover. The rollover marker is
// skipped if the post fails, so a transient Slack outage leaves the week
// unposted rather than silently closed.
func (j *WeeklyLeaderboardJob) Run(ctx context.Context) error {
	// Anchor inside the week that just ended.
	anchor := j.now().In(j.location).Add(-24 * time.Hour)

	text := presenter.NoDataMessage
	result, err := j.leaderboards.Handle(ctx, query.GetLeaderboardQuery{
		Kind: checkin.WindowWeekly,
		Now:  anchor,
	})
	switch {
	case errors.Is(err, leaderboard.ErrNoData):
		// Post the no-data message anyway so the cadence stays visible.
	case err != nil:
		return fmt.Errorf("weekly_leaderboard: %w", err)
	default:
		text = presenter.FormatLeaderboard(result.Window.Label(), result.Entries)
	}

	if err := j.poster.PostMessage(ctx, j.channelID, text); err != nil {
		return fmt.Errorf("weekly_leaderboard: post: %w", err)
	}

	if err := j.ledger.ResetWindow(ctx, checkin.WindowWeekly); err != nil {
		return fmt.Errorf("weekly_leaderboard: reset: %w", err)
	}

	j.logger.Info("weekly leaderboard posted", "channel", j.channelID)
	return nil
}
