// Package main is the entry point for the SlackFit bot.
//
// SlackFit keeps an exercise channel honest: scheduled check-in threads,
// points for replies and reactions, and weekly and monthly leaderboards.
//
// The architecture follows Clean Architecture and DDD:
// - Domain: scoring rules and ledger semantics, no external dependencies
// - Application: use case orchestration (Commands/Queries)
// - Infrastructure: JSON file ledger, Slack Web API, scheduler, Redis cache
// - Interface: Slack Events API intake and slash commands
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vigetlabs/slackfit/config"
	"github.com/vigetlabs/slackfit/internal/application/command"
	"github.com/vigetlabs/slackfit/internal/application/query"
	"github.com/vigetlabs/slackfit/internal/domain/leaderboard"
	slackapi "github.com/vigetlabs/slackfit/internal/infrastructure/external/slack"
	"github.com/vigetlabs/slackfit/internal/infrastructure/persistence/jsonfile"
	redisstore "github.com/vigetlabs/slackfit/internal/infrastructure/persistence/redis"
	"github.com/vigetlabs/slackfit/internal/infrastructure/scheduler"
	"github.com/vigetlabs/slackfit/internal/infrastructure/scheduler/jobs"
	slackintake "github.com/vigetlabs/slackfit/internal/interface/slack"
	"github.com/vigetlabs/slackfit/internal/interface/slack/presenter"
	"github.com/vigetlabs/slackfit/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		logger.Default().Error("configuration invalid", logger.Err(err))
		return err
	}

	log := newLogger(cfg)
	slogger := newSlog(cfg)

	log.Info("starting slackfit",
		logger.String("version", cfg.App.Version),
		logger.String("environment", string(cfg.App.Environment)),
		logger.String("timezone", cfg.App.Timezone),
		logger.ChannelID(cfg.Slack.ChannelID),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Ledger
	ledger, err := jsonfile.Open(cfg.Ledger.Path, slogger)
	if err != nil {
		log.Error("ledger open failed", logger.String("path", cfg.Ledger.Path), logger.Err(err))
		return err
	}
	log.Info("ledger open", logger.String("path", cfg.Ledger.Path))

	// Slack client
	slackCfg := slackapi.DefaultClientConfig(cfg.Slack.BotToken)
	if cfg.Slack.BaseURL != "" {
		slackCfg.BaseURL = cfg.Slack.BaseURL
	}
	slackCfg.Timeout = cfg.Slack.Timeout
	slackCfg.RetryAttempts = cfg.Slack.RetryAttempts
	slackCfg.Logger = slogger
	slackClient, err := slackapi.NewClient(slackCfg)
	if err != nil {
		log.Error("slack client init failed", logger.Err(err))
		return err
	}

	// Display name resolution, optionally cached in Redis.
	var resolver leaderboard.NameResolver = slackClient
	if cfg.Redis.Enabled {
		redisCfg := redisstore.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB

		cache, err := redisstore.NewCache(ctx, redisCfg)
		if err != nil {
			// The cache is an optimization; run uncached rather than refuse
			// to start.
			log.Warn("redis unavailable, name caching disabled", logger.Err(err))
		} else {
			defer cache.Close()
			resolver = redisstore.NewNameCache(cache, slackClient, cfg.Redis.NameTTL, slogger)
			log.Info("redis name cache enabled", logger.String("addr", redisCfg.Addr()))
		}
	}

	// Application layer
	checkIns := command.NewRecordCheckInHandler(ledger, slogger)
	reactions := command.NewRecordReactionHandler(ledger, slogger)
	leaderboards := query.NewGetLeaderboardHandler(ledger, resolver, cfg.App.Location, slogger)

	// Scheduled jobs
	sched := scheduler.New(slogger)
	loc := cfg.App.Location
	registrations := []struct {
		job      scheduler.Job
		schedule scheduler.Schedule
	}{
		{jobs.NewWeekdayThreadJob(slackClient, cfg.Slack.ChannelID, presenter.WeekdayPrompt, slogger), jobs.WeekdayPromptSchedule(loc)},
		{jobs.NewWeekendThreadJob(slackClient, cfg.Slack.ChannelID, presenter.WeekendPrompt, slogger), jobs.WeekendPromptSchedule(loc)},
		{jobs.NewWeeklyLeaderboardJob(leaderboards, ledger, slackClient, cfg.Slack.ChannelID, loc, slogger), jobs.WeeklyLeaderboardSchedule(loc)},
		{jobs.NewMonthlyLeaderboardJob(leaderboards, ledger, slackClient, cfg.Slack.ChannelID, loc, slogger), jobs.MonthlyLeaderboardSchedule(loc)},
	}
	for _, r := range registrations {
		if err := sched.Register(r.job, r.schedule); err != nil {
			log.Error("job registration failed", logger.JobName(r.job.Name()), logger.Err(err))
			return err
		}
	}
	if err := sched.Start(ctx); err != nil {
		log.Error("scheduler start failed", logger.Err(err))
		return err
	}
	defer sched.Stop()

	// HTTP intake
	eventHandler := slackintake.NewHandler(slackClient, checkIns, reactions, cfg.Slack.ChannelID, loc, slogger)
	whiteboard := slackintake.NewWhiteboardHandler(leaderboards, slogger)

	serverCfg := slackintake.DefaultServerConfig()
	serverCfg.Host = cfg.Server.Host
	serverCfg.Port = cfg.Server.Port
	server := slackintake.NewServer(serverCfg, eventHandler, whiteboard, log)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			log.Error("server failed", logger.Err(err))
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", logger.Err(err))
		return err
	}

	log.Info("slackfit stopped")
	return nil
}

// newLogger builds the top-level structured logger.
func newLogger(cfg *config.Config) *logger.Logger {
	opts := logger.DefaultOptions()
	opts.Level = logger.ParseLevel(cfg.App.LogLevel)
	return logger.New(opts)
}

// newSlog builds the slog logger injected into internal layers.
func newSlog(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.App.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
