// Package main posts a single check-in prompt thread and exits. Useful for
// recovering a missed scheduled post or testing channel wiring without
// waiting for the next trigger.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/vigetlabs/slackfit/config"
	slackapi "github.com/vigetlabs/slackfit/internal/infrastructure/external/slack"
	"github.com/vigetlabs/slackfit/internal/interface/slack/presenter"
	"github.com/vigetlabs/slackfit/pkg/logger"
)

func main() {
	weekend := flag.Bool("weekend", false, "post the weekend prompt instead of the weekday prompt")
	flag.Parse()

	log := logger.Default()

	cfg, err := config.Load()
	if err != nil {
		log.Error("configuration invalid", logger.Err(err))
		os.Exit(1)
	}

	client, err := slackapi.NewClient(slackapi.DefaultClientConfig(cfg.Slack.BotToken))
	if err != nil {
		log.Error("slack client init failed", logger.Err(err))
		os.Exit(1)
	}

	text := presenter.WeekdayPrompt
	if *weekend {
		text = presenter.WeekendPrompt
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := client.PostMessage(ctx, cfg.Slack.ChannelID, text); err != nil {
		log.Error("prompt post failed", logger.ChannelID(cfg.Slack.ChannelID), logger.Err(err))
		os.Exit(1)
	}
	log.Info("prompt posted", logger.ChannelID(cfg.Slack.ChannelID))
}
