package slack

import (
	"context"
	"log/slog"
	"time"

	"github.com/vigetlabs/slackfit/internal/application/command"
	slackapi "github.com/vigetlabs/slackfit/internal/infrastructure/external/slack"
	"github.com/vigetlabs/slackfit/pkg/timeutil"
)

// Gateway is the subset of the Slack client the event handler needs to
// qualify a thread reply as a check-in.
type Gateway interface {
	// BotUserID returns the bot account's own user id.
	BotUserID(ctx context.Context) (string, error)

	// ThreadRoot fetches the root message of a thread.
	ThreadRoot(ctx context.Context, channel, threadTS string) (*slackapi.ThreadRootMessage, error)
}

// Handler routes normalized events into application commands. It owns the
// qualification rules: only replies in the exercise channel, inside a
// bot-started thread, without at-mentions, become check-ins.
type Handler struct {
	gateway   Gateway
	checkIns  *command.RecordCheckInHandler
	reactions *command.RecordReactionHandler
	channelID string
	location  *time.Location
	logger    *slog.Logger
}

// NewHandler creates the event handler. channelID is the exercise channel;
// events from every other channel are ignored.
func NewHandler(
	gateway Gateway,
	checkIns *command.RecordCheckInHandler,
	reactions *command.RecordReactionHandler,
	channelID string,
	location *time.Location,
	logger *slog.Logger,
) *Handler {
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		gateway:   gateway,
		checkIns:  checkIns,
		reactions: reactions,
		channelID: channelID,
		location:  location,
		logger:    logger,
	}
}

// HandleEvent dispatches one normalized event. Events that fail the
// qualification rules are dropped without error; only infrastructure
// faults (storage, credential lookup) propagate.
func (h *Handler) HandleEvent(ctx context.Context, ev Event) error {
	switch ev.Kind {
	case EventKindThreadReply:
		return h.handleThreadReply(ctx, *ev.ThreadReply)
	case EventKindReactionAdded:
		return h.handleReaction(ctx, *ev.Reaction)
	default:
		h.logger.Debug("unrecognized event ignored")
		return nil
	}
}

func (h *Handler) handleThreadReply(ctx context.Context, ev ThreadReplyEvent) error {
	if ev.ChannelID != h.channelID {
		return nil
	}
	if ev.ContainsMention() {
		h.logger.Debug("reply with mention ignored", "user", ev.ActorID)
		return nil
	}

	root, err := h.gateway.ThreadRoot(ctx, ev.ChannelID, ev.ThreadTS)
	if err != nil {
		// Without the root the reply cannot be qualified; skip it rather
		// than failing the whole event stream.
		h.logger.Warn("thread root lookup failed",
			"channel", ev.ChannelID,
			"thread_ts", ev.ThreadTS,
			"error", err,
		)
		return nil
	}

	botID, err := h.gateway.BotUserID(ctx)
	if err != nil {
		return err
	}
	if root.AuthorID != botID {
		h.logger.Debug("reply outside bot thread ignored", "user", ev.ActorID)
		return nil
	}

	outcome, err := h.checkIns.Handle(ctx, command.RecordCheckInCommand{
		UserID:    ev.ActorID,
		Date:      h.checkInDate(root.TS, ev.EventTS),
		HasMedia:  ev.HasMedia,
		MessageTS: ev.EventTS,
	})
	if err != nil {
		return err
	}

	h.logger.Info("thread reply processed",
		"user", ev.ActorID,
		"outcome", string(outcome),
	)
	return nil
}

func (h *Handler) handleReaction(ctx context.Context, ev ReactionAddedEvent) error {
	outcome, err := h.reactions.Handle(ctx, command.RecordReactionCommand{
		ReactorID: ev.ReactorID,
		PostTS:    ev.ItemTS,
		EventTS:   ev.EventTS,
	})
	if err != nil {
		return err
	}

	h.logger.Debug("reaction processed",
		"reactor", ev.ReactorID,
		"outcome", string(outcome),
	)
	return nil
}

// checkInDate derives the civil date bucket from the thread root timestamp,
// so a reply posted after midnight still counts toward the day the prompt
// went out. The reply's own timestamp is the fallback for malformed roots.
func (h *Handler) checkInDate(rootTS, replyTS string) string {
	if t := timeutil.SlackTimestampTime(rootTS); !t.IsZero() {
		return timeutil.CivilDate(t, h.location)
	}
	if t := timeutil.SlackTimestampTime(replyTS); !t.IsZero() {
		return timeutil.CivilDate(t, h.location)
	}
	return timeutil.CivilDate(time.Now(), h.location)
}
