// Package slack implements the inbound Slack boundary for SlackFit:
// normalization of raw Events API payloads into typed events, the
// check-in qualification rules, and the /whiteboard slash command.
package slack

import (
	"encoding/json"
	"strings"
)

// EventKind tags the finite set of recognized inbound event shapes.
// Anything else is EventKindUnrecognized and rejected early, instead of
// being probed field-by-field downstream.
type EventKind string

const (
	// EventKindThreadReply is a message posted as a reply inside a thread.
	EventKindThreadReply EventKind = "thread_reply"

	// EventKindReactionAdded is an emoji reaction added to a message.
	EventKindReactionAdded EventKind = "reaction_added"

	// EventKindUnrecognized is any payload the bot does not handle.
	EventKindUnrecognized EventKind = "unrecognized"
)

// ThreadReplyEvent is a normalized thread reply.
type ThreadReplyEvent struct {
	// ActorID is the user who posted the reply.
	ActorID string

	// ChannelID is the channel containing the thread.
	ChannelID string

	// ThreadTS is the timestamp of the thread root message.
	ThreadTS string

	// EventTS is the timestamp of the reply itself.
	EventTS string

	// Text is the raw message text.
	Text string

	// HasMedia is true when the reply attached an image or video.
	HasMedia bool
}

// ContainsMention reports whether the reply text carries a Slack at-mention
// marker. Replies that tag someone are conversation, not check-ins.
func (e ThreadReplyEvent) ContainsMention() bool {
	return strings.Contains(e.Text, "<@")
}

// ReactionAddedEvent is a normalized emoji reaction.
type ReactionAddedEvent struct {
	// ItemTS is the timestamp of the reacted-to message.
	ItemTS string

	// ReactorID is the user who added the reaction.
	ReactorID string

	// EventTS is the timestamp of the reaction event.
	EventTS string
}

// Event is the tagged variant over recognized inbound shapes. Exactly one
// of the payload pointers is non-nil, matching Kind.
type Event struct {
	Kind        EventKind
	ThreadReply *ThreadReplyEvent
	Reaction    *ReactionAddedEvent
}

// rawEvent mirrors the fields of Events API inner events the bot reads.
type rawEvent struct {
	Type     string `json:"type"`
	Subtype  string `json:"subtype,omitempty"`
	User     string `json:"user,omitempty"`
	Channel  string `json:"channel,omitempty"`
	Text     string `json:"text,omitempty"`
	TS       string `json:"ts,omitempty"`
	ThreadTS string `json:"thread_ts,omitempty"`
	EventTS  string `json:"event_ts,omitempty"`
	Files    []struct {
		Mimetype string `json:"mimetype,omitempty"`
	} `json:"files,omitempty"`
	Item struct {
		Type    string `json:"type,omitempty"`
		Channel string `json:"channel,omitempty"`
		TS      string `json:"ts,omitempty"`
	} `json:"item,omitempty"`
}

// NormalizeEvent converts a raw Events API inner event into a tagged Event.
// A message only normalizes to a thread reply when it actually lives inside
// a thread and is not the root itself; edits, deletions, and bot messages
// (any subtype) stay unrecognized.
func NormalizeEvent(raw json.RawMessage) Event {
	var ev rawEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return Event{Kind: EventKindUnrecognized}
	}

	switch ev.Type {
	case "message":
		if ev.Subtype != "" || ev.User == "" || ev.Channel == "" {
			return Event{Kind: EventKindUnrecognized}
		}
		if ev.ThreadTS == "" || ev.ThreadTS == ev.TS {
			return Event{Kind: EventKindUnrecognized}
		}
		return Event{
			Kind: EventKindThreadReply,
			ThreadReply: &ThreadReplyEvent{
				ActorID:   ev.User,
				ChannelID: ev.Channel,
				ThreadTS:  ev.ThreadTS,
				EventTS:   ev.TS,
				Text:      ev.Text,
				HasMedia:  hasMedia(ev),
			},
		}

	case "reaction_added":
		if ev.User == "" || ev.Item.TS == "" {
			return Event{Kind: EventKindUnrecognized}
		}
		return Event{
			Kind: EventKindReactionAdded,
			Reaction: &ReactionAddedEvent{
				ItemTS:    ev.Item.TS,
				ReactorID: ev.User,
				EventTS:   ev.EventTS,
			},
		}
	}

	return Event{Kind: EventKindUnrecognized}
}

// hasMedia reports whether any attached file is an image or video.
func hasMedia(ev rawEvent) bool {
	for _, f := range ev.Files {
		if strings.HasPrefix(f.Mimetype, "image/") || strings.HasPrefix(f.Mimetype, "video/") {
			return true
		}
	}
	return false
}
