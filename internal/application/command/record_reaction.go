package command

import (
	"context"
	"errors"
	"log/slog"

	"github.com/vigetlabs/slackfit/internal/domain/checkin"
)

// RecordReactionCommand contains the data for one observed reaction.
// The poster is not part of the command: it is resolved from the ledger
// by the reacted-to post timestamp, and reactions to posts that are not
// check-ins are silently ignored.
type RecordReactionCommand struct {
	// ReactorID is the user who added the reaction.
	ReactorID string

	// PostTS is the Slack timestamp of the reacted-to message.
	PostTS string

	// EventTS is the Slack timestamp of the reaction event.
	EventTS string
}

// Validate validates the command.
func (c RecordReactionCommand) Validate() error {
	if c.ReactorID == "" {
		return errors.New("record_reaction: reactor_id is required")
	}
	if c.PostTS == "" {
		return errors.New("record_reaction: post_ts is required")
	}
	return nil
}

// RecordReactionHandler handles RecordReactionCommand.
type RecordReactionHandler struct {
	ledger checkin.Ledger
	logger *slog.Logger
}

// NewRecordReactionHandler creates the handler.
func NewRecordReactionHandler(ledger checkin.Ledger, logger *slog.Logger) *RecordReactionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordReactionHandler{
		ledger: ledger,
		logger: logger,
	}
}

// Handle applies the reaction to the matching check-in. Self-reactions and
// reactions to non-check-in posts are policy no-ops reported through the
// outcome, not errors.
func (h *RecordReactionHandler) Handle(ctx context.Context, cmd RecordReactionCommand) (checkin.ReactionOutcome, error) {
	if err := cmd.Validate(); err != nil {
		return "", err
	}

	record, err := h.ledger.CheckInByTS(ctx, cmd.PostTS)
	if errors.Is(err, checkin.ErrLedgerNotFound) {
		return checkin.ReactionRejectedNoCheckIn, nil
	}
	if err != nil {
		return "", err
	}

	outcome, err := h.ledger.RecordReaction(ctx,
		record.User,
		checkin.UserID(cmd.ReactorID),
		cmd.PostTS,
		cmd.EventTS,
	)
	if err != nil {
		return "", err
	}

	if outcome == checkin.ReactionRejectedSelf {
		h.logger.Debug("self-reaction ignored",
			"user", cmd.ReactorID,
			"post_ts", cmd.PostTS,
		)
	}
	return outcome, nil
}
