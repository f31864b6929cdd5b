// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"log/slog"

	"github.com/vigetlabs/slackfit/internal/domain/checkin"
)

// RecordCheckInCommand contains the data for one qualifying thread reply.
// Qualification (thread membership, mention filtering, bot-authored root)
// is the boundary's job; by the time a command reaches here it represents
// a valid check-in attempt.
type RecordCheckInCommand struct {
	// UserID is the Slack user who replied.
	UserID string

	// Date is the civil date bucket, taken from the thread root's date so
	// late-night replies count toward the day the thread was opened.
	Date string

	// HasMedia is true when the reply attached a photo or video.
	HasMedia bool

	// MessageTS is the Slack timestamp of the reply, the stable record key.
	MessageTS string
}

// Validate validates the command.
func (c RecordCheckInCommand) Validate() error {
	if c.UserID == "" {
		return errors.New("record_checkin: user_id is required")
	}
	if !checkin.Date(c.Date).IsValid() {
		return errors.New("record_checkin: date must be YYYY-MM-DD")
	}
	if c.MessageTS == "" {
		return errors.New("record_checkin: message_ts is required")
	}
	return nil
}

// RecordCheckInHandler handles RecordCheckInCommand.
type RecordCheckInHandler struct {
	ledger checkin.Ledger
	logger *slog.Logger
}

// NewRecordCheckInHandler creates the handler.
func NewRecordCheckInHandler(ledger checkin.Ledger, logger *slog.Logger) *RecordCheckInHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordCheckInHandler{
		ledger: ledger,
		logger: logger,
	}
}

// Handle records the check-in. A duplicate for the same (user, date) is a
// policy no-op reported through the outcome, not an error.
func (h *RecordCheckInHandler) Handle(ctx context.Context, cmd RecordCheckInCommand) (checkin.CheckInOutcome, error) {
	if err := cmd.Validate(); err != nil {
		return "", err
	}

	outcome, err := h.ledger.RecordCheckIn(ctx,
		checkin.UserID(cmd.UserID),
		checkin.Date(cmd.Date),
		cmd.HasMedia,
		cmd.MessageTS,
	)
	if err != nil {
		return "", err
	}

	if outcome == checkin.CheckInAlreadyExists {
		h.logger.Debug("duplicate check-in ignored",
			"user", cmd.UserID,
			"date", cmd.Date,
		)
	}
	return outcome, nil
}
