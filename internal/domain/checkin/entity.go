// Package checkin contains the domain model for daily exercise check-ins
// and the reactions they receive. A check-in is one qualifying reply in the
// tracked exercise thread, attributable to one user and one civil date.
// This is a pure domain layer with zero external dependencies.
package checkin

import (
	"errors"
	"time"
)

// Domain errors for the checkin package.
var (
	ErrInvalidUserID  = errors.New("checkin: invalid user ID")
	ErrInvalidDate    = errors.New("checkin: invalid civil date")
	ErrInvalidPostTS  = errors.New("checkin: invalid post timestamp")
	ErrLedgerCorrupt  = errors.New("checkin: ledger document is corrupt")
	ErrLedgerNotFound = errors.New("checkin: no matching check-in")
)

// UserID represents a Slack user identifier (e.g. "U123ABC").
type UserID string

// IsValid checks if the user ID is valid.
func (u UserID) IsValid() bool {
	return u != ""
}

// String returns the string representation of UserID.
func (u UserID) String() string {
	return string(u)
}

// Date represents a civil date string (YYYY-MM-DD) in the thread's
// wall-clock timezone. It is the aggregation bucket for check-ins.
type Date string

// dateLayout matches the civil date format.
const dateLayout = "2006-01-02"

// IsValid checks that the date parses as YYYY-MM-DD.
func (d Date) IsValid() bool {
	_, err := time.Parse(dateLayout, string(d))
	return err == nil
}

// String returns the string representation of Date.
func (d Date) String() string {
	return string(d)
}

// Time returns the date as a time.Time at midnight in the given location.
func (d Date) Time(loc *time.Location) time.Time {
	t, err := time.ParseInLocation(dateLayout, string(d), loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

// CheckInRecord is one qualifying daily check-in. There is at most one
// record per (user, date) pair; a second attempt for the same date is a
// no-op, never an update. Records are only ever mutated by reactions
// targeting them and are never deleted by window resets.
type CheckInRecord struct {
	// ID is a generated unique identifier for the record.
	ID string `json:"id"`

	// User is the Slack user who checked in.
	User UserID `json:"user"`

	// TS is the Slack timestamp of the check-in message. It is the stable
	// key reactions resolve against.
	TS string `json:"ts"`

	// Date is the civil date bucket the check-in counts toward.
	Date Date `json:"date"`

	// HasMedia is true when the check-in included a photo or video.
	HasMedia bool `json:"hasMedia"`

	// ReactionsReceived is the raw number of reactions this record has
	// received. Stored unbounded for audit; the point contribution is
	// capped by the scoring policy.
	ReactionsReceived int `json:"reactionsReceived"`

	// Points is the cached point total for this record, recomputed on
	// every mutation.
	Points int `json:"points"`
}

// NewCheckInRecordParams holds parameters for NewCheckInRecord.
type NewCheckInRecordParams struct {
	ID       string
	User     UserID
	TS       string
	Date     Date
	HasMedia bool
}

// NewCheckInRecord creates a validated check-in record with its point
// total already cached.
func NewCheckInRecord(p NewCheckInRecordParams) (*CheckInRecord, error) {
	if !p.User.IsValid() {
		return nil, ErrInvalidUserID
	}
	if !p.Date.IsValid() {
		return nil, ErrInvalidDate
	}
	if p.TS == "" {
		return nil, ErrInvalidPostTS
	}

	r := &CheckInRecord{
		ID:       p.ID,
		User:     p.User,
		TS:       p.TS,
		Date:     p.Date,
		HasMedia: p.HasMedia,
	}
	r.Points = TotalPoints(r)
	return r, nil
}

// ApplyReaction increments the raw reaction counter and recomputes the
// cached point total. The counter itself is unbounded; the cap applies
// only to points.
func (r *CheckInRecord) ApplyReaction() {
	r.ReactionsReceived++
	r.Points = TotalPoints(r)
}

// ReactionEvent is an append-only log entry recording that Reactor reacted
// to the check-in User posted at PostTS. Self-reactions are rejected before
// any mutation, so no stored event ever has Reactor == User. Duplicate
// reactions from the same reactor to the same post are not deduplicated.
type ReactionEvent struct {
	// ID is a generated unique identifier for the event.
	ID string `json:"id"`

	// User is the author of the post that was reacted to.
	User UserID `json:"user"`

	// PostTS is the Slack timestamp of the reacted-to check-in.
	PostTS string `json:"postTs"`

	// Reactor is the user who added the reaction.
	Reactor UserID `json:"reactor"`

	// TS is the Slack timestamp of the reaction event itself.
	TS string `json:"ts"`
}

// IsSelfReaction reports whether the reactor is reacting to their own post.
func (e ReactionEvent) IsSelfReaction() bool {
	return e.Reactor == e.User
}
