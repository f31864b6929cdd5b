package checkin

import "context"

// CheckInOutcome is the result of a RecordCheckIn call.
type CheckInOutcome string

const (
	// CheckInCreated means a new record was stored.
	CheckInCreated CheckInOutcome = "created"

	// CheckInAlreadyExists means the user already checked in for that date.
	// This is a policy no-op, not a fault.
	CheckInAlreadyExists CheckInOutcome = "already_exists"
)

// ReactionOutcome is the result of a RecordReaction call.
type ReactionOutcome string

const (
	// ReactionApplied means the reaction was counted and logged.
	ReactionApplied ReactionOutcome = "applied"

	// ReactionRejectedSelf means the reactor reacted to their own post.
	ReactionRejectedSelf ReactionOutcome = "rejected_self"

	// ReactionRejectedNoCheckIn means no check-in matched the post timestamp.
	ReactionRejectedNoCheckIn ReactionOutcome = "rejected_no_checkin"
)

// WindowKind names an aggregation window for reset purposes.
type WindowKind string

const (
	// WindowWeekly is the Monday-to-Sunday aggregation window.
	WindowWeekly WindowKind = "weekly"

	// WindowMonthly is the calendar-month aggregation window.
	WindowMonthly WindowKind = "monthly"
)

// Snapshot is a point-in-time copy of the whole ledger. Mutating a snapshot
// never affects stored state.
type Snapshot struct {
	CheckIns  []CheckInRecord
	Reactions []ReactionEvent
}

// Ledger is the durable store of all check-in and reaction facts. Every
// operation is an atomic read-modify-write over a single backing document:
// implementations must serialize operations so two interleaved mutations
// cannot overwrite each other's update.
//
// Policy rejections (duplicate check-in, self-reaction, reaction with no
// matching check-in) are reported through the outcome value with a nil
// error. A non-nil error always means a storage fault and must not be
// swallowed by callers.
type Ledger interface {
	// RecordCheckIn stores a check-in for (user, date) unless one already
	// exists, in which case it is a no-op.
	RecordCheckIn(ctx context.Context, user UserID, date Date, hasMedia bool, ts string) (CheckInOutcome, error)

	// RecordReaction increments the reaction counter of the check-in posted
	// by poster at postTS and appends a ReactionEvent.
	RecordReaction(ctx context.Context, poster, reactor UserID, postTS, eventTS string) (ReactionOutcome, error)

	// CheckInByTS returns the check-in record with the given post
	// timestamp, or ErrLedgerNotFound.
	CheckInByTS(ctx context.Context, postTS string) (*CheckInRecord, error)

	// CheckInsByDate returns all check-ins for one civil date.
	CheckInsByDate(ctx context.Context, date Date) ([]CheckInRecord, error)

	// All returns a snapshot of the entire ledger.
	All(ctx context.Context) (*Snapshot, error)

	// ResetWindow marks the rollover of an aggregation window. Historical
	// records are retained permanently; window leaderboards are computed by
	// filtering record dates, so the rollover does not delete anything.
	ResetWindow(ctx context.Context, kind WindowKind) error
}
