package checkin

// Scoring policy constants. These are fixed policy, not runtime
// configuration: changing them changes what historical cached point totals
// mean, so they are compiled in.
const (
	// DailyCheckInPoints is awarded for every qualifying check-in.
	DailyCheckInPoints = 5

	// MediaBonusPoints is added when the check-in includes a photo or video.
	MediaBonusPoints = 5

	// ReactionPoint is awarded per reaction received, up to the cap.
	ReactionPoint = 1

	// MaxReactionPoints caps the reaction contribution per check-in.
	MaxReactionPoints = 5
)

// CheckInPoints returns the base points for a record: the daily award plus
// the media bonus when applicable.
func CheckInPoints(r *CheckInRecord) int {
	points := DailyCheckInPoints
	if r.HasMedia {
		points += MediaBonusPoints
	}
	return points
}

// ReactionContribution returns the capped point contribution for a raw
// reaction count. Deterministic and order-independent: only the count
// matters, not the sequence of reactions.
func ReactionContribution(reactionsReceived int) int {
	if reactionsReceived > MaxReactionPoints {
		reactionsReceived = MaxReactionPoints
	}
	if reactionsReceived < 0 {
		return 0
	}
	return reactionsReceived * ReactionPoint
}

// TotalPoints returns the full point total for a record.
func TotalPoints(r *CheckInRecord) int {
	return CheckInPoints(r) + ReactionContribution(r.ReactionsReceived)
}
