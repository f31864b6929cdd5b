package jsonfile

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/vigetlabs/slackfit/internal/domain/checkin"
)

// An earlier iteration of the bot persisted a per-user aggregate layout:
// a top-level "users" object keyed by user ID, each holding arrays of
// check-in dates plus running reaction counters. The current layout is a
// ledger of per-check-in records, which preserves per-event audit data and
// supports reactions targeting a specific post. Because the document
// carries no version field, the layouts are distinguished structurally.

// legacyUser is one entry of the legacy "users" object.
type legacyUser struct {
	Name          string   `json:"name"`
	CheckIns      []string `json:"checkIns"`
	MediaCheckIns []string `json:"mediaCheckIns"`
	// Per-user reaction totals cannot be attributed to individual
	// check-ins, so they are dropped during migration.
	ReactionsGiven    int `json:"reactionsGiven"`
	ReactionsReceived int `json:"reactionsReceived"`
	LegacyPoints      int `json:"legacyPoints"`
}

// legacyDocument is the legacy persisted layout.
type legacyDocument struct {
	Users     map[string]legacyUser   `json:"users"`
	Reactions []checkin.ReactionEvent `json:"reactions"`
}

// decodeDocument parses raw document bytes, migrating from the legacy
// layout when detected. The second return value reports whether a
// migration happened and the result should be flushed back immediately.
func decodeDocument(data []byte) (*document, bool, error) {
	var probe struct {
		CheckIns json.RawMessage `json:"checkIns"`
		Users    json.RawMessage `json:"users"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, false, fmt.Errorf("parse document: %w", err)
	}

	if probe.CheckIns == nil && probe.Users != nil {
		doc, err := migrateLegacy(data)
		if err != nil {
			return nil, false, err
		}
		return doc, true, nil
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, false, fmt.Errorf("parse document: %w", err)
	}
	if doc.CheckIns == nil {
		doc.CheckIns = make([]checkin.CheckInRecord, 0)
	}
	if doc.Reactions == nil {
		doc.Reactions = make([]checkin.ReactionEvent, 0)
	}
	return &doc, false, nil
}

// migrateLegacy converts a legacy per-user document into the ledger layout.
// Each stored date becomes a CheckInRecord; dates present in mediaCheckIns
// keep their media bonus. Synthetic records get the date itself as their
// post timestamp since the original message timestamps were never stored.
func migrateLegacy(data []byte) (*document, error) {
	var legacy legacyDocument
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, fmt.Errorf("parse legacy document: %w", err)
	}

	doc := &document{
		CheckIns:  make([]checkin.CheckInRecord, 0),
		Reactions: legacy.Reactions,
	}
	if doc.Reactions == nil {
		doc.Reactions = make([]checkin.ReactionEvent, 0)
	}

	for userID, user := range legacy.Users {
		media := make(map[string]bool, len(user.MediaCheckIns))
		for _, date := range user.MediaCheckIns {
			media[date] = true
		}

		for _, date := range user.CheckIns {
			record, err := checkin.NewCheckInRecord(checkin.NewCheckInRecordParams{
				ID:       uuid.New().String(),
				User:     checkin.UserID(userID),
				TS:       date,
				Date:     checkin.Date(date),
				HasMedia: media[date],
			})
			if err != nil {
				return nil, fmt.Errorf("migrate user %s date %q: %w", userID, date, err)
			}
			doc.CheckIns = append(doc.CheckIns, *record)
		}
	}

	return doc, nil
}
