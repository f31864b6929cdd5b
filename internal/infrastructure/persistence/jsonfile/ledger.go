// Package jsonfile implements the check-in ledger on top of a single
// file-backed JSON document.
//
// The document is the only shared mutable resource in the system, so every
// operation takes an exclusive lock, applies its change to the in-memory
// document, and flushes before releasing. The flush writes a temp file in
// the same directory and renames it over the document, so a reader never
// observes a partial write even if the process dies mid-flush.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/vigetlabs/slackfit/internal/domain/checkin"
)

// document is the persisted ledger layout. There is no schema version
// field; legacy layouts are detected structurally on first read (see
// migrate.go).
type document struct {
	CheckIns  []checkin.CheckInRecord `json:"checkIns"`
	Reactions []checkin.ReactionEvent `json:"reactions"`
}

// Ledger is the file-backed implementation of checkin.Ledger.
type Ledger struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
	doc    document
}

var _ checkin.Ledger = (*Ledger)(nil)

// Open loads the ledger document at path, creating an empty one if none
// exists. A document that exists but does not parse is fatal: scoring
// integrity depends on never silently discarding stored facts.
func Open(path string, logger *slog.Logger) (*Ledger, error) {
	if logger == nil {
		logger = slog.Default()
	}

	l := &Ledger{
		path:   path,
		logger: logger,
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		l.doc = document{
			CheckIns:  make([]checkin.CheckInRecord, 0),
			Reactions: make([]checkin.ReactionEvent, 0),
		}
		if err := l.flushLocked(); err != nil {
			return nil, fmt.Errorf("jsonfile: initialize %s: %w", path, err)
		}
		logger.Info("ledger initialized", "path", path)
		return l, nil

	case err != nil:
		return nil, fmt.Errorf("jsonfile: read %s: %w", path, err)
	}

	doc, migrated, err := decodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("jsonfile: %s: %w", path, err)
	}
	l.doc = *doc

	if migrated {
		// Persist the migrated layout immediately so the legacy document
		// is only ever parsed once.
		if err := l.flushLocked(); err != nil {
			return nil, fmt.Errorf("jsonfile: persist migration of %s: %w", path, err)
		}
		logger.Info("ledger migrated from legacy schema",
			"path", path,
			"check_ins", len(l.doc.CheckIns),
		)
	}

	return l, nil
}

// Path returns the location of the backing document.
func (l *Ledger) Path() string {
	return l.path
}

// RecordCheckIn stores a check-in for (user, date). A record already
// existing for that pair is a policy no-op, reported via the outcome.
func (l *Ledger) RecordCheckIn(ctx context.Context, user checkin.UserID, date checkin.Date, hasMedia bool, ts string) (checkin.CheckInOutcome, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.doc.CheckIns {
		if l.doc.CheckIns[i].User == user && l.doc.CheckIns[i].Date == date {
			return checkin.CheckInAlreadyExists, nil
		}
	}

	record, err := checkin.NewCheckInRecord(checkin.NewCheckInRecordParams{
		ID:       uuid.New().String(),
		User:     user,
		TS:       ts,
		Date:     date,
		HasMedia: hasMedia,
	})
	if err != nil {
		return "", fmt.Errorf("jsonfile: record check-in: %w", err)
	}

	l.doc.CheckIns = append(l.doc.CheckIns, *record)
	if err := l.flushLocked(); err != nil {
		// Roll back the in-memory append so memory matches disk.
		l.doc.CheckIns = l.doc.CheckIns[:len(l.doc.CheckIns)-1]
		return "", err
	}

	l.logger.Info("check-in recorded",
		"user", user.String(),
		"date", date.String(),
		"has_media", hasMedia,
		"points", record.Points,
	)
	return checkin.CheckInCreated, nil
}

// RecordReaction increments the matched check-in's reaction counter and
// appends a ReactionEvent. Self-reactions and reactions with no matching
// check-in are policy no-ops reported via the outcome.
func (l *Ledger) RecordReaction(ctx context.Context, poster, reactor checkin.UserID, postTS, eventTS string) (checkin.ReactionOutcome, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if poster == reactor {
		return checkin.ReactionRejectedSelf, nil
	}

	idx := -1
	for i := range l.doc.CheckIns {
		if l.doc.CheckIns[i].TS == postTS && l.doc.CheckIns[i].User == poster {
			idx = i
			break
		}
	}
	if idx < 0 {
		return checkin.ReactionRejectedNoCheckIn, nil
	}

	before := l.doc.CheckIns[idx]
	l.doc.CheckIns[idx].ApplyReaction()
	l.doc.Reactions = append(l.doc.Reactions, checkin.ReactionEvent{
		ID:      uuid.New().String(),
		User:    poster,
		PostTS:  postTS,
		Reactor: reactor,
		TS:      eventTS,
	})

	if err := l.flushLocked(); err != nil {
		l.doc.CheckIns[idx] = before
		l.doc.Reactions = l.doc.Reactions[:len(l.doc.Reactions)-1]
		return "", err
	}

	l.logger.Info("reaction recorded",
		"poster", poster.String(),
		"reactor", reactor.String(),
		"post_ts", postTS,
		"reactions_received", l.doc.CheckIns[idx].ReactionsReceived,
		"points", l.doc.CheckIns[idx].Points,
	)
	return checkin.ReactionApplied, nil
}

// CheckInByTS returns the record posted at postTS.
func (l *Ledger) CheckInByTS(ctx context.Context, postTS string) (*checkin.CheckInRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.doc.CheckIns {
		if l.doc.CheckIns[i].TS == postTS {
			record := l.doc.CheckIns[i]
			return &record, nil
		}
	}
	return nil, checkin.ErrLedgerNotFound
}

// CheckInsByDate returns all check-ins for one civil date, in ledger order.
func (l *Ledger) CheckInsByDate(ctx context.Context, date checkin.Date) ([]checkin.CheckInRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	records := make([]checkin.CheckInRecord, 0)
	for _, r := range l.doc.CheckIns {
		if r.Date == date {
			records = append(records, r)
		}
	}
	return records, nil
}

// All returns a copy of the entire ledger.
func (l *Ledger) All(ctx context.Context) (*checkin.Snapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	snap := &checkin.Snapshot{
		CheckIns:  make([]checkin.CheckInRecord, len(l.doc.CheckIns)),
		Reactions: make([]checkin.ReactionEvent, len(l.doc.Reactions)),
	}
	copy(snap.CheckIns, l.doc.CheckIns)
	copy(snap.Reactions, l.doc.Reactions)
	return snap, nil
}

// ResetWindow marks a window rollover. Historical records are retained
// permanently and window leaderboards filter by date range, so there is
// nothing to clear here beyond logging the rollover.
func (l *Ledger) ResetWindow(ctx context.Context, kind checkin.WindowKind) error {
	l.logger.Info("aggregation window rolled over", "window", string(kind))
	return nil
}

// flushLocked serializes the document and atomically replaces the backing
// file. Callers must hold l.mu.
func (l *Ledger) flushLocked() error {
	data, err := json.MarshalIndent(&l.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonfile: marshal document: %w", err)
	}

	dir := filepath.Dir(l.path)
	tmp, err := os.CreateTemp(dir, ".ledger-*.json")
	if err != nil {
		return fmt.Errorf("jsonfile: create temp document: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("jsonfile: write temp document: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("jsonfile: sync temp document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("jsonfile: close temp document: %w", err)
	}

	if err := os.Rename(tmpName, l.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("jsonfile: replace document: %w", err)
	}
	return nil
}
