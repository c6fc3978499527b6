package session

import (
	"log/slog"
	"sort"
	"time"

	"github.com/mossline/pomo/internal/timer"
)

// Ledger owns the live set of sessions and delegates durability to a
// Store.
//
// Persistence policy: the ledger favors availability over durability. A
// load failure at construction yields an empty set instead of an error; a
// save failure is logged (and reported through the persist-error handler,
// if one is set) and the in-memory mutation stands. The in-memory record —
// in particular a session's completion timestamp — is authoritative and is
// never rolled back because a write failed.
//
// The ledger introduces no concurrency of its own; like the engine, it
// expects a single logical thread of control.
type Ledger struct {
	store          Store
	ids            IDGenerator
	now            func() time.Time
	onPersistError func(error)
	sessions       map[string]*Session
}

// LedgerOption configures a Ledger at construction.
type LedgerOption func(*Ledger)

// WithNow replaces the wall clock, for deterministic duration tests.
func WithNow(now func() time.Time) LedgerOption {
	return func(l *Ledger) {
		l.now = now
	}
}

// WithPersistErrorHandler surfaces save failures to an observability layer
// in addition to the log line. The handler runs synchronously after the
// failed save; the mutation it reports on has already been committed in
// memory.
func WithPersistErrorHandler(fn func(error)) LedgerOption {
	return func(l *Ledger) {
		l.onPersistError = fn
	}
}

// NewLedger creates a ledger backed by store, rehydrating any previously
// saved sessions. A load failure is logged and yields an empty set — the
// ledger never fails construction.
func NewLedger(store Store, ids IDGenerator, opts ...LedgerOption) *Ledger {
	l := &Ledger{
		store:    store,
		ids:      ids,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(l)
	}

	loaded, err := store.LoadSessions()
	if err != nil {
		slog.Warn("session: load failed, starting with empty ledger", "error", err)
		return l
	}
	for _, s := range loaded {
		s := s
		l.sessions[s.ID] = &s
	}
	return l
}

// StartSession creates and persists a new in-flight session and returns
// its id. taskID may be empty. Always succeeds.
func (l *Ledger) StartSession(mode timer.Mode, taskID string) string {
	now := l.now()
	s := &Session{
		ID:        l.ids.Generate(),
		StartTime: now,
		EndTime:   now,
		Mode:      mode,
		TaskID:    taskID,
	}
	l.sessions[s.ID] = s
	l.persist()
	return s.ID
}

// CompleteSession stamps the end time, computes the duration in whole
// seconds, sets the completion outcome, persists, and returns a copy of
// the updated record. Returns nil for an unknown id — an expected outcome
// of normal races, not an error.
func (l *Ledger) CompleteSession(id string, completed bool) *Session {
	s, ok := l.sessions[id]
	if !ok {
		return nil
	}
	s.EndTime = l.now()
	s.Duration = int(s.EndTime.Sub(s.StartTime) / time.Second)
	s.Completed = completed
	l.persist()

	out := *s
	return &out
}

// CancelSession hard-deletes the record and reports whether it existed.
func (l *Ledger) CancelSession(id string) bool {
	if _, ok := l.sessions[id]; !ok {
		return false
	}
	delete(l.sessions, id)
	l.persist()
	return true
}

// ClearSessionsBefore removes every session that started before cutoff and
// returns the number removed.
func (l *Ledger) ClearSessionsBefore(cutoff time.Time) int {
	removed := 0
	for id, s := range l.sessions {
		if s.StartTime.Before(cutoff) {
			delete(l.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		l.persist()
	}
	return removed
}

// AllSessions returns copies of every session, ordered by start time then
// id.
func (l *Ledger) AllSessions() []Session {
	return l.collect(func(*Session) bool { return true })
}

// SessionsOn returns sessions whose start falls on the same calendar day
// as date, in date's location.
func (l *Ledger) SessionsOn(date time.Time) []Session {
	y, m, d := date.Date()
	return l.collect(func(s *Session) bool {
		sy, sm, sd := s.StartTime.In(date.Location()).Date()
		return sy == y && sm == m && sd == d
	})
}

// SessionsBetween returns sessions started within [from, to], bounds
// inclusive.
func (l *Ledger) SessionsBetween(from, to time.Time) []Session {
	return l.collect(func(s *Session) bool {
		return !s.StartTime.Before(from) && !s.StartTime.After(to)
	})
}

// SessionsForTask returns sessions associated with taskID at creation.
func (l *Ledger) SessionsForTask(taskID string) []Session {
	return l.collect(func(s *Session) bool { return s.TaskID == taskID })
}

// CompletedSessions returns sessions completed with a true outcome.
func (l *Ledger) CompletedSessions() []Session {
	return l.collect(func(s *Session) bool { return s.Completed })
}

// collect snapshots matching sessions into a fresh, sorted slice. Callers
// never see the live backing collection.
func (l *Ledger) collect(match func(*Session) bool) []Session {
	out := make([]Session, 0, len(l.sessions))
	for _, s := range l.sessions {
		if match(s) {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].StartTime.Before(out[j].StartTime)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (l *Ledger) persist() {
	if err := l.store.SaveSessions(l.AllSessions()); err != nil {
		slog.Error("session: save failed", "error", err)
		if l.onPersistError != nil {
			l.onPersistError(err)
		}
	}
}
