// Package session tracks individual timed sessions: creation, completion,
// cancellation, and queries, with best-effort delegation of durable
// storage to an external get-all/save-all store.
package session

import (
	"time"

	"github.com/mossline/pomo/internal/timer"
)

// Session is one countdown's elapsed wall-clock span with its completion
// outcome.
//
// Mode is a snapshot of the engine mode at session start; it is never
// re-synced if the engine later changes mode. TaskID is an optional weak
// reference set at creation — the ledger does not validate task existence,
// that cross-check belongs to the coordinator.
type Session struct {
	ID        string
	StartTime time.Time
	EndTime   time.Time // equals StartTime until completion
	Duration  int       // whole seconds, computed at completion; 0 in flight
	Mode      timer.Mode
	TaskID    string // empty when unassociated
	Completed bool
}

// Store is the ledger's persistence contract: load everything, save
// everything. Implemented by the SQLite store in production and by
// in-memory fakes in tests.
type Store interface {
	LoadSessions() ([]Session, error)
	SaveSessions(sessions []Session) error
}
