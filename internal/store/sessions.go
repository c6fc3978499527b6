package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mossline/pomo/internal/session"
	"github.com/mossline/pomo/internal/timer"
)

// Timestamps round-trip as RFC 3339 strings with sub-second precision
// preserved; durations are whole seconds regardless.
const timeLayout = time.RFC3339Nano

// LoadSessions returns every persisted session, rehydrating timestamps
// from their string form. Implements session.Store.
func (s *Store) LoadSessions() ([]session.Session, error) {
	rows, err := s.db.Query(`
		SELECT id, start_time, end_time, duration, mode, task_id, completed
		FROM sessions
		ORDER BY start_time, id
	`)
	if err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}
	defer rows.Close()

	var sessions []session.Session
	for rows.Next() {
		var (
			rec              session.Session
			start, end, mode string
			completed        int
		)
		if err := rows.Scan(&rec.ID, &start, &end, &rec.Duration, &mode, &rec.TaskID, &completed); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if rec.StartTime, err = time.Parse(timeLayout, start); err != nil {
			return nil, fmt.Errorf("parse session %s start_time: %w", rec.ID, err)
		}
		if rec.EndTime, err = time.Parse(timeLayout, end); err != nil {
			return nil, fmt.Errorf("parse session %s end_time: %w", rec.ID, err)
		}
		rec.Mode = timer.Mode(mode)
		rec.Completed = completed != 0
		sessions = append(sessions, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}
	return sessions, nil
}

// SaveSessions replaces the persisted set with sessions, in one
// transaction. This is the save-all half of the ledger's contract; the
// ledger's in-memory set is authoritative, so a replaced table is always
// the full current truth.
func (s *Store) SaveSessions(sessions []session.Session) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("save sessions: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM sessions`); err != nil {
		return fmt.Errorf("clear sessions: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO sessions (id, start_time, end_time, duration, mode, task_id, completed)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare session insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range sessions {
		_, err := stmt.Exec(
			rec.ID,
			rec.StartTime.Format(timeLayout),
			rec.EndTime.Format(timeLayout),
			rec.Duration,
			string(rec.Mode),
			rec.TaskID,
			boolToInt(rec.Completed),
		)
		if err != nil {
			return fmt.Errorf("insert session %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save sessions: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// scanTime parses a nullable RFC 3339 column.
func scanTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	t, err := time.Parse(timeLayout, v.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
