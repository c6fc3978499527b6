// Package coordinator links engine completions to session records and task
// progress. It is the only component that cross-validates sessions against
// tasks; the ledger and the engine never talk to each other directly.
package coordinator

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mossline/pomo/internal/session"
	"github.com/mossline/pomo/internal/task"
	"github.com/mossline/pomo/internal/timer"
)

// ErrNoActiveSession is returned when completing or reassigning while no
// session is in flight.
var ErrNoActiveSession = errors.New("no active pomodoro session")

// activePair is the coordinator's at-most-one in-flight session.
//
// taskID here is the coordinator's local notion of the current task, used
// only for the eventual pomodoro association. SwitchSessionTask changes it
// without rewriting the persisted session's TaskID — the two can diverge,
// and that divergence is preserved deliberately.
type activePair struct {
	sessionID string
	taskID    string
}

// Coordinator orchestrates session starts and completions against the
// ledger and a task repository.
//
// Single in-flight session per instance; no additional concurrency beyond
// the single logical thread the ledger already expects.
type Coordinator struct {
	ledger  *session.Ledger
	tasks   task.Repository
	current *activePair
}

// New creates a coordinator over the given ledger and task repository.
func New(ledger *session.Ledger, tasks task.Repository) *Coordinator {
	return &Coordinator{ledger: ledger, tasks: tasks}
}

// ActiveSessionID returns the in-flight session id, or "" when idle.
func (c *Coordinator) ActiveSessionID() string {
	if c.current == nil {
		return ""
	}
	return c.current.sessionID
}

// StartPomodoroSession validates the task (when one is given), starts a
// ledger session, and records it as the in-flight pair. A missing task
// yields a task.NotFoundError; a completed one a task.CompletedTaskError.
func (c *Coordinator) StartPomodoroSession(mode timer.Mode, taskID string) (string, error) {
	if taskID != "" {
		if err := c.validateTask(taskID); err != nil {
			return "", err
		}
	}
	id := c.ledger.StartSession(mode, taskID)
	c.current = &activePair{sessionID: id, taskID: taskID}
	return id, nil
}

// CompletePomodoroSession completes the in-flight session with the given
// outcome and returns the updated record (nil if the ledger no longer
// knows the id).
//
// When the resulting session is a completed work session and a task is
// attached, one pomodoro is credited to that task. Association is
// best-effort: a failure is logged and swallowed, never unwinding the
// already-completed session — the session is the source of truth for
// elapsed time. The in-flight pair is cleared regardless of outcome.
func (c *Coordinator) CompletePomodoroSession(completed bool) (*session.Session, error) {
	if c.current == nil {
		return nil, ErrNoActiveSession
	}
	pair := *c.current
	c.current = nil

	s := c.ledger.CompleteSession(pair.sessionID, completed)
	if s != nil && s.Completed && s.Mode == timer.ModeWork && pair.taskID != "" {
		if err := c.tasks.AssociatePomodoro(pair.taskID); err != nil {
			slog.Warn("coordinator: pomodoro association failed",
				"task_id", pair.taskID,
				"session_id", pair.sessionID,
				"error", err)
		}
	}
	return s, nil
}

// CancelPomodoroSession cancels the in-flight session. The pair is cleared
// only if the ledger actually removed the record. Returns false when idle
// — cancelling nothing is a no-op, not an error.
func (c *Coordinator) CancelPomodoroSession() bool {
	if c.current == nil {
		return false
	}
	ok := c.ledger.CancelSession(c.current.sessionID)
	if ok {
		c.current = nil
	}
	return ok
}

// SwitchSessionTask reassigns the coordinator-local current task used for
// the eventual association. An empty taskID clears it. The persisted
// session's TaskID is not rewritten. A non-empty taskID is validated the
// same way StartPomodoroSession validates.
func (c *Coordinator) SwitchSessionTask(taskID string) error {
	if c.current == nil {
		return ErrNoActiveSession
	}
	if taskID != "" {
		if err := c.validateTask(taskID); err != nil {
			return err
		}
	}
	c.current.taskID = taskID
	return nil
}

func (c *Coordinator) validateTask(taskID string) error {
	t, err := c.tasks.GetByID(taskID)
	if err != nil {
		return fmt.Errorf("look up task %q: %w", taskID, err)
	}
	if t == nil {
		return &task.NotFoundError{ID: taskID}
	}
	if t.Completed {
		return fmt.Errorf("cannot start pomodoro session for completed task: %w",
			&task.CompletedTaskError{ID: taskID})
	}
	return nil
}
