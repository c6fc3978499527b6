package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/mossline/pomo/internal/task"
)

// CreateTask inserts a new pending task and returns it. Titles are
// NFC-normalized so visually identical titles compare equal regardless of
// how the terminal composed them.
func (s *Store) CreateTask(title string) (*task.Task, error) {
	title = norm.NFC.String(strings.TrimSpace(title))
	if title == "" {
		return nil, errors.New("task title must not be empty")
	}

	t := &task.Task{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Title:     title,
		CreatedAt: nowUTC(),
	}
	_, err := s.db.Exec(`
		INSERT INTO tasks (id, title, completed, completed_pomodoros, created_at, completed_at)
		VALUES (?, ?, 0, 0, ?, NULL)
	`, t.ID, t.Title, t.CreatedAt.Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return t, nil
}

// GetByID returns the task, or (nil, nil) when absent. Implements
// task.Repository.
func (s *Store) GetByID(id string) (*task.Task, error) {
	row := s.db.QueryRow(`
		SELECT id, title, completed, completed_pomodoros, created_at, completed_at
		FROM tasks WHERE id = ?
	`, id)

	t, err := scanTask(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task %q: %w", id, err)
	}
	return t, nil
}

// ListTasks returns all tasks, oldest first.
func (s *Store) ListTasks() ([]task.Task, error) {
	rows, err := s.db.Query(`
		SELECT id, title, completed, completed_pomodoros, created_at, completed_at
		FROM tasks ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		t, err := scanTask(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// CompleteTask marks the task completed and stamps completed_at. Fails
// with task.NotFoundError for an unknown id; completing an already
// completed task is a no-op.
func (s *Store) CompleteTask(id string) error {
	res, err := s.db.Exec(`
		UPDATE tasks SET completed = 1, completed_at = ?
		WHERE id = ? AND completed = 0
	`, nowUTC().Format(timeLayout), id)
	if err != nil {
		return fmt.Errorf("complete task %q: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		t, err := s.GetByID(id)
		if err != nil {
			return err
		}
		if t == nil {
			return &task.NotFoundError{ID: id}
		}
	}
	return nil
}

// DeleteTask removes the task and reports whether it existed.
func (s *Store) DeleteTask(id string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete task %q: %w", id, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// AssociatePomodoro atomically credits one completed pomodoro to the task.
// Implements task.Repository. The guarded UPDATE makes the increment and
// the eligibility check one statement; the follow-up read only classifies
// the failure.
func (s *Store) AssociatePomodoro(id string) error {
	res, err := s.db.Exec(`
		UPDATE tasks SET completed_pomodoros = completed_pomodoros + 1
		WHERE id = ? AND completed = 0
	`, id)
	if err != nil {
		return fmt.Errorf("associate pomodoro with task %q: %w", id, err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		return nil
	}

	t, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if t == nil {
		return &task.NotFoundError{ID: id}
	}
	return &task.CompletedTaskError{ID: id}
}

// scanTask reads one task row via the given Scan function, shared between
// QueryRow and Rows iteration.
func scanTask(scan func(dest ...any) error) (*task.Task, error) {
	var (
		t           task.Task
		completed   int
		createdAt   string
		completedAt sql.NullString
	)
	if err := scan(&t.ID, &t.Title, &completed, &t.CompletedPomodoros, &createdAt, &completedAt); err != nil {
		return nil, err
	}

	var err error
	if t.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if t.CompletedAt, err = scanTime(completedAt); err != nil {
		return nil, fmt.Errorf("parse completed_at: %w", err)
	}
	t.Completed = completed != 0
	return &t, nil
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
