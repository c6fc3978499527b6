package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mossline/pomo/internal/session"
	"github.com/mossline/pomo/internal/task"
	"github.com/mossline/pomo/internal/timer"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "pomo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pomo.db")

	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, second.Close())
}

func TestSessions_RoundTrip(t *testing.T) {
	s := openTestStore(t)

	start := time.Date(2026, 8, 26, 9, 0, 0, 123456789, time.UTC)
	in := []session.Session{
		{
			ID:        "s-1",
			StartTime: start,
			EndTime:   start.Add(25 * time.Minute),
			Duration:  1500,
			Mode:      timer.ModeWork,
			TaskID:    "task-1",
			Completed: true,
		},
		{
			ID:        "s-2",
			StartTime: start.Add(30 * time.Minute),
			EndTime:   start.Add(30 * time.Minute),
			Mode:      timer.ModeShortBreak,
		},
	}

	require.NoError(t, s.SaveSessions(in))
	out, err := s.LoadSessions()
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Equal(t, in[0].ID, out[0].ID)
	assert.True(t, in[0].StartTime.Equal(out[0].StartTime), "sub-second precision survives the string round-trip")
	assert.Equal(t, in[0].Duration, out[0].Duration)
	assert.Equal(t, in[0].Mode, out[0].Mode)
	assert.Equal(t, in[0].TaskID, out[0].TaskID)
	assert.True(t, out[0].Completed)
	assert.False(t, out[1].Completed)
	assert.Empty(t, out[1].TaskID)
}

func TestSaveSessions_ReplacesPreviousSet(t *testing.T) {
	s := openTestStore(t)
	now := time.Now().UTC()

	require.NoError(t, s.SaveSessions([]session.Session{
		{ID: "s-1", StartTime: now, EndTime: now, Mode: timer.ModeWork},
		{ID: "s-2", StartTime: now, EndTime: now, Mode: timer.ModeWork},
	}))
	require.NoError(t, s.SaveSessions([]session.Session{
		{ID: "s-2", StartTime: now, EndTime: now, Mode: timer.ModeWork},
	}))

	out, err := s.LoadSessions()
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "s-2", out[0].ID)
}

func TestLoadSessions_EmptyDatabase(t *testing.T) {
	s := openTestStore(t)

	out, err := s.LoadSessions()

	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestTasks_CRUD(t *testing.T) {
	s := openTestStore(t)

	created, err := s.CreateTask("  write the report ")
	require.NoError(t, err)
	assert.Equal(t, "write the report", created.Title, "titles are trimmed")
	assert.NotEmpty(t, created.ID)

	got, err := s.GetByID(created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.Title, got.Title)
	assert.False(t, got.Completed)
	assert.Zero(t, got.CompletedPomodoros)
	assert.Nil(t, got.CompletedAt)

	list, err := s.ListTasks()
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, s.CompleteTask(created.ID))
	got, err = s.GetByID(created.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)
	require.NotNil(t, got.CompletedAt)

	removed, err := s.DeleteTask(created.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	got, err = s.GetByID(created.ID)
	require.NoError(t, err)
	assert.Nil(t, got, "absent task is (nil, nil), not an error")
}

func TestCreateTask_RejectsEmptyTitle(t *testing.T) {
	s := openTestStore(t)

	_, err := s.CreateTask("   ")

	assert.Error(t, err)
}

func TestCreateTask_NormalizesTitle(t *testing.T) {
	s := openTestStore(t)

	// "é" as 'e' + combining acute accent (NFD input).
	created, err := s.CreateTask("café")
	require.NoError(t, err)

	assert.Equal(t, "café", created.Title, "titles are stored in NFC form")
}

func TestCompleteTask_NotFound(t *testing.T) {
	s := openTestStore(t)

	err := s.CompleteTask("ghost")

	assert.True(t, task.IsNotFound(err))
}

func TestCompleteTask_AlreadyCompletedIsNoOp(t *testing.T) {
	s := openTestStore(t)
	created, err := s.CreateTask("done twice")
	require.NoError(t, err)

	require.NoError(t, s.CompleteTask(created.ID))
	assert.NoError(t, s.CompleteTask(created.ID))
}

func TestAssociatePomodoro(t *testing.T) {
	s := openTestStore(t)
	created, err := s.CreateTask("deep work")
	require.NoError(t, err)

	require.NoError(t, s.AssociatePomodoro(created.ID))
	require.NoError(t, s.AssociatePomodoro(created.ID))

	got, err := s.GetByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.CompletedPomodoros)
}

func TestAssociatePomodoro_NotFound(t *testing.T) {
	s := openTestStore(t)

	err := s.AssociatePomodoro("ghost")

	assert.True(t, task.IsNotFound(err))
}

func TestAssociatePomodoro_CompletedTask(t *testing.T) {
	s := openTestStore(t)
	created, err := s.CreateTask("shipped already")
	require.NoError(t, err)
	require.NoError(t, s.CompleteTask(created.ID))

	err = s.AssociatePomodoro(created.ID)

	assert.True(t, task.IsCompletedTask(err))

	got, err := s.GetByID(created.ID)
	require.NoError(t, err)
	assert.Zero(t, got.CompletedPomodoros, "the counter never moves for a completed task")
}
