package coordinator

import "github.com/mossline/pomo/internal/timer"

// TaskStats is the derived pomodoro aggregate for one task. Computed from
// the ledger's sessions on every call, never stored.
type TaskStats struct {
	TaskID            string
	CompletedSessions int // completed work sessions only
	TotalSeconds      int // summed duration of those sessions
}

// TaskPomodoroStats aggregates completed work sessions for taskID.
func (c *Coordinator) TaskPomodoroStats(taskID string) TaskStats {
	stats := TaskStats{TaskID: taskID}
	for _, s := range c.ledger.SessionsForTask(taskID) {
		if s.Completed && s.Mode == timer.ModeWork {
			stats.CompletedSessions++
			stats.TotalSeconds += s.Duration
		}
	}
	return stats
}

// AllTasksPomodoroSummary aggregates completed work sessions per task id
// across the whole ledger. Sessions without a task are excluded.
func (c *Coordinator) AllTasksPomodoroSummary() map[string]TaskStats {
	summary := make(map[string]TaskStats)
	for _, s := range c.ledger.AllSessions() {
		if s.TaskID == "" || !s.Completed || s.Mode != timer.ModeWork {
			continue
		}
		stats := summary[s.TaskID]
		stats.TaskID = s.TaskID
		stats.CompletedSessions++
		stats.TotalSeconds += s.Duration
		summary[s.TaskID] = stats
	}
	return summary
}
