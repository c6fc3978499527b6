package cli

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/mossline/pomo/internal/coordinator"
)

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats [task-id]",
		Short: "Show pomodoro totals per task",
		Long: `Show completed work-session counts and focused time, derived from the
session ledger. With a task id, only that task's totals are shown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			coord := coordinator.New(newLedger(st), st)
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				stats := coord.TaskPomodoroStats(args[0])
				fmt.Fprintf(out, "%s: %d pomodoros, %s focused\n",
					stats.TaskID, stats.CompletedSessions, formatSeconds(stats.TotalSeconds))
				return nil
			}

			summary := coord.AllTasksPomodoroSummary()
			if len(summary) == 0 {
				fmt.Fprintln(out, "no completed work sessions with tasks")
				return nil
			}

			titles := make(map[string]string)
			tasks, err := st.ListTasks()
			if err != nil {
				return err
			}
			for _, t := range tasks {
				titles[t.ID] = t.Title
			}

			ids := make([]string, 0, len(summary))
			for id := range summary {
				ids = append(ids, id)
			}
			sort.Strings(ids)

			for _, id := range ids {
				stats := summary[id]
				title := titles[id]
				if title == "" {
					title = "(deleted task)"
				}
				fmt.Fprintf(out, "%s  %-30s %3d pomodoros  %s focused\n",
					id, title, stats.CompletedSessions, formatSeconds(stats.TotalSeconds))
			}
			return nil
		},
	}
}

func formatSeconds(seconds int) string {
	return (time.Duration(seconds) * time.Second).String()
}
