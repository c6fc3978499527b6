package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mossline/pomo/internal/session"
)

// SessionsOptions holds flags for the sessions subcommands.
type SessionsOptions struct {
	*RootOptions
	TaskID        string
	CompletedOnly bool
	Days          int
}

// NewSessionsCommand creates the sessions command and its subcommands.
func NewSessionsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Inspect and prune recorded sessions",
	}

	cmd.AddCommand(newSessionsListCommand(rootOpts))
	cmd.AddCommand(newSessionsClearCommand(rootOpts))

	return cmd
}

func newSessionsListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SessionsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()
			ledger := newLedger(st)

			var sessions []session.Session
			switch {
			case opts.TaskID != "":
				sessions = ledger.SessionsForTask(opts.TaskID)
			case opts.CompletedOnly:
				sessions = ledger.CompletedSessions()
			default:
				sessions = ledger.AllSessions()
			}

			out := cmd.OutOrStdout()
			if len(sessions) == 0 {
				fmt.Fprintln(out, "no sessions")
				return nil
			}
			for _, s := range sessions {
				outcome := "in flight"
				if s.Completed {
					outcome = "completed"
				} else if !s.EndTime.Equal(s.StartTime) {
					outcome = "abandoned"
				}
				line := fmt.Sprintf("%s  %-11s %s  %4ds  %s",
					s.ID, s.Mode, s.StartTime.Local().Format("2006-01-02 15:04:05"), s.Duration, outcome)
				if s.TaskID != "" {
					line += "  task=" + s.TaskID
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.TaskID, "task", "", "only sessions for this task id")
	cmd.Flags().BoolVar(&opts.CompletedOnly, "completed", false, "only sessions completed with a true outcome")

	return cmd
}

func newSessionsClearCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SessionsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove sessions older than a cutoff",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Days < 1 {
				return fmt.Errorf("--days must be at least 1, got %d", opts.Days)
			}

			st, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			cutoff := time.Now().AddDate(0, 0, -opts.Days)
			removed := newLedger(st).ClearSessionsBefore(cutoff)
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d sessions started before %s\n",
				removed, cutoff.Local().Format("2006-01-02 15:04:05"))
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.Days, "days", 30, "remove sessions started more than this many days ago")

	return cmd
}
