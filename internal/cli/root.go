// Package cli wires the engine, ledger, coordinator, and store into the
// pomo command tree.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mossline/pomo/internal/session"
	"github.com/mossline/pomo/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Database   string
	Verbose    bool
}

// NewRootCommand creates the root command for the pomo CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "pomo",
		Short:         "Pomodoro countdown timer with session and task tracking",
		Long:          "A pomodoro timer that alternates focus and break intervals,\nrecords completed intervals as sessions, and credits completed\nwork sessions to tasks.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if opts.Verbose {
				level = slog.LevelDebug
			}
			slog.SetLogLoggerLevel(level)
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "pomo.yaml", "path to settings file")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "pomo.db", "path to SQLite database")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	cmd.AddCommand(NewStartCommand(opts))
	cmd.AddCommand(NewTaskCommand(opts))
	cmd.AddCommand(NewSessionsCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))

	return cmd
}

// openStore opens the SQLite store for opts. Callers own Close.
func openStore(opts *RootOptions) (*store.Store, error) {
	return store.Open(opts.Database)
}

// newLedger rehydrates the session ledger from the store.
func newLedger(st *store.Store) *session.Ledger {
	return session.NewLedger(st, session.UUIDv7Generator{})
}
