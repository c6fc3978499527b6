package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/mossline/pomo/internal/config"
	"github.com/mossline/pomo/internal/coordinator"
	"github.com/mossline/pomo/internal/timer"
)

// StartOptions holds flags for the start command.
type StartOptions struct {
	*RootOptions
	Mode   string
	TaskID string

	// Scheduler overrides the engine's tick source (for testing).
	// If nil, the real one-second ticker is used.
	Scheduler timer.Scheduler
}

var startModes = map[string]timer.Mode{
	"work":        timer.ModeWork,
	"short-break": timer.ModeShortBreak,
	"long-break":  timer.ModeLongBreak,
}

// NewStartCommand creates the start command.
func NewStartCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StartOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the countdown timer",
		Long: `Run the countdown timer in the foreground.

Each completed interval is recorded as a session. Completed work
intervals with a task attached credit one pomodoro to that task.
After a completion the timer advances to the next interval — every
Nth completed work cycle earns the long break — and keeps going as
long as the auto-start settings allow.

Example:
  pomo start
  pomo start --task 0193e5a2-... --mode work
  pomo start --mode short-break`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStart(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Mode, "mode", "work", "initial mode (work|short-break|long-break)")
	cmd.Flags().StringVar(&opts.TaskID, "task", "", "task id to credit completed work sessions to")

	return cmd
}

// tickRelay is the start command's tick source. Unlike TickerScheduler it
// never invokes the callback itself: the ticker goroutine only forwards it
// on fire, and the run loop receives and invokes it there. Every engine
// mutation (ticks, Pause on interrupt, SwitchMode between intervals) and
// every terminal write therefore happens on the run loop's goroutine,
// which is the single-writer discipline the engine requires.
type tickRelay struct {
	fire chan func()
}

func newTickRelay() *tickRelay {
	return &tickRelay{fire: make(chan func(), 1)}
}

// Schedule implements timer.Scheduler.
func (r *tickRelay) Schedule(interval time.Duration, fn func()) timer.CancelFunc {
	ticker := time.NewTicker(interval)
	quit := make(chan struct{})

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-quit:
				return
			case <-ticker.C:
				select {
				case r.fire <- fn:
				case <-quit:
					return
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(quit) })
	}
}

func runStart(cmd *cobra.Command, opts *StartOptions) error {
	mode, ok := startModes[opts.Mode]
	if !ok {
		return fmt.Errorf("invalid mode %q: must be one of work, short-break, long-break", opts.Mode)
	}

	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	st, err := openStore(opts.RootOptions)
	if err != nil {
		return err
	}
	defer st.Close()

	coord := coordinator.New(newLedger(st), st)

	relay := newTickRelay()
	var sched timer.Scheduler = relay
	if opts.Scheduler != nil {
		sched = opts.Scheduler
	}
	engine := timer.New(settings, timer.WithScheduler(sched))
	if mode != timer.ModeWork {
		engine.SwitchMode(mode)
	}

	out := cmd.OutOrStdout()
	engine.Subscribe(timer.EventTick, func(s timer.State) {
		fmt.Fprintf(out, "\r%-11s %s  ", s.Mode, formatClock(s.TimeRemaining))
	})
	completions := make(chan timer.State, 1)
	engine.Subscribe(timer.EventComplete, func(s timer.State) {
		completions <- s
	})

	ctx := cmd.Context()
	for {
		if _, err := coord.StartPomodoroSession(mode, opts.TaskID); err != nil {
			return err
		}
		engine.Start()

	interval:
		for {
			select {
			case <-ctx.Done():
				engine.Pause()
				coord.CancelPomodoroSession()
				fmt.Fprintln(out, "\ninterrupted, session cancelled")
				return nil

			case tick := <-relay.fire:
				tick()

			case state := <-completions:
				fmt.Fprintf(out, "\n%s interval complete (cycle %d)\n", state.Mode, state.CurrentCycle)
				if _, err := coord.CompletePomodoroSession(true); err != nil {
					return err
				}

				mode = nextMode(state, settings)
				if !autoStarts(mode, settings) {
					printNext(out, mode)
					return nil
				}
				engine.SwitchMode(mode)
				break interval
			}
		}
	}
}

// nextMode picks the interval that follows a completion: every Nth
// completed work cycle earns the long break, otherwise work and breaks
// alternate.
func nextMode(state timer.State, settings config.Settings) timer.Mode {
	if state.Mode != timer.ModeWork {
		return timer.ModeWork
	}
	if settings.LongBreakInterval > 0 && state.CurrentCycle%settings.LongBreakInterval == 0 {
		return timer.ModeLongBreak
	}
	return timer.ModeShortBreak
}

func autoStarts(mode timer.Mode, settings config.Settings) bool {
	if mode == timer.ModeWork {
		return settings.AutoStartWork
	}
	return settings.AutoStartBreaks
}

func printNext(out io.Writer, mode timer.Mode) {
	fmt.Fprintf(out, "next interval: %s (run 'pomo start --mode %s' to begin)\n",
		mode, flagForMode(mode))
}

func flagForMode(mode timer.Mode) string {
	for flag, m := range startModes {
		if m == mode {
			return flag
		}
	}
	return string(mode)
}

// formatClock renders whole seconds as mm:ss.
func formatClock(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
