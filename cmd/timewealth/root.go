package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"example.com/timewealth/internal/domain"
	"example.com/timewealth/internal/logging"
	"example.com/timewealth/internal/persistence/file"
	"example.com/timewealth/internal/tracker"
)

// localUser keys every operation; a snapshot holds one user's data.
const localUser = "local"

type app struct {
	out      io.Writer
	snapshot string
	today    string
	asJSON   bool
	verbose  bool
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	root := &cobra.Command{
		Use:   "timewealth",
		Short: "Track time against your values from the command line",
		Long: `timewealth keeps a value profile and an activity log in a local JSON
snapshot and reports how your time lines up with your priorities.

Examples:
  # Pick values and see this week's alignment
  timewealth onboard --value Family --value Health
  timewealth activity add --name "Dinner" --value Family --start 19:00 --duration 60
  timewealth insights --range week

  # Take the reflection survey
  timewealth reflect --answer time=Agree --answer time2="Strongly Agree"`,
		SilenceUsage: true,
	}
	root.SetOut(out)

	root.PersistentFlags().StringVar(&a.snapshot, "snapshot", "timewealth.json", "Snapshot file holding the profile and activities")
	root.PersistentFlags().StringVar(&a.today, "today", "", "Override today's date (YYYY-MM-DD)")
	root.PersistentFlags().BoolVar(&a.asJSON, "json", false, "Output results as JSON")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log debug output to stderr")

	root.AddCommand(
		a.onboardCmd(),
		a.insightsCmd(),
		a.activityCmd(),
		a.prioritiesCmd(),
		a.reflectCmd(),
		a.seedCmd(),
	)
	return root
}

// clock returns the --today override at the current wall-clock time, or now.
func (a *app) clock() (func() time.Time, error) {
	if a.today == "" {
		return time.Now, nil
	}
	day, err := domain.ParseDate(a.today)
	if err != nil {
		return nil, fmt.Errorf("invalid --today %q: %w", a.today, err)
	}
	return func() time.Time {
		now := time.Now()
		return time.Date(day.Year(), day.Month(), day.Day(), now.Hour(), now.Minute(), 0, 0, time.Local)
	}, nil
}

func (a *app) service() (*tracker.Service, *file.Store, error) {
	now, err := a.clock()
	if err != nil {
		return nil, nil, err
	}
	logger := zap.NewNop()
	if a.verbose {
		logger, err = logging.New(logging.Config{Level: "debug", Format: "console"})
		if err != nil {
			return nil, nil, err
		}
	}
	store := file.NewStore(a.snapshot)
	return tracker.NewService(store, tracker.WithClock(now), tracker.WithLogger(logger)), store, nil
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
