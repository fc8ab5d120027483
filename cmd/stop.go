package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sigyehq/sigye/internal/timeutil"
	"github.com/sigyehq/sigye/internal/tracking"
)

var stopAt string

var stopCmd = &cobra.Command{
	Use:   "stop [comment]",
	Short: "Stop the active time entry",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStop,
}

func init() {
	stopCmd.Flags().StringVar(&stopAt, "stop-time", "", "End time of day, e.g. 17:30 (default now)")
}

func runStop(cmd *cobra.Command, args []string) error {
	e := newEnv()

	var at *time.Time
	if stopAt != "" {
		t, err := timeutil.ParseTimeOfDay(stopAt, time.Now())
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid --stop-time value %q: %v\n", stopAt, err)
			os.Exit(1)
		}
		at = &t
	}

	entry, err := e.service.StopTracking(at)
	if err != nil {
		switch {
		case errors.Is(err, tracking.ErrNoActiveEntry):
			e.printer.NoActiveEntry()
			os.Exit(1)
		case errors.Is(err, tracking.ErrInvalidTimeRange):
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		default:
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}

	if len(args) > 0 && args[0] != "" {
		entry.Comment = args[0]
		if entry, err = e.service.UpdateEntry(entry); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}

	fmt.Printf("Stopped tracking %q. Elapsed: %s\n",
		entry.Project, timeutil.FormatDuration(entry.EndTime.Sub(entry.StartTime)))
	return nil
}
