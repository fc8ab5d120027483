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

var (
	startTags []string
	startAt   string
)

var startCmd = &cobra.Command{
	Use:   "start <project> [comment]",
	Short: "Start tracking time on a project",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runStart,
}

func init() {
	startCmd.Flags().StringArrayVar(&startTags, "tag", nil, "Tag the entry; repeatable")
	startCmd.Flags().StringVar(&startAt, "start-time", "", "Start time of day, e.g. 09:30 or 9:30AM (default now)")
}

func runStart(cmd *cobra.Command, args []string) error {
	e := newEnv()

	comment := ""
	if len(args) > 1 {
		comment = args[1]
	}

	var at *time.Time
	if startAt != "" {
		t, err := timeutil.ParseTimeOfDay(startAt, time.Now())
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid --start-time value %q: %v\n", startAt, err)
			os.Exit(1)
		}
		at = &t
	}

	entry, err := e.service.StartTracking(args[0], comment, startTags, at)
	if err != nil {
		if errors.Is(err, tracking.ErrActiveEntryExists) {
			fmt.Fprintln(os.Stderr, err)
			fmt.Fprintln(os.Stderr, "Stop it first with `sigye stop`.")
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	fmt.Printf("Started tracking %q at %s\n", entry.Project, entry.StartTime.Format("15:04:05"))
	return nil
}
