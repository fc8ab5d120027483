package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sigyehq/sigye/internal/output"
	"github.com/sigyehq/sigye/internal/timeutil"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the active time entry",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	e := newEnv()

	active, err := e.service.ActiveEntry()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if active == nil {
		e.printer.NoActiveEntry()
		return nil
	}

	if err := e.printer.Entry(*active, output.FormatText); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	fmt.Printf("  Elapsed: %s\n", timeutil.FormatDurationHHMMSS(active.Duration(time.Now())))
	return nil
}
