package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sigyehq/sigye/internal/msgraph"
	"github.com/sigyehq/sigye/internal/timeutil"
)

var (
	outlookSyncFrom    string
	outlookSyncTo      string
	outlookSyncDate    string
	outlookSyncToday   bool
	outlookSyncDryRun  bool
	outlookSyncProject string
	outlookSyncTZ      string
)

var outlookCmd = &cobra.Command{
	Use:   "outlook",
	Short: "Outlook calendar integration",
}

var outlookSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Import Outlook calendar events as time entries",
	Args:  cobra.NoArgs,
	RunE:  runOutlookSync,
}

func init() {
	outlookSyncCmd.Flags().StringVar(&outlookSyncFrom, "from", "", "Start date (YYYY-MM-DD); required when --to is specified")
	outlookSyncCmd.Flags().StringVar(&outlookSyncTo, "to", "", "End date (YYYY-MM-DD); defaults to today")
	outlookSyncCmd.Flags().StringVar(&outlookSyncDate, "date", "", "Sync a specific date (YYYY-MM-DD)")
	outlookSyncCmd.Flags().BoolVar(&outlookSyncToday, "today", false, "Sync only today (default)")
	outlookSyncCmd.Flags().BoolVar(&outlookSyncDryRun, "dry-run", false, "Print planned operations without writing")
	outlookSyncCmd.Flags().StringVar(&outlookSyncProject, "project", "", "Project name for imported events (overrides the configured one)")
	outlookSyncCmd.Flags().StringVar(&outlookSyncTZ, "timezone", "", "IANA timezone for event times (e.g. Asia/Seoul)")
	outlookCmd.AddCommand(outlookSyncCmd)
}

func runOutlookSync(cmd *cobra.Command, args []string) error {
	e := newEnv()
	now := time.Now()

	var from, to time.Time
	switch {
	case outlookSyncDate != "":
		d, err := timeutil.ParseDate(outlookSyncDate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid --date value %q: %v\n", outlookSyncDate, err)
			os.Exit(1)
		}
		from = timeutil.StartOfDay(d)
		to = from.AddDate(0, 0, 1)

	case outlookSyncFrom != "" || outlookSyncTo != "":
		if outlookSyncTo != "" && outlookSyncFrom == "" {
			fmt.Fprintln(os.Stderr, "--from is required when --to is specified")
			os.Exit(1)
		}
		d, err := timeutil.ParseDate(outlookSyncFrom)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid --from value %q: %v\n", outlookSyncFrom, err)
			os.Exit(1)
		}
		from = timeutil.StartOfDay(d)

		if outlookSyncTo != "" {
			t, err := timeutil.ParseDate(outlookSyncTo)
			if err != nil {
				fmt.Fprintf(os.Stderr, "invalid --to value %q: %v\n", outlookSyncTo, err)
				os.Exit(1)
			}
			to = timeutil.StartOfDay(t).AddDate(0, 0, 1)
		} else {
			to = timeutil.StartOfDay(now).AddDate(0, 0, 1)
		}

	default:
		// Default: today.
		from = timeutil.StartOfDay(now)
		to = from.AddDate(0, 0, 1)
	}

	project := outlookSyncProject
	if project == "" {
		project = e.settings.Outlook.DefaultProject
	}
	timezone := outlookSyncTZ
	if timezone == "" {
		timezone = e.settings.Outlook.Timezone
	}

	dryTag := ""
	if outlookSyncDryRun {
		dryTag = " [dry-run]"
	}
	fmt.Printf("Syncing Outlook events (%s → %s)%s...\n",
		from.Format("2006-01-02"), to.AddDate(0, 0, -1).Format("2006-01-02"), dryTag)
	fmt.Println()

	ctx := context.Background()

	tok, cfg, err := msgraph.Authenticate(ctx, e.settings.Outlook.TenantID, e.settings.Outlook.ClientID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Authentication failed: %v\n", err)
		os.Exit(1)
	}

	client := msgraph.NewClient(ctx, tok, cfg)

	events, err := client.GetCalendarView(ctx, from, to, timezone)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to fetch calendar events: %v\n", err)
		os.Exit(1)
	}

	opts := msgraph.SyncOptions{
		DryRun:  outlookSyncDryRun,
		Project: project,
	}

	result, err := msgraph.SyncEvents(e.store, events, opts, timezone)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Sync error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("Summary:")
	fmt.Printf("  %d imported\n", result.Imported)
	fmt.Printf("  %d skipped\n", result.Skipped)
	if result.Errors > 0 {
		fmt.Printf("  %d errors\n", result.Errors)
		os.Exit(2)
	}
	return nil
}
