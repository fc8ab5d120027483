package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sigyehq/sigye/internal/model"
	"github.com/sigyehq/sigye/internal/timeutil"
)

var (
	listStartDate string
	listEndDate   string
	listTags      []string
	listProjects  []string
	listFormat    string
)

var listCmd = &cobra.Command{
	Use:     "list [period]",
	Aliases: []string{"ls"},
	Short:   "List time entries",
	Long: `List entries, optionally restricted to a period: today, yesterday,
week, month or all (the default).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listStartDate, "start-date", "", "Lower bound (YYYY-MM-DD, inclusive)")
	listCmd.Flags().StringVar(&listEndDate, "end-date", "", "Upper bound (YYYY-MM-DD, inclusive); excludes ongoing entries")
	listCmd.Flags().StringArrayVar(&listTags, "tag", nil, "Only entries with any of these tags; repeatable")
	listCmd.Flags().StringArrayVar(&listProjects, "project", nil, "Only these projects; a trailing '*' or '+' matches a prefix; repeatable")
	listCmd.Flags().StringVarP(&listFormat, "format", "o", "", "Output format: text, json, yaml or csv")
}

func runList(cmd *cobra.Command, args []string) error {
	e := newEnv()

	period := model.PeriodAll
	if len(args) == 1 {
		period = model.TimePeriod(args[0])
		if !model.ValidPeriod(period) {
			fmt.Fprintf(os.Stderr, "unknown period %q; expected today, yesterday, week, month or all\n", args[0])
			os.Exit(1)
		}
	}

	filter := model.EntryListFilter{
		TimePeriod: period,
		Tags:       listTags,
		Projects:   listProjects,
	}
	if listStartDate != "" {
		d, err := timeutil.ParseDate(listStartDate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid --start-date value %q: %v\n", listStartDate, err)
			os.Exit(1)
		}
		filter.StartDate = &d
	}
	if listEndDate != "" {
		d, err := timeutil.ParseDate(listEndDate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid --end-date value %q: %v\n", listEndDate, err)
			os.Exit(1)
		}
		filter.EndDate = &d
	}

	format := e.format(listFormat)

	entries, err := e.service.ListEntries(filter)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := e.printer.List(entries, format); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return nil
}
