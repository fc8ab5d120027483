package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sigyehq/sigye/internal/output"
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit an entry in your editor",
	Long:  `Open the entry with the given id (or unique id prefix) as YAML in the configured editor.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runEdit,
}

func runEdit(cmd *cobra.Command, args []string) error {
	e := newEnv()

	entry, err := e.service.EntryByPartialID(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, describeLookupError(args[0], err))
		os.Exit(1)
	}

	updated, err := e.service.EditEntry(entry.ID)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := e.printer.Entry(updated, output.FormatText); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return nil
}
