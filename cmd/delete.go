package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete an entry",
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	e := newEnv()

	entry, err := e.service.EntryByPartialID(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, describeLookupError(args[0], err))
		os.Exit(1)
	}

	if _, err := e.service.DeleteEntry(entry.ID); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	fmt.Printf("Deleted entry %s (%s)\n", entry.ID, entry.Project)
	return nil
}
