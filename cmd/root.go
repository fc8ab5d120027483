package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sigyehq/sigye/internal/config"
	"github.com/sigyehq/sigye/internal/editor"
	"github.com/sigyehq/sigye/internal/output"
	"github.com/sigyehq/sigye/internal/storage"
	"github.com/sigyehq/sigye/internal/tracking"
)

var (
	configFile string
	dataFile   string
)

var rootCmd = &cobra.Command{
	Use:   "sigye",
	Short: "sigye (시계) – a simple file-based time tracker",
	Long: `sigye tracks time spent on projects from the command line.
All entries are stored in a single human-readable YAML file.`,
	Version: version,
}

// version is overridden at build time via -ldflags.
var version = "dev"

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config-file", "c", "", "Path to the configuration file")
	rootCmd.PersistentFlags().StringVarP(&dataFile, "filename", "f", "", "Path to the time entries file (overrides the configured one)")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(outlookCmd)
}

// env wires the settings, store, service and printer for one invocation.
type env struct {
	settings config.Settings
	store    storage.Store
	service  *tracking.Service
	printer  *output.Printer
}

func newEnv() *env {
	path := configFile
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		path = p
	}

	settings, err := config.Load(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if dataFile != "" {
		settings.DataFilename = dataFile
	}

	store := storage.NewYAMLStore(settings.DataFilename)
	return &env{
		settings: settings,
		store:    store,
		service:  tracking.NewService(store, editor.Resolve(settings.Editor)),
		printer:  output.NewPrinter(os.Stdout, settings.Locale),
	}
}

// format resolves the effective output format: the flag wins over the
// configured default.
func (e *env) format(flag string) output.Format {
	f := output.Format(flag)
	if f == "" {
		f = output.Format(e.settings.Output.Format)
	}
	if !output.ValidFormat(f) {
		fmt.Fprintf(os.Stderr, "unknown output format %q; expected text, json, yaml or csv\n", f)
		os.Exit(1)
	}
	if f == "" {
		f = output.FormatText
	}
	return f
}

// describeLookupError turns an id-resolution failure into the message
// shown to the user.
func describeLookupError(prefix string, err error) string {
	var ambiguous *tracking.AmbiguousIDError
	switch {
	case errors.As(err, &ambiguous):
		return fmt.Sprintf("Multiple records found starting with id %q (%d matches); use a longer prefix.",
			prefix, ambiguous.Count)
	case errors.Is(err, storage.ErrNotFound):
		return fmt.Sprintf("No entry found with id %q.", prefix)
	default:
		return err.Error()
	}
}
