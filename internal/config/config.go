// Package config loads sigye settings from a YAML file, creating an
// annotated default on first run.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Settings is the root configuration, stored in ~/.config/sigye/config.yaml.
type Settings struct {
	// Locale selects the language for terminal messages, e.g. "en" or "ko".
	Locale string `yaml:"locale"`
	// DataFilename is the path of the YAML timesheet file.
	DataFilename string `yaml:"data_filename"`
	// Editor is the command used by `sigye edit`; empty falls back to
	// $VISUAL / $EDITOR / vi.
	Editor string `yaml:"editor"`

	Output  OutputSettings  `yaml:"output"`
	Outlook OutlookSettings `yaml:"outlook"`
}

// OutputSettings holds rendering defaults.
type OutputSettings struct {
	// Format is the default list format: text, json, yaml or csv.
	Format string `yaml:"format"`
}

// OutlookSettings holds Microsoft Graph calendar import settings.
type OutlookSettings struct {
	// TenantID is the Azure AD tenant. "common" works for personal and
	// multi-tenant accounts.
	TenantID string `yaml:"tenant_id"`
	// ClientID is the Azure app (client) ID for the OAuth2 device code flow.
	ClientID string `yaml:"client_id"`
	// DefaultProject is assigned to imported calendar events.
	DefaultProject string `yaml:"default_project"`
	// Timezone is the IANA timezone for event times. Empty = UTC.
	Timezone string `yaml:"timezone"`
}

const (
	DefaultLocale = "en"
	DefaultFormat = "text"

	// DefaultTenantID is the Microsoft "common" tenant.
	DefaultTenantID = "common"
	// DefaultClientID is the well-known public Azure CLI app ID, which
	// supports device code flow without a client secret. Replace with your
	// own registration for organisational deployments.
	DefaultClientID = "04b07795-8542-4c4a-95af-30b2c573d5ab"
	// DefaultOutlookProject is the project used for imported events.
	DefaultOutlookProject = "Meetings"
)

// DefaultPath returns ~/.config/sigye/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "sigye", "config.yaml"), nil
}

func defaultDataFilename() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".sigye", "time_entries.yaml"), nil
}

// settingsTemplate is the annotated config written on first run.
const settingsTemplate = `# sigye configuration
#
# All settings are optional; blank values use the built-in defaults.

# Language for terminal messages: en, ko
locale: en

# Path of the YAML timesheet file. Defaults to ~/.sigye/time_entries.yaml.
data_filename: ""

# Editor command for ` + "`sigye edit`" + `. Falls back to $VISUAL / $EDITOR / vi.
editor: ""

output:
  # Default list format: text, json, yaml, csv
  format: text

# Outlook calendar import (sigye outlook sync)
outlook:
  # Azure AD tenant ID: "common" for personal accounts and any organisation.
  tenant_id: common
  # Azure application (client) ID for the OAuth2 device code flow.
  # The built-in value is the public Azure CLI app, no registration needed.
  client_id: 04b07795-8542-4c4a-95af-30b2c573d5ab
  # Project name assigned to imported calendar events.
  default_project: Meetings
  # IANA timezone for event times, e.g. Asia/Seoul. Empty = UTC.
  timezone: ""
`

// defaults returns Settings pre-filled with built-in values.
func defaults() (Settings, error) {
	dataFile, err := defaultDataFilename()
	if err != nil {
		return Settings{}, err
	}
	return Settings{
		Locale:       DefaultLocale,
		DataFilename: dataFile,
		Output:       OutputSettings{Format: DefaultFormat},
		Outlook: OutlookSettings{
			TenantID:       DefaultTenantID,
			ClientID:       DefaultClientID,
			DefaultProject: DefaultOutlookProject,
		},
	}, nil
}

// Load reads the settings file at path (DefaultPath when empty), creating
// it with annotated defaults on first run. Zero-value fields are
// back-filled with defaults so callers always get a usable Settings.
func Load(path string) (Settings, error) {
	def, err := defaults()
	if err != nil {
		return Settings{}, err
	}

	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return Settings{}, err
		}
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// First run: write the annotated template so users can discover
		// the options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		return def, nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}

	if s.Locale == "" {
		s.Locale = def.Locale
	}
	if s.DataFilename == "" {
		s.DataFilename = def.DataFilename
	} else {
		s.DataFilename, err = ExpandPath(s.DataFilename)
		if err != nil {
			return Settings{}, err
		}
	}
	if s.Output.Format == "" {
		s.Output.Format = def.Output.Format
	}
	if s.Outlook.TenantID == "" {
		s.Outlook.TenantID = def.Outlook.TenantID
	}
	if s.Outlook.ClientID == "" {
		s.Outlook.ClientID = def.Outlook.ClientID
	}
	if s.Outlook.DefaultProject == "" {
		s.Outlook.DefaultProject = def.Outlook.DefaultProject
	}

	return s, nil
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}

func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(settingsTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
