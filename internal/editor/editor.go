// Package editor runs the user's interactive text editor on a file and
// waits for it to exit.
package editor

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// CommandEditor invokes an editor command with the file path appended as
// the last argument. The command may carry its own arguments ("code -w").
type CommandEditor struct {
	Command string
}

// Resolve picks the editor command: the explicit setting first, then
// $VISUAL, then $EDITOR, then vi.
func Resolve(configured string) CommandEditor {
	if configured != "" {
		return CommandEditor{Command: configured}
	}
	if v := os.Getenv("VISUAL"); v != "" {
		return CommandEditor{Command: v}
	}
	if v := os.Getenv("EDITOR"); v != "" {
		return CommandEditor{Command: v}
	}
	return CommandEditor{Command: "vi"}
}

// Open runs the editor on path, wired to the caller's terminal, and blocks
// until the process exits.
func (e CommandEditor) Open(path string) error {
	argv := strings.Fields(e.Command)
	if len(argv) == 0 {
		return errors.New("empty editor command")
	}
	argv = append(argv, path)

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("running %s: %w", argv[0], err)
	}
	return nil
}
