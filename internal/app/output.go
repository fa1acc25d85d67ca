package app

import (
	"fmt"
	"os"

	"github.com/atotto/clipboard"

	"pa-cli/internal/settings"
)

// writeOutput routes rendered content to the configured target. Content is
// written verbatim; rendering already controls trailing newlines.
func (a *App) writeOutput(content, target string) error {
	if path, ok := settings.FileTargetPath(target); ok {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return fmt.Errorf("failed to write output to %s: %w", path, err)
		}
		return nil
	}

	if target == settings.TargetClipboard {
		if err := clipboard.WriteAll(content); err != nil {
			return fmt.Errorf("failed to copy output to clipboard: %w", err)
		}
		return nil
	}

	_, err := fmt.Fprint(a.Stdout, content)
	return err
}
