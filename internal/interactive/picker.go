// Package interactive offers a prompt picker for terminal sessions invoked
// without a prompt name.
package interactive

import (
	"errors"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"golang.org/x/term"
)

// ErrNoPrompts reports that there is nothing to pick from.
var ErrNoPrompts = errors.New("no prompts defined; ensure config.toml exists with prompt entries")

// StdinIsTerminal reports whether stdin is attached to a terminal. When it
// is not, piped input is expected and the picker must stay out of the way.
func StdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// StdoutIsTerminal reports whether stdout is attached to a terminal.
func StdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// PickPrompt asks the user to select one prompt name from the registry.
func PickPrompt(names []string) (string, error) {
	if len(names) == 0 {
		return "", ErrNoPrompts
	}

	var selected string
	question := &survey.Select{
		Message:  "Select a prompt:",
		Options:  names,
		PageSize: 15,
	}
	if err := survey.AskOne(question, &selected); err != nil {
		return "", fmt.Errorf("prompt selection cancelled: %w", err)
	}

	return selected, nil
}
