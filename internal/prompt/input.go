// Package prompt reads settings edits interactively from a terminal.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"
)

// ErrCancelled is returned when the user aborts a prompt with Ctrl+C or EOF.
var ErrCancelled = errors.New("cancelled by user")

// Prompter interface wraps basic prompting functionality for testability
type Prompter interface {
	Prompt(string) (string, error)
	Close() error
}

// LinerPrompter wraps liner.State to implement Prompter interface
type LinerPrompter struct {
	*liner.State
}

// NewLinerPrompter creates a new liner-based prompter
func NewLinerPrompter() Prompter {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	return &LinerPrompter{State: line}
}

// TextInput asks for a line of text, showing current as the value kept on empty input.
func TextInput(prompter Prompter, label, current string) (string, error) {
	text := label
	if current != "" {
		text += " " + color.New(color.Faint).Sprintf("[%s]", current)
	}

	result, err := prompter.Prompt(color.CyanString(text+":") + " ")
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return "", ErrCancelled
		}
		return "", fmt.Errorf("text input failed: %w", err)
	}

	return strings.TrimSpace(result), nil
}

// Confirm asks a yes/no question. Empty input keeps current.
func Confirm(prompter Prompter, label string, current bool) (bool, error) {
	hint := "y/N"
	if current {
		hint = "Y/n"
	}

	for {
		answer, err := TextInput(prompter, fmt.Sprintf("%s (%s)", label, hint), "")
		if err != nil {
			return false, err
		}

		switch strings.ToLower(answer) {
		case "":
			return current, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		color.Yellow("Please answer y or n")
	}
}
