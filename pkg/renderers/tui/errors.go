package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrIncomplete is returned when validation still fails after the
	// configured number of rounds.
	ErrIncomplete = errors.New("tui: survey left incomplete")
)
