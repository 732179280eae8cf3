package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoActions is returned when a survey form step offers nothing to do
	// next, which would otherwise loop forever.
	ErrNoActions = errors.New("tui: step has no actions")
)
