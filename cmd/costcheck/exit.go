package main

import (
	"errors"
	"fmt"
)

// Exit codes for CLI commands.
const (
	exitSuccess      = 0 // every check passed
	exitFailure      = 1 // at least one check failed or errored
	exitCommandError = 2 // bad flags, config, store or queue
)

type exitError struct {
	Code    int
	Message string
	Err     error
}

func (e *exitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *exitError) Unwrap() error {
	return e.Err
}

func wrapExitError(code int, message string, err error) *exitError {
	return &exitError{Code: code, Message: message, Err: err}
}

// exitCodeOf returns exitCommandError for errors that carry no code, which
// covers cobra's own flag and argument errors.
func exitCodeOf(err error) int {
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return exitCommandError
}
