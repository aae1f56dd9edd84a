// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Exit codes and error display.
//
// Handlers always return errors; main decides how to display them and
// what exit code the process ends with. Nothing in this package calls
// os.Exit except HandleErrorAndExit.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/jeranaias/garagehub-tui/internal/api"
)

// Exit codes by failure category.
const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitUsageError   = 2
	ExitConfigError  = 3
	ExitNetworkError = 5
	ExitNotFound     = 7
	ExitTimeout      = 8
)

// UsageError marks bad invocations so main can show usage guidance.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

// NewUsageError creates a usage error.
func NewUsageError(format string, args ...interface{}) error {
	return &UsageError{Message: fmt.Sprintf(format, args...)}
}

// SilentError marks a failure the handler already explained on stdout.
// The exit code still comes from the wrapped error; DisplayError just
// skips the stderr line.
type SilentError struct {
	Err error
}

func (e *SilentError) Error() string {
	return e.Err.Error()
}

func (e *SilentError) Unwrap() error {
	return e.Err
}

// Silence wraps an already-explained error.
func Silence(err error) error {
	return &SilentError{Err: err}
}

// GetExitCode maps an error to the process exit code.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var usage *UsageError
	switch {
	case errors.As(err, &usage):
		return ExitUsageError
	case api.IsNotFound(err):
		return ExitNotFound
	case api.IsTimeout(err):
		return ExitTimeout
	case api.IsUnavailable(err):
		return ExitNetworkError
	default:
		return ExitGeneralError
	}
}

// DisplayError renders an error for the user. In JSON mode the error
// was already written inside the envelope, so this stays quiet.
func DisplayError(err error, jsonMode bool) {
	if err == nil || jsonMode {
		return
	}
	var silent *SilentError
	if errors.As(err, &silent) {
		return
	}
	fmt.Fprintf(os.Stderr, "%s %s\n", ErrorStyle.Render("error:"), api.UserMessage(err))

	var usage *UsageError
	if errors.As(err, &usage) {
		fmt.Fprintln(os.Stderr, DimStyle.Render("run garagehub help for usage"))
	}
}

// HandleErrorAndExit displays the error and exits with its code.
func HandleErrorAndExit(err error, jsonMode bool) {
	if err == nil {
		return
	}
	DisplayError(err, jsonMode)
	os.Exit(GetExitCode(err))
}
