package cli

import (
	"errors"
	"fmt"

	"github.com/tartampluch/go-genie/internal/config"
)

// ExitError carries the process exit code of a failed command.
type ExitError struct {
	Code    int    // config.ExitCodeError or config.ExitCodeConfig
	Message string
	Err     error // optional
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates an ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps err with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from err.
// Any error that is not an ExitError maps to config.ExitCodeError.
func GetExitCode(err error) int {
	if err == nil {
		return config.ExitCodeSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return config.ExitCodeError
}
