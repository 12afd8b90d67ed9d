package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/habitcoach/internal/logger"
)

// UserError marks an error whose message is meant to be shown to the user
// unchanged, such as input validation failures.
type UserError struct {
	msg string
}

func (e *UserError) Error() string { return e.msg }

// NewUserError creates a user-facing error.
func NewUserError(msg string) error {
	return &UserError{msg: msg}
}

// IsUserError reports whether err wraps a UserError.
func IsUserError(err error) bool {
	var ue *UserError
	return errors.As(err, &ue)
}

// UserMessage renders err for display. User errors are shown as-is; anything
// else is reported as a failure to perform action.
func UserMessage(action string, err error) string {
	if err == nil {
		return ""
	}
	var ue *UserError
	if errors.As(err, &ue) {
		return ue.msg
	}
	return fmt.Sprintf("could not %s: %v", action, err)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
