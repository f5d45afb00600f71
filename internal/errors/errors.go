package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/cadence/internal/logger"
	"github.com/julianstephens/cadence/internal/models"
)

// Format formats an error message with a consistent "Error: " prefix. Task
// table errors get a hint naming what the task file must provide.
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	if hint := Hint(err); hint != "" {
		msg += "\n  " + hint
	}
	return msg
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Hint returns a one-line remedy for errors a user can fix in the task file.
func Hint(err error) string {
	var mfe *models.MissingFieldError
	if errors.As(err, &mfe) {
		return fmt.Sprintf("add a %q column to the task file", mfe.Field)
	}
	var fe *models.FieldError
	if errors.As(err, &fe) {
		return fmt.Sprintf("check the %s value on data row %d", fe.Field, fe.Row+1)
	}
	return ""
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
