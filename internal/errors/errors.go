// Package errors turns a failed shiftdesk command into its last line of
// output and exit status.
package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/shiftdesk/internal/api"
	"github.com/julianstephens/shiftdesk/internal/logger"
)

// Exit statuses. Scripts can tell a missing login apart from other failures.
const (
	ExitFailure         = 1
	ExitUnauthenticated = 2
)

// Format renders err as the one line printed on stderr. Client errors use the
// same text the TUI shows.
func Format(err error) string {
	if err == nil {
		return ""
	}
	return "Error: " + strings.TrimSpace(api.Message(err))
}

// ExitCode maps err to the process exit status, 0 for nil.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case stderrors.Is(err, api.ErrUnauthenticated):
		return ExitUnauthenticated
	default:
		return ExitFailure
	}
}

// Fatal logs err, prints it and exits. It returns when err is nil.
func Fatal(err error) {
	if err == nil {
		return
	}
	logger.Error("command failed", "error", err)
	fmt.Fprintln(os.Stderr, Format(err))
	os.Exit(ExitCode(err))
}
