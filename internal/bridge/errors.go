package bridge

import (
	"fmt"
	"strings"
	"time"
)

// NavigationError means the target page never reached a parsed state.
type NavigationError struct {
	URL     string
	Timeout time.Duration
	Err     error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigate %s (timeout %v): %v", e.URL, e.Timeout, e.Err)
}

func (e *NavigationError) Unwrap() error {
	return e.Err
}

// ElementNotFoundError means a required UI surface never became visible.
type ElementNotFoundError struct {
	Role   string
	Waited time.Duration
	// Seen lists the interactive roles present on the page at the last check.
	Seen []string
	Err  error
}

func (e *ElementNotFoundError) Error() string {
	msg := fmt.Sprintf("no visible %q element after %v", e.Role, e.Waited)
	if len(e.Seen) > 0 {
		msg += " (page has: " + strings.Join(e.Seen, ", ") + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ElementNotFoundError) Unwrap() error {
	return e.Err
}
