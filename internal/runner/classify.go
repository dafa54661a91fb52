package runner

import (
	"errors"

	"github.com/pinchtab/swiftcheck/internal/bridge"
	"github.com/pinchtab/swiftcheck/internal/detect"
)

const (
	ClassNavigation      = "navigation"
	ClassElementNotFound = "element_not_found"
	ClassTimeout         = "timeout"
	ClassOther           = "other"
)

// Classify maps a case error to its report class. Timeouts are the expected
// product signal; the other classes mean the harness or site broke.
func Classify(err error) string {
	if err == nil {
		return ""
	}
	var (
		nav *bridge.NavigationError
		enf *bridge.ElementNotFoundError
		to  *detect.TimeoutError
	)
	switch {
	case errors.As(err, &to):
		return ClassTimeout
	case errors.As(err, &enf):
		return ClassElementNotFound
	case errors.As(err, &nav):
		return ClassNavigation
	default:
		return ClassOther
	}
}
