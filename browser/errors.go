package browser

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrElementNotFound reports that a locator matched nothing usable.
	ErrElementNotFound = errors.New("element not found")
	// ErrUnsupportedLocator reports a locator kind the engine cannot evaluate.
	ErrUnsupportedLocator = errors.New("locator not supported by this engine")
	// ErrForeignElement reports an Element handle that belongs to another engine.
	ErrForeignElement = errors.New("element does not belong to this session")
)

// WaitTimeoutError is returned when a bounded wait expires.
// It matches ErrElementNotFound with errors.Is.
type WaitTimeoutError struct {
	Locator Locator
	Timeout time.Duration
	// Condition is what was waited for; empty means "clickable".
	Condition string
	Err       error
}

func (e *WaitTimeoutError) Error() string {
	cond := e.Condition
	if cond == "" {
		cond = "clickable"
	}
	return fmt.Sprintf("%s not %s within %v", e.Locator, cond, e.Timeout)
}

func (e *WaitTimeoutError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrElementNotFound}
	}
	return []error{ErrElementNotFound, e.Err}
}
