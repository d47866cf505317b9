package shared

import "errors"

var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrRunInProgress indicates another payroll run holds the period lock.
	ErrRunInProgress = errors.New("payroll run already in progress for this period")
)
