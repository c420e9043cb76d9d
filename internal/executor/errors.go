package executor

import (
	"fmt"
	"time"

	"github.com/aryankumar/tempbench/internal/util"
)

// DrainTimeoutError reports that a pool's tasks did not all finish within
// the drain ceiling
type DrainTimeoutError struct {
	Ceiling   time.Duration
	Completed int
	Total     int
}

// Error implements the error interface
func (e *DrainTimeoutError) Error() string {
	return fmt.Sprintf("pool drain exceeded %s (%d/%d tasks completed)", e.Ceiling, e.Completed, e.Total)
}

// Unwrap lets callers match drain timeouts with util.IsTimeout
func (e *DrainTimeoutError) Unwrap() error {
	return util.ErrTimeout
}
