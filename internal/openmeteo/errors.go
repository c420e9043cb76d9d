package openmeteo

import (
	"fmt"

	"github.com/aryankumar/tempbench/internal/util"
)

// FetchError describes a forecast request that did not yield a series.
// StatusCode is zero when no HTTP response was received.
type FetchError struct {
	StatusCode int
	Reason     string
	URL        string
	Err        error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	msg := "fetch failed"
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("fetch failed with status %d", e.StatusCode)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap matches util.ErrFetchFailed and exposes the underlying cause
func (e *FetchError) Unwrap() []error {
	if e.Err != nil {
		return []error{util.ErrFetchFailed, e.Err}
	}
	return []error{util.ErrFetchFailed}
}
