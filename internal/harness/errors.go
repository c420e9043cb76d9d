package harness

import "fmt"

// TrialError records why one trial of a set did not produce a timing
type TrialError struct {
	Trial int
	Err   error
	Panic interface{}
}

// Error implements the error interface
func (e *TrialError) Error() string {
	if e.Panic != nil {
		return fmt.Sprintf("trial %d panicked: %v", e.Trial, e.Panic)
	}
	return fmt.Sprintf("trial %d failed: %v", e.Trial, e.Err)
}

// Unwrap returns the underlying error, nil for panics
func (e *TrialError) Unwrap() error {
	return e.Err
}
