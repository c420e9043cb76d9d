package util

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestLocationError(t *testing.T) {
	baseErr := errors.New("status 503")
	locErr := WrapLocationError("Recife", baseErr)

	if locErr == nil {
		t.Fatal("expected error, got nil")
	}

	expectedMsg := `location "Recife": status 503`
	if locErr.Error() != expectedMsg {
		t.Errorf("expected %q, got %q", expectedMsg, locErr.Error())
	}

	if !errors.Is(locErr, baseErr) {
		t.Error("expected location error to wrap base error")
	}

	var le *LocationError
	if !errors.As(locErr, &le) {
		t.Fatal("errors.As should find LocationError")
	}
	if le.Location != "Recife" {
		t.Errorf("expected location %q, got %q", "Recife", le.Location)
	}

	if WrapLocationError("Recife", nil) != nil {
		t.Error("expected nil when wrapping nil")
	}
}

func TestMultiError(t *testing.T) {
	many := make([]error, 27)
	for i := range many {
		many[i] = fmt.Errorf("location %d: status 503", i+1)
	}

	tests := []struct {
		name     string
		errs     []error
		wantLen  int
		contains []string
		exact    string
	}{
		{name: "empty", errs: nil, exact: "no errors"},
		{name: "only nils", errs: []error{nil, nil}, exact: "no errors"},
		{name: "single", errs: []error{errors.New("status 500")}, wantLen: 1, exact: "status 500"},
		{
			name:     "nils filtered",
			errs:     []error{errors.New("error 1"), nil, errors.New("error 2"), nil},
			wantLen:  2,
			contains: []string{"2 errors occurred", "1. error 1", "2. error 2"},
		},
		{
			name:     "truncated after ten",
			errs:     many,
			wantLen:  27,
			contains: []string{"27 errors occurred", "10. location 10", "and 17 more errors"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMultiError(tt.errs)
			if len(m.Errors) != tt.wantLen {
				t.Errorf("expected %d errors, got %d", tt.wantLen, len(m.Errors))
			}

			msg := m.Error()
			if tt.exact != "" && msg != tt.exact {
				t.Errorf("expected %q, got %q", tt.exact, msg)
			}
			for _, want := range tt.contains {
				if !strings.Contains(msg, want) {
					t.Errorf("expected message to contain %q, got %q", want, msg)
				}
			}
			if strings.Contains(msg, "location 11:") {
				t.Errorf("message lists more than ten errors: %q", msg)
			}
		})
	}
}

func TestMultiErrorUnwrap(t *testing.T) {
	err1 := errors.New("error 1")
	err2 := WrapLocationError("Natal", ErrFetchFailed)

	m := NewMultiError([]error{err1, err2})

	if len(m.Unwrap()) != 2 {
		t.Errorf("expected 2 unwrapped errors, got %d", len(m.Unwrap()))
	}
	if !errors.Is(m, err1) {
		t.Error("errors.Is should find err1 in MultiError")
	}
	if !errors.Is(m, ErrFetchFailed) {
		t.Error("errors.Is should see through LocationError inside MultiError")
	}
}

func TestValidationError(t *testing.T) {
	t.Run("with value", func(t *testing.T) {
		err := NewValidationError("repetitions", -1, "must be positive")
		expectedMsg := `validation failed for field "repetitions" (value: -1): must be positive`
		if err.Error() != expectedMsg {
			t.Errorf("expected %q, got %q", expectedMsg, err.Error())
		}
	})

	t.Run("without value", func(t *testing.T) {
		err := NewValidationError("baseURL", nil, "is required")
		expectedMsg := `validation failed for field "baseURL": is required`
		if err.Error() != expectedMsg {
			t.Errorf("expected %q, got %q", expectedMsg, err.Error())
		}
	})

	t.Run("is invalid config", func(t *testing.T) {
		err := NewValidationError("output", "xml", "unsupported")
		if !errors.Is(err, ErrInvalidConfig) {
			t.Error("validation errors should match ErrInvalidConfig")
		}
	})
}

func TestErrorCheckers(t *testing.T) {
	wrapped := func(err error) error { return fmt.Errorf("context: %w", err) }

	if !IsTimeout(wrapped(ErrTimeout)) {
		t.Error("IsTimeout should see wrapped ErrTimeout")
	}
	if IsTimeout(ErrCancelled) {
		t.Error("IsTimeout should not match ErrCancelled")
	}
	if !IsCancelled(wrapped(ErrCancelled)) {
		t.Error("IsCancelled should see wrapped ErrCancelled")
	}
	if !IsNotFound(WrapLocationError("x", ErrLocationNotFound)) {
		t.Error("IsNotFound should see through LocationError")
	}
	if !IsFetchError(wrapped(ErrFetchFailed)) {
		t.Error("IsFetchError should see wrapped ErrFetchFailed")
	}
}

func TestFriendlyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{name: "nil error", err: nil, contains: ""},
		{name: "timeout error", err: ErrTimeout, contains: "timed out"},
		{name: "cancelled error", err: ErrCancelled, contains: "cancelled"},
		{name: "not found error", err: ErrLocationNotFound, contains: "tempbench locations"},
		{name: "fetch error", err: ErrFetchFailed, contains: "fetch weather data"},
		{name: "invalid config", err: NewValidationError("repetitions", 0, "must be positive"), contains: "Invalid configuration"},
		{name: "no trials", err: ErrNoSuccessfulTrials, contains: "Every trial failed"},
		{name: "unknown error", err: errors.New("custom error message"), contains: "custom error message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := FriendlyError(tt.err)
			if tt.contains == "" {
				if msg != "" {
					t.Errorf("expected empty string, got %q", msg)
				}
				return
			}

			if !strings.Contains(msg, tt.contains) {
				t.Errorf("expected message to contain %q, got %q", tt.contains, msg)
			}
		})
	}
}
