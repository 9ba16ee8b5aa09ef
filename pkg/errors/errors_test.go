package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := New(ErrCodeInvalidDocument, "graph %q has no nodes", "main")
	if got, want := err.Error(), `INVALID_DOCUMENT: graph "main" has no nodes`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	cause := errors.New("disk full")
	wrapped := Wrap(ErrCodeStore, cause, "save graph %s", "main")
	if got, want := wrapped.Error(), "STORE_ERROR: save graph main: disk full"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestWrapKeepsChain(t *testing.T) {
	cause := fmt.Errorf("timeout")
	err := Wrap(ErrCodeStore, cause, "persist")

	if errors.Unwrap(err) != cause {
		t.Error("Unwrap() should return the cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause through the wrapper")
	}

	var coded *Error
	if !errors.As(fmt.Errorf("outer: %w", err), &coded) || coded.Code != ErrCodeStore {
		t.Error("errors.As should find the coded error through further wrapping")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"matching", New(ErrCodeCycle, "loop"), ErrCodeCycle, true},
		{"different code", New(ErrCodeCycle, "loop"), ErrCodeMaxDepth, false},
		{"outer code wins", Wrap(ErrCodeStore, New(ErrCodeCycle, "inner"), "outer"), ErrCodeStore, true},
		{"plain error", errors.New("plain"), ErrCodeCycle, false},
		{"nil", nil, ErrCodeCycle, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is(%v, %s) = %v, want %v", tt.err, tt.code, got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeGraphNotFound, "missing")); got != ErrCodeGraphNotFound {
		t.Errorf("GetCode() = %q, want %q", got, ErrCodeGraphNotFound)
	}
	if got := GetCode(fmt.Errorf("wrapped: %w", New(ErrCodeNotFound, "gone"))); got != ErrCodeNotFound {
		t.Errorf("GetCode() through wrapping = %q, want %q", got, ErrCodeNotFound)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
	if got := GetCode(nil); got != "" {
		t.Errorf("GetCode(nil) = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidInput, "name may not be empty")); got != "name may not be empty" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("plain failure")); got != "plain failure" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}
