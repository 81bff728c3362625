package apperrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestKindPredicates(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		validation bool
		remote     bool
		transport  bool
	}{
		{"validation", Validation(MsgEnterURL), true, false, false},
		{"remote", Remote("download", http.StatusBadRequest, "URL is required"), false, true, false},
		{"transport", Transport("history", context.DeadlineExceeded), false, false, true},
		{"wrapped remote", fmt.Errorf("start: %w", Remote("download", 500, "boom")), false, true, false},
		{"plain error", errors.New("plain"), false, false, false},
		{"nil", nil, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidation(tt.err); got != tt.validation {
				t.Errorf("IsValidation() = %v, want %v", got, tt.validation)
			}
			if got := IsRemote(tt.err); got != tt.remote {
				t.Errorf("IsRemote() = %v, want %v", got, tt.remote)
			}
			if got := IsTransport(tt.err); got != tt.transport {
				t.Errorf("IsTransport() = %v, want %v", got, tt.transport)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(Remote("analyze", 400, "Please provide a valid YouTube URL")); got != "Please provide a valid YouTube URL" {
		t.Errorf("Remote message should pass through verbatim, got %q", got)
	}
	if got := UserMessage(Transport("analyze", errors.New("dial tcp: connection refused"))); got != MsgNetworkError {
		t.Errorf("Transport errors should show the generic message, got %q", got)
	}
	if got := UserMessage(errors.New("dial tcp: connection refused")); got != MsgNetworkError {
		t.Errorf("Unclassified errors should show the generic message, got %q", got)
	}
	if got := UserMessage(nil); got != "" {
		t.Errorf("nil error should have no message, got %q", got)
	}
}

func TestErrorUnwrapAndString(t *testing.T) {
	cause := context.Canceled
	err := Transport("status", cause).WithRequestID("req-1")

	if !errors.Is(err, context.Canceled) {
		t.Error("Expected errors.Is to find the cause")
	}
	if err.RequestID != "req-1" {
		t.Errorf("Expected request id req-1, got %q", err.RequestID)
	}
	if !strings.HasPrefix(err.Error(), "status: transport: ") {
		t.Errorf("Unexpected error string: %q", err.Error())
	}
}
