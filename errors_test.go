package petkit

import (
	"errors"
	"fmt"
	"testing"
)

type timeoutErr struct{}

func (timeoutErr) Error() string { return "deadline exceeded" }
func (timeoutErr) Timeout() bool { return true }

func TestErrorPredicates(t *testing.T) {
	tests := []struct {
		name string
		err  error
		pred func(error) bool
		want bool
	}{
		{"session expired sentinel", ErrSessionExpired, IsSessionExpired, true},
		{"session expired code", &APIError{Code: 5}, IsSessionExpired, true},
		{"wrapped session expired", fmt.Errorf("refresh: %w", ErrSessionExpired), IsSessionExpired, true},
		{"other code not expired", &APIError{Code: 122}, IsSessionExpired, false},

		{"auth failed sentinel", ErrAuthenticationFailed, IsAuthenticationError, true},
		{"unregistered email sentinel", ErrUnregisteredEmail, IsAuthenticationError, true},
		{"auth failed code", &APIError{Code: 122}, IsAuthenticationError, true},
		{"unregistered email code", &APIError{Code: 125}, IsAuthenticationError, true},
		{"busy is not auth", ErrServerBusy, IsAuthenticationError, false},

		{"server busy sentinel", ErrServerBusy, IsServerBusy, true},
		{"server busy code", &APIError{Code: 1}, IsServerBusy, true},
		{"auth is not busy", &APIError{Code: 122}, IsServerBusy, false},

		{"http status error", &HTTPStatusError{StatusCode: 502}, IsInvalidHTTPStatus, true},
		{"wrapped http status", fmt.Errorf("fetch: %w", &HTTPStatusError{StatusCode: 404}), IsInvalidHTTPStatus, true},
		{"api error is not http status", &APIError{Code: 1}, IsInvalidHTTPStatus, false},

		{"timeout", timeoutErr{}, IsTimeout, true},
		{"wrapped timeout", fmt.Errorf("do: %w", timeoutErr{}), IsTimeout, true},
		{"plain error is not timeout", errors.New("boom"), IsTimeout, false},

		{"nil error", nil, IsSessionExpired, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pred(tt.err); got != tt.want {
				t.Errorf("predicate(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestAPIError_Error(t *testing.T) {
	err := &APIError{Code: 5, Message: "session expired"}
	want := "petkit: API error 5: session expired"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	err = &APIError{Code: 1, Message: "busy", URL: "https://api.example.com/x"}
	want = "petkit: API error 1: busy (url: https://api.example.com/x)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestHTTPStatusError_Error(t *testing.T) {
	err := &HTTPStatusError{StatusCode: 502, URL: "https://api.example.com/x"}
	want := "petkit: request failed with status 502 (url: https://api.example.com/x)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
