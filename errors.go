package petkit

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the PetKit client.
// All errors are defined here for easy discovery and consistent organization.
var (
	// Authentication and session errors
	ErrEmptyUsername        = errors.New("petkit: username cannot be empty")
	ErrEmptyPassword        = errors.New("petkit: password cannot be empty")
	ErrNoSession            = errors.New("petkit: no active session")
	ErrSessionExpired       = errors.New("petkit: session expired")
	ErrAuthenticationFailed = errors.New("petkit: authentication failed")
	ErrUnregisteredEmail    = errors.New("petkit: email address is not registered")
	ErrRegionNotFound       = errors.New("petkit: no regional server matches the configured region")

	// Transport errors
	ErrServerBusy            = errors.New("petkit: server busy")
	ErrInvalidResponseFormat = errors.New("petkit: response is not in the expected format")

	// Device validation errors
	ErrDeviceNotFound    = errors.New("petkit: device not found in entity map")
	ErrMissingDeviceInfo = errors.New("petkit: entity has no device metadata")
	ErrUnsupportedAction = errors.New("petkit: action not supported")
	ErrUnsupportedDevice = errors.New("petkit: device type not supported for this action")

	// IoT errors
	ErrNoIotConfig = errors.New("petkit: no IoT MQTT configuration available")
)

// APIError represents an error envelope returned by the PetKit API.
// The vendor reports failures inside a 200 response as {"error": {"code": N, "msg": ...}}.
type APIError struct {
	Code    int
	Message string
	URL     string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("petkit: API error %d: %s (url: %s)", e.Code, e.Message, e.URL)
	}
	return fmt.Sprintf("petkit: API error %d: %s", e.Code, e.Message)
}

// HTTPStatusError represents a non-2xx HTTP response from the PetKit API.
// Vendor-level failures normally arrive inside a 200 envelope; this error
// covers the transport-level failures that do not.
type HTTPStatusError struct {
	StatusCode int
	URL        string
}

// Error implements the error interface.
func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("petkit: request failed with status %d (url: %s)", e.StatusCode, e.URL)
}

// IsInvalidHTTPStatus returns true if the error is a non-2xx HTTP response.
func IsInvalidHTTPStatus(err error) bool {
	var statusErr *HTTPStatusError
	return errors.As(err, &statusErr)
}

// Vendor error codes carried in the response envelope.
const (
	apiCodeServerBusy        = 1
	apiCodeSessionExpired    = 5
	apiCodeAuthFailed        = 122
	apiCodeUnregisteredEmail = 125
)

// IsSessionExpired returns true if the error indicates the session is no longer valid.
func IsSessionExpired(err error) bool {
	if errors.Is(err, ErrSessionExpired) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == apiCodeSessionExpired
	}
	return false
}

// IsAuthenticationError returns true if the error indicates a login failure.
func IsAuthenticationError(err error) bool {
	if errors.Is(err, ErrAuthenticationFailed) || errors.Is(err, ErrUnregisteredEmail) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == apiCodeAuthFailed || apiErr.Code == apiCodeUnregisteredEmail
	}
	return false
}

// IsServerBusy returns true if the error indicates transient server overload.
func IsServerBusy(err error) bool {
	if errors.Is(err, ErrServerBusy) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == apiCodeServerBusy
	}
	return false
}

// IsTimeout returns true if the error indicates a timeout.
func IsTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
