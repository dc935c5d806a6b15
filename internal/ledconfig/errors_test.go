package ledconfig

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"
	"testing"
)

// timeoutError implements net.Error with Timeout() == true
type timeoutError struct{}

func (e *timeoutError) Error() string   { return "i/o timeout" }
func (e *timeoutError) Timeout() bool   { return true }
func (e *timeoutError) Temporary() bool { return true }

func TestClassifyNetworkError_Timeout(t *testing.T) {
	err := &url.Error{
		Op:  "Get",
		URL: "http://192.168.100.12:5000/api",
		Err: &net.OpError{
			Op:  "dial",
			Net: "tcp",
			Err: &timeoutError{},
		},
	}

	devErr := ClassifyNetworkError(err, "http://192.168.100.12:5000/api")

	if devErr.Type != ErrTypeTimeout {
		t.Errorf("Expected error type %v, got %v", ErrTypeTimeout, devErr.Type)
	}

	if devErr.NetworkSubtype != NetworkErrorTimeout {
		t.Errorf("Expected network subtype %v, got %v", NetworkErrorTimeout, devErr.NetworkSubtype)
	}

	if !IsNetworkError(devErr) {
		t.Error("timeout should count as a network error")
	}
}

func TestClassifyNetworkError_ConnectionRefused(t *testing.T) {
	err := &url.Error{
		Op:  "Get",
		URL: "http://192.168.100.12:5000/api",
		Err: &net.OpError{
			Op:  "dial",
			Net: "tcp",
			Err: syscall.ECONNREFUSED,
		},
	}

	devErr := ClassifyNetworkError(err, "http://192.168.100.12:5000/api")

	if devErr.Type != ErrTypeConnectionRefused {
		t.Errorf("Expected error type %v, got %v", ErrTypeConnectionRefused, devErr.Type)
	}

	if !devErr.Retryable {
		t.Error("Expected connection refused error to be retryable")
	}
}

func TestClassifyNetworkError_DNS(t *testing.T) {
	err := &net.DNSError{
		Err:        "no such host",
		Name:       "leds.invalid",
		IsNotFound: true,
	}

	devErr := ClassifyNetworkError(err, "leds.invalid")

	if devErr.Type != ErrTypeDNS {
		t.Errorf("Expected error type %v, got %v", ErrTypeDNS, devErr.Type)
	}

	if !strings.Contains(devErr.Message, "leds.invalid") {
		t.Errorf("Message should name the host, got %q", devErr.Message)
	}

	if devErr.Retryable {
		t.Error("DNS errors should not be retryable")
	}
}

func TestClassifyNetworkError_Unreachable(t *testing.T) {
	tests := []struct {
		name    string
		errno   syscall.Errno
		subtype NetworkErrorSubtype
	}{
		{"host unreachable", syscall.EHOSTUNREACH, NetworkErrorHostUnreachable},
		{"network unreachable", syscall.ENETUNREACH, NetworkErrorNetworkUnreachable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &net.OpError{Op: "dial", Net: "tcp", Err: tt.errno}
			devErr := ClassifyNetworkError(err, "10.0.0.1")

			if devErr.Type != ErrTypeNetwork {
				t.Errorf("Type = %v, want %v", devErr.Type, ErrTypeNetwork)
			}
			if devErr.NetworkSubtype != tt.subtype {
				t.Errorf("NetworkSubtype = %v, want %v", devErr.NetworkSubtype, tt.subtype)
			}
		})
	}
}

func TestClassifyNetworkError_Context(t *testing.T) {
	canceled := ClassifyNetworkError(fmt.Errorf("wrapped: %w", context.Canceled), "")
	if canceled.NetworkSubtype != NetworkErrorCanceled {
		t.Errorf("canceled subtype = %v, want NetworkErrorCanceled", canceled.NetworkSubtype)
	}

	deadline := ClassifyNetworkError(context.DeadlineExceeded, "")
	if deadline.Type != ErrTypeTimeout {
		t.Errorf("deadline type = %v, want %v", deadline.Type, ErrTypeTimeout)
	}
}

func TestClassifyNetworkError_Nil(t *testing.T) {
	if ClassifyNetworkError(nil, "") != nil {
		t.Error("ClassifyNetworkError(nil) should return nil")
	}
}

func TestDeviceError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NewProtocolError("bad body", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause through Unwrap")
	}

	if !strings.Contains(err.Error(), "Protocol Error") || !strings.Contains(err.Error(), "root cause") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestIsHelpers_WrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("submit failed: %w", NewProtocolError("missing received", nil))

	if !IsProtocolError(wrapped) {
		t.Error("IsProtocolError should see through fmt.Errorf wrapping")
	}
	if IsNetworkError(wrapped) {
		t.Error("protocol error is not a network error")
	}
	if IsHTTPError(errors.New("plain")) {
		t.Error("plain error is not an HTTP error")
	}
	if IsRetryable(errors.New("plain")) {
		t.Error("plain errors are not retryable")
	}
}

func TestNewHTTPError_Retryable(t *testing.T) {
	if !NewHTTPError(503, "unavailable").Retryable {
		t.Error("5xx should be retryable")
	}
	if NewHTTPError(404, "not found").Retryable {
		t.Error("4xx should not be retryable")
	}
}

func TestErrorType_String(t *testing.T) {
	tests := []struct {
		et   ErrorType
		want string
	}{
		{ErrTypeNetwork, "Network Error"},
		{ErrTypeProtocol, "Protocol Error"},
		{ErrTypeHTTP, "HTTP Error"},
		{ErrTypeValidation, "Validation Error"},
		{ErrTypeTimeout, "Timeout"},
		{ErrorType(99), "ErrorType(99)"},
	}

	for _, tt := range tests {
		if got := tt.et.String(); got != tt.want {
			t.Errorf("ErrorType(%d).String() = %q, want %q", tt.et, got, tt.want)
		}
	}
}

func TestGetShortErrorMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{NewProtocolError("x", nil), "Unexpected response from controller"},
		{NewMalformedBodyError("x"), "Controller sent a non-JSON response"},
		{NewHTTPError(500, "x"), "Controller error (HTTP 500)"},
		{NewValidationError("color must be in #RRGGBB form"), "color must be in #RRGGBB form"},
		{errors.New("plain"), "plain"},
	}

	for _, tt := range tests {
		if got := GetShortErrorMessage(tt.err); got != tt.want {
			t.Errorf("GetShortErrorMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestGetTroubleshootingHint(t *testing.T) {
	hint := GetTroubleshootingHint(&DeviceError{Type: ErrTypeConnectionRefused})
	if !strings.Contains(hint, "refused") {
		t.Errorf("hint = %q", hint)
	}

	if GetTroubleshootingHint(errors.New("x")) == "" {
		t.Error("non-device errors should still get a hint")
	}
}
