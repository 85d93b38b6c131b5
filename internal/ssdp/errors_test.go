package ssdp

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"syscall"
	"testing"
)

// timeoutError implements net.Error with Timeout() = true
type timeoutError struct{}

func (e *timeoutError) Error() string   { return "i/o timeout" }
func (e *timeoutError) Timeout() bool   { return true }
func (e *timeoutError) Temporary() bool { return true }

func TestClassifyReceiveError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"deadline exceeded", os.ErrDeadlineExceeded, ErrTypeTimeout},
		{"wrapped deadline", &net.OpError{Op: "read", Net: "udp", Err: os.ErrDeadlineExceeded}, ErrTypeTimeout},
		{"net.Error timeout", &net.OpError{Op: "read", Net: "udp", Err: &timeoutError{}}, ErrTypeTimeout},
		{"closed connection", &net.OpError{Op: "read", Net: "udp", Err: net.ErrClosed}, ErrTypeTransport},
		{"connection refused", &net.OpError{Op: "read", Net: "udp", Err: syscall.ECONNREFUSED}, ErrTypeReceive},
		{"other", errors.New("boom"), ErrTypeReceive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyReceiveError(tt.err)
			if got == nil {
				t.Fatal("ClassifyReceiveError() = nil")
			}
			if got.Type != tt.want {
				t.Errorf("Type = %v, want %v", got.Type, tt.want)
			}
			if !errors.Is(got, tt.err) {
				t.Error("classified error should wrap the underlying error")
			}
		})
	}

	if ClassifyReceiveError(nil) != nil {
		t.Error("ClassifyReceiveError(nil) should be nil")
	}
}

func TestIsTransportError(t *testing.T) {
	err := fmt.Errorf("search failed: %w", NewTransportError("bind", "0.0.0.0:42425", syscall.EADDRINUSE))

	if !IsTransportError(err) {
		t.Error("wrapped transport error should be detected")
	}
	if IsTransportError(ClassifyReceiveError(os.ErrDeadlineExceeded)) {
		t.Error("timeout should not be a transport error")
	}
	if IsTransportError(errors.New("plain")) {
		t.Error("plain error should not be a transport error")
	}
	if !IsTimeout(ClassifyReceiveError(os.ErrDeadlineExceeded)) {
		t.Error("IsTimeout() should detect timeouts")
	}
}

func TestDiscoveryError_Error(t *testing.T) {
	err := NewTransportError("bind", "0.0.0.0:42425", syscall.EADDRINUSE)
	msg := err.Error()

	for _, want := range []string{"Transport Error", "bind", "0.0.0.0:42425", "caused by"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, should contain %q", msg, want)
		}
	}
}

func TestParseError_Error(t *testing.T) {
	err := &ParseError{Reason: ReasonStatus, StatusCode: "404"}
	if err.Error() != `unexpected status "404"` {
		t.Errorf("Error() = %q", err.Error())
	}

	if (&ParseError{Reason: ReasonEmpty}).Error() != "empty datagram" {
		t.Error("empty reason message mismatch")
	}

	if !IsParseError(fmt.Errorf("wrapped: %w", err)) {
		t.Error("IsParseError() should see through wrapping")
	}
}

func TestErrorType_String(t *testing.T) {
	tests := []struct {
		et   ErrorType
		want string
	}{
		{ErrTypeTransport, "Transport Error"},
		{ErrTypeReceive, "Receive Error"},
		{ErrTypeTimeout, "Timeout"},
		{ErrorType(42), "ErrorType(42)"},
	}

	for _, tt := range tests {
		if got := tt.et.String(); got != tt.want {
			t.Errorf("ErrorType(%d).String() = %v, want %v", int(tt.et), got, tt.want)
		}
	}
}
