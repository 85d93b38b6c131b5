package ssdp

import (
	"errors"
	"fmt"
	"net"
	"os"
)

// ErrorType represents the category of a discovery failure
type ErrorType int

const (
	// ErrTypeTransport indicates a local socket problem (bind, socket option, send).
	// Transport errors are fatal for the session.
	ErrTypeTransport ErrorType = iota
	// ErrTypeReceive indicates a receive failure during collection. It ends the
	// current burst but never the session.
	ErrTypeReceive
	// ErrTypeTimeout indicates the read window elapsed with no datagram
	ErrTypeTimeout
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeTransport:
		return "Transport Error"
	case ErrTypeReceive:
		return "Receive Error"
	case ErrTypeTimeout:
		return "Timeout"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// DiscoveryError is a network-side failure raised while searching
type DiscoveryError struct {
	Type    ErrorType // Category of error
	Op      string    // Operation that failed ("bind", "send", "receive", ...)
	Address string    // Local or remote address involved, if any
	Err     error     // Underlying error
}

// Error implements the error interface
func (e *DiscoveryError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Type, e.Op)
	if e.Address != "" {
		msg += " " + e.Address
	}
	if e.Err != nil {
		msg += fmt.Sprintf(" (caused by: %v)", e.Err)
	}
	return msg
}

// Unwrap returns the underlying error for error chain inspection
func (e *DiscoveryError) Unwrap() error {
	return e.Err
}

// NewTransportError wraps a fatal socket failure
func NewTransportError(op, address string, err error) *DiscoveryError {
	return &DiscoveryError{
		Type:    ErrTypeTransport,
		Op:      op,
		Address: address,
		Err:     err,
	}
}

// ClassifyReceiveError sorts a ReadFrom failure into timeout, receive or
// transport errors. A closed connection is a transport error because no
// later burst can use it.
func ClassifyReceiveError(err error) *DiscoveryError {
	if err == nil {
		return nil
	}

	if errors.Is(err, net.ErrClosed) {
		return NewTransportError("receive", "", err)
	}

	if os.IsTimeout(err) || errors.Is(err, os.ErrDeadlineExceeded) {
		return &DiscoveryError{Type: ErrTypeTimeout, Op: "receive", Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &DiscoveryError{Type: ErrTypeTimeout, Op: "receive", Err: err}
	}

	return &DiscoveryError{Type: ErrTypeReceive, Op: "receive", Err: err}
}

// IsTransportError reports whether err is fatal for the session
func IsTransportError(err error) bool {
	var discErr *DiscoveryError
	if errors.As(err, &discErr) {
		return discErr.Type == ErrTypeTransport
	}
	return false
}

// IsTimeout reports whether err is an expired read window
func IsTimeout(err error) bool {
	var discErr *DiscoveryError
	if errors.As(err, &discErr) {
		return discErr.Type == ErrTypeTimeout
	}
	return false
}

// ParseReason says why a datagram was rejected
type ParseReason int

const (
	// ReasonEmpty means the datagram carried no text at all
	ReasonEmpty ParseReason = iota
	// ReasonInvalidUTF8 means the payload was not valid UTF-8
	ReasonInvalidUTF8
	// ReasonMalformedStatus means the status line had no status code token
	ReasonMalformedStatus
	// ReasonStatus means the status code was something other than 200
	ReasonStatus
)

// String returns a short description of the reason
func (r ParseReason) String() string {
	switch r {
	case ReasonEmpty:
		return "empty datagram"
	case ReasonInvalidUTF8:
		return "payload is not valid UTF-8"
	case ReasonMalformedStatus:
		return "malformed status line"
	case ReasonStatus:
		return "unexpected status"
	default:
		return fmt.Sprintf("ParseReason(%d)", r)
	}
}

// ParseError is returned by ParseResponse for any reply that does not yield a
// DeviceRecord. It is never fatal.
type ParseError struct {
	Reason     ParseReason
	StatusLine string // Raw status line, if one was present
	StatusCode string // Status code token, if one was present
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Reason == ReasonStatus {
		return fmt.Sprintf("%s %q", e.Reason, e.StatusCode)
	}
	return e.Reason.String()
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}
