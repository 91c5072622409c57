package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
)

var (
	// ErrEncoding marks malformed or out of range input detected before any network call.
	ErrEncoding = errors.New("encoding error")
	// ErrTransport marks network or connection failures.
	ErrTransport = errors.New("transport error")
	// ErrRejected marks messages that reached the node but were refused by it.
	ErrRejected = errors.New("message rejected")
	// ErrDecode marks responses whose shape does not match the expected type.
	ErrDecode = errors.New("decode error")
	// ErrNotImplemented marks capabilities a backend does not provide.
	ErrNotImplemented = errors.New("not implemented")
)

// RemoteError is an explicit error payload returned by a remote service.
type RemoteError struct {
	Message    string
	StatusCode int
}

func (e *RemoteError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("remote error (status %d): %s", e.StatusCode, e.Message)
	}
	return "remote error: " + e.Message
}

// IsTransportFailure reports whether err looks like a connection level
// failure rather than a refusal by the remote side.
func IsTransportFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTransport) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// ClassifySendError wraps a message submission failure as ErrTransport or
// ErrRejected. Errors already carrying one of the sentinels are returned as is.
func ClassifySendError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrTransport) || errors.Is(err, ErrRejected) {
		return err
	}
	if IsTransportFailure(err) {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	return fmt.Errorf("%w: %w", ErrRejected, err)
}
