package models

import (
	"context"
	"errors"
	"net"
	"syscall"
)

// ErrConnection means the generation backend could not be reached.
var ErrConnection = errors.New("generation backend unreachable")

// IsConnectionError reports whether err was caused by failing to reach the
// backend rather than by the backend rejecting the request.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrConnection) || errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}
