package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQuantity rejects a non-positive quantity passed to an
	// add or update operation.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrNotFound means the referenced product or order is not present.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition rejects an order status update that would move
	// backward in the lifecycle, or any update on a terminal order.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidCredentials is a login rejection by the backend, as
	// opposed to the backend being unreachable.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// RemoteSyncError wraps a failure to synchronize local state with the
// remote store. The local mutation it belonged to has been rolled back
// by the time the caller sees this.
type RemoteSyncError struct {
	Op    string
	Cause error
}

func (e *RemoteSyncError) Error() string {
	return fmt.Sprintf("remote sync failed: %s: %v", e.Op, e.Cause)
}

func (e *RemoteSyncError) Unwrap() error { return e.Cause }
