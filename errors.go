// Package tfs provides sentinel errors and the error kinds used across the
// reconciliation engine. All errors can be checked using errors.Is() /
// errors.As() for programmatic handling.
package tfs

import (
	"errors"
	"fmt"
)

// ErrInvalidOptions is returned when required configuration is missing or
// malformed.
var ErrInvalidOptions = errors.New("invalid options")

// ErrNoMapping is returned when a local path does not resolve to any
// configured workspace working folder.
var ErrNoMapping = errors.New("no workspace mapping")

// ErrProtocolViolation is the sentinel wrapped by ProtocolViolationError.
// It indicates the server reported a status that is incompatible with the
// requested operation. This is fatal and never downgraded to a per-item
// failure.
var ErrProtocolViolation = errors.New("protocol violation")

// ErrCancelled is returned when the progress sink requested cancellation
// between phases or items.
var ErrCancelled = errors.New("operation cancelled")

// ErrPolicyNotSatisfied is returned when checkin policies report failures
// and the session carries no policy override.
var ErrPolicyNotSatisfied = errors.New("checkin policy not satisfied")

// ProtocolViolationError reports that server state contradicts the running
// operation, e.g. a missing-file-deletion rollback on an item the server
// considers Unversioned.
type ProtocolViolationError struct {
	// Operation names the flow that hit the violation.
	Operation string

	// LocalPath is the item the violation was reported for.
	LocalPath string

	// Status is the classification the flow considers impossible.
	Status StatusKind
}

func (e *ProtocolViolationError) Error() string {
	return fmt.Sprintf("server returned status %s during %s for %s", e.Status, e.Operation, e.LocalPath)
}

// Unwrap makes the error match ErrProtocolViolation via errors.Is().
func (e *ProtocolViolationError) Unwrap() error {
	return ErrProtocolViolation
}

// ItemError is a recoverable per-item failure. Item errors are aggregated
// into the operation outcome and never abort sibling items.
type ItemError struct {
	// Path is the local path of the failed item.
	Path string

	// Op names the step that failed (upload, checkin, download, undo, ...).
	Op string

	// Err is the underlying cause.
	Err error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("%s failed for %s: %v", e.Op, e.Path, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// TransportError reports that a gateway call itself failed. It aborts the
// remaining phases for the current workspace only; other workspaces still
// run.
type TransportError struct {
	// Workspace is the name of the workspace whose processing was aborted.
	Workspace string

	// Phase names the gateway call that failed.
	Phase string

	// Err is the underlying cause.
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("workspace %q: %s: %v", e.Workspace, e.Phase, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// WrapError wraps an error with additional context while preserving
// the ability to check against sentinel errors using errors.Is().
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// WrapErrorf wraps an error with formatted additional context while preserving
// the ability to check against sentinel errors using errors.Is().
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
