package service

import (
	"errors"
	"fmt"

	"github.com/DarioRSL/storage-shelves-and-box-organizer-sub005/internal/model"
)

// Sentinel errors shared by all services. Handlers translate these into HTTP
// statuses via errors.Is/As; anything else is treated as an internal error
// and surfaced as an opaque 500.
var (
	// ErrNotFound covers both "does not exist" and "exists in another
	// workspace" — callers must not be able to distinguish the two.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a uniqueness collision survives the
	// bounded regeneration retries, or when a sibling segment clashes.
	ErrConflict = errors.New("conflict")

	// ErrQrCodeAlreadyAssigned is returned when a QR code is attached to a
	// box while it is already assigned to a different one.
	ErrQrCodeAlreadyAssigned = errors.New("qr code already assigned to another box")

	// ErrEmptySegment is returned when a location name sanitizes to an
	// empty path segment (e.g. a name of only punctuation).
	ErrEmptySegment = errors.New("location name yields an empty path segment")

	// ErrNoFields is returned by partial updates with no field present.
	ErrNoFields = errors.New("at least one field must be provided")
)

// DepthExceededError is returned when a create would push the location tree
// past MaxLocationDepth levels.
type DepthExceededError struct {
	Depth int
}

func (e *DepthExceededError) Error() string {
	return fmt.Sprintf("location depth %d exceeds the maximum of %d", e.Depth, model.MaxLocationDepth)
}

// ValidationError reports a malformed or out-of-range input detected before
// any data access, with enough detail to correct it.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
