package lazylist

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange is returned when an index outside the current item
	// count is requested.
	ErrOutOfRange = errors.New("index out of range")
	// ErrMeasurement is wrapped by every [MeasurementError].
	ErrMeasurement = errors.New("measurement failed")
	// ErrInconsistentSnapshot is returned when the content changed while a
	// pass was running.
	ErrInconsistentSnapshot = errors.New("content changed during layout pass")
	// ErrUnboundedMainAxis is returned when the container does not bound
	// the list's main axis.
	ErrUnboundedMainAxis = errors.New("scrollable list must have a bounded main axis")
	// ErrDuplicateKey is returned when two items share a key.
	ErrDuplicateKey = errors.New("duplicate item key")
	// ErrNotFound is returned when a key is not part of the content.
	ErrNotFound = errors.New("key not found")
	// ErrInvalidLayout is returned when a pass produced a window with a
	// gap or overlap between consecutive items.
	ErrInvalidLayout = errors.New("invalid layout")
)

// MeasurementError reports an item whose content failed to measure.
type MeasurementError struct {
	Index int
	Key   Key
	Err   error
}

func (e *MeasurementError) Error() string {
	return fmt.Sprintf("measure item %d (%q): %v", e.Index, e.Key, e.Err)
}

func (e *MeasurementError) Unwrap() []error {
	return []error{ErrMeasurement, e.Err}
}
