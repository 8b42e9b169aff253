package vekk

import (
	"errors"
	"fmt"

	"github.com/hupe1980/vekk/heapbuf"
)

var (
	// ErrEmpty is returned by Pop and Remove on an empty container.
	ErrEmpty = errors.New("vekk: empty container")
)

// ErrIndexOutOfRange indicates an element index at or beyond the current
// length. The failed operation performed no mutation.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrIndexOutOfRange struct {
	Index  int
	Length int
	cause  error
}

func (e *ErrIndexOutOfRange) Error() string {
	return fmt.Sprintf("vekk: index %d out of range [0, %d)", e.Index, e.Length)
}

func (e *ErrIndexOutOfRange) Unwrap() error { return e.cause }

// ErrAllocationFailure indicates the heap-buffer collaborator could not
// provide storage during a migration, growth or clone. The container is left
// in its prior valid state.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrAllocationFailure struct {
	Capacity int
	cause    error
}

func (e *ErrAllocationFailure) Error() string {
	return fmt.Sprintf("vekk: allocation of %d elements failed", e.Capacity)
}

func (e *ErrAllocationFailure) Unwrap() error { return e.cause }

// translateHeap maps collaborator errors onto the public error contract.
// length is the container length at the time of the call.
func translateHeap(err error, index, length int) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, heapbuf.ErrOutOfRange) {
		return &ErrIndexOutOfRange{Index: index, Length: length, cause: err}
	}
	return err
}
