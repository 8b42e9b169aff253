package heapbuf

import "errors"

// Handle identifies an allocation owned by an Allocator. The zero handle is
// never valid.
type Handle uintptr

var (
	// ErrInvalidHandle is returned when a handle does not refer to a live
	// allocation.
	ErrInvalidHandle = errors.New("heapbuf: invalid handle")

	// ErrDoubleFree is returned by Free for a handle that was already freed.
	ErrDoubleFree = errors.New("heapbuf: handle already freed")

	// ErrOutOfRange is returned for element indexes outside a buffer's
	// current length.
	ErrOutOfRange = errors.New("heapbuf: index out of range")

	// ErrOutOfMemory is returned when an allocation or a grow would exceed
	// the allocator's byte budget.
	ErrOutOfMemory = errors.New("heapbuf: byte budget exhausted")

	// ErrLeaked is returned by Close when live allocations remain.
	ErrLeaked = errors.New("heapbuf: live allocations at close")

	// ErrClosed is returned for operations on a closed allocator.
	ErrClosed = errors.New("heapbuf: allocator closed")
)

// Allocator owns growable element buffers addressed by handles.
//
// Mutating operations are all-or-nothing: on error the buffer is unchanged.
// Append and Insert return the handle to use afterwards, which allows
// implementations that relocate buffers on growth; Arena handles are stable.
type Allocator[T any] interface {
	// Allocate creates an empty buffer with at least the given capacity.
	Allocate(capacity int) (Handle, error)

	// Free releases a buffer. Each handle must be freed exactly once.
	Free(h Handle) error

	// Len returns the element count, or 0 for a dead handle.
	Len(h Handle) int

	// Cap returns the buffer capacity, or 0 for a dead handle.
	Cap(h Handle) int

	// Get returns the element at index i.
	Get(h Handle, i int) (T, error)

	// Set overwrites the element at index i.
	Set(h Handle, i int, v T) error

	// Append adds v at the end, growing the buffer on demand.
	Append(h Handle, v T) (Handle, error)

	// Insert places v at index i (0 <= i <= len), shifting later elements.
	Insert(h Handle, i int, v T) (Handle, error)

	// Remove deletes and returns the element at index i, shifting later
	// elements down.
	Remove(h Handle, i int) (T, error)

	// Close releases the allocator. Implementations report leaks.
	Close() error
}
