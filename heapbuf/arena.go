package heapbuf

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/RoaringBitmap/roaring/v2"
)

// Compile time check to ensure Arena satisfies the Allocator interface.
var _ Allocator[int] = (*Arena[int])(nil)

// Stats is a snapshot of arena counters.
type Stats struct {
	Allocates int64 // buffers handed out
	Frees     int64 // buffers released
	Grows     int64 // in-place capacity growths
	Live      int64 // currently live buffers
	LiveBytes int64 // bytes reserved by live buffers
}

type arenaOptions struct {
	growthFactor int
	maxBytes     int64
}

// ArenaOption configures an Arena.
type ArenaOption func(*arenaOptions)

// WithGrowthFactor sets the capacity multiplier used when a buffer grows.
// Values below 2 are ignored.
func WithGrowthFactor(factor int) ArenaOption {
	return func(o *arenaOptions) {
		if factor >= 2 {
			o.growthFactor = factor
		}
	}
}

// WithMaxBytes caps the total bytes the arena may reserve across all live
// buffers. Exceeding the budget surfaces as ErrOutOfMemory. Zero means
// unlimited.
func WithMaxBytes(n int64) ArenaOption {
	return func(o *arenaOptions) {
		o.maxBytes = n
	}
}

// Arena is the default Allocator implementation.
//
// Buffers live in a slot table; a handle is its slot index plus one. Freed
// slots are recycled through a free list. The live bitmap tracks which slots
// are currently allocated, which makes double-free and use-after-free
// detection O(1) and lets Close count leaks.
type Arena[T any] struct {
	slots [][]T
	free  []uint32
	live  *roaring.Bitmap

	growthFactor int
	maxBytes     int64
	elemSize     int64
	usedBytes    int64
	closed       bool

	allocates atomic.Int64
	frees     atomic.Int64
	grows     atomic.Int64
}

// NewArena creates an empty arena.
func NewArena[T any](optFns ...ArenaOption) *Arena[T] {
	o := arenaOptions{growthFactor: 2}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	var zero T
	return &Arena[T]{
		live:         roaring.New(),
		growthFactor: o.growthFactor,
		maxBytes:     o.maxBytes,
		elemSize:     int64(unsafe.Sizeof(zero)),
	}
}

// Allocate implements Allocator.
func (a *Arena[T]) Allocate(capacity int) (Handle, error) {
	if a.closed {
		return 0, ErrClosed
	}
	if capacity < 1 {
		capacity = 1
	}

	buf := make([]T, 0, capacity)
	if err := a.reserve(int64(cap(buf)) * a.elemSize); err != nil {
		return 0, err
	}

	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		idx = uint32(len(a.slots))
		a.slots = append(a.slots, nil)
	}

	a.slots[idx] = buf
	a.live.Add(idx)
	a.allocates.Add(1)

	return Handle(idx + 1), nil
}

// Free implements Allocator.
func (a *Arena[T]) Free(h Handle) error {
	if a.closed {
		return ErrClosed
	}
	if h == 0 || uint64(h) > uint64(len(a.slots)) {
		return ErrInvalidHandle
	}

	idx := uint32(h - 1)
	if !a.live.Contains(idx) {
		return ErrDoubleFree
	}

	a.usedBytes -= int64(cap(a.slots[idx])) * a.elemSize
	a.slots[idx] = nil
	a.live.Remove(idx)
	a.free = append(a.free, idx)
	a.frees.Add(1)

	return nil
}

// Len implements Allocator.
func (a *Arena[T]) Len(h Handle) int {
	idx, err := a.lookup(h)
	if err != nil {
		return 0
	}
	return len(a.slots[idx])
}

// Cap implements Allocator.
func (a *Arena[T]) Cap(h Handle) int {
	idx, err := a.lookup(h)
	if err != nil {
		return 0
	}
	return cap(a.slots[idx])
}

// Get implements Allocator.
func (a *Arena[T]) Get(h Handle, i int) (T, error) {
	var zero T

	idx, err := a.lookup(h)
	if err != nil {
		return zero, err
	}

	buf := a.slots[idx]
	if i < 0 || i >= len(buf) {
		return zero, ErrOutOfRange
	}

	return buf[i], nil
}

// Set implements Allocator.
func (a *Arena[T]) Set(h Handle, i int, v T) error {
	idx, err := a.lookup(h)
	if err != nil {
		return err
	}

	buf := a.slots[idx]
	if i < 0 || i >= len(buf) {
		return ErrOutOfRange
	}

	buf[i] = v
	return nil
}

// Append implements Allocator. Arena handles are stable, so the returned
// handle always equals h.
func (a *Arena[T]) Append(h Handle, v T) (Handle, error) {
	idx, err := a.lookup(h)
	if err != nil {
		return h, err
	}

	buf := a.slots[idx]
	if len(buf) == cap(buf) {
		grown, err := a.grow(buf)
		if err != nil {
			return h, err
		}
		buf = grown
	}

	a.slots[idx] = append(buf, v)
	return h, nil
}

// Insert implements Allocator.
func (a *Arena[T]) Insert(h Handle, i int, v T) (Handle, error) {
	idx, err := a.lookup(h)
	if err != nil {
		return h, err
	}

	buf := a.slots[idx]
	if i < 0 || i > len(buf) {
		return h, ErrOutOfRange
	}

	if len(buf) == cap(buf) {
		grown, err := a.grow(buf)
		if err != nil {
			return h, err
		}
		buf = grown
	}

	var zero T
	buf = append(buf, zero)
	copy(buf[i+1:], buf[i:])
	buf[i] = v
	a.slots[idx] = buf

	return h, nil
}

// Remove implements Allocator.
func (a *Arena[T]) Remove(h Handle, i int) (T, error) {
	var zero T

	idx, err := a.lookup(h)
	if err != nil {
		return zero, err
	}

	buf := a.slots[idx]
	if i < 0 || i >= len(buf) {
		return zero, ErrOutOfRange
	}

	v := buf[i]
	copy(buf[i:], buf[i+1:])
	buf[len(buf)-1] = zero // release stale element for the GC
	a.slots[idx] = buf[:len(buf)-1]

	return v, nil
}

// Stats returns a snapshot of the arena counters.
func (a *Arena[T]) Stats() Stats {
	return Stats{
		Allocates: a.allocates.Load(),
		Frees:     a.frees.Load(),
		Grows:     a.grows.Load(),
		Live:      int64(a.live.GetCardinality()),
		LiveBytes: a.usedBytes,
	}
}

// Close implements Allocator. Buffers still live at close are reported as a
// leak error; their memory is released either way.
func (a *Arena[T]) Close() error {
	if a.closed {
		return ErrClosed
	}
	a.closed = true

	leaked := a.live.GetCardinality()
	a.slots = nil
	a.free = nil
	a.live = roaring.New()
	a.usedBytes = 0

	if leaked > 0 {
		return fmt.Errorf("%w: %d handles", ErrLeaked, leaked)
	}
	return nil
}

func (a *Arena[T]) lookup(h Handle) (uint32, error) {
	if a.closed {
		return 0, ErrClosed
	}
	if h == 0 || uint64(h) > uint64(len(a.slots)) {
		return 0, ErrInvalidHandle
	}

	idx := uint32(h - 1)
	if !a.live.Contains(idx) {
		return 0, ErrInvalidHandle
	}
	return idx, nil
}

func (a *Arena[T]) grow(buf []T) ([]T, error) {
	newCap := cap(buf) * a.growthFactor
	if newCap < 1 {
		newCap = 1
	}

	grown := make([]T, len(buf), newCap)
	if err := a.reserve(int64(cap(grown)-cap(buf)) * a.elemSize); err != nil {
		return nil, err
	}
	copy(grown, buf)
	a.grows.Add(1)

	return grown, nil
}

func (a *Arena[T]) reserve(n int64) error {
	if a.maxBytes > 0 && a.usedBytes+n > a.maxBytes {
		return ErrOutOfMemory
	}
	a.usedBytes += n
	return nil
}
