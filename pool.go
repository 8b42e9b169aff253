package vekk

import (
	"time"

	"github.com/hupe1980/vekk/heapbuf"
	"github.com/hupe1980/vekk/internal/niche"
)

// Pool owns the operations and the heap-buffer allocator for containers of
// one element type.
//
// Containers created by a pool must only be used with that pool: a spilled
// container's payload word is a handle into the pool's allocator. The pool
// performs no internal locking; it has a single logical owner at a time.
type Pool[T any] struct {
	alloc     heapbuf.Allocator[T]
	ownsAlloc bool
	inlineCap int
	sentinel  uintptr
	logger    *Logger
	metrics   MetricsCollector
}

// NewPool creates a pool for element type T.
//
// Unless WithAllocator is given, the pool creates and owns a heapbuf.Arena
// and releases it in Close.
func NewPool[T any](optFns ...Option[T]) *Pool[T] {
	o := applyOptions(optFns)

	alloc := o.alloc
	owns := false
	if alloc == nil {
		alloc = heapbuf.NewArena[T](o.arenaOptions...)
		owns = true
	}

	n := niche.CapacityOf[T]()

	return &Pool[T]{
		alloc:     alloc,
		ownsAlloc: owns,
		inlineCap: n,
		sentinel:  uintptr(n) + 1,
		logger:    o.logger,
		metrics:   o.metricsCollector,
	}
}

// New returns an empty container in the inline representation.
func (p *Pool[T]) New() Vekk[T] {
	return Vekk[T]{}
}

// InlineCapacity returns N, the number of elements stored without
// allocation. It is fixed per element type by the sizing rule in
// internal/niche.
func (p *Pool[T]) InlineCapacity() int {
	return p.inlineCap
}

// Len returns the number of elements in the container.
func (p *Pool[T]) Len(v Vekk[T]) int {
	s := p.state(v)
	if s.Kind == niche.KindInline {
		return s.Count
	}
	return s.Length
}

// IsInline reports whether the container is in the inline representation.
func (p *Pool[T]) IsInline(v Vekk[T]) bool {
	return p.state(v).Kind == niche.KindInline
}

// CapacityHint returns the inline capacity for an inline container and the
// underlying buffer capacity for a spilled one.
func (p *Pool[T]) CapacityHint(v Vekk[T]) int {
	s := p.state(v)
	if s.Kind == niche.KindInline {
		return p.inlineCap
	}
	return p.alloc.Cap(heapbuf.Handle(s.Handle))
}

// Get returns the element at index i.
func (p *Pool[T]) Get(v Vekk[T], i int) (T, error) {
	var zero T

	s := p.state(v)
	if s.Kind == niche.KindInline {
		if i < 0 || i >= s.Count {
			return zero, &ErrIndexOutOfRange{Index: i, Length: s.Count}
		}
		return niche.Slice[T](&v.payload, s.Count)[i], nil
	}

	if i < 0 || i >= s.Length {
		return zero, &ErrIndexOutOfRange{Index: i, Length: s.Length}
	}
	x, err := p.alloc.Get(heapbuf.Handle(s.Handle), i)
	if err != nil {
		return zero, translateHeap(err, i, s.Length)
	}
	return x, nil
}

// Set overwrites the element at index i.
func (p *Pool[T]) Set(v *Vekk[T], i int, x T) error {
	s := p.state(*v)
	if s.Kind == niche.KindInline {
		if i < 0 || i >= s.Count {
			return &ErrIndexOutOfRange{Index: i, Length: s.Count}
		}
		niche.Slice[T](&v.payload, s.Count)[i] = x
		return nil
	}

	if i < 0 || i >= s.Length {
		return &ErrIndexOutOfRange{Index: i, Length: s.Length}
	}
	if err := p.alloc.Set(heapbuf.Handle(s.Handle), i, x); err != nil {
		return translateHeap(err, i, s.Length)
	}
	return nil
}

// Push appends x. Pushing past the inline capacity migrates the container to
// the heap representation; the migration is all-or-nothing and on failure
// the container keeps its prior state.
func (p *Pool[T]) Push(v *Vekk[T], x T) error {
	start := time.Now()
	err := p.push(v, x)
	p.metrics.RecordPush(time.Since(start), err)
	return err
}

func (p *Pool[T]) push(v *Vekk[T], x T) error {
	s := p.state(*v)
	if s.Kind == niche.KindInline {
		if s.Count < p.inlineCap {
			niche.Slice[T](&v.payload, s.Count+1)[s.Count] = x
			v.tag = uintptr(s.Count) + 1
			return nil
		}
		return p.migrate(v, s.Count, s.Count, x)
	}

	h, err := p.alloc.Append(heapbuf.Handle(s.Handle), x)
	if err != nil {
		p.logger.LogGrow(s.Length, err)
		return &ErrAllocationFailure{Capacity: s.Length + 1, cause: err}
	}
	v.tag = p.sentinel + uintptr(s.Length) + 1
	v.payload = uintptr(h)
	return nil
}

// Pop removes and returns the last element. A spilled container stays on the
// heap even when its length drops back under the inline capacity; demoting
// would thrash the allocator under push/pop cycling at the boundary.
func (p *Pool[T]) Pop(v *Vekk[T]) (T, error) {
	start := time.Now()
	x, err := p.pop(v)
	p.metrics.RecordPop(time.Since(start), err)
	return x, err
}

func (p *Pool[T]) pop(v *Vekk[T]) (T, error) {
	var zero T

	s := p.state(*v)
	if s.Kind == niche.KindInline {
		if s.Count == 0 {
			return zero, ErrEmpty
		}
		buf := niche.Slice[T](&v.payload, s.Count)
		x := buf[s.Count-1]
		buf[s.Count-1] = zero
		v.tag = uintptr(s.Count) - 1
		return x, nil
	}

	if s.Length == 0 {
		return zero, ErrEmpty
	}
	x, err := p.alloc.Remove(heapbuf.Handle(s.Handle), s.Length-1)
	if err != nil {
		return zero, translateHeap(err, s.Length-1, s.Length)
	}
	v.tag = p.sentinel + uintptr(s.Length) - 1
	return x, nil
}

// Insert places x at index i (0 <= i <= Len), shifting later elements up.
// Inserting into a full inline container migrates it to the heap.
func (p *Pool[T]) Insert(v *Vekk[T], i int, x T) error {
	s := p.state(*v)
	if s.Kind == niche.KindInline {
		if i < 0 || i > s.Count {
			return &ErrIndexOutOfRange{Index: i, Length: s.Count}
		}
		if s.Count == p.inlineCap {
			return p.migrate(v, s.Count, i, x)
		}
		buf := niche.Slice[T](&v.payload, s.Count+1)
		copy(buf[i+1:], buf[i:s.Count])
		buf[i] = x
		v.tag = uintptr(s.Count) + 1
		return nil
	}

	if i < 0 || i > s.Length {
		return &ErrIndexOutOfRange{Index: i, Length: s.Length}
	}
	h, err := p.alloc.Insert(heapbuf.Handle(s.Handle), i, x)
	if err != nil {
		p.logger.LogGrow(s.Length, err)
		return &ErrAllocationFailure{Capacity: s.Length + 1, cause: err}
	}
	v.tag = p.sentinel + uintptr(s.Length) + 1
	v.payload = uintptr(h)
	return nil
}

// Remove deletes and returns the element at index i, shifting later elements
// down.
func (p *Pool[T]) Remove(v *Vekk[T], i int) (T, error) {
	var zero T

	s := p.state(*v)
	if s.Kind == niche.KindInline {
		if s.Count == 0 {
			return zero, ErrEmpty
		}
		if i < 0 || i >= s.Count {
			return zero, &ErrIndexOutOfRange{Index: i, Length: s.Count}
		}
		buf := niche.Slice[T](&v.payload, s.Count)
		x := buf[i]
		copy(buf[i:], buf[i+1:])
		buf[s.Count-1] = zero
		v.tag = uintptr(s.Count) - 1
		return x, nil
	}

	if s.Length == 0 {
		return zero, ErrEmpty
	}
	if i < 0 || i >= s.Length {
		return zero, &ErrIndexOutOfRange{Index: i, Length: s.Length}
	}
	x, err := p.alloc.Remove(heapbuf.Handle(s.Handle), i)
	if err != nil {
		return zero, translateHeap(err, i, s.Length)
	}
	v.tag = p.sentinel + uintptr(s.Length) - 1
	return x, nil
}

// Clear resets the container to an empty inline state, releasing the heap
// buffer first if one is active.
func (p *Pool[T]) Clear(v *Vekk[T]) {
	s := p.state(*v)
	if s.Kind == niche.KindHeap {
		err := p.alloc.Free(heapbuf.Handle(s.Handle))
		p.logger.LogRelease(s.Length, err)
	}
	v.tag = 0
	v.payload = 0
}

// Release frees the container's heap buffer, if any. Call it when a
// container goes out of use; a pool-owned arena reports unreleased buffers
// as leaks on Close. After Release the value is an empty inline container
// and may be reused.
func (p *Pool[T]) Release(v *Vekk[T]) {
	p.Clear(v)
}

// Clone returns a deep, independent copy. An inline container is cloned by
// value; a spilled one gets a freshly allocated buffer, never aliasing the
// original's.
func (p *Pool[T]) Clone(v Vekk[T]) (Vekk[T], error) {
	s := p.state(v)
	if s.Kind == niche.KindInline {
		// Value copy duplicates the inline payload bytes.
		return v, nil
	}

	src := heapbuf.Handle(s.Handle)
	capacity := p.alloc.Cap(src)

	h, err := p.alloc.Allocate(capacity)
	if err != nil {
		return Vekk[T]{}, &ErrAllocationFailure{Capacity: capacity, cause: err}
	}
	for i := 0; i < s.Length; i++ {
		x, gerr := p.alloc.Get(src, i)
		if gerr == nil {
			h, gerr = p.alloc.Append(h, x)
		}
		if gerr != nil {
			_ = p.alloc.Free(h)
			return Vekk[T]{}, &ErrAllocationFailure{Capacity: capacity, cause: gerr}
		}
	}

	var clone Vekk[T]
	clone.tag = p.sentinel + uintptr(s.Length)
	clone.payload = uintptr(h)
	return clone, nil
}

// Close releases the pool-owned arena. Injected allocators stay with their
// owner and are not closed.
func (p *Pool[T]) Close() error {
	if !p.ownsAlloc {
		return nil
	}
	return p.alloc.Close()
}

func (p *Pool[T]) state(v Vekk[T]) niche.State {
	return niche.Decode(v.tag, v.payload, p.sentinel)
}

// migrate moves a full inline container to the heap representation, placing
// x at insertAt. The container's words are only overwritten once the new
// buffer is fully populated, so a failed migration leaves it untouched.
func (p *Pool[T]) migrate(v *Vekk[T], count, insertAt int, x T) error {
	capacity := 2 * p.inlineCap
	if capacity < count+1 {
		capacity = count + 1
	}

	start := time.Now()

	h, err := p.alloc.Allocate(capacity)
	if err == nil {
		src := niche.Slice[T](&v.payload, count)
		for i := 0; i < count && err == nil; i++ {
			h, err = p.alloc.Append(h, src[i])
		}
		if err == nil {
			if insertAt == count {
				h, err = p.alloc.Append(h, x)
			} else {
				h, err = p.alloc.Insert(h, insertAt, x)
			}
		}
		if err != nil {
			_ = p.alloc.Free(h)
		}
	}

	p.metrics.RecordMigration(capacity, time.Since(start), err)
	p.logger.LogMigrate(count, capacity, err)

	if err != nil {
		return &ErrAllocationFailure{Capacity: capacity, cause: err}
	}

	v.tag = p.sentinel + uintptr(count) + 1
	v.payload = uintptr(h)
	return nil
}
