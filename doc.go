// Package vekk provides a two-word small-vector container for Go.
//
// A Vekk stores up to a handful of elements directly inside its own two
// machine words and transparently spills to a heap-managed buffer once that
// inline capacity is exceeded. Unlike an ordinary slice header (pointer,
// length, capacity), a Vekk value is always exactly two words, for any
// element type, with no stored representation tag: the tag is derived from
// the unused value range of the inline count slot (niche filling).
//
// # Quick Start
//
//	p := vekk.NewPool[uint32]()
//	defer p.Close()
//
//	v := p.New()
//	defer p.Release(&v)
//
//	_ = p.Push(&v, 1) // inline, no allocation
//	_ = p.Push(&v, 2) // inline, no allocation
//	_ = p.Push(&v, 3) // spills to the heap buffer
//
//	x, _ := p.Get(v, 0)  // 1
//	n := p.Len(v)        // 3
//
// # Pools
//
// Operations live on a Pool rather than on the container value. The pool
// owns the heap-buffer allocator (see package heapbuf) that backs spilled
// containers; the container itself stores only an integer handle, which is
// what keeps it at two words while staying visible to the garbage collector.
// A container must only be used with the pool that created it.
//
// # Inline capacity
//
// The inline capacity N is fixed per element type by a sizing rule: the
// payload word supplies the storage, so N = word size / element size. Element
// types wider than a word, or containing pointers, get N = 0 and spill on the
// first push. Pushing N or fewer elements never allocates.
//
// # Representation policy
//
// Migration is one-way: once a container has spilled, popping back down to N
// or fewer elements does not demote it to the inline form. This avoids
// alloc/free thrashing under push/pop cycling at the boundary.
//
// # Ownership
//
// A container has exactly one logical owner at a time. No operation blocks,
// suspends or synchronizes internally; concurrent mutation of the same
// container or pool requires external mutual exclusion. Release frees the
// heap buffer exactly once; Close on the pool reports buffers never released.
package vekk
