// Package heapbuf supplies the heap-managed growable buffers that back a
// spilled container.
//
// An Allocator owns every buffer it hands out and addresses them by opaque
// integer handles rather than pointers. The container stores only the handle,
// which is what keeps it at two words: the allocator keeps the buffer
// reachable for the garbage collector until Free, and capacity is recovered
// from the allocation itself instead of being stored alongside the handle.
//
// Arena is the default implementation: a slot table with a free list, a
// live-handle bitmap for double-free and leak detection, and atomic
// allocation statistics. A buffer grows in place of its slot, so arena
// handles are stable across Append and Insert.
//
// Allocators are owned by a single pool and are not safe for concurrent use;
// callers needing shared access must provide external mutual exclusion.
package heapbuf
