package vekk

// Vekk is a two-word small-vector value.
//
// The zero value is a valid empty container. All operations live on the
// Pool the container belongs to; the value itself is plain data and is
// always exactly two machine words, for any element type.
//
// Copying a value in the inline representation duplicates its elements;
// copying one in the heap representation aliases the underlying buffer.
// Use Pool.Clone for an independent copy that is safe in both cases.
type Vekk[T any] struct {
	_ [0]func() // containers are not comparable

	// tag doubles as the inline count and, beyond the sentinel, as the heap
	// buffer length. payload holds raw inline element bytes or the heap
	// buffer handle. See internal/niche for the encoding.
	tag     uintptr
	payload uintptr
}
