// Package niche implements the derived representation discriminant for the
// two-word container.
//
// A container is two machine words: a tag word and a payload word. The tag
// word doubles as the inline element count and, via its unused value range,
// as the heap-representation marker. Values below the sentinel (inline
// capacity + 1) are inline counts; values at or above it encode the heap
// buffer length, offset by the sentinel. The payload word holds raw inline
// element bytes in the first case and the heap buffer handle in the second.
//
// Encode and Decode are pure functions and form a bijection over the
// reachable state space, so the packed form can be validated against the
// tagged form directly.
package niche

import (
	"reflect"
	"unsafe"
)

// Kind identifies which representation a decoded word pair describes.
type Kind uint8

const (
	// KindInline means elements live in the payload word itself.
	KindInline Kind = iota
	// KindHeap means the payload word holds a heap buffer handle.
	KindHeap
)

// State is the tagged (decoded) form of a container's two words.
//
// For KindInline, Count and Raw are meaningful; for KindHeap, Length and
// Handle are. Raw carries the inline payload bits opaquely so that
// Encode/Decode round-trip both words exactly.
type State struct {
	Kind   Kind
	Count  int     // inline element count, 0 <= Count <= capacity
	Raw    uintptr // inline payload bits, opaque to the codec
	Length int     // heap buffer length
	Handle uintptr // heap buffer handle
}

// Decode interprets a tag/payload word pair. sentinel is inline capacity + 1
// and must be the same value that produced the words.
func Decode(tag, payload, sentinel uintptr) State {
	if tag < sentinel {
		return State{Kind: KindInline, Count: int(tag), Raw: payload}
	}
	return State{Kind: KindHeap, Length: int(tag - sentinel), Handle: payload}
}

// Encode is the inverse of Decode. The caller guarantees Count < sentinel
// for inline states and a non-negative Length for heap states.
func (s State) Encode(sentinel uintptr) (tag, payload uintptr) {
	if s.Kind == KindInline {
		return uintptr(s.Count), s.Raw
	}
	return sentinel + uintptr(s.Length), s.Handle
}

const wordSize = unsafe.Sizeof(uintptr(0))

// zeroSizeCapacity bounds the inline count for zero-size element types,
// which need no payload storage at all. The bound only has to keep the
// sentinel well inside the tag word's range.
const zeroSizeCapacity = 1 << 30

// CapacityOf reports how many elements of type T fit the inline niche.
//
// The payload word supplies the storage, so the capacity is word size over
// element size. Types wider than a word never fit. Types containing pointers
// get capacity zero as well: their bytes parked in an untyped word would be
// invisible to the garbage collector.
func CapacityOf[T any]() int {
	var zero T
	size := unsafe.Sizeof(zero)
	if size == 0 {
		return zeroSizeCapacity
	}
	if size > wordSize || ContainsPointers(reflect.TypeOf((*T)(nil)).Elem()) {
		return 0
	}
	return int(wordSize / size)
}

// ContainsPointers reports whether values of t embed pointers the garbage
// collector must trace.
func ContainsPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return t.Len() > 0 && ContainsPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if ContainsPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		// Pointers, strings, slices, maps, chans, funcs, interfaces.
		return true
	}
}

// Slice reinterprets the payload word as the inline element array.
//
// The caller guarantees the inline representation is active and that
// n*sizeof(T) fits a word (see CapacityOf). The payload word is word-aligned,
// which satisfies any element type the sizing rule admits.
func Slice[T any](payload *uintptr, n int) []T {
	return unsafe.Slice((*T)(unsafe.Pointer(payload)), n)
}
