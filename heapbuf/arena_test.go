package heapbuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArenaAllocateAppendGet(t *testing.T) {
	a := NewArena[uint32]()

	h, err := a.Allocate(4)
	require.NoError(t, err)
	require.NotEqual(t, Handle(0), h)

	for i := uint32(0); i < 4; i++ {
		h, err = a.Append(h, i*10)
		require.NoError(t, err)
	}

	assert.Equal(t, 4, a.Len(h))
	assert.Equal(t, 4, a.Cap(h))

	for i := 0; i < 4; i++ {
		x, err := a.Get(h, i)
		require.NoError(t, err)
		assert.Equal(t, uint32(i*10), x)
	}

	require.NoError(t, a.Free(h))
	require.NoError(t, a.Close())
}

func TestArenaSet(t *testing.T) {
	a := NewArena[int]()

	h, err := a.Allocate(2)
	require.NoError(t, err)
	h, err = a.Append(h, 1)
	require.NoError(t, err)

	require.NoError(t, a.Set(h, 0, 7))
	x, err := a.Get(h, 0)
	require.NoError(t, err)
	assert.Equal(t, 7, x)

	assert.ErrorIs(t, a.Set(h, 1, 9), ErrOutOfRange)
}

func TestArenaInsertRemove(t *testing.T) {
	a := NewArena[rune]()

	h, err := a.Allocate(4)
	require.NoError(t, err)
	for _, r := range "ace" {
		h, err = a.Append(h, r)
		require.NoError(t, err)
	}

	h, err = a.Insert(h, 1, 'b')
	require.NoError(t, err)
	h, err = a.Insert(h, 4, 'f') // insert at len is an append
	require.NoError(t, err)

	want := []rune{'a', 'b', 'c', 'e', 'f'}
	for i, w := range want {
		x, err := a.Get(h, i)
		require.NoError(t, err)
		assert.Equal(t, w, x)
	}

	x, err := a.Remove(h, 3)
	require.NoError(t, err)
	assert.Equal(t, 'e', x)
	assert.Equal(t, 4, a.Len(h))

	_, err = a.Remove(h, 4)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = a.Insert(h, 5, 'x')
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestArenaGrowthDoubling(t *testing.T) {
	a := NewArena[int64]()

	h, err := a.Allocate(1)
	require.NoError(t, err)

	for i := int64(0); i < 5; i++ {
		h, err = a.Append(h, i)
		require.NoError(t, err)
	}

	// 1 -> 2 -> 4 -> 8
	assert.Equal(t, 8, a.Cap(h))
	assert.Equal(t, int64(3), a.Stats().Grows)
}

func TestArenaGrowthFactor(t *testing.T) {
	a := NewArena[int64](WithGrowthFactor(4))

	h, err := a.Allocate(1)
	require.NoError(t, err)
	for i := int64(0); i < 3; i++ {
		h, err = a.Append(h, i)
		require.NoError(t, err)
	}

	assert.Equal(t, 4, a.Cap(h))
}

func TestArenaFreeListReuse(t *testing.T) {
	a := NewArena[byte]()

	h1, err := a.Allocate(1)
	require.NoError(t, err)
	require.NoError(t, a.Free(h1))

	h2, err := a.Allocate(1)
	require.NoError(t, err)
	assert.Equal(t, h1, h2, "freed slot should be recycled")
}

func TestArenaDoubleFree(t *testing.T) {
	a := NewArena[byte]()

	h, err := a.Allocate(1)
	require.NoError(t, err)
	require.NoError(t, a.Free(h))

	assert.ErrorIs(t, a.Free(h), ErrDoubleFree)
}

func TestArenaInvalidHandle(t *testing.T) {
	a := NewArena[byte]()

	_, err := a.Get(0, 0)
	assert.ErrorIs(t, err, ErrInvalidHandle)

	_, err = a.Get(Handle(99), 0)
	assert.ErrorIs(t, err, ErrInvalidHandle)

	assert.ErrorIs(t, a.Free(0), ErrInvalidHandle)

	h, err := a.Allocate(1)
	require.NoError(t, err)
	require.NoError(t, a.Free(h))

	// The handle is dead until its slot is recycled.
	_, err = a.Get(h, 0)
	assert.ErrorIs(t, err, ErrInvalidHandle)
	assert.Equal(t, 0, a.Len(h))
	assert.Equal(t, 0, a.Cap(h))
}

func TestArenaMaxBytes(t *testing.T) {
	a := NewArena[uint64](WithMaxBytes(16))

	h, err := a.Allocate(2) // exactly the budget
	require.NoError(t, err)

	_, err = a.Allocate(1)
	assert.ErrorIs(t, err, ErrOutOfMemory)

	// Growing past the budget fails too, and leaves the buffer intact.
	h, err = a.Append(h, 1)
	require.NoError(t, err)
	h, err = a.Append(h, 2)
	require.NoError(t, err)
	_, err = a.Append(h, 3)
	assert.ErrorIs(t, err, ErrOutOfMemory)
	assert.Equal(t, 2, a.Len(h))

	// Freeing returns the budget.
	require.NoError(t, a.Free(h))
	_, err = a.Allocate(2)
	require.NoError(t, err)
}

func TestArenaStats(t *testing.T) {
	a := NewArena[uint64]()

	h1, err := a.Allocate(1)
	require.NoError(t, err)
	h2, err := a.Allocate(2)
	require.NoError(t, err)
	require.NoError(t, a.Free(h1))

	h2, err = a.Append(h2, 1)
	require.NoError(t, err)

	stats := a.Stats()
	assert.Equal(t, int64(2), stats.Allocates)
	assert.Equal(t, int64(1), stats.Frees)
	assert.Equal(t, int64(1), stats.Live)
	assert.Equal(t, int64(16), stats.LiveBytes)
}

func TestArenaCloseReportsLeaks(t *testing.T) {
	a := NewArena[byte]()

	_, err := a.Allocate(1)
	require.NoError(t, err)

	err = a.Close()
	assert.ErrorIs(t, err, ErrLeaked)
}

func TestArenaClosed(t *testing.T) {
	a := NewArena[byte]()
	require.NoError(t, a.Close())

	_, err := a.Allocate(1)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, a.Close(), ErrClosed)
}

func TestArenaZeroCapacityClamped(t *testing.T) {
	a := NewArena[int]()

	h, err := a.Allocate(0)
	require.NoError(t, err)
	assert.Equal(t, 1, a.Cap(h))
}
