package vekk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vekk/heapbuf"
)

func TestCloneInlineIndependence(t *testing.T) {
	p := NewPool[uint16]()
	defer p.Close()

	v := p.New()
	fill(t, p, &v, 1, 2, 3)

	c, err := p.Clone(v)
	require.NoError(t, err)
	assert.Equal(t, contents(t, p, v), contents(t, p, c))

	require.NoError(t, p.Set(&c, 0, 99))
	require.NoError(t, p.Push(&c, 4))

	assert.Equal(t, []uint16{1, 2, 3}, contents(t, p, v))
	assert.Equal(t, []uint16{99, 2, 3, 4}, contents(t, p, c))
}

func TestCloneHeapIndependence(t *testing.T) {
	arena := heapbuf.NewArena[uint16]()
	p := NewPool[uint16](WithAllocator[uint16](arena))

	v := p.New()
	fill(t, p, &v, 1, 2, 3, 4, 5)
	require.False(t, p.IsInline(v))

	c, err := p.Clone(v)
	require.NoError(t, err)
	assert.False(t, p.IsInline(c))
	assert.Equal(t, int64(2), arena.Stats().Allocates, "clone allocates a fresh buffer")

	require.NoError(t, p.Set(&c, 0, 99))
	_, err = p.Pop(&c)
	require.NoError(t, err)

	assert.Equal(t, []uint16{1, 2, 3, 4, 5}, contents(t, p, v))
	assert.Equal(t, []uint16{99, 2, 3, 4}, contents(t, p, c))

	// Both buffers release independently.
	p.Release(&v)
	p.Release(&c)
	require.NoError(t, arena.Close())
}

func TestCloneAllocationFailure(t *testing.T) {
	// Budget fits exactly one spilled container; cloning it must fail
	// cleanly without leaking.
	arena := heapbuf.NewArena[uint64](heapbuf.WithMaxBytes(16))
	p := NewPool[uint64](WithAllocator[uint64](arena))

	v := p.New()
	fill(t, p, &v, 1, 2)
	require.False(t, p.IsInline(v))

	_, err := p.Clone(v)
	var af *ErrAllocationFailure
	require.ErrorAs(t, err, &af)
	assert.ErrorIs(t, err, heapbuf.ErrOutOfMemory)

	// Original untouched, nothing leaked by the failed clone.
	assert.Equal(t, []uint64{1, 2}, contents(t, p, v))
	assert.Equal(t, int64(1), arena.Stats().Live)

	p.Release(&v)
	require.NoError(t, arena.Close())
}
