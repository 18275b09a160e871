package buddy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitmapRowTakeAnyAndPut(t *testing.T) {
	var r BitmapRow
	r.Init(12, 100)

	// Seed three free blocks by Put-ing them (buddy slots empty, so each
	// insert just sets a bit).
	for _, idx := range []uintptr{100, 102, 104} {
		_, coalesced := r.Put(idx)
		assert.False(t, coalesced)
	}
	assert.EqualValues(t, 3, r.Count())

	idx, ok := r.TakeAny(0)
	require.True(t, ok)
	assert.Equal(t, uintptr(100), idx)
	assert.EqualValues(t, 2, r.Count())
}

func TestBitmapRowPutCoalesces(t *testing.T) {
	var r BitmapRow
	r.Init(12, 0)

	_, coalesced := r.Put(10)
	assert.False(t, coalesced)

	parent, coalesced := r.Put(11)
	require.True(t, coalesced)
	assert.Equal(t, uintptr(5), parent) // 10>>1 == 11>>1 == 5
	assert.EqualValues(t, 0, r.Count())
}

func TestBitmapRowTakeAnyAlignment(t *testing.T) {
	var r BitmapRow
	r.Init(12, 0)
	for _, idx := range []uintptr{1, 2, 3, 4} {
		r.Put(idx)
	}

	idx, ok := r.TakeAny(2) // only multiples of 4 accepted
	require.True(t, ok)
	assert.Equal(t, uintptr(4), idx)
}

func TestBitmapRowOutOfRangePanics(t *testing.T) {
	var r BitmapRow
	r.Init(12, 0)
	assert.Panics(t, func() { r.Put(wordBits) })
}

func TestBitmapOligarchyRowRun(t *testing.T) {
	var r BitmapOligarchyRow
	r.Init(24, 0)
	for _, idx := range []uintptr{0, 1, 2, 3, 4, 5, 6, 7} {
		r.Put(idx)
	}

	first, ok := r.TakeAny(0, 4)
	require.True(t, ok)
	assert.Equal(t, uintptr(0), first)
	assert.EqualValues(t, 4, r.Count())

	// The first four are gone; next run of 4 starts at 4.
	first, ok = r.TakeAny(0, 4)
	require.True(t, ok)
	assert.Equal(t, uintptr(4), first)
}

func TestBitmapOligarchyRowAlignedRun(t *testing.T) {
	var r BitmapOligarchyRow
	r.Init(24, 0)
	// Bit 0 left unset: the only run of 2 starting at a multiple of 4 is at 4.
	for idx := uintptr(1); idx <= 5; idx++ {
		r.Put(idx)
	}

	first, ok := r.TakeAny(2, 2) // align_order=2 -> must start at multiple of 4
	require.True(t, ok)
	assert.Equal(t, uintptr(4), first)
}

func TestBitmapOligarchyRowNoRun(t *testing.T) {
	var r BitmapOligarchyRow
	r.Init(24, 0)
	r.Put(0)
	_, ok := r.TakeAny(0, 2)
	assert.False(t, ok)
}

func TestBitmapCoreTake(t *testing.T) {
	var c bitmapCore
	c.Init(12, 0)
	c.free |= 1
	assert.True(t, c.Take(0))
	assert.False(t, c.Take(0))
}
