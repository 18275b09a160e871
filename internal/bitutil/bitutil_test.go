package bitutil

import "testing"

import "github.com/stretchr/testify/assert"

func TestCeilLog2(t *testing.T) {
	tests := []struct {
		in   uintptr
		want uint
	}{
		{1, 0},
		{2, 1},
		{3, 2},
		{4, 2},
		{5, 3},
		{1024, 10},
		{1025, 11},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CeilLog2(tt.in), "CeilLog2(%d)", tt.in)
	}
}

func TestFloorLog2(t *testing.T) {
	tests := []struct {
		in   uintptr
		want uint
	}{
		{1, 0},
		{2, 1},
		{3, 1},
		{4, 2},
		{1023, 9},
		{1024, 10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FloorLog2(tt.in), "FloorLog2(%d)", tt.in)
	}
}

func TestCtz(t *testing.T) {
	assert.Equal(t, uint(0), Ctz(1))
	assert.Equal(t, uint(1), Ctz(2))
	assert.Equal(t, uint(12), Ctz(1<<12))
	assert.Equal(t, uint(0), Ctz(3))
}

func TestAlignUp(t *testing.T) {
	assert.Equal(t, uintptr(0), AlignUp(0, 12))
	assert.Equal(t, uintptr(4096), AlignUp(1, 12))
	assert.Equal(t, uintptr(4096), AlignUp(4096, 12))
	assert.Equal(t, uintptr(8192), AlignUp(4097, 12))
}

func TestIsPowerOfTwo(t *testing.T) {
	assert.True(t, IsPowerOfTwo(1))
	assert.True(t, IsPowerOfTwo(1024))
	assert.False(t, IsPowerOfTwo(0))
	assert.False(t, IsPowerOfTwo(3))
}

func TestSubOrZero(t *testing.T) {
	assert.Equal(t, uint(0), SubOrZero(1, 2))
	assert.Equal(t, uint(3), SubOrZero(5, 2))
	assert.Equal(t, uint(0), SubOrZero(2, 2))
}
