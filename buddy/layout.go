package buddy

import (
	"unsafe"

	"github.com/YdrMaster/buddy-allocator/internal/bitutil"
)

// Layout describes a requested allocation's size and alignment.
type Layout struct {
	Size  uintptr
	Align uintptr
}

// LayoutOf derives a Layout from the size and alignment of T, as a
// convenience over computing align_order by hand.
func LayoutOf[T any]() Layout {
	var zero T
	return Layout{Size: unsafe.Sizeof(zero), Align: uintptr(unsafe.Alignof(zero))}
}

func (l Layout) alignOrder() uint {
	if l.Align <= 1 {
		return 0
	}
	if !bitutil.IsPowerOfTwo(l.Align) {
		panic("buddy: Layout.Align is not a power of two")
	}
	return bitutil.FloorLog2(l.Align)
}
