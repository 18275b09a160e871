package buddy

import (
	"fmt"

	"github.com/YdrMaster/buddy-allocator/internal/bitutil"
)

// Allocator is a multi-layer buddy memory coordinator. It owns one
// oligarchy row plus a fixed number of inner buddy rows and drives
// allocation, deallocation, donation, and surgical removal across them by
// choosing a layer, splitting down on allocation, and coalescing on
// release.
//
// Allocator performs no synchronization of its own; see buddysync for a
// concurrent wrapper.
type Allocator struct {
	oligarchy OligarchyCollection
	rows      []BuddyCollection

	minOrder uint
	base     uintptr

	capacity uint64
	free     uint64

	initialized bool
}

// New constructs an allocator with the given oligarchy row and one buddy
// row per inner layer. rows[i] will service blocks of order minOrder+i
// once Init is called; the oligarchy row services order minOrder+len(rows).
func New(oligarchy OligarchyCollection, rows []BuddyCollection) *Allocator {
	if oligarchy == nil {
		panic("buddy: nil oligarchy row")
	}
	if len(rows) == 0 {
		panic("buddy: at least one buddy row is required")
	}
	return &Allocator{oligarchy: oligarchy, rows: rows}
}

func (a *Allocator) maxOrder() uint { return a.minOrder + uint(len(a.rows)) }

// Init fixes the minimum block order and the absolute base address used to
// derive every row's base cell index. It must be called exactly once,
// before any Transfer or Allocate, and capacity must still be zero.
func (a *Allocator) Init(minOrder uint, base uintptr) {
	if a.capacity != 0 {
		panic("buddy: Init called after capacity was already donated")
	}
	metaSize := a.oligarchy.IntrusiveMetaSize()
	for _, r := range a.rows {
		if m := r.IntrusiveMetaSize(); m > metaSize {
			metaSize = m
		}
	}
	if metaSize > 0 && (uintptr(1)<<minOrder) < metaSize {
		panic("buddy: min_order too small to hold intrusive row metadata")
	}

	a.minOrder = minOrder
	a.base = base
	for i, r := range a.rows {
		order := minOrder + uint(i)
		r.Init(order, base>>order)
	}
	maxOrder := a.maxOrder()
	a.oligarchy.Init(maxOrder, base>>maxOrder)
	a.initialized = true
}

func (a *Allocator) requireInit() {
	if !a.initialized {
		panic("buddy: allocator used before Init")
	}
}

// Transfer donates a region to the allocator, increasing capacity and
// depositing the bytes into the appropriate rows. The region must be
// disjoint from any previously transferred or currently live region, and
// must not be aliased elsewhere.
func (a *Allocator) Transfer(ptr, size uintptr) {
	a.requireInit()
	a.capacity += uint64(size)
	a.deallocate(ptr, size)
}

// Allocate requests size bytes aligned to 2^alignOrder. The granted size
// is always a multiple of 2^min_order and at least size.
func (a *Allocator) Allocate(alignOrder uint, size uintptr) (ptr uintptr, granted uintptr, err error) {
	a.requireInit()
	if size == 0 {
		panic("buddy: Allocate called with size == 0")
	}
	return a.allocate(alignOrder, size)
}

// AllocateLayout is a convenience form of Allocate taking a Layout. A
// zero-size layout performs no bookkeeping change and returns a
// non-dereferenceable but correctly aligned pointer value.
func (a *Allocator) AllocateLayout(l Layout) (ptr uintptr, granted uintptr, err error) {
	a.requireInit()
	if l.Size == 0 {
		return l.Align, 0, nil
	}
	return a.allocate(l.alignOrder(), l.Size)
}

func (a *Allocator) allocate(alignOrder uint, size uintptr) (uintptr, uintptr, error) {
	pageMask := uintptr(1)<<a.minOrder - 1
	ansSize := (size + pageMask) &^ pageMask
	sizeOrder := bitutil.CeilLog2(ansSize)
	if sizeOrder < a.minOrder {
		sizeOrder = a.minOrder
	}
	maxOrder := a.maxOrder()

	var ptr, allocSize uintptr

	if sizeOrder >= maxOrder {
		count := (ansSize + (uintptr(1)<<maxOrder - 1)) >> maxOrder
		idx, ok := a.oligarchy.TakeAny(bitutil.SubOrZero(alignOrder, maxOrder), count)
		if !ok {
			return 0, 0, fmt.Errorf("buddy: allocate %d bytes from the oligarchy: %w", size, ErrOutOfMemory)
		}
		ptr = idx << maxOrder
		allocSize = count << maxOrder
	} else {
		layer0 := sizeOrder - a.minOrder
		foundLayer := -1
		var idx uintptr
		for l := layer0; l < uint(len(a.rows)); l++ {
			align := bitutil.SubOrZero(alignOrder, a.minOrder+l)
			if got, ok := a.rows[l].TakeAny(align); ok {
				idx = got
				foundLayer = int(l)
				break
			}
		}
		if foundLayer == -1 {
			if got, ok := a.oligarchy.TakeAny(bitutil.SubOrZero(alignOrder, maxOrder), 1); ok {
				idx = got
				foundLayer = len(a.rows)
			} else {
				return 0, 0, fmt.Errorf("buddy: allocate %d bytes: %w", size, ErrOutOfMemory)
			}
		}

		// Split down: give back every buddy picked up along the way from
		// the layer we actually found free space at down to layer0.
		for l := foundLayer - 1; l >= int(layer0); l-- {
			idx <<= 1
			if _, coalesced := a.rows[l].Put(idx + 1); coalesced {
				panic("buddy: split-down put unexpectedly coalesced")
			}
		}

		allocSize = uintptr(1) << sizeOrder
		ptr = idx << sizeOrder
	}

	a.free -= uint64(allocSize)
	if allocSize > ansSize {
		// Residue from over-alignment rounding; donate it straight back.
		a.deallocate(ptr+ansSize, allocSize-ansSize)
	}
	return ptr, ansSize, nil
}

// Deallocate returns a region to the allocator. size must be a multiple of
// 2^min_order, and the region must have been previously handed out by this
// allocator or donated and never allocated.
func (a *Allocator) Deallocate(ptr, size uintptr) {
	a.requireInit()
	if size == 0 {
		return
	}
	pageMask := uintptr(1)<<a.minOrder - 1
	if size&pageMask != 0 {
		panic("buddy: deallocate size not a multiple of the cell size")
	}
	a.deallocate(ptr, size)
}

// DeallocateLayout is a convenience form of Deallocate taking a Layout; it
// rounds the size up to the cell size the same way AllocateLayout did.
func (a *Allocator) DeallocateLayout(ptr uintptr, l Layout) {
	if l.Size == 0 {
		return
	}
	pageMask := uintptr(1)<<a.minOrder - 1
	size := (l.Size + pageMask) &^ pageMask
	a.Deallocate(ptr, size)
}

func (a *Allocator) deallocate(ptr, size uintptr) {
	maxOrder := a.maxOrder()
	end := ptr + size
	for ptr < end {
		length := end - ptr
		order := maxPtrOrder(ptr)
		if orderLen := bitutil.FloorLog2(length); orderLen < order {
			order = orderLen
		}
		if order < a.minOrder {
			order = a.minOrder
		}

		if order >= maxOrder {
			count := length >> maxOrder
			idx := ptr >> maxOrder
			for k := uintptr(0); k < count; k++ {
				a.oligarchy.Put(idx + k)
			}
			ptr += count << maxOrder
			continue
		}

		idx := ptr >> order
		ptr += uintptr(1) << order
		for layer := order - a.minOrder; ; layer++ {
			if layer == uint(len(a.rows)) {
				a.oligarchy.Put(idx)
				break
			}
			parent, coalesced := a.rows[layer].Put(idx)
			if !coalesced {
				break
			}
			idx = parent
		}
	}

	a.free += uint64(size)
	if a.free > a.capacity {
		panic("buddy: free exceeds capacity")
	}
}

// maxPtrOrder returns the largest order such that 2^order divides ptr,
// treating address zero as maximally aligned.
func maxPtrOrder(ptr uintptr) uint {
	if ptr == 0 {
		return 64
	}
	return bitutil.Ctz(ptr)
}

// Snatch behaves like Allocate, but on success permanently removes the
// granted bytes from capacity rather than just free.
func (a *Allocator) Snatch(alignOrder uint, size uintptr) (ptr uintptr, granted uintptr, err error) {
	a.requireInit()
	ptr, granted, err = a.Allocate(alignOrder, size)
	if err != nil {
		return 0, 0, err
	}
	a.capacity -= uint64(granted)
	return ptr, granted, nil
}

// Capacity returns the total bytes ever donated via Transfer, less any
// removed via Snatch.
func (a *Allocator) Capacity() uint64 { return a.capacity }

// Free returns the bytes currently managed and not handed out.
func (a *Allocator) Free() uint64 { return a.free }

// RowStats reports one layer's order and free-block count, in layer
// order, oligarchy last. Rows that do not implement Counter report 0.
type RowStats struct {
	Order uint
	Free  uintptr
}

// RowStats returns introspection data for every row; it is not on any hot
// path and exists for buddydebug and tests.
func (a *Allocator) RowStats() []RowStats {
	stats := make([]RowStats, 0, len(a.rows)+1)
	for i, r := range a.rows {
		stats = append(stats, RowStats{Order: a.minOrder + uint(i), Free: countOf(r)})
	}
	stats = append(stats, RowStats{Order: a.maxOrder(), Free: countOf(a.oligarchy)})
	return stats
}

func countOf(r interface{}) uintptr {
	if c, ok := r.(Counter); ok {
		return c.Count()
	}
	return 0
}
