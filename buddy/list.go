package buddy

import "unsafe"

// noNext marks the end of a free list.
const noNext = ^uintptr(0)

// listCore is the intrusive-list state shared by ListRow and
// ListOligarchyRow. Free blocks thread through their own first
// unsafe.Sizeof(uintptr(0)) bytes; head holds the address of the first
// free node (the lowest address for ListRow, the last pushed for
// ListOligarchyRow), or noNext.
type listCore struct {
	head  uintptr
	order uint
	base  uintptr
}

func (c *listCore) Init(order uint, base uintptr) {
	c.order = order
	c.base = base
	c.head = noNext
}

func (c *listCore) IntrusiveMetaSize() uintptr { return unsafe.Sizeof(uintptr(0)) }

// Count walks the list; O(n), debug use only.
func (c *listCore) Count() uintptr {
	var n uintptr
	for p := c.head; p != noNext; p = readNext(p) {
		n++
	}
	return n
}

func readNext(addr uintptr) uintptr {
	return *(*uintptr)(unsafe.Pointer(addr))
}

func writeNext(addr, next uintptr) {
	*(*uintptr)(unsafe.Pointer(addr)) = next
}

func (c *listCore) idxToAddr(idx uintptr) uintptr { return idx << c.order }
func (c *listCore) addrToIdx(addr uintptr) uintptr { return addr >> c.order }

// take removes the node at addr if present, reporting whether it was.
// O(n): acceptable for debug/surgical use, not on the hot allocate path.
func (c *listCore) take(addr uintptr) bool {
	if c.head == addr {
		c.head = readNext(addr)
		return true
	}
	prev := c.head
	for prev != noNext {
		next := readNext(prev)
		if next == addr {
			writeNext(prev, readNext(next))
			return true
		}
		prev = next
	}
	return false
}

// ListRow is an intrusive, unbounded row for an inner buddy layer. Free
// blocks are kept in strictly ascending address order, which lets put
// detect a buddy pair in the same pass that finds the insertion point.
type ListRow struct {
	listCore
}

// TakeAny pops the lowest-address free block. Alignment coarser than this
// row's own order is not supported here — the coordinator's search moves
// on to a higher layer in that case.
func (r *ListRow) TakeAny(alignOrder uint) (uintptr, bool) {
	if alignOrder != 0 {
		return 0, false
	}
	if r.head == noNext {
		return 0, false
	}
	addr := r.head
	r.head = readNext(addr)
	return r.addrToIdx(addr), true
}

// Put walks the list from head. If the buddy node is found, it is unlinked
// and the parent index is returned; otherwise idx is inserted just before
// the first node with a greater address, preserving ascending order.
func (r *ListRow) Put(idx uintptr) (uintptr, bool) {
	nodeAddr := r.idxToAddr(idx)
	buddyAddr := r.idxToAddr(idx ^ 1)

	prevIsHead := true
	var prevAddr uintptr
	cursor := r.head
	for cursor != noNext && cursor < buddyAddr {
		prevIsHead = false
		prevAddr = cursor
		cursor = readNext(cursor)
	}

	if cursor == buddyAddr {
		next := readNext(cursor)
		if prevIsHead {
			r.head = next
		} else {
			writeNext(prevAddr, next)
		}
		return idx >> 1, true
	}

	writeNext(nodeAddr, cursor)
	if prevIsHead {
		r.head = nodeAddr
	} else {
		writeNext(prevAddr, nodeAddr)
	}
	return 0, false
}

// Take removes a specific, known-free index.
func (r *ListRow) Take(idx uintptr) bool { return r.take(r.idxToAddr(idx)) }

// ListOligarchyRow is the top-layer, non-coalescing counterpart of
// ListRow. It keeps no ordering, since the oligarchy never needs to find a
// buddy by address.
type ListOligarchyRow struct {
	listCore
}

// TakeAny only supports a single, unaligned block; any richer request
// returns ok=false, and the coordinator then fails the allocation with
// ErrOutOfMemory.
func (r *ListOligarchyRow) TakeAny(alignOrder uint, count uintptr) (uintptr, bool) {
	if count != 1 || alignOrder != 0 {
		return 0, false
	}
	if r.head == noNext {
		return 0, false
	}
	addr := r.head
	r.head = readNext(addr)
	return r.addrToIdx(addr), true
}

// Put pushes idx onto the head of the list, unordered.
func (r *ListOligarchyRow) Put(idx uintptr) {
	addr := r.idxToAddr(idx)
	writeNext(addr, r.head)
	r.head = addr
}

// Take removes a specific, known-free index.
func (r *ListOligarchyRow) Take(idx uintptr) bool { return r.take(r.idxToAddr(idx)) }
