package buddy

// Row is the capability every size-class bookkeeping structure presents to
// the coordinator, independent of whether it coalesces.
type Row interface {
	// Init fixes the row's order and the absolute cell index that
	// corresponds to local index 0 within the row.
	Init(order uint, base uintptr)

	// IntrusiveMetaSize is the number of leading bytes of every free block
	// this row uses for its own bookkeeping. Zero for non-intrusive rows.
	IntrusiveMetaSize() uintptr
}

// TakeRemover is implemented by rows that can remove one specific,
// known-free index. It is optional: a failed type assertion just means the
// caller cannot surgically remove from that row.
type TakeRemover interface {
	Take(idx uintptr) bool
}

// Counter is implemented by rows that can report their current free-block
// count. It exists for introspection only: Allocator.RowStats (and so
// buddydebug) calls it, while allocation and deallocation never do.
type Counter interface {
	Count() uintptr
}

// BuddyCollection is the contract an inner, coalescing layer (layer ℓ < N)
// presents to the coordinator. All indices are absolute cell indices
// (address >> order); each row normalizes them against its own base
// internally.
type BuddyCollection interface {
	Row

	// TakeAny removes and returns any one free block aligned to
	// 2^alignOrder, or ok=false if none exists.
	TakeAny(alignOrder uint) (idx uintptr, ok bool)

	// Put inserts idx. If its buddy (idx^1) is already free in this row,
	// both are removed and the parent index (idx>>1, one layer up) is
	// returned with coalesced=true; otherwise idx is inserted and
	// coalesced is false.
	Put(idx uintptr) (parent uintptr, coalesced bool)
}

// OligarchyCollection is the contract the top, non-coalescing layer
// presents to the coordinator.
type OligarchyCollection interface {
	Row

	// TakeAny removes and returns the first index of a run of count
	// adjacent free blocks aligned to 2^alignOrder, or ok=false if no such
	// run exists.
	TakeAny(alignOrder uint, count uintptr) (first uintptr, ok bool)

	// Put inserts a single block. Oligarchs never coalesce.
	Put(idx uintptr)
}
