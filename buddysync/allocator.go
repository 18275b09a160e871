// Package buddysync wraps a buddy.Allocator with a mutex, so it can be
// shared across goroutines. The core package is single-threaded by
// contract; this collaborator is where serialization belongs.
package buddysync

import (
	"sync"

	"github.com/YdrMaster/buddy-allocator/buddy"
)

// Allocator serializes access to an underlying buddy.Allocator with a
// mutex, mirroring its method surface.
type Allocator struct {
	mu    sync.Mutex
	inner *buddy.Allocator
}

// New wraps inner for concurrent use.
func New(inner *buddy.Allocator) *Allocator {
	return &Allocator{inner: inner}
}

// Init fixes the minimum block order and base address.
func (a *Allocator) Init(minOrder uint, base uintptr) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.inner.Init(minOrder, base)
}

// Transfer donates a region to the allocator.
func (a *Allocator) Transfer(ptr, size uintptr) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.inner.Transfer(ptr, size)
}

// Allocate requests size bytes aligned to 2^alignOrder.
func (a *Allocator) Allocate(alignOrder uint, size uintptr) (uintptr, uintptr, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inner.Allocate(alignOrder, size)
}

// AllocateLayout requests an allocation matching l.
func (a *Allocator) AllocateLayout(l buddy.Layout) (uintptr, uintptr, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inner.AllocateLayout(l)
}

// Deallocate returns a region to the allocator.
func (a *Allocator) Deallocate(ptr, size uintptr) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.inner.Deallocate(ptr, size)
}

// DeallocateLayout returns a region described by l.
func (a *Allocator) DeallocateLayout(ptr uintptr, l buddy.Layout) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.inner.DeallocateLayout(ptr, l)
}

// Snatch behaves like Allocate but permanently removes the granted bytes
// from capacity.
func (a *Allocator) Snatch(alignOrder uint, size uintptr) (uintptr, uintptr, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inner.Snatch(alignOrder, size)
}

// Capacity returns total bytes ever donated, less any snatched away.
func (a *Allocator) Capacity() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inner.Capacity()
}

// Free returns bytes currently managed and not handed out.
func (a *Allocator) Free() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inner.Free()
}

// RowStats returns introspection data for every row.
func (a *Allocator) RowStats() []buddy.RowStats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inner.RowStats()
}
