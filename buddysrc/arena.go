// Package buddysrc sources the physically contiguous region a buddy
// allocator needs from the process heap via mcache, standing in for the
// mmap/linker-region/page-frame acquisition a bare-metal caller would use
// instead. It exists so a caller without a kernel underneath it can still
// exercise buddy.Allocator.Transfer end to end.
package buddysrc

import (
	"sync"
	"unsafe"

	"github.com/bytedance/gopkg/lang/mcache"
)

// Arena owns a byte slice sourced from mcache and keeps it referenced so
// the garbage collector does not reclaim it while its address is in use
// as a raw uintptr inside a buddy.Allocator.
type Arena struct {
	mu  sync.Mutex
	buf []byte
}

// NewArena sources size bytes from mcache and returns the arena together
// with its base address and length, ready for buddy.Allocator.Transfer.
func NewArena(size int) (a *Arena, base uintptr, length uintptr) {
	if size <= 0 {
		panic("buddysrc: arena size must be positive")
	}
	buf := mcache.Malloc(size)
	return &Arena{buf: buf}, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf))
}

// Release returns the backing buffer to mcache. Neither the arena nor any
// address derived from it may be used afterward.
func (a *Arena) Release() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.buf == nil {
		return
	}
	mcache.Free(a.buf)
	a.buf = nil
}
