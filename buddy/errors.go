package buddy

import "errors"

// ErrOutOfMemory is returned by Allocate and Snatch when no block
// satisfying the request can be produced from the rows currently managed
// by the allocator.
var ErrOutOfMemory = errors.New("buddy: out of memory")
