// Package buddy implements a customizable buddy memory allocator for
// environments without a heap runtime: a caller donates a physically
// contiguous region and the allocator partitions it into power-of-two
// blocks, servicing allocate/deallocate/transfer/snatch through a set of
// pluggable per-size-class rows.
//
// The core performs no synchronization; see buddysync for a concurrent
// wrapper, and buddydebug for introspection rendering.
package buddy
