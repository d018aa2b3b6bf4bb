// Package mmalloc is a drop-in replacement for the standard heap
// allocation pair, built directly on the operating system's anonymous
// page-mapping primitive instead of the Go runtime allocator or a
// platform libc.
//
// # Quick Start
//
//	p := mmalloc.Alloc(64)      // 8-byte aligned, off-heap
//	defer mmalloc.Free(p)
//
//	buf := mmalloc.AllocBytes(256)
//	defer mmalloc.FreeBytes(buf)
//
// Alloc returns nil when the OS denies the mapping; that is the only
// recoverable failure mode.
//
// # Size Classes
//
// Requests up to 1024 bytes are rounded to a power of two between 8 and
// 1024 and served from single-page arenas, one open arena per size
// class. Larger requests get a dedicated mapping sized to the request
// plus a small header. Zero-byte requests are valid and served from the
// 8-byte class.
//
// An arena issues slots from a bump cursor and never recycles released
// slots; its page is returned to the OS only once it is both fully
// issued and fully released. An arena that still has virgin capacity is
// retained indefinitely, even with no live slots.
//
// # Memory Model
//
// All memory handed out lives in anonymous private mappings. The Go
// garbage collector never scans, retains, or moves it: a pointer stored
// only inside mmalloc-owned memory keeps nothing alive. Treat the two
// entry points exactly like their C counterparts.
//
// # Thread Safety
//
// The core is unsynchronized. Only the diagnostic live-region counter
// (LiveRegions) and the per-allocator Stats are safe to read
// concurrently. Callers that share an Allocator across goroutines must
// serialize access externally, for example with one mutex per size
// class.
//
// # Fatal Traps
//
// Freeing a pointer that was never returned by Alloc, freeing the same
// pointer twice, or any other accounting corruption panics immediately:
// after a double release the bookkeeping has no consistent state to
// recover to, so no error value is offered.
package mmalloc
