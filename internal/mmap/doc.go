// Package mmap provides anonymous memory mappings for off-heap allocation.
//
// # Overview
//
// Every byte the allocator hands out lives in an anonymous, private,
// read/write mapping obtained directly from the operating system. The Go
// garbage collector never scans or moves this memory, and nothing here
// depends on the runtime allocator or a platform libc.
//
// # Usage
//
//	data, err := mmap.MapAnon(4096)
//	if err != nil { ... }
//	// data is page-aligned, zero-filled, read/write
//	_ = mmap.Munmap(data)
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with MAP_ANON|MAP_PRIVATE,
//     munmap(2), via golang.org/x/sys/unix
//   - Other platforms: MapAnon returns ErrUnsupported
//
// Munmap must be passed the exact slice returned by MapAnon, not a
// derived slice.
package mmap
