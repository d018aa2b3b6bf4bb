package region

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/hupe1980/mmalloc/internal/mmap"
)

const (
	// PageSize is the assumed OS page size. On systems with larger pages
	// the mapping is still correct; the excess is internal fragmentation.
	PageSize = 4096

	// HeaderSize is the size of the region header in bytes. It is a
	// multiple of 8 so that anything placed directly after it is 8-byte
	// aligned.
	HeaderSize = int(unsafe.Sizeof(header{}))

	pageMask = PageSize - 1
)

// header is the overlay written at offset 0 of every mapped region.
type header struct {
	mmapSize uint64 // bytes requested from the OS for this region
	classTag uint64 // 0 = large allocation, >0 = arena slot size
}

var (
	// live counts currently outstanding regions. Diagnostic only.
	live atomic.Int64

	registry struct {
		sync.Mutex
		regions map[uintptr][]byte
	}
)

func init() {
	registry.regions = make(map[uintptr][]byte)
}

// Map requests size bytes of fresh anonymous read/write memory from the
// OS, writes the region header at its start and registers it as live.
// Failure is judged solely by the mapping call's error return; on
// failure nothing is committed and the live counter is untouched.
func Map(size int, classTag uint64) (uintptr, error) {
	data, err := mmap.MapAnon(size)
	if err != nil {
		return 0, err
	}

	base := uintptr(unsafe.Pointer(&data[0]))
	h := (*header)(unsafe.Pointer(&data[0]))
	h.mmapSize = uint64(size)
	h.classTag = classTag

	registry.Lock()
	registry.regions[base] = data
	registry.Unlock()

	live.Add(1)
	return base, nil
}

// Unmap releases the region whose header is at base, using the region's
// own recorded size. Any accounting inconsistency is a fatal contract
// violation and panics: there is no way to represent a consistent state
// after a double release or an unknown address.
func Unmap(base uintptr) {
	registry.Lock()
	data, ok := registry.regions[base]
	if !ok {
		registry.Unlock()
		panic("region: unmap of address that is not a live region header")
	}
	h := (*header)(unsafe.Pointer(&data[0]))
	if h.mmapSize != uint64(len(data)) {
		registry.Unlock()
		panic("region: header size does not match original mapping")
	}
	delete(registry.regions, base)
	registry.Unlock()

	if err := mmap.Munmap(data); err != nil {
		panic("region: munmap failed: " + err.Error())
	}
	if live.Add(-1) < 0 {
		panic("region: released more regions than were ever mapped")
	}
}

// Resolve recovers the owning region of a pointer previously issued by
// the allocator. Arena slots are interior addresses, so the pointer is
// rounded down to its page boundary; large-object payloads start inside
// the first page of their region, so the same rounding finds their
// header too. A pointer that does not land in a live region is a fatal
// contract violation.
func Resolve(ptr uintptr) (base uintptr, classTag uint64) {
	base = ptr &^ uintptr(pageMask)

	registry.Lock()
	data, ok := registry.regions[base]
	registry.Unlock()
	if !ok {
		panic("region: pointer was not returned by this allocator or was already released")
	}

	h := (*header)(unsafe.Pointer(&data[0]))
	return base, h.classTag
}

// Live returns the number of currently outstanding mapped regions.
func Live() int64 {
	return live.Load()
}

// TotalSize reports the recorded mapping size of a live region.
func TotalSize(base uintptr) uint64 {
	registry.Lock()
	data, ok := registry.regions[base]
	registry.Unlock()
	if !ok {
		panic("region: size query for address that is not a live region header")
	}
	return (*header)(unsafe.Pointer(&data[0])).mmapSize
}
