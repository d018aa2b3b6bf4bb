package mmalloc

import (
	"math/bits"
	"unsafe"

	"github.com/hupe1980/mmalloc/internal/arena"
	"github.com/hupe1980/mmalloc/internal/region"
)

const (
	// MaxSmallSize is the largest request served from a size-class arena.
	// Anything above it gets its own dedicated mapping.
	MaxSmallSize = 1024

	// numSizeClasses is the router table width. Size classing puts item
	// sizes 8 through 1024 at indexes 0..7; the ninth slot is headroom
	// for one more doubling.
	numSizeClasses = 9

	// minSizeShift is log2 of the smallest slot size (8 bytes).
	minSizeShift = 3
)

// Allocator routes allocations to size-class arenas or the large-object
// path and owns at most one open arena per size class. It is an explicit
// owned structure rather than ambient global state so that independent
// instances can coexist; they share only the process-wide region layer.
//
// The zero value is not usable; construct with New.
type Allocator struct {
	// classes holds the base address of the currently open arena per
	// size class, or 0. Not synchronized; see the package documentation.
	classes [numSizeClasses]uintptr

	logger *Logger
	stats  atomicStats
}

// New creates an Allocator.
func New(opts ...Option) *Allocator {
	o := options{
		logger: NoopLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Allocator{
		logger: o.logger,
	}
}

// sizeClassIndex maps a small request to its size class: requests of at
// most 8 bytes land in class 0, everything else is rounded up to the
// next power of two with the class index being log2 of that minus 3.
func sizeClassIndex(size int) int {
	if size <= 8 {
		return 0
	}
	return bits.Len(uint(size-1)) - minSizeShift
}

// classSlotSize returns the item size of a size class.
func classSlotSize(class int) uint64 {
	return 1 << (class + minSizeShift)
}

// Alloc returns a pointer to size usable bytes of allocator-owned,
// 8-byte aligned, off-heap memory, or nil if the OS denies the mapping.
// Zero-size requests are served from the smallest size class. The
// returned memory is zero-filled on first issue.
func (a *Allocator) Alloc(size int) unsafe.Pointer {
	if size < 0 {
		return nil
	}
	if size > MaxSmallSize {
		return a.allocLarge(size)
	}
	return a.allocSmall(sizeClassIndex(size))
}

func (a *Allocator) allocLarge(size int) unsafe.Pointer {
	total := size + region.HeaderSize
	if total < size { // overflow
		return nil
	}

	base, err := region.Map(total, 0)
	if err != nil {
		a.logger.Error("large mapping failed", "size", size, "error", err)
		return nil
	}

	a.stats.LargeAllocs.Add(1)
	a.stats.BytesMapped.Add(uint64(total))

	return unsafe.Pointer(base + uintptr(region.HeaderSize)) //nolint:govet // address inside a live mapping
}

func (a *Allocator) allocSmall(class int) unsafe.Pointer {
	base := a.classes[class]
	if base == 0 {
		ar, err := a.openArena(class)
		if err != nil {
			return nil
		}
		base = ar.Base()
	}

	slot := arena.FromBase(base).Alloc()
	if slot == 0 {
		// The open arena is exhausted. Drop it from the table (already
		// issued slots stay valid and release through the usual path)
		// and retry once with a fresh arena, which always has capacity
		// for at least one slot.
		a.classes[class] = 0

		ar, err := a.openArena(class)
		if err != nil {
			return nil
		}
		slot = ar.Alloc()
	}

	a.stats.SlotsIssued.Add(1)
	return unsafe.Pointer(slot) //nolint:govet // address inside a live mapping
}

func (a *Allocator) openArena(class int) (arena.Arena, error) {
	slotSize := classSlotSize(class)

	ar, err := arena.Open(slotSize)
	if err != nil {
		a.logger.Error("arena mapping failed", "class", class, "slot_size", slotSize, "error", err)
		return arena.Arena{}, err
	}
	a.classes[class] = ar.Base()

	a.stats.ArenasOpened.Add(1)
	a.stats.BytesMapped.Add(region.PageSize)

	a.logger.Debug("arena opened", "class", class, "slot_size", slotSize, "base", ar.Base())
	return ar, nil
}

// Free releases a pointer previously returned by Alloc. Passing any
// other pointer, or the same pointer twice, is a contract violation and
// panics (see package documentation). Freeing nil is a no-op, matching
// the standard pair this replaces.
func (a *Allocator) Free(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}

	base, classTag := region.Resolve(uintptr(ptr))
	if classTag == 0 {
		a.freeLarge(ptr, base)
		return
	}

	ar := arena.FromBase(base)
	if ar.Free() {
		// Fully issued and fully released: hand the page back. The
		// table may still reference this arena if its last slot was
		// issued without a follow-up allocation, so clear it before
		// the base address becomes dangling.
		class := sizeClassIndex(int(classTag))
		if a.classes[class] == base {
			a.classes[class] = 0
		}

		region.Unmap(base)

		a.stats.ArenasReclaimed.Add(1)
		a.stats.BytesUnmapped.Add(region.PageSize)

		a.logger.Debug("arena reclaimed", "class", class, "slot_size", classTag, "base", base)
	}

	a.stats.SlotsReleased.Add(1)
}

func (a *Allocator) freeLarge(ptr unsafe.Pointer, base uintptr) {
	if uintptr(ptr) != base+uintptr(region.HeaderSize) {
		panic("mmalloc: free of interior large-object pointer")
	}

	total := region.TotalSize(base)
	region.Unmap(base)

	a.stats.LargeFrees.Add(1)
	a.stats.BytesUnmapped.Add(total)
}

// AllocBytes allocates a byte slice of the given size backed by
// allocator-owned memory. It returns nil if the mapping fails. The
// slice must be released with FreeBytes and not used afterwards.
func (a *Allocator) AllocBytes(size int) []byte {
	ptr := a.Alloc(size)
	if ptr == nil {
		return nil
	}
	return unsafe.Slice((*byte)(ptr), size)
}

// FreeBytes releases a slice previously returned by AllocBytes. It must
// be passed the same slice (not a derived slice). Freeing nil is a
// no-op.
func (a *Allocator) FreeBytes(b []byte) {
	if b == nil {
		return
	}
	a.Free(unsafe.Pointer(unsafe.SliceData(b)))
}

// std is the process-wide allocator behind the package-level entry
// points, living for the lifetime of the process like the pair it
// replaces.
var std = New()

// Default returns the process-wide Allocator used by the package-level
// Alloc and Free.
func Default() *Allocator { return std }

// Alloc allocates size usable bytes from the process-wide allocator.
// It returns nil if the OS denies the mapping.
func Alloc(size int) unsafe.Pointer { return std.Alloc(size) }

// Free releases a pointer previously returned by Alloc.
func Free(ptr unsafe.Pointer) { std.Free(ptr) }

// AllocBytes allocates a byte slice from the process-wide allocator.
func AllocBytes(size int) []byte { return std.AllocBytes(size) }

// FreeBytes releases a slice previously returned by AllocBytes.
func FreeBytes(b []byte) { std.FreeBytes(b) }

// LiveRegions reports the number of currently outstanding OS mappings
// across the whole process, for leak auditing.
func LiveRegions() int64 { return region.Live() }
