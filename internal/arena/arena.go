// Package arena implements single-page bump arenas for small objects.
//
// An arena is one page-sized mapped region holding uniform slots. All of
// its mutable state lives inside the page itself, directly after the
// region header, so the release path can rebuild the arena from nothing
// but a page-rounded interior pointer. Slots are issued by a bump cursor
// and never recycled within the arena: a released slot does not feed
// future allocations, it only drives the live count toward reclamation.
//
// Nothing here is synchronized. Concurrent use of one arena requires
// external serialization.
package arena

import (
	"unsafe"

	"github.com/hupe1980/mmalloc/internal/region"
)

// meta is the overlay stored at HeaderSize bytes into the arena's page.
// Field sizes keep the slot area 8-byte aligned; since every slot size
// is itself a multiple of 8, all issued addresses are 8-byte aligned.
type meta struct {
	slotSize  uint64 // copy of the region's class tag
	live      uint64 // slots issued minus slots released, saturating at 0
	remaining uint64 // virgin bytes left for the bump cursor
	next      uint64 // address of the next never-issued slot
}

const metaSize = int(unsafe.Sizeof(meta{}))

// headerBytes is the page prefix consumed by the region header plus the
// arena metadata. Slots start immediately after it.
const headerBytes = region.HeaderSize + metaSize

// Capacity is the number of slot-area bytes in a freshly opened arena.
const Capacity = region.PageSize - headerBytes

// Arena is a handle to a mapped arena page. It carries no state of its
// own; all fields live in the page, so handles are freely copyable and
// can be rebuilt from a base address at any time.
type Arena struct {
	base uintptr
}

// Open maps exactly one page as an arena of slotSize-byte slots.
// slotSize must be a power of two between 8 and 1024; the router
// guarantees this by construction.
func Open(slotSize uint64) (Arena, error) {
	base, err := region.Map(region.PageSize, slotSize)
	if err != nil {
		return Arena{}, err
	}

	a := Arena{base: base}
	m := a.meta()
	m.slotSize = slotSize
	m.live = 0
	m.remaining = uint64(Capacity)
	m.next = uint64(base) + uint64(headerBytes)
	return a, nil
}

// FromBase rebuilds an arena handle from its region base address, as
// recovered by region.Resolve on the release path.
func FromBase(base uintptr) Arena {
	return Arena{base: base}
}

func (a Arena) meta() *meta {
	return (*meta)(unsafe.Pointer(a.base + uintptr(region.HeaderSize))) //nolint:govet // overlay into mapped memory, not a Go allocation
}

// Alloc issues the slot at the bump cursor and returns its address, or 0
// when the arena has no virgin capacity left. Released slots are never
// reissued.
func (a Arena) Alloc() uintptr {
	m := a.meta()
	if m.remaining < m.slotSize {
		return 0
	}
	slot := uintptr(m.next)
	m.next += m.slotSize
	m.remaining -= m.slotSize
	m.live++
	return slot
}

// Free records the release of one issued slot. The live count saturates
// at zero rather than underflowing. It reports true exactly when the
// arena is both fully issued and fully released, which is the only
// condition under which the caller should unmap the page; an arena with
// virgin capacity is retained even at zero live slots.
func (a Arena) Free() (reclaim bool) {
	m := a.meta()
	if m.live > 0 {
		m.live--
	}
	return m.live == 0 && m.remaining < m.slotSize
}

// Exhausted reports whether the bump cursor can issue no further slot.
func (a Arena) Exhausted() bool {
	m := a.meta()
	return m.remaining < m.slotSize
}

// Base returns the arena's region base address.
func (a Arena) Base() uintptr { return a.base }

// SlotSize returns the size in bytes of this arena's slots.
func (a Arena) SlotSize() uint64 { return a.meta().slotSize }

// Live returns the number of currently outstanding slots.
func (a Arena) Live() uint64 { return a.meta().live }

// Remaining returns the virgin bytes left for the bump cursor.
func (a Arena) Remaining() uint64 { return a.meta().remaining }
