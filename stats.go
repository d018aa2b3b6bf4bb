package mmalloc

import (
	"fmt"
	"sync/atomic"
)

// Stats is a point-in-time snapshot of an Allocator's operation
// counters. Counters are cumulative and diagnostic only; they never
// influence allocation decisions.
type Stats struct {
	ArenasOpened    uint64 // arenas mapped over the allocator's lifetime
	ArenasReclaimed uint64 // arenas unmapped after full issue + full release
	SlotsIssued     uint64 // small allocations served
	SlotsReleased   uint64 // small allocations released
	LargeAllocs     uint64 // large-object regions mapped
	LargeFrees      uint64 // large-object regions unmapped
	BytesMapped     uint64 // cumulative bytes requested from the OS
	BytesUnmapped   uint64 // cumulative bytes returned to the OS
}

// atomicStats is the live counterpart of Stats. Atomics keep the
// counters readable from monitoring goroutines without making any
// promise about the (unsynchronized) allocator core.
type atomicStats struct {
	ArenasOpened    atomic.Uint64
	ArenasReclaimed atomic.Uint64
	SlotsIssued     atomic.Uint64
	SlotsReleased   atomic.Uint64
	LargeAllocs     atomic.Uint64
	LargeFrees      atomic.Uint64
	BytesMapped     atomic.Uint64
	BytesUnmapped   atomic.Uint64
}

// Stats returns the current allocator statistics.
func (a *Allocator) Stats() Stats {
	return Stats{
		ArenasOpened:    a.stats.ArenasOpened.Load(),
		ArenasReclaimed: a.stats.ArenasReclaimed.Load(),
		SlotsIssued:     a.stats.SlotsIssued.Load(),
		SlotsReleased:   a.stats.SlotsReleased.Load(),
		LargeAllocs:     a.stats.LargeAllocs.Load(),
		LargeFrees:      a.stats.LargeFrees.Load(),
		BytesMapped:     a.stats.BytesMapped.Load(),
		BytesUnmapped:   a.stats.BytesUnmapped.Load(),
	}
}

func (a *Allocator) String() string {
	stats := a.Stats()
	return fmt.Sprintf(
		"Allocator{arenas: %d/%d, slots: %d/%d, large: %d/%d, mapped: %.2f KB, unmapped: %.2f KB}",
		stats.ArenasOpened,
		stats.ArenasReclaimed,
		stats.SlotsIssued,
		stats.SlotsReleased,
		stats.LargeAllocs,
		stats.LargeFrees,
		float64(stats.BytesMapped)/1024,
		float64(stats.BytesUnmapped)/1024,
	)
}
