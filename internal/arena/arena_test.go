package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/mmalloc/internal/region"
)

func TestOpen_InitializesMetadata(t *testing.T) {
	before := region.Live()

	a, err := Open(8)
	require.NoError(t, err)
	defer region.Unmap(a.Base())

	assert.Equal(t, before+1, region.Live())
	assert.Equal(t, uint64(8), a.SlotSize())
	assert.Zero(t, a.Live())
	assert.Equal(t, uint64(Capacity), a.Remaining())
	assert.False(t, a.Exhausted())

	// The region header carries the slot size as its class tag.
	base, classTag := region.Resolve(a.Base() + uintptr(headerBytes))
	assert.Equal(t, a.Base(), base)
	assert.Equal(t, uint64(8), classTag)
}

func TestAlloc_BumpIssuance(t *testing.T) {
	a, err := Open(16)
	require.NoError(t, err)
	defer region.Unmap(a.Base())

	first := a.Alloc()
	second := a.Alloc()
	require.NotZero(t, first)
	require.NotZero(t, second)

	assert.Equal(t, a.Base()+uintptr(headerBytes), first)
	assert.Equal(t, first+16, second, "slots are issued contiguously")
	assert.Zero(t, first%8, "slots are 8-byte aligned")
	assert.Equal(t, uint64(2), a.Live())
	assert.Equal(t, uint64(Capacity-32), a.Remaining())
}

func TestAlloc_IssuesExactlyCapacity(t *testing.T) {
	a, err := Open(8)
	require.NoError(t, err)
	defer region.Unmap(a.Base())

	want := Capacity / 8
	seen := make(map[uintptr]struct{}, want)
	for i := 0; i < want; i++ {
		slot := a.Alloc()
		require.NotZerof(t, slot, "slot %d", i)
		_, dup := seen[slot]
		require.Falsef(t, dup, "slot %d issued twice", i)
		seen[slot] = struct{}{}
	}

	assert.True(t, a.Exhausted())
	assert.Zero(t, a.Alloc(), "exhausted arena must not issue")
	assert.Equal(t, uint64(want), a.Live())
}

func TestFree_RetainsWithVirginCapacity(t *testing.T) {
	a, err := Open(64)
	require.NoError(t, err)
	defer region.Unmap(a.Base())

	require.NotZero(t, a.Alloc())

	// Zero live slots but virgin capacity left: never reclaimed.
	assert.False(t, a.Free())
	assert.Zero(t, a.Live())
	assert.False(t, a.Exhausted())
}

func TestFree_ReclaimOnlyWhenExhaustedAndIdle(t *testing.T) {
	a, err := Open(1024)
	require.NoError(t, err)

	var slots int
	for a.Alloc() != 0 {
		slots++
	}
	require.Equal(t, Capacity/1024, slots)
	require.True(t, a.Exhausted())

	for i := 0; i < slots-1; i++ {
		assert.Falsef(t, a.Free(), "free %d must retain, slots still live", i)
	}
	assert.True(t, a.Free(), "last free of an exhausted arena signals reclaim")

	region.Unmap(a.Base())
}

func TestFree_SaturatesAtZero(t *testing.T) {
	a, err := Open(8)
	require.NoError(t, err)
	defer region.Unmap(a.Base())

	assert.False(t, a.Free())
	assert.False(t, a.Free())
	assert.Zero(t, a.Live())

	// Issuance still works after spurious frees.
	assert.NotZero(t, a.Alloc())
	assert.Equal(t, uint64(1), a.Live())
}

func TestFromBase_RebuildsHandle(t *testing.T) {
	a, err := Open(32)
	require.NoError(t, err)
	defer region.Unmap(a.Base())

	slot := a.Alloc()
	require.NotZero(t, slot)

	b := FromBase(a.Base())
	assert.Equal(t, a.Base(), b.Base())
	assert.Equal(t, uint64(32), b.SlotSize())
	assert.Equal(t, uint64(1), b.Live())
	assert.Equal(t, a.Remaining(), b.Remaining())
}

func TestSlotAreaIsAligned(t *testing.T) {
	assert.Zero(t, headerBytes%8)
	assert.Zero(t, Capacity%8)
}
