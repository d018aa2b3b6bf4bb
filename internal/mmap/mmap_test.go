package mmap

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sliceAddr(b []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}

func mustMapAnon(t *testing.T, size int) []byte {
	t.Helper()

	data, err := MapAnon(size)
	if errors.Is(err, ErrUnsupported) {
		t.Skip("anonymous mappings unsupported on this platform")
	}
	require.NoError(t, err)
	return data
}

func TestMapAnon_RoundTrip(t *testing.T) {
	data := mustMapAnon(t, 4096)

	assert.Len(t, data, 4096)

	// Fresh anonymous pages are zero-filled and writable.
	for i, b := range data {
		require.Zerof(t, b, "byte %d not zero", i)
	}
	data[0] = 0xaa
	data[4095] = 0x55
	assert.Equal(t, byte(0xaa), data[0])
	assert.Equal(t, byte(0x55), data[4095])

	require.NoError(t, Munmap(data))
}

func TestMapAnon_PageAligned(t *testing.T) {
	data := mustMapAnon(t, 4096)
	defer func() {
		require.NoError(t, Munmap(data))
	}()

	assert.Zero(t, sliceAddr(data)%4096)
}

func TestMapAnon_MultiPage(t *testing.T) {
	data := mustMapAnon(t, 3*4096+100)

	assert.Len(t, data, 3*4096+100)
	data[3*4096+99] = 1

	require.NoError(t, Munmap(data))
}

func TestMapAnon_InvalidSize(t *testing.T) {
	_, err := MapAnon(0)
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, err = MapAnon(-1)
	assert.ErrorIs(t, err, ErrInvalidSize)
}
