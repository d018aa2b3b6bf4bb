//go:build unix

package mmap

import (
	"golang.org/x/sys/unix"
)

// MapAnon creates a read/write anonymous private mapping of size bytes.
// The returned slice is page-aligned and zero-filled. The mapping is not
// backed by any file and is never shared with another process.
func MapAnon(size int) ([]byte, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	prot := unix.PROT_READ | unix.PROT_WRITE
	flags := unix.MAP_ANON | unix.MAP_PRIVATE

	data, err := unix.Mmap(-1, 0, size, prot, flags)
	if err != nil {
		return nil, err
	}

	return data, nil
}

// Munmap releases a mapping created by MapAnon. It must be passed the
// exact slice MapAnon returned; golang.org/x/sys keys its bookkeeping on
// the slice identity and rejects anything else.
func Munmap(data []byte) error {
	return unix.Munmap(data)
}
