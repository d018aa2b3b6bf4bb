package mmap

import "errors"

var (
	// ErrUnsupported indicates that anonymous mappings aren't available on this platform.
	ErrUnsupported = errors.New("mmap: anonymous mappings unsupported on this platform")
	// ErrInvalidSize is returned when the requested mapping size is not positive.
	ErrInvalidSize = errors.New("mmap: invalid mapping size")
)
