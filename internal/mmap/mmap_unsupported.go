//go:build !unix

package mmap

// MapAnon is unavailable without an OS page-mapping primitive. The
// allocator refuses to fall back to Go-heap memory because the release
// path depends on page-aligned, individually unmappable regions.
func MapAnon(size int) ([]byte, error) {
	return nil, ErrUnsupported
}

// Munmap is unavailable without an OS page-mapping primitive.
func Munmap(data []byte) error {
	return ErrUnsupported
}
