// Package region implements the common prologue of every OS-mapped region.
//
// Each region starts with a 16-byte header recording how many bytes were
// mapped and what the region is used for: a class tag of zero marks a
// large allocation, a nonzero tag marks an arena whose slots are tag
// bytes each. The header is written into the mapped memory itself, so it
// is recoverable from any pointer the allocator issued by rounding the
// pointer down to its page boundary.
//
// # Accounting
//
// A process-wide atomic counter tracks the number of currently live
// regions. It exists for leak auditing only and never influences
// allocation decisions.
//
// A registry of live region base addresses backs the counter. It serves
// two purposes: golang.org/x/sys/unix requires the exact slice returned
// by Mmap to perform the Munmap, and a registry miss is how contract
// violations (double release, foreign pointers) are detected without
// dereferencing memory that may already be unmapped.
//
// # Fatal traps
//
// Releasing an address that is not a live region header, releasing the
// same region twice, a header whose recorded size disagrees with the
// mapping, an OS unmap failure, and counter underflow are all accounting
// corruption. The bookkeeping has no consistent state to fall back to,
// so these panic immediately instead of returning an error. Ordinary
// mapping failure (the OS denies the request) is reported as an error
// and commits nothing.
package region
