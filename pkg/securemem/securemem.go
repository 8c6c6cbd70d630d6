// Package securemem provides the process-wide memory lock and the
// compiler-opaque zeroization primitive used to scrub passphrases and
// derived keys once they are no longer needed. The streaming codec's chunk
// buffers are not scrubbed.
package securemem

import (
	"golang.org/x/sys/unix"

	naclerrors "github.com/go-naclypt/naclypt/internal/errors"
)

// LockAll locks the calling process's current and future memory pages,
// preventing secrets from being written to swap. It must be called once,
// as early as possible, before any sensitive material is allocated.
func LockAll() error {
	if err := unix.Mlockall(unix.MCL_CURRENT | unix.MCL_FUTURE); err != nil {
		return naclerrors.MemoryLock("securemem.LockAll", err)
	}
	return nil
}

// Zero overwrites b with zeros in a way the compiler cannot prove is
// dead and therefore cannot optimize away, unlike a plain clearing loop.
// Grounded on the volatile-store-loop idiom: writing through a pointer
// the compiler cannot reason escapes the function forces the stores to
// actually happen.
func Zero(b []byte) {
	if len(b) == 0 {
		return
	}
	for i := range b {
		volatileStore(&b[i], 0)
	}
}

// ZeroAll zeros every slice given, in order.
func ZeroAll(slices ...[]byte) {
	for _, s := range slices {
		Zero(s)
	}
}

//go:noinline
func volatileStore(p *byte, v byte) {
	*p = v
}
