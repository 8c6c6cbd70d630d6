// Package crand provides the validated random source used to draw the
// per-file salt and the per-epoch nonce randomness.
//
// Unlike a generic crypto/rand wrapper, this package insists on actually
// opening and validating /dev/urandom (on platforms where that device
// exists) rather than trusting whatever crypto/rand.Reader happens to be
// wired to: a CSPRNG substituted by a hostile or misconfigured environment
// is exactly the failure mode this tool needs to refuse to run under.
package crand

import (
	"io"
	"os"

	"golang.org/x/sys/unix"

	naclerrors "github.com/go-naclypt/naclypt/internal/errors"
)

// urandomMajor and urandomMinor are the device numbers /dev/urandom is
// required to have on Linux. A character device opened at this path with
// any other major/minor is not the kernel CSPRNG and must be rejected.
const (
	urandomMajor = 1
	urandomMinor = 9
)

const devURandom = "/dev/urandom"

// Source is a validated handle on the system random device. It must be
// closed by the caller when the stream is finished.
type Source struct {
	f *os.File
}

// Open opens and validates /dev/urandom, refusing to proceed if the path
// does not resolve to the expected character device.
func Open() (*Source, error) {
	f, err := os.Open(devURandom)
	if err != nil {
		return nil, naclerrors.Environment("crand.Open", err)
	}

	var st unix.Stat_t
	if err := unix.Fstat(int(f.Fd()), &st); err != nil {
		f.Close()
		return nil, naclerrors.Environment("crand.Open", err)
	}

	if st.Mode&unix.S_IFMT != unix.S_IFCHR {
		f.Close()
		return nil, naclerrors.Environment("crand.Open", naclerrors.ErrRandomDeviceInvalid)
	}

	major := unix.Major(uint64(st.Rdev))
	minor := unix.Minor(uint64(st.Rdev))
	if major != urandomMajor || minor != urandomMinor {
		f.Close()
		return nil, naclerrors.Environment("crand.Open", naclerrors.ErrRandomDeviceInvalid)
	}

	return &Source{f: f}, nil
}

// Fill reads exactly len(b) octets from the validated random source.
func (s *Source) Fill(b []byte) error {
	if _, err := io.ReadFull(s.f, b); err != nil {
		return naclerrors.Environment("crand.Fill", naclerrors.ErrRandomShortRead)
	}
	return nil
}

// Close releases the underlying file descriptor.
func (s *Source) Close() error {
	return s.f.Close()
}
