// Package streamcrypt implements the main encrypt/decrypt loop: the
// chunked, nonce-scheduled application of the xsecretbox AEAD primitive
// across an entire stream.
package streamcrypt

import (
	"context"
	"fmt"
	"io"

	"github.com/go-naclypt/naclypt/internal/constants"
	naclerrors "github.com/go-naclypt/naclypt/internal/errors"
	"github.com/go-naclypt/naclypt/pkg/crand"
	"github.com/go-naclypt/naclypt/pkg/obsmetrics"
	"github.com/go-naclypt/naclypt/pkg/xsecretbox"
)

// readFull loops until buf is completely filled or the reader signals
// end of input (a zero-byte read). It does not distinguish a clean EOF
// from an underlying read error: per this format's contract, a short
// read on stream data is success, not failure, so the caller only ever
// needs to know how many octets actually arrived.
func readFull(r io.Reader, buf []byte) int {
	total := 0
	for total < len(buf) {
		n, err := r.Read(buf[total:])
		total += n
		if n == 0 || err != nil {
			break
		}
	}
	return total
}

// writeFull loops until buf is completely written, retrying partial
// writes. A write that makes no progress is treated as an unrecoverable
// short write.
func writeFull(w io.Writer, buf []byte) error {
	total := 0
	for total < len(buf) {
		n, err := w.Write(buf[total:])
		total += n
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
	}
	return nil
}

// ReadFull loops until buf is completely filled or r signals end of
// input. It is exported so that other full-read sites in the program
// (reading the passphrase, in particular) share the same discipline as
// the chunk loop without depending on the rest of this package.
func ReadFull(r io.Reader, buf []byte) int {
	return readFull(r, buf)
}

// Encrypt streams plaintext read from r into authenticated ciphertext
// chunks written to w, under key, drawing nonce randomness from rnd. It
// allocates its two BufLen-sized buffers once and reuses them for the
// life of the stream, returning nil once r is exhausted.
func Encrypt(w io.Writer, r io.Reader, key *[xsecretbox.KeyBytes]byte, rnd *crand.Source) error {
	const ioffset = xsecretbox.ZeroBytes
	const ooffset = 0
	isize := constants.BufLen - ioffset

	ibuf := make([]byte, constants.BufLen)
	obuf := make([]byte, constants.BufLen)

	sched := newScheduler(rnd)

	for {
		n := readFull(r, ibuf[ioffset:ioffset+isize])
		if n == 0 {
			return nil
		}

		needNewNonce := sched.dueForRefresh()
		if needNewNonce {
			if err := sched.refresh(); err != nil {
				return err
			}
		}

		sched.advance(n)
		total := n + ioffset

		_, endSealSpan := obsmetrics.GlobalTracer().StartSpan(context.Background(), "streamcrypt.seal")
		xsecretbox.Seal(obuf[:total], ibuf[:total], &sched.nonce, key)
		endSealSpan(nil)

		if needNewNonce {
			copy(obuf[:constants.NonceRandoms], sched.nonce[:constants.NonceRandoms])
		}

		if err := writeFull(w, obuf[ooffset:ooffset+total]); err != nil {
			return naclerrors.IO("streamcrypt.Encrypt", err)
		}
	}
}

// Decrypt streams ciphertext read from r into plaintext written to w,
// under key. Authentication failure on a chunk is not reported as an
// error: that chunk's plaintext is zero-filled instead, per this format's
// documented wrong-passphrase/tamper signal. Structural problems — a
// truncated final chunk, or a non-zero octet where the format guarantees
// zero — are reported as errors.
func Decrypt(w io.Writer, r io.Reader, key *[xsecretbox.KeyBytes]byte) error {
	const ooffset = xsecretbox.ZeroBytes
	isize := constants.BufLen

	ibuf := make([]byte, constants.BufLen)
	obuf := make([]byte, constants.BufLen)

	sched := newScheduler(nil)

	for {
		n := readFull(r, ibuf[:isize])
		if n == 0 {
			return nil
		}
		if n <= ooffset {
			obsmetrics.Global().RecordStructuralError()
			return naclerrors.Structural("streamcrypt.Decrypt", fmt.Errorf(
				"%w: expected more than %d octets after offset %#x, got %d",
				naclerrors.ErrTruncatedChunk, ooffset, sched.totalRead, n))
		}

		needNewNonce := sched.dueForRefresh()
		if needNewNonce {
			sched.recover(ibuf[:n])
		} else {
			for i := 0; i < constants.NonceRandoms; i++ {
				if ibuf[i] != 0 {
					obsmetrics.Global().RecordStructuralError()
					return naclerrors.Structural("streamcrypt.Decrypt", fmt.Errorf(
						"%w: octet %#x should have been zero, not %#x",
						naclerrors.ErrNonZeroPadding, sched.totalRead+uint64(i), ibuf[i]))
				}
			}
		}

		// The AEAD's own return value is deliberately not inspected: on
		// authentication failure it zero-fills obuf, which is exactly the
		// documented wrong-passphrase/tamper signal this format relies on.
		_, endOpenSpan := obsmetrics.GlobalTracer().StartSpan(context.Background(), "streamcrypt.open")
		xsecretbox.Open(obuf[:n], ibuf[:n], &sched.nonce, key)
		endOpenSpan(nil)

		plain := n - ooffset
		sched.advance(plain)

		if err := writeFull(w, obuf[ooffset:ooffset+plain]); err != nil {
			return naclerrors.IO("streamcrypt.Decrypt", err)
		}
	}
}
