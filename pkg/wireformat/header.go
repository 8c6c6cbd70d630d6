// Package wireformat codes the preamble every naclypt stream begins with:
// an obfuscated AEAD primitive tag, the KDF parameter triple, and the
// random salt. Both encrypt and decrypt parse this layout identically so
// that a ciphertext produced by one build is self-describing to the
// other, except for the compiled-in KDF choice itself.
package wireformat

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/go-naclypt/naclypt/internal/constants"
	naclerrors "github.com/go-naclypt/naclypt/internal/errors"
	"github.com/go-naclypt/naclypt/pkg/kdf"
)

// PrimitiveName is the AEAD primitive's name as the underlying NaCl
// construction would report it. Obfuscating it (see taggedBytes) keeps it
// from appearing as a recognizable file signature; it carries no
// cryptographic weight.
const PrimitiveName = "xsalsa20poly1305"

// HeaderLen is the total size in octets of the fixed preamble.
const HeaderLen = len(PrimitiveName) + 1 + 4 + 4 + constants.KeyBytes

// Header is the parsed preamble of a naclypt stream.
type Header struct {
	Params kdf.Params
	Salt   [constants.KeyBytes]byte
}

// taggedBytes returns the obfuscated primitive tag for the KDF variant
// compiled into this binary.
func taggedBytes() []byte {
	out := make([]byte, len(PrimitiveName))
	for i := range out {
		out[i] = PrimitiveName[i] ^ kdf.XORPattern(i)
	}
	return out
}

// WriteHeader serializes params and salt to w in wire order: obfuscated
// tag, then the three KDF parameters (1 octet, big-endian 32-bit,
// big-endian 32-bit), then the 32-octet salt. Callers are expected to
// have already validated params against usage-time rules (so that a bad
// parameter is reported as a usage error before any I/O happens); this
// function revalidates defensively and reports a usage error (exit code 2)
// if that somehow fails here instead.
func WriteHeader(w io.Writer, h Header) error {
	if err := kdf.Validate(h.Params); err != nil {
		return naclerrors.Usage("wireformat.WriteHeader", err)
	}

	buf := make([]byte, 0, HeaderLen)
	buf = append(buf, taggedBytes()...)
	buf = append(buf, h.Params.P1)
	buf = binary.BigEndian.AppendUint32(buf, h.Params.P2)
	buf = binary.BigEndian.AppendUint32(buf, h.Params.P3)
	buf = append(buf, h.Salt[:]...)

	if _, err := w.Write(buf); err != nil {
		return naclerrors.IO("wireformat.WriteHeader", err)
	}
	return nil
}

// ReadHeader reads and validates a preamble from r. A primitive-tag
// mismatch, a short read, or an out-of-range parameter are all reported
// as format errors (exit code 1): the stream is malformed or was written
// by an incompatible build, not merely unusual.
func ReadHeader(r io.Reader) (Header, error) {
	var h Header

	buf := make([]byte, HeaderLen)
	if _, err := io.ReadFull(r, buf); err != nil {
		return h, naclerrors.Format("wireformat.ReadHeader", naclerrors.ErrTruncatedHeader)
	}

	tagLen := len(PrimitiveName)
	if !bytes.Equal(buf[:tagLen], taggedBytes()) {
		return h, naclerrors.Format("wireformat.ReadHeader", naclerrors.ErrBadMagic)
	}

	h.Params = kdf.Params{
		P1: buf[tagLen],
		P2: binary.BigEndian.Uint32(buf[tagLen+1 : tagLen+5]),
		P3: binary.BigEndian.Uint32(buf[tagLen+5 : tagLen+9]),
	}
	copy(h.Salt[:], buf[tagLen+9:tagLen+9+constants.KeyBytes])

	if err := kdf.Validate(h.Params); err != nil {
		return h, naclerrors.Format("wireformat.ReadHeader", naclerrors.ErrParamOutOfRange)
	}

	return h, nil
}
