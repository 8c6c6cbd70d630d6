// Package xsecretbox implements the raw NaCl crypto_secretbox wire
// construction (XSalsa20-Poly1305) with its original zero-padding
// convention intact.
//
// golang.org/x/crypto/nacl/secretbox deliberately strips this padding from
// its Seal/Open API, returning only a 16-byte tag followed by ciphertext.
// That is the right shape for most callers, but the streaming format this
// package serves needs the padded layout byte-for-byte: a caller must be
// able to place a 24-byte nonce's randomness inside the ciphertext's
// guaranteed-zero region without spending any extra space on it, which
// requires those zero bytes to actually be part of the wire format. So
// this package is built one level lower, directly on
// golang.org/x/crypto/salsa20/salsa and golang.org/x/crypto/poly1305 (the
// same two primitives the upstream secretbox package itself is built on),
// reproducing the construction described below.
//
// A plaintext buffer passed to Seal must be ZeroBytes (32) octets longer
// than the message it carries, with those 32 leading octets set to zero;
// Seal leaves that buffer unchanged and fills the matching positions of
// its output with zeros and the authentication tag. A ciphertext produced
// by Seal always begins with
// BoxZeroBytes (16) zero octets, followed by a 16-byte Poly1305 tag, then
// the actual ciphertext. Open reverses this, and on authentication
// failure zeroes the entire output rather than returning an error: a
// forged or corrupted chunk is indistinguishable, at this layer, from a
// chunk of zero plaintext.
package xsecretbox

import (
	"golang.org/x/crypto/poly1305"
	"golang.org/x/crypto/salsa20/salsa"
)

// Wire-format sizes, matching the original crypto_secretbox construction.
const (
	KeyBytes     = 32
	NonceBytes   = 24
	ZeroBytes    = 32
	BoxZeroBytes = 16
)

// setup derives the per-nonce subkey via HSalsa20 and builds the 16-byte
// block counter the remaining nonce bytes seed.
func setup(subKey *[32]byte, counter *[16]byte, nonce *[NonceBytes]byte, key *[KeyBytes]byte) {
	var hNonce [16]byte
	copy(hNonce[:], nonce[:16])
	salsa.HSalsa20(subKey, &hNonce, key, &salsa.Sigma)
	copy(counter[:8], nonce[16:24])
}

// Seal encrypts in under key and nonce, writing the result to out. Both
// slices must have equal length, at least ZeroBytes, and must not
// overlap; in's first ZeroBytes octets must be zero. out's first
// BoxZeroBytes octets are zero on return, followed by the 16-byte tag and
// the ciphertext.
func Seal(out, in []byte, nonce *[NonceBytes]byte, key *[KeyBytes]byte) {
	var subKey [32]byte
	var counter [16]byte
	setup(&subKey, &counter, nonce, key)

	salsa.XORKeyStream(out, in, &counter, &subKey)

	var polyKey [32]byte
	copy(polyKey[:], out[:32])

	var tag [16]byte
	poly1305.Sum(&tag, out[ZeroBytes:], &polyKey)
	copy(out[BoxZeroBytes:ZeroBytes], tag[:])

	for i := 0; i < BoxZeroBytes; i++ {
		out[i] = 0
	}
}

// Open authenticates and decrypts in under key and nonce, writing the
// result to out. Both slices must have equal length, at least ZeroBytes,
// and must not overlap. Open reports whether the tag verified. On
// success out's first ZeroBytes octets are zero, followed by the
// plaintext. On failure out is zeroed in its entirety.
func Open(out, in []byte, nonce *[NonceBytes]byte, key *[KeyBytes]byte) bool {
	var subKey [32]byte
	var counter [16]byte
	setup(&subKey, &counter, nonce, key)

	var zero32, polyKey [32]byte
	salsa.XORKeyStream(polyKey[:], zero32[:], &counter, &subKey)

	var tag [16]byte
	copy(tag[:], in[BoxZeroBytes:ZeroBytes])

	if !poly1305.Verify(&tag, in[ZeroBytes:], &polyKey) {
		for i := range out[:len(in)] {
			out[i] = 0
		}
		return false
	}

	salsa.XORKeyStream(out, in, &counter, &subKey)
	for i := 0; i < ZeroBytes; i++ {
		out[i] = 0
	}
	return true
}
