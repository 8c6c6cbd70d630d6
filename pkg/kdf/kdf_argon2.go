//go:build !scrypt

package kdf

import (
	"golang.org/x/crypto/argon2"

	"github.com/go-naclypt/naclypt/internal/constants"
	naclerrors "github.com/go-naclypt/naclypt/internal/errors"
	"github.com/go-naclypt/naclypt/pkg/securemem"
)

// Name identifies the KDF variant compiled into this build. It names the
// KDF, not the AEAD, which is fixed (xsecretbox) regardless of which KDF
// is linked in. It is not written to the header; the tag obfuscation uses
// XORPattern.
const Name = "argon2i"

// argon2MaxParallelism is imposed by golang.org/x/crypto/argon2.Key, whose
// threads argument is a single octet; the header format's 32-bit
// parallelism field can represent more than that, but no build of this
// library ever will.
const argon2MaxParallelism = 255

// Validate enforces the Argon2i parameter ranges: 2 <= P1 < 32, P2 >= 1,
// 1 <= P3 < 2^24 further capped at argon2MaxParallelism (255), and the
// hard floor 2^P1 >= 8*P3 (8 KiB of memory per lane).
func Validate(p Params) error {
	if p.P1 < constants.Argon2LogMMin || p.P1 >= constants.Argon2LogMMax {
		return naclerrors.ErrParamOutOfRange
	}
	if p.P2 < constants.Argon2TMin {
		return naclerrors.ErrParamOutOfRange
	}
	if p.P3 < constants.Argon2PMin || p.P3 >= constants.Argon2PMax {
		return naclerrors.ErrParamOutOfRange
	}
	if p.P3 > argon2MaxParallelism {
		return naclerrors.ErrParamOutOfRange
	}
	if (uint64(1) << p.P1) < uint64(constants.Argon2MinKiBPerLane)*uint64(p.P3) {
		return naclerrors.ErrParamOutOfRange
	}
	return nil
}

// Derive runs Argon2i over passphrase and salt, returning a 32-octet key.
// passphrase is zeroized before Derive returns, regardless of outcome.
func Derive(passphrase, salt []byte, p Params) ([constants.KeyBytes]byte, error) {
	var key [constants.KeyBytes]byte
	defer securemem.Zero(passphrase)

	if err := Validate(p); err != nil {
		return key, err
	}

	memoryKiB := uint32(1) << p.P1
	out := argon2.Key(passphrase, salt, p.P2, memoryKiB, uint8(p.P3), constants.KeyBytes)
	defer securemem.Zero(out)

	copy(key[:], out)
	return key, nil
}

// XORPattern is the obfuscation pattern applied to the AEAD primitive tag
// in this build's header. It is not a security measure; it only keeps the
// raw primitive name from appearing as a file signature, and lets a
// decryptor fail fast when linked against a different variant.
func XORPattern(i int) byte {
	return byte(0xee + (i << 5))
}
