//go:build scrypt

package kdf

import (
	"fmt"
	"os"

	"golang.org/x/crypto/scrypt"

	"github.com/go-naclypt/naclypt/internal/constants"
	naclerrors "github.com/go-naclypt/naclypt/internal/errors"
	"github.com/go-naclypt/naclypt/pkg/securemem"
)

// Name identifies the KDF variant compiled into this build. It is not
// written to the header; the tag obfuscation uses XORPattern.
const Name = "scrypt"

// Validate enforces the scrypt parameter ranges: 2 <= P1 < 64, P2 >= 1,
// P3 >= 1, and r*p < 2^30. The memory-cost advisory floor is checked
// separately in Derive, since falling below it is a warning rather than
// a validation failure.
func Validate(p Params) error {
	if p.P1 < constants.ScryptLogNMin || p.P1 >= constants.ScryptLogNMax {
		return naclerrors.ErrParamOutOfRange
	}
	if p.P2 < constants.ScryptRMin {
		return naclerrors.ErrParamOutOfRange
	}
	if p.P3 < constants.ScryptPMin {
		return naclerrors.ErrParamOutOfRange
	}
	if uint64(p.P2)*uint64(p.P3) >= constants.ScryptRPMax {
		return naclerrors.ErrParamOutOfRange
	}
	return nil
}

// memoryCostBytes computes scrypt's peak working set: 128*r*(2^logN + p).
func memoryCostBytes(p Params) uint64 {
	return 128 * uint64(p.P2) * ((uint64(1) << p.P1) + uint64(p.P3))
}

// Derive runs scrypt over passphrase and salt, returning a 32-octet key.
// passphrase is zeroized before Derive returns, regardless of outcome. If
// the parameters fall below the advisory 16 MiB memory-cost floor, Derive
// warns to standard error but proceeds — the scrypt variant never aborts
// for this reason, unlike Argon2i's hard per-lane floor.
func Derive(passphrase, salt []byte, p Params) ([constants.KeyBytes]byte, error) {
	var key [constants.KeyBytes]byte
	defer securemem.Zero(passphrase)

	if err := Validate(p); err != nil {
		return key, err
	}

	if memoryCostBytes(p) < constants.ScryptMinMemoryBytes {
		fmt.Fprintln(os.Stderr, "naclypt: warning: scrypt parameters fall below the advisory memory-cost floor")
	}

	n := int(uint64(1) << p.P1)
	out, err := scrypt.Key(passphrase, salt, n, int(p.P2), int(p.P3), constants.KeyBytes)
	if err != nil {
		return key, naclerrors.ErrKDFFailed
	}
	defer securemem.Zero(out)

	copy(key[:], out)
	return key, nil
}

// XORPattern is the obfuscation pattern applied to the AEAD primitive tag
// in this build's header. It is not a security measure; it only keeps the
// raw primitive name from appearing as a file signature, and lets a
// decryptor fail fast when linked against a different variant.
func XORPattern(i int) byte {
	return byte(0xff - (i << 5))
}
