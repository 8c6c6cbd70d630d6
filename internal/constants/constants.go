// Package constants defines the fixed sizes and parameter ranges of the
// naclypt streaming authenticated-encryption wire format.
//
// These values are not tunable: they are either primitive sizes imposed by
// the XSalsa20-Poly1305 construction in pkg/xsecretbox, or wire-format
// constants that existing ciphertexts depend on. Changing any of them
// breaks interoperability with previously encrypted streams.
package constants

// XSalsa20-Poly1305 ("secretbox") primitive sizes.
const (
	// ZeroBytes is the size of the mandatory zero prefix the construction
	// requires on plaintext input.
	ZeroBytes = 32

	// BoxZeroBytes is the size of the guaranteed-zero prefix the
	// construction produces on ciphertext output. These bytes carry no
	// information and are reused to smuggle nonce randomness into the
	// stream without spending extra space.
	BoxZeroBytes = 16

	// NonceBytes is the size of a secretbox nonce.
	NonceBytes = 24

	// KeyBytes is the size of a secretbox key, and therefore of the
	// derived key and the salt (which shares the key's length by
	// convention in this format).
	KeyBytes = 32
)

// NonceRandoms is the number of nonce octets drawn from the random source
// per epoch: min(BoxZeroBytes, NonceBytes).
const NonceRandoms = BoxZeroBytes

// BufLen is the chunk size used by the streaming codec: 8 MiB of plaintext
// or ciphertext processed per AEAD operation.
const BufLen = 8 * 1024 * 1024

// MaxPassphraseLen bounds how many octets are read from standard input for
// the passphrase. Reaching this limit truncates the passphrase with a
// warning; it is not an error.
const MaxPassphraseLen = 16384

// Scrypt parameter ranges.
const (
	ScryptLogNMin = 2
	ScryptLogNMax = 64 // exclusive
	ScryptRMin    = 1
	ScryptPMin    = 1
	// ScryptRPMax bounds r*p < 2^30, required by the scrypt construction.
	ScryptRPMax = 1 << 30
	// ScryptMinMemoryBytes is the advisory minimum for 128*r*(2^logN+p).
	// Falling below this floor produces a warning, not a hard error.
	ScryptMinMemoryBytes = 16 * 1024 * 1024
)

// Argon2i parameter ranges.
const (
	Argon2LogMMin = 2
	Argon2LogMMax = 32 // exclusive
	Argon2TMin    = 1
	Argon2PMin    = 1
	Argon2PMax    = 1 << 24 // exclusive
	// Argon2MinKiBPerLane is the hard floor: 2^logM >= 8*parallelism.
	Argon2MinKiBPerLane = 8
)

// Exit codes. Every failure mode the streaming pipeline can produce maps to
// exactly one of these.
const (
	ExitSuccess           = 0
	ExitIOOrFormat        = 1
	ExitUsage             = 2
	ExitEnvironment       = 3
	ExitAllocation        = 4
	ExitMemoryLock        = 5
	ExitKDF               = 6
	ExitCiphertextInvalid = 11
)
