// Package kdf adapts a passphrase, salt, and parameter triple into the
// fixed-length symmetric key the streaming codec encrypts under.
//
// Exactly one KDF is compiled into a given binary: the default build uses
// Argon2i; building with `-tags scrypt` swaps in scrypt instead. Both
// variants expose the same Params shape and the same Derive/Validate/Name
// surface, so pkg/wireformat and pkg/streamcrypt never need to know which
// one is active.
package kdf

// Params is the parameter triple carried in the wire header. Its fields
// are interpreted differently by each variant: for Argon2i, P1 is log2 of
// the memory cost in KiB, P2 is the iteration count, P3 is the
// parallelism; for scrypt, P1 is log2(N), P2 is the block size r, P3 is
// the parallelism p.
type Params struct {
	P1 uint8
	P2 uint32
	P3 uint32
}
