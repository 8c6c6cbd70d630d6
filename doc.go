// Package naclypt provides a streaming, authenticated file-encryption
// pipeline: a passphrase-derived key protects a regular file with a
// chunked AEAD construction, producing a self-describing ciphertext
// stream that the same passphrase later recovers byte-for-byte.
//
// # Quick Start
//
// For the chunked AEAD wire codec:
//
//	import "github.com/go-naclypt/naclypt/pkg/streamcrypt"
//
//	rnd, _ := crand.Open()
//	err := streamcrypt.Encrypt(ciphertextWriter, plaintextReader, &key, rnd)
//	err = streamcrypt.Decrypt(plaintextWriter, ciphertextReader, &key)
//
// For the low-level secretbox-compatible primitive:
//
//	import "github.com/go-naclypt/naclypt/pkg/xsecretbox"
//
//	xsecretbox.Seal(ciphertext, plaintext, &nonce, &key)
//	ok := xsecretbox.Open(plaintext, ciphertext, &nonce, &key)
//
// # Package Structure
//
//   - pkg/xsecretbox: the raw XSalsa20-Poly1305 construction, including
//     the mandatory zero-prefix framing that carries the per-stream nonce
//   - pkg/streamcrypt: the chunked streaming codec and nonce scheduler
//   - pkg/kdf: passphrase stretching (Argon2i by default, scrypt under
//     the "scrypt" build tag — never both in the same binary)
//   - pkg/wireformat: the on-disk header (primitive tag, KDF parameters,
//     salt) shared by both sides of the pipe
//   - pkg/crand: a validated /dev/urandom source
//   - pkg/securemem: process memory locking and best-effort zeroization
//   - pkg/obslog, pkg/obsmetrics: structured logging and metrics
//   - internal/constants: wire sizes and exit codes
//   - internal/errors: error kinds mapped to exit codes
//
// # Security Properties
//
//   - Authenticated encryption: tampering and truncation are detected
//   - Wrong passphrase yields all-zero plaintext, not an error: a
//     decryptor cannot distinguish "wrong key" from "corrupted stream"
//     by error value alone, matching the upstream naclypt design
//   - Nonce reuse avoidance: a per-stream random nonce plus a
//     monotonic byte counter, refreshed each epoch
//   - Memory hygiene: the process memory is locked and secret buffers
//     are zeroized as soon as they are no longer needed
//
// # Testing
//
//	go test ./...                            # all package tests
//	go test ./test/fuzz/...                  # header-parser fuzzing
//	go test -bench=. ./test/benchmark/...    # chunk throughput
package naclypt
