package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-naclypt/naclypt/internal/constants"
	"github.com/go-naclypt/naclypt/pkg/kdf"
	"github.com/go-naclypt/naclypt/pkg/wireformat"
	"github.com/go-naclypt/naclypt/pkg/xsecretbox"
)

// selftestCommand runs a fixed-input self-check of every primitive this
// build links against, and reports every failing check. Unlike a unit
// test, this is meant to be run against the actual compiled binary
// before it is trusted with real data — a corrupted build or a bad
// toolchain substitution is exactly the failure mode this catches that
// `go test` run at a different commit cannot.
func selftestCommand() int {
	checks := []struct {
		name string
		run  func() error
	}{
		{"xsecretbox seal/open round trip", checkSecretboxRoundTrip},
		{"xsecretbox ciphertext framing", checkSecretboxFraming},
		{"xsecretbox authentication failure zeroes output", checkSecretboxAuthFailure},
		{"kdf determinism", checkKDFDeterminism},
		{"header codec round trip", checkHeaderRoundTrip},
	}

	failed := false
	for _, c := range checks {
		if err := c.run(); err != nil {
			fmt.Fprintf(os.Stderr, "naclypt: selftest: FAIL %s: %v\n", c.name, err)
			failed = true
			continue
		}
		fmt.Fprintf(os.Stderr, "naclypt: selftest: ok   %s\n", c.name)
	}

	if failed {
		return constants.ExitKDF
	}
	return constants.ExitSuccess
}

func fixedKey() *[xsecretbox.KeyBytes]byte {
	var k [xsecretbox.KeyBytes]byte
	for i := range k {
		k[i] = byte(i)
	}
	return &k
}

func fixedNonce() *[xsecretbox.NonceBytes]byte {
	var n [xsecretbox.NonceBytes]byte
	for i := range n {
		n[i] = byte(255 - i)
	}
	return &n
}

func checkSecretboxRoundTrip() error {
	key, nonce := fixedKey(), fixedNonce()
	message := []byte("naclypt selftest known-answer message")

	plain := make([]byte, xsecretbox.ZeroBytes+len(message))
	copy(plain[xsecretbox.ZeroBytes:], message)

	ct := make([]byte, len(plain))
	xsecretbox.Seal(ct, plain, nonce, key)

	recovered := make([]byte, len(ct))
	if !xsecretbox.Open(recovered, ct, nonce, key) {
		return fmt.Errorf("Open reported authentication failure on a freshly sealed message")
	}
	if !bytes.Equal(recovered[xsecretbox.ZeroBytes:], message) {
		return fmt.Errorf("recovered message does not match input")
	}
	return nil
}

func checkSecretboxFraming() error {
	key, nonce := fixedKey(), fixedNonce()
	plain := make([]byte, xsecretbox.ZeroBytes+8)

	ct := make([]byte, len(plain))
	xsecretbox.Seal(ct, plain, nonce, key)

	if !bytes.Equal(ct[:xsecretbox.BoxZeroBytes], make([]byte, xsecretbox.BoxZeroBytes)) {
		return fmt.Errorf("ciphertext does not begin with %d zero octets", xsecretbox.BoxZeroBytes)
	}
	return nil
}

func checkSecretboxAuthFailure() error {
	key, nonce := fixedKey(), fixedNonce()
	plain := make([]byte, xsecretbox.ZeroBytes+8)

	ct := make([]byte, len(plain))
	xsecretbox.Seal(ct, plain, nonce, key)
	ct[len(ct)-1] ^= 0x01

	recovered := make([]byte, len(ct))
	if xsecretbox.Open(recovered, ct, nonce, key) {
		return fmt.Errorf("Open reported success on a tampered ciphertext")
	}
	if !bytes.Equal(recovered, make([]byte, len(recovered))) {
		return fmt.Errorf("Open left non-zero output after an authentication failure")
	}
	return nil
}

func checkKDFDeterminism() error {
	salt := bytes.Repeat([]byte{0x24}, constants.KeyBytes)
	params := selftestParams()

	key1, err := kdf.Derive([]byte("selftest passphrase"), salt, params)
	if err != nil {
		return err
	}
	key2, err := kdf.Derive([]byte("selftest passphrase"), salt, params)
	if err != nil {
		return err
	}
	if key1 != key2 {
		return fmt.Errorf("Derive produced different keys for identical inputs")
	}
	return nil
}

func checkHeaderRoundTrip() error {
	var h wireformat.Header
	h.Params = selftestParams()
	for i := range h.Salt {
		h.Salt[i] = byte(i * 5)
	}

	var buf bytes.Buffer
	if err := wireformat.WriteHeader(&buf, h); err != nil {
		return err
	}
	got, err := wireformat.ReadHeader(&buf)
	if err != nil {
		return err
	}
	if got != h {
		return fmt.Errorf("decoded header does not match what was written")
	}
	return nil
}

func selftestParams() kdf.Params {
	if kdf.Name == "scrypt" {
		return kdf.Params{P1: 12, P2: 8, P3: 1}
	}
	return kdf.Params{P1: 14, P2: 2, P3: 1}
}
