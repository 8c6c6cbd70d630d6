// Package fuzz provides fuzz tests for the security-critical parsers in
// the naclypt ciphertext pipeline: the header codec and the streaming
// chunk decoder. Both consume untrusted bytes — a ciphertext file or
// stream supplied by anyone — so neither may panic.
//
// Run with:
//
//	go test -fuzz=FuzzReadHeader -fuzztime=30s ./test/fuzz/
//	go test -fuzz=FuzzDecrypt -fuzztime=30s ./test/fuzz/
package fuzz

import (
	"bytes"
	"testing"

	"github.com/go-naclypt/naclypt/internal/constants"
	"github.com/go-naclypt/naclypt/pkg/crand"
	"github.com/go-naclypt/naclypt/pkg/kdf"
	"github.com/go-naclypt/naclypt/pkg/streamcrypt"
	"github.com/go-naclypt/naclypt/pkg/wireformat"
)

func seedParams() kdf.Params {
	if kdf.Name == "scrypt" {
		return kdf.Params{P1: 12, P2: 8, P3: 1}
	}
	return kdf.Params{P1: 14, P2: 2, P3: 1}
}

// FuzzReadHeader fuzzes the fixed-size header parser. It must never
// panic, and must never accept a header whose KDF parameters fail
// Validate.
func FuzzReadHeader(f *testing.F) {
	var salt [constants.KeyBytes]byte
	for i := range salt {
		salt[i] = byte(i)
	}

	var valid bytes.Buffer
	if err := wireformat.WriteHeader(&valid, wireformat.Header{Params: seedParams(), Salt: salt}); err == nil {
		f.Add(valid.Bytes())
	}

	f.Add([]byte{})
	f.Add(make([]byte, wireformat.HeaderLen-1))
	f.Add(make([]byte, wireformat.HeaderLen))
	f.Add(bytes.Repeat([]byte{0xff}, wireformat.HeaderLen))

	f.Fuzz(func(t *testing.T, data []byte) {
		h, err := wireformat.ReadHeader(bytes.NewReader(data))
		if err != nil {
			return
		}
		if verr := kdf.Validate(h.Params); verr != nil {
			t.Errorf("ReadHeader accepted parameters that Validate rejects: %v", verr)
		}
	})
}

// FuzzDecrypt fuzzes the streaming chunk decoder directly on
// attacker-controlled bytes, bypassing the header entirely (as if an
// attacker spliced a crafted body onto a legitimate header). It must
// never panic, and a structural error (truncated/malformed chunk) must
// be reported as an error rather than silently emitting wrong output
// lengths.
func FuzzDecrypt(f *testing.F) {
	rnd, err := crand.Open()
	if err != nil {
		f.Skipf("random source unavailable: %v", err)
	}
	defer rnd.Close()

	var key [constants.KeyBytes]byte
	rnd.Fill(key[:])

	var validBody bytes.Buffer
	if err := streamcrypt.Encrypt(&validBody, bytes.NewReader([]byte("fuzz seed plaintext")), &key, rnd); err == nil {
		f.Add(validBody.Bytes())
	}
	f.Add([]byte{})
	f.Add(make([]byte, 10))
	f.Add(bytes.Repeat([]byte{0x11}, 100))

	f.Fuzz(func(t *testing.T, data []byte) {
		var out bytes.Buffer
		if err := streamcrypt.Decrypt(&out, bytes.NewReader(data), &key); err == nil {
			chunks := (len(data) + constants.BufLen - 1) / constants.BufLen
			if want := len(data) - chunks*constants.ZeroBytes; out.Len() != want {
				t.Errorf("Decrypt succeeded with %d output octets, want %d", out.Len(), want)
			}
		}
	})
}
