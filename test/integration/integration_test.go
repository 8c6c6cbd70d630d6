// Package integration provides end-to-end integration tests for the
// naclypt streaming encryption pipeline.
//
// These tests verify the complete flow from header to final chunk
// across realistic file sizes, not just the unit-level behavior
// already covered inside pkg/streamcrypt.
package integration

import (
	"bytes"
	"testing"

	"github.com/go-naclypt/naclypt/internal/constants"
	"github.com/go-naclypt/naclypt/pkg/crand"
	"github.com/go-naclypt/naclypt/pkg/kdf"
	"github.com/go-naclypt/naclypt/pkg/streamcrypt"
	"github.com/go-naclypt/naclypt/pkg/wireformat"
)

func validParams() kdf.Params {
	if kdf.Name == "scrypt" {
		return kdf.Params{P1: 12, P2: 8, P3: 1}
	}
	return kdf.Params{P1: 14, P2: 2, P3: 1}
}

func openRandom(t *testing.T) *crand.Source {
	t.Helper()
	rnd, err := crand.Open()
	if err != nil {
		t.Skipf("random source unavailable: %v", err)
	}
	t.Cleanup(func() { rnd.Close() })
	return rnd
}

// fullPipeline runs a plaintext through the header codec and the
// streaming codec exactly as cmd/naclypt does, then decrypts it back.
func fullPipeline(t *testing.T, passphrase string, plaintext []byte) []byte {
	t.Helper()
	rnd := openRandom(t)

	params := validParams()
	var salt [constants.KeyBytes]byte
	if err := rnd.Fill(salt[:]); err != nil {
		t.Fatalf("Fill salt: %v", err)
	}

	var wire bytes.Buffer
	if err := wireformat.WriteHeader(&wire, wireformat.Header{Params: params, Salt: salt}); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}

	key, err := kdf.Derive([]byte(passphrase), salt[:], params)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}

	if err := streamcrypt.Encrypt(&wire, bytes.NewReader(plaintext), &key, rnd); err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	h, err := wireformat.ReadHeader(&wire)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}

	decryptKey, err := kdf.Derive([]byte(passphrase), h.Salt[:], h.Params)
	if err != nil {
		t.Fatalf("Derive (decrypt side): %v", err)
	}

	var recovered bytes.Buffer
	if err := streamcrypt.Decrypt(&recovered, &wire, &decryptKey); err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	return recovered.Bytes()
}

func TestFullPipelineRoundTrip(t *testing.T) {
	sizes := []int{0, 1, 4096, constants.BufLen - 1, constants.BufLen, constants.BufLen + 1, 3*constants.BufLen + 17}

	for _, size := range sizes {
		size := size
		t.Run("", func(t *testing.T) {
			plaintext := bytes.Repeat([]byte{0xa5}, size)
			got := fullPipeline(t, "correct horse battery staple", plaintext)
			if !bytes.Equal(got, plaintext) {
				t.Fatalf("round trip mismatch at size %d: got %d bytes", size, len(got))
			}
		})
	}
}

func TestFullPipelineWrongPassphraseYieldsZeroPlaintext(t *testing.T) {
	rnd := openRandom(t)
	params := validParams()

	var salt [constants.KeyBytes]byte
	if err := rnd.Fill(salt[:]); err != nil {
		t.Fatalf("Fill salt: %v", err)
	}

	var wire bytes.Buffer
	if err := wireformat.WriteHeader(&wire, wireformat.Header{Params: params, Salt: salt}); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}

	encryptKey, err := kdf.Derive([]byte("the right passphrase"), salt[:], params)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	plaintext := bytes.Repeat([]byte{0x7e}, 5000)
	if err := streamcrypt.Encrypt(&wire, bytes.NewReader(plaintext), &encryptKey, rnd); err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	h, err := wireformat.ReadHeader(&wire)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	wrongKey, err := kdf.Derive([]byte("a different passphrase"), h.Salt[:], h.Params)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}

	var recovered bytes.Buffer
	if err := streamcrypt.Decrypt(&recovered, &wire, &wrongKey); err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !bytes.Equal(recovered.Bytes(), make([]byte, len(plaintext))) {
		t.Fatalf("expected all-zero plaintext for wrong passphrase")
	}
}

func TestHeaderIsExactlyHeaderLenOctets(t *testing.T) {
	rnd := openRandom(t)
	params := validParams()
	var salt [constants.KeyBytes]byte
	rnd.Fill(salt[:])

	var wire bytes.Buffer
	if err := wireformat.WriteHeader(&wire, wireformat.Header{Params: params, Salt: salt}); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	if wire.Len() != wireformat.HeaderLen {
		t.Fatalf("header length = %d, want %d", wire.Len(), wireformat.HeaderLen)
	}
}
