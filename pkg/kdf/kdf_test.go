package kdf

import (
	"bytes"
	"testing"
)

func TestDeriveIsDeterministic(t *testing.T) {
	params := validParams()
	passphrase := []byte("correct horse battery staple")
	salt := bytes.Repeat([]byte{0x42}, 32)

	key1, err := Derive(append([]byte(nil), passphrase...), salt, params)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	key2, err := Derive(append([]byte(nil), passphrase...), salt, params)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if key1 != key2 {
		t.Fatal("Derive produced different keys for identical inputs")
	}
}

func TestDerivePassphraseIsZeroized(t *testing.T) {
	params := validParams()
	salt := bytes.Repeat([]byte{0x01}, 32)
	passphrase := []byte("zeroize me please")

	if _, err := Derive(passphrase, salt, params); err != nil {
		t.Fatalf("Derive: %v", err)
	}
	for i, b := range passphrase {
		if b != 0 {
			t.Fatalf("passphrase octet %d not zeroized after Derive", i)
		}
	}
}

func TestDeriveDifferentSaltDifferentKey(t *testing.T) {
	params := validParams()
	passphrase1 := []byte("same passphrase")
	passphrase2 := []byte("same passphrase")

	key1, err := Derive(passphrase1, bytes.Repeat([]byte{0x01}, 32), params)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	key2, err := Derive(passphrase2, bytes.Repeat([]byte{0x02}, 32), params)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if key1 == key2 {
		t.Fatal("Derive produced the same key under different salts")
	}
}

func TestValidateRejectsOutOfRange(t *testing.T) {
	bad := Params{P1: 0, P2: 1, P3: 1}
	if err := Validate(bad); err == nil {
		t.Fatal("Validate accepted a P1 below its minimum")
	}
}

func TestXORPatternIsPerOctet(t *testing.T) {
	if XORPattern(0) == XORPattern(1) {
		t.Fatal("XORPattern does not vary across octet positions")
	}
}
