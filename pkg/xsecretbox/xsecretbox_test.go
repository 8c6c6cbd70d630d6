package xsecretbox

import (
	"bytes"
	"testing"
)

func testKey() *[KeyBytes]byte {
	var k [KeyBytes]byte
	for i := range k {
		k[i] = byte(i)
	}
	return &k
}

func testNonce() *[NonceBytes]byte {
	var n [NonceBytes]byte
	for i := range n {
		n[i] = byte(100 + i)
	}
	return &n
}

func TestSealOpenRoundTrip(t *testing.T) {
	key, nonce := testKey(), testNonce()

	for _, msgLen := range []int{0, 1, 15, 32, 33, 1000, 1 << 20} {
		msg := make([]byte, msgLen)
		for i := range msg {
			msg[i] = byte(i * 7)
		}

		plain := make([]byte, ZeroBytes+msgLen)
		copy(plain[ZeroBytes:], msg)

		ct := make([]byte, len(plain))
		Seal(ct, plain, nonce, key)

		if !bytes.Equal(ct[:BoxZeroBytes], make([]byte, BoxZeroBytes)) {
			t.Fatalf("len=%d: ciphertext does not begin with BoxZeroBytes zero octets", msgLen)
		}

		recovered := make([]byte, len(ct))
		ok := Open(recovered, ct, nonce, key)
		if !ok {
			t.Fatalf("len=%d: Open reported failure on an authentic ciphertext", msgLen)
		}
		if !bytes.Equal(recovered[:ZeroBytes], make([]byte, ZeroBytes)) {
			t.Fatalf("len=%d: recovered plaintext does not begin with ZeroBytes zero octets", msgLen)
		}
		if !bytes.Equal(recovered[ZeroBytes:], msg) {
			t.Fatalf("len=%d: round trip did not recover original message", msgLen)
		}
	}
}

func TestOpenRejectsTamperedCiphertext(t *testing.T) {
	key, nonce := testKey(), testNonce()

	msg := []byte("the quick brown fox jumps over the lazy dog")
	plain := make([]byte, ZeroBytes+len(msg))
	copy(plain[ZeroBytes:], msg)

	ct := make([]byte, len(plain))
	Seal(ct, plain, nonce, key)

	ct[len(ct)-1] ^= 0x01

	recovered := make([]byte, len(ct))
	ok := Open(recovered, ct, nonce, key)
	if ok {
		t.Fatal("Open reported success on a tampered ciphertext")
	}
	if !bytes.Equal(recovered, make([]byte, len(recovered))) {
		t.Fatal("Open left non-zero output after an authentication failure")
	}
}

func TestOpenRejectsWrongKey(t *testing.T) {
	key, nonce := testKey(), testNonce()

	msg := []byte("payload")
	plain := make([]byte, ZeroBytes+len(msg))
	copy(plain[ZeroBytes:], msg)

	ct := make([]byte, len(plain))
	Seal(ct, plain, nonce, key)

	wrongKey := testKey()
	wrongKey[0] ^= 0xff

	recovered := make([]byte, len(ct))
	ok := Open(recovered, ct, nonce, wrongKey)
	if ok {
		t.Fatal("Open reported success under the wrong key")
	}
	if !bytes.Equal(recovered, make([]byte, len(recovered))) {
		t.Fatal("Open left non-zero output after an authentication failure under the wrong key")
	}
}

func TestSealDifferentNoncesDifferentCiphertext(t *testing.T) {
	key := testKey()
	nonceA, nonceB := testNonce(), testNonce()
	nonceB[23] ^= 0x01

	msg := []byte("same message, different nonce")
	plain := make([]byte, ZeroBytes+len(msg))
	copy(plain[ZeroBytes:], msg)

	ctA := make([]byte, len(plain))
	ctB := make([]byte, len(plain))
	Seal(ctA, plain, nonceA, key)
	Seal(ctB, plain, nonceB, key)

	if bytes.Equal(ctA[ZeroBytes:], ctB[ZeroBytes:]) {
		t.Fatal("ciphertext did not change when the nonce changed")
	}
}
