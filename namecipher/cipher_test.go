package namecipher

import (
	"bytes"
	"testing"
)

func testKey() []byte {
	return bytes.Repeat([]byte{0x4b}, 32)
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	c, err := New(testKey())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	box, err := c.Encrypt("Alice Example")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if box.Ciphertext == "" || box.IV == "" {
		t.Fatalf("box must carry ciphertext and iv")
	}

	plain, err := c.Decrypt(box)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if plain != "Alice Example" {
		t.Fatalf("round trip mismatch: %q", plain)
	}
}

func TestEncryptDrawsFreshIVPerCall(t *testing.T) {
	c, err := New(testKey())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	a, err := c.Encrypt("Alice")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	b, err := c.Encrypt("Alice")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	if a.IV == b.IV {
		t.Fatalf("two encryptions must not share an iv")
	}
	if a.Ciphertext == b.Ciphertext {
		t.Fatalf("fresh ivs must produce distinct ciphertexts")
	}
}

func TestDecryptRejectsMalformedInput(t *testing.T) {
	c, err := New(testKey())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	cases := []Box{
		{Ciphertext: "zz", IV: "00"},
		{Ciphertext: "00", IV: "not-hex"},
		{Ciphertext: "00", IV: "0011"},
	}
	for _, box := range cases {
		if _, err := c.Decrypt(box); err == nil {
			t.Fatalf("expected error for box %+v", box)
		}
	}
}

func TestNewRejectsShortKey(t *testing.T) {
	if _, err := New([]byte("short")); err == nil {
		t.Fatalf("expected error for short key")
	}
}

func TestDecryptWithWrongKeyYieldsGarbageNotPanic(t *testing.T) {
	c1, err := New(testKey())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c2, err := New(bytes.Repeat([]byte{0x7e}, 32))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	box, err := c1.Encrypt("Alice")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	plain, err := c2.Decrypt(box)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if plain == "Alice" {
		t.Fatalf("wrong key must not recover plaintext")
	}
}
