package namecipher

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"io"
)

const (
	keySize = 32
	ivSize  = aes.BlockSize
)

var (
	// ErrInvalidKey is an exported constant or variable used by the account engine.
	ErrInvalidKey = errors.New("namecipher: key must be 32 bytes")
	// ErrMalformedBox is an exported constant or variable used by the account engine.
	ErrMalformedBox = errors.New("namecipher: malformed ciphertext or iv")
)

// Box holds hex-encoded AES-CTR output together with the IV that produced it.
//
// Box instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Box struct {
	Ciphertext string
	IV         string
}

// Cipher defines a public type used by shopauth APIs.
//
// Cipher instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Cipher struct {
	key []byte
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New(key []byte) (*Cipher, error) {
	if len(key) != keySize {
		return nil, ErrInvalidKey
	}

	c := &Cipher{key: make([]byte, keySize)}
	copy(c.key, key)
	return c, nil
}

// Encrypt describes the encrypt operation and its observable behavior.
//
// Encrypt may return an error when input validation, dependency calls, or security checks fail.
// Encrypt does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Cipher) Encrypt(plaintext string) (Box, error) {
	iv := make([]byte, ivSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return Box{}, err
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return Box{}, err
	}

	out := make([]byte, len(plaintext))
	cipher.NewCTR(block, iv).XORKeyStream(out, []byte(plaintext))

	return Box{
		Ciphertext: hex.EncodeToString(out),
		IV:         hex.EncodeToString(iv),
	}, nil
}

// Decrypt describes the decrypt operation and its observable behavior.
//
// Decrypt may return an error when input validation, dependency calls, or security checks fail.
// Decrypt does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Cipher) Decrypt(box Box) (string, error) {
	iv, err := hex.DecodeString(box.IV)
	if err != nil || len(iv) != ivSize {
		return "", ErrMalformedBox
	}

	data, err := hex.DecodeString(box.Ciphertext)
	if err != nil {
		return "", ErrMalformedBox
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}

	out := make([]byte, len(data))
	cipher.NewCTR(block, iv).XORKeyStream(out, data)

	return string(out), nil
}
