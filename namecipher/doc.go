// Package namecipher encrypts customer display names at rest with
// AES-256-CTR. A fresh random IV is drawn for every encryption and must
// be stored alongside the ciphertext to recover the plaintext.
package namecipher
