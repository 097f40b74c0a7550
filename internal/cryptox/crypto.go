// Package cryptox provides the primitives behind the encrypted secure store
// and the optional credential hashing.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"

	"golang.org/x/crypto/argon2"
)

// KeySize is the length of the derived store key (AES-256).
const KeySize = 32

var ErrInvalidKey = errors.New("invalid key length")

// DeriveStoreKey stretches the device key with argon2id. The salt is stored
// next to the data so the same device key always opens the same database.
func DeriveStoreKey(deviceKey []byte, salt []byte) []byte {
	return argon2.IDKey(deviceKey, salt, 1, 64*1024, 4, KeySize)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKey
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal encrypts plaintext with AES-GCM under key. A fresh random nonce is
// generated for every call and returned separately. additional is bound to
// the ciphertext (the store passes the record key there, so a value cannot
// be moved under another key).
func Seal(key, plaintext, additional []byte) (ciphertext, nonce []byte, err error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}

	nonce = make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, err
	}

	return aead.Seal(nil, nonce, plaintext, additional), nonce, nil
}

// Open reverses Seal.
func Open(key, ciphertext, nonce, additional []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != aead.NonceSize() {
		return nil, errors.New("invalid nonce length")
	}
	return aead.Open(nil, nonce, ciphertext, additional)
}
