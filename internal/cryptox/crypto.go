// Package cryptox contains the symmetric primitives used by the local sealing
// capability: AES-256-GCM with random nonces and HKDF-SHA256 key derivation.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"errors"
	"io"

	"github.com/dmitrijs2005/blobkeeper/internal/common"
	"golang.org/x/crypto/hkdf"
)

// KeySize is the AES-256 key length.
const KeySize = 32

var ErrInvalidKeySize = errors.New("cryptox: key must be 32 bytes")

// DeriveKey expands secret into a KeySize key bound to info using
// HKDF-SHA256. The same (secret, info) always yields the same key.
func DeriveKey(secret, info []byte) ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, info), key); err != nil {
		return nil, err
	}
	return key, nil
}

// SealGCM encrypts plaintext with AES-GCM under key, authenticating aad.
// A fresh random nonce is generated for every call and returned separately.
//
// Example:
//
//	key, _ := DeriveKey(secret, []byte("context"))
//	nonce, ciphertext, err := SealGCM(key, []byte("hello"), nil)
func SealGCM(key, plaintext, aad []byte) (nonce, ciphertext []byte, err error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}

	nonce, err = common.GenerateRandByteArray(aesgcm.NonceSize())
	if err != nil {
		return nil, nil, err
	}

	ciphertext = aesgcm.Seal(nil, nonce, plaintext, aad)

	return nonce, ciphertext, nil
}

// OpenGCM reverses SealGCM. It fails if key, nonce, ciphertext or aad differ
// from what was used to seal.
func OpenGCM(key, nonce, ciphertext, aad []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	return aesgcm.Open(nil, nonce, ciphertext, aad)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
