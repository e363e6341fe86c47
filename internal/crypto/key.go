// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
)

const (
	// KeySize is the length of a derived key in bytes (AES-256).
	KeySize = 32

	// IVSize is the length of the per-encryption IV in bytes.
	IVSize = 16

	// Algorithm is the tag recorded in every payload sealed by this package.
	Algorithm = "AES-256-GCM"

	// SchemaVersion is the payload layout version written by Encrypt.
	SchemaVersion = 1
)

// Key is an opaque symmetric key handle bound to AES-256-GCM with a 16-byte
// IV. The raw key material is not retained once the cipher is built.
type Key struct {
	aead cipher.AEAD
}

// NewKey builds a Key from 32 bytes of key material. The caller keeps
// ownership of material and may wipe it afterwards.
func NewKey(material []byte) (*Key, error) {
	if len(material) != KeySize {
		return nil, validationError("new key", "key material must be 32 bytes")
	}

	block, err := aes.NewCipher(material)
	if err != nil {
		return nil, cryptoError("new key", "create cipher", err)
	}
	aead, err := cipher.NewGCMWithNonceSize(block, IVSize)
	if err != nil {
		return nil, cryptoError("new key", "create gcm", err)
	}

	return &Key{aead: aead}, nil
}

// seal encrypts plaintext under iv; the result carries the 16-byte tag.
func (k *Key) seal(iv, plaintext []byte) []byte {
	return k.aead.Seal(nil, iv, plaintext, nil)
}

// open authenticates and decrypts ciphertext. The only error GCM reports is
// an authentication failure.
func (k *Key) open(iv, ciphertext []byte) ([]byte, error) {
	return k.aead.Open(nil, iv, ciphertext, nil)
}
