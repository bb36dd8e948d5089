/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package secrets seals the Steam credentials at rest.
//
// A random key is kept in a key file. The sealing key is derived from it with
// HKDF-SHA256 and used for AES-256-GCM; sealed data is
// base64(nonce || ciphertext || tag).
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
)

const (
	sealSalt = "playfit-credentials"
	sealInfo = "credential-sealing-v1"

	keySize   = 32
	nonceSize = 12
)

var (
	// ErrEmptyKey is returned when the key material is empty.
	ErrEmptyKey = errors.New("key cannot be empty")

	// ErrEmptyPlaintext is returned when sealing empty data.
	ErrEmptyPlaintext = errors.New("plaintext cannot be empty")

	// ErrInvalidSealed is returned for data that is not valid sealed output.
	ErrInvalidSealed = errors.New("invalid sealed data")

	// ErrOpenFailed is returned when authentication fails, which usually
	// means the wrong key.
	ErrOpenFailed = errors.New("unable to open sealed data: wrong key or tampered data")
)

// GenerateKey returns new random key material, base64 encoded.
func GenerateKey() (string, error) {
	raw := make([]byte, keySize)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// Sealer encrypts and authenticates small payloads.
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer derives a sealing key from key and returns a Sealer.
func NewSealer(key string) (*Sealer, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, ErrEmptyKey
	}

	derived := make([]byte, keySize)
	r := hkdf.New(sha256.New, []byte(key), []byte(sealSalt), []byte(sealInfo))
	if _, err := io.ReadFull(r, derived); err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}

	block, err := aes.NewCipher(derived)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return &Sealer{aead: aead}, nil
}

// Seal encrypts plaintext with a fresh random nonce.
func (s *Sealer) Seal(plaintext []byte) ([]byte, error) {
	if len(plaintext) == 0 {
		return nil, ErrEmptyPlaintext
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := s.aead.Seal(nonce, nonce, plaintext, nil)
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sealed)))
	base64.StdEncoding.Encode(out, sealed)
	return out, nil
}

// Open reverses Seal.
func (s *Sealer) Open(sealed []byte) ([]byte, error) {
	text := strings.TrimSpace(string(sealed))
	if text == "" {
		return nil, ErrInvalidSealed
	}

	data, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSealed, err)
	}
	if len(data) < nonceSize+1+s.aead.Overhead() {
		return nil, fmt.Errorf("%w: too short", ErrInvalidSealed)
	}

	plaintext, err := s.aead.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return nil, ErrOpenFailed
	}
	return plaintext, nil
}
