package session

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// DefaultPassphrase is used when the configuration does not provide one.
const DefaultPassphrase = "hotelbook-session-key"

// Cipher encrypts session entries at rest with a single fixed key.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher derives an AES-256-GCM key from passphrase.
func NewCipher(passphrase string) (*Cipher, error) {
	if passphrase == "" {
		passphrase = DefaultPassphrase
	}
	key := make([]byte, 32)
	kdf := hkdf.New(sha256.New, []byte(passphrase), []byte("hotelbook/session"), []byte("v1"))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Cipher{aead: aead}, nil
}

// Encrypt returns base64(nonce || ciphertext).
func (c *Cipher) Encrypt(plain string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plain), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Any malformed or tampered input yields ("", false).
func (c *Cipher) Decrypt(encoded string) (string, bool) {
	if encoded == "" {
		return "", false
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", false
	}
	ns := c.aead.NonceSize()
	if len(data) < ns+c.aead.Overhead() {
		return "", false
	}
	plain, err := c.aead.Open(nil, data[:ns], data[ns:], nil)
	if err != nil {
		return "", false
	}
	return string(plain), true
}
