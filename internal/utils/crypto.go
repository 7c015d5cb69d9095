package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// GenerateHMAC returns a hex HMAC-SHA256 of value. Used as a blind index so
// encrypted columns can still be matched exactly.
func GenerateHMAC(value, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(value))
	return hex.EncodeToString(h.Sum(nil))
}

func newGCM(key []byte) (cipher.AEAD, error) {
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("encryption key must be 16, 24, or 32 bytes, got %d", len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create gcm: %w", err)
	}
	return gcm, nil
}

// Encrypt seals data with AES-GCM and returns hex(nonce || ciphertext || tag).
func Encrypt(data string, key []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("input data is empty")
	}
	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	return hex.EncodeToString(gcm.Seal(nonce, nonce, []byte(data), nil)), nil
}

// Decrypt opens a value produced by Encrypt. Tampered or truncated input
// fails authentication.
func Decrypt(encryptedData string, key []byte) (string, error) {
	if len(encryptedData) == 0 {
		return "", fmt.Errorf("encrypted data is empty")
	}
	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	data, err := hex.DecodeString(encryptedData)
	if err != nil {
		return "", fmt.Errorf("failed to decode hex: %w", err)
	}
	if len(data) < gcm.NonceSize()+gcm.Overhead() {
		return "", fmt.Errorf("encrypted data too short: %d bytes", len(data))
	}

	nonce, sealed := data[:gcm.NonceSize()], data[gcm.NonceSize():]
	plain, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt: %w", err)
	}
	return string(plain), nil
}

// DocumentCipher seals client documents for storage.
type DocumentCipher struct {
	key    []byte
	secret string
}

// NewDocumentCipher builds a cipher from the AES key and the HMAC secret.
func NewDocumentCipher(key []byte, hmacSecret string) *DocumentCipher {
	return &DocumentCipher{key: key, secret: hmacSecret}
}

// Seal normalizes the document, encrypts it and returns its blind index.
func (c *DocumentCipher) Seal(doc string) (encrypted, index string, err error) {
	digits := OnlyDigits(doc)
	encrypted, err = Encrypt(digits, c.key)
	if err != nil {
		return "", "", err
	}
	return encrypted, c.Index(digits), nil
}

// Index returns the blind index of a document without encrypting it.
func (c *DocumentCipher) Index(doc string) string {
	return GenerateHMAC(OnlyDigits(doc), c.secret)
}

// Open decrypts a sealed document.
func (c *DocumentCipher) Open(encrypted string) (string, error) {
	return Decrypt(encrypted, c.key)
}
