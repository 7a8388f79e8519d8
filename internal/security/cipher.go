// Package security encrypts ledger snapshots before they reach the local cache.
//
// The scheme is PBKDF2-HMAC-SHA256 key derivation followed by AES-256-GCM with a
// fresh random nonce per message. Output is base64(nonce || ciphertext || tag).
// With a salt shared by every install this obscures cached data; it is not
// access control, and the passphrase must come from outside the binary.
package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// NonceSize is the GCM nonce length prepended to every ciphertext.
	NonceSize = 12
	// KeySize selects AES-256.
	KeySize = 32

	// DefaultSalt and DefaultIterations keep blobs written by earlier
	// clients readable.
	DefaultSalt       = "salt"
	DefaultIterations = 100000
)

var (
	// ErrEmptyPassphrase is returned when no key material is configured.
	ErrEmptyPassphrase = errors.New("encryption passphrase is empty")
	// ErrCiphertextTooShort is returned for blobs shorter than a nonce plus tag.
	ErrCiphertextTooShort = errors.New("ciphertext too short")
)

// Options controls key derivation.
type Options struct {
	Salt       string
	Iterations int
}

// Cipher encrypts and decrypts strings with a key derived once at construction.
type Cipher struct {
	aead cipher.AEAD
	rand io.Reader
}

// NewCipher derives the key from passphrase and prepares the AEAD.
// Zero-valued options fall back to DefaultSalt and DefaultIterations.
func NewCipher(passphrase string, opts Options) (*Cipher, error) {
	if passphrase == "" {
		return nil, ErrEmptyPassphrase
	}
	if opts.Salt == "" {
		opts.Salt = DefaultSalt
	}
	if opts.Iterations <= 0 {
		opts.Iterations = DefaultIterations
	}

	key := pbkdf2.Key([]byte(passphrase), []byte(opts.Salt), opts.Iterations, KeySize, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create block cipher: %w", err)
	}
	aead, err := cipher.NewGCMWithNonceSize(block, NonceSize)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}

	return &Cipher{aead: aead, rand: rand.Reader}, nil
}

// Encrypt seals plaintext under a fresh nonce and returns base64(nonce || ciphertext).
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(c.rand, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. It fails on malformed base64, truncated input,
// or when the blob was sealed under a different key.
func (c *Cipher) Decrypt(blob string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return "", fmt.Errorf("decode base64: %w", err)
	}
	if len(data) < NonceSize+c.aead.Overhead() {
		return "", ErrCiphertextTooShort
	}

	nonce, ciphertext := data[:NonceSize], data[NonceSize:]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("open ciphertext: %w", err)
	}
	return string(plaintext), nil
}
