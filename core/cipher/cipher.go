// Package cipher encrypts record payloads before they touch the ledger.
// Tokens are hex(iv) + ":" + hex(ciphertext), AES-256-CTR under a single
// process-wide key.
package cipher

import (
	"crypto/aes"
	gocipher "crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const ivLength = 16

// ErrDecrypt is returned when a stored token cannot be decrypted.
var ErrDecrypt = errors.New("decryption failed")

type Cipher struct {
	key []byte
}

// New builds a Cipher from a 32-byte key. The key is configuration, never
// derived from ledger content.
func New(key []byte) (*Cipher, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("cipher key must be 32 bytes, got %d", len(key))
	}
	return &Cipher{key: key}, nil
}

// LoadKey retrieves the data encryption key from the environment
// (base64-encoded, 32 bytes after decoding).
func LoadKey() ([]byte, error) {
	dekB64 := os.Getenv("MEDLEDGER_DEK")
	if dekB64 == "" {
		return nil, errors.New("MEDLEDGER_DEK not set in environment")
	}
	dek, err := base64.StdEncoding.DecodeString(dekB64)
	if err != nil {
		return nil, errors.New("failed to decode MEDLEDGER_DEK: " + err.Error())
	}
	if len(dek) != 32 {
		return nil, errors.New("MEDLEDGER_DEK must be 32 bytes (base64-encoded)")
	}
	return dek, nil
}

// Encrypt encrypts plaintext under a fresh random IV and returns the token.
// Two calls on the same plaintext yield different tokens.
func (c *Cipher) Encrypt(plaintext []byte) (string, error) {
	iv := make([]byte, ivLength)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", err
	}
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}
	ct := make([]byte, len(plaintext))
	gocipher.NewCTR(block, iv).XORKeyStream(ct, plaintext)
	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(ct), nil
}

// Decrypt splits a token on the first ":" and recovers the plaintext.
func (c *Cipher) Decrypt(token string) ([]byte, error) {
	ivHex, ctHex, found := strings.Cut(token, ":")
	if !found {
		return nil, fmt.Errorf("%w: token missing separator", ErrDecrypt)
	}
	iv, err := hex.DecodeString(ivHex)
	if err != nil {
		return nil, fmt.Errorf("%w: bad iv encoding: %v", ErrDecrypt, err)
	}
	if len(iv) != ivLength {
		return nil, fmt.Errorf("%w: iv must be %d bytes, got %d", ErrDecrypt, ivLength, len(iv))
	}
	ct, err := hex.DecodeString(ctHex)
	if err != nil {
		return nil, fmt.Errorf("%w: bad ciphertext encoding: %v", ErrDecrypt, err)
	}
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, err
	}
	pt := make([]byte, len(ct))
	gocipher.NewCTR(block, iv).XORKeyStream(pt, ct)
	return pt, nil
}
