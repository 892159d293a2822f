package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/grupo7/ecommerce-api/internal/adapter/config"
	"github.com/grupo7/ecommerce-api/internal/core/port"
)

// CardVault seals card data with AES-256-GCM before it is persisted. The
// payment_info columns only ever see ciphertext.
type CardVault struct {
	aead cipher.AEAD
}

func New(conf *config.Vault) (port.CardVault, error) {
	key, err := hex.DecodeString(conf.CardKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode card vault key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("card vault key must be 32 bytes, got %d", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to init card vault cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to init card vault gcm: %w", err)
	}

	return &CardVault{aead: aead}, nil
}

func (v *CardVault) Seal(plaintext string) (string, error) {
	nonce := make([]byte, v.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := v.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (v *CardVault) Open(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("failed to decode ciphertext: %w", err)
	}
	if len(raw) < v.aead.NonceSize() {
		return "", fmt.Errorf("ciphertext shorter than nonce")
	}

	nonce, sealed := raw[:v.aead.NonceSize()], raw[v.aead.NonceSize():]
	opened, err := v.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("failed to open ciphertext: %w", err)
	}
	return string(opened), nil
}
