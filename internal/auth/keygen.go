package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// KeyPrefix starts every generated key so leaked keys are easy to grep for.
const KeyPrefix = "udk_"

// GeneratedKey is a new API key and the hash to configure the server with.
type GeneratedKey struct {
	Plaintext string // show once
	Hash      string // value for AUTH_API_KEY_HASH
}

// GenerateKey creates a random API key and its Argon2id hash.
func GenerateKey() (*GeneratedKey, error) {
	secret := make([]byte, 24)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate secret: %w", err)
	}
	plaintext := KeyPrefix + hex.EncodeToString(secret)

	hash, err := HashKey(plaintext)
	if err != nil {
		return nil, fmt.Errorf("hash key: %w", err)
	}

	return &GeneratedKey{Plaintext: plaintext, Hash: hash}, nil
}
