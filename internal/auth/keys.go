// Package auth provides authentication and authorization functionality.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// authKeyFile is the name of the token key file inside the data directory.
const authKeyFile = "auth.key"

// PASETO v4.local wants a 256-bit symmetric key. We store it hex-encoded
// so it survives being opened in an editor.
const (
	keyLength    = 32
	keyHexLength = keyLength * 2
)

// LoadOrGenerateKey returns the symmetric key used to sign access tokens,
// reading it from <dataPath>/auth.key or minting and persisting a fresh
// one on first boot. Sessions survive restarts because the key does.
func LoadOrGenerateKey(dataPath string) ([]byte, error) {
	keyPath := filepath.Join(dataPath, authKeyFile)

	//#nosec G304 -- Path is rooted at the configured data directory.
	if raw, err := os.ReadFile(keyPath); err == nil {
		return decodeKeyFile(raw)
	}

	key := make([]byte, keyLength)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate auth key: %w", err)
	}

	if err := os.MkdirAll(dataPath, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	// Owner-only permissions. Anyone who can read this file can forge tokens.
	if err := os.WriteFile(keyPath, []byte(hex.EncodeToString(key)), 0o600); err != nil {
		return nil, fmt.Errorf("failed to save auth key: %w", err)
	}

	return key, nil
}

// decodeKeyFile validates and decodes the hex contents of an existing key
// file. A truncated or hand-edited file is an error, never silently
// replaced, because replacing it would invalidate every session.
func decodeKeyFile(raw []byte) ([]byte, error) {
	keyHex := strings.TrimSpace(string(raw))
	if len(keyHex) != keyHexLength {
		return nil, fmt.Errorf("invalid auth key length: expected %d hex chars, got %d", keyHexLength, len(keyHex))
	}

	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid auth key format: not valid hex: %w", err)
	}

	return key, nil
}
