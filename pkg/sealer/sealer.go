// Package sealer issues and opens opaque session tokens: an AES-GCM sealed
// "userID:expiry" pair, base64url encoded. Tokens are self-contained, so
// services can authenticate requests without a session store.
package sealer

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

type Sealer struct {
	aead cipher.AEAD
}

// New builds a Sealer from a base64-encoded 32-byte key.
func New(encodedKey string) (*Sealer, error) {
	key, err := base64.StdEncoding.DecodeString(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("invalid session key encoding: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("session key must be 32 bytes, got %d", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &Sealer{aead: aead}, nil
}

func (s *Sealer) SealSession(userID string, expiresAt time.Time) (string, error) {
	if strings.Contains(userID, ":") {
		return "", fmt.Errorf("user ID must not contain ':'")
	}
	plaintext := []byte(userID + ":" + strconv.FormatInt(expiresAt.Unix(), 10))

	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ct := s.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(ct), nil
}

// OpenSession verifies and decodes a token. It does not check expiry;
// callers compare the returned time against their clock.
func (s *Sealer) OpenSession(token string) (string, time.Time, error) {
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("malformed token")
	}

	nonceSize := s.aead.NonceSize()
	if len(data) < nonceSize {
		return "", time.Time{}, fmt.Errorf("malformed token")
	}

	pt, err := s.aead.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("invalid token")
	}

	parts := strings.SplitN(string(pt), ":", 2)
	if len(parts) != 2 {
		return "", time.Time{}, fmt.Errorf("invalid token payload")
	}
	unix, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("invalid token payload")
	}

	return parts[0], time.Unix(unix, 0), nil
}
