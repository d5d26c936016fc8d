package internal

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/google/uuid"
)

const (
	// TokenSize is the number of random bytes behind a hex session token.
	TokenSize = 16

	privateIDPrefix = "2::"
)

// NewHexToken returns TokenSize random bytes as lowercase hex (32 characters).
func NewHexToken() (string, error) {
	var raw [TokenSize]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw[:]), nil
}

// NewUUIDToken returns a random (v4) UUID in canonical form.
func NewUUIDToken() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// PrivateID derives the storage identifier of a public session id.
// The derivation is one-way, so the storage key cannot be turned back into
// something a client could present.
func PrivateID(publicID string) string {
	sum := sha256.Sum256([]byte(publicID))
	return privateIDPrefix + hex.EncodeToString(sum[:])
}

// IsPrivateID reports whether id has the shape produced by PrivateID.
func IsPrivateID(id string) bool {
	if len(id) != len(privateIDPrefix)+sha256.Size*2 {
		return false
	}
	if id[:len(privateIDPrefix)] != privateIDPrefix {
		return false
	}
	_, err := hex.DecodeString(id[len(privateIDPrefix):])
	return err == nil
}

// ValidateToken rejects tokens that cannot be used as a public id.
func ValidateToken(token string) error {
	if token == "" {
		return errors.New("empty session token")
	}
	if IsPrivateID(token) {
		return errors.New("session token has private id shape")
	}
	return nil
}
