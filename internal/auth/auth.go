// Package auth hashes and verifies the API key that guards note writes.
//
// Keys are stored only as Argon2id hashes in the PHC-like format
// $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>, so the server never needs
// the plaintext key in its environment.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters
const (
	argon2Time    = 1
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4
	argon2KeyLen  = 32
	saltLen       = 16
)

// MinKeyLength is the shortest key HashKey accepts.
const MinKeyLength = 16

var (
	// ErrInvalidHash is returned when a stored hash cannot be parsed.
	ErrInvalidHash = errors.New("invalid argon2id hash")

	// ErrKeyTooShort is returned by HashKey for keys under MinKeyLength.
	ErrKeyTooShort = fmt.Errorf("key must be at least %d characters", MinKeyLength)
)

// HashKey returns the encoded Argon2id hash of key with a fresh random salt.
func HashKey(key string) (string, error) {
	if len(key) < MinKeyLength {
		return "", ErrKeyTooShort
	}

	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(key), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argon2Memory, argon2Time, argon2Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// Verifier checks presented keys against one parsed hash.
type Verifier struct {
	memory  uint32
	time    uint32
	threads uint8
	salt    []byte
	hash    []byte
}

// NewVerifier parses an encoded hash produced by HashKey.
func NewVerifier(encoded string) (*Verifier, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return nil, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return nil, fmt.Errorf("%w: unsupported version %q", ErrInvalidHash, parts[2])
	}

	var v Verifier
	var threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &v.memory, &v.time, &threads); err != nil {
		return nil, fmt.Errorf("%w: parameters: %v", ErrInvalidHash, err)
	}
	if threads == 0 || threads > 255 {
		return nil, fmt.Errorf("%w: parallelism %d", ErrInvalidHash, threads)
	}
	v.threads = uint8(threads)

	var err error
	if v.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return nil, fmt.Errorf("%w: salt: %v", ErrInvalidHash, err)
	}
	if v.hash, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return nil, fmt.Errorf("%w: hash: %v", ErrInvalidHash, err)
	}
	if len(v.hash) == 0 {
		return nil, fmt.Errorf("%w: empty hash", ErrInvalidHash)
	}

	return &v, nil
}

// Verify reports whether key matches, comparing in constant time.
func (v *Verifier) Verify(key string) bool {
	computed := argon2.IDKey([]byte(key), v.salt, v.time, v.memory, v.threads, uint32(len(v.hash)))
	return subtle.ConstantTimeCompare(v.hash, computed) == 1
}

// VerifyKey parses encoded and checks key against it.
func VerifyKey(key, encoded string) (bool, error) {
	v, err := NewVerifier(encoded)
	if err != nil {
		return false, err
	}
	return v.Verify(key), nil
}
