package service

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// hashIterations is deliberately high; the KDF must be slow.
	hashIterations = 100000
	saltLength     = 16 // 128 bits
	keyLength      = 32 // 256 bits
	tokenLength    = 32 // 256 bits of entropy per token
)

// HashPassword derives a salted PBKDF2-SHA256 digest from the plaintext and
// encodes it as "salt_hex:hash_hex". The salt is freshly random per call, so
// hashing the same password twice yields different digests.
func HashPassword(plaintext string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := pbkdf2.Key([]byte(plaintext), salt, hashIterations, keyLength, sha256.New)
	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(key), nil
}

// VerifyPassword reports whether plaintext matches the stored digest. A
// malformed digest (missing delimiter, non-hex content, wrong lengths) is
// simply a non-match; this never fails loudly. The comparison is constant
// time over the full key length.
func VerifyPassword(plaintext, digest string) bool {
	saltHex, hashHex, ok := strings.Cut(digest, ":")
	if !ok {
		return false
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil || len(salt) != saltLength {
		return false
	}
	expected, err := hex.DecodeString(hashHex)
	if err != nil || len(expected) != keyLength {
		return false
	}

	derived := pbkdf2.Key([]byte(plaintext), salt, hashIterations, keyLength, sha256.New)
	return subtle.ConstantTimeCompare(derived, expected) == 1
}

// GenerateToken returns a fresh high-entropy bearer token as a fixed-length
// hex string. Suitable for session and refresh tokens alike.
func GenerateToken() (string, error) {
	buf := make([]byte, tokenLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
