package security

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrHashMismatch = errors.New("password does not match stored hash")

// Hasher turns a plaintext password into its stored form and checks a
// plaintext against a stored form. Implementations must be deterministic
// enough that Compare(Hash(p), p) always succeeds.
type Hasher interface {
	Hash(plain string) (string, error)
	Compare(stored, plain string) error
}

// SHA256Hasher stores the hex-encoded unsalted SHA-256 digest of the
// password. This matches the on-disk csv format, where the password
// column holds the hex digest. It is deliberately the legacy scheme;
// prefer BcryptHasher for new deployments.
type SHA256Hasher struct{}

func (SHA256Hasher) Hash(plain string) (string, error) {
	sum := sha256.Sum256([]byte(plain))

	return hex.EncodeToString(sum[:]), nil
}

func (SHA256Hasher) Compare(stored, plain string) error {
	sum := sha256.Sum256([]byte(plain))
	computed := hex.EncodeToString(sum[:])

	if subtle.ConstantTimeCompare([]byte(stored), []byte(computed)) != 1 {
		return ErrHashMismatch
	}

	return nil
}

// BcryptHasher stores a salted bcrypt hash at the default cost.
type BcryptHasher struct{}

func (BcryptHasher) Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)

	if err != nil {
		return "", err
	}

	return string(hash), nil
}

func (BcryptHasher) Compare(stored, plain string) error {
	err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain))

	if err != nil {
		return ErrHashMismatch
	}

	return nil
}

// NewHasher picks a hasher by config name. Unknown schemes fall back to
// sha256 so a typo'd env var cannot lock everyone out of a csv store
// written with the legacy digest.
func NewHasher(scheme string) Hasher {
	if scheme == "bcrypt" {
		return BcryptHasher{}
	}

	return SHA256Hasher{}
}
