// Package cryptox holds the password hashing used by the account store.
// Passwords are stretched with argon2id and a per-password random salt; the
// plaintext is never persisted.
package cryptox

import (
	"crypto/subtle"

	"github.com/dmitrijs2005/countryexplorer/internal/common"
	"golang.org/x/crypto/argon2"
)

// SaltSize is the length of the random salt generated for each password.
const SaltSize = 16

// Argon2Params controls the cost of HashPassword.
type Argon2Params struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
	KeyLen  uint32
}

// DefaultParams is used by HashPassword and VerifyPassword.
var DefaultParams = Argon2Params{Time: 1, Memory: 64 * 1024, Threads: 4, KeyLen: 32}

// NewSalt returns SaltSize random bytes.
func NewSalt() []byte {
	return common.GenerateRandByteArray(SaltSize)
}

// HashPassword derives the argon2id hash of password with salt.
func HashPassword(password string, salt []byte) []byte {
	p := DefaultParams
	return argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Threads, p.KeyLen)
}

// VerifyPassword reports whether password hashes to hash under salt.
// The comparison runs in constant time.
func VerifyPassword(password string, salt, hash []byte) bool {
	candidate := HashPassword(password, salt)
	defer common.WipeByteArray(candidate)
	return subtle.ConstantTimeCompare(hash, candidate) == 1
}
