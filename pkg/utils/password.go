package utils

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a password with bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPasswordHash compares a password against a bcrypt hash
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// CheckLegacyPassword verifies accounts created before bcrypt was adopted,
// whose hash is hex(sha256(salt + password)).
func CheckLegacyPassword(password, salt, hash string) bool {
	sum := sha256.Sum256([]byte(salt + password))
	return subtle.ConstantTimeCompare([]byte(hex.EncodeToString(sum[:])), []byte(hash)) == 1
}

// VerifyPassword checks password against either hash scheme. A nil salt
// means a bcrypt hash.
func VerifyPassword(password, hash string, salt *string) bool {
	if salt != nil && *salt != "" {
		return CheckLegacyPassword(password, *salt, hash)
	}
	return CheckPasswordHash(password, hash)
}
