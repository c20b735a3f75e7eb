// Package auth implements password hashing and session token minting.
// Tokens are stateless: nothing is stored server-side, validity is
// signature plus expiry.
package auth

import (
	"golang.org/x/crypto/bcrypt"

	"chatai/chatai/apperrors"
)

// HashPassword derives a salted one-way hash. bcrypt embeds a fresh
// random salt per call, so equal passwords never share a hash.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword compares a plaintext password against a stored hash.
// The returned error is the same auth error used for unknown accounts.
func CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return apperrors.New(apperrors.Auth, "invalid credentials")
	}
	return nil
}
