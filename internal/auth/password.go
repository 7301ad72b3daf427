// Package auth provides credential primitives for the API: bcrypt password
// hashing/verification and stateless JWT issuance and validation.
//
// Key Features
//
//   - HashPassword / CheckPassword wrap golang.org/x/crypto/bcrypt with the
//     default cost, keeping the hashing policy in one place
//   - TokenManager issues and validates HMAC-SHA256 (HS256) access tokens with
//     a configurable lifetime
//   - Validation rejects unexpected signing algorithms to prevent algorithm
//     confusion attacks
//
// The package is deliberately free of HTTP concerns. Middleware and handlers
// adapt it to the transport layer.
package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned by CheckPassword when the supplied
// password does not match the stored hash.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// HashPassword hashes a plaintext password with bcrypt at the default cost.
//
// Parameters:
//   - password: plaintext password; must be non-empty (enforced by callers)
//
// Returns:
//   - string: the bcrypt hash, safe to persist
//   - error: non-nil only on internal bcrypt failure
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword compares a plaintext password against a stored bcrypt hash.
//
// Returns:
//   - nil when the password matches
//   - ErrInvalidCredentials when it does not (including malformed hashes)
func CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
