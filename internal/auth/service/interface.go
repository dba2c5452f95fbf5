// Package service provides technical services for authentication operations:
// slow password hashing and signed access token handling.
package service

import (
	"time"

	"github.com/google/uuid"

	authDomain "github.com/medrecordhq/medrecord/internal/auth/domain"
)

// PasswordService defines operations for password hashing and verification.
// Implementations must use a deliberately slow, salted hashing algorithm
// (bcrypt or argon2id) with a configurable cost factor, and a constant-time
// comparison for verification.
type PasswordService interface {
	// HashPassword hashes a plain text password for storage.
	HashPassword(plainPassword string) (hashedPassword string, err error)

	// ComparePassword compares a plain text password against a stored hash.
	// Returns true on match, false otherwise. Constant-time with respect to
	// the hash contents.
	ComparePassword(plainPassword string, hashedPassword string) bool
}

// TokenService defines operations for minting and validating access tokens.
// Tokens are stateless: the embedded identity and expiry are the only state,
// protected by a signature under the process-wide secret. Implementations
// must be safe for concurrent use; the secret is read-only after construction.
type TokenService interface {
	// Mint creates a signed access token embedding the hospital identity,
	// issued at now and expiring at now + lifetime.
	Mint(hospitalID uuid.UUID, email string, now time.Time) (token string, expiresAt time.Time, err error)

	// Validate verifies the token's signature, algorithm, and expiry, and
	// returns the embedded identity. Failure modes are distinguishable via
	// domain.ErrTokenExpired, domain.ErrTokenMalformed, and
	// domain.ErrSignatureInvalid; all of them unwrap to ErrUnauthorized.
	Validate(token string) (*authDomain.Identity, error)
}
