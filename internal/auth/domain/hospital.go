// Package domain defines authentication domain models for hospital accounts.
//
// A hospital is the principal of the system: it registers once with a unique
// email, authenticates with a password, and every subsequent request acts on
// its behalf through a signed access token.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Hospital represents a registered hospital account.
// PasswordHash holds the salted one-way hash of the password; the plain
// password is never stored or returned.
type Hospital struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Name         string
	Address      string
	Phone        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is the resolved principal carried through a validated access token.
// It is all downstream handlers need for data scoping and activity logging.
type Identity struct {
	HospitalID uuid.UUID
	Email      string
}

// RegisterHospitalInput contains the parameters for registering a new hospital account.
type RegisterHospitalInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
}

// AuthenticateInput contains the credentials for a login attempt.
type AuthenticateInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthenticateOutput contains the minted access token and its expiry,
// plus the authenticated hospital's ID for callers that need the identity
// without decoding the token.
// The token is returned to the caller only and never persisted server-side.
type AuthenticateOutput struct {
	Token      string
	ExpiresAt  time.Time
	HospitalID uuid.UUID
}
