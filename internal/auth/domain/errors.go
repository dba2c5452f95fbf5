package domain

import (
	"github.com/medrecordhq/medrecord/internal/errors"
)

// Authentication errors.
var (
	// ErrHospitalNotFound indicates a hospital with the specified ID was not found.
	ErrHospitalNotFound = errors.Wrap(errors.ErrNotFound, "hospital not found")

	// ErrHospitalAlreadyExists indicates a hospital with the same email already exists.
	ErrHospitalAlreadyExists = errors.Wrap(errors.ErrConflict, "hospital already exists")

	// ErrInvalidCredentials indicates a failed login attempt. It is returned for both
	// unknown emails and wrong passwords so callers cannot probe which accounts exist.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrTokenExpired indicates the access token's expiry time has passed.
	ErrTokenExpired = errors.Wrap(errors.ErrUnauthorized, "token expired")

	// ErrTokenMalformed indicates the access token could not be parsed.
	ErrTokenMalformed = errors.Wrap(errors.ErrUnauthorized, "token malformed")

	// ErrSignatureInvalid indicates the access token's signature did not verify
	// under the current signing secret.
	ErrSignatureInvalid = errors.Wrap(errors.ErrUnauthorized, "token signature invalid")
)
