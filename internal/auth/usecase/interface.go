// Package usecase implements business logic orchestration for authentication operations.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/medrecordhq/medrecord/internal/auth/domain"
)

// HospitalUseCase defines the authentication contract: registration, credential
// verification with token issuance, and per-request token validation.
type HospitalUseCase interface {
	// Register validates the input, hashes the password, and persists a new
	// hospital. Returns ErrHospitalAlreadyExists when the email is taken and
	// ErrInvalidInput when validation fails.
	Register(ctx context.Context, input *authDomain.RegisterHospitalInput) (*authDomain.Hospital, error)

	// Authenticate verifies the credentials and mints a signed access token.
	// Unknown emails and wrong passwords both return ErrInvalidCredentials.
	Authenticate(ctx context.Context, input *authDomain.AuthenticateInput) (*authDomain.AuthenticateOutput, error)

	// ValidateToken verifies a bearer token and returns the embedded identity.
	// Safe for concurrent use; reads no mutable shared state.
	ValidateToken(ctx context.Context, token string) (*authDomain.Identity, error)

	// GetByID retrieves a hospital by its identifier.
	GetByID(ctx context.Context, id uuid.UUID) (*authDomain.Hospital, error)
}

// ActivityLogUseCase defines operations for recording and listing activity logs.
type ActivityLogUseCase interface {
	// Create records an activity log entry for an identity-bearing operation.
	Create(
		ctx context.Context,
		requestID uuid.UUID,
		hospitalID uuid.UUID,
		operation authDomain.Operation,
		path string,
		metadata map[string]any,
	) error

	// List retrieves a hospital's activity logs, newest first, with pagination.
	List(ctx context.Context, hospitalID uuid.UUID, offset, limit int) ([]*authDomain.ActivityLog, error)
}

// HospitalRepository defines hospital persistence operations.
type HospitalRepository interface {
	Create(ctx context.Context, hospital *authDomain.Hospital) error
	GetByID(ctx context.Context, id uuid.UUID) (*authDomain.Hospital, error)
	GetByEmail(ctx context.Context, email string) (*authDomain.Hospital, error)
}

// ActivityLogRepository defines activity log persistence operations.
type ActivityLogRepository interface {
	Create(ctx context.Context, log *authDomain.ActivityLog) error
	ListByHospital(ctx context.Context, hospitalID uuid.UUID, offset, limit int) ([]*authDomain.ActivityLog, error)
}

// Clock returns the current time; injected so token expiry is testable.
type Clock func() time.Time
