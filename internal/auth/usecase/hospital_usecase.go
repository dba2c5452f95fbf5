package usecase

import (
	"context"
	"strings"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	authDomain "github.com/medrecordhq/medrecord/internal/auth/domain"
	authService "github.com/medrecordhq/medrecord/internal/auth/service"
	apperrors "github.com/medrecordhq/medrecord/internal/errors"
	appValidation "github.com/medrecordhq/medrecord/internal/validation"
)

// hospitalUseCase handles hospital registration, authentication and token validation.
type hospitalUseCase struct {
	hospitalRepo    HospitalRepository
	passwordService authService.PasswordService
	tokenService    authService.TokenService
	clock           Clock
}

// NewHospitalUseCase creates a new HospitalUseCase.
func NewHospitalUseCase(
	hospitalRepo HospitalRepository,
	passwordService authService.PasswordService,
	tokenService authService.TokenService,
) HospitalUseCase {
	return &hospitalUseCase{
		hospitalRepo:    hospitalRepo,
		passwordService: passwordService,
		tokenService:    tokenService,
		clock:           time.Now,
	}
}

// validateRegisterInput validates the registration input using jellydator/validation
// This provides comprehensive validation including:
// - Required field checks
// - Email format validation
// - Password strength requirements (min 8 chars, uppercase, lowercase, number, special char)
func (uc *hospitalUseCase) validateRegisterInput(input *authDomain.RegisterHospitalInput) error {
	err := validation.ValidateStruct(input,
		validation.Field(&input.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
			appValidation.Email,
			validation.Length(5, 255).Error("email must be between 5 and 255 characters"),
		),
		validation.Field(&input.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 128).Error("password must be between 8 and 128 characters"),
			appValidation.PasswordStrength{
				MinLength:      8,
				RequireUpper:   true,
				RequireLower:   true,
				RequireNumber:  true,
				RequireSpecial: true,
			},
		),
		validation.Field(&input.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("name must be between 1 and 255 characters"),
		),
		validation.Field(&input.Address,
			validation.Length(0, 500).Error("address must be at most 500 characters"),
		),
		validation.Field(&input.Phone,
			validation.Length(0, 32).Error("phone must be at most 32 characters"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// Register registers a new hospital account. Email uniqueness is enforced by
// the database constraint so two concurrent registrations with the same email
// result in exactly one created row; the loser gets ErrHospitalAlreadyExists.
func (uc *hospitalUseCase) Register(
	ctx context.Context,
	input *authDomain.RegisterHospitalInput,
) (*authDomain.Hospital, error) {
	// Validate input
	if err := uc.validateRegisterInput(input); err != nil {
		return nil, err
	}

	// Hash the password
	hashedPassword, err := uc.passwordService.HashPassword(input.Password)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to hash password")
	}

	hospital := &authDomain.Hospital{
		ID:           uuid.Must(uuid.NewV7()),
		Email:        strings.TrimSpace(strings.ToLower(input.Email)),
		PasswordHash: hashedPassword,
		Name:         strings.TrimSpace(input.Name),
		Address:      strings.TrimSpace(input.Address),
		Phone:        strings.TrimSpace(input.Phone),
	}

	if err := uc.hospitalRepo.Create(ctx, hospital); err != nil {
		return nil, err
	}

	return hospital, nil
}

// Authenticate verifies the credentials and mints a signed access token.
// Both the unknown-email and wrong-password paths return ErrInvalidCredentials
// so a caller cannot distinguish which accounts exist.
func (uc *hospitalUseCase) Authenticate(
	ctx context.Context,
	input *authDomain.AuthenticateInput,
) (*authDomain.AuthenticateOutput, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))

	hospital, err := uc.hospitalRepo.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !uc.passwordService.ComparePassword(input.Password, hospital.PasswordHash) {
		return nil, authDomain.ErrInvalidCredentials
	}

	token, expiresAt, err := uc.tokenService.Mint(hospital.ID, hospital.Email, uc.clock())
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to mint access token")
	}

	return &authDomain.AuthenticateOutput{
		Token:      token,
		ExpiresAt:  expiresAt,
		HospitalID: hospital.ID,
	}, nil
}

// ValidateToken verifies the token and returns the embedded identity.
func (uc *hospitalUseCase) ValidateToken(_ context.Context, token string) (*authDomain.Identity, error) {
	return uc.tokenService.Validate(token)
}

// GetByID retrieves a hospital by ID.
func (uc *hospitalUseCase) GetByID(ctx context.Context, id uuid.UUID) (*authDomain.Hospital, error) {
	return uc.hospitalRepo.GetByID(ctx, id)
}
