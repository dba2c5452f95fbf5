package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/medrecordhq/medrecord/internal/auth/domain"
	authService "github.com/medrecordhq/medrecord/internal/auth/service"
	apperrors "github.com/medrecordhq/medrecord/internal/errors"
)

// MockHospitalRepository is a mock implementation of HospitalRepository
type MockHospitalRepository struct {
	mock.Mock
}

func (m *MockHospitalRepository) Create(ctx context.Context, hospital *authDomain.Hospital) error {
	args := m.Called(ctx, hospital)
	return args.Error(0)
}

func (m *MockHospitalRepository) GetByID(ctx context.Context, id uuid.UUID) (*authDomain.Hospital, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Hospital), args.Error(1)
}

func (m *MockHospitalRepository) GetByEmail(ctx context.Context, email string) (*authDomain.Hospital, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Hospital), args.Error(1)
}

// MockPasswordService is a mock implementation of service.PasswordService
type MockPasswordService struct {
	mock.Mock
}

func (m *MockPasswordService) HashPassword(plainPassword string) (string, error) {
	args := m.Called(plainPassword)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordService) ComparePassword(plainPassword, hashedPassword string) bool {
	args := m.Called(plainPassword, hashedPassword)
	return args.Bool(0)
}

// MockTokenService is a mock implementation of service.TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) Mint(hospitalID uuid.UUID, email string, now time.Time) (string, time.Time, error) {
	args := m.Called(hospitalID, email, now)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockTokenService) Validate(token string) (*authDomain.Identity, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Identity), args.Error(1)
}

func validRegisterInput() *authDomain.RegisterHospitalInput {
	return &authDomain.RegisterHospitalInput{
		Email:    "stmarys@example.org",
		Password: "Secur3Pass!",
		Name:     "St. Mary's General Hospital",
		Address:  "1 Hospital Way",
		Phone:    "+1-555-0100",
	}
}

func TestHospitalUseCase_Register_Success(t *testing.T) {
	hospitalRepo := &MockHospitalRepository{}
	passwordService := &MockPasswordService{}
	tokenService := &MockTokenService{}

	passwordService.On("HashPassword", "Secur3Pass!").Return("$2a$12$hashed", nil)
	hospitalRepo.On("Create", mock.Anything, mock.MatchedBy(func(h *authDomain.Hospital) bool {
		return h.Email == "stmarys@example.org" &&
			h.PasswordHash == "$2a$12$hashed" &&
			h.Name == "St. Mary's General Hospital" &&
			h.ID != uuid.Nil
	})).Return(nil)

	useCase := NewHospitalUseCase(hospitalRepo, passwordService, tokenService)
	hospital, err := useCase.Register(context.Background(), validRegisterInput())

	require.NoError(t, err)
	assert.Equal(t, "stmarys@example.org", hospital.Email)
	assert.NotEqual(t, "Secur3Pass!", hospital.PasswordHash)
	hospitalRepo.AssertExpectations(t)
	passwordService.AssertExpectations(t)
}

func TestHospitalUseCase_Register_NormalizesEmail(t *testing.T) {
	hospitalRepo := &MockHospitalRepository{}
	passwordService := &MockPasswordService{}
	tokenService := &MockTokenService{}

	passwordService.On("HashPassword", mock.Anything).Return("$2a$12$hashed", nil)
	hospitalRepo.On("Create", mock.Anything, mock.MatchedBy(func(h *authDomain.Hospital) bool {
		return h.Email == "stmarys@example.org"
	})).Return(nil)

	input := validRegisterInput()
	input.Email = "StMarys@Example.ORG"

	useCase := NewHospitalUseCase(hospitalRepo, passwordService, tokenService)
	hospital, err := useCase.Register(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, "stmarys@example.org", hospital.Email)
	hospitalRepo.AssertExpectations(t)
}

func TestHospitalUseCase_Register_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(input *authDomain.RegisterHospitalInput)
	}{
		{
			name:   "empty email",
			mutate: func(input *authDomain.RegisterHospitalInput) { input.Email = "" },
		},
		{
			name:   "invalid email format",
			mutate: func(input *authDomain.RegisterHospitalInput) { input.Email = "not-an-email" },
		},
		{
			name:   "empty password",
			mutate: func(input *authDomain.RegisterHospitalInput) { input.Password = "" },
		},
		{
			name:   "short password",
			mutate: func(input *authDomain.RegisterHospitalInput) { input.Password = "Ab1!" },
		},
		{
			name:   "password without special character",
			mutate: func(input *authDomain.RegisterHospitalInput) { input.Password = "Secur3Pass" },
		},
		{
			name:   "empty name",
			mutate: func(input *authDomain.RegisterHospitalInput) { input.Name = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hospitalRepo := &MockHospitalRepository{}
			passwordService := &MockPasswordService{}
			tokenService := &MockTokenService{}

			input := validRegisterInput()
			tt.mutate(input)

			useCase := NewHospitalUseCase(hospitalRepo, passwordService, tokenService)
			hospital, err := useCase.Register(context.Background(), input)

			require.Error(t, err)
			assert.Nil(t, hospital)
			assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
			hospitalRepo.AssertNotCalled(t, "Create")
			passwordService.AssertNotCalled(t, "HashPassword")
		})
	}
}

func TestHospitalUseCase_Register_DuplicateEmail(t *testing.T) {
	hospitalRepo := &MockHospitalRepository{}
	passwordService := &MockPasswordService{}
	tokenService := &MockTokenService{}

	passwordService.On("HashPassword", mock.Anything).Return("$2a$12$hashed", nil)
	hospitalRepo.On("Create", mock.Anything, mock.Anything).Return(authDomain.ErrHospitalAlreadyExists)

	useCase := NewHospitalUseCase(hospitalRepo, passwordService, tokenService)
	hospital, err := useCase.Register(context.Background(), validRegisterInput())

	require.Error(t, err)
	assert.Nil(t, hospital)
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
	hospitalRepo.AssertExpectations(t)
}

func TestHospitalUseCase_Authenticate_Success(t *testing.T) {
	hospitalRepo := &MockHospitalRepository{}
	passwordService := &MockPasswordService{}
	tokenService := &MockTokenService{}

	hospitalID := uuid.Must(uuid.NewV7())
	hospital := &authDomain.Hospital{
		ID:           hospitalID,
		Email:        "stmarys@example.org",
		PasswordHash: "$2a$12$hashed",
	}
	expiresAt := time.Now().Add(24 * time.Hour)

	hospitalRepo.On("GetByEmail", mock.Anything, "stmarys@example.org").Return(hospital, nil)
	passwordService.On("ComparePassword", "Secur3Pass!", "$2a$12$hashed").Return(true)
	tokenService.On("Mint", hospitalID, "stmarys@example.org", mock.Anything).
		Return("signed-token", expiresAt, nil)

	useCase := NewHospitalUseCase(hospitalRepo, passwordService, tokenService)
	output, err := useCase.Authenticate(context.Background(), &authDomain.AuthenticateInput{
		Email:    "StMarys@example.org",
		Password: "Secur3Pass!",
	})

	require.NoError(t, err)
	assert.Equal(t, "signed-token", output.Token)
	assert.Equal(t, expiresAt, output.ExpiresAt)
	assert.Equal(t, hospitalID, output.HospitalID)
	hospitalRepo.AssertExpectations(t)
	passwordService.AssertExpectations(t)
	tokenService.AssertExpectations(t)
}

func TestHospitalUseCase_Authenticate_UnknownEmail(t *testing.T) {
	hospitalRepo := &MockHospitalRepository{}
	passwordService := &MockPasswordService{}
	tokenService := &MockTokenService{}

	hospitalRepo.On("GetByEmail", mock.Anything, "ghost@example.org").
		Return(nil, authDomain.ErrHospitalNotFound)

	useCase := NewHospitalUseCase(hospitalRepo, passwordService, tokenService)
	output, err := useCase.Authenticate(context.Background(), &authDomain.AuthenticateInput{
		Email:    "ghost@example.org",
		Password: "Secur3Pass!",
	})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
	passwordService.AssertNotCalled(t, "ComparePassword")
	tokenService.AssertNotCalled(t, "Mint")
}

func TestHospitalUseCase_Authenticate_WrongPassword(t *testing.T) {
	hospitalRepo := &MockHospitalRepository{}
	passwordService := &MockPasswordService{}
	tokenService := &MockTokenService{}

	hospital := &authDomain.Hospital{
		ID:           uuid.Must(uuid.NewV7()),
		Email:        "stmarys@example.org",
		PasswordHash: "$2a$12$hashed",
	}

	hospitalRepo.On("GetByEmail", mock.Anything, "stmarys@example.org").Return(hospital, nil)
	passwordService.On("ComparePassword", "WrongPass1!", "$2a$12$hashed").Return(false)

	useCase := NewHospitalUseCase(hospitalRepo, passwordService, tokenService)
	output, err := useCase.Authenticate(context.Background(), &authDomain.AuthenticateInput{
		Email:    "stmarys@example.org",
		Password: "WrongPass1!",
	})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
	tokenService.AssertNotCalled(t, "Mint")
}

func TestHospitalUseCase_Authenticate_SameErrorForBothFailureModes(t *testing.T) {
	// An unknown email and a wrong password must be indistinguishable to the caller.
	hospitalRepo := &MockHospitalRepository{}
	passwordService := &MockPasswordService{}
	tokenService := &MockTokenService{}

	hospital := &authDomain.Hospital{
		ID:           uuid.Must(uuid.NewV7()),
		Email:        "known@example.org",
		PasswordHash: "$2a$12$hashed",
	}

	hospitalRepo.On("GetByEmail", mock.Anything, "known@example.org").Return(hospital, nil)
	hospitalRepo.On("GetByEmail", mock.Anything, "unknown@example.org").
		Return(nil, authDomain.ErrHospitalNotFound)
	passwordService.On("ComparePassword", mock.Anything, mock.Anything).Return(false)

	useCase := NewHospitalUseCase(hospitalRepo, passwordService, tokenService)

	_, errUnknown := useCase.Authenticate(context.Background(), &authDomain.AuthenticateInput{
		Email:    "unknown@example.org",
		Password: "Secur3Pass!",
	})
	_, errWrongPassword := useCase.Authenticate(context.Background(), &authDomain.AuthenticateInput{
		Email:    "known@example.org",
		Password: "WrongPass1!",
	})

	assert.Equal(t, errUnknown, errWrongPassword)
}

func TestHospitalUseCase_ValidateToken(t *testing.T) {
	hospitalRepo := &MockHospitalRepository{}
	passwordService := &MockPasswordService{}
	tokenService := &MockTokenService{}

	identity := &authDomain.Identity{
		HospitalID: uuid.Must(uuid.NewV7()),
		Email:      "stmarys@example.org",
	}
	tokenService.On("Validate", "good-token").Return(identity, nil)
	tokenService.On("Validate", "bad-token").Return(nil, authDomain.ErrTokenMalformed)

	useCase := NewHospitalUseCase(hospitalRepo, passwordService, tokenService)

	got, err := useCase.ValidateToken(context.Background(), "good-token")
	require.NoError(t, err)
	assert.Equal(t, identity, got)

	got, err = useCase.ValidateToken(context.Background(), "bad-token")
	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
}

func TestHospitalUseCase_GetByID(t *testing.T) {
	hospitalRepo := &MockHospitalRepository{}
	passwordService := &MockPasswordService{}
	tokenService := &MockTokenService{}

	hospitalID := uuid.Must(uuid.NewV7())
	hospital := &authDomain.Hospital{ID: hospitalID, Email: "stmarys@example.org"}
	hospitalRepo.On("GetByID", mock.Anything, hospitalID).Return(hospital, nil)

	useCase := NewHospitalUseCase(hospitalRepo, passwordService, tokenService)
	got, err := useCase.GetByID(context.Background(), hospitalID)

	require.NoError(t, err)
	assert.Equal(t, hospital, got)
	hospitalRepo.AssertExpectations(t)
}

// memoryHospitalRepository is an in-memory repository enforcing email
// uniqueness under a mutex, standing in for the database constraint.
type memoryHospitalRepository struct {
	mu      sync.Mutex
	byEmail map[string]*authDomain.Hospital
}

func newMemoryHospitalRepository() *memoryHospitalRepository {
	return &memoryHospitalRepository{byEmail: make(map[string]*authDomain.Hospital)}
}

func (r *memoryHospitalRepository) Create(_ context.Context, hospital *authDomain.Hospital) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[hospital.Email]; ok {
		return authDomain.ErrHospitalAlreadyExists
	}
	r.byEmail[hospital.Email] = hospital
	return nil
}

func (r *memoryHospitalRepository) GetByID(_ context.Context, id uuid.UUID) (*authDomain.Hospital, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, h := range r.byEmail {
		if h.ID == id {
			return h, nil
		}
	}
	return nil, authDomain.ErrHospitalNotFound
}

func (r *memoryHospitalRepository) GetByEmail(_ context.Context, email string) (*authDomain.Hospital, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.byEmail[email]
	if !ok {
		return nil, authDomain.ErrHospitalNotFound
	}
	return h, nil
}

// TestHospitalUseCase_RegisterAuthenticateValidate exercises the full flow with
// real password and token services: register, log in, validate the minted
// token, and confirm a wrong password is rejected.
func TestHospitalUseCase_RegisterAuthenticateValidate(t *testing.T) {
	hospitalRepo := newMemoryHospitalRepository()
	// Minimum bcrypt cost keeps the test fast.
	passwordService, err := authService.NewPasswordService(authService.BcryptAlgorithm, 4)
	require.NoError(t, err)
	tokenService := authService.NewTokenService([]byte("test-signing-secret"), 24*time.Hour)

	useCase := NewHospitalUseCase(hospitalRepo, passwordService, tokenService)
	ctx := context.Background()

	hospital, err := useCase.Register(ctx, validRegisterInput())
	require.NoError(t, err)

	output, err := useCase.Authenticate(ctx, &authDomain.AuthenticateInput{
		Email:    "stmarys@example.org",
		Password: "Secur3Pass!",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, output.Token)
	assert.True(t, output.ExpiresAt.After(time.Now()))

	identity, err := useCase.ValidateToken(ctx, output.Token)
	require.NoError(t, err)
	assert.Equal(t, hospital.ID, identity.HospitalID)
	assert.Equal(t, "stmarys@example.org", identity.Email)

	_, err = useCase.Authenticate(ctx, &authDomain.AuthenticateInput{
		Email:    "stmarys@example.org",
		Password: "WrongPass1!",
	})
	assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
}

// TestHospitalUseCase_ConcurrentRegistration verifies that concurrent
// registrations with the same email produce exactly one account.
func TestHospitalUseCase_ConcurrentRegistration(t *testing.T) {
	hospitalRepo := newMemoryHospitalRepository()
	passwordService, err := authService.NewPasswordService(authService.BcryptAlgorithm, 4)
	require.NoError(t, err)
	tokenService := authService.NewTokenService([]byte("test-signing-secret"), 24*time.Hour)

	useCase := NewHospitalUseCase(hospitalRepo, passwordService, tokenService)
	ctx := context.Background()

	const attempts = 10
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = useCase.Register(ctx, validRegisterInput())
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
	}
	assert.Equal(t, 1, successes)
}
