package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	authDomain "github.com/medrecordhq/medrecord/internal/auth/domain"
	apperrors "github.com/medrecordhq/medrecord/internal/errors"
)

// tokenIssuer identifies tokens minted by this service.
const tokenIssuer = "medrecord"

// Claims is the JWT payload carried by access tokens.
type Claims struct {
	HospitalID string `json:"hospital_id"`
	Email      string `json:"email"`
	jwt.RegisteredClaims
}

// tokenService implements TokenService using HS256-signed JWTs.
// The signing secret is fixed at construction and never mutated, so the
// service is safe to share across arbitrarily many concurrent requests.
type tokenService struct {
	secret   []byte
	lifetime time.Duration
}

// Mint creates a signed access token embedding the hospital identity.
func (t *tokenService) Mint(
	hospitalID uuid.UUID,
	email string,
	now time.Time,
) (string, time.Time, error) {
	expiresAt := now.Add(t.lifetime)

	claims := Claims{
		HospitalID: hospitalID.String(),
		Email:      email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, apperrors.Wrap(err, "failed to sign token")
	}

	return signed, expiresAt, nil
}

// Validate verifies the token's signature, algorithm, and expiry, and returns
// the embedded hospital identity. The accepted signing method is pinned to
// HS256; tokens claiming any other algorithm fail signature validation.
func (t *tokenService) Validate(token string) (*authDomain.Identity, error) {
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil {
		return nil, classifyTokenError(err)
	}

	if !parsed.Valid {
		return nil, authDomain.ErrTokenMalformed
	}

	hospitalID, err := uuid.Parse(claims.HospitalID)
	if err != nil {
		return nil, authDomain.ErrTokenMalformed
	}

	return &authDomain.Identity{
		HospitalID: hospitalID,
		Email:      claims.Email,
	}, nil
}

// classifyTokenError maps jwt parse failures onto the domain's token error
// sentinels. All of them unwrap to ErrUnauthorized for external callers while
// staying distinguishable for internal logging.
func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return authDomain.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return authDomain.ErrSignatureInvalid
	default:
		return authDomain.ErrTokenMalformed
	}
}

// NewTokenService creates a TokenService signing with the given process-wide
// secret and token lifetime.
func NewTokenService(secret []byte, lifetime time.Duration) TokenService {
	return &tokenService{
		secret:   secret,
		lifetime: lifetime,
	}
}
