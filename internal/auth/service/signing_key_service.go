package service

import (
	"context"
	"encoding/base64"

	"gocloud.dev/secrets"

	apperrors "github.com/medrecordhq/medrecord/internal/errors"

	// Register KMS provider drivers for signing secret decryption
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// SigningKeyService resolves the process-wide token signing secret at startup.
// The secret is either supplied directly or as a KMS-encrypted ciphertext
// decrypted through a gocloud.dev secrets keeper. After resolution the secret
// is immutable for the process lifetime; rotation requires a restart.
type SigningKeyService interface {
	// ResolveSecret returns the signing secret. When ciphertext is non-empty
	// it is base64-decoded and decrypted through the keeper at kmsKeyURI;
	// otherwise plainSecret is returned as-is.
	ResolveSecret(ctx context.Context, plainSecret, ciphertext, kmsKeyURI string) ([]byte, error)
}

// signingKeyService implements SigningKeyService using gocloud.dev/secrets.
type signingKeyService struct{}

// NewSigningKeyService creates a new signing key service instance.
func NewSigningKeyService() SigningKeyService {
	return &signingKeyService{}
}

// ResolveSecret resolves the token signing secret.
// Supported keeper URIs: gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://
func (s *signingKeyService) ResolveSecret(
	ctx context.Context,
	plainSecret, ciphertext, kmsKeyURI string,
) ([]byte, error) {
	if ciphertext == "" {
		if plainSecret == "" {
			return nil, apperrors.New("token signing secret is not configured")
		}
		return []byte(plainSecret), nil
	}

	if kmsKeyURI == "" {
		return nil, apperrors.New("AUTH_TOKEN_SECRET_CIPHERTEXT is set but KMS_KEY_URI is empty")
	}

	encrypted, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to decode signing secret ciphertext")
	}

	keeper, err := secrets.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to open KMS keeper")
	}
	defer func() {
		_ = keeper.Close()
	}()

	secret, err := keeper.Decrypt(ctx, encrypted)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to decrypt signing secret")
	}

	return secret, nil
}
