package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/medrecordhq/medrecord/internal/auth/domain"
	"github.com/medrecordhq/medrecord/internal/metrics"
)

// hospitalUseCaseWithMetrics decorates HospitalUseCase with metrics instrumentation.
type hospitalUseCaseWithMetrics struct {
	next    HospitalUseCase
	metrics metrics.BusinessMetrics
}

// NewHospitalUseCaseWithMetrics wraps a HospitalUseCase with metrics recording.
func NewHospitalUseCaseWithMetrics(useCase HospitalUseCase, m metrics.BusinessMetrics) HospitalUseCase {
	return &hospitalUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Register records metrics for hospital registration operations.
func (h *hospitalUseCaseWithMetrics) Register(
	ctx context.Context,
	input *authDomain.RegisterHospitalInput,
) (*authDomain.Hospital, error) {
	start := time.Now()
	hospital, err := h.next.Register(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	h.metrics.RecordOperation(ctx, "auth", "register", status)
	h.metrics.RecordDuration(ctx, "auth", "register", time.Since(start), status)

	return hospital, err
}

// Authenticate records metrics for login operations.
func (h *hospitalUseCaseWithMetrics) Authenticate(
	ctx context.Context,
	input *authDomain.AuthenticateInput,
) (*authDomain.AuthenticateOutput, error) {
	start := time.Now()
	output, err := h.next.Authenticate(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	h.metrics.RecordOperation(ctx, "auth", "authenticate", status)
	h.metrics.RecordDuration(ctx, "auth", "authenticate", time.Since(start), status)

	return output, err
}

// ValidateToken records metrics for token validation operations.
func (h *hospitalUseCaseWithMetrics) ValidateToken(
	ctx context.Context,
	token string,
) (*authDomain.Identity, error) {
	start := time.Now()
	identity, err := h.next.ValidateToken(ctx, token)

	status := "success"
	if err != nil {
		status = "error"
	}

	h.metrics.RecordOperation(ctx, "auth", "validate_token", status)
	h.metrics.RecordDuration(ctx, "auth", "validate_token", time.Since(start), status)

	return identity, err
}

// GetByID records metrics for hospital retrieval operations.
func (h *hospitalUseCaseWithMetrics) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*authDomain.Hospital, error) {
	start := time.Now()
	hospital, err := h.next.GetByID(ctx, id)

	status := "success"
	if err != nil {
		status = "error"
	}

	h.metrics.RecordOperation(ctx, "auth", "hospital_get", status)
	h.metrics.RecordDuration(ctx, "auth", "hospital_get", time.Since(start), status)

	return hospital, err
}
