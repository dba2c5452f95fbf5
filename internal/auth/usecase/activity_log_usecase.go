package usecase

import (
	"context"

	"github.com/google/uuid"

	authDomain "github.com/medrecordhq/medrecord/internal/auth/domain"
)

// activityLogUseCase records identity-bearing operations for auditing.
type activityLogUseCase struct {
	activityLogRepo ActivityLogRepository
}

// NewActivityLogUseCase creates a new ActivityLogUseCase.
func NewActivityLogUseCase(activityLogRepo ActivityLogRepository) ActivityLogUseCase {
	return &activityLogUseCase{activityLogRepo: activityLogRepo}
}

// Create records an activity log entry. Failures are returned to the caller,
// who decides whether the operation itself should fail; handlers log and
// continue so auditing never blocks the primary operation.
func (uc *activityLogUseCase) Create(
	ctx context.Context,
	requestID uuid.UUID,
	hospitalID uuid.UUID,
	operation authDomain.Operation,
	path string,
	metadata map[string]any,
) error {
	log := &authDomain.ActivityLog{
		ID:         uuid.Must(uuid.NewV7()),
		RequestID:  requestID,
		HospitalID: hospitalID,
		Operation:  operation,
		Path:       path,
		Metadata:   metadata,
	}
	return uc.activityLogRepo.Create(ctx, log)
}

// List retrieves a hospital's activity logs, newest first.
func (uc *activityLogUseCase) List(
	ctx context.Context,
	hospitalID uuid.UUID,
	offset, limit int,
) ([]*authDomain.ActivityLog, error) {
	return uc.activityLogRepo.ListByHospital(ctx, hospitalID, offset, limit)
}
