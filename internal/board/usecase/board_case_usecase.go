// Package usecase implements business logic orchestration for tumor board cases.
package usecase

import (
	"context"
	"strings"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	"github.com/medrecordhq/medrecord/internal/board/domain"
	"github.com/medrecordhq/medrecord/internal/database"
	patientDomain "github.com/medrecordhq/medrecord/internal/patient/domain"
	appValidation "github.com/medrecordhq/medrecord/internal/validation"
)

// UseCase defines the interface for tumor board business logic operations.
// All operations are scoped by the authenticated hospital id.
type UseCase interface {
	Create(ctx context.Context, hospitalID uuid.UUID, input *domain.CreateBoardCaseInput) (*domain.BoardCase, error)
	Get(ctx context.Context, hospitalID, caseID uuid.UUID) (*domain.BoardCase, error)
	List(ctx context.Context, hospitalID uuid.UUID, offset, limit int) ([]*domain.BoardCase, error)
	Update(
		ctx context.Context,
		hospitalID, caseID uuid.UUID,
		input *domain.UpdateBoardCaseInput,
	) (*domain.BoardCase, error)
	Transition(ctx context.Context, hospitalID, caseID uuid.UUID, next domain.Status) (*domain.BoardCase, error)
	Delete(ctx context.Context, hospitalID, caseID uuid.UUID) error
}

// BoardCaseRepository defines board case persistence operations. Every query
// takes the owning hospital id so cross-hospital access degenerates to
// not-found.
type BoardCaseRepository interface {
	Create(ctx context.Context, boardCase *domain.BoardCase) error
	GetByID(ctx context.Context, hospitalID, caseID uuid.UUID) (*domain.BoardCase, error)
	ListByHospital(ctx context.Context, hospitalID uuid.UUID, offset, limit int) ([]*domain.BoardCase, error)
	Update(ctx context.Context, boardCase *domain.BoardCase) error
	Delete(ctx context.Context, hospitalID, caseID uuid.UUID) error
}

// PatientVerifier confirms a patient exists and belongs to the hospital
// before a case is opened for it.
type PatientVerifier interface {
	GetByID(ctx context.Context, hospitalID, patientID uuid.UUID) (*patientDomain.Patient, error)
}

// BoardCaseUseCase handles tumor board business logic
type BoardCaseUseCase struct {
	boardCaseRepo BoardCaseRepository
	patients      PatientVerifier
	txManager     database.TxManager
}

// NewBoardCaseUseCase creates a new BoardCaseUseCase
func NewBoardCaseUseCase(
	boardCaseRepo BoardCaseRepository,
	patients PatientVerifier,
	txManager database.TxManager,
) UseCase {
	return &BoardCaseUseCase{boardCaseRepo: boardCaseRepo, patients: patients, txManager: txManager}
}

func validateBoardCaseFields(title, summary string) error {
	err := validation.Validate(title,
		validation.Required.Error("title is required"),
		appValidation.NotBlank,
		validation.Length(1, 255).Error("title must be between 1 and 255 characters"),
	)
	if err != nil {
		return appValidation.WrapValidationError(err)
	}

	err = validation.Validate(summary,
		validation.Length(0, 5000).Error("summary must be at most 5000 characters"),
	)
	return appValidation.WrapValidationError(err)
}

// Create validates and persists a new board case. New cases always start open.
func (uc *BoardCaseUseCase) Create(
	ctx context.Context,
	hospitalID uuid.UUID,
	input *domain.CreateBoardCaseInput,
) (*domain.BoardCase, error) {
	if err := validateBoardCaseFields(input.Title, input.Summary); err != nil {
		return nil, err
	}

	// Confirm patient ownership first.
	if _, err := uc.patients.GetByID(ctx, hospitalID, input.PatientID); err != nil {
		return nil, err
	}

	boardCase := &domain.BoardCase{
		ID:           uuid.Must(uuid.NewV7()),
		HospitalID:   hospitalID,
		PatientID:    input.PatientID,
		Title:        strings.TrimSpace(input.Title),
		Summary:      strings.TrimSpace(input.Summary),
		Status:       domain.StatusOpen,
		ScheduledFor: input.ScheduledFor,
	}

	if err := uc.boardCaseRepo.Create(ctx, boardCase); err != nil {
		return nil, err
	}

	return boardCase, nil
}

// Get retrieves a board case owned by the hospital.
func (uc *BoardCaseUseCase) Get(ctx context.Context, hospitalID, caseID uuid.UUID) (*domain.BoardCase, error) {
	return uc.boardCaseRepo.GetByID(ctx, hospitalID, caseID)
}

// List retrieves the hospital's board cases with pagination.
func (uc *BoardCaseUseCase) List(
	ctx context.Context,
	hospitalID uuid.UUID,
	offset, limit int,
) ([]*domain.BoardCase, error) {
	return uc.boardCaseRepo.ListByHospital(ctx, hospitalID, offset, limit)
}

// Update validates and applies a full update to a board case's descriptive
// fields. The status only changes through Transition.
func (uc *BoardCaseUseCase) Update(
	ctx context.Context,
	hospitalID, caseID uuid.UUID,
	input *domain.UpdateBoardCaseInput,
) (*domain.BoardCase, error) {
	if err := validateBoardCaseFields(input.Title, input.Summary); err != nil {
		return nil, err
	}

	// Confirm ownership before mutating.
	boardCase, err := uc.boardCaseRepo.GetByID(ctx, hospitalID, caseID)
	if err != nil {
		return nil, err
	}

	boardCase.Title = strings.TrimSpace(input.Title)
	boardCase.Summary = strings.TrimSpace(input.Summary)
	boardCase.ScheduledFor = input.ScheduledFor

	if err := uc.boardCaseRepo.Update(ctx, boardCase); err != nil {
		return nil, err
	}

	return boardCase, nil
}

// Transition moves a board case to the next status. Backward moves and
// unknown statuses are rejected. The read and write run in one transaction so
// concurrent transitions cannot skip the forward-only check.
func (uc *BoardCaseUseCase) Transition(
	ctx context.Context,
	hospitalID, caseID uuid.UUID,
	next domain.Status,
) (*domain.BoardCase, error) {
	var boardCase *domain.BoardCase

	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		boardCase, err = uc.boardCaseRepo.GetByID(ctx, hospitalID, caseID)
		if err != nil {
			return err
		}

		if !boardCase.Status.CanTransitionTo(next) {
			return domain.ErrInvalidStatusTransition
		}

		boardCase.Status = next
		return uc.boardCaseRepo.Update(ctx, boardCase)
	})
	if err != nil {
		return nil, err
	}

	return boardCase, nil
}

// Delete removes a board case owned by the hospital.
func (uc *BoardCaseUseCase) Delete(ctx context.Context, hospitalID, caseID uuid.UUID) error {
	return uc.boardCaseRepo.Delete(ctx, hospitalID, caseID)
}
