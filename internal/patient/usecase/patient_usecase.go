// Package usecase implements business logic orchestration for patient operations.
package usecase

import (
	"context"
	"strings"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	"github.com/medrecordhq/medrecord/internal/patient/domain"
	appValidation "github.com/medrecordhq/medrecord/internal/validation"
)

// UseCase defines the interface for patient business logic operations.
// All operations are scoped by the authenticated hospital id.
type UseCase interface {
	Create(ctx context.Context, hospitalID uuid.UUID, input *domain.CreatePatientInput) (*domain.Patient, error)
	Get(ctx context.Context, hospitalID, patientID uuid.UUID) (*domain.Patient, error)
	List(ctx context.Context, hospitalID uuid.UUID, offset, limit int) ([]*domain.Patient, error)
	Update(
		ctx context.Context,
		hospitalID, patientID uuid.UUID,
		input *domain.UpdatePatientInput,
	) (*domain.Patient, error)
	Delete(ctx context.Context, hospitalID, patientID uuid.UUID) error
}

// PatientRepository defines patient persistence operations. Every query takes
// the owning hospital id so cross-hospital access degenerates to not-found.
type PatientRepository interface {
	Create(ctx context.Context, patient *domain.Patient) error
	GetByID(ctx context.Context, hospitalID, patientID uuid.UUID) (*domain.Patient, error)
	ListByHospital(ctx context.Context, hospitalID uuid.UUID, offset, limit int) ([]*domain.Patient, error)
	Update(ctx context.Context, patient *domain.Patient) error
	Delete(ctx context.Context, hospitalID, patientID uuid.UUID) error
}

// PatientUseCase handles patient-related business logic
type PatientUseCase struct {
	patientRepo PatientRepository
}

// NewPatientUseCase creates a new PatientUseCase
func NewPatientUseCase(patientRepo PatientRepository) UseCase {
	return &PatientUseCase{patientRepo: patientRepo}
}

func validatePatientFields(name string, age int, gender string) error {
	err := validation.Validate(name,
		validation.Required.Error("name is required"),
		appValidation.NotBlank,
		validation.Length(1, 255).Error("name must be between 1 and 255 characters"),
	)
	if err != nil {
		return appValidation.WrapValidationError(err)
	}

	err = validation.Validate(age,
		validation.Min(0).Error("age must not be negative"),
		validation.Max(150).Error("age must be at most 150"),
	)
	if err != nil {
		return appValidation.WrapValidationError(err)
	}

	err = validation.Validate(gender,
		validation.Length(0, 32).Error("gender must be at most 32 characters"),
	)
	return appValidation.WrapValidationError(err)
}

// Create validates and persists a new patient record for the hospital.
func (uc *PatientUseCase) Create(
	ctx context.Context,
	hospitalID uuid.UUID,
	input *domain.CreatePatientInput,
) (*domain.Patient, error) {
	if err := validatePatientFields(input.Name, input.Age, input.Gender); err != nil {
		return nil, err
	}

	patient := &domain.Patient{
		ID:             uuid.Must(uuid.NewV7()),
		HospitalID:     hospitalID,
		Name:           strings.TrimSpace(input.Name),
		Age:            input.Age,
		Gender:         strings.TrimSpace(input.Gender),
		Diagnosis:      strings.TrimSpace(input.Diagnosis),
		MedicalHistory: input.MedicalHistory,
	}

	if err := uc.patientRepo.Create(ctx, patient); err != nil {
		return nil, err
	}

	return patient, nil
}

// Get retrieves a patient owned by the hospital.
func (uc *PatientUseCase) Get(ctx context.Context, hospitalID, patientID uuid.UUID) (*domain.Patient, error) {
	return uc.patientRepo.GetByID(ctx, hospitalID, patientID)
}

// List retrieves the hospital's patients with pagination.
func (uc *PatientUseCase) List(
	ctx context.Context,
	hospitalID uuid.UUID,
	offset, limit int,
) ([]*domain.Patient, error) {
	return uc.patientRepo.ListByHospital(ctx, hospitalID, offset, limit)
}

// Update validates and applies a full update to a patient owned by the hospital.
func (uc *PatientUseCase) Update(
	ctx context.Context,
	hospitalID, patientID uuid.UUID,
	input *domain.UpdatePatientInput,
) (*domain.Patient, error) {
	if err := validatePatientFields(input.Name, input.Age, input.Gender); err != nil {
		return nil, err
	}

	// Confirm ownership before mutating.
	patient, err := uc.patientRepo.GetByID(ctx, hospitalID, patientID)
	if err != nil {
		return nil, err
	}

	patient.Name = strings.TrimSpace(input.Name)
	patient.Age = input.Age
	patient.Gender = strings.TrimSpace(input.Gender)
	patient.Diagnosis = strings.TrimSpace(input.Diagnosis)
	patient.MedicalHistory = input.MedicalHistory

	if err := uc.patientRepo.Update(ctx, patient); err != nil {
		return nil, err
	}

	return patient, nil
}

// Delete removes a patient owned by the hospital.
func (uc *PatientUseCase) Delete(ctx context.Context, hospitalID, patientID uuid.UUID) error {
	return uc.patientRepo.Delete(ctx, hospitalID, patientID)
}
