// Package usecase implements business logic orchestration for report operations.
package usecase

import (
	"context"
	"io"
	"path"
	"strings"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	apperrors "github.com/medrecordhq/medrecord/internal/errors"
	patientDomain "github.com/medrecordhq/medrecord/internal/patient/domain"
	"github.com/medrecordhq/medrecord/internal/report/domain"
	"github.com/medrecordhq/medrecord/internal/report/service"
	appValidation "github.com/medrecordhq/medrecord/internal/validation"
)

// UseCase defines the interface for report business logic operations.
// All operations are scoped by the authenticated hospital id; report access
// through a patient the hospital does not own surfaces as not-found.
type UseCase interface {
	// Upload stores the file bytes in the blob bucket and persists the
	// report metadata row.
	Upload(
		ctx context.Context,
		hospitalID, patientID uuid.UUID,
		filename, contentType string,
		size int64,
		file io.Reader,
	) (*domain.Report, error)

	// ListByPatient retrieves a patient's report metadata, newest first.
	ListByPatient(
		ctx context.Context,
		hospitalID, patientID uuid.UUID,
		offset, limit int,
	) ([]*domain.Report, error)

	// Download returns the report metadata and a reader over the file bytes.
	// The caller must close the reader.
	Download(ctx context.Context, hospitalID, reportID uuid.UUID) (*domain.Report, io.ReadCloser, error)

	// CreateAIReport stores an AI-generated report document for a patient.
	CreateAIReport(
		ctx context.Context,
		hospitalID, patientID uuid.UUID,
		input *domain.CreateAIReportInput,
	) (*domain.AIReport, error)

	// ListAIReportsByPatient retrieves a patient's AI reports, newest first.
	ListAIReportsByPatient(
		ctx context.Context,
		hospitalID, patientID uuid.UUID,
		offset, limit int,
	) ([]*domain.AIReport, error)

	// GetAIReport retrieves a single AI report owned by the hospital.
	GetAIReport(ctx context.Context, hospitalID, aiReportID uuid.UUID) (*domain.AIReport, error)
}

// ReportRepository defines report metadata persistence operations.
type ReportRepository interface {
	Create(ctx context.Context, report *domain.Report) error
	GetByID(ctx context.Context, hospitalID, reportID uuid.UUID) (*domain.Report, error)
	ListByPatient(
		ctx context.Context,
		hospitalID, patientID uuid.UUID,
		offset, limit int,
	) ([]*domain.Report, error)
}

// AIReportRepository defines AI report persistence operations.
type AIReportRepository interface {
	Create(ctx context.Context, report *domain.AIReport) error
	GetByID(ctx context.Context, hospitalID, aiReportID uuid.UUID) (*domain.AIReport, error)
	ListByPatient(
		ctx context.Context,
		hospitalID, patientID uuid.UUID,
		offset, limit int,
	) ([]*domain.AIReport, error)
}

// PatientVerifier confirms a patient exists and belongs to the hospital
// before any report is attached to it.
type PatientVerifier interface {
	GetByID(ctx context.Context, hospitalID, patientID uuid.UUID) (*patientDomain.Patient, error)
}

// maxReportSize caps uploaded report files at 50 MiB.
const maxReportSize = 50 << 20

// ReportUseCase handles report-related business logic
type ReportUseCase struct {
	reportRepo   ReportRepository
	aiReportRepo AIReportRepository
	patients     PatientVerifier
	storage      service.FileStorage
}

// NewReportUseCase creates a new ReportUseCase
func NewReportUseCase(
	reportRepo ReportRepository,
	aiReportRepo AIReportRepository,
	patients PatientVerifier,
	storage service.FileStorage,
) UseCase {
	return &ReportUseCase{
		reportRepo:   reportRepo,
		aiReportRepo: aiReportRepo,
		patients:     patients,
		storage:      storage,
	}
}

// Upload stores the file bytes and persists the metadata row. The storage key
// is derived from the owning hospital, patient and report ids so keys never
// collide and never leak across tenants.
func (uc *ReportUseCase) Upload(
	ctx context.Context,
	hospitalID, patientID uuid.UUID,
	filename, contentType string,
	size int64,
	file io.Reader,
) (*domain.Report, error) {
	if err := validateUpload(filename, size); err != nil {
		return nil, err
	}

	// Confirm patient ownership first.
	if _, err := uc.patients.GetByID(ctx, hospitalID, patientID); err != nil {
		return nil, err
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	report := &domain.Report{
		ID:          uuid.Must(uuid.NewV7()),
		HospitalID:  hospitalID,
		PatientID:   patientID,
		Filename:    sanitizeFilename(filename),
		ContentType: contentType,
		Size:        size,
	}
	report.StorageKey = path.Join(hospitalID.String(), patientID.String(), report.ID.String())

	if err := uc.storage.Save(ctx, report.StorageKey, contentType, io.LimitReader(file, maxReportSize)); err != nil {
		return nil, err
	}

	if err := uc.reportRepo.Create(ctx, report); err != nil {
		// Best effort: don't leave orphaned bytes behind a failed metadata insert.
		_ = uc.storage.Delete(ctx, report.StorageKey)
		return nil, err
	}

	return report, nil
}

// ListByPatient retrieves a patient's report metadata, newest first.
func (uc *ReportUseCase) ListByPatient(
	ctx context.Context,
	hospitalID, patientID uuid.UUID,
	offset, limit int,
) ([]*domain.Report, error) {
	if _, err := uc.patients.GetByID(ctx, hospitalID, patientID); err != nil {
		return nil, err
	}
	return uc.reportRepo.ListByPatient(ctx, hospitalID, patientID, offset, limit)
}

// Download returns the report metadata and a reader over the stored bytes.
func (uc *ReportUseCase) Download(
	ctx context.Context,
	hospitalID, reportID uuid.UUID,
) (*domain.Report, io.ReadCloser, error) {
	report, err := uc.reportRepo.GetByID(ctx, hospitalID, reportID)
	if err != nil {
		return nil, nil, err
	}

	r, err := uc.storage.Open(ctx, report.StorageKey)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "failed to open report file")
	}

	return report, r, nil
}

// CreateAIReport stores an AI-generated report document for a patient.
func (uc *ReportUseCase) CreateAIReport(
	ctx context.Context,
	hospitalID, patientID uuid.UUID,
	input *domain.CreateAIReportInput,
) (*domain.AIReport, error) {
	if err := validateAIReport(input); err != nil {
		return nil, err
	}

	if _, err := uc.patients.GetByID(ctx, hospitalID, patientID); err != nil {
		return nil, err
	}

	aiReport := &domain.AIReport{
		ID:         uuid.Must(uuid.NewV7()),
		HospitalID: hospitalID,
		PatientID:  patientID,
		Summary:    strings.TrimSpace(input.Summary),
		Findings:   input.Findings,
		ModelName:  strings.TrimSpace(input.ModelName),
	}

	if err := uc.aiReportRepo.Create(ctx, aiReport); err != nil {
		return nil, err
	}

	return aiReport, nil
}

// ListAIReportsByPatient retrieves a patient's AI reports, newest first.
func (uc *ReportUseCase) ListAIReportsByPatient(
	ctx context.Context,
	hospitalID, patientID uuid.UUID,
	offset, limit int,
) ([]*domain.AIReport, error) {
	if _, err := uc.patients.GetByID(ctx, hospitalID, patientID); err != nil {
		return nil, err
	}
	return uc.aiReportRepo.ListByPatient(ctx, hospitalID, patientID, offset, limit)
}

// GetAIReport retrieves a single AI report owned by the hospital.
func (uc *ReportUseCase) GetAIReport(
	ctx context.Context,
	hospitalID, aiReportID uuid.UUID,
) (*domain.AIReport, error) {
	return uc.aiReportRepo.GetByID(ctx, hospitalID, aiReportID)
}

func validateUpload(filename string, size int64) error {
	err := validation.Validate(filename,
		validation.Required.Error("filename is required"),
		appValidation.NotBlank,
		validation.Length(1, 255).Error("filename must be between 1 and 255 characters"),
	)
	if err != nil {
		return appValidation.WrapValidationError(err)
	}

	if size <= 0 {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "file must not be empty")
	}
	if size > maxReportSize {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "file exceeds the maximum allowed size")
	}
	return nil
}

func validateAIReport(input *domain.CreateAIReportInput) error {
	err := validation.ValidateStruct(input,
		validation.Field(&input.Summary,
			validation.Required.Error("summary is required"),
			appValidation.NotBlank,
		),
		validation.Field(&input.ModelName,
			validation.Required.Error("model_name is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("model_name must be between 1 and 255 characters"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// sanitizeFilename strips any path components from an uploaded filename.
func sanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "\\", "/")
	return path.Base(strings.TrimSpace(filename))
}
