package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/medrecordhq/medrecord/internal/database"
	apperrors "github.com/medrecordhq/medrecord/internal/errors"
	"github.com/medrecordhq/medrecord/internal/report/domain"
)

// PostgreSQLAIReportRepository handles AI report persistence for PostgreSQL
type PostgreSQLAIReportRepository struct {
	db *sql.DB
}

// NewPostgreSQLAIReportRepository creates a new PostgreSQLAIReportRepository
func NewPostgreSQLAIReportRepository(db *sql.DB) *PostgreSQLAIReportRepository {
	return &PostgreSQLAIReportRepository{db: db}
}

// Create inserts a new AI report
func (r *PostgreSQLAIReportRepository) Create(ctx context.Context, report *domain.AIReport) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO ai_reports
			  (id, hospital_id, patient_id, summary, findings, model_name, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, NOW())`

	_, err := querier.ExecContext(
		ctx,
		query,
		report.ID,
		report.HospitalID,
		report.PatientID,
		report.Summary,
		report.Findings,
		report.ModelName,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create ai report")
	}
	return nil
}

// GetByID retrieves an AI report scoped by the owning hospital.
func (r *PostgreSQLAIReportRepository) GetByID(
	ctx context.Context,
	hospitalID, aiReportID uuid.UUID,
) (*domain.AIReport, error) {
	var report domain.AIReport
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, hospital_id, patient_id, summary, findings, model_name, created_at
			  FROM ai_reports WHERE id = $1 AND hospital_id = $2`

	err := querier.QueryRowContext(ctx, query, aiReportID, hospitalID).Scan(
		&report.ID,
		&report.HospitalID,
		&report.PatientID,
		&report.Summary,
		&report.Findings,
		&report.ModelName,
		&report.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAIReportNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get ai report by id")
	}

	return &report, nil
}

// ListByPatient retrieves a patient's AI reports ordered by ID descending
// (newest first) with pagination.
func (r *PostgreSQLAIReportRepository) ListByPatient(
	ctx context.Context,
	hospitalID, patientID uuid.UUID,
	offset, limit int,
) ([]*domain.AIReport, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, hospital_id, patient_id, summary, findings, model_name, created_at
			  FROM ai_reports
			  WHERE hospital_id = $1 AND patient_id = $2
			  ORDER BY id DESC
			  LIMIT $3 OFFSET $4`

	rows, err := querier.QueryContext(ctx, query, hospitalID, patientID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list ai reports")
	}
	defer func() {
		_ = rows.Close()
	}()

	reports := make([]*domain.AIReport, 0)
	for rows.Next() {
		var report domain.AIReport
		err := rows.Scan(
			&report.ID,
			&report.HospitalID,
			&report.PatientID,
			&report.Summary,
			&report.Findings,
			&report.ModelName,
			&report.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan ai report")
		}
		reports = append(reports, &report)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate ai reports")
	}

	return reports, nil
}
