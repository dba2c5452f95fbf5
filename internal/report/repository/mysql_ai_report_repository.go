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

// MySQLAIReportRepository handles AI report persistence for MySQL.
// UUIDs are stored as BINARY(16) columns.
type MySQLAIReportRepository struct {
	db *sql.DB
}

// NewMySQLAIReportRepository creates a new MySQLAIReportRepository
func NewMySQLAIReportRepository(db *sql.DB) *MySQLAIReportRepository {
	return &MySQLAIReportRepository{db: db}
}

// Create inserts a new AI report
func (r *MySQLAIReportRepository) Create(ctx context.Context, report *domain.AIReport) error {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := report.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	hospitalIDBytes, err := report.HospitalID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal hospital UUID")
	}
	patientIDBytes, err := report.PatientID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal patient UUID")
	}

	query := `INSERT INTO ai_reports
			  (id, hospital_id, patient_id, summary, findings, model_name, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, NOW())`

	_, err = querier.ExecContext(
		ctx,
		query,
		idBytes,
		hospitalIDBytes,
		patientIDBytes,
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
func (r *MySQLAIReportRepository) GetByID(
	ctx context.Context,
	hospitalID, aiReportID uuid.UUID,
) (*domain.AIReport, error) {
	var report domain.AIReport
	querier := database.GetTx(ctx, r.db)

	aiReportIDBytes, err := aiReportID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}
	hospitalIDBytes, err := hospitalID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal hospital UUID")
	}

	query := `SELECT id, hospital_id, patient_id, summary, findings, model_name, created_at
			  FROM ai_reports WHERE id = ? AND hospital_id = ?`

	var idBytes, hospitalBytes, patientBytes []byte
	err = querier.QueryRowContext(ctx, query, aiReportIDBytes, hospitalIDBytes).Scan(
		&idBytes,
		&hospitalBytes,
		&patientBytes,
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

	if err := report.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	if err := report.HospitalID.UnmarshalBinary(hospitalBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal hospital UUID")
	}
	if err := report.PatientID.UnmarshalBinary(patientBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal patient UUID")
	}

	return &report, nil
}

// ListByPatient retrieves a patient's AI reports ordered by ID descending
// (newest first) with pagination.
func (r *MySQLAIReportRepository) ListByPatient(
	ctx context.Context,
	hospitalID, patientID uuid.UUID,
	offset, limit int,
) ([]*domain.AIReport, error) {
	querier := database.GetTx(ctx, r.db)

	hospitalIDBytes, err := hospitalID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal hospital UUID")
	}
	patientIDBytes, err := patientID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal patient UUID")
	}

	query := `SELECT id, hospital_id, patient_id, summary, findings, model_name, created_at
			  FROM ai_reports
			  WHERE hospital_id = ? AND patient_id = ?
			  ORDER BY id DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, hospitalIDBytes, patientIDBytes, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list ai reports")
	}
	defer func() {
		_ = rows.Close()
	}()

	reports := make([]*domain.AIReport, 0)
	for rows.Next() {
		var report domain.AIReport
		var idBytes, hospitalBytes, patientBytes []byte
		err := rows.Scan(
			&idBytes,
			&hospitalBytes,
			&patientBytes,
			&report.Summary,
			&report.Findings,
			&report.ModelName,
			&report.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan ai report")
		}
		if err := report.ID.UnmarshalBinary(idBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
		}
		if err := report.HospitalID.UnmarshalBinary(hospitalBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal hospital UUID")
		}
		if err := report.PatientID.UnmarshalBinary(patientBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal patient UUID")
		}
		reports = append(reports, &report)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate ai reports")
	}

	return reports, nil
}
