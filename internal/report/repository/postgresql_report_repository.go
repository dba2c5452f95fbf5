// Package repository provides data persistence implementations for report entities.
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

// PostgreSQLReportRepository handles report metadata persistence for PostgreSQL
type PostgreSQLReportRepository struct {
	db *sql.DB
}

// NewPostgreSQLReportRepository creates a new PostgreSQLReportRepository
func NewPostgreSQLReportRepository(db *sql.DB) *PostgreSQLReportRepository {
	return &PostgreSQLReportRepository{db: db}
}

// Create inserts a new report metadata row
func (r *PostgreSQLReportRepository) Create(ctx context.Context, report *domain.Report) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO reports
			  (id, hospital_id, patient_id, filename, content_type, size, storage_key, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())`

	_, err := querier.ExecContext(
		ctx,
		query,
		report.ID,
		report.HospitalID,
		report.PatientID,
		report.Filename,
		report.ContentType,
		report.Size,
		report.StorageKey,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create report")
	}
	return nil
}

// GetByID retrieves a report scoped by the owning hospital.
func (r *PostgreSQLReportRepository) GetByID(
	ctx context.Context,
	hospitalID, reportID uuid.UUID,
) (*domain.Report, error) {
	var report domain.Report
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, hospital_id, patient_id, filename, content_type, size, storage_key, created_at
			  FROM reports WHERE id = $1 AND hospital_id = $2`

	err := querier.QueryRowContext(ctx, query, reportID, hospitalID).Scan(
		&report.ID,
		&report.HospitalID,
		&report.PatientID,
		&report.Filename,
		&report.ContentType,
		&report.Size,
		&report.StorageKey,
		&report.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrReportNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get report by id")
	}

	return &report, nil
}

// ListByPatient retrieves a patient's reports ordered by ID descending
// (newest first) with pagination.
func (r *PostgreSQLReportRepository) ListByPatient(
	ctx context.Context,
	hospitalID, patientID uuid.UUID,
	offset, limit int,
) ([]*domain.Report, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, hospital_id, patient_id, filename, content_type, size, storage_key, created_at
			  FROM reports
			  WHERE hospital_id = $1 AND patient_id = $2
			  ORDER BY id DESC
			  LIMIT $3 OFFSET $4`

	rows, err := querier.QueryContext(ctx, query, hospitalID, patientID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list reports")
	}
	defer func() {
		_ = rows.Close()
	}()

	reports := make([]*domain.Report, 0)
	for rows.Next() {
		var report domain.Report
		err := rows.Scan(
			&report.ID,
			&report.HospitalID,
			&report.PatientID,
			&report.Filename,
			&report.ContentType,
			&report.Size,
			&report.StorageKey,
			&report.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan report")
		}
		reports = append(reports, &report)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate reports")
	}

	return reports, nil
}
