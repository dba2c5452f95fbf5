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

// MySQLReportRepository handles report metadata persistence for MySQL.
// UUIDs are stored as BINARY(16) columns.
type MySQLReportRepository struct {
	db *sql.DB
}

// NewMySQLReportRepository creates a new MySQLReportRepository
func NewMySQLReportRepository(db *sql.DB) *MySQLReportRepository {
	return &MySQLReportRepository{db: db}
}

// Create inserts a new report metadata row
func (r *MySQLReportRepository) Create(ctx context.Context, report *domain.Report) error {
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

	query := `INSERT INTO reports
			  (id, hospital_id, patient_id, filename, content_type, size, storage_key, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, NOW())`

	_, err = querier.ExecContext(
		ctx,
		query,
		idBytes,
		hospitalIDBytes,
		patientIDBytes,
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
func (r *MySQLReportRepository) GetByID(
	ctx context.Context,
	hospitalID, reportID uuid.UUID,
) (*domain.Report, error) {
	var report domain.Report
	querier := database.GetTx(ctx, r.db)

	reportIDBytes, err := reportID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}
	hospitalIDBytes, err := hospitalID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal hospital UUID")
	}

	query := `SELECT id, hospital_id, patient_id, filename, content_type, size, storage_key, created_at
			  FROM reports WHERE id = ? AND hospital_id = ?`

	var idBytes, hospitalBytes, patientBytes []byte
	err = querier.QueryRowContext(ctx, query, reportIDBytes, hospitalIDBytes).Scan(
		&idBytes,
		&hospitalBytes,
		&patientBytes,
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

// ListByPatient retrieves a patient's reports ordered by ID descending
// (newest first) with pagination.
func (r *MySQLReportRepository) ListByPatient(
	ctx context.Context,
	hospitalID, patientID uuid.UUID,
	offset, limit int,
) ([]*domain.Report, error) {
	querier := database.GetTx(ctx, r.db)

	hospitalIDBytes, err := hospitalID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal hospital UUID")
	}
	patientIDBytes, err := patientID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal patient UUID")
	}

	query := `SELECT id, hospital_id, patient_id, filename, content_type, size, storage_key, created_at
			  FROM reports
			  WHERE hospital_id = ? AND patient_id = ?
			  ORDER BY id DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, hospitalIDBytes, patientIDBytes, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list reports")
	}
	defer func() {
		_ = rows.Close()
	}()

	reports := make([]*domain.Report, 0)
	for rows.Next() {
		var report domain.Report
		var idBytes, hospitalBytes, patientBytes []byte
		err := rows.Scan(
			&idBytes,
			&hospitalBytes,
			&patientBytes,
			&report.Filename,
			&report.ContentType,
			&report.Size,
			&report.StorageKey,
			&report.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan report")
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
		return nil, apperrors.Wrap(err, "failed to iterate reports")
	}

	return reports, nil
}
