package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/medrecordhq/medrecord/internal/database"
	apperrors "github.com/medrecordhq/medrecord/internal/errors"
	"github.com/medrecordhq/medrecord/internal/patient/domain"
)

// MySQLPatientRepository handles patient persistence for MySQL.
// UUIDs are stored as BINARY(16) columns.
type MySQLPatientRepository struct {
	db *sql.DB
}

// NewMySQLPatientRepository creates a new MySQLPatientRepository
func NewMySQLPatientRepository(db *sql.DB) *MySQLPatientRepository {
	return &MySQLPatientRepository{db: db}
}

// Create inserts a new patient
func (r *MySQLPatientRepository) Create(ctx context.Context, patient *domain.Patient) error {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := patient.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	hospitalIDBytes, err := patient.HospitalID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal hospital UUID")
	}

	query := `INSERT INTO patients
			  (id, hospital_id, name, age, gender, diagnosis, medical_history, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`

	_, err = querier.ExecContext(
		ctx,
		query,
		idBytes,
		hospitalIDBytes,
		patient.Name,
		patient.Age,
		patient.Gender,
		patient.Diagnosis,
		patient.MedicalHistory,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create patient")
	}
	return nil
}

// GetByID retrieves a patient scoped by the owning hospital. A patient owned
// by another hospital is indistinguishable from a missing one.
func (r *MySQLPatientRepository) GetByID(
	ctx context.Context,
	hospitalID, patientID uuid.UUID,
) (*domain.Patient, error) {
	var patient domain.Patient
	querier := database.GetTx(ctx, r.db)

	patientIDBytes, err := patientID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}
	hospitalIDBytes, err := hospitalID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal hospital UUID")
	}

	query := `SELECT id, hospital_id, name, age, gender, diagnosis, medical_history, created_at, updated_at
			  FROM patients WHERE id = ? AND hospital_id = ?`

	var idBytes, hospitalBytes []byte
	err = querier.QueryRowContext(ctx, query, patientIDBytes, hospitalIDBytes).Scan(
		&idBytes,
		&hospitalBytes,
		&patient.Name,
		&patient.Age,
		&patient.Gender,
		&patient.Diagnosis,
		&patient.MedicalHistory,
		&patient.CreatedAt,
		&patient.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPatientNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get patient by id")
	}

	if err := patient.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	if err := patient.HospitalID.UnmarshalBinary(hospitalBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal hospital UUID")
	}

	return &patient, nil
}

// ListByHospital retrieves the hospital's patients ordered by ID descending
// (newest first) with pagination.
func (r *MySQLPatientRepository) ListByHospital(
	ctx context.Context,
	hospitalID uuid.UUID,
	offset, limit int,
) ([]*domain.Patient, error) {
	querier := database.GetTx(ctx, r.db)

	hospitalIDBytes, err := hospitalID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal hospital UUID")
	}

	query := `SELECT id, hospital_id, name, age, gender, diagnosis, medical_history, created_at, updated_at
			  FROM patients
			  WHERE hospital_id = ?
			  ORDER BY id DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, hospitalIDBytes, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list patients")
	}
	defer func() {
		_ = rows.Close()
	}()

	patients := make([]*domain.Patient, 0)
	for rows.Next() {
		var patient domain.Patient
		var idBytes, hospitalBytes []byte
		err := rows.Scan(
			&idBytes,
			&hospitalBytes,
			&patient.Name,
			&patient.Age,
			&patient.Gender,
			&patient.Diagnosis,
			&patient.MedicalHistory,
			&patient.CreatedAt,
			&patient.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan patient")
		}
		if err := patient.ID.UnmarshalBinary(idBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
		}
		if err := patient.HospitalID.UnmarshalBinary(hospitalBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal hospital UUID")
		}
		patients = append(patients, &patient)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate patients")
	}

	return patients, nil
}

// Update applies a full update to a patient scoped by the owning hospital.
func (r *MySQLPatientRepository) Update(ctx context.Context, patient *domain.Patient) error {
	querier := database.GetTx(ctx, r.db)

	patientIDBytes, err := patient.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	hospitalIDBytes, err := patient.HospitalID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal hospital UUID")
	}

	query := `UPDATE patients
			  SET name = ?, age = ?, gender = ?, diagnosis = ?, medical_history = ?, updated_at = NOW()
			  WHERE id = ? AND hospital_id = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		patient.Name,
		patient.Age,
		patient.Gender,
		patient.Diagnosis,
		patient.MedicalHistory,
		patientIDBytes,
		hospitalIDBytes,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update patient")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if affected == 0 {
		return domain.ErrPatientNotFound
	}
	return nil
}

// Delete removes a patient scoped by the owning hospital.
func (r *MySQLPatientRepository) Delete(ctx context.Context, hospitalID, patientID uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	patientIDBytes, err := patientID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	hospitalIDBytes, err := hospitalID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal hospital UUID")
	}

	query := `DELETE FROM patients WHERE id = ? AND hospital_id = ?`

	result, err := querier.ExecContext(ctx, query, patientIDBytes, hospitalIDBytes)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete patient")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if affected == 0 {
		return domain.ErrPatientNotFound
	}
	return nil
}
