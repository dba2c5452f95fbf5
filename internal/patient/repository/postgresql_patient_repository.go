// Package repository provides data persistence implementations for patient entities.
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

// PostgreSQLPatientRepository handles patient persistence for PostgreSQL
type PostgreSQLPatientRepository struct {
	db *sql.DB
}

// NewPostgreSQLPatientRepository creates a new PostgreSQLPatientRepository
func NewPostgreSQLPatientRepository(db *sql.DB) *PostgreSQLPatientRepository {
	return &PostgreSQLPatientRepository{db: db}
}

// Create inserts a new patient
func (r *PostgreSQLPatientRepository) Create(ctx context.Context, patient *domain.Patient) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO patients
			  (id, hospital_id, name, age, gender, diagnosis, medical_history, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())`

	_, err := querier.ExecContext(
		ctx,
		query,
		patient.ID,
		patient.HospitalID,
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
func (r *PostgreSQLPatientRepository) GetByID(
	ctx context.Context,
	hospitalID, patientID uuid.UUID,
) (*domain.Patient, error) {
	var patient domain.Patient
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, hospital_id, name, age, gender, diagnosis, medical_history, created_at, updated_at
			  FROM patients WHERE id = $1 AND hospital_id = $2`

	err := querier.QueryRowContext(ctx, query, patientID, hospitalID).Scan(
		&patient.ID,
		&patient.HospitalID,
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

	return &patient, nil
}

// ListByHospital retrieves the hospital's patients ordered by ID descending
// (newest first) with pagination.
func (r *PostgreSQLPatientRepository) ListByHospital(
	ctx context.Context,
	hospitalID uuid.UUID,
	offset, limit int,
) ([]*domain.Patient, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, hospital_id, name, age, gender, diagnosis, medical_history, created_at, updated_at
			  FROM patients
			  WHERE hospital_id = $1
			  ORDER BY id DESC
			  LIMIT $2 OFFSET $3`

	rows, err := querier.QueryContext(ctx, query, hospitalID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list patients")
	}
	defer func() {
		_ = rows.Close()
	}()

	patients := make([]*domain.Patient, 0)
	for rows.Next() {
		var patient domain.Patient
		err := rows.Scan(
			&patient.ID,
			&patient.HospitalID,
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
		patients = append(patients, &patient)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate patients")
	}

	return patients, nil
}

// Update applies a full update to a patient scoped by the owning hospital.
func (r *PostgreSQLPatientRepository) Update(ctx context.Context, patient *domain.Patient) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE patients
			  SET name = $1, age = $2, gender = $3, diagnosis = $4, medical_history = $5, updated_at = NOW()
			  WHERE id = $6 AND hospital_id = $7`

	result, err := querier.ExecContext(
		ctx,
		query,
		patient.Name,
		patient.Age,
		patient.Gender,
		patient.Diagnosis,
		patient.MedicalHistory,
		patient.ID,
		patient.HospitalID,
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
func (r *PostgreSQLPatientRepository) Delete(ctx context.Context, hospitalID, patientID uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM patients WHERE id = $1 AND hospital_id = $2`

	result, err := querier.ExecContext(ctx, query, patientID, hospitalID)
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
