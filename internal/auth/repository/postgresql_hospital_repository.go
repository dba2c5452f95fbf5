// Package repository provides data persistence implementations for authentication entities.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	authDomain "github.com/medrecordhq/medrecord/internal/auth/domain"
	"github.com/medrecordhq/medrecord/internal/database"

	apperrors "github.com/medrecordhq/medrecord/internal/errors"
)

// PostgreSQLHospitalRepository handles hospital persistence for PostgreSQL
type PostgreSQLHospitalRepository struct {
	db *sql.DB
}

// NewPostgreSQLHospitalRepository creates a new PostgreSQLHospitalRepository
func NewPostgreSQLHospitalRepository(db *sql.DB) *PostgreSQLHospitalRepository {
	return &PostgreSQLHospitalRepository{
		db: db,
	}
}

// Create inserts a new hospital. The unique index on email makes concurrent
// registrations race-safe: the second insert fails with a unique violation
// and is surfaced as ErrHospitalAlreadyExists.
func (r *PostgreSQLHospitalRepository) Create(ctx context.Context, hospital *authDomain.Hospital) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO hospitals (id, email, password_hash, name, address, phone, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())`

	_, err := querier.ExecContext(
		ctx,
		query,
		hospital.ID,
		hospital.Email,
		hospital.PasswordHash,
		hospital.Name,
		hospital.Address,
		hospital.Phone,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return authDomain.ErrHospitalAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create hospital")
	}
	return nil
}

// GetByID retrieves a hospital by ID
func (r *PostgreSQLHospitalRepository) GetByID(ctx context.Context, id uuid.UUID) (*authDomain.Hospital, error) {
	var hospital authDomain.Hospital
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, email, password_hash, name, address, phone, created_at, updated_at
			  FROM hospitals WHERE id = $1`

	err := querier.QueryRowContext(ctx, query, id).Scan(
		&hospital.ID,
		&hospital.Email,
		&hospital.PasswordHash,
		&hospital.Name,
		&hospital.Address,
		&hospital.Phone,
		&hospital.CreatedAt,
		&hospital.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrHospitalNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get hospital by id")
	}

	return &hospital, nil
}

// GetByEmail retrieves a hospital by email
func (r *PostgreSQLHospitalRepository) GetByEmail(ctx context.Context, email string) (*authDomain.Hospital, error) {
	var hospital authDomain.Hospital
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, email, password_hash, name, address, phone, created_at, updated_at
			  FROM hospitals WHERE email = $1`

	err := querier.QueryRowContext(ctx, query, email).Scan(
		&hospital.ID,
		&hospital.Email,
		&hospital.PasswordHash,
		&hospital.Name,
		&hospital.Address,
		&hospital.Phone,
		&hospital.CreatedAt,
		&hospital.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrHospitalNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get hospital by email")
	}

	return &hospital, nil
}

// isPostgreSQLUniqueViolation checks if the error is a PostgreSQL unique constraint violation
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// PostgreSQL: "duplicate key value violates unique constraint" or "pq: duplicate key"
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}
