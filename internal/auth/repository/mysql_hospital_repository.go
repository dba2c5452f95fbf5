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

// MySQLHospitalRepository handles hospital persistence for MySQL
type MySQLHospitalRepository struct {
	db *sql.DB
}

// NewMySQLHospitalRepository creates a new MySQLHospitalRepository
func NewMySQLHospitalRepository(db *sql.DB) *MySQLHospitalRepository {
	return &MySQLHospitalRepository{
		db: db,
	}
}

// Create inserts a new hospital. The unique index on email makes concurrent
// registrations race-safe: the second insert fails with a unique violation
// and is surfaced as ErrHospitalAlreadyExists.
func (r *MySQLHospitalRepository) Create(ctx context.Context, hospital *authDomain.Hospital) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO hospitals (id, email, password_hash, name, address, phone, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, NOW(), NOW())`

	// Convert UUID to bytes for MySQL BINARY(16)
	uuidBytes, err := hospital.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		uuidBytes,
		hospital.Email,
		hospital.PasswordHash,
		hospital.Name,
		hospital.Address,
		hospital.Phone,
	)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return authDomain.ErrHospitalAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create hospital")
	}
	return nil
}

// GetByID retrieves a hospital by ID
func (r *MySQLHospitalRepository) GetByID(ctx context.Context, id uuid.UUID) (*authDomain.Hospital, error) {
	var hospital authDomain.Hospital
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, email, password_hash, name, address, phone, created_at, updated_at
			  FROM hospitals WHERE id = ?`

	// Convert UUID to bytes for MySQL BINARY(16)
	uuidBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	var idBytes []byte
	err = querier.QueryRowContext(ctx, query, uuidBytes).Scan(
		&idBytes,
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

	// Convert bytes back to UUID
	if err := hospital.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}

	return &hospital, nil
}

// GetByEmail retrieves a hospital by email
func (r *MySQLHospitalRepository) GetByEmail(ctx context.Context, email string) (*authDomain.Hospital, error) {
	var hospital authDomain.Hospital
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, email, password_hash, name, address, phone, created_at, updated_at
			  FROM hospitals WHERE email = ?`

	var idBytes []byte
	err := querier.QueryRowContext(ctx, query, email).Scan(
		&idBytes,
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

	// Convert bytes back to UUID
	if err := hospital.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}

	return &hospital, nil
}

// isMySQLUniqueViolation checks if the error is a MySQL unique constraint violation
func isMySQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// MySQL: "Error 1062: Duplicate entry"
	return strings.Contains(errMsg, "duplicate entry") || strings.Contains(errMsg, "error 1062")
}
