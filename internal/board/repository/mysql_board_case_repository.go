package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/medrecordhq/medrecord/internal/board/domain"
	"github.com/medrecordhq/medrecord/internal/database"
	apperrors "github.com/medrecordhq/medrecord/internal/errors"
)

// MySQLBoardCaseRepository handles board case persistence for MySQL.
// UUIDs are stored as BINARY(16) columns.
type MySQLBoardCaseRepository struct {
	db *sql.DB
}

// NewMySQLBoardCaseRepository creates a new MySQLBoardCaseRepository
func NewMySQLBoardCaseRepository(db *sql.DB) *MySQLBoardCaseRepository {
	return &MySQLBoardCaseRepository{db: db}
}

// Create inserts a new board case
func (r *MySQLBoardCaseRepository) Create(ctx context.Context, boardCase *domain.BoardCase) error {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := boardCase.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	hospitalIDBytes, err := boardCase.HospitalID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal hospital UUID")
	}
	patientIDBytes, err := boardCase.PatientID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal patient UUID")
	}

	query := `INSERT INTO board_cases
			  (id, hospital_id, patient_id, title, summary, status, scheduled_for, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`

	_, err = querier.ExecContext(
		ctx,
		query,
		idBytes,
		hospitalIDBytes,
		patientIDBytes,
		boardCase.Title,
		boardCase.Summary,
		string(boardCase.Status),
		boardCase.ScheduledFor,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create board case")
	}
	return nil
}

// GetByID retrieves a board case scoped by the owning hospital.
func (r *MySQLBoardCaseRepository) GetByID(
	ctx context.Context,
	hospitalID, caseID uuid.UUID,
) (*domain.BoardCase, error) {
	var boardCase domain.BoardCase
	querier := database.GetTx(ctx, r.db)

	caseIDBytes, err := caseID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}
	hospitalIDBytes, err := hospitalID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal hospital UUID")
	}

	query := `SELECT id, hospital_id, patient_id, title, summary, status, scheduled_for, created_at, updated_at
			  FROM board_cases WHERE id = ? AND hospital_id = ?`

	var idBytes, hospitalBytes, patientBytes []byte
	err = querier.QueryRowContext(ctx, query, caseIDBytes, hospitalIDBytes).Scan(
		&idBytes,
		&hospitalBytes,
		&patientBytes,
		&boardCase.Title,
		&boardCase.Summary,
		&boardCase.Status,
		&boardCase.ScheduledFor,
		&boardCase.CreatedAt,
		&boardCase.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBoardCaseNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get board case by id")
	}

	if err := boardCase.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	if err := boardCase.HospitalID.UnmarshalBinary(hospitalBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal hospital UUID")
	}
	if err := boardCase.PatientID.UnmarshalBinary(patientBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal patient UUID")
	}

	return &boardCase, nil
}

// ListByHospital retrieves the hospital's board cases ordered by ID descending
// (newest first) with pagination.
func (r *MySQLBoardCaseRepository) ListByHospital(
	ctx context.Context,
	hospitalID uuid.UUID,
	offset, limit int,
) ([]*domain.BoardCase, error) {
	querier := database.GetTx(ctx, r.db)

	hospitalIDBytes, err := hospitalID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal hospital UUID")
	}

	query := `SELECT id, hospital_id, patient_id, title, summary, status, scheduled_for, created_at, updated_at
			  FROM board_cases
			  WHERE hospital_id = ?
			  ORDER BY id DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, hospitalIDBytes, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list board cases")
	}
	defer func() {
		_ = rows.Close()
	}()

	boardCases := make([]*domain.BoardCase, 0)
	for rows.Next() {
		var boardCase domain.BoardCase
		var idBytes, hospitalBytes, patientBytes []byte
		err := rows.Scan(
			&idBytes,
			&hospitalBytes,
			&patientBytes,
			&boardCase.Title,
			&boardCase.Summary,
			&boardCase.Status,
			&boardCase.ScheduledFor,
			&boardCase.CreatedAt,
			&boardCase.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan board case")
		}

		if err := boardCase.ID.UnmarshalBinary(idBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
		}
		if err := boardCase.HospitalID.UnmarshalBinary(hospitalBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal hospital UUID")
		}
		if err := boardCase.PatientID.UnmarshalBinary(patientBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal patient UUID")
		}

		boardCases = append(boardCases, &boardCase)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate board cases")
	}

	return boardCases, nil
}

// Update applies a full update to a board case scoped by the owning hospital.
func (r *MySQLBoardCaseRepository) Update(ctx context.Context, boardCase *domain.BoardCase) error {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := boardCase.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	hospitalIDBytes, err := boardCase.HospitalID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal hospital UUID")
	}

	query := `UPDATE board_cases
			  SET title = ?, summary = ?, status = ?, scheduled_for = ?, updated_at = NOW()
			  WHERE id = ? AND hospital_id = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		boardCase.Title,
		boardCase.Summary,
		string(boardCase.Status),
		boardCase.ScheduledFor,
		idBytes,
		hospitalIDBytes,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update board case")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if affected == 0 {
		return domain.ErrBoardCaseNotFound
	}
	return nil
}

// Delete removes a board case scoped by the owning hospital.
func (r *MySQLBoardCaseRepository) Delete(ctx context.Context, hospitalID, caseID uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	caseIDBytes, err := caseID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	hospitalIDBytes, err := hospitalID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal hospital UUID")
	}

	query := `DELETE FROM board_cases WHERE id = ? AND hospital_id = ?`

	result, err := querier.ExecContext(ctx, query, caseIDBytes, hospitalIDBytes)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete board case")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if affected == 0 {
		return domain.ErrBoardCaseNotFound
	}
	return nil
}
