// Package repository provides data persistence implementations for tumor board cases.
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

// PostgreSQLBoardCaseRepository handles board case persistence for PostgreSQL
type PostgreSQLBoardCaseRepository struct {
	db *sql.DB
}

// NewPostgreSQLBoardCaseRepository creates a new PostgreSQLBoardCaseRepository
func NewPostgreSQLBoardCaseRepository(db *sql.DB) *PostgreSQLBoardCaseRepository {
	return &PostgreSQLBoardCaseRepository{db: db}
}

// Create inserts a new board case
func (r *PostgreSQLBoardCaseRepository) Create(ctx context.Context, boardCase *domain.BoardCase) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO board_cases
			  (id, hospital_id, patient_id, title, summary, status, scheduled_for, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())`

	_, err := querier.ExecContext(
		ctx,
		query,
		boardCase.ID,
		boardCase.HospitalID,
		boardCase.PatientID,
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

// GetByID retrieves a board case scoped by the owning hospital. A case owned
// by another hospital is indistinguishable from a missing one.
func (r *PostgreSQLBoardCaseRepository) GetByID(
	ctx context.Context,
	hospitalID, caseID uuid.UUID,
) (*domain.BoardCase, error) {
	var boardCase domain.BoardCase
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, hospital_id, patient_id, title, summary, status, scheduled_for, created_at, updated_at
			  FROM board_cases WHERE id = $1 AND hospital_id = $2`

	err := querier.QueryRowContext(ctx, query, caseID, hospitalID).Scan(
		&boardCase.ID,
		&boardCase.HospitalID,
		&boardCase.PatientID,
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

	return &boardCase, nil
}

// ListByHospital retrieves the hospital's board cases ordered by ID descending
// (newest first) with pagination.
func (r *PostgreSQLBoardCaseRepository) ListByHospital(
	ctx context.Context,
	hospitalID uuid.UUID,
	offset, limit int,
) ([]*domain.BoardCase, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, hospital_id, patient_id, title, summary, status, scheduled_for, created_at, updated_at
			  FROM board_cases
			  WHERE hospital_id = $1
			  ORDER BY id DESC
			  LIMIT $2 OFFSET $3`

	rows, err := querier.QueryContext(ctx, query, hospitalID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list board cases")
	}
	defer func() {
		_ = rows.Close()
	}()

	boardCases := make([]*domain.BoardCase, 0)
	for rows.Next() {
		var boardCase domain.BoardCase
		err := rows.Scan(
			&boardCase.ID,
			&boardCase.HospitalID,
			&boardCase.PatientID,
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
		boardCases = append(boardCases, &boardCase)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate board cases")
	}

	return boardCases, nil
}

// Update applies a full update to a board case scoped by the owning hospital.
func (r *PostgreSQLBoardCaseRepository) Update(ctx context.Context, boardCase *domain.BoardCase) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE board_cases
			  SET title = $1, summary = $2, status = $3, scheduled_for = $4, updated_at = NOW()
			  WHERE id = $5 AND hospital_id = $6`

	result, err := querier.ExecContext(
		ctx,
		query,
		boardCase.Title,
		boardCase.Summary,
		string(boardCase.Status),
		boardCase.ScheduledFor,
		boardCase.ID,
		boardCase.HospitalID,
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
func (r *PostgreSQLBoardCaseRepository) Delete(ctx context.Context, hospitalID, caseID uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM board_cases WHERE id = $1 AND hospital_id = $2`

	result, err := querier.ExecContext(ctx, query, caseID, hospitalID)
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
