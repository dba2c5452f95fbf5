package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"

	authDomain "github.com/medrecordhq/medrecord/internal/auth/domain"
	"github.com/medrecordhq/medrecord/internal/database"
	apperrors "github.com/medrecordhq/medrecord/internal/errors"
)

// PostgreSQLActivityLogRepository implements ActivityLog persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLActivityLogRepository struct {
	db *sql.DB
}

// NewPostgreSQLActivityLogRepository creates a new PostgreSQL ActivityLog repository.
func NewPostgreSQLActivityLogRepository(db *sql.DB) *PostgreSQLActivityLogRepository {
	return &PostgreSQLActivityLogRepository{db: db}
}

// Create inserts a new ActivityLog. Handles nil metadata as database NULL.
func (p *PostgreSQLActivityLogRepository) Create(ctx context.Context, log *authDomain.ActivityLog) error {
	querier := database.GetTx(ctx, p.db)

	// Untyped nil so the driver writes NULL when metadata is absent
	var metadataJSON any
	if log.Metadata != nil {
		b, err := json.Marshal(log.Metadata)
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal activity log metadata")
		}
		metadataJSON = b
	}

	query := `INSERT INTO activity_logs (id, request_id, hospital_id, operation, path, metadata, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, NOW())`

	_, err := querier.ExecContext(
		ctx,
		query,
		log.ID,
		log.RequestID,
		log.HospitalID,
		string(log.Operation),
		log.Path,
		metadataJSON,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create activity log")
	}

	return nil
}

// ListByHospital retrieves a hospital's activity logs ordered by ID descending
// (newest first, UUIDv7 IDs are time-ordered) with pagination.
func (p *PostgreSQLActivityLogRepository) ListByHospital(
	ctx context.Context,
	hospitalID uuid.UUID,
	offset, limit int,
) ([]*authDomain.ActivityLog, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, request_id, hospital_id, operation, path, metadata, created_at
			  FROM activity_logs
			  WHERE hospital_id = $1
			  ORDER BY id DESC
			  LIMIT $2 OFFSET $3`

	rows, err := querier.QueryContext(ctx, query, hospitalID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list activity logs")
	}
	defer func() {
		_ = rows.Close()
	}()

	// Initialize empty slice to avoid returning nil for empty results
	logs := make([]*authDomain.ActivityLog, 0)
	for rows.Next() {
		var log authDomain.ActivityLog
		var metadataJSON []byte
		var operation string

		err := rows.Scan(
			&log.ID,
			&log.RequestID,
			&log.HospitalID,
			&operation,
			&log.Path,
			&metadataJSON,
			&log.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan activity log")
		}

		log.Operation = authDomain.Operation(operation)

		// Unmarshal metadata if not NULL
		if metadataJSON != nil {
			if err := json.Unmarshal(metadataJSON, &log.Metadata); err != nil {
				return nil, apperrors.Wrap(err, "failed to unmarshal activity log metadata")
			}
		}

		logs = append(logs, &log)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate activity logs")
	}

	return logs, nil
}
