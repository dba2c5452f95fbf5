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

// MySQLActivityLogRepository implements ActivityLog persistence for MySQL.
// UUIDs are stored as BINARY(16) columns.
type MySQLActivityLogRepository struct {
	db *sql.DB
}

// NewMySQLActivityLogRepository creates a new MySQL ActivityLog repository.
func NewMySQLActivityLogRepository(db *sql.DB) *MySQLActivityLogRepository {
	return &MySQLActivityLogRepository{db: db}
}

// Create inserts a new ActivityLog. Handles nil metadata as database NULL.
func (m *MySQLActivityLogRepository) Create(ctx context.Context, log *authDomain.ActivityLog) error {
	querier := database.GetTx(ctx, m.db)

	// Untyped nil so the driver writes NULL when metadata is absent
	var metadataJSON any
	if log.Metadata != nil {
		b, err := json.Marshal(log.Metadata)
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal activity log metadata")
		}
		metadataJSON = b
	}

	idBytes, err := log.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	requestIDBytes, err := log.RequestID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal request UUID")
	}
	hospitalIDBytes, err := log.HospitalID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal hospital UUID")
	}

	query := `INSERT INTO activity_logs (id, request_id, hospital_id, operation, path, metadata, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, NOW())`

	_, err = querier.ExecContext(
		ctx,
		query,
		idBytes,
		requestIDBytes,
		hospitalIDBytes,
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
func (m *MySQLActivityLogRepository) ListByHospital(
	ctx context.Context,
	hospitalID uuid.UUID,
	offset, limit int,
) ([]*authDomain.ActivityLog, error) {
	querier := database.GetTx(ctx, m.db)

	hospitalIDBytes, err := hospitalID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal hospital UUID")
	}

	query := `SELECT id, request_id, hospital_id, operation, path, metadata, created_at
			  FROM activity_logs
			  WHERE hospital_id = ?
			  ORDER BY id DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, hospitalIDBytes, limit, offset)
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
		var idBytes, requestIDBytes, hospitalBytes []byte

		err := rows.Scan(
			&idBytes,
			&requestIDBytes,
			&hospitalBytes,
			&operation,
			&log.Path,
			&metadataJSON,
			&log.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan activity log")
		}

		if err := log.ID.UnmarshalBinary(idBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
		}
		if err := log.RequestID.UnmarshalBinary(requestIDBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal request UUID")
		}
		if err := log.HospitalID.UnmarshalBinary(hospitalBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal hospital UUID")
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
