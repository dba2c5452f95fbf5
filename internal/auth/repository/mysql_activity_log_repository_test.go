package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/medrecordhq/medrecord/internal/auth/domain"
)

func TestMySQLActivityLogRepository_Create(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	log := &authDomain.ActivityLog{
		ID:         uuid.Must(uuid.NewV7()),
		RequestID:  uuid.Must(uuid.NewV7()),
		HospitalID: uuid.Must(uuid.NewV7()),
		Operation:  authDomain.BoardCaseCreateOperation,
		Path:       "/v1/board-cases",
	}

	dbMock.ExpectExec(`INSERT INTO activity_logs`).
		WithArgs(
			uuidBytes(t, log.ID),
			uuidBytes(t, log.RequestID),
			uuidBytes(t, log.HospitalID),
			string(log.Operation),
			log.Path,
			nil,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewMySQLActivityLogRepository(db)
	err = repo.Create(context.Background(), log)

	assert.NoError(t, err)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestMySQLActivityLogRepository_ListByHospital(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	hospitalID := uuid.Must(uuid.NewV7())
	logID := uuid.Must(uuid.NewV7())
	requestID := uuid.Must(uuid.NewV7())
	now := time.Now().UTC()

	rows := sqlmock.NewRows(activityLogColumns()).AddRow(
		uuidBytes(t, logID),
		uuidBytes(t, requestID),
		uuidBytes(t, hospitalID),
		"report.download",
		"/v1/reports/r-1/file",
		[]byte(`{"file_name":"mri.dcm"}`),
		now,
	)

	dbMock.ExpectQuery(`SELECT (.+) FROM activity_logs`).
		WithArgs(uuidBytes(t, hospitalID), 20, 0).
		WillReturnRows(rows)

	repo := NewMySQLActivityLogRepository(db)
	logs, err := repo.ListByHospital(context.Background(), hospitalID, 0, 20)

	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, logID, logs[0].ID)
	assert.Equal(t, requestID, logs[0].RequestID)
	assert.Equal(t, hospitalID, logs[0].HospitalID)
	assert.Equal(t, authDomain.ReportDownloadOperation, logs[0].Operation)
	assert.Equal(t, map[string]any{"file_name": "mri.dcm"}, logs[0].Metadata)
}
