package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medrecordhq/medrecord/internal/report/domain"
)

func aiReportColumns() []string {
	return []string{"id", "hospital_id", "patient_id", "summary", "findings", "model_name", "created_at"}
}

func TestPostgreSQLAIReportRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	report := &domain.AIReport{
		ID:         uuid.Must(uuid.NewV7()),
		HospitalID: uuid.Must(uuid.NewV7()),
		PatientID:  uuid.Must(uuid.NewV7()),
		Summary:    "No residual tumor detected",
		Findings:   "clean margins",
		ModelName:  "tumor-seg-v2",
	}

	mock.ExpectExec("INSERT INTO ai_reports").
		WithArgs(
			report.ID,
			report.HospitalID,
			report.PatientID,
			report.Summary,
			report.Findings,
			report.ModelName,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewPostgreSQLAIReportRepository(db)
	err = repo.Create(context.Background(), report)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLAIReportRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	hospitalID := uuid.Must(uuid.NewV7())
	patientID := uuid.Must(uuid.NewV7())
	aiReportID := uuid.Must(uuid.NewV7())

	rows := sqlmock.NewRows(aiReportColumns()).
		AddRow(aiReportID.String(), hospitalID.String(), patientID.String(),
			"No residual tumor detected", "clean margins", "tumor-seg-v2", time.Now())

	mock.ExpectQuery(`SELECT (.+) FROM ai_reports WHERE id = \$1 AND hospital_id = \$2`).
		WithArgs(aiReportID, hospitalID).
		WillReturnRows(rows)

	repo := NewPostgreSQLAIReportRepository(db)
	report, err := repo.GetByID(context.Background(), hospitalID, aiReportID)

	require.NoError(t, err)
	assert.Equal(t, aiReportID, report.ID)
	assert.Equal(t, "tumor-seg-v2", report.ModelName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLAIReportRepository_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	hospitalID := uuid.Must(uuid.NewV7())
	aiReportID := uuid.Must(uuid.NewV7())

	mock.ExpectQuery(`SELECT (.+) FROM ai_reports`).
		WithArgs(aiReportID, hospitalID).
		WillReturnError(sql.ErrNoRows)

	repo := NewPostgreSQLAIReportRepository(db)
	report, err := repo.GetByID(context.Background(), hospitalID, aiReportID)

	assert.Nil(t, report)
	assert.ErrorIs(t, err, domain.ErrAIReportNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLAIReportRepository_ListByPatient(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	hospitalID := uuid.Must(uuid.NewV7())
	patientID := uuid.Must(uuid.NewV7())

	rows := sqlmock.NewRows(aiReportColumns()).
		AddRow(uuid.Must(uuid.NewV7()).String(), hospitalID.String(), patientID.String(),
			"follow-up summary", "", "tumor-seg-v2", time.Now()).
		AddRow(uuid.Must(uuid.NewV7()).String(), hospitalID.String(), patientID.String(),
			"baseline summary", "clean margins", "tumor-seg-v2", time.Now())

	mock.ExpectQuery(`SELECT (.+) FROM ai_reports WHERE hospital_id = \$1 AND patient_id = \$2 ORDER BY id DESC`).
		WithArgs(hospitalID, patientID, 50, 0).
		WillReturnRows(rows)

	repo := NewPostgreSQLAIReportRepository(db)
	reports, err := repo.ListByPatient(context.Background(), hospitalID, patientID, 0, 50)

	require.NoError(t, err)
	assert.Len(t, reports, 2)
	assert.Equal(t, "follow-up summary", reports[0].Summary)
	assert.NoError(t, mock.ExpectationsWereMet())
}
