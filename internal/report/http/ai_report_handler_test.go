package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/medrecordhq/medrecord/internal/auth/domain"
	"github.com/medrecordhq/medrecord/internal/report/domain"
	"github.com/medrecordhq/medrecord/internal/report/http/dto"
)

func TestAIReportHandler_Create(t *testing.T) {
	hospitalID := uuid.Must(uuid.NewV7())
	identity := &authDomain.Identity{HospitalID: hospitalID, Email: "stmarys@example.org"}
	patientID := uuid.Must(uuid.NewV7())

	useCase := &mockReportUseCase{}
	activityLog := &mockActivityLogUseCase{}

	aiReport := &domain.AIReport{
		ID:         uuid.Must(uuid.NewV7()),
		HospitalID: hospitalID,
		PatientID:  patientID,
		Summary:    "No residual tumor detected",
		ModelName:  "tumor-seg-v2",
	}
	useCase.On(
		"CreateAIReport",
		mock.Anything, hospitalID, patientID,
		mock.MatchedBy(func(in *domain.CreateAIReportInput) bool {
			return in.Summary == "No residual tumor detected" && in.ModelName == "tumor-seg-v2"
		}),
	).Return(aiReport, nil)
	activityLog.On(
		"Create",
		mock.Anything, mock.Anything, hospitalID,
		authDomain.AIReportCreateOperation, mock.Anything, mock.Anything,
	).Return(nil)

	router := setupReportRouter(useCase, activityLog, identity)

	body, err := json.Marshal(domain.CreateAIReportInput{
		Summary:   "No residual tumor detected",
		ModelName: "tumor-seg-v2",
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(
		http.MethodPost, "/v1/patients/"+patientID.String()+"/ai-reports", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response dto.AIReportResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, aiReport.ID, response.ID)
	assert.Equal(t, "tumor-seg-v2", response.ModelName)

	useCase.AssertExpectations(t)
	activityLog.AssertExpectations(t)
}

func TestAIReportHandler_Create_InvalidJSON(t *testing.T) {
	identity := &authDomain.Identity{HospitalID: uuid.Must(uuid.NewV7())}
	useCase := &mockReportUseCase{}

	router := setupReportRouter(useCase, &mockActivityLogUseCase{}, identity)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(
		http.MethodPost,
		"/v1/patients/"+uuid.Must(uuid.NewV7()).String()+"/ai-reports",
		bytes.NewBufferString("{invalid"),
	)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	useCase.AssertNotCalled(t, "CreateAIReport")
}

func TestAIReportHandler_List(t *testing.T) {
	hospitalID := uuid.Must(uuid.NewV7())
	identity := &authDomain.Identity{HospitalID: hospitalID}
	patientID := uuid.Must(uuid.NewV7())

	useCase := &mockReportUseCase{}
	useCase.On("ListAIReportsByPatient", mock.Anything, hospitalID, patientID, 0, 50).
		Return([]*domain.AIReport{
			{ID: uuid.Must(uuid.NewV7()), HospitalID: hospitalID, PatientID: patientID, Summary: "baseline summary"},
		}, nil)

	router := setupReportRouter(useCase, &mockActivityLogUseCase{}, identity)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/patients/"+patientID.String()+"/ai-reports", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.AIReportListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.AIReports, 1)
	assert.Equal(t, "baseline summary", response.AIReports[0].Summary)
}

func TestAIReportHandler_Get_NotFound(t *testing.T) {
	hospitalID := uuid.Must(uuid.NewV7())
	identity := &authDomain.Identity{HospitalID: hospitalID}
	aiReportID := uuid.Must(uuid.NewV7())

	useCase := &mockReportUseCase{}
	useCase.On("GetAIReport", mock.Anything, hospitalID, aiReportID).
		Return(nil, domain.ErrAIReportNotFound)

	router := setupReportRouter(useCase, &mockActivityLogUseCase{}, identity)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/ai-reports/"+aiReportID.String(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
