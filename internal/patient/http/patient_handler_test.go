package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/medrecordhq/medrecord/internal/auth/domain"
	authHTTP "github.com/medrecordhq/medrecord/internal/auth/http"
	"github.com/medrecordhq/medrecord/internal/patient/domain"
	"github.com/medrecordhq/medrecord/internal/patient/http/dto"
)

// mockPatientUseCase is a mock implementation of usecase.UseCase.
type mockPatientUseCase struct {
	mock.Mock
}

func (m *mockPatientUseCase) Create(
	ctx context.Context,
	hospitalID uuid.UUID,
	input *domain.CreatePatientInput,
) (*domain.Patient, error) {
	args := m.Called(ctx, hospitalID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Patient), args.Error(1)
}

func (m *mockPatientUseCase) Get(ctx context.Context, hospitalID, patientID uuid.UUID) (*domain.Patient, error) {
	args := m.Called(ctx, hospitalID, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Patient), args.Error(1)
}

func (m *mockPatientUseCase) List(
	ctx context.Context,
	hospitalID uuid.UUID,
	offset, limit int,
) ([]*domain.Patient, error) {
	args := m.Called(ctx, hospitalID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Patient), args.Error(1)
}

func (m *mockPatientUseCase) Update(
	ctx context.Context,
	hospitalID, patientID uuid.UUID,
	input *domain.UpdatePatientInput,
) (*domain.Patient, error) {
	args := m.Called(ctx, hospitalID, patientID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Patient), args.Error(1)
}

func (m *mockPatientUseCase) Delete(ctx context.Context, hospitalID, patientID uuid.UUID) error {
	args := m.Called(ctx, hospitalID, patientID)
	return args.Error(0)
}

// mockActivityLogUseCase is a mock implementation of the activity log use case.
type mockActivityLogUseCase struct {
	mock.Mock
}

func (m *mockActivityLogUseCase) Create(
	ctx context.Context,
	requestID uuid.UUID,
	hospitalID uuid.UUID,
	operation authDomain.Operation,
	path string,
	metadata map[string]any,
) error {
	args := m.Called(ctx, requestID, hospitalID, operation, path, metadata)
	return args.Error(0)
}

func (m *mockActivityLogUseCase) List(
	ctx context.Context,
	hospitalID uuid.UUID,
	offset, limit int,
) ([]*authDomain.ActivityLog, error) {
	args := m.Called(ctx, hospitalID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*authDomain.ActivityLog), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// identityMiddleware injects a fixed identity, standing in for the auth middleware.
func identityMiddleware(identity *authDomain.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := authHTTP.WithIdentity(c.Request.Context(), identity)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func setupPatientRouter(
	useCase *mockPatientUseCase,
	activityLog *mockActivityLogUseCase,
	identity *authDomain.Identity,
) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewPatientHandler(useCase, activityLog, testLogger())

	router := gin.New()
	group := router.Group("/", identityMiddleware(identity))
	group.POST("/v1/patients", handler.CreateHandler)
	group.GET("/v1/patients", handler.ListHandler)
	group.GET("/v1/patients/:id", handler.GetHandler)
	group.PUT("/v1/patients/:id", handler.UpdateHandler)
	group.DELETE("/v1/patients/:id", handler.DeleteHandler)
	return router
}

func TestPatientHandler_Create(t *testing.T) {
	hospitalID := uuid.Must(uuid.NewV7())
	identity := &authDomain.Identity{HospitalID: hospitalID, Email: "stmarys@example.org"}

	useCase := &mockPatientUseCase{}
	activityLog := &mockActivityLogUseCase{}

	patient := &domain.Patient{
		ID:         uuid.Must(uuid.NewV7()),
		HospitalID: hospitalID,
		Name:       "Jane Roe",
		Age:        54,
	}
	useCase.On("Create", mock.Anything, hospitalID, mock.MatchedBy(func(in *domain.CreatePatientInput) bool {
		return in.Name == "Jane Roe" && in.Age == 54
	})).Return(patient, nil)
	activityLog.On(
		"Create",
		mock.Anything, mock.Anything, hospitalID,
		authDomain.PatientCreateOperation, "/v1/patients", mock.Anything,
	).Return(nil)

	router := setupPatientRouter(useCase, activityLog, identity)

	body, err := json.Marshal(domain.CreatePatientInput{Name: "Jane Roe", Age: 54})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/patients", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response dto.PatientResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, patient.ID, response.ID)
	assert.Equal(t, hospitalID, response.HospitalID)

	useCase.AssertExpectations(t)
	activityLog.AssertExpectations(t)
}

func TestPatientHandler_Get_OtherHospitalIs404(t *testing.T) {
	hospitalID := uuid.Must(uuid.NewV7())
	identity := &authDomain.Identity{HospitalID: hospitalID, Email: "stmarys@example.org"}
	patientID := uuid.Must(uuid.NewV7())

	useCase := &mockPatientUseCase{}
	useCase.On("Get", mock.Anything, hospitalID, patientID).
		Return(nil, domain.ErrPatientNotFound)

	router := setupPatientRouter(useCase, &mockActivityLogUseCase{}, identity)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/patients/"+patientID.String(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not_found")
}

func TestPatientHandler_Get_InvalidID(t *testing.T) {
	identity := &authDomain.Identity{HospitalID: uuid.Must(uuid.NewV7())}
	useCase := &mockPatientUseCase{}

	router := setupPatientRouter(useCase, &mockActivityLogUseCase{}, identity)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/patients/not-a-uuid", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	useCase.AssertNotCalled(t, "Get")
}

func TestPatientHandler_List(t *testing.T) {
	hospitalID := uuid.Must(uuid.NewV7())
	identity := &authDomain.Identity{HospitalID: hospitalID}

	useCase := &mockPatientUseCase{}
	useCase.On("List", mock.Anything, hospitalID, 0, 50).Return([]*domain.Patient{
		{ID: uuid.Must(uuid.NewV7()), HospitalID: hospitalID, Name: "Jane Roe"},
	}, nil)

	router := setupPatientRouter(useCase, &mockActivityLogUseCase{}, identity)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/patients", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.PatientListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Patients, 1)
	assert.Equal(t, "Jane Roe", response.Patients[0].Name)
}

func TestPatientHandler_Update(t *testing.T) {
	hospitalID := uuid.Must(uuid.NewV7())
	identity := &authDomain.Identity{HospitalID: hospitalID}
	patientID := uuid.Must(uuid.NewV7())

	useCase := &mockPatientUseCase{}
	activityLog := &mockActivityLogUseCase{}

	updated := &domain.Patient{ID: patientID, HospitalID: hospitalID, Name: "Jane Roe-Smith", Age: 55}
	useCase.On("Update", mock.Anything, hospitalID, patientID, mock.Anything).Return(updated, nil)
	activityLog.On(
		"Create",
		mock.Anything, mock.Anything, hospitalID,
		authDomain.PatientUpdateOperation, mock.Anything, mock.Anything,
	).Return(nil)

	router := setupPatientRouter(useCase, activityLog, identity)

	body, err := json.Marshal(domain.UpdatePatientInput{Name: "Jane Roe-Smith", Age: 55})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/v1/patients/"+patientID.String(), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	useCase.AssertExpectations(t)
	activityLog.AssertExpectations(t)
}

func TestPatientHandler_Delete(t *testing.T) {
	hospitalID := uuid.Must(uuid.NewV7())
	identity := &authDomain.Identity{HospitalID: hospitalID}
	patientID := uuid.Must(uuid.NewV7())

	useCase := &mockPatientUseCase{}
	activityLog := &mockActivityLogUseCase{}

	useCase.On("Delete", mock.Anything, hospitalID, patientID).Return(nil)
	activityLog.On(
		"Create",
		mock.Anything, mock.Anything, hospitalID,
		authDomain.PatientDeleteOperation, mock.Anything, mock.Anything,
	).Return(nil)

	router := setupPatientRouter(useCase, activityLog, identity)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/v1/patients/"+patientID.String(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	useCase.AssertExpectations(t)
	activityLog.AssertExpectations(t)
}
