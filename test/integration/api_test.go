// Package integration provides end-to-end integration tests for the API.
// Tests run against both PostgreSQL and MySQL databases when available.
package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medrecordhq/medrecord/internal/app"
	authDTO "github.com/medrecordhq/medrecord/internal/auth/http/dto"
	boardDTO "github.com/medrecordhq/medrecord/internal/board/http/dto"
	"github.com/medrecordhq/medrecord/internal/config"
	patientDTO "github.com/medrecordhq/medrecord/internal/patient/http/dto"
	reportDTO "github.com/medrecordhq/medrecord/internal/report/http/dto"
	"github.com/medrecordhq/medrecord/internal/testutil"
)

// integrationTestContext holds all dependencies and state for integration testing.
type integrationTestContext struct {
	container *app.Container
	db        *sql.DB
	server    *httptest.Server
	token     string
	dbDriver  string
}

// makeRequest performs an HTTP request and returns the response and body.
func (ctx *integrationTestContext) makeRequest(
	t *testing.T,
	method, path string,
	body interface{},
	useAuth bool,
) (*http.Response, []byte) {
	t.Helper()

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		require.NoError(t, err, "failed to marshal request body")
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, ctx.server.URL+path, bodyReader)
	require.NoError(t, err, "failed to create request")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if useAuth {
		req.Header.Set("Authorization", "Bearer "+ctx.token)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	require.NoError(t, err, "failed to perform request")

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")
	if closeErr := resp.Body.Close(); closeErr != nil {
		t.Logf("Warning: failed to close response body: %v", closeErr)
	}

	return resp, respBody
}

// uploadFile performs a multipart file upload against the given path.
func (ctx *integrationTestContext) uploadFile(
	t *testing.T,
	path, filename string,
	content []byte,
) (*http.Response, []byte) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err, "failed to create form file")
	_, err = part.Write(content)
	require.NoError(t, err, "failed to write file content")
	require.NoError(t, writer.Close(), "failed to close multipart writer")

	req, err := http.NewRequest(http.MethodPost, ctx.server.URL+path, &buf)
	require.NoError(t, err, "failed to create upload request")
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+ctx.token)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	require.NoError(t, err, "failed to perform upload request")

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read upload response body")
	if closeErr := resp.Body.Close(); closeErr != nil {
		t.Logf("Warning: failed to close response body: %v", closeErr)
	}

	return resp, respBody
}

// registerAndLogin registers a hospital and logs it in, storing the token on the context.
func (ctx *integrationTestContext) registerAndLogin(t *testing.T, email, password string) authDTO.HospitalResponse {
	t.Helper()

	registerReq := authDTO.RegisterHospitalRequest{
		Email:    email,
		Password: password,
		Name:     "Integration Test Hospital",
		Address:  "1 Test Street",
		Phone:    "555-0100",
	}
	resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/hospitals", registerReq, false)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "register failed: %s", string(body))

	var hospital authDTO.HospitalResponse
	require.NoError(t, json.Unmarshal(body, &hospital))

	loginReq := authDTO.LoginRequest{Email: email, Password: password}
	resp, body = ctx.makeRequest(t, http.MethodPost, "/v1/login", loginReq, false)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "login failed: %s", string(body))

	var login authDTO.LoginResponse
	require.NoError(t, json.Unmarshal(body, &login))
	require.NotEmpty(t, login.Token)
	ctx.token = login.Token

	return hospital
}

// setupIntegrationTest initializes all components for integration testing.
func setupIntegrationTest(t *testing.T, dbDriver string) *integrationTestContext {
	t.Helper()

	// Set Gin to test mode
	gin.SetMode(gin.TestMode)

	// Setup database
	var db *sql.DB
	var dsn string
	if dbDriver == "postgres" {
		testutil.SkipIfNoPostgres(t)
		db = testutil.SetupPostgresDB(t)
		dsn = testutil.GetPostgresTestDSN()
	} else {
		testutil.SkipIfNoMySQL(t)
		db = testutil.SetupMySQLDB(t)
		dsn = testutil.GetMySQLTestDSN()
	}

	// Create configuration
	cfg := &config.Config{
		DBDriver:              dbDriver,
		DBConnectionString:    dsn,
		DBMaxOpenConnections:  10,
		DBMaxIdleConnections:  5,
		DBConnMaxLifetime:     time.Hour,
		ServerHost:            "localhost",
		ServerPort:            8080,
		LogLevel:              "error",
		AuthTokenSecret:       "integration-test-secret",
		AuthTokenExpiration:   time.Hour,
		PasswordHashAlgorithm: "bcrypt",
		PasswordBcryptCost:    4,
		ReportBucketURL:       "mem://",
	}

	// Create DI container
	container := app.NewContainer(cfg)

	// Setup HTTP server
	httpSrv, err := container.HTTPServer()
	require.NoError(t, err, "failed to get HTTP server")

	// The SetupRouter has already been called by container.HTTPServer()
	handler := httpSrv.GetHandler()
	require.NotNil(t, handler, "handler should not be nil after SetupRouter")

	// Create test server with the handler
	testServer := httptest.NewServer(handler)

	return &integrationTestContext{
		container: container,
		db:        db,
		server:    testServer,
		dbDriver:  dbDriver,
	}
}

// teardownIntegrationTest cleans up all resources.
func teardownIntegrationTest(t *testing.T, ctx *integrationTestContext) {
	t.Helper()

	if ctx.server != nil {
		ctx.server.Close()
	}

	if ctx.container != nil {
		if err := ctx.container.Shutdown(context.Background()); err != nil {
			t.Logf("Warning: container shutdown error: %v", err)
		}
	}

	if ctx.db != nil {
		testutil.TeardownDB(t, ctx.db)
	}
}

// forEachDriver runs the test function against every available database driver.
func forEachDriver(t *testing.T, fn func(t *testing.T, ctx *integrationTestContext)) {
	t.Helper()

	// Skip if short mode (integration tests can be slow)
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	for _, driver := range []string{"postgres", "mysql"} {
		t.Run(driver, func(t *testing.T) {
			ctx := setupIntegrationTest(t, driver)
			defer teardownIntegrationTest(t, ctx)
			fn(t, ctx)
		})
	}
}

// TestIntegration_Health validates infrastructure health and readiness endpoints.
func TestIntegration_Health(t *testing.T) {
	forEachDriver(t, func(t *testing.T, ctx *integrationTestContext) {
		resp, body := ctx.makeRequest(t, http.MethodGet, "/health", nil, false)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), "healthy")

		resp, body = ctx.makeRequest(t, http.MethodGet, "/ready", nil, false)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), "ready")
	})
}

// TestIntegration_HospitalAuthFlow covers registration, duplicate rejection,
// login and token-guarded access.
func TestIntegration_HospitalAuthFlow(t *testing.T) {
	forEachDriver(t, func(t *testing.T, ctx *integrationTestContext) {
		hospital := ctx.registerAndLogin(t, "stmarys@example.org", "correct horse battery staple")
		assert.Equal(t, "stmarys@example.org", hospital.Email)

		// Duplicate registration is rejected with a conflict
		registerReq := authDTO.RegisterHospitalRequest{
			Email:    "stmarys@example.org",
			Password: "another password",
			Name:     "Impostor Hospital",
		}
		resp, _ := ctx.makeRequest(t, http.MethodPost, "/v1/hospitals", registerReq, false)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)

		// Wrong password is rejected without detail
		loginReq := authDTO.LoginRequest{Email: "stmarys@example.org", Password: "wrong password"}
		resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/login", loginReq, false)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.NotContains(t, string(body), "password")

		// Unknown email gets the same response as a wrong password
		loginReq = authDTO.LoginRequest{Email: "nobody@example.org", Password: "wrong password"}
		resp, _ = ctx.makeRequest(t, http.MethodPost, "/v1/login", loginReq, false)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		// The issued token grants access to the hospital profile
		resp, body = ctx.makeRequest(t, http.MethodGet, "/v1/hospitals/me", nil, true)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var me authDTO.HospitalResponse
		require.NoError(t, json.Unmarshal(body, &me))
		assert.Equal(t, hospital.ID, me.ID)
		assert.NotContains(t, string(body), "password")

		// Missing and malformed tokens are rejected uniformly
		resp, _ = ctx.makeRequest(t, http.MethodGet, "/v1/hospitals/me", nil, false)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		savedToken := ctx.token
		ctx.token = "not-a-jwt"
		resp, _ = ctx.makeRequest(t, http.MethodGet, "/v1/hospitals/me", nil, true)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		ctx.token = savedToken
	})
}

// TestIntegration_PatientLifecycle covers patient CRUD through the API.
func TestIntegration_PatientLifecycle(t *testing.T) {
	forEachDriver(t, func(t *testing.T, ctx *integrationTestContext) {
		ctx.registerAndLogin(t, "general@example.org", "a long enough password")

		createReq := map[string]any{
			"name":      "Jane Doe",
			"age":       47,
			"gender":    "female",
			"diagnosis": "stage II carcinoma",
		}
		resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/patients", createReq, true)
		require.Equal(t, http.StatusCreated, resp.StatusCode, "create patient failed: %s", string(body))

		var patient patientDTO.PatientResponse
		require.NoError(t, json.Unmarshal(body, &patient))
		assert.Equal(t, "Jane Doe", patient.Name)

		// List includes the new patient
		resp, body = ctx.makeRequest(t, http.MethodGet, "/v1/patients", nil, true)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var list patientDTO.PatientListResponse
		require.NoError(t, json.Unmarshal(body, &list))
		require.Len(t, list.Patients, 1)

		// Update changes the diagnosis
		updateReq := map[string]any{
			"name":      "Jane Doe",
			"age":       47,
			"gender":    "female",
			"diagnosis": "stage II carcinoma, post-op",
		}
		resp, body = ctx.makeRequest(t, http.MethodPut, "/v1/patients/"+patient.ID.String(), updateReq, true)
		require.Equal(t, http.StatusOK, resp.StatusCode, "update patient failed: %s", string(body))
		var updated patientDTO.PatientResponse
		require.NoError(t, json.Unmarshal(body, &updated))
		assert.Equal(t, "stage II carcinoma, post-op", updated.Diagnosis)

		// Unknown patient IDs surface as not found
		resp, _ = ctx.makeRequest(t, http.MethodGet, "/v1/patients/"+uuid.Must(uuid.NewV7()).String(), nil, true)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		// Delete removes the patient
		resp, _ = ctx.makeRequest(t, http.MethodDelete, "/v1/patients/"+patient.ID.String(), nil, true)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp, _ = ctx.makeRequest(t, http.MethodGet, "/v1/patients/"+patient.ID.String(), nil, true)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

// TestIntegration_ReportsAndBoardCases covers file upload and download, AI
// report storage and the board case status machine.
func TestIntegration_ReportsAndBoardCases(t *testing.T) {
	forEachDriver(t, func(t *testing.T, ctx *integrationTestContext) {
		ctx.registerAndLogin(t, "oncology@example.org", "a long enough password")

		createReq := map[string]any{"name": "John Doe", "age": 61, "gender": "male"}
		resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/patients", createReq, true)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var patient patientDTO.PatientResponse
		require.NoError(t, json.Unmarshal(body, &patient))

		// Upload a report file and read it back
		content := []byte("%PDF-1.4 test report content")
		resp, body = ctx.uploadFile(t, "/v1/patients/"+patient.ID.String()+"/reports", "scan.pdf", content)
		require.Equal(t, http.StatusCreated, resp.StatusCode, "upload failed: %s", string(body))
		var report reportDTO.ReportResponse
		require.NoError(t, json.Unmarshal(body, &report))
		assert.Equal(t, "scan.pdf", report.Filename)
		assert.NotContains(t, string(body), "storage_key")

		resp, body = ctx.makeRequest(t, http.MethodGet, "/v1/reports/"+report.ID.String()+"/download", nil, true)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, content, body)
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "scan.pdf")

		// Store an AI report for the patient
		aiReq := map[string]any{
			"summary":    "No evidence of metastasis.",
			"findings":   "Lesion size stable compared to prior scan.",
			"model_name": "radiology-v2",
		}
		resp, body = ctx.makeRequest(t, http.MethodPost, "/v1/patients/"+patient.ID.String()+"/ai-reports", aiReq, true)
		require.Equal(t, http.StatusCreated, resp.StatusCode, "create ai report failed: %s", string(body))
		var aiReport reportDTO.AIReportResponse
		require.NoError(t, json.Unmarshal(body, &aiReport))
		assert.Equal(t, "radiology-v2", aiReport.ModelName)

		// Open a board case and walk it forward through the status machine
		boardReq := map[string]any{
			"patient_id":    patient.ID,
			"title":         "Tumor board review",
			"summary":       "Discuss adjuvant therapy options.",
			"scheduled_for": time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339),
		}
		resp, body = ctx.makeRequest(t, http.MethodPost, "/v1/board-cases", boardReq, true)
		require.Equal(t, http.StatusCreated, resp.StatusCode, "create board case failed: %s", string(body))
		var boardCase boardDTO.BoardCaseResponse
		require.NoError(t, json.Unmarshal(body, &boardCase))
		assert.Equal(t, "open", string(boardCase.Status))

		transitionReq := map[string]any{"status": "in_review"}
		resp, body = ctx.makeRequest(t, http.MethodPost, "/v1/board-cases/"+boardCase.ID.String()+"/status", transitionReq, true)
		require.Equal(t, http.StatusOK, resp.StatusCode, "transition failed: %s", string(body))
		require.NoError(t, json.Unmarshal(body, &boardCase))
		assert.Equal(t, "in_review", string(boardCase.Status))

		// Backward transitions are rejected
		transitionReq = map[string]any{"status": "open"}
		resp, _ = ctx.makeRequest(t, http.MethodPost, "/v1/board-cases/"+boardCase.ID.String()+"/status", transitionReq, true)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		// Activity logs recorded the operations above
		resp, body = ctx.makeRequest(t, http.MethodGet, "/v1/activity-logs", nil, true)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var logs authDTO.ActivityLogListResponse
		require.NoError(t, json.Unmarshal(body, &logs))
		assert.NotEmpty(t, logs.ActivityLogs)
	})
}

// TestIntegration_HospitalIsolation verifies that one hospital can never see
// another hospital's patients.
func TestIntegration_HospitalIsolation(t *testing.T) {
	forEachDriver(t, func(t *testing.T, ctx *integrationTestContext) {
		ctx.registerAndLogin(t, "first@example.org", "a long enough password")

		createReq := map[string]any{"name": "Private Patient", "age": 30, "gender": "other"}
		resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/patients", createReq, true)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var patient patientDTO.PatientResponse
		require.NoError(t, json.Unmarshal(body, &patient))

		// A second hospital cannot see the first hospital's patient
		ctx.registerAndLogin(t, "second@example.org", "a long enough password")

		resp, _ = ctx.makeRequest(t, http.MethodGet, "/v1/patients/"+patient.ID.String(), nil, true)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode,
			"cross-hospital access must look like a missing record")

		resp, body = ctx.makeRequest(t, http.MethodGet, "/v1/patients", nil, true)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var list patientDTO.PatientListResponse
		require.NoError(t, json.Unmarshal(body, &list))
		assert.Empty(t, list.Patients)
	})
}
