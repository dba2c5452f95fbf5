package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authDomain "github.com/medrecordhq/medrecord/internal/auth/domain"
	authHTTP "github.com/medrecordhq/medrecord/internal/auth/http"
	authUseCase "github.com/medrecordhq/medrecord/internal/auth/usecase"
	apperrors "github.com/medrecordhq/medrecord/internal/errors"
	"github.com/medrecordhq/medrecord/internal/httputil"
	patientDomain "github.com/medrecordhq/medrecord/internal/patient/domain"
	"github.com/medrecordhq/medrecord/internal/report/domain"
	"github.com/medrecordhq/medrecord/internal/report/http/dto"
	"github.com/medrecordhq/medrecord/internal/report/usecase"
)

// AIReportHandler handles HTTP requests for AI-generated report documents.
type AIReportHandler struct {
	reportUseCase      usecase.UseCase
	activityLogUseCase authUseCase.ActivityLogUseCase
	logger             *slog.Logger
}

// NewAIReportHandler creates a new AI report handler with required dependencies.
func NewAIReportHandler(
	reportUseCase usecase.UseCase,
	activityLogUseCase authUseCase.ActivityLogUseCase,
	logger *slog.Logger,
) *AIReportHandler {
	return &AIReportHandler{
		reportUseCase:      reportUseCase,
		activityLogUseCase: activityLogUseCase,
		logger:             logger,
	}
}

// CreateHandler stores an AI report document for a patient.
// POST /v1/patients/:id/ai-reports
func (h *AIReportHandler) CreateHandler(c *gin.Context) {
	identity, ok := authHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleErrorGin(c, patientDomain.ErrPatientNotFound, h.logger)
		return
	}

	var input domain.CreateAIReportInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	aiReport, err := h.reportUseCase.CreateAIReport(c.Request.Context(), identity.HospitalID, patientID, &input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.recordActivity(c, identity.HospitalID, authDomain.AIReportCreateOperation, map[string]any{
		"patient_id":   patientID.String(),
		"ai_report_id": aiReport.ID.String(),
	})

	c.JSON(http.StatusCreated, dto.ToAIReportResponse(aiReport))
}

// ListHandler retrieves a patient's AI reports with pagination.
// GET /v1/patients/:id/ai-reports?offset=0&limit=50
func (h *AIReportHandler) ListHandler(c *gin.Context) {
	identity, ok := authHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleErrorGin(c, patientDomain.ErrPatientNotFound, h.logger)
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	aiReports, err := h.reportUseCase.ListAIReportsByPatient(
		c.Request.Context(), identity.HospitalID, patientID, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToAIReportListResponse(aiReports))
}

// GetHandler retrieves a single AI report.
// GET /v1/ai-reports/:id
func (h *AIReportHandler) GetHandler(c *gin.Context) {
	identity, ok := authHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	aiReportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleErrorGin(c, domain.ErrAIReportNotFound, h.logger)
		return
	}

	aiReport, err := h.reportUseCase.GetAIReport(c.Request.Context(), identity.HospitalID, aiReportID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToAIReportResponse(aiReport))
}

func (h *AIReportHandler) recordActivity(
	c *gin.Context,
	hospitalID uuid.UUID,
	operation authDomain.Operation,
	metadata map[string]any,
) {
	requestID, err := uuid.Parse(requestid.Get(c))
	if err != nil {
		requestID = uuid.Nil
	}

	if err := h.activityLogUseCase.Create(
		c.Request.Context(),
		requestID,
		hospitalID,
		operation,
		c.Request.URL.Path,
		metadata,
	); err != nil {
		h.logger.Error("failed to record activity log",
			slog.String("operation", string(operation)),
			slog.String("error", err.Error()))
	}
}
