// Package http provides HTTP handlers for report operations.
package http

import (
	"fmt"
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

// ReportHandler handles HTTP requests for report file operations.
// All routes require authentication; reports are reachable only through
// patients owned by the authenticated hospital.
type ReportHandler struct {
	reportUseCase      usecase.UseCase
	activityLogUseCase authUseCase.ActivityLogUseCase
	logger             *slog.Logger
}

// NewReportHandler creates a new report handler with required dependencies.
func NewReportHandler(
	reportUseCase usecase.UseCase,
	activityLogUseCase authUseCase.ActivityLogUseCase,
	logger *slog.Logger,
) *ReportHandler {
	return &ReportHandler{
		reportUseCase:      reportUseCase,
		activityLogUseCase: activityLogUseCase,
		logger:             logger,
	}
}

// UploadHandler stores a report file for a patient.
// POST /v1/patients/:id/reports (multipart form, field "file")
func (h *ReportHandler) UploadHandler(c *gin.Context) {
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

	fileHeader, err := c.FormFile("file")
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	defer file.Close()

	report, err := h.reportUseCase.Upload(
		c.Request.Context(),
		identity.HospitalID,
		patientID,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		file,
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.recordActivity(c, identity.HospitalID, authDomain.ReportUploadOperation, map[string]any{
		"patient_id": patientID.String(),
		"report_id":  report.ID.String(),
		"filename":   report.Filename,
	})

	c.JSON(http.StatusCreated, dto.ToReportResponse(report))
}

// ListHandler retrieves a patient's report metadata with pagination.
// GET /v1/patients/:id/reports?offset=0&limit=50
func (h *ReportHandler) ListHandler(c *gin.Context) {
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

	reports, err := h.reportUseCase.ListByPatient(c.Request.Context(), identity.HospitalID, patientID, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToReportListResponse(reports))
}

// DownloadHandler streams the stored report file back to the client.
// GET /v1/reports/:id/download
func (h *ReportHandler) DownloadHandler(c *gin.Context) {
	identity, ok := authHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleErrorGin(c, domain.ErrReportNotFound, h.logger)
		return
	}

	report, file, err := h.reportUseCase.Download(c.Request.Context(), identity.HospitalID, reportID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	defer file.Close()

	h.recordActivity(c, identity.HospitalID, authDomain.ReportDownloadOperation, map[string]any{
		"report_id": report.ID.String(),
	})

	extraHeaders := map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", report.Filename),
	}
	c.DataFromReader(http.StatusOK, report.Size, report.ContentType, file, extraHeaders)
}

// recordActivity writes an activity log entry. Failures are logged and
// swallowed so auditing never fails the primary operation.
func (h *ReportHandler) recordActivity(
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
