// Package http provides HTTP handlers for patient operations.
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
	"github.com/medrecordhq/medrecord/internal/patient/domain"
	"github.com/medrecordhq/medrecord/internal/patient/http/dto"
	"github.com/medrecordhq/medrecord/internal/patient/usecase"
)

// PatientHandler handles HTTP requests for patient operations.
// All routes require authentication; every read and write is scoped to the
// authenticated hospital.
type PatientHandler struct {
	patientUseCase     usecase.UseCase
	activityLogUseCase authUseCase.ActivityLogUseCase
	logger             *slog.Logger
}

// NewPatientHandler creates a new patient handler with required dependencies.
func NewPatientHandler(
	patientUseCase usecase.UseCase,
	activityLogUseCase authUseCase.ActivityLogUseCase,
	logger *slog.Logger,
) *PatientHandler {
	return &PatientHandler{
		patientUseCase:     patientUseCase,
		activityLogUseCase: activityLogUseCase,
		logger:             logger,
	}
}

// CreateHandler creates a new patient record.
// POST /v1/patients
func (h *PatientHandler) CreateHandler(c *gin.Context) {
	identity, ok := authHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var input domain.CreatePatientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	patient, err := h.patientUseCase.Create(c.Request.Context(), identity.HospitalID, &input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.recordActivity(c, identity.HospitalID, authDomain.PatientCreateOperation, map[string]any{
		"patient_id": patient.ID.String(),
	})

	c.JSON(http.StatusCreated, dto.ToPatientResponse(patient))
}

// ListHandler retrieves the hospital's patients with pagination.
// GET /v1/patients?offset=0&limit=50
func (h *PatientHandler) ListHandler(c *gin.Context) {
	identity, ok := authHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	patients, err := h.patientUseCase.List(c.Request.Context(), identity.HospitalID, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToPatientListResponse(patients))
}

// GetHandler retrieves a single patient.
// GET /v1/patients/:id
// A patient owned by another hospital responds 404.
func (h *PatientHandler) GetHandler(c *gin.Context) {
	identity, ok := authHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleErrorGin(c, domain.ErrPatientNotFound, h.logger)
		return
	}

	patient, err := h.patientUseCase.Get(c.Request.Context(), identity.HospitalID, patientID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToPatientResponse(patient))
}

// UpdateHandler applies a full update to a patient.
// PUT /v1/patients/:id
func (h *PatientHandler) UpdateHandler(c *gin.Context) {
	identity, ok := authHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleErrorGin(c, domain.ErrPatientNotFound, h.logger)
		return
	}

	var input domain.UpdatePatientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	patient, err := h.patientUseCase.Update(c.Request.Context(), identity.HospitalID, patientID, &input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.recordActivity(c, identity.HospitalID, authDomain.PatientUpdateOperation, map[string]any{
		"patient_id": patient.ID.String(),
	})

	c.JSON(http.StatusOK, dto.ToPatientResponse(patient))
}

// DeleteHandler removes a patient.
// DELETE /v1/patients/:id
func (h *PatientHandler) DeleteHandler(c *gin.Context) {
	identity, ok := authHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleErrorGin(c, domain.ErrPatientNotFound, h.logger)
		return
	}

	if err := h.patientUseCase.Delete(c.Request.Context(), identity.HospitalID, patientID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.recordActivity(c, identity.HospitalID, authDomain.PatientDeleteOperation, map[string]any{
		"patient_id": patientID.String(),
	})

	c.Status(http.StatusNoContent)
}

// recordActivity writes an activity log entry. Failures are logged and
// swallowed so auditing never fails the primary operation.
func (h *PatientHandler) recordActivity(
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
