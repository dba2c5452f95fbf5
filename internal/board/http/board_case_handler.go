// Package http provides HTTP handlers for tumor board operations.
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
	"github.com/medrecordhq/medrecord/internal/board/domain"
	"github.com/medrecordhq/medrecord/internal/board/http/dto"
	"github.com/medrecordhq/medrecord/internal/board/usecase"
	apperrors "github.com/medrecordhq/medrecord/internal/errors"
	"github.com/medrecordhq/medrecord/internal/httputil"
)

// BoardCaseHandler handles HTTP requests for tumor board operations.
// All routes require authentication; every read and write is scoped to the
// authenticated hospital.
type BoardCaseHandler struct {
	boardCaseUseCase   usecase.UseCase
	activityLogUseCase authUseCase.ActivityLogUseCase
	logger             *slog.Logger
}

// NewBoardCaseHandler creates a new board case handler with required dependencies.
func NewBoardCaseHandler(
	boardCaseUseCase usecase.UseCase,
	activityLogUseCase authUseCase.ActivityLogUseCase,
	logger *slog.Logger,
) *BoardCaseHandler {
	return &BoardCaseHandler{
		boardCaseUseCase:   boardCaseUseCase,
		activityLogUseCase: activityLogUseCase,
		logger:             logger,
	}
}

// CreateHandler opens a new board case for a patient.
// POST /v1/board-cases
func (h *BoardCaseHandler) CreateHandler(c *gin.Context) {
	identity, ok := authHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var input domain.CreateBoardCaseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	boardCase, err := h.boardCaseUseCase.Create(c.Request.Context(), identity.HospitalID, &input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.recordActivity(c, identity.HospitalID, authDomain.BoardCaseCreateOperation, map[string]any{
		"board_case_id": boardCase.ID.String(),
		"patient_id":    boardCase.PatientID.String(),
	})

	c.JSON(http.StatusCreated, dto.ToBoardCaseResponse(boardCase))
}

// ListHandler retrieves the hospital's board cases with pagination.
// GET /v1/board-cases?offset=0&limit=50
func (h *BoardCaseHandler) ListHandler(c *gin.Context) {
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

	boardCases, err := h.boardCaseUseCase.List(c.Request.Context(), identity.HospitalID, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToBoardCaseListResponse(boardCases))
}

// GetHandler retrieves a single board case.
// GET /v1/board-cases/:id
// A case owned by another hospital responds 404.
func (h *BoardCaseHandler) GetHandler(c *gin.Context) {
	identity, ok := authHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	caseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleErrorGin(c, domain.ErrBoardCaseNotFound, h.logger)
		return
	}

	boardCase, err := h.boardCaseUseCase.Get(c.Request.Context(), identity.HospitalID, caseID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToBoardCaseResponse(boardCase))
}

// UpdateHandler applies a full update to a board case's descriptive fields.
// PUT /v1/board-cases/:id
func (h *BoardCaseHandler) UpdateHandler(c *gin.Context) {
	identity, ok := authHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	caseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleErrorGin(c, domain.ErrBoardCaseNotFound, h.logger)
		return
	}

	var input domain.UpdateBoardCaseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	boardCase, err := h.boardCaseUseCase.Update(c.Request.Context(), identity.HospitalID, caseID, &input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.recordActivity(c, identity.HospitalID, authDomain.BoardCaseUpdateOperation, map[string]any{
		"board_case_id": boardCase.ID.String(),
	})

	c.JSON(http.StatusOK, dto.ToBoardCaseResponse(boardCase))
}

// TransitionHandler moves a board case to the next status.
// POST /v1/board-cases/:id/status
func (h *BoardCaseHandler) TransitionHandler(c *gin.Context) {
	identity, ok := authHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	caseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleErrorGin(c, domain.ErrBoardCaseNotFound, h.logger)
		return
	}

	var input domain.TransitionBoardCaseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	boardCase, err := h.boardCaseUseCase.Transition(c.Request.Context(), identity.HospitalID, caseID, input.Status)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.recordActivity(c, identity.HospitalID, authDomain.BoardCaseStatusOperation, map[string]any{
		"board_case_id": boardCase.ID.String(),
		"status":        string(boardCase.Status),
	})

	c.JSON(http.StatusOK, dto.ToBoardCaseResponse(boardCase))
}

// DeleteHandler removes a board case.
// DELETE /v1/board-cases/:id
func (h *BoardCaseHandler) DeleteHandler(c *gin.Context) {
	identity, ok := authHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	caseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleErrorGin(c, domain.ErrBoardCaseNotFound, h.logger)
		return
	}

	if err := h.boardCaseUseCase.Delete(c.Request.Context(), identity.HospitalID, caseID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// recordActivity writes an activity log entry. Failures are logged and
// swallowed so auditing never fails the primary operation.
func (h *BoardCaseHandler) recordActivity(
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
