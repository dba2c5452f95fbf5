package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authDomain "github.com/medrecordhq/medrecord/internal/auth/domain"
	"github.com/medrecordhq/medrecord/internal/auth/http/dto"
	authUseCase "github.com/medrecordhq/medrecord/internal/auth/usecase"
	apperrors "github.com/medrecordhq/medrecord/internal/errors"
	"github.com/medrecordhq/medrecord/internal/httputil"
)

// HospitalHandler handles HTTP requests for hospital registration, login and profile.
type HospitalHandler struct {
	hospitalUseCase    authUseCase.HospitalUseCase
	activityLogUseCase authUseCase.ActivityLogUseCase
	logger             *slog.Logger
}

// NewHospitalHandler creates a new hospital handler with required dependencies.
func NewHospitalHandler(
	hospitalUseCase authUseCase.HospitalUseCase,
	activityLogUseCase authUseCase.ActivityLogUseCase,
	logger *slog.Logger,
) *HospitalHandler {
	return &HospitalHandler{
		hospitalUseCase:    hospitalUseCase,
		activityLogUseCase: activityLogUseCase,
		logger:             logger,
	}
}

// RegisterHandler handles hospital registration.
// POST /v1/hospitals
// Returns 201 Created with the hospital profile, 409 Conflict when the email
// is already registered, and 422 Unprocessable Entity on validation failures.
func (h *HospitalHandler) RegisterHandler(c *gin.Context) {
	var req dto.RegisterHospitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	// Validate request structure
	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	hospital, err := h.hospitalUseCase.Register(c.Request.Context(), dto.ToRegisterHospitalInput(req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.recordActivity(c, hospital.ID, authDomain.HospitalRegisterOperation, nil)

	c.JSON(http.StatusCreated, dto.ToHospitalResponse(hospital))
}

// LoginHandler handles hospital login.
// POST /v1/login
// Returns 201 Created with a signed access token and its expiry. Unknown
// emails and wrong passwords both respond 401 with the same generic body.
func (h *HospitalHandler) LoginHandler(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	output, err := h.hospitalUseCase.Authenticate(c.Request.Context(), &authDomain.AuthenticateInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.recordActivity(c, output.HospitalID, authDomain.HospitalLoginOperation, nil)

	c.JSON(http.StatusCreated, dto.ToLoginResponse(output))
}

// MeHandler returns the authenticated hospital's profile.
// GET /v1/hospitals/me
// Requires a valid bearer token.
func (h *HospitalHandler) MeHandler(c *gin.Context) {
	identity, ok := GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	hospital, err := h.hospitalUseCase.GetByID(c.Request.Context(), identity.HospitalID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToHospitalResponse(hospital))
}

// recordActivity writes an activity log entry. Failures are logged and
// swallowed so auditing never fails the primary operation.
func (h *HospitalHandler) recordActivity(
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
