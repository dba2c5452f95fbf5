package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medrecordhq/medrecord/internal/auth/http/dto"
	authUseCase "github.com/medrecordhq/medrecord/internal/auth/usecase"
	apperrors "github.com/medrecordhq/medrecord/internal/errors"
	"github.com/medrecordhq/medrecord/internal/httputil"
)

// ActivityLogHandler handles HTTP requests for activity log operations.
type ActivityLogHandler struct {
	activityLogUseCase authUseCase.ActivityLogUseCase
	logger             *slog.Logger
}

// NewActivityLogHandler creates a new activity log handler with required dependencies.
func NewActivityLogHandler(
	activityLogUseCase authUseCase.ActivityLogUseCase,
	logger *slog.Logger,
) *ActivityLogHandler {
	return &ActivityLogHandler{
		activityLogUseCase: activityLogUseCase,
		logger:             logger,
	}
}

// ListHandler retrieves the authenticated hospital's activity logs with pagination.
// GET /v1/activity-logs?offset=0&limit=50
// Returns 200 OK with the logs ordered newest first. Logs are always scoped to
// the authenticated hospital; there is no way to read another hospital's trail.
func (h *ActivityLogHandler) ListHandler(c *gin.Context) {
	identity, ok := GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	logs, err := h.activityLogUseCase.List(c.Request.Context(), identity.HospitalID, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapActivityLogsToListResponse(logs))
}
