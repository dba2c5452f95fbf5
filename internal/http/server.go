// Package http provides the API HTTP server and its routing.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/medrecordhq/medrecord/internal/auth/http"
	boardHTTP "github.com/medrecordhq/medrecord/internal/board/http"
	"github.com/medrecordhq/medrecord/internal/config"
	"github.com/medrecordhq/medrecord/internal/database"
	"github.com/medrecordhq/medrecord/internal/metrics"
	patientHTTP "github.com/medrecordhq/medrecord/internal/patient/http"
	reportHTTP "github.com/medrecordhq/medrecord/internal/report/http"
)

// Handlers bundles the route handlers and route-level middleware the server mounts.
type Handlers struct {
	Hospital    *authHTTP.HospitalHandler
	ActivityLog *authHTTP.ActivityLogHandler
	Patient     *patientHTTP.PatientHandler
	Report      *reportHTTP.ReportHandler
	AIReport    *reportHTTP.AIReportHandler
	BoardCase   *boardHTTP.BoardCaseHandler

	// Authentication guards every route except register, login and health.
	Authentication gin.HandlerFunc
	// LoginRateLimit is applied to the login route only; nil disables it.
	LoginRateLimit gin.HandlerFunc
}

// Server represents the API HTTP server
type Server struct {
	server *http.Server
	router *gin.Engine
	db     *sql.DB
	logger *slog.Logger
}

// NewServer creates a new HTTP server
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter builds the gin router: global middleware, health endpoints and
// the versioned API routes.
func (s *Server) SetupRouter(
	cfg *config.Config,
	handlers Handlers,
	metricsProvider *metrics.Provider,
) {
	gin.SetMode(cfg.GetGinMode())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")
	{
		v1.POST("/hospitals", handlers.Hospital.RegisterHandler)

		login := v1.Group("")
		if handlers.LoginRateLimit != nil {
			login.Use(handlers.LoginRateLimit)
		}
		login.POST("/login", handlers.Hospital.LoginHandler)

		authenticated := v1.Group("", handlers.Authentication)
		{
			authenticated.GET("/hospitals/me", handlers.Hospital.MeHandler)
			authenticated.GET("/activity-logs", handlers.ActivityLog.ListHandler)

			authenticated.POST("/patients", handlers.Patient.CreateHandler)
			authenticated.GET("/patients", handlers.Patient.ListHandler)
			authenticated.GET("/patients/:id", handlers.Patient.GetHandler)
			authenticated.PUT("/patients/:id", handlers.Patient.UpdateHandler)
			authenticated.DELETE("/patients/:id", handlers.Patient.DeleteHandler)

			authenticated.POST("/patients/:id/reports", handlers.Report.UploadHandler)
			authenticated.GET("/patients/:id/reports", handlers.Report.ListHandler)
			authenticated.GET("/reports/:id/download", handlers.Report.DownloadHandler)

			authenticated.POST("/patients/:id/ai-reports", handlers.AIReport.CreateHandler)
			authenticated.GET("/patients/:id/ai-reports", handlers.AIReport.ListHandler)
			authenticated.GET("/ai-reports/:id", handlers.AIReport.GetHandler)

			authenticated.POST("/board-cases", handlers.BoardCase.CreateHandler)
			authenticated.GET("/board-cases", handlers.BoardCase.ListHandler)
			authenticated.GET("/board-cases/:id", handlers.BoardCase.GetHandler)
			authenticated.PUT("/board-cases/:id", handlers.BoardCase.UpdateHandler)
			authenticated.POST("/board-cases/:id/status", handlers.BoardCase.TransitionHandler)
			authenticated.DELETE("/board-cases/:id", handlers.BoardCase.DeleteHandler)
		}
	}

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can serve traffic, checking
// each dependency individually.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{}
	status := http.StatusOK

	if s.db == nil {
		components["database"] = "error"
		status = http.StatusServiceUnavailable
	} else if err := database.Health(c.Request.Context(), s.db); err != nil {
		s.logger.Error("readiness check failed", slog.String("error", err.Error()))
		components["database"] = "error"
		status = http.StatusServiceUnavailable
	} else {
		components["database"] = "ok"
	}

	body := gin.H{"status": "ready", "components": components}
	if status != http.StatusOK {
		body["status"] = "not_ready"
	}
	c.JSON(status, body)
}
