package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"

	authHTTP "github.com/medrecordhq/medrecord/internal/auth/http"
	"github.com/medrecordhq/medrecord/internal/auth/repository"
	authService "github.com/medrecordhq/medrecord/internal/auth/service"
	authUseCase "github.com/medrecordhq/medrecord/internal/auth/usecase"
)

// authComponents groups the lazily initialized credential and activity log
// dependencies held by the container.
type authComponents struct {
	hospitalRepositoryInit    sync.Once
	activityLogRepositoryInit sync.Once
	passwordServiceInit       sync.Once
	tokenServiceInit          sync.Once
	hospitalUseCaseInit       sync.Once
	activityLogUseCaseInit    sync.Once
	hospitalHandlerInit       sync.Once
	activityLogHandlerInit    sync.Once
	authMiddlewareInit        sync.Once

	hospitalRepository    authUseCase.HospitalRepository
	activityLogRepository authUseCase.ActivityLogRepository
	passwordService       authService.PasswordService
	tokenService          authService.TokenService
	hospitalUseCase       authUseCase.HospitalUseCase
	activityLogUseCase    authUseCase.ActivityLogUseCase
	hospitalHandler       *authHTTP.HospitalHandler
	activityLogHandler    *authHTTP.ActivityLogHandler
	authMiddleware        gin.HandlerFunc
}

// HospitalRepository returns the hospital repository for the configured driver.
func (c *Container) HospitalRepository() (authUseCase.HospitalRepository, error) {
	c.auth.hospitalRepositoryInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["hospitalRepository"] = fmt.Errorf("failed to get database for hospital repository: %w", err)
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.auth.hospitalRepository = repository.NewMySQLHospitalRepository(db)
		case "postgres":
			c.auth.hospitalRepository = repository.NewPostgreSQLHospitalRepository(db)
		default:
			c.initErrors["hospitalRepository"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["hospitalRepository"]; exists {
		return nil, storedErr
	}
	return c.auth.hospitalRepository, nil
}

// ActivityLogRepository returns the activity log repository for the configured driver.
func (c *Container) ActivityLogRepository() (authUseCase.ActivityLogRepository, error) {
	c.auth.activityLogRepositoryInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["activityLogRepository"] = fmt.Errorf("failed to get database for activity log repository: %w", err)
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.auth.activityLogRepository = repository.NewMySQLActivityLogRepository(db)
		case "postgres":
			c.auth.activityLogRepository = repository.NewPostgreSQLActivityLogRepository(db)
		default:
			c.initErrors["activityLogRepository"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["activityLogRepository"]; exists {
		return nil, storedErr
	}
	return c.auth.activityLogRepository, nil
}

// PasswordService returns the password hashing service.
func (c *Container) PasswordService() (authService.PasswordService, error) {
	c.auth.passwordServiceInit.Do(func() {
		service, err := authService.NewPasswordService(
			c.config.PasswordHashAlgorithm,
			c.config.PasswordBcryptCost,
		)
		if err != nil {
			c.initErrors["passwordService"] = fmt.Errorf("failed to create password service: %w", err)
			return
		}
		c.auth.passwordService = service
	})
	if storedErr, exists := c.initErrors["passwordService"]; exists {
		return nil, storedErr
	}
	return c.auth.passwordService, nil
}

// TokenService returns the JWT token service. The signing secret is resolved
// once at startup, decrypting through the configured keeper when a ciphertext
// is provided.
func (c *Container) TokenService() (authService.TokenService, error) {
	c.auth.tokenServiceInit.Do(func() {
		secret, err := authService.NewSigningKeyService().ResolveSecret(
			context.Background(),
			c.config.AuthTokenSecret,
			c.config.AuthTokenSecretCiphertext,
			c.config.KMSKeyURI,
		)
		if err != nil {
			c.initErrors["tokenService"] = fmt.Errorf("failed to resolve token signing secret: %w", err)
			return
		}
		c.auth.tokenService = authService.NewTokenService(secret, c.config.AuthTokenExpiration)
	})
	if storedErr, exists := c.initErrors["tokenService"]; exists {
		return nil, storedErr
	}
	return c.auth.tokenService, nil
}

// HospitalUseCase returns the hospital use case, wrapped with business metrics
// when metrics are enabled.
func (c *Container) HospitalUseCase() (authUseCase.HospitalUseCase, error) {
	c.auth.hospitalUseCaseInit.Do(func() {
		hospitalRepo, err := c.HospitalRepository()
		if err != nil {
			c.initErrors["hospitalUseCase"] = err
			return
		}
		passwordService, err := c.PasswordService()
		if err != nil {
			c.initErrors["hospitalUseCase"] = err
			return
		}
		tokenService, err := c.TokenService()
		if err != nil {
			c.initErrors["hospitalUseCase"] = err
			return
		}
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["hospitalUseCase"] = err
			return
		}
		useCase := authUseCase.NewHospitalUseCase(hospitalRepo, passwordService, tokenService)
		c.auth.hospitalUseCase = authUseCase.NewHospitalUseCaseWithMetrics(useCase, businessMetrics)
	})
	if storedErr, exists := c.initErrors["hospitalUseCase"]; exists {
		return nil, storedErr
	}
	return c.auth.hospitalUseCase, nil
}

// ActivityLogUseCase returns the activity log use case.
func (c *Container) ActivityLogUseCase() (authUseCase.ActivityLogUseCase, error) {
	c.auth.activityLogUseCaseInit.Do(func() {
		activityLogRepo, err := c.ActivityLogRepository()
		if err != nil {
			c.initErrors["activityLogUseCase"] = err
			return
		}
		c.auth.activityLogUseCase = authUseCase.NewActivityLogUseCase(activityLogRepo)
	})
	if storedErr, exists := c.initErrors["activityLogUseCase"]; exists {
		return nil, storedErr
	}
	return c.auth.activityLogUseCase, nil
}

// HospitalHandler returns the hospital HTTP handler.
func (c *Container) HospitalHandler() (*authHTTP.HospitalHandler, error) {
	c.auth.hospitalHandlerInit.Do(func() {
		hospitalUseCase, err := c.HospitalUseCase()
		if err != nil {
			c.initErrors["hospitalHandler"] = err
			return
		}
		activityLogUseCase, err := c.ActivityLogUseCase()
		if err != nil {
			c.initErrors["hospitalHandler"] = err
			return
		}
		c.auth.hospitalHandler = authHTTP.NewHospitalHandler(hospitalUseCase, activityLogUseCase, c.Logger())
	})
	if storedErr, exists := c.initErrors["hospitalHandler"]; exists {
		return nil, storedErr
	}
	return c.auth.hospitalHandler, nil
}

// ActivityLogHandler returns the activity log HTTP handler.
func (c *Container) ActivityLogHandler() (*authHTTP.ActivityLogHandler, error) {
	c.auth.activityLogHandlerInit.Do(func() {
		activityLogUseCase, err := c.ActivityLogUseCase()
		if err != nil {
			c.initErrors["activityLogHandler"] = err
			return
		}
		c.auth.activityLogHandler = authHTTP.NewActivityLogHandler(activityLogUseCase, c.Logger())
	})
	if storedErr, exists := c.initErrors["activityLogHandler"]; exists {
		return nil, storedErr
	}
	return c.auth.activityLogHandler, nil
}

// AuthenticationMiddleware returns the bearer token authentication middleware.
func (c *Container) AuthenticationMiddleware() (gin.HandlerFunc, error) {
	c.auth.authMiddlewareInit.Do(func() {
		hospitalUseCase, err := c.HospitalUseCase()
		if err != nil {
			c.initErrors["authenticationMiddleware"] = err
			return
		}
		c.auth.authMiddleware = authHTTP.AuthenticationMiddleware(hospitalUseCase, c.Logger())
	})
	if storedErr, exists := c.initErrors["authenticationMiddleware"]; exists {
		return nil, storedErr
	}
	return c.auth.authMiddleware, nil
}

// loginRateLimitMiddleware returns the login rate limiter, or nil when disabled.
func (c *Container) loginRateLimitMiddleware() gin.HandlerFunc {
	if !c.config.RateLimitLoginEnabled {
		return nil
	}
	return authHTTP.LoginRateLimitMiddleware(
		c.config.RateLimitLoginRequestsPerSec,
		c.config.RateLimitLoginBurst,
		c.Logger(),
	)
}
