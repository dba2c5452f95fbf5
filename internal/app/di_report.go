package app

import (
	"context"
	"fmt"
	"sync"

	reportHTTP "github.com/medrecordhq/medrecord/internal/report/http"
	"github.com/medrecordhq/medrecord/internal/report/repository"
	"github.com/medrecordhq/medrecord/internal/report/service"
	"github.com/medrecordhq/medrecord/internal/report/usecase"
)

// reportComponents groups the lazily initialized report dependencies.
type reportComponents struct {
	reportRepositoryInit   sync.Once
	aiReportRepositoryInit sync.Once
	fileStorageInit        sync.Once
	useCaseInit            sync.Once
	reportHandlerInit      sync.Once
	aiReportHandlerInit    sync.Once

	reportRepository   usecase.ReportRepository
	aiReportRepository usecase.AIReportRepository
	fileStorage        service.FileStorage
	useCase            usecase.UseCase
	reportHandler      *reportHTTP.ReportHandler
	aiReportHandler    *reportHTTP.AIReportHandler
}

// ReportRepository returns the report metadata repository for the configured driver.
func (c *Container) ReportRepository() (usecase.ReportRepository, error) {
	c.report.reportRepositoryInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["reportRepository"] = fmt.Errorf("failed to get database for report repository: %w", err)
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.report.reportRepository = repository.NewMySQLReportRepository(db)
		case "postgres":
			c.report.reportRepository = repository.NewPostgreSQLReportRepository(db)
		default:
			c.initErrors["reportRepository"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["reportRepository"]; exists {
		return nil, storedErr
	}
	return c.report.reportRepository, nil
}

// AIReportRepository returns the AI report repository for the configured driver.
func (c *Container) AIReportRepository() (usecase.AIReportRepository, error) {
	c.report.aiReportRepositoryInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["aiReportRepository"] = fmt.Errorf("failed to get database for ai report repository: %w", err)
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.report.aiReportRepository = repository.NewMySQLAIReportRepository(db)
		case "postgres":
			c.report.aiReportRepository = repository.NewPostgreSQLAIReportRepository(db)
		default:
			c.initErrors["aiReportRepository"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["aiReportRepository"]; exists {
		return nil, storedErr
	}
	return c.report.aiReportRepository, nil
}

// FileStorage returns the blob storage backend for report files. The bucket is
// opened once at startup and closed during container shutdown.
func (c *Container) FileStorage() (service.FileStorage, error) {
	c.report.fileStorageInit.Do(func() {
		storage, err := service.NewBlobFileStorage(context.Background(), c.config.ReportBucketURL)
		if err != nil {
			c.initErrors["fileStorage"] = fmt.Errorf("failed to open report bucket: %w", err)
			return
		}
		c.report.fileStorage = storage
	})
	if storedErr, exists := c.initErrors["fileStorage"]; exists {
		return nil, storedErr
	}
	return c.report.fileStorage, nil
}

// ReportUseCase returns the report use case.
func (c *Container) ReportUseCase() (usecase.UseCase, error) {
	c.report.useCaseInit.Do(func() {
		reportRepo, err := c.ReportRepository()
		if err != nil {
			c.initErrors["reportUseCase"] = err
			return
		}
		aiReportRepo, err := c.AIReportRepository()
		if err != nil {
			c.initErrors["reportUseCase"] = err
			return
		}
		patientRepo, err := c.PatientRepository()
		if err != nil {
			c.initErrors["reportUseCase"] = err
			return
		}
		storage, err := c.FileStorage()
		if err != nil {
			c.initErrors["reportUseCase"] = err
			return
		}
		c.report.useCase = usecase.NewReportUseCase(reportRepo, aiReportRepo, patientRepo, storage)
	})
	if storedErr, exists := c.initErrors["reportUseCase"]; exists {
		return nil, storedErr
	}
	return c.report.useCase, nil
}

// ReportHandler returns the report HTTP handler.
func (c *Container) ReportHandler() (*reportHTTP.ReportHandler, error) {
	c.report.reportHandlerInit.Do(func() {
		reportUseCase, err := c.ReportUseCase()
		if err != nil {
			c.initErrors["reportHandler"] = err
			return
		}
		activityLogUseCase, err := c.ActivityLogUseCase()
		if err != nil {
			c.initErrors["reportHandler"] = err
			return
		}
		c.report.reportHandler = reportHTTP.NewReportHandler(reportUseCase, activityLogUseCase, c.Logger())
	})
	if storedErr, exists := c.initErrors["reportHandler"]; exists {
		return nil, storedErr
	}
	return c.report.reportHandler, nil
}

// AIReportHandler returns the AI report HTTP handler.
func (c *Container) AIReportHandler() (*reportHTTP.AIReportHandler, error) {
	c.report.aiReportHandlerInit.Do(func() {
		reportUseCase, err := c.ReportUseCase()
		if err != nil {
			c.initErrors["aiReportHandler"] = err
			return
		}
		activityLogUseCase, err := c.ActivityLogUseCase()
		if err != nil {
			c.initErrors["aiReportHandler"] = err
			return
		}
		c.report.aiReportHandler = reportHTTP.NewAIReportHandler(reportUseCase, activityLogUseCase, c.Logger())
	})
	if storedErr, exists := c.initErrors["aiReportHandler"]; exists {
		return nil, storedErr
	}
	return c.report.aiReportHandler, nil
}
