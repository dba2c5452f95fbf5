package app

import (
	"fmt"
	"sync"

	patientHTTP "github.com/medrecordhq/medrecord/internal/patient/http"
	"github.com/medrecordhq/medrecord/internal/patient/repository"
	"github.com/medrecordhq/medrecord/internal/patient/usecase"
)

// patientComponents groups the lazily initialized patient dependencies.
type patientComponents struct {
	repositoryInit sync.Once
	useCaseInit    sync.Once
	handlerInit    sync.Once

	repository usecase.PatientRepository
	useCase    usecase.UseCase
	handler    *patientHTTP.PatientHandler
}

// PatientRepository returns the patient repository for the configured driver.
func (c *Container) PatientRepository() (usecase.PatientRepository, error) {
	c.patient.repositoryInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["patientRepository"] = fmt.Errorf("failed to get database for patient repository: %w", err)
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.patient.repository = repository.NewMySQLPatientRepository(db)
		case "postgres":
			c.patient.repository = repository.NewPostgreSQLPatientRepository(db)
		default:
			c.initErrors["patientRepository"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["patientRepository"]; exists {
		return nil, storedErr
	}
	return c.patient.repository, nil
}

// PatientUseCase returns the patient use case.
func (c *Container) PatientUseCase() (usecase.UseCase, error) {
	c.patient.useCaseInit.Do(func() {
		patientRepo, err := c.PatientRepository()
		if err != nil {
			c.initErrors["patientUseCase"] = err
			return
		}
		c.patient.useCase = usecase.NewPatientUseCase(patientRepo)
	})
	if storedErr, exists := c.initErrors["patientUseCase"]; exists {
		return nil, storedErr
	}
	return c.patient.useCase, nil
}

// PatientHandler returns the patient HTTP handler.
func (c *Container) PatientHandler() (*patientHTTP.PatientHandler, error) {
	c.patient.handlerInit.Do(func() {
		patientUseCase, err := c.PatientUseCase()
		if err != nil {
			c.initErrors["patientHandler"] = err
			return
		}
		activityLogUseCase, err := c.ActivityLogUseCase()
		if err != nil {
			c.initErrors["patientHandler"] = err
			return
		}
		c.patient.handler = patientHTTP.NewPatientHandler(patientUseCase, activityLogUseCase, c.Logger())
	})
	if storedErr, exists := c.initErrors["patientHandler"]; exists {
		return nil, storedErr
	}
	return c.patient.handler, nil
}
