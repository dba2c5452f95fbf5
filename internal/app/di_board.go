package app

import (
	"fmt"
	"sync"

	boardHTTP "github.com/medrecordhq/medrecord/internal/board/http"
	"github.com/medrecordhq/medrecord/internal/board/repository"
	"github.com/medrecordhq/medrecord/internal/board/usecase"
)

// boardComponents groups the lazily initialized tumor board dependencies.
type boardComponents struct {
	repositoryInit sync.Once
	useCaseInit    sync.Once
	handlerInit    sync.Once

	repository usecase.BoardCaseRepository
	useCase    usecase.UseCase
	handler    *boardHTTP.BoardCaseHandler
}

// BoardCaseRepository returns the board case repository for the configured driver.
func (c *Container) BoardCaseRepository() (usecase.BoardCaseRepository, error) {
	c.board.repositoryInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["boardCaseRepository"] = fmt.Errorf("failed to get database for board case repository: %w", err)
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.board.repository = repository.NewMySQLBoardCaseRepository(db)
		case "postgres":
			c.board.repository = repository.NewPostgreSQLBoardCaseRepository(db)
		default:
			c.initErrors["boardCaseRepository"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["boardCaseRepository"]; exists {
		return nil, storedErr
	}
	return c.board.repository, nil
}

// BoardCaseUseCase returns the board case use case.
func (c *Container) BoardCaseUseCase() (usecase.UseCase, error) {
	c.board.useCaseInit.Do(func() {
		boardCaseRepo, err := c.BoardCaseRepository()
		if err != nil {
			c.initErrors["boardCaseUseCase"] = err
			return
		}
		patientRepo, err := c.PatientRepository()
		if err != nil {
			c.initErrors["boardCaseUseCase"] = err
			return
		}
		txManager, err := c.TxManager()
		if err != nil {
			c.initErrors["boardCaseUseCase"] = err
			return
		}
		c.board.useCase = usecase.NewBoardCaseUseCase(boardCaseRepo, patientRepo, txManager)
	})
	if storedErr, exists := c.initErrors["boardCaseUseCase"]; exists {
		return nil, storedErr
	}
	return c.board.useCase, nil
}

// BoardCaseHandler returns the board case HTTP handler.
func (c *Container) BoardCaseHandler() (*boardHTTP.BoardCaseHandler, error) {
	c.board.handlerInit.Do(func() {
		boardCaseUseCase, err := c.BoardCaseUseCase()
		if err != nil {
			c.initErrors["boardCaseHandler"] = err
			return
		}
		activityLogUseCase, err := c.ActivityLogUseCase()
		if err != nil {
			c.initErrors["boardCaseHandler"] = err
			return
		}
		c.board.handler = boardHTTP.NewBoardCaseHandler(boardCaseUseCase, activityLogUseCase, c.Logger())
	})
	if storedErr, exists := c.initErrors["boardCaseHandler"]; exists {
		return nil, storedErr
	}
	return c.board.handler, nil
}
