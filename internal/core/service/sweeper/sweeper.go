package sweeper

import (
	"log/slog"
	"time"

	"upload-gate/internal/core/port"
)

type sweeperService struct {
	uow            port.UnitOfWork
	storage        port.ObjectStorage
	storageTimeout time.Duration
	logger         *slog.Logger
}

// NewSweeperService creates a new reclamation sweeper
func NewSweeperService(uow port.UnitOfWork, storage port.ObjectStorage, storageTimeout time.Duration, logger *slog.Logger) port.SweeperService {
	return &sweeperService{
		uow:            uow,
		storage:        storage,
		storageTimeout: storageTimeout,
		logger:         logger,
	}
}
