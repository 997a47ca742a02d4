package upload

import (
	"log/slog"
	"time"

	"upload-gate/internal/config"
	"upload-gate/internal/core/port"
)

type uploadService struct {
	uow     port.UnitOfWork
	storage port.ObjectStorage
	cfg     config.UploadConfig
	logger  *slog.Logger
}

// NewUploadService creates a new upload service
func NewUploadService(uow port.UnitOfWork, storage port.ObjectStorage, cfg config.UploadConfig, logger *slog.Logger) port.UploadService {
	return &uploadService{
		uow:     uow,
		storage: storage,
		cfg:     cfg,
		logger:  logger,
	}
}

// validityWindow resolves the window for a category, falling back to the
// global session TTL when the category does not override it.
func (s *uploadService) validityWindow(policy config.CategoryPolicy) time.Duration {
	if policy.ValidityWindow > 0 {
		return policy.ValidityWindow
	}
	return s.cfg.SessionTTL
}
