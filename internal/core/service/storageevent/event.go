package storageevent

import (
	"log/slog"

	"upload-gate/internal/core/port"
)

type storageEventService struct {
	uploads port.UploadService
	logger  *slog.Logger
}

// NewStorageEventService creates a handler for bucket notifications. It drives
// the same verification path the client-facing endpoint uses, so an upload is
// confirmed as soon as the store reports the object, even before the client polls.
func NewStorageEventService(uploads port.UploadService, logger *slog.Logger) port.MessageService {
	return &storageEventService{
		uploads: uploads,
		logger:  logger,
	}
}
