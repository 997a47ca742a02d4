package upload

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"upload-gate/internal/core/port"
)

// HandlerV1 is the handler for v1 upload routes
type HandlerV1 struct {
	uploadService port.UploadService
	logger        *slog.Logger
}

// NewUploadHandlerV1 creates HandlerV1
func NewUploadHandlerV1(service port.UploadService, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		uploadService: service,
		logger:        logger,
	}
}

// Routes exposes handler routes
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", h.RequestCredentialV1)
	router.Post("/{token}/verify", h.VerifyUploadV1)
	router.Get("/{token}/status", h.GetStatusV1)

	return router
}
