package upload

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"upload-gate/internal/core/domain"
)

// V1UploadStatusResponse reports the session state without changing it
type V1UploadStatusResponse struct {
	Status string `json:"status"`
}

func (h *HandlerV1) GetStatusV1(w http.ResponseWriter, r *http.Request) {

	token := chi.URLParam(r, "token")
	if token == "" {
		http.Error(w, "missing token", http.StatusBadRequest)
		return
	}

	status := "not-found"
	state, err := h.uploadService.GetUploadStatus(r.Context(), token)
	switch {
	case err == nil:
		status = string(state)
	case errors.Is(err, domain.ErrSessionNotFound):
		// reported as a status rather than an error: the query is a
		// convenience read, not a lookup guarantee
	default:
		h.logger.Error("error fetching upload status", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(V1UploadStatusResponse{Status: status}); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}
