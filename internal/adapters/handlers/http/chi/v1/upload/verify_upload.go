package upload

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"upload-gate/internal/core/domain"
)

// V1VerifyUploadResponse is the response of a successful verification
type V1VerifyUploadResponse struct {
	Location string `json:"location"`
}

// VerifyUploadV1 confirms an upload. The status codes separate the client's
// choices: retry shortly (425), start over with a fresh credential (404/409/410),
// or fix the file (413).
func (h *HandlerV1) VerifyUploadV1(w http.ResponseWriter, r *http.Request) {

	token := chi.URLParam(r, "token")
	if token == "" {
		http.Error(w, "missing token", http.StatusBadRequest)
		return
	}

	location, verifyErr := h.uploadService.VerifyUpload(r.Context(), token)
	switch {
	case errors.Is(verifyErr, domain.ErrSessionNotFound):
		http.Error(w, verifyErr.Error(), http.StatusNotFound)
		return
	case errors.Is(verifyErr, domain.ErrObjectNotFound):
		// upload may still be in flight; the client should retry until expiry
		http.Error(w, verifyErr.Error(), http.StatusTooEarly)
		return
	case errors.Is(verifyErr, domain.ErrWindowExpired):
		http.Error(w, verifyErr.Error(), http.StatusGone)
		return
	case errors.Is(verifyErr, domain.ErrAlreadyFinalized), errors.Is(verifyErr, domain.ErrConcurrentModification):
		http.Error(w, verifyErr.Error(), http.StatusConflict)
		return
	case errors.Is(verifyErr, domain.ErrObjectTooLarge):
		http.Error(w, verifyErr.Error(), http.StatusRequestEntityTooLarge)
		return
	case errors.Is(verifyErr, domain.ErrStorageUnavailable):
		h.logger.Error("storage unavailable during verification", "error", verifyErr)
		http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
		return
	case verifyErr != nil:
		h.logger.Error("error verifying upload", "error", verifyErr)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	default:
		resp := V1VerifyUploadResponse{Location: location}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			h.logger.Error("error encoding response", "error", err)
		}
	}
}
