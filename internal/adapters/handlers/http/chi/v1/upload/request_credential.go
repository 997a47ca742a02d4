package upload

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"upload-gate/internal/core/domain"
)

// V1RequestCredentialRequest is the request for a direct-upload credential.
// The owner context is whatever identifiers the already-authorized upstream
// layer wants attached to the session; this subsystem passes it through.
type V1RequestCredentialRequest struct {
	Category     string            `json:"category"`
	FileName     string            `json:"filename"`
	OwnerContext map[string]string `json:"owner_context"`
}

// V1RequestCredentialResponse is the response carrying the write credential
type V1RequestCredentialResponse struct {
	Token             string            `json:"token"`
	UploadURL         string            `json:"upload_url"`
	Headers           map[string]string `json:"headers"`
	ExpiresAt         time.Time         `json:"expires_at"`
	MaxSizeBytes      int64             `json:"max_size_bytes"`
	AllowedExtensions []string          `json:"allowed_extensions"`
}

func (h *HandlerV1) RequestCredentialV1(w http.ResponseWriter, r *http.Request) {

	var req V1RequestCredentialRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("error decoding credential request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Category == "" || req.FileName == "" {
		http.Error(w, "missing param", http.StatusBadRequest)
		return
	}

	credential, requestErr := h.uploadService.IssueCredential(r.Context(), req.Category, req.OwnerContext, req.FileName)
	switch {
	case errors.Is(requestErr, domain.ErrUnknownCategory), errors.Is(requestErr, domain.ErrInvalidExtension):
		h.logger.Error("invalid credential request", "error", requestErr)
		http.Error(w, requestErr.Error(), http.StatusBadRequest)
		return
	case errors.Is(requestErr, domain.ErrStorageUnavailable):
		h.logger.Error("storage unavailable during issuance", "error", requestErr)
		http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
		return
	case requestErr != nil:
		h.logger.Error("error issuing upload credential", "error", requestErr)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	default:
		resp := V1RequestCredentialResponse{
			Token:             credential.Token,
			UploadURL:         credential.UploadURL,
			Headers:           credential.Headers,
			ExpiresAt:         credential.ExpiresAt,
			MaxSizeBytes:      credential.MaxSizeBytes,
			AllowedExtensions: credential.AllowedExtensions,
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			h.logger.Error("error encoding response", "error", err)
		}
	}
}
