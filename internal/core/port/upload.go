package port

import (
	"context"

	"upload-gate/internal/core/domain"
)

// UploadService is the request-time entry point of the upload lifecycle
type UploadService interface {
	// IssueCredential validates the declared filename against the category
	// policy and returns a short-lived write credential plus the session token.
	IssueCredential(ctx context.Context, category string, owner domain.OwnerContext, declaredFilename string) (*domain.IssuedCredential, error)
	// VerifyUpload confirms the object landed in storage and finalizes the
	// session, returning the final public location. Safe to retry.
	VerifyUpload(ctx context.Context, token string) (string, error)
	// VerifyByObjectKey is the same confirmation path keyed by object key,
	// used by the storage event consumer.
	VerifyByObjectKey(ctx context.Context, objectKey string) (string, error)
	// GetUploadStatus reports the session state without changing it.
	GetUploadStatus(ctx context.Context, token string) (domain.UploadState, error)
}
