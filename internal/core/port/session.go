package port

import (
	"context"
	"time"

	"upload-gate/internal/core/domain"
)

// UploadSessionRepository is an interface to interact with upload session storage.
// All state transitions are conditional on the session's version column:
// a transition that matches no row returns domain.ErrVersionConflict.
type UploadSessionRepository interface {
	Create(ctx context.Context, session domain.UploadSession) error
	FindByToken(ctx context.Context, token string) (*domain.UploadSession, error)
	FindByObjectKey(ctx context.Context, objectKey string) (*domain.UploadSession, error)
	// FindAllExpired returns sessions past their validity window that are not
	// yet reclaimed: pending ones to be claimed, and expired ones whose object
	// deletion still has to be retried.
	FindAllExpired(ctx context.Context, now time.Time) ([]domain.UploadSession, error)
	TransitionState(ctx context.Context, token string, from, to domain.UploadState, expectedVersion int64) error
	MarkVerified(ctx context.Context, token string, expectedVersion int64, verifiedAt time.Time) error
	SetFinalLocation(ctx context.Context, token string, location string) error
}
