package upload

import (
	"context"

	"upload-gate/internal/core/domain"
)

// GetUploadStatus is a read-only convenience query; it never transitions the session
func (s *uploadService) GetUploadStatus(ctx context.Context, token string) (domain.UploadState, error) {
	session, err := s.uow.SessionRepo().FindByToken(ctx, token)
	if err != nil {
		return "", err
	}
	return session.State, nil
}
