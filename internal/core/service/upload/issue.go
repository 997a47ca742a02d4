package upload

import (
	"context"
	"fmt"
	"time"

	"upload-gate/internal/core/domain"
	"upload-gate/internal/core/port"
)

func (s *uploadService) IssueCredential(ctx context.Context, category string, owner domain.OwnerContext, declaredFilename string) (*domain.IssuedCredential, error) {

	policy, ok := s.cfg.Categories[category]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownCategory, category)
	}

	ext, err := validateFilename(declaredFilename, policy.Extensions)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidExtension, err)
	}

	token, err := newSessionToken()
	if err != nil {
		return nil, err
	}

	window := s.validityWindow(policy)
	now := time.Now()

	session := domain.UploadSession{
		Token:             token,
		Category:          category,
		OwnerContext:      owner,
		ObjectKey:         deriveObjectKey(policy.KeyPrefix, ext),
		AllowedExtensions: policy.Extensions,
		MaxSizeBytes:      policy.MaxSizeBytes,
		State:             domain.UploadStatePending,
		IssuedAt:          now,
		ExpiresAt:         now.Add(window),
		Version:           0,
	}

	var uploadURL string
	var headers map[string]string

	// The insert and the write-credential call succeed or fail as a unit:
	// a failed presign rolls the session row back, so no orphaned PENDING
	// session is ever persisted.
	txErr := s.uow.Execute(ctx, func(uow port.UnitOfWork) error {

		if createErr := uow.SessionRepo().Create(ctx, session); createErr != nil {
			return createErr
		}

		storageCtx, cancel := context.WithTimeout(ctx, s.cfg.StorageTimeout)
		defer cancel()

		var credErr error
		uploadURL, headers, _, credErr = s.storage.IssueWriteCredential(storageCtx, session.ObjectKey, window, policy.MaxSizeBytes)
		if credErr != nil {
			return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, credErr)
		}

		return nil
	})

	if txErr != nil {
		return nil, fmt.Errorf("could not issue upload credential: %w", txErr)
	}

	s.logger.Info("upload credential issued",
		"category", category,
		"object_key", session.ObjectKey,
		"expires_at", session.ExpiresAt,
	)

	return &domain.IssuedCredential{
		Token:             token,
		UploadURL:         uploadURL,
		Headers:           headers,
		ExpiresAt:         session.ExpiresAt,
		MaxSizeBytes:      policy.MaxSizeBytes,
		AllowedExtensions: policy.Extensions,
	}, nil
}
