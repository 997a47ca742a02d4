package upload

import (
	"context"
	"errors"
	"fmt"
	"time"

	"upload-gate/internal/core/domain"
)

func (s *uploadService) VerifyUpload(ctx context.Context, token string) (string, error) {
	session, err := s.uow.SessionRepo().FindByToken(ctx, token)
	if err != nil {
		return "", err
	}
	return s.verifySession(ctx, session, false)
}

func (s *uploadService) VerifyByObjectKey(ctx context.Context, objectKey string) (string, error) {
	session, err := s.uow.SessionRepo().FindByObjectKey(ctx, objectKey)
	if err != nil {
		return "", err
	}
	return s.verifySession(ctx, session, false)
}

// verifySession runs the PENDING -> VERIFIED transition. The version column
// is the arbiter of the race against the sweeper: losing the compare-and-set
// means the other path won, and the loser reports whatever the row now says.
func (s *uploadService) verifySession(ctx context.Context, session *domain.UploadSession, retried bool) (string, error) {

	switch session.State {
	case domain.UploadStateVerified:
		// retried client call on an already verified session: idempotent success
		if session.FinalLocation != nil {
			return *session.FinalLocation, nil
		}
		// verified but the promotion never landed, e.g. a crash between the
		// transition and the copy; finish it now
		return s.promote(ctx, session.Token, session.ObjectKey)
	case domain.UploadStateExpired, domain.UploadStateReclaimed:
		return "", domain.ErrAlreadyFinalized
	}

	now := time.Now()
	if now.After(session.ExpiresAt) {
		// claim the expiry ourselves; losing the race to the sweeper changes
		// nothing for the caller
		err := s.uow.SessionRepo().TransitionState(ctx, session.Token, domain.UploadStatePending, domain.UploadStateExpired, session.Version)
		if err != nil && !errors.Is(err, domain.ErrVersionConflict) {
			return "", err
		}
		return "", domain.ErrWindowExpired
	}

	storageCtx, cancel := context.WithTimeout(ctx, s.cfg.StorageTimeout)
	info, err := s.storage.StatObject(storageCtx, session.ObjectKey)
	cancel()
	if err != nil {
		if !errors.Is(err, domain.ErrObjectNotFound) {
			// ambiguous evidence (timeout, transient storage error) never
			// verifies an upload
			s.logger.Warn("object existence check failed", "object_key", session.ObjectKey, "error", err)
		}
		return "", domain.ErrObjectNotFound
	}

	if session.MaxSizeBytes > 0 && info.Size > session.MaxSizeBytes {
		return "", domain.ErrObjectTooLarge
	}

	err = s.uow.SessionRepo().MarkVerified(ctx, session.Token, session.Version, now)
	if err != nil {
		if errors.Is(err, domain.ErrVersionConflict) {
			if retried {
				return "", domain.ErrConcurrentModification
			}
			reloaded, findErr := s.uow.SessionRepo().FindByToken(ctx, session.Token)
			if findErr != nil {
				return "", findErr
			}
			return s.verifySession(ctx, reloaded, true)
		}
		return "", err
	}

	s.logger.Info("upload verified", "object_key", session.ObjectKey, "category", session.Category)

	return s.promote(ctx, session.Token, session.ObjectKey)
}

// promote flips the verified object to its public location and records it
func (s *uploadService) promote(ctx context.Context, token, objectKey string) (string, error) {

	storageCtx, cancel := context.WithTimeout(ctx, s.cfg.StorageTimeout)
	defer cancel()

	location, err := s.storage.PromoteToPublic(storageCtx, objectKey)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
	}

	if err := s.uow.SessionRepo().SetFinalLocation(ctx, token, location); err != nil {
		return "", err
	}

	return location, nil
}
