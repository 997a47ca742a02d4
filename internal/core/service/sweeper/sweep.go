package sweeper

import (
	"context"
	"errors"
	"time"

	"upload-gate/internal/core/domain"
)

// SweepExpired reclaims storage for sessions that outlived their validity
// window without being verified. Each session is handled independently: a
// failure on one never stops the sweep of the others.
func (c *sweeperService) SweepExpired(ctx context.Context, now time.Time) (int, error) {

	sessions, err := c.uow.SessionRepo().FindAllExpired(ctx, now)
	if err != nil {
		return 0, err
	}

	reclaimed := 0
	for _, session := range sessions {

		version := session.Version

		if session.State == domain.UploadStatePending {
			err := c.uow.SessionRepo().TransitionState(ctx, session.Token, domain.UploadStatePending, domain.UploadStateExpired, version)
			if err != nil {
				if errors.Is(err, domain.ErrVersionConflict) {
					// a concurrent verify won the race; this session is not ours
					continue
				}
				c.logger.Error("failed to expire session", "object_key", session.ObjectKey, "error", err)
				continue
			}
			version++
		}

		// an absent object counts as deleted; a failed delete leaves the
		// session EXPIRED so the next sweep cycle retries it
		storageCtx, cancel := context.WithTimeout(ctx, c.storageTimeout)
		deleteErr := c.storage.DeleteObject(storageCtx, session.ObjectKey)
		cancel()
		if deleteErr != nil {
			c.logger.Error("failed to delete orphaned object", "object_key", session.ObjectKey, "error", deleteErr)
			continue
		}

		err := c.uow.SessionRepo().TransitionState(ctx, session.Token, domain.UploadStateExpired, domain.UploadStateReclaimed, version)
		if err != nil {
			c.logger.Error("failed to reclaim session", "object_key", session.ObjectKey, "error", err)
			continue
		}

		reclaimed++
	}

	c.logger.Info("reclamation sweep completed", "candidates", len(sessions), "reclaimed", reclaimed)
	return reclaimed, nil
}
