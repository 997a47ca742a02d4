package storageevent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"upload-gate/internal/core/domain"
)

func (s *storageEventService) HandleMessage(ctx context.Context, data []byte) error {
	var event domain.StorageEvent

	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("could not unmarshal storage event: %w", err)
	}
	if len(event.Records) == 0 {
		return fmt.Errorf("no records in storage event")
	}

	for _, record := range event.Records {

		if !strings.HasPrefix(record.EventName, "s3:ObjectCreated") {
			continue
		}

		objectKey, err := url.QueryUnescape(record.S3.Object.Key)
		if err != nil {
			return fmt.Errorf("could not decode object key %q: %w", record.S3.Object.Key, err)
		}

		if !strings.HasPrefix(objectKey, domain.StagingPrefix) {
			continue
		}

		location, verifyErr := s.uploads.VerifyByObjectKey(ctx, objectKey)
		switch {
		case verifyErr == nil:
			s.logger.Info("upload verified from storage event", "object_key", objectKey, "location", location)
		case errors.Is(verifyErr, domain.ErrSessionNotFound),
			errors.Is(verifyErr, domain.ErrAlreadyFinalized),
			errors.Is(verifyErr, domain.ErrWindowExpired),
			errors.Is(verifyErr, domain.ErrObjectTooLarge):
			// nothing a redelivery could fix; ack and let the sweeper or the
			// client-facing path settle the session
			s.logger.Warn("storage event not applicable", "object_key", objectKey, "reason", verifyErr)
		default:
			// transient (storage hiccup, lost race retry): nak for redelivery
			return verifyErr
		}
	}

	return nil
}
