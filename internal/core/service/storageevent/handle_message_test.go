package storageevent_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"upload-gate/internal/core/domain"
	"upload-gate/internal/core/service/storageevent"
	"upload-gate/internal/core/service/upload"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func objectCreatedPayload(eventName, escapedKey string) []byte {
	return []byte(fmt.Sprintf(`{
		"EventName": "%s",
		"Records": [
			{
				"eventName": "%s",
				"s3": {
					"bucket": {"name": "uploads"},
					"object": {"key": "%s", "size": 1024, "eTag": "d41d8cd98f"}
				}
			}
		]
	}`, eventName, eventName, escapedKey))
}

func TestStorageEventService_HandleMessage_VerifiesStagingObject(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUploads := upload.NewMockUploadService()
	service := storageevent.NewStorageEventService(mockUploads, discardLogger())

	payload := objectCreatedPayload("s3:ObjectCreated:Put", "staging%2Fprofile-image%2Fabc123.jpg")
	mockUploads.
		On("VerifyByObjectKey", ctx, "staging/profile-image/abc123.jpg").
		Return("https://minio.local/uploads/public/profile-image/abc123.jpg", nil)

	// Act
	err := service.HandleMessage(ctx, payload)

	// Assert
	require.NoError(t, err)
	mockUploads.AssertExpectations(t)
}

func TestStorageEventService_HandleMessage_SkipsNonCreatedEvents(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUploads := upload.NewMockUploadService()
	service := storageevent.NewStorageEventService(mockUploads, discardLogger())

	payload := objectCreatedPayload("s3:ObjectRemoved:Delete", "staging%2Fprofile-image%2Fabc123.jpg")

	// Act
	err := service.HandleMessage(ctx, payload)

	// Assert
	require.NoError(t, err)
	mockUploads.AssertNotCalled(t, "VerifyByObjectKey", mock.Anything, mock.Anything)
}

func TestStorageEventService_HandleMessage_SkipsNonStagingKeys(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUploads := upload.NewMockUploadService()
	service := storageevent.NewStorageEventService(mockUploads, discardLogger())

	payload := objectCreatedPayload("s3:ObjectCreated:Put", "public%2Fprofile-image%2Fabc123.jpg")

	// Act
	err := service.HandleMessage(ctx, payload)

	// Assert
	require.NoError(t, err)
	mockUploads.AssertNotCalled(t, "VerifyByObjectKey", mock.Anything, mock.Anything)
}

func TestStorageEventService_HandleMessage_AcksSettledSessions(t *testing.T) {
	settled := []error{
		domain.ErrSessionNotFound,
		domain.ErrAlreadyFinalized,
		domain.ErrWindowExpired,
		domain.ErrObjectTooLarge,
	}

	for _, verifyErr := range settled {
		t.Run(verifyErr.Error(), func(t *testing.T) {
			// Arrange
			ctx := context.Background()
			mockUploads := upload.NewMockUploadService()
			service := storageevent.NewStorageEventService(mockUploads, discardLogger())

			payload := objectCreatedPayload("s3:ObjectCreated:Put", "staging%2Forg-logo%2Fdef456.png")
			mockUploads.
				On("VerifyByObjectKey", ctx, "staging/org-logo/def456.png").
				Return("", verifyErr)

			// Act: nothing a redelivery could fix, so the message must be acked
			err := service.HandleMessage(ctx, payload)

			// Assert
			assert.NoError(t, err)
		})
	}
}

func TestStorageEventService_HandleMessage_NaksTransientFailures(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUploads := upload.NewMockUploadService()
	service := storageevent.NewStorageEventService(mockUploads, discardLogger())

	payload := objectCreatedPayload("s3:ObjectCreated:Put", "staging%2Forg-logo%2Fdef456.png")
	mockUploads.
		On("VerifyByObjectKey", ctx, "staging/org-logo/def456.png").
		Return("", domain.ErrStorageUnavailable)

	// Act
	err := service.HandleMessage(ctx, payload)

	// Assert: transient errors propagate so the broker redelivers
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}

func TestStorageEventService_HandleMessage_InvalidPayload(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUploads := upload.NewMockUploadService()
	service := storageevent.NewStorageEventService(mockUploads, discardLogger())

	// Act
	err := service.HandleMessage(ctx, []byte("not json"))

	// Assert
	assert.Error(t, err)
}

func TestStorageEventService_HandleMessage_EmptyRecords(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUploads := upload.NewMockUploadService()
	service := storageevent.NewStorageEventService(mockUploads, discardLogger())

	// Act
	err := service.HandleMessage(ctx, []byte(`{"EventName": "s3:ObjectCreated:Put", "Records": []}`))

	// Assert
	assert.Error(t, err)
}
