package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"upload-gate/internal/adapters/repository/postgres"
	"upload-gate/internal/core/domain"
)

func newPendingSession(expiresIn time.Duration) domain.UploadSession {
	now := time.Now().Round(time.Microsecond)
	token := uuid.New().String()
	return domain.UploadSession{
		Token:             token,
		Category:          "profile-image",
		OwnerContext:      domain.OwnerContext{"user_id": "u-42", "tenant": "acme"},
		ObjectKey:         "staging/profile-image/" + token + ".jpg",
		AllowedExtensions: []string{".jpg", ".jpeg", ".png"},
		MaxSizeBytes:      5 << 20,
		State:             domain.UploadStatePending,
		IssuedAt:          now,
		ExpiresAt:         now.Add(expiresIn),
		Version:           0,
	}
}

func TestSqlUploadSessionRepository(t *testing.T) {
	dbConnection, cleanup, truncate := postgres.NewTestDB(t)
	defer cleanup()
	ctx := context.Background()

	sessionRepo := postgres.NewSQLUploadSessionRepository(dbConnection)

	t.Run("Create - Nominal case", func(t *testing.T) {
		// Arrange
		truncate()
		session := newPendingSession(15 * time.Minute)

		// Act
		err := sessionRepo.Create(ctx, session)

		// Assert
		require.NoError(t, err)
		saved, err := sessionRepo.FindByToken(ctx, session.Token)
		require.NoError(t, err)
		require.Equal(t, session.Token, saved.Token)
		require.Equal(t, session.Category, saved.Category)
		require.Equal(t, session.OwnerContext, saved.OwnerContext)
		require.Equal(t, session.ObjectKey, saved.ObjectKey)
		require.Equal(t, session.AllowedExtensions, saved.AllowedExtensions)
		require.Equal(t, session.MaxSizeBytes, saved.MaxSizeBytes)
		require.Equal(t, domain.UploadStatePending, saved.State)
		require.WithinDuration(t, session.ExpiresAt, saved.ExpiresAt, time.Second)
		require.Equal(t, int64(0), saved.Version)
		require.Nil(t, saved.VerifiedAt)
		require.Nil(t, saved.FinalLocation)
	})

	t.Run("Create - Error on duplicate object key", func(t *testing.T) {
		// Arrange
		truncate()
		first := newPendingSession(15 * time.Minute)
		require.NoError(t, sessionRepo.Create(ctx, first))

		duplicate := newPendingSession(15 * time.Minute)
		duplicate.ObjectKey = first.ObjectKey

		// Act
		err := sessionRepo.Create(ctx, duplicate)

		// Assert
		require.Error(t, err)
	})

	t.Run("FindByToken - Session not found", func(t *testing.T) {
		// Arrange
		truncate()

		// Act
		found, err := sessionRepo.FindByToken(ctx, "no-such-token")

		// Assert
		require.ErrorIs(t, err, domain.ErrSessionNotFound)
		require.Nil(t, found)
	})

	t.Run("FindByObjectKey - Nominal case", func(t *testing.T) {
		// Arrange
		truncate()
		session := newPendingSession(15 * time.Minute)
		require.NoError(t, sessionRepo.Create(ctx, session))

		// Act
		found, err := sessionRepo.FindByObjectKey(ctx, session.ObjectKey)

		// Assert
		require.NoError(t, err)
		require.Equal(t, session.Token, found.Token)
	})

	t.Run("FindAllExpired - Only past-window pending and expired rows", func(t *testing.T) {
		// Arrange
		truncate()
		stale := newPendingSession(-10 * time.Minute)
		require.NoError(t, sessionRepo.Create(ctx, stale))

		claimed := newPendingSession(-20 * time.Minute)
		require.NoError(t, sessionRepo.Create(ctx, claimed))
		require.NoError(t, sessionRepo.TransitionState(ctx, claimed.Token, domain.UploadStatePending, domain.UploadStateExpired, 0))

		fresh := newPendingSession(15 * time.Minute)
		require.NoError(t, sessionRepo.Create(ctx, fresh))

		verified := newPendingSession(-5 * time.Minute)
		require.NoError(t, sessionRepo.Create(ctx, verified))
		require.NoError(t, sessionRepo.MarkVerified(ctx, verified.Token, 0, time.Now()))

		// Act
		expired, err := sessionRepo.FindAllExpired(ctx, time.Now())

		// Assert
		require.NoError(t, err)
		tokens := make([]string, 0, len(expired))
		for _, s := range expired {
			tokens = append(tokens, s.Token)
		}
		require.ElementsMatch(t, []string{stale.Token, claimed.Token}, tokens)
	})

	t.Run("TransitionState - Bumps version", func(t *testing.T) {
		// Arrange
		truncate()
		session := newPendingSession(-time.Minute)
		require.NoError(t, sessionRepo.Create(ctx, session))

		// Act
		err := sessionRepo.TransitionState(ctx, session.Token, domain.UploadStatePending, domain.UploadStateExpired, 0)

		// Assert
		require.NoError(t, err)
		updated, err := sessionRepo.FindByToken(ctx, session.Token)
		require.NoError(t, err)
		require.Equal(t, domain.UploadStateExpired, updated.State)
		require.Equal(t, int64(1), updated.Version)
	})

	t.Run("TransitionState - Conflict on stale version", func(t *testing.T) {
		// Arrange
		truncate()
		session := newPendingSession(-time.Minute)
		require.NoError(t, sessionRepo.Create(ctx, session))
		require.NoError(t, sessionRepo.TransitionState(ctx, session.Token, domain.UploadStatePending, domain.UploadStateExpired, 0))

		// Act: retry the same transition with the version already consumed
		err := sessionRepo.TransitionState(ctx, session.Token, domain.UploadStatePending, domain.UploadStateExpired, 0)

		// Assert
		require.ErrorIs(t, err, domain.ErrVersionConflict)
	})

	t.Run("TransitionState - Conflict on wrong source state", func(t *testing.T) {
		// Arrange
		truncate()
		session := newPendingSession(15 * time.Minute)
		require.NoError(t, sessionRepo.Create(ctx, session))
		require.NoError(t, sessionRepo.MarkVerified(ctx, session.Token, 0, time.Now()))

		// Act: the sweeper cannot expire a session verified first
		err := sessionRepo.TransitionState(ctx, session.Token, domain.UploadStatePending, domain.UploadStateExpired, 1)

		// Assert
		require.ErrorIs(t, err, domain.ErrVersionConflict)
		unchanged, err := sessionRepo.FindByToken(ctx, session.Token)
		require.NoError(t, err)
		require.Equal(t, domain.UploadStateVerified, unchanged.State)
	})

	t.Run("MarkVerified - Records verification time", func(t *testing.T) {
		// Arrange
		truncate()
		session := newPendingSession(15 * time.Minute)
		require.NoError(t, sessionRepo.Create(ctx, session))
		verifiedAt := time.Now().Round(time.Microsecond)

		// Act
		err := sessionRepo.MarkVerified(ctx, session.Token, 0, verifiedAt)

		// Assert
		require.NoError(t, err)
		updated, err := sessionRepo.FindByToken(ctx, session.Token)
		require.NoError(t, err)
		require.Equal(t, domain.UploadStateVerified, updated.State)
		require.Equal(t, int64(1), updated.Version)
		require.NotNil(t, updated.VerifiedAt)
		require.WithinDuration(t, verifiedAt, *updated.VerifiedAt, time.Second)
	})

	t.Run("MarkVerified - Conflict after sweeper claimed the session", func(t *testing.T) {
		// Arrange
		truncate()
		session := newPendingSession(-time.Minute)
		require.NoError(t, sessionRepo.Create(ctx, session))
		require.NoError(t, sessionRepo.TransitionState(ctx, session.Token, domain.UploadStatePending, domain.UploadStateExpired, 0))

		// Act
		err := sessionRepo.MarkVerified(ctx, session.Token, 0, time.Now())

		// Assert
		require.ErrorIs(t, err, domain.ErrVersionConflict)
	})

	t.Run("SetFinalLocation - Nominal case", func(t *testing.T) {
		// Arrange
		truncate()
		session := newPendingSession(15 * time.Minute)
		require.NoError(t, sessionRepo.Create(ctx, session))
		require.NoError(t, sessionRepo.MarkVerified(ctx, session.Token, 0, time.Now()))
		location := "https://minio.local/uploads/public/profile-image/abc.jpg"

		// Act
		err := sessionRepo.SetFinalLocation(ctx, session.Token, location)

		// Assert
		require.NoError(t, err)
		updated, err := sessionRepo.FindByToken(ctx, session.Token)
		require.NoError(t, err)
		require.NotNil(t, updated.FinalLocation)
		require.Equal(t, location, *updated.FinalLocation)
	})

	t.Run("SetFinalLocation - Error on unverified session", func(t *testing.T) {
		// Arrange
		truncate()
		session := newPendingSession(15 * time.Minute)
		require.NoError(t, sessionRepo.Create(ctx, session))

		// Act
		err := sessionRepo.SetFinalLocation(ctx, session.Token, "https://minio.local/uploads/public/x.jpg")

		// Assert
		require.ErrorIs(t, err, domain.ErrSessionNotFound)
	})
}
