package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upload-gate/internal/adapters/repository/postgres"
	"upload-gate/internal/core/domain"
	"upload-gate/internal/core/port"
)

func TestSqlUnitOfWork_Execute(t *testing.T) {

	//Arrange
	dbConnection, cleanup, truncate := postgres.NewTestDB(t)
	defer cleanup()

	ctx := context.Background()
	uow := postgres.NewUnitOfWork(dbConnection)
	sessionRepo := postgres.NewSQLUploadSessionRepository(dbConnection)

	t.Run("Should commit when no error", func(t *testing.T) {
		defer truncate()
		session := newPendingSession(15 * time.Minute)

		//act
		err := uow.Execute(ctx, func(u port.UnitOfWork) error {
			return u.SessionRepo().Create(ctx, session)
		})

		//assert
		require.NoError(t, err)
		saved, err := sessionRepo.FindByToken(ctx, session.Token)
		require.NoError(t, err)
		require.Equal(t, session.Token, saved.Token)
	})

	t.Run("Should rollback when error occurs", func(t *testing.T) {
		defer truncate()
		session := newPendingSession(15 * time.Minute)

		//act
		err := uow.Execute(ctx, func(u port.UnitOfWork) error {
			_ = u.SessionRepo().Create(ctx, session)
			return assert.AnError
		})

		//assert
		require.ErrorIs(t, err, assert.AnError)
		_, err = sessionRepo.FindByToken(ctx, session.Token)
		require.ErrorIs(t, err, domain.ErrSessionNotFound)
	})
}
