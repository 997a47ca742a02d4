package repository

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"upload-gate/internal/core/domain"
	"upload-gate/internal/core/port"
)

type MockUploadSessionRepository struct {
	mock.Mock
}

func NewMockUploadSessionRepository() *MockUploadSessionRepository {
	return &MockUploadSessionRepository{}
}

func (m *MockUploadSessionRepository) Create(ctx context.Context, session domain.UploadSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockUploadSessionRepository) FindByToken(ctx context.Context, token string) (*domain.UploadSession, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(*domain.UploadSession), args.Error(1)
}

func (m *MockUploadSessionRepository) FindByObjectKey(ctx context.Context, objectKey string) (*domain.UploadSession, error) {
	args := m.Called(ctx, objectKey)
	return args.Get(0).(*domain.UploadSession), args.Error(1)
}

func (m *MockUploadSessionRepository) FindAllExpired(ctx context.Context, now time.Time) ([]domain.UploadSession, error) {
	args := m.Called(ctx, now)
	return args.Get(0).([]domain.UploadSession), args.Error(1)
}

func (m *MockUploadSessionRepository) TransitionState(ctx context.Context, token string, from, to domain.UploadState, expectedVersion int64) error {
	args := m.Called(ctx, token, from, to, expectedVersion)
	return args.Error(0)
}

func (m *MockUploadSessionRepository) MarkVerified(ctx context.Context, token string, expectedVersion int64, verifiedAt time.Time) error {
	args := m.Called(ctx, token, expectedVersion, verifiedAt)
	return args.Error(0)
}

func (m *MockUploadSessionRepository) SetFinalLocation(ctx context.Context, token string, location string) error {
	args := m.Called(ctx, token, location)
	return args.Error(0)
}

type MockUnitOfWork struct {
	mock.Mock
	sessionRepo *MockUploadSessionRepository
}

func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		sessionRepo: &MockUploadSessionRepository{},
	}
}

func (m *MockUnitOfWork) SessionRepo() port.UploadSessionRepository {
	return m.sessionRepo
}

func (m *MockUnitOfWork) Execute(ctx context.Context, fn func(uow port.UnitOfWork) error) error {
	args := m.Called(ctx, fn)

	if err := fn(m); err != nil {
		return err
	}

	return args.Error(0)
}

func (m *MockUnitOfWork) GetSessionRepoMock() *MockUploadSessionRepository {
	return m.sessionRepo
}
