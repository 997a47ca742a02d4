package upload

import (
	"context"

	"github.com/stretchr/testify/mock"

	"upload-gate/internal/core/domain"
)

// MockUploadService is a mock implementation of UploadService
type MockUploadService struct {
	mock.Mock
}

// NewMockUploadService creates a new MockUploadService
func NewMockUploadService() *MockUploadService {
	return &MockUploadService{}
}

func (m *MockUploadService) IssueCredential(ctx context.Context, category string, owner domain.OwnerContext, declaredFilename string) (*domain.IssuedCredential, error) {
	args := m.Called(ctx, category, owner, declaredFilename)
	return args.Get(0).(*domain.IssuedCredential), args.Error(1)
}

func (m *MockUploadService) VerifyUpload(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

func (m *MockUploadService) VerifyByObjectKey(ctx context.Context, objectKey string) (string, error) {
	args := m.Called(ctx, objectKey)
	return args.String(0), args.Error(1)
}

func (m *MockUploadService) GetUploadStatus(ctx context.Context, token string) (domain.UploadState, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(domain.UploadState), args.Error(1)
}
