package storage

import (
	"context"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func NewMockStorage() *MockStorage {
	return &MockStorage{}
}

func (m *MockStorage) IssueWriteCredential(ctx context.Context, objectKey string, window time.Duration, maxSizeBytes int64) (string, map[string]string, *time.Time, error) {
	args := m.Called(ctx, objectKey, window, maxSizeBytes)
	return args.String(0), args.Get(1).(map[string]string), args.Get(2).(*time.Time), args.Error(3)
}

func (m *MockStorage) StatObject(ctx context.Context, objectKey string) (*minio.ObjectInfo, error) {
	args := m.Called(ctx, objectKey)
	return args.Get(0).(*minio.ObjectInfo), args.Error(1)
}

func (m *MockStorage) DeleteObject(ctx context.Context, objectKey string) error {
	args := m.Called(ctx, objectKey)
	return args.Error(0)
}

func (m *MockStorage) PromoteToPublic(ctx context.Context, objectKey string) (string, error) {
	args := m.Called(ctx, objectKey)
	return args.String(0), args.Error(1)
}
