package port

import (
	"context"
	"time"

	"github.com/minio/minio-go/v7"
)

// ObjectStorage is an interface to define object store interactions
type ObjectStorage interface {
	// IssueWriteCredential returns a presigned PUT URL scoped to exactly
	// objectKey, the headers the client must send with it, and the moment
	// the credential stops working.
	IssueWriteCredential(ctx context.Context, objectKey string, window time.Duration, maxSizeBytes int64) (string, map[string]string, *time.Time, error)
	// StatObject returns object metadata, or domain.ErrObjectNotFound when
	// the key does not exist.
	StatObject(ctx context.Context, objectKey string) (*minio.ObjectInfo, error)
	// DeleteObject removes an object; deleting an absent key is a success.
	DeleteObject(ctx context.Context, objectKey string) error
	// PromoteToPublic moves a staged object to its public location and
	// returns the public URL.
	PromoteToPublic(ctx context.Context, objectKey string) (string, error)
}
