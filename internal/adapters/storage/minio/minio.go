package minio

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"upload-gate/internal/config"
	"upload-gate/internal/core/domain"
)

// Adapter is an adapter for minio
type Adapter struct {
	client *minio.Client
	config config.MinioConfig
	logger *slog.Logger
}

// publicReadPolicy grants anonymous read on the public prefix only; staged
// objects stay private until their session is verified.
const publicReadPolicy = `{
	"Version": "2012-10-17",
	"Statement": [
		{
			"Effect": "Allow",
			"Principal": {"AWS": ["*"]},
			"Action": ["s3:GetObject"],
			"Resource": ["arn:aws:s3:::%s/%s*"]
		}
	]
}`

// NewAdapter returns Adapter
func NewAdapter(ctx context.Context, cfg config.MinioConfig, logger *slog.Logger) (*Adapter, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check if bucket exists: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	policy := fmt.Sprintf(publicReadPolicy, cfg.BucketName, domain.PublicPrefix)
	if err := client.SetBucketPolicy(ctx, cfg.BucketName, policy); err != nil {
		return nil, fmt.Errorf("failed to set bucket policy: %w", err)
	}

	return &Adapter{client: client, config: cfg, logger: logger}, nil
}

// IssueWriteCredential generates a presigned PUT URL scoped to objectKey. A
// presigned PUT cannot hard-enforce a byte limit (that needs POST policies);
// the size cap is advertised to the client here and enforced again at
// verification time.
func (a *Adapter) IssueWriteCredential(ctx context.Context, objectKey string, window time.Duration, maxSizeBytes int64) (string, map[string]string, *time.Time, error) {

	requestHeaders := make(http.Header)
	requestHeaders.Set("x-amz-meta-max-size-bytes", strconv.FormatInt(maxSizeBytes, 10))

	presignedURL, err := a.client.PresignHeader(ctx, http.MethodPut, a.config.BucketName, objectKey, window, nil, requestHeaders)
	if err != nil {
		return "", nil, nil, fmt.Errorf("failed to generate pre-signed URL: %w", err)
	}

	expiresAt := time.Now().Add(window)

	return presignedURL.String(), a.headerToMap(requestHeaders), &expiresAt, nil
}

// StatObject retrieves object info, mapping a missing key to the domain error
func (a *Adapter) StatObject(ctx context.Context, objectKey string) (*minio.ObjectInfo, error) {
	info, err := a.client.StatObject(ctx, a.config.BucketName, objectKey, minio.StatObjectOptions{})
	if err != nil {
		if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" {
			return nil, domain.ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to get object info: %w", err)
	}
	return &info, nil
}

// DeleteObject deletes an object from storage; an already absent key is a success
func (a *Adapter) DeleteObject(ctx context.Context, objectKey string) error {
	err := a.client.RemoveObject(ctx, a.config.BucketName, objectKey, minio.RemoveObjectOptions{})
	if err != nil {
		if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" {
			return nil
		}
		return fmt.Errorf("failed to delete object: %w", err)
	}

	a.logger.Info("object deleted",
		slog.String("objectKey", objectKey),
		slog.String("bucket", a.config.BucketName))

	return nil
}

// PromoteToPublic moves a staged object under the public prefix with a
// server-side copy and removes the staged original
func (a *Adapter) PromoteToPublic(ctx context.Context, objectKey string) (string, error) {

	publicKey := PublicKeyFor(objectKey)

	_, err := a.client.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: a.config.BucketName, Object: publicKey},
		minio.CopySrcOptions{Bucket: a.config.BucketName, Object: objectKey},
	)
	if err != nil {
		if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" {
			// the staged copy is gone; if the public copy exists this is a
			// promotion retry and the move already happened
			if _, statErr := a.client.StatObject(ctx, a.config.BucketName, publicKey, minio.StatObjectOptions{}); statErr == nil {
				return a.publicURL(publicKey), nil
			}
			return "", domain.ErrObjectNotFound
		}
		return "", fmt.Errorf("failed to promote object: %w", err)
	}

	if err := a.client.RemoveObject(ctx, a.config.BucketName, objectKey, minio.RemoveObjectOptions{}); err != nil {
		a.logger.Warn("failed to remove staged object after promotion",
			slog.String("objectKey", objectKey), slog.String("error", err.Error()))
	}

	a.logger.Info("object promoted to public",
		slog.String("objectKey", objectKey),
		slog.String("publicKey", publicKey))

	return a.publicURL(publicKey), nil
}

// PublicKeyFor maps a staging key to its public counterpart
func PublicKeyFor(objectKey string) string {
	if rest, ok := strings.CutPrefix(objectKey, domain.StagingPrefix); ok {
		return domain.PublicPrefix + rest
	}
	return domain.PublicPrefix + objectKey
}

func (a *Adapter) publicURL(publicKey string) string {
	scheme := "http"
	if a.config.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, a.config.Endpoint, a.config.BucketName, publicKey)
}

func (a *Adapter) headerToMap(headers http.Header) map[string]string {
	result := make(map[string]string)
	for key, values := range headers {
		if len(values) > 0 {
			result[key] = values[0]
		}
	}
	return result
}
