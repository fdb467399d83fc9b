package storage

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"memorial-backend/internal/config"
)

// MinIOStorage implements ObjectStorage on top of a MinIO (or any
// S3-compatible) bucket.
type MinIOStorage struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
}

// NewMinIOStorage creates the client and makes sure the bucket exists.
func NewMinIOStorage(cfg config.MinIOConfig) (*MinIOStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &MinIOStorage{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

// PresignedPut signs a write-only PUT URL for key, valid for expiry. The
// Content-Type header is part of the signature, so the store rejects uploads
// that lie about their type.
func (s *MinIOStorage) PresignedPut(ctx context.Context, key, contentType string, expiry time.Duration) (string, error) {
	if s.bucket == "" {
		return "", ErrNotConfigured
	}

	headers := http.Header{}
	headers.Set("Content-Type", contentType)

	signed, err := s.client.PresignHeader(ctx, http.MethodPut, s.bucket, key, expiry, url.Values{}, headers)
	if err != nil {
		return "", fmt.Errorf("failed to presign upload url: %w", err)
	}

	return signed.String(), nil
}

// RemoveObjects deletes the given keys in one bulk call.
func (s *MinIOStorage) RemoveObjects(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	objectsCh := make(chan minio.ObjectInfo, len(keys))

	go func() {
		defer close(objectsCh)
		for _, key := range keys {
			objectsCh <- minio.ObjectInfo{Key: key}
		}
	}()

	errorCh := s.client.RemoveObjects(ctx, s.bucket, objectsCh, minio.RemoveObjectsOptions{})

	for rmErr := range errorCh {
		if rmErr.Err != nil {
			return fmt.Errorf("failed to remove %s: %w", rmErr.ObjectName, rmErr.Err)
		}
	}

	return nil
}

// PublicURL joins the configured public base URL with the object key.
func (s *MinIOStorage) PublicURL(key string) string {
	return s.publicBaseURL + "/" + key
}

// KeyFromURL maps a stored public URL back to the object key so it can be
// deleted. URLs minted by PublicURL are inverted exactly by stripping the
// configured base; anything else (legacy records, endpoint-style URLs) falls
// back to stripping the bucket from the path.
func (s *MinIOStorage) KeyFromURL(rawURL string) (string, error) {
	if key, ok := strings.CutPrefix(rawURL, s.publicBaseURL+"/"); ok && key != "" {
		return key, nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse url %q: %w", rawURL, err)
	}

	path := strings.TrimPrefix(u.Path, "/")
	path = strings.TrimPrefix(path, s.bucket+"/")

	if path == "" {
		return "", fmt.Errorf("url %q has no object key", rawURL)
	}

	return path, nil
}
