package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotConfigured signals a missing bucket or public base URL. Handlers map
// it to a generic 500; the distinction only matters in logs.
var ErrNotConfigured = errors.New("object storage is not configured")

// ObjectStorage is the blob-store surface the services depend on. The MinIO
// implementation is the only real one; tests substitute in-memory fakes.
type ObjectStorage interface {
	// PresignedPut returns a write-only URL the client can PUT the object to
	// within expiry. The content type is baked into the signature so the
	// store enforces it.
	PresignedPut(ctx context.Context, key, contentType string, expiry time.Duration) (string, error)

	// RemoveObjects deletes the given keys. A failure on any key is reported,
	// never swallowed.
	RemoveObjects(ctx context.Context, keys []string) error

	// PublicURL returns the externally reachable URL of an object key.
	PublicURL(key string) string

	// KeyFromURL maps a public URL back to its object key.
	KeyFromURL(rawURL string) (string, error)
}
