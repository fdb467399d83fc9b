package service

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"memorial-backend/internal/domains/upload"
	"memorial-backend/internal/infrastructure/storage"
	"memorial-backend/pkg/logger"
)

// UploadService issues presigned PUT URLs so image bytes go from the browser
// straight to object storage and never transit the API tier.
type UploadService interface {
	IssueUploadURL(ctx context.Context, req *upload.IssueUploadURLRequest) (*upload.UploadURLResponse, error)
}

const keyPrefix = "memorials/"

// Extensions are advisory only; anything outside this shape is dropped.
var safeExtension = regexp.MustCompile(`^\.[a-z0-9]{1,8}$`)

type uploadService struct {
	storage   storage.ObjectStorage
	urlExpiry time.Duration
}

func NewUploadService(objStorage storage.ObjectStorage, urlExpiry time.Duration) UploadService {
	return &uploadService{
		storage:   objStorage,
		urlExpiry: urlExpiry,
	}
}

// IssueUploadURL generates a random object key, signs a time-limited PUT URL
// for it and computes the eventual public URL. Issuing a URL creates no blob;
// a URL that is never used costs nothing.
func (s *uploadService) IssueUploadURL(ctx context.Context, req *upload.IssueUploadURLRequest) (*upload.UploadURLResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, upload.NewValidationError(err)
	}

	key := objectKey(req.Filename)

	uploadURL, err := s.storage.PresignedPut(ctx, key, req.ContentType, s.urlExpiry)
	if err != nil {
		if errors.Is(err, storage.ErrNotConfigured) {
			logger.Error("Upload bucket is not configured", err)
		} else {
			logger.Error("Failed to presign upload URL", err)
		}
		return nil, upload.NewSigningError(err)
	}

	return &upload.UploadURLResponse{
		UploadURL: uploadURL,
		PublicURL: s.storage.PublicURL(key),
	}, nil
}

// objectKey derives a globally unique storage key. The key is independent of
// the original filename so collisions and filename injection are impossible;
// only a sanitized extension is carried over.
func objectKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if !safeExtension.MatchString(ext) {
		ext = ""
	}
	return keyPrefix + uuid.NewString() + ext
}
