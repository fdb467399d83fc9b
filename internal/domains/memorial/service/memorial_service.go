package service

import (
	"context"
	"crypto/subtle"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"memorial-backend/internal/domains/memorial/model"
	"memorial-backend/internal/domains/memorial/repository"
	"memorial-backend/internal/infrastructure/storage"
	"memorial-backend/pkg/logger"
)

type memorialService struct {
	repo    repository.MemorialRepository
	storage storage.ObjectStorage
}

func NewMemorialService(repo repository.MemorialRepository, objStorage storage.ObjectStorage) MemorialService {
	return &memorialService{
		repo:    repo,
		storage: objStorage,
	}
}

// Create validates the payload, mints the edit key server-side and persists
// the record. No blob operations happen here: images in the payload were
// already uploaded via presigned URLs.
func (s *memorialService) Create(ctx context.Context, req *model.CreateMemorialRequest) (*model.CreateMemorialResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewValidationError(err)
	}

	now := time.Now().UTC()
	m := &model.Memorial{
		Slug:            req.Slug,
		PetName:         req.PetName,
		ShortMessage:    req.ShortMessage,
		MemorialContent: req.MemorialContent,
		Images:          req.Images,
		Avatar:          req.Avatar,
		CreatedAt:       now,
		EditKey:         uuid.NewString(),
	}
	if m.Images == nil {
		m.Images = []string{}
	}

	if err := s.repo.Create(ctx, m); err != nil {
		if model.IsSlugTaken(err) {
			return nil, err
		}
		return nil, model.NewStorageError("create memorial", err)
	}

	logger.Info("Memorial created", map[string]interface{}{
		"slug":   m.Slug,
		"images": len(m.Images),
	})

	// The only response that ever carries the edit key.
	return &model.CreateMemorialResponse{
		Slug:      m.Slug,
		EditKey:   m.EditKey,
		CreatedAt: m.CreatedAt,
	}, nil
}

func (s *memorialService) Get(ctx context.Context, slug string) (*model.MemorialDTO, error) {
	m, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		if model.IsNotFound(err) {
			return nil, err
		}
		return nil, model.NewStorageError("load memorial", err)
	}

	return m.ToDTO(), nil
}

// Summarize looks the slugs up in parallel and silently drops the ones that
// do not resolve. Lookup failures are logged, never reported per slug.
func (s *memorialService) Summarize(ctx context.Context, req *model.LookupRequest) ([]*model.MemorialSummary, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewValidationError(err)
	}

	var (
		mu        sync.Mutex
		summaries = make([]*model.MemorialSummary, 0, len(req.Slugs))
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, slug := range req.Slugs {
		g.Go(func() error {
			m, err := s.repo.GetBySlug(gctx, slug)
			if err != nil {
				if !model.IsNotFound(err) {
					logger.Warn("Batch lookup failed for slug", map[string]interface{}{
						"slug":  slug,
						"error": err.Error(),
					})
				}
				return nil
			}

			mu.Lock()
			summaries = append(summaries, m.ToSummary())
			mu.Unlock()
			return nil
		})
	}

	// Workers never return errors; Wait only joins them.
	_ = g.Wait()

	return summaries, nil
}

// Update authorizes via the edit key, merges the patch onto the stored
// record, and deletes superseded blobs before committing. A blob-delete
// failure aborts the whole update so the stored record keeps referencing
// blobs that still exist.
func (s *memorialService) Update(ctx context.Context, slug, editKey string, req *model.UpdateMemorialRequest) (*model.MemorialDTO, error) {
	stored, err := s.authorize(ctx, slug, editKey)
	if err != nil {
		return nil, err
	}

	if err := req.Validate(); err != nil {
		return nil, model.NewValidationError(err)
	}

	merged := *stored
	if req.PetName != nil {
		merged.PetName = *req.PetName
	}
	if req.ShortMessage != nil {
		merged.ShortMessage = *req.ShortMessage
	}
	if req.MemorialContent != nil {
		merged.MemorialContent = *req.MemorialContent
	}

	var removed []string

	if req.Images != nil {
		newImages := *req.Images
		if newImages == nil {
			newImages = []string{}
		}
		removed = append(removed, diffURLs(stored.Images, newImages)...)
		merged.Images = newImages
	}

	if req.Avatar.Set {
		newAvatar := ""
		if req.Avatar.Valid {
			newAvatar = req.Avatar.Value
		}
		if stored.Avatar != "" && stored.Avatar != newAvatar {
			removed = append(removed, stored.Avatar)
		}
		merged.Avatar = newAvatar
	}

	if err := s.removeBlobs(ctx, removed); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, &merged); err != nil {
		return nil, model.NewStorageError("update memorial", err)
	}

	logger.Info("Memorial updated", map[string]interface{}{
		"slug":           slug,
		"blobs_removed":  len(removed),
		"images_current": len(merged.Images),
	})

	return merged.ToDTO(), nil
}

// Delete removes every referenced blob first, then the record. If blob
// deletion hard-fails the record survives so the client can retry; deleting
// the record first would strand unreferenced blobs forever. An absent record
// is treated as success.
func (s *memorialService) Delete(ctx context.Context, slug, editKey string) error {
	stored, err := s.authorize(ctx, slug, editKey)
	if err != nil {
		if model.IsNotFound(err) {
			return nil // idempotent delete
		}
		return err
	}

	if err := s.removeBlobs(ctx, stored.ImageURLs()); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, slug); err != nil {
		return model.NewStorageError("delete memorial", err)
	}

	logger.Info("Memorial deleted", map[string]interface{}{"slug": slug})

	return nil
}

// authorize loads the record and compares the caller's edit key against the
// stored one in constant time. The edit key is the only access control.
func (s *memorialService) authorize(ctx context.Context, slug, editKey string) (*model.Memorial, error) {
	if editKey == "" {
		return nil, model.ErrEditKeyMissing
	}

	stored, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		if model.IsNotFound(err) {
			return nil, err
		}
		return nil, model.NewStorageError("load memorial", err)
	}

	if subtle.ConstantTimeCompare([]byte(stored.EditKey), []byte(editKey)) != 1 {
		return nil, model.ErrEditKeyMismatch
	}

	return stored, nil
}

// removeBlobs maps public URLs to object keys and bulk-deletes them. URLs
// that fail to parse are skipped with a log line: a malformed stored entry
// must not block user-initiated cleanup. A storage failure, by contrast, is
// hard: callers must not commit record changes after it.
func (s *memorialService) removeBlobs(ctx context.Context, urls []string) error {
	if len(urls) == 0 {
		return nil
	}

	keys := make([]string, 0, len(urls))
	for _, u := range urls {
		key, err := s.storage.KeyFromURL(u)
		if err != nil {
			logger.Warn("Skipping unparseable image URL", map[string]interface{}{
				"url":   u,
				"error": err.Error(),
			})
			continue
		}
		keys = append(keys, key)
	}

	if len(keys) == 0 {
		return nil
	}

	if err := s.storage.RemoveObjects(ctx, keys); err != nil {
		return model.NewStorageError("delete blobs", err)
	}

	return nil
}

// diffURLs returns the entries of old that are absent from updated,
// preserving old's order. Entries only in updated are simply adopted and
// never touch storage.
func diffURLs(old, updated []string) []string {
	keep := make(map[string]struct{}, len(updated))
	for _, u := range updated {
		keep[u] = struct{}{}
	}

	var removed []string
	for _, u := range old {
		if _, ok := keep[u]; !ok {
			removed = append(removed, u)
		}
	}
	return removed
}
