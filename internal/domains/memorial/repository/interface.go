package repository

import (
	"context"

	"memorial-backend/internal/domains/memorial/model"
)

// MemorialRepository is the record-store surface for memorials. One JSON
// document per slug; slug uniqueness is the store's only constraint.
type MemorialRepository interface {
	// Create persists a new record iff the slug is free. Returns
	// model.ErrSlugTaken when the slug is already claimed.
	Create(ctx context.Context, m *model.Memorial) error

	// GetBySlug returns model.ErrMemorialNotFound when the slug is absent.
	GetBySlug(ctx context.Context, slug string) (*model.Memorial, error)

	// Update overwrites the record. Last write wins; callers do their own
	// read-modify-write.
	Update(ctx context.Context, m *model.Memorial) error

	// Delete removes the record. Deleting an absent slug is not an error.
	Delete(ctx context.Context, slug string) error
}
