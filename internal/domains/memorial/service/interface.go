package service

import (
	"context"

	"memorial-backend/internal/domains/memorial/model"
)

// MemorialService owns the record lifecycle: slug uniqueness at creation,
// edit-key authorization, and the image reconciliation that keeps the record
// store and the object store consistent.
type MemorialService interface {
	Create(ctx context.Context, req *model.CreateMemorialRequest) (*model.CreateMemorialResponse, error)
	Get(ctx context.Context, slug string) (*model.MemorialDTO, error)
	Summarize(ctx context.Context, req *model.LookupRequest) ([]*model.MemorialSummary, error)
	Update(ctx context.Context, slug, editKey string, req *model.UpdateMemorialRequest) (*model.MemorialDTO, error)
	Delete(ctx context.Context, slug, editKey string) error
}
