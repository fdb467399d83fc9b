package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"memorial-backend/internal/domains/memorial/model"
)

const keyPrefix = "memorial:"

type redisRepository struct {
	client *redis.Client
}

// NewRedisRepository creates the Redis-backed memorial repository.
func NewRedisRepository(client *redis.Client) MemorialRepository {
	return &redisRepository{client: client}
}

func recordKey(slug string) string {
	return keyPrefix + slug
}

// Create uses SETNX so two concurrent creations of the same slug cannot both
// succeed; the loser sees model.ErrSlugTaken.
func (r *redisRepository) Create(ctx context.Context, m *model.Memorial) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal memorial: %w", err)
	}

	ok, err := r.client.SetNX(ctx, recordKey(m.Slug), data, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to store memorial: %w", err)
	}
	if !ok {
		return model.ErrSlugTaken
	}

	return nil
}

func (r *redisRepository) GetBySlug(ctx context.Context, slug string) (*model.Memorial, error) {
	data, err := r.client.Get(ctx, recordKey(slug)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrMemorialNotFound
		}
		return nil, fmt.Errorf("failed to load memorial: %w", err)
	}

	var m model.Memorial
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal memorial %q: %w", slug, err)
	}

	return &m, nil
}

func (r *redisRepository) Update(ctx context.Context, m *model.Memorial) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal memorial: %w", err)
	}

	if err := r.client.Set(ctx, recordKey(m.Slug), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store memorial: %w", err)
	}

	return nil
}

func (r *redisRepository) Delete(ctx context.Context, slug string) error {
	if err := r.client.Del(ctx, recordKey(slug)).Err(); err != nil {
		return fmt.Errorf("failed to delete memorial: %w", err)
	}
	return nil
}
