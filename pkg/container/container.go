package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"memorial-backend/internal/config"
	"memorial-backend/internal/infrastructure/kv"
	"memorial-backend/internal/infrastructure/storage"

	memorialHandler "memorial-backend/internal/domains/memorial/handler"
	memorialRepo "memorial-backend/internal/domains/memorial/repository"
	memorialService "memorial-backend/internal/domains/memorial/service"
	uploadHandler "memorial-backend/internal/domains/upload/handler"
	uploadService "memorial-backend/internal/domains/upload/service"
)

// Container holds every dependency of the application and is the root of
// the dependency graph. Everything in it is a singleton: the API is
// stateless, all shared mutable state lives in Redis and MinIO.
type Container struct {
	// Infrastructure
	Config  *config.Config
	KV      *kv.RedisClient
	Storage *storage.MinIOStorage

	// Repositories
	MemorialRepo memorialRepo.MemorialRepository

	// Services
	MemorialService memorialService.MemorialService
	UploadService   uploadService.UploadService

	// Handlers
	MemorialHandler *memorialHandler.MemorialHandler
	UploadHandler   *uploadHandler.UploadHandler
}

// NewContainer builds the dependency graph in order: config, then
// infrastructure, then repositories, services and handlers.
func NewContainer() (*Container, error) {
	c := &Container{}

	// Config first - nothing depends on more than this.
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("✅ Config loaded (environment: %s)", cfg.App.Environment)

	// Record store.
	c.KV = kv.NewRedisClient(cfg.Redis)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := c.KV.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Println("✅ Record store connected")

	// Object store.
	objStorage, err := storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("failed to init object storage: %w", err)
	}
	c.Storage = objStorage
	log.Println("✅ Object storage ready")

	// Repositories.
	c.MemorialRepo = memorialRepo.NewRedisRepository(c.KV.Client)

	// Services.
	c.MemorialService = memorialService.NewMemorialService(c.MemorialRepo, c.Storage)
	c.UploadService = uploadService.NewUploadService(
		c.Storage,
		time.Duration(cfg.Upload.URLExpiryMinutes)*time.Minute,
	)

	// Handlers.
	c.MemorialHandler = memorialHandler.NewMemorialHandler(c.MemorialService)
	c.UploadHandler = uploadHandler.NewUploadHandler(c.UploadService)

	return c, nil
}

// Cleanup releases resources during graceful shutdown.
func (c *Container) Cleanup() {
	if c.KV != nil {
		if err := c.KV.Close(); err != nil {
			log.Printf("⚠️  Failed to close redis: %v", err)
		}
	}
}
