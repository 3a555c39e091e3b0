package service

import (
	"context"

	"celebhub-backend/internal/domains/celebrity/model"
)

// Service is the celebrity directory use-case layer
type Service interface {
	// Public reads
	ListFeatured(ctx context.Context, query string) ([]*model.Celebrity, error)
	List(ctx context.Context, filter model.ListFilter) ([]*model.Celebrity, error)
	GetBySlug(ctx context.Context, slug string) (*model.Celebrity, error)
	GetByID(ctx context.Context, id string) (*model.Celebrity, error)

	// Admin CRUD; photo may be nil
	Create(ctx context.Context, req model.CelebrityRequest, photo []byte) (*model.Celebrity, error)
	Update(ctx context.Context, id string, req model.CelebrityRequest, photo []byte) (*model.Celebrity, error)
	Delete(ctx context.Context, id string) error

	// Publish allocates a fresh slug for c and saves it
	Publish(ctx context.Context, c *model.Celebrity) error

	// Complimentary feature management
	GrantFeature(ctx context.Context, id string) (*model.Celebrity, error)
	RevokeFeature(ctx context.Context, id string) (*model.Celebrity, error)
	ExpireFeatures(ctx context.Context) (int, error)

	// StorePhoto validates and uploads a photo, returning its object key
	StorePhoto(ctx context.Context, data []byte) (string, error)
	RemovePhoto(ctx context.Context, key string)
	PhotoURL(key string) string
}

// PhotoStore persists uploaded photos
type PhotoStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// PhotoProcessor validates and normalizes an uploaded image
type PhotoProcessor interface {
	Prepare(data []byte) ([]byte, error)
}

// PhotoCleaner removes a photo that is no longer referenced. Implementations
// may defer the work to a background job.
type PhotoCleaner interface {
	CleanupPhoto(ctx context.Context, key string) error
}
