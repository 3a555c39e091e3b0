package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/xid"
	"github.com/rs/zerolog/log"

	"celebhub-backend/internal/domains/celebrity/model"
	"celebhub-backend/internal/infrastructure/storage"
	"celebhub-backend/internal/shared/utils"
	"celebhub-backend/internal/store"
)

// maxEditAttempts bounds reloads when an admin edit races a feature change
const maxEditAttempts = 3

type Config struct {
	FeatureDuration time.Duration
	TikTok          utils.TikTokOptions
}

type celebrityService struct {
	repo    store.Repository[*model.Celebrity]
	slugs   *SlugGenerator
	photos  PhotoStore
	images  PhotoProcessor
	cleaner PhotoCleaner
	cfg     Config
	now     func() time.Time
}

// NewCelebrityService wires the service. cleaner may be nil, in which case
// replaced photos are deleted inline.
func NewCelebrityService(
	repo store.Repository[*model.Celebrity],
	photos PhotoStore,
	images PhotoProcessor,
	cleaner PhotoCleaner,
	cfg Config,
) Service {
	return &celebrityService{
		repo:    repo,
		slugs:   NewSlugGenerator(repo),
		photos:  photos,
		images:  images,
		cleaner: cleaner,
		cfg:     cfg,
		now:     time.Now,
	}
}

// =====================================================
// READS
// =====================================================

// ListFeatured returns currently featured entries, newest first
func (s *celebrityService) ListFeatured(ctx context.Context, query string) ([]*model.Celebrity, error) {
	rows, err := s.List(ctx, model.ListFilter{Query: query, FeaturedOnly: true})
	if err != nil {
		return nil, err
	}

	// The expiry sweep runs periodically; hide entries that lapsed since
	now := s.now()
	active := rows[:0]
	for _, c := range rows {
		if c.IsActive(now) {
			active = append(active, c)
		}
	}
	return active, nil
}

func (s *celebrityService) List(ctx context.Context, filter model.ListFilter) ([]*model.Celebrity, error) {
	q := store.Query{OrderBy: model.FieldCreatedAt, Desc: true, Limit: filter.Limit}
	if filter.FeaturedOnly {
		q.Where = append(q.Where, store.Eq(model.FieldFeatured, true))
	}
	if filter.Query != "" {
		q.Where = append(q.Where, store.Contains(model.FieldName, filter.Query))
	}

	rows, err := s.repo.FindAll(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list celebrities: %w", err)
	}
	return rows, nil
}

func (s *celebrityService) GetBySlug(ctx context.Context, slug string) (*model.Celebrity, error) {
	c, err := s.repo.FindOne(ctx, model.FieldSlug, slug)
	if errors.Is(err, store.ErrNotFound) {
		return nil, model.ErrCelebrityNotFound
	}
	return c, err
}

func (s *celebrityService) GetByID(ctx context.Context, id string) (*model.Celebrity, error) {
	c, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, model.ErrCelebrityNotFound
	}
	return c, err
}

func (s *celebrityService) PhotoURL(key string) string {
	if key == "" || s.photos == nil {
		return ""
	}
	return s.photos.URL(key)
}

// =====================================================
// ADMIN CRUD
// =====================================================

func (s *celebrityService) Create(ctx context.Context, req model.CelebrityRequest, photo []byte) (*model.Celebrity, error) {
	c := model.NewCelebrity(req.Name, s.now())
	s.apply(c, req)

	if photo != nil {
		key, err := s.StorePhoto(ctx, photo)
		if err != nil {
			return nil, err
		}
		c.Photo = key
	}

	var err error
	if req.Slug != "" {
		c.Slug = utils.GenerateSlug(req.Slug)
		err = s.repo.Save(ctx, c)
	} else {
		err = s.Publish(ctx, c)
	}
	if err != nil {
		s.RemovePhoto(ctx, c.Photo)
		return nil, err
	}

	log.Info().Str("id", c.ID).Str("slug", c.Slug).Msg("celebrity created")
	return c, nil
}

func (s *celebrityService) Update(ctx context.Context, id string, req model.CelebrityRequest, photo []byte) (*model.Celebrity, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var key string
	if photo != nil {
		if key, err = s.StorePhoto(ctx, photo); err != nil {
			return nil, err
		}
	}

	var oldPhoto string
	c, err = s.edit(ctx, c, func(c *model.Celebrity) {
		s.apply(c, req)
		if req.Slug != "" {
			c.Slug = utils.GenerateSlug(req.Slug)
		}
		c.UpdatedAt = s.now()
		if key != "" {
			oldPhoto, c.Photo = c.Photo, key
		}
	})
	if err != nil {
		s.RemovePhoto(ctx, key)
		return nil, fmt.Errorf("update celebrity %s: %w", id, err)
	}

	s.RemovePhoto(ctx, oldPhoto)
	return c, nil
}

func (s *celebrityService) Delete(ctx context.Context, id string) error {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.ErrCelebrityNotFound
		}
		return fmt.Errorf("delete celebrity %s: %w", id, err)
	}

	s.RemovePhoto(ctx, c.Photo)
	log.Info().Str("id", id).Str("slug", c.Slug).Msg("celebrity deleted")
	return nil
}

// Publish allocates a slug and saves c, retrying when a concurrent insert
// claims the same slug first
func (s *celebrityService) Publish(ctx context.Context, c *model.Celebrity) error {
	for attempt := 1; attempt <= maxSlugAttempts; attempt++ {
		slug, err := s.slugs.Next(ctx, c.Name)
		if err != nil {
			return err
		}
		c.Slug = slug

		err = s.repo.Save(ctx, c)
		if err == nil {
			return nil
		}
		if !errors.Is(err, store.ErrDuplicate) {
			return fmt.Errorf("save celebrity: %w", err)
		}
		log.Warn().Str("slug", slug).Int("attempt", attempt).Msg("slug taken concurrently, retrying")
	}
	return model.ErrSlugExhausted
}

// edit applies change to c and saves it only while the stored feature state
// is still the one c was loaded with. A payment callback or expiry landing in
// between is reloaded and the change reapplied on top of it.
func (s *celebrityService) edit(ctx context.Context, c *model.Celebrity, change func(*model.Celebrity)) (*model.Celebrity, error) {
	for attempt := 1; ; attempt++ {
		loaded := c.Feature
		featured := c.Featured
		change(c)

		err := s.repo.SaveIf(ctx, c,
			store.Eq(model.FieldStatus, loaded.Status),
			store.Eq(model.FieldPaymentRef, loaded.PaymentRef),
			store.Eq(model.FieldFeatured, featured),
		)
		switch {
		case err == nil:
			return c, nil
		case errors.Is(err, store.ErrNotFound):
			return nil, model.ErrCelebrityNotFound
		case !errors.Is(err, store.ErrConflict):
			return nil, err
		case attempt == maxEditAttempts:
			return nil, model.ErrCelebrityChanged
		}

		log.Warn().Str("id", c.ID).Int("attempt", attempt).Msg("celebrity changed during edit, reloading")
		if c, err = s.GetByID(ctx, c.ID); err != nil {
			return nil, err
		}
	}
}

func (s *celebrityService) apply(c *model.Celebrity, req model.CelebrityRequest) {
	c.Name = req.Name
	c.Bio = req.Bio
	c.Category = req.Category
	c.SetSocialLinks(req.YouTube, req.TikTok, req.Spotify, s.cfg.TikTok)
}

// =====================================================
// FEATURE MANAGEMENT
// =====================================================

// GrantFeature features the entry for the configured duration without payment
func (s *celebrityService) GrantFeature(ctx context.Context, id string) (*model.Celebrity, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c, err = s.edit(ctx, c, func(c *model.Celebrity) {
		c.Grant("admin-"+xid.New().String(), s.now(), s.cfg.FeatureDuration)
	})
	if err != nil {
		return nil, fmt.Errorf("grant feature %s: %w", id, err)
	}

	log.Info().Str("id", id).Time("until", *c.Feature.Until).Msg("feature granted")
	return c, nil
}

func (s *celebrityService) RevokeFeature(ctx context.Context, id string) (*model.Celebrity, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c, err = s.edit(ctx, c, func(c *model.Celebrity) { c.Revoke(s.now()) })
	if err != nil {
		return nil, fmt.Errorf("revoke feature %s: %w", id, err)
	}

	log.Info().Str("id", id).Msg("feature revoked")
	return c, nil
}

// ExpireFeatures clears the featured flag on entries whose paid period ended
func (s *celebrityService) ExpireFeatures(ctx context.Context) (int, error) {
	now := s.now()
	rows, err := s.repo.FindAll(ctx, store.Query{
		Where: []store.Cond{
			store.Eq(model.FieldFeatured, true),
			store.Before(model.FieldUntil, now),
		},
	})
	if err != nil {
		return 0, fmt.Errorf("find expired features: %w", err)
	}

	expired := 0
	for _, c := range rows {
		if !c.Expire(now) {
			continue
		}
		// A concurrent grant or payment wins over the sweep
		err := s.repo.SaveIf(ctx, c, store.Eq(model.FieldPaymentRef, c.Feature.PaymentRef))
		switch {
		case err == nil:
			expired++
		case errors.Is(err, store.ErrConflict), errors.Is(err, store.ErrNotFound):
			log.Debug().Str("id", c.ID).Msg("feature changed during expiry sweep")
		default:
			return expired, fmt.Errorf("expire feature %s: %w", c.ID, err)
		}
	}
	return expired, nil
}

// =====================================================
// PHOTOS
// =====================================================

// StorePhoto validates, resizes and uploads data, returning its object key
func (s *celebrityService) StorePhoto(ctx context.Context, data []byte) (string, error) {
	prepared, err := s.images.Prepare(data)
	switch {
	case errors.Is(err, storage.ErrImageTooLarge):
		return "", fmt.Errorf("%w: %v", model.ErrPhotoTooLarge, err)
	case err != nil:
		return "", fmt.Errorf("%w: %v", model.ErrInvalidPhoto, err)
	}

	key := "celebrities/" + uuid.NewString() + ".jpg"
	if err := s.photos.Upload(ctx, key, prepared, "image/jpeg"); err != nil {
		return "", fmt.Errorf("store photo: %w", err)
	}
	return key, nil
}

// RemovePhoto is best effort; failures are logged and swallowed
func (s *celebrityService) RemovePhoto(ctx context.Context, key string) {
	if key == "" {
		return
	}

	var err error
	if s.cleaner != nil {
		err = s.cleaner.CleanupPhoto(ctx, key)
	} else {
		err = s.photos.Delete(ctx, key)
	}
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("photo cleanup failed")
	}
}
