package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"celebhub-backend/internal/domains/celebrity/model"
	"celebhub-backend/internal/infrastructure/storage"
	"celebhub-backend/internal/store"
	"celebhub-backend/internal/store/memstore"
)

var now = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	svc    *celebrityService
	repo   store.Repository[*model.Celebrity]
	photos *storage.MemoryStorage
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := memstore.New(model.Schema)
	photos := storage.NewMemoryStorage()

	svc := NewCelebrityService(repo, photos, storage.NewImageProcessor(4<<20, 800), nil, Config{
		FeatureDuration: 30 * 24 * time.Hour,
	}).(*celebrityService)
	svc.now = func() time.Time { return now }

	return &fixture{svc: svc, repo: repo, photos: photos}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func TestCreate_AllocatesSequentialSlugs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, model.CelebrityRequest{Name: "Test User"}, nil)
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, model.CelebrityRequest{Name: "Test User"}, nil)
	require.NoError(t, err)
	third, err := f.svc.Create(ctx, model.CelebrityRequest{Name: "test-user"}, nil)
	require.NoError(t, err)

	assert.Equal(t, "test-user", first.Slug)
	assert.Equal(t, "test-user-2", second.Slug)
	assert.Equal(t, "test-user-3", third.Slug)
	assert.Equal(t, model.FeatureNone, first.Feature.Status)
}

func TestCreate_ExplicitSlugCollision(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, model.CelebrityRequest{Name: "A", Slug: "Same Slug"}, nil)
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, model.CelebrityRequest{Name: "B", Slug: "same-slug"}, pngBytes(t, 10, 10))
	assert.ErrorIs(t, err, store.ErrDuplicate)
}

func TestCreate_NormalizesSocialLinks(t *testing.T) {
	f := newFixture(t)

	c, err := f.svc.Create(context.Background(), model.CelebrityRequest{
		Name:    "Diamond",
		YouTube: "https://youtu.be/dQw4w9WgXcQ",
		Spotify: "https://open.spotify.com/artist/0oFf5oEfDQL6dWbTXc4S4x",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "dQw4w9WgXcQ", c.YouTube)
	assert.Equal(t, "https://open.spotify.com/embed/artist/0oFf5oEfDQL6dWbTXc4S4x", c.Spotify)
}

func TestCreate_StoresResizedPhoto(t *testing.T) {
	f := newFixture(t)

	c, err := f.svc.Create(context.Background(), model.CelebrityRequest{Name: "Nandy"}, pngBytes(t, 1600, 400))
	require.NoError(t, err)
	require.NotEmpty(t, c.Photo)
	assert.True(t, f.photos.Has(c.Photo))
	assert.Equal(t, "/photos/"+c.Photo, f.svc.PhotoURL(c.Photo))
}

func TestCreate_RejectsNonImage(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), model.CelebrityRequest{Name: "X"}, []byte("GIF89a not really"))
	assert.ErrorIs(t, err, model.ErrInvalidPhoto)

	rows, _ := f.repo.FindAll(context.Background(), store.Query{})
	assert.Empty(t, rows)
}

func TestUpdate_ReplacesPhoto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.svc.Create(ctx, model.CelebrityRequest{Name: "Old"}, pngBytes(t, 20, 20))
	require.NoError(t, err)
	oldPhoto := c.Photo

	updated, err := f.svc.Update(ctx, c.ID, model.CelebrityRequest{Name: "New", Slug: "brand-new"}, pngBytes(t, 30, 30))
	require.NoError(t, err)

	assert.Equal(t, "New", updated.Name)
	assert.Equal(t, "brand-new", updated.Slug)
	assert.NotEqual(t, oldPhoto, updated.Photo)
	assert.False(t, f.photos.Has(oldPhoto))
	assert.True(t, f.photos.Has(updated.Photo))
}

// interleavedRepo calls between after each FindByID, standing in for a
// payment callback that commits while an admin edit is in flight
type interleavedRepo struct {
	store.Repository[*model.Celebrity]
	between func()
	loads   int
}

func (r *interleavedRepo) FindByID(ctx context.Context, id string) (*model.Celebrity, error) {
	c, err := r.Repository.FindByID(ctx, id)
	r.loads++
	if r.between != nil {
		r.between()
	}
	return c, err
}

func pendingEntry(t *testing.T, repo store.Repository[*model.Celebrity], ref string) *model.Celebrity {
	t.Helper()
	c := model.NewCelebrity("Diamond", now.Add(-time.Hour))
	c.Slug = "diamond"
	require.NoError(t, c.MarkPending(ref, decimal.NewFromInt(500), now.Add(-time.Minute)))
	require.NoError(t, repo.Save(context.Background(), c))
	return c
}

func newInterleaved(t *testing.T) (*celebrityService, *interleavedRepo) {
	t.Helper()
	repo := &interleavedRepo{Repository: memstore.New(model.Schema)}
	svc := NewCelebrityService(repo, storage.NewMemoryStorage(), storage.NewImageProcessor(4<<20, 800), nil, Config{
		FeatureDuration: 30 * 24 * time.Hour,
	}).(*celebrityService)
	svc.now = func() time.Time { return now }
	return svc, repo
}

func TestUpdate_KeepsPaymentConfirmedDuringEdit(t *testing.T) {
	svc, repo := newInterleaved(t)
	ctx := context.Background()
	c := pendingEntry(t, repo, "ref-1")

	repo.between = func() {
		repo.between = nil
		paid, err := repo.Repository.FindByID(ctx, c.ID)
		require.NoError(t, err)
		_, err = paid.MarkPaid("ref-1", now, 30*24*time.Hour)
		require.NoError(t, err)
		require.NoError(t, repo.Repository.SaveIf(ctx, paid, store.Eq(model.FieldStatus, model.FeaturePending)))
	}

	updated, err := svc.Update(ctx, c.ID, model.CelebrityRequest{Name: "Renamed"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, 2, repo.loads)

	got, err := repo.Repository.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.True(t, got.Featured)
	assert.Equal(t, model.FeaturePaid, got.Feature.Status)
	assert.Equal(t, "ref-1", got.Feature.PaymentRef)
}

func TestGrantFeature_ReappliedAfterConcurrentChange(t *testing.T) {
	svc, repo := newInterleaved(t)
	ctx := context.Background()
	c := pendingEntry(t, repo, "ref-1")

	repo.between = func() {
		repo.between = nil
		failed, _ := repo.Repository.FindByID(ctx, c.ID)
		_, err := failed.MarkFailed("ref-1", now)
		require.NoError(t, err)
		require.NoError(t, repo.Repository.Save(ctx, failed))
	}

	granted, err := svc.GrantFeature(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, granted.Featured)
	assert.Equal(t, 2, repo.loads)

	got, _ := repo.Repository.FindByID(ctx, c.ID)
	assert.Equal(t, model.FeaturePaid, got.Feature.Status)
	assert.Equal(t, granted.Feature.PaymentRef, got.Feature.PaymentRef)
}

func TestEdit_GivesUpWhenFeatureKeepsChanging(t *testing.T) {
	svc, repo := newInterleaved(t)
	ctx := context.Background()
	c := pendingEntry(t, repo, "ref-0")

	// Every load is followed by a re-initiation under a fresh reference
	repo.between = func() {
		cur, _ := repo.Repository.FindByID(ctx, c.ID)
		require.NoError(t, cur.MarkPending(fmt.Sprintf("ref-%d", repo.loads), decimal.NewFromInt(500), now))
		require.NoError(t, repo.Repository.Save(ctx, cur))
	}

	_, err := svc.RevokeFeature(ctx, c.ID)
	assert.ErrorIs(t, err, model.ErrCelebrityChanged)
	assert.Equal(t, maxEditAttempts, repo.loads)
	assert.Equal(t, http.StatusConflict, model.ToHTTPStatus(err))

	got, _ := repo.Repository.FindByID(ctx, c.ID)
	assert.Equal(t, model.FeaturePending, got.Feature.Status)
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.svc.Create(ctx, model.CelebrityRequest{Name: "Gone"}, pngBytes(t, 10, 10))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, c.ID))
	assert.False(t, f.photos.Has(c.Photo))

	_, err = f.svc.GetBySlug(ctx, "gone")
	assert.ErrorIs(t, err, model.ErrCelebrityNotFound)
	assert.ErrorIs(t, f.svc.Delete(ctx, c.ID), model.ErrCelebrityNotFound)
}

func TestDelete_PhotoFailureIsSwallowed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.svc.Create(ctx, model.CelebrityRequest{Name: "Sticky"}, pngBytes(t, 10, 10))
	require.NoError(t, err)

	f.photos.FailDelete = true
	assert.NoError(t, f.svc.Delete(ctx, c.ID))
}

type recordingCleaner struct{ keys []string }

func (r *recordingCleaner) CleanupPhoto(_ context.Context, key string) error {
	r.keys = append(r.keys, key)
	return nil
}

func TestRemovePhoto_UsesCleanerWhenConfigured(t *testing.T) {
	f := newFixture(t)
	cleaner := &recordingCleaner{}
	f.svc.cleaner = cleaner

	f.svc.RemovePhoto(context.Background(), "celebrities/a.jpg")
	f.svc.RemovePhoto(context.Background(), "")
	assert.Equal(t, []string{"celebrities/a.jpg"}, cleaner.keys)
}

func TestFeatureListing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	plain, err := f.svc.Create(ctx, model.CelebrityRequest{Name: "Plain"}, nil)
	require.NoError(t, err)
	star, err := f.svc.Create(ctx, model.CelebrityRequest{Name: "Star"}, nil)
	require.NoError(t, err)

	_, err = f.svc.GrantFeature(ctx, star.ID)
	require.NoError(t, err)

	featured, err := f.svc.ListFeatured(ctx, "")
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, star.ID, featured[0].ID)

	featured, err = f.svc.ListFeatured(ctx, "pla")
	require.NoError(t, err)
	assert.Empty(t, featured)

	all, err := f.svc.List(ctx, model.ListFilter{Query: "PLAIN"})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, plain.ID, all[0].ID)

	revoked, err := f.svc.RevokeFeature(ctx, star.ID)
	require.NoError(t, err)
	assert.False(t, revoked.Featured)

	featured, _ = f.svc.ListFeatured(ctx, "")
	assert.Empty(t, featured)
}

func TestExpireFeatures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.svc.Create(ctx, model.CelebrityRequest{Name: "Lapsed"}, nil)
	require.NoError(t, err)
	require.NoError(t, c.MarkPending("ref-1", decimal.NewFromInt(100), now.Add(-60*24*time.Hour)))
	_, err = c.MarkPaid("ref-1", now.Add(-60*24*time.Hour), 30*24*time.Hour)
	require.NoError(t, err)
	require.NoError(t, f.repo.Save(ctx, c))

	active, err := f.svc.Create(ctx, model.CelebrityRequest{Name: "Active"}, nil)
	require.NoError(t, err)
	_, err = f.svc.GrantFeature(ctx, active.ID)
	require.NoError(t, err)

	n, err := f.svc.ExpireFeatures(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, _ := f.repo.FindByID(ctx, c.ID)
	assert.False(t, got.Featured)
	assert.Equal(t, model.FeaturePaid, got.Feature.Status)

	got, _ = f.repo.FindByID(ctx, active.ID)
	assert.True(t, got.Featured)

	n, err = f.svc.ExpireFeatures(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
