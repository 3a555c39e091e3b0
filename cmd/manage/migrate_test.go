package main

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	celebModel "celebhub-backend/internal/domains/celebrity/model"
	userModel "celebhub-backend/internal/domains/user/model"
	"celebhub-backend/internal/store"
	"celebhub-backend/internal/store/memstore"
)

var created = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func user(id, username string) *userModel.User {
	return &userModel.User{ID: id, Username: username, CreatedAt: created}
}

func celebrity(id, slug string) *celebModel.Celebrity {
	c := celebModel.NewCelebrity(slug, created)
	c.ID = id
	c.Slug = slug
	return c
}

func seed[T store.Entity](t *testing.T, repo store.Repository[T], rows ...T) {
	t.Helper()
	for _, e := range rows {
		require.NoError(t, repo.Save(context.Background(), e))
	}
}

func count[T store.Entity](t *testing.T, repo store.Repository[T]) int {
	t.Helper()
	rows, err := repo.FindAll(context.Background(), store.Query{})
	require.NoError(t, err)
	return len(rows)
}

func TestCopyAll_SkipsExistingIDs(t *testing.T) {
	ctx := context.Background()
	src := memstore.New(userModel.Schema)
	dst := memstore.New(userModel.Schema)
	seed(t, src, user("u1", "alice"), user("u2", "bob"))
	seed(t, dst, user("u1", "alice"))

	stats, err := copyAll(ctx, src, dst, false, userKeys)
	require.NoError(t, err)
	assert.Equal(t, copyStats{copied: 1, skipped: 1}, stats)

	got, err := dst.FindByID(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, "bob", got.Username)
}

func TestCopyAll_SkipsExistingUniqueKeys(t *testing.T) {
	ctx := context.Background()

	t.Run("username", func(t *testing.T) {
		src := memstore.New(userModel.Schema)
		dst := memstore.New(userModel.Schema)
		seed(t, src, user("u1", "admin"), user("u2", "carol"))
		seed(t, dst, user("other", "admin"))

		stats, err := copyAll(ctx, src, dst, false, userKeys)
		require.NoError(t, err)
		assert.Equal(t, copyStats{copied: 1, skipped: 1}, stats)

		_, err = dst.FindByID(ctx, "u1")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("slug", func(t *testing.T) {
		src := memstore.New(celebModel.Schema)
		dst := memstore.New(celebModel.Schema)
		seed(t, src, celebrity("c1", "diamond"), celebrity("c2", "zuchu"))
		seed(t, dst, celebrity("x9", "diamond"))

		stats, err := copyAll(ctx, src, dst, false, celebrityKeys)
		require.NoError(t, err)
		assert.Equal(t, copyStats{copied: 1, skipped: 1}, stats)

		got, err := dst.FindOne(ctx, celebModel.FieldSlug, "diamond")
		require.NoError(t, err)
		assert.Equal(t, "x9", got.ID)
	})
}

func TestCopyAll_DryRunWritesNothing(t *testing.T) {
	ctx := context.Background()
	src := memstore.New(userModel.Schema)
	dst := memstore.New(userModel.Schema)
	seed(t, src, user("u1", "alice"), user("u2", "bob"), user("u3", "carol"))
	seed(t, dst, user("u3", "carol"))

	stats, err := copyAll(ctx, src, dst, true, userKeys)
	require.NoError(t, err)
	assert.Equal(t, copyStats{copied: 2, skipped: 1}, stats)
	assert.Equal(t, 1, count[*userModel.User](t, dst))
}

func TestCopyAll_DuplicateOnSaveCountsAsSkipped(t *testing.T) {
	ctx := context.Background()
	src := memstore.New(celebModel.Schema)
	dst := memstore.New(celebModel.Schema)

	// Different id and slug, but the payment reference is already taken
	incoming := celebrity("c1", "diamond")
	require.NoError(t, incoming.MarkPending("ref-1", decimal.NewFromInt(500), created))
	existing := celebrity("x9", "harmonize")
	require.NoError(t, existing.MarkPending("ref-1", decimal.NewFromInt(500), created))

	seed(t, src, incoming, celebrity("c2", "zuchu"))
	seed(t, dst, existing)

	stats, err := copyAll(ctx, src, dst, false, celebrityKeys)
	require.NoError(t, err)
	assert.Equal(t, copyStats{copied: 1, skipped: 1}, stats)
	assert.Equal(t, 2, count[*celebModel.Celebrity](t, dst))
}

func TestCopyAll_RerunIsNoOp(t *testing.T) {
	ctx := context.Background()
	src := memstore.New(celebModel.Schema)
	dst := memstore.New(celebModel.Schema)
	seed(t, src, celebrity("c1", "diamond"), celebrity("c2", "zuchu"))

	first, err := copyAll(ctx, src, dst, false, celebrityKeys)
	require.NoError(t, err)
	assert.Equal(t, copyStats{copied: 2}, first)

	second, err := copyAll(ctx, src, dst, false, celebrityKeys)
	require.NoError(t, err)
	assert.Equal(t, copyStats{skipped: 2}, second)
}

type unreachable[T store.Entity] struct {
	store.Repository[T]
}

func (unreachable[T]) FindAll(context.Context, store.Query) ([]T, error) {
	return nil, store.ErrUnavailable
}

func (unreachable[T]) FindByID(context.Context, string) (T, error) {
	var zero T
	return zero, store.ErrUnavailable
}

func TestCopyAll_StoreErrorsStopTheCopy(t *testing.T) {
	ctx := context.Background()

	_, err := copyAll[*userModel.User](ctx, unreachable[*userModel.User]{}, memstore.New(userModel.Schema), false, userKeys)
	assert.ErrorIs(t, err, store.ErrUnavailable)

	src := memstore.New(userModel.Schema)
	seed(t, src, user("u1", "alice"))
	_, err = copyAll[*userModel.User](ctx, src, unreachable[*userModel.User]{}, false, userKeys)
	assert.ErrorIs(t, err, store.ErrUnavailable)
}
