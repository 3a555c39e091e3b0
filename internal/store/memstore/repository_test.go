package memstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"celebhub-backend/internal/store"
	"celebhub-backend/internal/store/memstore"
)

type status string

type widget struct {
	ID      string
	Slug    string
	Name    string
	Status  status
	Expires *time.Time
	Created time.Time
}

func (w *widget) GetID() string   { return w.ID }
func (w *widget) SetID(id string) { w.ID = id }

var widgetSchema = store.Schema[*widget]{
	Kind: "widgets",
	New:  func() *widget { return &widget{} },
	Fields: []store.Field[*widget]{
		{Name: "id", BSON: "_id", Ptr: func(w *widget) interface{} { return &w.ID }},
		{Name: "slug", BSON: "slug", Ptr: func(w *widget) interface{} { return &w.Slug }},
		{Name: "name", BSON: "name", Ptr: func(w *widget) interface{} { return &w.Name }},
		{Name: "status", BSON: "status", Ptr: func(w *widget) interface{} { return &w.Status }},
		{Name: "expires", BSON: "expires", Ptr: func(w *widget) interface{} { return &w.Expires }},
		{Name: "created", BSON: "created", Ptr: func(w *widget) interface{} { return &w.Created }},
	},
	Unique: []string{"slug"},
}

func newRepo() *memstore.Repository[*widget] {
	return memstore.New(widgetSchema)
}

func TestSave_AssignsIDAndStoresCopy(t *testing.T) {
	ctx := context.Background()
	repo := newRepo()

	w := &widget{Slug: "a", Name: "Alpha"}
	require.NoError(t, repo.Save(ctx, w))
	require.NotEmpty(t, w.ID)

	// Mutating the caller's value must not leak into the store
	w.Name = "changed"
	got, err := repo.FindByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alpha", got.Name)

	got.Name = "also changed"
	again, _ := repo.FindByID(ctx, w.ID)
	assert.Equal(t, "Alpha", again.Name)
}

func TestSave_ClonesPointerFields(t *testing.T) {
	ctx := context.Background()
	repo := newRepo()

	exp := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	w := &widget{Slug: "a", Expires: &exp}
	require.NoError(t, repo.Save(ctx, w))

	*w.Expires = exp.Add(time.Hour)
	got, _ := repo.FindByID(ctx, w.ID)
	require.NotNil(t, got.Expires)
	assert.True(t, got.Expires.Equal(exp))
}

func TestSave_UniqueViolation(t *testing.T) {
	ctx := context.Background()
	repo := newRepo()

	require.NoError(t, repo.Save(ctx, &widget{Slug: "taken"}))
	err := repo.Save(ctx, &widget{Slug: "taken"})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	// Replacing an entity with its own slug is fine
	w, err := repo.FindOne(ctx, "slug", "taken")
	require.NoError(t, err)
	w.Name = "renamed"
	assert.NoError(t, repo.Save(ctx, w))
}

func TestSave_SparseUniqueIgnoresEmpty(t *testing.T) {
	ctx := context.Background()
	schema := widgetSchema
	schema.Sparse = []string{"name"}
	repo := memstore.New(schema)

	require.NoError(t, repo.Save(ctx, &widget{Slug: "a"}))
	require.NoError(t, repo.Save(ctx, &widget{Slug: "b"}))
	require.NoError(t, repo.Save(ctx, &widget{Slug: "c", Name: "ref-1"}))

	err := repo.Save(ctx, &widget{Slug: "d", Name: "ref-1"})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	w, err := repo.FindOne(ctx, "name", "ref-1")
	require.NoError(t, err)
	w.Status = "paid"
	assert.NoError(t, repo.SaveIf(ctx, w, store.Eq("status", "")))
}

func TestSaveIf(t *testing.T) {
	ctx := context.Background()
	repo := newRepo()

	w := &widget{Slug: "a", Status: "pending"}
	require.NoError(t, repo.Save(ctx, w))

	w.Status = "paid"
	require.NoError(t, repo.SaveIf(ctx, w, store.Eq("status", "pending")))

	// Second writer still expecting pending loses
	w.Status = "failed"
	assert.ErrorIs(t, repo.SaveIf(ctx, w, store.Eq("status", "pending")), store.ErrConflict)

	got, _ := repo.FindByID(ctx, w.ID)
	assert.Equal(t, status("paid"), got.Status)

	missing := &widget{ID: "nope", Slug: "x"}
	assert.ErrorIs(t, repo.SaveIf(ctx, missing, store.Eq("status", "")), store.ErrNotFound)
	assert.ErrorIs(t, repo.SaveIf(ctx, w, store.Eq("bogus", "")), store.ErrInvalidQuery)
	assert.ErrorIs(t, repo.SaveIf(ctx, w), store.ErrInvalidQuery)

	// Every condition must hold
	w.Name = "renamed"
	err := repo.SaveIf(ctx, w, store.Eq("status", "paid"), store.Eq("slug", "other"))
	assert.ErrorIs(t, err, store.ErrConflict)
	require.NoError(t, repo.SaveIf(ctx, w, store.Eq("status", "paid"), store.Eq("slug", "a")))
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	repo := newRepo()

	w := &widget{Slug: "a"}
	require.NoError(t, repo.Save(ctx, w))
	require.NoError(t, repo.Delete(ctx, w.ID))

	_, err := repo.FindByID(ctx, w.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, w.ID), store.ErrNotFound)
}

func TestFindAll_FiltersAndOrder(t *testing.T) {
	ctx := context.Background()
	repo := newRepo()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	past := base.Add(-time.Hour)
	rows := []*widget{
		{Slug: "diamond", Name: "Diamond Platnumz", Status: "paid", Expires: &past, Created: base},
		{Slug: "diamond-2", Name: "Diamond Jr", Status: "none", Created: base.Add(time.Minute)},
		{Slug: "sauti-sol", Name: "Sauti Sol", Status: "paid", Created: base.Add(2 * time.Minute)},
	}
	for _, w := range rows {
		require.NoError(t, repo.Save(ctx, w))
	}

	t.Run("prefix", func(t *testing.T) {
		got, err := repo.FindAll(ctx, store.Query{Where: []store.Cond{store.Prefix("slug", "diamond")}})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("contains is case insensitive", func(t *testing.T) {
		got, err := repo.FindAll(ctx, store.Query{Where: []store.Cond{store.Contains("name", "SOL")}})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "sauti-sol", got[0].Slug)
	})

	t.Run("eq on named string type", func(t *testing.T) {
		got, err := repo.FindAll(ctx, store.Query{Where: []store.Cond{store.Eq("status", "paid")}})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("before skips nil times", func(t *testing.T) {
		got, err := repo.FindAll(ctx, store.Query{Where: []store.Cond{store.Before("expires", base)}})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "diamond", got[0].Slug)
	})

	t.Run("order desc with limit", func(t *testing.T) {
		got, err := repo.FindAll(ctx, store.Query{OrderBy: "created", Desc: true, Limit: 2})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "sauti-sol", got[0].Slug)
		assert.Equal(t, "diamond-2", got[1].Slug)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := repo.FindAll(ctx, store.Query{Where: []store.Cond{store.Eq("password", "x")}})
		assert.ErrorIs(t, err, store.ErrInvalidQuery)
		_, err = repo.FindAll(ctx, store.Query{OrderBy: "password"})
		assert.ErrorIs(t, err, store.ErrInvalidQuery)
	})
}

func TestFindOne_NotFound(t *testing.T) {
	_, err := newRepo().FindOne(context.Background(), "slug", "ghost")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
