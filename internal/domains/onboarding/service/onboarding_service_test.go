package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"celebhub-backend/internal/domains/onboarding/model"
	"celebhub-backend/internal/store/memstore"
)

func TestCreateAndList(t *testing.T) {
	svc := NewOnboardingService(memstore.New(model.Schema)).(*onboardingService)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, name := range []string{"First", "Second"} {
		svc.now = func() time.Time { return base.Add(time.Duration(i) * time.Hour) }
		r, err := svc.Create(ctx, model.RegistrationRequest{Name: " " + name + " ", Email: "a@b.co"})
		require.NoError(t, err)
		assert.Equal(t, model.StatusPending, r.Status)
		assert.Equal(t, name, r.Name)
	}

	rows, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Second", rows[0].Name)
}

func TestExport(t *testing.T) {
	svc := NewOnboardingService(memstore.New(model.Schema)).(*onboardingService)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC) }
	ctx := context.Background()

	r, err := svc.Create(ctx, model.RegistrationRequest{
		Name:    "Test Artist",
		Email:   "artist@example.com",
		Phone:   "+254712345678",
		Message: "Hello",
	})
	require.NoError(t, err)

	f, err := svc.Export(ctx)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{exportSheet}, f.GetSheetList())

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, exportHeaders, rows[0])
	assert.Equal(t, []string{
		r.ID, "Test Artist", "artist@example.com", "+254712345678", "Hello", "pending", "2026-03-01 09:30:00",
	}, rows[1])
}

func TestExport_Empty(t *testing.T) {
	svc := NewOnboardingService(memstore.New(model.Schema))

	f, err := svc.Export(context.Background())
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestRegistrationRequest_Validate(t *testing.T) {
	assert.NoError(t, model.RegistrationRequest{Name: "A", Email: "a@b.co"}.Validate())
	assert.Error(t, model.RegistrationRequest{Email: "a@b.co"}.Validate())
	assert.Error(t, model.RegistrationRequest{Name: "A", Email: "nope"}.Validate())
	assert.Error(t, model.RegistrationRequest{Name: "A", Email: "a@b.co", Phone: "12ab"}.Validate())
}
