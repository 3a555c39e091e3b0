package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"celebhub-backend/internal/domains/onboarding/model"
	"celebhub-backend/internal/store"
)

type Service interface {
	Create(ctx context.Context, req model.RegistrationRequest) (*model.Registration, error)
	List(ctx context.Context) ([]*model.Registration, error)
	// Export renders every registration into a single-sheet workbook
	Export(ctx context.Context) (*excelize.File, error)
}

type onboardingService struct {
	repo store.Repository[*model.Registration]
	now  func() time.Time
}

func NewOnboardingService(repo store.Repository[*model.Registration]) Service {
	return &onboardingService{repo: repo, now: time.Now}
}

func (s *onboardingService) Create(ctx context.Context, req model.RegistrationRequest) (*model.Registration, error) {
	r := req.ToRegistration(s.now())
	if err := s.repo.Save(ctx, r); err != nil {
		return nil, fmt.Errorf("create registration: %w", err)
	}
	log.Info().Str("id", r.ID).Msg("onboarding registration received")
	return r, nil
}

func (s *onboardingService) List(ctx context.Context) ([]*model.Registration, error) {
	rows, err := s.repo.FindAll(ctx, store.Query{OrderBy: model.FieldCreatedAt, Desc: true})
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return rows, nil
}

func (s *onboardingService) Export(ctx context.Context) (*excelize.File, error) {
	rows, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	f, err := buildRegistrationsFile(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrExportFailed, err)
	}
	return f, nil
}

const exportSheet = "Registrations"

var exportHeaders = []string{"ID", "Name", "Email", "Phone", "Message", "Status", "Created At"}

func buildRegistrationsFile(rows []*model.Registration) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return nil, err
		}
	}

	// Bold header; a failure here only costs the styling
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		last, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
		_ = f.SetCellStyle(exportSheet, "A1", last, style)
	}

	for i, r := range rows {
		values := []interface{}{
			r.ID,
			r.Name,
			r.Email,
			r.Phone,
			r.Message,
			r.Status,
			r.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return nil, err
		}
	}

	return f, nil
}
