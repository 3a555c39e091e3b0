package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	celebModel "celebhub-backend/internal/domains/celebrity/model"
	celebService "celebhub-backend/internal/domains/celebrity/service"
	"celebhub-backend/internal/domains/submission/model"
	"celebhub-backend/internal/shared/utils"
	"celebhub-backend/internal/store"
)

// Service handles the submission funnel and its moderation
type Service interface {
	Create(ctx context.Context, req model.SubmissionRequest, photo []byte) (*model.Submission, error)
	List(ctx context.Context, status model.Status) ([]*model.Submission, error)
	Get(ctx context.Context, id string) (*model.Submission, error)

	// Approve publishes the submission as a directory entry. Approving an
	// approved submission is a no-op.
	Approve(ctx context.Context, id string) (*model.ModerationResult, error)
	Reject(ctx context.Context, id string) (*model.ModerationResult, error)
}

// Notifier tells operators about new submissions. Delivery is best effort.
type Notifier interface {
	NotifySubmission(ctx context.Context, s *model.Submission) error
}

type submissionService struct {
	repo        store.Repository[*model.Submission]
	celebrities celebService.Service
	notifier    Notifier
	tiktok      utils.TikTokOptions
	now         func() time.Time
}

func NewSubmissionService(
	repo store.Repository[*model.Submission],
	celebrities celebService.Service,
	notifier Notifier,
	tiktok utils.TikTokOptions,
) Service {
	return &submissionService{
		repo:        repo,
		celebrities: celebrities,
		notifier:    notifier,
		tiktok:      tiktok,
		now:         time.Now,
	}
}

func (s *submissionService) Create(ctx context.Context, req model.SubmissionRequest, photo []byte) (*model.Submission, error) {
	now := s.now()
	sub := &model.Submission{
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Category:  req.Category,
		Bio:       req.Bio,
		YouTube:   req.YouTube,
		TikTok:    req.TikTok,
		Spotify:   req.Spotify,
		Status:    model.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if photo != nil {
		key, err := s.celebrities.StorePhoto(ctx, photo)
		if err != nil {
			return nil, err
		}
		sub.Photo = key
	}

	if err := s.repo.Save(ctx, sub); err != nil {
		s.celebrities.RemovePhoto(ctx, sub.Photo)
		return nil, fmt.Errorf("create submission: %w", err)
	}

	log.Info().Str("id", sub.ID).Str("name", sub.Name).Msg("submission received")

	if s.notifier != nil {
		if err := s.notifier.NotifySubmission(ctx, sub); err != nil {
			log.Warn().Err(err).Str("id", sub.ID).Msg("submission notification failed")
		}
	}
	return sub, nil
}

// List returns submissions newest first; an empty status lists all
func (s *submissionService) List(ctx context.Context, status model.Status) ([]*model.Submission, error) {
	q := store.Query{OrderBy: model.FieldCreatedAt, Desc: true}
	if status != "" {
		if !status.Valid() {
			return nil, model.ErrInvalidStatus
		}
		q.Where = []store.Cond{store.Eq(model.FieldStatus, status)}
	}

	rows, err := s.repo.FindAll(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return rows, nil
}

func (s *submissionService) Get(ctx context.Context, id string) (*model.Submission, error) {
	sub, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, model.ErrSubmissionNotFound
	}
	return sub, err
}

// =====================================================
// MODERATION
// =====================================================

func (s *submissionService) Approve(ctx context.Context, id string) (*model.ModerationResult, error) {
	sub, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	switch sub.Status {
	case model.StatusApproved:
		return &model.ModerationResult{Submission: sub}, nil
	case model.StatusRejected:
		return nil, model.ErrAlreadyModerated
	}

	// Claim the submission first so concurrent approvals publish one entry
	now := s.now()
	sub.Status = model.StatusApproved
	sub.UpdatedAt = now
	err = s.repo.SaveIf(ctx, sub, store.Eq(model.FieldStatus, model.StatusPending))
	switch {
	case errors.Is(err, store.ErrConflict):
		return s.settled(ctx, id, model.StatusApproved)
	case errors.Is(err, store.ErrNotFound):
		return nil, model.ErrSubmissionNotFound
	case err != nil:
		return nil, fmt.Errorf("approve submission %s: %w", id, err)
	}

	celeb := celebModel.NewCelebrity(sub.Name, now)
	celeb.Bio = sub.Bio
	celeb.Category = sub.Category
	celeb.Photo = sub.Photo
	celeb.SetSocialLinks(sub.YouTube, sub.TikTok, sub.Spotify, s.tiktok)

	if err := s.celebrities.Publish(ctx, celeb); err != nil {
		sub.Status = model.StatusPending
		if rbErr := s.repo.SaveIf(ctx, sub, store.Eq(model.FieldStatus, model.StatusApproved)); rbErr != nil {
			log.Error().Err(rbErr).Str("id", id).Msg("failed to reopen submission after publish error")
		}
		return nil, fmt.Errorf("publish submission %s: %w", id, err)
	}

	sub.CelebrityID = celeb.ID
	if err := s.repo.Save(ctx, sub); err != nil {
		log.Error().Err(err).Str("id", id).Str("celebrity_id", celeb.ID).Msg("failed to link published entry")
	}

	log.Info().Str("id", id).Str("slug", celeb.Slug).Msg("submission approved")
	return &model.ModerationResult{Submission: sub, Changed: true}, nil
}

func (s *submissionService) Reject(ctx context.Context, id string) (*model.ModerationResult, error) {
	sub, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	switch sub.Status {
	case model.StatusRejected:
		return &model.ModerationResult{Submission: sub}, nil
	case model.StatusApproved:
		return nil, model.ErrAlreadyModerated
	}

	sub.Status = model.StatusRejected
	sub.UpdatedAt = s.now()

	err = s.repo.SaveIf(ctx, sub, store.Eq(model.FieldStatus, model.StatusPending))
	switch {
	case errors.Is(err, store.ErrConflict):
		return s.settled(ctx, id, model.StatusRejected)
	case errors.Is(err, store.ErrNotFound):
		return nil, model.ErrSubmissionNotFound
	case err != nil:
		return nil, fmt.Errorf("reject submission %s: %w", id, err)
	}

	log.Info().Str("id", id).Msg("submission rejected")
	return &model.ModerationResult{Submission: sub, Changed: true}, nil
}

// settled reloads a submission moderated concurrently. Reaching the wanted
// state counts as a no-op, the opposite state as a conflict.
func (s *submissionService) settled(ctx context.Context, id string, want model.Status) (*model.ModerationResult, error) {
	sub, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.Status != want {
		return nil, model.ErrAlreadyModerated
	}
	return &model.ModerationResult{Submission: sub}, nil
}
