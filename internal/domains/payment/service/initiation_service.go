package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog/log"

	celebModel "celebhub-backend/internal/domains/celebrity/model"
	"celebhub-backend/internal/domains/payment/gateway"
	"celebhub-backend/internal/domains/payment/model"
	"celebhub-backend/internal/store"
)

type initiationService struct {
	repo    store.Repository[*celebModel.Celebrity]
	gateway gateway.STKGateway
	now     func() time.Time
}

func NewInitiationService(repo store.Repository[*celebModel.Celebrity], gw gateway.STKGateway) InitiationService {
	return &initiationService{
		repo:    repo,
		gateway: gw,
		now:     time.Now,
	}
}

// Initiate runs token -> build -> record pending -> submit. A failed submit
// leaves the pending state in place; re-initiating replaces the reference.
func (s *initiationService) Initiate(ctx context.Context, req model.PayRequest) (map[string]interface{}, error) {
	phone, _ := model.NormalizePhone(req.Phone)
	ref := req.PaymentRef
	if ref == "" {
		ref = xid.New().String()
	}

	token, err := s.gateway.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	stk := s.gateway.BuildSTKPush(gateway.Charge{
		Phone:     phone,
		Amount:    req.Amount,
		Reference: ref,
	}, now)

	if req.CelebritySlug != "" {
		if err := s.markPending(ctx, req.CelebritySlug, ref, req, now); err != nil {
			return nil, err
		}
	}

	ack, err := s.gateway.SubmitSTKPush(ctx, token, stk)
	if err != nil {
		log.Error().Err(err).Str("payment_ref", ref).Msg("stk push failed")
		return nil, err
	}

	if ack == nil {
		ack = make(map[string]interface{})
	}
	ack["payment_ref"] = ref
	return ack, nil
}

func (s *initiationService) markPending(ctx context.Context, slug, ref string, req model.PayRequest, now time.Time) error {
	celeb, err := s.repo.FindOne(ctx, celebModel.FieldSlug, slug)
	if errors.Is(err, store.ErrNotFound) {
		return celebModel.ErrCelebrityNotFound
	}
	if err != nil {
		return fmt.Errorf("load celebrity %s: %w", slug, err)
	}

	// Callbacks are matched by reference alone, so it may name one entry only
	holder, err := s.repo.FindOne(ctx, celebModel.FieldPaymentRef, ref)
	switch {
	case err == nil && holder.ID != celeb.ID:
		return model.ErrDuplicateRef
	case err != nil && !errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("check payment reference: %w", err)
	}

	prev := celeb.Feature.Status
	if err := celeb.MarkPending(ref, req.Amount, now); err != nil {
		return err
	}

	// A callback confirming the previous reference must not be overwritten
	err = s.repo.SaveIf(ctx, celeb, store.Eq(celebModel.FieldStatus, prev))
	switch {
	case errors.Is(err, store.ErrConflict):
		return model.ErrPaymentInProgress
	case errors.Is(err, store.ErrDuplicate):
		return model.ErrDuplicateRef
	case errors.Is(err, store.ErrNotFound):
		return celebModel.ErrCelebrityNotFound
	case err != nil:
		return fmt.Errorf("record pending payment: %w", err)
	}

	log.Info().
		Str("celebrity_id", celeb.ID).
		Str("payment_ref", ref).
		Str("amount", req.Amount.String()).
		Msg("feature payment pending")
	return nil
}
