package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	celebModel "celebhub-backend/internal/domains/celebrity/model"
	"celebhub-backend/internal/domains/payment/model"
	"celebhub-backend/internal/store"
)

type ReconcilerConfig struct {
	FeatureDuration time.Duration
	// FailOnCallbackError moves pending entries to failed on a non-zero
	// ResultCode; otherwise failures are only logged
	FailOnCallbackError bool
}

type reconciler struct {
	repo store.Repository[*celebModel.Celebrity]
	cfg  ReconcilerConfig
	now  func() time.Time
}

func NewReconciler(repo store.Repository[*celebModel.Celebrity], cfg ReconcilerConfig) Reconciler {
	return &reconciler{repo: repo, cfg: cfg, now: time.Now}
}

// Reconcile is idempotent: a redelivered callback finds the entry already in
// its terminal state and changes nothing. Errors are store failures only.
func (r *reconciler) Reconcile(ctx context.Context, payload model.CallbackPayload) (Outcome, error) {
	cb := payload.Callback()
	ref := cb.Reference()

	logEvt := log.Info().
		Str("checkout_request_id", cb.CheckoutRequestID).
		Str("payment_ref", ref).
		Int("result_code", cb.ResultCode)

	if ref == "" {
		logEvt.Str("result_desc", cb.ResultDesc).Msg("callback without payment reference ignored")
		return OutcomeIgnored, nil
	}

	if !cb.Succeeded() {
		if !r.cfg.FailOnCallbackError {
			logEvt.Str("result_desc", cb.ResultDesc).Msg("payment failed; feature left pending")
			return OutcomeIgnored, nil
		}
		return r.apply(ctx, ref, OutcomeFailed, func(c *celebModel.Celebrity, now time.Time) (bool, error) {
			return c.MarkFailed(ref, now)
		})
	}

	return r.apply(ctx, ref, OutcomePaid, func(c *celebModel.Celebrity, now time.Time) (bool, error) {
		return c.MarkPaid(ref, now, r.cfg.FeatureDuration)
	})
}

// apply runs transition on the entry holding ref and saves it only while the
// entry is still pending, so concurrent deliveries cannot both win
func (r *reconciler) apply(
	ctx context.Context,
	ref string,
	outcome Outcome,
	transition func(*celebModel.Celebrity, time.Time) (bool, error),
) (Outcome, error) {
	celeb, err := r.repo.FindOne(ctx, celebModel.FieldPaymentRef, ref)
	if errors.Is(err, store.ErrNotFound) {
		log.Warn().Str("payment_ref", ref).Msg("callback for unknown payment reference")
		return OutcomeUnknownRef, nil
	}
	if err != nil {
		return "", fmt.Errorf("find payment %s: %w", ref, err)
	}

	changed, err := transition(celeb, r.now())
	if err != nil {
		log.Warn().Err(err).Str("payment_ref", ref).Str("status", string(celeb.Feature.Status)).Msg("callback does not apply")
		return OutcomeIgnored, nil
	}
	if !changed {
		log.Info().Str("payment_ref", ref).Msg("duplicate callback")
		return OutcomeDuplicate, nil
	}

	err = r.repo.SaveIf(ctx, celeb, store.Eq(celebModel.FieldStatus, celebModel.FeaturePending))
	switch {
	case errors.Is(err, store.ErrConflict), errors.Is(err, store.ErrNotFound):
		log.Info().Str("payment_ref", ref).Msg("callback lost race with a concurrent update")
		return OutcomeDuplicate, nil
	case err != nil:
		return "", fmt.Errorf("save payment %s: %w", ref, err)
	}

	evt := log.Info().Str("celebrity_id", celeb.ID).Str("payment_ref", ref)
	if celeb.Feature.Until != nil {
		evt = evt.Time("featured_until", *celeb.Feature.Until)
	}
	evt.Msgf("feature payment %s", outcome)
	return outcome, nil
}
