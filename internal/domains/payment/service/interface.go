package service

import (
	"context"

	"celebhub-backend/internal/domains/payment/model"
)

// InitiationService starts feature payments
type InitiationService interface {
	// Initiate records the pending feature (when a celebrity is named) and
	// submits the STK push. The result is the gateway acknowledgement plus
	// payment_ref.
	Initiate(ctx context.Context, req model.PayRequest) (map[string]interface{}, error)
}

// Reconciler applies gateway callbacks to the feature state
type Reconciler interface {
	Reconcile(ctx context.Context, payload model.CallbackPayload) (Outcome, error)
}

// Outcome describes what a callback did
type Outcome string

const (
	OutcomePaid       Outcome = "paid"
	OutcomeFailed     Outcome = "failed"
	OutcomeDuplicate  Outcome = "duplicate"
	OutcomeUnknownRef Outcome = "unknown_reference"
	OutcomeIgnored    Outcome = "ignored"
)
