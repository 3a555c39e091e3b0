package model

import (
	"errors"
	"fmt"
	"net/http"

	celebrity "celebhub-backend/internal/domains/celebrity/model"
	"celebhub-backend/internal/store"
)

var (
	ErrGatewayFailure    = errors.New("payment gateway request failed")
	ErrPaymentInProgress = errors.New("feature payment changed concurrently")
	ErrDuplicateRef      = errors.New("payment reference already belongs to another entry")
)

// GatewayError carries the failing step of a gateway call
type GatewayError struct {
	Op     string // token, stkpush
	Status int    // HTTP status, 0 on transport errors
	Err    error
}

func (e *GatewayError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("gateway %s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("gateway %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrGatewayFailure) match any gateway error
func (e *GatewayError) Is(target error) bool {
	return target == ErrGatewayFailure
}

// ToErrorCode converts error to API error code
func ToErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrGatewayFailure):
		return "GATEWAY_ERROR"
	case errors.Is(err, ErrPaymentInProgress):
		return "PAYMENT_IN_PROGRESS"
	case errors.Is(err, ErrDuplicateRef):
		return "DUPLICATE_PAYMENT_REF"
	case errors.Is(err, celebrity.ErrCelebrityNotFound):
		return "CELEBRITY_NOT_FOUND"
	case errors.Is(err, celebrity.ErrFeatureActive):
		return "ALREADY_FEATURED"
	case errors.Is(err, celebrity.ErrInvalidTransition):
		return "INVALID_FEATURE_STATE"
	case errors.Is(err, store.ErrUnavailable):
		return "STORE_UNAVAILABLE"
	default:
		return "INTERNAL_ERROR"
	}
}

// ToHTTPStatus converts error to HTTP status code
func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrGatewayFailure):
		return http.StatusBadGateway
	case errors.Is(err, celebrity.ErrCelebrityNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrPaymentInProgress),
		errors.Is(err, ErrDuplicateRef),
		errors.Is(err, celebrity.ErrFeatureActive),
		errors.Is(err, celebrity.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, store.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
