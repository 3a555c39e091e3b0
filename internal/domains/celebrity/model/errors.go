package model

import (
	"errors"
	"net/http"

	"celebhub-backend/internal/store"
)

var (
	ErrCelebrityNotFound  = errors.New("celebrity not found")
	ErrFeatureActive      = errors.New("celebrity is already featured")
	ErrInvalidTransition  = errors.New("invalid feature transition")
	ErrPaymentRefMismatch = errors.New("payment reference does not match")
	ErrSlugExhausted      = errors.New("could not allocate a unique slug")
	ErrInvalidPhoto       = errors.New("photo must be a jpeg or png image")
	ErrPhotoTooLarge      = errors.New("photo exceeds the upload limit")
	ErrCelebrityChanged   = errors.New("celebrity changed concurrently, retry the edit")
)

// ToErrorCode converts error to API error code
func ToErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrCelebrityNotFound), errors.Is(err, store.ErrNotFound):
		return "CELEBRITY_NOT_FOUND"
	case errors.Is(err, ErrFeatureActive):
		return "ALREADY_FEATURED"
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrPaymentRefMismatch):
		return "INVALID_FEATURE_STATE"
	case errors.Is(err, ErrSlugExhausted), errors.Is(err, store.ErrDuplicate):
		return "DUPLICATE_SLUG"
	case errors.Is(err, ErrCelebrityChanged), errors.Is(err, store.ErrConflict):
		return "EDIT_CONFLICT"
	case errors.Is(err, ErrInvalidPhoto), errors.Is(err, ErrPhotoTooLarge):
		return "INVALID_PHOTO"
	case errors.Is(err, store.ErrUnavailable):
		return "STORE_UNAVAILABLE"
	default:
		return "INTERNAL_ERROR"
	}
}

// ToHTTPStatus converts error to HTTP status code
func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrCelebrityNotFound), errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrFeatureActive),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrPaymentRefMismatch),
		errors.Is(err, ErrSlugExhausted),
		errors.Is(err, store.ErrDuplicate),
		errors.Is(err, ErrCelebrityChanged),
		errors.Is(err, store.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidPhoto):
		return http.StatusBadRequest
	case errors.Is(err, ErrPhotoTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, store.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
