package model

import (
	"errors"
	"net/http"

	celebrity "celebhub-backend/internal/domains/celebrity/model"
	"celebhub-backend/internal/store"
)

var (
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrAlreadyModerated   = errors.New("submission was already moderated")
	ErrInvalidStatus      = errors.New("invalid submission status")
)

// ToErrorCode converts error to API error code
func ToErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrSubmissionNotFound):
		return "SUBMISSION_NOT_FOUND"
	case errors.Is(err, ErrAlreadyModerated):
		return "ALREADY_MODERATED"
	case errors.Is(err, ErrInvalidStatus):
		return "INVALID_STATUS"
	case errors.Is(err, celebrity.ErrSlugExhausted):
		return "DUPLICATE_SLUG"
	case errors.Is(err, celebrity.ErrInvalidPhoto), errors.Is(err, celebrity.ErrPhotoTooLarge):
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
	case errors.Is(err, ErrSubmissionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyModerated),
		errors.Is(err, celebrity.ErrSlugExhausted),
		errors.Is(err, store.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidStatus), errors.Is(err, celebrity.ErrInvalidPhoto):
		return http.StatusBadRequest
	case errors.Is(err, celebrity.ErrPhotoTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, store.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
