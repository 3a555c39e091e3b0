package model

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"celebhub-backend/internal/store"
)

// Registration is an onboarding interest form. Created and listed only.
type Registration struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Phone     string    `json:"phone" bson:"phone"`
	Message   string    `json:"message" bson:"message"`
	Status    string    `json:"status" bson:"status"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

func (r *Registration) GetID() string   { return r.ID }
func (r *Registration) SetID(id string) { r.ID = id }

const StatusPending = "pending"

const FieldCreatedAt = "created_at"

var Schema = store.Schema[*Registration]{
	Kind: "onboarding_registrations",
	New:  func() *Registration { return &Registration{} },
	Fields: []store.Field[*Registration]{
		{Name: "id", BSON: "_id", Ptr: func(r *Registration) interface{} { return &r.ID }},
		{Name: "name", BSON: "name", Ptr: func(r *Registration) interface{} { return &r.Name }},
		{Name: "email", BSON: "email", Ptr: func(r *Registration) interface{} { return &r.Email }},
		{Name: "phone", BSON: "phone", Ptr: func(r *Registration) interface{} { return &r.Phone }},
		{Name: "message", BSON: "message", Ptr: func(r *Registration) interface{} { return &r.Message }},
		{Name: "status", BSON: "status", Ptr: func(r *Registration) interface{} { return &r.Status }},
		{Name: FieldCreatedAt, BSON: "created_at", Ptr: func(r *Registration) interface{} { return &r.CreatedAt }},
	},
}

// =====================================================
// REQUEST
// =====================================================

var phoneRegex = regexp.MustCompile(`^\+?[0-9]{9,15}$`)

type RegistrationRequest struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Phone   string `json:"phone" form:"phone"`
	Message string `json:"message" form:"message"`
}

func (r RegistrationRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.Length(1, 200),
		),
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			is.EmailFormat.Error("invalid email format"),
		),
		validation.Field(&r.Phone, validation.Match(phoneRegex).Error("invalid phone number")),
		validation.Field(&r.Message, validation.Length(0, 2000)),
	)
}

func (r RegistrationRequest) ToRegistration(now time.Time) *Registration {
	return &Registration{
		Name:      strings.TrimSpace(r.Name),
		Email:     strings.TrimSpace(r.Email),
		Phone:     strings.TrimSpace(r.Phone),
		Message:   r.Message,
		Status:    StatusPending,
		CreatedAt: now,
	}
}

// =====================================================
// ERRORS
// =====================================================

var ErrExportFailed = errors.New("failed to build export")

// ToHTTPStatus converts error to HTTP status code
func ToHTTPStatus(err error) int {
	if errors.Is(err, store.ErrUnavailable) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// ToErrorCode converts error to API error code
func ToErrorCode(err error) string {
	switch {
	case errors.Is(err, store.ErrUnavailable):
		return "STORE_UNAVAILABLE"
	case errors.Is(err, ErrExportFailed):
		return "EXPORT_FAILED"
	default:
		return "INTERNAL_ERROR"
	}
}
