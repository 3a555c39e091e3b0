package model

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var phoneRegex = regexp.MustCompile(`^\+?[0-9]{9,15}$`)

// SubmissionRequest is the public multipart form
type SubmissionRequest struct {
	Name     string `form:"name" json:"name"`
	Email    string `form:"email" json:"email"`
	Phone    string `form:"phone" json:"phone"`
	Category string `form:"category" json:"category"`
	Bio      string `form:"bio" json:"bio"`
	YouTube  string `form:"youtube" json:"youtube"`
	TikTok   string `form:"tiktok" json:"tiktok"`
	Spotify  string `form:"spotify" json:"spotify"`
}

func (r SubmissionRequest) Validate() error {
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
		validation.Field(&r.Category, validation.Length(0, 100)),
		validation.Field(&r.Bio, validation.Length(0, 5000)),
		validation.Field(&r.YouTube, is.URL),
		validation.Field(&r.TikTok, is.URL),
		validation.Field(&r.Spotify, is.URL),
	)
}

// ModerationResult is returned by approve and reject. Changed is false when
// the submission was already in the requested state.
type ModerationResult struct {
	Submission *Submission `json:"submission"`
	Changed    bool        `json:"changed"`
}
