package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"

	"celebhub-backend/internal/shared/utils"
)

// =====================================================
// ADMIN REQUESTS
// =====================================================

// CelebrityRequest is the create/update form. Social fields accept raw
// user-pasted URLs.
type CelebrityRequest struct {
	Name     string `form:"name" json:"name"`
	Slug     string `form:"slug" json:"slug"` // optional, generated from name when empty
	Bio      string `form:"bio" json:"bio"`
	Category string `form:"category" json:"category"`
	YouTube  string `form:"youtube" json:"youtube"`
	TikTok   string `form:"tiktok" json:"tiktok"`
	Spotify  string `form:"spotify" json:"spotify"`
}

func (r CelebrityRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.Length(1, 200),
		),
		validation.Field(&r.Slug, validation.Length(0, 200)),
		validation.Field(&r.Bio, validation.Length(0, 5000)),
		validation.Field(&r.Category, validation.Length(0, 100)),
		validation.Field(&r.YouTube, is.URL),
		validation.Field(&r.TikTok, is.URL),
		validation.Field(&r.Spotify, is.URL),
	)
}

// ListFilter narrows public and admin listings
type ListFilter struct {
	Query        string // case-insensitive name substring
	FeaturedOnly bool
	Limit        int
}

// =====================================================
// RESPONSES
// =====================================================

type CelebrityResponse struct {
	ID            string          `json:"id"`
	Slug          string          `json:"slug"`
	Name          string          `json:"name"`
	Bio           string          `json:"bio"`
	Category      string          `json:"category"`
	PhotoURL      string          `json:"photo_url,omitempty"`
	YouTubeID     string          `json:"youtube_id,omitempty"`
	YouTubeEmbed  string          `json:"youtube_embed,omitempty"`
	TikTok        string          `json:"tiktok,omitempty"`
	SpotifyEmbed  string          `json:"spotify_embed,omitempty"`
	Featured      bool            `json:"featured"`
	FeatureStatus FeatureStatus   `json:"feature_status"`
	FeatureAmount decimal.Decimal `json:"feature_amount"`
	FeaturedUntil *time.Time      `json:"featured_until,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToResponse renders c; photoURL resolves a stored photo key
func (c *Celebrity) ToResponse(photoURL func(key string) string) CelebrityResponse {
	r := CelebrityResponse{
		ID:            c.ID,
		Slug:          c.Slug,
		Name:          c.Name,
		Bio:           c.Bio,
		Category:      c.Category,
		YouTubeID:     c.YouTube,
		YouTubeEmbed:  utils.YouTubeEmbedURL(c.YouTube),
		TikTok:        c.TikTok,
		SpotifyEmbed:  c.Spotify,
		Featured:      c.Featured,
		FeatureStatus: c.Feature.Status,
		FeatureAmount: c.Feature.Amount,
		FeaturedUntil: c.Feature.Until,
		CreatedAt:     c.CreatedAt,
	}
	if c.Photo != "" && photoURL != nil {
		r.PhotoURL = photoURL(c.Photo)
	}
	return r
}
