package model

import (
	"time"

	"github.com/shopspring/decimal"

	"celebhub-backend/internal/shared/utils"
)

// Celebrity is a published directory entry
type Celebrity struct {
	ID       string `json:"id" bson:"_id"`
	Slug     string `json:"slug" bson:"slug"`
	Name     string `json:"name" bson:"name"`
	Bio      string `json:"bio" bson:"bio"`
	Category string `json:"category" bson:"category"`
	Photo    string `json:"photo,omitempty" bson:"photo"` // object key in the photo bucket

	// Normalized social references (see utils.ExtractYouTubeID & co)
	YouTube string `json:"youtube,omitempty" bson:"youtube"` // video id
	TikTok  string `json:"tiktok,omitempty" bson:"tiktok"`   // canonical URL
	Spotify string `json:"spotify,omitempty" bson:"spotify"` // embed URL

	Featured bool    `json:"featured" bson:"featured"`
	Feature  Feature `json:"feature" bson:"feature"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

func (c *Celebrity) GetID() string   { return c.ID }
func (c *Celebrity) SetID(id string) { c.ID = id }

// Feature is the paid placement sub-record
type Feature struct {
	Amount     decimal.Decimal `json:"amount" bson:"amount"`
	Status     FeatureStatus   `json:"status" bson:"status"`
	PaymentRef string          `json:"payment_ref,omitempty" bson:"payment_ref"`
	Until      *time.Time      `json:"featured_until,omitempty" bson:"featured_until"`
}

type FeatureStatus string

const (
	FeatureNone    FeatureStatus = "none"
	FeaturePending FeatureStatus = "pending"
	FeaturePaid    FeatureStatus = "paid"
	FeatureFailed  FeatureStatus = "failed"
)

// NewCelebrity returns an unfeatured entry
func NewCelebrity(name string, now time.Time) *Celebrity {
	return &Celebrity{
		Name:      name,
		Feature:   Feature{Status: FeatureNone, Amount: decimal.Zero},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetSocialLinks normalizes raw user-pasted links. Unrecognised links are
// stored empty.
func (c *Celebrity) SetSocialLinks(youtube, tiktok, spotify string, opts utils.TikTokOptions) {
	c.YouTube = utils.ExtractYouTubeID(youtube)
	c.TikTok = utils.NormalizeTikTok(tiktok, opts)
	c.Spotify = utils.SpotifyEmbedURL(spotify)
}
