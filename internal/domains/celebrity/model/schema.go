package model

import "celebhub-backend/internal/store"

// Store field names
const (
	FieldID         = "id"
	FieldSlug       = "slug"
	FieldName       = "name"
	FieldFeatured   = "featured"
	FieldStatus     = "feature_status"
	FieldPaymentRef = "feature_payment_id"
	FieldUntil      = "featured_until"
	FieldCreatedAt  = "created_at"
)

type field = store.Field[*Celebrity]

var Schema = store.Schema[*Celebrity]{
	Kind: "celebrities",
	New:  func() *Celebrity { return &Celebrity{} },
	Fields: []field{
		{Name: FieldID, BSON: "_id", Ptr: func(c *Celebrity) interface{} { return &c.ID }},
		{Name: FieldSlug, BSON: "slug", Ptr: func(c *Celebrity) interface{} { return &c.Slug }},
		{Name: FieldName, BSON: "name", Ptr: func(c *Celebrity) interface{} { return &c.Name }},
		{Name: "bio", BSON: "bio", Ptr: func(c *Celebrity) interface{} { return &c.Bio }},
		{Name: "category", BSON: "category", Ptr: func(c *Celebrity) interface{} { return &c.Category }},
		{Name: "photo", BSON: "photo", Ptr: func(c *Celebrity) interface{} { return &c.Photo }},
		{Name: "youtube", BSON: "youtube", Ptr: func(c *Celebrity) interface{} { return &c.YouTube }},
		{Name: "tiktok", BSON: "tiktok", Ptr: func(c *Celebrity) interface{} { return &c.TikTok }},
		{Name: "spotify", BSON: "spotify", Ptr: func(c *Celebrity) interface{} { return &c.Spotify }},
		{Name: FieldFeatured, BSON: "featured", Ptr: func(c *Celebrity) interface{} { return &c.Featured }},
		{Name: "feature_amount", BSON: "feature.amount", Ptr: func(c *Celebrity) interface{} { return &c.Feature.Amount }},
		{Name: FieldStatus, BSON: "feature.status", Ptr: func(c *Celebrity) interface{} { return &c.Feature.Status }},
		{Name: FieldPaymentRef, BSON: "feature.payment_ref", Ptr: func(c *Celebrity) interface{} { return &c.Feature.PaymentRef }},
		{Name: FieldUntil, BSON: "feature.featured_until", Ptr: func(c *Celebrity) interface{} { return &c.Feature.Until }},
		{Name: FieldCreatedAt, BSON: "created_at", Ptr: func(c *Celebrity) interface{} { return &c.CreatedAt }},
		{Name: "updated_at", BSON: "updated_at", Ptr: func(c *Celebrity) interface{} { return &c.UpdatedAt }},
	},
	Unique:  []string{FieldSlug},
	Sparse:  []string{FieldPaymentRef},
	Indexed: []string{FieldFeatured},
}
