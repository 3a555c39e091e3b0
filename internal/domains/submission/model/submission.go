package model

import (
	"time"

	"celebhub-backend/internal/store"
)

// Submission is a self-service profile request awaiting moderation.
// Social links are kept as submitted and normalized on approval.
type Submission struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Email       string    `json:"email" bson:"email"`
	Phone       string    `json:"phone" bson:"phone"`
	Category    string    `json:"category" bson:"category"`
	Bio         string    `json:"bio" bson:"bio"`
	YouTube     string    `json:"youtube" bson:"youtube"`
	TikTok      string    `json:"tiktok" bson:"tiktok"`
	Spotify     string    `json:"spotify" bson:"spotify"`
	Photo       string    `json:"photo,omitempty" bson:"photo"`
	Status      Status    `json:"status" bson:"status"`
	CelebrityID string    `json:"celebrity_id,omitempty" bson:"celebrity_id"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

func (s *Submission) GetID() string   { return s.ID }
func (s *Submission) SetID(id string) { s.ID = id }

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether moderation already happened
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// =====================================================
// STORE SCHEMA
// =====================================================

const (
	FieldID        = "id"
	FieldStatus    = "status"
	FieldCreatedAt = "created_at"
)

type field = store.Field[*Submission]

var Schema = store.Schema[*Submission]{
	Kind: "submissions",
	New:  func() *Submission { return &Submission{} },
	Fields: []field{
		{Name: FieldID, BSON: "_id", Ptr: func(s *Submission) interface{} { return &s.ID }},
		{Name: "name", BSON: "name", Ptr: func(s *Submission) interface{} { return &s.Name }},
		{Name: "email", BSON: "email", Ptr: func(s *Submission) interface{} { return &s.Email }},
		{Name: "phone", BSON: "phone", Ptr: func(s *Submission) interface{} { return &s.Phone }},
		{Name: "category", BSON: "category", Ptr: func(s *Submission) interface{} { return &s.Category }},
		{Name: "bio", BSON: "bio", Ptr: func(s *Submission) interface{} { return &s.Bio }},
		{Name: "youtube", BSON: "youtube", Ptr: func(s *Submission) interface{} { return &s.YouTube }},
		{Name: "tiktok", BSON: "tiktok", Ptr: func(s *Submission) interface{} { return &s.TikTok }},
		{Name: "spotify", BSON: "spotify", Ptr: func(s *Submission) interface{} { return &s.Spotify }},
		{Name: "photo", BSON: "photo", Ptr: func(s *Submission) interface{} { return &s.Photo }},
		{Name: FieldStatus, BSON: "status", Ptr: func(s *Submission) interface{} { return &s.Status }},
		{Name: "celebrity_id", BSON: "celebrity_id", Ptr: func(s *Submission) interface{} { return &s.CelebrityID }},
		{Name: FieldCreatedAt, BSON: "created_at", Ptr: func(s *Submission) interface{} { return &s.CreatedAt }},
		{Name: "updated_at", BSON: "updated_at", Ptr: func(s *Submission) interface{} { return &s.UpdatedAt }},
	},
	Indexed: []string{FieldStatus},
}
