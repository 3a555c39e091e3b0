package model

import (
	"time"

	"celebhub-backend/internal/store"
)

// User is an account. Non-admin usernames are email addresses.
type User struct {
	ID           string    `json:"id" bson:"_id"`
	Username     string    `json:"username" bson:"username"`
	DisplayName  string    `json:"display_name,omitempty" bson:"display_name"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	IsAdmin      bool      `json:"is_admin" bson:"is_admin"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

func (u *User) GetID() string   { return u.ID }
func (u *User) SetID(id string) { u.ID = id }

const FieldUsername = "username"

var Schema = store.Schema[*User]{
	Kind: "users",
	New:  func() *User { return &User{} },
	Fields: []store.Field[*User]{
		{Name: "id", BSON: "_id", Ptr: func(u *User) interface{} { return &u.ID }},
		{Name: FieldUsername, BSON: "username", Ptr: func(u *User) interface{} { return &u.Username }},
		{Name: "display_name", BSON: "display_name", Ptr: func(u *User) interface{} { return &u.DisplayName }},
		{Name: "password_hash", BSON: "password_hash", Ptr: func(u *User) interface{} { return &u.PasswordHash }},
		{Name: "is_admin", BSON: "is_admin", Ptr: func(u *User) interface{} { return &u.IsAdmin }},
		{Name: "created_at", BSON: "created_at", Ptr: func(u *User) interface{} { return &u.CreatedAt }},
	},
	Unique: []string{FieldUsername},
}
