package models

import (
	"time"
)

// User represents a registered account. PasswordHash and RefreshToken are
// never serialized; every outward representation of a user goes through the
// JSON tags here.
type User struct {
	ID            string    `json:"id" db:"id"`
	Username      string    `json:"username" db:"username"`
	Email         string    `json:"email" db:"email"`
	FullName      string    `json:"fullName" db:"full_name"`
	PasswordHash  string    `json:"-" db:"password_hash"`
	AvatarURL     string    `json:"avatar" db:"avatar_url"`
	AvatarID      string    `json:"-" db:"avatar_id"` // object name at the media host
	CoverImageURL string    `json:"coverImage,omitempty" db:"cover_image_url"`
	CoverImageID  string    `json:"-" db:"cover_image_id"`
	RefreshToken  *string   `json:"-" db:"refresh_token"` // single slot, nil when logged out
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}
