package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the single persisted identity record. Password and reset-token
// material never serializes to JSON.
type User struct {
	ID                  uuid.UUID  `db:"id" json:"id"`
	Email               string     `db:"email" json:"email"`
	Name                *string    `db:"name" json:"name,omitempty"`
	Phone               *string    `db:"phone" json:"phone,omitempty"`
	Bio                 *string    `db:"bio" json:"bio,omitempty"`
	ProfileImageURL     *string    `db:"profile_image_url" json:"profile_image_url,omitempty"`
	PasswordHash        []byte     `db:"password_hash" json:"-"`
	PasswordSalt        []byte     `db:"password_salt" json:"-"`
	ResetToken          *string    `db:"reset_token" json:"-"`
	ResetTokenExpiresAt *time.Time `db:"reset_token_expires_at" json:"-"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updated_at"`
}

// HasActiveResetToken reports whether an unconsumed reset token is still
// inside its validity window.
func (u *User) HasActiveResetToken(now time.Time) bool {
	return u.ResetToken != nil && u.ResetTokenExpiresAt != nil && now.Before(*u.ResetTokenExpiresAt)
}
