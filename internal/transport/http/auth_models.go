package http

import (
	"time"

	"github.com/nexttalk/nexttalk-api/internal/domain"
)

// ErrorResponse represents a generic error payload.
type ErrorResponse struct {
	Error string `json:"error" example:"invalid credentials"`
}

// AuthUser models the sanitized user representation returned by the API.
// Password and reset-token material never appears here.
type AuthUser struct {
	ID              string    `json:"id" example:"9fd13fd2-63c5-4f29-a210-4a1a8e285f74"`
	Email           string    `json:"email" example:"user@example.com"`
	Name            *string   `json:"name,omitempty" example:"Alice Example"`
	Phone           *string   `json:"phone,omitempty" example:"+15551234567"`
	Bio             *string   `json:"bio,omitempty" example:"Hey there, I am using NextTalk"`
	ProfileImageURL *string   `json:"profile_image_url,omitempty" example:"https://cdn.example.com/avatar.jpg"`
	CreatedAt       time.Time `json:"created_at" example:"2024-01-01T12:00:00Z"`
	UpdatedAt       time.Time `json:"updated_at" example:"2024-01-02T09:30:00Z"`
}

// AuthTokenResponse is returned by endpoints that issue bearer tokens.
type AuthTokenResponse struct {
	Token     string   `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	ExpiresAt string   `json:"expires_at" example:"2024-01-02T09:30:00Z"`
	User      AuthUser `json:"user"`
}

// AuthUserResponse wraps a user object.
type AuthUserResponse struct {
	User AuthUser `json:"user"`
}

// MessageResponse carries a human-readable acknowledgement.
type MessageResponse struct {
	Message string `json:"message" example:"Password reset email sent"`
}

// RegisterRequest carries the registration payload.
type RegisterRequest struct {
	Name     *string `json:"name,omitempty" example:"Alice Example"`
	Email    string  `json:"email" example:"user@example.com"`
	Password string  `json:"password" example:"Secret123!"`
	Phone    *string `json:"phone,omitempty" example:"+15551234567"`
	Bio      *string `json:"bio,omitempty" example:"Hey there, I am using NextTalk"`
}

// LoginRequest carries email login fields.
type LoginRequest struct {
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"Secret123!"`
}

// GoogleLoginRequest carries the Google ID token for login.
type GoogleLoginRequest struct {
	IDToken string `json:"id_token" example:"eyJhbGciOiJSUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// ForgotPasswordRequest captures the payload for requesting a reset link.
type ForgotPasswordRequest struct {
	Email string `json:"email" example:"user@example.com"`
}

// ResetPasswordRequest captures the payload for redeeming a reset token.
type ResetPasswordRequest struct {
	Token       string `json:"token" example:"3f7a1c...64 hex chars"`
	NewPassword string `json:"newPassword" example:"NewSecret456!"`
}

// UpdateProfileRequest carries owner-mutable profile fields; absent fields
// are left untouched.
type UpdateProfileRequest struct {
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`
	Bio   *string `json:"bio,omitempty"`
}

// UploadImageResponse is returned after a profile image upload.
type UploadImageResponse struct {
	Success  bool   `json:"success" example:"true"`
	ImageURL string `json:"image_url" example:"https://cdn.example.com/profiles/9fd13fd2/avatar.jpg"`
}

func toAuthUser(user *domain.User) AuthUser {
	return AuthUser{
		ID:              user.ID.String(),
		Email:           user.Email,
		Name:            user.Name,
		Phone:           user.Phone,
		Bio:             user.Bio,
		ProfileImageURL: user.ProfileImageURL,
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.UpdatedAt,
	}
}
