package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nexttalk/nexttalk-api/internal/domain"
)

// CreateUserParams carries the registration fields. Optional members are
// nil when absent.
type CreateUserParams struct {
	Email        string
	Name         *string
	Phone        *string
	Bio          *string
	PasswordHash []byte
	PasswordSalt []byte
}

// UpdateProfileParams carries owner-mutable profile fields; nil members are
// left untouched.
type UpdateProfileParams struct {
	Name  *string
	Phone *string
	Bio   *string
}

type UserRepository interface {
	Create(ctx context.Context, params CreateUserParams) (*domain.User, error)
	UpsertGoogleUser(ctx context.Context, email string, name *string, imageURL *string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, params UpdateProfileParams) (*domain.User, error)
	UpdateProfileImage(ctx context.Context, id uuid.UUID, imageURL string) (*domain.User, error)
	// SetResetToken overwrites any previously issued token for the user.
	SetResetToken(ctx context.Context, id uuid.UUID, token string, expiresAt time.Time) error
	// RedeemResetToken updates the password and clears the reset token pair
	// in one statement for the user whose stored token matches and has not
	// expired at now. A miss reports sql.ErrNoRows.
	RedeemResetToken(ctx context.Context, token string, now time.Time, passwordHash, passwordSalt []byte) (*domain.User, error)
}
