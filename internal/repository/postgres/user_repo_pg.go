package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nexttalk/nexttalk-api/internal/domain"
	"github.com/nexttalk/nexttalk-api/internal/repository/ports"
)

const userColumns = `id, email, name, phone, bio, profile_image_url, password_hash, password_salt, reset_token, reset_token_expires_at, created_at, updated_at`

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, params ports.CreateUserParams) (*domain.User, error) {
	const query = `
        INSERT INTO user_account (email, name, phone, bio, password_hash, password_salt)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING ` + userColumns

	row := r.db.QueryRowxContext(ctx, query, params.Email, params.Name, params.Phone, params.Bio, params.PasswordHash, params.PasswordSalt)
	var user domain.User
	if err := row.StructScan(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) UpsertGoogleUser(ctx context.Context, email string, name *string, imageURL *string) (*domain.User, error) {
	const query = `
        INSERT INTO user_account (email, name, profile_image_url)
        VALUES ($1, $2, $3)
        ON CONFLICT (email) DO UPDATE
        SET name = COALESCE(user_account.name, EXCLUDED.name),
            profile_image_url = COALESCE(user_account.profile_image_url, EXCLUDED.profile_image_url),
            updated_at = NOW()
        RETURNING ` + userColumns
	row := r.db.QueryRowxContext(ctx, query, email, name, imageURL)
	var user domain.User
	if err := row.StructScan(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM user_account WHERE email = $1`
	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM user_account WHERE id = $1`
	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, params ports.UpdateProfileParams) (*domain.User, error) {
	const query = `
        UPDATE user_account
        SET name = COALESCE($2, name),
            phone = COALESCE($3, phone),
            bio = COALESCE($4, bio),
            updated_at = NOW()
        WHERE id = $1
        RETURNING ` + userColumns
	row := r.db.QueryRowxContext(ctx, query, id, params.Name, params.Phone, params.Bio)
	var user domain.User
	if err := row.StructScan(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) UpdateProfileImage(ctx context.Context, id uuid.UUID, imageURL string) (*domain.User, error) {
	const query = `
        UPDATE user_account
        SET profile_image_url = $2,
            updated_at = NOW()
        WHERE id = $1
        RETURNING ` + userColumns
	row := r.db.QueryRowxContext(ctx, query, id, imageURL)
	var user domain.User
	if err := row.StructScan(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) SetResetToken(ctx context.Context, id uuid.UUID, token string, expiresAt time.Time) error {
	const query = `
        UPDATE user_account
        SET reset_token = $2,
            reset_token_expires_at = $3,
            updated_at = NOW()
        WHERE id = $1
    `
	_, err := r.db.ExecContext(ctx, query, id, token, expiresAt)
	return err
}

// RedeemResetToken is a single UPDATE so the password write and the token
// clear are atomic: no window where the old token stays redeemable after
// the password changed.
func (r *UserRepository) RedeemResetToken(ctx context.Context, token string, now time.Time, passwordHash, passwordSalt []byte) (*domain.User, error) {
	const query = `
        UPDATE user_account
        SET password_hash = $3,
            password_salt = $4,
            reset_token = NULL,
            reset_token_expires_at = NULL,
            updated_at = NOW()
        WHERE reset_token = $1 AND reset_token_expires_at > $2
        RETURNING ` + userColumns
	row := r.db.QueryRowxContext(ctx, query, token, now, passwordHash, passwordSalt)
	var user domain.User
	if err := row.StructScan(&user); err != nil {
		return nil, err
	}
	return &user, nil
}
