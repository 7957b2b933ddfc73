package service

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"google.golang.org/api/idtoken"

	"github.com/nexttalk/nexttalk-api/internal/domain"
	"github.com/nexttalk/nexttalk-api/internal/repository/ports"
	"github.com/nexttalk/nexttalk-api/internal/util"
)

var (
	ErrEmailAlreadyUsed   = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrResetTokenInvalid  = errors.New("invalid or expired reset token")
	ErrPasswordTooWeak    = errors.New("password does not meet requirements")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrInvalidGoogleToken = errors.New("invalid google token")
)

// PasswordResetSender delivers a reset token to the account's email address.
type PasswordResetSender interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}

type googleValidator func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

// AuthResult is returned by the operations that issue a bearer token.
type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// RegisterParams carries the registration payload. Optional profile fields
// are nil when absent.
type RegisterParams struct {
	Name     *string
	Email    string
	Password string
	Phone    *string
	Bio      *string
}

type AuthService struct {
	users    ports.UserRepository
	mailer   PasswordResetSender
	jwt      *util.JWTManager
	resetTTL time.Duration
	aud      string

	validateGoogleToken googleValidator
	now                 func() time.Time
}

func NewAuthService(users ports.UserRepository, mailer PasswordResetSender, jwt *util.JWTManager, resetTTL time.Duration, googleAud string) *AuthService {
	return &AuthService{
		users:               users,
		mailer:              mailer,
		jwt:                 jwt,
		resetTTL:            resetTTL,
		aud:                 googleAud,
		validateGoogleToken: idtoken.Validate,
		now:                 time.Now,
	}
}

// Register creates a user and issues a bearer token for it. A duplicate
// email surfaces as ErrEmailAlreadyUsed.
func (s *AuthService) Register(ctx context.Context, params RegisterParams) (*AuthResult, error) {
	email := normalizeEmail(params.Email)
	if email == "" {
		return nil, ErrInvalidCredentials
	}
	if err := util.ValidatePassword(params.Password); err != nil {
		return nil, ErrPasswordTooWeak
	}

	hash, salt, err := util.DerivePassword(params.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, ports.CreateUserParams{
		Email:        email,
		Name:         normalizeOptional(params.Name),
		Phone:        normalizeOptional(params.Phone),
		Bio:          normalizeOptional(params.Bio),
		PasswordHash: hash,
		PasswordSalt: salt,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailAlreadyUsed
		}
		return nil, err
	}

	return s.issueToken(user)
}

// Login authenticates by email and password. Unknown email and wrong
// password collapse into the same ErrInvalidCredentials so callers cannot
// probe for account existence.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !util.VerifyPassword(password, user.PasswordSalt, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.issueToken(user)
}

// LoginWithGoogle validates a Google ID token and upserts the account by
// its verified email.
func (s *AuthService) LoginWithGoogle(ctx context.Context, idTok string) (*AuthResult, error) {
	payload, err := s.validateGoogleToken(ctx, idTok, s.aud)
	if err != nil {
		return nil, ErrInvalidGoogleToken
	}

	email, _ := payload.Claims["email"].(string)
	email = normalizeEmail(email)
	if email == "" {
		return nil, ErrInvalidGoogleToken
	}
	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)

	user, err := s.users.UpsertGoogleUser(ctx, email, normalizeOptional(&name), normalizeOptional(&picture))
	if err != nil {
		return nil, err
	}

	return s.issueToken(user)
}

// RequestPasswordReset issues a fresh reset token, overwriting any prior
// one, and hands it to the mailer. Unknown emails report ErrUserNotFound;
// delivery failures do not fail the request.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if isNotFound(err) {
			return ErrUserNotFound
		}
		return err
	}

	token, err := util.GenerateResetToken()
	if err != nil {
		return err
	}
	expiresAt := s.now().Add(s.resetTTL)

	if err := s.users.SetResetToken(ctx, user.ID, token, expiresAt); err != nil {
		return err
	}

	if s.mailer != nil {
		if err := s.mailer.SendPasswordReset(ctx, user.Email, token); err != nil {
			log.Printf("password reset mail to %s failed: %v", user.Email, err)
		}
	}
	return nil
}

// ResetPassword redeems a reset token. The repository clears the token pair
// atomically with the password write; a consumed, expired, or unknown token
// reports ErrResetTokenInvalid.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrResetTokenInvalid
	}
	if err := util.ValidatePassword(newPassword); err != nil {
		return ErrPasswordTooWeak
	}

	hash, salt, err := util.DerivePassword(newPassword)
	if err != nil {
		return err
	}

	if _, err := s.users.RedeemResetToken(ctx, token, s.now(), hash, salt); err != nil {
		if isNotFound(err) {
			return ErrResetTokenInvalid
		}
		return err
	}
	return nil
}

// Authenticate resolves a bearer token to its user. Verification failures
// report ErrTokenInvalid; a valid token whose subject no longer exists
// reports ErrUserNotFound.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.jwt.Parse(token)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) issueToken(user *domain.User) (*AuthResult, error) {
	token, expiresAt, err := s.jwt.Generate(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
