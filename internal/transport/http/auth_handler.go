package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nexttalk/nexttalk-api/internal/service"
	"github.com/nexttalk/nexttalk-api/internal/util"
)

type AuthHandler struct {
	auth *service.AuthService
}

func RegisterAuth(e *echo.Echo, auth *service.AuthService) {
	handler := &AuthHandler{auth: auth}

	group := e.Group("/api/auth")
	group.POST("/register", handler.register)
	group.POST("/login", handler.login)
	group.POST("/google", handler.loginWithGoogle)
	group.POST("/forgot-password", handler.forgotPassword)
	group.POST("/reset-password", handler.resetPassword)
	group.GET("/me", handler.me, RequireAuth(auth))
}

// register godoc
//
//	@Summary	Register with email and password
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		RegisterRequest	true	"registration payload"
//	@Success	201		{object}	AuthTokenResponse
//	@Failure	400		{object}	ErrorResponse
//	@Router		/api/auth/register [post]
func (h *AuthHandler) register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, util.Error("email and password are required"))
	}

	result, err := h.auth.Register(c.Request().Context(), service.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Bio:      req.Bio,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailAlreadyUsed):
			return c.JSON(http.StatusBadRequest, util.Error("email already registered"))
		case errors.Is(err, service.ErrPasswordTooWeak):
			return c.JSON(http.StatusBadRequest, util.Error("password does not meet requirements"))
		case errors.Is(err, service.ErrInvalidCredentials):
			return c.JSON(http.StatusBadRequest, util.Error("email and password are required"))
		default:
			return c.JSON(http.StatusInternalServerError, util.Error("error creating user"))
		}
	}

	return c.JSON(http.StatusCreated, tokenResponse(result))
}

// login godoc
//
//	@Summary	Login with email and password
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		LoginRequest	true	"login payload"
//	@Success	200		{object}	AuthTokenResponse
//	@Failure	401		{object}	ErrorResponse
//	@Router		/api/auth/login [post]
func (h *AuthHandler) login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	result, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, util.Error("invalid credentials"))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("login error"))
	}

	return c.JSON(http.StatusOK, tokenResponse(result))
}

func (h *AuthHandler) loginWithGoogle(c echo.Context) error {
	var req GoogleLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	result, err := h.auth.LoginWithGoogle(c.Request().Context(), req.IDToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidGoogleToken) {
			return c.JSON(http.StatusUnauthorized, util.Error("invalid google token"))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("login error"))
	}

	return c.JSON(http.StatusOK, tokenResponse(result))
}

// forgotPassword godoc
//
//	@Summary	Request a password reset link
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		ForgotPasswordRequest	true	"account email"
//	@Success	200		{object}	MessageResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/api/auth/forgot-password [post]
func (h *AuthHandler) forgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	if err := h.auth.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, util.Error("user not found"))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("error processing request"))
	}

	return c.JSON(http.StatusOK, util.Message("Password reset email sent"))
}

// resetPassword godoc
//
//	@Summary	Redeem a password reset token
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		ResetPasswordRequest	true	"reset payload"
//	@Success	200		{object}	MessageResponse
//	@Failure	400		{object}	ErrorResponse
//	@Router		/api/auth/reset-password [post]
func (h *AuthHandler) resetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	if err := h.auth.ResetPassword(c.Request().Context(), req.Token, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrResetTokenInvalid):
			return c.JSON(http.StatusBadRequest, util.Error("invalid or expired reset token"))
		case errors.Is(err, service.ErrPasswordTooWeak):
			return c.JSON(http.StatusBadRequest, util.Error("password does not meet requirements"))
		default:
			return c.JSON(http.StatusInternalServerError, util.Error("error resetting password"))
		}
	}

	return c.JSON(http.StatusOK, util.Message("Password reset successful"))
}

// me godoc
//
//	@Summary	Current authenticated user
//	@Tags		auth
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	AuthUserResponse
//	@Failure	401	{object}	ErrorResponse
//	@Failure	403	{object}	ErrorResponse
//	@Router		/api/auth/me [get]
func (h *AuthHandler) me(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}
	return c.JSON(http.StatusOK, util.Data("user", toAuthUser(user)))
}

func tokenResponse(result *service.AuthResult) AuthTokenResponse {
	return AuthTokenResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt.UTC().Format(time.RFC3339),
		User:      toAuthUser(result.User),
	}
}
