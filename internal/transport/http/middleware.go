package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nexttalk/nexttalk-api/internal/domain"
	"github.com/nexttalk/nexttalk-api/internal/service"
	"github.com/nexttalk/nexttalk-api/internal/util"
)

const (
	contextUserKey  = "auth.user"
	contextTokenKey = "auth.token"
)

// RequireAuth gates a route on a valid bearer token and attaches the
// resolved user to the request context. It never mutates persisted state.
func RequireAuth(auth *service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if strings.TrimSpace(authHeader) == "" {
				return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return c.JSON(http.StatusUnauthorized, util.Error("invalid authorization header"))
			}
			token := strings.TrimSpace(parts[1])
			user, err := auth.Authenticate(c.Request().Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, service.ErrTokenInvalid):
					return c.JSON(http.StatusForbidden, util.Error("invalid token"))
				case errors.Is(err, service.ErrUserNotFound):
					return c.JSON(http.StatusNotFound, util.Error("user not found"))
				default:
					return c.JSON(http.StatusInternalServerError, util.Error("unable to authenticate request"))
				}
			}
			c.Set(contextUserKey, user)
			c.Set(contextTokenKey, token)
			return next(c)
		}
	}
}

// CurrentUser returns the principal attached by RequireAuth.
func CurrentUser(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get(contextUserKey).(*domain.User)
	return user, ok
}
