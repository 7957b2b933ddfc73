package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nexttalk/nexttalk-api/internal/media"
	"github.com/nexttalk/nexttalk-api/internal/repository/ports"
	"github.com/nexttalk/nexttalk-api/internal/service"
	"github.com/nexttalk/nexttalk-api/internal/util"
)

type UserHandler struct {
	users *service.UserService
}

func RegisterUsers(e *echo.Echo, auth *service.AuthService, users *service.UserService) {
	handler := &UserHandler{users: users}

	group := e.Group("/api/user", RequireAuth(auth))
	group.GET("/profile", handler.getProfile)
	group.PUT("/profile", handler.updateProfile)
	group.POST("/profile-image", handler.uploadProfileImage)
}

// getProfile godoc
//
//	@Summary	Fetch the authenticated user's profile
//	@Tags		user
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	AuthUserResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/api/user/profile [get]
func (h *UserHandler) getProfile(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	profile, err := h.users.Profile(c.Request().Context(), user.ID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, util.Error("user not found"))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("error fetching profile"))
	}
	return c.JSON(http.StatusOK, util.Data("user", toAuthUser(profile)))
}

// updateProfile godoc
//
//	@Summary	Update the authenticated user's profile fields
//	@Tags		user
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	AuthUserResponse
//	@Failure	400	{object}	ErrorResponse
//	@Router		/api/user/profile [put]
func (h *UserHandler) updateProfile(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	updated, err := h.users.UpdateProfile(c.Request().Context(), user.ID, ports.UpdateProfileParams{
		Name:  req.Name,
		Phone: req.Phone,
		Bio:   req.Bio,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, util.Error("user not found"))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("error updating profile"))
	}
	return c.JSON(http.StatusOK, util.Data("user", toAuthUser(updated)))
}

// uploadProfileImage godoc
//
//	@Summary	Upload a profile image
//	@Tags		user
//	@Accept		multipart/form-data
//	@Produce	json
//	@Security	BearerAuth
//	@Param		image	formData	file	true	"image file"
//	@Success	200		{object}	UploadImageResponse
//	@Failure	400		{object}	ErrorResponse
//	@Router		/api/user/profile-image [post]
func (h *UserHandler) uploadProfileImage(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("no file provided"))
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("unable to read uploaded file"))
	}
	defer file.Close()

	updated, err := h.users.UploadProfileImage(c.Request().Context(), user.ID, media.Upload{
		Reader:      file,
		Size:        fileHeader.Size,
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get(echo.HeaderContentType),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrImageTooLarge):
			return c.JSON(http.StatusBadRequest, util.Error("image exceeds the size limit"))
		case errors.Is(err, service.ErrUnsupportedImage):
			return c.JSON(http.StatusBadRequest, util.Error("unsupported image type"))
		case errors.Is(err, service.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, util.Error("user not found"))
		default:
			return c.JSON(http.StatusInternalServerError, util.Error("failed to upload profile image"))
		}
	}

	imageURL := ""
	if updated.ProfileImageURL != nil {
		imageURL = *updated.ProfileImageURL
	}
	return c.JSON(http.StatusOK, UploadImageResponse{Success: true, ImageURL: imageURL})
}
