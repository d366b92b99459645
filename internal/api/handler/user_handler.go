package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/marketloop/accounts-api/internal/api/metrics"
	"github.com/marketloop/accounts-api/internal/core/domain"
	"github.com/marketloop/accounts-api/internal/core/ports"
	"github.com/marketloop/accounts-api/internal/infrastructure/storage"
)

// UserHandler handles HTTP requests for account lifecycle operations.
type UserHandler struct {
	service ports.UserService
	avatars *storage.AvatarStore
}

func NewUserHandler(service ports.UserService, avatars *storage.AvatarStore) *UserHandler {
	return &UserHandler{service: service, avatars: avatars}
}

// List handles GET /users.
//
// @Summary      List all users with counts
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.ListUsersResult
// @Failure      403  {object}  messageResponse
// @Failure      500  {object}  listErrorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	result, err := h.service.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, listErrorResponse{Status: "error", Message: err.Error()})
	}
	return c.JSON(http.StatusOK, result)
}

// Me handles GET /users/personal/me — the caller's own record.
//
// @Summary      Fetch the authenticated user's own account
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /users/personal/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	callerID, _, err := callerIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.service.GetByID(c.Request().Context(), callerID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, messageResponse{Message: "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, messageResponse{Message: err.Error()})
	}
	return c.JSON(http.StatusOK, user)
}

// Logout handles GET /users/logout. Stateless: the session cookies are
// expired client-side, the bearer token itself stays valid until expiry.
//
// @Summary      Clear session cookies
// @Tags         users
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /users/logout [get]
func (h *UserHandler) Logout(c echo.Context) error {
	expire := time.Unix(0, 0)
	c.SetCookie(&http.Cookie{Name: "refreshToken", Value: "", Path: "/", Expires: expire, MaxAge: -1})
	c.SetCookie(&http.Cookie{Name: "isLoggedIn", Value: "", Path: "/", Expires: expire, MaxAge: -1})
	return c.JSON(http.StatusOK, messageResponse{Message: "successfully logout"})
}

// Delete handles DELETE /users/delete/:id — soft delete by path parameter.
//
// @Summary      Soft-delete a user by id
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  messageResponse
// @Failure      500  {object}  messageResponse
// @Router       /users/delete/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.service.SoftDelete(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrInvalidUserID) {
			return c.JSON(http.StatusBadRequest, messageResponse{Message: "Malformed user id"})
		}
		return c.JSON(http.StatusInternalServerError, messageResponse{Message: err.Error()})
	}
	metrics.UsersDeletedTotal.Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "User successfully deleted!"})
}

// UpdateProfile handles PUT /users/update/profile — the caller updates its
// own record. The request schema is the allow-list: role and password simply
// do not bind.
//
// @Summary      Update the authenticated user's own profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Profile fields"
// @Success      200   {object}  updateProfileResponse
// @Failure      400   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /users/update/profile [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	callerID, _, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "invalid payload"})
	}

	updated, err := h.service.UpdateProfile(c.Request().Context(), callerID, req.fields())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, messageResponse{Message: "User not found"})
		case errors.Is(err, domain.ErrEmailExists):
			metrics.DuplicateEmailTotal.Inc()
			return c.JSON(http.StatusBadRequest, messageResponse{Message: "Duplicated Email, there is already an existing Email"})
		default:
			return c.JSON(http.StatusInternalServerError, messageResponse{Message: err.Error()})
		}
	}

	return c.JSON(http.StatusOK, updateProfileResponse{UpdatedUser: updated, Message: "User successfully updated"})
}

// Create handles POST /users/create — admin-only account creation.
//
// @Summary      Create a new user account
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "New account details"
// @Success      200   {object}  createUserResponse
// @Failure      400   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /users/create [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: err.Error()})
	}

	user, err := h.service.Create(c.Request().Context(), ports.CreateUserInput{
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		Password:  req.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailExists) {
			metrics.DuplicateEmailTotal.Inc()
			return c.JSON(http.StatusBadRequest, messageResponse{Message: "Email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, messageResponse{Message: err.Error()})
	}

	metrics.UsersCreatedTotal.Inc()
	return c.JSON(http.StatusOK, createUserResponse{User: user, Message: "User successfully created"})
}

// AdminUpdate handles PUT /users/update/user/:id — admin updates any record,
// including the role.
//
// @Summary      Update any user by id
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "User id"
// @Param        body  body      adminUpdateRequest  true  "Fields to update"
// @Success      200   {object}  adminUpdateResponse
// @Failure      400   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /users/update/user/{id} [put]
func (h *UserHandler) AdminUpdate(c echo.Context) error {
	var req adminUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "invalid payload"})
	}

	updated, err := h.service.AdminUpdate(c.Request().Context(), c.Param("id"), req.fields())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidUserID):
			return c.JSON(http.StatusBadRequest, messageResponse{Message: "Malformed user id"})
		case errors.Is(err, domain.ErrInvalidRole):
			return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid role"})
		case errors.Is(err, domain.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, messageResponse{Message: "User not found"})
		case errors.Is(err, domain.ErrEmailExists):
			metrics.DuplicateEmailTotal.Inc()
			return c.JSON(http.StatusBadRequest, messageResponse{Message: "Duplicated Email, there is already an existing Email"})
		default:
			return c.JSON(http.StatusInternalServerError, messageResponse{Message: err.Error()})
		}
	}

	return c.JSON(http.StatusOK, adminUpdateResponse{Message: "User successfully updated", Offer: updated})
}

// UploadAvatar handles PUT /users/upload/avatarFile — multipart upload of a
// single avatar image for the caller's own account. Limits are enforced
// before any byte reaches disk.
//
// @Summary      Upload an avatar image for the authenticated user
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        avatarFile  formData  file  true  "Avatar image (max 5 MiB)"
// @Success      200  {object}  uploadAvatarResponse
// @Failure      400  {object}  messageResponse
// @Failure      500  {object}  messageResponse
// @Router       /users/upload/avatarFile [put]
func (h *UserHandler) UploadAvatar(c echo.Context) error {
	callerID, _, err := callerIdentity(c)
	if err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		metrics.AvatarUploadsTotal.WithLabelValues("rejected").Inc()
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "invalid multipart form"})
	}

	files := form.File["avatarFile"]
	if err := h.avatars.ValidateCount(len(files)); err != nil {
		metrics.AvatarUploadsTotal.WithLabelValues("rejected").Inc()
		return c.JSON(http.StatusBadRequest, messageResponse{Message: err.Error()})
	}

	fh := files[0]
	if fh.Size > h.avatars.MaxBytes() {
		metrics.AvatarUploadsTotal.WithLabelValues("too_large").Inc()
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "file exceeds the allowed size"})
	}

	src, err := fh.Open()
	if err != nil {
		metrics.AvatarUploadsTotal.WithLabelValues("error").Inc()
		return c.JSON(http.StatusInternalServerError, messageResponse{Message: err.Error()})
	}
	defer src.Close()

	filename := storage.AvatarFilename(storage.ExtFromContentType(fh.Header.Get("Content-Type")))
	uri, err := h.avatars.Save(filename, src, fh.Size)
	if err != nil {
		if errors.Is(err, storage.ErrFileTooLarge) {
			metrics.AvatarUploadsTotal.WithLabelValues("too_large").Inc()
			return c.JSON(http.StatusBadRequest, messageResponse{Message: "file exceeds the allowed size"})
		}
		metrics.AvatarUploadsTotal.WithLabelValues("error").Inc()
		return c.JSON(http.StatusInternalServerError, messageResponse{Message: err.Error()})
	}

	updated, err := h.service.SetAvatar(c.Request().Context(), callerID, uri)
	if err != nil {
		metrics.AvatarUploadsTotal.WithLabelValues("error").Inc()
		return c.JSON(http.StatusInternalServerError, messageResponse{Message: err.Error()})
	}

	metrics.AvatarUploadsTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, uploadAvatarResponse{UpdateAvatar: updated})
}

// GetUser handles GET /users/getUser/:id — admin fetch of any record. The id
// shape is validated before any lookup; both the malformed-id and the
// not-found case answer 400, as they always have.
//
// @Summary      Fetch a user by id
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  domain.User
// @Failure      400  {object}  messageResponse
// @Failure      500  {object}  messageResponse
// @Router       /users/getUser/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.service.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidUserID):
			return c.JSON(http.StatusBadRequest, messageResponse{Message: "Malformed user id"})
		case errors.Is(err, domain.ErrUserNotFound):
			return c.JSON(http.StatusBadRequest, messageResponse{Message: "User not found!"})
		default:
			return c.JSON(http.StatusInternalServerError, messageResponse{Message: err.Error()})
		}
	}
	return c.JSON(http.StatusOK, user)
}
