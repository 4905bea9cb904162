package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hotelbooking/reservation-client/internal/core/ports"
)

// UserHandler proxies account endpoints.
type UserHandler struct {
	auth ports.AuthGateway
}

func NewUserHandler(auth ports.AuthGateway) *UserHandler {
	return &UserHandler{auth: auth}
}

type registerRequest struct {
	Username    string `json:"username" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	FullName    string `json:"fullName" validate:"required"`
	PhoneNumber string `json:"phoneNumber"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// Register handles POST /users.
//
// @Summary      Register a new account
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  domain.User
// @Failure      422   {object}  api.errorResponse
// @Router       /users [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.auth.Register(c.Request().Context(), ports.RegistrationInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// Me handles GET /me.
func (h *UserHandler) Me(c echo.Context) error {
	user, err := h.auth.Me(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// ChangePassword handles POST /me/password.
func (h *UserHandler) ChangePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.auth.ChangePassword(c.Request().Context(), req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Profile handles GET /admin/users/:id.
func (h *UserHandler) Profile(c echo.Context) error {
	user, err := h.auth.Profile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Delete handles DELETE /admin/users/:id. Admins cannot delete themselves.
func (h *UserHandler) Delete(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	target := c.Param("id")
	if target == userID {
		return echo.NewHTTPError(http.StatusConflict, "cannot delete the signed-in account")
	}
	if err := h.auth.DeleteUser(c.Request().Context(), target); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
