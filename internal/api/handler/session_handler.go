package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hotelbooking/reservation-client/internal/core/domain"
	"github.com/hotelbooking/reservation-client/internal/core/ports"
	"github.com/hotelbooking/reservation-client/pkg/logger"
)

// SessionHandler signs the gateway in and out of the reservation backend.
type SessionHandler struct {
	session ports.SessionManager
	auth    ports.AuthGateway
	log     zerolog.Logger
}

func NewSessionHandler(session ports.SessionManager, auth ports.AuthGateway, log zerolog.Logger) *SessionHandler {
	return &SessionHandler{session: session, auth: auth, log: logger.Component(log, "session_handler")}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	Initialized   bool   `json:"initialized"`
	UserID        string `json:"userId,omitempty"`
	Role          string `json:"role,omitempty"`
}

func toSessionResponse(s domain.Session) sessionResponse {
	return sessionResponse{
		Authenticated: s.Authenticated(),
		Initialized:   s.Initialized,
		UserID:        s.UserID,
		Role:          string(s.Role),
	}
}

// Get handles GET /session.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /session [get]
func (h *SessionHandler) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, toSessionResponse(h.session.Snapshot()))
}

// Login handles POST /session/login.
//
// @Summary      Sign in against the reservation backend
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  sessionResponse
// @Failure      401   {object}  api.errorResponse
// @Failure      502   {object}  api.errorResponse
// @Router       /session/login [post]
func (h *SessionHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	token, err := h.auth.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return err
	}
	if err := h.session.Login(ctx, token); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSessionResponse(h.session.Snapshot()))
}

// Logout handles POST /session/logout. The backend revocation is best effort;
// the local session is always cleared.
//
// @Summary      Sign out and revoke the credential
// @Tags         session
// @Success      204
// @Router       /session/logout [post]
func (h *SessionHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	if token := h.session.Token(); token != "" {
		if err := h.auth.RevokeToken(ctx, token); err != nil {
			h.log.Warn().Err(err).Msg("credential revocation failed")
		}
	}
	h.session.Logout(ctx)
	return c.NoContent(http.StatusNoContent)
}

// Refresh handles POST /session/refresh.
//
// @Summary      Replace the credential
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  api.errorResponse
// @Router       /session/refresh [post]
func (h *SessionHandler) Refresh(c echo.Context) error {
	if err := h.session.Refresh(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSessionResponse(h.session.Snapshot()))
}
