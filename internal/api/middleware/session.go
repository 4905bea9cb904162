package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hotelbooking/reservation-client/internal/core/domain"
)

// Context keys set by RequireSession.
const (
	KeyUserID = "user_id"
	KeyRole   = "role"
)

// SessionSource exposes the current session.
type SessionSource interface {
	Snapshot() domain.Session
}

// RequireSession rejects requests while nobody is signed in and injects the
// session's identity into the echo context.
func RequireSession(sessions SessionSource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			snap := sessions.Snapshot()
			if !snap.Initialized {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "session is still initializing")
			}
			if !snap.Authenticated() {
				return echo.NewHTTPError(http.StatusUnauthorized, "sign in required")
			}

			c.Set(KeyUserID, snap.UserID)
			c.Set(KeyRole, snap.Role)

			return next(c)
		}
	}
}
