package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hotelbooking/reservation-client/internal/api/middleware"
	"github.com/hotelbooking/reservation-client/internal/core/domain"
)

// ctxIdentity reads what RequireSession injected. An empty user id means the
// route was mounted outside the session guard.
func ctxIdentity(c echo.Context) (userID string, role domain.Role, err error) {
	userID, _ = c.Get(middleware.KeyUserID).(string)
	role, _ = c.Get(middleware.KeyRole).(domain.Role)
	if userID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing session identity")
	}
	return userID, role, nil
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// bind decodes and validates the request body.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}
