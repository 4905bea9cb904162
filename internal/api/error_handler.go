package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hotelbooking/reservation-client/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain and backend errors to HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, resp := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, guards, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity, errorResponse{Error: ve.Message, Field: ve.Field}
	}

	switch {
	case errors.Is(err, domain.ErrSessionExpired),
		errors.Is(err, domain.ErrNotAuthenticated):
		return http.StatusUnauthorized, errorResponse{Error: domain.FailureReason(domain.ErrSessionExpired)}
	case errors.Is(err, domain.ErrSubmissionInFlight),
		errors.Is(err, domain.ErrWorkflowClosed),
		errors.Is(err, domain.ErrNotValidated):
		return http.StatusConflict, errorResponse{Error: err.Error()}
	}

	var refreshErr *domain.RefreshError
	if errors.As(err, &refreshErr) {
		return http.StatusUnauthorized, errorResponse{Error: domain.FailureReason(domain.ErrSessionExpired)}
	}

	var appErr *domain.ApplicationError
	if errors.As(err, &appErr) {
		return applicationStatus(appErr), errorResponse{Error: domain.FailureReason(appErr)}
	}

	var netErr *domain.NetworkError
	if errors.As(err, &netErr) {
		log.Warn().Err(err).Str("path", c.Path()).Msg("backend unavailable")
		return http.StatusBadGateway, errorResponse{Error: domain.FailureReason(err)}
	}

	if errors.Is(err, domain.ErrDecode) {
		log.Warn().Err(err).Str("path", c.Path()).Msg("backend issued an unusable credential")
		return http.StatusBadGateway, errorResponse{Error: "the reservation service returned an unusable credential"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}

// applicationStatus passes client errors through, turns a business rejection
// inside a 2xx envelope into 422, and reports backend failures as 502.
func applicationStatus(e *domain.ApplicationError) int {
	switch {
	case e.Status >= 200 && e.Status < 300:
		return http.StatusUnprocessableEntity
	case e.Status >= 400 && e.Status < 500:
		return e.Status
	default:
		return http.StatusBadGateway
	}
}
