package apiclient

import (
	"context"
	"errors"
	"net/http"

	"github.com/hotelbooking/reservation-client/internal/core/domain"
)

type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenBody struct {
	Token string `json:"token"`
}

type tokenResult struct {
	Token         string `json:"token"`
	Authenticated bool   `json:"authenticated"`
}

var errEmptyToken = errors.New("backend returned no token")

// Authenticate exchanges credentials for a bearer token.
func (c *Client) Authenticate(ctx context.Context, username, password string) (string, error) {
	var out tokenResult
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/auth/token",
		body:   tokenRequest{Username: username, Password: password},
		out:    &out,
		direct: true,
	})
	if err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", &domain.NetworkError{Op: "POST /auth/token", Err: errEmptyToken}
	}
	return out.Token, nil
}

// RefreshToken implements ports.TokenRefresher. It never goes through
// unauthorized interception.
func (c *Client) RefreshToken(ctx context.Context, token string) (string, error) {
	var out tokenResult
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/auth/refresh",
		body:   tokenBody{Token: token},
		out:    &out,
		direct: true,
	})
	if err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", &domain.NetworkError{Op: "POST /auth/refresh", Err: errEmptyToken}
	}
	return out.Token, nil
}

// RevokeToken invalidates token on the backend.
func (c *Client) RevokeToken(ctx context.Context, token string) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/auth/logout",
		body:   tokenBody{Token: token},
		direct: true,
	})
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	if c.token() == "" {
		return domain.ErrNotAuthenticated
	}
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/auth/changePass",
		body:   changePasswordRequest{OldPassword: oldPassword, NewPassword: newPassword},
	})
}
