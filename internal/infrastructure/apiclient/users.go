package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/hotelbooking/reservation-client/internal/core/domain"
	"github.com/hotelbooking/reservation-client/internal/core/ports"
)

func (c *Client) Register(ctx context.Context, in ports.RegistrationInput) (*domain.User, error) {
	var u domain.User
	if err := c.do(ctx, call{method: http.MethodPost, path: "/users", body: in, out: &u}); err != nil {
		return nil, err
	}
	return &u, nil
}

// Me returns the profile of the account the current token belongs to.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := c.do(ctx, call{method: http.MethodGet, path: "/users/myInfo", out: &u}); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) Profile(ctx context.Context, userID string) (*domain.User, error) {
	var u domain.User
	path := "/users/profile/" + url.PathEscape(userID)
	if err := c.do(ctx, call{method: http.MethodGet, path: path, out: &u}); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	return c.do(ctx, call{method: http.MethodDelete, path: "/users/delete/" + url.PathEscape(userID)})
}
