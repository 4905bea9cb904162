package service

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hotelbooking/reservation-client/internal/core/domain"
)

// tokenClaims is the subset of the backend's access token the client reads.
// Roles arrive either as "roles" (string or list) or a space separated "scope".
type tokenClaims struct {
	Roles any    `json:"roles,omitempty"`
	Scope string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

// DecodeToken extracts identity claims from a bearer token. The signature is
// not verified: the client never holds the signing key and the backend
// rejects forged tokens anyway.
func DecodeToken(raw string) (domain.Identity, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.Identity{}, fmt.Errorf("%w: empty token", domain.ErrDecode)
	}

	var claims tokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}
	if claims.Subject == "" {
		return domain.Identity{}, fmt.Errorf("%w: token has no subject", domain.ErrDecode)
	}

	id := domain.Identity{
		UserID: claims.Subject,
		Role:   pickRole(roleClaims(claims)),
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}

func roleClaims(c tokenClaims) []string {
	var out []string
	switch v := c.Roles.(type) {
	case string:
		out = append(out, strings.Fields(v)...)
	case []any:
		for _, r := range v {
			if s, ok := r.(string); ok {
				out = append(out, s)
			}
		}
	}
	return append(out, strings.Fields(c.Scope)...)
}

// pickRole prefers ADMIN over USER when a token carries both.
func pickRole(claims []string) domain.Role {
	role := domain.RoleNone
	for _, c := range claims {
		switch domain.ParseRole(c) {
		case domain.RoleAdmin:
			return domain.RoleAdmin
		case domain.RoleUser:
			role = domain.RoleUser
		}
	}
	return role
}
