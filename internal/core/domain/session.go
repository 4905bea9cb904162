package domain

import (
	"strings"
	"time"
)

// Role is the coarse authorization level carried by a credential.
type Role string

const (
	RoleNone  Role = ""
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole maps a claim value such as "ROLE_ADMIN" or "admin" onto a Role.
func ParseRole(s string) Role {
	switch normalizeRole(s) {
	case string(RoleAdmin):
		return RoleAdmin
	case string(RoleUser):
		return RoleUser
	default:
		return RoleNone
	}
}

func normalizeRole(s string) string {
	return strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "ROLE_")
}

// Identity is what a credential says about its bearer.
type Identity struct {
	UserID    string
	Role      Role
	ExpiresAt time.Time // zero when the credential carries no expiry
}

// Session is the in-memory view of the current client's authentication.
type Session struct {
	Token       string
	UserID      string
	Role        Role
	Initialized bool
}

// Authenticated reports whether a credential is held.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// StoredCredential is the persisted form of the session token. UserID and
// Role are denormalized copies so they can be read without decoding.
type StoredCredential struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
	Role   Role   `json:"userRole"`
}
