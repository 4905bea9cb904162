package ports

import (
	"context"

	"github.com/hotelbooking/reservation-client/internal/core/domain"
)

// TokenRefresher exchanges a still-held credential for a fresh one.
type TokenRefresher interface {
	RefreshToken(ctx context.Context, token string) (string, error)
}

// Credentials is the view of the session the API client needs: read the
// bearer token, recover from an authorization failure.
type Credentials interface {
	Token() string
	Refresh(ctx context.Context) error
	Logout(ctx context.Context)
}

// SessionManager is the full session surface used by the gateway and CLI.
type SessionManager interface {
	Credentials
	Initialize(ctx context.Context) error
	Login(ctx context.Context, token string) error
	Snapshot() domain.Session
}

// AuthGateway covers the backend's authentication and account endpoints.
type AuthGateway interface {
	TokenRefresher
	Authenticate(ctx context.Context, username, password string) (string, error)
	RevokeToken(ctx context.Context, token string) error
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error
	Register(ctx context.Context, in RegistrationInput) (*domain.User, error)
	Me(ctx context.Context) (*domain.User, error)
	Profile(ctx context.Context, userID string) (*domain.User, error)
	DeleteUser(ctx context.Context, userID string) error
}

// RegistrationInput carries a new account's details.
type RegistrationInput struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}
