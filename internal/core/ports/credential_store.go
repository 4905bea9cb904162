package ports

import (
	"context"

	"github.com/hotelbooking/reservation-client/internal/core/domain"
)

// CredentialStore is durable client-side storage for the session credential.
// Save and Clear must be atomic: a concurrent Load never observes a token
// without its denormalized identity fields or vice versa.
type CredentialStore interface {
	// Load returns domain.ErrNoCredential when nothing is stored.
	Load(ctx context.Context) (*domain.StoredCredential, error)
	Save(ctx context.Context, cred domain.StoredCredential) error
	Clear(ctx context.Context) error
}
