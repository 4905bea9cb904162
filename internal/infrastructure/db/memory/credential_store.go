// Package memory provides a process-local CredentialStore. Nothing survives
// a restart; use it for tests and throwaway gateways.
package memory

import (
	"context"
	"sync"

	"github.com/hotelbooking/reservation-client/internal/core/domain"
	"github.com/hotelbooking/reservation-client/internal/core/ports"
)

type CredentialStore struct {
	mu   sync.RWMutex
	cred *domain.StoredCredential
}

var _ ports.CredentialStore = (*CredentialStore)(nil)

func NewCredentialStore() *CredentialStore {
	return &CredentialStore{}
}

func (s *CredentialStore) Load(_ context.Context) (*domain.StoredCredential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cred == nil {
		return nil, domain.ErrNoCredential
	}
	clone := *s.cred
	return &clone, nil
}

func (s *CredentialStore) Save(_ context.Context, cred domain.StoredCredential) error {
	s.mu.Lock()
	s.cred = &cred
	s.mu.Unlock()
	return nil
}

func (s *CredentialStore) Clear(_ context.Context) error {
	s.mu.Lock()
	s.cred = nil
	s.mu.Unlock()
	return nil
}
