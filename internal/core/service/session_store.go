package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hotelbooking/reservation-client/internal/core/domain"
	"github.com/hotelbooking/reservation-client/internal/core/ports"
	"github.com/hotelbooking/reservation-client/pkg/logger"
)

// SessionStore is the single source of truth for who the current user is.
//
// opMu serializes Login, Logout and Refresh so their writes to the credential
// store never interleave. stateMu only guards the in-memory fields, which lets
// Token be read while a refresh is waiting on the network.
type SessionStore struct {
	store     ports.CredentialStore
	refresher ports.TokenRefresher
	log       zerolog.Logger

	opMu     sync.Mutex
	stateMu  sync.RWMutex
	state    domain.Session
	initOnce sync.Once
}

var _ ports.SessionManager = (*SessionStore)(nil)

// NewSessionStore returns an empty, uninitialized session.
func NewSessionStore(store ports.CredentialStore, refresher ports.TokenRefresher, log zerolog.Logger) *SessionStore {
	return &SessionStore{
		store:     store,
		refresher: refresher,
		log:       logger.Component(log, "session"),
	}
}

// SetRefresher wires the refresher after construction; the API client that
// implements it needs the session first.
func (s *SessionStore) SetRefresher(r ports.TokenRefresher) {
	s.opMu.Lock()
	s.refresher = r
	s.opMu.Unlock()
}

// Initialize restores a persisted credential. Only the first call does any
// work. An undecodable credential is discarded rather than reported.
func (s *SessionStore) Initialize(ctx context.Context) error {
	var err error
	s.initOnce.Do(func() {
		s.opMu.Lock()
		defer s.opMu.Unlock()
		defer s.setInitialized()

		cred, loadErr := s.store.Load(ctx)
		if errors.Is(loadErr, domain.ErrNoCredential) {
			return
		}
		if errors.Is(loadErr, domain.ErrDecode) {
			s.discardLocked(ctx, loadErr)
			return
		}
		if loadErr != nil {
			err = fmt.Errorf("initialize session: %w", loadErr)
			return
		}

		id, decErr := DecodeToken(cred.Token)
		if decErr != nil {
			s.discardLocked(ctx, decErr)
			return
		}

		s.setIdentity(cred.Token, id)
		s.log.Info().Str("user_id", id.UserID).Str("role", string(id.Role)).Msg("session restored")
	})
	return err
}

func (s *SessionStore) discardLocked(ctx context.Context, cause error) {
	s.log.Warn().Err(cause).Msg("discarding stored credential")
	if err := s.store.Clear(ctx); err != nil {
		s.log.Error().Err(err).Msg("failed to clear stored credential")
	}
}

// Login adopts token as the current credential. A token that cannot be
// decoded leaves the session untouched.
func (s *SessionStore) Login(ctx context.Context, token string) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	return s.loginLocked(ctx, token)
}

func (s *SessionStore) loginLocked(ctx context.Context, token string) error {
	id, err := DecodeToken(token)
	if err != nil {
		return err
	}

	cred := domain.StoredCredential{Token: token, UserID: id.UserID, Role: id.Role}
	if err := s.store.Save(ctx, cred); err != nil {
		return fmt.Errorf("persist credential: %w", err)
	}

	s.setIdentity(token, id)
	s.log.Info().Str("user_id", id.UserID).Str("role", string(id.Role)).Msg("session established")
	return nil
}

// Logout drops the credential from storage and memory. It is idempotent.
func (s *SessionStore) Logout(ctx context.Context) {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	s.logoutLocked(ctx)
}

func (s *SessionStore) logoutLocked(ctx context.Context) {
	if err := s.store.Clear(ctx); err != nil {
		s.log.Error().Err(err).Msg("failed to clear stored credential")
	}

	s.stateMu.Lock()
	wasAuthenticated := s.state.Authenticated()
	s.state = domain.Session{Initialized: s.state.Initialized}
	s.stateMu.Unlock()

	if wasAuthenticated {
		s.log.Info().Msg("session cleared")
	}
}

// Refresh replaces the current credential. On any failure the session is
// logged out and a *domain.RefreshError is returned.
func (s *SessionStore) Refresh(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	current := s.Token()
	if current == "" {
		s.logoutLocked(ctx)
		return &domain.RefreshError{Err: domain.ErrNotAuthenticated}
	}
	if s.refresher == nil {
		s.logoutLocked(ctx)
		return &domain.RefreshError{Err: errors.New("no refresher configured")}
	}

	next, err := s.refresher.RefreshToken(ctx, current)
	if err != nil {
		s.log.Warn().Err(err).Msg("token refresh rejected")
		s.logoutLocked(ctx)
		return &domain.RefreshError{Err: err}
	}
	if err := s.loginLocked(ctx, next); err != nil {
		s.log.Warn().Err(err).Msg("refreshed token unusable")
		s.logoutLocked(ctx)
		return &domain.RefreshError{Err: err}
	}
	return nil
}

// Token returns the bearer token, or "" when unauthenticated.
func (s *SessionStore) Token() string {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state.Token
}

// Snapshot returns a copy of the current session.
func (s *SessionStore) Snapshot() domain.Session {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

func (s *SessionStore) Authenticated() bool {
	return s.Snapshot().Authenticated()
}

func (s *SessionStore) Initialized() bool {
	return s.Snapshot().Initialized
}

func (s *SessionStore) setIdentity(token string, id domain.Identity) {
	s.stateMu.Lock()
	s.state.Token = token
	s.state.UserID = id.UserID
	s.state.Role = id.Role
	s.stateMu.Unlock()
}

func (s *SessionStore) setInitialized() {
	s.stateMu.Lock()
	s.state.Initialized = true
	s.stateMu.Unlock()
}
