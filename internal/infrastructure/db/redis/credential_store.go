package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/hotelbooking/reservation-client/internal/core/domain"
	"github.com/hotelbooking/reservation-client/internal/core/ports"
	"github.com/hotelbooking/reservation-client/internal/pkg/seal"
)

const (
	fieldToken    = "token"
	fieldUserID   = "userId"
	fieldUserRole = "userRole"
)

// CredentialStore keeps the credential in one hash so several gateway
// replicas share a session.
// Key format: <prefix>session
type CredentialStore struct {
	client *redis.Client
	key    string
	sealer *seal.Sealer
}

var _ ports.CredentialStore = (*CredentialStore)(nil)

// NewCredentialStore wraps client. sealer may be nil.
func NewCredentialStore(client *redis.Client, prefix string, sealer *seal.Sealer) *CredentialStore {
	return &CredentialStore{client: client, key: prefix + "session", sealer: sealer}
}

func (s *CredentialStore) Load(ctx context.Context) (*domain.StoredCredential, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("load credential: %w", err)
	}
	sealed, ok := fields[fieldToken]
	if !ok || sealed == "" {
		return nil, domain.ErrNoCredential
	}

	token, err := s.sealer.Open([]byte(sealed))
	if err != nil {
		return nil, fmt.Errorf("load credential: %w: %w", domain.ErrDecode, err)
	}
	return &domain.StoredCredential{
		Token:  string(token),
		UserID: fields[fieldUserID],
		Role:   domain.Role(fields[fieldUserRole]),
	}, nil
}

// Save replaces the hash inside MULTI/EXEC so readers never see a mix of
// old and new fields.
func (s *CredentialStore) Save(ctx context.Context, cred domain.StoredCredential) error {
	token, err := s.sealer.Seal([]byte(cred.Token))
	if err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key)
		pipe.HSet(ctx, s.key,
			fieldToken, token,
			fieldUserID, cred.UserID,
			fieldUserRole, string(cred.Role),
		)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

func (s *CredentialStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}
