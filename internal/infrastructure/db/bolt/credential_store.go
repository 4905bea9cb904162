// Package bolt persists the session credential in a local bbolt file so a
// later process (or CLI invocation) picks the session back up.
package bolt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.etcd.io/bbolt"

	"github.com/hotelbooking/reservation-client/internal/core/domain"
	"github.com/hotelbooking/reservation-client/internal/core/ports"
	"github.com/hotelbooking/reservation-client/internal/pkg/seal"
)

const lockTimeout = 2 * time.Second

var (
	bucketName = []byte("session")

	keyToken    = []byte("token")
	keyUserID   = []byte("userId")
	keyUserRole = []byte("userRole")
)

// CredentialStore keeps the three credential keys in one bucket. Every
// write happens in a single transaction. The file is opened per operation
// so a running gateway and CLI invocations can share it.
type CredentialStore struct {
	path   string
	sealer *seal.Sealer
	mu     sync.Mutex // serializes this handle's opens; the file lock covers other processes
}

var _ ports.CredentialStore = (*CredentialStore)(nil)

// Open prepares the database file at path, creating its directory and the
// session bucket when missing. sealer may be nil.
func Open(path string, sealer *seal.Sealer) (*CredentialStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create credential dir: %w", err)
	}
	s := &CredentialStore{path: path, sealer: sealer}
	err := s.update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create session bucket: %w", err)
	}
	return s, nil
}

func (s *CredentialStore) withDB(fn func(db *bbolt.DB) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := bbolt.Open(s.path, 0600, &bbolt.Options{Timeout: lockTimeout})
	if err != nil {
		return fmt.Errorf("opening bbolt db: %w", err)
	}
	defer db.Close()
	return fn(db)
}

func (s *CredentialStore) view(fn func(tx *bbolt.Tx) error) error {
	return s.withDB(func(db *bbolt.DB) error { return db.View(fn) })
}

func (s *CredentialStore) update(fn func(tx *bbolt.Tx) error) error {
	return s.withDB(func(db *bbolt.DB) error { return db.Update(fn) })
}

func (s *CredentialStore) Load(_ context.Context) (*domain.StoredCredential, error) {
	var (
		sealed []byte
		cred   domain.StoredCredential
	)
	err := s.view(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b == nil {
			return nil
		}
		// bbolt values are only valid inside the transaction
		if v := b.Get(keyToken); v != nil {
			sealed = append([]byte(nil), v...)
		}
		cred.UserID = string(b.Get(keyUserID))
		cred.Role = domain.Role(b.Get(keyUserRole))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load credential: %w", err)
	}
	if len(sealed) == 0 {
		return nil, domain.ErrNoCredential
	}

	token, err := s.sealer.Open(sealed)
	if err != nil {
		return nil, fmt.Errorf("load credential: %w: %w", domain.ErrDecode, err)
	}
	cred.Token = string(token)
	return &cred, nil
}

func (s *CredentialStore) Save(_ context.Context, cred domain.StoredCredential) error {
	token, err := s.sealer.Seal([]byte(cred.Token))
	if err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	err = s.update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return err
		}
		if err := b.Put(keyToken, token); err != nil {
			return err
		}
		if err := b.Put(keyUserID, []byte(cred.UserID)); err != nil {
			return err
		}
		return b.Put(keyUserRole, []byte(cred.Role))
	})
	if err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

func (s *CredentialStore) Clear(_ context.Context) error {
	err := s.update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b == nil {
			return nil
		}
		for _, k := range [][]byte{keyToken, keyUserID, keyUserRole} {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}
