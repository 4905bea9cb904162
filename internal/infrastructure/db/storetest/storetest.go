// Package storetest holds the behaviour every ports.CredentialStore must
// share. Each implementation's tests call Run against a fresh store.
package storetest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/hotelbooking/reservation-client/internal/core/domain"
	"github.com/hotelbooking/reservation-client/internal/core/ports"
)

// Run exercises store. The store must start empty.
func Run(t *testing.T, store ports.CredentialStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("LoadEmpty", func(t *testing.T) {
		_, err := store.Load(ctx)
		if !errors.Is(err, domain.ErrNoCredential) {
			t.Fatalf("expected ErrNoCredential, got %v", err)
		}
	})

	t.Run("SaveAndLoad", func(t *testing.T) {
		want := domain.StoredCredential{Token: "tok-1", UserID: "guest@example.com", Role: domain.RoleUser}
		if err := store.Save(ctx, want); err != nil {
			t.Fatalf("Save: %v", err)
		}
		got, err := store.Load(ctx)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if *got != want {
			t.Fatalf("got %+v, want %+v", *got, want)
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		_ = store.Save(ctx, domain.StoredCredential{Token: "tok-v1", UserID: "a", Role: domain.RoleAdmin})
		want := domain.StoredCredential{Token: "tok-v2", UserID: "b"}
		if err := store.Save(ctx, want); err != nil {
			t.Fatalf("Save: %v", err)
		}
		got, err := store.Load(ctx)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if *got != want {
			t.Fatalf("stale fields survived overwrite: got %+v, want %+v", *got, want)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		_ = store.Save(ctx, domain.StoredCredential{Token: "tok-clear", UserID: "c", Role: domain.RoleUser})
		if err := store.Clear(ctx); err != nil {
			t.Fatalf("Clear: %v", err)
		}
		if _, err := store.Load(ctx); !errors.Is(err, domain.ErrNoCredential) {
			t.Fatalf("expected ErrNoCredential after Clear, got %v", err)
		}
	})

	t.Run("ClearEmpty", func(t *testing.T) {
		if err := store.Clear(ctx); err != nil {
			t.Fatalf("Clear on empty store: %v", err)
		}
	})

	t.Run("ConcurrentSaveIsAtomic", func(t *testing.T) {
		creds := []domain.StoredCredential{
			{Token: "tok-a", UserID: "user-a", Role: domain.RoleUser},
			{Token: "tok-b", UserID: "user-b", Role: domain.RoleAdmin},
		}
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(c domain.StoredCredential) {
				defer wg.Done()
				_ = store.Save(ctx, c)
			}(creds[i%2])
		}
		wg.Wait()

		got, err := store.Load(ctx)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if *got != creds[0] && *got != creds[1] {
			t.Fatalf("torn write observed: %+v", *got)
		}
		_ = store.Clear(ctx)
	})
}
