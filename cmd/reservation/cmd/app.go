package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hotelbooking/reservation-client/internal/api"
	"github.com/hotelbooking/reservation-client/internal/api/handler"
	"github.com/hotelbooking/reservation-client/internal/core/ports"
	"github.com/hotelbooking/reservation-client/internal/core/service"
	"github.com/hotelbooking/reservation-client/internal/infrastructure/apiclient"
	"github.com/hotelbooking/reservation-client/internal/infrastructure/config"
	boltstore "github.com/hotelbooking/reservation-client/internal/infrastructure/db/bolt"
	"github.com/hotelbooking/reservation-client/internal/infrastructure/db/memory"
	mongodb "github.com/hotelbooking/reservation-client/internal/infrastructure/db/mongo"
	redisdb "github.com/hotelbooking/reservation-client/internal/infrastructure/db/redis"
	"github.com/hotelbooking/reservation-client/internal/infrastructure/queue"
	"github.com/hotelbooking/reservation-client/internal/pkg/seal"
)

// app is one process's wiring: credential storage, the session, the backend
// client and, when configured, the receipt journal.
type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	client  *apiclient.Client
	session *service.SessionStore

	journal  *queue.Dispatcher
	receipts *mongodb.ReceiptRepository
	checks   map[string]handler.Check
	closers  []func(context.Context) error
}

// newApp builds the wiring and restores any persisted session. withJournal
// connects MongoDB when MONGO_URI is set.
func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger, withJournal bool) (*app, error) {
	a := &app{cfg: cfg, log: log, checks: make(map[string]handler.Check)}

	store, err := a.openCredentialStore(ctx)
	if err != nil {
		a.close(ctx)
		return nil, err
	}

	a.client = apiclient.New(apiclient.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
		Policy:  apiclient.AuthPolicy(cfg.API.Policy),
	}, log)
	a.session = service.NewSessionStore(store, a.client, log)
	a.client.Bind(a.session)
	a.checks["backend"] = a.client.Ping

	if err := a.session.Initialize(ctx); err != nil {
		a.close(ctx)
		return nil, err
	}

	if withJournal && cfg.JournalEnabled() {
		if err := a.openJournal(ctx); err != nil {
			a.close(ctx)
			return nil, err
		}
	}
	return a, nil
}

func (a *app) openCredentialStore(ctx context.Context) (ports.CredentialStore, error) {
	sealer, err := seal.New(a.cfg.Credential.Key)
	if err != nil {
		return nil, fmt.Errorf("credential key: %w", err)
	}

	switch a.cfg.Credential.Store {
	case "memory":
		return memory.NewCredentialStore(), nil
	case "redis":
		client, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     a.cfg.Redis.Addr,
			Password: a.cfg.Redis.Password,
			DB:       a.cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return client.Close() })
		a.checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		return redisdb.NewCredentialStore(client, a.cfg.Redis.KeyPrefix, sealer), nil
	default:
		store, err := boltstore.Open(a.cfg.Credential.Path, sealer)
		if err != nil {
			return nil, err
		}
		a.log.Debug().Str("path", a.cfg.Credential.Path).Msg("credential store opened")
		return store, nil
	}
}

func (a *app) openJournal(ctx context.Context) error {
	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: a.cfg.Mongo.URI, Database: a.cfg.Mongo.Database})
	if err != nil {
		return err
	}
	a.closers = append(a.closers, client.Disconnect)
	a.checks["mongodb"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }

	a.receipts = mongodb.NewReceiptRepository(db)
	if err := a.receipts.EnsureIndexes(ctx); err != nil {
		return err
	}

	a.journal = queue.NewDispatcher(a.cfg.Mongo.Workers, a.receipts, a.log)
	// Workers outlive the caller's context; close drains them.
	a.journal.Start(context.WithoutCancel(ctx))
	a.closers = append(a.closers, func(context.Context) error {
		a.journal.Close()
		return nil
	})
	return nil
}

// journalOptions tags a workflow with the signed-in user and, when the
// journal is running, records its receipt.
func (a *app) journalOptions() []service.WorkflowOption {
	opts := []service.WorkflowOption{service.WithUser(a.session.Snapshot().UserID)}
	if a.journal != nil {
		opts = append(opts, service.WithJournal(a.journal))
	}
	return opts
}

// routerDeps assembles the gateway's dependencies. Journal and Receipts are
// left as nil interfaces when the journal is off.
func (a *app) routerDeps() api.Deps {
	d := api.Deps{
		Session:   a.session,
		Auth:      a.client,
		Rooms:     a.client,
		Bookings:  a.client,
		Workflows: service.NewWorkflowRegistry(0),
		Checks:    a.checks,
		Log:       a.log,
	}
	if a.journal != nil {
		d.Journal = a.journal
		d.Receipts = a.receipts
	}
	return d
}

// close releases resources in reverse order of acquisition.
func (a *app) close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.log.Warn().Err(err).Msg("shutdown step failed")
		}
	}
	a.closers = nil
}
