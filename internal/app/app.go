// Package app assembles the notification pipeline shared by the API server
// and the Pub/Sub worker.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/orderpush/orderpush/internal/config"
	"github.com/orderpush/orderpush/internal/database"
	"github.com/orderpush/orderpush/internal/firebaseapp"
	"github.com/orderpush/orderpush/internal/notify"
	"github.com/orderpush/orderpush/internal/order"
	"github.com/orderpush/orderpush/internal/provider/resilience"
	"github.com/orderpush/orderpush/internal/push"
	"github.com/orderpush/orderpush/internal/pushtoken"
	"github.com/orderpush/orderpush/internal/recipient"
)

// ErrUnknownBackend is returned for an unsupported STORE_BACKEND value.
var ErrUnknownBackend = errors.New("unknown store backend")

// App holds the wired notification pipeline and the resources behind it.
type App struct {
	ProjectID string
	Notifier  *notify.Service
	Providers *resilience.Registry

	// Credentials is the raw service account document.
	Credentials []byte

	closers []func(context.Context) error
}

// New connects the configured stores and builds the notification service.
func New(ctx context.Context, cfg config.Config, log zerolog.Logger) (*App, error) {
	creds, account, err := cfg.Credentials()
	if err != nil {
		return nil, err
	}

	a := &App{ProjectID: account.ProjectID, Credentials: creds}

	fb, err := firebaseapp.New(ctx, account.ProjectID, creds, cfg.StoreBackend == config.BackendFirestore)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func(context.Context) error { return fb.Close() })

	orders, tokens, err := a.openStores(ctx, cfg, fb, log)
	if err != nil {
		_ = a.Close(ctx) //nolint:errcheck // best effort cleanup
		return nil, err
	}

	a.Providers = resilience.NewRegistry()
	expoGuard := resilience.NewGuard(laneBreakerConfig(push.LaneExpo, log), a.Providers)
	fcmGuard := resilience.NewGuard(laneBreakerConfig(push.LaneFCM, log), a.Providers)

	metrics, err := push.NewMetrics()
	if err != nil {
		_ = a.Close(ctx) //nolint:errcheck // best effort cleanup
		return nil, fmt.Errorf("initialize push metrics: %w", err)
	}

	dispatcher := push.NewDispatcher(push.DispatcherConfig{
		Expo:    push.NewExpoSender(push.NewExpoClient(push.ExpoClientConfig{AccessToken: cfg.ExpoAccessToken}), expoGuard, log),
		FCM:     push.NewFCMSender(fb.Messaging, fcmGuard, log),
		Metrics: metrics,
		Logger:  log,
	})

	resolver := recipient.NewResolver(recipient.ResolverConfig{
		Orders:   orders,
		Registry: tokens,
		Logger:   log,
	})

	a.Notifier = notify.NewService(notify.ServiceConfig{
		Resolver:   resolver,
		Dispatcher: dispatcher,
		Logger:     log,
	})

	log.Info().
		Str("project_id", account.ProjectID).
		Str("store_backend", cfg.StoreBackend).
		Bool("expo_access_token", cfg.ExpoAccessToken != "").
		Msg("notification pipeline initialized")

	return a, nil
}

func (a *App) openStores(ctx context.Context, cfg config.Config, fb *firebaseapp.App, log zerolog.Logger) (order.Repository, pushtoken.Repository, error) {
	switch cfg.StoreBackend {
	case config.BackendFirestore:
		return order.NewFirestoreRepository(fb.Firestore), pushtoken.NewFirestoreRepository(fb.Firestore), nil

	case config.BackendMongo:
		client, db, err := database.ConnectMongo(ctx, database.MongoConfig{
			URI:            cfg.MongoURI,
			Database:       cfg.MongoDatabase,
			ConnectRetries: 5,
		})
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, client.Disconnect)
		log.Info().Str("database", cfg.MongoDatabase).Msg("mongo connected")
		return order.NewMongoRepository(db), pushtoken.NewMongoRepository(db), nil

	case config.BackendPostgres:
		dbConfig := database.PostgresConfigFromEnv()
		pool, err := database.ConnectPostgres(ctx, dbConfig)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, func(context.Context) error {
			pool.Close()
			return nil
		})
		log.Info().
			Str("host", dbConfig.Host).
			Int("port", dbConfig.Port).
			Str("database", dbConfig.Database).
			Msg("database connected")
		return order.NewPostgresRepository(pool), pushtoken.NewPostgresRepository(pool), nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.StoreBackend)
	}
}

func laneBreakerConfig(lane push.Lane, log zerolog.Logger) resilience.CircuitBreakerConfig {
	cfg := resilience.DefaultCircuitBreakerConfig(string(lane))
	cfg.OnStateChange = func(name string, from, to gobreaker.State) {
		log.Warn().
			Str("lane", name).
			Str("from", from.String()).
			Str("to", to.String()).
			Msg("push lane breaker changed state")
	}
	return cfg
}

// Close releases store connections in reverse order of creation.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
