// @title                       Grocery API
// @version                     1.0
// @description                 Shared grocery lists with per-session synchronization.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/listasy/grocery-api/internal/api"
	"github.com/listasy/grocery-api/internal/api/handler"
	"github.com/listasy/grocery-api/internal/api/metrics"
	"github.com/listasy/grocery-api/internal/core/ports"
	"github.com/listasy/grocery-api/internal/core/service"
	"github.com/listasy/grocery-api/internal/infrastructure/db/mongo"
	"github.com/listasy/grocery-api/internal/infrastructure/db/redis"
	"github.com/listasy/grocery-api/internal/infrastructure/hosted"
	"github.com/listasy/grocery-api/internal/infrastructure/queue"
	"github.com/listasy/grocery-api/internal/infrastructure/selfhosted"
	"github.com/listasy/grocery-api/internal/pkg/config"
	"github.com/listasy/grocery-api/pkg/logger"
)

const (
	pruneInterval   = time.Minute
	shutdownTimeout = 10 * time.Second
	initTimeout     = 15 * time.Second
)

// backend is the wired auth provider and table store plus its teardown.
type backend struct {
	auth   ports.AuthProvider
	stores ports.DataStoreProvider
	checks map[string]handler.Checker
	close  func(context.Context)
}

func main() {
	// --- 1. Environment and configuration ---
	// A missing .env file is expected outside development.
	_ = godotenv.Load()
	cfg := config.Load()

	// --- 2. Logger ---
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Development(),
		Service: "grocery-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server terminated")
	}
	log.Info().Msg("server exited gracefully")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- 3. Backend ---
	initCtx, cancelInit := context.WithTimeout(ctx, initTimeout)
	be, err := newBackend(initCtx, cfg, log)
	cancelInit()
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		be.close(closeCtx)
	}()
	log.Info().Str("backend", cfg.Backend).Msg("backend initialized")

	// --- 4. Mutation serializer ---
	serial := queue.NewSerializer(cfg.SerializerWorkers, logger.Component("serializer"),
		queue.WithDepthObserver(func(pending int) {
			metrics.SerializerQueueDepth.Set(float64(pending))
		}),
	)
	serial.Start(ctx)

	// --- 5. Workspace registry ---
	registry := service.NewRegistry(be.auth, be.stores, serial, metrics.StoreObserver{}, log,
		service.WithActiveGauge(func(active int) {
			metrics.ActiveWorkspaces.Set(float64(active))
		}),
	)
	go prune(ctx, registry)

	// --- 6. HTTP server ---
	e := api.NewRouter(api.RouterConfig{
		Registry:    registry,
		JWTSecret:   cfg.JWTSecret,
		CORSOrigins: cfg.CORSOrigins,
		Checks:      be.checks,
	}, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// --- 7. Graceful shutdown ---
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		log.Info().Msg("received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

func newBackend(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*backend, error) {
	switch cfg.Backend {
	case config.BackendSelfHosted:
		return newSelfHosted(ctx, cfg, log)
	default:
		return newHosted(cfg, log)
	}
}

func newHosted(cfg *config.Config, log zerolog.Logger) (*backend, error) {
	client, err := hosted.NewClient(hosted.Config{
		BaseURL: cfg.Hosted.URL,
		AnonKey: cfg.Hosted.AnonKey,
		Timeout: cfg.Hosted.Timeout,
	}, log)
	if err != nil {
		return nil, err
	}
	return &backend{
		auth:   hosted.NewAuth(client),
		stores: hosted.NewTables(client),
		checks: map[string]handler.Checker{"hosted": client.Ping},
		close:  func(context.Context) {},
	}, nil
}

func newSelfHosted(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*backend, error) {
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "grocery-api",
	})
	if err != nil {
		return nil, err
	}

	tables := mongo.NewTableStore(db)
	accounts := mongo.NewAccountRepository(db)
	if err := tables.EnsureIndexes(ctx); err != nil {
		_ = mongoClient.Disconnect(ctx)
		return nil, fmt.Errorf("table indexes: %w", err)
	}
	if err := accounts.EnsureIndexes(ctx); err != nil {
		_ = mongoClient.Disconnect(ctx)
		return nil, fmt.Errorf("account indexes: %w", err)
	}

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		_ = mongoClient.Disconnect(ctx)
		return nil, err
	}
	sessions := redis.NewSessionStore(rdb)

	// Profiles are written at sign-up, before any session exists, so the
	// provider gets the unrestricted store.
	auth := selfhosted.NewAuthProvider(accounts, sessions, tables, cfg.JWTSecret, cfg.SessionTTL, logger.Component("selfhosted_auth"))

	return &backend{
		auth:   auth,
		stores: tables,
		checks: map[string]handler.Checker{
			"mongodb": mongo.Pinger(mongoClient),
			"redis":   sessions.Ping,
		},
		close: func(ctx context.Context) {
			if err := rdb.Close(); err != nil {
				log.Warn().Err(err).Msg("redis close")
			}
			if err := mongoClient.Disconnect(ctx); err != nil {
				log.Warn().Err(err).Msg("mongo disconnect")
			}
		},
	}, nil
}

func prune(ctx context.Context, registry *service.Registry) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			registry.Prune()
		}
	}
}
