package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/spendbook/internal/api"
	"github.com/mmynk/spendbook/internal/auth"
	"github.com/mmynk/spendbook/internal/config"
	"github.com/mmynk/spendbook/internal/events"
	"github.com/mmynk/spendbook/internal/service"
	"github.com/mmynk/spendbook/internal/storage"
	"github.com/mmynk/spendbook/internal/storage/memory"
	"github.com/mmynk/spendbook/internal/storage/mongo"
	"github.com/mmynk/spendbook/internal/storage/sqlite"
	"github.com/mmynk/spendbook/internal/storage/supabase"
	"github.com/mmynk/spendbook/pkg/logging"
)

func main() {
	cfg := config.Load()
	logging.SetupWithLevel(logging.ParseLevel(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "backend", cfg.StoreBackend)

	publisher, err := openPublisher(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to AMQP: %w", err)
	}
	if closer, ok := publisher.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	secret := cfg.JWTSecret
	if secret == "" {
		secret = "dev-secret"
		slog.Warn("JWT_SECRET not set, using an insecure development secret")
	}
	jwtManager := auth.NewJWTManager(secret, cfg.TokenTTL)

	items := service.NewItemService(store, publisher)
	transactions := service.NewTransactionService(store, items, publisher)
	settings := service.NewSettingsService(store, publisher)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := api.NewRouter(api.Services{
		Items:        items,
		Transactions: transactions,
		Reports:      service.NewReportService(transactions, items, settings),
		Settings:     settings,
		Auth:         service.NewAuthService(auth.NewPasswordAuthenticator(storage.NewUsers(store)), jwtManager, publisher),
	}, api.Options{
		JWT:           jwtManager,
		Registry:      registry,
		SecureCookies: cfg.SecureCookies,
		CORSOrigins:   cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h2c.NewHandler(router, &http2.Server{}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Server starting", "address", srv.Addr, "url", fmt.Sprintf("http://localhost%s", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func openStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendMongo:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return mongo.Connect(connectCtx, cfg.MongoURI, cfg.MongoDatabase)
	case config.BackendSupabase:
		return supabase.New(cfg.SupabaseURL, cfg.SupabaseKey)
	case config.BackendMemory:
		slog.Warn("Using in-memory storage, data is lost on restart")
		return memory.New(), nil
	default:
		return sqlite.New(cfg.DBPath)
	}
}

func openPublisher(cfg *config.Config) (events.Publisher, error) {
	if cfg.AMQPURL == "" {
		return events.Nop{}, nil
	}
	pub, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		return nil, err
	}
	slog.Info("Publishing change events", "exchange", cfg.AMQPExchange)
	return pub, nil
}
