// Package main is the entry point for the BodhiTab quote service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bodhitab/quote-service/internal/adapters/clients"
	"github.com/bodhitab/quote-service/internal/adapters/clients/acl"
	"github.com/bodhitab/quote-service/internal/adapters/http"
	"github.com/bodhitab/quote-service/internal/adapters/http/handlers"
	"github.com/bodhitab/quote-service/internal/adapters/netstatus"
	"github.com/bodhitab/quote-service/internal/adapters/storage"
	"github.com/bodhitab/quote-service/internal/app"
	"github.com/bodhitab/quote-service/internal/platform/config"
	"github.com/bodhitab/quote-service/internal/platform/logging"
	"github.com/bodhitab/quote-service/internal/platform/telemetry"
	"github.com/bodhitab/quote-service/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// 1. Environment: .env first, then the profile
	if err := config.LoadDotEnv(os.Getenv("APP_DOTENV")); err != nil {
		return err
	}

	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// 2. Load and validate configuration (fail fast)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. Logging
	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
		slog.String("storage", cfg.Storage.Backend),
		slog.String("network_mode", cfg.Network.Mode),
	)

	// 4. Telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	// 5. Key-value store, selected once from config
	store, err := storage.Open(ctx, &cfg.Storage)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}

	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			logger.Error("storage close error", slog.Any("error", closeErr))
		}
	}()

	// 6. Quote API client (ACL over the instrumented HTTP client)
	httpClient, err := acl.NewQuoteHTTPClient(clients.Config{
		BaseURL:     cfg.Services.Quote.BaseURL,
		ServiceName: cfg.Services.Quote.Name,
		Timeout:     cfg.Client.Timeout,
		Retry:       cfg.Client.Retry,
		Transport:   cfg.Client.Transport,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("creating HTTP client: %w", err)
	}

	quoteClient := acl.NewQuoteClient(acl.QuoteClientConfig{
		Client:        httpClient,
		HealthTimeout: cfg.Network.ProbeTimeout,
		Logger:        logger,
	})

	// 7. Connectivity monitor probing the quote API
	monitor := netstatus.New(netstatus.ConfigFrom(&cfg.Network), quoteClient)
	go monitor.Run(ctx)

	// 8. Health: storage is critical, the quote API only degrades readiness
	healthRegistry := ports.NewHealthRegistry()
	if err := healthRegistry.Register(store); err != nil {
		return fmt.Errorf("registering storage health check: %w", err)
	}

	if err := healthRegistry.RegisterOptional(quoteClient); err != nil {
		return fmt.Errorf("registering quote client health check: %w", err)
	}

	// 9. Application services
	quoteService := app.NewQuoteService(app.QuoteServiceConfig{
		Client:           quoteClient,
		Connectivity:     monitor,
		Seen:             app.NewSeenTracker(store, nil),
		FetchTimeout:     cfg.Quotes.FetchTimeout,
		CategoryCacheTTL: cfg.Quotes.CategoryCacheTTL,
	})
	favoritesService := app.NewFavoritesService(app.FavoritesServiceConfig{Store: store})
	newTabService := app.NewNewTabService(quoteService, favoritesService)

	// 10. HTTP server and routes
	server := http.New(&cfg.Server, logger)

	routerCfg := http.NewRouterConfig(cfg)
	routerCfg.HealthHandler = handlers.NewHealthHandler(healthRegistry, handlers.NewBuildInfo(Version, Commit, BuildTime),
		handlers.WithConnectivity(monitor))
	routerCfg.QuoteHandler = handlers.NewQuoteHandler(quoteService, favoritesService)
	routerCfg.FavoritesHandler = handlers.NewFavoritesHandler(favoritesService)
	routerCfg.NewTabHandler = handlers.NewNewTabHandler(newTabService)
	http.SetupRouter(server.Engine(), routerCfg)

	serverErr, err := server.Start()
	if err != nil {
		return err
	}

	return waitForShutdown(ctx, stop, logger, server, serverErr, cfg.Server.ShutdownTimeout)
}

// waitForShutdown blocks until a shutdown signal is received or server error occurs.
// It then stops background work and drains the HTTP server.
func waitForShutdown(
	ctx context.Context,
	stop context.CancelFunc,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	// Stops the connectivity monitor.
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	logger.Info("initiating graceful shutdown",
		slog.Duration("timeout", shutdownTimeout),
	)

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
