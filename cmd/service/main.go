// cmd/service/main.go
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

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"repo-storyteller/internal/analyzer"
	"repo-storyteller/internal/api"
	"repo-storyteller/internal/assets"
	"repo-storyteller/internal/config"
	"repo-storyteller/internal/database"
	"repo-storyteller/internal/github"
	"repo-storyteller/internal/llm"
	"repo-storyteller/internal/mcpserver"
	"repo-storyteller/internal/metrics"
	"repo-storyteller/internal/personality"
	"repo-storyteller/internal/story"
	"repo-storyteller/internal/suggest"
	"repo-storyteller/internal/syncer"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Application startup error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Initialize structured logger
	logLevel := new(slog.LevelVar)
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	// 2. Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	setLogLevel(cfg.LogLevel, logLevel)
	logger.Info("Configuration loaded successfully", "llm_provider", cfg.LLMProvider, "assets", cfg.AssetsEnabled())

	// 3. Setup context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// 4. Initialize database connection and run migrations
	dbpool, err := pgxpool.New(ctx, cfg.DBURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer dbpool.Close()
	logger.Info("Database connection established")

	if err := runMigrations(cfg.DBURL); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	logger.Info("Database migrations applied successfully")

	store := database.NewStore(dbpool)
	catalog := personality.DefaultCatalog()
	added, err := catalog.Seed(ctx, store)
	if err != nil {
		return fmt.Errorf("failed to seed personalities: %w", err)
	}
	logger.Info("Personalities seeded", "added", added)

	// 5. Initialize application components
	m := metrics.New()
	ghClient := github.NewClient(cfg.GithubToken, cfg.GithubCacheSize, logger)

	provider, err := llm.New(ctx, llm.Config{
		Provider:    cfg.LLMProvider,
		APIKey:      cfg.LLMAPIKey,
		BaseURL:     cfg.LLMBaseURL,
		Model:       cfg.LLMModel,
		Timeout:     cfg.LLMTimeout,
		RatePerSec:  cfg.LLMRatePerSec,
		Burst:       cfg.LLMBurst,
		MaxTokens:   cfg.LLMMaxTokens,
		Temperature: cfg.LLMTemperature,
	})
	if err != nil {
		return fmt.Errorf("failed to create LLM provider: %w", err)
	}
	provider = llm.Observed(provider, m)

	appSyncer, err := syncer.NewSyncer(store, ghClient, logger, cfg.UsersToSync, cfg.SyncInterval, cfg.SyncMaxRepos)
	if err != nil {
		return fmt.Errorf("failed to create syncer: %w", err)
	}
	appSyncer.WithRecorder(m)

	appAnalyzer := analyzer.New(store, ghClient, provider, logger, cfg.AnalysisConcurrency).WithRecorder(m)
	suggestions := suggest.New(store, provider, logger).WithRecorder(m)

	seed := cfg.StorySeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	stories := story.New(store, provider, catalog, story.NewRand(seed), logger)

	svc := api.Services{
		Syncer:      appSyncer,
		Analyzer:    appAnalyzer,
		Suggestions: suggestions,
		Stories:     stories,
		Recorder:    m,
	}
	if cfg.AssetsEnabled() {
		blobs, err := assets.NewMinioStore(assets.MinioConfig{
			Endpoint:  cfg.AssetsEndpoint,
			Region:    cfg.AssetsRegion,
			AccessKey: cfg.AssetsAccessKey,
			SecretKey: cfg.AssetsSecretKey,
			Bucket:    cfg.AssetsBucket,
			UseSSL:    cfg.AssetsUseSSL,
		})
		if err != nil {
			return fmt.Errorf("failed to create asset store: %w", err)
		}
		svc.Assets = assets.NewService(store, blobs)
	}

	router := api.NewRouter(svc, logger)
	router.Handle("/metrics", m.Handler())
	router.Handle("/mcp", mcpserver.Handler(mcpserver.New(mcpserver.Deps{
		Lookup:      store,
		Analyzer:    appAnalyzer,
		Suggestions: suggestions,
		Stories:     stories,
		Catalog:     catalog,
	}, logger)))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 6. Run the HTTP server and the background syncer until shutdown
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		appSyncer.Start(gctx)
		return nil
	})
	g.Go(func() error {
		logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received. Draining connections.")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func runMigrations(dbURL string) error {
	m, err := migrate.New("file://migrations", dbURL)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func setLogLevel(level string, v *slog.LevelVar) {
	switch level {
	case "debug":
		v.Set(slog.LevelDebug)
	case "warn":
		v.Set(slog.LevelWarn)
	case "error":
		v.Set(slog.LevelError)
	default:
		v.Set(slog.LevelInfo)
	}
}
