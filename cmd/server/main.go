// CarMatch - Vehicle Catalog and Preference-Driven Recommendations
// Copyright 2026 CarMatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carmatch/carmatch

// Command server runs the CarMatch HTTP API: vehicle catalog ingestion
// and queries, preference-driven recommendations, questionnaire answer
// persistence, and the optional chat relay.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/carmatch/carmatch/internal/api"
	"github.com/carmatch/carmatch/internal/catalog"
	"github.com/carmatch/carmatch/internal/chat"
	"github.com/carmatch/carmatch/internal/coeffs"
	"github.com/carmatch/carmatch/internal/config"
	"github.com/carmatch/carmatch/internal/logging"
	"github.com/carmatch/carmatch/internal/recommend"
	"github.com/carmatch/carmatch/internal/seed"
	"github.com/carmatch/carmatch/internal/supervisor"
	"github.com/carmatch/carmatch/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Msg("Starting CarMatch")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := catalog.Open(catalog.Options{
		Dir:       cfg.Catalog.DataDir,
		InMemory:  cfg.Catalog.InMemory,
		ChunkSize: cfg.Catalog.ChunkSize,
		YearMin:   cfg.Catalog.YearMin,
		YearMax:   cfg.Catalog.YearMax,
		Logger:    logging.Logger(),
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open catalog store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Closing catalog store failed")
		}
	}()

	fileLoader := coeffs.NewFileLoader(cfg.Coefficients.Path, logging.Logger())
	loader := coeffs.NewCachedLoader(fileLoader, cfg.Coefficients.CacheTTL)
	defer loader.Close()

	// Fail fast when the coefficient resource is unusable; every
	// recommendation request depends on it.
	if _, err := loader.Load(ctx); err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Coefficients.Path).Msg("Failed to load scoring coefficients")
	}

	var seeder recommend.Seeder
	if cfg.Catalog.SeedOnEmpty {
		seeder = seed.NewSeeder(store)
	}

	engine, err := recommend.NewEngine(recommend.Config{
		DefaultTopN: cfg.Recommend.DefaultTopN,
		MaxTopN:     cfg.Recommend.MaxTopN,
		YearMin:     cfg.Catalog.YearMin,
		YearMax:     cfg.Catalog.YearMax,
		SeedOnEmpty: cfg.Catalog.SeedOnEmpty,
	}, store, loader, seeder)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}

	var chatClient *chat.Client
	if cfg.Chat.Enabled {
		chatClient = chat.NewClient(chat.Config{
			Enabled:     cfg.Chat.Enabled,
			UpstreamURL: cfg.Chat.UpstreamURL,
			APIKey:      cfg.Chat.APIKey,
			Model:       cfg.Chat.Model,
			Timeout:     cfg.Chat.Timeout,
		})
		logging.Info().Str("model", cfg.Chat.Model).Msg("Chat relay enabled")
	}

	handler := api.NewHandler(store, engine, catalog.NewAnswersLog(store.DB()), chatClient, loader)
	router := api.NewRouter(handler, api.NewMiddleware(&api.MiddlewareConfig{
		CORSAllowedOrigins: cfg.Server.CORSOrigins,
		RateLimitRequests:  cfg.Server.RateLimitReqs,
		RateLimitWindow:    cfg.Server.RateLimitWindow,
	}))

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// The supervisor logs through slog; bridge it to zerolog.
	tree, err := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if !cfg.Catalog.InMemory {
		tree.AddStorageService(services.NewBadgerGCService(store.DB(), cfg.Catalog.GCInterval))
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Drain until the supervisor closes the channel.
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
