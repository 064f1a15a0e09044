// Package main is the entry point for the investor-scout HTTP server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fleveque/investor-scout/internal/config"
	"github.com/fleveque/investor-scout/internal/llm"
	"github.com/fleveque/investor-scout/internal/profile"
	"github.com/fleveque/investor-scout/internal/search"
	"github.com/fleveque/investor-scout/internal/server"
	"github.com/fleveque/investor-scout/internal/storage"
)

func main() {
	// run() is separate so deferred cleanup executes before os.Exit.
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := os.Getenv("SCOUT_CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var logger *zap.Logger
	if cfg.Log.Level == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	// Sync commonly fails on stdout/stderr; not a real problem.
	defer func() { _ = logger.Sync() }()

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.DatabasePath), 0755); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}

	db, err := storage.NewDatabase(cfg.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	callRepo := storage.NewCallRepository(db)
	searchRepo := storage.NewSearchRepository(db)

	ctx := context.Background()
	clients := buildClients(ctx, cfg, logger)
	if len(clients) == 0 {
		return fmt.Errorf("no LLM providers configured; set at least one API key")
	}

	gateway := llm.NewGateway(clients, cfg.Search.RatePerMinute, cfg.Search.CallTimeout, callRepo, logger)
	extractor := profile.NewExtractor(gateway, cfg.Search.ProfileProvider, cfg.Search.ProfileMaxTokens, logger)
	orchestrator := search.NewOrchestrator(gateway, extractor, searchRepo, cfg.Search.CategoryDelay, cfg.Search.MaxTokens, logger)

	deps := server.Deps{
		Store:        search.NewStore(),
		Orchestrator: orchestrator,
		Gateway:      gateway,
		CallRepo:     callRepo,
		SearchRepo:   searchRepo,
	}

	srv := server.New(cfg, deps, logger)

	logger.Info("providers configured", zap.Strings("providers", gateway.Providers()))

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errChan:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// buildClients registers one client per provider that has an API key.
// Missing keys are not an error: the categories routed to an absent provider
// degrade per-category instead of blocking startup.
func buildClients(ctx context.Context, cfg *config.Config, logger *zap.Logger) []llm.Client {
	var clients []llm.Client

	if key := cfg.Providers.Anthropic.APIKey; key != "" {
		clients = append(clients, llm.NewAnthropicClient(key, cfg.Providers.Anthropic.Model))
	}
	if key := cfg.Providers.OpenAI.APIKey; key != "" {
		clients = append(clients, llm.NewOpenAIClient("openai", key, "", cfg.Providers.OpenAI.Model, ""))
	}
	if key := cfg.Providers.Gemini.APIKey; key != "" {
		client, err := llm.NewGeminiClient(ctx, key, cfg.Providers.Gemini.Model)
		if err != nil {
			logger.Warn("gemini client unavailable", zap.Error(err))
		} else {
			clients = append(clients, client)
		}
	}
	if key := cfg.Providers.Perplexity.APIKey; key != "" {
		clients = append(clients, llm.NewOpenAIClient("perplexity", key,
			"https://api.perplexity.ai", cfg.Providers.Perplexity.Model,
			"You are an expert M&A advisor. Answer with precise, sourced, up-to-date data."))
	}
	if key := cfg.Providers.Mistral.APIKey; key != "" {
		clients = append(clients, llm.NewOpenAIClient("mistral", key,
			"https://api.mistral.ai/v1", cfg.Providers.Mistral.Model, ""))
	}

	return clients
}
