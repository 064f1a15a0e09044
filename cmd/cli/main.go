// Package main provides the investor-scout CLI.
//
// Run with: go run ./cmd/cli search "Rossi Meccanica Srl" --deal majority
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fleveque/investor-scout/internal/config"
	"github.com/fleveque/investor-scout/internal/export"
	"github.com/fleveque/investor-scout/internal/llm"
	"github.com/fleveque/investor-scout/internal/model"
	"github.com/fleveque/investor-scout/internal/profile"
	"github.com/fleveque/investor-scout/internal/search"
	"github.com/fleveque/investor-scout/internal/storage"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "scout",
		Short: "Investor scout CLI tools",
	}

	root.AddCommand(searchCmd())
	return root
}

func searchCmd() *cobra.Command {
	var (
		dealType string
		csvPath  string
	)

	cmd := &cobra.Command{
		Use:   "search <company name or VAT number>",
		Short: "Find matching investors for a target company",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(args[0], dealType, csvPath)
		},
	}

	cmd.Flags().StringVar(&dealType, "deal", "majority", "Deal type: majority, full, minority")
	cmd.Flags().StringVar(&csvPath, "csv", "", "Write the roster to this CSV file")
	return cmd
}

func runSearch(query, dealType, csvPath string) error {
	configPath := os.Getenv("SCOUT_CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// CLI always logs in development mode.
	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	deal := model.DealType(dealType)
	if !model.ValidDealType(dealType) {
		return fmt.Errorf("unknown deal type %q (want majority, full, or minority)", dealType)
	}

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

	// Ctrl+C cancels the session; whatever categories completed still reach
	// aggregation only if the pipeline finishes, so cancellation just stops.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("cancelling search...")
		cancel()
	}()

	clients := buildClients(ctx, cfg, logger)
	if len(clients) == 0 {
		return fmt.Errorf("no LLM providers configured; set at least one API key")
	}

	gateway := llm.NewGateway(clients, cfg.Search.RatePerMinute, cfg.Search.CallTimeout, callRepo, logger)
	extractor := profile.NewExtractor(gateway, cfg.Search.ProfileProvider, cfg.Search.ProfileMaxTokens, logger)
	orchestrator := search.NewOrchestrator(gateway, extractor, searchRepo, cfg.Search.CategoryDelay, cfg.Search.MaxTokens, logger)

	sess := search.NewSession("cli", query, deal)
	sess.OnProgress(printProgress)

	if err := orchestrator.Run(ctx, sess); err != nil {
		return err
	}

	printResults(sess)

	if csvPath != "" {
		agg := sess.Aggregated()
		if err := os.WriteFile(csvPath, []byte(export.CSV(agg.Investors)), 0644); err != nil {
			return fmt.Errorf("writing CSV: %w", err)
		}
		fmt.Printf("\nCSV written to %s\n", csvPath)
	}

	return nil
}

func printProgress(ev search.ProgressEvent) {
	label := ev.Label
	if ev.Provider != "" {
		label = fmt.Sprintf("%s (%s)", ev.Label, ev.Provider)
	}

	switch ev.Status {
	case search.ProgressRunning:
		fmt.Printf("  ... %s\n", label)
	case search.ProgressDone:
		fmt.Printf("  ok  %s: %d result(s) in %s\n", label, ev.Count, ev.Elapsed.Round(time.Millisecond))
	case search.ProgressError:
		fmt.Printf("  ERR %s after %s\n", label, ev.Elapsed.Round(time.Millisecond))
	}
}

func printResults(sess *search.Session) {
	if p := sess.Profile(); p != nil {
		fmt.Printf("\nTarget: %s", p.Name)
		if p.Sector != "" {
			fmt.Printf(" — %s", p.Sector)
		}
		if p.Revenues != "" {
			fmt.Printf(" — revenues %s", p.Revenues)
		}
		fmt.Println()
	}

	agg := sess.Aggregated()
	if agg == nil {
		return
	}

	fmt.Printf("\n%d investor(s), avg score %d\n\n", agg.Summary.Total, agg.Summary.AvgScore)
	for _, inv := range agg.Investors {
		fmt.Printf("%3d. %-40s %-20s score %d  consensus %d  %s\n",
			inv.ID, inv.Name, inv.Type, inv.Score, inv.Consensus, inv.Fit)
	}
}

// buildClients registers one client per provider that has an API key.
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
