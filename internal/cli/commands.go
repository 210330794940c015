// Package cli wires the command surface around the advisory pipelines.
package cli

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"marketsage/internal/agents"
	"marketsage/internal/config"
	"marketsage/internal/dataflows"
	"marketsage/internal/display"
	"marketsage/internal/orchestrator"
	"marketsage/internal/storage"
)

const version = "1.0.0"

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cfg := config.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "marketsage",
		Short: "MarketSage - AI-Powered Investment Advisor",
		Long: `MarketSage is a multi-agent investment advisory system powered by Large Language Models.
It produces stock and crypto forecasts, binary trade ratings, and an interactive
market chat backed by live market data feeds.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				cfg.Debug = true
				log.SetLevel(log.DebugLevel)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("failed to create directories: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default behavior: start the interactive chat session
			return runChatCommand(cfg)
		},
	}

	rootCmd.AddCommand(newAnalyzeCmd(cfg))
	rootCmd.AddCommand(newRateCmd(cfg))
	rootCmd.AddCommand(newChatCmd(cfg))
	rootCmd.AddCommand(newQuoteCmd())
	rootCmd.AddCommand(newHistoryCmd(cfg))
	rootCmd.AddCommand(newConfigCmd(cfg))
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	return rootCmd
}

// newAnalyzeCmd creates the analyze command, which runs the full forecast
// pipeline for a symbol.
func newAnalyzeCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [SYMBOL]",
		Short: "Produce an AI forecast for a stock or crypto symbol",
		Long: `Run the research and prediction pipeline for a ticker symbol and print the
resulting forecast. Example: marketsage analyze AAPL`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol, err := symbolFromArgs(args)
			if err != nil {
				return err
			}
			noSave, _ := cmd.Flags().GetBool("no-save")
			return runAnalyzeCommand(cfg, symbol, !noSave)
		},
	}

	cmd.Flags().Bool("no-save", false, "Do not store the forecast in history")

	return cmd
}

// newRateCmd creates the rate command, which produces the binary trade
// rating for a symbol.
func newRateCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rate [SYMBOL]",
		Short: "Produce a POSITIVE/NEGATIVE trade rating for a symbol",
		Long: `Run the research, calculation, and risk assessment stages and print the
resulting trade rating. Example: marketsage rate TSLA`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol, err := symbolFromArgs(args)
			if err != nil {
				return err
			}
			noSave, _ := cmd.Flags().GetBool("no-save")
			return runRateCommand(cfg, symbol, !noSave)
		},
	}

	cmd.Flags().Bool("no-save", false, "Do not store the rating in history")

	return cmd
}

// newChatCmd creates the chat command.
func newChatCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive market chat session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChatCommand(cfg)
		},
	}
}

// newQuoteCmd creates the quote command. Quotes need no API keys.
func newQuoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quote SYMBOL",
		Short: "Show a delayed market quote for a symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			q, err := dataflows.GetQuickQuote(ctx, args[0])
			if err != nil {
				return fmt.Errorf("quote lookup failed: %w", err)
			}
			display.Quote(q)
			return nil
		},
	}
}

// newHistoryCmd creates the history command.
func newHistoryCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [SYMBOL]",
		Short: "List stored forecasts and trade ratings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := ""
			if len(args) == 1 {
				symbol = dataflows.NormalizeSymbol(args[0])
			}
			ratings, _ := cmd.Flags().GetBool("ratings")
			limit, _ := cmd.Flags().GetInt("limit")
			return runHistoryCommand(cfg, symbol, ratings, limit)
		},
	}

	cmd.Flags().Bool("ratings", false, "List trade ratings instead of forecasts")
	cmd.Flags().Int("limit", 10, "Maximum number of records to list")

	return cmd
}

// newConfigCmd creates the config command.
func newConfigCmd(cfg *config.Config) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Run: func(cmd *cobra.Command, args []string) {
			showConfig(cfg)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and API credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateConfig(cfg)
		},
	})

	return configCmd
}

// newVersionCmd creates the version command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("MarketSage v%s\n", version)
			fmt.Println("AI-Powered Investment Advisor")
		},
	}
}

func symbolFromArgs(args []string) (string, error) {
	if len(args) == 1 {
		symbol := dataflows.NormalizeSymbol(args[0])
		if err := dataflows.ValidateSymbol(symbol); err != nil {
			return "", err
		}
		return symbol, nil
	}
	return PromptForSymbol()
}

// newManager builds the advisory pipeline from configuration.
func newManager(ctx context.Context, cfg *config.Config) (*orchestrator.Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	data := dataflows.NewService(cfg)
	registry, err := agents.NewRegistry(ctx, cfg, data)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize agents: %w", err)
	}
	executor := agents.NewExecutor(registry, cfg.ModelTimeout)

	return orchestrator.NewManager(executor, data, cfg), nil
}

func openStore(cfg *config.Config) *storage.Store {
	store, err := storage.NewStore(cfg.HistoryDBPath)
	if err != nil {
		log.WithError(err).Warn("history database unavailable, results will not be stored")
		return nil
	}
	return store
}

// runAnalyzeCommand executes the forecast pipeline for one symbol.
func runAnalyzeCommand(cfg *config.Config, symbol string, save bool) error {
	ctx := context.Background()

	manager, err := newManager(ctx, cfg)
	if err != nil {
		return err
	}

	display.Info(fmt.Sprintf("Running forecast pipeline for %s...", symbol))

	session := manager.NewSession()
	session.SetSymbol(symbol)

	forecast, err := manager.ProduceForecast(ctx, session)
	if err != nil {
		return fmt.Errorf("forecast failed: %w", err)
	}

	display.Forecast(forecast)

	if save {
		if store := openStore(cfg); store != nil {
			defer store.Close()
			if _, err := store.SaveForecast(ctx, forecast); err != nil {
				log.WithError(err).Warn("failed to store forecast")
			}
		}
	}

	return nil
}

// runRateCommand executes the trade-rating pipeline for one symbol.
func runRateCommand(cfg *config.Config, symbol string, save bool) error {
	ctx := context.Background()

	manager, err := newManager(ctx, cfg)
	if err != nil {
		return err
	}

	display.Info(fmt.Sprintf("Running rating pipeline for %s...", symbol))

	session := manager.NewSession()
	session.SetSymbol(symbol)

	outcome, err := manager.ProduceTradeRating(ctx, session)
	if err != nil {
		return fmt.Errorf("rating failed: %w", err)
	}

	display.Rating(outcome)

	if save {
		if store := openStore(cfg); store != nil {
			defer store.Close()
			if _, err := store.SaveRating(ctx, outcome.Symbol, outcome.Rating.Normalize(), outcome.Raw, outcome.Timestamp); err != nil {
				log.WithError(err).Warn("failed to store rating")
			}
		}
	}

	return nil
}

// runHistoryCommand lists stored results.
func runHistoryCommand(cfg *config.Config, symbol string, ratings bool, limit int) error {
	ctx := context.Background()

	store, err := storage.NewStore(cfg.HistoryDBPath)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer store.Close()

	if ratings {
		records, err := store.RecentRatings(ctx, symbol, limit)
		if err != nil {
			return err
		}
		display.RatingHistory(records)
		return nil
	}

	records, err := store.RecentForecasts(ctx, symbol, limit)
	if err != nil {
		return err
	}
	display.ForecastHistory(records)
	return nil
}

// showConfig displays the current configuration.
func showConfig(cfg *config.Config) {
	fmt.Println("📋 Current MarketSage Configuration:")
	fmt.Println("═══════════════════════════════════════")
	fmt.Printf("Project Directory:    %s\n", cfg.ProjectDir)
	fmt.Printf("Data Directory:       %s\n", cfg.DataDir)
	fmt.Printf("Cache Directory:      %s\n", cfg.DataCacheDir)
	fmt.Printf("History Database:     %s\n", cfg.HistoryDBPath)
	fmt.Println()
	fmt.Printf("LLM Provider:         %s\n", cfg.LLMProvider)
	fmt.Printf("Backend URL:          %s\n", cfg.BackendURL)
	fmt.Printf("Research Model:       %s\n", cfg.ResearchModel)
	fmt.Printf("Analysis Model:       %s\n", cfg.AnalysisModel)
	fmt.Printf("Chat Model:           %s\n", cfg.ChatModel)
	fmt.Printf("Max Tokens:           %d\n", cfg.MaxTokens)
	fmt.Printf("Max Agent Steps:      %d\n", cfg.MaxAgentSteps)
	fmt.Println()
	fmt.Printf("News Max Items:       %d\n", cfg.NewsMaxItems)
	fmt.Printf("Chat Window Turns:    %d\n", cfg.ChatWindowTurns)
	fmt.Printf("Request Timeout:      %s\n", cfg.RequestTimeout)
	fmt.Printf("Model Timeout:        %s\n", cfg.ModelTimeout)
	fmt.Printf("Max Retries:          %d\n", cfg.MaxRetries)
	fmt.Printf("Cache Enabled:        %t\n", cfg.CacheEnabled)
	fmt.Printf("Cache TTL:            %s\n", cfg.CacheTTL)
	fmt.Printf("Debug Mode:           %t\n", cfg.Debug)
	fmt.Println()

	fmt.Println("🔌 API Configuration:")
	fmt.Println("─────────────────────")
	printKeyStatus("OpenAI API", cfg.OpenAIAPIKey)
	printKeyStatus("RapidAPI (Yahoo)", cfg.RapidAPIKey)
	printKeyStatus("Alpha Vantage API", cfg.AlphaVantageAPIKey)
	printKeyStatus("Finnhub API", cfg.FinnhubAPIKey)
}

func printKeyStatus(name, key string) {
	if key != "" {
		fmt.Printf("%-21s ✅ Configured\n", name+":")
	} else {
		fmt.Printf("%-21s ❌ Not configured\n", name+":")
	}
}

// validateConfig validates the configuration and dependencies.
func validateConfig(cfg *config.Config) error {
	fmt.Println("🔍 Validating MarketSage Configuration...")
	fmt.Println("═══════════════════════════════════════")

	fmt.Print("📁 Checking directories... ")
	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Println("❌")
		return fmt.Errorf("directory validation failed: %w", err)
	}
	fmt.Println("✅")

	fmt.Print("🔑 Checking API keys... ")
	var warnings []string
	if cfg.OpenAIAPIKey == "" {
		warnings = append(warnings, "OpenAI API key not configured (forecast, rate, and chat will fail)")
	}
	if cfg.RapidAPIKey == "" {
		warnings = append(warnings, "RapidAPI key not configured (quote snapshots and analyst data unavailable)")
	}
	if cfg.AlphaVantageAPIKey == "" {
		warnings = append(warnings, "Alpha Vantage API key not configured (price action and income statements unavailable)")
	}
	if cfg.FinnhubAPIKey == "" {
		warnings = append(warnings, "Finnhub API key not configured (metrics, insider trades, and news unavailable)")
	}

	if len(warnings) > 0 {
		fmt.Println("⚠️")
		for _, warning := range warnings {
			fmt.Printf("  ⚠️  %s\n", warning)
		}
	} else {
		fmt.Println("✅")
	}

	fmt.Print("📜 Checking history database... ")
	store, err := storage.NewStore(cfg.HistoryDBPath)
	if err != nil {
		fmt.Println("❌")
		return fmt.Errorf("history database validation failed: %w", err)
	}
	store.Close()
	fmt.Println("✅")

	fmt.Println()
	if len(warnings) == 0 {
		fmt.Println("✅ Configuration validation completed successfully!")
	} else {
		fmt.Printf("⚠️  Configuration validation completed with %d warnings.\n", len(warnings))
		fmt.Println("Some features may be limited without proper API configuration.")
	}

	return nil
}
