package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"marketsage/internal/config"
	"marketsage/internal/display"
	"marketsage/internal/orchestrator"
)

// chatSession runs the interactive market chat loop.
type chatSession struct {
	cfg     *config.Config
	manager *orchestrator.Manager
	session *orchestrator.Session
	reader  *bufio.Reader
}

// runChatCommand starts the interactive chat session.
func runChatCommand(cfg *config.Config) error {
	ctx := context.Background()

	manager, err := newManager(ctx, cfg)
	if err != nil {
		return err
	}

	s := &chatSession{
		cfg:     cfg,
		manager: manager,
		session: manager.NewSession(),
		reader:  bufio.NewReader(os.Stdin),
	}

	s.showWelcome()
	return s.runMainLoop(ctx)
}

func (s *chatSession) showWelcome() {
	display.Banner()
	fmt.Println("💡 Commands:")
	fmt.Println("   symbol <SYMBOL>  - Set the active symbol for analysis")
	fmt.Println("   analyze          - Produce a forecast for the active symbol")
	fmt.Println("   rate             - Produce a trade rating for the active symbol")
	fmt.Println("   history          - View stored results")
	fmt.Println("   help             - Show this help")
	fmt.Println("   exit             - Quit")
	fmt.Println()
	fmt.Println("Anything else is sent to the market assistant. Ask about prices,")
	fmt.Println("news, performance metrics, or trending cryptocurrencies.")
	fmt.Println()
}

func (s *chatSession) runMainLoop(ctx context.Context) error {
	for {
		fmt.Print("📊 marketsage> ")

		input, err := s.reader.ReadString('\n')
		if err != nil {
			// EOF on stdin ends the session
			fmt.Println()
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		command := strings.ToLower(parts[0])

		switch command {
		case "exit", "quit", "q":
			fmt.Println("👋 Goodbye!")
			return nil

		case "help", "h", "?":
			s.showWelcome()

		case "symbol", "sym":
			if len(parts) < 2 {
				fmt.Println("❌ Usage: symbol <SYMBOL>")
				continue
			}
			s.session.SetSymbol(parts[1])
			fmt.Printf("Active symbol set to %s (%s)\n", s.session.Symbol(), s.session.AssetClass())

		case "analyze", "a":
			s.runForecast(ctx)

		case "rate", "r":
			s.runRating(ctx)

		case "history", "hist":
			s.showHistory(ctx)

		default:
			s.chat(ctx, input)
		}

		fmt.Println()
	}
}

func (s *chatSession) requireSymbol() bool {
	if s.session.Symbol() == "" {
		fmt.Println("❌ No active symbol. Use: symbol <SYMBOL>")
		return false
	}
	return true
}

func (s *chatSession) runForecast(ctx context.Context) {
	if !s.requireSymbol() {
		return
	}
	display.Info(fmt.Sprintf("Running forecast pipeline for %s...", s.session.Symbol()))

	forecast, err := s.manager.ProduceForecast(ctx, s.session)
	if err != nil {
		display.Error(err)
		return
	}
	display.Forecast(forecast)

	if store := openStore(s.cfg); store != nil {
		defer store.Close()
		if _, err := store.SaveForecast(ctx, forecast); err != nil {
			display.Error(fmt.Errorf("failed to store forecast: %w", err))
		}
	}
}

func (s *chatSession) runRating(ctx context.Context) {
	if !s.requireSymbol() {
		return
	}
	display.Info(fmt.Sprintf("Running rating pipeline for %s...", s.session.Symbol()))

	outcome, err := s.manager.ProduceTradeRating(ctx, s.session)
	if err != nil {
		display.Error(err)
		return
	}
	display.Rating(outcome)

	if store := openStore(s.cfg); store != nil {
		defer store.Close()
		if _, err := store.SaveRating(ctx, outcome.Symbol, outcome.Rating.Normalize(), outcome.Raw, outcome.Timestamp); err != nil {
			display.Error(fmt.Errorf("failed to store rating: %w", err))
		}
	}
}

func (s *chatSession) showHistory(ctx context.Context) {
	kind, err := PromptForHistoryKind()
	if err != nil {
		display.Error(err)
		return
	}
	if err := runHistoryCommand(s.cfg, s.session.Symbol(), kind == "ratings", 10); err != nil {
		display.Error(err)
	}
}

func (s *chatSession) chat(ctx context.Context, message string) {
	reply, err := s.manager.ProcessChatMessage(ctx, s.session, message)
	if err != nil {
		display.Error(err)
		return
	}
	display.ChatReply(reply)
}
