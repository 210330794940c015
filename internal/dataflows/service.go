package dataflows

import (
	"context"
	"fmt"

	"marketsage/internal/config"
	"marketsage/internal/models"
	"marketsage/internal/parsers"
)

// MarketData is the data surface the orchestrator and dispatch tool
// consume. String-returning methods produce prompt-ready text; structured
// methods return canonical value objects.
type MarketData interface {
	TechnicalSnapshot(ctx context.Context, symbol string) (*models.TechnicalData, error)
	StockQuote(ctx context.Context, symbol string) (string, error)
	AnalystRecommendations(ctx context.Context, symbol string) (string, error)
	InsiderTrades(ctx context.Context, symbol string) (string, error)
	RealTimeQuote(ctx context.Context, symbol string) (string, error)
	FinancialMetrics(ctx context.Context, symbol string) (string, error)
	IncomeStatement(ctx context.Context, symbol string) (string, error)
	PriceAction(ctx context.Context, symbol string) (string, error)
	CompanyNews(ctx context.Context, symbol string) (string, error)
	CryptoPrice(ctx context.Context, symbol string) (string, error)
	CryptoMarketChart(ctx context.Context, symbol string, days int) (string, error)
	TrendingCoins(ctx context.Context) (string, error)
}

// Service composes the provider clients behind the MarketData interface.
type Service struct {
	yahoo        *YahooClient
	alphaVantage *AlphaVantageClient
	finnhub      *FinnhubClient
	coinGecko    *CoinGeckoClient
	newsMaxItems int
}

func NewService(cfg *config.Config) *Service {
	return &Service{
		yahoo:        NewYahooClient(cfg),
		alphaVantage: NewAlphaVantageClient(cfg),
		finnhub:      NewFinnhubClient(cfg),
		coinGecko:    NewCoinGeckoClient(cfg),
		newsMaxItems: cfg.NewsMaxItems,
	}
}

func (s *Service) TechnicalSnapshot(ctx context.Context, symbol string) (*models.TechnicalData, error) {
	payload, err := s.yahoo.Quote(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return parsers.ParseYahooQuote(payload)
}

func (s *Service) StockQuote(ctx context.Context, symbol string) (string, error) {
	td, err := s.TechnicalSnapshot(ctx, symbol)
	if err != nil {
		return "", err
	}
	return parsers.FormatTechnicalAnalysis(td), nil
}

func (s *Service) AnalystRecommendations(ctx context.Context, symbol string) (string, error) {
	payload, err := s.yahoo.AnalystRecommendations(ctx, symbol)
	if err != nil {
		return "", err
	}
	return parsers.ParseAnalystRecommendations(payload), nil
}

func (s *Service) InsiderTrades(ctx context.Context, symbol string) (string, error) {
	payload, err := s.finnhub.InsiderTransactions(ctx, symbol)
	if err != nil {
		return "", err
	}
	return parsers.ParseInsiderTransactions(payload), nil
}

func (s *Service) RealTimeQuote(ctx context.Context, symbol string) (string, error) {
	payload, err := s.finnhub.Quote(ctx, symbol)
	if err != nil {
		return "", err
	}
	return parsers.ParseFinnhubQuote(payload), nil
}

func (s *Service) FinancialMetrics(ctx context.Context, symbol string) (string, error) {
	payload, err := s.finnhub.Metrics(ctx, symbol)
	if err != nil {
		return "", err
	}
	return parsers.ParseFinnhubMetrics(payload), nil
}

func (s *Service) IncomeStatement(ctx context.Context, symbol string) (string, error) {
	payload, err := s.alphaVantage.IncomeStatement(ctx, symbol)
	if err != nil {
		return "", err
	}
	return parsers.ParseAlphaVantageIncome(payload), nil
}

// PriceAction combines the global quote with the latest daily session bar
// into one price summary.
func (s *Service) PriceAction(ctx context.Context, symbol string) (string, error) {
	quotePayload, err := s.alphaVantage.GlobalQuote(ctx, symbol)
	if err != nil {
		return "", err
	}
	summary := parsers.ParseAlphaVantageQuote(quotePayload)

	dailyPayload, err := s.alphaVantage.DailySeries(ctx, symbol)
	if err != nil {
		return summary, nil
	}
	bar, err := parsers.ParseAlphaVantageDaily(dailyPayload)
	if err != nil {
		return summary, nil
	}
	return summary + "\n" + parsers.FormatDailyBar(bar), nil
}

func (s *Service) CompanyNews(ctx context.Context, symbol string) (string, error) {
	payload, err := s.finnhub.CompanyNews(ctx, symbol)
	if err != nil {
		return "", err
	}
	return parsers.FormatNews(parsers.ParseFinnhubNews(payload, s.newsMaxItems)), nil
}

func (s *Service) CryptoPrice(ctx context.Context, symbol string) (string, error) {
	coinID, ok := models.CoinID(symbol)
	if !ok {
		return "", fmt.Errorf("unknown cryptocurrency symbol: %s", symbol)
	}
	payload, err := s.coinGecko.SimplePrice(ctx, coinID)
	if err != nil {
		return "", err
	}
	q, err := parsers.ParseCryptoPrice(payload, coinID)
	if err != nil {
		return "", err
	}
	return parsers.FormatCryptoQuote(q), nil
}

func (s *Service) CryptoMarketChart(ctx context.Context, symbol string, days int) (string, error) {
	coinID, ok := models.CoinID(symbol)
	if !ok {
		return "", fmt.Errorf("unknown cryptocurrency symbol: %s", symbol)
	}
	payload, err := s.coinGecko.MarketChart(ctx, coinID, days)
	if err != nil {
		return "", err
	}
	return parsers.ParseMarketChart(payload, days), nil
}

func (s *Service) TrendingCoins(ctx context.Context) (string, error) {
	payload, err := s.coinGecko.Trending(ctx)
	if err != nil {
		return "", err
	}
	return parsers.FormatTrendingCoins(parsers.ParseTrendingCoins(payload)), nil
}
