package dataflows

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"

	"marketsage/internal/config"
)

// AlphaVantageClient fetches global quotes, daily series, and income
// statements.
type AlphaVantageClient struct {
	client *resty.Client
	cache  *PayloadCache
	retry  *RetryConfig
	apiKey string
}

func NewAlphaVantageClient(cfg *config.Config) *AlphaVantageClient {
	client := resty.New()
	client.SetBaseURL("https://www.alphavantage.co")
	client.SetTimeout(cfg.RequestTimeout)

	retry := DefaultRetryConfig()
	retry.MaxRetries = cfg.MaxRetries

	return &AlphaVantageClient{
		client: client,
		cache:  NewPayloadCache(filepath.Join(cfg.DataCacheDir, "alphavantage"), cfg.CacheTTL, cfg.CacheEnabled),
		retry:  retry,
		apiKey: cfg.AlphaVantageAPIKey,
	}
}

func (ac *AlphaVantageClient) fetch(ctx context.Context, function, symbol string) ([]byte, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)

	if payload := ac.cache.Get("alphavantage", function, symbol); payload != nil {
		return payload, nil
	}

	var payload []byte
	err := WithRetry(ctx, ac.retry, func() error {
		resp, err := ac.client.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"function": function,
				"symbol":   symbol,
				"apikey":   ac.apiKey,
			}).
			Get("/query")
		if err != nil {
			return fmt.Errorf("fetch %s for %s: %w", function, symbol, err)
		}
		if resp.StatusCode() != 200 {
			return fmt.Errorf("API error %d: %s", resp.StatusCode(), resp.String())
		}
		payload = resp.Body()
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := ac.cache.Set("alphavantage", function, symbol, payload); err != nil {
		log.WithError(err).Warn("failed to cache alphavantage payload")
	}
	return payload, nil
}

// GlobalQuote returns the GLOBAL_QUOTE payload.
func (ac *AlphaVantageClient) GlobalQuote(ctx context.Context, symbol string) ([]byte, error) {
	return ac.fetch(ctx, "GLOBAL_QUOTE", symbol)
}

// DailySeries returns the date-keyed TIME_SERIES_DAILY payload.
func (ac *AlphaVantageClient) DailySeries(ctx context.Context, symbol string) ([]byte, error) {
	return ac.fetch(ctx, "TIME_SERIES_DAILY", symbol)
}

// IncomeStatement returns the annual income statement payload.
func (ac *AlphaVantageClient) IncomeStatement(ctx context.Context, symbol string) ([]byte, error) {
	return ac.fetch(ctx, "INCOME_STATEMENT", symbol)
}
