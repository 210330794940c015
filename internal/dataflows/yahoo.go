package dataflows

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"

	"marketsage/internal/config"
)

// YahooClient fetches quote, analyst, and news modules from the
// RapidAPI-hosted market feed.
type YahooClient struct {
	client *resty.Client
	cache  *PayloadCache
	retry  *RetryConfig
}

func NewYahooClient(cfg *config.Config) *YahooClient {
	client := resty.New()
	client.SetBaseURL("https://" + cfg.RapidAPIHost)
	client.SetTimeout(cfg.RequestTimeout)
	client.SetHeader("X-RapidAPI-Key", cfg.RapidAPIKey)
	client.SetHeader("X-RapidAPI-Host", cfg.RapidAPIHost)

	retry := DefaultRetryConfig()
	retry.MaxRetries = cfg.MaxRetries

	return &YahooClient{
		client: client,
		cache:  NewPayloadCache(filepath.Join(cfg.DataCacheDir, "yahoo"), cfg.CacheTTL, cfg.CacheEnabled),
		retry:  retry,
	}
}

func (yc *YahooClient) fetch(ctx context.Context, method, path string, params map[string]string) ([]byte, error) {
	cacheKey := fmt.Sprintf("%v", params)
	if payload := yc.cache.Get("yahoo", method, cacheKey); payload != nil {
		return payload, nil
	}

	var payload []byte
	err := WithRetry(ctx, yc.retry, func() error {
		resp, err := yc.client.R().
			SetContext(ctx).
			SetQueryParams(params).
			Get(path)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", method, err)
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

	if err := yc.cache.Set("yahoo", method, cacheKey, payload); err != nil {
		log.WithError(err).Warn("failed to cache yahoo payload")
	}
	return payload, nil
}

// Quote returns the raw ticker-keyed quote payload with nested
// primaryData/keyStats blocks.
func (yc *YahooClient) Quote(ctx context.Context, symbol string) ([]byte, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	return yc.fetch(ctx, "quote", "/api/v1/markets/stock/quotes", map[string]string{
		"ticker": NormalizeSymbol(symbol),
	})
}

// AnalystRecommendations returns the recommendation-trend module payload.
func (yc *YahooClient) AnalystRecommendations(ctx context.Context, symbol string) ([]byte, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	return yc.fetch(ctx, "recommendations", "/api/v1/markets/stock/modules", map[string]string{
		"symbol": NormalizeSymbol(symbol),
		"type":   "stock",
		"module": "recommendation-trend",
	})
}

// News returns the body-wrapped article list for a ticker.
func (yc *YahooClient) News(ctx context.Context, symbol string) ([]byte, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	return yc.fetch(ctx, "news", "/api/v2/markets/news", map[string]string{
		"tickers": NormalizeSymbol(symbol),
		"type":    "ALL",
	})
}
