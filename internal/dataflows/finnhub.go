package dataflows

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"

	"marketsage/internal/config"
)

// FinnhubClient fetches real-time quotes, fundamentals, insider activity,
// and company news.
type FinnhubClient struct {
	client *resty.Client
	cache  *PayloadCache
	retry  *RetryConfig
	apiKey string
}

func NewFinnhubClient(cfg *config.Config) *FinnhubClient {
	client := resty.New()
	client.SetBaseURL("https://finnhub.io/api/v1")
	client.SetTimeout(cfg.RequestTimeout)

	retry := DefaultRetryConfig()
	retry.MaxRetries = cfg.MaxRetries

	return &FinnhubClient{
		client: client,
		cache:  NewPayloadCache(filepath.Join(cfg.DataCacheDir, "finnhub"), cfg.CacheTTL, cfg.CacheEnabled),
		retry:  retry,
		apiKey: cfg.FinnhubAPIKey,
	}
}

func (fc *FinnhubClient) fetch(ctx context.Context, method, path string, params map[string]string) ([]byte, error) {
	if fc.apiKey == "" {
		return nil, fmt.Errorf("finnhub API key not configured")
	}

	cacheKey := fmt.Sprintf("%v", params)
	if payload := fc.cache.Get("finnhub", method, cacheKey); payload != nil {
		return payload, nil
	}

	params["token"] = fc.apiKey
	var payload []byte
	err := WithRetry(ctx, fc.retry, func() error {
		resp, err := fc.client.R().
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

	if err := fc.cache.Set("finnhub", method, cacheKey, payload); err != nil {
		log.WithError(err).Warn("failed to cache finnhub payload")
	}
	return payload, nil
}

// Quote returns the real-time quote payload (c/d/dp/h/l/o/pc fields).
func (fc *FinnhubClient) Quote(ctx context.Context, symbol string) ([]byte, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	return fc.fetch(ctx, "quote", "/quote", map[string]string{
		"symbol": NormalizeSymbol(symbol),
	})
}

// Metrics returns the flat key-value fundamentals map.
func (fc *FinnhubClient) Metrics(ctx context.Context, symbol string) ([]byte, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	return fc.fetch(ctx, "metrics", "/stock/metric", map[string]string{
		"symbol": NormalizeSymbol(symbol),
		"metric": "all",
	})
}

// InsiderTransactions returns insider buy/sell activity.
func (fc *FinnhubClient) InsiderTransactions(ctx context.Context, symbol string) ([]byte, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	return fc.fetch(ctx, "insider", "/stock/insider-transactions", map[string]string{
		"symbol": NormalizeSymbol(symbol),
	})
}

// CompanyNews returns company articles from the trailing 30 days.
func (fc *FinnhubClient) CompanyNews(ctx context.Context, symbol string) ([]byte, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	now := time.Now()
	return fc.fetch(ctx, "company_news", "/company-news", map[string]string{
		"symbol": NormalizeSymbol(symbol),
		"from":   now.AddDate(0, 0, -30).Format("2006-01-02"),
		"to":     now.Format("2006-01-02"),
	})
}
