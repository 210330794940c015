package dataflows

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"

	"marketsage/internal/config"
)

// CoinGeckoClient fetches cryptocurrency price, market-chart, and trending
// data. The public endpoints need no credential.
type CoinGeckoClient struct {
	client *resty.Client
	cache  *PayloadCache
	retry  *RetryConfig
}

func NewCoinGeckoClient(cfg *config.Config) *CoinGeckoClient {
	client := resty.New()
	client.SetBaseURL("https://api.coingecko.com/api/v3")
	client.SetTimeout(cfg.RequestTimeout)

	retry := DefaultRetryConfig()
	retry.MaxRetries = cfg.MaxRetries

	return &CoinGeckoClient{
		client: client,
		cache:  NewPayloadCache(filepath.Join(cfg.DataCacheDir, "coingecko"), cfg.CacheTTL, cfg.CacheEnabled),
		retry:  retry,
	}
}

func (cc *CoinGeckoClient) fetch(ctx context.Context, method, path string, params map[string]string) ([]byte, error) {
	cacheKey := fmt.Sprintf("%v", params)
	if payload := cc.cache.Get("coingecko", method, cacheKey); payload != nil {
		return payload, nil
	}

	var payload []byte
	err := WithRetry(ctx, cc.retry, func() error {
		req := cc.client.R().SetContext(ctx)
		if len(params) > 0 {
			req.SetQueryParams(params)
		}
		resp, err := req.Get(path)
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

	if err := cc.cache.Set("coingecko", method, cacheKey, payload); err != nil {
		log.WithError(err).Warn("failed to cache coingecko payload")
	}
	return payload, nil
}

// SimplePrice returns the coin-id keyed price payload with market cap,
// 24h volume, and 24h change included.
func (cc *CoinGeckoClient) SimplePrice(ctx context.Context, coinID string) ([]byte, error) {
	return cc.fetch(ctx, "simple_price", "/simple/price", map[string]string{
		"ids":                 coinID,
		"vs_currencies":       "usd",
		"include_market_cap":  "true",
		"include_24hr_vol":    "true",
		"include_24hr_change": "true",
	})
}

// MarketChart returns daily price/cap/volume arrays over the given window.
func (cc *CoinGeckoClient) MarketChart(ctx context.Context, coinID string, days int) ([]byte, error) {
	return cc.fetch(ctx, "market_chart", "/coins/"+coinID+"/market_chart", map[string]string{
		"vs_currency": "usd",
		"days":        strconv.Itoa(days),
		"interval":    "daily",
	})
}

// Trending returns the search/trending payload.
func (cc *CoinGeckoClient) Trending(ctx context.Context) ([]byte, error) {
	return cc.fetch(ctx, "trending", "/search/trending", map[string]string{})
}
