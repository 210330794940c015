package dataflows

import (
	"context"
	"crypto/md5"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// PayloadCache is a file-based cache for raw upstream responses. Payloads
// are stored verbatim so the parsers see exactly what the provider sent,
// cached or not.
type PayloadCache struct {
	dir     string
	ttl     time.Duration
	enabled bool
}

func NewPayloadCache(dir string, ttl time.Duration, enabled bool) *PayloadCache {
	return &PayloadCache{dir: dir, ttl: ttl, enabled: enabled}
}

func (pc *PayloadCache) path(source, method string, params string) string {
	hash := md5.Sum([]byte(params))
	return filepath.Join(pc.dir, fmt.Sprintf("%s_%s_%x.json", source, method, hash))
}

// Get returns a cached payload, or nil when missing, expired, or caching
// is off. Expired entries are removed on read.
func (pc *PayloadCache) Get(source, method, params string) []byte {
	if !pc.enabled {
		return nil
	}

	filePath := pc.path(source, method, params)
	info, err := os.Stat(filePath)
	if err != nil {
		return nil
	}
	if time.Since(info.ModTime()) > pc.ttl {
		os.Remove(filePath)
		return nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil
	}
	return data
}

func (pc *PayloadCache) Set(source, method, params string, payload []byte) error {
	if !pc.enabled {
		return nil
	}
	if err := os.MkdirAll(pc.dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(pc.path(source, method, params), payload, 0644)
}

// RetryConfig configures retry behavior for upstream fetches.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Multiplier float64
}

func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   30 * time.Second,
		Multiplier: 2.0,
	}
}

// WithRetry executes fn with exponential backoff, honoring context
// cancellation between attempts.
func WithRetry(ctx context.Context, config *RetryConfig, fn func() error) error {
	var lastErr error

	delay := config.BaseDelay
	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay = time.Duration(float64(delay) * config.Multiplier)
			if delay > config.MaxDelay {
				delay = config.MaxDelay
			}
		}

		if err := fn(); err != nil {
			lastErr = err
			continue
		}
		return nil
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// NormalizeSymbol canonicalizes a ticker for API calls and cache keys.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// ValidateSymbol rejects empty or implausibly long tickers before any
// network call is made with them.
func ValidateSymbol(symbol string) error {
	symbol = NormalizeSymbol(symbol)
	if len(symbol) == 0 {
		return fmt.Errorf("symbol cannot be empty")
	}
	if len(symbol) > 10 {
		return fmt.Errorf("symbol too long: %s", symbol)
	}
	return nil
}
