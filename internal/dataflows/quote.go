package dataflows

import (
	"context"
	"fmt"

	"github.com/piquette/finance-go/quote"
	"github.com/shopspring/decimal"
)

// QuickQuote is a credential-free snapshot for the quote command; the full
// analysis pipelines use the keyed provider clients instead.
type QuickQuote struct {
	Symbol        string
	Name          string
	Price         decimal.Decimal
	Change        decimal.Decimal
	ChangePercent decimal.Decimal
	Open          decimal.Decimal
	DayHigh       decimal.Decimal
	DayLow        decimal.Decimal
	Volume        int64
	MarketState   string
}

// GetQuickQuote fetches a delayed quote without any API key.
func GetQuickQuote(ctx context.Context, symbol string) (*QuickQuote, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)

	var result *QuickQuote
	err := WithRetry(ctx, DefaultRetryConfig(), func() error {
		q, err := quote.Get(symbol)
		if err != nil {
			return fmt.Errorf("failed to get quote for %s: %w", symbol, err)
		}
		if q == nil {
			return fmt.Errorf("no quote data for %s", symbol)
		}

		result = &QuickQuote{
			Symbol:        symbol,
			Name:          q.ShortName,
			Price:         decimal.NewFromFloat(q.RegularMarketPrice),
			Change:        decimal.NewFromFloat(q.RegularMarketChange),
			ChangePercent: decimal.NewFromFloat(q.RegularMarketChangePercent),
			Open:          decimal.NewFromFloat(q.RegularMarketOpen),
			DayHigh:       decimal.NewFromFloat(q.RegularMarketDayHigh),
			DayLow:        decimal.NewFromFloat(q.RegularMarketDayLow),
			Volume:        int64(q.RegularMarketVolume),
			MarketState:   string(q.MarketState),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
