package parsers

import (
	"encoding/json"
	"fmt"
	"strings"

	"marketsage/internal/models"
)

// ParseCryptoPrice extracts a single coin's entry from the
// coin-id keyed simple-price feed.
func ParseCryptoPrice(raw []byte, coinID string) (*models.CryptoQuote, error) {
	var doc map[string]map[string]float64
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode price payload: %w", err)
	}
	entry, ok := doc[coinID]
	if !ok {
		return nil, fmt.Errorf("no price data for coin %q", coinID)
	}
	return &models.CryptoQuote{
		CoinID:         coinID,
		PriceUSD:       entry["usd"],
		MarketCapUSD:   entry["usd_market_cap"],
		Volume24hUSD:   entry["usd_24h_vol"],
		PriceChange24h: entry["usd_24h_change"],
	}, nil
}

// FormatCryptoQuote renders a crypto quote for prompt context.
func FormatCryptoQuote(q *models.CryptoQuote) string {
	if q == nil {
		return "Cryptocurrency price data unavailable"
	}
	return fmt.Sprintf("Price: $%.2f | Market Cap: $%.0f | 24h Volume: $%.0f | 24h Change: %.2f%%",
		q.PriceUSD, q.MarketCapUSD, q.Volume24hUSD, q.PriceChange24h)
}

// ParseMarketChart summarizes a market-chart payload (arrays of
// [timestamp, value] pairs) into period-over-period movement.
func ParseMarketChart(raw []byte, days int) string {
	var doc struct {
		Prices       [][]float64 `json:"prices"`
		MarketCaps   [][]float64 `json:"market_caps"`
		TotalVolumes [][]float64 `json:"total_volumes"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "Market chart data unavailable"
	}

	// Entries are expected as [timestamp, value] pairs; short entries are
	// skipped rather than trusted.
	var prices []float64
	for _, p := range doc.Prices {
		if len(p) >= 2 {
			prices = append(prices, p[1])
		}
	}
	if len(prices) == 0 {
		return "Market chart data unavailable"
	}

	first := prices[0]
	last := prices[len(prices)-1]
	var change float64
	if first != 0 {
		change = (last - first) / first * 100
	}

	var avgVolume float64
	var sum float64
	var count int
	for _, v := range doc.TotalVolumes {
		if len(v) >= 2 {
			sum += v[1]
			count++
		}
	}
	if count > 0 {
		avgVolume = sum / float64(count)
	}

	return fmt.Sprintf("%d-Day Trend: $%.2f -> $%.2f (%.2f%%) | Avg Daily Volume: $%.0f",
		days, first, last, change, avgVolume)
}

// ParseTrendingCoins converts the search/trending feed (coins wrapped in
// item envelopes) into the flat trending list.
func ParseTrendingCoins(raw []byte) []models.TrendingCoin {
	var doc struct {
		Coins []struct {
			Item struct {
				Symbol string `json:"symbol"`
				Name   string `json:"name"`
				Data   struct {
					PriceChange struct {
						USD float64 `json:"usd"`
					} `json:"price_change_percentage_24h"`
					TotalVolume any `json:"total_volume"`
				} `json:"data"`
			} `json:"item"`
		} `json:"coins"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil
	}

	coins := make([]models.TrendingCoin, 0, len(doc.Coins))
	for _, c := range doc.Coins {
		coins = append(coins, models.TrendingCoin{
			Symbol:         strings.ToUpper(c.Item.Symbol),
			Name:           c.Item.Name,
			PriceChange24h: c.Item.Data.PriceChange.USD,
			Volume24h:      SafeFloat(c.Item.Data.TotalVolume),
		})
	}
	return coins
}

// FormatTrendingCoins renders the trending report returned to dispatch
// queries.
func FormatTrendingCoins(coins []models.TrendingCoin) string {
	var b strings.Builder
	b.WriteString("Trending Cryptocurrencies:\n")
	if len(coins) == 0 {
		b.WriteString("Unable to fetch trending data at the moment.\n")
	}
	for _, c := range coins {
		b.WriteString(fmt.Sprintf("\n%s (%s):\n24h Price Change: %.2f%%\n24h Volume: $%.2f\n",
			c.Name, c.Symbol, c.PriceChange24h, c.Volume24h))
	}
	b.WriteString("\nNote: Cryptocurrency markets can be highly volatile. Always conduct thorough research before making investment decisions.")
	return b.String()
}
