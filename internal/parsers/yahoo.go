package parsers

import (
	"encoding/json"
	"fmt"

	"marketsage/internal/models"
)

// yahooQuoteResponse mirrors the ticker-keyed quote feed: nested primaryData
// and keyStats blocks where most numerics arrive as decorated strings
// ("$228.02", "1,234,567"). Fields are decoded as `any` and coerced through
// the safe converters.
type yahooQuoteResponse struct {
	Body struct {
		PrimaryData struct {
			LastSalePrice      any  `json:"lastSalePrice"`
			BidPrice           any  `json:"bidPrice"`
			AskPrice           any  `json:"askPrice"`
			NetChange          any  `json:"netChange"`
			PercentageChange   any  `json:"percentageChange"`
			LastTradeTimestamp string `json:"lastTradeTimestamp"`
			Volume             any  `json:"volume"`
			BidSize            any  `json:"bidSize"`
			AskSize            any  `json:"askSize"`
			IsRealTime         bool `json:"isRealTime"`
		} `json:"primaryData"`
		KeyStats struct {
			DayRange struct {
				Value string `json:"value"`
			} `json:"dayrange"`
			FiftyTwoWeekHighLow struct {
				Value string `json:"value"`
			} `json:"fiftyTwoWeekHighLow"`
		} `json:"keyStats"`
		MarketStatus string `json:"marketStatus"`
		StockType    string `json:"stockType"`
		Exchange     string `json:"exchange"`
	} `json:"body"`
}

// ParseYahooQuote converts a raw quote payload into a TechnicalData
// snapshot. Individual fields degrade to zero values; only an undecodable
// document is an error.
func ParseYahooQuote(raw []byte) (*models.TechnicalData, error) {
	var resp yahooQuoteResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode quote payload: %w", err)
	}

	body := resp.Body
	primary := body.PrimaryData

	dailyLow, dailyHigh := ParseRange(body.KeyStats.DayRange.Value)
	yearLow, yearHigh := ParseRange(body.KeyStats.FiftyTwoWeekHighLow.Value)

	return &models.TechnicalData{
		Price: models.MarketPrice{
			LastSalePrice: SafeFloat(primary.LastSalePrice),
			BidPrice:      SafeFloat(primary.BidPrice),
			AskPrice:      SafeFloat(primary.AskPrice),
			NetChange:     SafeFloat(primary.NetChange),
			PercentChange: ParsePercentage(primary.PercentageChange),
			Timestamp:     primary.LastTradeTimestamp,
		},
		Volume: models.TradingVolume{
			CurrentVolume: SafeInt(primary.Volume),
			BidSize:       SafeFloat(primary.BidSize),
			AskSize:       SafeFloat(primary.AskSize),
		},
		Ranges: models.PriceRange{
			DailyLow:         dailyLow,
			DailyHigh:        dailyHigh,
			FiftyTwoWeekLow:  yearLow,
			FiftyTwoWeekHigh: yearHigh,
		},
		Status: models.MarketStatus{
			Status:     body.MarketStatus,
			StockType:  body.StockType,
			Exchange:   body.Exchange,
			IsRealTime: primary.IsRealTime,
		},
	}, nil
}

// FormatTechnicalAnalysis renders a TechnicalData snapshot into the market
// context block fed to research and prediction prompts.
func FormatTechnicalAnalysis(td *models.TechnicalData) string {
	if td == nil {
		return "Technical data unavailable"
	}
	return fmt.Sprintf(`REAL-TIME MARKET DATA:
Price Action:
- Current Price: $%g
- Net Change: %g (%g%%)
- Bid/Ask Spread: $%g / $%g

Volume Analysis:
- Current Volume: %d
- Bid Size: %g
- Ask Size: %g

Trading Ranges:
- Today's Range: $%g - $%g
- 52-Week Range: $%g - $%g

Market Context:
- Exchange: %s
- Market Status: %s
- Data Type: %s`,
		td.Price.LastSalePrice,
		td.Price.NetChange, td.Price.PercentChange,
		td.Price.BidPrice, td.Price.AskPrice,
		td.Volume.CurrentVolume,
		td.Volume.BidSize, td.Volume.AskSize,
		td.Ranges.DailyLow, td.Ranges.DailyHigh,
		td.Ranges.FiftyTwoWeekLow, td.Ranges.FiftyTwoWeekHigh,
		td.Status.Exchange,
		td.Status.Status,
		dataType(td.Status.IsRealTime))
}

func dataType(realTime bool) string {
	if realTime {
		return "Real-time"
	}
	return "Delayed"
}
