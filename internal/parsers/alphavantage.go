package parsers

import (
	"encoding/json"
	"fmt"
	"sort"

	"marketsage/internal/models"
)

// ParseAlphaVantageQuote extracts the GLOBAL_QUOTE block into a compact
// price summary string. A missing block yields an explanatory placeholder
// instead of an error so the aggregation pipeline keeps going.
func ParseAlphaVantageQuote(raw []byte) string {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "Price data unavailable"
	}
	blob, ok := doc["Global Quote"]
	if !ok {
		return "Price data unavailable"
	}
	var q map[string]any
	if err := json.Unmarshal(blob, &q); err != nil || len(q) == 0 {
		return "Price data unavailable"
	}
	return fmt.Sprintf("Price: $%g | Change: %g (%s) | Volume: %d | Prev Close: $%g",
		SafeFloat(q["05. price"]),
		SafeFloat(q["09. change"]),
		fmt.Sprint(q["10. change percent"]),
		SafeInt(q["06. volume"]),
		SafeFloat(q["08. previous close"]))
}

// ParseAlphaVantageDaily returns the most recent bar from a
// TIME_SERIES_DAILY payload. Date keys sort lexicographically in
// chronological order, so the maximum key is the latest session.
func ParseAlphaVantageDaily(raw []byte) (*models.DailyBar, error) {
	var doc struct {
		Series map[string]map[string]any `json:"Time Series (Daily)"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode daily series: %w", err)
	}
	if len(doc.Series) == 0 {
		return nil, fmt.Errorf("daily series empty")
	}

	dates := make([]string, 0, len(doc.Series))
	for d := range doc.Series {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	latest := dates[len(dates)-1]
	bar := doc.Series[latest]

	return &models.DailyBar{
		Date:   latest,
		Open:   SafeFloat(bar["1. open"]),
		High:   SafeFloat(bar["2. high"]),
		Low:    SafeFloat(bar["3. low"]),
		Close:  SafeFloat(bar["4. close"]),
		Volume: SafeInt(bar["5. volume"]),
	}, nil
}

// FormatDailyBar renders the latest session bar for prompt context.
func FormatDailyBar(bar *models.DailyBar) string {
	if bar == nil {
		return "Daily price data unavailable"
	}
	return fmt.Sprintf("Latest Session (%s): Open $%g, High $%g, Low $%g, Close $%g, Volume %d",
		bar.Date, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume)
}

// ParseAlphaVantageIncome summarizes the most recent annual income
// statement report.
func ParseAlphaVantageIncome(raw []byte) string {
	var doc struct {
		AnnualReports []map[string]any `json:"annualReports"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil || len(doc.AnnualReports) == 0 {
		return "Income statement unavailable"
	}
	r := doc.AnnualReports[0]
	return fmt.Sprintf(`Fiscal Year Ending %s:
- Total Revenue: $%.0f
- Gross Profit: $%.0f
- Operating Income: $%.0f
- Net Income: $%.0f
- EBITDA: $%.0f`,
		fmt.Sprint(r["fiscalDateEnding"]),
		SafeFloat(r["totalRevenue"]),
		SafeFloat(r["grossProfit"]),
		SafeFloat(r["operatingIncome"]),
		SafeFloat(r["netIncome"]),
		SafeFloat(r["ebitda"]))
}
