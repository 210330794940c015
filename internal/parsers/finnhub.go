package parsers

import (
	"encoding/json"
	"fmt"
	"strings"
)

// metricRows drives ParseFinnhubMetrics. The feed is a flat key-value map
// queried by fixed key names; unknown or missing keys read as zero.
var metricRows = []struct {
	label string
	key   string
}{
	{"P/E Ratio (TTM)", "peBasicExclExtraTTM"},
	{"P/B Ratio", "pbAnnual"},
	{"P/S Ratio (TTM)", "psTTM"},
	{"ROE (TTM)", "roeTTM"},
	{"ROA (TTM)", "roaTTM"},
	{"Debt/Equity", "totalDebt/totalEquityAnnual"},
	{"Current Ratio", "currentRatioAnnual"},
	{"Gross Margin (TTM)", "grossMarginTTM"},
	{"Net Margin (TTM)", "netProfitMarginTTM"},
	{"52-Week High", "52WeekHigh"},
	{"52-Week Low", "52WeekLow"},
	{"Beta", "beta"},
}

// ParseFinnhubMetrics formats the ratio feed's metric map into a labeled
// list for prompt context.
func ParseFinnhubMetrics(raw []byte) string {
	var doc struct {
		Metric map[string]any `json:"metric"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil || len(doc.Metric) == 0 {
		return "Unable to retrieve financial metrics"
	}

	var b strings.Builder
	b.WriteString("Key Financial Metrics:")
	for _, row := range metricRows {
		b.WriteString(fmt.Sprintf("\n- %s: %.2f", row.label, SafeFloat(doc.Metric[row.key])))
	}
	return b.String()
}

// ParseFinnhubQuote formats the real-time quote feed (c current, d change,
// dp percent change, h high, l low, o open, pc previous close).
func ParseFinnhubQuote(raw []byte) string {
	var q struct {
		Current   float64 `json:"c"`
		Change    float64 `json:"d"`
		ChangePct float64 `json:"dp"`
		High      float64 `json:"h"`
		Low       float64 `json:"l"`
		Open      float64 `json:"o"`
		PrevClose float64 `json:"pc"`
	}
	if err := json.Unmarshal(raw, &q); err != nil || q.Current == 0 {
		return "Real-time quote unavailable"
	}
	return fmt.Sprintf("Current: $%g | Change: %g (%g%%) | Open: $%g | High: $%g | Low: $%g | Prev Close: $%g",
		q.Current, q.Change, q.ChangePct, q.Open, q.High, q.Low, q.PrevClose)
}

// ParseInsiderTransactions summarizes the insider activity feed into net
// share flow over the reported window.
func ParseInsiderTransactions(raw []byte) string {
	var doc struct {
		Data []struct {
			Name   string  `json:"name"`
			Share  float64 `json:"share"`
			Change float64 `json:"change"`
			Date   string  `json:"transactionDate"`
			Code   string  `json:"transactionCode"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil || len(doc.Data) == 0 {
		return "No insider transaction data available"
	}

	var bought, sold float64
	for _, tx := range doc.Data {
		if tx.Change > 0 {
			bought += tx.Change
		} else {
			sold += -tx.Change
		}
	}
	return fmt.Sprintf("Insider Activity (%d transactions): %.0f shares acquired, %.0f shares disposed, net %.0f",
		len(doc.Data), bought, sold, bought-sold)
}

// ParseAnalystRecommendations summarizes the recommendation-trend module
// (latest period's strongBuy/buy/hold/sell/strongSell counts).
func ParseAnalystRecommendations(raw []byte) string {
	var doc struct {
		Body []struct {
			Trend []struct {
				Period     string `json:"period"`
				StrongBuy  any    `json:"strongBuy"`
				Buy        any    `json:"buy"`
				Hold       any    `json:"hold"`
				Sell       any    `json:"sell"`
				StrongSell any    `json:"strongSell"`
			} `json:"trend"`
		} `json:"body"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil || len(doc.Body) == 0 || len(doc.Body[0].Trend) == 0 {
		return "Analyst recommendation data unavailable"
	}
	t := doc.Body[0].Trend[0]
	return fmt.Sprintf("Analyst Consensus (%s): Strong Buy %d, Buy %d, Hold %d, Sell %d, Strong Sell %d",
		t.Period, SafeInt(t.StrongBuy), SafeInt(t.Buy), SafeInt(t.Hold), SafeInt(t.Sell), SafeInt(t.StrongSell))
}
