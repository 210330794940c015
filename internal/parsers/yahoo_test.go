package parsers

import (
	"strings"
	"testing"
)

const yahooQuotePayload = `{
	"body": {
		"primaryData": {
			"lastSalePrice": "$228.02",
			"bidPrice": "$227.98",
			"askPrice": "$228.05",
			"netChange": "1.34",
			"percentageChange": "0.59%",
			"lastTradeTimestamp": "Nov 22, 2024 4:00 PM ET",
			"volume": "38,168,252",
			"bidSize": "2",
			"askSize": "1",
			"isRealTime": true
		},
		"keyStats": {
			"dayrange": {"value": "226.17 - 228.87"},
			"fiftyTwoWeekHighLow": {"value": "164.08 - 237.49"}
		},
		"marketStatus": "Closed",
		"stockType": "Common Stock",
		"exchange": "NASDAQ-GS"
	}
}`

func TestParseYahooQuote(t *testing.T) {
	td, err := ParseYahooQuote([]byte(yahooQuotePayload))
	if err != nil {
		t.Fatalf("ParseYahooQuote failed: %v", err)
	}

	if td.Price.LastSalePrice != 228.02 {
		t.Errorf("LastSalePrice = %v, want 228.02", td.Price.LastSalePrice)
	}
	if td.Price.PercentChange != 0.59 {
		t.Errorf("PercentChange = %v, want 0.59", td.Price.PercentChange)
	}
	if td.Volume.CurrentVolume != 38168252 {
		t.Errorf("CurrentVolume = %v, want 38168252", td.Volume.CurrentVolume)
	}
	if td.Ranges.DailyLow != 226.17 || td.Ranges.DailyHigh != 228.87 {
		t.Errorf("daily range = (%v, %v), want (226.17, 228.87)", td.Ranges.DailyLow, td.Ranges.DailyHigh)
	}
	if td.Ranges.FiftyTwoWeekLow != 164.08 || td.Ranges.FiftyTwoWeekHigh != 237.49 {
		t.Errorf("52-week range = (%v, %v), want (164.08, 237.49)", td.Ranges.FiftyTwoWeekLow, td.Ranges.FiftyTwoWeekHigh)
	}
	if !td.Status.IsRealTime {
		t.Error("IsRealTime = false, want true")
	}
	if td.Status.Exchange != "NASDAQ-GS" {
		t.Errorf("Exchange = %q, want NASDAQ-GS", td.Status.Exchange)
	}
}

func TestParseYahooQuoteMalformedFieldsDefaultToZero(t *testing.T) {
	payload := `{"body": {"primaryData": {"lastSalePrice": "not a number", "volume": "??"}, "keyStats": {"dayrange": {"value": "broken"}}}}`
	td, err := ParseYahooQuote([]byte(payload))
	if err != nil {
		t.Fatalf("ParseYahooQuote failed: %v", err)
	}
	if td.Price.LastSalePrice != 0 {
		t.Errorf("LastSalePrice = %v, want 0", td.Price.LastSalePrice)
	}
	if td.Volume.CurrentVolume != 0 {
		t.Errorf("CurrentVolume = %v, want 0", td.Volume.CurrentVolume)
	}
	if td.Ranges.DailyLow != 0 || td.Ranges.DailyHigh != 0 {
		t.Errorf("daily range = (%v, %v), want (0, 0)", td.Ranges.DailyLow, td.Ranges.DailyHigh)
	}
}

func TestParseYahooQuoteBadDocument(t *testing.T) {
	if _, err := ParseYahooQuote([]byte("not json")); err == nil {
		t.Fatal("expected error for undecodable payload")
	}
}

func TestFormatTechnicalAnalysis(t *testing.T) {
	td, err := ParseYahooQuote([]byte(yahooQuotePayload))
	if err != nil {
		t.Fatalf("ParseYahooQuote failed: %v", err)
	}

	out := FormatTechnicalAnalysis(td)
	for _, want := range []string{
		"REAL-TIME MARKET DATA:",
		"Current Price: $228.02",
		"Current Volume: 38168252",
		"52-Week Range: $164.08 - $237.49",
		"Data Type: Real-time",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("formatted analysis missing %q:\n%s", want, out)
		}
	}

	if got := FormatTechnicalAnalysis(nil); got != "Technical data unavailable" {
		t.Errorf("nil snapshot = %q", got)
	}
}
