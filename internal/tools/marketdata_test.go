package tools

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"marketsage/internal/models"
)

// fakeMarketData records which feeds were queried and returns canned text.
type fakeMarketData struct {
	calls []string
}

func (f *fakeMarketData) record(method, symbol string) string {
	f.calls = append(f.calls, method+":"+symbol)
	return fmt.Sprintf("<%s %s>", method, symbol)
}

func (f *fakeMarketData) TechnicalSnapshot(ctx context.Context, symbol string) (*models.TechnicalData, error) {
	f.record("snapshot", symbol)
	return &models.TechnicalData{}, nil
}
func (f *fakeMarketData) StockQuote(ctx context.Context, symbol string) (string, error) {
	return f.record("quote", symbol), nil
}
func (f *fakeMarketData) AnalystRecommendations(ctx context.Context, symbol string) (string, error) {
	return f.record("analyst", symbol), nil
}
func (f *fakeMarketData) InsiderTrades(ctx context.Context, symbol string) (string, error) {
	return f.record("insider", symbol), nil
}
func (f *fakeMarketData) RealTimeQuote(ctx context.Context, symbol string) (string, error) {
	return f.record("realtime", symbol), nil
}
func (f *fakeMarketData) FinancialMetrics(ctx context.Context, symbol string) (string, error) {
	return f.record("metrics", symbol), nil
}
func (f *fakeMarketData) IncomeStatement(ctx context.Context, symbol string) (string, error) {
	return f.record("income", symbol), nil
}
func (f *fakeMarketData) PriceAction(ctx context.Context, symbol string) (string, error) {
	return f.record("price", symbol), nil
}
func (f *fakeMarketData) CompanyNews(ctx context.Context, symbol string) (string, error) {
	return f.record("news", symbol), nil
}
func (f *fakeMarketData) CryptoPrice(ctx context.Context, symbol string) (string, error) {
	return f.record("cryptoprice", symbol), nil
}
func (f *fakeMarketData) CryptoMarketChart(ctx context.Context, symbol string, days int) (string, error) {
	return f.record("cryptochart", symbol), nil
}
func (f *fakeMarketData) TrendingCoins(ctx context.Context) (string, error) {
	return f.record("trending", ""), nil
}

func (f *fakeMarketData) called(method, symbol string) bool {
	for _, c := range f.calls {
		if c == method+":"+symbol {
			return true
		}
	}
	return false
}

func TestDispatchTrendingTakesPriority(t *testing.T) {
	fake := &fakeMarketData{}
	d := NewMarketDispatcher(fake)

	out := d.Dispatch(context.Background(), "show me trending crypto like bitcoin")
	if !strings.Contains(out, "<trending >") {
		t.Errorf("trending report not returned:\n%s", out)
	}
	if fake.called("cryptoprice", "BTC") {
		t.Error("crypto branch ran despite trending phrase")
	}
}

func TestDispatchCryptoBranch(t *testing.T) {
	fake := &fakeMarketData{}
	d := NewMarketDispatcher(fake)

	out := d.Dispatch(context.Background(), "how is bitcoin doing")
	if !strings.Contains(out, "Data for Bitcoin (BTC)") {
		t.Errorf("missing BTC header:\n%s", out)
	}
	if !fake.called("cryptoprice", "BTC") || !fake.called("cryptochart", "BTC") {
		t.Errorf("expected price and chart fetches, got %v", fake.calls)
	}
	// news only when news keywords present
	if fake.called("news", "BTC") {
		t.Error("news fetched without news keywords")
	}

	fake = &fakeMarketData{}
	d = NewMarketDispatcher(fake)
	d.Dispatch(context.Background(), "any recent news on ethereum crypto?")
	if !fake.called("news", "ETH") {
		t.Errorf("news not fetched for news query, got %v", fake.calls)
	}
}

func TestDispatchCryptoUnknownSymbol(t *testing.T) {
	fake := &fakeMarketData{}
	d := NewMarketDispatcher(fake)

	out := d.Dispatch(context.Background(), "what about some obscure coin")
	if !strings.Contains(out, "Available cryptocurrencies are:") {
		t.Errorf("fallback listing missing:\n%s", out)
	}
	if !strings.Contains(out, "BTC (Bitcoin)") {
		t.Errorf("fallback listing incomplete:\n%s", out)
	}
}

func TestDispatchStockDefault(t *testing.T) {
	fake := &fakeMarketData{}
	d := NewMarketDispatcher(fake)

	out := d.Dispatch(context.Background(), "tell me about AAPL")
	if !strings.Contains(out, "Data for Apple (AAPL)") {
		t.Errorf("missing AAPL header:\n%s", out)
	}
	// quote and analyst always fetched
	if !fake.called("quote", "AAPL") || !fake.called("analyst", "AAPL") {
		t.Errorf("base fetches missing, got %v", fake.calls)
	}
	// conditional feeds absent without their keywords
	for _, method := range []string{"price", "news", "metrics"} {
		if fake.called(method, "AAPL") {
			t.Errorf("%s fetched without matching keywords", method)
		}
	}
}

func TestDispatchStockConditionalFeeds(t *testing.T) {
	fake := &fakeMarketData{}
	d := NewMarketDispatcher(fake)

	d.Dispatch(context.Background(), "what is the price of TSLA and its performance stats, any recent news?")
	for _, method := range []string{"quote", "analyst", "price", "news", "metrics"} {
		if !fake.called(method, "TSLA") {
			t.Errorf("%s not fetched, got %v", method, fake.calls)
		}
	}
}

func TestDispatchStockByCompanyName(t *testing.T) {
	fake := &fakeMarketData{}
	d := NewMarketDispatcher(fake)

	out := d.Dispatch(context.Background(), "how is Nvidia doing")
	if !strings.Contains(out, "Data for NVIDIA (NVDA)") {
		t.Errorf("company-name match failed:\n%s", out)
	}
}

func TestDispatchUnknownStockFallback(t *testing.T) {
	fake := &fakeMarketData{}
	d := NewMarketDispatcher(fake)

	out := d.Dispatch(context.Background(), "tell me about ZZZZ")
	if !strings.Contains(out, "Available stocks are:") {
		t.Errorf("fallback listing missing:\n%s", out)
	}
}

func TestDispatchMultipleSymbolsDeterministicOrder(t *testing.T) {
	fake := &fakeMarketData{}
	d := NewMarketDispatcher(fake)

	out := d.Dispatch(context.Background(), "compare MSFT and AAPL")
	apple := strings.Index(out, "Data for Apple (AAPL)")
	msft := strings.Index(out, "Data for Microsoft (MSFT)")
	if apple == -1 || msft == -1 {
		t.Fatalf("missing symbol sections:\n%s", out)
	}
	if apple > msft {
		t.Error("symbol sections not in sorted order")
	}
}
