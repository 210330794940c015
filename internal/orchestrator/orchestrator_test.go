package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"marketsage/internal/agents"
	"marketsage/internal/config"
	"marketsage/internal/models"
)

// stubRunner scripts the execution backend. Safe for the parallel
// aggregation fan-out.
type stubRunner struct {
	mu    sync.Mutex
	fn    func(tasks []agents.Task) (string, error)
	calls [][]agents.Task
}

func (r *stubRunner) Execute(ctx context.Context, tasks []agents.Task) (string, error) {
	r.mu.Lock()
	r.calls = append(r.calls, tasks)
	fn := r.fn
	r.mu.Unlock()

	if fn != nil {
		return fn(tasks)
	}
	return "stub output", nil
}

func (r *stubRunner) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// taskFor finds the first recorded task for a role.
func (r *stubRunner) taskFor(role agents.Role) (agents.Task, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tasks := range r.calls {
		for _, task := range tasks {
			if task.Role == role {
				return task, true
			}
		}
	}
	return agents.Task{}, false
}

// fakeData serves canned feed text and records which feeds were hit.
type fakeData struct {
	mu    sync.Mutex
	fail  map[string]bool
	calls []string
}

func (f *fakeData) serve(method, symbol string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, method)
	failed := f.fail[method]
	f.mu.Unlock()

	if failed {
		return "", errors.New(method + " feed down")
	}
	return fmt.Sprintf("<%s data for %s>", method, symbol), nil
}

func (f *fakeData) hit(method string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == method {
			return true
		}
	}
	return false
}

func (f *fakeData) TechnicalSnapshot(ctx context.Context, symbol string) (*models.TechnicalData, error) {
	if _, err := f.serve("snapshot", symbol); err != nil {
		return nil, err
	}
	return &models.TechnicalData{
		Price: models.MarketPrice{LastSalePrice: 228.02},
	}, nil
}
func (f *fakeData) StockQuote(ctx context.Context, symbol string) (string, error) {
	return f.serve("quote", symbol)
}
func (f *fakeData) AnalystRecommendations(ctx context.Context, symbol string) (string, error) {
	return f.serve("analyst", symbol)
}
func (f *fakeData) InsiderTrades(ctx context.Context, symbol string) (string, error) {
	return f.serve("insider", symbol)
}
func (f *fakeData) RealTimeQuote(ctx context.Context, symbol string) (string, error) {
	return f.serve("realtime", symbol)
}
func (f *fakeData) FinancialMetrics(ctx context.Context, symbol string) (string, error) {
	return f.serve("metrics", symbol)
}
func (f *fakeData) IncomeStatement(ctx context.Context, symbol string) (string, error) {
	return f.serve("income", symbol)
}
func (f *fakeData) PriceAction(ctx context.Context, symbol string) (string, error) {
	return f.serve("price", symbol)
}
func (f *fakeData) CompanyNews(ctx context.Context, symbol string) (string, error) {
	return f.serve("news", symbol)
}
func (f *fakeData) CryptoPrice(ctx context.Context, symbol string) (string, error) {
	return f.serve("cryptoprice", symbol)
}
func (f *fakeData) CryptoMarketChart(ctx context.Context, symbol string, days int) (string, error) {
	return f.serve("cryptochart", symbol)
}
func (f *fakeData) TrendingCoins(ctx context.Context) (string, error) {
	return f.serve("trending", "")
}

func newTestManager(runner *stubRunner, data *fakeData) *Manager {
	cfg := &config.Config{ChatWindowTurns: 3, NewsMaxItems: 4}
	return NewManager(runner, data, cfg)
}

// echoRunner returns the summarized payload for aggregation calls and a
// fixed string otherwise, so prompts can be inspected downstream.
func echoRunner() *stubRunner {
	return &stubRunner{fn: func(tasks []agents.Task) (string, error) {
		if tasks[0].Role == agents.RoleBlogger && strings.HasPrefix(tasks[0].Description, "Summarize") {
			return tasks[0].Description, nil
		}
		return "pipeline output", nil
	}}
}

func TestProduceForecastRequiresSymbol(t *testing.T) {
	m := newTestManager(&stubRunner{}, &fakeData{})
	session := m.NewSession()

	if _, err := m.ProduceForecast(context.Background(), session); !errors.Is(err, ErrSymbolNotSet) {
		t.Fatalf("err = %v, want ErrSymbolNotSet", err)
	}
}

func TestProduceForecastEquity(t *testing.T) {
	runner := echoRunner()
	data := &fakeData{}
	m := newTestManager(runner, data)

	session := m.NewSession()
	session.SetSymbol("AAPL")

	forecast, err := m.ProduceForecast(context.Background(), session)
	if err != nil {
		t.Fatalf("ProduceForecast failed: %v", err)
	}
	if forecast.Symbol != "AAPL" {
		t.Errorf("Symbol = %q, want AAPL", forecast.Symbol)
	}
	if forecast.AIAnalysis != "pipeline output" {
		t.Errorf("AIAnalysis = %q", forecast.AIAnalysis)
	}
	if !strings.Contains(forecast.TechnicalAnalysis, "REAL-TIME MARKET DATA") {
		t.Errorf("TechnicalAnalysis missing snapshot block:\n%s", forecast.TechnicalAnalysis)
	}
	if forecast.Timestamp.IsZero() {
		t.Error("Timestamp not set")
	}

	// all eight equity feeds hit
	for _, feed := range []string{"quote", "analyst", "insider", "realtime", "metrics", "income", "price", "news"} {
		if !data.hit(feed) {
			t.Errorf("feed %s never fetched", feed)
		}
	}
}

func TestAggregationJoinsInSourceOrder(t *testing.T) {
	runner := echoRunner()
	m := newTestManager(runner, &fakeData{})

	session := m.NewSession()
	session.SetSymbol("AAPL")

	if _, err := m.RunResearch(context.Background(), session); err != nil {
		t.Fatalf("RunResearch failed: %v", err)
	}

	research, ok := runner.taskFor(agents.RoleResearcher)
	if !ok {
		t.Fatal("no researcher task recorded")
	}

	markers := []string{
		"[stock quote]",
		"[analyst recommendations]",
		"[insider trades]",
		"[real-time quote]",
		"[financial metrics]",
		"[income statement]",
		"[price action]",
		"[company news]",
	}
	last := -1
	for _, marker := range markers {
		idx := strings.Index(research.Description, marker)
		if idx == -1 {
			t.Fatalf("aggregated context missing %s:\n%s", marker, research.Description)
		}
		if idx < last {
			t.Errorf("marker %s out of order", marker)
		}
		last = idx
	}
}

func TestAggregationDegradesOnFetchFailure(t *testing.T) {
	runner := echoRunner()
	data := &fakeData{fail: map[string]bool{"income": true, "insider": true}}
	m := newTestManager(runner, data)

	session := m.NewSession()
	session.SetSymbol("AAPL")

	if _, err := m.RunResearch(context.Background(), session); err != nil {
		t.Fatalf("RunResearch failed despite degradable fetch errors: %v", err)
	}

	research, _ := runner.taskFor(agents.RoleResearcher)
	if !strings.Contains(research.Description, "[income statement: data unavailable]") {
		t.Errorf("missing income placeholder:\n%s", research.Description)
	}
	if !strings.Contains(research.Description, "[insider trades: data unavailable]") {
		t.Errorf("missing insider placeholder:\n%s", research.Description)
	}
}

func TestAggregationAbortsOnModelFailure(t *testing.T) {
	runner := &stubRunner{fn: func(tasks []agents.Task) (string, error) {
		if tasks[0].Role == agents.RoleBlogger {
			return "", errors.New("backend auth failed")
		}
		return "ok", nil
	}}
	m := newTestManager(runner, &fakeData{})

	session := m.NewSession()
	session.SetSymbol("AAPL")

	_, err := m.RunResearch(context.Background(), session)
	if err == nil {
		t.Fatal("expected model failure to abort research")
	}
	var me *ModelExecutionError
	if !errors.As(err, &me) {
		t.Errorf("err = %T, want ModelExecutionError", err)
	}
}

func TestProduceForecastCrypto(t *testing.T) {
	runner := echoRunner()
	data := &fakeData{}
	m := newTestManager(runner, data)

	session := m.NewSession()
	session.SetSymbol("BTC")

	forecast, err := m.ProduceForecast(context.Background(), session)
	if err != nil {
		t.Fatalf("ProduceForecast failed: %v", err)
	}
	if forecast.Symbol != "BTC" {
		t.Errorf("Symbol = %q, want BTC", forecast.Symbol)
	}

	// crypto branch fetches crypto feeds, never the equity fan-out
	for _, feed := range []string{"cryptoprice", "cryptochart", "trending"} {
		if !data.hit(feed) {
			t.Errorf("crypto feed %s never fetched", feed)
		}
	}
	for _, feed := range []string{"quote", "analyst", "insider", "income"} {
		if data.hit(feed) {
			t.Errorf("equity feed %s fetched for crypto symbol", feed)
		}
	}
}

func TestStageGating(t *testing.T) {
	m := newTestManager(&stubRunner{}, &fakeData{})
	session := m.NewSession()
	session.SetSymbol("AAPL")

	var pse *PrecedingStageError
	if _, err := m.RunCalculation(context.Background(), session); !errors.As(err, &pse) {
		t.Errorf("calculation before research: err = %v, want PrecedingStageError", err)
	}
	if _, err := m.RunRiskAssessment(context.Background(), session); !errors.As(err, &pse) {
		t.Errorf("risk before research: err = %v, want PrecedingStageError", err)
	}
	if _, err := m.RunBlog(context.Background(), session); !errors.As(err, &pse) {
		t.Errorf("blog before calculation: err = %v, want PrecedingStageError", err)
	}
}

func TestFullEquityPipelineStageOrder(t *testing.T) {
	runner := echoRunner()
	m := newTestManager(runner, &fakeData{})

	session := m.NewSession()
	session.SetSymbol("MSFT")

	ctx := context.Background()
	if _, err := m.RunResearch(ctx, session); err != nil {
		t.Fatalf("research: %v", err)
	}
	if _, err := m.RunCalculation(ctx, session); err != nil {
		t.Fatalf("calculation: %v", err)
	}
	if _, err := m.RunRiskAssessment(ctx, session); err != nil {
		t.Fatalf("risk: %v", err)
	}
	if _, err := m.RunBlog(ctx, session); err != nil {
		t.Fatalf("blog: %v", err)
	}

	if session.ResearchResult() == "" || session.CalculationResult() == "" {
		t.Error("stage results not stored on session")
	}
}

func TestProduceTradeRatingClassification(t *testing.T) {
	cases := []struct {
		raw  string
		want models.TradeRating
	}{
		{"POSITIVE", models.RatingPositive},
		{" negative \n", models.RatingNegative},
		{"I think it looks bullish", models.RatingIndeterminate},
	}
	for _, c := range cases {
		runner := &stubRunner{fn: func(tasks []agents.Task) (string, error) {
			if tasks[0].Role == agents.RoleRecommender {
				return c.raw, nil
			}
			return "context", nil
		}}
		m := newTestManager(runner, &fakeData{})
		session := m.NewSession()
		session.SetSymbol("AAPL")

		outcome, err := m.ProduceTradeRating(context.Background(), session)
		if err != nil {
			t.Fatalf("ProduceTradeRating(%q) failed: %v", c.raw, err)
		}
		if outcome.Rating != c.want {
			t.Errorf("raw %q: rating = %s, want %s", c.raw, outcome.Rating, c.want)
		}

		normalized := outcome.Rating.Normalize()
		if normalized != models.RatingPositive && normalized != models.RatingNegative {
			t.Errorf("normalized rating %s outside binary set", normalized)
		}
	}
}

func TestProduceTradeRatingCryptoSkipsCalculation(t *testing.T) {
	runner := echoRunner()
	m := newTestManager(runner, &fakeData{})

	session := m.NewSession()
	session.SetSymbol("ETH")

	if _, err := m.ProduceTradeRating(context.Background(), session); err != nil {
		t.Fatalf("ProduceTradeRating failed: %v", err)
	}
	if _, ok := runner.taskFor(agents.RoleAccountant); ok {
		t.Error("calculation task ran for crypto rating")
	}
}

func TestChatSlidingWindow(t *testing.T) {
	runner := &stubRunner{fn: func(tasks []agents.Task) (string, error) {
		return "reply", nil
	}}
	m := newTestManager(runner, &fakeData{}) // window of 3
	session := m.NewSession()

	ctx := context.Background()
	for i := 1; i <= 5; i++ {
		if _, err := m.ProcessChatMessage(ctx, session, fmt.Sprintf("question %d", i)); err != nil {
			t.Fatalf("turn %d failed: %v", i, err)
		}
	}

	// the 6th prompt sees turns 3-5 only
	if _, err := m.ProcessChatMessage(ctx, session, "question 6"); err != nil {
		t.Fatalf("turn 6 failed: %v", err)
	}

	runner.mu.Lock()
	lastPrompt := runner.calls[len(runner.calls)-1][0].Description
	runner.mu.Unlock()

	if strings.Contains(lastPrompt, "question 1") || strings.Contains(lastPrompt, "question 2") {
		t.Errorf("old turns leaked into context window:\n%s", lastPrompt)
	}
	for i := 3; i <= 6; i++ {
		if !strings.Contains(lastPrompt, fmt.Sprintf("question %d", i)) {
			t.Errorf("recent turn %d missing from context:\n%s", i, lastPrompt)
		}
	}

	if session.TurnCount() != 6 {
		t.Errorf("TurnCount = %d, want 6", session.TurnCount())
	}
}

func TestSessionIsolation(t *testing.T) {
	runner := &stubRunner{fn: func(tasks []agents.Task) (string, error) {
		// echo the symbol embedded in the task back as the result
		if strings.Contains(tasks[0].Description, "AAPL") {
			return "research about AAPL", nil
		}
		if strings.Contains(tasks[0].Description, "TSLA") {
			return "research about TSLA", nil
		}
		return "generic", nil
	}}
	m := newTestManager(runner, &fakeData{})

	a := m.NewSession()
	a.SetSymbol("AAPL")
	b := m.NewSession()
	b.SetSymbol("TSLA")

	ctx := context.Background()
	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = m.RunResearch(ctx, a)
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = m.RunResearch(ctx, b)
	}()
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("concurrent research %d failed: %v", i, err)
		}
	}

	if got := a.ResearchResult(); got != "research about AAPL" {
		t.Errorf("session A result = %q", got)
	}
	if got := b.ResearchResult(); got != "research about TSLA" {
		t.Errorf("session B result = %q", got)
	}
}

func TestSetSymbolResetsStageResults(t *testing.T) {
	runner := echoRunner()
	m := newTestManager(runner, &fakeData{})

	session := m.NewSession()
	session.SetSymbol("AAPL")
	if _, err := m.RunResearch(context.Background(), session); err != nil {
		t.Fatalf("research: %v", err)
	}
	if session.ResearchResult() == "" {
		t.Fatal("research result not stored")
	}

	session.SetSymbol("NVDA")
	if session.ResearchResult() != "" || session.CalculationResult() != "" {
		t.Error("stage results survived symbol change")
	}
}

func TestClassification(t *testing.T) {
	for symbol, want := range map[string]models.AssetClass{
		"BTC":  models.Cryptocurrency,
		"eth":  models.Cryptocurrency,
		"DOGE": models.Cryptocurrency,
		"AAPL": models.Equity,
		"ZZZZ": models.Equity,
		"":     models.Equity,
	} {
		if got := models.Classify(symbol); got != want {
			t.Errorf("Classify(%q) = %s, want %s", symbol, got, want)
		}
	}
}
