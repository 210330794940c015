package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"marketsage/internal/agents"
	"marketsage/internal/models"
	"marketsage/internal/parsers"
)

// aggregationSource is one leg of the equity data fan-out.
type aggregationSource struct {
	name  string
	fetch func(ctx context.Context, symbol string) (string, error)
}

// aggregationSources lists the eight equity feeds in the order their
// summaries are concatenated. The order is fixed so aggregated context is
// deterministic regardless of fetch completion order.
func (m *Manager) aggregationSources() []aggregationSource {
	return []aggregationSource{
		{name: "stock quote", fetch: m.data.StockQuote},
		{name: "analyst recommendations", fetch: m.data.AnalystRecommendations},
		{name: "insider trades", fetch: m.data.InsiderTrades},
		{name: "real-time quote", fetch: m.data.RealTimeQuote},
		{name: "financial metrics", fetch: m.data.FinancialMetrics},
		{name: "income statement", fetch: m.data.IncomeStatement},
		{name: "price action", fetch: m.data.PriceAction},
		{name: "company news", fetch: m.data.CompanyNews},
	}
}

// aggregateEquityContext fans out over the eight sources in parallel. Each
// payload is summarized by a Blogger-role call; summaries join in source
// order. A failed fetch degrades to a placeholder and the pipeline keeps
// going; a failed model call aborts.
func (m *Manager) aggregateEquityContext(ctx context.Context, symbol string) (string, error) {
	sources := m.aggregationSources()
	summaries := make([]string, len(sources))
	modelErrs := make([]error, len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src aggregationSource) {
			defer wg.Done()

			raw, err := src.fetch(ctx, symbol)
			if err != nil {
				log.WithError(err).WithFields(log.Fields{
					"symbol": symbol,
					"source": src.name,
				}).Warn("aggregation source unavailable")
				summaries[i] = fmt.Sprintf("[%s: data unavailable]", src.name)
				return
			}

			summary, err := m.runner.Execute(ctx, []agents.Task{{
				Role: agents.RoleBlogger,
				Description: fmt.Sprintf(`Summarize the following %s data for %s into a short, factual paragraph.
Keep every concrete number; drop boilerplate.

%s`, src.name, symbol, raw),
				ExpectedOutput: "A concise factual summary preserving all numeric values.",
			}})
			if err != nil {
				modelErrs[i] = err
				return
			}
			summaries[i] = fmt.Sprintf("[%s]\n%s", src.name, summary)
		}(i, src)
	}
	wg.Wait()

	for i, err := range modelErrs {
		if err != nil {
			return "", &ModelExecutionError{Stage: "aggregation (" + sources[i].name + ")", Err: err}
		}
	}
	return strings.Join(summaries, "\n\n"), nil
}

// researchTasks builds the research stage's task list for the session's
// asset class.
func (m *Manager) researchTasks(ctx context.Context, session *Session) ([]agents.Task, error) {
	symbol := session.Symbol()
	if session.AssetClass() == models.Cryptocurrency {
		return m.cryptoResearchTasks(ctx, symbol), nil
	}

	aggregated, err := m.aggregateEquityContext(ctx, symbol)
	if err != nil {
		return nil, err
	}
	marketContext := m.technicalContext(ctx, symbol)
	currentTime := time.Now().Format("January 2, 2006, 3:04 PM GMT")

	return []agents.Task{
		{
			Role: agents.RoleResearcher,
			Description: fmt.Sprintf(`Identify the unique insights in the aggregated market data for %s below.
Surface what is surprising, contradictory, or unpriced; skip anything a casual reader already knows.

%s`, symbol, aggregated),
			ExpectedOutput: "A list of unique, non-obvious insights with the data points supporting each.",
		},
		{
			Role: agents.RoleResearcher,
			Description: fmt.Sprintf(`Research the stock performance and recent news of %s.

Find the following specific financial numbers from the data above:
1. Current stock price
2. Earnings Per Share (EPS)
3. Total Liabilities/Debt
4. Total Shareholder Equity
5. Net Income
6. Previous year's Shareholder Equity (for average calculation)

Add any other relevant statistics previously discovered.
Format the numbers clearly and explain the time period each number represents (e.g. quarterly, annual, TTM).`, symbol),
			ExpectedOutput: "A clear list of these financial numbers with their time periods and sources, plus a summary of recent performance and news.",
		},
		{
			Role: agents.RoleResearcher,
			Description: fmt.Sprintf(`Analyze short-term trading opportunities for %s based on technical analysis.

%s

Provide a detailed short-term trading analysis covering:

1. Price Action Analysis:
   - Current trend direction and strength
   - Support/resistance levels from current price action
   - Significance of the current bid/ask spread

2. Volume Analysis:
   - Volume trend analysis
   - Buying/selling pressure analysis
   - Unusual volume activity assessment

3. Trading Range Analysis:
   - Key levels within today's range
   - Position relative to 52-week range
   - Breakout/breakdown potential

4. Short-term Opportunities:
   - Identified trading setups
   - Risk/reward scenarios
   - Entry/exit points and stop-loss levels`, symbol, marketContext),
			ExpectedOutput: fmt.Sprintf(`The time of analysis is: %s. Provide a comprehensive short-term trading analysis with:
1. Clear trend identification and direction
2. Specific support and resistance levels
3. Volume-based insights
4. Concrete trading opportunities
5. Risk management levels (entry, exit, stop-loss)
6. Short-term price targets
7. Confidence level in the analysis`, currentTime),
		},
	}, nil
}

// cryptoResearchTasks builds the crypto research stage: direct price,
// chart, and trending context with no multi-source fan-out.
func (m *Manager) cryptoResearchTasks(ctx context.Context, symbol string) []agents.Task {
	fetchOr := func(name string, fetch func() (string, error)) string {
		text, err := fetch()
		if err != nil {
			log.WithError(err).WithFields(log.Fields{
				"symbol": symbol,
				"source": name,
			}).Warn("crypto data source unavailable")
			return fmt.Sprintf("[%s: data unavailable]", name)
		}
		return text
	}

	price := fetchOr("price", func() (string, error) { return m.data.CryptoPrice(ctx, symbol) })
	chart := fetchOr("market chart", func() (string, error) { return m.data.CryptoMarketChart(ctx, symbol, 30) })
	trending := fetchOr("trending", func() (string, error) { return m.data.TrendingCoins(ctx) })

	return []agents.Task{
		{
			Role: agents.RoleResearcher,
			Description: fmt.Sprintf(`Research the cryptocurrency %s using the market data below.

Current Price Data:
%s

30-Day Market Chart:
%s

Market Trends:
%s

Cover price momentum, volume behavior, market-cap positioning, and how %s compares to what is currently trending.`,
				symbol, price, chart, trending, symbol),
			ExpectedOutput: "A summary of the coin's recent performance, momentum, and standing relative to the broader crypto market.",
		},
	}
}

// predictionTask builds the forecast synthesis task. The output contract
// is identical for equities and cryptocurrencies.
func predictionTask(symbol, researchResult string) agents.Task {
	return agents.Task{
		Role: agents.RoleRecommender,
		Description: fmt.Sprintf(`Based on the research below, produce a price forecast for %s.

%s`, symbol, researchResult),
		ExpectedOutput: `A forecast containing:
1. Short-term price target (1-7 days)
2. Medium-term price target (1-3 months)
3. Long-term price target (6-12 months)
4. Confidence matrix for each horizon (high/medium/low with rationale)
5. Key risk factors
6. Potential catalysts
7. Final verdict`,
	}
}

// ProduceForecast runs the forecast pipeline for the session's symbol:
// research (branch by asset class) then a prediction task, returning the
// persistable forecast record.
func (m *Manager) ProduceForecast(ctx context.Context, session *Session) (*models.ForecastData, error) {
	symbol := session.Symbol()
	if symbol == "" {
		return nil, ErrSymbolNotSet
	}

	research, err := m.RunResearch(ctx, session)
	if err != nil {
		return nil, err
	}

	analysis, err := m.runner.Execute(ctx, []agents.Task{predictionTask(symbol, research)})
	if err != nil {
		return nil, &ModelExecutionError{Stage: "prediction", Err: err}
	}

	var technical *models.TechnicalData
	if session.AssetClass() == models.Equity {
		if td, err := m.data.TechnicalSnapshot(ctx, symbol); err == nil {
			technical = td
		} else {
			log.WithError(err).WithField("symbol", symbol).Warn("forecast built without technical snapshot")
		}
	}

	return parsers.BuildForecast(symbol, technical, analysis), nil
}
