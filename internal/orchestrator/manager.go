package orchestrator

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"marketsage/internal/agents"
	"marketsage/internal/config"
	"marketsage/internal/dataflows"
	"marketsage/internal/parsers"
)

// TaskRunner is the execution backend surface the orchestrator depends on.
type TaskRunner interface {
	Execute(ctx context.Context, tasks []agents.Task) (string, error)
}

// Manager sequences the analysis pipelines. It holds no per-run state;
// everything mutable lives in the Session passed to each call.
type Manager struct {
	runner       TaskRunner
	data         dataflows.MarketData
	chatWindow   int
	newsMaxItems int
}

func NewManager(runner TaskRunner, data dataflows.MarketData, cfg *config.Config) *Manager {
	return &Manager{
		runner:       runner,
		data:         data,
		chatWindow:   cfg.ChatWindowTurns,
		newsMaxItems: cfg.NewsMaxItems,
	}
}

// NewSession creates a workflow state scoped to one caller.
func (m *Manager) NewSession() *Session {
	return NewSession(m.chatWindow)
}

// RunResearch executes the research stage and stores its result on the
// session. Equities get the aggregated multi-source context; crypto runs
// its own research task over price and trending data.
func (m *Manager) RunResearch(ctx context.Context, session *Session) (string, error) {
	symbol := session.Symbol()
	if symbol == "" {
		return "", ErrSymbolNotSet
	}

	tasks, err := m.researchTasks(ctx, session)
	if err != nil {
		return "", err
	}

	result, err := m.runner.Execute(ctx, tasks)
	if err != nil {
		return "", &ModelExecutionError{Stage: "research", Err: err}
	}
	session.setResearchResult(result)
	return result, nil
}

// RunCalculation executes the ratio-calculation stage. Requires a research
// result on the session.
func (m *Manager) RunCalculation(ctx context.Context, session *Session) (string, error) {
	if session.Symbol() == "" {
		return "", ErrSymbolNotSet
	}
	if session.ResearchResult() == "" {
		return "", &PrecedingStageError{Stage: "calculation", Missing: "research result"}
	}

	currentTime := time.Now().Format("January 2, 2006, 3:04 PM GMT")
	tasks := []agents.Task{
		{
			Role: agents.RoleAccountant,
			Description: fmt.Sprintf(`Using the research below, calculate key financial ratios with the calculator tool using the exact format:
'Formula: [ratio_name] | Calculate: [numbers]'

Research:
%s

Required calculations:
1. P/E Ratio: 'Formula: Price to Earnings | Calculate: [price] / [earnings]'
2. Debt-to-Equity: 'Formula: Debt to Equity | Calculate: [total_debt] / [total_equity]'
3. ROE: 'Formula: Return on Equity | Calculate: [net_income] / [equity]'

If any data is unavailable, use:
'Formula: [ratio_name] | Calculate: None'`, session.ResearchResult()),
			ExpectedOutput: fmt.Sprintf(`The time of analysis is: %s. Provide each calculation result in sequence, one per line.
Example:
Result for Price to Earnings: 15.5
Result for Debt to Equity: 0.8
No data available for Return on Equity`, currentTime),
		},
	}

	result, err := m.runner.Execute(ctx, tasks)
	if err != nil {
		return "", &ModelExecutionError{Stage: "calculation", Err: err}
	}
	session.setCalculationResult(result)
	return result, nil
}

// RunRiskAssessment executes the binary risk-rating task over news,
// research, and calculations. Requires both prior results.
func (m *Manager) RunRiskAssessment(ctx context.Context, session *Session) (string, error) {
	symbol := session.Symbol()
	if symbol == "" {
		return "", ErrSymbolNotSet
	}
	if session.ResearchResult() == "" {
		return "", &PrecedingStageError{Stage: "risk assessment", Missing: "research result"}
	}
	if session.CalculationResult() == "" {
		return "", &PrecedingStageError{Stage: "risk assessment", Missing: "calculation result"}
	}

	newsContext, err := m.data.CompanyNews(ctx, symbol)
	if err != nil {
		log.WithError(err).WithField("symbol", symbol).Warn("news fetch failed, rating without news context")
		newsContext = "No recent news available."
	}

	tasks := []agents.Task{
		{
			Role: agents.RoleRecommender,
			Description: fmt.Sprintf(`Analyze risk factors and provide a binary risk assessment (POSITIVE/NEGATIVE) based on:

1. Recent News Analysis:
%s

2. Research Analysis:
%s

3. Financial Calculations:
%s

Focus on the news summaries for sentiment analysis while considering quantitative data from research and calculations.`,
				newsContext, session.ResearchResult(), session.CalculationResult()),
			ExpectedOutput: "POSITIVE or NEGATIVE as a single word response, indicating the overall risk assessment",
		},
	}

	result, err := m.runner.Execute(ctx, tasks)
	if err != nil {
		return "", &ModelExecutionError{Stage: "risk assessment", Err: err}
	}
	return result, nil
}

// RunBlog turns the accumulated analysis into a recommendation and a
// formatted post. Requires a calculation result.
func (m *Manager) RunBlog(ctx context.Context, session *Session) (string, error) {
	if session.Symbol() == "" {
		return "", ErrSymbolNotSet
	}
	if session.CalculationResult() == "" {
		return "", &PrecedingStageError{Stage: "blog", Missing: "calculation result"}
	}

	tasks := []agents.Task{
		{
			Role: agents.RoleRecommender,
			Description: fmt.Sprintf("Based on previous analysis: %s Make a buy, sell, or hold recommendation.",
				session.CalculationResult()),
			ExpectedOutput: "Provide a recommendation with supporting reasons: buy, sell, or hold.",
		},
		{
			Role:           agents.RoleBlogger,
			Description:    "Format the research, accounting data, and recommendation into a blog post.",
			ExpectedOutput: "A well-formatted blog post combining research, financial ratios, and a final recommendation.",
		},
	}

	result, err := m.runner.Execute(ctx, tasks)
	if err != nil {
		return "", &ModelExecutionError{Stage: "blog", Err: err}
	}
	return result, nil
}

// technicalContext fetches the quote snapshot and renders the market
// context block. Degrades to a placeholder when the feed is down.
func (m *Manager) technicalContext(ctx context.Context, symbol string) string {
	td, err := m.data.TechnicalSnapshot(ctx, symbol)
	if err != nil {
		log.WithError(err).WithField("symbol", symbol).Warn("technical snapshot unavailable")
		return "Technical data unavailable"
	}
	return parsers.FormatTechnicalAnalysis(td)
}
