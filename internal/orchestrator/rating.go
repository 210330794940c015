package orchestrator

import (
	"context"
	"fmt"
	"time"

	"marketsage/internal/agents"
	"marketsage/internal/models"
)

// RatingOutcome carries the rating task's classified output. Rating may be
// INDETERMINATE when the model produced an unrecognized token; callers
// decide whether to surface that or fold it into NEGATIVE via Normalize.
type RatingOutcome struct {
	Symbol    string
	Rating    models.TradeRating
	Raw       string
	Timestamp time.Time
}

// ProduceTradeRating runs the rating pipeline. Equities go through the
// full aggregation, research, and calculation stages before the binary
// rating task; cryptocurrencies run a crypto trading-opportunity task
// directly.
func (m *Manager) ProduceTradeRating(ctx context.Context, session *Session) (*RatingOutcome, error) {
	symbol := session.Symbol()
	if symbol == "" {
		return nil, ErrSymbolNotSet
	}

	var raw string
	if session.AssetClass() == models.Cryptocurrency {
		research, err := m.RunResearch(ctx, session)
		if err != nil {
			return nil, err
		}

		result, err := m.runner.Execute(ctx, []agents.Task{{
			Role: agents.RoleRecommender,
			Description: fmt.Sprintf(`Assess the trading opportunity for the cryptocurrency %s and give a binary risk assessment (POSITIVE/NEGATIVE).

Research:
%s`, symbol, research),
			ExpectedOutput: "POSITIVE or NEGATIVE as a single word response, indicating the overall risk assessment",
		}})
		if err != nil {
			return nil, &ModelExecutionError{Stage: "crypto rating", Err: err}
		}
		raw = result
	} else {
		if _, err := m.RunResearch(ctx, session); err != nil {
			return nil, err
		}
		if _, err := m.RunCalculation(ctx, session); err != nil {
			return nil, err
		}
		result, err := m.RunRiskAssessment(ctx, session)
		if err != nil {
			return nil, err
		}
		raw = result
	}

	return &RatingOutcome{
		Symbol:    symbol,
		Rating:    models.ParseTradeRating(raw),
		Raw:       raw,
		Timestamp: time.Now().UTC(),
	}, nil
}
