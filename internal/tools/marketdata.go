package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	t_utils "github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
	log "github.com/sirupsen/logrus"

	"marketsage/internal/dataflows"
	"marketsage/internal/models"
)

// Keyword tables driving query dispatch. Matching is substring-based over
// the lowercased query, checked in rule order: trending first, then
// crypto, then the stock default.
var (
	trendingKeywords    = []string{"trending crypto", "trending cryptocurrencies", "hot crypto", "popular crypto"}
	cryptoKeywords      = []string{"crypto", "cryptocurrency", "bitcoin", "ethereum", "coin"}
	newsKeywords        = []string{"news", "happening", "recent"}
	priceKeywords       = []string{"price", "worth", "cost", "value"}
	performanceKeywords = []string{"metric", "performance", "stat"}
)

func containsAny(query string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(query, kw) {
			return true
		}
	}
	return false
}

// dispatchRule pairs a trigger with its report builder. Rules are checked
// in slice order; the last rule has a nil trigger and always fires.
type dispatchRule struct {
	trigger []string
	handler func(ctx context.Context, query string) string
}

// MarketDispatcher resolves free-text market questions into data reports.
type MarketDispatcher struct {
	data  dataflows.MarketData
	rules []dispatchRule
}

func NewMarketDispatcher(data dataflows.MarketData) *MarketDispatcher {
	d := &MarketDispatcher{data: data}
	d.rules = []dispatchRule{
		{trigger: trendingKeywords, handler: d.trendingReport},
		{trigger: cryptoKeywords, handler: d.cryptoReport},
		{trigger: nil, handler: d.stockReport},
	}
	return d
}

// Dispatch classifies the query and assembles the matching report.
func (d *MarketDispatcher) Dispatch(ctx context.Context, query string) string {
	lower := strings.ToLower(query)
	for _, rule := range d.rules {
		if rule.trigger == nil || containsAny(lower, rule.trigger) {
			return rule.handler(ctx, query)
		}
	}
	return d.stockReport(ctx, query)
}

func (d *MarketDispatcher) trendingReport(ctx context.Context, _ string) string {
	report, err := d.data.TrendingCoins(ctx)
	if err != nil {
		log.WithError(err).Warn("trending coin fetch failed")
		return fmt.Sprintf("Error fetching trending cryptocurrency data: %v", err)
	}
	return report
}

// mentionedSymbols scans the query for symbols or company names from the
// given membership table, returned in sorted order for stable output.
func mentionedSymbols(query string, table map[string]string) []string {
	queryUpper := strings.ToUpper(query)
	var found []string
	for symbol, name := range table {
		if strings.Contains(queryUpper, symbol) || strings.Contains(queryUpper, strings.ToUpper(name)) {
			found = append(found, symbol)
		}
	}
	sort.Strings(found)
	return found
}

func supportedList(table map[string]string) string {
	symbols := make([]string, 0, len(table))
	for symbol := range table {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	parts := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		parts = append(parts, fmt.Sprintf("%s (%s)", symbol, table[symbol]))
	}
	return strings.Join(parts, ", ")
}

func (d *MarketDispatcher) cryptoReport(ctx context.Context, query string) string {
	mentioned := mentionedSymbols(query, models.CryptoCurrencies)
	if len(mentioned) == 0 {
		return "I couldn't identify any specific cryptocurrencies in your query. Available cryptocurrencies are: " +
			supportedList(models.CryptoCurrencies)
	}

	lower := strings.ToLower(query)
	var b strings.Builder
	for _, symbol := range mentioned {
		b.WriteString(fmt.Sprintf("\nData for %s (%s):\n", models.CryptoCurrencies[symbol], symbol))

		if price, err := d.data.CryptoPrice(ctx, symbol); err == nil {
			b.WriteString("Current Price Data: " + price + "\n")
		} else {
			log.WithError(err).WithField("symbol", symbol).Warn("crypto price fetch failed")
		}
		if chart, err := d.data.CryptoMarketChart(ctx, symbol, 7); err == nil {
			b.WriteString("Key Metrics: " + chart + "\n")
		} else {
			log.WithError(err).WithField("symbol", symbol).Warn("crypto chart fetch failed")
		}
		if containsAny(lower, newsKeywords) {
			if news, err := d.data.CompanyNews(ctx, symbol); err == nil {
				b.WriteString("Recent News: " + news + "\n")
			} else {
				log.WithError(err).WithField("symbol", symbol).Warn("crypto news fetch failed")
			}
		}
	}
	return b.String()
}

func (d *MarketDispatcher) stockReport(ctx context.Context, query string) string {
	mentioned := mentionedSymbols(query, models.AvailableStocks)
	if len(mentioned) == 0 {
		return "I couldn't identify any specific stocks in your query. Available stocks are: " +
			supportedList(models.AvailableStocks)
	}

	lower := strings.ToLower(query)
	var b strings.Builder
	for _, symbol := range mentioned {
		b.WriteString(fmt.Sprintf("\nData for %s (%s):\n", models.AvailableStocks[symbol], symbol))

		if quote, err := d.data.StockQuote(ctx, symbol); err == nil {
			b.WriteString("Quote Data: " + quote + "\n")
		} else {
			log.WithError(err).WithField("symbol", symbol).Warn("quote fetch failed")
		}
		if analyst, err := d.data.AnalystRecommendations(ctx, symbol); err == nil {
			b.WriteString("Analyst Recommendations: " + analyst + "\n")
		} else {
			log.WithError(err).WithField("symbol", symbol).Warn("analyst fetch failed")
		}

		if containsAny(lower, priceKeywords) {
			if price, err := d.data.PriceAction(ctx, symbol); err == nil {
				b.WriteString("Price Information: " + price + "\n")
			} else {
				log.WithError(err).WithField("symbol", symbol).Warn("price action fetch failed")
			}
		}
		if containsAny(lower, newsKeywords) {
			if news, err := d.data.CompanyNews(ctx, symbol); err == nil {
				b.WriteString("Recent News: " + news + "\n")
			} else {
				log.WithError(err).WithField("symbol", symbol).Warn("news fetch failed")
			}
		}
		if containsAny(lower, performanceKeywords) {
			if metrics, err := d.data.FinancialMetrics(ctx, symbol); err == nil {
				b.WriteString("Key Metrics: " + metrics + "\n")
			} else {
				log.WithError(err).WithField("symbol", symbol).Warn("metrics fetch failed")
			}
		}
	}
	return b.String()
}

// NewMarketDataTool wraps a dispatcher as the tool attached to the Chatbot
// role.
func NewMarketDataTool(data dataflows.MarketData) tool.BaseTool {
	dispatcher := NewMarketDispatcher(data)
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name: "market_data",
			Desc: "Fetches relevant market data for stocks and cryptocurrencies based on user queries",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {
					Type:     "string",
					Desc:     "Free-text question about stocks or cryptocurrencies",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, input models.MarketQueryInput) (*models.MarketQueryOutput, error) {
			return &models.MarketQueryOutput{Report: dispatcher.Dispatch(ctx, input.Query)}, nil
		},
	)
}
