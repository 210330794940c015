// Package display renders pipeline results for the terminal.
package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"marketsage/internal/dataflows"
	"marketsage/internal/models"
	"marketsage/internal/orchestrator"
	"marketsage/internal/storage"
)

var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7C3AED")).
		Background(lipgloss.Color("#1F2937")).
		Padding(0, 1).
		MarginBottom(1)

	sectionStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#3B82F6"))

	panelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#3B82F6")).
		Padding(1, 2).
		Width(80)

	positiveStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981")).
		Bold(true)

	negativeStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#EF4444")).
		Bold(true)

	neutralStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F59E0B")).
		Bold(true)

	dimStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280"))

	errStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#EF4444")).
		Bold(true)
)

// Banner prints the application banner.
func Banner() {
	fmt.Println(titleStyle.Render("📈 MarketSage - AI Investment Advisor"))
	fmt.Println(dimStyle.Render("Multi-agent market research, forecasting, and trade ratings"))
	fmt.Println()
}

// Error prints an error line.
func Error(err error) {
	fmt.Println(errStyle.Render("✗ " + err.Error()))
}

// Info prints a dim status line.
func Info(msg string) {
	fmt.Println(dimStyle.Render(msg))
}

// Forecast prints a full forecast: the technical snapshot panel followed by
// the model analysis.
func Forecast(f *models.ForecastData) {
	fmt.Println(titleStyle.Render(fmt.Sprintf("Forecast: %s", f.Symbol)))
	fmt.Println(dimStyle.Render("Generated " + f.Timestamp.Format("2006-01-02 15:04:05 MST")))
	fmt.Println()

	if f.TechnicalAnalysis != "" {
		fmt.Println(sectionStyle.Render("Market Snapshot"))
		fmt.Println(panelStyle.Render(f.TechnicalAnalysis))
		fmt.Println()
	}

	fmt.Println(sectionStyle.Render("AI Analysis and Recommendations"))
	fmt.Println(panelStyle.Render(f.AIAnalysis))
}

// Rating prints a trade rating with its supporting model output.
func Rating(outcome *orchestrator.RatingOutcome) {
	fmt.Println(titleStyle.Render(fmt.Sprintf("Trade Rating: %s", outcome.Symbol)))
	fmt.Println(dimStyle.Render("Generated " + outcome.Timestamp.Format("2006-01-02 15:04:05 MST")))
	fmt.Println()
	fmt.Printf("Verdict: %s\n", ratingBadge(outcome.Rating))
	if outcome.Rating == models.RatingIndeterminate {
		fmt.Println(dimStyle.Render("The model did not return a clear verdict; treated as NEGATIVE."))
		if raw := strings.TrimSpace(outcome.Raw); raw != "" {
			fmt.Println()
			fmt.Println(sectionStyle.Render("Raw Output"))
			fmt.Println(panelStyle.Render(raw))
		}
	}
}

func ratingBadge(r models.TradeRating) string {
	switch r {
	case models.RatingPositive:
		return positiveStyle.Render("POSITIVE ▲")
	case models.RatingNegative:
		return negativeStyle.Render("NEGATIVE ▼")
	default:
		return neutralStyle.Render("INDETERMINATE ◆")
	}
}

// Quote prints a delayed quote snapshot.
func Quote(q *dataflows.QuickQuote) {
	header := q.Symbol
	if q.Name != "" {
		header = fmt.Sprintf("%s (%s)", q.Name, q.Symbol)
	}

	changeStyle := positiveStyle
	if q.Change.IsNegative() {
		changeStyle = negativeStyle
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Price:      $%s\n", q.Price.StringFixed(2))
	fmt.Fprintf(&b, "Change:     %s\n", changeStyle.Render(fmt.Sprintf("%s (%s%%)", q.Change.StringFixed(2), q.ChangePercent.StringFixed(2))))
	fmt.Fprintf(&b, "Open:       $%s\n", q.Open.StringFixed(2))
	fmt.Fprintf(&b, "Day Range:  $%s - $%s\n", q.DayLow.StringFixed(2), q.DayHigh.StringFixed(2))
	fmt.Fprintf(&b, "Volume:     %d\n", q.Volume)
	fmt.Fprintf(&b, "Market:     %s", q.MarketState)

	fmt.Println(titleStyle.Render(header))
	fmt.Println(panelStyle.Render(b.String()))
}

// ForecastHistory prints stored forecasts, newest first.
func ForecastHistory(records []*models.ForecastData) {
	if len(records) == 0 {
		fmt.Println(dimStyle.Render("No stored forecasts."))
		return
	}
	fmt.Println(titleStyle.Render("Forecast History"))
	for _, f := range records {
		fmt.Printf("%s  %s\n",
			sectionStyle.Render(f.Symbol),
			dimStyle.Render(f.Timestamp.Format("2006-01-02 15:04")))
		fmt.Println(dimStyle.Render(excerpt(f.AIAnalysis, 160)))
		fmt.Println()
	}
}

// RatingHistory prints stored trade ratings, newest first.
func RatingHistory(records []*storage.RatingRecord) {
	if len(records) == 0 {
		fmt.Println(dimStyle.Render("No stored ratings."))
		return
	}
	fmt.Println(titleStyle.Render("Rating History"))
	for _, r := range records {
		fmt.Printf("%s  %s  %s\n",
			sectionStyle.Render(r.Symbol),
			ratingBadge(r.Rating),
			dimStyle.Render(r.CreatedAt.Format("2006-01-02 15:04")))
	}
}

// ChatReply prints an assistant reply in the chat loop.
func ChatReply(reply string) {
	fmt.Println(sectionStyle.Render("Assistant:"))
	fmt.Println(panelStyle.Render(reply))
}

func excerpt(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
