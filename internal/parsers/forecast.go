package parsers

import (
	"fmt"
	"time"

	"marketsage/internal/models"
)

// BuildForecast stamps the technical block and model analysis into the
// record returned to callers and persisted to history.
func BuildForecast(symbol string, technical *models.TechnicalData, analysis string) *models.ForecastData {
	return &models.ForecastData{
		Symbol:            symbol,
		TechnicalAnalysis: FormatTechnicalAnalysis(technical),
		AIAnalysis:        analysis,
		Timestamp:         time.Now().UTC(),
	}
}

// FormatForecast renders a forecast into the report format consumed by the
// CLI and serving layer.
func FormatForecast(f *models.ForecastData) string {
	return fmt.Sprintf(`STOCK ANALYSIS FOR: %s
GENERATED: %s

%s

AI ANALYSIS AND RECOMMENDATIONS:
%s
`, f.Symbol, f.Timestamp.Format(time.RFC3339), f.TechnicalAnalysis, f.AIAnalysis)
}
