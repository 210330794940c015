package cli

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/AlecAivazis/survey/v2"
)

var symbolPattern = regexp.MustCompile(`^[A-Z0-9.-]+$`)

// PromptForSymbol asks the user for a ticker symbol when none was given on
// the command line.
func PromptForSymbol() (string, error) {
	var symbol string
	prompt := &survey.Input{
		Message: "Enter a ticker symbol (e.g., AAPL, MSFT, BTC):",
		Help:    "Stock tickers and supported crypto symbols are both accepted",
	}

	err := survey.AskOne(prompt, &symbol, survey.WithValidator(func(val interface{}) error {
		str := strings.TrimSpace(strings.ToUpper(val.(string)))
		if len(str) == 0 {
			return fmt.Errorf("symbol cannot be empty")
		}
		if len(str) > 10 {
			return fmt.Errorf("symbol too long (max 10 characters)")
		}
		if !symbolPattern.MatchString(str) {
			return fmt.Errorf("invalid symbol format (use letters, numbers, dots, and hyphens only)")
		}
		return nil
	}))
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(strings.ToUpper(symbol)), nil
}

// PromptForHistoryKind asks which stored records to list.
func PromptForHistoryKind() (string, error) {
	var selected string
	prompt := &survey.Select{
		Message: "Which history do you want to see?",
		Options: []string{"Forecasts", "Trade ratings"},
		Default: "Forecasts",
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return "", err
	}
	if selected == "Trade ratings" {
		return "ratings", nil
	}
	return "forecasts", nil
}
