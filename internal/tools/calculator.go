package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	t_utils "github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"marketsage/internal/models"
)

const calculatorDesc = `Calculator that accepts both a labeled formula and its numerical calculation.

Format your input as:
"Formula: [labeled_expression] | Calculate: [numerical_expression]"

Examples:
"Formula: net_income / number_of_shares | Calculate: 1000000 / 500000"
"Formula: revenue * profit_margin | Calculate: 5000000 * 0.15"
"Formula: (total_assets - total_liabilities) / equity | Calculate: (1000000 - 400000) / 600000"

The tool evaluates only the numerical expression after 'Calculate:' and keeps the labeled formula for reference.
Results are rounded to 4 decimal places with trailing zeros trimmed (10 / 4 -> 2.5, 10 / 2 -> 5).
Do not include characters or currency signs after 'Calculate:'.
Include only one Formula per input.
If financial data is unavailable, input 'None' or leave calculation empty.`

// NewCalculatorTool builds the arithmetic tool attached to the Accountant
// role. Malformed input returns a descriptive string rather than an error
// since the output is itself consumed as model context.
func NewCalculatorTool() tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name: "calculator",
			Desc: calculatorDesc,
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"operation": {
					Type:     "string",
					Desc:     "Calculation request in the form 'Formula: <label> | Calculate: <expression>'",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, input models.CalculatorInput) (*models.CalculatorOutput, error) {
			return &models.CalculatorOutput{Result: Calculate(input.Operation)}, nil
		},
	)
}

// Calculate applies the formula contract to one request string.
func Calculate(input string) string {
	// models sometimes hand the argument through another JSON envelope
	if strings.HasPrefix(input, "{") {
		var envelope struct {
			Operation string `json:"operation"`
			InputStr  string `json:"input_str"`
		}
		if err := json.Unmarshal([]byte(input), &envelope); err != nil {
			return "Error: Invalid JSON format"
		}
		if envelope.Operation != "" {
			input = envelope.Operation
		} else {
			input = envelope.InputStr
		}
	}

	if strings.EqualFold(strings.TrimSpace(input), "none") || strings.TrimSpace(input) == "" {
		return "No financial data available"
	}

	formulaPart, calcPart, found := strings.Cut(input, "|")
	if !found {
		return "Error: Please provide both formula and calculation separated by |"
	}

	_, expr, found := strings.Cut(calcPart, "Calculate:")
	if !found {
		return "Error: Missing 'Calculate:' in the numerical part"
	}

	expr = strings.TrimSpace(expr)
	label := strings.TrimSpace(strings.Replace(formulaPart, "Formula:", "", 1))
	if expr == "" || strings.EqualFold(expr, "none") {
		return fmt.Sprintf("No data available for %s", label)
	}

	result, err := evalExpression(expr)
	if err != nil {
		return fmt.Sprintf("Error: Invalid expression - %v", err)
	}

	return fmt.Sprintf("Result for %s: %s", label, formatResult(result))
}
