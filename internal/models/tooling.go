package models

// CalculatorInput is the argument payload for the calculation tool.
type CalculatorInput struct {
	Operation string `json:"operation" jsonschema:"description=Calculation request in the form 'Formula: <label> | Calculate: <expression>'"`
}

// CalculatorOutput carries the tool's textual result back to the agent.
type CalculatorOutput struct {
	Result string `json:"result"`
}

// MarketQueryInput is the argument payload for the market dispatch tool.
type MarketQueryInput struct {
	Query string `json:"query" jsonschema:"description=Free-text question about stocks or cryptocurrencies"`
}

// MarketQueryOutput carries the assembled market report.
type MarketQueryOutput struct {
	Report string `json:"report"`
}
