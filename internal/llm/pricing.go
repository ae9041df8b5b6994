package llm

// ModelCost holds per-million-token pricing for a model.
// Prices are in USD per 1 million tokens.
type ModelCost struct {
	InputPerMTok  float64 // USD per 1M input tokens
	OutputPerMTok float64 // USD per 1M output tokens
}

// Cost calculates the total USD cost for the given token counts.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)*c.InputPerMTok/1_000_000 +
		float64(outputTokens)*c.OutputPerMTok/1_000_000
}

// LookupCost returns the pricing for a model ID, or nil if unknown.
func LookupCost(modelID string) *ModelCost {
	if c, ok := modelCosts[modelID]; ok {
		return &c
	}
	return nil
}

// EstimateCost returns the USD cost of a call, and false when the model
// has no pricing entry.
func EstimateCost(modelID string, inputTokens, outputTokens int) (float64, bool) {
	c := LookupCost(modelID)
	if c == nil {
		return 0, false
	}
	return c.Cost(inputTokens, outputTokens), true
}

// modelCosts covers the catalog models and the dated ids providers report
// back for them. Last updated: 2026-02-15.
var modelCosts = map[string]ModelCost{
	// OpenAI
	"gpt-4.1":                 {2, 8},
	"gpt-4.1-2025-04-14":      {2, 8},
	"gpt-4.1-mini":            {0.4, 1.6},
	"gpt-4.1-mini-2025-04-14": {0.4, 1.6},
	"gpt-4.1-nano":            {0.1, 0.4},
	"gpt-4.1-nano-2025-04-14": {0.1, 0.4},
	"gpt-4o":                  {2.5, 10},
	"gpt-4o-2024-08-06":       {2.5, 10},
	"gpt-4o-mini":             {0.15, 0.6},
	"gpt-4o-mini-2024-07-18":  {0.15, 0.6},
	"o1":                      {15, 60},
	"o1-mini":                 {1.1, 4.4},
	"o3-mini":                 {1.1, 4.4},

	// Gemini
	"gemini-1.5-flash-002":  {0.075, 0.3},
	"gemini-1.5-pro-002":    {1.25, 5},
	"gemini-2.0-flash":      {0.1, 0.4},
	"gemini-2.0-flash-lite": {0.075, 0.3},

	// Anthropic
	"claude-haiku-4-5-20251001":  {1, 5},
	"claude-sonnet-4-5-20250929": {3, 15},
	"claude-opus-4-1-20250805":   {15, 75},
}
