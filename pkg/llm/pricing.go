package llm

// Per-million-token USD prices. Unknown models fall back to the provider's
// cheapest published rate so cost totals stay conservative but non-zero.
type rate struct {
	input  float64
	output float64
}

var modelRates = map[string]rate{
	"gemini-1.5-flash": {input: 0.075, output: 0.30},
	"gemini-1.5-pro":   {input: 1.25, output: 5.00},
}

var providerFallback = map[string]rate{
	"gemini": {input: 0.075, output: 0.30},
	// Self-hosted models have no metered price.
	"ollama": {},
}

// Cost computes the USD cost of a completion from its token usage.
func Cost(c *Completion) float64 {
	if c == nil {
		return 0
	}
	r, ok := modelRates[c.Model]
	if !ok {
		r = providerFallback[c.Provider]
	}
	return float64(c.InputTokens)*r.input/1e6 + float64(c.OutputTokens)*r.output/1e6
}
