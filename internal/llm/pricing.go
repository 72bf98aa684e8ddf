package llm

import "strings"

// ModelCost is USD per million tokens.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost prices one call or an aggregate of calls.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)*c.InputPerMTok + float64(outputTokens)*c.OutputPerMTok) / 1e6
}

// modelPrices is keyed by model ID prefix. Dated snapshots such as
// claude-haiku-4-5-20251001 resolve through their family prefix.
var modelPrices = map[string]ModelCost{
	"claude-3-5-haiku":  {0.8, 4},
	"claude-3-5-sonnet": {3, 15},
	"claude-3-7-sonnet": {3, 15},
	"claude-3-haiku":    {0.25, 1.25},
	"claude-haiku-4-5":  {1, 5},
	"claude-sonnet-4":   {3, 15},
	"claude-opus-4":     {15, 75},
	"claude-opus-4-5":   {5, 25},

	"gpt-4o":       {2.5, 10},
	"gpt-4o-mini":  {0.15, 0.6},
	"gpt-4.1":      {2, 8},
	"gpt-4.1-mini": {0.4, 1.6},
	"gpt-4.1-nano": {0.1, 0.4},
	"gpt-5":        {1.25, 10},
	"gpt-5-mini":   {0.25, 2},
	"gpt-5-nano":   {0.05, 0.4},
	"o3":           {2, 8},
	"o3-mini":      {1.1, 4.4},
	"o4-mini":      {1.1, 4.4},

	"gemini-1.5-flash":      {0.075, 0.3},
	"gemini-1.5-pro":        {1.25, 5},
	"gemini-2.0-flash":      {0.1, 0.4},
	"gemini-2.0-flash-lite": {0.075, 0.3},
	"gemini-2.5-flash":      {0.3, 2.5},
	"gemini-2.5-flash-lite": {0.1, 0.4},
	"gemini-2.5-pro":        {1.25, 10},
}

// LookupCost returns the price of modelID, or nil when unknown. An
// OpenRouter vendor prefix ("google/") is ignored and the longest
// matching family prefix wins.
func LookupCost(modelID string) *ModelCost {
	if i := strings.LastIndexByte(modelID, '/'); i >= 0 {
		modelID = modelID[i+1:]
	}
	best := ""
	for prefix := range modelPrices {
		if strings.HasPrefix(modelID, prefix) && len(prefix) > len(best) {
			best = prefix
		}
	}
	if best == "" {
		return nil
	}
	c := modelPrices[best]
	return &c
}
