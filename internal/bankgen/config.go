package bankgen

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators run on every generated item, in order. An item failing
	// any of them is dropped.
	Validators []Validator

	// MaxAttempts bounds how many LLM calls one Generate may make while
	// topping up a short bank.
	MaxAttempts int

	// TokensPerQuestion sizes the response budget: the request asks for
	// TokensPerQuestion*count + 256, capped at MaxTokens.
	TokensPerQuestion int
	MaxTokens         int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxAvoid is the maximum number of avoided questions to include in
	// the prompt.
	MaxAvoid int
}

// DefaultConfig returns a Config with the standard validator chain
// and recommended defaults.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&LengthValidator{MaxQuestion: 500, MaxExplanation: 1000},
			&OptionCountValidator{},
		},
		MaxAttempts:       3,
		TokensPerQuestion: 300,
		MaxTokens:         8192,
		Temperature:       0.7,
		MaxAvoid:          20,
	}
}

func (c Config) maxTokens(count int) int {
	n := c.TokensPerQuestion*count + 256
	if c.MaxTokens > 0 && n > c.MaxTokens {
		return c.MaxTokens
	}
	return n
}
