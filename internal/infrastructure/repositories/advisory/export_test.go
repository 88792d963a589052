package advisory

import "context"

// NewGeminiOracleWith builds an oracle around a fake model for testing.
func NewGeminiOracleWith(
	generate func(ctx context.Context, model, prompt string) (string, error),
	config GeminiConfig,
) *GeminiOracle {
	return newGeminiOracle(generate, config)
}
