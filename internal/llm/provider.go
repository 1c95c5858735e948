package llm

import (
	"context"
	"fmt"

	"github.com/ppiankov/lemma/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Advise generates a diagnosis of inconclusive results with strict
	// grounding mode
	Advise(ctx context.Context, req AdviseRequest) (*AdviseResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// AdviseRequest contains the input for LLM advisory
type AdviseRequest struct {
	// Results is the full result set of the run; only inconclusive
	// entries are described to the model
	Results []model.ClaimResult

	// ClaimIDs is the STRICT allowlist of claim ids the LLM can reference.
	// This prevents hallucination - the LLM cannot discuss a claim not in
	// this list.
	ClaimIDs []string

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// AdviseResponse contains the LLM's advisory output
type AdviseResponse struct {
	// Text is the generated advisory text
	Text string

	// CitedClaims are the claim ids the LLM actually referenced (for verification)
	CitedClaims []string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// StrictGrounding enforces the claim-id allowlist (should always be true)
	StrictGrounding bool

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:        "", // Disabled by default
		Model:           "",
		Timeout:         30,
		StrictGrounding: true, // CRITICAL: Always enforce
		MaxTokens:       800,
	}
}

// BuildPrompt constructs the default prompt for advisory with strict
// grounding mode. Only inconclusive results are described: the advisory
// exists to explain why verification could not conclude, never to
// second-guess a proved or rejected verdict.
func BuildPrompt(results []model.ClaimResult, claimIDs []string) string {
	prompt := fmt.Sprintf(`You are reviewing a mathematical claim verification run. The engine returns one of three verdicts per claim: proved, rejected, or inconclusive. Your job is to diagnose the INCONCLUSIVE claims only - you NEVER overturn a verdict or assert that a claim is true or false.

CRITICAL RULES:
1. You MUST ONLY reference claim ids from this allowed list, written in backticks:
%s

2. DO NOT infer, speculate about, or reference any claim not in this list.
3. For each inconclusive claim, suggest the most likely cause (missing field, unparseable expression, evaluation domain error, timeout) and a concrete fix to the claim's input.
4. Use phrases like:
   - "Claim X could not be evaluated because..."
   - "Declaring Y as an assumption may let the step check decide..."
5. Never say "this claim is true" or "this claim is false" - verdicts are the engine's alone.

Inconclusive claims:
`, joinClaimIDs(claimIDs))

	described := 0
	for _, res := range results {
		if res.Status != model.StatusInconclusive {
			continue
		}
		if described >= 10 {
			prompt += "... (more inconclusive claims omitted)\n"
			break
		}
		reason := "no detail recorded"
		if msg, ok := res.Details["error"].(string); ok && msg != "" {
			reason = msg
		}
		prompt += fmt.Sprintf("- `%s` (type %s): %s\n", res.ID, res.Type, reason)
		described++
	}

	prompt += "\nProvide a short diagnosis per claim, 1-2 sentences each."

	return prompt
}

// Helper functions

func joinClaimIDs(ids []string) string {
	if len(ids) == 0 {
		return "(No claim ids available)"
	}
	result := ""
	for i, id := range ids {
		if i >= 40 { // Limit to first 40 to avoid token bloat
			result += fmt.Sprintf("\n... and %d more ids", len(ids)-40)
			break
		}
		result += fmt.Sprintf("\n- `%s`", id)
	}
	return result
}

// InconclusiveIDs returns the ids of all inconclusive results, in input order
func InconclusiveIDs(results []model.ClaimResult) []string {
	var ids []string
	for _, res := range results {
		if res.Status == model.StatusInconclusive {
			ids = append(ids, res.ID)
		}
	}
	return ids
}
