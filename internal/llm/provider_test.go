package llm

import (
	"strings"
	"testing"

	"github.com/ppiankov/lemma/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResults() []model.ClaimResult {
	return []model.ClaimResult{
		{ID: "ok-1", Type: model.ClaimTypeIdentity, Status: model.StatusProved},
		{ID: "bad-1", Type: model.ClaimTypeLyapunov, Status: model.StatusInconclusive,
			Details: map[string]interface{}{"error": "missing field: V"}},
		{ID: "bad-2", Type: model.ClaimTypeGate, Status: model.StatusInconclusive,
			Details: map[string]interface{}{"error": "evaluation timed out", "timeout": true}},
	}
}

func TestBuildPromptDescribesInconclusiveOnly(t *testing.T) {
	prompt := BuildPrompt(sampleResults(), []string{"ok-1", "bad-1", "bad-2"})

	assert.Contains(t, prompt, "`bad-1`")
	assert.Contains(t, prompt, "missing field: V")
	assert.Contains(t, prompt, "`bad-2`")
	assert.Contains(t, prompt, "evaluation timed out")

	// The proved claim appears in the allowlist but is never described as
	// something to diagnose
	assert.NotContains(t, prompt, "ok-1 could not")
	assert.Contains(t, prompt, "NEVER overturn a verdict")
}

func TestBuildPromptAllowlistLimit(t *testing.T) {
	ids := make([]string, 60)
	for i := range ids {
		ids[i] = strings.Repeat("c", 3)
	}
	prompt := BuildPrompt(nil, ids)
	assert.Contains(t, prompt, "more ids")
}

func TestInconclusiveIDs(t *testing.T) {
	ids := InconclusiveIDs(sampleResults())
	assert.Equal(t, []string{"bad-1", "bad-2"}, ids)

	assert.Empty(t, InconclusiveIDs([]model.ClaimResult{
		{ID: "a", Status: model.StatusProved},
	}))
}

func TestExtractClaimRefs(t *testing.T) {
	text := "Claim `bad-1` misses a field; `bad-2` timed out. `bad-1` again."
	refs := extractClaimRefs(text)
	assert.Equal(t, []string{"bad-1", "bad-2"}, refs)

	assert.Empty(t, extractClaimRefs("nothing quoted here"))
}

func TestNewProviderDisabled(t *testing.T) {
	p, err := NewProvider(Config{Provider: ""})
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestNewProviderUnknown(t *testing.T) {
	_, err := NewProvider(Config{Provider: "psychic"})
	assert.Error(t, err)
}

func TestNewProviderRequiresKeys(t *testing.T) {
	_, err := NewProvider(Config{Provider: "openai"})
	assert.Error(t, err)

	_, err = NewProvider(Config{Provider: "anthropic"})
	assert.Error(t, err)

	// Ollama needs no key
	p, err := NewProvider(Config{Provider: "ollama"})
	require.NoError(t, err)
	assert.Equal(t, "ollama", p.Name())
}

func TestConfigFromModel(t *testing.T) {
	cfg := ConfigFromModel(model.LLMConfig{
		Provider:  "openai",
		Model:     "gpt-4o-mini",
		APIKey:    "sk-test",
		Timeout:   10,
		MaxTokens: 400,
	})
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, 400, cfg.MaxTokens)
	assert.True(t, cfg.StrictGrounding, "grounding must always be enforced")
}
