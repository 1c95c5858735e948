package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ppiankov/lemma/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pipelineClaims = `claims:
  - id: square-binomial
    type: identity
    state_symbols: ["x"]
    lhs: "(x + 1)**2"
    rhs: "x**2 + 2*x + 1"
  - id: squares-grow
    type: induction
    predicate: "n**2 >= n"
    base_from: 1
  - id: broken
    type: identity
    state_symbols: ["x"]
    lhs: "x +"
    rhs: "x"
`

func writeClaims(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "claims.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.Concurrency.Workers = 2
	return cfg
}

func TestVerifyFile(t *testing.T) {
	p, err := NewPipeline(testConfig())
	require.NoError(t, err)

	rep, err := p.VerifyFile(context.Background(), writeClaims(t, pipelineClaims))
	require.NoError(t, err)
	require.Len(t, rep.Results, 3)

	byID := make(map[string]model.ClaimResult)
	for _, res := range rep.Results {
		byID[res.ID] = res
	}
	assert.Equal(t, model.StatusProved, byID["square-binomial"].Status)
	assert.Equal(t, model.StatusProved, byID["squares-grow"].Status)
	assert.Equal(t, model.StatusInconclusive, byID["broken"].Status)

	assert.Equal(t, 3, rep.Statistics.Total)
	assert.Equal(t, 2, rep.Statistics.Proved)
	assert.Equal(t, 1, rep.Statistics.Inconclusive)
}

func TestVerifyFileCached(t *testing.T) {
	cfg := testConfig()
	cfg.Cache.Enabled = true
	cfg.Cache.Dir = t.TempDir()

	p, err := NewPipeline(cfg)
	require.NoError(t, err)
	path := writeClaims(t, pipelineClaims)

	first, err := p.VerifyFile(context.Background(), path)
	require.NoError(t, err)

	// Second pipeline over the same cache dir must reproduce the verdicts
	p2, err := NewPipeline(cfg)
	require.NoError(t, err)
	second, err := p2.VerifyFile(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, second.Results, len(first.Results))
	for i := range first.Results {
		assert.Equal(t, first.Results[i].Status, second.Results[i].Status)
	}
}

func TestVerifyFileTrialsOverrideBypassesCache(t *testing.T) {
	cfg := testConfig()
	cfg.Cache.Enabled = true
	cfg.Cache.Dir = t.TempDir()
	cfg.Verify.TrialsOverride = 7

	p, err := NewPipeline(cfg)
	require.NoError(t, err)
	assert.Nil(t, p.store)
}

func TestVerifyFileMissing(t *testing.T) {
	p, err := NewPipeline(testConfig())
	require.NoError(t, err)

	_, err = p.VerifyFile(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDryRun(t *testing.T) {
	p, err := NewPipeline(testConfig())
	require.NoError(t, err)

	claims := `claims:
  - id: ok
    type: identity
    state_symbols: ["x"]
    lhs: "x"
    rhs: "x"
  - id: missing-rhs
    type: identity
    state_symbols: ["x"]
    lhs: "x"
`
	invalid, err := p.DryRun(writeClaims(t, claims))
	require.NoError(t, err)
	assert.Equal(t, 1, invalid)
}

func TestRenderReport(t *testing.T) {
	p, err := NewPipeline(testConfig())
	require.NoError(t, err)

	rep, err := p.VerifyFile(context.Background(), writeClaims(t, pipelineClaims))
	require.NoError(t, err)

	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "report.json")
	mdPath := filepath.Join(dir, "report.md")
	require.NoError(t, p.RenderReport(rep, jsonPath, mdPath))

	for _, path := range []string{jsonPath, mdPath} {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}
