package registry

import (
	"testing"

	"github.com/ppiankov/lemma/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunner() *Runner {
	return New(model.DefaultConfig())
}

func TestRunIdentityProved(t *testing.T) {
	res := newRunner().Run(model.ClaimSpec{
		ID:   "sum-invariant",
		Type: model.ClaimTypeIdentity,
		Data: map[string]interface{}{
			"state_symbols": []interface{}{"s"},
			"F_next":        map[string]interface{}{"s": "s + x"},
			"lhs":           "s_next",
			"rhs":           "s + x",
		},
	})
	assert.Equal(t, model.StatusProved, res.Status)
	assert.Equal(t, true, res.Details["symbolic_equal"])
}

func TestRunIdentityRejected(t *testing.T) {
	res := newRunner().Run(model.ClaimSpec{
		ID:   "sum-broken",
		Type: model.ClaimTypeIdentity,
		Data: map[string]interface{}{
			"state_symbols": []interface{}{"s"},
			"F_next":        map[string]interface{}{"s": "s + 1"},
			"lhs":           "s_next",
			"rhs":           "s + 2",
		},
	})
	assert.Equal(t, model.StatusRejected, res.Status)
}

func TestRunUnknownTypeInconclusive(t *testing.T) {
	res := newRunner().Run(model.ClaimSpec{
		ID:   "mystery",
		Type: "bisimulation",
		Data: map[string]interface{}{},
	})
	assert.Equal(t, model.StatusInconclusive, res.Status)
	assert.Contains(t, res.Details["error"], "unknown claim type")
}

func TestRunMissingFieldInconclusive(t *testing.T) {
	res := newRunner().Run(model.ClaimSpec{
		ID:   "no-lhs",
		Type: model.ClaimTypeIdentity,
		Data: map[string]interface{}{
			"state_symbols": []interface{}{"s"},
			"F_next":        map[string]interface{}{"s": "s"},
			"rhs":           "s",
		},
	})
	assert.Equal(t, model.StatusInconclusive, res.Status)
	assert.Equal(t, "lhs", res.Details["missing_field"])
}

func TestRunParseErrorInconclusive(t *testing.T) {
	res := newRunner().Run(model.ClaimSpec{
		ID:   "bad-expr",
		Type: model.ClaimTypeIdentity,
		Data: map[string]interface{}{
			"state_symbols": []interface{}{"s"},
			"F_next":        map[string]interface{}{"s": "s +"},
			"lhs":           "s_next",
			"rhs":           "s",
		},
	})
	assert.Equal(t, model.StatusInconclusive, res.Status)
	assert.NotEmpty(t, res.Details["parse_error"])
}

func TestRunInduction(t *testing.T) {
	res := newRunner().Run(model.ClaimSpec{
		ID:   "square-bound",
		Type: model.ClaimTypeInduction,
		Data: map[string]interface{}{
			"predicate": "n**2 >= n",
			"base_from": 1,
			"base_to":   2,
		},
	})
	assert.Equal(t, model.StatusProved, res.Status)
	assert.Equal(t, "n", res.Details["n_symbol"], "n_symbol should default to n")
}

func TestRunLyapunov(t *testing.T) {
	res := newRunner().Run(model.ClaimSpec{
		ID:   "descent",
		Type: model.ClaimTypeLyapunov,
		Data: map[string]interface{}{
			"state_symbols": []interface{}{"x"},
			"F_next":        []interface{}{"0.5*x"},
			"V":             "x**2",
		},
	})
	assert.Equal(t, model.StatusProved, res.Status)
	assert.Equal(t, 400, res.Details["evaluated"])
}

func TestRunGate(t *testing.T) {
	res := newRunner().Run(model.ClaimSpec{
		ID:   "loop-gate",
		Type: model.ClaimTypeGate,
		Data: map[string]interface{}{
			"symbols":            []interface{}{"N", "eps"},
			"continue_condition": "N > eps",
			"halt_condition":     "N <= eps",
		},
	})
	assert.Equal(t, model.StatusProved, res.Status)
}

func TestRunContraction(t *testing.T) {
	res := newRunner().Run(model.ClaimSpec{
		ID:   "halving",
		Type: model.ClaimTypeContraction,
		Data: map[string]interface{}{
			"state_symbols": []interface{}{"x"},
			"F_next":        []interface{}{"0.5*x"},
			"L_bound":       0.6,
		},
	})
	assert.Equal(t, model.StatusProved, res.Status)
}

func TestRunDeterministicAcrossCalls(t *testing.T) {
	spec := model.ClaimSpec{
		ID:   "repeatable",
		Type: model.ClaimTypeGate,
		Data: map[string]interface{}{
			"symbols":            []interface{}{"N"},
			"continue_condition": "N > 0",
			"halt_condition":     "N <= 0",
			"numeric_trials":     50,
		},
	}

	r := newRunner()
	a := r.Run(spec)
	b := r.Run(spec)
	assert.Equal(t, a, b)
}

func TestRunSeedChangesSampling(t *testing.T) {
	spec := model.ClaimSpec{
		ID:   "seeded",
		Type: model.ClaimTypeLyapunov,
		Data: map[string]interface{}{
			"state_symbols":  []interface{}{"x"},
			"F_next":         []interface{}{"0.5*x"},
			"V":              "x**2",
			"numeric_trials": 10,
		},
	}

	cfgA := model.DefaultConfig()
	cfgA.Verify.KeepTrials = true
	cfgB := model.DefaultConfig()
	cfgB.Verify.KeepTrials = true
	cfgB.Verify.Seed = 99

	a := New(cfgA).Run(spec)
	b := New(cfgB).Run(spec)

	// Same verdict but a different sampled sequence
	assert.Equal(t, a.Status, b.Status)
	assert.NotEqual(t, a.Details["trials"], b.Details["trials"])
}

func TestRunTrialsOverride(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Verify.TrialsOverride = 17

	res := New(cfg).Run(model.ClaimSpec{
		ID:   "few-trials",
		Type: model.ClaimTypeLyapunov,
		Data: map[string]interface{}{
			"state_symbols": []interface{}{"x"},
			"F_next":        []interface{}{"0.5*x"},
			"V":             "x**2",
		},
	})
	assert.Equal(t, model.StatusProved, res.Status)
	assert.Equal(t, 17, res.Details["evaluated"])
}

func TestRunRangesFromData(t *testing.T) {
	res := newRunner().Run(model.ClaimSpec{
		ID:   "pinned-range",
		Type: model.ClaimTypeLyapunov,
		Data: map[string]interface{}{
			"state_symbols": []interface{}{"x"},
			"F_next":        []interface{}{"2*x"},
			"V":             "x**2",
			"ranges":        map[string]interface{}{"x": []interface{}{0.0, 0.0}},
		},
	})
	// Growth map, but the domain is pinned to the origin where dV = 0
	assert.Equal(t, model.StatusProved, res.Status)
}

func TestRunBadRangeInconclusive(t *testing.T) {
	res := newRunner().Run(model.ClaimSpec{
		ID:   "inverted-range",
		Type: model.ClaimTypeLyapunov,
		Data: map[string]interface{}{
			"state_symbols": []interface{}{"x"},
			"F_next":        []interface{}{"0.5*x"},
			"V":             "x**2",
			"ranges":        map[string]interface{}{"x": []interface{}{2.0, -2.0}},
		},
	})
	assert.Equal(t, model.StatusInconclusive, res.Status)
}

func TestValidate(t *testing.T) {
	r := newRunner()

	require.NoError(t, r.Validate(model.ClaimSpec{
		ID:   "ok",
		Type: model.ClaimTypeIdentity,
		Data: map[string]interface{}{
			"state_symbols": []interface{}{"s"},
			"F_next":        map[string]interface{}{"s": "s"},
			"lhs":           "s_next",
			"rhs":           "s",
		},
	}))

	assert.Error(t, r.Validate(model.ClaimSpec{
		ID:   "missing",
		Type: model.ClaimTypeGate,
		Data: map[string]interface{}{"symbols": []interface{}{"N"}},
	}))

	assert.Error(t, r.Validate(model.ClaimSpec{
		ID:   "unknown",
		Type: "telepathy",
		Data: map[string]interface{}{},
	}))
}

func TestStatusFromDetailsLegacyKeys(t *testing.T) {
	assert.Equal(t, model.StatusProved,
		StatusFromDetails(model.ClaimTypeLyapunov, map[string]interface{}{"passed": true}))
	assert.Equal(t, model.StatusProved,
		StatusFromDetails(model.ClaimTypeLyapunov, map[string]interface{}{"symbolic_ok": true}))
	assert.Equal(t, model.StatusProved,
		StatusFromDetails(model.ClaimTypeLyapunov, map[string]interface{}{"ok": true}))
	assert.Equal(t, model.StatusRejected,
		StatusFromDetails(model.ClaimTypeLyapunov, map[string]interface{}{"passed": false}))
	assert.Equal(t, model.StatusProved,
		StatusFromDetails(model.ClaimTypeIdentity, map[string]interface{}{"symbolic_equal": true}))
	assert.Equal(t, model.StatusInconclusive,
		StatusFromDetails("telepathy", map[string]interface{}{"passed": true}))
}
