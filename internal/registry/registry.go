// Package registry routes each claim to its verification strategy and
// reduces the strategy's raw report to a tri-state verdict.
package registry

import (
	"errors"
	"fmt"
	"hash/fnv"
	"math/rand"

	"github.com/ppiankov/lemma/internal/model"
	"github.com/ppiankov/lemma/internal/strategy"
)

// Runner dispatches claims to strategies under a fixed configuration
type Runner struct {
	cfg *model.Config
}

// New creates a runner
func New(cfg *model.Config) *Runner {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	return &Runner{cfg: cfg}
}

// Run evaluates a single claim. It never panics and never returns an error:
// configuration problems, parse failures and unknown claim types all
// degrade to an inconclusive result carrying the cause, so one bad claim
// cannot abort a batch.
func (r *Runner) Run(spec model.ClaimSpec) model.ClaimResult {
	rng := rand.New(rand.NewSource(r.seedFor(spec.ID)))

	switch spec.Type {
	case model.ClaimTypeIdentity:
		return r.runIdentity(spec)
	case model.ClaimTypeInduction:
		return r.runInduction(spec)
	case model.ClaimTypeLyapunov:
		return r.runLyapunov(spec, rng)
	case model.ClaimTypeGate:
		return r.runGate(spec, rng)
	case model.ClaimTypeContraction:
		return r.runContraction(spec, rng)
	default:
		return model.ClaimResult{
			ID:     spec.ID,
			Type:   spec.Type,
			Status: model.StatusInconclusive,
			Details: map[string]interface{}{
				"error": fmt.Sprintf("unknown claim type %q", spec.Type),
			},
		}
	}
}

// seedFor derives a deterministic per-claim seed from the claim id so
// concurrent execution order cannot change any verdict
func (r *Runner) seedFor(id string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))
	return int64(h.Sum64()) ^ r.cfg.Verify.Seed
}

func (r *Runner) trials(configured int, fallback int) int {
	if r.cfg.Verify.TrialsOverride > 0 {
		return r.cfg.Verify.TrialsOverride
	}
	if configured > 0 {
		return configured
	}
	return fallback
}

func (r *Runner) runIdentity(spec model.ClaimSpec) model.ClaimResult {
	f := newFields(spec)
	in := strategy.IdentityInput{
		StateSymbols: f.stringSlice("state_symbols", true),
		InputSymbols: f.stringSlice("input_symbols", false),
		NextState:    f.stringMap("F_next"),
		LHS:          f.str("lhs", true),
		RHS:          f.str("rhs", true),
	}
	if f.err != nil {
		return degraded(spec, f.err)
	}

	rep, err := strategy.ProveIdentity(in)
	if err != nil {
		return degraded(spec, err)
	}

	status := model.StatusRejected
	if rep.SymbolicEqual {
		status = model.StatusProved
	}
	return model.ClaimResult{ID: spec.ID, Type: spec.Type, Status: status, Details: rep.Details()}
}

func (r *Runner) runInduction(spec model.ClaimSpec) model.ClaimResult {
	f := newFields(spec)
	nSymbol := f.strDefault("n_symbol", "n")
	in := strategy.InductionInput{
		Predicate:   f.str("predicate", true),
		NSymbol:     nSymbol,
		BaseFrom:    f.intDefault("base_from", 1),
		BaseTo:      f.intDefault("base_to", 1),
		Assumptions: f.assumptions(nSymbol),
	}
	if f.err != nil {
		return degraded(spec, f.err)
	}

	rep, err := strategy.ProveInduction(in)
	if err != nil {
		return degraded(spec, err)
	}

	status := model.StatusRejected
	if rep.Proved {
		status = model.StatusProved
	}
	return model.ClaimResult{ID: spec.ID, Type: spec.Type, Status: status, Details: rep.Details()}
}

func (r *Runner) runLyapunov(spec model.ClaimSpec, rng *rand.Rand) model.ClaimResult {
	f := newFields(spec)
	in := strategy.LyapunovInput{
		StateSymbols: f.stringSlice("state_symbols", true),
		NextState:    f.stringSlice("F_next", true),
		V:            f.str("V", true),
		Unsafe:       f.strDefault("unsafe_condition", ""),
		Target:       f.strDefault("target", "<= 0"),
		Trials:       r.trials(f.intDefault("numeric_trials", 0), strategy.DefaultLyapunovTrials),
		Ranges:       f.ranges(),
		KeepTrials:   r.cfg.Verify.KeepTrials,
	}
	if f.err != nil {
		return degraded(spec, f.err)
	}

	rep, err := strategy.ProveLyapunov(in, rng)
	if err != nil {
		return degraded(spec, err)
	}

	// Passed is the single canonical success field of the lyapunov report
	status := model.StatusRejected
	if rep.Passed {
		status = model.StatusProved
	}
	return model.ClaimResult{ID: spec.ID, Type: spec.Type, Status: status, Details: rep.Details()}
}

func (r *Runner) runGate(spec model.ClaimSpec, rng *rand.Rand) model.ClaimResult {
	f := newFields(spec)
	in := strategy.GateInput{
		Symbols:      f.stringSlice("symbols", true),
		ContinueCond: f.str("continue_condition", true),
		HaltCond:     f.str("halt_condition", true),
		Trials:       r.trials(f.intDefault("numeric_trials", 0), strategy.DefaultGateTrials),
		Ranges:       f.ranges(),
		KeepTrials:   r.cfg.Verify.KeepTrials,
	}
	if f.err != nil {
		return degraded(spec, f.err)
	}

	rep, err := strategy.VerifyGate(in, rng)
	if err != nil {
		return degraded(spec, err)
	}

	status := model.StatusRejected
	if rep.Passed {
		status = model.StatusProved
	}
	return model.ClaimResult{ID: spec.ID, Type: spec.Type, Status: status, Details: rep.Details()}
}

func (r *Runner) runContraction(spec model.ClaimSpec, rng *rand.Rand) model.ClaimResult {
	f := newFields(spec)
	in := strategy.ContractionInput{
		StateSymbols: f.stringSlice("state_symbols", true),
		NextState:    f.stringSlice("F_next", true),
		LBound:       f.float("L_bound", true),
		Norm:         f.strDefault("norm", "l2"),
		Trials:       r.trials(f.intDefault("numeric_trials", 0), strategy.DefaultContractionTrials),
		Ranges:       f.ranges(),
	}
	if f.err != nil {
		return degraded(spec, f.err)
	}

	rep, err := strategy.CheckContraction(in, rng)
	if err != nil {
		return degraded(spec, err)
	}

	status := model.StatusRejected
	if rep.Passed {
		status = model.StatusProved
	}
	return model.ClaimResult{ID: spec.ID, Type: spec.Type, Status: status, Details: rep.Details()}
}

// degraded converts configuration and parse failures into an inconclusive
// verdict for this claim only
func degraded(spec model.ClaimSpec, err error) model.ClaimResult {
	details := map[string]interface{}{"error": err.Error()}

	var parseErr *model.ParseError
	if errors.As(err, &parseErr) {
		details["parse_error"] = parseErr.Reason
		details["expression"] = parseErr.Expr
	}
	var cfgErr *model.ConfigError
	if errors.As(err, &cfgErr) {
		details["missing_field"] = cfgErr.Field
	}

	return model.ClaimResult{
		ID:      spec.ID,
		Type:    spec.Type,
		Status:  model.StatusInconclusive,
		Details: details,
	}
}

// StatusFromDetails re-derives a verdict from a persisted details map. This
// is a migration shim for reports written by older versions whose lyapunov
// strategy used shifting success keys; new reports always carry the
// canonical field for their type.
func StatusFromDetails(t model.ClaimType, details map[string]interface{}) model.Status {
	boolAt := func(key string) bool {
		v, ok := details[key]
		if !ok {
			return false
		}
		b, ok := v.(bool)
		return ok && b
	}

	switch t {
	case model.ClaimTypeIdentity:
		if boolAt("symbolic_equal") {
			return model.StatusProved
		}
	case model.ClaimTypeInduction:
		if boolAt("proved") {
			return model.StatusProved
		}
	case model.ClaimTypeLyapunov:
		// Tolerate historical key drift: passed is canonical, the rest are
		// legacy spellings
		if boolAt("passed") || boolAt("symbolic_ok") || boolAt("ok") || boolAt("proved") {
			return model.StatusProved
		}
	case model.ClaimTypeGate, model.ClaimTypeContraction:
		if boolAt("passed") {
			return model.StatusProved
		}
	default:
		return model.StatusInconclusive
	}
	return model.StatusRejected
}
