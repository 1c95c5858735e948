package strategy

import (
	"fmt"
	"math/rand"

	"github.com/ppiankov/lemma/internal/model"
	"github.com/ppiankov/lemma/internal/symbolic"
)

// LyapunovInput describes an energy-descent claim: V should not increase
// (target "<= 0") or should strictly decrease (target "< 0") along one step
// of the update map.
type LyapunovInput struct {
	StateSymbols []string
	NextState    []string // one update expression per state symbol, in order
	V            string
	Unsafe       string // optional guard; samples where it is false are skipped
	Target       string // "<= 0" (default) or "< 0"
	Trials       int
	Ranges       map[string]model.Range
	KeepTrials   bool
}

// LyapunovTrial is one sampled evaluation of the delta
type LyapunovTrial struct {
	DV  float64 `json:"dV"`
	OK  bool    `json:"ok"`
	Err string  `json:"error,omitempty"`
}

// LyapunovReport is the lyapunov strategy's evidence. Passed is the
// canonical success field: the symbolic delta is diagnostic only and the
// verdict comes entirely from sampling.
type LyapunovReport struct {
	SymbolicDelta string          `json:"symbolic"`
	Target        string          `json:"target"`
	Trials        []LyapunovTrial `json:"trials,omitempty"`
	Evaluated     int             `json:"evaluated"`
	Skipped       int             `json:"skipped"`
	Failures      int             `json:"failures"`
	Passed        bool            `json:"passed"`
}

// Details exposes the report as the generic evidence map
func (r *LyapunovReport) Details() map[string]interface{} {
	d := map[string]interface{}{
		"symbolic":  r.SymbolicDelta,
		"target":    r.Target,
		"evaluated": r.Evaluated,
		"skipped":   r.Skipped,
		"failures":  r.Failures,
		"passed":    r.Passed,
	}
	if len(r.Trials) > 0 {
		trials := make([]interface{}, len(r.Trials))
		for i, t := range r.Trials {
			m := map[string]interface{}{"dV": t.DV, "ok": t.OK}
			if t.Err != "" {
				m = map[string]interface{}{"error": t.Err, "ok": false}
			}
			trials[i] = m
		}
		d["trials"] = trials
	}
	return d
}

// ProveLyapunov computes the symbolic one-step delta of V for inspection,
// then samples the configured domain and checks the delta against the
// target at every drawn point. Samples where the guard is false (or fails
// to evaluate) are skipped; evaluation errors on the delta itself count as
// failing samples.
func ProveLyapunov(in LyapunovInput, rng *rand.Rand) (*LyapunovReport, error) {
	if len(in.NextState) != len(in.StateSymbols) {
		return nil, fmt.Errorf("lyapunov: %d next-state expressions for %d state symbols",
			len(in.NextState), len(in.StateSymbols))
	}

	nextSubs := make(map[string]symbolic.Expr, len(in.StateSymbols))
	for i, s := range in.StateSymbols {
		e, err := symbolic.Parse(in.NextState[i])
		if err != nil {
			return nil, err
		}
		nextSubs[s] = e
	}

	v, err := symbolic.Parse(in.V)
	if err != nil {
		return nil, err
	}

	// dV = V(F(x)) - V(x), simplified once and kept as diagnostic text
	vNext := symbolic.Substitute(v, nextSubs)
	delta := symbolic.Simplify(&symbolic.Add{Terms: []symbolic.Expr{
		vNext,
		&symbolic.Mul{Factors: []symbolic.Expr{symbolic.Int(-1), v}},
	}})

	var guard symbolic.Expr
	if in.Unsafe != "" {
		guard, err = symbolic.Parse(in.Unsafe)
		if err != nil {
			return nil, err
		}
	}

	target := in.Target
	if target == "" {
		target = "<= 0"
	}

	trials := in.Trials
	if trials <= 0 {
		trials = DefaultLyapunovTrials
	}

	report := &LyapunovReport{
		SymbolicDelta: delta.String(),
		Target:        target,
		Passed:        true,
	}

	for i := 0; i < trials; i++ {
		point := samplePoint(rng, in.StateSymbols, in.Ranges, DefaultRange)

		if guard != nil {
			inRegion, err := symbolic.EvalBool(guard, point)
			if err != nil || !inRegion {
				report.Skipped++
				continue
			}
		}

		val, err := symbolic.Eval(delta, point)
		if err != nil {
			report.Evaluated++
			report.Failures++
			report.Passed = false
			if in.KeepTrials {
				report.Trials = append(report.Trials, LyapunovTrial{Err: err.Error()})
			}
			continue
		}

		ok := val <= descentTolerance
		if target == "< 0" {
			ok = val < -strictMargin
		}
		report.Evaluated++
		if !ok {
			report.Failures++
		}
		report.Passed = report.Passed && ok
		if in.KeepTrials {
			report.Trials = append(report.Trials, LyapunovTrial{DV: val, OK: ok})
		}
	}

	return report, nil
}
