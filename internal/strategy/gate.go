package strategy

import (
	"math/rand"

	"github.com/ppiankov/lemma/internal/model"
	"github.com/ppiankov/lemma/internal/symbolic"
)

// GateInput describes a gate claim: two boolean predicates over a state
// space that should be mutually exclusive (never both true) and jointly
// exhaustive (never both false).
type GateInput struct {
	Symbols      []string
	ContinueCond string
	HaltCond     string
	Trials       int
	Ranges       map[string]model.Range
	KeepTrials   bool
}

// GateTrial is one sampled classification
type GateTrial struct {
	Continue bool   `json:"continue"`
	Halt     bool   `json:"halt"`
	OK       bool   `json:"ok"`
	Err      string `json:"error,omitempty"`
}

// GateReport is the gate strategy's evidence. Passed is the canonical
// success field.
type GateReport struct {
	Conflicts int         `json:"conflicts"`
	Misses    int         `json:"misses"`
	Errors    int         `json:"errors"`
	Trials    []GateTrial `json:"trials,omitempty"`
	Passed    bool        `json:"passed"`
}

// Details exposes the report as the generic evidence map
func (r *GateReport) Details() map[string]interface{} {
	d := map[string]interface{}{
		"conflicts": r.Conflicts,
		"misses":    r.Misses,
		"errors":    r.Errors,
		"passed":    r.Passed,
	}
	if len(r.Trials) > 0 {
		trials := make([]interface{}, len(r.Trials))
		for i, t := range r.Trials {
			if t.Err != "" {
				trials[i] = map[string]interface{}{"error": t.Err}
				continue
			}
			trials[i] = map[string]interface{}{"continue": t.Continue, "halt": t.Halt, "ok": t.OK}
		}
		d["trials"] = trials
	}
	return d
}

// VerifyGate samples random points in the configured domain, evaluates both
// predicates at each point, and counts conflicts (both true) and misses
// (both false). Per-trial evaluation failures are recorded as errors, not
// counted as conflicts or misses, and do not by themselves fail the claim.
func VerifyGate(in GateInput, rng *rand.Rand) (*GateReport, error) {
	cont, err := symbolic.Parse(in.ContinueCond)
	if err != nil {
		return nil, err
	}
	halt, err := symbolic.Parse(in.HaltCond)
	if err != nil {
		return nil, err
	}

	trials := in.Trials
	if trials <= 0 {
		trials = DefaultGateTrials
	}

	report := &GateReport{}

	for i := 0; i < trials; i++ {
		point := samplePoint(rng, in.Symbols, in.Ranges, DefaultGateRange)

		cv, cErr := symbolic.EvalBool(cont, point)
		hv, hErr := symbolic.EvalBool(halt, point)
		if cErr != nil || hErr != nil {
			report.Errors++
			if in.KeepTrials {
				msg := ""
				if cErr != nil {
					msg = cErr.Error()
				} else {
					msg = hErr.Error()
				}
				report.Trials = append(report.Trials, GateTrial{Err: msg})
			}
			continue
		}

		ok := !(cv && hv)
		if cv && hv {
			report.Conflicts++
		}
		if !cv && !hv {
			report.Misses++
			ok = false
		}
		if in.KeepTrials {
			report.Trials = append(report.Trials, GateTrial{Continue: cv, Halt: hv, OK: ok})
		}
	}

	report.Passed = report.Conflicts == 0 && report.Misses == 0
	return report, nil
}
