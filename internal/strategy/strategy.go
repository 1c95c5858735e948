// Package strategy implements the five claim verification strategies:
// identity, induction, lyapunov, gate and contraction. Each strategy is a
// pure function of its input plus, for the sampling strategies, an explicit
// random generator supplied by the caller, never the global source, so
// concurrent runs stay reproducible under deterministic seeding.
package strategy

import (
	"math/rand"

	"github.com/ppiankov/lemma/internal/model"
)

// Default sample counts and domains, matching the documented dispatcher
// defaults
const (
	DefaultLyapunovTrials    = 400
	DefaultGateTrials        = 300
	DefaultContractionTrials = 300
)

var (
	// DefaultRange is the sampling domain for lyapunov and contraction
	DefaultRange = model.Range{Low: -2, High: 2}
	// DefaultGateRange is the wider sampling domain for gate claims
	DefaultGateRange = model.Range{Low: -3, High: 3}
)

// Numeric tolerances for sampled comparisons
const (
	descentTolerance = 1e-9 // slack for the "<= 0" lyapunov target
	strictMargin     = 1e-6 // required margin for the "< 0" lyapunov target
	normTolerance    = 1e-9 // slack on the contraction bound
)

// samplePoint draws one uniform point for each symbol, in symbol order so a
// seeded generator reproduces the same sequence
func samplePoint(rng *rand.Rand, symbols []string, ranges map[string]model.Range, def model.Range) map[string]float64 {
	point := make(map[string]float64, len(symbols))
	for _, s := range symbols {
		lo, hi := def.Low, def.High
		if r, ok := ranges[s]; ok {
			lo, hi = r.Low, r.High
		}
		point[s] = lo + rng.Float64()*(hi-lo)
	}
	return point
}
