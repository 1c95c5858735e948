package strategy

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/ppiankov/lemma/internal/model"
	"github.com/ppiankov/lemma/internal/symbolic"
)

// ContractionInput describes a Lipschitz-bound claim on a state update map:
// the Jacobian's operator norm should stay below LBound everywhere in the
// sampled domain.
type ContractionInput struct {
	StateSymbols []string
	NextState    []string
	LBound       float64
	Norm         string // "l2" (largest singular value, default) or "linf" (max abs row sum)
	Trials       int
	Ranges       map[string]model.Range
}

// ContractionReport is the contraction strategy's evidence. Passed is the
// canonical success field.
type ContractionReport struct {
	MaxNorm  float64 `json:"max_norm"`
	Samples  int     `json:"samples"`
	Norm     string  `json:"norm"`
	LBound   float64 `json:"L_bound"`
	Jacobian string  `json:"jacobian"`
	Err      string  `json:"error,omitempty"`
	Passed   bool    `json:"passed"`
}

// Details exposes the report as the generic evidence map
func (r *ContractionReport) Details() map[string]interface{} {
	d := map[string]interface{}{
		"max_norm": r.MaxNorm,
		"samples":  r.Samples,
		"norm":     r.Norm,
		"L_bound":  r.LBound,
		"jacobian": r.Jacobian,
		"passed":   r.Passed,
	}
	if r.Err != "" {
		d["error"] = r.Err
	}
	return d
}

// CheckContraction builds the symbolic Jacobian of the update map once,
// compiles every entry into a numeric closure, then samples the domain and
// tracks the largest operator norm observed. Any evaluation error is
// conservative: the observed norm becomes +Inf and sampling stops.
func CheckContraction(in ContractionInput, rng *rand.Rand) (*ContractionReport, error) {
	n := len(in.StateSymbols)
	if len(in.NextState) != n {
		return nil, fmt.Errorf("contraction: %d next-state expressions for %d state symbols",
			len(in.NextState), n)
	}

	norm := in.Norm
	if norm == "" {
		norm = "l2"
	}
	if norm != "l2" && norm != "linf" {
		return nil, fmt.Errorf("contraction: unknown norm %q (want l2 or linf)", norm)
	}

	// Symbolic Jacobian, built and compiled exactly once per claim
	entries := make([]symbolic.EvalFunc, 0, n*n)
	rows := make([]string, 0, n)
	for _, src := range in.NextState {
		f, err := symbolic.Parse(src)
		if err != nil {
			return nil, err
		}
		rowParts := make([]string, 0, n)
		for _, s := range in.StateSymbols {
			d, err := symbolic.Diff(f, s)
			if err != nil {
				return nil, fmt.Errorf("contraction: jacobian entry d(%s)/d%s: %w", src, s, err)
			}
			simplified := symbolic.Simplify(d)
			compiled, err := symbolic.Compile(simplified, in.StateSymbols)
			if err != nil {
				return nil, fmt.Errorf("contraction: compile jacobian entry: %w", err)
			}
			entries = append(entries, compiled)
			rowParts = append(rowParts, simplified.String())
		}
		rows = append(rows, "["+strings.Join(rowParts, ", ")+"]")
	}

	trials := in.Trials
	if trials <= 0 {
		trials = DefaultContractionTrials
	}

	report := &ContractionReport{
		Samples:  trials,
		Norm:     norm,
		LBound:   in.LBound,
		Jacobian: "[" + strings.Join(rows, ", ") + "]",
	}

	jac := mat.NewDense(n, n, nil)
	vals := make([]float64, n)

	maxNorm := 0.0
	for t := 0; t < trials; t++ {
		point := samplePoint(rng, in.StateSymbols, in.Ranges, DefaultRange)
		for i, s := range in.StateSymbols {
			vals[i] = point[s]
		}

		evalErr := fillJacobian(jac, entries, n, vals)
		if evalErr != nil {
			// Fail fast and conservatively: an unevaluable Jacobian means
			// the bound cannot be certified anywhere
			maxNorm = math.Inf(1)
			report.Err = evalErr.Error()
			break
		}

		nval := operatorNorm(jac, norm)
		if nval > maxNorm {
			maxNorm = nval
		}
	}

	report.MaxNorm = maxNorm
	report.Passed = maxNorm <= in.LBound+normTolerance
	return report, nil
}

func fillJacobian(jac *mat.Dense, entries []symbolic.EvalFunc, n int, vals []float64) error {
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v, err := entries[i*n+j](vals)
			if err != nil {
				return err
			}
			jac.Set(i, j, v)
		}
	}
	return nil
}

// operatorNorm computes the requested matrix norm: largest singular value
// for l2, maximum absolute row sum for linf
func operatorNorm(m *mat.Dense, norm string) float64 {
	if norm == "linf" {
		r, c := m.Dims()
		maxSum := 0.0
		for i := 0; i < r; i++ {
			sum := 0.0
			for j := 0; j < c; j++ {
				sum += math.Abs(m.At(i, j))
			}
			if sum > maxSum {
				maxSum = sum
			}
		}
		return maxSum
	}

	var svd mat.SVD
	if ok := svd.Factorize(m, mat.SVDNone); !ok {
		return math.Inf(1)
	}
	values := svd.Values(nil)
	maxSV := 0.0
	for _, v := range values {
		if v > maxSV {
			maxSV = v
		}
	}
	return maxSV
}
