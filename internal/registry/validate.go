package registry

import (
	"fmt"

	"github.com/ppiankov/lemma/internal/model"
)

// Validate checks that a claim carries every required type-specific field,
// without running its strategy. Backs the verify --dry-run listing.
func (r *Runner) Validate(spec model.ClaimSpec) error {
	f := newFields(spec)
	switch spec.Type {
	case model.ClaimTypeIdentity:
		f.stringSlice("state_symbols", true)
		f.str("lhs", true)
		f.str("rhs", true)
	case model.ClaimTypeInduction:
		f.str("predicate", true)
	case model.ClaimTypeLyapunov:
		f.stringSlice("state_symbols", true)
		f.stringSlice("F_next", true)
		f.str("V", true)
		f.ranges()
	case model.ClaimTypeGate:
		f.stringSlice("symbols", true)
		f.str("continue_condition", true)
		f.str("halt_condition", true)
		f.ranges()
	case model.ClaimTypeContraction:
		f.stringSlice("state_symbols", true)
		f.stringSlice("F_next", true)
		f.float("L_bound", true)
		f.ranges()
	default:
		return fmt.Errorf("unknown claim type %q", spec.Type)
	}
	return f.err
}
