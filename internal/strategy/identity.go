package strategy

import (
	"github.com/ppiankov/lemma/internal/symbolic"
)

// IdentityInput describes an exact symbolic equality claim. NextState maps
// a state variable to the expression for its updated value; inside LHS and
// RHS the updated value is referenced as "<name>_next".
type IdentityInput struct {
	StateSymbols []string
	InputSymbols []string
	NextState    map[string]string
	LHS          string
	RHS          string
}

// IdentityReport is the identity strategy's evidence. SymbolicEqual is the
// canonical success field.
type IdentityReport struct {
	SymbolicEqual bool   `json:"symbolic_equal"`
	Residual      string `json:"residual"`
	LHS           string `json:"lhs"`
	RHS           string `json:"rhs"`
}

// Details exposes the report as the generic evidence map carried on a
// ClaimResult
func (r *IdentityReport) Details() map[string]interface{} {
	return map[string]interface{}{
		"symbolic_equal": r.SymbolicEqual,
		"residual":       r.Residual,
		"lhs":            r.LHS,
		"rhs":            r.RHS,
	}
}

// ProveIdentity checks whether LHS - RHS simplifies to the literal zero.
// Fully deterministic, no sampling and no tolerance: equality is
// exact-symbolic only.
func ProveIdentity(in IdentityInput) (*IdentityReport, error) {
	// Bind each declared next-state reference to its parsed update
	// expression before simplifying
	nextSubs := make(map[string]symbolic.Expr)
	for _, s := range in.StateSymbols {
		src, ok := in.NextState[s]
		if !ok {
			continue
		}
		e, err := symbolic.Parse(src)
		if err != nil {
			return nil, err
		}
		nextSubs[s+"_next"] = e
	}

	lhs, err := symbolic.Parse(in.LHS)
	if err != nil {
		return nil, err
	}
	rhs, err := symbolic.Parse(in.RHS)
	if err != nil {
		return nil, err
	}

	lhs = symbolic.Substitute(lhs, nextSubs)
	rhs = symbolic.Substitute(rhs, nextSubs)

	residual := symbolic.Simplify(&symbolic.Add{Terms: []symbolic.Expr{
		lhs,
		&symbolic.Mul{Factors: []symbolic.Expr{symbolic.Int(-1), rhs}},
	}})

	return &IdentityReport{
		SymbolicEqual: symbolic.IsZero(residual),
		Residual:      residual.String(),
		LHS:           symbolic.Simplify(lhs).String(),
		RHS:           symbolic.Simplify(rhs).String(),
	}, nil
}
