package symbolic

import "math/big"

// Assumptions declares what is known about a single symbol when deciding
// comparisons symbolically. The induction strategy always assumes its
// variable is an integer with an inclusive lower bound; "positive",
// "nonzero" and "real" can be declared on top of that.
type Assumptions struct {
	Symbol     string
	LowerBound *big.Rat // inclusive; nil means unbounded below
	Integer    bool
	Positive   bool
	Nonzero    bool
	Real       bool
}

// effectiveLowerBound folds the positivity declaration into the bound
func (a *Assumptions) effectiveLowerBound() *big.Rat {
	lb := a.LowerBound
	if a.Positive {
		var onePos *big.Rat
		if a.Integer {
			onePos = big.NewRat(1, 1)
		} else {
			onePos = new(big.Rat) // positive reals: bound is open at 0
		}
		if lb == nil || lb.Cmp(onePos) < 0 {
			lb = onePos
		}
	}
	return lb
}

// decideCompare attempts to decide `diff op 0` under the assumptions. It
// shifts the assumed symbol to its lower bound (v = lb + m, m >= 0) and
// inspects the sign pattern of the resulting polynomial coefficients: if
// every coefficient is nonnegative the expression cannot go negative on the
// assumed domain, and symmetrically for nonpositive coefficients. Undecided
// cases return decided=false and leave the comparison symbolic.
func decideCompare(op CompareOp, diff Expr, asm *Assumptions) (value, decided bool) {
	lb := asm.effectiveLowerBound()
	if lb == nil {
		return false, false
	}

	shiftVar := "_m"
	shifted := Substitute(diff, map[string]Expr{
		asm.Symbol: &Add{Terms: []Expr{&Number{Val: new(big.Rat).Set(lb)}, Sym(shiftVar)}},
	})

	ts := collect(termsOf(shifted))

	var constCoeff *big.Rat = new(big.Rat)
	allNonNeg, allNonPos := true, true
	for _, t := range ts {
		if len(t.atoms) == 0 {
			constCoeff = t.coeff
		} else if len(t.atoms) == 1 {
			a := t.atoms[0]
			s, isSym := a.atom.(*Symbol)
			if !isSym || s.Name != shiftVar || !a.exp.IsInt() || a.exp.Sign() <= 0 {
				return false, false // not a polynomial in the shifted symbol
			}
		} else {
			return false, false
		}
		if t.coeff.Sign() < 0 {
			allNonNeg = false
		}
		if t.coeff.Sign() > 0 {
			allNonPos = false
		}
	}

	zero := len(ts) == 0

	switch op {
	case OpGe:
		if zero || allNonNeg {
			return true, true
		}
		if allNonPos && constCoeff.Sign() < 0 {
			return false, true
		}
	case OpGt:
		if allNonNeg && constCoeff.Sign() > 0 {
			return true, true
		}
		if zero || (allNonPos && constCoeff.Sign() <= 0) {
			return false, true
		}
	case OpLe:
		if zero || allNonPos {
			return true, true
		}
		if allNonNeg && constCoeff.Sign() > 0 {
			return false, true
		}
	case OpLt:
		if allNonPos && constCoeff.Sign() < 0 {
			return true, true
		}
		if zero || (allNonNeg && constCoeff.Sign() >= 0) {
			return false, true
		}
	case OpEq:
		if zero {
			return true, true
		}
		if allNonNeg && constCoeff.Sign() > 0 {
			return false, true
		}
		if allNonPos && constCoeff.Sign() < 0 {
			return false, true
		}
	case OpNe:
		if zero {
			return false, true
		}
		if allNonNeg && constCoeff.Sign() > 0 {
			return true, true
		}
		if allNonPos && constCoeff.Sign() < 0 {
			return true, true
		}
	}
	return false, false
}
