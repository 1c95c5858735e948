package symbolic

import (
	"math/big"
	"sort"
	"strings"
)

// Integer powers of sums are expanded up to this exponent; larger exponents
// stay as opaque power atoms so simplification cannot blow up.
const maxExpandExp = 16

// Simplify fully simplifies an expression: arithmetic is expanded and
// collected into a canonical sum of terms over exact rationals, boolean
// structure is folded wherever operands reduce to constants.
func Simplify(e Expr) Expr {
	return simplifyWith(e, nil)
}

// SimplifyWith simplifies like Simplify but additionally decides
// comparisons that follow from the given assumptions (used by the induction
// strategy's step check).
func SimplifyWith(e Expr, asm *Assumptions) Expr {
	return simplifyWith(e, asm)
}

func simplifyWith(e Expr, asm *Assumptions) Expr {
	switch v := e.(type) {
	case *BoolLit:
		return v

	case *Compare:
		l := fromTerms(collect(termsOf(v.L)))
		r := fromTerms(collect(termsOf(v.R)))
		diff := fromTerms(collect(termsOf(&Add{Terms: []Expr{l, &Mul{Factors: []Expr{Int(-1), r}}}})))
		if n, ok := diff.(*Number); ok {
			return boolLit(evalCompareSign(v.Op, n.Val.Sign()))
		}
		if asm != nil {
			if val, decided := decideCompare(v.Op, diff, asm); decided {
				return boolLit(val)
			}
		}
		return &Compare{Op: v.Op, L: l, R: r}

	case *And:
		out := make([]Expr, 0, len(v.Terms))
		for _, t := range v.Terms {
			s := simplifyWith(t, asm)
			if b, ok := s.(*BoolLit); ok {
				if !b.Val {
					return False
				}
				continue // drop literal true
			}
			out = append(out, s)
		}
		switch len(out) {
		case 0:
			return True
		case 1:
			return out[0]
		}
		return &And{Terms: out}

	case *Or:
		out := make([]Expr, 0, len(v.Terms))
		for _, t := range v.Terms {
			s := simplifyWith(t, asm)
			if b, ok := s.(*BoolLit); ok {
				if b.Val {
					return True
				}
				continue
			}
			out = append(out, s)
		}
		switch len(out) {
		case 0:
			return False
		case 1:
			return out[0]
		}
		return &Or{Terms: out}

	case *Not:
		s := simplifyWith(v.X, asm)
		if b, ok := s.(*BoolLit); ok {
			return boolLit(!b.Val)
		}
		if c, ok := s.(*Compare); ok {
			return &Compare{Op: negateOp(c.Op), L: c.L, R: c.R}
		}
		return &Not{X: s}

	default:
		return fromTerms(collect(termsOf(e)))
	}
}

func boolLit(v bool) *BoolLit {
	if v {
		return True
	}
	return False
}

func negateOp(op CompareOp) CompareOp {
	switch op {
	case OpEq:
		return OpNe
	case OpNe:
		return OpEq
	case OpLt:
		return OpGe
	case OpLe:
		return OpGt
	case OpGt:
		return OpLe
	default:
		return OpLt
	}
}

// evalCompareSign decides op against the sign of LHS-RHS
func evalCompareSign(op CompareOp, sign int) bool {
	switch op {
	case OpEq:
		return sign == 0
	case OpNe:
		return sign != 0
	case OpLt:
		return sign < 0
	case OpLe:
		return sign <= 0
	case OpGt:
		return sign > 0
	default:
		return sign >= 0
	}
}

// atomPow is one irreducible factor raised to a rational exponent
type atomPow struct {
	atom Expr
	exp  *big.Rat
}

// term is coeff * product(atoms), the unit of the canonical sum form
type term struct {
	coeff *big.Rat
	atoms []atomPow
}

func oneTerm() term {
	return term{coeff: big.NewRat(1, 1)}
}

func numTerm(r *big.Rat) term {
	return term{coeff: new(big.Rat).Set(r)}
}

func (t term) key() string {
	parts := make([]string, len(t.atoms))
	for i, a := range t.atoms {
		parts[i] = a.atom.String() + "^" + a.exp.RatString()
	}
	return strings.Join(parts, "|")
}

func (t term) degree() float64 {
	d := 0.0
	for _, a := range t.atoms {
		f, _ := a.exp.Float64()
		d += f
	}
	return d
}

// termsOf converts e into an expanded list of terms. Products and small
// integer powers of sums are multiplied out so like terms can cancel.
func termsOf(e Expr) []term {
	switch v := e.(type) {
	case *Number:
		return []term{numTerm(v.Val)}

	case *Symbol:
		return []term{{coeff: big.NewRat(1, 1), atoms: []atomPow{{atom: v, exp: big.NewRat(1, 1)}}}}

	case *Add:
		var out []term
		for _, t := range v.Terms {
			out = append(out, termsOf(t)...)
		}
		return out

	case *Mul:
		acc := []term{oneTerm()}
		for _, f := range v.Factors {
			acc = crossMul(acc, termsOf(f))
		}
		return acc

	case *Pow:
		return powTerms(v.Base, v.Exp)

	case *Call:
		return []term{callTerm(v)}

	default:
		// Boolean node in arithmetic position: keep as an opaque atom
		return []term{{coeff: big.NewRat(1, 1), atoms: []atomPow{{atom: e, exp: big.NewRat(1, 1)}}}}
	}
}

func crossMul(a, b []term) []term {
	out := make([]term, 0, len(a)*len(b))
	for _, x := range a {
		for _, y := range b {
			out = append(out, mulTerm(x, y))
		}
	}
	return out
}

func mulTerm(a, b term) term {
	c := new(big.Rat).Mul(a.coeff, b.coeff)
	if c.Sign() == 0 {
		return term{coeff: c}
	}
	merged := make([]atomPow, 0, len(a.atoms)+len(b.atoms))
	merged = append(merged, a.atoms...)
	for _, bp := range b.atoms {
		found := false
		for i := range merged {
			if merged[i].atom.String() == bp.atom.String() {
				exp := new(big.Rat).Add(merged[i].exp, bp.exp)
				merged[i] = atomPow{atom: merged[i].atom, exp: exp}
				found = true
				break
			}
		}
		if !found {
			merged = append(merged, atomPow{atom: bp.atom, exp: new(big.Rat).Set(bp.exp)})
		}
	}
	// Drop zero exponents, fold numeric atoms with integer exponents
	kept := merged[:0]
	for _, ap := range merged {
		if ap.exp.Sign() == 0 {
			continue
		}
		if n, ok := ap.atom.(*Number); ok && ap.exp.IsInt() && ap.exp.Num().IsInt64() {
			c.Mul(c, ratPowInt(n.Val, ap.exp.Num()))
			continue
		}
		kept = append(kept, ap)
	}
	sort.Slice(kept, func(i, j int) bool {
		return kept[i].atom.String() < kept[j].atom.String()
	})
	return term{coeff: c, atoms: kept}
}

// ratPowInt raises r to an integer power that fits machine range
func ratPowInt(r *big.Rat, k *big.Int) *big.Rat {
	n := k.Int64()
	out := big.NewRat(1, 1)
	base := new(big.Rat).Set(r)
	neg := n < 0
	if neg {
		n = -n
	}
	for i := int64(0); i < n; i++ {
		out.Mul(out, base)
	}
	if neg {
		out.Inv(out)
	}
	return out
}

func powTerms(baseE, expE Expr) []term {
	base := fromTerms(collect(termsOf(baseE)))
	exp := fromTerms(collect(termsOf(expE)))

	en, expIsNum := exp.(*Number)

	// Numeric base with numeric exponent: fold exactly when possible
	if bn, ok := base.(*Number); ok && expIsNum {
		if folded, ok := ratPowRat(bn.Val, en.Val); ok {
			return []term{numTerm(folded)}
		}
	}

	if expIsNum && en.Val.IsInt() {
		k := en.Val.Num().Int64()
		switch {
		case k == 0:
			return []term{oneTerm()}
		case k > 0 && k <= maxExpandExp:
			bt := termsOf(base)
			acc := []term{oneTerm()}
			for i := int64(0); i < k; i++ {
				acc = crossMul(acc, bt)
			}
			return acc
		case k < 0:
			bt := collect(termsOf(base))
			if len(bt) == 1 && bt[0].coeff.Sign() != 0 {
				inv := invTerm(bt[0])
				acc := []term{oneTerm()}
				for i := int64(0); i < -k; i++ {
					acc = crossMul(acc, []term{inv})
				}
				return acc
			}
		}
	}

	// Single-atom base with rational exponent: combine exponents
	if expIsNum {
		bt := collect(termsOf(base))
		if len(bt) == 1 && len(bt[0].atoms) == 1 && bt[0].coeff.Cmp(big.NewRat(1, 1)) == 0 {
			a := bt[0].atoms[0]
			return []term{{
				coeff: big.NewRat(1, 1),
				atoms: []atomPow{{atom: a.atom, exp: new(big.Rat).Mul(a.exp, en.Val)}},
			}}
		}
	}

	// Irreducible: keep the whole power as one atom
	return []term{{
		coeff: big.NewRat(1, 1),
		atoms: []atomPow{{atom: &Pow{Base: base, Exp: exp}, exp: big.NewRat(1, 1)}},
	}}
}

func invTerm(t term) term {
	atoms := make([]atomPow, len(t.atoms))
	for i, a := range t.atoms {
		atoms[i] = atomPow{atom: a.atom, exp: new(big.Rat).Neg(a.exp)}
	}
	return term{coeff: new(big.Rat).Inv(t.coeff), atoms: atoms}
}

// ratPowRat computes r**e exactly for rational e, reporting ok=false when
// the result is irrational (kept symbolic instead)
func ratPowRat(r, e *big.Rat) (*big.Rat, bool) {
	if e.IsInt() {
		if r.Sign() == 0 && e.Sign() < 0 {
			return nil, false // 1/0 stays symbolic, fails at numeric eval
		}
		if !e.Num().IsInt64() {
			return nil, false
		}
		return ratPowInt(r, e.Num()), true
	}
	if r.Sign() < 0 {
		return nil, false
	}
	if r.Sign() == 0 {
		return new(big.Rat), e.Sign() > 0
	}
	// r = n/d, e = p/q: exact iff n and d are perfect q-th powers
	q := e.Denom()
	if !q.IsInt64() || q.Int64() > 64 {
		return nil, false
	}
	nRoot, ok1 := perfectRoot(r.Num(), q.Int64())
	dRoot, ok2 := perfectRoot(r.Denom(), q.Int64())
	if !ok1 || !ok2 {
		return nil, false
	}
	root := new(big.Rat).SetFrac(nRoot, dRoot)
	if !e.Num().IsInt64() {
		return nil, false
	}
	return ratPowInt(root, e.Num()), true
}

// perfectRoot returns the exact k-th root of n when one exists, found by
// binary search
func perfectRoot(n *big.Int, k int64) (*big.Int, bool) {
	if n.Sign() < 0 {
		return nil, false
	}
	kk := big.NewInt(k)
	lo := big.NewInt(0)
	hi := new(big.Int).Add(n, big.NewInt(1))
	for lo.Cmp(hi) < 0 {
		mid := new(big.Int).Add(lo, hi)
		mid.Add(mid, big.NewInt(1))
		mid.Rsh(mid, 1)
		p := new(big.Int).Exp(mid, kk, nil)
		if p.Cmp(n) <= 0 {
			lo = mid
		} else {
			hi = new(big.Int).Sub(mid, big.NewInt(1))
		}
	}
	check := new(big.Int).Exp(lo, kk, nil)
	if check.Cmp(n) == 0 {
		return lo, true
	}
	return nil, false
}

// collect merges like terms and drops zero coefficients
func collect(ts []term) []term {
	byKey := make(map[string]*term)
	order := make([]string, 0, len(ts))
	for _, t := range ts {
		k := t.key()
		if existing, ok := byKey[k]; ok {
			existing.coeff.Add(existing.coeff, t.coeff)
			continue
		}
		cp := term{coeff: new(big.Rat).Set(t.coeff), atoms: t.atoms}
		byKey[k] = &cp
		order = append(order, k)
	}
	out := make([]term, 0, len(order))
	for _, k := range order {
		if byKey[k].coeff.Sign() != 0 {
			out = append(out, *byKey[k])
		}
	}
	// Canonical order: descending total degree, then key
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := out[i].degree(), out[j].degree()
		if di != dj {
			return di > dj
		}
		return out[i].key() < out[j].key()
	})
	return out
}

// fromTerms rebuilds an expression tree from the canonical term list
func fromTerms(ts []term) Expr {
	if len(ts) == 0 {
		return Int(0)
	}
	exprs := make([]Expr, len(ts))
	for i, t := range ts {
		exprs[i] = termExpr(t)
	}
	if len(exprs) == 1 {
		return exprs[0]
	}
	return &Add{Terms: exprs}
}

func termExpr(t term) Expr {
	one := big.NewRat(1, 1)
	var factors []Expr
	if len(t.atoms) == 0 || t.coeff.Cmp(one) != 0 {
		factors = append(factors, &Number{Val: new(big.Rat).Set(t.coeff)})
	}
	for _, a := range t.atoms {
		factors = append(factors, atomExpr(a))
	}
	if len(factors) == 1 {
		return factors[0]
	}
	return &Mul{Factors: factors}
}

func atomExpr(a atomPow) Expr {
	one := big.NewRat(1, 1)
	if a.exp.Cmp(one) == 0 {
		return a.atom
	}
	if a.exp.Cmp(big.NewRat(1, 2)) == 0 {
		return &Call{Fn: "sqrt", Args: []Expr{a.atom}}
	}
	return &Pow{Base: a.atom, Exp: &Number{Val: new(big.Rat).Set(a.exp)}}
}

// callTerm simplifies a function call's arguments and applies its exact
// folding rules
func callTerm(c *Call) term {
	args := make([]Expr, len(c.Args))
	for i, a := range c.Args {
		args[i] = fromTerms(collect(termsOf(a)))
	}

	// sqrt normalizes to a half power so exponents combine
	if c.Fn == "sqrt" {
		ts := powTerms(args[0], Rat(1, 2))
		cs := collect(ts)
		if len(cs) == 1 {
			return cs[0]
		}
		return term{coeff: big.NewRat(1, 1), atoms: []atomPow{{atom: fromTerms(cs), exp: big.NewRat(1, 1)}}}
	}

	if folded, ok := foldCall(c.Fn, args); ok {
		ts := collect(termsOf(folded))
		if len(ts) == 0 {
			return numTerm(new(big.Rat))
		}
		if len(ts) == 1 {
			return ts[0]
		}
		return term{coeff: big.NewRat(1, 1), atoms: []atomPow{{atom: fromTerms(ts), exp: big.NewRat(1, 1)}}}
	}

	return term{
		coeff: big.NewRat(1, 1),
		atoms: []atomPow{{atom: &Call{Fn: c.Fn, Args: args}, exp: big.NewRat(1, 1)}},
	}
}

// foldCall applies exact identities for builtin functions
func foldCall(fn string, args []Expr) (Expr, bool) {
	n0, isNum := args[0].(*Number)

	switch fn {
	case "sin", "tan":
		if isNum && n0.Val.Sign() == 0 {
			return Int(0), true
		}
	case "cos":
		if isNum && n0.Val.Sign() == 0 {
			return Int(1), true
		}
	case "exp":
		if isNum && n0.Val.Sign() == 0 {
			return Int(1), true
		}
		if inner, ok := args[0].(*Call); ok && inner.Fn == "log" {
			return inner.Args[0], true
		}
	case "log":
		if isNum && n0.Val.Cmp(big.NewRat(1, 1)) == 0 {
			return Int(0), true
		}
		if inner, ok := args[0].(*Call); ok && inner.Fn == "exp" {
			return inner.Args[0], true
		}
	case "abs":
		if isNum {
			return &Number{Val: new(big.Rat).Abs(n0.Val)}, true
		}
	case "min", "max":
		n1, ok := args[1].(*Number)
		if isNum && ok {
			cmp := n0.Val.Cmp(n1.Val)
			if (fn == "min") == (cmp <= 0) {
				return &Number{Val: new(big.Rat).Set(n0.Val)}, true
			}
			return &Number{Val: new(big.Rat).Set(n1.Val)}, true
		}
	}
	return nil, false
}
