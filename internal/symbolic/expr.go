// Package symbolic implements the expression engine behind the verification
// strategies: parsing, exact simplification over rational arithmetic,
// substitution, differentiation and numeric evaluation.
//
// Arithmetic expressions are canonicalized into an expanded sum-of-terms
// form, so that identities like (x+1)**2 == x**2+2*x+1 reduce to the literal
// zero residual the identity strategy requires. Boolean expressions
// (comparisons, and/or/not) simplify to literal true/false whenever both
// sides fold to constants, and can additionally be decided under declared
// assumptions (see Assumptions).
package symbolic

import (
	"fmt"
	"math/big"
	"sort"
	"strings"
)

// Expr is a parsed symbolic expression node
type Expr interface {
	// String renders the canonical textual form of the expression
	String() string
}

// Number is an exact rational constant
type Number struct {
	Val *big.Rat
}

// Symbol is a free variable
type Symbol struct {
	Name string
}

// Add is a flattened sum of two or more terms
type Add struct {
	Terms []Expr
}

// Mul is a flattened product of two or more factors
type Mul struct {
	Factors []Expr
}

// Pow is exponentiation, right-associative in source form
type Pow struct {
	Base Expr
	Exp  Expr
}

// Call is a builtin function application (sin, cos, tan, exp, log, sqrt,
// abs, min, max)
type Call struct {
	Fn   string
	Args []Expr
}

// BoolLit is a literal boolean value
type BoolLit struct {
	Val bool
}

// CompareOp enumerates relational operators
type CompareOp string

const (
	OpEq CompareOp = "=="
	OpNe CompareOp = "!="
	OpLt CompareOp = "<"
	OpLe CompareOp = "<="
	OpGt CompareOp = ">"
	OpGe CompareOp = ">="
)

// Compare is a relational expression between two arithmetic operands
type Compare struct {
	Op   CompareOp
	L, R Expr
}

// And is a flattened conjunction
type And struct {
	Terms []Expr
}

// Or is a flattened disjunction
type Or struct {
	Terms []Expr
}

// Not is boolean negation
type Not struct {
	X Expr
}

// Convenience constructors

// Int returns an exact integer constant
func Int(v int64) *Number {
	return &Number{Val: big.NewRat(v, 1)}
}

// Rat returns an exact rational constant
func Rat(num, den int64) *Number {
	return &Number{Val: big.NewRat(num, den)}
}

// Sym returns a symbol node
func Sym(name string) *Symbol {
	return &Symbol{Name: name}
}

// True and False are the boolean literals
var (
	True  = &BoolLit{Val: true}
	False = &BoolLit{Val: false}
)

var negOne = big.NewRat(-1, 1)

func (n *Number) String() string {
	if n.Val.IsInt() {
		return n.Val.Num().String()
	}
	// Prefer short decimal forms for simple denominators, exact fractions
	// otherwise
	if f, exact := n.Val.Float64(); exact {
		return trimFloat(f)
	}
	return n.Val.RatString()
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%g", f)
	return s
}

func (s *Symbol) String() string { return s.Name }

func (a *Add) String() string {
	var b strings.Builder
	for i, t := range a.Terms {
		s := t.String()
		if i == 0 {
			b.WriteString(s)
			continue
		}
		if strings.HasPrefix(s, "-") {
			b.WriteString(" - ")
			b.WriteString(s[1:])
		} else {
			b.WriteString(" + ")
			b.WriteString(s)
		}
	}
	return b.String()
}

func (m *Mul) String() string {
	if len(m.Factors) > 1 {
		if n, ok := m.Factors[0].(*Number); ok && n.Val.Cmp(negOne) == 0 {
			rest := &Mul{Factors: m.Factors[1:]}
			if len(m.Factors) == 2 {
				s := m.Factors[1].String()
				if needsParensInMul(m.Factors[1]) {
					s = "(" + s + ")"
				}
				return "-" + s
			}
			return "-" + rest.String()
		}
	}
	parts := make([]string, len(m.Factors))
	for i, f := range m.Factors {
		s := f.String()
		if needsParensInMul(f) {
			s = "(" + s + ")"
		}
		parts[i] = s
	}
	return strings.Join(parts, "*")
}

func (p *Pow) String() string {
	bs := p.Base.String()
	if needsParensInPow(p.Base) {
		bs = "(" + bs + ")"
	}
	es := p.Exp.String()
	if needsParensInPow(p.Exp) {
		es = "(" + es + ")"
	}
	return bs + "**" + es
}

func (c *Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return c.Fn + "(" + strings.Join(args, ", ") + ")"
}

func (b *BoolLit) String() string {
	if b.Val {
		return "true"
	}
	return "false"
}

func (c *Compare) String() string {
	return c.L.String() + " " + string(c.Op) + " " + c.R.String()
}

func (a *And) String() string {
	parts := make([]string, len(a.Terms))
	for i, t := range a.Terms {
		s := t.String()
		if _, ok := t.(*Or); ok {
			s = "(" + s + ")"
		}
		parts[i] = s
	}
	return strings.Join(parts, " and ")
}

func (o *Or) String() string {
	parts := make([]string, len(o.Terms))
	for i, t := range o.Terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, " or ")
}

func (n *Not) String() string {
	s := n.X.String()
	switch n.X.(type) {
	case *BoolLit, *Compare, *Symbol, *Call:
		return "not " + s
	default:
		return "not (" + s + ")"
	}
}

func needsParensInMul(e Expr) bool {
	switch v := e.(type) {
	case *Add:
		return true
	case *Number:
		return v.Val.Sign() < 0 || !v.Val.IsInt()
	default:
		return false
	}
}

func needsParensInPow(e Expr) bool {
	switch v := e.(type) {
	case *Add, *Mul, *Pow:
		return true
	case *Number:
		return v.Val.Sign() < 0 || !v.Val.IsInt()
	default:
		return false
	}
}

// Symbols returns the sorted set of free variable names in e
func Symbols(e Expr) []string {
	set := make(map[string]bool)
	collectSymbols(e, set)
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func collectSymbols(e Expr, set map[string]bool) {
	switch v := e.(type) {
	case *Symbol:
		set[v.Name] = true
	case *Add:
		for _, t := range v.Terms {
			collectSymbols(t, set)
		}
	case *Mul:
		for _, f := range v.Factors {
			collectSymbols(f, set)
		}
	case *Pow:
		collectSymbols(v.Base, set)
		collectSymbols(v.Exp, set)
	case *Call:
		for _, a := range v.Args {
			collectSymbols(a, set)
		}
	case *Compare:
		collectSymbols(v.L, set)
		collectSymbols(v.R, set)
	case *And:
		for _, t := range v.Terms {
			collectSymbols(t, set)
		}
	case *Or:
		for _, t := range v.Terms {
			collectSymbols(t, set)
		}
	case *Not:
		collectSymbols(v.X, set)
	}
}

// IsZero reports whether e is the literal constant zero
func IsZero(e Expr) bool {
	n, ok := e.(*Number)
	return ok && n.Val.Sign() == 0
}

// IsTrue reports whether e is the literal boolean true
func IsTrue(e Expr) bool {
	b, ok := e.(*BoolLit)
	return ok && b.Val
}
