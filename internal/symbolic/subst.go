package symbolic

// Substitute replaces symbols by expressions throughout e. The replacement
// is simultaneous: substituted expressions are not re-scanned for further
// matches.
func Substitute(e Expr, subs map[string]Expr) Expr {
	if len(subs) == 0 {
		return e
	}
	switch v := e.(type) {
	case *Number, *BoolLit:
		return e
	case *Symbol:
		if r, ok := subs[v.Name]; ok {
			return r
		}
		return v
	case *Add:
		return &Add{Terms: substituteAll(v.Terms, subs)}
	case *Mul:
		return &Mul{Factors: substituteAll(v.Factors, subs)}
	case *Pow:
		return &Pow{Base: Substitute(v.Base, subs), Exp: Substitute(v.Exp, subs)}
	case *Call:
		return &Call{Fn: v.Fn, Args: substituteAll(v.Args, subs)}
	case *Compare:
		return &Compare{Op: v.Op, L: Substitute(v.L, subs), R: Substitute(v.R, subs)}
	case *And:
		return &And{Terms: substituteAll(v.Terms, subs)}
	case *Or:
		return &Or{Terms: substituteAll(v.Terms, subs)}
	case *Not:
		return &Not{X: Substitute(v.X, subs)}
	default:
		return e
	}
}

func substituteAll(es []Expr, subs map[string]Expr) []Expr {
	out := make([]Expr, len(es))
	for i, e := range es {
		out[i] = Substitute(e, subs)
	}
	return out
}
