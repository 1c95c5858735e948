package symbolic

import "fmt"

// Diff returns the partial derivative of e with respect to sym. The result
// is not simplified; callers pass it through Simplify. Non-smooth builtins
// (abs, min, max) and boolean nodes are rejected.
func Diff(e Expr, sym string) (Expr, error) {
	switch v := e.(type) {
	case *Number, *BoolLit:
		return Int(0), nil

	case *Symbol:
		if v.Name == sym {
			return Int(1), nil
		}
		return Int(0), nil

	case *Add:
		terms := make([]Expr, len(v.Terms))
		for i, t := range v.Terms {
			d, err := Diff(t, sym)
			if err != nil {
				return nil, err
			}
			terms[i] = d
		}
		return &Add{Terms: terms}, nil

	case *Mul:
		// Product rule over the factor list
		var sum []Expr
		for i := range v.Factors {
			d, err := Diff(v.Factors[i], sym)
			if err != nil {
				return nil, err
			}
			factors := make([]Expr, 0, len(v.Factors))
			factors = append(factors, d)
			for j, f := range v.Factors {
				if j != i {
					factors = append(factors, f)
				}
			}
			sum = append(sum, &Mul{Factors: factors})
		}
		return &Add{Terms: sum}, nil

	case *Pow:
		return diffPow(v, sym)

	case *Call:
		return diffCall(v, sym)

	default:
		return nil, fmt.Errorf("cannot differentiate %T", e)
	}
}

func diffPow(p *Pow, sym string) (Expr, error) {
	db, err := Diff(p.Base, sym)
	if err != nil {
		return nil, err
	}
	de, err := Diff(p.Exp, sym)
	if err != nil {
		return nil, err
	}

	// Constant exponent: d(b^e) = e * b^(e-1) * b'
	if IsZero(Simplify(de)) {
		em1 := &Add{Terms: []Expr{p.Exp, Int(-1)}}
		return &Mul{Factors: []Expr{p.Exp, &Pow{Base: p.Base, Exp: em1}, db}}, nil
	}

	// General: b^e * (e' * log(b) + e * b'/b)
	logTerm := &Mul{Factors: []Expr{de, &Call{Fn: "log", Args: []Expr{p.Base}}}}
	ratioTerm := &Mul{Factors: []Expr{p.Exp, db, &Pow{Base: p.Base, Exp: Int(-1)}}}
	return &Mul{Factors: []Expr{
		&Pow{Base: p.Base, Exp: p.Exp},
		&Add{Terms: []Expr{logTerm, ratioTerm}},
	}}, nil
}

func diffCall(c *Call, sym string) (Expr, error) {
	arg := c.Args[0]
	da, err := Diff(arg, sym)
	if err != nil {
		return nil, err
	}

	var outer Expr
	switch c.Fn {
	case "sin":
		outer = &Call{Fn: "cos", Args: []Expr{arg}}
	case "cos":
		outer = &Mul{Factors: []Expr{Int(-1), &Call{Fn: "sin", Args: []Expr{arg}}}}
	case "tan":
		// sec^2 = 1 + tan^2
		outer = &Add{Terms: []Expr{Int(1), &Pow{Base: &Call{Fn: "tan", Args: []Expr{arg}}, Exp: Int(2)}}}
	case "exp":
		outer = &Call{Fn: "exp", Args: []Expr{arg}}
	case "log":
		outer = &Pow{Base: arg, Exp: Int(-1)}
	case "sqrt":
		outer = &Mul{Factors: []Expr{Rat(1, 2), &Pow{Base: arg, Exp: Rat(-1, 2)}}}
	default:
		return nil, fmt.Errorf("cannot differentiate %s", c.Fn)
	}
	return &Mul{Factors: []Expr{outer, da}}, nil
}
