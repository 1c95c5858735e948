package symbolic

import (
	"fmt"
	"math"

	"github.com/ppiankov/lemma/internal/model"
)

// Eval numerically evaluates an arithmetic expression. Unbound symbols,
// domain errors (log of a nonpositive value, even roots of negatives,
// division by zero) and non-finite results all return EvalError.
func Eval(e Expr, env map[string]float64) (float64, error) {
	v, err := eval(e, env)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &model.EvalError{Expr: e.String(), Reason: "non-finite result"}
	}
	return v, nil
}

// EvalBool numerically evaluates a boolean expression (a comparison or a
// combination of comparisons)
func EvalBool(e Expr, env map[string]float64) (bool, error) {
	switch v := e.(type) {
	case *BoolLit:
		return v.Val, nil

	case *Compare:
		l, err := Eval(v.L, env)
		if err != nil {
			return false, err
		}
		r, err := Eval(v.R, env)
		if err != nil {
			return false, err
		}
		switch v.Op {
		case OpEq:
			return l == r, nil
		case OpNe:
			return l != r, nil
		case OpLt:
			return l < r, nil
		case OpLe:
			return l <= r, nil
		case OpGt:
			return l > r, nil
		default:
			return l >= r, nil
		}

	case *And:
		for _, t := range v.Terms {
			b, err := EvalBool(t, env)
			if err != nil {
				return false, err
			}
			if !b {
				return false, nil
			}
		}
		return true, nil

	case *Or:
		for _, t := range v.Terms {
			b, err := EvalBool(t, env)
			if err != nil {
				return false, err
			}
			if b {
				return true, nil
			}
		}
		return false, nil

	case *Not:
		b, err := EvalBool(v.X, env)
		if err != nil {
			return false, err
		}
		return !b, nil

	default:
		// Nonzero arithmetic value reads as true, matching the loose
		// truthiness of predicate expressions in claim files
		f, err := Eval(e, env)
		if err != nil {
			return false, err
		}
		return f != 0, nil
	}
}

func eval(e Expr, env map[string]float64) (float64, error) {
	switch v := e.(type) {
	case *Number:
		f, _ := v.Val.Float64()
		return f, nil

	case *Symbol:
		if val, ok := env[v.Name]; ok {
			return val, nil
		}
		switch v.Name {
		case "pi":
			return math.Pi, nil
		case "E":
			return math.E, nil
		}
		return 0, &model.EvalError{Expr: v.Name, Reason: "unbound symbol"}

	case *Add:
		sum := 0.0
		for _, t := range v.Terms {
			f, err := eval(t, env)
			if err != nil {
				return 0, err
			}
			sum += f
		}
		return sum, nil

	case *Mul:
		prod := 1.0
		for _, f := range v.Factors {
			x, err := eval(f, env)
			if err != nil {
				return 0, err
			}
			prod *= x
		}
		return prod, nil

	case *Pow:
		b, err := eval(v.Base, env)
		if err != nil {
			return 0, err
		}
		ex, err := eval(v.Exp, env)
		if err != nil {
			return 0, err
		}
		if b == 0 && ex < 0 {
			return 0, &model.EvalError{Expr: e.String(), Reason: "division by zero"}
		}
		r := math.Pow(b, ex)
		if math.IsNaN(r) {
			return 0, &model.EvalError{Expr: e.String(), Reason: "domain error in power"}
		}
		return r, nil

	case *Call:
		return evalCall(v, env)

	default:
		return 0, &model.EvalError{Expr: e.String(), Reason: fmt.Sprintf("not an arithmetic expression (%T)", e)}
	}
}

func evalCall(c *Call, env map[string]float64) (float64, error) {
	args := make([]float64, len(c.Args))
	for i, a := range c.Args {
		f, err := eval(a, env)
		if err != nil {
			return 0, err
		}
		args[i] = f
	}

	switch c.Fn {
	case "sin":
		return math.Sin(args[0]), nil
	case "cos":
		return math.Cos(args[0]), nil
	case "tan":
		return math.Tan(args[0]), nil
	case "exp":
		return math.Exp(args[0]), nil
	case "log":
		if args[0] <= 0 {
			return 0, &model.EvalError{Expr: c.String(), Reason: "log of nonpositive value"}
		}
		return math.Log(args[0]), nil
	case "sqrt":
		if args[0] < 0 {
			return 0, &model.EvalError{Expr: c.String(), Reason: "sqrt of negative value"}
		}
		return math.Sqrt(args[0]), nil
	case "abs":
		return math.Abs(args[0]), nil
	case "min":
		return math.Min(args[0], args[1]), nil
	case "max":
		return math.Max(args[0], args[1]), nil
	default:
		return 0, &model.EvalError{Expr: c.String(), Reason: "unknown function"}
	}
}

// EvalFunc is a compiled numeric form of an expression over a fixed symbol
// ordering
type EvalFunc func(vals []float64) (float64, error)

// Compile translates e into a closure over positional values for the given
// symbols, resolving names to slice indices once. The contraction strategy
// compiles each Jacobian entry exactly once per claim and then calls the
// closures per sample.
func Compile(e Expr, symbols []string) (EvalFunc, error) {
	index := make(map[string]int, len(symbols))
	for i, s := range symbols {
		index[s] = i
	}
	for _, name := range Symbols(e) {
		if _, ok := index[name]; !ok && name != "pi" && name != "E" {
			return nil, &model.EvalError{Expr: e.String(), Reason: fmt.Sprintf("unbound symbol %q", name)}
		}
	}
	return compileNode(e, index)
}

func compileNode(e Expr, index map[string]int) (EvalFunc, error) {
	switch v := e.(type) {
	case *Number:
		f, _ := v.Val.Float64()
		return func([]float64) (float64, error) { return f, nil }, nil

	case *Symbol:
		if i, ok := index[v.Name]; ok {
			return func(vals []float64) (float64, error) { return vals[i], nil }, nil
		}
		switch v.Name {
		case "pi":
			return func([]float64) (float64, error) { return math.Pi, nil }, nil
		case "E":
			return func([]float64) (float64, error) { return math.E, nil }, nil
		}
		name := v.Name
		return nil, &model.EvalError{Expr: name, Reason: "unbound symbol"}

	case *Add:
		fns, err := compileAll(v.Terms, index)
		if err != nil {
			return nil, err
		}
		return func(vals []float64) (float64, error) {
			sum := 0.0
			for _, fn := range fns {
				x, err := fn(vals)
				if err != nil {
					return 0, err
				}
				sum += x
			}
			return sum, nil
		}, nil

	case *Mul:
		fns, err := compileAll(v.Factors, index)
		if err != nil {
			return nil, err
		}
		return func(vals []float64) (float64, error) {
			prod := 1.0
			for _, fn := range fns {
				x, err := fn(vals)
				if err != nil {
					return 0, err
				}
				prod *= x
			}
			return prod, nil
		}, nil

	case *Pow:
		bf, err := compileNode(v.Base, index)
		if err != nil {
			return nil, err
		}
		ef, err := compileNode(v.Exp, index)
		if err != nil {
			return nil, err
		}
		src := e.String()
		return func(vals []float64) (float64, error) {
			b, err := bf(vals)
			if err != nil {
				return 0, err
			}
			ex, err := ef(vals)
			if err != nil {
				return 0, err
			}
			if b == 0 && ex < 0 {
				return 0, &model.EvalError{Expr: src, Reason: "division by zero"}
			}
			r := math.Pow(b, ex)
			if math.IsNaN(r) || math.IsInf(r, 0) {
				return 0, &model.EvalError{Expr: src, Reason: "non-finite power"}
			}
			return r, nil
		}, nil

	case *Call:
		fns, err := compileAll(v.Args, index)
		if err != nil {
			return nil, err
		}
		call := &Call{Fn: v.Fn, Args: v.Args}
		return func(vals []float64) (float64, error) {
			fargs := make([]float64, len(fns))
			for i, fn := range fns {
				x, err := fn(vals)
				if err != nil {
					return 0, err
				}
				fargs[i] = x
			}
			return applyFn(call, fargs)
		}, nil

	default:
		return nil, &model.EvalError{Expr: e.String(), Reason: "not compilable"}
	}
}

func compileAll(es []Expr, index map[string]int) ([]EvalFunc, error) {
	fns := make([]EvalFunc, len(es))
	for i, e := range es {
		fn, err := compileNode(e, index)
		if err != nil {
			return nil, err
		}
		fns[i] = fn
	}
	return fns, nil
}

func applyFn(c *Call, args []float64) (float64, error) {
	switch c.Fn {
	case "sin":
		return math.Sin(args[0]), nil
	case "cos":
		return math.Cos(args[0]), nil
	case "tan":
		return math.Tan(args[0]), nil
	case "exp":
		return math.Exp(args[0]), nil
	case "log":
		if args[0] <= 0 {
			return 0, &model.EvalError{Expr: c.String(), Reason: "log of nonpositive value"}
		}
		return math.Log(args[0]), nil
	case "sqrt":
		if args[0] < 0 {
			return 0, &model.EvalError{Expr: c.String(), Reason: "sqrt of negative value"}
		}
		return math.Sqrt(args[0]), nil
	case "abs":
		return math.Abs(args[0]), nil
	case "min":
		return math.Min(args[0], args[1]), nil
	case "max":
		return math.Max(args[0], args[1]), nil
	default:
		return 0, &model.EvalError{Expr: c.String(), Reason: "unknown function"}
	}
}
