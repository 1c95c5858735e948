package symbolic

import (
	"math"
	"testing"

	"github.com/ppiankov/lemma/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalArithmetic(t *testing.T) {
	v, err := Eval(MustParse("x**2 + 1"), map[string]float64{"x": 2})
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)

	v, err = Eval(MustParse("(x + y) / 2"), map[string]float64{"x": 1, "y": 3})
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)

	v, err = Eval(MustParse("2**-1"), nil)
	require.NoError(t, err)
	assert.Equal(t, 0.5, v)
}

func TestEvalFunctions(t *testing.T) {
	v, err := Eval(MustParse("sin(0) + cos(0)"), nil)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, v, 1e-12)

	v, err = Eval(MustParse("sqrt(x)"), map[string]float64{"x": 9})
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)

	v, err = Eval(MustParse("abs(-3) + min(1, 2) + max(1, 2)"), nil)
	require.NoError(t, err)
	assert.Equal(t, 6.0, v)
}

func TestEvalConstants(t *testing.T) {
	// pi and E are bound automatically unless shadowed by the caller
	v, err := Eval(MustParse("sin(pi)"), nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, v, 1e-12)

	v, err = Eval(MustParse("log(E)"), nil)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, v, 1e-12)

	v, err = Eval(MustParse("pi"), map[string]float64{"pi": 3})
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)
}

func TestEvalErrors(t *testing.T) {
	cases := []struct {
		src string
		env map[string]float64
	}{
		{"x + 1", nil},                              // unbound symbol
		{"1 / x", map[string]float64{"x": 0}},       // division by zero
		{"log(x)", map[string]float64{"x": 0}},      // log of nonpositive
		{"sqrt(x)", map[string]float64{"x": -1}},    // sqrt of negative
		{"x ** 0.5", map[string]float64{"x": -4}},   // fractional power of negative
	}

	for _, tc := range cases {
		_, err := Eval(MustParse(tc.src), tc.env)
		require.Error(t, err, "eval %q", tc.src)
		var eerr *model.EvalError
		assert.ErrorAs(t, err, &eerr, "eval %q should yield an EvalError", tc.src)
	}
}

func TestEvalBool(t *testing.T) {
	b, err := EvalBool(MustParse("3 > 2"), nil)
	require.NoError(t, err)
	assert.True(t, b)

	b, err = EvalBool(MustParse("x > 0 and x < 1"), map[string]float64{"x": 0.5})
	require.NoError(t, err)
	assert.True(t, b)

	b, err = EvalBool(MustParse("x > 0 or y > 0"), map[string]float64{"x": -1, "y": 1})
	require.NoError(t, err)
	assert.True(t, b)

	b, err = EvalBool(MustParse("not (x == 0)"), map[string]float64{"x": 0})
	require.NoError(t, err)
	assert.False(t, b)
}

func TestCompile(t *testing.T) {
	fn, err := Compile(MustParse("x**2 + y"), []string{"x", "y"})
	require.NoError(t, err)

	v, err := fn([]float64{3, 1})
	require.NoError(t, err)
	assert.Equal(t, 10.0, v)

	// Compiled closures are reusable
	v, err = fn([]float64{0, 5})
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)
}

func TestCompileUnboundSymbol(t *testing.T) {
	_, err := Compile(MustParse("x + z"), []string{"x"})
	assert.Error(t, err)
}

func TestCompileRuntimeError(t *testing.T) {
	fn, err := Compile(MustParse("1 / x"), []string{"x"})
	require.NoError(t, err)

	_, err = fn([]float64{0})
	assert.Error(t, err)

	v, err := fn([]float64{2})
	require.NoError(t, err)
	assert.Equal(t, 0.5, v)
}

func TestEvalNoNaN(t *testing.T) {
	// Expressions that would produce NaN or Inf surface as errors, never as
	// propagating NaN values
	_, err := Eval(MustParse("x / y"), map[string]float64{"x": 0, "y": 0})
	assert.Error(t, err)

	v, err := Eval(MustParse("exp(x)"), map[string]float64{"x": 1})
	require.NoError(t, err)
	assert.False(t, math.IsNaN(v))
}
