package strategy

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckContractionLinearContraction(t *testing.T) {
	// x' = 0.5x has constant Jacobian [0.5]: norm is exactly 0.5
	rep, err := CheckContraction(ContractionInput{
		StateSymbols: []string{"x"},
		NextState:    []string{"0.5*x"},
		LBound:       0.9,
	}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.True(t, rep.Passed)
	assert.InDelta(t, 0.5, rep.MaxNorm, 1e-9)
	assert.Equal(t, "l2", rep.Norm)
}

func TestCheckContractionExpansionFails(t *testing.T) {
	// x' = 2x has Jacobian norm 2 everywhere
	rep, err := CheckContraction(ContractionInput{
		StateSymbols: []string{"x"},
		NextState:    []string{"2*x"},
		LBound:       1.0,
	}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.False(t, rep.Passed)
	assert.InDelta(t, 2.0, rep.MaxNorm, 1e-9)
}

func TestCheckContractionMultiDim(t *testing.T) {
	// Constant Jacobian [[1/2, 1/10], [0, 2/5]]: l2 norm ~0.5235, linf
	// norm 0.6
	in := ContractionInput{
		StateSymbols: []string{"x", "y"},
		NextState:    []string{"x/2 + y/10", "2*y/5"},
		LBound:       0.55,
		Trials:       20,
	}

	l2, err := CheckContraction(in, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.True(t, l2.Passed)
	assert.InDelta(t, 0.5235, l2.MaxNorm, 1e-3)

	in.Norm = "linf"
	linf, err := CheckContraction(in, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.False(t, linf.Passed)
	assert.InDelta(t, 0.6, linf.MaxNorm, 1e-9)
}

func TestCheckContractionNonlinear(t *testing.T) {
	// x' = sin(x): |cos(x)| <= 1 on any domain
	rep, err := CheckContraction(ContractionInput{
		StateSymbols: []string{"x"},
		NextState:    []string{"sin(x)"},
		LBound:       1.0,
		Trials:       100,
	}, rand.New(rand.NewSource(5)))
	require.NoError(t, err)
	assert.True(t, rep.Passed)
	assert.LessOrEqual(t, rep.MaxNorm, 1.0)
}

func TestCheckContractionEvalError(t *testing.T) {
	// d/dx x**(3/2) = (3/2)*sqrt(x), undefined for negative samples: the
	// norm degrades to +Inf and the claim fails
	rep, err := CheckContraction(ContractionInput{
		StateSymbols: []string{"x"},
		NextState:    []string{"x**(3/2)"},
		LBound:       100,
	}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.False(t, rep.Passed)
	assert.True(t, math.IsInf(rep.MaxNorm, 1))
	assert.NotEmpty(t, rep.Err)
}

func TestCheckContractionUnknownNorm(t *testing.T) {
	_, err := CheckContraction(ContractionInput{
		StateSymbols: []string{"x"},
		NextState:    []string{"x"},
		Norm:         "l1",
	}, rand.New(rand.NewSource(1)))
	assert.Error(t, err)
}

func TestCheckContractionNonDifferentiable(t *testing.T) {
	_, err := CheckContraction(ContractionInput{
		StateSymbols: []string{"x"},
		NextState:    []string{"abs(x)"},
	}, rand.New(rand.NewSource(1)))
	assert.Error(t, err)
}

func TestCheckContractionJacobianText(t *testing.T) {
	rep, err := CheckContraction(ContractionInput{
		StateSymbols: []string{"x"},
		NextState:    []string{"2*x"},
		LBound:       3,
		Trials:       5,
	}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, "[[2]]", rep.Jacobian)
}
