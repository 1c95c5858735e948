package strategy

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyGatePartition(t *testing.T) {
	// N > eps and N <= eps partition the reals exactly
	rep, err := VerifyGate(GateInput{
		Symbols:      []string{"N", "eps"},
		ContinueCond: "N > eps",
		HaltCond:     "N <= eps",
	}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.True(t, rep.Passed)
	assert.Zero(t, rep.Conflicts)
	assert.Zero(t, rep.Misses)
}

func TestVerifyGateOverlap(t *testing.T) {
	// N >= 0 and N <= 1 overlap on [0, 1]: conflicts must show up
	rep, err := VerifyGate(GateInput{
		Symbols:      []string{"N"},
		ContinueCond: "N >= 0",
		HaltCond:     "N <= 1",
	}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.False(t, rep.Passed)
	assert.Greater(t, rep.Conflicts, 0)
}

func TestVerifyGateGap(t *testing.T) {
	// N > 1 and N < -1 leave the middle uncovered: misses must show up
	rep, err := VerifyGate(GateInput{
		Symbols:      []string{"N"},
		ContinueCond: "N > 1",
		HaltCond:     "N < -1",
	}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.False(t, rep.Passed)
	assert.Greater(t, rep.Misses, 0)
}

func TestVerifyGateErrorsDoNotFail(t *testing.T) {
	// The halt predicate errors on half the domain; errors are counted
	// separately and do not reject by themselves
	rep, err := VerifyGate(GateInput{
		Symbols:      []string{"N"},
		ContinueCond: "N <= 0",
		HaltCond:     "log(N) > -100",
	}, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	assert.Greater(t, rep.Errors, 0)
	assert.True(t, rep.Passed)
	assert.Zero(t, rep.Conflicts)
	assert.Zero(t, rep.Misses)
}

func TestVerifyGateDeterministic(t *testing.T) {
	in := GateInput{
		Symbols:      []string{"N", "eps"},
		ContinueCond: "N > eps",
		HaltCond:     "N <= eps",
		Trials:       100,
		KeepTrials:   true,
	}

	a, err := VerifyGate(in, rand.New(rand.NewSource(9)))
	require.NoError(t, err)
	b, err := VerifyGate(in, rand.New(rand.NewSource(9)))
	require.NoError(t, err)

	require.Len(t, a.Trials, 100)
	assert.Equal(t, a.Trials, b.Trials)
}

func TestVerifyGateParseError(t *testing.T) {
	_, err := VerifyGate(GateInput{
		Symbols:      []string{"N"},
		ContinueCond: "N >",
		HaltCond:     "N <= 0",
	}, rand.New(rand.NewSource(1)))
	assert.Error(t, err)
}

func TestVerifyGateDefaultTrials(t *testing.T) {
	rep, err := VerifyGate(GateInput{
		Symbols:      []string{"N"},
		ContinueCond: "N > 0",
		HaltCond:     "N <= 0",
		KeepTrials:   true,
	}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Len(t, rep.Trials, DefaultGateTrials)
}
