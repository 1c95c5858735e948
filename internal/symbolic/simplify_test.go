package symbolic

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func simplifiesToZero(t *testing.T, src string) {
	t.Helper()
	got := Simplify(MustParse(src))
	assert.True(t, IsZero(got), "Simplify(%q) = %s, want 0", src, got)
}

func TestSimplifyPolynomialIdentities(t *testing.T) {
	simplifiesToZero(t, "x - x")
	simplifiesToZero(t, "(x + 1)**2 - (x**2 + 2*x + 1)")
	simplifiesToZero(t, "(x + y)*(x - y) - (x**2 - y**2)")
	simplifiesToZero(t, "2*(x + y) - 2*x - 2*y")
	simplifiesToZero(t, "(x + y + z)**2 - (x**2 + y**2 + z**2 + 2*x*y + 2*x*z + 2*y*z)")
	simplifiesToZero(t, "x*(x + 1)/2 + (x + 1) - (x + 1)*(x + 2)/2")
}

func TestSimplifyRationalArithmetic(t *testing.T) {
	simplifiesToZero(t, "1/3 + 1/6 - 1/2")
	simplifiesToZero(t, "2**10 - 1024")
	simplifiesToZero(t, "(1/2)**2 - 1/4")
}

func TestSimplifyPowers(t *testing.T) {
	simplifiesToZero(t, "x**2 * x**3 - x**5")
	simplifiesToZero(t, "x**3 / x - x**2")
	simplifiesToZero(t, "sqrt(x)**2 - x")
	simplifiesToZero(t, "sqrt(4) - 2")
	simplifiesToZero(t, "sqrt(1/4) - 1/2")
}

func TestSimplifyDoesNotEquateDistinct(t *testing.T) {
	// Residuals that are genuinely nonzero must stay nonzero
	for _, src := range []string{
		"x - y",
		"(x + 1)**2 - (x**2 + 1)",
		"sin(x) - cos(x)",
		"x**2 - x",
	} {
		got := Simplify(MustParse(src))
		assert.False(t, IsZero(got), "Simplify(%q) collapsed to 0", src)
	}
}

func TestSimplifyOpaqueFunctions(t *testing.T) {
	// Identical function applications cancel even though the function
	// itself stays opaque
	simplifiesToZero(t, "sin(x + y) - sin(x + y)")
	simplifiesToZero(t, "2*exp(x) - exp(x) - exp(x)")

	// Known special values fold
	simplifiesToZero(t, "sin(0)")
	simplifiesToZero(t, "cos(0) - 1")
	simplifiesToZero(t, "exp(0) - 1")
	simplifiesToZero(t, "log(1)")
}

func TestSimplifyComparisons(t *testing.T) {
	assert.True(t, IsTrue(Simplify(MustParse("3 > 2"))))
	assert.True(t, IsTrue(Simplify(MustParse("x + 1 > x"))))

	got := Simplify(MustParse("2 > 3"))
	b, ok := got.(*BoolLit)
	require.True(t, ok)
	assert.False(t, b.Val)

	// Undecidable without assumptions: stays a comparison
	_, stillCompare := Simplify(MustParse("x > 0")).(*Compare)
	assert.True(t, stillCompare)
}

func TestSimplifyBooleanConnectives(t *testing.T) {
	assert.True(t, IsTrue(Simplify(MustParse("3 > 2 and 1 < 2"))))
	assert.True(t, IsTrue(Simplify(MustParse("2 > 3 or 1 < 2"))))
	assert.True(t, IsTrue(Simplify(MustParse("not (2 > 3)"))))

	// false and <anything> short-circuits even when the rest is symbolic
	got := Simplify(MustParse("2 > 3 and x > 0"))
	b, ok := got.(*BoolLit)
	require.True(t, ok)
	assert.False(t, b.Val)
}

func TestSimplifyWithAssumptions(t *testing.T) {
	asm := &Assumptions{
		Symbol:     "n",
		LowerBound: big.NewRat(1, 1),
		Integer:    true,
	}

	// n >= 1 implies n**2 >= n
	assert.True(t, IsTrue(SimplifyWith(MustParse("n**2 >= n"), asm)))

	// and n + 1 > 0
	assert.True(t, IsTrue(SimplifyWith(MustParse("n + 1 > 0"), asm)))

	// but not n >= 2
	_, undecided := SimplifyWith(MustParse("n >= 2"), asm).(*Compare)
	assert.True(t, undecided)
}

func TestSimplifyWithPositivity(t *testing.T) {
	asm := &Assumptions{Symbol: "x", Positive: true, Real: true}

	assert.True(t, IsTrue(SimplifyWith(MustParse("x + 1 > 0"), asm)))
	assert.True(t, IsTrue(SimplifyWith(MustParse("x**2 >= 0"), asm)))
}

func TestSubstitute(t *testing.T) {
	e := MustParse("x**2 + x")
	sub := Substitute(e, map[string]Expr{"x": MustParse("y + 1")})

	diff := Simplify(&Add{Terms: []Expr{sub, &Mul{Factors: []Expr{Int(-1), MustParse("(y + 1)**2 + y + 1")}}}})
	assert.True(t, IsZero(diff), "got %s", diff)
}

func TestSubstituteSimultaneous(t *testing.T) {
	// x -> y, y -> x must swap, not chain
	e := MustParse("x - y")
	sub := Substitute(e, map[string]Expr{"x": Sym("y"), "y": Sym("x")})

	total := Simplify(&Add{Terms: []Expr{e, sub}})
	assert.True(t, IsZero(total), "x - y + (y - x) should cancel, got %s", total)
}
