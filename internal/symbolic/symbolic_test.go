package symbolic

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evalOne(t *testing.T, e Expr, x float64) float64 {
	t.Helper()
	v, err := EvalAt(e, map[string]float64{"x": x})
	require.NoError(t, err)
	return v
}

func TestSimplify(t *testing.T) {
	t.Run("collects like terms", func(t *testing.T) {
		e := NewSum(Var("x"), Var("x"), Int(3), Int(-1))
		assert.Equal(t, "2*x + 2", e.String())
	})

	t.Run("cancellation yields zero", func(t *testing.T) {
		e := Sub(NewProduct(Int(2), Var("x")), NewProduct(Int(2), Var("x")))
		n, ok := e.(Number)
		require.True(t, ok)
		assert.True(t, n.IsZero())
	})

	t.Run("merges powers of the same base", func(t *testing.T) {
		e := NewProduct(Var("x"), NewPower(Var("x"), Int(2)))
		assert.Equal(t, "x^3", e.String())
	})

	t.Run("rational constant folding", func(t *testing.T) {
		e := NewSum(Frac(1, 2), Frac(1, 3))
		n, ok := e.(Number)
		require.True(t, ok)
		assert.Equal(t, "5/6", n.String())
	})

	t.Run("integer powers evaluate exactly", func(t *testing.T) {
		e := NewPower(Frac(2, 3), Int(3))
		n, ok := e.(Number)
		require.True(t, ok)
		assert.Equal(t, "8/27", n.String())
	})

	t.Run("zero annihilates products", func(t *testing.T) {
		e := NewProduct(Int(0), NewCall("sin", Var("x")))
		n, ok := e.(Number)
		require.True(t, ok)
		assert.True(t, n.IsZero())
	})

	t.Run("simplification is idempotent", func(t *testing.T) {
		e := MustParse("3x^2 - x + 2x - 5 + x^2")
		assert.Equal(t, e.String(), e.Simplify().String())
	})
}

func TestDerive(t *testing.T) {
	cases := []struct {
		name  string
		input string
		at    float64
		want  float64
	}{
		{"power rule", "x^3", 2, 12},
		{"product rule", "x*sin(x)", 1, math.Sin(1) + math.Cos(1)},
		{"chain rule", "sin(x^2)", 1, 2 * math.Cos(1)},
		{"quotient", "1/x", 2, -0.25},
		{"exp", "exp(2x)", 0, 2},
		{"ln", "ln(x)", 4, 0.25},
		{"constant", "7", 3, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := MustParse(tc.input)
			d := e.Derive("x")
			assert.InDelta(t, tc.want, evalOne(t, d, tc.at), 1e-9)
		})
	}
}

func TestParse(t *testing.T) {
	t.Run("implicit multiplication", func(t *testing.T) {
		a := MustParse("2x + 3sin(x)")
		b := MustParse("2*x + 3*sin(x)")
		assert.Equal(t, b.String(), a.String())
	})

	t.Run("caret and double star are the same operator", func(t *testing.T) {
		assert.Equal(t, MustParse("x^2").String(), MustParse("x**2").String())
	})

	t.Run("decimal literals are exact rationals", func(t *testing.T) {
		n, ok := MustParse("0.5").(Number)
		require.True(t, ok)
		assert.Equal(t, "1/2", n.String())
	})

	t.Run("unary minus binds below the exponent", func(t *testing.T) {
		assert.InDelta(t, -9.0, evalOne(t, MustParse("-x^2"), 3), 1e-12)
	})

	t.Run("constants", func(t *testing.T) {
		v, err := EvalAt(MustParse("2pi"), nil)
		require.NoError(t, err)
		assert.InDelta(t, 2*math.Pi, v, 1e-12)
	})

	t.Run("unknown symbol is rejected", func(t *testing.T) {
		_, err := Parse("2*q + 1")
		require.Error(t, err)
		var pe *ParseError
		require.ErrorAs(t, err, &pe)
	})

	t.Run("widened alphabet admits extra symbols", func(t *testing.T) {
		_, err := Parse("3 + 4i", WithVariables("i"))
		assert.NoError(t, err)
	})

	t.Run("unbalanced parenthesis is rejected", func(t *testing.T) {
		_, err := Parse("sin(x")
		assert.Error(t, err)
	})

	t.Run("empty input is rejected", func(t *testing.T) {
		_, err := Parse("   ")
		assert.Error(t, err)
	})
}

func TestPolyCoeffs(t *testing.T) {
	t.Run("expanded quadratic", func(t *testing.T) {
		c, ok := PolyCoeffs(MustParse("(x+1)^2"), "x")
		require.True(t, ok)
		require.Len(t, c, 3)
		assert.Equal(t, "1", c[0].RatString())
		assert.Equal(t, "2", c[1].RatString())
		assert.Equal(t, "1", c[2].RatString())
	})

	t.Run("non-polynomial input", func(t *testing.T) {
		_, ok := PolyCoeffs(MustParse("sin(x)"), "x")
		assert.False(t, ok)
	})
}

func TestPolyRoots(t *testing.T) {
	t.Run("repeated rational root", func(t *testing.T) {
		// (x-1)^2 (x+2) = x^3 - 3x + 2
		c, ok := PolyCoeffs(MustParse("x^3 - 3x + 2"), "x")
		require.True(t, ok)
		roots, err := PolyRoots(c)
		require.NoError(t, err)
		byMult := map[float64]int{}
		for _, r := range roots {
			require.True(t, r.IsReal)
			byMult[math.Round(real(r.Value)*1e6)/1e6] = r.Multiplicity
		}
		assert.Equal(t, map[float64]int{1: 2, -2: 1}, byMult)
	})

	t.Run("complex pair retained", func(t *testing.T) {
		c, ok := PolyCoeffs(MustParse("x^2 + 1"), "x")
		require.True(t, ok)
		roots, err := PolyRoots(c)
		require.NoError(t, err)
		require.Len(t, roots, 2)
		for _, r := range roots {
			assert.False(t, r.IsReal)
			assert.InDelta(t, 1, math.Abs(imag(r.Value)), 1e-9)
		}
	})

	t.Run("quartic via companion matrix", func(t *testing.T) {
		// x^4 - 10x^2 + 9 has roots ±1, ±3
		c, ok := PolyCoeffs(MustParse("x^4 - 10x^2 + 9"), "x")
		require.True(t, ok)
		roots, err := PolyRoots(c)
		require.NoError(t, err)
		var vals []float64
		for _, r := range roots {
			require.Equal(t, 1, r.Multiplicity)
			vals = append(vals, real(r.Value))
		}
		assert.Len(t, vals, 4)
		for _, want := range []float64{-3, -1, 1, 3} {
			found := false
			for _, v := range vals {
				if math.Abs(v-want) < 1e-6 {
					found = true
				}
			}
			assert.True(t, found, "missing root %v", want)
		}
	})
}

func TestIntegrate(t *testing.T) {
	check := func(t *testing.T, input string, a, b, want float64) {
		t.Helper()
		e := MustParse(input)
		anti, ok := Integrate(e, "x")
		require.True(t, ok, "no closed form for %s", input)
		got := evalOne(t, anti, b) - evalOne(t, anti, a)
		assert.InDelta(t, want, got, 1e-9)
	}

	t.Run("identity integrand", func(t *testing.T) { check(t, "x", 0, 1, 0.5) })
	t.Run("polynomial", func(t *testing.T) { check(t, "3x^2 + 2x + 1", 0, 2, 14) })
	t.Run("reciprocal", func(t *testing.T) { check(t, "1/x", 1, math.E, 1) })
	t.Run("linear substitution", func(t *testing.T) {
		check(t, "cos(2x)", 0, math.Pi/4, 0.5)
	})
	t.Run("exponential", func(t *testing.T) {
		check(t, "exp(x)", 0, 1, math.E-1)
	})
	t.Run("integration by parts", func(t *testing.T) {
		// ∫₀¹ x·eˣ dx = 1
		check(t, "x*exp(x)", 0, 1, 1)
	})
	t.Run("no closed form is reported", func(t *testing.T) {
		_, ok := Integrate(MustParse("exp(x^2)"), "x")
		assert.False(t, ok)
	})
}

func TestLimit(t *testing.T) {
	t.Run("continuous point is direct substitution", func(t *testing.T) {
		lv, err := Limit(MustParse("x^2 + 1"), "x", 2, DirBoth)
		require.NoError(t, err)
		require.Equal(t, LimitFinite, lv.Kind)
		assert.InDelta(t, 5, lv.Value, 1e-9)
	})

	t.Run("removable singularity", func(t *testing.T) {
		lv, err := Limit(MustParse("sin(x)/x"), "x", 0, DirBoth)
		require.NoError(t, err)
		require.Equal(t, LimitFinite, lv.Kind)
		assert.InDelta(t, 1, lv.Value, 1e-4)
	})

	t.Run("one sided blow up", func(t *testing.T) {
		lv, err := Limit(MustParse("1/x"), "x", 0, DirRight)
		require.NoError(t, err)
		assert.Equal(t, LimitPosInf, lv.Kind)
	})

	t.Run("two sided pole does not exist", func(t *testing.T) {
		lv, err := Limit(MustParse("1/x"), "x", 0, DirBoth)
		require.NoError(t, err)
		assert.Equal(t, LimitDNE, lv.Kind)
	})

	t.Run("limit at infinity", func(t *testing.T) {
		lv, err := Limit(MustParse("(2x+1)/x"), "x", math.Inf(1), DirBoth)
		require.NoError(t, err)
		require.Equal(t, LimitFinite, lv.Kind)
		assert.InDelta(t, 2, lv.Value, 1e-3)
	})
}

func TestTrigSimplify(t *testing.T) {
	t.Run("pythagorean identity collapses", func(t *testing.T) {
		e := TrigSimplify(MustParse("sin(x)^2 + cos(x)^2"))
		n, ok := e.(Number)
		require.True(t, ok)
		assert.True(t, n.IsOne())
	})

	t.Run("difference of identity sides is zero", func(t *testing.T) {
		e := TrigSimplify(Sub(MustParse("sin(x)^2 + cos(x)^2"), Int(1)))
		n, ok := e.(Number)
		require.True(t, ok)
		assert.True(t, n.IsZero())
	})
}

func TestLaTeX(t *testing.T) {
	t.Run("fraction", func(t *testing.T) {
		assert.Equal(t, "\\frac{1}{2}", Frac(1, 2).LaTeX())
	})
	t.Run("negative fraction keeps leading sign", func(t *testing.T) {
		assert.Equal(t, "-\\frac{1}{2}", Frac(-1, 2).LaTeX())
	})
	t.Run("function call", func(t *testing.T) {
		assert.Equal(t, "\\sin\\left(x\\right)", NewCall("sin", Var("x")).LaTeX())
	})
	t.Run("half power renders as sqrt", func(t *testing.T) {
		assert.Equal(t, "\\sqrt{x}", NewPower(Var("x"), Frac(1, 2)).LaTeX())
	})
}
