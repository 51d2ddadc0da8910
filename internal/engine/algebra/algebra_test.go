package algebra

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduforge/mathcore/backend/internal/logging"
)

func newTestModule() *Algebra {
	return New(logging.NewNop())
}

func TestSolveQuadratic(t *testing.T) {
	m := newTestModule()

	t.Run("two distinct real roots satisfy Vieta", func(t *testing.T) {
		// x^2 - 5x + 6: roots 2 and 3
		res := m.SolveQuadratic(1, -5, 6)
		require.False(t, res.IsError())
		assert.Equal(t, "real_distinct", res.Payload["type"])
		roots := res.Payload["roots"].([]string)
		require.Len(t, roots, 2)
		// sum = -b/a, product = c/a
		assert.ElementsMatch(t, []string{"2", "3"}, roots)
	})

	t.Run("repeated root", func(t *testing.T) {
		res := m.SolveQuadratic(1, -4, 4)
		require.False(t, res.IsError())
		assert.Equal(t, "real_repeated", res.Payload["type"])
		roots := res.Payload["roots"].([]string)
		require.Len(t, roots, 1)
		assert.Equal(t, "2", roots[0])
	})

	t.Run("complex conjugate roots", func(t *testing.T) {
		res := m.SolveQuadratic(1, 0, 1)
		require.False(t, res.IsError())
		assert.Equal(t, "complex", res.Payload["type"])
		roots := res.Payload["roots"].([]string)
		assert.ElementsMatch(t, []string{"1i", "-1i"}, roots)
	})

	t.Run("degenerate leading coefficient", func(t *testing.T) {
		res := m.SolveQuadratic(0, 2, 1)
		require.True(t, res.IsError())
		assert.Equal(t, "domain", res.Payload["error_kind"])
	})

	t.Run("plot includes parabola and root markers", func(t *testing.T) {
		res := m.SolveQuadratic(1, -5, 6)
		require.Len(t, res.PlotElements, 3)
		assert.Equal(t, "curve", res.PlotElements[0].Type)
		assert.Equal(t, "point", res.PlotElements[1].Type)
	})
}

func TestAnalyzePolynomial(t *testing.T) {
	m := newTestModule()

	t.Run("repeated root with multiplicity", func(t *testing.T) {
		res := m.AnalyzePolynomial("x^3 - 3x + 2")
		require.False(t, res.IsError())
		roots := res.Payload["roots"].([]map[string]interface{})
		require.Len(t, roots, 2)
		byVal := map[string]int{}
		for _, r := range roots {
			byVal[r["value"].(string)] = r["multiplicity"].(int)
			assert.True(t, r["is_real"].(bool))
		}
		assert.Equal(t, map[string]int{"1": 2, "-2": 1}, byVal)
		assert.Contains(t, res.Payload["factored"], "(x - 1)^2")
	})

	t.Run("complex roots are retained and flagged", func(t *testing.T) {
		res := m.AnalyzePolynomial("x^2 + 1")
		require.False(t, res.IsError())
		roots := res.Payload["roots"].([]map[string]interface{})
		require.Len(t, roots, 2)
		for _, r := range roots {
			assert.False(t, r["is_real"].(bool))
		}
	})

	t.Run("non-polynomial rejected", func(t *testing.T) {
		res := m.AnalyzePolynomial("sin(x)")
		require.True(t, res.IsError())
		assert.Equal(t, "domain", res.Payload["error_kind"])
	})
}

func TestAnalyzeComplex(t *testing.T) {
	m := newTestModule()

	t.Run("standard and polar form", func(t *testing.T) {
		res := m.AnalyzeComplex("3 + 4i")
		require.False(t, res.IsError())
		assert.InDelta(t, 3, res.Payload["real"].(float64), 1e-12)
		assert.InDelta(t, 4, res.Payload["imaginary"].(float64), 1e-12)
		assert.InDelta(t, 5, res.Payload["modulus"].(float64), 1e-12)
		assert.InDelta(t, math.Atan2(4, 3), res.Payload["argument"].(float64), 1e-12)
	})

	t.Run("product of complex numbers", func(t *testing.T) {
		res := m.AnalyzeComplex("(1 + 2i)(3 - i)")
		require.False(t, res.IsError())
		assert.InDelta(t, 5, res.Payload["real"].(float64), 1e-9)
		assert.InDelta(t, 5, res.Payload["imaginary"].(float64), 1e-9)
	})

	t.Run("symbolic input rejected", func(t *testing.T) {
		res := m.AnalyzeComplex("x + 2i")
		require.True(t, res.IsError())
		assert.Equal(t, "domain", res.Payload["error_kind"])
	})
}

func TestProgressions(t *testing.T) {
	m := newTestModule()

	t.Run("arithmetic", func(t *testing.T) {
		res := m.ArithmeticProgression(2, 3, 10)
		require.False(t, res.IsError())
		assert.InDelta(t, 29, res.Payload["nth_term"].(float64), 1e-12)
		assert.InDelta(t, 155, res.Payload["sum"].(float64), 1e-12)
		preview := res.Payload["series_preview"].([]float64)
		require.Len(t, preview, 10)
		assert.Equal(t, 2.0, preview[0])
	})

	t.Run("geometric", func(t *testing.T) {
		res := m.GeometricProgression(1, 2, 8)
		require.False(t, res.IsError())
		assert.InDelta(t, 128, res.Payload["nth_term"].(float64), 1e-12)
		assert.InDelta(t, 255, res.Payload["sum"].(float64), 1e-12)
	})

	t.Run("geometric unit ratio", func(t *testing.T) {
		res := m.GeometricProgression(5, 1, 4)
		require.False(t, res.IsError())
		assert.InDelta(t, 20, res.Payload["sum"].(float64), 1e-12)
	})

	t.Run("invalid term count", func(t *testing.T) {
		res := m.ArithmeticProgression(1, 1, 0)
		assert.True(t, res.IsError())
	})
}

func TestSolveSystem(t *testing.T) {
	m := newTestModule()

	t.Run("unique 2x2", func(t *testing.T) {
		res := m.SolveSystem([]string{"2x + y = 5", "x - y = 1"})
		require.False(t, res.IsError())
		assert.Equal(t, "unique", res.Payload["type"])
		sol := res.Payload["solution"].(map[string]interface{})
		assert.InDelta(t, 2, sol["x"].(float64), 1e-9)
		assert.InDelta(t, 1, sol["y"].(float64), 1e-9)
	})

	t.Run("unique 3x3", func(t *testing.T) {
		res := m.SolveSystem([]string{"x + y + z = 6", "2y + 5z = -4", "2x + 5y - z = 27"})
		require.False(t, res.IsError())
		sol := res.Payload["solution"].(map[string]interface{})
		assert.InDelta(t, 5, sol["x"].(float64), 1e-9)
		assert.InDelta(t, 3, sol["y"].(float64), 1e-9)
		assert.InDelta(t, -2, sol["z"].(float64), 1e-9)
	})

	t.Run("inconsistent", func(t *testing.T) {
		res := m.SolveSystem([]string{"x + y = 1", "x + y = 2"})
		require.False(t, res.IsError())
		assert.Equal(t, "none", res.Payload["type"])
	})

	t.Run("underdetermined", func(t *testing.T) {
		res := m.SolveSystem([]string{"x + y = 1"})
		require.False(t, res.IsError())
		assert.Equal(t, "infinite", res.Payload["type"])
	})

	t.Run("nonlinear rejected", func(t *testing.T) {
		res := m.SolveSystem([]string{"x*y = 1", "x + y = 2"})
		require.True(t, res.IsError())
		assert.Equal(t, "domain", res.Payload["error_kind"])
	})
}
