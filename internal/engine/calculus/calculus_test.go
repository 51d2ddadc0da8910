package calculus

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduforge/mathcore/backend/internal/config"
	"github.com/eduforge/mathcore/backend/internal/logging"
)

func newTestModule() *Calculus {
	return New(logging.NewNop(), config.Default().Engine)
}

func TestAnalyze(t *testing.T) {
	c := newTestModule()

	t.Run("quadratic", func(t *testing.T) {
		res := c.Analyze("x^2", -2, 2, 100)
		require.False(t, res.IsError())
		assert.Equal(t, "2*x", res.Payload["derivative"])
		assert.Equal(t, "2", res.Payload["second_derivative"])
		require.Len(t, res.PlotElements, 2)
		assert.Equal(t, "curve", res.PlotElements[0].Type)
	})

	t.Run("parse failure", func(t *testing.T) {
		res := c.Analyze("x^^2", -1, 1, 100)
		require.True(t, res.IsError())
		assert.Equal(t, "parse", res.Payload["error_kind"])
	})

	t.Run("empty domain", func(t *testing.T) {
		res := c.Analyze("x", 2, 2, 100)
		require.True(t, res.IsError())
		assert.Equal(t, "domain", res.Payload["error_kind"])
	})
}

func TestDerivativeAt(t *testing.T) {
	c := newTestModule()

	t.Run("slope of cubic", func(t *testing.T) {
		res := c.DerivativeAt("x^3", 2)
		require.False(t, res.IsError())
		assert.InDelta(t, 12, res.Payload["slope"].(float64), 1e-9)
		assert.InDelta(t, 8, res.Payload["y"].(float64), 1e-9)
		assert.Contains(t, res.Payload["tangent_equation"], "12")
	})

	t.Run("round trip through the parser", func(t *testing.T) {
		res := c.DerivativeAt("3*x^2 + 2*x - 1", 1.5)
		require.False(t, res.IsError())
		assert.InDelta(t, 6*1.5+2, res.Payload["slope"].(float64), 1e-9)
	})

	t.Run("singular point", func(t *testing.T) {
		res := c.DerivativeAt("1/x", 0)
		assert.True(t, res.IsError())
	})
}

func TestDefiniteIntegral(t *testing.T) {
	c := newTestModule()

	t.Run("linear integrand", func(t *testing.T) {
		res := c.DefiniteIntegral("x", 0, 1)
		require.False(t, res.IsError())
		assert.InDelta(t, 0.5, res.Payload["result"].(float64), 1e-9)
	})

	t.Run("no closed form", func(t *testing.T) {
		res := c.DefiniteIntegral("exp(x^2)", 0, 1)
		require.True(t, res.IsError())
		assert.Equal(t, "no_closed_form", res.Payload["error_kind"])
	})
}

func TestIndefiniteIntegral(t *testing.T) {
	c := newTestModule()
	res := c.IndefiniteIntegral("cos(2x)")
	require.False(t, res.IsError())
	assert.Contains(t, res.Payload["result"], "sin")
	found := false
	for _, s := range res.Steps {
		if strings.Contains(s, "+ C") {
			found = true
		}
	}
	assert.True(t, found, "steps should mention the integration constant")
}

func TestLimit(t *testing.T) {
	c := newTestModule()

	t.Run("two sided", func(t *testing.T) {
		res := c.Limit("sin(x)/x", 0, "+/-")
		require.False(t, res.IsError())
		assert.Equal(t, "1", res.Payload["result"])
	})

	t.Run("one sided infinity", func(t *testing.T) {
		res := c.Limit("1/x", 0, "+")
		require.False(t, res.IsError())
		assert.Equal(t, "oo", res.Payload["result"])
	})

	t.Run("does not exist", func(t *testing.T) {
		res := c.Limit("1/x", 0, "+/-")
		require.False(t, res.IsError())
		assert.Equal(t, "does not exist", res.Payload["result"])
	})
}

func TestCriticalPoints(t *testing.T) {
	c := newTestModule()

	t.Run("parabola has one local minimum at zero", func(t *testing.T) {
		res := c.CriticalPoints("x^2", -2, 2)
		require.False(t, res.IsError())
		points := res.Payload["points"].([]map[string]interface{})
		require.Len(t, points, 1)
		assert.InDelta(t, 0, points[0]["x"].(float64), 1e-9)
		assert.Equal(t, "local minimum", points[0]["type"])
	})

	t.Run("cubic with min and max", func(t *testing.T) {
		res := c.CriticalPoints("x^3 - 3x", -5, 5)
		require.False(t, res.IsError())
		points := res.Payload["points"].([]map[string]interface{})
		require.Len(t, points, 2)
		kinds := map[string]bool{}
		for _, p := range points {
			kinds[p["type"].(string)] = true
		}
		assert.True(t, kinds["local minimum"])
		assert.True(t, kinds["local maximum"])
	})

	t.Run("non polynomial derivative uses domain scan", func(t *testing.T) {
		res := c.CriticalPoints("sin(x)", 0, 2*math.Pi)
		require.False(t, res.IsError())
		points := res.Payload["points"].([]map[string]interface{})
		require.Len(t, points, 2)
	})
}

func TestTaylorSeries(t *testing.T) {
	c := newTestModule()

	t.Run("exp about zero", func(t *testing.T) {
		res := c.TaylorSeries("exp(x)", 0, 3, -2, 2)
		require.False(t, res.IsError())
		series := res.Payload["series"].(string)
		assert.Contains(t, series, "x^3")
		require.Len(t, res.PlotElements, 3)
	})

	t.Run("order cap", func(t *testing.T) {
		res := c.TaylorSeries("exp(x)", 0, 99, -1, 1)
		require.True(t, res.IsError())
		assert.Equal(t, "domain", res.Payload["error_kind"])
	})
}

func TestSolveODE(t *testing.T) {
	c := newTestModule()

	t.Run("homogeneous decay", func(t *testing.T) {
		res := c.SolveODE("y' + y = 0")
		require.False(t, res.IsError())
		sol := res.Payload["solution"].(string)
		assert.Contains(t, sol, "C")
		assert.Contains(t, sol, "e^(-1")
	})

	t.Run("forced equation", func(t *testing.T) {
		res := c.SolveODE("y' - y = x")
		require.False(t, res.IsError())
		assert.Contains(t, res.Payload["solution"], "C")
	})

	t.Run("pure integration", func(t *testing.T) {
		res := c.SolveODE("y' = 2x")
		require.False(t, res.IsError())
		assert.Contains(t, res.Payload["solution"], "x^2")
	})

	t.Run("nonlinear term is rejected", func(t *testing.T) {
		res := c.SolveODE("y' + y*y = 0")
		require.True(t, res.IsError())
		assert.Equal(t, "parse", res.Payload["error_kind"])
		assert.Contains(t, res.Payload["error"], "nonlinear")
	})

	t.Run("missing derivative is rejected", func(t *testing.T) {
		res := c.SolveODE("y + 1 = 0")
		require.True(t, res.IsError())
	})
}

func TestPartialDerivative(t *testing.T) {
	c := newTestModule()

	t.Run("mixed variables", func(t *testing.T) {
		res := c.PartialDerivative("x^2*y + z", "y")
		require.False(t, res.IsError())
		assert.Equal(t, "x^2", res.Payload["result"])
	})

	t.Run("unknown variable", func(t *testing.T) {
		res := c.PartialDerivative("x^2", "w")
		require.True(t, res.IsError())
		assert.Equal(t, "domain", res.Payload["error_kind"])
	})
}
