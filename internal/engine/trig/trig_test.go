package trig

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduforge/mathcore/backend/internal/config"
	"github.com/eduforge/mathcore/backend/internal/logging"
)

func newTestModule() *Trig {
	return New(logging.NewNop(), config.Default().Engine)
}

func TestValues(t *testing.T) {
	tr := newTestModule()

	t.Run("30 degrees has exact surds", func(t *testing.T) {
		res := tr.Values("30")
		require.False(t, res.IsError())
		assert.InDelta(t, 30, res.Payload["angle_deg"].(float64), 1e-12)
		ratios := res.Payload["ratios"].(map[string]ratio)
		assert.Equal(t, `\frac{1}{2}`, ratios["sin"].Exact)
		require.NotNil(t, ratios["sin"].Approx)
		assert.InDelta(t, 0.5, *ratios["sin"].Approx, 1e-12)
		assert.Equal(t, "2", ratios["csc"].Exact)
	})

	t.Run("90 degrees leaves tan and sec undefined", func(t *testing.T) {
		res := tr.Values("90")
		require.False(t, res.IsError())
		ratios := res.Payload["ratios"].(map[string]ratio)
		assert.Equal(t, "Undefined", ratios["tan"].Exact)
		assert.Nil(t, ratios["tan"].Approx)
		assert.Equal(t, "Undefined", ratios["sec"].Exact)
		assert.Equal(t, "1", ratios["csc"].Exact)
	})

	t.Run("radian input via pi", func(t *testing.T) {
		res := tr.Values("pi/4")
		require.False(t, res.IsError())
		assert.InDelta(t, 45, res.Payload["angle_deg"].(float64), 1e-9)
		ratios := res.Payload["ratios"].(map[string]ratio)
		assert.Equal(t, `\frac{\sqrt{2}}{2}`, ratios["sin"].Exact)
	})

	t.Run("third quadrant sign", func(t *testing.T) {
		res := tr.Values("210")
		require.False(t, res.IsError())
		ratios := res.Payload["ratios"].(map[string]ratio)
		assert.Equal(t, `-\frac{1}{2}`, ratios["sin"].Exact)
		assert.Equal(t, `\frac{\sqrt{3}}{3}`, ratios["tan"].Exact)
	})

	t.Run("unit circle visual", func(t *testing.T) {
		res := tr.Values("60")
		require.Len(t, res.PlotElements, 3)
		assert.Equal(t, "circle", res.PlotElements[0].Type)
	})

	t.Run("non-constant angle rejected", func(t *testing.T) {
		res := tr.Values("x")
		assert.True(t, res.IsError())
	})
}

func TestUnitCircle(t *testing.T) {
	tr := newTestModule()

	t.Run("45 degrees with tangent construction", func(t *testing.T) {
		res := tr.UnitCircle(45)
		require.False(t, res.IsError())
		ratios := res.Payload["ratios"].(map[string]interface{})
		assert.InDelta(t, math.Sqrt2/2, ratios["sin"].(float64), 1e-12)
		assert.InDelta(t, 1, ratios["tan"].(float64), 1e-9)
		// circle, radius, sin and cos projections, tan and sec lines
		assert.Len(t, res.PlotElements, 6)
	})

	t.Run("90 degrees drops the tangent construction", func(t *testing.T) {
		res := tr.UnitCircle(90)
		require.False(t, res.IsError())
		ratios := res.Payload["ratios"].(map[string]interface{})
		assert.Nil(t, ratios["tan"])
		assert.Len(t, res.PlotElements, 4)
	})
}

func TestGraph(t *testing.T) {
	tr := newTestModule()

	t.Run("shifted sine", func(t *testing.T) {
		res := tr.Graph("sin", GraphParams{A: 2, D: 1})
		require.False(t, res.IsError())
		assert.Equal(t, `y = 2 \sin(x) + 1`, res.Display["function"])
		require.Len(t, res.PlotElements, 1)
		points := res.PlotElements[0].Data["points"].([][2]float64)
		assert.Len(t, points, tr.resolution)
		// range of 2 sin(x) + 1 is [-1, 3]
		for _, p := range points {
			assert.LessOrEqual(t, p[1], 3.0+1e-9)
			assert.GreaterOrEqual(t, p[1], -1.0-1e-9)
		}
	})

	t.Run("tangent is clipped at asymptotes", func(t *testing.T) {
		res := tr.Graph("tan", GraphParams{})
		require.False(t, res.IsError())
		points := res.PlotElements[0].Data["points"].([][2]float64)
		assert.Less(t, len(points), tr.resolution)
		assert.Greater(t, len(points), 100)
		for _, p := range points {
			assert.LessOrEqual(t, math.Abs(p[1]), tr.asymptoteClip)
		}
	})

	t.Run("arcsine natural domain", func(t *testing.T) {
		res := tr.Graph("asin", GraphParams{})
		require.False(t, res.IsError())
		domain := res.Payload["domain"].([]float64)
		assert.InDelta(t, -1, domain[0], 1e-12)
		assert.InDelta(t, 1, domain[1], 1e-12)
	})

	t.Run("unknown function", func(t *testing.T) {
		res := tr.Graph("versine", GraphParams{})
		require.True(t, res.IsError())
		assert.Equal(t, "unsupported", res.Payload["error_kind"])
	})
}

func TestProveIdentity(t *testing.T) {
	tr := newTestModule()

	t.Run("pythagorean identity is proven symbolically", func(t *testing.T) {
		res := tr.ProveIdentity("sin(x)^2 + cos(x)^2", "1")
		require.False(t, res.IsError())
		assert.Equal(t, true, res.Payload["proven"])
	})

	t.Run("double angle verifies numerically", func(t *testing.T) {
		res := tr.ProveIdentity("sin(2x)", "2*sin(x)*cos(x)")
		require.False(t, res.IsError())
		assert.Equal(t, false, res.Payload["proven"])
		assert.Equal(t, true, res.Payload["verified_numerically"])
	})

	t.Run("false identity", func(t *testing.T) {
		res := tr.ProveIdentity("sin(x)", "cos(x)")
		require.False(t, res.IsError())
		assert.Equal(t, false, res.Payload["proven"])
		assert.Equal(t, false, res.Payload["verified_numerically"])
	})

	t.Run("parse failure", func(t *testing.T) {
		res := tr.ProveIdentity("sin(", "1")
		require.True(t, res.IsError())
		assert.Equal(t, "parse", res.Payload["error_kind"])
	})
}

func TestSolveEquation(t *testing.T) {
	tr := newTestModule()

	t.Run("sin roots in one period", func(t *testing.T) {
		res := tr.SolveEquation("sin(x)")
		require.False(t, res.IsError())
		assert.Equal(t, []string{"0", "π"}, res.Payload["solutions"])
	})

	t.Run("cosine equation snaps to the pi grid", func(t *testing.T) {
		res := tr.SolveEquation("cos(x) = 1/2")
		require.False(t, res.IsError())
		assert.Equal(t, []string{"π/3", "5π/3"}, res.Payload["solutions"])
	})

	t.Run("unsatisfiable equation", func(t *testing.T) {
		res := tr.SolveEquation("sin(x) = 3")
		require.False(t, res.IsError())
		assert.Empty(t, res.Payload["solutions"])
	})

	t.Run("identity holds everywhere", func(t *testing.T) {
		res := tr.SolveEquation("0 = 0")
		require.False(t, res.IsError())
		assert.Equal(t, []string{"all x"}, res.Payload["solutions"])
	})

	t.Run("wrong variable rejected", func(t *testing.T) {
		res := tr.SolveEquation("sin(y) = 0")
		require.True(t, res.IsError())
		assert.Equal(t, "domain", res.Payload["error_kind"])
	})
}

func TestCompoundAngle(t *testing.T) {
	tr := newTestModule()

	t.Run("symbolic expansion", func(t *testing.T) {
		res := tr.CompoundAngle("sin_add", "x", "y")
		require.False(t, res.IsError())
		assert.Equal(t, "sin(x)·cos(y) + cos(x)·sin(y)", res.Payload["expansion"])
		_, hasValue := res.Payload["value"]
		assert.False(t, hasValue)
	})

	t.Run("numeric arguments produce a value", func(t *testing.T) {
		res := tr.CompoundAngle("cos_add", "pi/3", "pi/6")
		require.False(t, res.IsError())
		require.Contains(t, res.Payload, "value")
		assert.InDelta(t, 0, res.Payload["value"].(float64), 1e-9)
	})

	t.Run("tangent sum formula", func(t *testing.T) {
		res := tr.CompoundAngle("tan_add", "x", "y")
		require.False(t, res.IsError())
		assert.Contains(t, res.Payload["expansion"], "1 - tan(x)·tan(y)")
	})

	t.Run("unknown operation", func(t *testing.T) {
		res := tr.CompoundAngle("sin_halve", "x", "y")
		require.True(t, res.IsError())
		assert.Equal(t, "unsupported", res.Payload["error_kind"])
	})
}

func TestHeightsDistances(t *testing.T) {
	tr := newTestModule()

	t.Run("height from distance and angle", func(t *testing.T) {
		res := tr.HeightsDistances("find_height", 10, 45, 0)
		require.False(t, res.IsError())
		assert.InDelta(t, 10, res.Payload["result"].(float64), 1e-9)
		assert.Len(t, res.PlotElements, 3)
	})

	t.Run("observer height is added", func(t *testing.T) {
		res := tr.HeightsDistances("find_height", 10, 45, 1.5)
		require.False(t, res.IsError())
		assert.InDelta(t, 11.5, res.Payload["result"].(float64), 1e-9)
	})

	t.Run("distance from height and angle", func(t *testing.T) {
		res := tr.HeightsDistances("find_dist", 20, 45, 0)
		require.False(t, res.IsError())
		assert.InDelta(t, 20, res.Payload["result"].(float64), 1e-9)
	})

	t.Run("degenerate angle", func(t *testing.T) {
		res := tr.HeightsDistances("find_height", 10, 0, 0)
		require.True(t, res.IsError())
		assert.Equal(t, "domain", res.Payload["error_kind"])
	})

	t.Run("unknown problem type", func(t *testing.T) {
		res := tr.HeightsDistances("find_angle", 10, 45, 0)
		require.True(t, res.IsError())
		assert.Equal(t, "unsupported", res.Payload["error_kind"])
	})
}
