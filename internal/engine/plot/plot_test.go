package plot

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSample(t *testing.T) {
	t.Run("even spacing and endpoints", func(t *testing.T) {
		xs, ys := Sample(func(x float64) (float64, error) { return x * x, nil }, -2, 2, 5)
		require.Len(t, xs, 5)
		assert.Equal(t, -2.0, xs[0])
		assert.Equal(t, 2.0, xs[4])
		assert.Equal(t, 0.0, ys[2])
	})

	t.Run("failures become NaN", func(t *testing.T) {
		_, ys := Sample(func(x float64) (float64, error) {
			if x < 0 {
				return 0, errors.New("domain")
			}
			return math.Sqrt(x), nil
		}, -1, 1, 5)
		assert.True(t, math.IsNaN(ys[0]))
		assert.False(t, math.IsNaN(ys[4]))
	})
}

func TestMasking(t *testing.T) {
	t.Run("clip removes asymptote spikes", func(t *testing.T) {
		ys := []float64{1, 25, -40, 3}
		Clip(ys, 20)
		assert.False(t, math.IsNaN(ys[0]))
		assert.True(t, math.IsNaN(ys[1]))
		assert.True(t, math.IsNaN(ys[2]))
		assert.False(t, math.IsNaN(ys[3]))
	})

	t.Run("jumps blank both neighbors", func(t *testing.T) {
		ys := []float64{1, 2, 15, 16}
		MaskJumps(ys, 10)
		assert.False(t, math.IsNaN(ys[0]))
		assert.True(t, math.IsNaN(ys[1]))
		assert.True(t, math.IsNaN(ys[2]))
		assert.False(t, math.IsNaN(ys[3]))
	})
}

func TestFilterFinite(t *testing.T) {
	xs := []float64{0, 1, 2, 3}
	ys := []float64{5, math.NaN(), math.Inf(1), 8}
	fx, fy := FilterFinite(xs, ys)
	assert.Equal(t, []float64{0, 3}, fx)
	assert.Equal(t, []float64{5, 8}, fy)
}

func TestElements(t *testing.T) {
	t.Run("curve preserves gaps as nulls", func(t *testing.T) {
		el := Curve([]float64{0, 1}, []float64{2, math.NaN()}, "f", nil)
		assert.Equal(t, "curve", el.Type)
		y := el.Data["y"].([]interface{})
		assert.Equal(t, 2.0, y[0])
		assert.Nil(t, y[1])
		assert.NotNil(t, el.Style)
	})

	t.Run("polygon vertices", func(t *testing.T) {
		el := Polygon([][2]float64{{0, 0}, {1, 0}, {0, 1}}, "tri", map[string]interface{}{"color": "blue"})
		verts := el.Data["vertices"].([]map[string]float64)
		require.Len(t, verts, 3)
		assert.Equal(t, 1.0, verts[1]["x"])
		assert.Equal(t, "blue", el.Style["color"])
	})
}
