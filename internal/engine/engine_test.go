package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduforge/mathcore/backend/internal/config"
	"github.com/eduforge/mathcore/backend/internal/logging"
)

func newTestEngine(opts ...Option) *Engine {
	return New(logging.NewNop(), config.Default().Engine, opts...)
}

func TestDispatch(t *testing.T) {
	e := newTestEngine()

	t.Run("calculus", func(t *testing.T) {
		res := e.Do("calculus.derivative_at", Params{"expression": "x^2", "point": 3.0})
		require.False(t, res.IsError())
		assert.InDelta(t, 6.0, res.Payload["slope"].(float64), 1e-9)
	})

	t.Run("algebra", func(t *testing.T) {
		res := e.Do("algebra.quadratic_solve", Params{"a": 1.0, "b": -3.0, "c": 2.0})
		require.False(t, res.IsError())
	})

	t.Run("matrices", func(t *testing.T) {
		res := e.Do("matrices.add", Params{
			"matrix_a": []interface{}{[]interface{}{1.0, 2.0}, []interface{}{3.0, 4.0}},
			"matrix_b": []interface{}{[]interface{}{5.0, 6.0}, []interface{}{7.0, 8.0}},
		})
		require.False(t, res.IsError())
	})

	t.Run("geometry", func(t *testing.T) {
		res := e.Do("geometry.distance", Params{
			"p1": []interface{}{0.0, 0.0},
			"p2": []interface{}{3.0, 4.0},
		})
		require.False(t, res.IsError())
		assert.InDelta(t, 5.0, res.Payload["distance"].(float64), 1e-9)
	})

	t.Run("trig", func(t *testing.T) {
		res := e.Do("trig.solve_equation", Params{"equation": "sin(x) = 0"})
		require.False(t, res.IsError())
		assert.Equal(t, []string{"0", "π"}, res.Payload["solutions"])
	})

	t.Run("unknown operation", func(t *testing.T) {
		res := e.Do("calculus.summon", Params{})
		require.True(t, res.IsError())
		assert.Equal(t, "unsupported", res.Payload["error_kind"])
	})

	t.Run("missing parameter", func(t *testing.T) {
		res := e.Do("calculus.derivative_at", Params{"expression": "x^2"})
		require.True(t, res.IsError())
		assert.Equal(t, "domain", res.Payload["error_kind"])
	})
}

func TestMemoization(t *testing.T) {
	t.Run("repeated request returns the stored envelope", func(t *testing.T) {
		e := newTestEngine()
		p := Params{"a": 1.0, "b": -3.0, "c": 2.0}
		first := e.Do("algebra.quadratic_solve", p)
		second := e.Do("algebra.quadratic_solve", Params{"c": 2.0, "a": 1.0, "b": -3.0})
		assert.Same(t, first, second)

		hits, misses := e.CacheStats()
		assert.Equal(t, uint64(1), hits)
		assert.Equal(t, uint64(1), misses)
	})

	t.Run("different parameters are distinct entries", func(t *testing.T) {
		e := newTestEngine()
		first := e.Do("geometry.heron", Params{"a": 3.0, "b": 4.0, "c": 5.0})
		second := e.Do("geometry.heron", Params{"a": 3.0, "b": 4.0, "c": 6.0})
		assert.NotSame(t, first, second)
	})

	t.Run("error envelopes are cached too", func(t *testing.T) {
		e := newTestEngine()
		first := e.Do("calculus.derivative_at", Params{"expression": "x +", "point": 1.0})
		require.True(t, first.IsError())
		second := e.Do("calculus.derivative_at", Params{"expression": "x +", "point": 1.0})
		assert.Same(t, first, second)
	})
}

type recordingObserver struct {
	ops    []string
	status []string
	hits   []bool
}

func (r *recordingObserver) ObserveOperation(op, status string, _ time.Duration) {
	r.ops = append(r.ops, op)
	r.status = append(r.status, status)
}

func (r *recordingObserver) ObserveCache(hit bool) {
	r.hits = append(r.hits, hit)
}

func TestObserver(t *testing.T) {
	obs := &recordingObserver{}
	e := newTestEngine(WithObserver(obs))

	p := Params{"a": 1.0, "b": 0.0, "c": -4.0}
	e.Do("algebra.quadratic_solve", p)
	e.Do("algebra.quadratic_solve", p)

	require.Len(t, obs.ops, 2)
	assert.Equal(t, []string{"algebra.quadratic_solve", "algebra.quadratic_solve"}, obs.ops)
	assert.Equal(t, []string{"ok", "ok"}, obs.status)
	assert.Equal(t, []bool{false, true}, obs.hits)
}

func TestParams(t *testing.T) {
	t.Run("number coercion", func(t *testing.T) {
		p := Params{"f": 1.5, "i": 2}
		f, ok := p.Number("f")
		require.True(t, ok)
		assert.Equal(t, 1.5, f)
		i, ok := p.Number("i")
		require.True(t, ok)
		assert.Equal(t, 2.0, i)
		_, ok = p.Number("missing")
		assert.False(t, ok)
	})

	t.Run("point forms", func(t *testing.T) {
		p := Params{
			"arr": []interface{}{1.0, 2.0},
			"obj": map[string]interface{}{"x": 1.0, "y": 2.0, "z": 3.0},
			"bad": []interface{}{1.0},
		}
		pt, ok := p.Point("arr")
		require.True(t, ok)
		assert.Equal(t, 1.0, pt.X)
		pt, ok = p.Point("obj")
		require.True(t, ok)
		assert.Equal(t, 3.0, pt.Z)
		_, ok = p.Point("bad")
		assert.False(t, ok)
	})

	t.Run("circle forms", func(t *testing.T) {
		p := Params{
			"nested": map[string]interface{}{"center": []interface{}{1.0, 2.0}, "radius": 3.0},
			"flat":   map[string]interface{}{"x": 1.0, "y": 2.0, "r": 3.0},
		}
		c, ok := p.Circle("nested")
		require.True(t, ok)
		assert.Equal(t, 3.0, c.R)
		c, ok = p.Circle("flat")
		require.True(t, ok)
		assert.Equal(t, 2.0, c.Y)
	})

	t.Run("canonical is key-order independent", func(t *testing.T) {
		a := Params{"x": 1.0, "y": []interface{}{1.0, 2.0}}
		b := Params{"y": []interface{}{1.0, 2.0}, "x": 1.0}
		assert.Equal(t, a.Canonical(), b.Canonical())
	})

	t.Run("canonical distinguishes types", func(t *testing.T) {
		a := Params{"v": "1"}
		b := Params{"v": 1.0}
		assert.NotEqual(t, a.Canonical(), b.Canonical())
	})
}
