// Package engine wires the math modules behind a single dispatch entry
// point with memoization and panic containment.
package engine

import (
	"time"

	"go.uber.org/zap"

	"github.com/eduforge/mathcore/backend/internal/config"
	"github.com/eduforge/mathcore/backend/internal/engine/algebra"
	"github.com/eduforge/mathcore/backend/internal/engine/cache"
	"github.com/eduforge/mathcore/backend/internal/engine/calculus"
	"github.com/eduforge/mathcore/backend/internal/engine/geometry"
	"github.com/eduforge/mathcore/backend/internal/engine/matrix"
	"github.com/eduforge/mathcore/backend/internal/engine/result"
	"github.com/eduforge/mathcore/backend/internal/engine/trig"
	"github.com/eduforge/mathcore/backend/internal/logging"
)

// Observer receives one event per dispatched operation. The server wires
// the prometheus recorder here; tests leave it nil.
type Observer interface {
	ObserveOperation(operation, status string, duration time.Duration)
	ObserveCache(hit bool)
}

// Engine routes operation requests to the domain modules. Results are
// memoized by operation name plus the canonical parameter rendering, so a
// repeated request returns the identical envelope.
type Engine struct {
	log   *logging.Logger
	cache *cache.Cache
	obs   Observer

	calculus *calculus.Calculus
	algebra  *algebra.Algebra
	matrix   *matrix.Module
	geometry *geometry.Geometry
	trig     *trig.Trig
}

// Option configures optional engine collaborators.
type Option func(*Engine)

// WithObserver attaches a metrics observer.
func WithObserver(obs Observer) Option {
	return func(e *Engine) { e.obs = obs }
}

// New assembles the engine and all domain modules.
func New(log *logging.Logger, cfg config.EngineConfig, opts ...Option) *Engine {
	e := &Engine{
		log:      log,
		cache:    cache.New(cfg.CacheCapacity),
		calculus: calculus.New(log, cfg),
		algebra:  algebra.New(log),
		matrix:   matrix.New(log, cfg),
		geometry: geometry.New(log),
		trig:     trig.New(log, cfg),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CacheStats reports cumulative memoization hit and miss counts.
func (e *Engine) CacheStats() (hits, misses uint64) {
	return e.cache.Stats()
}

// Do executes one operation. The envelope is served from the cache when the
// operation and parameters have been seen before; otherwise it is computed,
// stored, and returned. Do never panics: a panicking module becomes an
// internal error envelope.
func (e *Engine) Do(operation string, params Params) *result.Computation {
	start := time.Now()
	key := cache.Key(operation, params.Canonical())
	if res, ok := e.cache.Get(key); ok {
		e.observe(operation, res.Status, start, true)
		return res
	}
	res := e.dispatch(operation, params)
	e.cache.Put(key, res)
	e.observe(operation, res.Status, start, false)
	return res
}

func (e *Engine) observe(operation, status string, start time.Time, hit bool) {
	d := time.Since(start)
	e.log.Debug("operation",
		zap.String("operation", operation),
		zap.String("status", status),
		zap.Bool("cache_hit", hit),
		zap.Duration("duration", d))
	if e.obs != nil {
		e.obs.ObserveOperation(operation, status, d)
		e.obs.ObserveCache(hit)
	}
}

func (e *Engine) dispatch(operation string, p Params) (res *result.Computation) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("operation panicked",
				zap.String("operation", operation), zap.Any("panic", r))
			res = result.Error(operation, result.KindInternal, "internal error: %v", r)
		}
	}()

	switch operation {
	// calculus
	case "calculus.analyze":
		expr, ok := p.String("expression")
		if !ok {
			return missing(operation, "expression")
		}
		lo, hi := p.Domain("domain", -10, 10)
		return e.calculus.Analyze(expr, lo, hi, p.IntOr("resolution", 0))
	case "calculus.derivative_at":
		expr, ok := p.String("expression")
		if !ok {
			return missing(operation, "expression")
		}
		x0, ok := p.Number("point")
		if !ok {
			return missing(operation, "point")
		}
		return e.calculus.DerivativeAt(expr, x0)
	case "calculus.partial_derivative":
		expr, ok := p.String("expression")
		if !ok {
			return missing(operation, "expression")
		}
		return e.calculus.PartialDerivative(expr, p.StringOr("variable", "x"))
	case "calculus.definite_integral":
		expr, ok := p.String("expression")
		if !ok {
			return missing(operation, "expression")
		}
		a, okA := p.Number("a")
		b, okB := p.Number("b")
		if !okA || !okB {
			return missing(operation, "a, b")
		}
		return e.calculus.DefiniteIntegral(expr, a, b)
	case "calculus.indefinite_integral":
		expr, ok := p.String("expression")
		if !ok {
			return missing(operation, "expression")
		}
		return e.calculus.IndefiniteIntegral(expr)
	case "calculus.limit":
		expr, ok := p.String("expression")
		if !ok {
			return missing(operation, "expression")
		}
		point, ok := p.Number("point")
		if !ok {
			return missing(operation, "point")
		}
		return e.calculus.Limit(expr, point, p.StringOr("direction", "+/-"))
	case "calculus.critical_points":
		expr, ok := p.String("expression")
		if !ok {
			return missing(operation, "expression")
		}
		lo, hi := p.Domain("domain", -10, 10)
		return e.calculus.CriticalPoints(expr, lo, hi)
	case "calculus.taylor_series":
		expr, ok := p.String("expression")
		if !ok {
			return missing(operation, "expression")
		}
		center := p.NumberOr("center", 0)
		lo, hi := p.Domain("domain", center-5, center+5)
		return e.calculus.TaylorSeries(expr, center, p.IntOr("order", 5), lo, hi)
	case "calculus.solve_ode":
		eqn, ok := p.String("equation")
		if !ok {
			return missing(operation, "equation")
		}
		return e.calculus.SolveODE(eqn)

	// algebra
	case "algebra.quadratic_solve":
		a, okA := p.Number("a")
		b, okB := p.Number("b")
		c, okC := p.Number("c")
		if !okA || !okB || !okC {
			return missing(operation, "a, b, c")
		}
		return e.algebra.SolveQuadratic(a, b, c)
	case "algebra.polynomial_analysis":
		expr, ok := p.String("expression")
		if !ok {
			return missing(operation, "expression")
		}
		return e.algebra.AnalyzePolynomial(expr)
	case "algebra.complex_analysis":
		expr, ok := p.String("expression")
		if !ok {
			return missing(operation, "expression")
		}
		return e.algebra.AnalyzeComplex(expr)
	case "algebra.arithmetic_progression":
		a, okA := p.Number("a")
		d, okD := p.Number("d")
		n, okN := p.Int("n")
		if !okA || !okD || !okN {
			return missing(operation, "a, d, n")
		}
		return e.algebra.ArithmeticProgression(a, d, n)
	case "algebra.geometric_progression":
		a, okA := p.Number("a")
		r, okR := p.Number("r")
		n, okN := p.Int("n")
		if !okA || !okR || !okN {
			return missing(operation, "a, r, n")
		}
		return e.algebra.GeometricProgression(a, r, n)
	case "algebra.solve_system":
		eqns, ok := p.Strings("equations")
		if !ok {
			return missing(operation, "equations")
		}
		return e.algebra.SolveSystem(eqns)

	// matrices
	case "matrices.properties":
		cells, ok := p.Grid("matrix")
		if !ok {
			return missing(operation, "matrix")
		}
		return e.matrix.Properties(cells)
	case "matrices.add", "matrices.subtract", "matrices.multiply":
		a, okA := p.Grid("matrix_a")
		b, okB := p.Grid("matrix_b")
		if !okA || !okB {
			return missing(operation, "matrix_a, matrix_b")
		}
		op := operation[len("matrices."):]
		return e.matrix.Operate(a, b, op)
	case "matrices.determinant":
		cells, ok := p.Grid("matrix")
		if !ok {
			return missing(operation, "matrix")
		}
		return e.matrix.Determinant(cells)
	case "matrices.inverse":
		cells, ok := p.Grid("matrix")
		if !ok {
			return missing(operation, "matrix")
		}
		return e.matrix.Inverse(cells)
	case "matrices.eigenvalues":
		cells, ok := p.Grid("matrix")
		if !ok {
			return missing(operation, "matrix")
		}
		return e.matrix.Eigenvalues(cells)
	case "matrices.transform":
		cells, ok := p.Grid("matrix")
		if !ok {
			return missing(operation, "matrix")
		}
		return e.matrix.Transform(cells, p.StringOr("shape", "unit_square"))

	// geometry
	case "geometry.distance":
		p1, ok1 := p.Point("p1")
		p2, ok2 := p.Point("p2")
		if !ok1 || !ok2 {
			return missing(operation, "p1, p2")
		}
		return e.geometry.Distance(p1, p2)
	case "geometry.midpoint":
		p1, ok1 := p.Point("p1")
		p2, ok2 := p.Point("p2")
		if !ok1 || !ok2 {
			return missing(operation, "p1, p2")
		}
		return e.geometry.Midpoint(p1, p2)
	case "geometry.section_point":
		p1, ok1 := p.Point("p1")
		p2, ok2 := p.Point("p2")
		m, okM := p.Number("m")
		n, okN := p.Number("n")
		if !ok1 || !ok2 || !okM || !okN {
			return missing(operation, "p1, p2, m, n")
		}
		return e.geometry.SectionPoint(p1, p2, m, n)
	case "geometry.line_from_points":
		p1, ok1 := p.Point("p1")
		p2, ok2 := p.Point("p2")
		if !ok1 || !ok2 {
			return missing(operation, "p1, p2")
		}
		return e.geometry.LineFromPoints(p1, p2)
	case "geometry.line_intersection":
		l1, ok1 := p.Line("line1")
		l2, ok2 := p.Line("line2")
		if !ok1 || !ok2 {
			return missing(operation, "line1, line2")
		}
		return e.geometry.LineIntersection(l1, l2)
	case "geometry.line_circle_intersection":
		l, okL := p.Line("line")
		c, okC := p.Circle("circle")
		if !okL || !okC {
			return missing(operation, "line, circle")
		}
		return e.geometry.LineCircleIntersection(l, c)
	case "geometry.circle_circle_intersection":
		c1, ok1 := p.Circle("circle1")
		c2, ok2 := p.Circle("circle2")
		if !ok1 || !ok2 {
			return missing(operation, "circle1, circle2")
		}
		return e.geometry.CircleCircleIntersection(c1, c2)
	case "geometry.tangent_from_point":
		pt, okP := p.Point("point")
		c, okC := p.Circle("circle")
		if !okP || !okC {
			return missing(operation, "point, circle")
		}
		return e.geometry.TangentFromPoint(pt, c)
	case "geometry.triangle_analyze":
		p1, ok1 := p.Point("p1")
		p2, ok2 := p.Point("p2")
		p3, ok3 := p.Point("p3")
		if !ok1 || !ok2 || !ok3 {
			return missing(operation, "p1, p2, p3")
		}
		return e.geometry.TriangleAnalyze(p1, p2, p3)
	case "geometry.quadrilateral_analyze":
		p1, ok1 := p.Point("p1")
		p2, ok2 := p.Point("p2")
		p3, ok3 := p.Point("p3")
		p4, ok4 := p.Point("p4")
		if !ok1 || !ok2 || !ok3 || !ok4 {
			return missing(operation, "p1, p2, p3, p4")
		}
		return e.geometry.QuadrilateralAnalyze(p1, p2, p3, p4)
	case "geometry.conic_classify":
		return e.geometry.ConicClassify(geometry.ConicCoeffs{
			A: p.NumberOr("a", 0),
			B: p.NumberOr("b", 0),
			C: p.NumberOr("c", 0),
			D: p.NumberOr("d", 0),
			E: p.NumberOr("e", 0),
			F: p.NumberOr("f", 0),
		})
	case "geometry.transform_2d":
		pt, okP := p.Point("point")
		op, okOp := p.String("operation")
		if !okP || !okOp {
			return missing(operation, "point, operation")
		}
		return e.geometry.Transform2D(pt, op, p.FloatMap("params"))
	case "geometry.heron":
		a, okA := p.Number("a")
		b, okB := p.Number("b")
		c, okC := p.Number("c")
		if !okA || !okB || !okC {
			return missing(operation, "a, b, c")
		}
		return e.geometry.Heron(a, b, c)
	case "geometry.solid":
		shape, ok := p.String("shape")
		if !ok {
			return missing(operation, "shape")
		}
		return e.geometry.Solid(shape, p.FloatMap("params"))
	case "geometry.conicoid":
		shape, ok := p.String("shape")
		if !ok {
			return missing(operation, "shape")
		}
		return e.geometry.Conicoid(shape, p.FloatMap("params"))
	case "geometry.vector_properties":
		v, ok := p.Numbers("vector")
		if !ok {
			return missing(operation, "vector")
		}
		return e.geometry.VectorProperties(v)
	case "geometry.vector_operation":
		v1, ok1 := p.Numbers("vector1")
		v2, ok2 := p.Numbers("vector2")
		op, okOp := p.String("operation")
		if !ok1 || !ok2 || !okOp {
			return missing(operation, "vector1, vector2, operation")
		}
		return e.geometry.VectorOperate(v1, v2, op)

	// trigonometry
	case "trig.values":
		angle, ok := p.String("angle")
		if !ok {
			return missing(operation, "angle")
		}
		return e.trig.Values(angle)
	case "trig.unit_circle":
		angle, ok := p.Number("angle")
		if !ok {
			return missing(operation, "angle")
		}
		return e.trig.UnitCircle(angle)
	case "trig.graph":
		fn, ok := p.String("function")
		if !ok {
			return missing(operation, "function")
		}
		return e.trig.Graph(fn, trig.GraphParams{
			A: p.NumberOr("A", 1),
			B: p.NumberOr("B", 1),
			C: p.NumberOr("C", 0),
			D: p.NumberOr("D", 0),
		})
	case "trig.prove_identity":
		lhs, okL := p.String("lhs")
		rhs, okR := p.String("rhs")
		if !okL || !okR {
			return missing(operation, "lhs, rhs")
		}
		return e.trig.ProveIdentity(lhs, rhs)
	case "trig.solve_equation":
		eqn, ok := p.String("equation")
		if !ok {
			return missing(operation, "equation")
		}
		return e.trig.SolveEquation(eqn)
	case "trig.compound_angle":
		op, okOp := p.String("operation")
		a, okA := p.String("a")
		b, okB := p.String("b")
		if !okOp || !okA || !okB {
			return missing(operation, "operation, a, b")
		}
		return e.trig.CompoundAngle(op, a, b)
	case "trig.heights_distances":
		kind, okK := p.String("type")
		value, okV := p.Number("value")
		angle, okA := p.Number("angle")
		if !okK || !okV || !okA {
			return missing(operation, "type, value, angle")
		}
		return e.trig.HeightsDistances(kind, value, angle, p.NumberOr("observer_height", 0))

	default:
		return result.Error(operation, result.KindUnsupported, "unknown operation %q", operation)
	}
}

func missing(operation, keys string) *result.Computation {
	return result.Error(operation, result.KindDomain, "missing or invalid parameter(s): %s", keys)
}
