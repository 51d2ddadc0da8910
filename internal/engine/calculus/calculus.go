// Package calculus implements derivative, integral, limit, series, and ODE
// operations over the symbolic kernel.
package calculus

import (
	"fmt"
	"math"
	"math/big"

	"go.uber.org/zap"

	"github.com/eduforge/mathcore/backend/internal/config"
	"github.com/eduforge/mathcore/backend/internal/engine/plot"
	"github.com/eduforge/mathcore/backend/internal/engine/result"
	"github.com/eduforge/mathcore/backend/internal/logging"
	"github.com/eduforge/mathcore/backend/internal/symbolic"
)

// Calculus bundles the calculus operations with their tuning knobs.
type Calculus struct {
	log        *logging.Logger
	resolution int
	taylorMax  int
}

// New creates the calculus module.
func New(log *logging.Logger, cfg config.EngineConfig) *Calculus {
	res := cfg.PlotResolution
	if res <= 0 {
		res = plot.DefaultResolution
	}
	taylorMax := cfg.TaylorMaxOrder
	if taylorMax <= 0 {
		taylorMax = 12
	}
	return &Calculus{
		log:        log.WithDomain("calculus"),
		resolution: res,
		taylorMax:  taylorMax,
	}
}

// analyzer parses an expression once and precomputes its derivatives.
type analyzer struct {
	text   string
	f      symbolic.Expr
	df     symbolic.Expr
	ddf    symbolic.Expr
}

func newAnalyzer(expression string) (*analyzer, error) {
	f, err := symbolic.Parse(expression)
	if err != nil {
		return nil, err
	}
	df := f.Derive("x")
	return &analyzer{
		text: expression,
		f:    f,
		df:   df,
		ddf:  df.Derive("x"),
	}, nil
}

func (a *analyzer) at(e symbolic.Expr, x float64) (float64, error) {
	return symbolic.EvalAt(e, map[string]float64{"x": x})
}

// Analyze returns f, f', f'' with curves over the domain.
func (c *Calculus) Analyze(expression string, lo, hi float64, resolution int) *result.Computation {
	a, err := newAnalyzer(expression)
	if err != nil {
		return result.Error("analyze", result.KindParse, "%v", err)
	}
	if hi <= lo {
		return result.Error("analyze", result.KindDomain, "domain [%g, %g] is empty", lo, hi)
	}
	if resolution <= 0 {
		resolution = c.resolution
	}
	c.log.Debug("analyze", zap.String("expression", expression))

	xs, ys := plot.Sample(func(x float64) (float64, error) { return a.at(a.f, x) }, lo, hi, resolution)
	_, dys := plot.Sample(func(x float64) (float64, error) { return a.at(a.df, x) }, lo, hi, resolution)

	return result.New("analyze").
		Set("expression", expression).
		Set("derivative", a.df.String()).
		Set("second_derivative", a.ddf.String()).
		Set("domain", []float64{lo, hi}).
		Step("Function: f(x) = %s", expression).
		Step("Derivative: f'(x) = %s", a.df.String()).
		Step("Second derivative: f''(x) = %s", a.ddf.String()).
		Step("Domain analyzed: [%s, %s]", result.FormatNumber(lo), result.FormatNumber(hi)).
		Plot(plot.CurvePoints(xs, ys, "f(x)", map[string]interface{}{"color": "#3b82f6", "width": 2})).
		Plot(plot.CurvePoints(xs, dys, "f'(x)", map[string]interface{}{"color": "#f97316", "width": 2, "dash": "dash"})).
		Math("function", "f(x) = "+a.f.LaTeX()).
		Math("derivative", "f'(x) = "+a.df.LaTeX()).
		Math("second_derivative", "f''(x) = "+a.ddf.LaTeX())
}

// DerivativeAt computes the slope and tangent line at x0.
func (c *Calculus) DerivativeAt(expression string, x0 float64) *result.Computation {
	a, err := newAnalyzer(expression)
	if err != nil {
		return result.Error("derivative_at", result.KindParse, "%v", err)
	}
	y0, err := a.at(a.f, x0)
	if err != nil || !finite(y0) {
		return result.Error("derivative_at", result.KindDomain, "f is not defined at x = %g", x0)
	}
	slope, err := a.at(a.df, x0)
	if err != nil || !finite(slope) {
		return result.Error("derivative_at", result.KindDomain, "f' is not defined at x = %g", x0)
	}

	const tangentExtent = 2.0
	tangent := fmt.Sprintf("y = %s(x - %s) + %s",
		result.FormatNumber(slope), result.FormatNumber(x0), result.FormatNumber(y0))

	return result.New("derivative_at").
		Set("x", x0).
		Set("y", y0).
		Set("slope", slope).
		Set("tangent_equation", tangent).
		Step("Given: f(x) = %s", expression).
		Step("f'(x) = %s", a.df.String()).
		Step("At x = %s: f(%s) = %s", result.FormatNumber(x0), result.FormatNumber(x0), result.FormatNumber(y0)).
		Step("Slope: f'(%s) = %s", result.FormatNumber(x0), result.FormatNumber(slope)).
		Step("Tangent line: y - %s = %s(x - %s)",
			result.FormatNumber(y0), result.FormatNumber(slope), result.FormatNumber(x0)).
		Plot(plot.Point(x0, y0,
			fmt.Sprintf("P(%s, %s)", result.FormatNumber(x0), result.FormatNumber(y0)),
			map[string]interface{}{"color": "#ef4444", "size": 12})).
		Plot(plot.Segment(
			x0-tangentExtent, y0-slope*tangentExtent,
			x0+tangentExtent, y0+slope*tangentExtent,
			"Tangent",
			map[string]interface{}{"color": "#f97316", "width": 2, "dash": "dash"})).
		Math("derivative", fmt.Sprintf("f'(%s) = %s", result.FormatNumber(x0), result.FormatNumber(slope))).
		Math("tangent", tangent)
}

// PartialDerivative differentiates with respect to any variable of the
// closed alphabet.
func (c *Calculus) PartialDerivative(expression, variable string) *result.Computation {
	switch variable {
	case "x", "y", "z", "t":
	default:
		return result.Error("partial_derivative", result.KindDomain,
			"unknown variable: %s. Use x, y, z, or t.", variable)
	}
	f, err := symbolic.Parse(expression)
	if err != nil {
		return result.Error("partial_derivative", result.KindParse, "%v", err)
	}
	deriv := f.Derive(variable)

	return result.New("partial_derivative").
		Set("expression", expression).
		Set("variable", variable).
		Set("result", deriv.String()).
		Step("Function: f(%s, ...) = %s", variable, f.String()).
		Step("Partial derivative w.r.t %s: ∂/∂%s (%s)", variable, variable, f.String()).
		Step("Result: %s", deriv.String()).
		Math("derivative", fmt.Sprintf("\\frac{\\partial}{\\partial %s} %s = %s",
			variable, f.LaTeX(), deriv.LaTeX()))
}

// DefiniteIntegral computes ∫_a^b f dx through the antiderivative, with an
// area visualization.
func (c *Calculus) DefiniteIntegral(expression string, a, b float64) *result.Computation {
	an, err := newAnalyzer(expression)
	if err != nil {
		return result.Error("definite_integral", result.KindParse, "%v", err)
	}
	anti, ok := symbolic.Integrate(an.f, "x")
	if !ok {
		return result.Error("definite_integral", result.KindNoClosedForm,
			"no closed-form antiderivative for %s", expression)
	}
	fb, errB := an.at(anti, b)
	fa, errA := an.at(anti, a)
	if errA != nil || errB != nil || !finite(fb-fa) {
		return result.Error("definite_integral", result.KindDomain,
			"antiderivative is not defined on [%g, %g]", a, b)
	}
	value := fb - fa

	xs, ys := plot.Sample(func(x float64) (float64, error) { return an.at(an.f, x) }, a, b, 200)

	return result.New("definite_integral").
		Set("lower_limit", a).
		Set("upper_limit", b).
		Set("antiderivative", anti.String()).
		Set("result", value).
		Step("Given: f(x) = %s", expression).
		Step("Antiderivative: F(x) = %s + C", anti.String()).
		Step("Definite integral: ∫_{%s}^{%s} f(x) dx", result.FormatNumber(a), result.FormatNumber(b)).
		Step("= F(%s) - F(%s)", result.FormatNumber(b), result.FormatNumber(a)).
		Step("= %s", result.FormatNumber(value)).
		Plot(plot.Area(xs, ys, 0, map[string]interface{}{"color": "rgba(59, 130, 246, 0.3)"})).
		Plot(plot.CurvePoints(xs, ys, "f(x)", map[string]interface{}{"color": "#3b82f6", "width": 2})).
		Math("integral", fmt.Sprintf("\\int_{%s}^{%s} %s \\, dx = %s",
			result.FormatNumber(a), result.FormatNumber(b), an.f.LaTeX(), result.FormatNumber(value))).
		Math("antiderivative", "F(x) = "+anti.LaTeX())
}

// IndefiniteIntegral computes the antiderivative symbolically.
func (c *Calculus) IndefiniteIntegral(expression string) *result.Computation {
	f, err := symbolic.Parse(expression)
	if err != nil {
		return result.Error("indefinite_integral", result.KindParse, "%v", err)
	}
	anti, ok := symbolic.Integrate(f, "x")
	if !ok {
		return result.Error("indefinite_integral", result.KindNoClosedForm,
			"no closed-form antiderivative for %s", expression)
	}
	return result.New("indefinite_integral").
		Set("expression", expression).
		Set("result", anti.String()).
		Step("Integral expression: ∫ (%s) dx", f.String()).
		Step("Computed antiderivative: %s + C", anti.String()).
		Math("integral", fmt.Sprintf("\\int %s \\, dx = %s + C", f.LaTeX(), anti.LaTeX()))
}

// Limit evaluates lim_{x→point}; direction is "+", "-", or "+/-".
func (c *Calculus) Limit(expression string, point float64, direction string) *result.Computation {
	f, err := symbolic.Parse(expression)
	if err != nil {
		return result.Error("limit", result.KindParse, "invalid expression: %s", expression)
	}
	var dir symbolic.Direction
	switch direction {
	case "+":
		dir = symbolic.DirRight
	case "-":
		dir = symbolic.DirLeft
	case "", "+/-":
		dir = symbolic.DirBoth
		direction = "+/-"
	default:
		return result.Error("limit", result.KindDomain, "unknown direction %q", direction)
	}
	lv, err := symbolic.Limit(f, "x", point, dir)
	if err != nil {
		return result.Error("limit", result.KindInternal, "computation error: %v", err)
	}

	return result.New("limit").
		Set("expression", expression).
		Set("point", point).
		Set("direction", direction).
		Set("result", lv.String()).
		Step("Limit expression: \\lim_{x \\to %s} (%s)", result.FormatNumber(point), f.String()).
		Step("Evaluated limit: %s", lv.String()).
		Math("limit", fmt.Sprintf("\\lim_{x \\to %s} %s = %s",
			result.FormatNumber(point), f.LaTeX(), lv.String()))
}

// classification tolerance for the second derivative test
const secondDerivTol = 1e-9

// CriticalPoints finds real zeros of f' and classifies them by the second
// derivative test. Polynomial derivatives are solved exactly; otherwise a
// sign-change scan over the domain locates roots numerically. Domain is
// optional (NaN bounds mean unbounded).
func (c *Calculus) CriticalPoints(expression string, lo, hi float64) *result.Computation {
	a, err := newAnalyzer(expression)
	if err != nil {
		return result.Error("critical_points", result.KindParse, "%v", err)
	}
	hasDomain := !math.IsNaN(lo) && !math.IsNaN(hi)

	var zeros []float64
	enumerated := true
	if coeffs, ok := symbolic.PolyCoeffs(a.df, "x"); ok {
		roots, err := symbolic.PolyRoots(coeffs)
		if err == nil {
			for _, r := range roots {
				if r.IsReal {
					zeros = append(zeros, real(r.Value))
				}
			}
		} else {
			enumerated = false
		}
	} else if hasDomain {
		zeros = scanSignChanges(func(x float64) (float64, error) { return a.at(a.df, x) }, lo, hi)
	} else {
		enumerated = false
	}

	res := result.New("critical_points").
		Step("Given: f(x) = %s", expression).
		Step("f'(x) = %s", a.df.String()).
		Math("derivative_zero", "f'(x) = "+a.df.LaTeX()+" = 0")

	if !enumerated {
		return res.
			Set("points", []map[string]interface{}{}).
			Step("Could not enumerate critical points from the solution set.")
	}

	type cp struct {
		x, y, ddy float64
		kind      string
	}
	var points []cp
	for _, cx := range zeros {
		if hasDomain && (cx < lo || cx > hi) {
			continue
		}
		cy, err := a.at(a.f, cx)
		if err != nil || !finite(cy) {
			continue
		}
		ddy, err := a.at(a.ddf, cx)
		if err != nil || !finite(ddy) {
			continue
		}
		kind := "inflection point"
		if ddy > secondDerivTol {
			kind = "local minimum"
		} else if ddy < -secondDerivTol {
			kind = "local maximum"
		}
		points = append(points, cp{x: cx, y: cy, ddy: ddy, kind: kind})
	}

	payload := make([]map[string]interface{}, len(points))
	res.Step("Setting f'(x) = 0:")
	res.Step("Found %d critical point(s)", len(points))
	for i, p := range points {
		payload[i] = map[string]interface{}{
			"x":                 p.x,
			"y":                 p.y,
			"type":              p.kind,
			"second_derivative": p.ddy,
		}
		res.Step("  • x = %s: %s at y = %s",
			result.FormatNumber(p.x), p.kind, result.FormatNumber(p.y))
		color := "#eab308"
		switch p.kind {
		case "local minimum":
			color = "#22c55e"
		case "local maximum":
			color = "#ef4444"
		}
		res.Plot(plot.Point(p.x, p.y,
			fmt.Sprintf("%s (%s, %s)", p.kind, result.FormatNumber(p.x), result.FormatNumber(p.y)),
			map[string]interface{}{"color": color, "size": 12}))
	}
	return res.Set("points", payload)
}

// scanSignChanges locates zeros of f on [lo, hi] by sampling and bisecting
// each sign change.
func scanSignChanges(f func(float64) (float64, error), lo, hi float64) []float64 {
	const samples = 400
	var zeros []float64
	step := (hi - lo) / samples
	prevX := lo
	prevY, prevErr := f(lo)
	for i := 1; i <= samples; i++ {
		x := lo + float64(i)*step
		y, err := f(x)
		if prevErr == nil && err == nil && finite(prevY) && finite(y) {
			if prevY == 0 {
				zeros = append(zeros, prevX)
			} else if prevY*y < 0 {
				zeros = append(zeros, bisect(f, prevX, x))
			}
		}
		prevX, prevY, prevErr = x, y, err
	}
	return dedupe(zeros, 1e-7)
}

func bisect(f func(float64) (float64, error), a, b float64) float64 {
	fa, _ := f(a)
	for i := 0; i < 60; i++ {
		mid := (a + b) / 2
		fm, err := f(mid)
		if err != nil {
			break
		}
		if fa*fm <= 0 {
			b = mid
		} else {
			a = mid
			fa = fm
		}
	}
	return (a + b) / 2
}

func dedupe(vals []float64, tol float64) []float64 {
	var out []float64
	for _, v := range vals {
		dup := false
		for _, o := range out {
			if math.Abs(v-o) < tol {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, v)
		}
	}
	return out
}

// TaylorSeries expands f about center to the given order with a comparison
// plot. Coefficients stay exact when the derivatives evaluate to rationals
// at the center.
func (c *Calculus) TaylorSeries(expression string, center float64, order int, lo, hi float64) *result.Computation {
	a, err := newAnalyzer(expression)
	if err != nil {
		return result.Error("taylor_series", result.KindParse, "%v", err)
	}
	if order < 0 || order > c.taylorMax {
		return result.Error("taylor_series", result.KindDomain,
			"order must be between 0 and %d", c.taylorMax)
	}
	if hi <= lo {
		lo, hi = center-5, center+5
	}

	coeffs, seriesExpr, ok := taylorCoefficients(a.f, center, order)
	if !ok {
		return result.Error("taylor_series", result.KindNoClosedForm,
			"could not evaluate derivatives of %s at x = %g", expression, center)
	}
	seriesText := seriesExpr.String()
	seriesLaTeX := seriesExpr.LaTeX()

	taylorAt := func(x float64) (float64, error) {
		// Horner in (x - center)
		u := x - center
		acc := 0.0
		for k := len(coeffs) - 1; k >= 0; k-- {
			acc = acc*u + coeffs[k]
		}
		return acc, nil
	}

	xs, ysOrig := plot.Sample(func(x float64) (float64, error) { return a.at(a.f, x) }, lo, hi, 400)
	_, ysTaylor := plot.Sample(taylorAt, lo, hi, 400)
	centerY, _ := a.at(a.f, center)

	return result.New("taylor_series").
		Set("center", center).
		Set("order", order).
		Set("series", seriesText).
		Step("Function: f(x) = %s", expression).
		Step("Taylor series about x = %s, order %d:", result.FormatNumber(center), order).
		Step("T(x) = %s", seriesText).
		Plot(plot.CurvePoints(xs, ysOrig, "f(x)", map[string]interface{}{"color": "#3b82f6", "width": 2})).
		Plot(plot.CurvePoints(xs, ysTaylor, fmt.Sprintf("Taylor (order %d)", order),
			map[string]interface{}{"color": "#f97316", "width": 2, "dash": "dash"})).
		Plot(plot.Point(center, centerY, "Center", map[string]interface{}{"color": "#ef4444", "size": 10})).
		Math("taylor", "T(x) = "+seriesLaTeX)
}

// taylorCoefficients returns float coefficients of (x-center)^k and the
// symbolic series expression. ok is false when a derivative cannot be
// evaluated at the center.
func taylorCoefficients(f symbolic.Expr, center float64, order int) ([]float64, symbolic.Expr, bool) {
	centerRat := new(big.Rat).SetFloat64(center)
	if centerRat == nil {
		return nil, nil, false
	}
	var (
		coeffs    []float64
		terms     []symbolic.Expr
		factorial = new(big.Rat).SetInt64(1)
		deriv     = f
	)
	shifted := symbolic.Sub(symbolic.Var("x"), symbolic.Rat(centerRat))
	for k := 0; k <= order; k++ {
		if k > 0 {
			factorial.Mul(factorial, new(big.Rat).SetInt64(int64(k)))
			deriv = deriv.Derive("x")
		}
		val := deriv.Substitute("x", symbolic.Rat(centerRat)).Simplify()
		var ck *big.Rat
		if r, isRat := val.Rational(); isRat {
			ck = new(big.Rat).Quo(r, factorial)
		} else {
			// evaluate numerically and continue with an approximate rational
			fv, err := symbolic.EvalAt(val, nil)
			if err != nil || !finite(fv) {
				return nil, nil, false
			}
			approx := new(big.Rat).SetFloat64(fv)
			if approx == nil {
				return nil, nil, false
			}
			ck = approx.Quo(approx, factorial)
		}
		cf, _ := ck.Float64()
		coeffs = append(coeffs, cf)
		if ck.Sign() != 0 {
			terms = append(terms, symbolic.NewProduct(
				symbolic.Rat(ck),
				symbolic.NewPower(shifted, symbolic.Int(int64(k))),
			))
		}
	}
	if len(terms) == 0 {
		return coeffs, symbolic.Int(0), true
	}
	return coeffs, symbolic.NewSum(terms...), true
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
