// Package algebra implements quadratic, polynomial, complex-number,
// progression, and linear-system operations.
package algebra

import (
	"fmt"
	"math"
	"math/big"
	"math/cmplx"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/eduforge/mathcore/backend/internal/engine/plot"
	"github.com/eduforge/mathcore/backend/internal/engine/result"
	"github.com/eduforge/mathcore/backend/internal/logging"
	"github.com/eduforge/mathcore/backend/internal/symbolic"
)

// Algebra bundles the algebra operations.
type Algebra struct {
	log *logging.Logger
}

// New creates the algebra module.
func New(log *logging.Logger) *Algebra {
	return &Algebra{log: log.WithDomain("algebra")}
}

// SolveQuadratic solves ax² + bx + c = 0 with a discriminant branch and a
// parabola plot.
func (m *Algebra) SolveQuadratic(a, b, c float64) *result.Computation {
	if a == 0 {
		return result.Error("quadratic_solve", result.KindDomain,
			"leading coefficient a must be nonzero")
	}
	m.log.Debug("quadratic_solve", zap.Float64("a", a), zap.Float64("b", b), zap.Float64("c", c))

	d := b*b - 4*a*c
	res := result.New("quadratic_solve").
		Set("discriminant", d).
		Step("Equation: %sx^2 + %sx + %s = 0",
			result.FormatNumber(a), result.FormatNumber(b), result.FormatNumber(c)).
		Step("Discriminant (D) = b^2 - 4ac = (%s)^2 - 4(%s)(%s) = %s",
			result.FormatNumber(b), result.FormatNumber(a), result.FormatNumber(c), result.FormatNumber(d))

	var x1, x2 complex128
	switch {
	case d > 0:
		sq := math.Sqrt(d)
		x1 = complex((-b+sq)/(2*a), 0)
		x2 = complex((-b-sq)/(2*a), 0)
		res.Step("D > 0, so there are two distinct real roots.")
		res.Set("roots", []string{result.FormatComplex(x1), result.FormatComplex(x2)})
		res.Set("type", "real_distinct")
	case d == 0:
		x1 = complex(-b/(2*a), 0)
		x2 = x1
		res.Step("D = 0, so there is one repeated real root.")
		res.Set("roots", []string{result.FormatComplex(x1)})
		res.Set("type", "real_repeated")
	default:
		sq := math.Sqrt(-d)
		x1 = complex(-b/(2*a), sq/(2*a))
		x2 = complex(-b/(2*a), -sq/(2*a))
		res.Step("D < 0, so there are two complex conjugate roots.")
		res.Set("roots", []string{result.FormatComplex(x1), result.FormatComplex(x2)})
		res.Set("type", "complex")
	}
	res.Step("Root 1: x = %s", result.FormatComplex(x1))
	res.Step("Root 2: x = %s", result.FormatComplex(x2))
	res.Math("roots", fmt.Sprintf("x_1 = %s, \\quad x_2 = %s",
		result.FormatComplex(x1), result.FormatComplex(x2)))

	// parabola plot around the roots (or the vertex when complex)
	vx := -b / (2 * a)
	lo, hi := vx-5, vx+5
	if d >= 0 {
		minR := math.Min(real(x1), real(x2))
		maxR := math.Max(real(x1), real(x2))
		pad := math.Max(2, maxR-minR)
		lo, hi = minR-pad, maxR+pad
	}
	xs, ys := plot.Sample(func(x float64) (float64, error) {
		return a*x*x + b*x + c, nil
	}, lo, hi, 200)
	res.Plot(plot.CurvePoints(xs, ys, "f(x)", map[string]interface{}{"color": "#3b82f6", "width": 2}))
	if d >= 0 {
		res.Plot(plot.Point(real(x1), 0, "x1", map[string]interface{}{"color": "#ef4444", "size": 10}))
		if d > 0 {
			res.Plot(plot.Point(real(x2), 0, "x2", map[string]interface{}{"color": "#ef4444", "size": 10}))
		}
	}
	return res
}

// AnalyzePolynomial factors a univariate polynomial and reports its roots
// with multiplicity, keeping complex roots and flagging them.
func (m *Algebra) AnalyzePolynomial(expression string) *result.Computation {
	e, err := symbolic.Parse(expression)
	if err != nil {
		return result.Error("polynomial_analysis", result.KindParse, "%v", err)
	}
	coeffs, ok := symbolic.PolyCoeffs(e, "x")
	if !ok {
		return result.Error("polynomial_analysis", result.KindDomain,
			"%s is not a polynomial in x", expression)
	}
	if len(coeffs) < 2 {
		return result.Error("polynomial_analysis", result.KindDomain,
			"constant input has no roots to analyze")
	}
	roots, err := symbolic.PolyRoots(coeffs)
	if err != nil {
		return result.Error("polynomial_analysis", result.KindInternal, "%v", err)
	}

	factored := factoredForm(coeffs, roots)
	res := result.New("polynomial_analysis").
		Set("expression", expression).
		Set("factored", factored).
		Step("Polynomial: P(x) = %s", e.String()).
		Step("Factored form: %s", factored).
		Math("polynomial", e.LaTeX()).
		Math("factored", factored)

	res.Step("Roots:")
	var rootsPayload []map[string]interface{}
	var rootsLatex []string
	var realRoots []float64
	for _, r := range roots {
		label := result.FormatComplex(r.Value)
		res.Step("  x = %s (multiplicity %d)", label, r.Multiplicity)
		rootsLatex = append(rootsLatex, "x = "+label)
		rootsPayload = append(rootsPayload, map[string]interface{}{
			"value":        label,
			"multiplicity": r.Multiplicity,
			"is_real":      r.IsReal,
		})
		if r.IsReal {
			realRoots = append(realRoots, real(r.Value))
		}
	}
	res.Set("roots", rootsPayload)
	res.Math("roots", strings.Join(rootsLatex, ", "))

	lo, hi := -5.0, 5.0
	if len(realRoots) > 0 {
		minR := floats.Min(realRoots)
		maxR := floats.Max(realRoots)
		pad := math.Max(1, (maxR-minR)*0.5)
		lo, hi = minR-pad, maxR+pad
	}
	xs, ys := plot.Sample(func(x float64) (float64, error) {
		return symbolic.EvalAt(e, map[string]float64{"x": x})
	}, lo, hi, 400)
	res.Plot(plot.CurvePoints(xs, ys, "P(x)", map[string]interface{}{"color": "#3b82f6", "width": 2}))
	for _, r := range realRoots {
		res.Plot(plot.Point(r, 0, "Root: "+result.FormatNumber(r),
			map[string]interface{}{"color": "#ef4444", "size": 10}))
	}
	return res
}

// factoredForm renders leading·(x−r)^m factors; complex conjugate pairs
// combine into irreducible quadratics.
func factoredForm(coeffs []*big.Rat, roots []symbolic.Root) string {
	lead, _ := coeffs[len(coeffs)-1].Float64()
	var parts []string
	for _, r := range roots {
		if r.IsReal {
			v := real(r.Value)
			var factor string
			switch {
			case v == 0:
				factor = "x"
			case v > 0:
				factor = fmt.Sprintf("(x - %s)", result.FormatNumber(v))
			default:
				factor = fmt.Sprintf("(x + %s)", result.FormatNumber(-v))
			}
			if r.Multiplicity > 1 {
				factor += fmt.Sprintf("^%d", r.Multiplicity)
			}
			parts = append(parts, factor)
			continue
		}
		if imag(r.Value) < 0 {
			continue // covered by the conjugate
		}
		p := real(r.Value)
		q := imag(r.Value)
		norm := p*p + q*q
		var quad string
		switch {
		case p == 0:
			quad = fmt.Sprintf("(x^2 + %s)", result.FormatNumber(norm))
		case p > 0:
			quad = fmt.Sprintf("(x^2 - %sx + %s)", result.FormatNumber(2*p), result.FormatNumber(norm))
		default:
			quad = fmt.Sprintf("(x^2 + %sx + %s)", result.FormatNumber(-2*p), result.FormatNumber(norm))
		}
		if r.Multiplicity > 1 {
			quad += fmt.Sprintf("^%d", r.Multiplicity)
		}
		parts = append(parts, quad)
	}
	body := strings.Join(parts, "")
	switch {
	case lead == 1:
		return body
	case lead == -1:
		return "-" + body
	default:
		return result.FormatNumber(lead) + body
	}
}

// AnalyzeComplex evaluates a numeric complex expression and reports
// standard and polar forms with an Argand-plane arrow.
func (m *Algebra) AnalyzeComplex(expression string) *result.Computation {
	e, err := symbolic.Parse(expression, symbolic.WithVariables("i"))
	if err != nil {
		return result.Error("complex_analysis", result.KindParse, "%v", err)
	}
	for name := range symbolic.FreeVariables(e) {
		if name != "i" {
			return result.Error("complex_analysis", result.KindDomain,
				"expression must be a numeric complex number, not symbolic (found %s)", name)
		}
	}
	z, err := symbolic.EvalComplex(e, map[string]complex128{"i": complex(0, 1)})
	if err != nil {
		return result.Error("complex_analysis", result.KindDomain, "%v", err)
	}

	re, im := real(z), imag(z)
	r := cmplx.Abs(z)
	theta := cmplx.Phase(z)

	return result.New("complex_analysis").
		Set("expression", expression).
		Set("real", re).
		Set("imaginary", im).
		Set("modulus", r).
		Set("argument", theta).
		Step("Input: z = %s", expression).
		Step("Standard form: %s + %si", result.FormatNumber(re), result.FormatNumber(im)).
		Step("Modulus (r): |z| = %s", result.FormatNumber(r)).
		Step("Argument (θ): arg(z) = %s", result.FormatNumber(theta)).
		Step("Polar form: %s·e^(%si)", result.FormatNumber(r), result.FormatNumber(theta)).
		Plot(plot.Arrow(0, 0, re, im, "z", map[string]interface{}{"color": "#8b5cf6", "width": 3})).
		Plot(plot.Point(re, im,
			fmt.Sprintf("(%s, %s)", result.FormatNumber(re), result.FormatNumber(im)),
			map[string]interface{}{"color": "#8b5cf6", "size": 12})).
		Math("standard", fmt.Sprintf("%s + %si", result.FormatNumber(re), result.FormatNumber(im))).
		Math("polar", fmt.Sprintf("%s e^{%s i}", result.FormatNumber(r), result.FormatNumber(theta)))
}

// ArithmeticProgression computes the nth term and partial sum of an AP.
func (m *Algebra) ArithmeticProgression(a, d float64, n int) *result.Computation {
	if n < 1 {
		return result.Error("arithmetic_progression", result.KindDomain,
			"number of terms must be at least 1")
	}
	an := a + float64(n-1)*d
	sn := float64(n) / 2 * (2*a + float64(n-1)*d)

	previewLen := n
	if previewLen > 10 {
		previewLen = 10
	}
	preview := make([]float64, previewLen)
	for i := range preview {
		preview[i] = a + float64(i)*d
	}

	return result.New("arithmetic_progression").
		Set("nth_term", an).
		Set("sum", sn).
		Set("series_preview", preview).
		Set("preview_mean", stat.Mean(preview, nil)).
		Step("First term (a) = %s", result.FormatNumber(a)).
		Step("Common difference (d) = %s", result.FormatNumber(d)).
		Step("Number of terms (n) = %d", n).
		Step("nth term formula: a_n = a + (n-1)d").
		Step("a_{%d} = %s + (%d-1)(%s) = %s",
			n, result.FormatNumber(a), n, result.FormatNumber(d), result.FormatNumber(an)).
		Step("Sum formula: S_n = \\frac{n}{2}(2a + (n-1)d)").
		Step("S_{%d} = %s", n, result.FormatNumber(sn)).
		Plot(plot.Scatter(indexSlice(previewLen), preview, "a_n",
			map[string]interface{}{"color": "#3b82f6", "size": 8})).
		Math("nth_term", fmt.Sprintf("a_{%d} = %s", n, result.FormatNumber(an))).
		Math("sum", fmt.Sprintf("S_{%d} = %s", n, result.FormatNumber(sn)))
}

// GeometricProgression computes the nth term and partial sum of a GP,
// with the r = 1 special case.
func (m *Algebra) GeometricProgression(a, r float64, n int) *result.Computation {
	if n < 1 {
		return result.Error("geometric_progression", result.KindDomain,
			"number of terms must be at least 1")
	}
	an := a * math.Pow(r, float64(n-1))
	var sn float64
	if r == 1 {
		sn = a * float64(n)
	} else {
		sn = a * (math.Pow(r, float64(n)) - 1) / (r - 1)
	}

	previewLen := n
	if previewLen > 10 {
		previewLen = 10
	}
	preview := make([]float64, previewLen)
	for i := range preview {
		preview[i] = a * math.Pow(r, float64(i))
	}

	return result.New("geometric_progression").
		Set("nth_term", an).
		Set("sum", sn).
		Set("series_preview", preview).
		Set("preview_mean", stat.Mean(preview, nil)).
		Step("First term (a) = %s", result.FormatNumber(a)).
		Step("Common ratio (r) = %s", result.FormatNumber(r)).
		Step("Number of terms (n) = %d", n).
		Step("nth term formula: a_n = a \\cdot r^{n-1}").
		Step("a_{%d} = %s", n, result.FormatNumber(an)).
		Step("Sum formula: S_n = a\\frac{r^n - 1}{r - 1}").
		Step("S_{%d} = %s", n, result.FormatNumber(sn)).
		Plot(plot.Scatter(indexSlice(previewLen), preview, "a_n",
			map[string]interface{}{"color": "#3b82f6", "size": 8})).
		Math("nth_term", fmt.Sprintf("a_{%d} = %s", n, result.FormatNumber(an))).
		Math("sum", fmt.Sprintf("S_{%d} = %s", n, result.FormatNumber(sn)))
}

func indexSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i + 1)
	}
	return out
}

// rank tolerance for the linear system classifier
const systemTol = 1e-10

// SolveSystem solves a system of linear equations given as strings
// ("2x + y = 5"). Classification: unique, infinite, or none.
func (m *Algebra) SolveSystem(equations []string) *result.Computation {
	if len(equations) == 0 {
		return result.Error("solve_system", result.KindDomain, "no equations given")
	}

	type parsed struct {
		coeffs map[string]float64
		rhs    float64
	}
	varSet := map[string]struct{}{}
	systems := make([]parsed, 0, len(equations))

	res := result.New("solve_system").Set("equations", equations)
	res.Step("System of equations:")

	for _, eq := range equations {
		lhsText := eq
		rhsText := "0"
		if i := strings.IndexByte(eq, '='); i >= 0 {
			lhsText, rhsText = eq[:i], eq[i+1:]
		}
		lhs, err := symbolic.Parse(lhsText)
		if err != nil {
			return result.Error("solve_system", result.KindParse, "equation %q: %v", eq, err)
		}
		rhs, err := symbolic.Parse(rhsText)
		if err != nil {
			return result.Error("solve_system", result.KindParse, "equation %q: %v", eq, err)
		}
		expr := symbolic.Sub(lhs, rhs)
		res.Step("  %s = 0", expr.String())

		row := parsed{coeffs: map[string]float64{}}
		rest := expr
		for name := range symbolic.FreeVariables(expr) {
			varSet[name] = struct{}{}
			coeff := expr.Derive(name)
			cn, isNum := coeff.Rational()
			if !isNum {
				return result.Error("solve_system", result.KindDomain,
					"equation %q is not linear in %s", eq, name)
			}
			cf, _ := cn.Float64()
			row.coeffs[name] = cf
			rest = rest.Substitute(name, symbolic.Int(0))
		}
		constVal, err := symbolic.EvalAt(rest.Simplify(), nil)
		if err != nil {
			return result.Error("solve_system", result.KindDomain,
				"equation %q has a non-constant remainder", eq)
		}
		row.rhs = -constVal
		systems = append(systems, row)
	}

	vars := make([]string, 0, len(varSet))
	for v := range varSet {
		vars = append(vars, v)
	}
	sort.Strings(vars)
	if len(vars) == 0 {
		return result.Error("solve_system", result.KindDomain, "no variables found")
	}

	rows, cols := len(systems), len(vars)
	a := mat.NewDense(rows, cols, nil)
	aug := mat.NewDense(rows, cols+1, nil)
	bvec := mat.NewVecDense(rows, nil)
	for i, row := range systems {
		for j, v := range vars {
			a.Set(i, j, row.coeffs[v])
			aug.Set(i, j, row.coeffs[v])
		}
		aug.Set(i, cols, row.rhs)
		bvec.SetVec(i, row.rhs)
	}

	rankA := matrixRank(a)
	rankAug := matrixRank(aug)
	switch {
	case rankA < rankAug:
		res.Set("solution", map[string]interface{}{}).Set("type", "none")
		res.Step("The system is inconsistent: no solution.")
		res.Math("solution", "\\text{No solution}")
		return res
	case rankA < cols:
		res.Set("solution", map[string]interface{}{}).Set("type", "infinite")
		res.Step("The system is underdetermined: infinitely many solutions.")
		res.Math("solution", "\\text{Infinitely many solutions}")
		return res
	}

	var sol mat.VecDense
	if err := sol.SolveVec(a, bvec); err != nil {
		return result.Error("solve_system", result.KindInternal, "solver failed: %v", err)
	}

	solution := map[string]interface{}{}
	var latexParts []string
	res.Step("Solution found:")
	for j, v := range vars {
		val := sol.AtVec(j)
		solution[v] = val
		res.Step("  %s = %s", v, result.FormatNumber(val))
		latexParts = append(latexParts, fmt.Sprintf("%s = %s", v, result.FormatNumber(val)))
	}
	res.Set("solution", solution).Set("type", "unique")
	res.Math("solution", strings.Join(latexParts, ", \\quad "))
	return res
}

func matrixRank(a mat.Matrix) int {
	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDNone); !ok {
		return 0
	}
	values := svd.Values(nil)
	rank := 0
	for _, s := range values {
		if s > systemTol {
			rank++
		}
	}
	return rank
}
