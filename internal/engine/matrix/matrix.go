package matrix

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/eduforge/mathcore/backend/internal/config"
	"github.com/eduforge/mathcore/backend/internal/engine/plot"
	"github.com/eduforge/mathcore/backend/internal/engine/result"
	"github.com/eduforge/mathcore/backend/internal/logging"
	"github.com/eduforge/mathcore/backend/internal/symbolic"
)

// singularTol is the determinant magnitude below which a numeric matrix is
// treated as singular.
const singularTol = 1e-10

// imagDropTol zeroes eigenvalue imaginary parts below this magnitude.
const imagDropTol = 1e-9

// Module exposes the matrix operations.
type Module struct {
	log           *logging.Logger
	eigenDecimals int
}

// New creates the matrix module.
func New(log *logging.Logger, cfg config.EngineConfig) *Module {
	dec := cfg.EigenGroupDecimals
	if dec <= 0 {
		dec = 4
	}
	return &Module{log: log.WithDomain("matrix"), eigenDecimals: dec}
}

// Properties reports shape, determinant, trace, rank, invertibility, and
// eigenvalues for one matrix. Numeric matrices go through gonum; matrices
// with fractional or symbolic entries go through the expression kernel and
// stay exact.
func (m *Module) Properties(cells [][]interface{}) *result.Computation {
	const op = "matrix_properties"
	a, errRes := m.classify(op, cells)
	if errRes != nil {
		return errRes
	}

	res := result.New(op).
		Set("shape", []int{a.Rows, a.Cols}).
		Set("symbolic", a.Kind == Symbolic).
		Math("matrix", a.LaTeX())
	res.Step("Matrix is %dx%d", a.Rows, a.Cols)

	if a.Kind == Numeric {
		return m.numericProperties(res, a)
	}
	return m.symbolicProperties(res, a)
}

func (m *Module) numericProperties(res *result.Computation, a *Matrix) *result.Computation {
	res.Set("rank", numericRank(a.Dense))
	res.Step("Rank: %d", res.Payload["rank"])

	if !a.IsSquare() {
		res.Step("Determinant, trace and eigenvalues require a square matrix")
		return res
	}

	det := cleanNumber(mat.Det(a.Dense))
	res.Set("determinant", det)
	res.Set("invertible", math.Abs(det) > singularTol)
	res.Step("Determinant: %s", result.FormatNumber(det))

	tr := mat.Trace(a.Dense)
	res.Set("trace", cleanNumber(tr))
	res.Step("Trace: %s", result.FormatNumber(tr))

	var eig mat.Eigen
	if !eig.Factorize(a.Dense, mat.EigenNone) {
		res.Step("Eigenvalue computation did not converge")
		return res
	}
	grouped := m.groupEigenvalues(eig.Values(nil))
	res.Set("eigenvalues", grouped)
	for _, g := range grouped {
		if g["multiplicity"].(int) > 1 {
			res.Step("Eigenvalue %s (multiplicity %d)", g["value"], g["multiplicity"])
			continue
		}
		res.Step("Eigenvalue %s", g["value"])
	}
	return res
}

func (m *Module) symbolicProperties(res *result.Computation, a *Matrix) *result.Computation {
	rat, exact := a.RationalCells()
	if exact {
		res.Set("rank", ratRank(rat))
		res.Step("Rank: %d", res.Payload["rank"])
	}

	if !a.IsSquare() {
		res.Step("Determinant, trace and eigenvalues require a square matrix")
		return res
	}

	if exact {
		det := ratDet(rat)
		res.Set("determinant", det.RatString())
		res.Set("invertible", det.Sign() != 0)
		res.Step("Determinant: %s", det.RatString())

		trace := new(big.Rat)
		for i := range rat {
			trace.Add(trace, rat[i][i])
		}
		res.Set("trace", trace.RatString())
		res.Step("Trace: %s", trace.RatString())

		coeffs, err := charPolyCoeffs(rat)
		if err != nil {
			res.Step("Eigenvalues not computed: %v", err)
			return res
		}
		roots, err := symbolic.PolyRoots(coeffs)
		if err != nil {
			res.Step("Eigenvalues not computed: %v", err)
			return res
		}
		grouped := make([]map[string]interface{}, 0, len(roots))
		for _, r := range roots {
			value := result.FormatComplex(r.Value)
			if r.Exact != nil {
				value = r.Exact.RatString()
			}
			grouped = append(grouped, map[string]interface{}{
				"value":        value,
				"multiplicity": r.Multiplicity,
			})
			res.Step("Eigenvalue %s (multiplicity %d)", value, r.Multiplicity)
		}
		res.Set("eigenvalues", grouped)
		return res
	}

	det, err := symDet(a.Cells)
	if err != nil {
		res.Step("Determinant not computed: %v", err)
		return res
	}
	res.Set("determinant", det.String())
	res.Step("Determinant: %s", det.String())
	res.Math("determinant", det.LaTeX())

	traceTerms := make([]symbolic.Expr, a.Rows)
	for i := range a.Cells {
		traceTerms[i] = a.Cells[i][i]
	}
	trace := symbolic.NewSum(traceTerms...)
	res.Set("trace", trace.String())
	res.Step("Trace: %s", trace.String())
	res.Step("Eigenvalues and rank are not computed for matrices with free variables")
	return res
}

// Operate applies add, subtract, or multiply to a pair of matrices.
func (m *Module) Operate(aCells, bCells [][]interface{}, op string) *result.Computation {
	name := "matrix_" + op
	a, errRes := m.classify(name, aCells)
	if errRes != nil {
		return errRes
	}
	b, errRes := m.classify(name, bCells)
	if errRes != nil {
		return errRes
	}

	var symbol string
	switch op {
	case "add":
		symbol = "+"
		if a.Rows != b.Rows || a.Cols != b.Cols {
			return result.Error(name, result.KindDomain,
				"cannot add: matrices must have the same dimensions (%dx%d vs %dx%d)",
				a.Rows, a.Cols, b.Rows, b.Cols)
		}
	case "subtract":
		symbol = "-"
		if a.Rows != b.Rows || a.Cols != b.Cols {
			return result.Error(name, result.KindDomain,
				"cannot subtract: matrices must have the same dimensions (%dx%d vs %dx%d)",
				a.Rows, a.Cols, b.Rows, b.Cols)
		}
	case "multiply":
		symbol = "×"
		if a.Cols != b.Rows {
			return result.Error(name, result.KindDomain,
				"cannot multiply: A has %d columns but B has %d rows", a.Cols, b.Rows)
		}
	default:
		return result.Error(name, result.KindUnsupported,
			"unknown matrix operation %q (want add, subtract, or multiply)", op)
	}

	res := result.New(name).
		Set("matrix_a", a.Text).
		Set("matrix_b", b.Text).
		Math("a", a.LaTeX()).
		Math("b", b.LaTeX())

	var text [][]string
	if a.Kind == Numeric && b.Kind == Numeric {
		var out mat.Dense
		switch op {
		case "add":
			out.Add(a.Dense, b.Dense)
		case "subtract":
			out.Sub(a.Dense, b.Dense)
		case "multiply":
			out.Mul(a.Dense, b.Dense)
		}
		res.Set("result_numeric", denseGrid(&out))
		text = denseText(&out)
	} else {
		ea, eb := a.exprs(), b.exprs()
		var out [][]symbolic.Expr
		switch op {
		case "add":
			out = symCombine(ea, eb, func(x, y symbolic.Expr) symbolic.Expr {
				return symbolic.NewSum(x, y)
			})
		case "subtract":
			out = symCombine(ea, eb, func(x, y symbolic.Expr) symbolic.Expr {
				return symbolic.NewSum(x, symbolic.NewProduct(symbolic.Int(-1), y))
			})
		case "multiply":
			out = symMul(ea, eb)
		}
		text = symText(out)
	}

	res.Set("result", text)
	resultTex := texMatrix(text)
	res.Math("result", resultTex)
	res.Math("equation", a.LaTeX()+" "+symbol+" "+b.LaTeX()+" = "+resultTex)
	if op == "multiply" {
		res.Step("A is %dx%d and B is %dx%d, so A×B is %dx%d",
			a.Rows, a.Cols, b.Rows, b.Cols, a.Rows, b.Cols)
		res.Step("Each entry (i,j) is the dot product of row i of A with column j of B")
	} else {
		res.Step("Matrices are %dx%d; the operation applies entrywise", a.Rows, a.Cols)
	}
	return res
}

// Determinant computes a determinant with size-appropriate steps.
func (m *Module) Determinant(cells [][]interface{}) *result.Computation {
	const op = "matrix_determinant"
	a, errRes := m.classify(op, cells)
	if errRes != nil {
		return errRes
	}
	if !a.IsSquare() {
		return result.Error(op, result.KindDomain,
			"determinant requires a square matrix, got %dx%d", a.Rows, a.Cols)
	}

	res := result.New(op).Math("matrix", a.LaTeX())

	if a.Kind == Symbolic {
		if rat, ok := a.RationalCells(); ok {
			det := ratDet(rat)
			res.Set("determinant", det.RatString())
			res.Step("Exact determinant by Gaussian elimination: %s", det.RatString())
			res.Math("determinant", `\det = `+det.RatString())
			return res
		}
		det, err := symDet(a.Cells)
		if err != nil {
			return result.Error(op, result.KindDomain, "%v", err)
		}
		res.Set("determinant", det.String())
		res.Step("Cofactor expansion along the first row: det = %s", det.String())
		res.Math("determinant", `\det = `+det.LaTeX())
		return res
	}

	det := cleanNumber(mat.Det(a.Dense))
	res.Set("determinant", det)
	switch a.Rows {
	case 1:
		res.Step("det = %s", result.FormatNumber(det))
	case 2:
		g := a.Dense
		res.Step("det = ad - bc = (%s)(%s) - (%s)(%s) = %s",
			result.FormatNumber(g.At(0, 0)), result.FormatNumber(g.At(1, 1)),
			result.FormatNumber(g.At(0, 1)), result.FormatNumber(g.At(1, 0)),
			result.FormatNumber(det))
	case 3:
		res.Step("Cofactor expansion along the first row")
		g := a.Dense
		for j := 0; j < 3; j++ {
			minor := mat.Det(numMinor(g, 0, j))
			sign := "+"
			if j%2 == 1 {
				sign = "-"
			}
			res.Step("  %s %s × %s", sign,
				result.FormatNumber(g.At(0, j)), result.FormatNumber(minor))
		}
		res.Step("det = %s", result.FormatNumber(det))
	default:
		res.Step("Determinant via LU decomposition: %s", result.FormatNumber(det))
	}
	res.Math("determinant", `\det = `+result.FormatNumber(det))
	return res
}

// Inverse computes a matrix inverse. A singular matrix is a successful
// answer, not an error: the payload says invertible false and the steps say
// why.
func (m *Module) Inverse(cells [][]interface{}) *result.Computation {
	const op = "matrix_inverse"
	a, errRes := m.classify(op, cells)
	if errRes != nil {
		return errRes
	}
	if !a.IsSquare() {
		return result.Error(op, result.KindDomain,
			"inverse requires a square matrix, got %dx%d", a.Rows, a.Cols)
	}

	res := result.New(op).Math("matrix", a.LaTeX())

	if a.Kind == Symbolic {
		rat, ok := a.RationalCells()
		if !ok {
			return result.Error(op, result.KindUnsupported,
				"inverse of matrices with free variables is not supported")
		}
		inv, ok := ratInverse(rat)
		if !ok {
			res.Set("invertible", false)
			res.Step("Matrix is singular (det = 0), inverse does not exist")
			return res
		}
		text := ratText(inv)
		res.Set("invertible", true).Set("inverse", text)
		res.Step("Exact inverse by Gauss-Jordan elimination")
		res.Math("inverse", texMatrix(text))
		return res
	}

	det := mat.Det(a.Dense)
	res.Set("determinant", cleanNumber(det))
	if math.Abs(det) <= singularTol {
		res.Set("invertible", false)
		res.Step("Matrix is singular (det ≈ 0), inverse does not exist")
		return res
	}
	res.Step("det = %s ≠ 0, so the inverse exists", result.FormatNumber(det))

	var inv mat.Dense
	if err := inv.Inverse(a.Dense); err != nil {
		return result.Error(op, result.KindInternal, "inversion failed: %v", err)
	}
	text := denseText(&inv)
	res.Set("invertible", true).
		Set("inverse", denseGrid(&inv))
	res.Math("inverse", texMatrix(text))

	var check mat.Dense
	check.Mul(a.Dense, &inv)
	if isIdentity(&check, 1e-8) {
		res.Step("Verified: A·A⁻¹ = I")
	}
	return res
}

// Eigenvalues computes eigenvalues and eigenvectors. For 2x2 matrices with
// real eigenvalues the eigenvector directions are drawn from the origin.
func (m *Module) Eigenvalues(cells [][]interface{}) *result.Computation {
	const op = "matrix_eigenvalues"
	a, errRes := m.classify(op, cells)
	if errRes != nil {
		return errRes
	}
	if !a.IsSquare() {
		return result.Error(op, result.KindDomain,
			"eigenvalues require a square matrix, got %dx%d", a.Rows, a.Cols)
	}

	res := result.New(op).Math("matrix", a.LaTeX())

	if a.Kind == Symbolic {
		rat, ok := a.RationalCells()
		if !ok {
			return result.Error(op, result.KindUnsupported,
				"eigenvalues of matrices with free variables are not supported")
		}
		coeffs, err := charPolyCoeffs(rat)
		if err != nil {
			return result.Error(op, result.KindDomain, "%v", err)
		}
		res.Step("Characteristic polynomial: det(A - λI) = %s",
			symbolic.PolyFromCoeffs(coeffs, lambdaVar).String())
		roots, err := symbolic.PolyRoots(coeffs)
		if err != nil {
			return result.Error(op, result.KindInternal, "%v", err)
		}
		data := make([]map[string]interface{}, 0, len(roots))
		for _, r := range roots {
			value := result.FormatComplex(r.Value)
			if r.Exact != nil {
				value = r.Exact.RatString()
			}
			for k := 0; k < r.Multiplicity; k++ {
				data = append(data, map[string]interface{}{
					"eigenvalue": value,
					"is_real":    r.IsReal,
				})
			}
			res.Step("λ = %s (multiplicity %d)", value, r.Multiplicity)
		}
		res.Set("eigendata", data)
		return res
	}

	var eig mat.Eigen
	if !eig.Factorize(a.Dense, mat.EigenRight) {
		return result.Error(op, result.KindInternal, "eigendecomposition did not converge")
	}
	values := eig.Values(nil)
	var vectors mat.CDense
	eig.VectorsTo(&vectors)

	data := make([]map[string]interface{}, len(values))
	for i, v := range values {
		if math.Abs(imag(v)) < imagDropTol {
			v = complex(real(v), 0)
		}
		vec := make([]string, a.Rows)
		for r := 0; r < a.Rows; r++ {
			vec[r] = result.FormatComplex(vectors.At(r, i))
		}
		data[i] = map[string]interface{}{
			"eigenvalue":  result.FormatComplex(v),
			"eigenvector": vec,
			"is_real":     imag(v) == 0,
		}
		res.Step("λ%d = %s, v%d = (%s)", i+1, result.FormatComplex(v), i+1, strings.Join(vec, ", "))
	}
	res.Set("eigendata", data)

	if a.Rows == 2 {
		colors := []string{"#3b82f6", "#ef4444"}
		for i, v := range values {
			if math.Abs(imag(v)) >= imagDropTol {
				continue
			}
			vx, vy := real(vectors.At(0, i)), real(vectors.At(1, i))
			norm := math.Hypot(vx, vy)
			if norm < 1e-12 {
				continue
			}
			// unit direction scaled for visibility
			scale := 2.0 / norm
			res.Plot(plot.Segment(0, 0, vx*scale, vy*scale,
				fmt.Sprintf("v%d (λ=%s)", i+1, result.FormatComplex(v)),
				map[string]interface{}{"color": colors[i%2]}))
		}
	}
	return res
}

// Transform visualizes a 2x2 linear map applied to a reference shape.
// Shapes: unit_square, unit_circle, grid.
func (m *Module) Transform(cells [][]interface{}, shape string) *result.Computation {
	const op = "matrix_transform"
	a, errRes := m.classify(op, cells)
	if errRes != nil {
		return errRes
	}
	if a.Rows != 2 || a.Cols != 2 {
		return result.Error(op, result.KindDomain,
			"transformation visualization requires a 2x2 matrix, got %dx%d", a.Rows, a.Cols)
	}
	if a.Kind != Numeric {
		return result.Error(op, result.KindDomain,
			"transformation visualization requires numeric entries")
	}
	if shape == "" {
		shape = "unit_square"
	}

	g := a.Dense
	det := cleanNumber(mat.Det(g))
	res := result.New(op).
		Set("shape", shape).
		Set("determinant", det).
		Set("area_scale", math.Abs(det)).
		Math("matrix", a.LaTeX())
	res.Step("det = %s, so areas scale by %s",
		result.FormatNumber(det), result.FormatNumber(math.Abs(det)))
	if det < 0 {
		res.Set("orientation", "reversed")
		res.Step("det < 0: the transformation reverses orientation")
	} else {
		res.Set("orientation", "preserved")
	}

	apply := func(x, y float64) (float64, float64) {
		return g.At(0, 0)*x + g.At(0, 1)*y, g.At(1, 0)*x + g.At(1, 1)*y
	}
	originalStyle := map[string]interface{}{"color": "#94a3b8", "dash": true}
	transformedStyle := map[string]interface{}{"color": "#3b82f6"}

	switch shape {
	case "unit_square":
		square := [][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
		mapped := make([][2]float64, len(square))
		for i, p := range square {
			x, y := apply(p[0], p[1])
			mapped[i] = [2]float64{x, y}
		}
		res.Plot(plot.Polygon(square, "unit square", originalStyle))
		res.Plot(plot.Polygon(mapped, "image", transformedStyle))
	case "unit_circle":
		const n = 100
		ox := make([]float64, n+1)
		oy := make([]float64, n+1)
		tx := make([]float64, n+1)
		ty := make([]float64, n+1)
		for i := 0; i <= n; i++ {
			t := 2 * math.Pi * float64(i) / n
			ox[i], oy[i] = math.Cos(t), math.Sin(t)
			tx[i], ty[i] = apply(ox[i], oy[i])
		}
		res.Plot(plot.CurvePoints(ox, oy, "unit circle", originalStyle))
		res.Plot(plot.CurvePoints(tx, ty, "image", transformedStyle))
	case "grid":
		for i := -2; i <= 2; i++ {
			f := float64(i)
			x1, y1 := apply(f, -2)
			x2, y2 := apply(f, 2)
			res.Plot(plot.Segment(x1, y1, x2, y2, "", transformedStyle))
			x1, y1 = apply(-2, f)
			x2, y2 = apply(2, f)
			res.Plot(plot.Segment(x1, y1, x2, y2, "", transformedStyle))
		}
	default:
		return result.Error(op, result.KindDomain,
			"unknown shape %q (want unit_square, unit_circle, or grid)", shape)
	}

	res.Plot(plot.Point(0, 0, "O", map[string]interface{}{"color": "#000", "size": 8}))
	return res
}

// classify wraps Classify with the module's error envelope.
func (m *Module) classify(op string, cells [][]interface{}) (*Matrix, *result.Computation) {
	a, err := Classify(cells)
	if err != nil {
		return nil, result.Error(op, result.KindParse, "%v", err)
	}
	return a, nil
}

// exprs returns the expression grid, promoting numeric entries as needed.
func (a *Matrix) exprs() [][]symbolic.Expr {
	if a.Kind == Symbolic {
		return a.Cells
	}
	out := make([][]symbolic.Expr, a.Rows)
	for i := 0; i < a.Rows; i++ {
		out[i] = make([]symbolic.Expr, a.Cols)
		for j := 0; j < a.Cols; j++ {
			out[i][j] = symbolic.Float(a.Dense.At(i, j))
		}
	}
	return out
}

// groupEigenvalues rounds eigenvalues and folds duplicates into
// multiplicities, preserving first-appearance order.
func (m *Module) groupEigenvalues(values []complex128) []map[string]interface{} {
	scale := math.Pow(10, float64(m.eigenDecimals))
	type group struct {
		value string
		count int
	}
	var order []string
	groups := map[string]*group{}
	for _, v := range values {
		re := math.Round(real(v)*scale) / scale
		im := math.Round(imag(v)*scale) / scale
		if math.Abs(im) < imagDropTol {
			im = 0
		}
		key := result.FormatComplex(complex(re, im))
		if g, ok := groups[key]; ok {
			g.count++
			continue
		}
		groups[key] = &group{value: key, count: 1}
		order = append(order, key)
	}
	out := make([]map[string]interface{}, len(order))
	for i, key := range order {
		out[i] = map[string]interface{}{
			"value":        groups[key].value,
			"multiplicity": groups[key].count,
		}
	}
	return out
}

func numericRank(a *mat.Dense) int {
	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDNone) {
		return 0
	}
	sv := svd.Values(nil)
	if len(sv) == 0 {
		return 0
	}
	tol := sv[0] * 1e-12
	if tol < 1e-12 {
		tol = 1e-12
	}
	rank := 0
	for _, s := range sv {
		if s > tol {
			rank++
		}
	}
	return rank
}

// cleanNumber snaps float noise: values within singularTol of zero become
// zero, values within 1e-9 of an integer become that integer.
func cleanNumber(v float64) float64 {
	if math.Abs(v) < singularTol {
		return 0
	}
	if r := math.Round(v); math.Abs(v-r) < 1e-9 {
		return r
	}
	return v
}

func isIdentity(a *mat.Dense, tol float64) bool {
	r, c := a.Dims()
	if r != c {
		return false
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			if math.Abs(a.At(i, j)-want) > tol {
				return false
			}
		}
	}
	return true
}

func numMinor(a *mat.Dense, row, col int) *mat.Dense {
	r, c := a.Dims()
	out := mat.NewDense(r-1, c-1, nil)
	oi := 0
	for i := 0; i < r; i++ {
		if i == row {
			continue
		}
		oj := 0
		for j := 0; j < c; j++ {
			if j == col {
				continue
			}
			out.Set(oi, oj, a.At(i, j))
			oj++
		}
		oi++
	}
	return out
}

func denseGrid(a *mat.Dense) [][]float64 {
	r, c := a.Dims()
	out := make([][]float64, r)
	for i := 0; i < r; i++ {
		out[i] = make([]float64, c)
		for j := 0; j < c; j++ {
			out[i][j] = cleanNumber(a.At(i, j))
		}
	}
	return out
}

func denseText(a *mat.Dense) [][]string {
	r, c := a.Dims()
	out := make([][]string, r)
	for i := 0; i < r; i++ {
		out[i] = make([]string, c)
		for j := 0; j < c; j++ {
			out[i][j] = result.FormatNumber(cleanNumber(a.At(i, j)))
		}
	}
	return out
}

// texMatrix renders a text grid in pmatrix form.
func texMatrix(text [][]string) string {
	rows := make([]string, len(text))
	for i, row := range text {
		rows[i] = strings.Join(row, " & ")
	}
	return `\begin{pmatrix} ` + strings.Join(rows, ` \\ `) + ` \end{pmatrix}`
}
