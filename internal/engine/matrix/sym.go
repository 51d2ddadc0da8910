package matrix

import (
	"fmt"
	"math/big"

	"github.com/eduforge/mathcore/backend/internal/symbolic"
)

// maxSymbolicDet bounds cofactor expansion; past this size the factorial
// blowup is not worth a step-by-step answer.
const maxSymbolicDet = 6

// lambdaVar is the eigenvalue variable in characteristic polynomials. It is
// outside the parser's alphabet so matrix entries can never collide with it.
const lambdaVar = "λ"

// symDet computes a determinant over expression entries by cofactor
// expansion along the first row.
func symDet(cells [][]symbolic.Expr) (symbolic.Expr, error) {
	n := len(cells)
	if n > maxSymbolicDet {
		return nil, fmt.Errorf("symbolic determinant supported up to %dx%d", maxSymbolicDet, maxSymbolicDet)
	}
	return cofactorDet(cells).Simplify(), nil
}

func cofactorDet(cells [][]symbolic.Expr) symbolic.Expr {
	n := len(cells)
	if n == 1 {
		return cells[0][0]
	}
	if n == 2 {
		return symbolic.NewSum(
			symbolic.NewProduct(cells[0][0], cells[1][1]),
			symbolic.NewProduct(symbolic.Int(-1), cells[0][1], cells[1][0]),
		)
	}
	terms := make([]symbolic.Expr, 0, n)
	for j := 0; j < n; j++ {
		sign := int64(1)
		if j%2 == 1 {
			sign = -1
		}
		terms = append(terms, symbolic.NewProduct(
			symbolic.Int(sign), cells[0][j], cofactorDet(symMinor(cells, 0, j))))
	}
	return symbolic.NewSum(terms...)
}

func symMinor(cells [][]symbolic.Expr, row, col int) [][]symbolic.Expr {
	n := len(cells)
	out := make([][]symbolic.Expr, 0, n-1)
	for i := 0; i < n; i++ {
		if i == row {
			continue
		}
		r := make([]symbolic.Expr, 0, n-1)
		for j := 0; j < n; j++ {
			if j == col {
				continue
			}
			r = append(r, cells[i][j])
		}
		out = append(out, r)
	}
	return out
}

// symCombine applies an elementwise binary op over two expression grids.
func symCombine(a, b [][]symbolic.Expr, f func(x, y symbolic.Expr) symbolic.Expr) [][]symbolic.Expr {
	out := make([][]symbolic.Expr, len(a))
	for i := range a {
		out[i] = make([]symbolic.Expr, len(a[i]))
		for j := range a[i] {
			out[i][j] = f(a[i][j], b[i][j])
		}
	}
	return out
}

// symMul multiplies expression matrices; dimensions must already agree.
func symMul(a, b [][]symbolic.Expr) [][]symbolic.Expr {
	rows, inner, cols := len(a), len(b), len(b[0])
	out := make([][]symbolic.Expr, rows)
	for i := 0; i < rows; i++ {
		out[i] = make([]symbolic.Expr, cols)
		for j := 0; j < cols; j++ {
			terms := make([]symbolic.Expr, inner)
			for k := 0; k < inner; k++ {
				terms[k] = symbolic.NewProduct(a[i][k], b[k][j])
			}
			out[i][j] = symbolic.NewSum(terms...)
		}
	}
	return out
}

// charPolyCoeffs builds det(A - λI) for an exact rational matrix and returns
// its coefficients in ascending degree.
func charPolyCoeffs(cells [][]*big.Rat) ([]*big.Rat, error) {
	n := len(cells)
	shifted := make([][]symbolic.Expr, n)
	for i := 0; i < n; i++ {
		shifted[i] = make([]symbolic.Expr, n)
		for j := 0; j < n; j++ {
			if i == j {
				shifted[i][j] = symbolic.NewSum(
					symbolic.Rat(cells[i][j]),
					symbolic.NewProduct(symbolic.Int(-1), symbolic.Var(lambdaVar)))
				continue
			}
			shifted[i][j] = symbolic.Rat(cells[i][j])
		}
	}
	det, err := symDet(shifted)
	if err != nil {
		return nil, err
	}
	coeffs, ok := symbolic.PolyCoeffs(det, lambdaVar)
	if !ok {
		return nil, fmt.Errorf("characteristic polynomial is not polynomial in %s", lambdaVar)
	}
	return coeffs, nil
}

// ratRank runs exact Gaussian elimination and counts nonzero pivot rows.
func ratRank(cells [][]*big.Rat) int {
	rows, cols := len(cells), len(cells[0])
	m := make([][]*big.Rat, rows)
	for i := range cells {
		m[i] = make([]*big.Rat, cols)
		for j := range cells[i] {
			m[i][j] = new(big.Rat).Set(cells[i][j])
		}
	}
	rank := 0
	for col := 0; col < cols && rank < rows; col++ {
		pivot := -1
		for r := rank; r < rows; r++ {
			if m[r][col].Sign() != 0 {
				pivot = r
				break
			}
		}
		if pivot < 0 {
			continue
		}
		m[rank], m[pivot] = m[pivot], m[rank]
		for r := rank + 1; r < rows; r++ {
			if m[r][col].Sign() == 0 {
				continue
			}
			factor := new(big.Rat).Quo(m[r][col], m[rank][col])
			for c := col; c < cols; c++ {
				m[r][c].Sub(m[r][c], new(big.Rat).Mul(factor, m[rank][c]))
			}
		}
		rank++
	}
	return rank
}

// ratDet computes the exact determinant by fraction-free elimination.
func ratDet(cells [][]*big.Rat) *big.Rat {
	n := len(cells)
	m := make([][]*big.Rat, n)
	for i := range cells {
		m[i] = make([]*big.Rat, n)
		for j := range cells[i] {
			m[i][j] = new(big.Rat).Set(cells[i][j])
		}
	}
	det := big.NewRat(1, 1)
	for col := 0; col < n; col++ {
		pivot := -1
		for r := col; r < n; r++ {
			if m[r][col].Sign() != 0 {
				pivot = r
				break
			}
		}
		if pivot < 0 {
			return new(big.Rat)
		}
		if pivot != col {
			m[col], m[pivot] = m[pivot], m[col]
			det.Neg(det)
		}
		det.Mul(det, m[col][col])
		for r := col + 1; r < n; r++ {
			if m[r][col].Sign() == 0 {
				continue
			}
			factor := new(big.Rat).Quo(m[r][col], m[col][col])
			for c := col; c < n; c++ {
				m[r][c].Sub(m[r][c], new(big.Rat).Mul(factor, m[col][c]))
			}
		}
	}
	return det
}

// ratInverse inverts an exact rational matrix by Gauss-Jordan elimination;
// ok is false when the matrix is singular.
func ratInverse(cells [][]*big.Rat) ([][]*big.Rat, bool) {
	n := len(cells)
	// augmented [A | I]
	m := make([][]*big.Rat, n)
	for i := 0; i < n; i++ {
		m[i] = make([]*big.Rat, 2*n)
		for j := 0; j < n; j++ {
			m[i][j] = new(big.Rat).Set(cells[i][j])
			m[i][n+j] = new(big.Rat)
		}
		m[i][n+i] = big.NewRat(1, 1)
	}
	for col := 0; col < n; col++ {
		pivot := -1
		for r := col; r < n; r++ {
			if m[r][col].Sign() != 0 {
				pivot = r
				break
			}
		}
		if pivot < 0 {
			return nil, false
		}
		m[col], m[pivot] = m[pivot], m[col]
		inv := new(big.Rat).Inv(m[col][col])
		for c := 0; c < 2*n; c++ {
			m[col][c].Mul(m[col][c], inv)
		}
		for r := 0; r < n; r++ {
			if r == col || m[r][col].Sign() == 0 {
				continue
			}
			factor := new(big.Rat).Set(m[r][col])
			for c := 0; c < 2*n; c++ {
				m[r][c].Sub(m[r][c], new(big.Rat).Mul(factor, m[col][c]))
			}
		}
	}
	out := make([][]*big.Rat, n)
	for i := 0; i < n; i++ {
		out[i] = m[i][n:]
	}
	return out, true
}

func ratText(cells [][]*big.Rat) [][]string {
	out := make([][]string, len(cells))
	for i, row := range cells {
		out[i] = make([]string, len(row))
		for j, r := range row {
			out[i][j] = r.RatString()
		}
	}
	return out
}

func symText(cells [][]symbolic.Expr) [][]string {
	out := make([][]string, len(cells))
	for i, row := range cells {
		out[i] = make([]string, len(row))
		for j, e := range row {
			out[i][j] = e.Simplify().String()
		}
	}
	return out
}
