// Package matrix implements matrix operations with a numeric fast path and
// a symbolic fallback, decided once per input by Classify.
package matrix

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/eduforge/mathcore/backend/internal/symbolic"
)

// Kind tags which evaluation path a classified matrix takes.
type Kind int

const (
	// Numeric matrices evaluate through gonum.
	Numeric Kind = iota
	// Symbolic matrices evaluate through the expression kernel. Exact
	// rational entries (like "1/2") take this path too, so they keep
	// exactness.
	Symbolic
)

// Matrix is a classified matrix. Exactly one of Dense or Cells is the
// operative representation, per Kind; Text keeps the original rendering of
// every entry for steps and display.
type Matrix struct {
	Kind Kind
	Rows int
	Cols int

	Dense *mat.Dense        // set when Kind == Numeric
	Cells [][]symbolic.Expr // set when Kind == Symbolic
	Text  [][]string
}

// Classify validates the cell grid and decides the evaluation path. Cells
// arrive from JSON as float64 or string. Every float is numeric; a string
// is numeric when strconv parses it. Anything else goes through the
// expression parser and forces the symbolic path.
func Classify(cells [][]interface{}) (*Matrix, error) {
	if len(cells) == 0 || len(cells[0]) == 0 {
		return nil, fmt.Errorf("matrix is empty")
	}
	cols := len(cells[0])
	for i, row := range cells {
		if len(row) != cols {
			return nil, fmt.Errorf("matrix has inconsistent row lengths (row %d)", i+1)
		}
	}
	rows := len(cells)

	numeric := true
	floatsGrid := make([]float64, 0, rows*cols)
	text := make([][]string, rows)
scan:
	for i, row := range cells {
		text[i] = make([]string, cols)
		for j, cell := range row {
			switch v := cell.(type) {
			case float64:
				floatsGrid = append(floatsGrid, v)
				text[i][j] = strconv.FormatFloat(v, 'g', -1, 64)
			case int:
				floatsGrid = append(floatsGrid, float64(v))
				text[i][j] = strconv.Itoa(v)
			case string:
				text[i][j] = strings.TrimSpace(v)
				if f, err := strconv.ParseFloat(text[i][j], 64); err == nil {
					floatsGrid = append(floatsGrid, f)
					continue
				}
				numeric = false
				break scan
			default:
				return nil, fmt.Errorf("unsupported matrix entry %v (row %d, col %d)", cell, i+1, j+1)
			}
		}
	}

	if numeric {
		return &Matrix{
			Kind:  Numeric,
			Rows:  rows,
			Cols:  cols,
			Dense: mat.NewDense(rows, cols, floatsGrid),
			Text:  text,
		}, nil
	}

	// symbolic path: re-walk all cells through the parser. The numeric scan
	// may have bailed out early, so rebuild every text cell from scratch.
	exprs := make([][]symbolic.Expr, rows)
	for i, row := range cells {
		exprs[i] = make([]symbolic.Expr, cols)
		if text[i] == nil {
			text[i] = make([]string, cols)
		}
		for j, cell := range row {
			var s string
			switch v := cell.(type) {
			case string:
				s = strings.TrimSpace(v)
			case float64:
				s = strconv.FormatFloat(v, 'g', -1, 64)
			case int:
				s = strconv.Itoa(v)
			}
			e, err := symbolic.Parse(s)
			if err != nil {
				return nil, fmt.Errorf("entry (%d,%d): %v", i+1, j+1, err)
			}
			exprs[i][j] = e
			text[i][j] = e.String()
		}
	}
	return &Matrix{
		Kind:  Symbolic,
		Rows:  rows,
		Cols:  cols,
		Cells: exprs,
		Text:  text,
	}, nil
}

// IsSquare reports whether the matrix is square.
func (m *Matrix) IsSquare() bool { return m.Rows == m.Cols }

// RationalCells extracts exact rational entries; ok is false when any entry
// has free variables.
func (m *Matrix) RationalCells() ([][]*big.Rat, bool) {
	if m.Kind != Symbolic {
		return nil, false
	}
	out := make([][]*big.Rat, m.Rows)
	for i := range m.Cells {
		out[i] = make([]*big.Rat, m.Cols)
		for j, e := range m.Cells[i] {
			r, ok := e.Simplify().Rational()
			if !ok {
				return nil, false
			}
			out[i][j] = r
		}
	}
	return out, true
}

// LaTeX renders the matrix in pmatrix form from its display text.
func (m *Matrix) LaTeX() string { return texMatrix(m.Text) }
