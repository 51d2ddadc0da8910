package geometry

import (
	"math"

	"github.com/eduforge/mathcore/backend/internal/engine/plot"
	"github.com/eduforge/mathcore/backend/internal/engine/result"
)

// classifyTol absorbs float noise when comparing side and diagonal lengths.
const classifyTol = 1e-5

// TriangleAnalyze computes area, side lengths, and the four classical
// centers of the triangle P1P2P3.
func (g *Geometry) TriangleAnalyze(p1, p2, p3 Point) *result.Computation {
	const op = "triangle_analyze"

	a := math.Hypot(p2.X-p3.X, p2.Y-p3.Y) // opposite P1
	b := math.Hypot(p1.X-p3.X, p1.Y-p3.Y) // opposite P2
	c := math.Hypot(p1.X-p2.X, p1.Y-p2.Y) // opposite P3

	area := 0.5 * math.Abs(p1.X*(p2.Y-p3.Y)+p2.X*(p3.Y-p1.Y)+p3.X*(p1.Y-p2.Y))
	if area < coincidenceTol {
		return result.Error(op, result.KindDomain, "points are collinear (area = 0)")
	}

	res := result.New(op).
		Set("area", area).
		Set("sides", map[string]float64{"a": a, "b": b, "c": c}).
		Math("area", result.FormatNumber(area))
	res.Step("Vertices: A(%s, %s), B(%s, %s), C(%s, %s)",
		result.FormatNumber(p1.X), result.FormatNumber(p1.Y),
		result.FormatNumber(p2.X), result.FormatNumber(p2.Y),
		result.FormatNumber(p3.X), result.FormatNumber(p3.Y))
	res.Step("Side lengths: a=%.4f, b=%.4f, c=%.4f", a, b, c)
	res.Step("Area (shoelace) = %.4f", area)

	gx, gy := (p1.X+p2.X+p3.X)/3, (p1.Y+p2.Y+p3.Y)/3
	res.Set("centroid", Point{X: gx, Y: gy})
	res.Step("Centroid G = (%.4f, %.4f)", gx, gy)
	res.Math("centroid", "G("+result.FormatNumber(gx)+", "+result.FormatNumber(gy)+")")

	perim := a + b + c
	ix := (a*p1.X + b*p2.X + c*p3.X) / perim
	iy := (a*p1.Y + b*p2.Y + c*p3.Y) / perim
	res.Set("incenter", Point{X: ix, Y: iy})
	res.Step("Incenter I = (%.4f, %.4f)", ix, iy)

	d := 2 * (p1.X*(p2.Y-p3.Y) + p2.X*(p3.Y-p1.Y) + p3.X*(p1.Y-p2.Y))
	sq := func(p Point) float64 { return p.X*p.X + p.Y*p.Y }
	ox := (sq(p1)*(p2.Y-p3.Y) + sq(p2)*(p3.Y-p1.Y) + sq(p3)*(p1.Y-p2.Y)) / d
	oy := (sq(p1)*(p3.X-p2.X) + sq(p2)*(p1.X-p3.X) + sq(p3)*(p2.X-p1.X)) / d
	res.Set("circumcenter", Point{X: ox, Y: oy})
	res.Step("Circumcenter O = (%.4f, %.4f)", ox, oy)

	// H = A + B + C - 2O along the Euler line
	hx := p1.X + p2.X + p3.X - 2*ox
	hy := p1.Y + p2.Y + p3.Y - 2*oy
	res.Set("orthocenter", Point{X: hx, Y: hy})
	res.Step("Orthocenter H = (%.4f, %.4f)", hx, hy)

	res.Plot(plot.Polygon([][2]float64{{p1.X, p1.Y}, {p2.X, p2.Y}, {p3.X, p3.Y}}, "triangle", nil))
	res.Plot(plot.Point(gx, gy, "G", map[string]interface{}{"color": "#22c55e"}))
	res.Plot(plot.Point(ix, iy, "I", map[string]interface{}{"color": "#eab308"}))
	res.Plot(plot.Point(ox, oy, "O", map[string]interface{}{"color": "#3b82f6"}))
	res.Plot(plot.Point(hx, hy, "H", map[string]interface{}{"color": "#ef4444"}))
	return res
}

// QuadrilateralAnalyze computes area by the shoelace formula and classifies
// the quadrilateral. The vertices must be given in order around the shape.
// Classification checks all four sides first, then opposite sides; within
// each branch, equal diagonals or a right corner promote the shape.
func (g *Geometry) QuadrilateralAnalyze(p1, p2, p3, p4 Point) *result.Computation {
	const op = "quadrilateral_analyze"
	pts := []Point{p1, p2, p3, p4}

	d := func(i, j int) float64 {
		return math.Hypot(pts[i].X-pts[j].X, pts[i].Y-pts[j].Y)
	}
	s1, s2, s3, s4 := d(0, 1), d(1, 2), d(2, 3), d(3, 0)
	d1, d2 := d(0, 2), d(1, 3)

	area := 0.5 * math.Abs(
		(pts[0].X*pts[1].Y+pts[1].X*pts[2].Y+pts[2].X*pts[3].Y+pts[3].X*pts[0].Y)-
			(pts[0].Y*pts[1].X+pts[1].Y*pts[2].X+pts[2].Y*pts[3].X+pts[3].Y*pts[0].X))

	res := result.New(op).
		Set("area", area).
		Set("sides", []float64{s1, s2, s3, s4}).
		Set("diagonals", []float64{d1, d2}).
		Math("area", result.FormatNumber(area))
	res.Step("Sides: AB=%.2f, BC=%.2f, CD=%.2f, DA=%.2f", s1, s2, s3, s4)
	res.Step("Diagonals: AC=%.2f, BD=%.2f", d1, d2)
	res.Step("Area = %.4f", area)

	equalSides := math.Abs(s1-s2) < classifyTol && math.Abs(s2-s3) < classifyTol && math.Abs(s3-s4) < classifyTol
	oppositeEqual := math.Abs(s1-s3) < classifyTol && math.Abs(s2-s4) < classifyTol
	diagonalsEqual := math.Abs(d1-d2) < classifyTol
	rightCorner := math.Abs(d1*d1-(s1*s1+s2*s2)) < classifyTol

	qtype := "Quadrilateral"
	switch {
	case equalSides && (diagonalsEqual || rightCorner):
		qtype = "Square"
	case equalSides:
		qtype = "Rhombus"
	case oppositeEqual && (diagonalsEqual || rightCorner):
		qtype = "Rectangle"
	case oppositeEqual:
		qtype = "Parallelogram"
	}
	res.Set("type", qtype)
	res.Step("Classification: %s", qtype)
	res.Math("type", `\text{`+qtype+`}`)

	res.Plot(plot.Polygon([][2]float64{
		{p1.X, p1.Y}, {p2.X, p2.Y}, {p3.X, p3.Y}, {p4.X, p4.Y},
	}, qtype, nil))
	return res
}
