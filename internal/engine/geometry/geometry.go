// Package geometry implements 2D/3D coordinate geometry: points, lines,
// circles, triangles, vectors, conics, and mensuration.
package geometry

import (
	"math"

	"github.com/eduforge/mathcore/backend/internal/engine/plot"
	"github.com/eduforge/mathcore/backend/internal/engine/result"
	"github.com/eduforge/mathcore/backend/internal/logging"
)

// coincidenceTol decides tangency and parallelism.
const coincidenceTol = 1e-9

// Point is a 2D or 3D point; Z stays zero for plane geometry.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Line is ax + by + c = 0.
type Line struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
	C float64 `json:"c"`
}

// Circle is (x-h)^2 + (y-k)^2 = r^2 with center (X, Y).
type Circle struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	R float64 `json:"r"`
}

// Geometry exposes the geometry operations.
type Geometry struct {
	log *logging.Logger
}

// New creates the geometry module.
func New(log *logging.Logger) *Geometry {
	return &Geometry{log: log.WithDomain("geometry")}
}

// Distance computes the Euclidean distance between two points.
func (g *Geometry) Distance(p1, p2 Point) *result.Computation {
	dx, dy, dz := p2.X-p1.X, p2.Y-p1.Y, p2.Z-p1.Z
	dist := math.Sqrt(dx*dx + dy*dy + dz*dz)

	res := result.New("distance").
		Set("distance", dist).
		Math("formula", `d = \sqrt{(x_2-x_1)^2 + (y_2-y_1)^2 + (z_2-z_1)^2}`).
		Math("result", result.FormatNumber(dist))
	res.Step("Formula: d = √((x₂-x₁)² + (y₂-y₁)² + (z₂-z₁)²)")
	res.Step("Substitute: √((%s)² + (%s)² + (%s)²)",
		result.FormatNumber(dx), result.FormatNumber(dy), result.FormatNumber(dz))
	res.Step("Result: %.4f", dist)

	if p1.Z == 0 && p2.Z == 0 {
		res.Plot(plot.Segment(p1.X, p1.Y, p2.X, p2.Y, "d", nil))
		res.Plot(plot.Point(p1.X, p1.Y, "P₁", nil))
		res.Plot(plot.Point(p2.X, p2.Y, "P₂", nil))
	}
	return res
}

// Midpoint computes the midpoint of a segment.
func (g *Geometry) Midpoint(p1, p2 Point) *result.Computation {
	mx, my, mz := (p1.X+p2.X)/2, (p1.Y+p2.Y)/2, (p1.Z+p2.Z)/2

	res := result.New("midpoint").
		Set("midpoint", Point{mx, my, mz}).
		Math("formula", `M = \left(\frac{x_1+x_2}{2}, \frac{y_1+y_2}{2}\right)`).
		Math("result", "M("+result.FormatNumber(mx)+", "+result.FormatNumber(my)+")")
	res.Step("Formula: M = ((x₁+x₂)/2, (y₁+y₂)/2, (z₁+z₂)/2)")
	res.Step("Result: (%s, %s, %s)",
		result.FormatNumber(mx), result.FormatNumber(my), result.FormatNumber(mz))
	return res
}

// SectionPoint computes the point dividing the segment p1→p2 in ratio m:n.
func (g *Geometry) SectionPoint(p1, p2 Point, m, n float64) *result.Computation {
	const op = "section_point"
	denom := m + n
	if denom == 0 {
		return result.Error(op, result.KindDomain, "division by zero (m + n = 0)")
	}
	px := (m*p2.X + n*p1.X) / denom
	py := (m*p2.Y + n*p1.Y) / denom
	pz := (m*p2.Z + n*p1.Z) / denom

	res := result.New(op).
		Set("point", Point{px, py, pz}).
		Math("formula", `P = \left(\frac{mx_2+nx_1}{m+n}, \frac{my_2+ny_1}{m+n}\right)`).
		Math("result", "P("+result.FormatNumber(px)+", "+result.FormatNumber(py)+")")
	res.Step("Point P divides AB in ratio %s:%s",
		result.FormatNumber(m), result.FormatNumber(n))
	res.Step("x = (%s·%s + %s·%s) / %s = %.4f",
		result.FormatNumber(m), result.FormatNumber(p2.X),
		result.FormatNumber(n), result.FormatNumber(p1.X),
		result.FormatNumber(denom), px)
	res.Step("y = (%s·%s + %s·%s) / %s = %.4f",
		result.FormatNumber(m), result.FormatNumber(p2.Y),
		result.FormatNumber(n), result.FormatNumber(p1.Y),
		result.FormatNumber(denom), py)
	if p1.Z != 0 || p2.Z != 0 {
		res.Step("z = (%s·%s + %s·%s) / %s = %.4f",
			result.FormatNumber(m), result.FormatNumber(p2.Z),
			result.FormatNumber(n), result.FormatNumber(p1.Z),
			result.FormatNumber(denom), pz)
	}
	return res
}

// LineFromPoints derives the line through two points, in slope-intercept
// form when possible and x = k for vertical lines.
func (g *Geometry) LineFromPoints(p1, p2 Point) *result.Computation {
	const op = "line_from_points"
	if p1.X == p2.X && p1.Y == p2.Y {
		return result.Error(op, result.KindDomain, "the two points coincide")
	}
	res := result.New(op)
	if p2.X == p1.X {
		res.Set("vertical", true).Set("x", p1.X)
		res.Step("Vertical line through x = %s", result.FormatNumber(p1.X))
		res.Math("equation", "x = "+result.FormatNumber(p1.X))
		res.Plot(plot.Line(1, 0, -p1.X, "", nil))
		return res
	}
	m := (p2.Y - p1.Y) / (p2.X - p1.X)
	c := p1.Y - m*p1.X
	res.Set("m", m).Set("c", c)
	res.Step("Slope m = (%s - %s)/(%s - %s) = %s",
		result.FormatNumber(p2.Y), result.FormatNumber(p1.Y),
		result.FormatNumber(p2.X), result.FormatNumber(p1.X), result.FormatNumber(m))
	res.Step("Equation: y = %sx + %s", result.FormatNumber(m), result.FormatNumber(c))
	res.Math("equation", "y = "+result.FormatNumber(m)+"x + "+result.FormatNumber(c))
	res.Plot(plot.Line(m, -1, c, "", nil))
	res.Plot(plot.Point(p1.X, p1.Y, "P₁", nil))
	res.Plot(plot.Point(p2.X, p2.Y, "P₂", nil))
	return res
}

// LineIntersection intersects two lines in general form. Parallel and
// coincident pairs are successful answers carrying that status.
func (g *Geometry) LineIntersection(l1, l2 Line) *result.Computation {
	const op = "line_intersection"
	res := result.New(op)
	res.Step("Line 1: %sx + %sy + %s = 0",
		result.FormatNumber(l1.A), result.FormatNumber(l1.B), result.FormatNumber(l1.C))
	res.Step("Line 2: %sx + %sy + %s = 0",
		result.FormatNumber(l2.A), result.FormatNumber(l2.B), result.FormatNumber(l2.C))

	det := l1.A*l2.B - l2.A*l1.B
	res.Step("Determinant D = a₁b₂ - a₂b₁ = %s", result.FormatNumber(det))

	res.Plot(plot.Line(l1.A, l1.B, l1.C, "L₁", nil))
	res.Plot(plot.Line(l2.A, l2.B, l2.C, "L₂", nil))

	if math.Abs(det) < coincidenceTol {
		norm := math.Hypot(l1.A, l1.B)
		status := "parallel"
		if norm > 0 && math.Abs(l2.C-l1.C)/norm < coincidenceTol {
			status = "coincident"
			res.Step("Lines are coincident (infinitely many intersections)")
		} else {
			res.Step("Lines are parallel (no intersection)")
		}
		return res.Set("status", status)
	}

	x := (l1.B*l2.C - l2.B*l1.C) / det
	y := (l1.C*l2.A - l2.C*l1.A) / det
	res.Step("x = (b₁c₂ - b₂c₁)/D = %.4f", x)
	res.Step("y = (c₁a₂ - c₂a₁)/D = %.4f", y)
	res.Set("status", "intersecting").Set("point", Point{X: x, Y: y})
	res.Math("solution", "(x, y) = ("+result.FormatNumber(x)+", "+result.FormatNumber(y)+")")
	res.Plot(plot.Point(x, y, "P", map[string]interface{}{"color": "#ef4444"}))
	return res
}

// LineCircleIntersection classifies a line against a circle by the
// perpendicular distance from the center.
func (g *Geometry) LineCircleIntersection(l Line, c Circle) *result.Computation {
	const op = "line_circle_intersection"
	denom := math.Hypot(l.A, l.B)
	if denom == 0 {
		return result.Error(op, result.KindDomain, "invalid line (a = b = 0)")
	}
	if c.R <= 0 {
		return result.Error(op, result.KindDomain, "circle radius must be positive")
	}
	dist := math.Abs(l.A*c.X+l.B*c.Y+l.C) / denom

	res := result.New(op).Set("distance", dist)
	res.Step("Line: %sx + %sy + %s = 0",
		result.FormatNumber(l.A), result.FormatNumber(l.B), result.FormatNumber(l.C))
	res.Step("Circle center (%s, %s), radius %s",
		result.FormatNumber(c.X), result.FormatNumber(c.Y), result.FormatNumber(c.R))
	res.Step("Perpendicular distance from center to line: %.4f", dist)

	res.Plot(plot.Line(l.A, l.B, l.C, "L", nil))
	res.Plot(plot.Circle(c.X, c.Y, c.R, "", nil))

	// foot of the perpendicular from the center
	n2 := denom * denom
	fx := (l.B*(l.B*c.X-l.A*c.Y) - l.A*l.C) / n2
	fy := (l.A*(-l.B*c.X+l.A*c.Y) - l.B*l.C) / n2

	var points []Point
	status := "no_intersection"
	switch {
	case math.Abs(dist-c.R) < coincidenceTol:
		status = "tangent"
		res.Step("d ≈ r, the line is tangent")
		points = append(points, Point{X: fx, Y: fy})
	case dist < c.R:
		status = "secant"
		res.Step("d < r, the line is a secant (two points)")
		half := math.Sqrt(c.R*c.R - dist*dist)
		dx := -l.B * half / denom
		dy := l.A * half / denom
		points = append(points,
			Point{X: fx + dx, Y: fy + dy},
			Point{X: fx - dx, Y: fy - dy})
	default:
		res.Step("d > r, no intersection")
	}
	for _, p := range points {
		res.Plot(plot.Point(p.X, p.Y, "", map[string]interface{}{"color": "#ef4444"}))
	}
	return res.Set("status", status).Set("points", points)
}

// CircleCircleIntersection classifies a pair of circles by the distance
// between their centers.
func (g *Geometry) CircleCircleIntersection(c1, c2 Circle) *result.Computation {
	const op = "circle_circle_intersection"
	if c1.R <= 0 || c2.R <= 0 {
		return result.Error(op, result.KindDomain, "circle radii must be positive")
	}
	d := math.Hypot(c2.X-c1.X, c2.Y-c1.Y)

	res := result.New(op).Set("distance", d)
	res.Step("Circle 1: center (%s, %s), radius %s",
		result.FormatNumber(c1.X), result.FormatNumber(c1.Y), result.FormatNumber(c1.R))
	res.Step("Circle 2: center (%s, %s), radius %s",
		result.FormatNumber(c2.X), result.FormatNumber(c2.Y), result.FormatNumber(c2.R))
	res.Step("Distance between centers d = %.4f", d)

	res.Plot(plot.Circle(c1.X, c1.Y, c1.R, "C₁", nil))
	res.Plot(plot.Circle(c2.X, c2.Y, c2.R, "C₂", nil))

	var status string
	var points []Point
	switch {
	case d > c1.R+c2.R+coincidenceTol:
		status = "disjoint_outside"
		res.Step("d > r₁ + r₂, the circles are separate")
	case d < math.Abs(c1.R-c2.R)-coincidenceTol:
		status = "disjoint_inside"
		res.Step("d < |r₁ - r₂|, one circle lies inside the other")
	case d < coincidenceTol && math.Abs(c1.R-c2.R) < coincidenceTol:
		status = "coincident"
		res.Step("Identical circles")
	default:
		a := (c1.R*c1.R - c2.R*c2.R + d*d) / (2 * d)
		h := math.Sqrt(math.Max(0, c1.R*c1.R-a*a))
		mx := c1.X + a*(c2.X-c1.X)/d
		my := c1.Y + a*(c2.Y-c1.Y)/d
		p1 := Point{X: mx + h*(c2.Y-c1.Y)/d, Y: my - h*(c2.X-c1.X)/d}
		p2 := Point{X: mx - h*(c2.Y-c1.Y)/d, Y: my + h*(c2.X-c1.X)/d}
		if math.Abs(d-(c1.R+c2.R)) < coincidenceTol || math.Abs(d-math.Abs(c1.R-c2.R)) < coincidenceTol {
			status = "tangent"
			res.Step("The circles touch at one point")
			points = append(points, p1)
		} else {
			status = "intersecting"
			res.Step("The circles intersect at two points")
			points = append(points, p1, p2)
		}
	}
	for _, p := range points {
		res.Plot(plot.Point(p.X, p.Y, "", map[string]interface{}{"color": "#ef4444"}))
	}
	return res.Set("status", status).Set("points", points)
}

// TangentFromPoint finds the tangent lines from an external point to a
// circle. The slopes come from a quadratic; a vertical tangent is detected
// separately since it has no slope.
func (g *Geometry) TangentFromPoint(p Point, c Circle) *result.Computation {
	const op = "tangent_from_point"
	if c.R <= 0 {
		return result.Error(op, result.KindDomain, "circle radius must be positive")
	}
	dist := math.Hypot(p.X-c.X, p.Y-c.Y)

	res := result.New(op)
	res.Step("Point P: (%s, %s)", result.FormatNumber(p.X), result.FormatNumber(p.Y))
	res.Step("Circle center (%s, %s), radius %s",
		result.FormatNumber(c.X), result.FormatNumber(c.Y), result.FormatNumber(c.R))
	res.Step("Distance PC = %.4f", dist)

	res.Plot(plot.Circle(c.X, c.Y, c.R, "", nil))
	res.Plot(plot.Point(p.X, p.Y, "P", nil))

	var tangents []Line
	var status string
	switch {
	case dist < c.R-coincidenceTol:
		status = "inside"
		res.Step("The point is inside the circle; no real tangents")
	case math.Abs(dist-c.R) < coincidenceTol:
		status = "on_circle"
		res.Step("The point is on the circle; one tangent")
		a := p.X - c.X
		b := p.Y - c.Y
		cc := -a*c.X - b*c.Y - c.R*c.R
		tangents = append(tangents, Line{A: a, B: b, C: cc})
		res.Step("Tangent at P: %.2fx + %.2fy + %.2f = 0", a, b, cc)
	default:
		status = "outside"
		res.Step("The point is outside the circle; two tangents")
		// slopes satisfy m²(dx²-r²) + 2m·dx·dy + (dy²-r²) = 0
		dx := c.X - p.X
		dy := p.Y - c.Y
		qa := dx*dx - c.R*c.R
		qb := 2 * dx * dy
		qc := dy*dy - c.R*c.R

		var slopes []float64
		if math.Abs(qa) < coincidenceTol {
			if math.Abs(qb) > coincidenceTol {
				slopes = append(slopes, -qc/qb)
			}
		} else if disc := qb*qb - 4*qa*qc; disc >= 0 {
			slopes = append(slopes,
				(-qb+math.Sqrt(disc))/(2*qa),
				(-qb-math.Sqrt(disc))/(2*qa))
		}
		// a vertical tangent x = px has no slope in the quadratic
		if len(slopes) < 2 && math.Abs(math.Abs(c.X-p.X)-c.R) < coincidenceTol {
			tangents = append(tangents, Line{A: 1, B: 0, C: -p.X})
			res.Step("Vertical tangent: x = %s", result.FormatNumber(p.X))
		}
		for _, m := range slopes {
			cv := p.Y - m*p.X
			tangents = append(tangents, Line{A: m, B: -1, C: cv})
			res.Step("Slope m ≈ %.4f, equation y = %.4fx + %.4f", m, m, cv)
		}
	}
	for _, t := range tangents {
		res.Plot(plot.Line(t.A, t.B, t.C, "", map[string]interface{}{"color": "#22c55e"}))
	}
	return res.Set("status", status).Set("tangents", tangents)
}
