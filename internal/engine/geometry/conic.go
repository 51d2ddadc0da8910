package geometry

import (
	"math"

	"github.com/eduforge/mathcore/backend/internal/engine/result"
)

// ConicCoeffs are the coefficients of the general second-degree equation
// Ax² + Bxy + Cy² + Dx + Ey + F = 0.
type ConicCoeffs struct {
	A float64 `json:"A"`
	B float64 `json:"B"`
	C float64 `json:"C"`
	D float64 `json:"D"`
	E float64 `json:"E"`
	F float64 `json:"F"`
}

// ConicClassify names the conic by its invariants: the 3x3 determinant Δ
// decides degeneracy, then the discriminant h²-ab separates hyperbola,
// parabola, and ellipse.
func (g *Geometry) ConicClassify(k ConicCoeffs) *result.Computation {
	const op = "conic_classify"
	if k.A == 0 && k.B == 0 && k.C == 0 {
		return result.Error(op, result.KindDomain,
			"not a second-degree equation (A = B = C = 0)")
	}

	a, b, c := k.A, k.C, k.F
	h, gg, f := k.B/2, k.D/2, k.E/2

	delta := a*(b*c-f*f) - h*(h*c-f*gg) + gg*(h*f-b*gg)
	disc := h*h - a*b

	var conicType string
	switch {
	case math.Abs(delta) < coincidenceTol:
		conicType = "Degenerate Conic (pair of lines or a point)"
	case disc > coincidenceTol:
		conicType = "Hyperbola"
	case math.Abs(disc) < coincidenceTol:
		conicType = "Parabola"
	case a == b && h == 0:
		conicType = "Circle"
	default:
		conicType = "Ellipse"
	}

	res := result.New(op).
		Set("type", conicType).
		Set("determinant", delta).
		Set("discriminant", disc).
		Math("type", `\text{`+conicType+`}`)
	res.Step("Equation: %sx² + %sxy + %sy² + %sx + %sy + %s = 0",
		result.FormatNumber(k.A), result.FormatNumber(k.B), result.FormatNumber(k.C),
		result.FormatNumber(k.D), result.FormatNumber(k.E), result.FormatNumber(k.F))
	res.Step("Determinant Δ = %s", result.FormatNumber(delta))
	res.Step("Discriminant h² - ab = %s", result.FormatNumber(disc))
	res.Step("Classification: %s", conicType)
	return res
}

// Transform2D applies one rigid or affine transformation to a point.
// Operations: rotate, reflect, translate, scale.
func (g *Geometry) Transform2D(p Point, operation string, params map[string]float64) *result.Computation {
	const op = "transform_2d"
	res := result.New(op)
	res.Step("Original point P: (%s, %s)", result.FormatNumber(p.X), result.FormatNumber(p.Y))

	get := func(key string, def float64) float64 {
		if v, ok := params[key]; ok {
			return v
		}
		return def
	}

	var nx, ny float64
	switch operation {
	case "rotate":
		cx, cy := get("cx", 0), get("cy", 0)
		deg := get("angle", 0)
		rad := deg * math.Pi / 180
		s, c := math.Sincos(rad)
		tx, ty := p.X-cx, p.Y-cy
		nx = tx*c - ty*s + cx
		ny = tx*s + ty*c + cy
		res.Step("Center of rotation: (%s, %s)", result.FormatNumber(cx), result.FormatNumber(cy))
		res.Step("Angle: %s°", result.FormatNumber(deg))
		res.Step("x' = (x-cx)cosθ - (y-cy)sinθ + cx")
		res.Step("y' = (x-cx)sinθ + (y-cy)cosθ + cy")

	case "reflect":
		a, b, c := get("a", 0), get("b", 0), get("c", 0)
		denom := a*a + b*b
		if denom == 0 {
			return result.Error(op, result.KindDomain, "invalid reflection line (a = b = 0)")
		}
		factor := (a*p.X + b*p.Y + c) / denom
		nx = p.X - 2*a*factor
		ny = p.Y - 2*b*factor
		res.Step("Line of reflection: %sx + %sy + %s = 0",
			result.FormatNumber(a), result.FormatNumber(b), result.FormatNumber(c))

	case "translate":
		dx, dy := get("dx", 0), get("dy", 0)
		nx, ny = p.X+dx, p.Y+dy
		res.Step("Translation vector: <%s, %s>", result.FormatNumber(dx), result.FormatNumber(dy))

	case "scale":
		cx, cy := get("cx", 0), get("cy", 0)
		k := get("factor", 1)
		nx = cx + k*(p.X-cx)
		ny = cy + k*(p.Y-cy)
		res.Step("Center (%s, %s), factor k = %s",
			result.FormatNumber(cx), result.FormatNumber(cy), result.FormatNumber(k))
		res.Step("P' = C + k(P - C)")

	default:
		return result.Error(op, result.KindUnsupported,
			"unknown transformation %q (want rotate, reflect, translate, or scale)", operation)
	}

	res.Step("Transformed point P': (%.4f, %.4f)", nx, ny)
	res.Set("point", Point{X: nx, Y: ny})
	res.Math("result", "("+result.FormatNumber(nx)+", "+result.FormatNumber(ny)+")")
	return res
}
