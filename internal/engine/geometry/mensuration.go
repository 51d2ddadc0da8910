package geometry

import (
	"math"

	"github.com/eduforge/mathcore/backend/internal/engine/plot"
	"github.com/eduforge/mathcore/backend/internal/engine/result"
)

// meshSteps is the sample count per parameter for conicoid surface meshes.
const meshSteps = 20

// Heron computes a triangle area from its three side lengths.
func (g *Geometry) Heron(a, b, c float64) *result.Computation {
	const op = "heron"
	if a <= 0 || b <= 0 || c <= 0 {
		return result.Error(op, result.KindDomain, "side lengths must be positive")
	}
	s := (a + b + c) / 2
	areaSq := s * (s - a) * (s - b) * (s - c)
	if areaSq < 0 {
		return result.Error(op, result.KindDomain,
			"the given sides do not form a valid triangle (triangle inequality violated)")
	}
	area := math.Sqrt(areaSq)

	res := result.New(op).
		Set("area", area).
		Set("s", s).
		Math("formula", `\text{Area} = \sqrt{s(s-a)(s-b)(s-c)}`).
		Math("result", result.FormatNumber(area))
	res.Step("Sides: a = %s, b = %s, c = %s",
		result.FormatNumber(a), result.FormatNumber(b), result.FormatNumber(c))
	res.Step("Semi-perimeter s = (a + b + c) / 2 = %s", result.FormatNumber(s))
	res.Step("Area = √[s(s-a)(s-b)(s-c)]")
	res.Step("Area = √[%s] = %s", result.FormatNumber(areaSq), result.FormatNumber(area))
	return res
}

// Solid computes volume and surface areas for the standard solids.
// Shapes: cube, cuboid, cylinder, cone, sphere, hemisphere.
func (g *Geometry) Solid(shape string, params map[string]float64) *result.Computation {
	const op = "solid"
	get := func(key string) float64 { return params[key] }

	res := result.New(op).Set("shape", shape)
	switch shape {
	case "cube":
		a := get("side")
		if a <= 0 {
			return result.Error(op, result.KindDomain, "side must be positive")
		}
		vol, tsa, lsa := a*a*a, 6*a*a, 4*a*a
		res.Set("volume", vol).Set("tsa", tsa).Set("lsa", lsa)
		res.Step("Side a = %s", result.FormatNumber(a))
		res.Step("Volume = a³ = %s", result.FormatNumber(vol))
		res.Step("Total surface area = 6a² = %s", result.FormatNumber(tsa))
		res.Step("Lateral surface area = 4a² = %s", result.FormatNumber(lsa))
		res.Math("volume", "V = a^3 = "+result.FormatNumber(vol))

	case "cuboid":
		l, b, h := get("l"), get("b"), get("h")
		if l <= 0 || b <= 0 || h <= 0 {
			return result.Error(op, result.KindDomain, "dimensions must be positive")
		}
		vol := l * b * h
		tsa := 2 * (l*b + b*h + h*l)
		lsa := 2 * h * (l + b)
		res.Set("volume", vol).Set("tsa", tsa).Set("lsa", lsa)
		res.Step("Dimensions: l=%s, b=%s, h=%s",
			result.FormatNumber(l), result.FormatNumber(b), result.FormatNumber(h))
		res.Step("Volume = lbh = %s", result.FormatNumber(vol))
		res.Step("TSA = 2(lb + bh + hl) = %s", result.FormatNumber(tsa))
		res.Step("LSA = 2h(l + b) = %s", result.FormatNumber(lsa))
		res.Math("volume", "V = lbh = "+result.FormatNumber(vol))

	case "cylinder":
		r, h := get("r"), get("h")
		if r <= 0 || h <= 0 {
			return result.Error(op, result.KindDomain, "radius and height must be positive")
		}
		vol := math.Pi * r * r * h
		csa := 2 * math.Pi * r * h
		tsa := 2 * math.Pi * r * (r + h)
		res.Set("volume", vol).Set("csa", csa).Set("tsa", tsa)
		res.Step("Radius r=%s, height h=%s", result.FormatNumber(r), result.FormatNumber(h))
		res.Step("Volume = πr²h ≈ %.4f", vol)
		res.Step("Curved SA = 2πrh ≈ %.4f", csa)
		res.Step("Total SA = 2πr(r+h) ≈ %.4f", tsa)
		res.Math("volume", `V = \pi r^2 h \approx `+result.FormatNumber(vol))

	case "cone":
		r, h := get("r"), get("h")
		if r <= 0 || h <= 0 {
			return result.Error(op, result.KindDomain, "radius and height must be positive")
		}
		l := math.Hypot(r, h)
		vol := math.Pi * r * r * h / 3
		csa := math.Pi * r * l
		tsa := math.Pi * r * (r + l)
		res.Set("volume", vol).Set("csa", csa).Set("tsa", tsa).Set("slant_height", l)
		res.Step("Radius r=%s, height h=%s", result.FormatNumber(r), result.FormatNumber(h))
		res.Step("Slant height l = √(r² + h²) = %.4f", l)
		res.Step("Volume = (1/3)πr²h ≈ %.4f", vol)
		res.Step("Curved SA = πrl ≈ %.4f", csa)
		res.Step("Total SA = πr(r+l) ≈ %.4f", tsa)
		res.Math("volume", `V = \frac{1}{3}\pi r^2 h \approx `+result.FormatNumber(vol))

	case "sphere":
		r := get("r")
		if r <= 0 {
			return result.Error(op, result.KindDomain, "radius must be positive")
		}
		vol := 4 * math.Pi * r * r * r / 3
		tsa := 4 * math.Pi * r * r
		res.Set("volume", vol).Set("tsa", tsa)
		res.Step("Radius r=%s", result.FormatNumber(r))
		res.Step("Volume = (4/3)πr³ ≈ %.4f", vol)
		res.Step("Surface area = 4πr² ≈ %.4f", tsa)
		res.Math("volume", `V = \frac{4}{3}\pi r^3 \approx `+result.FormatNumber(vol))

	case "hemisphere":
		r := get("r")
		if r <= 0 {
			return result.Error(op, result.KindDomain, "radius must be positive")
		}
		vol := 2 * math.Pi * r * r * r / 3
		csa := 2 * math.Pi * r * r
		tsa := 3 * math.Pi * r * r
		res.Set("volume", vol).Set("csa", csa).Set("tsa", tsa)
		res.Step("Radius r=%s", result.FormatNumber(r))
		res.Step("Volume = (2/3)πr³ ≈ %.4f", vol)
		res.Step("Curved SA = 2πr² ≈ %.4f", csa)
		res.Step("Total SA = 3πr² ≈ %.4f", tsa)
		res.Math("volume", `V = \frac{2}{3}\pi r^3 \approx `+result.FormatNumber(vol))

	default:
		return result.Error(op, result.KindUnsupported, "unknown shape %q", shape)
	}
	return res
}

// Conicoid generates a surface mesh for a quadric surface.
// Shapes: sphere, ellipsoid, cone, cylinder, hyperboloid1, hyperboloid2,
// paraboloid.
func (g *Geometry) Conicoid(shape string, params map[string]float64) *result.Computation {
	const op = "conicoid"
	get := func(key string, def float64) float64 {
		if v, ok := params[key]; ok {
			return v
		}
		return def
	}

	res := result.New(op).Set("shape", shape)
	switch shape {
	case "sphere":
		cx, cy, cz := get("cx", 0), get("cy", 0), get("cz", 0)
		r := get("r", 1)
		res.Step("Center C: (%s, %s, %s)",
			result.FormatNumber(cx), result.FormatNumber(cy), result.FormatNumber(cz))
		res.Step("Radius r: %s", result.FormatNumber(r))
		res.Math("equation", `(x-`+result.FormatNumber(cx)+`)^2 + (y-`+result.FormatNumber(cy)+
			`)^2 + (z-`+result.FormatNumber(cz)+`)^2 = `+result.FormatNumber(r)+`^2`)
		xs, ys, zs := sphericalMesh(func(sinPhi, cosPhi, sinTheta, cosTheta float64) (float64, float64, float64) {
			return cx + r*sinPhi*cosTheta, cy + r*sinPhi*sinTheta, cz + r*cosPhi
		})
		res.Plot(plot.Surface(xs, ys, zs, "Sphere", map[string]interface{}{"opacity": 0.8}))

	case "ellipsoid":
		cx, cy, cz := get("cx", 0), get("cy", 0), get("cz", 0)
		a, b, c := get("a", 1), get("b", 1), get("c", 1)
		res.Step("Center C: (%s, %s, %s)",
			result.FormatNumber(cx), result.FormatNumber(cy), result.FormatNumber(cz))
		res.Step("Semi-axes: a=%s, b=%s, c=%s",
			result.FormatNumber(a), result.FormatNumber(b), result.FormatNumber(c))
		res.Math("equation", `\frac{(x-`+result.FormatNumber(cx)+`)^2}{`+result.FormatNumber(a)+
			`^2} + \frac{(y-`+result.FormatNumber(cy)+`)^2}{`+result.FormatNumber(b)+
			`^2} + \frac{(z-`+result.FormatNumber(cz)+`)^2}{`+result.FormatNumber(c)+`^2} = 1`)
		xs, ys, zs := sphericalMesh(func(sinPhi, cosPhi, sinTheta, cosTheta float64) (float64, float64, float64) {
			return cx + a*sinPhi*cosTheta, cy + b*sinPhi*sinTheta, cz + c*cosPhi
		})
		res.Plot(plot.Surface(xs, ys, zs, "Ellipsoid", map[string]interface{}{"opacity": 0.8}))

	case "cone":
		r, h := get("r", 1), get("h", 1)
		if h == 0 {
			return result.Error(op, result.KindDomain, "height must be nonzero")
		}
		res.Step("Cone: r=%s, h=%s", result.FormatNumber(r), result.FormatNumber(h))
		xs, ys, zs := cylindricalMesh(0, h, func(v, sinU, cosU float64) (float64, float64, float64) {
			return (r / h) * v * cosU, (r / h) * v * sinU, v
		})
		res.Plot(plot.Surface(xs, ys, zs, "Cone", map[string]interface{}{"opacity": 0.8}))

	case "cylinder":
		r, h := get("r", 1), get("h", 5)
		res.Step("Cylinder: r=%s, h=%s", result.FormatNumber(r), result.FormatNumber(h))
		res.Math("equation", `x^2 + y^2 = `+result.FormatNumber(r)+`^2`)
		xs, ys, zs := cylindricalMesh(0, h, func(v, sinU, cosU float64) (float64, float64, float64) {
			return r * cosU, r * sinU, v
		})
		res.Plot(plot.Surface(xs, ys, zs, "Cylinder", map[string]interface{}{"opacity": 0.8}))

	case "hyperboloid1":
		a, b, c := get("a", 1), get("b", 1), get("c", 1)
		res.Step("Hyperboloid of one sheet")
		res.Math("equation", `\frac{x^2}{`+result.FormatNumber(a)+`^2} + \frac{y^2}{`+
			result.FormatNumber(b)+`^2} - \frac{z^2}{`+result.FormatNumber(c)+`^2} = 1`)
		xs, ys, zs := cylindricalMesh(-2, 2, func(v, sinU, cosU float64) (float64, float64, float64) {
			return a * math.Cosh(v) * cosU, b * math.Cosh(v) * sinU, c * math.Sinh(v)
		})
		res.Plot(plot.Surface(xs, ys, zs, "Hyperboloid (1 sheet)", map[string]interface{}{"opacity": 0.8}))

	case "hyperboloid2":
		a, b, c := get("a", 1), get("b", 1), get("c", 1)
		res.Step("Hyperboloid of two sheets")
		res.Math("equation", `-\frac{x^2}{`+result.FormatNumber(a)+`^2} - \frac{y^2}{`+
			result.FormatNumber(b)+`^2} + \frac{z^2}{`+result.FormatNumber(c)+`^2} = 1`)
		xs, ys, zs := cylindricalMesh(0, 2, func(v, sinU, cosU float64) (float64, float64, float64) {
			return a * math.Sinh(v) * cosU, b * math.Sinh(v) * sinU, c * math.Cosh(v)
		})
		res.Plot(plot.Surface(xs, ys, zs, "Top sheet", nil))
		flipped := make([][]float64, len(zs))
		for i, row := range zs {
			flipped[i] = make([]float64, len(row))
			for j, z := range row {
				flipped[i][j] = -z
			}
		}
		res.Plot(plot.Surface(xs, ys, flipped, "Bottom sheet", nil))

	case "paraboloid":
		a, b := get("a", 1), get("b", 1)
		res.Step("Elliptic paraboloid")
		res.Math("equation", `\frac{x^2}{`+result.FormatNumber(a)+`^2} + \frac{y^2}{`+
			result.FormatNumber(b)+`^2} = z`)
		xs, ys, zs := cylindricalMesh(0, 2, func(v, sinU, cosU float64) (float64, float64, float64) {
			return a * v * cosU, b * v * sinU, v * v
		})
		res.Plot(plot.Surface(xs, ys, zs, "Paraboloid", map[string]interface{}{"opacity": 0.8}))

	default:
		return result.Error(op, result.KindUnsupported, "unknown shape %q", shape)
	}
	return res
}

// sphericalMesh samples a surface parameterized by polar angle φ ∈ [0, π]
// and azimuth θ ∈ [0, 2π].
func sphericalMesh(f func(sinPhi, cosPhi, sinTheta, cosTheta float64) (x, y, z float64)) (xs, ys, zs [][]float64) {
	xs = make([][]float64, meshSteps)
	ys = make([][]float64, meshSteps)
	zs = make([][]float64, meshSteps)
	for i := 0; i < meshSteps; i++ {
		phi := math.Pi * float64(i) / (meshSteps - 1)
		sinPhi, cosPhi := math.Sincos(phi)
		xs[i] = make([]float64, meshSteps)
		ys[i] = make([]float64, meshSteps)
		zs[i] = make([]float64, meshSteps)
		for j := 0; j < meshSteps; j++ {
			theta := 2 * math.Pi * float64(j) / (meshSteps - 1)
			sinTheta, cosTheta := math.Sincos(theta)
			xs[i][j], ys[i][j], zs[i][j] = f(sinPhi, cosPhi, sinTheta, cosTheta)
		}
	}
	return xs, ys, zs
}

// cylindricalMesh samples a surface parameterized by height v ∈ [lo, hi]
// and azimuth u ∈ [0, 2π].
func cylindricalMesh(lo, hi float64, f func(v, sinU, cosU float64) (x, y, z float64)) (xs, ys, zs [][]float64) {
	xs = make([][]float64, meshSteps)
	ys = make([][]float64, meshSteps)
	zs = make([][]float64, meshSteps)
	for i := 0; i < meshSteps; i++ {
		v := lo + (hi-lo)*float64(i)/(meshSteps-1)
		xs[i] = make([]float64, meshSteps)
		ys[i] = make([]float64, meshSteps)
		zs[i] = make([]float64, meshSteps)
		for j := 0; j < meshSteps; j++ {
			u := 2 * math.Pi * float64(j) / (meshSteps - 1)
			sinU, cosU := math.Sincos(u)
			xs[i][j], ys[i][j], zs[i][j] = f(v, sinU, cosU)
		}
	}
	return xs, ys, zs
}
