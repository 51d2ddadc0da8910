// Package plot samples functions into plot elements and applies the
// masking rules that keep asymptotes from being drawn as vertical lines.
package plot

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/eduforge/mathcore/backend/internal/engine/result"
)

// DefaultResolution is the sample count used when a request does not set
// one.
const DefaultResolution = 500

// Sample evaluates f over [lo, hi] at n evenly spaced points. Evaluation
// failures and non-finite values record NaN so downstream masking and
// filtering see the gap.
func Sample(f func(float64) (float64, error), lo, hi float64, n int) (xs, ys []float64) {
	if n < 2 {
		n = 2
	}
	xs = make([]float64, n)
	floats.Span(xs, lo, hi)
	ys = make([]float64, n)
	for i, x := range xs {
		v, err := f(x)
		if err != nil || math.IsInf(v, 0) {
			ys[i] = math.NaN()
			continue
		}
		ys[i] = v
	}
	return xs, ys
}

// Clip replaces samples whose magnitude exceeds limit with NaN. Used for
// the tan/cot/sec/csc family where values race to infinity near asymptotes.
func Clip(ys []float64, limit float64) {
	for i, y := range ys {
		if math.Abs(y) > limit {
			ys[i] = math.NaN()
		}
	}
}

// MaskJumps blanks both samples around any jump larger than threshold, so a
// discontinuity renders as a gap instead of a near-vertical segment.
func MaskJumps(ys []float64, threshold float64) {
	jump := make([]bool, len(ys))
	for i := 1; i < len(ys); i++ {
		a, b := ys[i-1], ys[i]
		if math.IsNaN(a) || math.IsNaN(b) {
			continue
		}
		if math.Abs(b-a) > threshold {
			jump[i-1] = true
			jump[i] = true
		}
	}
	for i, j := range jump {
		if j {
			ys[i] = math.NaN()
		}
	}
}

// FilterFinite drops sample pairs whose y is non-finite, returning parallel
// slices that contain only drawable points.
func FilterFinite(xs, ys []float64) (fx, fy []float64) {
	fx = make([]float64, 0, len(xs))
	fy = make([]float64, 0, len(ys))
	for i := range xs {
		if math.IsNaN(ys[i]) || math.IsInf(ys[i], 0) {
			continue
		}
		fx = append(fx, xs[i])
		fy = append(fy, ys[i])
	}
	return fx, fy
}

// Curve builds a curve element from parallel coordinate slices. NaN gaps
// are preserved: clients break the stroke at null samples.
func Curve(xs, ys []float64, label string, style map[string]interface{}) result.PlotElement {
	y := make([]interface{}, len(ys))
	for i, v := range ys {
		if math.IsNaN(v) {
			y[i] = nil
		} else {
			y[i] = v
		}
	}
	return result.PlotElement{
		Type: "curve",
		Data: map[string]interface{}{
			"x":     xs,
			"y":     y,
			"label": label,
		},
		Style: styleOrEmpty(style),
	}
}

// CurvePoints builds a curve element as coordinate pairs, dropping
// non-finite samples entirely rather than keeping gap markers.
func CurvePoints(xs, ys []float64, label string, style map[string]interface{}) result.PlotElement {
	fx, fy := FilterFinite(xs, ys)
	points := make([][2]float64, len(fx))
	for i := range fx {
		points[i] = [2]float64{fx[i], fy[i]}
	}
	return result.PlotElement{
		Type:  "curve",
		Data:  map[string]interface{}{"points": points, "label": label},
		Style: styleOrEmpty(style),
	}
}

// Area builds a filled region between the sampled curve and a baseline.
func Area(xs, ys []float64, baseline float64, style map[string]interface{}) result.PlotElement {
	fx, fy := FilterFinite(xs, ys)
	points := make([][2]float64, len(fx))
	for i := range fx {
		points[i] = [2]float64{fx[i], fy[i]}
	}
	return result.PlotElement{
		Type:  "area",
		Data:  map[string]interface{}{"points": points, "baseline": baseline},
		Style: styleOrEmpty(style),
	}
}

// Point builds a labeled point element.
func Point(x, y float64, label string, style map[string]interface{}) result.PlotElement {
	return result.PlotElement{
		Type:  "point",
		Data:  map[string]interface{}{"x": x, "y": y, "label": label},
		Style: styleOrEmpty(style),
	}
}

// Segment builds a line segment between two points.
func Segment(x1, y1, x2, y2 float64, label string, style map[string]interface{}) result.PlotElement {
	return result.PlotElement{
		Type: "segment",
		Data: map[string]interface{}{
			"x1": x1, "y1": y1, "x2": x2, "y2": y2, "label": label,
		},
		Style: styleOrEmpty(style),
	}
}

// Line builds an infinite line in ax + by + c = 0 form.
func Line(a, b, c float64, label string, style map[string]interface{}) result.PlotElement {
	return result.PlotElement{
		Type: "line",
		Data: map[string]interface{}{
			"a": a, "b": b, "c": c, "label": label,
		},
		Style: styleOrEmpty(style),
	}
}

// Circle builds a circle element.
func Circle(cx, cy, r float64, label string, style map[string]interface{}) result.PlotElement {
	return result.PlotElement{
		Type: "circle",
		Data: map[string]interface{}{
			"cx": cx, "cy": cy, "r": r, "label": label,
		},
		Style: styleOrEmpty(style),
	}
}

// Polygon builds a closed polygon from vertex coordinate pairs.
func Polygon(points [][2]float64, label string, style map[string]interface{}) result.PlotElement {
	verts := make([]map[string]float64, len(points))
	for i, p := range points {
		verts[i] = map[string]float64{"x": p[0], "y": p[1]}
	}
	return result.PlotElement{
		Type:  "polygon",
		Data:  map[string]interface{}{"vertices": verts, "label": label},
		Style: styleOrEmpty(style),
	}
}

// Arrow builds a vector arrow from the origin point to the tip.
func Arrow(x1, y1, x2, y2 float64, label string, style map[string]interface{}) result.PlotElement {
	return result.PlotElement{
		Type: "arrow",
		Data: map[string]interface{}{
			"x1": x1, "y1": y1, "x2": x2, "y2": y2, "label": label,
		},
		Style: styleOrEmpty(style),
	}
}

// Scatter builds a point cloud from parallel coordinate slices.
func Scatter(xs, ys []float64, label string, style map[string]interface{}) result.PlotElement {
	return result.PlotElement{
		Type:  "scatter",
		Data:  map[string]interface{}{"x": xs, "y": ys, "label": label},
		Style: styleOrEmpty(style),
	}
}

// Surface builds a 3D surface mesh from a grid of coordinates.
func Surface(xs, ys, zs [][]float64, label string, style map[string]interface{}) result.PlotElement {
	return result.PlotElement{
		Type:  "surface",
		Data:  map[string]interface{}{"x": xs, "y": ys, "z": zs, "label": label},
		Style: styleOrEmpty(style),
	}
}

func styleOrEmpty(style map[string]interface{}) map[string]interface{} {
	if style == nil {
		return map[string]interface{}{}
	}
	return style
}
