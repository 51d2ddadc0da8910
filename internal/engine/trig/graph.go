package trig

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/eduforge/mathcore/backend/internal/engine/plot"
	"github.com/eduforge/mathcore/backend/internal/engine/result"
)

// GraphParams are the amplitude/frequency/shift parameters of
// y = A·f(Bx - C) + D.
type GraphParams struct {
	A float64 `json:"A"`
	B float64 `json:"B"`
	C float64 `json:"C"`
	D float64 `json:"D"`
}

// Graph samples y = A·f(Bx - C) + D for one trigonometric or inverse
// trigonometric function. The tan/cot/sec/csc family is clipped near
// asymptotes and jumps are masked so they render as gaps.
func (t *Trig) Graph(funcType string, p GraphParams) *result.Computation {
	const op = "trig_graph"
	if p.A == 0 {
		p.A = 1
	}
	if p.B == 0 {
		p.B = 1
	}

	f, ok := graphFunc(funcType)
	if !ok {
		return result.Error(op, result.KindUnsupported, "unknown function %q", funcType)
	}

	lo, hi := t.graphDomain(funcType, p)
	xs := make([]float64, t.resolution)
	floats.Span(xs, lo, hi)
	ys := make([]float64, t.resolution)
	for i, x := range xs {
		ys[i] = p.A*f(p.B*x-p.C) + p.D
	}

	if funcType == "tan" || funcType == "cot" || funcType == "sec" || funcType == "csc" {
		plot.Clip(ys, t.asymptoteClip)
		plot.MaskJumps(ys, t.jumpThreshold)
	}

	label := graphLabel(funcType, p)
	res := result.New(op).
		Set("function", funcType).
		Set("domain", []float64{lo, hi}).
		Math("function", label)
	res.Step("Function: %s", label)
	res.Step("Amplitude |A| = %s, period scale B = %s",
		result.FormatNumber(math.Abs(p.A)), result.FormatNumber(p.B))
	res.Plot(plot.CurvePoints(xs, ys, funcType, map[string]interface{}{"color": "#8b5cf6"}))
	return res
}

// graphDomain picks the x range: the inverse functions get their natural
// domain (shifted and scaled), everything else gets two full periods of the
// base function.
func (t *Trig) graphDomain(funcType string, p GraphParams) (lo, hi float64) {
	switch funcType {
	case "atan":
		center := p.C / p.B
		width := 10 / math.Abs(p.B)
		return center - width/2, center + width/2
	case "asin", "acos":
		l1 := (p.C - 1) / p.B
		l2 := (p.C + 1) / p.B
		return math.Min(l1, l2), math.Max(l1, l2)
	default:
		return -2 * math.Pi, 2 * math.Pi
	}
}

func graphFunc(funcType string) (func(float64) float64, bool) {
	switch funcType {
	case "sin":
		return math.Sin, true
	case "cos":
		return math.Cos, true
	case "tan":
		return math.Tan, true
	case "cot":
		return func(u float64) float64 {
			tan := math.Tan(u)
			if math.Abs(tan) < 1e-9 {
				return math.NaN()
			}
			return 1 / tan
		}, true
	case "sec":
		return func(u float64) float64 { return 1 / math.Cos(u) }, true
	case "csc":
		return func(u float64) float64 { return 1 / math.Sin(u) }, true
	case "asin":
		return math.Asin, true
	case "acos":
		return math.Acos, true
	case "atan":
		return math.Atan, true
	}
	return nil, false
}

// graphLabel renders y = A·f(Bx - C) + D, dropping unit and zero
// parameters.
func graphLabel(funcType string, p GraphParams) string {
	var sb strings.Builder
	sb.WriteString("y = ")
	if p.A != 1 {
		sb.WriteString(result.FormatNumber(p.A) + " ")
	}
	sb.WriteString(`\` + funcType + "(")
	if p.B != 1 {
		sb.WriteString(result.FormatNumber(p.B))
	}
	sb.WriteString("x")
	if p.C != 0 {
		if p.C > 0 {
			sb.WriteString(" - " + result.FormatNumber(p.C))
		} else {
			sb.WriteString(" + " + result.FormatNumber(-p.C))
		}
	}
	sb.WriteString(")")
	if p.D != 0 {
		if p.D > 0 {
			sb.WriteString(fmt.Sprintf(" + %s", result.FormatNumber(p.D)))
		} else {
			sb.WriteString(fmt.Sprintf(" - %s", result.FormatNumber(-p.D)))
		}
	}
	return sb.String()
}
