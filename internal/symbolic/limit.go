package symbolic

import (
	"fmt"
	"math"
)

// Direction selects which side(s) a limit approaches from.
type Direction int

const (
	DirBoth Direction = iota
	DirRight
	DirLeft
)

func (d Direction) String() string {
	switch d {
	case DirRight:
		return "+"
	case DirLeft:
		return "-"
	}
	return "+/-"
}

// LimitKind classifies a limit outcome.
type LimitKind int

const (
	LimitFinite LimitKind = iota
	LimitPosInf
	LimitNegInf
	LimitDNE
)

// LimitValue is the outcome of a limit computation. Value is meaningful only
// for LimitFinite.
type LimitValue struct {
	Kind  LimitKind
	Value float64
}

func (lv LimitValue) String() string {
	switch lv.Kind {
	case LimitPosInf:
		return "oo"
	case LimitNegInf:
		return "-oo"
	case LimitDNE:
		return "does not exist"
	}
	return fmt.Sprintf("%g", lv.Value)
}

// Limit evaluates lim_{v→point} e. A finite point is first tried by direct
// substitution; indeterminate or singular points fall back to directional
// numeric probing with a shrinking step sequence. point may be ±Inf.
func Limit(e Expr, v string, point float64, dir Direction) (LimitValue, error) {
	e = e.Simplify()
	if math.IsInf(point, 0) {
		side := probeAtInfinity(e, v, point > 0)
		return side, nil
	}

	if dir == DirBoth {
		if val, err := EvalAt(e, map[string]float64{v: point}); err == nil && isFinite(val) {
			return LimitValue{Kind: LimitFinite, Value: val}, nil
		}
	}

	var left, right LimitValue
	if dir != DirLeft {
		right = probeSide(e, v, point, +1)
	}
	if dir != DirRight {
		left = probeSide(e, v, point, -1)
	}
	switch dir {
	case DirRight:
		return right, nil
	case DirLeft:
		return left, nil
	}
	return combineSides(left, right), nil
}

func combineSides(left, right LimitValue) LimitValue {
	if left.Kind != right.Kind {
		return LimitValue{Kind: LimitDNE}
	}
	if left.Kind != LimitFinite {
		return left
	}
	scale := math.Max(1, math.Max(math.Abs(left.Value), math.Abs(right.Value)))
	if math.Abs(left.Value-right.Value) > 1e-5*scale {
		return LimitValue{Kind: LimitDNE}
	}
	return LimitValue{Kind: LimitFinite, Value: (left.Value + right.Value) / 2}
}

// probeSide samples f(point + sign·h) for h = 1e-2 … 1e-8 and classifies the
// trend: convergence to a finite value, monotone blow-up to ±∞, or neither.
func probeSide(e Expr, v string, point float64, sign float64) LimitValue {
	var samples []float64
	h := 1e-2
	for i := 0; i < 7; i++ {
		val, err := EvalAt(e, map[string]float64{v: point + sign*h})
		if err == nil && !math.IsNaN(val) {
			samples = append(samples, val)
		}
		h /= 10
	}
	return classifySamples(samples)
}

func probeAtInfinity(e Expr, v string, positive bool) LimitValue {
	var samples []float64
	x := 1e2
	for i := 0; i < 6; i++ {
		at := x
		if !positive {
			at = -x
		}
		val, err := EvalAt(e, map[string]float64{v: at})
		if err == nil && !math.IsNaN(val) {
			samples = append(samples, val)
		}
		x *= 10
	}
	return classifySamples(samples)
}

func classifySamples(samples []float64) LimitValue {
	if len(samples) < 3 {
		return LimitValue{Kind: LimitDNE}
	}
	last := samples[len(samples)-1]
	prev := samples[len(samples)-2]

	// blow-up: magnitude keeps growing with a stable sign
	if math.IsInf(last, 0) || (math.Abs(last) > 1e6 && math.Abs(last) > 2*math.Abs(prev)) {
		posCount := 0
		for _, s := range samples[len(samples)-3:] {
			if s > 0 {
				posCount++
			}
		}
		switch {
		case last > 0 && posCount == 3:
			return LimitValue{Kind: LimitPosInf}
		case last < 0 && posCount == 0:
			return LimitValue{Kind: LimitNegInf}
		}
		return LimitValue{Kind: LimitDNE}
	}

	// convergence: successive differences shrink
	scale := math.Max(1, math.Abs(last))
	d1 := math.Abs(last - prev)
	d2 := math.Abs(prev - samples[len(samples)-3])
	if d1 <= d2+1e-12 && d1 < 1e-4*scale {
		return LimitValue{Kind: LimitFinite, Value: roundNear(last)}
	}
	return LimitValue{Kind: LimitDNE}
}

// roundNear snaps values that are within float-probe noise of a short
// decimal, so sin(x)/x at 0 reports 1 rather than 0.99999999998.
func roundNear(v float64) float64 {
	r := math.Round(v*1e6) / 1e6
	if math.Abs(v-r) < 1e-6*math.Max(1, math.Abs(v)) {
		return r
	}
	return v
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
