// Package trig implements trigonometric values, unit-circle visualization,
// periodic graphs, identities, and equation solving.
package trig

import (
	"math"
	"strings"

	"github.com/eduforge/mathcore/backend/internal/config"
	"github.com/eduforge/mathcore/backend/internal/engine/plot"
	"github.com/eduforge/mathcore/backend/internal/engine/result"
	"github.com/eduforge/mathcore/backend/internal/logging"
	"github.com/eduforge/mathcore/backend/internal/symbolic"
)

// Trig exposes the trigonometry operations.
type Trig struct {
	log           *logging.Logger
	resolution    int
	asymptoteClip float64
	jumpThreshold float64
}

// New creates the trigonometry module.
func New(log *logging.Logger, cfg config.EngineConfig) *Trig {
	res := cfg.PlotResolution
	if res <= 0 {
		res = plot.DefaultResolution
	}
	clip := cfg.AsymptoteClip
	if clip <= 0 {
		clip = 20
	}
	jump := cfg.JumpThreshold
	if jump <= 0 {
		jump = 10
	}
	return &Trig{
		log:           log.WithDomain("trig"),
		resolution:    res,
		asymptoteClip: clip,
		jumpThreshold: jump,
	}
}

// ratio is one trigonometric ratio: an exact rendering plus the float
// approximation. Approx is nil when the ratio is undefined at the angle.
type ratio struct {
	Exact  string   `json:"exact"`
	Approx *float64 `json:"approx"`
}

// Values computes all six trigonometric ratios for one angle. The angle is
// read as degrees unless it mentions pi, in which case it is radians.
// Special angles (multiples of 30 and 45 degrees) get exact surd forms.
func (t *Trig) Values(angle string) *result.Computation {
	const op = "trig_values"
	deg, rad, err := parseAngle(angle)
	if err != nil {
		return result.Error(op, result.KindParse, "%v", err)
	}

	res := result.New(op).
		Set("angle_deg", deg).
		Set("angle_rad", rad).
		Math("angle", result.FormatNumber(deg)+`^\circ`)
	res.Step("Angle: %s° = %s rad", result.FormatNumber(deg), result.FormatNumber(rad))

	sin, cos := math.Sincos(rad)
	// float cos(π/2) is ~6e-17, so undefined ratios are detected from the
	// degree measure, not the float value
	sinZero := onGrid(deg, 180, 0)
	cosZero := onGrid(deg, 180, 90)
	ratios := map[string]ratio{
		"sin": makeRatio("sin", deg, sin, true),
		"cos": makeRatio("cos", deg, cos, true),
		"tan": makeRatio("tan", deg, sin/cos, !cosZero),
		"cot": makeRatio("cot", deg, cos/sin, !sinZero),
		"sec": makeRatio("sec", deg, 1/cos, !cosZero),
		"csc": makeRatio("csc", deg, 1/sin, !sinZero),
	}
	res.Set("ratios", ratios)
	for _, name := range []string{"sin", "cos", "tan", "cot", "sec", "csc"} {
		r := ratios[name]
		if r.Approx == nil {
			res.Step("%s(θ) is undefined", name)
			continue
		}
		res.Step("%s(θ) = %s", name, result.FormatNumber(*r.Approx))
	}

	res.Plot(plot.Circle(0, 0, 1, "Unit circle", map[string]interface{}{"color": "#3b82f6"}))
	res.Plot(plot.Segment(0, 0, cos, sin, "Angle", map[string]interface{}{"color": "#ef4444", "width": 2}))
	res.Plot(plot.Point(cos, sin, "P", map[string]interface{}{"color": "#ef4444", "size": 6}))
	return res
}

// UnitCircle builds the full unit-circle picture for one angle in degrees:
// the circle, the radius, the sine and cosine projections, and (away from
// the vertical asymptote) the tangent and secant construction lines.
func (t *Trig) UnitCircle(angleDeg float64) *result.Computation {
	const op = "unit_circle"
	rad := angleDeg * math.Pi / 180
	sin, cos := math.Sincos(rad)

	res := result.New(op).
		Set("angle_rad", rad).
		Math("coordinates", `(\cos `+result.FormatNumber(angleDeg)+`^\circ, \sin `+
			result.FormatNumber(angleDeg)+`^\circ)`)
	res.Step("Angle θ = %s°", result.FormatNumber(angleDeg))
	res.Step("Coordinates P(x, y) = (cos θ, sin θ)")
	res.Step("P = (%.4f, %.4f)", cos, sin)

	ratios := map[string]interface{}{"sin": sin, "cos": cos}
	if math.Abs(cos) > 1e-9 {
		ratios["tan"] = math.Tan(rad)
	} else {
		ratios["tan"] = nil
	}
	res.Set("ratios", ratios)

	const n = 100
	cx := make([]float64, n)
	cy := make([]float64, n)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / (n - 1)
		cx[i], cy[i] = math.Cos(a), math.Sin(a)
	}
	res.Plot(plot.CurvePoints(cx, cy, "Unit circle", map[string]interface{}{"color": "#e5e7eb"}))
	res.Plot(plot.Segment(0, 0, cos, sin, "Angle", map[string]interface{}{"color": "#3b82f6", "width": 3}))
	res.Plot(plot.Segment(cos, 0, cos, sin, "sin(θ)", map[string]interface{}{"color": "#ef4444", "dash": "dash"}))
	res.Plot(plot.Segment(0, 0, cos, 0, "cos(θ)", map[string]interface{}{"color": "#10b981", "dash": "dash"}))

	if math.Abs(cos) > 0.01 {
		tan := math.Tan(rad)
		if math.Abs(tan) < 5 {
			res.Plot(plot.Segment(1, 0, 1, tan, "tan(θ)", map[string]interface{}{"color": "#f59e0b"}))
			res.Plot(plot.Segment(0, 0, 1, tan, "sec(θ)", map[string]interface{}{"color": "#8b5cf6", "dash": "dot"}))
		}
	}
	return res
}

// parseAngle reads an angle string. A mention of pi means radians;
// otherwise the number is degrees. The expression must be constant.
func parseAngle(s string) (deg, rad float64, err error) {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.ReplaceAll(s, "π", "pi")
	e, err := symbolic.Parse(s)
	if err != nil {
		return 0, 0, err
	}
	v, err := symbolic.EvalAt(e, nil)
	if err != nil {
		return 0, 0, err
	}
	if strings.Contains(s, "pi") {
		return v * 180 / math.Pi, v, nil
	}
	return v, v * math.Pi / 180, nil
}

// onGrid reports whether deg ≡ offset (mod period) within float tolerance.
func onGrid(deg, period, offset float64) bool {
	r := math.Mod(deg-offset, period)
	if r < 0 {
		r += period
	}
	return r < 1e-9 || period-r < 1e-9
}

// quadrant sign table indexed by quadrant 1..4.
var positiveIn = map[string][4]bool{
	"sin": {true, true, false, false},
	"csc": {true, true, false, false},
	"cos": {true, false, false, true},
	"sec": {true, false, false, true},
	"tan": {true, false, true, false},
	"cot": {true, false, true, false},
}

// exact surd forms at the reference angles.
var exactTable = map[string]map[int]string{
	"sin": {0: "0", 30: `\frac{1}{2}`, 45: `\frac{\sqrt{2}}{2}`, 60: `\frac{\sqrt{3}}{2}`, 90: "1"},
	"cos": {0: "1", 30: `\frac{\sqrt{3}}{2}`, 45: `\frac{\sqrt{2}}{2}`, 60: `\frac{1}{2}`, 90: "0"},
	"tan": {0: "0", 30: `\frac{\sqrt{3}}{3}`, 45: "1", 60: `\sqrt{3}`},
	"cot": {30: `\sqrt{3}`, 45: "1", 60: `\frac{\sqrt{3}}{3}`, 90: "0"},
	"sec": {0: "1", 30: `\frac{2\sqrt{3}}{3}`, 45: `\sqrt{2}`, 60: "2"},
	"csc": {30: "2", 45: `\sqrt{2}`, 60: `\frac{2\sqrt{3}}{3}`, 90: "1"},
}

// makeRatio assembles one ratio entry. Defined ratios at special angles get
// their exact surd; everything else falls back to the formatted float.
func makeRatio(name string, deg, value float64, defined bool) ratio {
	if !defined {
		return ratio{Exact: "Undefined"}
	}
	v := value
	r := ratio{Approx: &v, Exact: result.FormatNumber(value)}
	if exact, ok := exactValue(name, deg); ok {
		r.Exact = exact
	}
	return r
}

// exactValue looks up the surd form by reference angle and quadrant sign.
func exactValue(name string, deg float64) (string, bool) {
	norm := math.Mod(deg, 360)
	if norm < 0 {
		norm += 360
	}
	if math.Abs(norm-math.Round(norm)) > 1e-9 {
		return "", false
	}
	d := int(math.Round(norm))

	var ref, quadrant int
	switch {
	case d <= 90:
		ref, quadrant = d, 1
	case d <= 180:
		ref, quadrant = 180-d, 2
	case d <= 270:
		ref, quadrant = d-180, 3
	default:
		ref, quadrant = 360-d, 4
	}
	exact, ok := exactTable[name][ref]
	if !ok {
		return "", false
	}
	if exact != "0" && !positiveIn[name][quadrant-1] {
		exact = "-" + exact
	}
	return exact, true
}
