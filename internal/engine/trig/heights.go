package trig

import (
	"math"

	"github.com/eduforge/mathcore/backend/internal/engine/plot"
	"github.com/eduforge/mathcore/backend/internal/engine/result"
)

// HeightsDistances solves right-triangle elevation problems.
//
//	find_height: value is the horizontal distance; observerHeight is added
//	             to the computed height when nonzero.
//	find_dist:   value is the object height.
func (t *Trig) HeightsDistances(paramType string, value, angleDeg, observerHeight float64) *result.Computation {
	const op = "heights_distances"
	if angleDeg <= 0 || angleDeg >= 90 {
		return result.Error(op, result.KindDomain,
			"angle of elevation must be between 0 and 90 degrees, got %s", result.FormatNumber(angleDeg))
	}
	tan := math.Tan(angleDeg * math.Pi / 180)

	res := result.New(op)
	switch paramType {
	case "find_height":
		d := value
		if d <= 0 {
			return result.Error(op, result.KindDomain, "distance must be positive")
		}
		height := d * tan
		total := height + observerHeight
		res.Step("Given: distance d = %s, angle θ = %s°",
			result.FormatNumber(d), result.FormatNumber(angleDeg))
		if observerHeight > 0 {
			res.Step("Observer height = %s", result.FormatNumber(observerHeight))
		}
		res.Step("Height = d · tan(θ)")
		res.Step("Height = %s · tan(%s°) = %.4f",
			result.FormatNumber(d), result.FormatNumber(angleDeg), height)
		if observerHeight > 0 {
			res.Step("Total height = %.4f + %s = %.4f",
				height, result.FormatNumber(observerHeight), total)
		}
		res.Set("result", total)
		res.Math("height", result.FormatNumber(total))
		res.Plot(plot.Polygon([][2]float64{{0, 0}, {d, 0}, {d, height}}, "Triangle",
			map[string]interface{}{"fillcolor": "rgba(59, 130, 246, 0.2)"}))
		res.Plot(plot.Point(d/2, -1, "d="+result.FormatNumber(d), nil))
		res.Plot(plot.Point(d+1, height/2, "h="+result.FormatNumber(height), nil))

	case "find_dist":
		height := value
		if height <= 0 {
			return result.Error(op, result.KindDomain, "height must be positive")
		}
		d := height / tan
		res.Step("Given: height = %s, angle θ = %s°",
			result.FormatNumber(height), result.FormatNumber(angleDeg))
		res.Step("Distance = height / tan(θ)")
		res.Step("Distance = %s / %.4f = %.4f", result.FormatNumber(height), tan, d)
		res.Set("result", d)
		res.Math("distance", result.FormatNumber(d))
		res.Plot(plot.Polygon([][2]float64{{0, 0}, {d, 0}, {d, height}}, "Triangle",
			map[string]interface{}{"fillcolor": "rgba(34, 197, 94, 0.2)"}))

	default:
		return result.Error(op, result.KindUnsupported,
			"unknown problem type %q (want find_height or find_dist)", paramType)
	}
	return res
}
