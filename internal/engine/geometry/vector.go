package geometry

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/eduforge/mathcore/backend/internal/engine/result"
)

// VectorProperties reports magnitude and unit vector, with an arrow plot
// for 2D and 3D inputs.
func (g *Geometry) VectorProperties(v []float64) *result.Computation {
	const op = "vector_properties"
	if len(v) == 0 {
		return result.Error(op, result.KindDomain, "empty vector")
	}
	mag := floats.Norm(v, 2)

	unit := make([]float64, len(v))
	copy(unit, v)
	if mag > 0 {
		floats.Scale(1/mag, unit)
	}

	res := result.New(op).
		Set("magnitude", mag).
		Set("unit_vector", unit).
		Math("magnitude", `|\mathbf{v}| = `+result.FormatNumber(mag))
	res.Step("Vector v = %v", v)
	res.Step("Magnitude |v| = %.4f", mag)
	if mag > 0 {
		res.Step("Unit vector = v / |v|")
	} else {
		res.Step("Zero vector has no direction")
	}

	kind := "vector_2d"
	if len(v) == 3 {
		kind = "vector_3d"
	}
	if len(v) == 2 || len(v) == 3 {
		origin := make([]float64, len(v))
		res.Plot(result.PlotElement{
			Type:  kind,
			Data:  map[string]interface{}{"start": origin, "end": v, "label": "v"},
			Style: map[string]interface{}{"color": "#3b82f6"},
		})
	}
	return res
}

// VectorOperate applies a binary vector operation: dot, cross, angle, or
// projection (of v1 onto v2).
func (g *Geometry) VectorOperate(v1, v2 []float64, operation string) *result.Computation {
	op := "vector_" + operation
	if len(v1) == 0 || len(v2) == 0 {
		return result.Error(op, result.KindDomain, "empty vector")
	}

	res := result.New(op)
	switch operation {
	case "dot":
		if len(v1) != len(v2) {
			return result.Error(op, result.KindDomain,
				"dot product needs equal dimensions (%d vs %d)", len(v1), len(v2))
		}
		dot := floats.Dot(v1, v2)
		res.Set("result", dot)
		res.Step("v₁ · v₂ = Σ v₁ᵢv₂ᵢ = %s", result.FormatNumber(dot))
		res.Math("result", `\mathbf{a} \cdot \mathbf{b} = `+result.FormatNumber(dot))

	case "cross":
		if len(v1) != 3 || len(v2) != 3 {
			return result.Error(op, result.KindDomain, "cross product requires 3D vectors")
		}
		cross := []float64{
			v1[1]*v2[2] - v1[2]*v2[1],
			v1[2]*v2[0] - v1[0]*v2[2],
			v1[0]*v2[1] - v1[1]*v2[0],
		}
		res.Set("result", cross)
		res.Step("v₁ × v₂ by the determinant expansion")
		res.Step("Result: (%s, %s, %s)",
			result.FormatNumber(cross[0]), result.FormatNumber(cross[1]), result.FormatNumber(cross[2]))

	case "angle":
		if len(v1) != len(v2) {
			return result.Error(op, result.KindDomain,
				"angle needs equal dimensions (%d vs %d)", len(v1), len(v2))
		}
		m1, m2 := floats.Norm(v1, 2), floats.Norm(v2, 2)
		if m1 == 0 || m2 == 0 {
			return result.Error(op, result.KindDomain, "angle with a zero vector is undefined")
		}
		cos := floats.Dot(v1, v2) / (m1 * m2)
		cos = math.Max(-1, math.Min(1, cos))
		deg := math.Acos(cos) * 180 / math.Pi
		res.Set("degrees", deg)
		res.Step("cos(θ) = (v₁·v₂) / (|v₁||v₂|) = %.4f", cos)
		res.Step("θ = %.4f°", deg)
		res.Math("angle", `\theta = `+result.FormatNumber(deg)+`^\circ`)

	case "projection":
		if len(v1) != len(v2) {
			return result.Error(op, result.KindDomain,
				"projection needs equal dimensions (%d vs %d)", len(v1), len(v2))
		}
		m2sq := floats.Dot(v2, v2)
		if m2sq == 0 {
			return result.Error(op, result.KindDomain, "cannot project onto the zero vector")
		}
		scale := floats.Dot(v1, v2) / m2sq
		proj := make([]float64, len(v2))
		copy(proj, v2)
		floats.Scale(scale, proj)
		res.Set("result", proj)
		res.Step("proj_v₂(v₁) = ((v₁·v₂)/|v₂|²) v₂")
		res.Step("Scale factor: %.4f", scale)

	default:
		return result.Error(op, result.KindUnsupported,
			"unknown vector operation %q (want dot, cross, angle, or projection)", operation)
	}
	return res
}
