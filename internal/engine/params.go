package engine

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/eduforge/mathcore/backend/internal/engine/geometry"
)

// Params is the raw JSON body of one request: operation parameters keyed by
// name, values as decoded by the transport.
type Params map[string]interface{}

// Number extracts a float64 with type coercion for the integer shapes JSON
// decoders produce.
func (p Params) Number(key string) (float64, bool) {
	val, ok := p[key]
	if !ok {
		return 0, false
	}
	switch v := val.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// NumberOr returns the parameter or a default when absent or mistyped.
func (p Params) NumberOr(key string, def float64) float64 {
	if v, ok := p.Number(key); ok {
		return v
	}
	return def
}

// Int extracts an integer-valued parameter.
func (p Params) Int(key string) (int, bool) {
	v, ok := p.Number(key)
	if !ok {
		return 0, false
	}
	return int(v), true
}

// IntOr returns the parameter or a default when absent or mistyped.
func (p Params) IntOr(key string, def int) int {
	if v, ok := p.Int(key); ok {
		return v
	}
	return def
}

// String extracts a string parameter.
func (p Params) String(key string) (string, bool) {
	val, ok := p[key].(string)
	return val, ok
}

// StringOr returns the parameter or a default when absent or mistyped.
func (p Params) StringOr(key, def string) string {
	if v, ok := p.String(key); ok {
		return v
	}
	return def
}

// Numbers extracts an array of numbers with element coercion.
func (p Params) Numbers(key string) ([]float64, bool) {
	arr, ok := p[key].([]interface{})
	if !ok {
		return nil, false
	}
	out := make([]float64, 0, len(arr))
	for _, el := range arr {
		switch v := el.(type) {
		case float64:
			out = append(out, v)
		case float32:
			out = append(out, float64(v))
		case int:
			out = append(out, float64(v))
		case int64:
			out = append(out, float64(v))
		default:
			return nil, false
		}
	}
	return out, true
}

// Strings extracts an array of strings.
func (p Params) Strings(key string) ([]string, bool) {
	arr, ok := p[key].([]interface{})
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(arr))
	for _, el := range arr {
		s, ok := el.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

// Grid extracts a matrix as rows of raw cells. Cell validation is the
// classifier's job; this only checks the nesting shape.
func (p Params) Grid(key string) ([][]interface{}, bool) {
	rows, ok := p[key].([]interface{})
	if !ok {
		return nil, false
	}
	out := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		row, ok := r.([]interface{})
		if !ok {
			return nil, false
		}
		out = append(out, row)
	}
	return out, true
}

// Point extracts a 2D/3D point given as [x, y] / [x, y, z] or as an object
// with x/y/z fields.
func (p Params) Point(key string) (geometry.Point, bool) {
	if coords, ok := p.Numbers(key); ok {
		switch len(coords) {
		case 2:
			return geometry.Point{X: coords[0], Y: coords[1]}, true
		case 3:
			return geometry.Point{X: coords[0], Y: coords[1], Z: coords[2]}, true
		}
		return geometry.Point{}, false
	}
	obj, ok := p[key].(map[string]interface{})
	if !ok {
		return geometry.Point{}, false
	}
	sub := Params(obj)
	x, okX := sub.Number("x")
	y, okY := sub.Number("y")
	if !okX || !okY {
		return geometry.Point{}, false
	}
	return geometry.Point{X: x, Y: y, Z: sub.NumberOr("z", 0)}, true
}

// Line extracts a line ax + by + c = 0 given as [a, b, c] or as an object
// with a/b/c fields.
func (p Params) Line(key string) (geometry.Line, bool) {
	if coeffs, ok := p.Numbers(key); ok && len(coeffs) == 3 {
		return geometry.Line{A: coeffs[0], B: coeffs[1], C: coeffs[2]}, true
	}
	obj, ok := p[key].(map[string]interface{})
	if !ok {
		return geometry.Line{}, false
	}
	sub := Params(obj)
	a, okA := sub.Number("a")
	b, okB := sub.Number("b")
	c, okC := sub.Number("c")
	if !okA || !okB || !okC {
		return geometry.Line{}, false
	}
	return geometry.Line{A: a, B: b, C: c}, true
}

// Circle extracts a circle given as an object with center [x, y] (or x/y
// fields) and radius.
func (p Params) Circle(key string) (geometry.Circle, bool) {
	obj, ok := p[key].(map[string]interface{})
	if !ok {
		return geometry.Circle{}, false
	}
	sub := Params(obj)
	r, okR := sub.Number("radius")
	if !okR {
		r, okR = sub.Number("r")
	}
	if !okR {
		return geometry.Circle{}, false
	}
	if center, ok := sub.Point("center"); ok {
		return geometry.Circle{X: center.X, Y: center.Y, R: r}, true
	}
	x, okX := sub.Number("x")
	y, okY := sub.Number("y")
	if !okX || !okY {
		return geometry.Circle{}, false
	}
	return geometry.Circle{X: x, Y: y, R: r}, true
}

// FloatMap extracts a nested object of named numbers (shape dimensions,
// transform parameters). Non-numeric entries are skipped.
func (p Params) FloatMap(key string) map[string]float64 {
	obj, ok := p[key].(map[string]interface{})
	if !ok {
		return map[string]float64{}
	}
	sub := Params(obj)
	out := make(map[string]float64, len(obj))
	for name := range obj {
		if v, ok := sub.Number(name); ok {
			out[name] = v
		}
	}
	return out
}

// Domain extracts a [lo, hi] range, falling back to the given bounds.
func (p Params) Domain(key string, lo, hi float64) (float64, float64) {
	if d, ok := p.Numbers(key); ok && len(d) == 2 {
		return d[0], d[1]
	}
	return lo, hi
}

// Canonical renders the parameter map deterministically for cache keys:
// object keys sorted, numbers in shortest round-trip form. Two bodies with
// the same decoded values always render identically.
func (p Params) Canonical() string {
	var b strings.Builder
	writeCanonical(&b, map[string]interface{}(p))
	return b.String()
}

func writeCanonical(b *strings.Builder, v interface{}) {
	switch t := v.(type) {
	case nil:
		b.WriteString("null")
	case bool:
		b.WriteString(strconv.FormatBool(t))
	case string:
		b.WriteString(strconv.Quote(t))
	case float64:
		b.WriteString(strconv.FormatFloat(t, 'g', -1, 64))
	case float32:
		b.WriteString(strconv.FormatFloat(float64(t), 'g', -1, 64))
	case int:
		b.WriteString(strconv.Itoa(t))
	case int64:
		b.WriteString(strconv.FormatInt(t, 10))
	case []interface{}:
		b.WriteByte('[')
		for i, el := range t {
			if i > 0 {
				b.WriteByte(',')
			}
			writeCanonical(b, el)
		}
		b.WriteByte(']')
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Quote(k))
			b.WriteByte(':')
			writeCanonical(b, t[k])
		}
		b.WriteByte('}')
	default:
		// decoded JSON never reaches here; fmt keeps the key total anyway
		b.WriteString(strconv.Quote(fmt.Sprint(v)))
	}
}
