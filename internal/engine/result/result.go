// Package result defines the computation envelope shared by every engine
// operation: status, payload, step-by-step derivation, plot elements, and
// display strings.
package result

import (
	"fmt"
	"math"
)

// PlotElement is a single visual element for the client-side grapher.
type PlotElement struct {
	Type  string                 `json:"type"`
	Data  map[string]interface{} `json:"data"`
	Style map[string]interface{} `json:"style"`
}

// Computation is the uniform result of every operation. Status is "ok" or
// "error"; error results carry the message and machine-readable kind in the
// payload. The display map is keyed by result name ("result", "derivative",
// ...) with LaTeX values; the JSON field keeps the historical name.
type Computation struct {
	Status       string                 `json:"status"`
	Operation    string                 `json:"operation"`
	Payload      map[string]interface{} `json:"payload"`
	Steps        []string               `json:"steps"`
	PlotElements []PlotElement          `json:"plot_elements"`
	Display      map[string]string      `json:"latex"`
}

// ErrorKind classifies failures so clients can branch without parsing
// messages.
type ErrorKind string

const (
	KindParse        ErrorKind = "parse"
	KindDomain       ErrorKind = "domain"
	KindUnsupported  ErrorKind = "unsupported"
	KindNoClosedForm ErrorKind = "no_closed_form"
	KindInternal     ErrorKind = "internal"
)

// New starts a successful envelope for an operation.
func New(operation string) *Computation {
	return &Computation{
		Status:       "ok",
		Operation:    operation,
		Payload:      map[string]interface{}{},
		Steps:        []string{},
		PlotElements: []PlotElement{},
		Display:      map[string]string{},
	}
}

// Error builds a standardized error envelope.
func Error(operation string, kind ErrorKind, format string, args ...interface{}) *Computation {
	msg := fmt.Sprintf(format, args...)
	return &Computation{
		Status:    "error",
		Operation: operation,
		Payload: map[string]interface{}{
			"error":      msg,
			"error_kind": string(kind),
		},
		Steps:        []string{"Error: " + msg},
		PlotElements: []PlotElement{},
		Display:      map[string]string{},
	}
}

// IsError reports whether the envelope carries an error status.
func (c *Computation) IsError() bool { return c.Status == "error" }

// Set stores a payload value and returns the envelope for chaining.
func (c *Computation) Set(key string, value interface{}) *Computation {
	c.Payload[key] = value
	return c
}

// Step appends one derivation line. Steps are append-only; nothing removes
// or reorders them.
func (c *Computation) Step(format string, args ...interface{}) *Computation {
	c.Steps = append(c.Steps, fmt.Sprintf(format, args...))
	return c
}

// Plot appends a plot element.
func (c *Computation) Plot(el PlotElement) *Computation {
	c.PlotElements = append(c.PlotElements, el)
	return c
}

// Math stores a display (LaTeX) string under the given key.
func (c *Computation) Math(key, latex string) *Computation {
	c.Display[key] = latex
	return c
}

// FormatNumber renders a float for display: integers without a decimal
// point, everything else with four significant digits.
func FormatNumber(num float64) string {
	return FormatNumberPrec(num, 4)
}

// FormatNumberPrec is FormatNumber with an explicit significant-digit count.
func FormatNumberPrec(num float64, precision int) string {
	if num == math.Trunc(num) && !math.IsInf(num, 0) && math.Abs(num) < 1e15 {
		return fmt.Sprintf("%d", int64(num))
	}
	return fmt.Sprintf("%.*g", precision, num)
}

// FormatComplex renders a complex number in a+bi form, dropping negligible
// parts.
func FormatComplex(v complex128) string {
	re, im := real(v), imag(v)
	if math.Abs(im) < 1e-12 {
		return FormatNumber(re)
	}
	if math.Abs(re) < 1e-12 {
		return FormatNumber(im) + "i"
	}
	if im < 0 {
		return fmt.Sprintf("%s - %si", FormatNumber(re), FormatNumber(-im))
	}
	return fmt.Sprintf("%s + %si", FormatNumber(re), FormatNumber(im))
}
