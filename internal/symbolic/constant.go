package symbolic

import (
	"math"
	"math/big"
)

// Constant is a named transcendental constant. It participates in symbolic
// manipulation like a variable but evaluates to a fixed float and never
// appears in FreeVariables.
type Constant struct {
	name  string
	value float64
}

// Pi is the circle constant.
func Pi() Constant { return Constant{name: "pi", value: math.Pi} }

// E is Euler's number.
func E() Constant { return Constant{name: "e", value: math.E} }

func (c Constant) Simplify() Expr             { return c }
func (c Constant) Substitute(string, Expr) Expr { return c }
func (c Constant) Derive(string) Expr         { return Int(0) }
func (c Constant) Rational() (*big.Rat, bool) { return nil, false }
func (c Constant) kindRank() int              { return rankVariable }
func (c Constant) String() string             { return c.name }
func (c Constant) Value() float64             { return c.value }
func (c Constant) Name() string               { return c.name }

func (c Constant) LaTeX() string {
	if c.name == "pi" {
		return "\\pi"
	}
	return c.name
}
