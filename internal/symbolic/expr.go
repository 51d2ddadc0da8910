// Package symbolic implements the expression kernel used by the math engine.
//
// Expressions are immutable trees over exact rational numbers and a small
// closed set of variables. Simplification is deterministic: terms and factors
// are kept in a canonical order so that String() is stable and usable as a
// cache key component. Two textually different but algebraically equal
// inputs remain distinct expressions; that is a stated limitation of the
// engine's memoization contract.
package symbolic

import (
	"fmt"
	"math"
	"math/big"
	"sort"
	"strings"
)

// Expr is an immutable symbolic expression node.
type Expr interface {
	// Simplify returns the canonical form of the node. Simplified nodes are
	// safe to compare by String().
	Simplify() Expr
	// Substitute replaces every occurrence of the named variable.
	Substitute(name string, value Expr) Expr
	// Derive computes the derivative with respect to the named variable.
	Derive(name string) Expr
	// Rational reports the exact rational value when the node is constant.
	Rational() (*big.Rat, bool)
	String() string
	LaTeX() string
	kindRank() int
}

// Kind ranks drive canonical ordering: numbers sort first, then variables,
// then composite nodes. Ordering must be total and deterministic.
const (
	rankNumber = iota
	rankVariable
	rankCall
	rankPower
	rankProduct
	rankSum
)

// ---------------------------------------------------------------------------
// Number: exact rational constant
// ---------------------------------------------------------------------------

// Number is an exact rational constant backed by math/big.
type Number struct{ val *big.Rat }

// Int returns a Number holding the given integer.
func Int(n int64) Number { return Number{val: new(big.Rat).SetInt64(n)} }

// Frac returns the exact fraction p/q. q must be nonzero.
func Frac(p, q int64) Number {
	if q == 0 {
		panic("symbolic: zero denominator")
	}
	return Number{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}

// Float returns a Number approximating f exactly as a binary rational.
func Float(f float64) Number { return Number{val: new(big.Rat).SetFloat64(f)} }

// Rat wraps an existing rational.
func Rat(r *big.Rat) Number { return Number{val: new(big.Rat).Set(r)} }

func (n Number) Simplify() Expr                  { return n }
func (n Number) Substitute(string, Expr) Expr    { return n }
func (n Number) Derive(string) Expr              { return Int(0) }
func (n Number) Rational() (*big.Rat, bool)      { return new(big.Rat).Set(n.val), true }
func (n Number) kindRank() int                   { return rankNumber }
func (n Number) IsZero() bool                    { return n.val.Sign() == 0 }
func (n Number) IsOne() bool                     { return n.val.Cmp(ratOne) == 0 }
func (n Number) Sign() int                       { return n.val.Sign() }
func (n Number) Float64() float64                { f, _ := n.val.Float64(); return f }
func (n Number) IsInt() bool                     { return n.val.IsInt() }

func (n Number) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	return n.val.RatString()
}

var (
	ratOne    = big.NewRat(1, 1)
	ratNegOne = big.NewRat(-1, 1)
)

// ---------------------------------------------------------------------------
// Variable: named symbol from the closed alphabet
// ---------------------------------------------------------------------------

// Variable is a free symbol. The parser restricts names to the engine's
// closed alphabet; the kernel itself accepts any name so internal rewrites
// (integration constants, helper symbols) stay possible.
type Variable struct{ name string }

// Var returns the variable with the given name.
func Var(name string) Variable { return Variable{name: name} }

func (v Variable) Simplify() Expr             { return v }
func (v Variable) Rational() (*big.Rat, bool) { return nil, false }
func (v Variable) kindRank() int              { return rankVariable }
func (v Variable) String() string             { return v.name }
func (v Variable) Name() string               { return v.name }

func (v Variable) Substitute(name string, value Expr) Expr {
	if v.name == name {
		return value
	}
	return v
}

func (v Variable) Derive(name string) Expr {
	if v.name == name {
		return Int(1)
	}
	return Int(0)
}

// ---------------------------------------------------------------------------
// Sum
// ---------------------------------------------------------------------------

// Sum is an n-ary addition in canonical order.
type Sum struct{ terms []Expr }

// NewSum builds and simplifies a sum of terms.
func NewSum(terms ...Expr) Expr { return Sum{terms: terms}.Simplify() }

// Sub builds a - b.
func Sub(a, b Expr) Expr { return NewSum(a, NewProduct(Int(-1), b)) }

// Neg builds -a.
func Neg(a Expr) Expr { return NewProduct(Int(-1), a) }

func (s Sum) Terms() []Expr {
	out := make([]Expr, len(s.terms))
	copy(out, s.terms)
	return out
}

func (s Sum) Rational() (*big.Rat, bool) { return nil, false }
func (s Sum) kindRank() int              { return rankSum }

func (s Sum) Simplify() Expr {
	// Flatten nested sums, fold constants, then collect like terms by the
	// canonical string of their non-numeric part.
	var flat []Expr
	constant := new(big.Rat)
	var walk func(e Expr)
	walk = func(e Expr) {
		e = e.Simplify()
		switch t := e.(type) {
		case Sum:
			for _, inner := range t.terms {
				walk(inner)
			}
		case Number:
			constant.Add(constant, t.val)
		default:
			flat = append(flat, e)
		}
	}
	for _, t := range s.terms {
		walk(t)
	}

	type bucket struct {
		coeff *big.Rat
		rest  Expr
	}
	order := []string{}
	buckets := map[string]*bucket{}
	for _, term := range flat {
		coeff, rest := splitCoefficient(term)
		key := rest.String()
		if b, ok := buckets[key]; ok {
			b.coeff.Add(b.coeff, coeff)
		} else {
			buckets[key] = &bucket{coeff: coeff, rest: rest}
			order = append(order, key)
		}
	}

	out := make([]Expr, 0, len(order)+1)
	sort.Strings(order)
	for _, key := range order {
		b := buckets[key]
		if b.coeff.Sign() == 0 {
			continue
		}
		if b.coeff.Cmp(ratOne) == 0 {
			out = append(out, b.rest)
		} else {
			out = append(out, Product{factors: []Expr{Rat(b.coeff), b.rest}}.Simplify())
		}
	}
	if constant.Sign() != 0 || len(out) == 0 {
		out = append(out, Rat(constant))
	}
	if len(out) == 1 {
		return out[0]
	}
	return Sum{terms: out}
}

func (s Sum) Substitute(name string, value Expr) Expr {
	terms := make([]Expr, len(s.terms))
	for i, t := range s.terms {
		terms[i] = t.Substitute(name, value)
	}
	return Sum{terms: terms}.Simplify()
}

func (s Sum) Derive(name string) Expr {
	terms := make([]Expr, len(s.terms))
	for i, t := range s.terms {
		terms[i] = t.Derive(name)
	}
	return Sum{terms: terms}.Simplify()
}

func (s Sum) String() string {
	var b strings.Builder
	for i, t := range s.terms {
		str := t.String()
		if i == 0 {
			b.WriteString(str)
			continue
		}
		if strings.HasPrefix(str, "-") {
			b.WriteString(" - ")
			b.WriteString(str[1:])
		} else {
			b.WriteString(" + ")
			b.WriteString(str)
		}
	}
	return b.String()
}

// splitCoefficient separates a term into its rational coefficient and the
// remaining factor (1 for pure constants).
func splitCoefficient(e Expr) (*big.Rat, Expr) {
	switch t := e.(type) {
	case Number:
		return new(big.Rat).Set(t.val), Int(1)
	case Product:
		coeff := new(big.Rat).Set(ratOne)
		rest := make([]Expr, 0, len(t.factors))
		for _, f := range t.factors {
			if n, ok := f.(Number); ok {
				coeff.Mul(coeff, n.val)
			} else {
				rest = append(rest, f)
			}
		}
		switch len(rest) {
		case 0:
			return coeff, Int(1)
		case 1:
			return coeff, rest[0]
		default:
			return coeff, Product{factors: rest}
		}
	default:
		return new(big.Rat).Set(ratOne), e
	}
}

// ---------------------------------------------------------------------------
// Product
// ---------------------------------------------------------------------------

// Product is an n-ary multiplication in canonical order.
type Product struct{ factors []Expr }

// NewProduct builds and simplifies a product of factors.
func NewProduct(factors ...Expr) Expr { return Product{factors: factors}.Simplify() }

// Div builds a / b as a * b^-1.
func Div(a, b Expr) Expr { return NewProduct(a, NewPower(b, Int(-1))) }

func (p Product) Factors() []Expr {
	out := make([]Expr, len(p.factors))
	copy(out, p.factors)
	return out
}

func (p Product) Rational() (*big.Rat, bool) { return nil, false }
func (p Product) kindRank() int              { return rankProduct }

func (p Product) Simplify() Expr {
	var flat []Expr
	constant := new(big.Rat).Set(ratOne)
	var walk func(e Expr)
	walk = func(e Expr) {
		e = e.Simplify()
		switch t := e.(type) {
		case Product:
			for _, inner := range t.factors {
				walk(inner)
			}
		case Number:
			constant.Mul(constant, t.val)
		default:
			flat = append(flat, e)
		}
	}
	for _, f := range p.factors {
		walk(f)
	}
	if constant.Sign() == 0 {
		return Int(0)
	}

	// Combine repeated bases: x * x^2 -> x^3. Exponents are merged only when
	// both are rational; other exponents keep their syntactic identity.
	type bucket struct {
		base Expr
		exp  *big.Rat
		raw  Expr // non-rational-exponent factor kept verbatim
	}
	order := []string{}
	buckets := map[string]*bucket{}
	for _, f := range flat {
		base, exp := splitPower(f)
		if exp == nil {
			key := "raw:" + f.String()
			if _, ok := buckets[key]; !ok {
				buckets[key] = &bucket{raw: f}
				order = append(order, key)
			} else {
				// Identical irrational-exponent factors multiply into an
				// even power; fold via Power to stay canonical.
				b := buckets[key]
				b.raw = Power{base: f, exp: Int(2)}.Simplify()
			}
			continue
		}
		key := base.String()
		if b, ok := buckets[key]; ok && b.exp != nil {
			b.exp.Add(b.exp, exp)
		} else if !ok {
			buckets[key] = &bucket{base: base, exp: exp}
			order = append(order, key)
		}
	}

	out := make([]Expr, 0, len(order)+1)
	sort.Strings(order)
	for _, key := range order {
		b := buckets[key]
		if b.raw != nil {
			out = append(out, b.raw)
			continue
		}
		if b.exp.Sign() == 0 {
			continue
		}
		if b.exp.Cmp(ratOne) == 0 {
			out = append(out, b.base)
		} else {
			out = append(out, Power{base: b.base, exp: Rat(b.exp)}.Simplify())
		}
	}
	if len(out) == 0 {
		return Rat(constant)
	}
	if constant.Cmp(ratOne) != 0 {
		out = append([]Expr{Rat(constant)}, out...)
	}
	if len(out) == 1 {
		return out[0]
	}
	return Product{factors: out}
}

// splitPower decomposes a factor into (base, rational exponent); exp is nil
// when the exponent is not rational.
func splitPower(e Expr) (Expr, *big.Rat) {
	if pw, ok := e.(Power); ok {
		if n, ok := pw.exp.(Number); ok {
			return pw.base, new(big.Rat).Set(n.val)
		}
		return nil, nil
	}
	return e, new(big.Rat).Set(ratOne)
}

func (p Product) Substitute(name string, value Expr) Expr {
	factors := make([]Expr, len(p.factors))
	for i, f := range p.factors {
		factors[i] = f.Substitute(name, value)
	}
	return Product{factors: factors}.Simplify()
}

// Derive applies the generalized product rule.
func (p Product) Derive(name string) Expr {
	terms := make([]Expr, 0, len(p.factors))
	for i := range p.factors {
		factors := make([]Expr, len(p.factors))
		copy(factors, p.factors)
		factors[i] = p.factors[i].Derive(name)
		terms = append(terms, Product{factors: factors}.Simplify())
	}
	return NewSum(terms...)
}

func (p Product) String() string {
	// Render negative rational coefficients with a leading minus, and
	// negative exponents as division for readability.
	num := []string{}
	den := []string{}
	prefix := ""
	for _, f := range p.factors {
		if n, ok := f.(Number); ok {
			if n.val.Cmp(ratNegOne) == 0 {
				prefix = "-"
				continue
			}
		}
		if pw, ok := f.(Power); ok {
			if e, ok := pw.exp.(Number); ok && e.Sign() < 0 {
				inv := Power{base: pw.base, exp: Rat(new(big.Rat).Neg(e.val))}.Simplify()
				den = append(den, maybeParen(inv, rankProduct))
				continue
			}
		}
		num = append(num, maybeParen(f, rankProduct))
	}
	top := strings.Join(num, "*")
	if top == "" {
		top = "1"
	}
	if len(den) > 0 {
		return prefix + top + "/" + strings.Join(den, "/")
	}
	return prefix + top
}

func maybeParen(e Expr, parentRank int) string {
	if e.kindRank() > parentRank {
		return "(" + e.String() + ")"
	}
	return e.String()
}

// ---------------------------------------------------------------------------
// Power
// ---------------------------------------------------------------------------

// Power is base^exp.
type Power struct{ base, exp Expr }

// NewPower builds and simplifies base^exp.
func NewPower(base, exp Expr) Expr { return Power{base: base, exp: exp}.Simplify() }

// Sqrt builds the principal square root as a half power.
func Sqrt(e Expr) Expr { return NewPower(e, Frac(1, 2)) }

func (p Power) Base() Expr                  { return p.base }
func (p Power) Exponent() Expr              { return p.exp }
func (p Power) Rational() (*big.Rat, bool)  { return nil, false }
func (p Power) kindRank() int               { return rankPower }

func (p Power) Simplify() Expr {
	base := p.base.Simplify()
	exp := p.exp.Simplify()

	if en, ok := exp.(Number); ok {
		if en.IsZero() {
			return Int(1)
		}
		if en.IsOne() {
			return base
		}
		if bn, ok := base.(Number); ok {
			if v, ok := ratPow(bn.val, en.val); ok {
				return Rat(v)
			}
		}
		// (x^a)^b -> x^(a*b) for rational a, b.
		if inner, ok := base.(Power); ok {
			if ie, ok := inner.exp.(Number); ok {
				merged := new(big.Rat).Mul(ie.val, en.val)
				return Power{base: inner.base, exp: Rat(merged)}.Simplify()
			}
		}
	}
	if bn, ok := base.(Number); ok {
		if bn.IsOne() {
			return Int(1)
		}
		if bn.IsZero() {
			if en, ok := exp.(Number); ok && en.Sign() > 0 {
				return Int(0)
			}
		}
	}
	return Power{base: base, exp: exp}
}

// ratPow computes r^e exactly when e is an integer with a small magnitude,
// or when e is 1/2 and r is a perfect square of a rational.
func ratPow(r, e *big.Rat) (*big.Rat, bool) {
	if e.IsInt() {
		n := e.Num()
		if !n.IsInt64() {
			return nil, false
		}
		k := n.Int64()
		if k > 64 || k < -64 {
			return nil, false
		}
		if k < 0 {
			if r.Sign() == 0 {
				return nil, false
			}
			r = new(big.Rat).Inv(r)
			k = -k
		}
		out := new(big.Rat).SetInt64(1)
		for i := int64(0); i < k; i++ {
			out.Mul(out, r)
		}
		return out, true
	}
	if e.Cmp(big.NewRat(1, 2)) == 0 && r.Sign() >= 0 {
		num := new(big.Int).Sqrt(r.Num())
		den := new(big.Int).Sqrt(r.Denom())
		if new(big.Int).Mul(num, num).Cmp(r.Num()) == 0 &&
			new(big.Int).Mul(den, den).Cmp(r.Denom()) == 0 {
			return new(big.Rat).SetFrac(num, den), true
		}
	}
	return nil, false
}

func (p Power) Substitute(name string, value Expr) Expr {
	return Power{base: p.base.Substitute(name, value), exp: p.exp.Substitute(name, value)}.Simplify()
}

// Derive applies the generalized power rule
// d(u^v) = u^v * (v'·ln u + v·u'/u).
func (p Power) Derive(name string) Expr {
	u, v := p.base, p.exp
	if vn, ok := v.(Number); ok {
		// d(u^n) = n·u^(n-1)·u'
		nm1 := Rat(new(big.Rat).Sub(vn.val, ratOne))
		return NewProduct(vn, Power{base: u, exp: nm1}.Simplify(), u.Derive(name))
	}
	lnU := NewCall("ln", u)
	inner := NewSum(
		NewProduct(v.Derive(name), lnU),
		NewProduct(v, u.Derive(name), NewPower(u, Int(-1))),
	)
	return NewProduct(p.Simplify(), inner)
}

func (p Power) String() string {
	b := maybeParen(p.base, rankVariable)
	e := maybeParen(p.exp, rankVariable)
	return b + "^" + e
}

// ---------------------------------------------------------------------------
// Call: named function application
// ---------------------------------------------------------------------------

// Call applies a named elementary function to one argument.
type Call struct {
	fn  string
	arg Expr
}

// NewCall builds and simplifies fn(arg). The function name must be one of
// the kernel's known elementary functions; unknown names are kept inert so
// the parser can report them instead.
func NewCall(fn string, arg Expr) Expr { return Call{fn: fn, arg: arg}.Simplify() }

func (c Call) FuncName() string            { return c.fn }
func (c Call) Arg() Expr                   { return c.arg }
func (c Call) Rational() (*big.Rat, bool)  { return nil, false }
func (c Call) kindRank() int               { return rankCall }

func (c Call) Simplify() Expr {
	arg := c.arg.Simplify()
	if n, ok := arg.(Number); ok && n.IsZero() {
		switch c.fn {
		case "sin", "tan", "sinh", "tanh", "asin", "atan":
			return Int(0)
		case "cos", "cosh", "exp", "sec":
			return Int(1)
		}
	}
	if n, ok := arg.(Number); ok {
		switch c.fn {
		case "abs":
			if n.Sign() < 0 {
				return Rat(new(big.Rat).Neg(n.val))
			}
			return n
		case "ln":
			if n.IsOne() {
				return Int(0)
			}
		}
	}
	if k, ok := arg.(Constant); ok && k.name == "e" && c.fn == "ln" {
		return Int(1)
	}
	return Call{fn: c.fn, arg: arg}
}

func (c Call) Substitute(name string, value Expr) Expr {
	return Call{fn: c.fn, arg: c.arg.Substitute(name, value)}.Simplify()
}

// chain rule derivative table
func (c Call) Derive(name string) Expr {
	u := c.arg
	du := u.Derive(name)
	if n, ok := du.(Number); ok && n.IsZero() {
		return Int(0)
	}
	var outer Expr
	switch c.fn {
	case "sin":
		outer = NewCall("cos", u)
	case "cos":
		outer = Neg(NewCall("sin", u))
	case "tan":
		outer = NewPower(NewCall("sec", u), Int(2))
	case "cot":
		outer = Neg(NewPower(NewCall("csc", u), Int(2)))
	case "sec":
		outer = NewProduct(NewCall("sec", u), NewCall("tan", u))
	case "csc":
		outer = Neg(NewProduct(NewCall("csc", u), NewCall("cot", u)))
	case "exp":
		outer = NewCall("exp", u)
	case "ln":
		outer = NewPower(u, Int(-1))
	case "sqrt":
		outer = NewProduct(Frac(1, 2), NewPower(u, Frac(-1, 2)))
	case "asin":
		outer = NewPower(NewSum(Int(1), Neg(NewPower(u, Int(2)))), Frac(-1, 2))
	case "acos":
		outer = Neg(NewPower(NewSum(Int(1), Neg(NewPower(u, Int(2)))), Frac(-1, 2)))
	case "atan":
		outer = NewPower(NewSum(Int(1), NewPower(u, Int(2))), Int(-1))
	case "sinh":
		outer = NewCall("cosh", u)
	case "cosh":
		outer = NewCall("sinh", u)
	case "tanh":
		outer = NewSum(Int(1), Neg(NewPower(NewCall("tanh", u), Int(2))))
	case "abs":
		outer = NewCall("sign", u)
	default:
		// Unknown function: keep an inert derivative marker to avoid a
		// silently wrong answer; callers treat it as non-closed-form.
		return Call{fn: c.fn + "'", arg: u}
	}
	return NewProduct(outer, du)
}

func (c Call) String() string {
	return c.fn + "(" + c.arg.String() + ")"
}

// ---------------------------------------------------------------------------
// Shared helpers
// ---------------------------------------------------------------------------

// FreeVariables collects the distinct variable names in e.
func FreeVariables(e Expr) map[string]struct{} {
	out := map[string]struct{}{}
	var walk func(Expr)
	walk = func(e Expr) {
		switch t := e.(type) {
		case Variable:
			out[t.name] = struct{}{}
		case Sum:
			for _, x := range t.terms {
				walk(x)
			}
		case Product:
			for _, x := range t.factors {
				walk(x)
			}
		case Power:
			walk(t.base)
			walk(t.exp)
		case Call:
			walk(t.arg)
		}
	}
	walk(e)
	return out
}

// IsConstant reports whether e has no free variables.
func IsConstant(e Expr) bool { return len(FreeVariables(e)) == 0 }

// EvalAt numerically evaluates e with float64 arithmetic. Domain errors
// (log of a non-positive number, even root of a negative) surface as an
// error; infinities and NaN produced by ordinary float arithmetic are
// returned as-is so the caller can filter non-finite samples.
func EvalAt(e Expr, vars map[string]float64) (float64, error) {
	switch t := e.(type) {
	case Number:
		return t.Float64(), nil
	case Constant:
		return t.value, nil
	case Variable:
		v, ok := vars[t.name]
		if !ok {
			return 0, fmt.Errorf("unbound variable %q", t.name)
		}
		return v, nil
	case Sum:
		total := 0.0
		for _, term := range t.terms {
			v, err := EvalAt(term, vars)
			if err != nil {
				return 0, err
			}
			total += v
		}
		return total, nil
	case Product:
		total := 1.0
		for _, f := range t.factors {
			v, err := EvalAt(f, vars)
			if err != nil {
				return 0, err
			}
			total *= v
		}
		return total, nil
	case Power:
		b, err := EvalAt(t.base, vars)
		if err != nil {
			return 0, err
		}
		x, err := EvalAt(t.exp, vars)
		if err != nil {
			return 0, err
		}
		return math.Pow(b, x), nil
	case Call:
		a, err := EvalAt(t.arg, vars)
		if err != nil {
			return 0, err
		}
		return evalFunc(t.fn, a)
	}
	return 0, fmt.Errorf("unsupported expression node %T", e)
}

func evalFunc(fn string, a float64) (float64, error) {
	switch fn {
	case "sin":
		return math.Sin(a), nil
	case "cos":
		return math.Cos(a), nil
	case "tan":
		return math.Tan(a), nil
	case "cot":
		return 1 / math.Tan(a), nil
	case "sec":
		return 1 / math.Cos(a), nil
	case "csc":
		return 1 / math.Sin(a), nil
	case "asin":
		return math.Asin(a), nil
	case "acos":
		return math.Acos(a), nil
	case "atan":
		return math.Atan(a), nil
	case "sinh":
		return math.Sinh(a), nil
	case "cosh":
		return math.Cosh(a), nil
	case "tanh":
		return math.Tanh(a), nil
	case "exp":
		return math.Exp(a), nil
	case "ln", "log":
		return math.Log(a), nil
	case "sqrt":
		return math.Sqrt(a), nil
	case "abs":
		return math.Abs(a), nil
	case "sign":
		if a > 0 {
			return 1, nil
		} else if a < 0 {
			return -1, nil
		}
		return 0, nil
	case "floor":
		return math.Floor(a), nil
	case "ceil":
		return math.Ceil(a), nil
	}
	return 0, fmt.Errorf("unknown function %q", fn)
}

// EvalComplex evaluates e with complex128 arithmetic. The imaginary unit is
// bound by the caller (typically {"i": 1i}).
func EvalComplex(e Expr, vars map[string]complex128) (complex128, error) {
	switch t := e.(type) {
	case Number:
		return complex(t.Float64(), 0), nil
	case Constant:
		return complex(t.value, 0), nil
	case Variable:
		v, ok := vars[t.name]
		if !ok {
			return 0, fmt.Errorf("unbound variable %q", t.name)
		}
		return v, nil
	case Sum:
		total := complex128(0)
		for _, term := range t.terms {
			v, err := EvalComplex(term, vars)
			if err != nil {
				return 0, err
			}
			total += v
		}
		return total, nil
	case Product:
		total := complex128(1)
		for _, f := range t.factors {
			v, err := EvalComplex(f, vars)
			if err != nil {
				return 0, err
			}
			total *= v
		}
		return total, nil
	case Power:
		b, err := EvalComplex(t.base, vars)
		if err != nil {
			return 0, err
		}
		x, err := EvalComplex(t.exp, vars)
		if err != nil {
			return 0, err
		}
		return cpow(b, x), nil
	case Call:
		a, err := EvalComplex(t.arg, vars)
		if err != nil {
			return 0, err
		}
		return evalComplexFunc(t.fn, a)
	}
	return 0, fmt.Errorf("unsupported expression node %T", e)
}

func cpow(b, e complex128) complex128 {
	if b == 0 {
		if real(e) > 0 {
			return 0
		}
		return complex(math.Inf(1), 0)
	}
	return cexp(clog(b) * e)
}

func cexp(z complex128) complex128 {
	r := math.Exp(real(z))
	return complex(r*math.Cos(imag(z)), r*math.Sin(imag(z)))
}

func clog(z complex128) complex128 {
	return complex(math.Log(cabs(z)), math.Atan2(imag(z), real(z)))
}

func cabs(z complex128) float64 { return math.Hypot(real(z), imag(z)) }

func evalComplexFunc(fn string, a complex128) (complex128, error) {
	switch fn {
	case "exp":
		return cexp(a), nil
	case "ln", "log":
		return clog(a), nil
	case "sqrt":
		return cpow(a, complex(0.5, 0)), nil
	case "abs":
		return complex(cabs(a), 0), nil
	case "sin":
		return (cexp(complex(-imag(a), real(a))) - cexp(complex(imag(a), -real(a)))) / complex(0, 2), nil
	case "cos":
		return (cexp(complex(-imag(a), real(a))) + cexp(complex(imag(a), -real(a)))) / 2, nil
	}
	if imag(a) == 0 {
		v, err := evalFunc(fn, real(a))
		return complex(v, 0), err
	}
	return 0, fmt.Errorf("function %q is not defined over complex arguments", fn)
}
