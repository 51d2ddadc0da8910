package symbolic

import "math/big"

// Integrate returns an antiderivative of e with respect to v. ok is false
// when the rule table cannot close the form; callers surface that as a
// no-closed-form outcome rather than an error.
//
// Covered forms: polynomials and rational powers of v, f(a·v+b) for the
// elementary table functions, b^(a·v+c) for constant b, and p(v)·f(a·v+b)
// for polynomial p and f in {exp, sin, cos, sinh, cosh} via repeated
// integration by parts.
func Integrate(e Expr, v string) (Expr, bool) {
	e = e.Simplify()
	if !DependsOn(e, v) {
		return NewProduct(e, Var(v)), true
	}
	switch t := e.(type) {
	case Variable:
		return NewProduct(Frac(1, 2), NewPower(t, Int(2))), true
	case Sum:
		terms := make([]Expr, len(t.terms))
		for i, term := range t.terms {
			anti, ok := Integrate(term, v)
			if !ok {
				return nil, false
			}
			terms[i] = anti
		}
		return NewSum(terms...), true
	case Product:
		return integrateProduct(t, v)
	case Power:
		return integratePower(t, v)
	case Call:
		return integrateCall(t, v)
	}
	return nil, false
}

// DependsOn reports whether the named variable occurs free in e.
func DependsOn(e Expr, v string) bool {
	_, ok := FreeVariables(e)[v]
	return ok
}

func integrateProduct(p Product, v string) (Expr, bool) {
	var konst []Expr
	var rest []Expr
	for _, f := range p.factors {
		if DependsOn(f, v) {
			rest = append(rest, f)
		} else {
			konst = append(konst, f)
		}
	}
	var anti Expr
	var ok bool
	switch len(rest) {
	case 0:
		anti, ok = NewProduct(Var(v)), true
	case 1:
		anti, ok = Integrate(rest[0], v)
	default:
		anti, ok = integrateByParts(Product{factors: rest}.Simplify(), v)
	}
	if !ok {
		return nil, false
	}
	return NewProduct(append(konst, anti)...), true
}

func integratePower(p Power, v string) (Expr, bool) {
	en, isNum := p.exp.(Number)
	if isNum && !DependsOn(p.base, v) {
		return nil, false // constant^number handled by the constant fast path
	}

	// u^n for u linear in v
	if isNum {
		if a, _, ok := LinearIn(p.base, v); ok {
			if en.val.Cmp(ratNegOne) == 0 {
				// ∫ du/u = ln|u| / a
				return NewProduct(
					Rat(new(big.Rat).Inv(a)),
					NewCall("ln", NewCall("abs", p.base)),
				), true
			}
			np1 := new(big.Rat).Add(en.val, ratOne)
			return NewProduct(
				Rat(new(big.Rat).Inv(new(big.Rat).Mul(a, np1))),
				NewPower(p.base, Rat(np1)),
			), true
		}
		// sec(u)^2 and csc(u)^2 with linear u
		if c, ok := p.base.(Call); ok && en.val.Cmp(big.NewRat(2, 1)) == 0 {
			if a, _, ok := LinearIn(c.arg, v); ok {
				inv := Rat(new(big.Rat).Inv(a))
				switch c.fn {
				case "sec":
					return NewProduct(inv, NewCall("tan", c.arg)), true
				case "csc":
					return NewProduct(Rat(new(big.Rat).Neg(new(big.Rat).Inv(a))), NewCall("cot", c.arg)), true
				case "cos":
					// ∫cos² = u/2 + sin(2u)/4a
					return NewSum(
						NewProduct(Frac(1, 2), Var(v)),
						NewProduct(Rat(new(big.Rat).Quo(big.NewRat(1, 4), a)), NewCall("sin", NewProduct(Int(2), c.arg))),
					), true
				case "sin":
					return NewSum(
						NewProduct(Frac(1, 2), Var(v)),
						Neg(NewProduct(Rat(new(big.Rat).Quo(big.NewRat(1, 4), a)), NewCall("sin", NewProduct(Int(2), c.arg)))),
					), true
				}
			}
		}
		return nil, false
	}

	// b^u for constant base and linear u: b^u / (a·ln b)
	if !DependsOn(p.base, v) {
		if a, _, ok := LinearIn(p.exp, v); ok {
			if k, ok := p.base.(Constant); ok && k.name == "e" {
				return NewProduct(Rat(new(big.Rat).Inv(a)), p), true
			}
			return NewProduct(
				Rat(new(big.Rat).Inv(a)),
				NewPower(NewCall("ln", p.base), Int(-1)),
				p,
			), true
		}
	}
	return nil, false
}

func integrateCall(c Call, v string) (Expr, bool) {
	a, _, ok := LinearIn(c.arg, v)
	if !ok {
		return nil, false
	}
	inv := Rat(new(big.Rat).Inv(a))
	negInv := Rat(new(big.Rat).Neg(new(big.Rat).Inv(a)))
	u := c.arg
	switch c.fn {
	case "sin":
		return NewProduct(negInv, NewCall("cos", u)), true
	case "cos":
		return NewProduct(inv, NewCall("sin", u)), true
	case "tan":
		return NewProduct(negInv, NewCall("ln", NewCall("abs", NewCall("cos", u)))), true
	case "cot":
		return NewProduct(inv, NewCall("ln", NewCall("abs", NewCall("sin", u)))), true
	case "sec":
		return NewProduct(inv, NewCall("ln", NewCall("abs", NewSum(NewCall("sec", u), NewCall("tan", u))))), true
	case "csc":
		return NewProduct(negInv, NewCall("ln", NewCall("abs", NewSum(NewCall("csc", u), NewCall("cot", u))))), true
	case "exp":
		return NewProduct(inv, NewCall("exp", u)), true
	case "ln":
		// ∫ln(u) du/a = (u·ln u − u)/a
		return NewProduct(inv, NewSum(NewProduct(u, NewCall("ln", u)), Neg(u))), true
	case "sqrt":
		return NewProduct(inv, Frac(2, 3), NewPower(u, Frac(3, 2))), true
	case "sinh":
		return NewProduct(inv, NewCall("cosh", u)), true
	case "cosh":
		return NewProduct(inv, NewCall("sinh", u)), true
	}
	return nil, false
}

// partsDepthLimit caps tabular integration by parts; a polynomial factor of
// higher degree than this is outside the intended scope.
const partsDepthLimit = 16

// integrateByParts handles p(v) · f(a·v+b) by differentiating the polynomial
// part until it vanishes:
//
//	∫p·f = p·F1 − p'·F2 + p''·F3 − …
//
// where F(k) is the k-th antiderivative of f.
func integrateByParts(e Expr, v string) (Expr, bool) {
	p, ok := e.(Product)
	if !ok {
		return nil, false
	}
	var polyPart []Expr
	var callPart Expr
	for _, f := range p.factors {
		if _, isPoly := PolyCoeffs(f, v); isPoly {
			polyPart = append(polyPart, f)
			continue
		}
		if callPart != nil {
			return nil, false
		}
		callPart = f
	}
	if callPart == nil || len(polyPart) == 0 {
		return nil, false
	}
	if !isPartsKernel(callPart, v) {
		return nil, false
	}

	poly := NewProduct(polyPart...)
	anti := callPart
	sign := 1
	var terms []Expr
	for depth := 0; depth <= partsDepthLimit; depth++ {
		next, ok := Integrate(anti, v)
		if !ok {
			return nil, false
		}
		anti = next
		term := NewProduct(poly, anti)
		if sign < 0 {
			term = Neg(term)
		}
		terms = append(terms, term)
		poly = poly.Derive(v)
		if n, isNum := poly.(Number); isNum && n.IsZero() {
			return NewSum(terms...), true
		}
		sign = -sign
	}
	return nil, false
}

// isPartsKernel reports whether f is a call (or e^u power) whose repeated
// antiderivatives stay in the same family, so tabular parts terminates.
func isPartsKernel(e Expr, v string) bool {
	switch t := e.(type) {
	case Call:
		if _, _, ok := LinearIn(t.arg, v); !ok {
			return false
		}
		switch t.fn {
		case "exp", "sin", "cos", "sinh", "cosh":
			return true
		}
	case Power:
		if !DependsOn(t.base, v) {
			_, _, ok := LinearIn(t.exp, v)
			return ok
		}
	}
	return false
}
