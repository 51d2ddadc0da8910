package symbolic

import "math/big"

// RewriteToSinCos replaces tan, cot, sec, and csc with their sin/cos
// definitions so that Pythagorean reduction and cancellation can act on a
// uniform basis.
func RewriteToSinCos(e Expr) Expr {
	switch t := e.(type) {
	case Sum:
		terms := make([]Expr, len(t.terms))
		for i, x := range t.terms {
			terms[i] = RewriteToSinCos(x)
		}
		return NewSum(terms...)
	case Product:
		factors := make([]Expr, len(t.factors))
		for i, x := range t.factors {
			factors[i] = RewriteToSinCos(x)
		}
		return NewProduct(factors...)
	case Power:
		return NewPower(RewriteToSinCos(t.base), RewriteToSinCos(t.exp))
	case Call:
		arg := RewriteToSinCos(t.arg)
		switch t.fn {
		case "tan":
			return Div(NewCall("sin", arg), NewCall("cos", arg))
		case "cot":
			return Div(NewCall("cos", arg), NewCall("sin", arg))
		case "sec":
			return NewPower(NewCall("cos", arg), Int(-1))
		case "csc":
			return NewPower(NewCall("sin", arg), Int(-1))
		}
		return NewCall(t.fn, arg)
	}
	return e
}

// PythagoreanReduce collapses c·sin(u)² + c·cos(u)² pairs inside sums to the
// constant c, recursively. Only exact coefficient matches are merged.
func PythagoreanReduce(e Expr) Expr {
	switch t := e.(type) {
	case Product:
		factors := make([]Expr, len(t.factors))
		for i, x := range t.factors {
			factors[i] = PythagoreanReduce(x)
		}
		return NewProduct(factors...)
	case Power:
		return NewPower(PythagoreanReduce(t.base), PythagoreanReduce(t.exp))
	case Call:
		return NewCall(t.fn, PythagoreanReduce(t.arg))
	case Sum:
		terms := make([]Expr, len(t.terms))
		for i, x := range t.terms {
			terms[i] = PythagoreanReduce(x)
		}
		return mergePythagorean(terms)
	}
	return e
}

func mergePythagorean(terms []Expr) Expr {
	type trigTerm struct {
		coeff *big.Rat
		arg   string // canonical string of the inner argument
		isSin bool
	}
	classify := func(e Expr) (trigTerm, bool) {
		coeff, rest := splitCoefficient(e)
		pw, ok := rest.(Power)
		if !ok {
			return trigTerm{}, false
		}
		if en, ok := pw.exp.(Number); !ok || en.val.Cmp(big.NewRat(2, 1)) != 0 {
			return trigTerm{}, false
		}
		c, ok := pw.base.(Call)
		if !ok || (c.fn != "sin" && c.fn != "cos") {
			return trigTerm{}, false
		}
		return trigTerm{coeff: coeff, arg: c.arg.String(), isSin: c.fn == "sin"}, true
	}

	used := make([]bool, len(terms))
	var out []Expr
	for i := range terms {
		if used[i] {
			continue
		}
		ti, ok := classify(terms[i])
		if !ok {
			out = append(out, terms[i])
			continue
		}
		merged := false
		for j := i + 1; j < len(terms); j++ {
			if used[j] {
				continue
			}
			tj, ok := classify(terms[j])
			if !ok || tj.arg != ti.arg || tj.isSin == ti.isSin {
				continue
			}
			if ti.coeff.Cmp(tj.coeff) == 0 {
				out = append(out, Rat(ti.coeff))
				used[i], used[j] = true, true
				merged = true
				break
			}
		}
		if !merged {
			out = append(out, terms[i])
		}
	}
	return NewSum(out...)
}

// TrigSimplify applies the sin/cos rewrite followed by Pythagorean
// reduction. It is a best-effort normalizer: a zero result proves an
// identity, a nonzero result proves nothing.
func TrigSimplify(e Expr) Expr {
	return PythagoreanReduce(RewriteToSinCos(e).Simplify()).Simplify()
}
