package symbolic

import (
	"math/big"
	"strings"
)

// LaTeX rendering for the display map of computation envelopes. The output
// targets KaTeX; fractions, roots, and function names use standard macros.

func (n Number) LaTeX() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	num := new(big.Int).Abs(n.val.Num())
	frac := "\\frac{" + num.String() + "}{" + n.val.Denom().String() + "}"
	if n.val.Sign() < 0 {
		return "-" + frac
	}
	return frac
}

func (v Variable) LaTeX() string { return v.name }

func (s Sum) LaTeX() string {
	var b strings.Builder
	for i, t := range s.terms {
		str := t.LaTeX()
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

func (p Product) LaTeX() string {
	num := []string{}
	den := []string{}
	prefix := ""
	for _, f := range p.factors {
		if n, ok := f.(Number); ok && n.val.Cmp(ratNegOne) == 0 {
			prefix = "-"
			continue
		}
		if pw, ok := f.(Power); ok {
			if e, ok := pw.exp.(Number); ok && e.Sign() < 0 {
				inv := Power{base: pw.base, exp: Rat(new(big.Rat).Neg(e.val))}.Simplify()
				den = append(den, latexFactor(inv))
				continue
			}
		}
		num = append(num, latexFactor(f))
	}
	top := strings.Join(num, " ")
	if top == "" {
		top = "1"
	}
	if len(den) > 0 {
		return prefix + "\\frac{" + top + "}{" + strings.Join(den, " ") + "}"
	}
	return prefix + top
}

func latexFactor(e Expr) string {
	if e.kindRank() > rankProduct {
		return "\\left(" + e.LaTeX() + "\\right)"
	}
	return e.LaTeX()
}

var ratHalf = big.NewRat(1, 2)

func (p Power) LaTeX() string {
	if en, ok := p.exp.(Number); ok && en.val.Cmp(ratHalf) == 0 {
		return "\\sqrt{" + p.base.LaTeX() + "}"
	}
	base := p.base.LaTeX()
	if p.base.kindRank() > rankVariable {
		base = "\\left(" + base + "\\right)"
	}
	return base + "^{" + p.exp.LaTeX() + "}"
}

func (c Call) LaTeX() string {
	switch c.fn {
	case "sqrt":
		return "\\sqrt{" + c.arg.LaTeX() + "}"
	case "abs":
		return "\\left|" + c.arg.LaTeX() + "\\right|"
	case "exp":
		return "e^{" + c.arg.LaTeX() + "}"
	case "ln":
		return "\\ln\\left(" + c.arg.LaTeX() + "\\right)"
	case "sin", "cos", "tan", "cot", "sec", "csc", "log",
		"sinh", "cosh", "tanh":
		return "\\" + c.fn + "\\left(" + c.arg.LaTeX() + "\\right)"
	case "asin":
		return "\\arcsin\\left(" + c.arg.LaTeX() + "\\right)"
	case "acos":
		return "\\arccos\\left(" + c.arg.LaTeX() + "\\right)"
	case "atan":
		return "\\arctan\\left(" + c.arg.LaTeX() + "\\right)"
	}
	return "\\operatorname{" + c.fn + "}\\left(" + c.arg.LaTeX() + "\\right)"
}
