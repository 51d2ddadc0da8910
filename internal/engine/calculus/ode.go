package calculus

import (
	"fmt"
	"math/big"
	"strings"
	"unicode"

	"github.com/eduforge/mathcore/backend/internal/engine/result"
	"github.com/eduforge/mathcore/backend/internal/symbolic"
)

// linearODE is the normal form y' + p·y = q(x).
type linearODE struct {
	p *big.Rat
	q symbolic.Expr
}

// SolveODE solves first-order linear ODEs of the form y' ± k·y = f(x) by
// the integrating-factor method. The left side is parsed by a dedicated
// grammar; anything outside it (nonlinear y terms, higher derivatives) is a
// parse error with a message naming the offending part.
func (c *Calculus) SolveODE(equation string) *result.Computation {
	ode, err := parseLinearODE(equation)
	if err != nil {
		return result.Error("ode", result.KindParse, "%v", err)
	}

	res := result.New("ode").Set("equation", equation)

	pf, _ := ode.p.Float64()
	normalized := "y' + " + result.FormatNumber(pf) + "·y = " + ode.q.String()
	if ode.p.Sign() == 0 {
		normalized = "y' = " + ode.q.String()
	}
	res.Step("Differential equation: %s", equation)
	res.Step("Normal form: %s", normalized)

	if ode.p.Sign() == 0 {
		// y = ∫q dx + C
		anti, ok := symbolic.Integrate(ode.q, "x")
		if !ok {
			return result.Error("ode", result.KindNoClosedForm,
				"cannot integrate the right-hand side %s", ode.q.String())
		}
		solution := "y = " + anti.String() + " + C"
		res.Step("Direct integration: y = ∫ %s dx + C", ode.q.String())
		res.Step("General solution: %s", solution)
		return res.Set("solution", solution).
			Math("solution", "y = "+anti.LaTeX()+" + C")
	}

	// integrating factor μ = e^{px}
	mu := symbolic.NewPower(symbolic.E(), symbolic.NewProduct(symbolic.Rat(ode.p), symbolic.Var("x")))
	muInv := symbolic.NewPower(symbolic.E(),
		symbolic.NewProduct(symbolic.Rat(new(big.Rat).Neg(ode.p)), symbolic.Var("x")))
	res.Step("Integrating factor: μ(x) = e^(%s·x)", result.FormatNumber(pf))

	integrand := symbolic.NewProduct(mu, ode.q)
	anti, ok := symbolic.Integrate(integrand, "x")
	if !ok {
		return result.Error("ode", result.KindNoClosedForm,
			"cannot integrate μ(x)·%s in closed form", ode.q.String())
	}
	res.Step("(μ·y)' = μ·q(x), so μ·y = ∫ %s dx + C", integrand.String())

	particular := symbolic.NewProduct(muInv, anti).Simplify()
	solution := fmt.Sprintf("y = %s + C·e^(%s·x)", particular.String(), result.FormatNumber(-pf))
	res.Step("General solution: %s", solution)

	return res.Set("solution", solution).
		Math("solution", fmt.Sprintf("y = %s + C e^{%s x}",
			particular.LaTeX(), result.FormatNumber(-pf)))
}

// parseLinearODE reads "y' [± k·y] = f(x)" (the right side defaults to 0).
// The left side may list its two terms in either order.
func parseLinearODE(input string) (*linearODE, error) {
	lhs := input
	rhs := "0"
	if i := strings.IndexByte(input, '='); i >= 0 {
		lhs = input[:i]
		rhs = input[i+1:]
		if strings.IndexByte(rhs, '=') >= 0 {
			return nil, fmt.Errorf("more than one '=' in equation")
		}
	}
	if strings.Contains(rhs, "y") {
		return nil, fmt.Errorf("the right-hand side must be a function of x only")
	}
	q, err := symbolic.Parse(rhs)
	if err != nil {
		return nil, fmt.Errorf("right-hand side: %w", err)
	}
	if symbolic.DependsOn(q, "y") || symbolic.DependsOn(q, "t") || symbolic.DependsOn(q, "z") {
		return nil, fmt.Errorf("the right-hand side must be a function of x only")
	}

	p, err := parseODELeft(lhs)
	if err != nil {
		return nil, err
	}
	return &linearODE{p: p, q: q}, nil
}

// parseODELeft parses the left side into the coefficient of y, verifying
// exactly one y' term and at most one linear y term.
func parseODELeft(lhs string) (*big.Rat, error) {
	terms, err := splitSignedTerms(lhs)
	if err != nil {
		return nil, err
	}
	sawDeriv := false
	p := new(big.Rat)
	for _, term := range terms {
		body := strings.TrimSpace(term.body)
		if body == "" {
			return nil, fmt.Errorf("empty term on the left-hand side")
		}
		switch {
		case body == "y'":
			if sawDeriv {
				return nil, fmt.Errorf("more than one y' term")
			}
			if term.negative {
				return nil, fmt.Errorf("y' must appear with a positive sign; multiply the equation by -1")
			}
			sawDeriv = true
		case strings.Contains(body, "y'"):
			return nil, fmt.Errorf("y' may not carry a coefficient in %q", body)
		case strings.HasSuffix(body, "y"):
			coefText := strings.TrimSpace(strings.TrimSuffix(body, "y"))
			coefText = strings.TrimSpace(strings.TrimSuffix(coefText, "*"))
			if strings.ContainsAny(coefText, "xyzt'") {
				return nil, fmt.Errorf("nonlinear or non-constant term %q; only k·y is supported", body)
			}
			coef := big.NewRat(1, 1)
			if coefText != "" {
				r, ok := new(big.Rat).SetString(coefText)
				if !ok {
					return nil, fmt.Errorf("cannot read coefficient in %q", body)
				}
				coef = r
			}
			if term.negative {
				coef.Neg(coef)
			}
			p.Add(p, coef)
		default:
			return nil, fmt.Errorf("unsupported term %q; expected y' + k·y", body)
		}
	}
	if !sawDeriv {
		return nil, fmt.Errorf("the equation must contain a y' term")
	}
	return p, nil
}

type signedTerm struct {
	body     string
	negative bool
}

// splitSignedTerms splits on top-level + and -, keeping signs. Parentheses
// are rejected: the grammar has no use for them on the left side.
func splitSignedTerms(s string) ([]signedTerm, error) {
	if strings.ContainsAny(s, "()") {
		return nil, fmt.Errorf("parentheses are not supported on the left-hand side")
	}
	var terms []signedTerm
	cur := strings.Builder{}
	neg := false
	flush := func() {
		if strings.TrimSpace(cur.String()) != "" {
			terms = append(terms, signedTerm{body: cur.String(), negative: neg})
		}
		cur.Reset()
	}
	for _, r := range s {
		switch r {
		case '+':
			flush()
			neg = false
		case '-':
			flush()
			neg = true
		default:
			if !unicode.IsSpace(r) || cur.Len() > 0 {
				cur.WriteRune(r)
			}
		}
	}
	flush()
	if len(terms) == 0 {
		return nil, fmt.Errorf("empty left-hand side")
	}
	return terms, nil
}
