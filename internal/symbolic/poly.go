package symbolic

import (
	"fmt"
	"math"
	"math/big"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// maxPolyDegree bounds coefficient extraction; expansion past this is almost
// certainly user error and would swamp the convolution below.
const maxPolyDegree = 64

// PolyCoeffs extracts dense ascending-order rational coefficients of e
// viewed as a polynomial in v. ok is false when e is not a polynomial in v
// with rational coefficients (other free variables, fractional powers,
// transcendental functions of v).
func PolyCoeffs(e Expr, v string) ([]*big.Rat, bool) {
	e = e.Simplify()
	switch t := e.(type) {
	case Number:
		return []*big.Rat{mustRat(t)}, true
	case Variable:
		if t.name == v {
			return []*big.Rat{new(big.Rat), big.NewRat(1, 1)}, true
		}
		return nil, false
	case Sum:
		acc := []*big.Rat{}
		for _, term := range t.terms {
			c, ok := PolyCoeffs(term, v)
			if !ok {
				return nil, false
			}
			acc = polyAdd(acc, c)
		}
		return acc, true
	case Product:
		acc := []*big.Rat{big.NewRat(1, 1)}
		for _, f := range t.factors {
			c, ok := PolyCoeffs(f, v)
			if !ok {
				return nil, false
			}
			acc = polyMul(acc, c)
			if len(acc) > maxPolyDegree+1 {
				return nil, false
			}
		}
		return acc, true
	case Power:
		en, ok := t.exp.(Number)
		if !ok || !en.IsInt() || en.Sign() < 0 {
			return nil, false
		}
		k := en.val.Num().Int64()
		if k > maxPolyDegree {
			return nil, false
		}
		base, ok := PolyCoeffs(t.base, v)
		if !ok {
			return nil, false
		}
		acc := []*big.Rat{big.NewRat(1, 1)}
		for i := int64(0); i < k; i++ {
			acc = polyMul(acc, base)
			if len(acc) > maxPolyDegree+1 {
				return nil, false
			}
		}
		return acc, true
	}
	return nil, false
}

func mustRat(n Number) *big.Rat {
	r, _ := n.Rational()
	return r
}

func polyAdd(a, b []*big.Rat) []*big.Rat {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]*big.Rat, n)
	for i := range out {
		out[i] = new(big.Rat)
		if i < len(a) {
			out[i].Add(out[i], a[i])
		}
		if i < len(b) {
			out[i].Add(out[i], b[i])
		}
	}
	return trimPoly(out)
}

func polyMul(a, b []*big.Rat) []*big.Rat {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	out := make([]*big.Rat, len(a)+len(b)-1)
	for i := range out {
		out[i] = new(big.Rat)
	}
	tmp := new(big.Rat)
	for i, ai := range a {
		if ai.Sign() == 0 {
			continue
		}
		for j, bj := range b {
			tmp.Mul(ai, bj)
			out[i+j].Add(out[i+j], tmp)
		}
	}
	return trimPoly(out)
}

func trimPoly(c []*big.Rat) []*big.Rat {
	for len(c) > 1 && c[len(c)-1].Sign() == 0 {
		c = c[:len(c)-1]
	}
	return c
}

// LinearIn decomposes e as a*v + b with rational a, b and a != 0.
func LinearIn(e Expr, v string) (a, b *big.Rat, ok bool) {
	c, ok := PolyCoeffs(e, v)
	if !ok || len(c) != 2 || c[1].Sign() == 0 {
		return nil, nil, false
	}
	return c[1], c[0], true
}

// PolyFromCoeffs rebuilds the expression for ascending coefficients c in v.
func PolyFromCoeffs(c []*big.Rat, v string) Expr {
	terms := make([]Expr, 0, len(c))
	for i, ci := range c {
		if ci.Sign() == 0 {
			continue
		}
		terms = append(terms, NewProduct(Rat(ci), NewPower(Var(v), Int(int64(i)))))
	}
	if len(terms) == 0 {
		return Int(0)
	}
	return NewSum(terms...)
}

// Root is one root of a polynomial with its multiplicity.
type Root struct {
	Value        complex128
	Multiplicity int
	IsReal       bool
	// Exact holds the rational form when the root was found exactly.
	Exact *big.Rat
}

// rootGroupTol separates distinct numeric roots when grouping by
// multiplicity; imagDropTol zeroes negligible imaginary parts.
const (
	rootGroupTol = 1e-8
	imagDropTol  = 1e-9
)

// PolyRoots finds all complex roots of the polynomial with ascending
// rational coefficients, grouped into multiplicities. Exact rational roots
// are deflated first; the residual polynomial is solved numerically through
// the eigenvalues of its companion matrix.
func PolyRoots(coeffs []*big.Rat) ([]Root, error) {
	c := trimPoly(append([]*big.Rat(nil), coeffs...))
	if len(c) == 0 || (len(c) == 1 && c[0].Sign() == 0) {
		return nil, fmt.Errorf("zero polynomial has no isolated roots")
	}
	if len(c) == 1 {
		return nil, fmt.Errorf("constant polynomial has no roots")
	}

	var roots []Root

	// trailing zero coefficients: root at 0
	zeroMult := 0
	for len(c) > 1 && c[0].Sign() == 0 {
		c = c[1:]
		zeroMult++
	}
	if zeroMult > 0 {
		roots = append(roots, Root{Value: 0, Multiplicity: zeroMult, IsReal: true, Exact: new(big.Rat)})
	}

	// deflate exact rational roots (with their full multiplicity)
	for len(c) > 1 {
		r, ok := findRationalRoot(c)
		if !ok {
			break
		}
		mult := 0
		for {
			q, rem := syntheticDivide(c, r)
			if rem.Sign() != 0 {
				break
			}
			c = q
			mult++
			if len(c) == 1 {
				break
			}
		}
		f, _ := r.Float64()
		roots = append(roots, Root{Value: complex(f, 0), Multiplicity: mult, IsReal: true, Exact: r})
	}

	switch deg := len(c) - 1; {
	case deg == 0:
		// fully deflated
	case deg == 1:
		r := new(big.Rat).Quo(new(big.Rat).Neg(c[0]), c[1])
		f, _ := r.Float64()
		roots = append(roots, Root{Value: complex(f, 0), Multiplicity: 1, IsReal: true, Exact: r})
	case deg == 2:
		roots = append(roots, quadraticRoots(c)...)
	default:
		numeric, err := companionRoots(c)
		if err != nil {
			return nil, err
		}
		roots = append(roots, groupRoots(numeric)...)
	}
	return roots, nil
}

// findRationalRoot searches p/q candidates from the integer-scaled
// coefficients (rational root theorem). Coefficient magnitudes beyond int64
// end the search; the numeric path covers those.
func findRationalRoot(c []*big.Rat) (*big.Rat, bool) {
	lcm := big.NewInt(1)
	for _, ci := range c {
		lcm.Mul(lcm, new(big.Int).Div(ci.Denom(), new(big.Int).GCD(nil, nil, lcm, ci.Denom())))
	}
	ints := make([]*big.Int, len(c))
	for i, ci := range c {
		v := new(big.Rat).Mul(ci, new(big.Rat).SetInt(lcm))
		ints[i] = v.Num()
	}
	a0, an := ints[0], ints[len(ints)-1]
	if !a0.IsInt64() || !an.IsInt64() {
		return nil, false
	}
	p0 := a0.Int64()
	pn := an.Int64()
	if p0 < 0 {
		p0 = -p0
	}
	if pn < 0 {
		pn = -pn
	}
	if p0 == 0 {
		return new(big.Rat), true
	}
	const divisorLimit = 1 << 20
	if p0 > divisorLimit || pn > divisorLimit {
		return nil, false
	}
	for _, p := range divisors(p0) {
		for _, q := range divisors(pn) {
			for _, sign := range []int64{1, -1} {
				cand := big.NewRat(sign*p, q)
				if _, rem := syntheticDivide(c, cand); rem.Sign() == 0 {
					return cand, true
				}
			}
		}
	}
	return nil, false
}

func divisors(n int64) []int64 {
	var out []int64
	for d := int64(1); d*d <= n; d++ {
		if n%d == 0 {
			out = append(out, d)
			if other := n / d; other != d {
				out = append(out, other)
			}
		}
	}
	return out
}

// syntheticDivide divides the polynomial by (x - r), returning the quotient
// coefficients and the remainder.
func syntheticDivide(c []*big.Rat, r *big.Rat) (quotient []*big.Rat, remainder *big.Rat) {
	n := len(c)
	q := make([]*big.Rat, n-1)
	carry := new(big.Rat).Set(c[n-1])
	for i := n - 2; i >= 0; i-- {
		q[i] = new(big.Rat).Set(carry)
		carry = new(big.Rat).Add(c[i], new(big.Rat).Mul(carry, r))
	}
	return q, carry
}

func quadraticRoots(c []*big.Rat) []Root {
	a, _ := c[2].Float64()
	b, _ := c[1].Float64()
	c0, _ := c[0].Float64()
	disc := b*b - 4*a*c0
	switch {
	case math.Abs(disc) < rootGroupTol*math.Max(1, b*b):
		return []Root{{Value: complex(-b/(2*a), 0), Multiplicity: 2, IsReal: true}}
	case disc > 0:
		sq := math.Sqrt(disc)
		return []Root{
			{Value: complex((-b-sq)/(2*a), 0), Multiplicity: 1, IsReal: true},
			{Value: complex((-b+sq)/(2*a), 0), Multiplicity: 1, IsReal: true},
		}
	default:
		sq := math.Sqrt(-disc)
		return []Root{
			{Value: complex(-b/(2*a), -sq/(2*a)), Multiplicity: 1},
			{Value: complex(-b/(2*a), sq/(2*a)), Multiplicity: 1},
		}
	}
}

// companionRoots computes eigenvalues of the companion matrix of the monic
// form of the polynomial.
func companionRoots(c []*big.Rat) ([]complex128, error) {
	deg := len(c) - 1
	lead, _ := c[deg].Float64()
	if lead == 0 {
		return nil, fmt.Errorf("degenerate leading coefficient")
	}
	m := mat.NewDense(deg, deg, nil)
	for i := 1; i < deg; i++ {
		m.Set(i, i-1, 1)
	}
	for i := 0; i < deg; i++ {
		ci, _ := c[i].Float64()
		m.Set(i, deg-1, -ci/lead)
	}
	var eig mat.Eigen
	if ok := eig.Factorize(m, mat.EigenNone); !ok {
		return nil, fmt.Errorf("eigenvalue iteration failed to converge")
	}
	return eig.Values(nil), nil
}

// groupRoots merges numerically equal roots into multiplicities and drops
// negligible imaginary parts.
func groupRoots(vals []complex128) []Root {
	var roots []Root
	for _, v := range vals {
		if math.Abs(imag(v)) < imagDropTol {
			v = complex(real(v), 0)
		}
		merged := false
		for i := range roots {
			if cmplx.Abs(roots[i].Value-v) < rootGroupTol {
				roots[i].Multiplicity++
				merged = true
				break
			}
		}
		if !merged {
			roots = append(roots, Root{Value: v, Multiplicity: 1, IsReal: imag(v) == 0})
		}
	}
	return roots
}
