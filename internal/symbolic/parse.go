package symbolic

import (
	"fmt"
	"math/big"
	"strings"
	"unicode"
)

// ParseError reports where and why an expression failed to parse. Pos is a
// zero-based byte offset into the input.
type ParseError struct {
	Pos int
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at offset %d: %s", e.Pos, e.Msg)
}

// DefaultVariables is the closed alphabet accepted by Parse unless the
// caller widens it.
var DefaultVariables = []string{"x", "y", "z", "t"}

var knownFunctions = map[string]struct{}{
	"sin": {}, "cos": {}, "tan": {}, "cot": {}, "sec": {}, "csc": {},
	"asin": {}, "acos": {}, "atan": {},
	"arcsin": {}, "arccos": {}, "arctan": {},
	"sinh": {}, "cosh": {}, "tanh": {},
	"exp": {}, "ln": {}, "log": {}, "sqrt": {}, "abs": {},
	"floor": {}, "ceil": {},
}

// canonical function spellings
var funcAliases = map[string]string{
	"arcsin": "asin",
	"arccos": "acos",
	"arctan": "atan",
	"log":    "ln",
}

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokCaret
	tokLParen
	tokRParen
	tokComma
	tokEOF
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

type lexer struct {
	input string
	pos   int
}

func (l *lexer) next() (token, error) {
	for l.pos < len(l.input) && unicode.IsSpace(rune(l.input[l.pos])) {
		l.pos++
	}
	if l.pos >= len(l.input) {
		return token{kind: tokEOF, pos: l.pos}, nil
	}
	start := l.pos
	c := l.input[l.pos]
	switch {
	case c >= '0' && c <= '9' || c == '.':
		sawDot := false
		for l.pos < len(l.input) {
			ch := l.input[l.pos]
			if ch == '.' {
				if sawDot {
					return token{}, &ParseError{Pos: l.pos, Msg: "unexpected second decimal point"}
				}
				sawDot = true
				l.pos++
				continue
			}
			if ch < '0' || ch > '9' {
				break
			}
			l.pos++
		}
		text := l.input[start:l.pos]
		if text == "." {
			return token{}, &ParseError{Pos: start, Msg: "lone decimal point"}
		}
		return token{kind: tokNumber, text: text, pos: start}, nil
	case unicode.IsLetter(rune(c)):
		for l.pos < len(l.input) && (unicode.IsLetter(rune(l.input[l.pos])) || l.input[l.pos] >= '0' && l.input[l.pos] <= '9') {
			l.pos++
		}
		return token{kind: tokIdent, text: l.input[start:l.pos], pos: start}, nil
	}
	l.pos++
	switch c {
	case '+':
		return token{kind: tokPlus, text: "+", pos: start}, nil
	case '-':
		return token{kind: tokMinus, text: "-", pos: start}, nil
	case '*':
		// accept ** as exponent
		if l.pos < len(l.input) && l.input[l.pos] == '*' {
			l.pos++
			return token{kind: tokCaret, text: "**", pos: start}, nil
		}
		return token{kind: tokStar, text: "*", pos: start}, nil
	case '/':
		return token{kind: tokSlash, text: "/", pos: start}, nil
	case '^':
		return token{kind: tokCaret, text: "^", pos: start}, nil
	case '(':
		return token{kind: tokLParen, text: "(", pos: start}, nil
	case ')':
		return token{kind: tokRParen, text: ")", pos: start}, nil
	case ',':
		return token{kind: tokComma, text: ",", pos: start}, nil
	}
	return token{}, &ParseError{Pos: start, Msg: fmt.Sprintf("unexpected character %q", string(rune(c)))}
}

type parser struct {
	tokens []token
	idx    int
	vars   map[string]struct{}
}

// ParseOption adjusts parser behavior.
type ParseOption func(*parser)

// WithVariables widens the variable alphabet (e.g. to admit "i" for complex
// analysis or single-letter coefficients in conic input).
func WithVariables(names ...string) ParseOption {
	return func(p *parser) {
		for _, n := range names {
			p.vars[n] = struct{}{}
		}
	}
}

// Parse converts expression text into a simplified expression tree. The
// grammar supports + - * / ^ (and **), parentheses, implicit multiplication
// (2x, 3sin(x), x(x+1)), the constants pi and e, and the kernel's elementary
// functions. Decimal literals become exact rationals.
func Parse(input string, opts ...ParseOption) (Expr, error) {
	if strings.TrimSpace(input) == "" {
		return nil, &ParseError{Pos: 0, Msg: "empty expression"}
	}
	lx := &lexer{input: input}
	var tokens []token
	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.kind == tokEOF {
			break
		}
	}
	p := &parser{tokens: tokens, vars: map[string]struct{}{}}
	for _, v := range DefaultVariables {
		p.vars[v] = struct{}{}
	}
	for _, opt := range opts {
		opt(p)
	}
	e, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, &ParseError{Pos: tok.pos, Msg: fmt.Sprintf("unexpected %q", tok.text)}
	}
	return e.Simplify(), nil
}

// MustParse is a test helper; it panics on malformed input.
func MustParse(input string, opts ...ParseOption) Expr {
	e, err := Parse(input, opts...)
	if err != nil {
		panic(err)
	}
	return e
}

func (p *parser) peek() token  { return p.tokens[p.idx] }
func (p *parser) advance() token {
	tok := p.tokens[p.idx]
	if tok.kind != tokEOF {
		p.idx++
	}
	return tok
}

func (p *parser) parseSum() (Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().kind {
		case tokPlus:
			p.advance()
			right, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			left = NewSum(left, right)
		case tokMinus:
			p.advance()
			right, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			left = Sub(left, right)
		default:
			return left, nil
		}
	}
}

func (p *parser) parseTerm() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		switch tok := p.peek(); tok.kind {
		case tokStar:
			p.advance()
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = NewProduct(left, right)
		case tokSlash:
			p.advance()
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = Div(left, right)
		case tokIdent, tokNumber, tokLParen:
			// implicit multiplication: 2x, 3sin(x), x(x+1)
			right, err := p.parsePower()
			if err != nil {
				return nil, err
			}
			left = NewProduct(left, right)
		default:
			return left, nil
		}
	}
}

func (p *parser) parseUnary() (Expr, error) {
	if p.peek().kind == tokMinus {
		p.advance()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Neg(inner), nil
	}
	if p.peek().kind == tokPlus {
		p.advance()
		return p.parseUnary()
	}
	return p.parsePower()
}

func (p *parser) parsePower() (Expr, error) {
	base, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if p.peek().kind == tokCaret {
		p.advance()
		// right-associative; the exponent may carry its own unary minus
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return NewPower(base, exp), nil
	}
	return base, nil
}

func (p *parser) parseAtom() (Expr, error) {
	tok := p.advance()
	switch tok.kind {
	case tokNumber:
		r, ok := new(big.Rat).SetString(tok.text)
		if !ok {
			return nil, &ParseError{Pos: tok.pos, Msg: fmt.Sprintf("malformed number %q", tok.text)}
		}
		return Rat(r), nil
	case tokIdent:
		name := strings.ToLower(tok.text)
		if _, ok := knownFunctions[name]; ok {
			if p.peek().kind != tokLParen {
				return nil, &ParseError{Pos: tok.pos, Msg: fmt.Sprintf("function %q requires an argument in parentheses", name)}
			}
			p.advance()
			arg, err := p.parseSum()
			if err != nil {
				return nil, err
			}
			if closing := p.advance(); closing.kind != tokRParen {
				return nil, &ParseError{Pos: closing.pos, Msg: "missing closing parenthesis"}
			}
			if canon, ok := funcAliases[name]; ok {
				name = canon
			}
			return NewCall(name, arg), nil
		}
		switch name {
		case "pi":
			return Pi(), nil
		case "e":
			return E(), nil
		}
		if _, ok := p.vars[tok.text]; ok {
			return Var(tok.text), nil
		}
		if _, ok := p.vars[name]; ok {
			return Var(name), nil
		}
		return nil, &ParseError{Pos: tok.pos, Msg: fmt.Sprintf("unknown symbol %q", tok.text)}
	case tokLParen:
		inner, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if closing := p.advance(); closing.kind != tokRParen {
			return nil, &ParseError{Pos: closing.pos, Msg: "missing closing parenthesis"}
		}
		return inner, nil
	case tokEOF:
		return nil, &ParseError{Pos: tok.pos, Msg: "unexpected end of expression"}
	}
	return nil, &ParseError{Pos: tok.pos, Msg: fmt.Sprintf("unexpected %q", tok.text)}
}
