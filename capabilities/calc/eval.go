package calc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// number keeps integer arithmetic exact and switches to float once a
// decimal literal or true division is involved
type number struct {
	i     int64
	f     float64
	isInt bool
}

func intNum(i int64) number     { return number{i: i, f: float64(i), isInt: true} }
func floatNum(f float64) number { return number{f: f} }

func (n number) value() interface{} {
	if n.isInt {
		return n.i
	}
	return n.f
}

// String renders integers plainly and keeps a trailing ".0" on integral
// floats so 8/2 reads "4.0"
func (n number) String() string {
	if n.isInt {
		return strconv.FormatInt(n.i, 10)
	}
	if math.IsInf(n.f, 1) {
		return "inf"
	}
	if math.IsInf(n.f, -1) {
		return "-inf"
	}
	if n.f == math.Trunc(n.f) && math.Abs(n.f) < 1e16 {
		return strconv.FormatFloat(n.f, 'f', 1, 64)
	}
	return strconv.FormatFloat(n.f, 'g', -1, 64)
}

var errDivisionByZero = errors.New("division by zero")

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokOp
	tokLParen
	tokRParen
	tokEOF
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func tokenize(expr string) ([]token, error) {
	var tokens []token
	for i := 0; i < len(expr); {
		c := expr[i]
		switch {
		case c == ' ':
			i++
		case c >= '0' && c <= '9' || c == '.':
			start := i
			for i < len(expr) && (expr[i] >= '0' && expr[i] <= '9' || expr[i] == '.') {
				i++
			}
			tokens = append(tokens, token{kind: tokNumber, text: expr[start:i], pos: start})
		case c == '*' || c == '/':
			if i+1 < len(expr) && expr[i+1] == c {
				tokens = append(tokens, token{kind: tokOp, text: expr[i : i+2], pos: i})
				i += 2
				continue
			}
			tokens = append(tokens, token{kind: tokOp, text: string(c), pos: i})
			i++
		case c == '+' || c == '-':
			tokens = append(tokens, token{kind: tokOp, text: string(c), pos: i})
			i++
		case c == '(':
			tokens = append(tokens, token{kind: tokLParen, text: "(", pos: i})
			i++
		case c == ')':
			tokens = append(tokens, token{kind: tokRParen, text: ")", pos: i})
			i++
		default:
			return nil, fmt.Errorf("invalid character %q at position %d", c, i)
		}
	}
	return append(tokens, token{kind: tokEOF, pos: len(expr)}), nil
}

// parser implements
//
//	expr   := term (("+" | "-") term)*
//	term   := unary (("*" | "/" | "//") unary)*
//	unary  := ("+" | "-") unary | power
//	power  := atom ("**" unary)?
//	atom   := NUMBER | "(" expr ")"
//
// which gives ** higher precedence than unary minus on its left and makes
// it right associative, so -2**2 is -4 and 2**3**2 is 512.
type parser struct {
	tokens []token
	pos    int
}

// Evaluate computes an arithmetic expression
func Evaluate(expr string) (interface{}, string, error) {
	n, err := evaluate(expr)
	if err != nil {
		return nil, "", err
	}
	return n.value(), n.String(), nil
}

func evaluate(expr string) (number, error) {
	tokens, err := tokenize(expr)
	if err != nil {
		return number{}, err
	}
	if len(tokens) == 1 {
		return number{}, errors.New("empty expression")
	}

	p := &parser{tokens: tokens}
	n, err := p.expr()
	if err != nil {
		return number{}, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return number{}, fmt.Errorf("unexpected %q at position %d", tok.text, tok.pos)
	}
	return n, nil
}

func (p *parser) peek() token { return p.tokens[p.pos] }

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) acceptOp(ops ...string) (string, bool) {
	tok := p.peek()
	if tok.kind != tokOp {
		return "", false
	}
	for _, op := range ops {
		if tok.text == op {
			p.pos++
			return op, true
		}
	}
	return "", false
}

func (p *parser) expr() (number, error) {
	left, err := p.term()
	if err != nil {
		return number{}, err
	}
	for {
		op, ok := p.acceptOp("+", "-")
		if !ok {
			return left, nil
		}
		right, err := p.term()
		if err != nil {
			return number{}, err
		}
		left = arith(op, left, right)
	}
}

func (p *parser) term() (number, error) {
	left, err := p.unary()
	if err != nil {
		return number{}, err
	}
	for {
		op, ok := p.acceptOp("*", "/", "//")
		if !ok {
			return left, nil
		}
		right, err := p.unary()
		if err != nil {
			return number{}, err
		}
		switch op {
		case "*":
			left = arith(op, left, right)
		case "/":
			if right.f == 0 {
				return number{}, errDivisionByZero
			}
			left = floatNum(left.f / right.f)
		case "//":
			if left, err = floorDiv(left, right); err != nil {
				return number{}, err
			}
		}
	}
}

func (p *parser) unary() (number, error) {
	if op, ok := p.acceptOp("+", "-"); ok {
		n, err := p.unary()
		if err != nil {
			return number{}, err
		}
		if op == "-" {
			if n.isInt {
				return intNum(-n.i), nil
			}
			return floatNum(-n.f), nil
		}
		return n, nil
	}
	return p.power()
}

func (p *parser) power() (number, error) {
	base, err := p.atom()
	if err != nil {
		return number{}, err
	}
	if _, ok := p.acceptOp("**"); !ok {
		return base, nil
	}
	exp, err := p.unary()
	if err != nil {
		return number{}, err
	}
	return pow(base, exp)
}

func (p *parser) atom() (number, error) {
	tok := p.next()
	switch tok.kind {
	case tokNumber:
		return parseNumber(tok)
	case tokLParen:
		n, err := p.expr()
		if err != nil {
			return number{}, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return number{}, fmt.Errorf("missing closing parenthesis at position %d", closing.pos)
		}
		return n, nil
	case tokEOF:
		return number{}, errors.New("unexpected end of expression")
	default:
		return number{}, fmt.Errorf("unexpected %q at position %d", tok.text, tok.pos)
	}
}

func parseNumber(tok token) (number, error) {
	if !strings.Contains(tok.text, ".") {
		if i, err := strconv.ParseInt(tok.text, 10, 64); err == nil {
			return intNum(i), nil
		}
	}
	f, err := strconv.ParseFloat(tok.text, 64)
	if err != nil || strings.Count(tok.text, ".") > 1 {
		return number{}, fmt.Errorf("invalid number %q at position %d", tok.text, tok.pos)
	}
	return floatNum(f), nil
}

func arith(op string, a, b number) number {
	if a.isInt && b.isInt {
		switch op {
		case "+":
			if s := a.i + b.i; (s > a.i) == (b.i > 0) {
				return intNum(s)
			}
		case "-":
			if d := a.i - b.i; (d < a.i) == (b.i > 0) {
				return intNum(d)
			}
		case "*":
			if p := a.i * b.i; a.i == 0 || p/a.i == b.i {
				return intNum(p)
			}
		}
	}
	switch op {
	case "+":
		return floatNum(a.f + b.f)
	case "-":
		return floatNum(a.f - b.f)
	default:
		return floatNum(a.f * b.f)
	}
}

func floorDiv(a, b number) (number, error) {
	if b.f == 0 {
		return number{}, errors.New("integer division or modulo by zero")
	}
	if a.isInt && b.isInt {
		q := a.i / b.i
		if (a.i%b.i != 0) && ((a.i < 0) != (b.i < 0)) {
			q--
		}
		return intNum(q), nil
	}
	return floatNum(math.Floor(a.f / b.f)), nil
}

func pow(base, exp number) (number, error) {
	if base.isInt && exp.isInt && exp.i >= 0 {
		switch base.i {
		case 0, 1:
			if exp.i == 0 {
				return intNum(1), nil
			}
			return base, nil
		case -1:
			if exp.i%2 == 0 {
				return intNum(1), nil
			}
			return base, nil
		}
		// |base| >= 2 overflows int64 within 63 steps
		result := int64(1)
		for i := int64(0); i < exp.i; i++ {
			next := result * base.i
			if next/base.i != result {
				return floatPow(base, exp)
			}
			result = next
		}
		return intNum(result), nil
	}
	if base.f == 0 && exp.f < 0 {
		return number{}, errors.New("0.0 cannot be raised to a negative power")
	}
	return floatPow(base, exp)
}

func floatPow(base, exp number) (number, error) {
	r := math.Pow(base.f, exp.f)
	switch {
	case math.IsNaN(r):
		return number{}, errors.New("math domain error")
	case math.IsInf(r, 0):
		return number{}, errors.New("numerical result out of range")
	}
	return floatNum(r), nil
}
