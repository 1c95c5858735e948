package symbolic

import (
	"fmt"
	"math/big"
	"strconv"
	"unicode"

	"github.com/ppiankov/lemma/internal/model"
)

// Parse parses an expression string into a symbolic tree. The grammar covers
// the arithmetic operators + - * / ** (with ^ as an alias), relational
// operators == != < <= > >=, boolean connectives and/or/not (with & | ~ as
// aliases), function calls, and integer/decimal literals. Decimal literals
// are held exactly as rationals.
func Parse(src string) (Expr, error) {
	p := &parser{src: src}
	p.next()
	e, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, p.errorf("unexpected %q", p.tok.text)
	}
	return e, nil
}

// MustParse parses src and panics on error. Test helper.
func MustParse(src string) Expr {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return e
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokOp     // + - * / ** ^ ( ) ,
	tokRel    // == != < <= > >=
	tokAnd    // and, &
	tokOr     // or, |
	tokNot    // not, ~
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

type parser struct {
	src string
	off int
	tok token
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return &model.ParseError{
		Expr:   p.src,
		Pos:    p.tok.pos,
		Reason: fmt.Sprintf(format, args...),
	}
}

func (p *parser) next() {
	// Skip whitespace
	for p.off < len(p.src) && unicode.IsSpace(rune(p.src[p.off])) {
		p.off++
	}
	start := p.off
	if p.off >= len(p.src) {
		p.tok = token{kind: tokEOF, pos: start}
		return
	}

	c := p.src[p.off]
	switch {
	case c >= '0' && c <= '9' || c == '.':
		end := p.off
		seenExp := false
		for end < len(p.src) {
			ch := p.src[end]
			if ch >= '0' && ch <= '9' || ch == '.' {
				end++
				continue
			}
			if (ch == 'e' || ch == 'E') && !seenExp {
				seenExp = true
				end++
				if end < len(p.src) && (p.src[end] == '+' || p.src[end] == '-') {
					end++
				}
				continue
			}
			break
		}
		p.tok = token{kind: tokNumber, text: p.src[p.off:end], pos: start}
		p.off = end

	case isIdentStart(c):
		end := p.off
		for end < len(p.src) && isIdentPart(p.src[end]) {
			end++
		}
		word := p.src[p.off:end]
		p.off = end
		switch word {
		case "and":
			p.tok = token{kind: tokAnd, text: word, pos: start}
		case "or":
			p.tok = token{kind: tokOr, text: word, pos: start}
		case "not":
			p.tok = token{kind: tokNot, text: word, pos: start}
		default:
			p.tok = token{kind: tokIdent, text: word, pos: start}
		}

	default:
		two := ""
		if p.off+1 < len(p.src) {
			two = p.src[p.off : p.off+2]
		}
		switch two {
		case "**", "==", "!=", "<=", ">=":
			kind := tokOp
			if two != "**" {
				kind = tokRel
			}
			p.tok = token{kind: kind, text: two, pos: start}
			p.off += 2
			return
		}
		switch c {
		case '+', '-', '*', '/', '(', ')', ',', '^':
			p.tok = token{kind: tokOp, text: string(c), pos: start}
		case '<', '>':
			p.tok = token{kind: tokRel, text: string(c), pos: start}
		case '=':
			// Single '=' reads as equality, matching claim files written
			// with mathematical notation
			p.tok = token{kind: tokRel, text: "==", pos: start}
		case '&':
			p.tok = token{kind: tokAnd, text: "&", pos: start}
		case '|':
			p.tok = token{kind: tokOr, text: "|", pos: start}
		case '~', '!':
			p.tok = token{kind: tokNot, text: string(c), pos: start}
		default:
			p.tok = token{kind: tokOp, text: string(c), pos: start}
		}
		p.off++
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || c >= '0' && c <= '9'
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	var terms []Expr
	for p.tok.kind == tokOr {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		if terms == nil {
			terms = []Expr{left}
		}
		terms = append(terms, right)
	}
	if terms == nil {
		return left, nil
	}
	return &Or{Terms: terms}, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	var terms []Expr
	for p.tok.kind == tokAnd {
		p.next()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		if terms == nil {
			terms = []Expr{left}
		}
		terms = append(terms, right)
	}
	if terms == nil {
		return left, nil
	}
	return &And{Terms: terms}, nil
}

func (p *parser) parseNot() (Expr, error) {
	if p.tok.kind == tokNot {
		p.next()
		x, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &Not{X: x}, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokRel {
		return left, nil
	}
	op := CompareOp(p.tok.text)
	p.next()
	right, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	return &Compare{Op: op, L: left, R: right}, nil
}

func (p *parser) parseAdditive() (Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	var terms []Expr
	for p.tok.kind == tokOp && (p.tok.text == "+" || p.tok.text == "-") {
		op := p.tok.text
		p.next()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		if op == "-" {
			right = &Mul{Factors: []Expr{Int(-1), right}}
		}
		if terms == nil {
			terms = []Expr{left}
		}
		terms = append(terms, right)
	}
	if terms == nil {
		return left, nil
	}
	return &Add{Terms: terms}, nil
}

func (p *parser) parseMultiplicative() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	var factors []Expr
	for p.tok.kind == tokOp && (p.tok.text == "*" || p.tok.text == "/") {
		op := p.tok.text
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if op == "/" {
			right = &Pow{Base: right, Exp: Int(-1)}
		}
		if factors == nil {
			factors = []Expr{left}
		}
		factors = append(factors, right)
	}
	if factors == nil {
		return left, nil
	}
	return &Mul{Factors: factors}, nil
}

func (p *parser) parseUnary() (Expr, error) {
	if p.tok.kind == tokOp {
		switch p.tok.text {
		case "-":
			p.next()
			x, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			return &Mul{Factors: []Expr{Int(-1), x}}, nil
		case "+":
			p.next()
			return p.parseUnary()
		}
	}
	return p.parsePower()
}

func (p *parser) parsePower() (Expr, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.tok.kind == tokOp && (p.tok.text == "**" || p.tok.text == "^") {
		p.next()
		// Right-associative; exponent may itself carry a unary minus
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Pow{Base: base, Exp: exp}, nil
	}
	return base, nil
}

var builtinFuncs = map[string]int{
	"sin": 1, "cos": 1, "tan": 1,
	"exp": 1, "log": 1, "sqrt": 1, "abs": 1,
	"min": 2, "max": 2,
}

func (p *parser) parsePrimary() (Expr, error) {
	switch p.tok.kind {
	case tokNumber:
		text := p.tok.text
		r := new(big.Rat)
		if _, ok := r.SetString(text); !ok {
			f, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, p.errorf("invalid number %q", text)
			}
			r.SetFloat64(f)
		}
		p.next()
		return &Number{Val: r}, nil

	case tokIdent:
		name := p.tok.text
		p.next()
		if p.tok.kind == tokOp && p.tok.text == "(" {
			arity, known := builtinFuncs[name]
			if !known {
				return nil, p.errorf("unknown function %q", name)
			}
			p.next()
			var args []Expr
			for {
				arg, err := p.parseOr()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if p.tok.kind == tokOp && p.tok.text == "," {
					p.next()
					continue
				}
				break
			}
			if !(p.tok.kind == tokOp && p.tok.text == ")") {
				return nil, p.errorf("expected ')' in call to %s", name)
			}
			p.next()
			if len(args) != arity {
				return nil, p.errorf("%s expects %d argument(s), got %d", name, arity, len(args))
			}
			return &Call{Fn: name, Args: args}, nil
		}
		switch name {
		case "true", "True":
			return True, nil
		case "false", "False":
			return False, nil
		}
		// pi and E stay symbolic here and are bound at numeric evaluation
		return Sym(name), nil

	case tokOp:
		if p.tok.text == "(" {
			p.next()
			e, err := p.parseOr()
			if err != nil {
				return nil, err
			}
			if !(p.tok.kind == tokOp && p.tok.text == ")") {
				return nil, p.errorf("expected ')'")
			}
			p.next()
			return e, nil
		}
	}
	return nil, p.errorf("unexpected %q", p.tok.text)
}
