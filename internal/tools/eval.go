package tools

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// evalExpression evaluates an arithmetic expression over the grammar
//
//	expr   := term (('+' | '-') term)*
//	term   := factor (('*' | '/') factor)*
//	factor := '-' factor | number | '(' expr ')'
//
// Anything outside the grammar is rejected at parse time. Arithmetic runs
// on decimals so formula results survive without float drift.
func evalExpression(input string) (decimal.Decimal, error) {
	p := &exprParser{input: input}
	p.skipSpaces()
	result, err := p.parseExpr()
	if err != nil {
		return decimal.Zero, err
	}
	p.skipSpaces()
	if p.pos < len(p.input) {
		return decimal.Zero, fmt.Errorf("unexpected character %q at position %d", p.input[p.pos], p.pos)
	}
	return result, nil
}

type exprParser struct {
	input string
	pos   int
}

func (p *exprParser) skipSpaces() {
	for p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}
}

func (p *exprParser) peek() (byte, bool) {
	p.skipSpaces()
	if p.pos >= len(p.input) {
		return 0, false
	}
	return p.input[p.pos], true
}

func (p *exprParser) parseExpr() (decimal.Decimal, error) {
	left, err := p.parseTerm()
	if err != nil {
		return decimal.Zero, err
	}
	for {
		op, ok := p.peek()
		if !ok || (op != '+' && op != '-') {
			return left, nil
		}
		p.pos++
		right, err := p.parseTerm()
		if err != nil {
			return decimal.Zero, err
		}
		if op == '+' {
			left = left.Add(right)
		} else {
			left = left.Sub(right)
		}
	}
}

func (p *exprParser) parseTerm() (decimal.Decimal, error) {
	left, err := p.parseFactor()
	if err != nil {
		return decimal.Zero, err
	}
	for {
		op, ok := p.peek()
		if !ok || (op != '*' && op != '/') {
			return left, nil
		}
		p.pos++
		right, err := p.parseFactor()
		if err != nil {
			return decimal.Zero, err
		}
		if op == '*' {
			left = left.Mul(right)
		} else {
			if right.IsZero() {
				return decimal.Zero, fmt.Errorf("division by zero")
			}
			left = left.Div(right)
		}
	}
}

func (p *exprParser) parseFactor() (decimal.Decimal, error) {
	ch, ok := p.peek()
	if !ok {
		return decimal.Zero, fmt.Errorf("unexpected end of expression")
	}

	switch {
	case ch == '-':
		p.pos++
		v, err := p.parseFactor()
		if err != nil {
			return decimal.Zero, err
		}
		return v.Neg(), nil
	case ch == '(':
		p.pos++
		v, err := p.parseExpr()
		if err != nil {
			return decimal.Zero, err
		}
		closing, ok := p.peek()
		if !ok || closing != ')' {
			return decimal.Zero, fmt.Errorf("missing closing parenthesis")
		}
		p.pos++
		return v, nil
	case ch >= '0' && ch <= '9' || ch == '.':
		return p.parseNumber()
	default:
		return decimal.Zero, fmt.Errorf("unexpected character %q at position %d", ch, p.pos)
	}
}

func (p *exprParser) parseNumber() (decimal.Decimal, error) {
	start := p.pos
	seenDot := false
	for p.pos < len(p.input) {
		ch := p.input[p.pos]
		if ch >= '0' && ch <= '9' {
			p.pos++
			continue
		}
		if ch == '.' && !seenDot {
			seenDot = true
			p.pos++
			continue
		}
		break
	}
	literal := p.input[start:p.pos]
	if literal == "" || literal == "." {
		return decimal.Zero, fmt.Errorf("invalid number at position %d", start)
	}
	v, err := decimal.NewFromString(literal)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid number %q: %w", literal, err)
	}
	return v, nil
}

// formatResult rounds to four decimal places and trims trailing zeros, so
// 10/4 renders as 2.5 and 10/3 as 3.3333.
func formatResult(v decimal.Decimal) string {
	s := v.Round(4).String()
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}
