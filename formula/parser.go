package formula

import (
	"math"
	"strconv"
	"strings"

	"acb/formula-columns/escape"
)

// parser evaluates tokens directly while it parses them. Each level parses
// its operands with the next tighter level and loops on its own operators.
// The cursor only moves forward.
type parser struct {
	tokens []Token
	pos    int
}

// evaluate parses and evaluates a formula whose references have already
// been substituted.
func evaluate(expr string) (Value, error) {
	p := parser{tokens: Tokenize(strings.TrimSpace(expr))}
	v, err := p.parseOr()
	if err != nil {
		return Value{}, err
	}
	if tok, ok := p.peek(); ok {
		return Value{}, newError(ErrUnexpectedToken, "Unexpected token: %s", tok.Text)
	}
	return v, nil
}

func (p *parser) peek() (Token, bool) {
	if p.pos >= len(p.tokens) {
		return Token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) peekKind(kind TokenKind) bool {
	tok, ok := p.peek()
	return ok && tok.Kind == kind
}

// peekKeyword matches identifier-shaped keywords such as "and" and "not".
func (p *parser) peekKeyword(word string) bool {
	tok, ok := p.peek()
	return ok && tok.Kind == TokenIdent && tok.Text == word
}

// peekOperator returns the operator at the cursor if it is one of ops.
func (p *parser) peekOperator(ops ...string) (string, bool) {
	tok, ok := p.peek()
	if !ok || tok.Kind != TokenOperator {
		return "", false
	}
	for _, op := range ops {
		if tok.Text == op {
			return op, true
		}
	}
	return "", false
}

func (p *parser) next() Token {
	tok := p.tokens[p.pos]
	p.pos++
	return tok
}

func (p *parser) parseOr() (Value, error) {
	left, err := p.parseAnd()
	if err != nil {
		return Value{}, err
	}
	for p.peekKeyword("or") {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return Value{}, err
		}
		if !left.Truthy() {
			left = right
		}
	}
	return left, nil
}

func (p *parser) parseAnd() (Value, error) {
	left, err := p.parseComparison()
	if err != nil {
		return Value{}, err
	}
	for p.peekKeyword("and") {
		p.next()
		right, err := p.parseComparison()
		if err != nil {
			return Value{}, err
		}
		if left.Truthy() {
			left = right
		}
	}
	return left, nil
}

// parseComparison takes at most one comparison operator; comparisons do not
// chain.
func (p *parser) parseComparison() (Value, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return Value{}, err
	}
	op, ok := p.peekOperator("==", "!=", ">", "<", ">=", "<=")
	if !ok {
		return left, nil
	}
	p.next()
	right, err := p.parseAdditive()
	if err != nil {
		return Value{}, err
	}
	switch op {
	case "==":
		return BoolValue(LooseEqual(left, right)), nil
	case "!=":
		return BoolValue(!LooseEqual(left, right)), nil
	case ">":
		return BoolValue(left.Number() > right.Number()), nil
	case "<":
		return BoolValue(left.Number() < right.Number()), nil
	case ">=":
		return BoolValue(left.Number() >= right.Number()), nil
	}
	return BoolValue(left.Number() <= right.Number()), nil
}

func (p *parser) parseAdditive() (Value, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return Value{}, err
	}
	for {
		op, ok := p.peekOperator("+", "-", "&")
		if !ok {
			return left, nil
		}
		p.next()
		right, err := p.parseMultiplicative()
		if err != nil {
			return Value{}, err
		}
		switch op {
		case "+":
			left = NumberValue(left.Number() + right.Number())
		case "-":
			left = NumberValue(left.Number() - right.Number())
		case "&":
			left = StringValue(left.Text() + right.Text())
		}
	}
}

func (p *parser) parseMultiplicative() (Value, error) {
	left, err := p.parseExponential()
	if err != nil {
		return Value{}, err
	}
	for {
		op, ok := p.peekOperator("*", "/", "%")
		if !ok {
			return left, nil
		}
		p.next()
		right, err := p.parseExponential()
		if err != nil {
			return Value{}, err
		}
		switch op {
		case "*":
			left = NumberValue(left.Number() * right.Number())
		case "/":
			left = NumberValue(left.Number() / right.Number())
		case "%":
			left = NumberValue(math.Mod(left.Number(), right.Number()))
		}
	}
}

// parseExponential recurses into itself for the right operand, which makes
// ^ right-associative.
func (p *parser) parseExponential() (Value, error) {
	left, err := p.parseUnary()
	if err != nil {
		return Value{}, err
	}
	if _, ok := p.peekOperator("^"); !ok {
		return left, nil
	}
	p.next()
	right, err := p.parseExponential()
	if err != nil {
		return Value{}, err
	}
	return NumberValue(pow(left.Number(), right.Number())), nil
}

func (p *parser) parseUnary() (Value, error) {
	if p.peekKeyword("not") {
		p.next()
		v, err := p.parseUnary()
		if err != nil {
			return Value{}, err
		}
		return BoolValue(!v.Truthy()), nil
	}
	if op, ok := p.peekOperator("-", "+"); ok {
		p.next()
		v, err := p.parseUnary()
		if err != nil {
			return Value{}, err
		}
		if op == "-" {
			return NumberValue(-v.Number()), nil
		}
		return NumberValue(v.Number()), nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Value, error) {
	tok, ok := p.peek()
	if !ok {
		return Value{}, newError(ErrUnexpectedEnd, "Unexpected end of expression")
	}

	switch tok.Kind {
	case TokenLeftParen:
		p.next()
		v, err := p.parseOr()
		if err != nil {
			return Value{}, err
		}
		if !p.peekKind(TokenRightParen) {
			return Value{}, newError(ErrMissingParen, "Expected closing parenthesis")
		}
		p.next()
		return v, nil
	case TokenNumber:
		p.next()
		// the lexer only tags digit runs as numbers; overflow comes back as Inf
		f, _ := strconv.ParseFloat(tok.Text, 64)
		return NumberValue(f), nil
	case TokenString:
		p.next()
		return StringValue(escape.Unquote(tok.Text)), nil
	case TokenIdent:
		if p.pos+1 < len(p.tokens) && p.tokens[p.pos+1].Kind == TokenLeftParen {
			return p.parseFunction()
		}
		switch tok.Text {
		case "true":
			p.next()
			return BoolValue(true), nil
		case "false":
			p.next()
			return BoolValue(false), nil
		case "null":
			p.next()
			return NullValue(), nil
		}
	}
	return Value{}, newError(ErrUnexpectedToken, "Unexpected token: %s", tok.Text)
}

func (p *parser) parseFunction() (Value, error) {
	name := strings.ToLower(p.next().Text)
	p.next() // (

	args := []Value{}
	if !p.peekKind(TokenRightParen) {
		for {
			arg, err := p.parseOr()
			if err != nil {
				return Value{}, err
			}
			args = append(args, arg)
			if !p.peekKind(TokenComma) {
				break
			}
			p.next()
		}
	}

	if !p.peekKind(TokenRightParen) {
		return Value{}, newError(ErrMissingParen, "Expected closing parenthesis for function")
	}
	p.next()

	return Call(name, args)
}

// pow differs from math.Pow where the result is undefined: a NaN exponent,
// or a base of ±1 raised to an infinite power, gives NaN.
func pow(x, y float64) float64 {
	if math.IsNaN(y) || (math.Abs(x) == 1 && math.IsInf(y, 0)) {
		return math.NaN()
	}
	return math.Pow(x, y)
}
