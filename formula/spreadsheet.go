package formula

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/xuri/efp"

	"acb/formula-columns/escape"
)

// Spreadsheet function names that are spelled differently here.
var spreadsheetFunctions = map[string]string{
	"AVERAGE": "avg",
	"LEN":     "length",
	"NOT":     "not",
}

var infixOperators = map[string]string{
	"=":  "==",
	"<>": "!=",
}

// FromSpreadsheet rewrites a formula written in spreadsheet syntax, such as
// =IF(total>100, "big", ROUND(total/3, 2)), into this package's syntax.
// Bare names become column references. Cell ranges, arrays and the
// percent operator have no equivalent and are rejected.
func FromSpreadsheet(formula string) (string, error) {
	formula = strings.TrimPrefix(strings.TrimSpace(formula), "=")
	if formula == "" {
		return "", nil
	}
	parser := efp.ExcelParser()
	tokens := parser.Parse(formula)
	log.Printf("Converting spreadsheet formula %s (%d tokens)", formula, len(tokens))
	// the tokenizer puts the leading = back in front of the formula
	if len(tokens) > 0 && tokens[0].TType == efp.TokenTypeOperatorInfix && tokens[0].TValue == "=" {
		tokens = tokens[1:]
	}

	var b strings.Builder
	for _, token := range tokens {
		part, err := renderToken(token)
		if err != nil {
			return "", fmt.Errorf("cannot convert %s: %w", formula, err)
		}
		b.WriteString(part)
	}
	return strings.TrimSpace(b.String()), nil
}

func renderToken(token efp.Token) (string, error) {
	switch token.TType {
	case efp.TokenTypeNoop, efp.TokenTypeWhitespace:
		return "", nil
	case efp.TokenTypeOperand:
		return renderOperand(token)
	case efp.TokenTypeFunction:
		if token.TSubType == efp.TokenSubTypeStop {
			return ")", nil
		}
		if token.TValue == "ARRAY" || token.TValue == "ARRAYROW" {
			return "", errors.New("arrays are not supported")
		}
		name := strings.ToUpper(token.TValue)
		if name == "AND" || name == "OR" {
			return "", fmt.Errorf("unsupported function: %s", name)
		}
		if renamed, ok := spreadsheetFunctions[name]; ok {
			return renamed + "(", nil
		}
		return strings.ToLower(name) + "(", nil
	case efp.TokenTypeSubexpression:
		if token.TSubType == efp.TokenSubTypeStart {
			return "(", nil
		}
		return ")", nil
	case efp.TokenTypeArgument:
		return ", ", nil
	case efp.TokenTypeOperatorPrefix:
		return token.TValue, nil
	case efp.TokenTypeOperatorInfix:
		if token.TSubType == efp.TokenSubTypeIntersection || token.TSubType == efp.TokenSubTypeUnion {
			return "", errors.New("range operators are not supported")
		}
		op := token.TValue
		if renamed, ok := infixOperators[op]; ok {
			op = renamed
		}
		return " " + op + " ", nil
	case efp.TokenTypeOperatorPostfix:
		return "", fmt.Errorf("unsupported operator: %s", token.TValue)
	}
	return "", fmt.Errorf("unexpected token: %s", token.TValue)
}

func renderOperand(token efp.Token) (string, error) {
	switch token.TSubType {
	case efp.TokenSubTypeText:
		return escape.Quote(token.TValue), nil
	case efp.TokenSubTypeLogical:
		return strings.ToLower(token.TValue), nil
	case efp.TokenSubTypeNumber:
		f, err := strconv.ParseFloat(token.TValue, 64)
		if err != nil {
			return "", fmt.Errorf("invalid number: %s", token.TValue)
		}
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	case efp.TokenSubTypeRange:
		if strings.ContainsAny(token.TValue, ":![]$") {
			return "", fmt.Errorf("cell ranges are not supported: %s", token.TValue)
		}
		return "[" + token.TValue + "]", nil
	}
	return "", fmt.Errorf("unsupported operand: %s", token.TValue)
}
