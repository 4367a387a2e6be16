package formula

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"acb/formula-columns/escape"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindNumber
	KindString
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	}
	return "null"
}

// Value is a cell value: null, number, string or bool. The zero Value is null.
type Value struct {
	kind Kind
	num  float64
	str  string
	b    bool
}

func NullValue() Value {
	return Value{}
}

func NumberValue(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

func StringValue(s string) Value {
	return Value{kind: KindString, str: s}
}

func BoolValue(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// ValueOf wraps a plain Go value. Integers and floats become numbers, nil
// becomes null, and anything else unknown is stored by its %v text.
func ValueOf(v any) Value {
	switch x := v.(type) {
	case nil:
		return NullValue()
	case Value:
		return x
	case float64:
		return NumberValue(x)
	case float32:
		return NumberValue(float64(x))
	case int:
		return NumberValue(float64(x))
	case int32:
		return NumberValue(float64(x))
	case int64:
		return NumberValue(float64(x))
	case uint:
		return NumberValue(float64(x))
	case uint32:
		return NumberValue(float64(x))
	case uint64:
		return NumberValue(float64(x))
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return StringValue(x.String())
		}
		return NumberValue(f)
	case string:
		return StringValue(x)
	case bool:
		return BoolValue(x)
	}
	return StringValue(fmt.Sprint(v))
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Interface returns nil, float64, string or bool.
func (v Value) Interface() any {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindString:
		return v.str
	case KindBool:
		return v.b
	}
	return nil
}

// Number coerces v to a number: null is 0, true is 1, and strings are parsed
// after trimming, with the empty string being 0 and garbage being NaN.
func (v Value) Number() float64 {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindString:
		return parseNumber(v.str)
	case KindBool:
		if v.b {
			return 1
		}
		return 0
	}
	return 0
}

// Text coerces v to its textual form. Null has no text.
func (v Value) Text() string {
	switch v.kind {
	case KindNumber:
		return formatNumber(v.num)
	case KindString:
		return v.str
	case KindBool:
		return strconv.FormatBool(v.b)
	}
	return ""
}

// Truthy reports whether v counts as true in a condition.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNumber:
		return v.num != 0 && !math.IsNaN(v.num)
	case KindString:
		return v.str != ""
	case KindBool:
		return v.b
	}
	return false
}

// Literal renders v as formula source text that evaluates back to v.
// Numbers are never written with an exponent, and NaN and ±Inf become the
// divisions that produce them.
func (v Value) Literal() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindString:
		return escape.Quote(v.str)
	case KindNumber:
		return numberLiteral(v.num)
	}
	return v.Text()
}

func numberLiteral(f float64) string {
	switch {
	case math.IsNaN(f):
		return "(0/0)"
	case math.IsInf(f, 1):
		return "(1/0)"
	case math.IsInf(f, -1):
		return "(-1/0)"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (v Value) String() string {
	if v.kind == KindNull {
		return "null"
	}
	return v.Text()
}

// LooseEqual compares with value equality: numbers and numeric strings are
// equal when they hold the same number, booleans compare as 1 and 0, and null
// equals only null.
func LooseEqual(a, b Value) bool {
	if a.kind == b.kind {
		switch a.kind {
		case KindNumber:
			return a.num == b.num
		case KindString:
			return a.str == b.str
		case KindBool:
			return a.b == b.b
		}
		return true
	}
	if a.kind == KindNull || b.kind == KindNull {
		return false
	}
	if a.kind == KindBool {
		return LooseEqual(NumberValue(a.Number()), b)
	}
	if b.kind == KindBool {
		return LooseEqual(a, NumberValue(b.Number()))
	}
	// one number, one string
	return a.Number() == b.Number()
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == KindNumber && (math.IsNaN(v.num) || math.IsInf(v.num, 0)) {
		return json.Marshal(v.Text())
	}
	return json.Marshal(v.Interface())
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.(type) {
	case nil, float64, string, bool:
		*v = ValueOf(raw)
		return nil
	}
	return fmt.Errorf("unsupported cell value: %s", data)
}

var decimalPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return 0
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			if s[2] == '+' || s[2] == '-' {
				return math.NaN()
			}
			n, ok := new(big.Int).SetString(s[2:], base)
			if !ok {
				return math.NaN()
			}
			f, _ := new(big.Float).SetInt(n).Float64()
			return f
		}
	}
	if !decimalPattern.MatchString(s) {
		return math.NaN()
	}
	// out of range values still come back as ±Inf or 0
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	exp = strings.TrimLeft(exp[1:], "0")
	return mantissa + "e" + sign + exp
}
