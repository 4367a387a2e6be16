package formula

import (
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/exp/maps"
)

// Function is a built-in taking already evaluated arguments.
type Function func(args []Value) Value

var functions = map[string]Function{
	"sum":    sum,
	"avg":    avg,
	"min":    minimum,
	"max":    maximum,
	"round":  round,
	"abs":    unary(math.Abs),
	"sqrt":   unary(math.Sqrt),
	"if":     ifThenElse,
	"length": length,
	"upper":  text(strings.ToUpper),
	"lower":  text(strings.ToLower),
}

// Call invokes the built-in named name, ignoring case.
func Call(name string, args []Value) (Value, error) {
	name = strings.ToLower(name)
	f, ok := functions[name]
	if !ok {
		return Value{}, newError(ErrUnknownFunction, "Unknown function: %s", name)
	}
	return f(args), nil
}

// FunctionNames lists the built-ins in alphabetical order.
func FunctionNames() []string {
	names := maps.Keys(functions)
	slices.Sort(names)
	return names
}

// arg returns the i'th argument, or null when it was not passed.
func arg(args []Value, i int) Value {
	if i < len(args) {
		return args[i]
	}
	return NullValue()
}

func total(args []Value) float64 {
	s := float64(0)
	for _, a := range args {
		s += a.Number()
	}
	return s
}

func sum(args []Value) Value {
	return NumberValue(total(args))
}

func avg(args []Value) Value {
	if len(args) == 0 {
		return NumberValue(0)
	}
	return NumberValue(total(args) / float64(len(args)))
}

// minimum of no arguments is +Inf, and any NaN argument makes it NaN.
func minimum(args []Value) Value {
	m := math.Inf(1)
	for _, a := range args {
		m = math.Min(m, a.Number())
	}
	return NumberValue(m)
}

func maximum(args []Value) Value {
	m := math.Inf(-1)
	for _, a := range args {
		m = math.Max(m, a.Number())
	}
	return NumberValue(m)
}

// round rounds halves toward +Inf at the given number of decimals. Negative
// decimals round to tens, hundreds and so on, where a toFixed-based round
// would fail instead.
func round(args []Value) Value {
	v := arg(args, 0).Number()
	decimals := math.Trunc(arg(args, 1).Number())
	if math.IsNaN(decimals) {
		return NumberValue(math.NaN())
	}
	scale := math.Pow(10, decimals)
	r := roundHalfUp(v*scale) / scale
	if decimals >= 0 && decimals <= 100 && !math.IsInf(r, 0) && !math.IsNaN(r) {
		// drop binary noise such as 1.1500000000000001
		r, _ = strconv.ParseFloat(strconv.FormatFloat(r, 'f', int(decimals), 64), 64)
	}
	return NumberValue(r)
}

func roundHalfUp(x float64) float64 {
	r := math.Floor(x)
	if x-r >= 0.5 {
		r++
	}
	return r
}

func unary(f func(float64) float64) Function {
	return func(args []Value) Value {
		return NumberValue(f(arg(args, 0).Number()))
	}
}

func text(f func(string) string) Function {
	return func(args []Value) Value {
		return StringValue(f(arg(args, 0).Text()))
	}
}

// ifThenElse gets both branches already evaluated.
func ifThenElse(args []Value) Value {
	if arg(args, 0).Truthy() {
		return arg(args, 1)
	}
	return arg(args, 2)
}

func length(args []Value) Value {
	return NumberValue(float64(utf8.RuneCountInString(arg(args, 0).Text())))
}
