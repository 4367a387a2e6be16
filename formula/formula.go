// Package formula evaluates spreadsheet-style formulas over the values of the
// other cells in a row.
//
// A formula such as
//
//	if([done], "yes", round([hours] * 1.5, 1) & " h")
//
// supports arithmetic (+ - * / % ^), comparison (== != > < >= <=), string
// concatenation (&), the keywords and, or, not, true, false, null, and a
// fixed set of functions. Column keys in square brackets are replaced with
// the column's current value before the formula is parsed.
//
// Evaluation is pure: it reads only its arguments, keeps no state between
// calls and is safe for concurrent use.
package formula

import (
	"log"
	"strings"
)

// Context carries the current values of the cells a formula may reference.
type Context struct {
	ColumnValues map[string]Value
}

// NewContext converts plain values (see ValueOf) into a Context.
func NewContext(values map[string]any) Context {
	ctx := Context{ColumnValues: make(map[string]Value, len(values))}
	for key, v := range values {
		ctx.ColumnValues[key] = ValueOf(v)
	}
	return ctx
}

// Result is either a Value or the failure that prevented one.
type Result struct {
	Value Value
	Err   error
}

// Display returns nil, float64, string or bool, with failures turned into
// "Error: <message>" strings.
func (r Result) Display() any {
	if r.Err != nil {
		return ErrorText(r.Err.Error())
	}
	return r.Value.Interface()
}

// AsValue is like Display but stays a Value, for storing as a cell value.
func (r Result) AsValue() Value {
	if r.Err != nil {
		return StringValue(ErrorText(r.Err.Error()))
	}
	return r.Value
}

// String renders the result as cell text.
func (r Result) String() string {
	return r.AsValue().Text()
}

// Evaluate computes a formula against ctx. An empty or blank formula is null,
// not a failure.
func Evaluate(formula string, ctx Context) Result {
	if strings.TrimSpace(formula) == "" {
		return Result{}
	}
	v, err := evaluate(Substitute(formula, ctx))
	if err != nil {
		log.Printf("Formula evaluation error: %s (%s)", err, formula)
		return Result{Err: err}
	}
	return Result{Value: v}
}

// EvaluateFormula is Evaluate with the result flattened to a plain value:
// nil, float64, string, bool, or an "Error: ..." string.
func EvaluateFormula(formula string, ctx Context) any {
	return Evaluate(formula, ctx).Display()
}
