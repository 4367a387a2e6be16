package formula

import (
	"regexp"
)

// A reference is a column key in square brackets, e.g. [price].
var referencePattern = regexp.MustCompile(`\[([^\]]+)\]`)

// References lists the column keys a formula refers to, left to right and
// with duplicates kept. Nothing is evaluated or validated.
func References(formula string) []string {
	matches := referencePattern.FindAllStringSubmatch(formula, -1)
	refs := make([]string, 0, len(matches))
	for _, m := range matches {
		refs = append(refs, m[1])
	}
	return refs
}

// Substitute replaces every reference with the literal text of its current
// value, so the tokenizer never sees reference syntax. Missing keys become
// null.
func Substitute(formula string, ctx Context) string {
	return referencePattern.ReplaceAllStringFunc(formula, func(match string) string {
		key := match[1 : len(match)-1]
		return ctx.ColumnValues[key].Literal()
	})
}
