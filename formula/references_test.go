package formula

import (
	"math"
	"slices"
	"testing"
)

func TestReferences(t *testing.T) {
	refs := map[string][]string{
		"[col1] + [col2] * [col3]": {"col1", "col2", "col3"},
		"2 + 3 * 4":                {},
		"[col1] + [col1]":          {"col1", "col1"},
		"[my col] & [x]]":          {"my col", "x"},
		"[] + [a":                  {},
		`"[quoted]"`:               {"quoted"},
	}
	for formula, expected := range refs {
		actual := References(formula)
		if actual == nil || !slices.Equal(actual, expected) {
			t.Errorf("%s: %v != %v", formula, actual, expected)
		}
	}
}

func TestSubstitute(t *testing.T) {
	ctx := NewContext(map[string]any{
		"n":    4,
		"s":    `a"b`,
		"b":    false,
		"none": nil,
	})
	substitutions := map[string]string{
		"[n] + 1":       "4 + 1",
		"[s]":           `"a\"b"`,
		"[b] or [none]": "false or null",
		"[missing]":     "null",
		"sum([n],[n])":  "sum(4,4)",
	}
	for formula, expected := range substitutions {
		if actual := Substitute(formula, ctx); actual != expected {
			t.Errorf("%s: %s != %s", formula, actual, expected)
		}
	}
}

func TestSubstituteNumbersEvaluate(t *testing.T) {
	ctx := NewContext(map[string]any{
		"tiny": 1e-7,
		"big":  1e21,
		"inf":  math.Inf(1),
		"ninf": math.Inf(-1),
		"nan":  math.NaN(),
		"neg":  -1,
	})
	substitutions := map[string]string{
		"[tiny] * 2": "0.0000001 * 2",
		"[inf] + 1":  "(1/0) + 1",
		"[nan]":      "(0/0)",
	}
	for formula, expected := range substitutions {
		if actual := Substitute(formula, ctx); actual != expected {
			t.Errorf("%s: %s != %s", formula, actual, expected)
		}
	}
	checkFormulas(t, ctx, map[string]string{
		"[tiny] * 2":    "2e-7",
		"[tiny] > 0":    "true",
		"[big] + 0":     "1e+21",
		"[inf] + 1":     "Infinity",
		"[ninf] * 2":    "-Infinity",
		"-[ninf]":       "Infinity",
		"[nan] + 1":     "NaN",
		"2 ^ [neg]":     "0.5",
		`[inf] & ""`:    "Infinity",
		"length([big])": "5",
	})
}
