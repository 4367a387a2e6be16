package formula

import (
	"testing"
)

func checkTokens(t *testing.T, expr string, expected []Token) {
	actual := Tokenize(expr)
	if len(actual) != len(expected) {
		t.Errorf("%s: %v != %v", expr, actual, expected)
		return
	}
	for i := range expected {
		if actual[i] != expected[i] {
			t.Errorf("%s: token %d: %v != %v", expr, i, actual[i], expected[i])
		}
	}
}

func TestTokenizeOperators(t *testing.T) {
	checkTokens(t, "1 <= 2 != 3", []Token{
		{TokenNumber, "1"},
		{TokenOperator, "<="},
		{TokenNumber, "2"},
		{TokenOperator, "!="},
		{TokenNumber, "3"},
	})
	checkTokens(t, "a>=1&b==2", []Token{
		{TokenIdent, "a"},
		{TokenOperator, ">="},
		{TokenNumber, "1"},
		{TokenOperator, "&"},
		{TokenIdent, "b"},
		{TokenOperator, "=="},
		{TokenNumber, "2"},
	})
	checkTokens(t, "x!y", []Token{
		{TokenIdent, "x"},
		{TokenOperator, "!"},
		{TokenIdent, "y"},
	})
	checkTokens(t, "= =", []Token{
		{TokenOperator, "="},
		{TokenOperator, "="},
	})
}

func TestTokenizeCall(t *testing.T) {
	checkTokens(t, "sum(1, -2.5)^2", []Token{
		{TokenIdent, "sum"},
		{TokenLeftParen, "("},
		{TokenNumber, "1"},
		{TokenComma, ","},
		{TokenOperator, "-"},
		{TokenNumber, "2.5"},
		{TokenRightParen, ")"},
		{TokenOperator, "^"},
		{TokenNumber, "2"},
	})
}

func TestTokenizeStrings(t *testing.T) {
	checkTokens(t, `"a b" & 'c'`, []Token{
		{TokenString, `"a b"`},
		{TokenOperator, "&"},
		{TokenString, `'c'`},
	})
	checkTokens(t, `"say \"hi\""`, []Token{
		{TokenString, `"say \"hi\""`},
	})
	checkTokens(t, `"it's"`, []Token{
		{TokenString, `"it's"`},
	})
	checkTokens(t, `ab"cd"`, []Token{
		{TokenIdent, "ab"},
		{TokenString, `"cd"`},
	})
	checkTokens(t, `1 & "open`, []Token{
		{TokenNumber, "1"},
		{TokenOperator, "&"},
		{TokenUnterminated, `"open`},
	})
}

func TestTokenizeWords(t *testing.T) {
	checkTokens(t, " 12.5\tabc_1  1.2.3 # 3. ", []Token{
		{TokenNumber, "12.5"},
		{TokenIdent, "abc_1"},
		{TokenWord, "1.2.3"},
		{TokenWord, "#"},
		{TokenNumber, "3."},
	})
	checkTokens(t, "", nil)
	checkTokens(t, "   ", nil)
}
