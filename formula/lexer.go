package formula

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"acb/formula-columns/escape"
)

// TokenKind classifies a token once, at tokenize time.
type TokenKind uint8

const (
	TokenNumber TokenKind = iota
	TokenString
	TokenIdent
	TokenOperator
	TokenLeftParen
	TokenRightParen
	TokenComma
	// TokenWord is a run of characters that is neither a number nor an
	// identifier, e.g. "1.2.3" or "#x".
	TokenWord
	// TokenUnterminated is a string literal missing its closing quote.
	TokenUnterminated
)

var tokenKindNames = []string{
	TokenNumber:       "number",
	TokenString:       "string",
	TokenIdent:        "identifier",
	TokenOperator:     "operator",
	TokenLeftParen:    "(",
	TokenRightParen:   ")",
	TokenComma:        ",",
	TokenWord:         "word",
	TokenUnterminated: "unterminated string",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return "invalid"
}

// Token is a lexical token with the raw text it was cut from.
type Token struct {
	Kind TokenKind
	Text string
}

func (t Token) String() string {
	return fmt.Sprintf("%s<%s>", t.Text, t.Kind)
}

const punctuation = "()+-*/%^<>=!&,"

var twoCharOperators = []string{"==", "!=", ">=", "<="}

var (
	numberPattern = regexp.MustCompile(`^[0-9]+\.?[0-9]*$`)
	identPattern  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

type lexer struct {
	input  string
	pos    int
	start  int
	tokens []Token
}

// Tokenize splits a formula into tokens. Whitespace outside string literals
// separates tokens and is dropped. It never fails: text that cannot be
// classified is handed on as TokenWord or TokenUnterminated for the parser to
// reject.
func Tokenize(expr string) []Token {
	l := lexer{input: expr, start: -1}
	l.run()
	return l.tokens
}

func (l *lexer) run() {
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		switch {
		case r == '"' || r == '\'':
			l.flush()
			l.lexString()
		case unicode.IsSpace(r):
			l.flush()
			l.pos += size
		case strings.ContainsRune(punctuation, r):
			l.flush()
			l.lexPunctuation()
		default:
			if l.start < 0 {
				l.start = l.pos
			}
			l.pos += size
		}
	}
	l.flush()
}

func (l *lexer) emit(kind TokenKind, text string) {
	l.tokens = append(l.tokens, Token{kind, text})
}

// flush ends the pending run of plain characters, if any.
func (l *lexer) flush() {
	if l.start < 0 {
		return
	}
	text := l.input[l.start:l.pos]
	l.start = -1
	switch {
	case numberPattern.MatchString(text):
		l.emit(TokenNumber, text)
	case identPattern.MatchString(text):
		l.emit(TokenIdent, text)
	default:
		l.emit(TokenWord, text)
	}
}

func (l *lexer) lexString() {
	rest := l.input[l.pos:]
	end := escape.ClosingIndex(rest)
	if end < 0 {
		l.emit(TokenUnterminated, rest)
		l.pos = len(l.input)
		return
	}
	l.emit(TokenString, rest[:end+1])
	l.pos += end + 1
}

func (l *lexer) lexPunctuation() {
	if l.pos+1 < len(l.input) {
		pair := l.input[l.pos : l.pos+2]
		for _, op := range twoCharOperators {
			if pair == op {
				l.emit(TokenOperator, pair)
				l.pos += 2
				return
			}
		}
	}
	c := l.input[l.pos : l.pos+1]
	switch c {
	case "(":
		l.emit(TokenLeftParen, c)
	case ")":
		l.emit(TokenRightParen, c)
	case ",":
		l.emit(TokenComma, c)
	default:
		l.emit(TokenOperator, c)
	}
	l.pos++
}
