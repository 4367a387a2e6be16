package escape

import (
	"testing"
)

func expectSuccess(t *testing.T, actual, expected string) {
	if actual != expected {
		t.Errorf("%s != %s", actual, expected)
	}
}

func TestQuote(t *testing.T) {
	expectSuccess(t, Quote("foo"), `"foo"`)
	expectSuccess(t, Quote(`say "hi"`), `"say \"hi\""`)
	expectSuccess(t, Quote(`C:\tmp\`), `"C:\\tmp\\"`)
	expectSuccess(t, Quote(""), `""`)
}

func TestIsQuoted(t *testing.T) {
	good := []string{`"foo"`, `'foo'`, `""`, `"a\"b"`, `"a\\"`}
	for _, literal := range good {
		if !IsQuoted(literal) {
			t.Error(literal)
		}
	}

	bad := []string{`"foo`, `'foo"`, `"a\"`, `foo`, `"`, ``, `"a"b"`}
	for _, literal := range bad {
		if IsQuoted(literal) {
			t.Error(literal)
		}
	}
}

func TestClosingIndex(t *testing.T) {
	if i := ClosingIndex(`"ab" & "c"`); i != 3 {
		t.Errorf("%d != 3", i)
	}
	if i := ClosingIndex(`"a\"b`); i != -1 {
		t.Errorf("%d != -1", i)
	}
	if i := ClosingIndex(`'it"s'`); i != 5 {
		t.Errorf("%d != 5", i)
	}
}

func TestUnquoteRoundTrip(t *testing.T) {
	raws := []string{"", "foo", `say "hi"`, `back\slash`, `trailing\`, `'single'`}
	for _, raw := range raws {
		expectSuccess(t, Unquote(Quote(raw)), raw)
	}

	expectSuccess(t, Unquote(`'it\'s'`), "it's")
	expectSuccess(t, Unquote("bare"), "bare")
}
