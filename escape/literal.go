// This file is part of Relational Sheets.
//
// Relational Sheets is free software: you can redistribute it and/or modify it under the
// terms of the GNU Affero General Public License as published by the Free Software Foundation,
// either version 3 of the License, or (at your option) any later version.
//
// Relational Sheets is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU General Public License along with Relational Sheets.
// If not, see https://www.gnu.org/licenses/agpl-3.0.html
package escape

import (
	"strings"
)

const escapeChar = '\\'

func isDelimiter(r byte) bool {
	return r == '"' || r == '\''
}

// Quote turns raw text into a double-quoted formula literal.
func Quote(raw string) string {
	var b strings.Builder
	b.Grow(len(raw) + 2)
	b.WriteByte('"')
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c == '"' || c == escapeChar {
			b.WriteByte(escapeChar)
		}
		b.WriteByte(c)
	}
	b.WriteByte('"')
	return b.String()
}

// IsQuoted reports whether literal opens and closes with the same delimiter,
// the closing one not being escaped.
func IsQuoted(literal string) bool {
	if len(literal) < 2 || !isDelimiter(literal[0]) {
		return false
	}
	return ClosingIndex(literal) == len(literal)-1
}

// ClosingIndex returns the index of the delimiter closing the literal that
// starts at literal[0], or -1.
func ClosingIndex(literal string) int {
	if literal == "" || !isDelimiter(literal[0]) {
		return -1
	}
	delim := literal[0]
	for i := 1; i < len(literal); i++ {
		switch literal[i] {
		case escapeChar:
			i++
		case delim:
			return i
		}
	}
	return -1
}

// Unquote strips the delimiters of a quoted literal and undoes backslash
// escapes. Text that is not a quoted literal is returned unchanged.
func Unquote(literal string) string {
	if !IsQuoted(literal) {
		return literal
	}
	inner := literal[1 : len(literal)-1]
	if !strings.ContainsRune(inner, escapeChar) {
		return inner
	}
	var b strings.Builder
	b.Grow(len(inner))
	for i := 0; i < len(inner); i++ {
		if inner[i] == escapeChar && i+1 < len(inner) {
			i++
		}
		b.WriteByte(inner[i])
	}
	return b.String()
}
