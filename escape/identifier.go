package escape

import (
	"fmt"
	"strings"
)

// Identifier double-quotes each dot-separated part of a SQL identifier.
// Parts containing a double quote are refused rather than escaped.
func Identifier(identifier string) (string, error) {
	parts := strings.Split(identifier, ".")
	escaped := []string{}
	for _, part := range parts {
		if part == "" || strings.Contains(part, "\"") {
			return "", fmt.Errorf("Illegal identifier: %s", identifier)
		}
		escaped = append(escaped, fmt.Sprintf("\"%s\"", part))
	}
	return strings.Join(escaped, "."), nil
}
