// Package domain implements the query-tree scanning and rewriting logic.
package domain

import (
	"regexp"
	"strings"

	m "github.com/fleetops/queryfix/internal/model"
)

// platformLinePattern captures the indentation+key prefix and the raw value
// of a platform line. The key may open a sequence item ("- platform: x").
// Trailing whitespace is excluded from the value.
var platformLinePattern = regexp.MustCompile(`^(\s*(?:- )?` + m.PlatformKey + `:\s*)(.*?)[ \t]*$`)

// matchPlatformLine splits a line into its key prefix and platform value.
// Lines that do not carry the platform key return ok=false.
func matchPlatformLine(line string) (prefix, value string, ok bool) {
	groups := platformLinePattern.FindStringSubmatch(line)
	if groups == nil {
		return "", "", false
	}

	return groups[1], groups[2], true
}

// splitPlatformTokens breaks a platform value into its comma-separated
// tokens. Surrounding quotes on the whole value are ignored.
func splitPlatformTokens(value string) []string {
	value = strings.TrimSpace(value)
	value = strings.Trim(value, `"'`)

	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	tokens := make([]string, 0, len(parts))

	for _, part := range parts {
		token := strings.TrimSpace(part)
		if token != "" {
			tokens = append(tokens, token)
		}
	}

	return tokens
}

// isAllowedValue reports whether every token of the value is a member of the
// platform allowlist. An empty value is not allowed.
func isAllowedValue(value string) bool {
	tokens := splitPlatformTokens(value)
	if len(tokens) == 0 {
		return false
	}

	for _, token := range tokens {
		if _, ok := m.AllowedPlatforms[token]; !ok {
			return false
		}
	}

	return true
}
