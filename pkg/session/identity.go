package session

import (
	"regexp"
	"strings"
)

// identityPrefix starts the only machine-parsed line of a generated script.
const identityPrefix = "session_name="

var identityPattern = regexp.MustCompile(`(?m)^session_name=(.*)$`)

// ExtractIdentity returns the trimmed value of the first identity line in
// text, or "" when there is none.
func ExtractIdentity(text string) string {
	m := identityPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// RewriteIdentity replaces the value of the first identity line with name.
// Every other line, including references to $session_name, is kept as is.
// Text without an identity line is returned unchanged.
func RewriteIdentity(text, name string) string {
	loc := identityPattern.FindStringIndex(text)
	if loc == nil {
		return text
	}
	return text[:loc[0]] + identityPrefix + name + text[loc[1]:]
}

// HasIdentity reports whether text carries a non-empty identity line.
func HasIdentity(text string) bool {
	return ExtractIdentity(text) != ""
}
