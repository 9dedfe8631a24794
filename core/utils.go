package core

import "strings"

// CleanString trims all leading and trailing whitespace in `s` and optionally uppers it.
// Outcome codes are matched case-sensitively, so ingestion uppercases them once here.
func CleanString(s string, upper ...bool) string {
	s = strings.TrimSpace(s)
	if len(upper) > 0 && upper[0] {
		return strings.ToUpper(s)
	}
	return s
}
