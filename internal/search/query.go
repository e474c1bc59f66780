package search

import (
	"strings"
)

// NormalizeQuery trims the free-text query and collapses inner whitespace.
// Matching is case-insensitive in the store, so case is preserved here.
func NormalizeQuery(input string) string {
	return strings.Join(strings.Fields(input), " ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LikePattern wraps q for a substring ILIKE match, escaping wildcards so
// user input is matched literally.
func LikePattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}
