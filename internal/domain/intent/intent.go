// Package intent classifies free-text queries and resolves them to
// indexed sport keys using deterministic token matching.
package intent

import (
	"regexp"
	"strings"
)

// contactHints are the phrase fragments that mark a query as
// contact-seeking. Matching is substring containment over the
// normalized query.
var contactHints = []string{
	"kontak", "hubungi", "narahubung", "nomor", "no telp", "no hp",
	"cp", "contact", "siapa yang saya hubungi",
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9\s]`)

// Normalize lowercases the text and replaces every character outside
// [a-z0-9] and whitespace with a space, preserving token boundaries.
func Normalize(s string) string {
	return nonAlnum.ReplaceAllString(strings.ToLower(s), " ")
}

// IsContactIntent reports whether the query is asking for a contact.
func IsContactIntent(query string) bool {
	nq := Normalize(query)
	for _, h := range contactHints {
		if strings.Contains(nq, h) {
			return true
		}
	}
	return false
}

// MatchSport resolves the query to the first indexed sport key whose
// tokens all appear in the normalized query. Keys are checked in index
// order; token order within the query does not matter. Returns false
// when no key fully matches.
func MatchSport(query string, keys []string) (string, bool) {
	nq := Normalize(query)
	for _, key := range keys {
		tokens := strings.Fields(key)
		if len(tokens) == 0 {
			continue
		}
		all := true
		for _, t := range tokens {
			if !strings.Contains(nq, t) {
				all = false
				break
			}
		}
		if all {
			return key, true
		}
	}
	return "", false
}
