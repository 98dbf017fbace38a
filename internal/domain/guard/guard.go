// Package guard rejects queries containing disallowed terms before any
// other processing happens.
package guard

import (
	"fmt"
	"strings"
)

// bannedTerms covers weapons/explosives and explicit content in the
// service's working languages. Matching is lowercase substring
// containment; punctuation is deliberately kept so multi-word phrases
// match as written.
var bannedTerms = []string{
	"knife", "grenade", "bomb", "how to make a knife",
	"bunuh", "bom", "cara buat bom", "sex", "porn",
}

// Blocked reports whether the message contains a banned term.
func Blocked(message string) bool {
	lower := strings.ToLower(message)
	for _, term := range bannedTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// DeclineMessage renders the fixed safe-decline response pointing to the
// organizer's official channels.
func DeclineMessage(site, support string) string {
	return fmt.Sprintf(
		"Maaf, saya tidak bisa membantu dengan permintaan itu. "+
			"Untuk bantuan resmi, kunjungi **%s** atau hubungi **%s**.",
		site, support,
	)
}
