// Package answer renders deterministic contact answers and the grounding
// context block handed to the generative fallback.
package answer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/NicolasThaddeusL/cccup-ai/internal/domain/bundle"
)

// Organizer identifies the official site and support contact referenced
// in every rendered answer.
type Organizer struct {
	Site    string
	Support string
}

// Contact renders the deterministic answer for an indexed competition.
// Line order is fixed: header, SMA, SMP, closing. Absent levels are
// omitted entirely.
func Contact(c bundle.SportContact, org Organizer) string {
	lines := []string{fmt.Sprintf("Untuk lomba **%s**, berikut kontak resmi:", c.Name)}
	if c.SMA != "" {
		lines = append(lines, fmt.Sprintf("- **SMA**: %s", c.SMA))
	}
	if c.SMP != "" {
		lines = append(lines, fmt.Sprintf("- **SMP**: %s", c.SMP))
	}
	lines = append(lines, fmt.Sprintf(
		"\nJika data tidak terbarui, silakan kunjungi **%s** atau hubungi support **%s**.",
		org.Site, org.Support,
	))
	return strings.Join(lines, "\n")
}

// titleCase capitalizes each underscore- or space-separated word of a
// schedule key used as a fallback heading.
func titleCase(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool { return r == '_' || r == ' ' })
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// registrationEmpty reports whether a registration record carries no
// renderable data, e.g. decoded from an explicitly empty mapping.
func registrationEmpty(reg *bundle.Registration) bool {
	return reg.Method == "" && reg.Cost == "" && reg.Deadline == "" &&
		reg.Contacts.SMA == nil && reg.Contacts.SMP == nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// ContextBlock assembles the grounding document for the generative
// fallback: overview, registration, schedule lines, creator
// attribution, the full structured contact index, and a closing line.
// Its completeness bounds what the generative step can know.
func ContextBlock(b *bundle.Bundle, identity string, keys []string, contacts map[string]bundle.SportContact, org Organizer) string {
	lines := []string{"# Basis Data (Ringkas)"}

	if ov := b.FAQ.Overview; ov != nil && ov.Description != "" {
		lines = append(lines, "## Tentang CC Cup 2025", ov.Description)
	}

	if reg := b.FAQ.Pendaftaran; reg != nil && !registrationEmpty(reg) {
		lines = append(lines,
			"## Pendaftaran",
			fmt.Sprintf("Metode: %s", orDash(reg.Method)),
			fmt.Sprintf("Biaya: %s", orDash(string(reg.Cost))),
			fmt.Sprintf("Batas: %s", orDash(string(reg.Deadline))),
		)
		smp := reg.Contacts.SMP
		sma := reg.Contacts.SMA
		if (smp != nil && smp.Phone != "") || (sma != nil && sma.Phone != "") {
			lines = append(lines, "Kontak pendaftaran:")
			if smp != nil && smp.Phone != "" {
				name := smp.Name
				if name == "" {
					name = "SMP"
				}
				lines = append(lines, fmt.Sprintf("- SMP: %s %s", name, smp.Phone))
			}
			if sma != nil && sma.Phone != "" {
				name := sma.Name
				if name == "" {
					name = "SMA"
				}
				lines = append(lines, fmt.Sprintf("- SMA: %s %s", name, sma.Phone))
			}
		}
	}

	for _, sid := range b.Schedule.Keys {
		s := b.Schedule.Entries[sid]
		head := s.Name
		if head == "" {
			head = titleCase(sid)
		}
		date := string(s.Date)
		if date == "" {
			date = string(s.Deadline)
		}
		row := fmt.Sprintf("%s: %s", head, orDash(date))
		if s.Time != "" {
			row += fmt.Sprintf(", %s", s.Time)
		}
		if s.Location != "" {
			row += fmt.Sprintf(", %s", s.Location)
		}
		lines = append(lines, row)
	}

	lines = append(lines, "## Pembuat", fmt.Sprintf("Chatbot ini dibuat oleh **%s**.", identity))

	if len(keys) > 0 {
		lines = append(lines, "## Kontak (Terstruktur)")
		for _, k := range keys {
			c := contacts[k]
			lines = append(lines, fmt.Sprintf("### %s", c.Name))
			if c.SMA != "" {
				lines = append(lines, fmt.Sprintf("- **SMA**: %s", c.SMA))
			}
			if c.SMP != "" {
				lines = append(lines, fmt.Sprintf("- **SMP**: %s", c.SMP))
			}
		}
	}

	lines = append(lines, fmt.Sprintf(
		"\nSemua informasi resmi ada di **%s**. Jika data tidak terbarui, hubungi support: **%s**.",
		org.Site, org.Support,
	))
	return strings.Join(lines, "\n\n")
}
