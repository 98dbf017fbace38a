package bundler

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Validate runs structural sanity checks over the finalized bundle
// document and returns one problem string per violation. Problems are
// reported, not fatal: the build still succeeds.
func Validate(doc *yaml.Node) []string {
	var problems []string

	// contacts.phone.number_e164 must be E.164, i.e. start with '+'.
	if phone := mapGet(mapGet(doc, "contacts"), "phone"); phone != nil && phone.Kind == yaml.MappingNode {
		if num, ok := scalarValue(mapGet(phone, "number_e164")); ok && !strings.HasPrefix(num, "+") {
			problems = append(problems, "contacts.phone.number_e164 must start with '+' (E.164 format)")
		}
	}

	// schedule.*.date must stay lexical text (YYYY-MM-DD), never a
	// parsed timestamp or number.
	if schedule := mapGet(doc, "schedule"); schedule != nil && schedule.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(schedule.Content); i += 2 {
			sid := schedule.Content[i].Value
			entry := schedule.Content[i+1]
			if entry.Kind != yaml.MappingNode {
				continue
			}
			if date := mapGet(entry, "date"); date != nil {
				if date.Kind != yaml.ScalarNode || date.ShortTag() != "!!str" {
					problems = append(problems, fmt.Sprintf("schedule.%s.date must be string YYYY-MM-DD", sid))
				}
			}
		}
	}

	return problems
}
