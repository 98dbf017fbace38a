// Package bundle defines the merged data artifact consumed at query time
// and the derived structures built from it.
package bundle

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// SchemaVersion is the single bundle schema this pipeline understands.
const SchemaVersion = 1

// Creator identity constants. Fragments may not override these; only the
// description field under creator is writable.
const (
	CreatorName = "Nicolas TL"
	CreatorID   = "2415674"
)

// KnownSections lists the top-level sections the bundler lifts from
// fragments, in merge order.
var KnownSections = []string{"faq", "competitions", "contacts", "schedule", "info"}

// Scalar decodes any YAML scalar as its literal text. Used for fields
// like creator.id or schedule dates that sources sometimes write as
// bare numbers.
type Scalar string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Scalar) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("expected scalar, got %v", value.Kind)
	}
	*s = Scalar(value.Value)
	return nil
}

// Meta carries bundle provenance.
type Meta struct {
	BundleBuilt   string           `yaml:"bundle_built" json:"bundle_built"`
	SchemaVersion int              `yaml:"schema_version" json:"schema_version"`
	Sources       []Source         `yaml:"sources" json:"sources"`
	Files         []map[string]any `yaml:"files" json:"files"`
}

// Source describes one merged input file.
type Source struct {
	Path      string `yaml:"path" json:"path"`
	SizeBytes int64  `yaml:"size_bytes" json:"size_bytes"`
}

// Creator is the fixed chatbot author identity.
type Creator struct {
	Name        string `yaml:"name"`
	ID          Scalar `yaml:"id"`
	Description string `yaml:"description"`
}

// Info holds general event information.
type Info struct {
	Creator *Creator `yaml:"creator"`
}

// ContactPerson is a named phone contact for one school level.
type ContactPerson struct {
	Name  string `yaml:"name"`
	Phone string `yaml:"phone"`
}

// LevelContacts groups the SMA and SMP contacts of a competition or of
// the registration desk.
type LevelContacts struct {
	SMA *ContactPerson `yaml:"sma"`
	SMP *ContactPerson `yaml:"smp"`
}

// Competition is one entry under the competitions section.
type Competition struct {
	Name     string        `yaml:"name"`
	Contacts LevelContacts `yaml:"contacts"`
}

// ScheduleEntry is one entry under the schedule section.
type ScheduleEntry struct {
	Name     string `yaml:"name"`
	Date     Scalar `yaml:"date"`
	Deadline Scalar `yaml:"deadline"`
	Time     string `yaml:"time"`
	Location string `yaml:"location"`
}

// Overview is the free-text event description under faq.
type Overview struct {
	Description string `yaml:"description"`
}

// Registration describes how to register for the event.
type Registration struct {
	Method   string        `yaml:"method"`
	Cost     Scalar        `yaml:"cost"`
	Deadline Scalar        `yaml:"deadline"`
	Contacts LevelContacts `yaml:"contacts"`
}

// FAQ holds the question-and-answer style sections of the bundle.
type FAQ struct {
	Overview    *Overview     `yaml:"overview"`
	Pendaftaran *Registration `yaml:"pendaftaran"`
}

// Phone is the top-level organizer phone record.
type Phone struct {
	NumberE164 string `yaml:"number_e164"`
}

// Contacts is the top-level contacts section.
type Contacts struct {
	Phone *Phone `yaml:"phone"`
}

func isNullNode(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

// Competitions preserves the document order of the competitions section.
// Order matters: the sport-contact index iterates in insertion order and
// the first fully matching key wins during intent matching.
type Competitions struct {
	Keys    []string
	Entries map[string]Competition
}

// UnmarshalYAML decodes a mapping node keeping key order. A null node
// (a bare `competitions:` key in a hand-edited artifact) decodes as an
// empty section.
func (c *Competitions) UnmarshalYAML(value *yaml.Node) error {
	if isNullNode(value) {
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("competitions: expected mapping, got %v", value.Kind)
	}
	c.Entries = make(map[string]Competition, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key := value.Content[i].Value
		var comp Competition
		if err := value.Content[i+1].Decode(&comp); err != nil {
			return fmt.Errorf("competitions.%s: %w", key, err)
		}
		c.Keys = append(c.Keys, key)
		c.Entries[key] = comp
	}
	return nil
}

// Schedule preserves the document order of the schedule section.
type Schedule struct {
	Keys    []string
	Entries map[string]ScheduleEntry
}

// UnmarshalYAML decodes a mapping node keeping key order, treating a
// null node as an empty section.
func (s *Schedule) UnmarshalYAML(value *yaml.Node) error {
	if isNullNode(value) {
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("schedule: expected mapping, got %v", value.Kind)
	}
	s.Entries = make(map[string]ScheduleEntry, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key := value.Content[i].Value
		var entry ScheduleEntry
		if err := value.Content[i+1].Decode(&entry); err != nil {
			return fmt.Errorf("schedule.%s: %w", key, err)
		}
		s.Keys = append(s.Keys, key)
		s.Entries[key] = entry
	}
	return nil
}

// Bundle is the merged, versioned artifact. It is decoded once per load
// and treated as read-only afterwards.
type Bundle struct {
	Meta         Meta         `yaml:"meta"`
	Info         Info         `yaml:"info"`
	FAQ          FAQ          `yaml:"faq"`
	Competitions Competitions `yaml:"competitions"`
	Contacts     Contacts     `yaml:"contacts"`
	Schedule     Schedule     `yaml:"schedule"`
}

// Decode parses a serialized bundle.
func Decode(data []byte) (*Bundle, error) {
	var b Bundle
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decode bundle: %w", err)
	}
	return &b, nil
}

// Identity renders the creator display string, falling back to the fixed
// constants when the bundle carries no creator record.
func (b *Bundle) Identity() string {
	c := b.Info.Creator
	if c == nil || c.Name == "" || c.ID == "" {
		return fmt.Sprintf("%s (%s)", CreatorName, CreatorID)
	}
	return fmt.Sprintf("%s (%s)", c.Name, c.ID)
}

// NormalizeSportKey converts a competitions key into its index form:
// lowercased, underscores replaced with spaces.
func NormalizeSportKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(key), "_", " ")
}

// SportContact is a derived, in-memory contact card for one competition.
// SMA/SMP hold pre-rendered "name phone" strings, empty when the source
// entry has no phone for that level.
type SportContact struct {
	Name string
	SMA  string
	SMP  string
}

func levelText(p *ContactPerson) string {
	if p == nil || p.Phone == "" {
		return ""
	}
	return fmt.Sprintf("%s %s", p.Name, p.Phone)
}

// BuildContactIndex derives the sport-contact index from the
// competitions section. A competition is indexed only when at least one
// of its SMA/SMP contacts has a phone number. Returned keys preserve
// document order.
func BuildContactIndex(b *Bundle) ([]string, map[string]SportContact) {
	keys := make([]string, 0, len(b.Competitions.Keys))
	contacts := make(map[string]SportContact, len(b.Competitions.Keys))
	for _, key := range b.Competitions.Keys {
		comp := b.Competitions.Entries[key]
		name := comp.Name
		if name == "" {
			name = key
		}
		sma := levelText(comp.Contacts.SMA)
		smp := levelText(comp.Contacts.SMP)
		if sma == "" && smp == "" {
			continue
		}
		nk := NormalizeSportKey(key)
		if _, dup := contacts[nk]; !dup {
			keys = append(keys, nk)
		}
		contacts[nk] = SportContact{Name: name, SMA: sma, SMP: smp}
	}
	return keys, contacts
}
