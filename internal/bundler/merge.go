package bundler

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/NicolasThaddeusL/cccup-ai/internal/domain/bundle"
)

// creatorEntry records the creator fields one fragment supplied, so the
// identity guard can run after all fragments are merged.
type creatorEntry struct {
	path        string
	name        *string
	id          *string
	description *string
}

// Merger accumulates fragments into a single bundle. It is a build-time
// batch component: strictly sequential, not safe for concurrent use.
type Merger struct {
	schemaVersion int
	now           func() time.Time

	sections     map[string]*yaml.Node
	sectionOrder []string

	sources  []bundle.Source
	files    []fileMeta
	creators []creatorEntry

	diags []string
}

type fileMeta struct {
	path string
	meta *yaml.Node
}

// MergerOption applies a configuration option to the Merger.
type MergerOption func(*Merger)

// WithSchemaVersion overrides the schema version stamped into the
// bundle meta block.
func WithSchemaVersion(v int) MergerOption {
	return func(m *Merger) {
		if v > 0 {
			m.schemaVersion = v
		}
	}
}

// WithClock overrides the build timestamp source. Tests use this to make
// bundle bytes reproducible.
func WithClock(now func() time.Time) MergerOption {
	return func(m *Merger) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMerger creates an empty Merger.
func NewMerger(opts ...MergerOption) *Merger {
	m := &Merger{
		schemaVersion: bundle.SchemaVersion,
		now:           time.Now,
		sections:      make(map[string]*yaml.Node),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Diagnostics returns the non-fatal diagnostics collected so far, in
// emission order.
func (m *Merger) Diagnostics() []string {
	return m.diags
}

func (m *Merger) warnf(format string, args ...any) {
	m.diags = append(m.diags, fmt.Sprintf(format, args...))
}

// AddFile reads, parses, and merges one fragment. A missing required
// file or malformed YAML is fatal; a missing optional file is skipped
// with a diagnostic.
func (m *Merger) AddFile(path string, required bool) error {
	st, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			if required {
				return fmt.Errorf("%w: %s", ErrMissingSource, path)
			}
			m.warnf("Optional source missing, skipping: %s", path)
			return nil
		}
		return fmt.Errorf("stat source %s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read source %s: %w", path, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrParseSource, path, err)
	}

	m.sources = append(m.sources, bundle.Source{Path: path, SizeBytes: st.Size()})

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		// Empty or non-mapping fragment contributes nothing beyond its
		// source record.
		return nil
	}

	// Provenance: copy the fragment's meta block into the bundle meta.
	if meta := mapGet(root, "meta"); meta != nil {
		m.files = append(m.files, fileMeta{path: path, meta: meta})
	}

	for _, section := range bundle.KnownSections {
		node := mapGet(root, section)
		if node == nil {
			continue
		}
		if section == "info" && node.Kind == yaml.MappingNode {
			m.recordCreator(path, node)
		}
		m.mergeSection(section, node)
	}
	return nil
}

// mergeSection merges one fragment section into the bundle section of
// the same name. Duplicate keys overwrite the earlier value and emit a
// diagnostic; a non-mapping section is skipped with a diagnostic.
func (m *Merger) mergeSection(name string, data *yaml.Node) {
	target, ok := m.sections[name]
	if !ok {
		target = newMapNode()
		m.sections[name] = target
		m.sectionOrder = append(m.sectionOrder, name)
	}
	if data.Kind != yaml.MappingNode {
		m.warnf("Section '%s' is not a mapping; skipping merge.", name)
		return
	}
	for i := 0; i+1 < len(data.Content); i += 2 {
		key := data.Content[i].Value
		if mapSet(target, key, data.Content[i+1]) {
			m.warnf("Duplicate key in '%s': %s (overwriting)", name, key)
		}
	}
}

// recordCreator captures the creator fields a fragment's info section
// supplies, for later immutability checking.
func (m *Merger) recordCreator(path string, info *yaml.Node) {
	creator := mapGet(info, "creator")
	if creator == nil || creator.Kind != yaml.MappingNode {
		return
	}
	entry := creatorEntry{path: path}
	if v, ok := scalarValue(mapGet(creator, "name")); ok {
		entry.name = &v
	}
	if v, ok := scalarValue(mapGet(creator, "id")); ok {
		entry.id = &v
	}
	if v, ok := scalarValue(mapGet(creator, "description")); ok {
		entry.description = &v
	}
	m.creators = append(m.creators, entry)
}

// Finalize runs the identity guard, locks the creator constants into
// the bundle, and returns the assembled bundle document as a YAML
// mapping node with meta first and merged sections in first-touched
// order.
func (m *Merger) Finalize() (*yaml.Node, error) {
	if err := m.enforceCreator(); err != nil {
		return nil, err
	}

	meta := bundle.Meta{
		BundleBuilt:   m.now().Format("2006-01-02T15:04:05"),
		SchemaVersion: m.schemaVersion,
		Sources:       m.sources,
		Files:         []map[string]any{},
	}
	metaNode := &yaml.Node{}
	if err := metaNode.Encode(meta); err != nil {
		return nil, fmt.Errorf("encode meta: %w", err)
	}
	// Splice the raw per-file meta nodes in so provenance blocks keep
	// their original shape.
	filesNode := mapGet(metaNode, "files")
	for _, fm := range m.files {
		entry := newMapNode()
		mapSet(entry, fm.path, fm.meta)
		filesNode.Content = append(filesNode.Content, entry)
	}

	doc := newMapNode()
	mapSet(doc, "meta", metaNode)
	for _, name := range m.sectionOrder {
		mapSet(doc, name, m.sections[name])
	}
	return doc, nil
}

// enforceCreator aborts when any fragment tried to change the creator
// name or id, then forces the constants into info.creator. When no
// fragment supplied a description, the first non-empty one seen wins.
func (m *Merger) enforceCreator() error {
	for _, e := range m.creators {
		if e.name != nil && *e.name != bundle.CreatorName {
			return fmt.Errorf("%w: creator.name in %s is immutable and must be %q, got %q",
				ErrIdentity, e.path, bundle.CreatorName, *e.name)
		}
		if e.id != nil && *e.id != bundle.CreatorID {
			return fmt.Errorf("%w: creator.id in %s is immutable and must be %q, got %q",
				ErrIdentity, e.path, bundle.CreatorID, *e.id)
		}
	}

	info, ok := m.sections["info"]
	if !ok {
		info = newMapNode()
		m.sections["info"] = info
		m.sectionOrder = append(m.sectionOrder, "info")
	}
	creator := mapGet(info, "creator")
	if creator == nil || creator.Kind != yaml.MappingNode {
		creator = newMapNode()
		mapSet(info, "creator", creator)
	}
	if mapGet(creator, "description") == nil {
		for _, e := range m.creators {
			if e.description != nil && *e.description != "" {
				mapSet(creator, "description", newStrNode(*e.description))
				break
			}
		}
	}
	mapSet(creator, "name", newStrNode(bundle.CreatorName))
	mapSet(creator, "id", newStrNode(bundle.CreatorID))
	return nil
}
