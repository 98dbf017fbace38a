package bundler

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/NicolasThaddeusL/cccup-ai/internal/domain/bundle"
)

// Index is the manifest listing the fragment files to merge.
type Index struct {
	SchemaVersion int         `yaml:"schema_version"`
	Sources       []SourceRef `yaml:"sources"`
}

// SourceRef is one manifest entry. Sources are required unless the
// manifest says otherwise.
type SourceRef struct {
	Path     string `yaml:"path"`
	Required *bool  `yaml:"required"`
}

// IsRequired reports whether a missing source aborts the build.
func (s SourceRef) IsRequired() bool {
	return s.Required == nil || *s.Required
}

// LoadIndex reads and parses the manifest. A missing manifest or an
// empty source list is fatal.
func LoadIndex(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrIndexNotFound, path)
		}
		return nil, fmt.Errorf("read index %s: %w", path, err)
	}
	idx := Index{SchemaVersion: bundle.SchemaVersion}
	if err := yaml.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("parse index %s: %w", path, err)
	}
	if len(idx.Sources) == 0 {
		return nil, ErrNoSources
	}
	return &idx, nil
}
