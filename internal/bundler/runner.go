// Package bundler implements the offline build pipeline that merges
// fragment YAML files into the single bundle artifact the service
// loads at runtime: source loading, section merging, creator identity
// enforcement, structural validation, and atomic artifact writing.
package bundler

import (
	"context"

	"github.com/NicolasThaddeusL/cccup-ai/pkg/logger"
)

// Config carries the build CLI inputs.
type Config struct {
	// IndexPath points at the manifest listing the fragment files.
	IndexPath string
	// OutPath is the primary YAML artifact destination.
	OutPath string
	// JSONPath is the secondary machine-readable artifact destination.
	JSONPath string
}

// Result reports a successful build.
type Result struct {
	// Diagnostics are the non-fatal merge warnings, in emission order.
	Diagnostics []string
	// Problems are the validator findings. They do not fail the build.
	Problems []string
	// OutPath and JSONPath are the written artifact paths.
	OutPath  string
	JSONPath string
}

// Run executes the whole build pipeline. Any returned error is fatal
// and means no artifact pair was written.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	log := logger.Named("bundler")

	idx, err := LoadIndex(cfg.IndexPath)
	if err != nil {
		return nil, err
	}

	m := NewMerger(WithSchemaVersion(idx.SchemaVersion))
	for _, src := range idx.Sources {
		if err := m.AddFile(src.Path, src.IsRequired()); err != nil {
			return nil, err
		}
	}

	doc, err := m.Finalize()
	if err != nil {
		return nil, err
	}

	problems := Validate(doc)

	if err := WriteArtifacts(doc, cfg.OutPath, cfg.JSONPath); err != nil {
		return nil, err
	}

	log.Info(ctx, "bundle built",
		logger.String("out", cfg.OutPath),
		logger.String("json", cfg.JSONPath),
		logger.Int("sources", len(idx.Sources)),
		logger.Int("warnings", len(m.Diagnostics())),
		logger.Int("problems", len(problems)),
	)

	return &Result{
		Diagnostics: m.Diagnostics(),
		Problems:    problems,
		OutPath:     cfg.OutPath,
		JSONPath:    cfg.JSONPath,
	}, nil
}
