package repository

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/NicolasThaddeusL/cccup-ai/internal/domain/bundle"
	"github.com/NicolasThaddeusL/cccup-ai/pkg/logger"
	"github.com/NicolasThaddeusL/cccup-ai/pkg/metrics"
)

// snapshot is one immutable view of the loaded bundle. Readers grab the
// current snapshot once and never see later mutations.
type snapshot struct {
	bundle   *bundle.Bundle
	keys     []string
	contacts map[string]bundle.SportContact
	identity string
	schema   int
	loaded   bool
}

func emptySnapshot() *snapshot {
	return &snapshot{
		bundle:   &bundle.Bundle{},
		contacts: map[string]bundle.SportContact{},
		identity: fmt.Sprintf("%s (%s)", bundle.CreatorName, bundle.CreatorID),
	}
}

// BundleStore implements Store over a YAML artifact on disk.
type BundleStore struct {
	path    string
	current atomic.Pointer[snapshot]
	logger  logger.Logger
}

// Option applies a configuration option to the BundleStore.
type Option func(*BundleStore)

// WithLogger sets a custom logger for the store.
func WithLogger(l logger.Logger) Option {
	return func(s *BundleStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewBundleStore creates a store reading from path. The store starts
// empty; call Load to populate it.
func NewBundleStore(path string, opts ...Option) *BundleStore {
	s := &BundleStore{path: path}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("repository")
	}
	s.current.Store(emptySnapshot())
	return s
}

// Load reads the artifact and atomically publishes a fresh snapshot.
// On any failure the store falls back to an empty snapshot so the
// service keeps serving, degraded.
func (s *BundleStore) Load(ctx context.Context) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		s.current.Store(emptySnapshot())
		if os.IsNotExist(err) {
			s.logger.Warn(ctx, "bundle not found; serving empty", logger.String("path", s.path))
			return nil
		}
		return fmt.Errorf("read bundle %s: %w", s.path, err)
	}

	b, err := bundle.Decode(data)
	if err != nil {
		s.current.Store(emptySnapshot())
		return fmt.Errorf("%w: %s: %v", ErrDecodeBundle, s.path, err)
	}

	if b.Meta.SchemaVersion != bundle.SchemaVersion {
		s.current.Store(emptySnapshot())
		return fmt.Errorf("%w: got %d, want %d", ErrSchemaVersion, b.Meta.SchemaVersion, bundle.SchemaVersion)
	}

	keys, contacts := bundle.BuildContactIndex(b)
	s.current.Store(&snapshot{
		bundle:   b,
		keys:     keys,
		contacts: contacts,
		identity: b.Identity(),
		schema:   b.Meta.SchemaVersion,
		loaded:   true,
	})

	metrics.RecordBundleReload()
	metrics.UpdateIndexedSports(len(keys))
	s.logger.Info(ctx, "bundle loaded",
		logger.String("path", s.path),
		logger.String("creator", b.Identity()),
		logger.Int("sports", len(keys)),
	)
	return nil
}

// Bundle returns the decoded bundle of the current snapshot.
func (s *BundleStore) Bundle(_ context.Context) *bundle.Bundle {
	return s.current.Load().bundle
}

// Contact returns the indexed contact card for a normalized sport key.
func (s *BundleStore) Contact(_ context.Context, key string) (bundle.SportContact, bool) {
	c, ok := s.current.Load().contacts[key]
	return c, ok
}

// Keys returns the indexed sport keys in index insertion order.
func (s *BundleStore) Keys(_ context.Context) []string {
	return s.current.Load().keys
}

// Contacts returns the full sport-contact index.
func (s *BundleStore) Contacts(_ context.Context) map[string]bundle.SportContact {
	return s.current.Load().contacts
}

// Identity returns the creator display string.
func (s *BundleStore) Identity(_ context.Context) string {
	return s.current.Load().identity
}

// SchemaVersion returns the loaded schema version, or 0 when empty.
func (s *BundleStore) SchemaVersion(_ context.Context) int {
	return s.current.Load().schema
}

// Loaded reports whether a bundle is currently loaded.
func (s *BundleStore) Loaded(_ context.Context) bool {
	return s.current.Load().loaded
}
