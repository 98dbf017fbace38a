// Package repository provides runtime access to the persisted bundle
// artifact: loading, the derived sport-contact index, and atomic
// reload.
package repository

import (
	"context"

	"github.com/NicolasThaddeusL/cccup-ai/internal/domain/bundle"
)

// Store exposes the loaded bundle to query-time components. Reads are
// served from an immutable snapshot; Load builds a replacement snapshot
// off to the side and publishes it in one step, so no reader ever
// observes a half-rebuilt index.
type Store interface {
	// Load (re)reads the bundle artifact and swaps in a fresh snapshot.
	// A missing artifact leaves the store empty and is not an error; an
	// unparseable artifact or an unsupported schema version is.
	Load(ctx context.Context) error

	// Bundle returns the decoded bundle of the current snapshot. The
	// returned value must be treated as read-only.
	Bundle(ctx context.Context) *bundle.Bundle

	// Contact returns the indexed contact card for a normalized sport
	// key.
	Contact(ctx context.Context, key string) (bundle.SportContact, bool)

	// Keys returns the indexed sport keys in index insertion order.
	Keys(ctx context.Context) []string

	// Contacts returns the full sport-contact index.
	Contacts(ctx context.Context) map[string]bundle.SportContact

	// Identity returns the creator display string, e.g. "Nicolas TL (2415674)".
	Identity(ctx context.Context) string

	// SchemaVersion returns the schema version of the loaded bundle, or
	// 0 when nothing is loaded.
	SchemaVersion(ctx context.Context) int

	// Loaded reports whether the current snapshot came from a
	// successfully decoded artifact.
	Loaded(ctx context.Context) bool
}
