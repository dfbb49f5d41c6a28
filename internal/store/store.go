// Package store persists per-session dialog attributes.
//
// A session's state is a flat map of string keys to primitive values plus a
// bounded index-keyed working set of content items. The whole map is loaded
// once at turn start and saved once at turn end; there are no partial
// writes. [Attributes] wraps the raw map with typed accessors so the dialog
// layer never touches key names or JSON number coercion directly.
package store

import "context"

// Store loads and saves the full attribute map for a session.
// Implementations must be safe for concurrent use across sessions; the
// platform guarantees at most one in-flight event per session, so no
// per-session locking is required.
type Store interface {
	// LoadAll returns the attributes for sessionID. A session that has never
	// been saved yields an empty, non-nil Attributes and no error.
	LoadAll(ctx context.Context, sessionID string) (Attributes, error)

	// SaveAll replaces the stored attributes for sessionID.
	SaveAll(ctx context.Context, sessionID string, attrs Attributes) error
}
