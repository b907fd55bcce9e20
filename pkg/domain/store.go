package domain

import (
	"context"
	"errors"
)

// ErrNotFound is returned by GetByID when no document carries the given id.
var ErrNotFound = errors.New("document not found")

// ErrNotInitialized is returned by every store operation until the
// connection established at startup has been confirmed with a ping.
var ErrNotInitialized = errors.New("store not initialized")

// Store defines the collection-level operations the API is built on.
// Implementations must be safe for concurrent use; consistency between
// concurrent writes is delegated entirely to the backing database.
type Store interface {
	// Insert stores doc in the named collection and returns the id the
	// store assigned (or the one already present on the document).
	Insert(ctx context.Context, coll string, doc Document) (string, error)

	// FindAll returns every document in the collection. An unknown
	// collection yields an empty slice, not an error.
	FindAll(ctx context.Context, coll string) ([]Document, error)

	// FindSorted returns at most limit documents ordered by sortField,
	// descending when descending is true.
	FindSorted(ctx context.Context, coll, sortField string, descending bool, limit int64) ([]Document, error)

	// GetByID returns the document with the given id, or ErrNotFound.
	// A malformed id is an ordinary error, not ErrNotFound.
	GetByID(ctx context.Context, coll, id string) (Document, error)

	// UpdateByID merges the given fields onto the document with the given
	// id and returns how many documents matched (0 or 1).
	UpdateByID(ctx context.Context, coll, id string, fields Document) (int64, error)

	// DeleteByID removes the document with the given id and returns how
	// many documents were removed (0 or 1).
	DeleteByID(ctx context.Context, coll, id string) (int64, error)

	// Search runs the lesson search: a disjunction of case-insensitive
	// substring matches on subject/description/location and, when q is
	// numeric, exact matches on price/availablespaces. An empty q lists
	// the whole lessons collection.
	Search(ctx context.Context, q string) ([]Document, error)

	// Ping reports whether the backing database is reachable.
	Ping(ctx context.Context) error
}
