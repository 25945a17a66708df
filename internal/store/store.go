package store

import "context"

// Store is the world database the engine reads and mutates. Implementations
// live in the postgres and sqlite subpackages; tests use in-package mocks.
type Store interface {
	Close(ctx context.Context) error
	EnsureSchema(ctx context.Context) error

	// List returns every document of the given kind. Get returns nil, nil
	// when no document with the id exists.
	List(ctx context.Context, kind Kind) ([]*Record, error)
	Get(ctx context.Context, kind Kind, id string) (*Record, error)

	// Create inserts the record, replacing any existing document with the
	// same kind and id. A blank id is assigned by the implementation.
	Create(ctx context.Context, rec *Record) error

	// Update merges the given fields (keyed by JSON tag name) into the
	// stored document.
	Update(ctx context.Context, rec *Record, fields map[string]any) error
	Delete(ctx context.Context, rec *Record) error

	// Embedded children are only ever mutated through their parent.
	UpdateEmbedded(ctx context.Context, parent *Record, kind EmbeddedKind, updates []EmbeddedUpdate) error
	DeleteEmbedded(ctx context.Context, parent *Record, kind EmbeddedKind, ids []string) error

	// GetCompendium returns nil, nil when no compendium with the key exists.
	GetCompendium(ctx context.Context, key string) (*Compendium, error)
	CreateCompendium(ctx context.Context, meta CompendiumMeta) (*Compendium, error)
	ImportToCompendium(ctx context.Context, comp *Compendium, rec *Record) error
}
