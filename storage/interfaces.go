package storage

import (
	"context"

	"github.com/poiesic/particula/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close releases resources held by the repository.
	Close() error
}

// EntityRepository stores catalog entities in binary form.
type EntityRepository interface {
	Repository

	// PutEntities stores entities, replacing any stored under the same ID.
	PutEntities(ctx context.Context, entities ...*core.Entity) error

	// GetEntity retrieves a single entity by ID.
	// Returns ErrNotFound if the entity doesn't exist.
	GetEntity(ctx context.Context, id core.ID) (*core.Entity, error)

	// GetEntities retrieves multiple entities by their IDs.
	// Returns only the entities that exist (no error for missing ones).
	GetEntities(ctx context.Context, ids ...core.ID) ([]*core.Entity, error)

	// ListIDs returns every stored ID in ascending order.
	ListIDs(ctx context.Context) ([]core.ID, error)

	// Count returns the number of stored entities.
	Count(ctx context.Context) (int, error)
}

// ArtifactWriter accepts named artifacts.
type ArtifactWriter interface {
	// WriteArtifact stores data under name, replacing any previous value.
	WriteArtifact(ctx context.Context, name string, data []byte) error
}

// ArtifactStore stores named snapshot artifacts.
type ArtifactStore interface {
	Repository
	ArtifactWriter

	// ReadArtifact returns the artifact stored under name.
	// Returns ErrNotFound if there is none.
	ReadArtifact(ctx context.Context, name string) ([]byte, error)

	// ListArtifacts returns every artifact name in ascending order.
	ListArtifacts(ctx context.Context) ([]string, error)
}
