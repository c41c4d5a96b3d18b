package snapshot

import "errors"

var (
	// ErrCatalogRequired is returned when a catalog is not provided.
	ErrCatalogRequired = errors.New("catalog required")

	// ErrIndexRequired is returned when an alias index is not provided.
	ErrIndexRequired = errors.New("alias index required")

	// ErrSinkRequired is returned when an artifact sink is not provided.
	ErrSinkRequired = errors.New("artifact sink required")

	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrInvalidPoolSize is returned when the worker pool size is < 1.
	ErrInvalidPoolSize = errors.New("pool size must be at least 1")

	// ErrInvalidArtifactName is returned for names that would escape the
	// output location.
	ErrInvalidArtifactName = errors.New("invalid artifact name")
)
