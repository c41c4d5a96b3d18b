package catalog

import "errors"

var (
	// ErrDuplicateID is returned when two records share an identifier.
	ErrDuplicateID = errors.New("duplicate pdgid")

	// ErrMissingColumn is returned when the table header lacks a required column.
	ErrMissingColumn = errors.New("missing required column")

	// ErrEmptyCatalog is returned when a source yields no usable entity.
	ErrEmptyCatalog = errors.New("catalog contains no entities")

	// ErrEmptyName is returned for a row without a display name.
	ErrEmptyName = errors.New("empty name")
)
