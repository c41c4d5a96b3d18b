package index

import "errors"

var (
	// ErrAliasConflict is returned when two identifiers claim the same
	// curated alias.
	ErrAliasConflict = errors.New("curated alias claimed by more than one pdgid")

	// ErrEmptyAlias is returned for a curated alias that normalises to "".
	ErrEmptyAlias = errors.New("curated alias is empty")
)
