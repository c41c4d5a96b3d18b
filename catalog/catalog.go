package catalog

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/poiesic/particula/core"
)

// Catalog is the immutable set of loaded entities.
// It is safe for concurrent use; nothing mutates it after construction.
type Catalog struct {
	entities []*core.Entity // ascending ID
	byID     map[core.ID]*core.Entity
}

// New builds a Catalog from already-converted entities.
// Every entity must validate, IDs must be unique and the conjugate relation
// must be symmetric.
func New(entities ...*core.Entity) (*Catalog, error) {
	byID := make(map[core.ID]*core.Entity, len(entities))
	for _, e := range entities {
		if err := core.ValidateEntity(e); err != nil {
			return nil, err
		}
		if _, dup := byID[e.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, e.ID)
		}
		byID[e.ID] = e
	}
	if err := core.CheckConjugates(entities); err != nil {
		return nil, err
	}

	sorted := slices.Clone(entities)
	slices.SortFunc(sorted, func(a, b *core.Entity) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return &Catalog{entities: sorted, byID: byID}, nil
}

// Get returns the entity with the given ID.
// The returned entity is shared and must not be modified.
func (c *Catalog) Get(id core.ID) (*core.Entity, bool) {
	e, ok := c.byID[id]
	return e, ok
}

// Entities returns all entities in ascending ID order.
func (c *Catalog) Entities() []*core.Entity {
	return slices.Clone(c.entities)
}

// Len returns the number of entities.
func (c *Catalog) Len() int {
	return len(c.entities)
}

// Search is the catalog's own generic name search: a case-insensitive
// substring match against display names and LaTeX labels, in ascending ID
// order.
func (c *Catalog) Search(query string) []core.ID {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var ids []core.ID
	for _, e := range c.entities {
		if strings.Contains(strings.ToLower(e.Name), q) || strings.Contains(strings.ToLower(e.Latex), q) {
			ids = append(ids, e.ID)
		}
	}
	return ids
}
