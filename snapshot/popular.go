package snapshot

import (
	"log/slog"

	"github.com/poiesic/particula/core"
)

// DefaultPopular is the curated list of commonly requested particles, in
// display order.
var DefaultPopular = []core.ID{
	11, -11, 13, -13, 22, 25,
	111, 211, -211,
	2212, -2212, 2112, -2112,
	1, 2, 3, 4, 5, 6,
}

// Lookup finds an entity by identifier.
type Lookup interface {
	Get(id core.ID) (*core.Entity, bool)
}

// Popular resolves ids against the catalog in order. Identifiers that do
// not resolve are logged and left out.
func Popular(catalog Lookup, ids []core.ID, logger *slog.Logger) []core.Summary {
	if logger == nil {
		logger = slog.Default()
	}
	out := make([]core.Summary, 0, len(ids))
	for _, id := range ids {
		e, ok := catalog.Get(id)
		if !ok {
			logger.Warn("popular particle not in catalog", "pdgid", id)
			continue
		}
		out = append(out, e.Summary())
	}
	return out
}
