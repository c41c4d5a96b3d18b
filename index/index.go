package index

import (
	"cmp"
	"fmt"
	"iter"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/poiesic/particula/core"
	"golang.org/x/text/unicode/norm"
)

// Normalize returns the lookup form of an alias: NFKC-folded, trimmed and
// lower-cased.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFKC.String(s)))
}

// Entry is one (alias, identifier) pair of the approximate-match corpus.
type Entry struct {
	Alias string
	ID    core.ID
}

// Index maps normalised aliases to the identifiers they denote.
// It is immutable after Build and safe for concurrent use.
type Index struct {
	mapping map[string][]core.ID
	keys    []string
	corpus  []Entry
}

type builder struct {
	logger  *slog.Logger
	curated map[core.ID][]string
}

// Option configures Build.
type Option func(*builder) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *builder) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// WithCuratedAliases replaces the built-in curated alias table.
func WithCuratedAliases(table map[core.ID][]string) Option {
	return func(b *builder) error {
		b.curated = make(map[core.ID][]string, len(table))
		for id, aliases := range table {
			b.curated[id] = slices.Clone(aliases)
		}
		return nil
	}
}

// WithExtraAliases adds curated aliases on top of the current table.
// Extra aliases go through the same conflict check as the built-in ones.
func WithExtraAliases(table map[core.ID][]string) Option {
	return func(b *builder) error {
		for id, aliases := range table {
			if id == 0 {
				return fmt.Errorf("extra aliases: %w", core.ErrZeroID)
			}
			b.curated[id] = append(b.curated[id], aliases...)
		}
		return nil
	}
}

// Build derives the alias index from entities.
//
// Entities are processed in ascending identifier order so the result does
// not depend on the order of the input. Display names and distinct
// descriptive names are registered first. The curated table is applied
// last and replaces whatever natural names mapped to a curated alias.
// Two identifiers claiming the same curated alias fail the build with
// ErrAliasConflict.
func Build(entities []*core.Entity, opts ...Option) (*Index, error) {
	b := &builder{
		logger:  slog.Default(),
		curated: DefaultAliases(),
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}

	sorted := slices.Clone(entities)
	slices.SortFunc(sorted, func(a, b *core.Entity) int {
		return cmp.Compare(a.ID, b.ID)
	})

	idx := &Index{
		mapping: make(map[string][]core.ID, len(sorted)*2),
		corpus:  make([]Entry, 0, len(sorted)*2),
	}
	present := make(map[core.ID]bool, len(sorted))

	for _, e := range sorted {
		present[e.ID] = true

		name := Normalize(e.Name)
		if name != "" {
			idx.register(name, e.ID)
			idx.corpus = append(idx.corpus, Entry{Alias: name, ID: e.ID})
		}

		desc := Normalize(e.DescriptiveName)
		if desc == "" {
			continue
		}
		if desc != name {
			idx.register(desc, e.ID)
		}
		idx.corpus = append(idx.corpus, Entry{Alias: desc, ID: e.ID})
	}

	claims, err := b.curate(idx, present)
	if err != nil {
		return nil, err
	}
	for alias, id := range claims {
		idx.mapping[alias] = []core.ID{id}
	}

	idx.keys = slices.Sorted(maps.Keys(idx.mapping))

	b.logger.Debug("built alias index", "aliases", len(idx.keys), "corpus", len(idx.corpus), "curated", len(claims))
	return idx, nil
}

// curate walks the curated table in ascending identifier order, appends
// every curated alias to the corpus and returns the alias claims.
func (b *builder) curate(idx *Index, present map[core.ID]bool) (map[string]core.ID, error) {
	claims := make(map[string]core.ID)
	for _, id := range slices.Sorted(maps.Keys(b.curated)) {
		if !present[id] {
			b.logger.Debug("skipping curated aliases for unknown pdgid", "pdgid", id)
			continue
		}
		for _, raw := range b.curated[id] {
			alias := Normalize(raw)
			if alias == "" {
				return nil, fmt.Errorf("%w: pdgid %d", ErrEmptyAlias, id)
			}
			if prev, ok := claims[alias]; ok && prev != id {
				return nil, fmt.Errorf("%w: %q claimed by %d and %d", ErrAliasConflict, alias, prev, id)
			}
			claims[alias] = id
			idx.corpus = append(idx.corpus, Entry{Alias: alias, ID: id})
		}
	}
	return claims, nil
}

func (idx *Index) register(alias string, id core.ID) {
	ids := idx.mapping[alias]
	if slices.Contains(ids, id) {
		return
	}
	idx.mapping[alias] = append(ids, id)
}

// Lookup returns the identifiers registered for alias, normalising it
// first. The returned slice is a copy.
func (idx *Index) Lookup(alias string) ([]core.ID, bool) {
	ids, ok := idx.mapping[Normalize(alias)]
	if !ok {
		return nil, false
	}
	return slices.Clone(ids), true
}

// Keys returns every alias in ascending order.
func (idx *Index) Keys() []string {
	return slices.Clone(idx.keys)
}

// Corpus returns the approximate-match corpus. It may contain the same
// pair more than once.
func (idx *Index) Corpus() []Entry {
	return slices.Clone(idx.corpus)
}

// Mapping returns a copy of the full alias table.
func (idx *Index) Mapping() map[string][]core.ID {
	out := make(map[string][]core.ID, len(idx.mapping))
	for alias, ids := range idx.mapping {
		out[alias] = slices.Clone(ids)
	}
	return out
}

// Len returns the number of aliases.
func (idx *Index) Len() int {
	return len(idx.mapping)
}

// All iterates over every alias in ascending order with its identifiers.
// The yielded slices are shared and must not be modified.
func (idx *Index) All() iter.Seq2[string, []core.ID] {
	return func(yield func(string, []core.ID) bool) {
		for _, k := range idx.keys {
			if !yield(k, idx.mapping[k]) {
				return
			}
		}
	}
}
