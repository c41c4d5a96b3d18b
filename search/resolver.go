package search

import (
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/poiesic/particula/core"
	"github.com/poiesic/particula/index"
)

// DefaultMinScore is the lowest approximate-match score kept.
const DefaultMinScore = 60

// Catalog is the read-only entity store the resolver draws from.
type Catalog interface {
	Get(id core.ID) (*core.Entity, bool)
}

// Fallback is a generic name search used once the alias stages run dry.
type Fallback interface {
	Search(query string) []core.ID
}

// Candidate is a scored corpus entry from the approximate stage.
type Candidate struct {
	index.Entry
	Score int
}

type cacheKey struct {
	query string
	limit int
}

// Resolver maps free text and numeric keys to catalog entities.
type Resolver struct {
	catalog  Catalog
	index    *index.Index
	fallback Fallback
	minScore int
	cache    *lru.Cache[cacheKey, *core.ResolveResult]
	monitor  ResolveMonitor
	logger   *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithMinScore sets the approximate-match threshold (0..100).
// Default is DefaultMinScore.
func WithMinScore(score int) Option {
	return func(r *Resolver) error {
		if score < 0 || score > 100 {
			return fmt.Errorf("%w: %d", ErrInvalidMinScore, score)
		}
		r.minScore = score
		return nil
	}
}

// WithCache keeps up to size resolved queries in an LRU cache.
// A size of 0 disables caching, which is the default.
func WithCache(size int) Option {
	return func(r *Resolver) error {
		if size < 0 {
			return fmt.Errorf("%w: %d", ErrInvalidCacheSize, size)
		}
		if size == 0 {
			r.cache = nil
			return nil
		}
		cache, err := lru.New[cacheKey, *core.ResolveResult](size)
		if err != nil {
			return err
		}
		r.cache = cache
		return nil
	}
}

// WithMonitor sets the monitor used by Resolve.
func WithMonitor(monitor ResolveMonitor) Option {
	return func(r *Resolver) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		r.monitor = monitor
		return nil
	}
}

// WithFallback replaces the last-resort name search. Nil disables the
// fallback stage. By default the catalog is used when it implements
// Fallback.
func WithFallback(fallback Fallback) Option {
	return func(r *Resolver) error {
		r.fallback = fallback
		return nil
	}
}

// NewResolver creates a resolver over an immutable catalog and its alias
// index.
func NewResolver(catalog Catalog, idx *index.Index, opts ...Option) (*Resolver, error) {
	if catalog == nil {
		return nil, ErrCatalogRequired
	}
	if idx == nil {
		return nil, ErrIndexRequired
	}

	r := &Resolver{
		catalog:  catalog,
		index:    idx,
		minScore: DefaultMinScore,
		monitor:  &noopMonitor{},
		logger:   slog.Default(),
	}
	if fb, ok := catalog.(Fallback); ok {
		r.fallback = fb
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Resolve returns up to limit entities matching query.
// Total is the number of distinct matches found before truncation.
// A negative limit is a *core.ValidationError.
func (r *Resolver) Resolve(query string, limit int) (*core.ResolveResult, error) {
	return r.ResolveWithMonitor(query, limit, r.monitor)
}

// ResolveWithMonitor is Resolve with a per-call monitor.
func (r *Resolver) ResolveWithMonitor(query string, limit int, monitor ResolveMonitor) (*core.ResolveResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if limit < 0 {
		return nil, &core.ValidationError{Field: "limit", Value: strconv.Itoa(limit), Reason: "must not be negative"}
	}

	trimmed := strings.TrimSpace(query)
	monitor.Start(trimmed, limit)

	// 1. Empty query
	if trimmed == "" {
		result := &core.ResolveResult{Results: []core.Summary{}}
		monitor.Finish(result)
		return result, nil
	}

	// 2. Numeric identifier; unknown identifiers fall through to the name stages
	if id, err := core.ParseID(trimmed); err == nil {
		if e, ok := r.catalog.Get(id); ok {
			monitor.NumericHit(id)
			result := &core.ResolveResult{Results: []core.Summary{e.Summary()}, Total: 1}
			monitor.Finish(result)
			return result, nil
		}
	}

	normalized := index.Normalize(trimmed)
	key := cacheKey{query: normalized, limit: limit}
	if r.cache != nil {
		if cached, ok := r.cache.Get(key); ok {
			monitor.CacheHit(normalized, limit)
			result := cached.Clone()
			monitor.Finish(result)
			return result, nil
		}
	}

	acc := newAccumulator(r.catalog, limit)

	// 3. Exact alias match, taken whole
	if ids, ok := r.index.Lookup(normalized); ok {
		for _, id := range ids {
			acc.add(id)
		}
	}
	monitor.AfterExactMatch(acc.snapshot())

	// 4. Aliases containing the query
	mark := acc.count()
	for alias, ids := range r.index.All() {
		if acc.full() {
			break
		}
		if !strings.Contains(alias, normalized) {
			continue
		}
		for _, id := range ids {
			if !acc.addBounded(id) {
				break
			}
		}
	}
	monitor.AfterSubstringMatch(acc.since(mark))

	// 5. Approximate match over the corpus
	if !acc.full() {
		candidates := r.score(normalized)
		monitor.AfterApproximateMatch(candidates)
		for _, c := range candidates {
			if !acc.addBounded(c.ID) {
				break
			}
		}
	}

	// 6. Catalog fallback
	if !acc.full() && r.fallback != nil {
		mark = acc.count()
		for _, id := range r.fallback.Search(normalized) {
			if !acc.addBounded(id) {
				break
			}
		}
		monitor.AfterFallback(acc.since(mark))
	}

	// 7. Truncate; Total keeps the pre-truncation count
	result := acc.result()
	r.logger.Debug("resolved query", "query", trimmed, "limit", limit, "total", result.Total, "returned", len(result.Results))

	if r.cache != nil {
		r.cache.Add(key, result.Clone())
	}
	monitor.Finish(result)
	return result, nil
}

// score rates every corpus entry against query and returns the entries at
// or above the threshold, best first. Ties keep corpus order.
func (r *Resolver) score(query string) []Candidate {
	corpus := r.index.Corpus()
	candidates := make([]Candidate, 0, len(corpus)/4)
	for _, entry := range corpus {
		s := PartialRatio(query, entry.Alias)
		if s >= r.minScore {
			candidates = append(candidates, Candidate{Entry: entry, Score: s})
		}
	}
	slices.SortStableFunc(candidates, func(a, b Candidate) int {
		return b.Score - a.Score
	})
	return candidates
}

// accumulator collects distinct identifiers in stage order.
type accumulator struct {
	catalog Catalog
	limit   int
	seen    map[core.ID]bool
	found   []*core.Entity
}

func newAccumulator(catalog Catalog, limit int) *accumulator {
	return &accumulator{
		catalog: catalog,
		limit:   limit,
		seen:    make(map[core.ID]bool),
	}
}

// add appends id unless it was already seen or is not in the catalog.
func (a *accumulator) add(id core.ID) {
	if a.seen[id] {
		return
	}
	e, ok := a.catalog.Get(id)
	if !ok {
		return
	}
	a.seen[id] = true
	a.found = append(a.found, e)
}

// addBounded is add for the limited stages. It reports whether there is
// still room after the call.
func (a *accumulator) addBounded(id core.ID) bool {
	if a.full() {
		return false
	}
	a.add(id)
	return !a.full()
}

func (a *accumulator) full() bool {
	return len(a.found) >= a.limit
}

func (a *accumulator) count() int {
	return len(a.found)
}

func (a *accumulator) since(mark int) []core.ID {
	ids := make([]core.ID, 0, len(a.found)-mark)
	for _, e := range a.found[mark:] {
		ids = append(ids, e.ID)
	}
	return ids
}

func (a *accumulator) snapshot() []core.ID {
	return a.since(0)
}

func (a *accumulator) result() *core.ResolveResult {
	n := min(len(a.found), a.limit)
	results := make([]core.Summary, 0, n)
	for _, e := range a.found[:n] {
		results = append(results, e.Summary())
	}
	return &core.ResolveResult{Results: results, Total: len(a.found)}
}
