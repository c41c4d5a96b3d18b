// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package particula

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/particula/catalog"
	"github.com/poiesic/particula/core"
	"github.com/poiesic/particula/index"
	"github.com/poiesic/particula/search"
	"github.com/poiesic/particula/snapshot"
)

// Explorer answers queries against one loaded catalog.
// It is immutable after Open and safe for concurrent use.
type Explorer struct {
	catalog  *catalog.Catalog
	index    *index.Index
	resolver *search.Resolver
	popular  []core.Summary
	report   *catalog.Report
	config   *Config
	logger   *slog.Logger
}

// Option configures an Explorer.
type Option func(*explorerOptions)

type explorerOptions struct {
	config    *Config
	logger    *slog.Logger
	generator []snapshot.Option
	sinks     []snapshot.Sink
}

// WithConfig sets the configuration. Default is DefaultConfig().
func WithConfig(cfg *Config) Option {
	return func(o *explorerOptions) {
		if cfg != nil {
			o.config = cfg
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *explorerOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithGeneratorOptions passes extra options to the generator created by
// Generate.
func WithGeneratorOptions(opts ...snapshot.Option) Option {
	return func(o *explorerOptions) {
		o.generator = append(o.generator, opts...)
	}
}

// WithSinks adds sinks that receive every artifact written by Generate
// after the output directory.
func WithSinks(sinks ...snapshot.Sink) Option {
	return func(o *explorerOptions) {
		o.sinks = append(o.sinks, sinks...)
	}
}

// Open loads the catalog, builds the alias index and prepares the
// resolver. Every error is one of the core error kinds.
func Open(ctx context.Context, opts ...Option) (*Explorer, error) {
	options := &explorerOptions{
		config: DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	cfg, logger := options.config, options.logger

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cat, report, err := loadCatalog(ctx, cfg, logger)
	if err != nil {
		return nil, classify(logger, err)
	}

	idx, err := index.Build(cat.Entities(),
		index.WithLogger(logger),
		index.WithExtraAliases(cfg.ExtraAliases))
	if err != nil {
		return nil, classify(logger, &core.LoadError{Source: "alias index", Err: err})
	}

	resolver, err := search.NewResolver(cat, idx,
		search.WithLogger(logger),
		search.WithMinScore(cfg.MinScore),
		search.WithCache(cfg.CacheSize))
	if err != nil {
		return nil, classify(logger, err)
	}

	return &Explorer{
		catalog:  cat,
		index:    idx,
		resolver: resolver,
		popular:  snapshot.Popular(cat, cfg.Popular, logger),
		report:   report,
		config:   cfg,
		logger:   logger,
	}, nil
}

// loadCatalog loads the configured table. Skipped rows are logged by the
// loader.
func loadCatalog(ctx context.Context, cfg *Config, logger *slog.Logger) (*catalog.Catalog, *catalog.Report, error) {
	if cfg.CatalogPath == "" {
		return catalog.LoadDefault(ctx, catalog.WithLogger(logger))
	}
	return catalog.LoadFile(ctx, cfg.CatalogPath, catalog.WithLogger(logger))
}

// Catalog returns the loaded catalog.
func (x *Explorer) Catalog() *catalog.Catalog {
	return x.catalog
}

// LoadReport returns what the loader kept, skipped and demoted while
// reading the catalog.
func (x *Explorer) LoadReport() *catalog.Report {
	return x.report
}

// Index returns the alias index.
func (x *Explorer) Index() *index.Index {
	return x.index
}

// Resolve returns up to limit entities matching query, best first.
func (x *Explorer) Resolve(query string, limit int) (*core.ResolveResult, error) {
	result, err := x.resolver.Resolve(query, limit)
	if err != nil {
		return nil, classify(x.logger, err)
	}
	return result, nil
}

// Detail returns the entity with the given identifier, or a
// *core.NotFoundError naming it.
func (x *Explorer) Detail(id core.ID) (*core.Entity, error) {
	e, ok := x.catalog.Get(id)
	if !ok {
		return nil, core.NewNotFound(id)
	}
	return e.Clone(), nil
}

// DetailString is Detail for an identifier given as text. Text that is
// not an integer is a *core.ValidationError.
func (x *Explorer) DetailString(raw string) (*core.Entity, error) {
	id, err := core.ParseID(raw)
	if err != nil {
		return nil, classify(x.logger, err)
	}
	return x.Detail(id)
}

// ListPopular returns the configured popular entities in order, leaving
// out identifiers the catalog does not hold.
func (x *Explorer) ListPopular() []core.Summary {
	out := make([]core.Summary, len(x.popular))
	for i, s := range x.popular {
		out[i] = s.Clone()
	}
	return out
}

// NewGenerator creates a snapshot generator over the loaded catalog,
// configured from the Explorer's Config. Later options win.
func (x *Explorer) NewGenerator(sink snapshot.Sink, opts ...snapshot.Option) (*snapshot.Generator, error) {
	base := []snapshot.Option{
		snapshot.WithLogger(x.logger),
		snapshot.WithPoolSize(x.config.PoolSize),
		snapshot.WithPopular(x.config.Popular),
	}
	g, err := snapshot.NewGenerator(x.catalog, x.index, sink, append(base, opts...)...)
	if err != nil {
		return nil, classify(x.logger, err)
	}
	return g, nil
}

// classify logs errors that do not belong to a known kind before they are
// replaced by core.ErrInternal.
func classify(logger *slog.Logger, err error) error {
	c := core.Classify(err)
	if c == core.ErrInternal && err != core.ErrInternal {
		logger.Error("internal error", "err", err)
	}
	return c
}

// Generate writes the static snapshot for cfg into outputDir and returns
// a process exit code.
func Generate(ctx context.Context, outputDir string, opts ...Option) int {
	options := &explorerOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}
	logger := options.logger

	if strings.TrimSpace(outputDir) == "" {
		logger.Error("output directory required")
		return 1
	}

	x, err := Open(ctx, opts...)
	if err != nil {
		logger.Error("cannot load catalog", "err", err)
		return snapshot.ExitCode(err)
	}

	dir, err := snapshot.NewDirSink(outputDir)
	if err != nil {
		logger.Error("cannot create output directory", "dir", outputDir, "err", err)
		return snapshot.ExitCode(err)
	}
	sink := snapshot.TeeSink(append([]snapshot.Sink{dir}, options.sinks...)...)

	g, err := x.NewGenerator(sink, options.generator...)
	if err != nil {
		logger.Error("cannot create generator", "err", err)
		return snapshot.ExitCode(err)
	}
	defer g.Release()

	report, err := g.Generate(ctx)
	if err != nil {
		logger.Error("snapshot failed", "err", err)
		return snapshot.ExitCode(err)
	}
	for _, f := range report.Failures {
		logger.Warn("artifact not written", "pdgid", f.ID, "err", f.Err)
	}
	return snapshot.ExitCode(nil)
}
