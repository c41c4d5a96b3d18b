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

package snapshot

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/particula/core"
	"github.com/poiesic/particula/index"
	"github.com/poiesic/particula/storage"
)

// Shared artifact names.
const (
	NameMappingArtifact = "name-mapping.json"
	PopularArtifactName = "popular.json"
	ManifestArtifact    = "manifest.json"
)

// Catalog is the entity source a snapshot is generated from.
type Catalog interface {
	Lookup
	Entities() []*core.Entity
}

// EntityArtifact returns the artifact name for an entity detail record.
func EntityArtifact(id core.ID) string {
	return fmt.Sprintf("%d.json", id)
}

// ItemResult records an entity whose artifact could not be written.
type ItemResult struct {
	ID       core.ID
	Artifact string
	Err      error
}

// Report summarises a generation run.
type Report struct {
	Written  int
	Skipped  int
	Failures []ItemResult
	Elapsed  time.Duration
}

// Generator writes the static artifact set for a catalog.
type Generator struct {
	catalog      Catalog
	index        *index.Index
	sink         Sink
	pool         *ants.Pool
	entityStore  storage.EntityRepository
	popular      []core.ID
	retry        Backoff
	progressOut  io.Writer
	progressStep int
	logger       *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) error {
		if logger == nil {
			logger = slog.Default()
		}
		g.logger = logger
		return nil
	}
}

// WithPoolSize sets the number of concurrent artifact writers.
// Default is runtime.NumCPU(), with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(g *Generator) error {
		if size < 1 {
			return fmt.Errorf("%w: %d", ErrInvalidPoolSize, size)
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if g.pool != nil {
			g.pool.Release()
		}
		g.pool = pool
		return nil
	}
}

// WithRetry sets how often a failed artifact write is attempted and the
// initial backoff between attempts.
// Default is DefaultBackoff.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(g *Generator) error {
		b := Backoff{Attempts: maxAttempts, Base: baseDelay}
		if err := b.Validate(); err != nil {
			return err
		}
		g.retry = b
		return nil
	}
}

// WithProgress reports progress to w every interval artifacts.
// A nil writer disables progress output, which is the default.
func WithProgress(w io.Writer, interval int) Option {
	return func(g *Generator) error {
		g.progressOut = w
		g.progressStep = interval
		return nil
	}
}

// WithPopular replaces the popular identifier list.
// Default is DefaultPopular.
func WithPopular(ids []core.ID) Option {
	return func(g *Generator) error {
		g.popular = slices.Clone(ids)
		return nil
	}
}

// WithEntityStore also stores every entity in binary form in repo.
func WithEntityStore(repo storage.EntityRepository) Option {
	return func(g *Generator) error {
		g.entityStore = repo
		return nil
	}
}

// NewGenerator creates a generator writing to sink.
// Call Release when done with it.
func NewGenerator(catalog Catalog, idx *index.Index, sink Sink, opts ...Option) (*Generator, error) {
	if catalog == nil {
		return nil, ErrCatalogRequired
	}
	if idx == nil {
		return nil, ErrIndexRequired
	}
	if sink == nil {
		return nil, ErrSinkRequired
	}

	pool, err := ants.NewPool(max(runtime.NumCPU(), 1))
	if err != nil {
		return nil, err
	}

	g := &Generator{
		catalog: catalog,
		index:   idx,
		sink:    sink,
		pool:    pool,
		popular: slices.Clone(DefaultPopular),
		retry:   DefaultBackoff,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(g); optErr != nil {
			g.Release()
			return nil, optErr
		}
	}

	return g, nil
}

// Release releases the worker pool.
// The generator should not be used after calling Release.
func (g *Generator) Release() {
	if g.pool != nil {
		g.pool.Release()
		g.pool = nil
	}
}

// Generate writes one detail artifact per entity, then the alias index,
// the popular list and the manifest.
//
// A failed entity artifact is recorded in the report and the run goes
// on. Failing to write a shared artifact, or to fill the entity store,
// ends the run with an error.
func (g *Generator) Generate(ctx context.Context) (*Report, error) {
	start := time.Now()
	entities := g.catalog.Entities()
	report := &Report{}

	if g.entityStore != nil {
		if err := g.entityStore.PutEntities(ctx, entities...); err != nil {
			return nil, fmt.Errorf("storing entities: %w", err)
		}
		g.logger.Debug("stored entities", "count", len(entities))
	}

	var progress *ProgressTracker
	if g.progressOut != nil {
		progress = NewProgressTracker(g.progressOut, len(entities), g.progressStep)
		progress.Start()
	}

	m := newManifest()
	failures := g.writeEntities(ctx, entities, m, progress)
	if progress != nil {
		progress.Finish()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slices.SortFunc(failures, func(a, b ItemResult) int {
		return cmp.Compare(a.ID, b.ID)
	})
	report.Failures = failures
	report.Skipped = len(failures)
	report.Written = len(entities) - len(failures)

	mapping, err := encodeJSON(g.index.Mapping())
	if err != nil {
		return nil, err
	}
	if err := g.writeShared(ctx, NameMappingArtifact, mapping, m); err != nil {
		return nil, err
	}

	popular, err := encodeJSON(PopularArtifact{Particles: Popular(g.catalog, g.popular, g.logger)})
	if err != nil {
		return nil, err
	}
	if err := g.writeShared(ctx, PopularArtifactName, popular, m); err != nil {
		return nil, err
	}

	digests, err := m.encode()
	if err != nil {
		return nil, err
	}
	if err := g.write(ctx, ManifestArtifact, digests); err != nil {
		return nil, fmt.Errorf("writing %s: %w", ManifestArtifact, err)
	}
	report.Written += 3

	report.Elapsed = time.Since(start)
	g.logger.Info("snapshot generated",
		"written", report.Written,
		"skipped", report.Skipped,
		"elapsed", report.Elapsed)
	return report, nil
}

// writeEntities fans the detail artifacts out over the worker pool and
// returns the entities that could not be written.
func (g *Generator) writeEntities(ctx context.Context, entities []*core.Entity, m *manifest, progress *ProgressTracker) []ItemResult {
	var (
		mu       sync.Mutex
		failures []ItemResult
		wg       sync.WaitGroup
	)
	fail := func(e *core.Entity, name string, err error) {
		g.logger.Warn("skipping entity artifact", "pdgid", e.ID, "artifact", name, "err", err)
		mu.Lock()
		failures = append(failures, ItemResult{ID: e.ID, Artifact: name, Err: err})
		mu.Unlock()
		if progress != nil {
			progress.Done(false)
		}
	}

	for _, e := range entities {
		name := EntityArtifact(e.ID)
		data, err := encodeJSON(NewDetailRecord(e))
		if err != nil {
			fail(e, name, err)
			continue
		}

		wg.Add(1)
		task := func() {
			defer wg.Done()
			if err := g.write(ctx, name, data); err != nil {
				fail(e, name, err)
				return
			}
			m.add(name, data)
			if progress != nil {
				progress.Done(true)
			}
		}
		if err := g.pool.Submit(task); err != nil {
			wg.Done()
			fail(e, name, err)
		}
	}

	wg.Wait()
	return failures
}

func (g *Generator) writeShared(ctx context.Context, name string, data []byte, m *manifest) error {
	if err := g.write(ctx, name, data); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	m.add(name, data)
	return nil
}

func (g *Generator) write(ctx context.Context, name string, data []byte) error {
	return g.retry.Do(ctx, func() error {
		return g.sink.WriteArtifact(ctx, name, data)
	}, g.logger)
}

// ExitCode maps the outcome of a run to a process exit status.
func ExitCode(err error) int {
	if err != nil {
		return 1
	}
	return 0
}
