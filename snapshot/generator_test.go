package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/poiesic/particula/catalog"
	"github.com/poiesic/particula/core"
	"github.com/poiesic/particula/index"
	"github.com/poiesic/particula/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallCatalog(t *testing.T) (*catalog.Catalog, *index.Index) {
	t.Helper()
	cat, err := catalog.New(
		&core.Entity{ID: 11, Name: "e-", DescriptiveName: "electron", Conjugate: -11, ConjugateName: "e+", ThreeCharge: core.Int(-3)},
		&core.Entity{ID: -11, Name: "e+", DescriptiveName: "positron", Conjugate: 11, ConjugateName: "e-", ThreeCharge: core.Int(3)},
		&core.Entity{ID: 13, Name: "mu-", DescriptiveName: "muon", Conjugate: 13, Lifetime: f64(2196.98)},
		&core.Entity{ID: 22, Name: "gamma", DescriptiveName: "photon", Conjugate: 22},
	)
	require.NoError(t, err)
	idx, err := index.Build(cat.Entities(), index.WithLogger(discardLogger()))
	require.NoError(t, err)
	return cat, idx
}

func defaultCatalog(t *testing.T) (*catalog.Catalog, *index.Index) {
	t.Helper()
	cat, _, err := catalog.LoadDefault(context.Background(), catalog.WithLogger(discardLogger()))
	require.NoError(t, err)
	idx, err := index.Build(cat.Entities(), index.WithLogger(discardLogger()))
	require.NoError(t, err)
	return cat, idx
}

func generate(t *testing.T, cat Catalog, idx *index.Index, sink Sink, opts ...Option) *Report {
	t.Helper()
	opts = append([]Option{WithLogger(discardLogger()), WithRetry(2, time.Millisecond)}, opts...)
	g, err := NewGenerator(cat, idx, sink, opts...)
	require.NoError(t, err)
	defer g.Release()

	report, err := g.Generate(context.Background())
	require.NoError(t, err)
	return report
}

func readDir(t *testing.T, dir string) map[string][]byte {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	out := make(map[string][]byte, len(entries))
	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		require.NoError(t, err)
		out[e.Name()] = data
	}
	return out
}

func TestNewGenerator(t *testing.T) {
	cat, idx := smallCatalog(t)
	sink, err := NewDirSink(t.TempDir())
	require.NoError(t, err)

	t.Run("valid configuration", func(t *testing.T) {
		g, err := NewGenerator(cat, idx, sink, WithPoolSize(2))
		require.NoError(t, err)
		g.Release()
		g.Release()
	})

	t.Run("nil catalog", func(t *testing.T) {
		_, err := NewGenerator(nil, idx, sink)
		assert.Equal(t, ErrCatalogRequired, err)
	})

	t.Run("nil index", func(t *testing.T) {
		_, err := NewGenerator(cat, nil, sink)
		assert.Equal(t, ErrIndexRequired, err)
	})

	t.Run("nil sink", func(t *testing.T) {
		_, err := NewGenerator(cat, idx, nil)
		assert.Equal(t, ErrSinkRequired, err)
	})

	t.Run("invalid pool size", func(t *testing.T) {
		_, err := NewGenerator(cat, idx, sink, WithPoolSize(0))
		assert.ErrorIs(t, err, ErrInvalidPoolSize)
	})

	t.Run("invalid retry", func(t *testing.T) {
		_, err := NewGenerator(cat, idx, sink, WithRetry(0, time.Millisecond))
		assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
	})
}

func TestGenerate_Artifacts(t *testing.T) {
	cat, idx := smallCatalog(t)
	dir := t.TempDir()
	sink, err := NewDirSink(dir)
	require.NoError(t, err)

	report := generate(t, cat, idx, sink, WithPopular([]core.ID{22, 9999, 11}))
	assert.Equal(t, 7, report.Written)
	assert.Zero(t, report.Skipped)
	assert.Empty(t, report.Failures)

	files := readDir(t, dir)
	assert.ElementsMatch(t, []string{
		"-11.json", "11.json", "13.json", "22.json",
		NameMappingArtifact, PopularArtifactName, ManifestArtifact,
	}, mapsKeys(files))

	var muon map[string]any
	require.NoError(t, json.Unmarshal(files["13.json"], &muon))
	assert.InDelta(t, 2.19698e-6, muon["lifetime"], 1e-15)
	assert.Nil(t, muon["anti_particle_pdgid"])

	var electron map[string]any
	require.NoError(t, json.Unmarshal(files["11.json"], &electron))
	assert.Equal(t, float64(-11), electron["anti_particle_pdgid"])
	assert.Equal(t, "e+", electron["anti_particle_name"])

	var mapping map[string][]core.ID
	require.NoError(t, json.Unmarshal(files[NameMappingArtifact], &mapping))
	assert.Equal(t, idx.Mapping(), mapping)

	var popular PopularArtifact
	require.NoError(t, json.Unmarshal(files[PopularArtifactName], &popular))
	require.Len(t, popular.Particles, 2, "unknown ids are skipped")
	assert.Equal(t, core.ID(22), popular.Particles[0].ID)
	assert.Equal(t, core.ID(11), popular.Particles[1].ID)
}

func TestGenerate_ManifestDigests(t *testing.T) {
	cat, idx := smallCatalog(t)
	dir := t.TempDir()
	sink, err := NewDirSink(dir)
	require.NoError(t, err)
	generate(t, cat, idx, sink)

	files := readDir(t, dir)
	var digests map[string]string
	require.NoError(t, json.Unmarshal(files[ManifestArtifact], &digests))

	assert.Len(t, digests, len(files)-1, "every artifact but the manifest itself")
	assert.NotContains(t, digests, ManifestArtifact)
	for name, digest := range digests {
		assert.Equal(t, Digest(files[name]), digest, "artifact %s", name)
	}
}

func TestGenerate_Idempotent(t *testing.T) {
	cat, idx := defaultCatalog(t)

	first := t.TempDir()
	sink, err := NewDirSink(first)
	require.NoError(t, err)
	generate(t, cat, idx, sink, WithPoolSize(4))

	second := t.TempDir()
	sink, err = NewDirSink(second)
	require.NoError(t, err)
	generate(t, cat, idx, sink, WithPoolSize(1))

	want := readDir(t, first)
	assert.Len(t, want, cat.Len()+3)
	assert.Equal(t, want, readDir(t, second))

	// Rerunning into the same directory leaves it unchanged.
	sink, err = NewDirSink(first)
	require.NoError(t, err)
	generate(t, cat, idx, sink)
	assert.Equal(t, want, readDir(t, first))
}

func TestGenerate_BadgerSinkMatchesDirSink(t *testing.T) {
	cat, idx := defaultCatalog(t)

	dir := t.TempDir()
	sink, err := NewDirSink(dir)
	require.NoError(t, err)
	generate(t, cat, idx, sink)

	entities, artifacts, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	generate(t, cat, idx, artifacts, WithEntityStore(entities))

	names, err := artifacts.ListArtifacts(ctx)
	require.NoError(t, err)
	stored := make(map[string][]byte, len(names))
	for _, name := range names {
		data, err := artifacts.ReadArtifact(ctx, name)
		require.NoError(t, err)
		stored[name] = data
	}
	assert.Equal(t, readDir(t, dir), stored)

	count, err := entities.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, cat.Len(), count)

	muon, err := entities.GetEntity(ctx, 13)
	require.NoError(t, err)
	assert.Equal(t, "mu-", muon.Name)
}

// flakySink fails every write of the named artifacts and the first write
// of everything else.
type flakySink struct {
	inner  Sink
	broken map[string]bool
	mu     sync.Mutex
	seen   map[string]int
}

func (s *flakySink) WriteArtifact(ctx context.Context, name string, data []byte) error {
	s.mu.Lock()
	s.seen[name]++
	first := s.seen[name] == 1
	s.mu.Unlock()

	if s.broken[name] || first {
		return errors.New("disk on fire")
	}
	return s.inner.WriteArtifact(ctx, name, data)
}

func TestGenerate_ItemFailuresDoNotAbort(t *testing.T) {
	cat, idx := smallCatalog(t)
	dir := t.TempDir()
	inner, err := NewDirSink(dir)
	require.NoError(t, err)
	sink := &flakySink{inner: inner, broken: map[string]bool{"13.json": true, "-11.json": true}, seen: map[string]int{}}

	report := generate(t, cat, idx, sink)
	assert.Equal(t, 2, report.Skipped)
	assert.Equal(t, 5, report.Written)
	require.Len(t, report.Failures, 2)
	assert.Equal(t, core.ID(-11), report.Failures[0].ID)
	assert.Equal(t, core.ID(13), report.Failures[1].ID)
	assert.Equal(t, "13.json", report.Failures[1].Artifact)
	assert.EqualError(t, report.Failures[1].Err, "disk on fire")
	assert.Equal(t, 2, sink.seen["13.json"], "each write is retried")

	files := readDir(t, dir)
	assert.NotContains(t, files, "13.json")

	var digests map[string]string
	require.NoError(t, json.Unmarshal(files[ManifestArtifact], &digests))
	assert.NotContains(t, digests, "13.json", "the manifest lists written artifacts only")
	assert.Contains(t, digests, "11.json")
}

func TestGenerate_SharedArtifactFailureIsFatal(t *testing.T) {
	cat, idx := smallCatalog(t)
	inner, err := NewDirSink(t.TempDir())
	require.NoError(t, err)
	sink := &flakySink{inner: inner, broken: map[string]bool{PopularArtifactName: true}, seen: map[string]int{}}

	g, err := NewGenerator(cat, idx, sink, WithLogger(discardLogger()), WithRetry(2, time.Millisecond))
	require.NoError(t, err)
	defer g.Release()

	_, err = g.Generate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), PopularArtifactName)
	assert.Equal(t, 1, ExitCode(err))
	assert.Equal(t, 0, ExitCode(nil))
}

func TestGenerate_Progress(t *testing.T) {
	cat, idx := smallCatalog(t)
	sink, err := NewDirSink(t.TempDir())
	require.NoError(t, err)

	var out syncBuffer
	generate(t, cat, idx, sink, WithProgress(&out, 1))
	assert.Contains(t, out.String(), "4/4 (100.0%)")
}

func TestGenerate_CanceledContext(t *testing.T) {
	cat, idx := smallCatalog(t)
	sink, err := NewDirSink(t.TempDir())
	require.NoError(t, err)

	g, err := NewGenerator(cat, idx, sink, WithLogger(discardLogger()))
	require.NoError(t, err)
	defer g.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = g.Generate(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf []byte
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.buf)
}

func mapsKeys(m map[string][]byte) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
