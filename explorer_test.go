package particula

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/poiesic/particula/core"
	"github.com/poiesic/particula/snapshot"
	"github.com/poiesic/particula/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quiet() Option {
	return WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func openTestExplorer(t *testing.T, opts ...ConfigOption) *Explorer {
	t.Helper()
	x, err := Open(context.Background(), quiet(), WithConfig(NewConfig(opts...)))
	require.NoError(t, err)
	return x
}

func resultIDs(r *core.ResolveResult) []core.ID {
	ids := make([]core.ID, 0, len(r.Results))
	for _, s := range r.Results {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestScenarios(t *testing.T) {
	x := openTestExplorer(t)

	t.Run("electron includes 11", func(t *testing.T) {
		result, err := x.Resolve("electron", 5)
		require.NoError(t, err)
		require.Contains(t, resultIDs(result), core.ID(11))
		for _, s := range result.Results {
			if s.ID == 11 {
				assert.Equal(t, "e-", s.Name)
			}
		}
	})

	t.Run("numeric identifier", func(t *testing.T) {
		result, err := x.Resolve("11", 5)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Total)
		assert.Equal(t, []core.ID{11}, resultIDs(result))
	})

	t.Run("empty query", func(t *testing.T) {
		result, err := x.Resolve("", 10)
		require.NoError(t, err)
		assert.Equal(t, &core.ResolveResult{Results: []core.Summary{}, Total: 0}, result)
	})

	t.Run("unknown detail", func(t *testing.T) {
		_, err := x.Detail(99999999)
		var nf *core.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Contains(t, err.Error(), "99999999")
	})

	t.Run("popular", func(t *testing.T) {
		ids := make([]core.ID, 0)
		for _, s := range x.ListPopular() {
			ids = append(ids, s.ID)
		}
		assert.Subset(t, ids, []core.ID{11, -11, 22, 2212, 2112})
	})
}

func TestOpen_Errors(t *testing.T) {
	t.Run("invalid config", func(t *testing.T) {
		_, err := Open(context.Background(), quiet(), WithConfig(NewConfig(WithMinScore(500))))
		var verr *core.ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("missing catalog file", func(t *testing.T) {
		_, err := Open(context.Background(), quiet(),
			WithConfig(NewConfig(WithCatalogPath(filepath.Join(t.TempDir(), "missing.csv")))))
		var lerr *core.LoadError
		require.ErrorAs(t, err, &lerr)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("conflicting extra alias", func(t *testing.T) {
		_, err := Open(context.Background(), quiet(), WithConfig(NewConfig(WithExtraAlias(-11, "electron"))))
		var lerr *core.LoadError
		require.ErrorAs(t, err, &lerr)
		assert.Equal(t, "alias index", lerr.Source)
	})
}

func TestOpen_CatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.csv")
	require.NoError(t, os.WriteFile(path, []byte("ID,Name,Anti,Charge\n22,gamma,0,0\n11,e-,1,-3\n-11,e+,1,3\n"), 0o644))

	x := openTestExplorer(t, WithCatalogPath(path), WithPopular(11, 2212))
	assert.Equal(t, 3, x.Catalog().Len())

	popular := x.ListPopular()
	require.Len(t, popular, 1)
	assert.Equal(t, core.ID(11), popular[0].ID)
}

func TestExplorer_Detail(t *testing.T) {
	x := openTestExplorer(t)

	e, err := x.Detail(-11)
	require.NoError(t, err)
	assert.Equal(t, "e+", e.Name)
	assert.Equal(t, core.ID(11), e.Conjugate)

	e.Name = "changed"
	again, err := x.DetailString(" -11 ")
	require.NoError(t, err)
	assert.Equal(t, "e+", again.Name, "callers get a copy")

	_, err = x.DetailString("electron")
	var verr *core.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "pdgid", verr.Field)
}

func TestExplorer_DetailEveryEntity(t *testing.T) {
	x := openTestExplorer(t)

	entities := x.Catalog().Entities()
	require.NotEmpty(t, entities)
	for _, want := range entities {
		got, err := x.Detail(want.ID)
		require.NoError(t, err, "pdgid %d", want.ID)
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.Name, got.Name)
	}
}

func TestExplorer_LoadReport(t *testing.T) {
	x := openTestExplorer(t)

	report := x.LoadReport()
	require.NotNil(t, report)
	assert.Equal(t, 78, report.Loaded)
	assert.Zero(t, report.Skipped)
	assert.Empty(t, report.Demoted)
}

func TestOpen_MismatchedConjugates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.csv")
	table := "ID,Mass,Name,Anti,Charge\n" +
		"-11,0.51099895,e+,2,3\n" +
		"11,0.51099895,e-,2,-3\n" +
		"-211,139.6,pi-,2,-3\n" +
		"211,139.57039,pi+,2,3\n"
	require.NoError(t, os.WriteFile(path, []byte(table), 0o644))

	x := openTestExplorer(t, WithCatalogPath(path))
	assert.Equal(t, 4, x.LoadReport().Loaded)
	assert.Equal(t, []core.ID{-211, 211}, x.LoadReport().Demoted)

	pip, err := x.Detail(211)
	require.NoError(t, err)
	assert.Equal(t, core.ID(211), pip.Conjugate)

	electron, err := x.Detail(11)
	require.NoError(t, err)
	assert.Equal(t, core.ID(-11), electron.Conjugate)
}

func TestExplorer_Concurrent(t *testing.T) {
	x := openTestExplorer(t, WithCacheSize(16))

	queries := []string{"electron", "muon", "pi+", "proton", "nu", "gluon", "K0", "11", "eletron"}
	entities := x.Catalog().Entities()

	var wg sync.WaitGroup
	for g := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 40 {
				query := queries[(g+i)%len(queries)]
				limit := 1 + (g+i)%5
				result, err := x.Resolve(query, limit)
				if !assert.NoError(t, err, query) {
					return
				}
				ids := resultIDs(result)
				assert.LessOrEqual(t, len(ids), limit, query)
				seen := make(map[core.ID]bool, len(ids))
				for _, id := range ids {
					assert.False(t, seen[id], "duplicate %d for %q", id, query)
					seen[id] = true
				}

				want := entities[(g*40+i)%len(entities)]
				e, err := x.Detail(want.ID)
				if assert.NoError(t, err) {
					assert.Equal(t, want.ID, e.ID)
				}

				popular := x.ListPopular()
				assert.Len(t, popular, len(snapshot.DefaultPopular))
			}
		}()
	}
	wg.Wait()
}

func TestExplorer_Resolve(t *testing.T) {
	x := openTestExplorer(t, WithExtraAlias(22, "light quantum"))

	result, err := x.Resolve("Light Quantum", 3)
	require.NoError(t, err)
	assert.Equal(t, core.ID(22), result.Results[0].ID)

	_, err = x.Resolve("electron", -1)
	var verr *core.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestExplorer_ListPopular(t *testing.T) {
	x := openTestExplorer(t)

	popular := x.ListPopular()
	require.Len(t, popular, len(snapshot.DefaultPopular))
	for i, id := range snapshot.DefaultPopular {
		assert.Equal(t, id, popular[i].ID)
	}

	popular[0].Name = "changed"
	assert.Equal(t, "e-", x.ListPopular()[0].Name)
}

func TestClassify_RedactsUnknownErrors(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	assert.Equal(t, core.ErrInternal, classify(logger, io.ErrUnexpectedEOF))

	nf := core.NewNotFound(5)
	assert.Equal(t, error(nf), classify(logger, nf))
	assert.Nil(t, classify(logger, nil))
}

func TestGenerate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "static")
	code := Generate(context.Background(), dir, quiet(), WithConfig(NewConfig(WithPoolSize(2))))
	require.Equal(t, 0, code)

	data, err := os.ReadFile(filepath.Join(dir, "11.json"))
	require.NoError(t, err)
	var detail snapshot.DetailRecord
	require.NoError(t, json.Unmarshal(data, &detail))
	assert.Equal(t, "e-", detail.Name)
	require.NotNil(t, detail.AntiParticlePDGID)
	assert.Equal(t, core.ID(-11), *detail.AntiParticlePDGID)

	for _, name := range []string{snapshot.NameMappingArtifact, snapshot.PopularArtifactName, snapshot.ManifestArtifact} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
}

func TestGenerate_ExtraSinks(t *testing.T) {
	_, store, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	dir := filepath.Join(t.TempDir(), "static")
	code := Generate(context.Background(), dir, quiet(), WithSinks(store))
	require.Equal(t, 0, code)

	want, err := os.ReadFile(filepath.Join(dir, "2212.json"))
	require.NoError(t, err)
	got, err := store.ReadArtifact(context.Background(), "2212.json")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestGenerate_Failures(t *testing.T) {
	assert.Equal(t, 1, Generate(context.Background(), "  ", quiet()))

	missing := NewConfig(WithCatalogPath(filepath.Join(t.TempDir(), "missing.csv")))
	assert.Equal(t, 1, Generate(context.Background(), t.TempDir(), quiet(), WithConfig(missing)))
}
