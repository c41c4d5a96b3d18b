package particula

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/particula/core"
	"github.com/poiesic/particula/search"
	"github.com/poiesic/particula/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Empty(t, cfg.CatalogPath)
	assert.Equal(t, search.DefaultMinScore, cfg.MinScore)
	assert.Equal(t, snapshot.DefaultPopular, cfg.Popular)
	assert.GreaterOrEqual(t, cfg.PoolSize, 1)

	cfg.Popular[0] = 42
	assert.Equal(t, core.ID(11), snapshot.DefaultPopular[0], "defaults are copied")
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig(
		WithCatalogPath("table.csv"),
		WithMinScore(80),
		WithCacheSize(0),
		WithPopular(22, 11),
		WithExtraAlias(22, "light"),
		WithExtraAlias(22, "lux"),
		WithPoolSize(3),
	)
	assert.Equal(t, "table.csv", cfg.CatalogPath)
	assert.Equal(t, 80, cfg.MinScore)
	assert.Zero(t, cfg.CacheSize)
	assert.Equal(t, []core.ID{22, 11}, cfg.Popular)
	assert.Equal(t, map[core.ID][]string{22: {"light", "lux"}}, cfg.ExtraAliases)
	assert.Equal(t, 3, cfg.PoolSize)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name  string
		opt   ConfigOption
		field string
	}{
		{"min score too high", WithMinScore(101), "min_score"},
		{"min score negative", WithMinScore(-1), "min_score"},
		{"negative cache", WithCacheSize(-1), "cache_size"},
		{"zero pool", WithPoolSize(0), "pool_size"},
		{"zero popular id", WithPopular(11, 0), "popular"},
		{"zero alias id", WithExtraAlias(0, "nothing"), "extra_aliases"},
		{"alias id without aliases", WithExtraAlias(22), "extra_aliases"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewConfig(tt.opt).Validate()
			var verr *core.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, "particula.yaml", `
min_score: 75
popular: [22, -11]
extra_aliases:
  22: [light]
  -11: [antielectron]
pool_size: 2
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 75, cfg.MinScore)
	assert.Equal(t, []core.ID{22, -11}, cfg.Popular)
	assert.Equal(t, map[core.ID][]string{22: {"light"}, -11: {"antielectron"}}, cfg.ExtraAliases)
	assert.Equal(t, 2, cfg.PoolSize)
	assert.Equal(t, DefaultConfig().CacheSize, cfg.CacheSize, "missing keys keep defaults")
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("empty file", func(t *testing.T) {
		cfg, err := LoadConfig(writeFile(t, "empty.yaml", ""))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig().MinScore, cfg.MinScore)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := LoadConfig(writeFile(t, "bad.yaml", "min_scor: 3\n"))
		assert.Error(t, err)
	})

	t.Run("invalid value", func(t *testing.T) {
		_, err := LoadConfig(writeFile(t, "bad.yaml", "min_score: 300\n"))
		var verr *core.ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}
