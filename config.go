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
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"slices"
	"strconv"

	"github.com/poiesic/particula/core"
	"github.com/poiesic/particula/search"
	"github.com/poiesic/particula/snapshot"
	"gopkg.in/yaml.v3"
)

// Config holds the settings for an Explorer and the snapshot generator.
type Config struct {
	// CatalogPath is the particle table to load.
	// Empty selects the table embedded in the binary.
	CatalogPath string `yaml:"catalog_path"`

	// MinScore is the lowest approximate-match score (0-100) the resolver keeps.
	// Default: 60
	MinScore int `yaml:"min_score"`

	// CacheSize is the number of resolved queries kept in memory.
	// Zero disables the cache.
	CacheSize int `yaml:"cache_size"`

	// Popular lists the identifiers served by ListPopular, in display order.
	Popular []core.ID `yaml:"popular"`

	// ExtraAliases adds curated aliases on top of the built-in table.
	ExtraAliases map[core.ID][]string `yaml:"extra_aliases"`

	// PoolSize is the number of concurrent artifact writers used by Generate.
	PoolSize int `yaml:"pool_size"`
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithCatalogPath sets the particle table to load.
func WithCatalogPath(path string) ConfigOption {
	return func(c *Config) {
		c.CatalogPath = path
	}
}

// WithMinScore sets the approximate-match threshold.
func WithMinScore(score int) ConfigOption {
	return func(c *Config) {
		c.MinScore = score
	}
}

// WithCacheSize sets the resolver cache size.
func WithCacheSize(size int) ConfigOption {
	return func(c *Config) {
		c.CacheSize = size
	}
}

// WithPopular replaces the popular identifier list.
func WithPopular(ids ...core.ID) ConfigOption {
	return func(c *Config) {
		c.Popular = slices.Clone(ids)
	}
}

// WithExtraAlias adds curated aliases for id.
func WithExtraAlias(id core.ID, aliases ...string) ConfigOption {
	return func(c *Config) {
		if c.ExtraAliases == nil {
			c.ExtraAliases = make(map[core.ID][]string)
		}
		c.ExtraAliases[id] = append(c.ExtraAliases[id], aliases...)
	}
}

// WithPoolSize sets the number of concurrent artifact writers.
func WithPoolSize(size int) ConfigOption {
	return func(c *Config) {
		c.PoolSize = size
	}
}

// DefaultConfig returns a Config using the embedded catalog.
func DefaultConfig() *Config {
	return &Config{
		MinScore:  search.DefaultMinScore,
		CacheSize: 256,
		Popular:   slices.Clone(snapshot.DefaultPopular),
		PoolSize:  max(runtime.NumCPU(), 1),
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//		WithMinScore(75),
//		WithExtraAlias(22, "light"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// LoadConfig reads a YAML configuration file. Keys missing from the file
// keep their default values; unknown keys are rejected.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg := DefaultConfig()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.MinScore < 0 || c.MinScore > 100 {
		return invalid("min_score", strconv.Itoa(c.MinScore), "must be between 0 and 100")
	}
	if c.CacheSize < 0 {
		return invalid("cache_size", strconv.Itoa(c.CacheSize), "must not be negative")
	}
	if c.PoolSize < 1 {
		return invalid("pool_size", strconv.Itoa(c.PoolSize), "must be at least 1")
	}
	if slices.Contains(c.Popular, 0) {
		return invalid("popular", "0", "pdgid cannot be zero")
	}
	for id, aliases := range c.ExtraAliases {
		if id == 0 {
			return invalid("extra_aliases", "0", "pdgid cannot be zero")
		}
		if len(aliases) == 0 {
			return invalid("extra_aliases", id.String(), "no aliases given")
		}
	}
	return nil
}

func invalid(field, value, reason string) error {
	return &core.ValidationError{Field: field, Value: value, Reason: reason}
}
