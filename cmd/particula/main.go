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

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/particula"
	"github.com/poiesic/particula/core"
	"github.com/poiesic/particula/snapshot"
	"github.com/poiesic/particula/storage"
	"github.com/poiesic/particula/storage/badger"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:      "particula",
		Usage:     "Look up particles by name, alias or PDG ID",
		Writer:    out,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML configuration file",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Resolve free text or a PDG ID to matching particles",
				ArgsUsage: "QUERY",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results",
						Value:   10,
					},
				},
			},
			{
				Name:      "detail",
				Usage:     "Show the full record for a PDG ID",
				ArgsUsage: "PDGID",
				Action:    detailCommand,
			},
			{
				Name:   "popular",
				Usage:  "List the popular particles",
				Action: popularCommand,
			},
			{
				Name:   "generate",
				Usage:  "Write the static JSON snapshot of the catalog",
				Action: generateCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "out",
						Aliases:  []string{"o"},
						Usage:    "Output directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Also store entities and artifacts in the BadgerDB database at this path",
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N artifacts (0 disables)",
						Value: 10,
					},
				},
			},
			{
				Name:      "lookup",
				Usage:     "Read an entity from a database written by generate",
				ArgsUsage: "PDGID",
				Action:    lookupCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
				},
			},
		},
	}
}

func loadConfig(c *cli.Context) (*particula.Config, error) {
	path := c.String("config")
	if path == "" {
		return particula.DefaultConfig(), nil
	}
	cfg, err := particula.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func openExplorer(c *cli.Context) (*particula.Explorer, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	return particula.Open(c.Context, particula.WithConfig(cfg))
}

func searchCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")

	x, err := openExplorer(c)
	if err != nil {
		return err
	}

	result, err := x.Resolve(query, c.Int("limit"))
	if err != nil {
		return err
	}

	out := c.App.Writer
	for _, s := range result.Results {
		fmt.Fprintf(out, "%d\t%s\t%s\n", s.ID, s.Name, s.DescriptiveName)
	}
	fmt.Fprintf(out, "%d of %d matches\n", len(result.Results), result.Total)
	return nil
}

func detailCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one PDG ID")
	}

	x, err := openExplorer(c)
	if err != nil {
		return err
	}

	e, err := x.DetailString(c.Args().First())
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, snapshot.NewDetailRecord(e))
}

func popularCommand(c *cli.Context) error {
	x, err := openExplorer(c)
	if err != nil {
		return err
	}

	for _, s := range x.ListPopular() {
		fmt.Fprintf(c.App.Writer, "%d\t%s\t%s\n", s.ID, s.Name, s.DescriptiveName)
	}
	return nil
}

func generateCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	var genOpts []snapshot.Option
	opts := []particula.Option{particula.WithConfig(cfg)}
	if n := c.Int("report-interval"); n > 0 {
		genOpts = append(genOpts, snapshot.WithProgress(os.Stderr, n))
	}

	if dbPath := c.String("db"); dbPath != "" {
		backend, err := badger.OpenBackend(dbPath, false)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer backend.Close()
		genOpts = append(genOpts, snapshot.WithEntityStore(badger.NewEntityRepository(backend)))
		opts = append(opts, particula.WithSinks(badger.NewArtifactStore(backend)))
	}

	outDir := c.String("out")
	fmt.Fprintf(os.Stderr, "Output: %s\n", outDir)

	opts = append(opts, particula.WithGeneratorOptions(genOpts...))
	code := particula.Generate(c.Context, outDir, opts...)
	if code != 0 {
		return cli.Exit("snapshot generation failed", code)
	}
	return nil
}

func lookupCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one PDG ID")
	}
	id, err := core.ParseID(c.Args().First())
	if err != nil {
		return err
	}

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	e, err := lookupEntity(c.Context, badger.NewEntityRepository(backend), id)
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, snapshot.NewDetailRecord(e))
}

type entityGetter interface {
	GetEntity(ctx context.Context, id core.ID) (*core.Entity, error)
}

func lookupEntity(ctx context.Context, repo entityGetter, id core.ID) (*core.Entity, error) {
	e, err := repo.GetEntity(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, core.NewNotFound(id)
		}
		return nil, fmt.Errorf("failed to read entity: %w", err)
	}
	return e, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
