package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/poiesic/particula/core"
)

//go:embed data/particles.csv
var defaultTable []byte

// defaultSource names the embedded table in errors and logs.
const defaultSource = "embedded particle table"

// Column names of the upstream table.
const (
	colID         = "ID"
	colMass       = "Mass"
	colMassUpper  = "MassUpper"
	colMassLower  = "MassLower"
	colWidth      = "Width"
	colWidthUpper = "WidthUpper"
	colWidthLower = "WidthLower"
	colG          = "G"
	colP          = "P"
	colC          = "C"
	colAnti       = "Anti"
	colCharge     = "Charge"
	colStatus     = "Status"
	colName       = "Name"
	colQuarks     = "Quarks"
	colLatex      = "Latex"
)

var requiredColumns = []string{colID, colName}

// RowResult is the outcome of converting one table row.
// Exactly one of Entity and Err is set.
type RowResult struct {
	Line   int
	Entity *core.Entity
	Err    error
}

// Report summarises a load.
type Report struct {
	Source   string
	Loaded   int
	Skipped  int
	Failures []RowResult

	// Demoted lists, in ascending order, the entities published as
	// self-conjugate although their row declared a conjugate, because the
	// partner was missing or disagreed on charge or mass.
	Demoted []core.ID
}

func (r *Report) record(res RowResult) {
	if res.Err != nil {
		r.Skipped++
		r.Failures = append(r.Failures, res)
	}
}

type loader struct {
	source string
	logger *slog.Logger
}

// Option configures a load.
type Option func(*loader) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *loader) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
		return nil
	}
}

// WithSourceName sets the name used for the source in reports and errors.
func WithSourceName(name string) Option {
	return func(l *loader) error {
		l.source = name
		return nil
	}
}

// LoadDefault loads the embedded particle table.
func LoadDefault(ctx context.Context, opts ...Option) (*Catalog, *Report, error) {
	opts = append([]Option{WithSourceName(defaultSource)}, opts...)
	return Load(ctx, bytes.NewReader(defaultTable), opts...)
}

// LoadFile loads a particle table from disk.
func LoadFile(ctx context.Context, path string, opts ...Option) (*Catalog, *Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, &core.LoadError{Source: path, Err: err}
	}
	defer f.Close()

	opts = append([]Option{WithSourceName(path)}, opts...)
	return Load(ctx, f, opts...)
}

// Load reads a particle table from r.
// Rows that fail conversion are skipped and listed in the report.
// A *core.LoadError is returned when the source cannot be read, the header
// is unusable, the conjugate relation is broken, or no row converts.
func Load(ctx context.Context, r io.Reader, opts ...Option) (*Catalog, *Report, error) {
	l := &loader{source: "reader", logger: slog.Default()}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, nil, err
		}
	}

	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, nil, l.fail(fmt.Errorf("read header: %w", err))
	}
	cols, err := parseHeader(header)
	if err != nil {
		return nil, nil, l.fail(err)
	}

	report := &Report{Source: l.source}
	entities := make([]*core.Entity, 0, 128)
	anti := make(map[core.ID]bool)
	seen := make(map[core.ID]int)

	for {
		if err := ctx.Err(); err != nil {
			return nil, nil, l.fail(err)
		}

		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				return nil, nil, l.fail(err)
			}
			res := RowResult{Line: perr.StartLine, Err: &core.ConversionError{Line: perr.StartLine, Err: perr.Err}}
			l.logger.Warn("skipping unreadable row", "source", l.source, "line", perr.StartLine, "err", perr.Err)
			report.record(res)
			continue
		}

		line, _ := cr.FieldPos(0)
		row := tableRow{line: line, record: record, cols: cols}
		res, hasAnti := row.convert()
		if res.Err == nil {
			if first, dup := seen[res.Entity.ID]; dup {
				res = RowResult{Line: line, Err: &core.ConversionError{
					Line: line, ID: res.Entity.ID, Field: colID,
					Err: fmt.Errorf("%w: first seen on line %d", ErrDuplicateID, first),
				}}
			}
		}
		if res.Err != nil {
			l.logger.Warn("skipping particle row", "source", l.source, "line", line, "err", res.Err)
			report.record(res)
			continue
		}

		seen[res.Entity.ID] = line
		anti[res.Entity.ID] = hasAnti
		entities = append(entities, res.Entity)
	}

	if len(entities) == 0 {
		return nil, nil, l.fail(ErrEmptyCatalog)
	}

	report.Demoted = l.linkConjugates(entities, anti)

	cat, err := New(entities...)
	if err != nil {
		return nil, nil, l.fail(err)
	}
	report.Loaded = cat.Len()

	l.logger.Info("loaded particle catalog", "source", l.source, "loaded", report.Loaded, "skipped", report.Skipped, "demoted", len(report.Demoted))
	return cat, report, nil
}

// linkConjugates pairs every entity whose row declares a distinct
// conjugate with the entity at the negated ID. The pairing is applied to
// both sides so the relation stays symmetric. A declared conjugate that is
// missing from the table, or that disagrees on charge or mass, leaves the
// entity self-conjugate. The demoted identifiers are returned in
// ascending order.
func (l *loader) linkConjugates(entities []*core.Entity, anti map[core.ID]bool) []core.ID {
	byID := make(map[core.ID]*core.Entity, len(entities))
	for _, e := range entities {
		e.Conjugate = e.ID
		byID[e.ID] = e
	}

	demoted := make(map[core.ID]bool)
	for _, e := range entities {
		if !anti[e.ID] || demoted[e.ID] {
			continue
		}
		c, ok := byID[-e.ID]
		if !ok {
			l.logger.Warn("declared conjugate not in table", "pdgid", e.ID, "conjugate", -e.ID)
			demoted[e.ID] = true
			continue
		}
		if err := core.MatchConjugates(e, c); err != nil {
			l.logger.Warn("conjugates disagree, keeping both self-conjugate", "pdgid", e.ID, "conjugate", c.ID, "err", err)
			demoted[e.ID], demoted[c.ID] = true, true
			continue
		}
		e.Conjugate, e.ConjugateName = c.ID, c.Name
		c.Conjugate, c.ConjugateName = e.ID, e.Name
	}
	return slices.Sorted(maps.Keys(demoted))
}

func (l *loader) fail(err error) error {
	l.logger.Error("failed to load particle catalog", "source", l.source, "err", err)
	return &core.LoadError{Source: l.source, Err: err}
}

func parseHeader(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}
	return cols, nil
}

// tableRow converts one CSV record into an Entity.
type tableRow struct {
	line   int
	record []string
	cols   map[string]int
	err    error
	id     core.ID
}

func (r *tableRow) field(name string) string {
	i, ok := r.cols[name]
	if !ok || i >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[i])
}

func (r *tableRow) fail(field string, err error) {
	if r.err == nil {
		r.err = &core.ConversionError{Line: r.line, ID: r.id, Field: field, Err: err}
	}
}

// measure parses a non-negative quantity; negative values are the
// upstream "unknown" sentinel.
func (r *tableRow) measure(name string) *float64 {
	raw := r.field(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		r.fail(name, err)
		return nil
	}
	if v < 0 {
		return nil
	}
	return core.Finite(v)
}

func (r *tableRow) integer(name string) *int {
	raw := r.field(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		r.fail(name, err)
		return nil
	}
	return &v
}

// quantum parses a parity-like quantum number; anything outside -1..1 is
// the upstream "undefined" marker.
func (r *tableRow) quantum(name string) *int {
	v := r.integer(name)
	if v == nil || *v < -1 || *v > 1 {
		return nil
	}
	return v
}

func (r *tableRow) convert() (RowResult, bool) {
	rawID := r.field(colID)
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return RowResult{Line: r.line, Err: &core.ConversionError{Line: r.line, Field: colID, Err: err}}, false
	}
	r.id = core.ID(id)
	if r.id == 0 {
		return RowResult{Line: r.line, Err: &core.ConversionError{Line: r.line, Field: colID, Err: core.ErrZeroID}}, false
	}

	name := r.field(colName)
	if name == "" {
		r.fail(colName, ErrEmptyName)
	}

	e := &core.Entity{
		ID:              r.id,
		Name:            name,
		DescriptiveName: DescriptiveName(r.id, name),
		Latex:           r.field(colLatex),
		Mass:            r.measure(colMass),
		MassUpper:       r.measure(colMassUpper),
		MassLower:       r.measure(colMassLower),
		Width:           r.measure(colWidth),
		WidthUpper:      r.measure(colWidthUpper),
		WidthLower:      r.measure(colWidthLower),
		ThreeCharge:     r.integer(colCharge),
		Parity:          r.quantum(colP),
		CParity:         r.quantum(colC),
		GParity:         r.quantum(colG),
		Spin:            r.id.Spin(),
		Quarks:          r.field(colQuarks),
	}
	if e.Latex == "" {
		e.Latex = name
	}
	if e.ThreeCharge != nil {
		e.Charge = core.Finite(float64(*e.ThreeCharge) / 3)
	}
	e.Lifetime = core.LifetimeFromWidth(e.Width)
	e.CTau = core.CTauFromLifetime(e.Lifetime)

	if status := r.integer(colStatus); status != nil {
		if *status >= 0 && *status < len(statusNames) {
			e.Status = statusNames[*status]
		} else {
			e.Status = "Unknown"
		}
	}

	hasAnti := false
	if a := r.integer(colAnti); a != nil {
		hasAnti = *a != 0
	}

	if r.err != nil {
		return RowResult{Line: r.line, Err: r.err}, false
	}
	return RowResult{Line: r.line, Entity: e}, hasAnti
}
