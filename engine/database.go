package engine

import (
	"fmt"
	"strconv"

	"github.com/spektr-org/stopfrisk/schema"
)

// ============================================================================
// DATABASE — Year-grouped stop records and ingestion
// ============================================================================
// Groups are kept in order of first appearance. The year index is a lookup
// shortcut only; it never changes that order.
//
// A Database is not safe for concurrent use. Ingest everything, then query.
// ============================================================================

// Database owns every YearGroup and, through them, every Record.
type Database struct {
	layout schema.Layout
	years  []*YearGroup
	index  map[int]int // year → position in years
}

// New creates an empty Database.
func New(opts ...Option) *Database {
	cfg := applyOptions(opts)
	return &Database{
		layout: cfg.Layout,
		index:  make(map[int]int),
	}
}

// Layout returns the field offsets Ingest uses.
func (db *Database) Layout() schema.Layout { return db.layout }

// SetLayout replaces the field offsets after validating them.
func (db *Database) SetLayout(l schema.Layout) error {
	if err := l.Validate(); err != nil {
		return err
	}
	db.layout = l
	return nil
}

// Ingest converts one pre-split line into a Record and appends it to its
// year, creating the year's group on first sight. The year is parsed before
// the remaining fields are checked, so a short line with a bad year reports
// ErrParse. On error nothing is added.
func (db *Database) Ingest(fields []string) error {
	l := db.layout
	need := l.MinFields()
	if len(fields) <= l.Year {
		return fmt.Errorf("ingest: %w: got %d fields, need %d", ErrMissingField, len(fields), need)
	}
	raw := fields[l.Year]
	year, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("ingest: %w: year %q: %w", ErrParse, raw, err)
	}
	if len(fields) < need {
		return fmt.Errorf("ingest: %w: got %d fields, need %d", ErrMissingField, len(fields), need)
	}

	db.Add(year, NewRecord(
		fields[l.Description],
		fields[l.Arrested] == l.Marker,
		fields[l.Frisked] == l.Marker,
		fields[l.Gender],
		fields[l.Race],
		fields[l.Location],
	))
	return nil
}

// Add appends an already built record to year.
func (db *Database) Add(year int, r Record) {
	pos, ok := db.index[year]
	if !ok {
		pos = len(db.years)
		db.years = append(db.years, NewYearGroup(year))
		db.index[year] = pos
	}
	db.years[pos].Add(r)
}

// Years returns the year values in order of first appearance.
func (db *Database) Years() []int {
	out := make([]int, len(db.years))
	for i, g := range db.years {
		out[i] = g.Year()
	}
	return out
}

// Group returns the group for year.
func (db *Database) Group(year int) (*YearGroup, bool) {
	pos, ok := db.index[year]
	if !ok {
		return nil, false
	}
	return db.years[pos], true
}

// Len returns the total number of records across all years.
func (db *Database) Len() int {
	n := 0
	for _, g := range db.years {
		n += g.Len()
	}
	return n
}

// view returns year's records, or an empty view when the year is absent.
func (db *Database) view(year int) *DomainView[Record] {
	if g, ok := db.Group(year); ok {
		return recordAdapter.Bind(g.records)
	}
	return recordAdapter.Bind(nil)
}
