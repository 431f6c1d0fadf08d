package engine

import (
	"fmt"
	"strings"

	"github.com/spektr-org/stopfrisk/schema"
)

// ============================================================================
// QUERIES — Read-only analytics over one or two years
// ============================================================================
// An absent year behaves like a year with no records. No query returns NaN:
// any ratio over an empty population is 0.
// ============================================================================

// PopulationStopped returns year's records whose race equals race exactly,
// in insertion order. The result is never nil.
func (db *Database) PopulationStopped(year int, race string) []Record {
	view := db.view(year)
	sub := ApplyFilters(view, Match(schema.FieldRace, race))

	out := make([]Record, 0, sub.Len())
	for _, i := range sub.Indices() {
		out = append(out, view.At(i))
	}
	return out
}

// FriskedVsArrested returns the percentage of year's stops that were frisked
// and the percentage that ended in arrest. The two are independent.
func (db *Database) FriskedVsArrested(year int) (frisked, arrested float64) {
	view := db.view(year)
	total := view.Len()
	frisked = Percent(int(SumMeasure(view, schema.FieldFrisked)), total)
	arrested = Percent(int(SumMeasure(view, schema.FieldArrested)), total)
	return frisked, arrested
}

// GenderBias compares female and male shares of Black and White stops.
//
// Each race cell is count/raceTotal*0.5*100, so a race contributes at most 50
// to the total column. Race totals include stops of any gender; only "F" and
// "M" are counted in the cells. A race with no stops contributes 0.
func (db *Database) GenderBias(year int) BiasTable {
	view := db.view(year)

	var table BiasTable
	for col, race := range [...]string{ColBlack: RaceBlack, ColWhite: RaceWhite} {
		stops := ApplyFilters(view, Match(schema.FieldRace, race))
		total := stops.Len()
		females := ApplyFilters(stops, Match(schema.FieldGender, GenderFemale)).Len()
		males := ApplyFilters(stops, Match(schema.FieldGender, GenderMale)).Len()

		table[RowFemale][col] = halfPercent(females, total)
		table[RowMale][col] = halfPercent(males, total)
	}
	for _, row := range [...]int{RowFemale, RowMale} {
		table[row][ColTotal] = table[row][ColBlack] + table[row][ColWhite]
	}
	return table
}

func halfPercent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return (float64(part) / float64(total)) * 0.5 * 100
}

// CrimeIncrease returns the change, in percentage points, of the share of
// stops whose description contains crime (case-sensitive) from year1 to
// year2. An absent year has a share of 0.
func (db *Database) CrimeIncrease(crime string, year1, year2 int) float64 {
	return db.crimeShare(crime, year2) - db.crimeShare(crime, year1)
}

func (db *Database) crimeShare(crime string, year int) float64 {
	view := db.view(year)
	matches := Where(view, func(i int) bool {
		return strings.Contains(view.Dimension(i, schema.FieldDescription), crime)
	})
	return Percent(matches.Len(), view.Len())
}

// MostCommonBorough returns the entry of Boroughs with the most stops in
// year, matching locations ignoring case. Only a strictly greater count
// replaces the leader, so ties and an empty year go to the earliest listed.
func (db *Database) MostCommonBorough(year int) string {
	view := db.view(year)

	best, most := 0, 0
	for i, name := range Boroughs {
		n := ApplyFilters(view, Filters{
			Dimensions: map[string][]string{schema.FieldLocation: {name}},
			FoldCase:   true,
		}).Len()
		if n > most {
			best, most = i, n
		}
	}
	return Boroughs[best]
}

// Breakdown counts year's stops per value of dimension, largest first.
// limit > 0 keeps only the first limit groups.
func (db *Database) Breakdown(year int, dimension string, limit int) ([]Group, error) {
	if !recordAdapter.HasDimension(dimension) {
		return nil, fmt.Errorf("breakdown: %w: %q", ErrUnknownDimension, dimension)
	}
	return GroupAndCount(db.view(year), dimension, SortCountDesc, limit), nil
}
