package engine

import "encoding/json"

// ============================================================================
// RECORD — One stop-and-frisk incident
// ============================================================================

// Record is one stop. It is immutable once built: fields are only readable
// through accessors.
type Record struct {
	description string
	arrested    bool
	frisked     bool
	gender      string
	race        string
	location    string
}

// NewRecord builds a Record. Gender and race are stored raw.
func NewRecord(description string, arrested, frisked bool, gender, race, location string) Record {
	return Record{
		description: description,
		arrested:    arrested,
		frisked:     frisked,
		gender:      gender,
		race:        race,
		location:    location,
	}
}

func (r Record) Description() string { return r.description }
func (r Record) Arrested() bool      { return r.arrested }
func (r Record) Frisked() bool       { return r.frisked }
func (r Record) Gender() string      { return r.gender }
func (r Record) Race() string        { return r.race }
func (r Record) Location() string    { return r.location }

type recordJSON struct {
	Description string `json:"description"`
	Arrested    bool   `json:"arrested"`
	Frisked     bool   `json:"frisked"`
	Gender      string `json:"gender"`
	Race        string `json:"race"`
	Location    string `json:"location"`
}

// MarshalJSON implements json.Marshaler.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(recordJSON{
		Description: r.description,
		Arrested:    r.arrested,
		Frisked:     r.frisked,
		Gender:      r.gender,
		Race:        r.race,
		Location:    r.location,
	})
}

// ============================================================================
// YEAR GROUP — All records attributed to one calendar year
// ============================================================================

// YearGroup holds one year's records in insertion order.
type YearGroup struct {
	year    int
	records []Record
}

// NewYearGroup creates an empty group for year.
func NewYearGroup(year int) *YearGroup {
	return &YearGroup{year: year}
}

// Year returns the group's calendar year.
func (g *YearGroup) Year() int { return g.year }

// Len returns the number of records.
func (g *YearGroup) Len() int { return len(g.records) }

// Add appends r. The record is not checked against the group's year.
func (g *YearGroup) Add(r Record) {
	g.records = append(g.records, r)
}

// Records returns a copy of all records in insertion order.
func (g *YearGroup) Records() []Record {
	out := make([]Record, len(g.records))
	copy(out, g.records)
	return out
}

// View exposes the records as a RecordView without copying.
func (g *YearGroup) View() RecordView {
	return recordAdapter.Bind(g.records)
}
