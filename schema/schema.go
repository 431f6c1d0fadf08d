package schema

// ============================================================================
// SCHEMA — Describes the shape of the ingested stop-and-frisk dataset
// ============================================================================
// The engine exposes each record through string dimensions and 0/1 measures.
// Config pairs that vocabulary with the layout offsets it is read from, so the
// CLI can print what a data file is expected to contain.
// ============================================================================

// Config describes the complete shape of the dataset.
type Config struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Dimensions  []DimensionMeta `json:"dimensions"`
	Measures    []MeasureMeta   `json:"measures"`
	Marker      string          `json:"marker"`
	MinFields   int             `json:"minFields"`
}

// DimensionMeta describes a string field used for grouping/filtering.
type DimensionMeta struct {
	Key        string `json:"key"`
	Offset     int    `json:"offset"`
	Groupable  bool   `json:"groupable"`
	FoldCase   bool   `json:"foldCase,omitempty"` // compared ignoring case
	SampleHint string `json:"sampleHint,omitempty"`
}

// MeasureMeta describes a 0/1 flag derived from the marker.
type MeasureMeta struct {
	Key    string `json:"key"`
	Offset int    `json:"offset"`
}

// Describe builds the dataset description for a layout.
func Describe(l Layout) Config {
	return Config{
		Name:        "nypd-stop-and-frisk",
		Description: "One row per stop; records grouped by the year column.",
		Dimensions: []DimensionMeta{
			{Key: FieldDescription, Offset: l.Description, Groupable: true, SampleHint: "ROBBERY"},
			{Key: FieldGender, Offset: l.Gender, Groupable: true, SampleHint: "M, F"},
			{Key: FieldRace, Offset: l.Race, Groupable: true, SampleHint: "B, W"},
			{Key: FieldLocation, Offset: l.Location, Groupable: true, FoldCase: true, SampleHint: "BROOKLYN"},
		},
		Measures: []MeasureMeta{
			{Key: FieldArrested, Offset: l.Arrested},
			{Key: FieldFrisked, Offset: l.Frisked},
		},
		Marker:    l.Marker,
		MinFields: l.MinFields(),
	}
}

// DimensionKeys returns all dimension keys.
func (c Config) DimensionKeys() []string {
	keys := make([]string, len(c.Dimensions))
	for i, d := range c.Dimensions {
		keys[i] = d.Key
	}
	return keys
}

// MeasureKeys returns all measure keys.
func (c Config) MeasureKeys() []string {
	keys := make([]string, len(c.Measures))
	for i, m := range c.Measures {
		keys[i] = m.Key
	}
	return keys
}
