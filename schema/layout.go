package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ============================================================================
// LAYOUT — Field name → position table for stop-and-frisk CSV lines
// ============================================================================
// The NYPD export is consumed positionally. Every offset the engine reads
// lives here so a schema change is an edit to one YAML file, not to code.
// ============================================================================

var (
	// ErrInvalidLayout reports a layout with negative offsets or no marker.
	ErrInvalidLayout = errors.New("invalid layout")
	// ErrColumnNotFound reports a header column name absent from the file.
	ErrColumnNotFound = errors.New("column not found")
)

// Field names, in the order Fields() reports them.
const (
	FieldYear        = "year"
	FieldDescription = "description"
	FieldArrested    = "arrested"
	FieldFrisked     = "frisked"
	FieldGender      = "gender"
	FieldRace        = "race"
	FieldLocation    = "location"
)

// Layout holds the 0-based positions of every consumed field.
type Layout struct {
	Year        int `yaml:"year"`
	Description int `yaml:"description"`
	Arrested    int `yaml:"arrested"`
	Frisked     int `yaml:"frisked"`
	Gender      int `yaml:"gender"`
	Race        int `yaml:"race"`
	Location    int `yaml:"location"`

	// Marker is the literal that makes the arrested/frisked flags true.
	Marker string `yaml:"marker"`

	// Columns optionally names header columns per field. When set, Resolve
	// replaces the matching offset with the header position.
	Columns map[string]string `yaml:"columns,omitempty"`
}

// Field is one name/offset pair.
type Field struct {
	Name   string
	Offset int
}

// Default returns the layout of the 2011–2019 NYPD stop-and-frisk exports.
func Default() Layout {
	return Layout{
		Year:        0,
		Description: 2,
		Arrested:    13,
		Frisked:     16,
		Gender:      52,
		Race:        66,
		Location:    71,
		Marker:      "Y",
	}
}

// Fields lists every consumed field with its offset.
func (l Layout) Fields() []Field {
	return []Field{
		{FieldYear, l.Year},
		{FieldDescription, l.Description},
		{FieldArrested, l.Arrested},
		{FieldFrisked, l.Frisked},
		{FieldGender, l.Gender},
		{FieldRace, l.Race},
		{FieldLocation, l.Location},
	}
}

// MinFields is the shortest tuple that holds every consumed field.
func (l Layout) MinFields() int {
	last := 0
	for _, f := range l.Fields() {
		if f.Offset > last {
			last = f.Offset
		}
	}
	return last + 1
}

// Validate checks offsets and marker.
func (l Layout) Validate() error {
	for _, f := range l.Fields() {
		if f.Offset < 0 {
			return fmt.Errorf("%w: %s offset %d is negative", ErrInvalidLayout, f.Name, f.Offset)
		}
	}
	if l.Marker == "" {
		return fmt.Errorf("%w: empty marker", ErrInvalidLayout)
	}
	for name := range l.Columns {
		if l.offset(name) == nil {
			return fmt.Errorf("%w: unknown field %q in columns", ErrInvalidLayout, name)
		}
	}
	return nil
}

// Resolve returns a copy of l with offsets taken from header for every field
// named in Columns. Header names are matched after trimming, ignoring case.
func (l Layout) Resolve(header []string) (Layout, error) {
	if len(l.Columns) == 0 {
		return l, nil
	}
	pos := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := pos[key]; !dup {
			pos[key] = i
		}
	}
	out := l
	for _, f := range l.Fields() {
		col, ok := l.Columns[f.Name]
		if !ok {
			continue
		}
		i, found := pos[strings.ToLower(strings.TrimSpace(col))]
		if !found {
			return l, fmt.Errorf("%w: %q for field %s", ErrColumnNotFound, col, f.Name)
		}
		*out.offset(f.Name) = i
	}
	return out, nil
}

func (l *Layout) offset(name string) *int {
	switch name {
	case FieldYear:
		return &l.Year
	case FieldDescription:
		return &l.Description
	case FieldArrested:
		return &l.Arrested
	case FieldFrisked:
		return &l.Frisked
	case FieldGender:
		return &l.Gender
	case FieldRace:
		return &l.Race
	case FieldLocation:
		return &l.Location
	}
	return nil
}

// ParseLayout decodes YAML over Default(). Keys left out keep their default;
// unknown keys are rejected.
func ParseLayout(data []byte) (Layout, error) {
	l := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&l); err != nil && !errors.Is(err, io.EOF) {
		return Layout{}, fmt.Errorf("failed to parse layout: %w", err)
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// LoadLayout reads a YAML layout file. An empty path yields Default().
func LoadLayout(path string) (Layout, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("failed to read layout: %w", err)
	}
	return ParseLayout(data)
}

// Encode writes l as YAML.
func (l Layout) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("failed to encode layout: %w", err)
	}
	return enc.Close()
}
