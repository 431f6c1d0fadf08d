package helpers

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/stopfrisk/engine"
	"github.com/spektr-org/stopfrisk/schema"
)

// ── Test Data ─────────────────────────────────────────────────────────────────

// Seven-column export; the layout below points at it.
var smallLayout = schema.Layout{Year: 0, Description: 1, Arrested: 2, Frisked: 3, Gender: 4, Race: 5, Location: 6, Marker: "Y"}

var smallCSV = `year,crime,arrest,frisk,sex,race,boro
2015,ROBBERY,N,Y,F,B,BROOKLYN
2015,"ASSAULT, 3RD DEGREE",Y,N,M,W,MANHATTAN
2019,ROBBERY,N,N,M,B,brooklyn
2015,CPW,N,N,M,B,Bronx
`

func TestLineReader(t *testing.T) {
	lr, err := NewLineReader(strings.NewReader(smallCSV))
	require.NoError(t, err)
	assert.Equal(t, []string{"year", "crime", "arrest", "frisk", "sex", "race", "boro"}, lr.Header())

	fields, err := lr.Next()
	require.NoError(t, err)
	assert.Equal(t, "2015", fields[0])
	assert.Equal(t, 2, lr.Line())

	fields, err = lr.Next()
	require.NoError(t, err)
	assert.Equal(t, "ASSAULT, 3RD DEGREE", fields[1], "quoted commas stay in one field")
	assert.Len(t, fields, 7)
	assert.Equal(t, 3, lr.Line())

	for i := 0; i < 2; i++ {
		_, err = lr.Next()
		require.NoError(t, err)
	}
	_, err = lr.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestLineReaderVariableWidth(t *testing.T) {
	lr, err := NewLineReader(strings.NewReader("a,b,c\n1\n1,2,3,4\n"))
	require.NoError(t, err)
	f, err := lr.Next()
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, f)
	f, err = lr.Next()
	require.NoError(t, err)
	assert.Len(t, f, 4)
}

func TestLoad(t *testing.T) {
	db := engine.New(engine.WithLayout(smallLayout))
	n, err := Load(context.Background(), strings.NewReader(smallCSV), db)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []int{2015, 2019}, db.Years())

	frisked, arrested := db.FriskedVsArrested(2015)
	assert.InDelta(t, 33.33, frisked, 0.01)
	assert.InDelta(t, 33.33, arrested, 0.01)
	assert.Equal(t, "Brooklyn", db.MostCommonBorough(2015))
	assert.Len(t, db.PopulationStopped(2015, "B"), 2)
}

func TestLoadHeaderOnly(t *testing.T) {
	db := engine.New()
	n, err := Load(context.Background(), strings.NewReader("year,crime,arrest\n"), db)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, db.Years())

	f, a := db.FriskedVsArrested(2019)
	assert.Zero(t, f)
	assert.Zero(t, a)
	assert.Equal(t, "Brooklyn", db.MostCommonBorough(2019))
	assert.Equal(t, engine.BiasTable{}, db.GenderBias(2019))
	assert.Zero(t, db.CrimeIncrease("ROBBERY", 2015, 2019))
	assert.Empty(t, db.PopulationStopped(2019, "B"))
}

func TestLoadEmptyInput(t *testing.T) {
	db := engine.New()
	n, err := Load(context.Background(), strings.NewReader(""), db)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, db.Years())
}

func TestLoadParseErrorHasLineNumber(t *testing.T) {
	data := "h\n2015,A,N,N,M,B,X\nYEAR,A,N,N,M,B,X\n"
	db := engine.New(engine.WithLayout(smallLayout))
	n, err := Load(context.Background(), strings.NewReader(data), db)
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrParse)
	assert.Contains(t, err.Error(), "line 3")
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, db.Len(), "lines before the failure stay ingested")
}

func TestLoadShortLine(t *testing.T) {
	db := engine.New()
	_, err := Load(context.Background(), strings.NewReader("h\n2015,A,N\n"), db)
	assert.ErrorIs(t, err, engine.ErrMissingField)
	assert.Contains(t, err.Error(), "line 2")
}

func TestLoadResolvesHeaderColumns(t *testing.T) {
	layout := schema.Default()
	layout.Columns = map[string]string{
		schema.FieldYear:        "YEAR",
		schema.FieldDescription: "Crime",
		schema.FieldArrested:    "arrest",
		schema.FieldFrisked:     "frisk",
		schema.FieldGender:      "sex",
		schema.FieldRace:        "race",
		schema.FieldLocation:    "boro",
	}
	db := engine.New(engine.WithLayout(layout))
	n, err := Load(context.Background(), strings.NewReader(smallCSV), db)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, 7, db.Layout().MinFields())
	assert.Len(t, db.PopulationStopped(2019, "B"), 1)
}

func TestLoadMissingHeaderColumn(t *testing.T) {
	layout := smallLayout
	layout.Columns = map[string]string{schema.FieldRace: "ethnicity"}
	db := engine.New(engine.WithLayout(layout))
	_, err := Load(context.Background(), strings.NewReader(smallCSV), db)
	assert.ErrorIs(t, err, schema.ErrColumnNotFound)
}

func TestLoadCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	db := engine.New(engine.WithLayout(smallLayout))
	n, err := Load(ctx, strings.NewReader(smallCSV), db)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, n)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sqf.csv")
	require.NoError(t, os.WriteFile(path, []byte(smallCSV), 0o600))

	db := engine.New(engine.WithLayout(smallLayout))
	n, err := LoadFile(context.Background(), path, db)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	_, err = LoadFile(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), engine.New())
	assert.ErrorIs(t, err, os.ErrNotExist)
}
