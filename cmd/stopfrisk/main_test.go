package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/stopfrisk/engine"
)

const layoutYAML = `year: 0
description: 1
arrested: 2
frisked: 3
gender: 4
race: 5
location: 6
`

const dataCSV = `year,crime,arrest,frisk,sex,race,boro
2015,ROBBERY,N,Y,F,B,BROOKLYN
2015,ASSAULT,N,N,M,B,BROOKLYN
2015,CPW,N,N,M,W,QUEENS
2015,BURGLARY,N,N,M,W,QUEENS
2019,ROBBERY,Y,Y,M,B,MANHATTAN
2019,ROBBERY,N,Y,F,W,MANHATTAN
2019,ASSAULT,N,N,M,B,BRONX
2019,CPW,N,N,F,B,MANHATTAN
`

func writeFixtures(t *testing.T) (data, layout string) {
	t.Helper()
	dir := t.TempDir()
	data = filepath.Join(dir, "sqf.csv")
	layout = filepath.Join(dir, "layout.yaml")
	require.NoError(t, os.WriteFile(data, []byte(dataCSV), 0o600))
	require.NoError(t, os.WriteFile(layout, []byte(layoutYAML), 0o600))
	return data, layout
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := mainImpl(context.Background(), append(args, "-log-level", "error"), &out)
	return out.String(), err
}

func TestCrimeQueryJSON(t *testing.T) {
	data, layout := writeFixtures(t)
	out, err := run(t, "-file", data, "-layout", layout, "-query", "crime", "-crime", "ROBBERY", "-year", "2015", "-year2", "2019")
	require.NoError(t, err)

	var res engine.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.NotNil(t, res.Change)
	assert.InDelta(t, 25.0, res.Change.Delta, 1e-9)
}

func TestYearsQueryText(t *testing.T) {
	data, layout := writeFixtures(t)
	out, err := run(t, "-file", data, "-layout", layout, "-format", "text")
	require.NoError(t, err)
	assert.Equal(t, "8 stops across 2 years: 2015, 2019\n", out)
}

func TestBoroughQueryCSV(t *testing.T) {
	data, layout := writeFixtures(t)
	out, err := run(t, "-file", data, "-layout", layout, "-query", "borough", "-year", "2015", "-format", "csv")
	require.NoError(t, err)
	assert.Equal(t, "year,borough\n2015,Brooklyn\n", out)

	out, err = run(t, "-file", data, "-layout", layout, "-query", "borough", "-year", "2019", "-format", "text")
	require.NoError(t, err)
	assert.Equal(t, "2019: most stops in Manhattan\n", out)
}

func TestRatesAndGenderCSV(t *testing.T) {
	data, layout := writeFixtures(t)
	out, err := run(t, "-file", data, "-layout", layout, "-query", "rates", "-year", "2019", "-format", "csv")
	require.NoError(t, err)
	assert.Equal(t, "metric,percent\nfrisked,50\narrested,25\n", out)

	out, err = run(t, "-file", data, "-layout", layout, "-query", "gender", "-year", "2015", "-format", "csv")
	require.NoError(t, err)
	assert.Equal(t, "gender,black,white,total\nfemale,25,0,25\nmale,25,50,75\n", out)
}

func TestPopulationAndBreakdown(t *testing.T) {
	data, layout := writeFixtures(t)
	out, err := run(t, "-file", data, "-layout", layout, "-query", "population", "-year", "2019", "-race", "B", "-format", "csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "ROBBERY,true,true,M,B,MANHATTAN", lines[1])

	out, err = run(t, "-file", data, "-layout", layout, "-query", "breakdown", "-year", "2019", "-dimension", "description", "-limit", "1", "-format", "csv")
	require.NoError(t, err)
	assert.Equal(t, "key,count,percent\nROBBERY,2,50\n", out)
}

func TestOutFile(t *testing.T) {
	data, layout := writeFixtures(t)
	path := filepath.Join(t.TempDir(), "out.json")
	out, err := run(t, "-file", data, "-layout", layout, "-query", "rates", "-year", "2015", "-out", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"frisked":25`)
}

func TestDescribeAndPrintLayout(t *testing.T) {
	out, err := run(t, "-describe")
	require.NoError(t, err)
	assert.Contains(t, out, `"minFields":72`)

	out, err = run(t, "-print-layout")
	require.NoError(t, err)
	assert.Contains(t, out, "location: 71")
}

func TestErrors(t *testing.T) {
	data, layout := writeFixtures(t)

	_, err := run(t, "-query", "rates", "-year", "2019")
	assert.ErrorContains(t, err, "-file is required")

	_, err = run(t, "-file", data, "-layout", layout, "-query", "rates")
	assert.ErrorIs(t, err, engine.ErrInvalidQuery)
	assert.ErrorContains(t, err, "needs -year")

	_, err = run(t, "-file", data, "-layout", layout, "-query", "crime", "-crime", "ROBBERY", "-year", "2015")
	assert.ErrorIs(t, err, engine.ErrInvalidQuery)
	assert.ErrorContains(t, err, "needs -year2")

	_, err = run(t, "-file", data, "-layout", layout, "-query", "hotspot")
	assert.ErrorIs(t, err, engine.ErrUnknownQuery)

	_, err = run(t, "-file", data, "-layout", layout, "-format", "xml")
	assert.ErrorContains(t, err, "unknown format")

	_, err = run(t, "-file", data, "-query", "rates", "-year", "2019")
	assert.ErrorIs(t, err, engine.ErrMissingField, "default layout needs 72 columns")

	_, err = run(t, "extra")
	assert.ErrorContains(t, err, "unknown arguments")
}

func TestExplicitYearZero(t *testing.T) {
	data, layout := writeFixtures(t)
	out, err := run(t, "-file", data, "-layout", layout, "-query", "rates", "-year", "0", "-format", "csv")
	require.NoError(t, err)
	assert.Equal(t, "metric,percent\nfrisked,0\narrested,0\n", out)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "-version")
	require.NoError(t, err)
	assert.Equal(t, "stopfrisk "+version+"\n", out)
}
