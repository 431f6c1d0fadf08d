// Package stopfrisk analyzes NYPD stop-and-frisk records in memory.
//
// Usage:
//
//	import (
//	    "github.com/spektr-org/stopfrisk/engine"
//	    "github.com/spektr-org/stopfrisk/helpers"
//	)
//
//	db := engine.New()
//	if _, err := helpers.LoadFile(ctx, "sqf.csv", db); err != nil { ... }
//	frisked, arrested := db.FriskedVsArrested(2011)
//	borough := db.MostCommonBorough(2011)
//
// The schema package holds the field layout (which column holds which field),
// helpers reads the CSV file, and engine groups records by year and answers
// the queries. cmd/stopfrisk wraps all three in a command line.
package stopfrisk
