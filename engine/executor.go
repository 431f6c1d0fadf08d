package engine

import (
	"fmt"
	"log/slog"
)

// ============================================================================
// EXECUTOR — Query dispatcher
// ============================================================================
// Entry point: Execute(db, query)
//
// Pipeline:
//   1. Validate the parameters the query kind needs
//   2. Call the matching Database method
//   3. Return a Result with the one answer field for that kind
//
// Execute never mutates the Database and never formats numbers.
// ============================================================================

// Execute runs q against db.
func Execute(db *Database, q Query) (*Result, error) {
	if err := validateQuery(q); err != nil {
		return nil, err
	}

	result := &Result{Kind: q.Kind, Year: q.Year}
	if g, ok := db.Group(q.Year); ok {
		result.Total = g.Len()
	}

	switch q.Kind {
	case QueryYears:
		result.Year = 0
		result.Years = db.Years()
		result.Total = db.Len()

	case QueryPopulation:
		result.Records = db.PopulationStopped(q.Year, q.Race)

	case QueryRates:
		frisked, arrested := db.FriskedVsArrested(q.Year)
		result.Rates = &Rates{Frisked: frisked, Arrested: arrested}

	case QueryGender:
		bias := db.GenderBias(q.Year)
		result.Bias = &bias

	case QueryCrime:
		result.Change = &CrimeChange{
			Crime: q.Crime,
			From:  q.Year,
			To:    q.Year2,
			Delta: db.CrimeIncrease(q.Crime, q.Year, q.Year2),
		}

	case QueryBorough:
		result.Borough = db.MostCommonBorough(q.Year)

	case QueryBreakdown:
		groups, err := db.Breakdown(q.Year, q.Dimension, q.Limit)
		if err != nil {
			return nil, err
		}
		result.Groups = groups
	}

	slog.Debug("Query executed", "kind", q.Kind, "year", q.Year, "total", result.Total)
	return result, nil
}

// validateQuery checks that q names a known kind and carries its parameters.
func validateQuery(q Query) error {
	switch q.Kind {
	case QueryYears:
		return nil
	case QueryPopulation, QueryRates, QueryGender, QueryCrime, QueryBorough, QueryBreakdown:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownQuery, q.Kind)
	}

	switch q.Kind {
	case QueryPopulation:
		if q.Race == "" {
			return fmt.Errorf("%w: population needs a race", ErrInvalidQuery)
		}
	case QueryCrime:
		if q.Crime == "" {
			return fmt.Errorf("%w: crime needs a description", ErrInvalidQuery)
		}
	case QueryBreakdown:
		if q.Dimension == "" {
			return fmt.Errorf("%w: breakdown needs a dimension", ErrInvalidQuery)
		}
	}
	if q.Limit < 0 {
		return fmt.Errorf("%w: negative limit %d", ErrInvalidQuery, q.Limit)
	}
	return nil
}
