package engine

// ============================================================================
// STOPFRISK ENGINE TYPES
// ============================================================================

// Race and gender codes used by GenderBias.
const (
	RaceBlack    = "B"
	RaceWhite    = "W"
	GenderFemale = "F"
	GenderMale   = "M"
)

// Boroughs is the fixed list MostCommonBorough scans. Order is the tie-break.
// "Queeens" is the historical spelling and is kept as is, so Queens locations
// never match it.
var Boroughs = [5]string{"Brooklyn", "Manhattan", "Bronx", "Queeens", "Staten Island"}

// ============================================================================
// GROUP — Breakdown result
// ============================================================================

// Group is one value of a grouped dimension with its record count.
type Group struct {
	Key     string     `json:"key"`
	Count   int        `json:"count"`
	Percent float64    `json:"percent"`
	View    RecordView `json:"-"` // Sub-view for records in this group (zero-copy)
}

// ============================================================================
// GENDER BIAS TABLE
// ============================================================================

// BiasTable is the 2×3 grid returned by GenderBias. Each race column holds
// half that race's gender percentage; ColTotal is the sum of both races.
type BiasTable [2][3]float64

// Rows and columns of a BiasTable.
const (
	RowFemale = 0
	RowMale   = 1

	ColBlack = 0
	ColWhite = 1
	ColTotal = 2
)

// ============================================================================
// QUERY / RESULT — Contract between callers and Execute
// ============================================================================

// Query kinds accepted by Execute.
const (
	QueryYears      = "years"
	QueryPopulation = "population"
	QueryRates      = "rates"
	QueryGender     = "gender"
	QueryCrime      = "crime"
	QueryBorough    = "borough"
	QueryBreakdown  = "breakdown"
)

// QueryKinds lists every kind in help order.
var QueryKinds = []string{QueryYears, QueryPopulation, QueryRates, QueryGender, QueryCrime, QueryBorough, QueryBreakdown}

// Query names one analytical question and its parameters.
type Query struct {
	Kind      string `json:"kind"`
	Year      int    `json:"year,omitempty"`
	Year2     int    `json:"year2,omitempty"`     // crime: the later year
	Race      string `json:"race,omitempty"`      // population
	Crime     string `json:"crime,omitempty"`     // crime: substring of the description
	Dimension string `json:"dimension,omitempty"` // breakdown
	Limit     int    `json:"limit,omitempty"`     // breakdown: 0 = all
}

// Result carries the raw answer. Exactly one answer field is set, per Kind.
type Result struct {
	Kind  string `json:"kind"`
	Year  int    `json:"year,omitempty"`
	Total int    `json:"total"` // records in Year (sum over years for "years")

	Years   []int        `json:"years,omitempty"`
	Records []Record     `json:"records,omitempty"`
	Rates   *Rates       `json:"rates,omitempty"`
	Bias    *BiasTable   `json:"bias,omitempty"`
	Change  *CrimeChange `json:"change,omitempty"`
	Borough string       `json:"borough,omitempty"`
	Groups  []Group      `json:"groups,omitempty"`
}

// Rates is the FriskedVsArrested pair.
type Rates struct {
	Frisked  float64 `json:"frisked"`
	Arrested float64 `json:"arrested"`
}

// CrimeChange is the CrimeIncrease answer with its inputs.
type CrimeChange struct {
	Crime string  `json:"crime"`
	From  int     `json:"from"`
	To    int     `json:"to"`
	Delta float64 `json:"delta"` // percentage points, To minus From
}
