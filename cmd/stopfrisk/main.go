// Package main is the stopfrisk command line.
//
// stopfrisk loads an NYPD stop-and-frisk CSV export into memory, runs one
// analytical query and writes the raw answer as JSON, CSV or text.
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/spektr-org/stopfrisk/engine"
	"github.com/spektr-org/stopfrisk/helpers"
	"github.com/spektr-org/stopfrisk/schema"
)

const version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := mainImpl(ctx, os.Args[1:], os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "stopfrisk: %v\n", err)
		os.Exit(1)
	}
}

func mainImpl(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("stopfrisk", flag.ContinueOnError)
	filePath := fs.String("file", "", "Path to the stop-and-frisk CSV file, - for stdin (required)")
	layoutPath := fs.String("layout", "", "Path to a YAML field layout (default: built-in NYPD layout)")
	query := fs.String("query", engine.QueryYears, "Query: "+strings.Join(engine.QueryKinds, ", "))
	year := fs.Int("year", 0, "Year to query (first year for -query crime)")
	year2 := fs.Int("year2", 0, "Second year for -query crime")
	race := fs.String("race", "", "Race code for -query population (e.g. B, W)")
	crime := fs.String("crime", "", "Description substring for -query crime (e.g. ROBBERY)")
	dimension := fs.String("dimension", "", "Dimension for -query breakdown (description, gender, race, location)")
	limit := fs.Int("limit", 0, "Maximum groups for -query breakdown, 0 = all")
	format := fs.String("format", "json", "Output format: json, pretty, csv, text")
	outFile := fs.String("out", "", "Write output to file instead of stdout")
	describe := fs.Bool("describe", false, "Print the dataset description for the layout and exit")
	printLayout := fs.Bool("print-layout", false, "Print the effective layout as YAML and exit")
	logLevel := fs.String("log-level", "info", "Log level (debug, info, warn, error)")
	showVersion := fs.Bool("version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unknown arguments: %v", fs.Args())
	}
	given := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { given[f.Name] = true })
	if *showVersion {
		_, err := fmt.Fprintf(stdout, "stopfrisk %s\n", version)
		return err
	}
	if err := initLogger(*logLevel); err != nil {
		return err
	}

	layout, err := schema.LoadLayout(*layoutPath)
	if err != nil {
		return err
	}

	// ── Output writer ─────────────────────────────────────────────────────
	w := stdout
	if *outFile != "" {
		f, err := os.Create(*outFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			_ = f.Close()
		}()
		w = f
	}

	if *printLayout {
		return layout.Encode(w)
	}
	if *describe {
		return writeJSON(w, schema.Describe(layout), *format)
	}
	if *filePath == "" {
		return errors.New("-file is required")
	}
	if err := checkYearFlags(*query, given); err != nil {
		return err
	}

	// ── Load ──────────────────────────────────────────────────────────────
	db := engine.New(engine.WithLayout(layout))
	start := time.Now()
	if _, err := helpers.LoadFile(ctx, *filePath, db); err != nil {
		return err
	}
	slog.Debug("Load finished", "file", *filePath, "elapsed", time.Since(start))

	// ── Query ─────────────────────────────────────────────────────────────
	res, err := engine.Execute(db, engine.Query{
		Kind:      *query,
		Year:      *year,
		Year2:     *year2,
		Race:      *race,
		Crime:     *crime,
		Dimension: *dimension,
		Limit:     *limit,
	})
	if err != nil {
		return err
	}
	if err := render(w, res, *format); err != nil {
		return err
	}
	if *outFile != "" {
		slog.Info("Result written", "path", *outFile, "format", *format)
	}
	return nil
}

// checkYearFlags reports a query that needs -year or -year2 when the flag was
// not given. Year 0 passed explicitly is a valid, empty year.
func checkYearFlags(kind string, given map[string]bool) error {
	if kind == engine.QueryYears || !slices.Contains(engine.QueryKinds, kind) {
		return nil
	}
	if !given["year"] {
		return fmt.Errorf("%w: -query %s needs -year", engine.ErrInvalidQuery, kind)
	}
	if kind == engine.QueryCrime && !given["year2"] {
		return fmt.Errorf("%w: -query crime needs -year2", engine.ErrInvalidQuery)
	}
	return nil
}

// initLogger installs a tint handler on stderr as the default slog logger.
func initLogger(level string) error {
	ll := &slog.LevelVar{}
	if err := ll.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid -log-level %q: %w", level, err)
	}
	logger := slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      ll,
		TimeFormat: "15:04:05.000",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			switch t := a.Value.Any().(type) {
			case string:
				if t == "" {
					return slog.Attr{}
				}
			case nil:
				return slog.Attr{}
			}
			return a
		},
	}))
	slog.SetDefault(logger)
	return nil
}

// ============================================================================
// OUTPUT
// ============================================================================

func render(w io.Writer, res *engine.Result, format string) error {
	switch format {
	case "json", "pretty":
		return writeJSON(w, res, format)
	case "csv":
		return writeCSV(w, res)
	case "text":
		return writeText(w, res)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func writeJSON(w io.Writer, v any, format string) error {
	var out []byte
	var err error
	if format == "pretty" {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func writeCSV(w io.Writer, res *engine.Result) error {
	cw := csv.NewWriter(w)
	var rows [][]string
	switch res.Kind {
	case engine.QueryYears:
		rows = append(rows, []string{"year"})
		for _, y := range res.Years {
			rows = append(rows, []string{strconv.Itoa(y)})
		}
	case engine.QueryPopulation:
		rows = append(rows, []string{"description", "arrested", "frisked", "gender", "race", "location"})
		for _, r := range res.Records {
			rows = append(rows, []string{
				r.Description(),
				strconv.FormatBool(r.Arrested()),
				strconv.FormatBool(r.Frisked()),
				r.Gender(), r.Race(), r.Location(),
			})
		}
	case engine.QueryRates:
		rows = append(rows,
			[]string{"metric", "percent"},
			[]string{"frisked", fmtNum(res.Rates.Frisked)},
			[]string{"arrested", fmtNum(res.Rates.Arrested)},
		)
	case engine.QueryGender:
		rows = append(rows, []string{"gender", "black", "white", "total"})
		for row, label := range [...]string{engine.RowFemale: "female", engine.RowMale: "male"} {
			cells := res.Bias[row]
			rows = append(rows, []string{label, fmtNum(cells[engine.ColBlack]), fmtNum(cells[engine.ColWhite]), fmtNum(cells[engine.ColTotal])})
		}
	case engine.QueryCrime:
		c := res.Change
		rows = append(rows,
			[]string{"crime", "from", "to", "delta"},
			[]string{c.Crime, strconv.Itoa(c.From), strconv.Itoa(c.To), fmtNum(c.Delta)},
		)
	case engine.QueryBorough:
		rows = append(rows, []string{"year", "borough"}, []string{strconv.Itoa(res.Year), res.Borough})
	case engine.QueryBreakdown:
		rows = append(rows, []string{"key", "count", "percent"})
		for _, g := range res.Groups {
			rows = append(rows, []string{g.Key, strconv.Itoa(g.Count), fmtNum(g.Percent)})
		}
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

func writeText(w io.Writer, res *engine.Result) error {
	var lines []string
	switch res.Kind {
	case engine.QueryYears:
		years := make([]string, len(res.Years))
		for i, y := range res.Years {
			years[i] = strconv.Itoa(y)
		}
		lines = append(lines, fmt.Sprintf("%d stops across %d years: %s", res.Total, len(res.Years), strings.Join(years, ", ")))
	case engine.QueryPopulation:
		lines = append(lines, fmt.Sprintf("%d of %d stops in %d matched the race", len(res.Records), res.Total, res.Year))
	case engine.QueryRates:
		lines = append(lines, fmt.Sprintf("%d: frisked %.2f%%, arrested %.2f%% of %d stops", res.Year, res.Rates.Frisked, res.Rates.Arrested, res.Total))
	case engine.QueryGender:
		b := res.Bias
		lines = append(lines,
			fmt.Sprintf("%-8s %8s %8s %8s", "", "black", "white", "total"),
			fmt.Sprintf("%-8s %8.2f %8.2f %8.2f", "female", b[engine.RowFemale][engine.ColBlack], b[engine.RowFemale][engine.ColWhite], b[engine.RowFemale][engine.ColTotal]),
			fmt.Sprintf("%-8s %8.2f %8.2f %8.2f", "male", b[engine.RowMale][engine.ColBlack], b[engine.RowMale][engine.ColWhite], b[engine.RowMale][engine.ColTotal]),
		)
	case engine.QueryCrime:
		c := res.Change
		lines = append(lines, fmt.Sprintf("%s: %+.2f percentage points from %d to %d", c.Crime, c.Delta, c.From, c.To))
	case engine.QueryBorough:
		lines = append(lines, fmt.Sprintf("%d: most stops in %s", res.Year, res.Borough))
	case engine.QueryBreakdown:
		for _, g := range res.Groups {
			lines = append(lines, fmt.Sprintf("%-30s %8d %6.2f%%", g.Key, g.Count, g.Percent))
		}
		if len(lines) == 0 {
			lines = append(lines, "No records.")
		}
	}
	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}

func fmtNum(v float64) string {
	// Whole numbers → no decimals, fractional → 2 decimals
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
