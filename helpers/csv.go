package helpers

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spektr-org/stopfrisk/engine"
)

// ============================================================================
// CSV HELPER — Feeds stop-and-frisk lines into an engine.Database
// ============================================================================
// LineReader is the only part that knows about delimiters and the header.
// The engine receives plain field tuples, one per line, in file order.
// ============================================================================

// LineReader yields the data lines of a comma-delimited file as field tuples.
// The header line is consumed by NewLineReader.
type LineReader struct {
	r      *csv.Reader
	header []string
	line   int
}

// NewLineReader reads and keeps the header. An empty input has no header and
// yields no lines.
func NewLineReader(r io.Reader) (*LineReader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // positions are checked by the layout, not here
	cr.LazyQuotes = true

	lr := &LineReader{r: cr}
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return lr, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	lr.header = header
	lr.line, _ = cr.FieldPos(0)
	return lr, nil
}

// Header returns the discarded header fields, or nil for an empty input.
func (lr *LineReader) Header() []string { return lr.header }

// Line returns the 1-based line number of the tuple last returned.
func (lr *LineReader) Line() int { return lr.line }

// Next returns the next line's fields, or io.EOF when the input is exhausted.
func (lr *LineReader) Next() ([]string, error) {
	row, err := lr.r.Read()
	if errors.Is(err, io.EOF) {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV line: %w", err)
	}
	lr.line, _ = lr.r.FieldPos(0)
	return row, nil
}

// Load ingests every data line of r into db and returns how many records
// were added. When db's layout names header columns, offsets are resolved
// from the header first. The first failing line stops the load.
func Load(ctx context.Context, r io.Reader, db *engine.Database) (int, error) {
	lr, err := NewLineReader(r)
	if err != nil {
		return 0, err
	}
	if lr.Header() != nil && len(db.Layout().Columns) > 0 {
		layout, err := db.Layout().Resolve(lr.Header())
		if err != nil {
			return 0, err
		}
		if err := db.SetLayout(layout); err != nil {
			return 0, err
		}
		slog.Debug("Resolved layout from header", "min_fields", layout.MinFields())
	}

	n := 0
	for {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		fields, err := lr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return n, err
		}
		if err := db.Ingest(fields); err != nil {
			return n, fmt.Errorf("line %d: %w", lr.Line(), err)
		}
		n++
	}

	slog.Info("Loaded stops", "records", n, "years", len(db.Years()))
	return n, nil
}

// LoadFile opens path and calls Load. "-" reads standard input.
func LoadFile(ctx context.Context, path string, db *engine.Database) (int, error) {
	if path == "-" {
		return Load(ctx, os.Stdin, db)
	}
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open data file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	n, err := Load(ctx, f, db)
	if err != nil {
		return n, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}
