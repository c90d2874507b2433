package build

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/Rbronzatti/CNPJDatabaseScrap/internal/scan"
	"github.com/Rbronzatti/CNPJDatabaseScrap/internal/schema"
)

// insertBatchSize bounds the rows held by one transaction. Peak memory stays
// independent of file size: the reader streams and batches are re-used.
const insertBatchSize = 5000

// loadLargeTables streams every entity file into its table. A table may be
// split across several files; each file is appended and, on success,
// deleted when reclamation is on. Any failure aborts the whole build.
func (b *Builder) loadLargeTables(ctx context.Context, conn *sql.DB) error {
	for _, spec := range schema.LargeTables {
		files, err := scan.FindByPattern(b.OutputDir, spec.FilePattern)
		if err != nil {
			return err
		}
		for _, fp := range files {
			slog.Info("loading data", "file", filepath.Base(fp), "table", spec.Table)
			rows, err := b.loadFile(ctx, conn, spec, fp)
			if err != nil {
				return fmt.Errorf("load %s into %s: %w", fp, spec.Table, err)
			}
			slog.Info("data loaded", "file", filepath.Base(fp), "table", spec.Table, "rows", rows)
			if b.DeleteSourceFiles {
				slog.Info("deleting source file", "file", filepath.Base(fp))
				if err := os.Remove(fp); err != nil {
					return fmt.Errorf("delete %s: %w", fp, err)
				}
			}
		}
	}
	return nil
}

func (b *Builder) loadFile(ctx context.Context, conn *sql.DB, spec schema.TableSpec, path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r := csv.NewReader(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	r.Comma = ';'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.ReuseRecord = true

	src := &rowReader{r: r, cols: len(spec.Columns)}
	query := insertSQL(spec)

	var bar *progressbar.ProgressBar
	if b.Progress {
		bar = progressbar.Default(-1, spec.Table)
		defer bar.Close()
	}

	var total int64
	for {
		n, err := insertBatch(ctx, conn, query, src)
		total += int64(n)
		if err != nil {
			return total, err
		}
		if bar != nil && n > 0 {
			bar.Add(n)
		}
		if n < insertBatchSize {
			return total, src.Err()
		}
	}
}

// insertBatch writes up to insertBatchSize rows in one transaction and
// reports how many it consumed. Fewer than a full batch means the source
// is drained (or failed; the caller checks src.Err).
func insertBatch(ctx context.Context, conn *sql.DB, query string, src *rowReader) (int, error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	n := 0
	for n < insertBatchSize && src.Next() {
		if _, err := stmt.ExecContext(ctx, src.Values()...); err != nil {
			stmt.Close()
			tx.Rollback()
			return 0, err
		}
		n++
	}
	if err := stmt.Close(); err != nil {
		tx.Rollback()
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return n, nil
}

func insertSQL(spec schema.TableSpec) string {
	cols := make([]string, len(spec.Columns))
	for i, c := range spec.Columns {
		cols[i] = `"` + c + `"`
	}
	ph := strings.TrimRight(strings.Repeat("?,", len(spec.Columns)), ",")
	return fmt.Sprintf(`INSERT INTO "%s" (%s) VALUES (%s)`, spec.Table, strings.Join(cols, ","), ph)
}

// rowReader adapts a csv.Reader into fixed-width rows: short records are
// padded with empty strings and long ones truncated, so every stored row
// matches the declared column count. Blank fields stay empty strings, never
// NULLs, keeping the later text-based coercions unambiguous.
type rowReader struct {
	r    *csv.Reader
	cols int
	row  []string
	err  error
}

func (s *rowReader) Next() bool {
	rec, err := s.r.Read()
	if err == io.EOF {
		return false
	}
	if err != nil {
		s.err = err
		return false
	}
	if s.row == nil {
		s.row = make([]string, s.cols)
	}
	for i := 0; i < s.cols; i++ {
		if i < len(rec) {
			s.row[i] = rec[i]
		} else {
			s.row[i] = ""
		}
	}
	return true
}

func (s *rowReader) Values() []any {
	out := make([]any, s.cols)
	for i, v := range s.row {
		out[i] = v
	}
	return out
}

func (s *rowReader) Err() error { return s.err }
