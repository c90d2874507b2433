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

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/Rbronzatti/CNPJDatabaseScrap/internal/scan"
	"github.com/Rbronzatti/CNPJDatabaseScrap/internal/schema"
)

// loadCodeTables loads the six (codigo, descricao) lookup files. Only these
// files are small enough to read whole; a missing file is a warning, not an
// error, and simply leaves that table absent.
func (b *Builder) loadCodeTables(ctx context.Context, conn *sql.DB) error {
	for _, ct := range schema.CodeTables {
		files, err := scan.FindBySuffix(b.OutputDir, ct.FileSuffix)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			slog.Warn("code table file not found, skipping", "suffix", ct.FileSuffix, "table", ct.Table)
			continue
		}
		path := files[0]
		slog.Info("loading code table", "file", filepath.Base(path), "table", ct.Table)
		rows, err := readCodeFile(path)
		if err != nil {
			return fmt.Errorf("read code table %s: %w", path, err)
		}
		if err := replaceCodeTable(ctx, conn, ct.Table, rows); err != nil {
			return err
		}
		if b.DeleteSourceFiles {
			slog.Info("deleting source file", "file", filepath.Base(path))
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("delete %s: %w", path, err)
			}
		}
	}
	return nil
}

func readCodeFile(path string) ([][2]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	r.Comma = ';'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows [][2]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		var row [2]string
		copy(row[:], rec)
		rows = append(rows, row)
	}
}

// replaceCodeTable drops and recreates the table, loads all rows in one
// transaction and indexes the code column.
func replaceCodeTable(ctx context.Context, conn *sql.DB, table string, rows [][2]string) error {
	if _, err := conn.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS "%s";`, table)); err != nil {
		return fmt.Errorf("drop %s: %w", table, err)
	}
	ddl := fmt.Sprintf(`CREATE TABLE "%s" ("codigo" TEXT, "descricao" TEXT);`, table)
	if _, err := conn.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create %s: %w", table, err)
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`INSERT INTO "%s" ("codigo", "descricao") VALUES (?, ?)`, table))
	if err != nil {
		tx.Rollback()
		return err
	}
	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row[0], row[1]); err != nil {
			stmt.Close()
			tx.Rollback()
			return fmt.Errorf("insert into %s: %w", table, err)
		}
	}
	if err := stmt.Close(); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", table, err)
	}

	idx := fmt.Sprintf(`CREATE INDEX "idx_%s" ON "%s"("codigo");`, table, table)
	if _, err := conn.ExecContext(ctx, idx); err != nil {
		return fmt.Errorf("index %s: %w", table, err)
	}
	return nil
}
