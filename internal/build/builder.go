// Package build materializes one downloaded CNPJ snapshot into a fully
// indexed SQLite database file. The build is strictly sequential: expand
// archives, load code tables, stream the large tables, run the ordered
// schema adjustments, record provenance. There is no per-stage rollback; a
// failed run leaves a partial file the next run refuses to reuse.
package build

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Rbronzatti/CNPJDatabaseScrap/internal/db"
	"github.com/Rbronzatti/CNPJDatabaseScrap/internal/extract"
	"github.com/Rbronzatti/CNPJDatabaseScrap/internal/schema"
)

// DefaultDBName is the database filename used when none is configured.
const DefaultDBName = "cnpj.db"

// ErrDatabaseExists is returned when the target database file is already
// present. The existing file is never touched: delete it and re-run.
var ErrDatabaseExists = errors.New("database file already exists")

// Builder drives one snapshot build. Configure it once; there is no
// reconfiguration after Run starts.
type Builder struct {
	// InputDir holds the downloaded zip archives.
	InputDir string
	// OutputDir receives the expanded raw files and the database file.
	OutputDir string
	// DBName is the database filename inside OutputDir.
	DBName string
	// DeleteSourceFiles removes each raw file once its rows are committed,
	// bounding peak disk use (uncompressed input runs into tens of GB).
	DeleteSourceFiles bool
	// ExpectedArchives is the archive count of a complete snapshot.
	ExpectedArchives int
	// StrictArchiveCount makes an archive count mismatch fatal.
	StrictArchiveCount bool
	// Progress enables terminal progress output during the bulk load.
	Progress bool
}

// DBPath returns the target database path.
func (b *Builder) DBPath() string {
	name := b.DBName
	if name == "" {
		name = DefaultDBName
	}
	return filepath.Join(b.OutputDir, name)
}

// Run executes the whole build. The ErrDatabaseExists precondition is
// checked before any mutation, so a refused run has no side effects.
func (b *Builder) Run(ctx context.Context) error {
	start := time.Now()
	path := b.DBPath()
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s (delete it before rebuilding)", ErrDatabaseExists, path)
	}
	if err := os.MkdirAll(b.OutputDir, 0o755); err != nil {
		return err
	}

	expander := &extract.Expander{Expected: b.ExpectedArchives, Strict: b.StrictArchiveCount}
	n, err := expander.Expand(b.InputDir, b.OutputDir)
	if err != nil {
		return err
	}
	slog.Info("archives expanded", "count", n, "dir", b.OutputDir)

	conn, err := db.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if err := conn.Close(); err != nil {
			slog.Warn("could not close database", "path", path, "error", err)
		}
	}()

	reference := DataReference(b.OutputDir)
	slog.Info("snapshot reference resolved", "reference", reference)

	if err := b.loadCodeTables(ctx, conn); err != nil {
		return err
	}
	if err := createEntityTables(ctx, conn); err != nil {
		return err
	}
	if err := b.loadLargeTables(ctx, conn); err != nil {
		return err
	}
	if err := adjustTables(ctx, conn); err != nil {
		return err
	}
	if err := writeReferenceData(ctx, conn, reference); err != nil {
		return err
	}

	slog.Info("database built", "path", path, "duration", time.Since(start).String())
	return nil
}

func createEntityTables(ctx context.Context, conn *sql.DB) error {
	for _, spec := range schema.LargeTables {
		if _, err := conn.ExecContext(ctx, schema.CreateTableSQL(spec)); err != nil {
			return fmt.Errorf("create table %s: %w", spec.Table, err)
		}
	}
	return nil
}
