// Package extract unpacks the downloaded snapshot archives into the flat
// working directory the database build reads from.
package extract

import (
	"archive/zip"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// ExpectedArchives is the number of zip files one full snapshot publishes.
// Tied to the source layout; bump it if the Receita Federal changes theirs.
const ExpectedArchives = 37

// ArchiveCountError reports an input directory holding a different number
// of archives than a full snapshot ships.
type ArchiveCountError struct {
	Dir      string
	Got      int
	Expected int
}

func (e *ArchiveCountError) Error() string {
	return fmt.Sprintf("%s holds %d zip archives, expected %d", e.Dir, e.Got, e.Expected)
}

type Expander struct {
	// Expected archive count for a complete snapshot; 0 disables the check.
	Expected int
	// Strict makes a count mismatch fatal instead of a warning.
	Strict bool
}

// Expand unzips every archive from inputDir into a single flat destDir,
// overwriting same-named files. Entries are flattened to their base name:
// the source archives carry no directory structure worth keeping. Returns
// the number of archives processed.
func (e *Expander) Expand(inputDir, destDir string) (int, error) {
	zips, err := filepath.Glob(filepath.Join(inputDir, "*.zip"))
	if err != nil {
		return 0, err
	}
	if e.Expected > 0 && len(zips) != e.Expected {
		cntErr := &ArchiveCountError{Dir: inputDir, Got: len(zips), Expected: e.Expected}
		if e.Strict {
			return 0, cntErr
		}
		slog.Warn("archive count mismatch, proceeding anyway", "error", cntErr)
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return 0, err
	}
	for _, zf := range zips {
		slog.Info("unzipping", "archive", filepath.Base(zf))
		if err := expandOne(zf, destDir); err != nil {
			return 0, fmt.Errorf("expand %s: %w", zf, err)
		}
	}
	return len(zips), nil
}

func expandOne(zipPath, destDir string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		fp := filepath.Join(destDir, filepath.Base(f.Name))
		rc, err := f.Open()
		if err != nil {
			return err
		}
		out, err := os.Create(fp)
		if err != nil {
			rc.Close()
			return err
		}
		if _, err := io.Copy(out, rc); err != nil {
			out.Close()
			rc.Close()
			return fmt.Errorf("extract %s: %w", f.Name, err)
		}
		if err := out.Close(); err != nil {
			rc.Close()
			return err
		}
		rc.Close()
	}
	return nil
}
