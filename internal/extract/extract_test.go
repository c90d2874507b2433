package extract

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestExpand_FlattensEntries(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	createTestZip(t, filepath.Join(dir, "Cnaes.zip"), map[string]string{
		"F.K03200$Z.D30610.CNAECSV": "0111301;Cultivo de arroz\n",
		"nested/inner.ESTABELE":     "row\n",
	})

	dest := filepath.Join(dir, "out")
	e := &Expander{Expected: 1, Strict: true}
	n, err := e.Expand(dir, dest)
	if err != nil {
		t.Fatalf("Expand returned error: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 archive expanded, got %d", n)
	}

	assertFileContent(t, filepath.Join(dest, "F.K03200$Z.D30610.CNAECSV"), "0111301;Cultivo de arroz\n")
	// nested entries land flat in the destination
	assertFileContent(t, filepath.Join(dest, "inner.ESTABELE"), "row\n")
}

func TestExpand_OverwritesExisting(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	createTestZip(t, filepath.Join(dir, "a.zip"), map[string]string{"data.CNAECSV": "new"})

	dest := filepath.Join(dir, "out")
	if err := os.MkdirAll(dest, 0o755); err != nil {
		t.Fatalf("mkdir dest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dest, "data.CNAECSV"), []byte("old"), 0o644); err != nil {
		t.Fatalf("write existing file: %v", err)
	}

	e := &Expander{}
	if _, err := e.Expand(dir, dest); err != nil {
		t.Fatalf("Expand returned error: %v", err)
	}
	assertFileContent(t, filepath.Join(dest, "data.CNAECSV"), "new")
}

func TestExpand_StrictCountMismatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	createTestZip(t, filepath.Join(dir, "only.zip"), map[string]string{"x": "y"})

	e := &Expander{Expected: ExpectedArchives, Strict: true}
	_, err := e.Expand(dir, filepath.Join(dir, "out"))
	var cntErr *ArchiveCountError
	if !errors.As(err, &cntErr) {
		t.Fatalf("expected ArchiveCountError, got %v", err)
	}
	if cntErr.Got != 1 || cntErr.Expected != ExpectedArchives {
		t.Fatalf("unexpected count error: %+v", cntErr)
	}
	if _, err := os.Stat(filepath.Join(dir, "out")); err == nil {
		t.Fatal("destination must not be created on a strict count failure")
	}
}

func TestExpand_LenientCountMismatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	createTestZip(t, filepath.Join(dir, "only.zip"), map[string]string{"x.CNAECSV": "y"})

	e := &Expander{Expected: ExpectedArchives, Strict: false}
	n, err := e.Expand(dir, filepath.Join(dir, "out"))
	if err != nil {
		t.Fatalf("Expand returned error: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 archive expanded, got %d", n)
	}
}

func TestExpand_CorruptArchive(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.zip"), []byte("not a zip"), 0o644); err != nil {
		t.Fatalf("write broken zip: %v", err)
	}

	e := &Expander{}
	if _, err := e.Expand(dir, filepath.Join(dir, "out")); err == nil {
		t.Fatal("expected error for corrupt archive")
	}
}

func createTestZip(t *testing.T, zipPath string, files map[string]string) {
	t.Helper()

	f, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("create zip file: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create entry %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write entry %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip writer: %v", err)
	}
}

func assertFileContent(t *testing.T, path, expected string) {
	t.Helper()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if string(b) != expected {
		t.Fatalf("unexpected content of %s: %q", path, b)
	}
}
