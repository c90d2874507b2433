package scan

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindByPattern_SortsMatches(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	files := []string{
		"K3241.K03200Y2.D30610.EMPRECSV",
		"K3241.K03200Y0.D30610.EMPRECSV",
		"K3241.K03200Y1.D30610.ESTABELE",
		"IGNORED.txt",
	}
	for _, name := range files {
		if err := os.WriteFile(filepath.Join(root, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	got, err := FindByPattern(root, "*.EMPRECSV")
	if err != nil {
		t.Fatalf("FindByPattern returned error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	if filepath.Base(got[0]) != "K3241.K03200Y0.D30610.EMPRECSV" {
		t.Fatalf("matches not sorted: %v", got)
	}
}

func TestFindBySuffix(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "F.K03200$Z.D30610.CNAECSV"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	got, err := FindBySuffix(root, ".CNAECSV")
	if err != nil {
		t.Fatalf("FindBySuffix returned error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 match, got %d", len(got))
	}

	none, err := FindBySuffix(root, ".MOTICSV")
	if err != nil {
		t.Fatalf("FindBySuffix returned error: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no matches, got %v", none)
	}
}
