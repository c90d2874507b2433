// Package scan locates raw source files inside the flat working directory
// produced by the archive expander.
package scan

import (
	"path/filepath"
	"sort"
)

// FindByPattern returns the files under dir whose base name matches the
// given glob pattern, sorted for a deterministic load order.
func FindByPattern(dir, pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}

// FindBySuffix returns the files under dir ending with the given suffix,
// sorted. A code-table suffix such as ".CNAECSV" matches at most a handful
// of files; the first one is the canonical source.
func FindBySuffix(dir, suffix string) ([]string, error) {
	return FindByPattern(dir, "*"+suffix)
}
