package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

// ExpandGlobs turns file arguments into paths. Each pattern's matches are
// sorted, patterns keep their argument order, and a path is only returned
// once. Directories are skipped. A pattern with no match is passed through
// unchanged so opening it reports a useful error.
func ExpandGlobs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			add(pattern)
			continue
		}

		slices.Sort(matches)
		for _, m := range matches {
			if info, err := os.Stat(m); err == nil && info.IsDir() {
				continue
			}
			add(m)
		}
	}
	return paths, nil
}
