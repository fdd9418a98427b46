package spotbugs

import (
	"fmt"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Discover expands report file patterns relative to the working directory and
// returns the matching paths sorted lexicographically. Paths matched by more
// than one pattern are listed once. No match is not an error here.
func Discover(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid report pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}
