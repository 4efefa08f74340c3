package scanner

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ResolveInputs turns a --log value into the list of paths to scan.
// Values without glob metacharacters are returned as-is so that open
// errors are reported against the literal path. An existing path is
// always taken literally, even if its name contains metacharacters.
func ResolveInputs(pattern string) ([]string, error) {
	if pattern == "-" || !strings.ContainsAny(pattern, "*?[{") {
		return []string{pattern}, nil
	}
	if _, err := os.Lstat(pattern); err == nil {
		return []string{pattern}, nil
	}

	matches, err := expandGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrIO, pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, pattern)
	}
	sort.Strings(matches)
	return matches, nil
}

// expandGlob resolves a glob pattern to matching file paths.
// Supports recursive patterns like /var/log/**/*.log via doublestar.
func expandGlob(pattern string) ([]string, error) {
	return doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
}
