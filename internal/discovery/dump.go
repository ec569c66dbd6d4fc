// Package discovery resolves database dump artifacts on the local machine.
package discovery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoDump is returned when a directory or glob holds no dump files.
var ErrNoDump = errors.New("no database dump found")

// Dump resolves the configured dump reference to a concrete file path.
// The reference may name a file, a directory holding dumps, or a glob
// pattern; directories and globs resolve to the newest .sql.gz match.
// Relative references are taken from root. A plain file path is passed
// through without checking that it exists, so a missing artifact is
// reported by the deploy itself rather than at config time.
func Dump(root, input string) (string, error) {
	if input == "" {
		return "", ErrNoDump
	}
	candidate := input
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(root, candidate)
	}
	if strings.ContainsAny(input, "*?[") {
		return newestMatch(candidate)
	}
	info, err := os.Stat(candidate)
	if err != nil {
		return candidate, nil
	}
	if info.IsDir() {
		return newestMatch(filepath.Join(candidate, "*.sql.gz"))
	}
	return candidate, nil
}

func newestMatch(pattern string) (string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return "", fmt.Errorf("bad dump pattern %q: %w", pattern, err)
	}
	newest := ""
	var newestMod int64
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}
		mod := info.ModTime().UnixNano()
		if newest == "" || mod > newestMod || (mod == newestMod && match > newest) {
			newest = match
			newestMod = mod
		}
	}
	if newest == "" {
		return "", fmt.Errorf("%w matching %s", ErrNoDump, pattern)
	}
	return newest, nil
}
