// Package cliutil holds argument helpers for the command tree.
package cliutil

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

func hasGlobMeta(s string) bool { return strings.ContainsAny(s, "*?[") }

// ExpandPaths expands globs among input paths (for shells that pass them
// through quoted) and drops repeats, keeping first-seen order. "-" (stdin)
// passes through untouched, at most once.
func ExpandPaths(args []string) ([]string, error) {
	var out []string
	add := func(p string) {
		if !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	for _, a := range args {
		if a == "-" || !hasGlobMeta(a) {
			add(a)
			continue
		}
		m, err := filepath.Glob(a)
		if err != nil {
			return nil, fmt.Errorf("bad glob %q: %v", a, err)
		}
		if len(m) == 0 {
			return nil, fmt.Errorf("no input matched %q", a)
		}
		for _, p := range m {
			add(p)
		}
	}
	return out, nil
}
