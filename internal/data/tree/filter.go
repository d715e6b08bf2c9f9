package tree

import (
	"fmt"

	"lddtopo/internal/shared/util"

	"github.com/gobwas/glob"
)

// Filter returns a copy of t without the libraries whose name matches any
// pattern. References to dropped libraries are left in place and become
// dangling, so the graph builder ignores them.
func Filter(t *DependencyTree, patterns []string) (*DependencyTree, []string, error) {
	if len(patterns) == 0 {
		return t, nil, nil
	}

	globs := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, nil, fmt.Errorf("compile exclude pattern %q: %w", pattern, err)
		}
		globs = append(globs, g)
	}
	excluded := func(name string) bool {
		for _, g := range globs {
			if g.Match(name) {
				return true
			}
		}
		return false
	}

	out := &DependencyTree{
		MainNeeded: make([]string, 0, len(t.MainNeeded)),
		Libraries:  make(map[string]Library, len(t.Libraries)),
	}
	dropped := make(map[string]bool)
	for _, name := range t.MainNeeded {
		if excluded(name) {
			dropped[name] = true
			continue
		}
		out.MainNeeded = append(out.MainNeeded, name)
	}
	for name, lib := range t.Libraries {
		if excluded(name) {
			dropped[name] = true
			continue
		}
		out.Libraries[name] = lib
	}

	return out, util.SortedStringKeys(dropped), nil
}
