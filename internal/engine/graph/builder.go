package graph

import (
	"lddtopo/internal/data/tree"
	"lddtopo/internal/engine/intern"
	"lddtopo/internal/shared/util"
	"log/slog"
)

// BuildStats describes what the builder tolerated while reading the tree.
type BuildStats struct {
	Dangling   int // needed names absent from the libraries map, dropped
	Unresolved int // main_needed names absent from the libraries map, kept
}

// Build reverses every "needs" relation of the tree into a load-before edge.
// The main library only becomes a node once one of its direct dependencies
// is added, so an empty tree yields an empty graph.
func Build(in *intern.Interner, main string, mainNeeded []string, libraries map[string]tree.Library) (*DiGraph, BuildStats, error) {
	g := NewDiGraph()
	var stats BuildStats

	mainID := in.Intern(main)
	for _, dep := range mainNeeded {
		depID := in.Intern(dep)
		if err := g.AddEdge(depID, mainID); err != nil {
			return nil, stats, err
		}
		if _, ok := libraries[dep]; !ok {
			stats.Unresolved++
		}
	}

	// Walk the map in name order so id assignment is reproducible.
	for _, name := range util.SortedStringKeys(libraries) {
		libID := in.Intern(name)
		if err := g.EnsureNode(libID); err != nil {
			return nil, stats, err
		}
		for _, needed := range libraries[name].Needed {
			if _, ok := libraries[needed]; !ok {
				stats.Dangling++
				slog.Debug("dropping unresolved dependency", "library", name, "needed", needed)
				continue
			}
			if err := g.AddEdge(in.Intern(needed), libID); err != nil {
				return nil, stats, err
			}
		}
	}

	return g, stats, nil
}
