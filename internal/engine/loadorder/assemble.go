package loadorder

import (
	"fmt"
	"lddtopo/internal/data/tree"
	"lddtopo/internal/engine/graph"
	"lddtopo/internal/engine/intern"
	"sort"
)

// Assemble converts the interned graph and its topological order back into
// name-keyed output. A sort failure is returned as is and nothing is built.
func Assemble(g *graph.DiGraph, in *intern.Interner, order []uint32, sortErr error, main tree.Main, libraries map[string]tree.Library) (*TopoSortResult, error) {
	if sortErr != nil {
		return nil, sortErr
	}

	nodes, err := g.Nodes()
	if err != nil {
		return nil, err
	}
	vertices := make([]string, 0, len(nodes))
	for _, id := range nodes {
		vertices = append(vertices, in.MustResolve(id))
	}
	sort.Strings(vertices)

	graphEdges, err := g.Edges()
	if err != nil {
		return nil, err
	}
	seen := make(map[Edge]bool, len(graphEdges))
	edges := make([]Edge, 0, len(graphEdges))
	for _, e := range graphEdges {
		edge := Edge{Src: in.MustResolve(e.From), Dst: in.MustResolve(e.To)}
		if seen[edge] {
			continue
		}
		seen[edge] = true
		edges = append(edges, edge)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Src != edges[j].Src {
			return edges[i].Src < edges[j].Src
		}
		return edges[i].Dst < edges[j].Dst
	})

	libraryMap := make(map[string]Lib, len(libraries))
	for name, l := range libraries {
		libraryMap[name] = Lib{Name: name, Path: copyPath(l.ResolvedPath)}
	}

	if len(order) != len(nodes) {
		return nil, fmt.Errorf("topological order covers %d of %d nodes", len(order), len(nodes))
	}
	sorted := make([]Lib, 0, len(order))
	for _, id := range order {
		name := in.MustResolve(id)
		var path *string
		if name == main.Name {
			p := main.Path
			path = &p
		} else if l, ok := libraries[name]; ok {
			path = copyPath(l.ResolvedPath)
		}
		sorted = append(sorted, Lib{Name: name, Path: path})
	}

	return &TopoSortResult{
		Vertices:       vertices,
		Edges:          edges,
		LibraryMap:     libraryMap,
		TopoSortedLibs: sorted,
	}, nil
}

func copyPath(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
