package output

import (
	"fmt"
	"lddtopo/internal/engine/loadorder"
	"strings"
)

type DOTGenerator struct {
	result *loadorder.TopoSortResult
}

func NewDOTGenerator(r *loadorder.TopoSortResult) *DOTGenerator {
	return &DOTGenerator{result: r}
}

// Generate renders one node per vertex, keyed by its position in the sorted
// vertex list, and one unlabeled edge per result edge.
func (d *DOTGenerator) Generate() (string, error) {
	var buf strings.Builder

	buf.WriteString("digraph {\n")
	buf.WriteString("    rankdir=LR;\n")
	buf.WriteString("    node [shape=box, style=rounded, fontname=\"Helvetica\", fontsize=10];\n")

	index := localIndex(d.result.Vertices)
	for i, name := range d.result.Vertices {
		buf.WriteString(fmt.Sprintf("    %d [ label = \"%s\" ]\n", i, escapeDOT(name)))
	}

	for _, e := range d.result.Edges {
		from, okFrom := index[e.Src]
		to, okTo := index[e.Dst]
		if !okFrom || !okTo {
			return "", fmt.Errorf("edge %s -> %s references an unknown vertex", e.Src, e.Dst)
		}
		buf.WriteString(fmt.Sprintf("    %d -> %d [ ]\n", from, to))
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func localIndex(vertices []string) map[string]int {
	index := make(map[string]int, len(vertices))
	for i, name := range vertices {
		index[name] = i
	}
	return index
}

func escapeDOT(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
