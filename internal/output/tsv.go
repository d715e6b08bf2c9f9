package output

import (
	"fmt"
	"lddtopo/internal/engine/loadorder"
	"strings"
)

type TSVGenerator struct {
	result *loadorder.TopoSortResult
}

func NewTSVGenerator(r *loadorder.TopoSortResult) *TSVGenerator {
	return &TSVGenerator{result: r}
}

// Generate lists the load plan, one library per row in load order, followed
// by a blank line and the load-before edges.
func (t *TSVGenerator) Generate() (string, error) {
	var buf strings.Builder

	buf.WriteString("Position\tName\tPath\n")
	for i, l := range t.result.TopoSortedLibs {
		path := "-"
		if l.Path != nil {
			path = *l.Path
		}
		buf.WriteString(fmt.Sprintf("%d\t%s\t%s\n", i+1, l.Name, path))
	}

	buf.WriteString("\nSrc\tDst\n")
	for _, e := range t.result.Edges {
		buf.WriteString(fmt.Sprintf("%s\t%s\n", e.Src, e.Dst))
	}

	return buf.String(), nil
}
