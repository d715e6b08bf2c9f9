package output

import (
	"fmt"
	"lddtopo/internal/engine/loadorder"
	"strings"
)

type MermaidGenerator struct {
	result *loadorder.TopoSortResult
}

func NewMermaidGenerator(r *loadorder.TopoSortResult) *MermaidGenerator {
	return &MermaidGenerator{result: r}
}

func (m *MermaidGenerator) Generate() (string, error) {
	var b strings.Builder
	b.WriteString("flowchart LR\n")

	index := localIndex(m.result.Vertices)
	for i, name := range m.result.Vertices {
		b.WriteString(fmt.Sprintf("  n%d[\"%s\"]\n", i, escapeMermaidLabel(name)))
	}

	// The last library in the plan is the one under analysis.
	var mainID string
	var unresolved []string
	for i, l := range m.result.TopoSortedLibs {
		if i == len(m.result.TopoSortedLibs)-1 {
			mainID = fmt.Sprintf("n%d", index[l.Name])
			continue
		}
		if l.Path == nil {
			unresolved = append(unresolved, fmt.Sprintf("n%d", index[l.Name]))
		}
	}

	if mainID != "" || len(unresolved) > 0 {
		b.WriteString("\n")
	}
	if mainID != "" {
		b.WriteString("  classDef mainNode fill:#f7fbff,stroke:#4d6480,stroke-width:2px;\n")
		b.WriteString(fmt.Sprintf("  class %s mainNode;\n", mainID))
	}
	if len(unresolved) > 0 {
		b.WriteString("  classDef unresolvedNode fill:#efefef,stroke:#808080,stroke-dasharray:4 3;\n")
		b.WriteString(fmt.Sprintf("  class %s unresolvedNode;\n", strings.Join(unresolved, ",")))
	}

	if len(m.result.Edges) > 0 {
		b.WriteString("\n")
	}
	for _, e := range m.result.Edges {
		from, okFrom := index[e.Src]
		to, okTo := index[e.Dst]
		if !okFrom || !okTo {
			return "", fmt.Errorf("edge %s -> %s references an unknown vertex", e.Src, e.Dst)
		}
		b.WriteString(fmt.Sprintf("  n%d --> n%d\n", from, to))
	}

	return b.String(), nil
}

func escapeMermaidLabel(s string) string {
	return strings.ReplaceAll(s, `"`, "#quot;")
}
