// Package loadorder turns a dependency tree into a serializable load plan.
package loadorder

// Edge is a load-before pair: Src must be loaded before Dst.
type Edge struct {
	Src string `json:"src"`
	Dst string `json:"dst"`
}

// Lib is a library name and its resolved path, nil when it was never resolved.
type Lib struct {
	Name string  `json:"name"`
	Path *string `json:"path"`
}

// TopoSortResult is the analysis output. Vertices and Edges are sorted so
// that repeated runs over the same tree serialize byte for byte the same.
type TopoSortResult struct {
	Vertices       []string       `json:"vertices"`
	Edges          []Edge         `json:"edges"`
	LibraryMap     map[string]Lib `json:"library_map"`
	TopoSortedLibs []Lib          `json:"topo_sorted_libs"`
}

// Order returns the load plan as plain names.
func (r *TopoSortResult) Order() []string {
	names := make([]string, len(r.TopoSortedLibs))
	for i, l := range r.TopoSortedLibs {
		names[i] = l.Name
	}
	return names
}

// PathOf returns the path string of l, or "" when it is unresolved.
func (l Lib) PathOf() string {
	if l.Path == nil {
		return ""
	}
	return *l.Path
}
