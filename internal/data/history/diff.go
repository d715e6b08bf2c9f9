package history

import "sort"

// OrderDiff lists how a load plan changed between two runs.
type OrderDiff struct {
	Added   []string
	Removed []string
	Moved   []string
}

func (d OrderDiff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Moved) == 0
}

// Diff compares two load plans by library name. A library counts as moved
// when its position relative to the libraries both plans share changed.
func Diff(prev, curr []OrderEntry) OrderDiff {
	prevSet := make(map[string]bool, len(prev))
	for _, e := range prev {
		prevSet[e.Name] = true
	}
	currSet := make(map[string]bool, len(curr))
	for _, e := range curr {
		currSet[e.Name] = true
	}

	var d OrderDiff
	for name := range currSet {
		if !prevSet[name] {
			d.Added = append(d.Added, name)
		}
	}
	for name := range prevSet {
		if !currSet[name] {
			d.Removed = append(d.Removed, name)
		}
	}

	shared := func(entries []OrderEntry, other map[string]bool) []string {
		out := make([]string, 0, len(entries))
		for _, e := range entries {
			if other[e.Name] {
				out = append(out, e.Name)
			}
		}
		return out
	}
	before := shared(prev, currSet)
	after := shared(curr, prevSet)
	for i := range after {
		if before[i] != after[i] {
			d.Moved = append(d.Moved, after[i])
		}
	}

	sort.Strings(d.Added)
	sort.Strings(d.Removed)
	sort.Strings(d.Moved)
	return d
}
