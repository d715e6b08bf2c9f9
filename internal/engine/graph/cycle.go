package graph

import "sort"

// findCycle runs over the nodes Kahn's algorithm could not emit. Each of them
// still has a predecessor among the leftovers, so walking predecessors from
// any leftover must revisit a node; the revisited stretch is the cycle.
func findCycle(adj map[uint32][]uint32, inDegree map[uint32]int, names Names) *CycleError {
	preds := make(map[uint32][]uint32)
	var remaining []uint32
	for id, d := range inDegree {
		if d > 0 {
			remaining = append(remaining, id)
		}
	}
	for _, from := range remaining {
		for _, to := range adj[from] {
			if inDegree[to] > 0 {
				preds[to] = append(preds[to], from)
			}
		}
	}

	byName := func(ids []uint32) {
		sort.Slice(ids, func(i, j int) bool {
			return names.MustResolve(ids[i]) < names.MustResolve(ids[j])
		})
	}
	byName(remaining)

	pos := make(map[uint32]int)
	var walk []uint32
	curr := remaining[0]
	for {
		if i, seen := pos[curr]; seen {
			walk = walk[i:]
			break
		}
		pos[curr] = len(walk)
		walk = append(walk, curr)

		p := preds[curr]
		byName(p)
		curr = p[0]
	}

	// walk runs against the edges; flip it and rotate so it starts at walk[0].
	cycle := make([]string, len(walk))
	for i := range walk {
		cycle[i] = names.MustResolve(walk[(len(walk)-i)%len(walk)])
	}

	return &CycleError{
		Node:  walk[0],
		Name:  names.MustResolve(walk[0]),
		Cycle: cycle,
	}
}
