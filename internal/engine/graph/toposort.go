package graph

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrCycle matches every *CycleError via errors.Is.
var ErrCycle = errors.New("dependency graph contains a cycle")

// Names resolves interned ids back to library names.
type Names interface {
	MustResolve(id uint32) string
}

// CycleError reports one library on a cycle and the cycle it closes,
// listed in load-before order starting at Name.
type CycleError struct {
	Node  uint32
	Name  string
	Cycle []string
}

func (e *CycleError) Error() string {
	path := append(append([]string{}, e.Cycle...), e.Name)
	return fmt.Sprintf("dependency cycle detected at %q: %s", e.Name, strings.Join(path, " -> "))
}

func (e *CycleError) Is(target error) bool {
	return target == ErrCycle
}

// Sort orders every node so that each edge's source precedes its target.
//
// It is Kahn's algorithm driven by a stack: whenever a batch of nodes becomes
// eligible it is sorted by name and pushed, so the lexically greatest
// eligible node is emitted first. The result does not depend on id order.
func Sort(g *DiGraph, names Names) ([]uint32, error) {
	adj, err := g.Adjacency()
	if err != nil {
		return nil, err
	}

	inDegree := make(map[uint32]int, len(adj))
	for from, targets := range adj {
		if _, ok := inDegree[from]; !ok {
			inDegree[from] = 0
		}
		for _, to := range targets {
			inDegree[to]++
		}
	}

	byName := func(ids []uint32) {
		sort.Slice(ids, func(i, j int) bool {
			return names.MustResolve(ids[i]) < names.MustResolve(ids[j])
		})
	}

	stack := make([]uint32, 0, len(inDegree))
	for id, d := range inDegree {
		if d == 0 {
			stack = append(stack, id)
		}
	}
	byName(stack)

	order := make([]uint32, 0, len(inDegree))
	for len(stack) > 0 {
		u := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, u)

		var freed []uint32
		for _, v := range adj[u] {
			inDegree[v]--
			if inDegree[v] == 0 {
				freed = append(freed, v)
			}
		}
		byName(freed)
		stack = append(stack, freed...)
	}

	if len(order) != len(inDegree) {
		return nil, findCycle(adj, inDegree, names)
	}
	return order, nil
}
