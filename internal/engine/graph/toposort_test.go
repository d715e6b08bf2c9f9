package graph

import (
	"errors"
	"fmt"
	"lddtopo/internal/data/tree"
	"lddtopo/internal/engine/intern"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sortNames(t *testing.T, main string, mainNeeded []string, libraries map[string]tree.Library) ([]string, error) {
	t.Helper()
	in := intern.New()
	g, _, err := Build(in, main, mainNeeded, libraries)
	require.NoError(t, err)

	order, err := Sort(g, in)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(order))
	for i, id := range order {
		names[i] = in.MustResolve(id)
	}
	return names, nil
}

func TestSort_Empty(t *testing.T) {
	order, err := sortNames(t, "A", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, order)
}

func TestSort_TwoNodes(t *testing.T) {
	order, err := sortNames(t, "A", []string{"B"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, order)
}

func TestSort_Diamond(t *testing.T) {
	order, err := sortNames(t, "A", []string{"B", "C", "F"}, libs(
		lib("B", "D"),
		lib("C", "D"),
		lib("D", "E"),
		lib("E", "F"),
		lib("F"),
	))
	require.NoError(t, err)
	assert.Equal(t, []string{"F", "E", "D", "C", "B", "A"}, order)
}

func TestSort_IndependentOfInsertionOrder(t *testing.T) {
	first, err := sortNames(t, "app", []string{"z", "y", "x"}, libs(lib("x"), lib("y"), lib("z")))
	require.NoError(t, err)
	second, err := sortNames(t, "app", []string{"x", "y", "z"}, libs(lib("z"), lib("y"), lib("x")))
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"z", "y", "x", "app"}, first)
}

func TestSort_DirectCycle(t *testing.T) {
	_, err := sortNames(t, "main", []string{"A"}, libs(lib("A", "B"), lib("B", "A")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCycle))

	var ce *CycleError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "A", ce.Name)
	assert.Equal(t, []string{"A", "B"}, ce.Cycle)
	assert.Equal(t, `dependency cycle detected at "A": A -> B -> A`, ce.Error())
}

func TestSort_SelfLoop(t *testing.T) {
	_, err := sortNames(t, "main", []string{"A"}, libs(lib("A", "A")))

	var ce *CycleError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "A", ce.Name)
	assert.Equal(t, []string{"A"}, ce.Cycle)
}

func TestSort_CycleBehindAcyclicPrefix(t *testing.T) {
	// libc is fine; liba -> libb -> libc2 -> liba is the cycle.
	_, err := sortNames(t, "main", []string{"liba"}, libs(
		lib("liba", "libb", "libc"),
		lib("libb", "libc2"),
		lib("libc2", "liba"),
		lib("libc"),
	))

	var ce *CycleError
	require.True(t, errors.As(err, &ce))
	assert.ElementsMatch(t, []string{"liba", "libb", "libc2"}, ce.Cycle)
	assert.Contains(t, ce.Cycle, ce.Name)
}

func TestSort_DeepChain(t *testing.T) {
	const n = 5000
	libraries := make(map[string]tree.Library, n)
	for i := 0; i < n; i++ {
		var needed []string
		if i+1 < n {
			needed = []string{fmt.Sprintf("lib%05d", i+1)}
		}
		libraries[fmt.Sprintf("lib%05d", i)] = lib(fmt.Sprintf("lib%05d", i), needed...)
	}

	order, err := sortNames(t, "main", []string{"lib00000"}, libraries)
	require.NoError(t, err)
	require.Len(t, order, n+1)
	assert.Equal(t, fmt.Sprintf("lib%05d", n-1), order[0])
	assert.Equal(t, "main", order[n])

	// close the chain into one long cycle
	last := fmt.Sprintf("lib%05d", n-1)
	libraries[last] = lib(last, "lib00000")
	_, err = sortNames(t, "main", []string{"lib00000"}, libraries)
	var ce *CycleError
	require.True(t, errors.As(err, &ce))
	assert.Len(t, ce.Cycle, n)
}

func TestSort_EdgesRespected(t *testing.T) {
	in := intern.New()
	g, _, err := Build(in, "app", []string{"a", "b", "c"}, libs(
		lib("a", "d", "e"),
		lib("b", "e"),
		lib("c", "a", "f"),
		lib("d", "f"),
		lib("e"),
		lib("f"),
	))
	require.NoError(t, err)

	order, err := Sort(g, in)
	require.NoError(t, err)
	require.Len(t, order, g.NodeCount())

	pos := make(map[uint32]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	edges, err := g.Edges()
	require.NoError(t, err)
	for _, e := range edges {
		assert.Less(t, pos[e.From], pos[e.To], "%s before %s", in.MustResolve(e.From), in.MustResolve(e.To))
	}
	assert.Equal(t, "app", in.MustResolve(order[len(order)-1]))
}
