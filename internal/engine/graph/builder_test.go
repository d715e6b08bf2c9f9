package graph

import (
	"lddtopo/internal/data/tree"
	"lddtopo/internal/engine/intern"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lib(name string, needed ...string) tree.Library {
	return tree.Library{Name: name, Needed: needed, ResolvedPath: tree.StringPtr("/lib/" + name)}
}

func libs(ls ...tree.Library) map[string]tree.Library {
	out := make(map[string]tree.Library, len(ls))
	for _, l := range ls {
		out[l.Name] = l
	}
	return out
}

func edgeNames(t *testing.T, g *DiGraph, in *intern.Interner) [][2]string {
	t.Helper()
	edges, err := g.Edges()
	require.NoError(t, err)
	out := make([][2]string, 0, len(edges))
	for _, e := range edges {
		out = append(out, [2]string{in.MustResolve(e.From), in.MustResolve(e.To)})
	}
	return out
}

func TestBuild_Empty(t *testing.T) {
	in := intern.New()
	g, stats, err := Build(in, "A", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, g.NodeCount())
	assert.Equal(t, 0, g.EdgeCount())
	assert.Equal(t, BuildStats{}, stats)
	// main is interned even though it never became a node
	assert.Equal(t, 1, in.Len())
}

func TestBuild_MainNeededWithoutEntry(t *testing.T) {
	in := intern.New()
	g, stats, err := Build(in, "A", []string{"B"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, g.NodeCount())
	assert.ElementsMatch(t, [][2]string{{"B", "A"}}, edgeNames(t, g, in))
	assert.Equal(t, 1, stats.Unresolved)
}

func TestBuild_ReversesNeeds(t *testing.T) {
	in := intern.New()
	g, _, err := Build(in, "app", []string{"libssl"}, libs(
		lib("libssl", "libcrypto", "libc"),
		lib("libcrypto", "libc"),
		lib("libc"),
	))
	require.NoError(t, err)

	assert.ElementsMatch(t, [][2]string{
		{"libssl", "app"},
		{"libcrypto", "libssl"},
		{"libc", "libssl"},
		{"libc", "libcrypto"},
	}, edgeNames(t, g, in))
	assert.Equal(t, 4, g.NodeCount())
}

func TestBuild_DanglingNeededDropped(t *testing.T) {
	in := intern.New()
	g, stats, err := Build(in, "app", []string{"liba"}, libs(
		lib("liba", "libghost", "libb"),
		lib("libb"),
	))
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Dangling)
	_, interned := in.Lookup("libghost")
	assert.False(t, interned)
	assert.ElementsMatch(t, [][2]string{{"liba", "app"}, {"libb", "liba"}}, edgeNames(t, g, in))
}

func TestBuild_DuplicateEdgesCollapse(t *testing.T) {
	in := intern.New()
	g, _, err := Build(in, "app", []string{"liba", "liba"}, libs(
		lib("liba", "libb", "libb"),
		lib("libb"),
	))
	require.NoError(t, err)
	assert.Equal(t, 2, g.EdgeCount())
}

func TestBuild_SelfLoopKept(t *testing.T) {
	in := intern.New()
	g, _, err := Build(in, "app", []string{"liba"}, libs(lib("liba", "liba")))
	require.NoError(t, err)

	id, ok := in.Lookup("liba")
	require.True(t, ok)
	assert.True(t, g.ContainsEdge(id, id))
}

func TestBuild_IsolatedLibraryIsNode(t *testing.T) {
	in := intern.New()
	g, _, err := Build(in, "app", nil, libs(lib("liborphan")))
	require.NoError(t, err)

	id, ok := in.Lookup("liborphan")
	require.True(t, ok)
	assert.True(t, g.ContainsNode(id))
	mainID, _ := in.Lookup("app")
	assert.False(t, g.ContainsNode(mainID))
}
