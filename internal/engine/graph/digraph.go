// Package graph builds and orders the load-before graph over interned library ids.
package graph

import (
	"errors"
	"fmt"
	"sort"

	dgraph "github.com/dominikbraun/graph"
)

// DiGraph is a directed graph over interned ids. An edge u -> v means the
// library u must be loaded before v. Self-loops are kept; parallel edges are not.
type DiGraph struct {
	g dgraph.Graph[uint32, uint32]
}

// Edge is one load-before relation between interned ids.
type Edge struct {
	From uint32
	To   uint32
}

func idHash(id uint32) uint32 { return id }

func NewDiGraph() *DiGraph {
	return &DiGraph{g: dgraph.New(idHash, dgraph.Directed())}
}

// EnsureNode adds id unless it is already present.
func (d *DiGraph) EnsureNode(id uint32) error {
	if err := d.g.AddVertex(id); err != nil && !errors.Is(err, dgraph.ErrVertexAlreadyExists) {
		return fmt.Errorf("add node %d: %w", id, err)
	}
	return nil
}

// AddEdge inserts from -> to, creating both nodes. Re-adding an edge is a no-op.
func (d *DiGraph) AddEdge(from, to uint32) error {
	if err := d.EnsureNode(from); err != nil {
		return err
	}
	if err := d.EnsureNode(to); err != nil {
		return err
	}
	if err := d.g.AddEdge(from, to); err != nil && !errors.Is(err, dgraph.ErrEdgeAlreadyExists) {
		return fmt.Errorf("add edge %d -> %d: %w", from, to, err)
	}
	return nil
}

func (d *DiGraph) ContainsNode(id uint32) bool {
	_, err := d.g.Vertex(id)
	return err == nil
}

func (d *DiGraph) ContainsEdge(from, to uint32) bool {
	_, err := d.g.Edge(from, to)
	return err == nil
}

func (d *DiGraph) NodeCount() int {
	n, err := d.g.Order()
	if err != nil {
		return 0
	}
	return n
}

func (d *DiGraph) EdgeCount() int {
	n, err := d.g.Size()
	if err != nil {
		return 0
	}
	return n
}

// Adjacency returns a detached copy of the successor lists, each sorted by id.
func (d *DiGraph) Adjacency() (map[uint32][]uint32, error) {
	adj, err := d.g.AdjacencyMap()
	if err != nil {
		return nil, fmt.Errorf("adjacency map: %w", err)
	}
	out := make(map[uint32][]uint32, len(adj))
	for from, targets := range adj {
		succ := make([]uint32, 0, len(targets))
		for to := range targets {
			succ = append(succ, to)
		}
		sort.Slice(succ, func(i, j int) bool { return succ[i] < succ[j] })
		out[from] = succ
	}
	return out, nil
}

// Nodes returns every node id in ascending id order.
func (d *DiGraph) Nodes() ([]uint32, error) {
	adj, err := d.g.AdjacencyMap()
	if err != nil {
		return nil, fmt.Errorf("adjacency map: %w", err)
	}
	nodes := make([]uint32, 0, len(adj))
	for id := range adj {
		nodes = append(nodes, id)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })
	return nodes, nil
}

// Edges returns every edge ordered by (From, To).
func (d *DiGraph) Edges() ([]Edge, error) {
	adj, err := d.Adjacency()
	if err != nil {
		return nil, err
	}
	edges := make([]Edge, 0, len(adj))
	for from, targets := range adj {
		for _, to := range targets {
			edges = append(edges, Edge{From: from, To: to})
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})
	return edges, nil
}
