// Package graphutil builds the undirected intersection graphs consulted at
// every tier of the locus hierarchy and implements the clique/community
// enumeration the final selector loops over, grounded on the gonum usage
// patterns of biogo-examples/igor/victor/topo.go.
package graphutil

import (
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
)

// Node wraps a transcript id as a graph.Node, keyed by its position in the
// caller-supplied vertex list so graph ids stay stable across rebuilds.
type Node struct {
	id  int64
	key string
}

// ID satisfies graph.Node.
func (n Node) ID() int64 { return n.id }

// Key returns the transcript id this node represents.
func (n Node) Key() string { return n.key }

// Graph is an undirected intersection graph over a fixed vertex set,
// indexed by transcript id for constant-time edge insertion during
// pairwise-comparison sweeps.
type Graph struct {
	g       *simple.UndirectedGraph
	nodeOf  map[string]Node
	keyOf   map[int64]string
}

// New builds an intersection graph with one vertex per key in keys (no
// edges). Keys are typically transcript ids within a superlocus or holder.
func New(keys []string) *Graph {
	g := simple.NewUndirectedGraph()
	nodeOf := make(map[string]Node, len(keys))
	keyOf := make(map[int64]string, len(keys))
	for i, k := range keys {
		n := Node{id: int64(i), key: k}
		g.AddNode(n)
		nodeOf[k] = n
		keyOf[n.id] = k
	}
	return &Graph{g: g, nodeOf: nodeOf, keyOf: keyOf}
}

// AddEdge connects a and b, a no-op if either key is absent from the graph
// or the edge already exists.
func (gr *Graph) AddEdge(a, b string) {
	na, ok := gr.nodeOf[a]
	if !ok {
		return
	}
	nb, ok := gr.nodeOf[b]
	if !ok || na.ID() == nb.ID() {
		return
	}
	gr.g.SetEdge(simple.Edge{F: na, T: nb})
}

// HasEdge reports whether a and b are connected.
func (gr *Graph) HasEdge(a, b string) bool {
	na, ok := gr.nodeOf[a]
	if !ok {
		return false
	}
	nb, ok := gr.nodeOf[b]
	if !ok {
		return false
	}
	return gr.g.HasEdgeBetween(na.ID(), nb.ID())
}

// RemoveVertex deletes a vertex and its incident edges, leaving the rest of
// the graph's ids untouched (gonum's simple.UndirectedGraph tolerates
// non-contiguous ids after removal).
func (gr *Graph) RemoveVertex(key string) {
	n, ok := gr.nodeOf[key]
	if !ok {
		return
	}
	gr.g.RemoveNode(n.ID())
	delete(gr.nodeOf, key)
	delete(gr.keyOf, n.ID())
}

// Empty reports whether the graph has no remaining vertices.
func (gr *Graph) Empty() bool { return gr.g.Nodes().Len() == 0 }

// Vertices returns the remaining vertex keys, sorted for deterministic
// iteration.
func (gr *Graph) Vertices() []string {
	keys := make([]string, 0, len(gr.nodeOf))
	for k := range gr.nodeOf {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ConnectedComponents partitions the remaining vertices into connected
// components, each returned as a sorted key slice.
func (gr *Graph) ConnectedComponents() [][]string {
	visited := make(map[int64]bool)
	var comps [][]string
	for _, key := range gr.Vertices() {
		n := gr.nodeOf[key]
		if visited[n.ID()] {
			continue
		}
		comp := gr.bfs(n.ID(), visited)
		sort.Strings(comp)
		comps = append(comps, comp)
	}
	return comps
}

func (gr *Graph) bfs(start int64, visited map[int64]bool) []string {
	queue := []int64{start}
	visited[start] = true
	var comp []string
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		comp = append(comp, gr.keyOf[cur])
		for _, nb := range graph.NodesOf(gr.g.From(cur)) {
			if !visited[nb.ID()] {
				visited[nb.ID()] = true
				queue = append(queue, nb.ID())
			}
		}
	}
	return comp
}

// Underlying exposes the wrapped gonum graph for callers (e.g.
// community.Modularize) that need the raw graph.Graph interface.
func (gr *Graph) Underlying() *simple.UndirectedGraph { return gr.g }

func (gr *Graph) keyForNode(n graph.Node) (string, bool) {
	k, ok := gr.keyOf[n.ID()]
	return k, ok
}
