package graphutil

import (
	"sort"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/graph/community"
	"gonum.org/v1/gonum/graph/topo"
)

// Clique is a maximal clique, its member keys sorted for determinism.
type Clique []string

// FindCliques enumerates every maximal clique of the graph via gonum's
// Bron-Kerbosch implementation, matching the deterministic
// vertex-sorted-recursion contract: ties are broken by sorting each
// returned clique's keys.
func (gr *Graph) FindCliques() []Clique {
	raw := topo.BronKerbosch(gr.g)
	cliques := make([]Clique, 0, len(raw))
	for _, nodes := range raw {
		keys := make([]string, 0, len(nodes))
		for _, n := range nodes {
			if k, ok := gr.keyForNode(n); ok {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		cliques = append(cliques, keys)
	}
	sort.Slice(cliques, func(i, j int) bool { return lessCliques(cliques[i], cliques[j]) })
	return cliques
}

func lessCliques(a, b Clique) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

// MergeCliques collapses cliques into their vertex-wise unions under the
// transitive closure of "shares at least one vertex", via union-find over
// clique indices.
func MergeCliques(cliques []Clique) []Clique {
	parent := make([]int, len(cliques))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	owner := make(map[string][]int, len(cliques))
	for i, c := range cliques {
		for _, k := range c {
			owner[k] = append(owner[k], i)
		}
	}
	for _, idxs := range owner {
		for i := 1; i < len(idxs); i++ {
			union(idxs[0], idxs[i])
		}
	}

	groups := make(map[int]map[string]struct{})
	for i, c := range cliques {
		root := find(i)
		set, ok := groups[root]
		if !ok {
			set = make(map[string]struct{})
			groups[root] = set
		}
		for _, k := range c {
			set[k] = struct{}{}
		}
	}

	roots := make([]int, 0, len(groups))
	for r := range groups {
		roots = append(roots, r)
	}
	sort.Ints(roots)

	merged := make([]Clique, 0, len(roots))
	for _, r := range roots {
		set := groups[r]
		keys := make([]string, 0, len(set))
		for k := range set {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		merged = append(merged, keys)
	}
	return merged
}

// FindCommunities returns the clique-connected components of the graph:
// connected components of the clique-graph where two cliques are linked
// iff they share a vertex. This is exactly MergeCliques(FindCliques(gr)).
func (gr *Graph) FindCommunities() []Clique {
	return MergeCliques(gr.FindCliques())
}

// ModularizeCommunities runs gonum's Louvain-style community.Modularize
// over the graph as an alternative community definition, gated behind an
// explicit opt-in: the default selector never calls this, only
// FindCommunities.
func (gr *Graph) ModularizeCommunities(resolution float64, seed uint64) []Clique {
	r := community.Modularize(gr.g, resolution, rand.New(rand.NewSource(seed)))
	communities := make([]Clique, 0, len(r.Communities()))
	for _, c := range r.Communities() {
		keys := make([]string, 0, len(c))
		for _, n := range c {
			if k, ok := gr.keyForNode(n); ok {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		communities = append(communities, keys)
	}
	sort.Slice(communities, func(i, j int) bool { return lessCliques(communities[i], communities[j]) })
	return communities
}
