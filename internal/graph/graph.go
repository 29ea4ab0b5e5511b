// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package graph derives citation and collaboration graphs from the
// filtered corpus and computes per-node structural metrics and community
// partitions over them.
package graph

import "sort"

// Node is a graph node with paper attributes. Collaboration nodes are
// author ids and carry zero attributes.
type Node struct {
	ID        string `json:"id"`
	Year      int    `json:"year,omitempty"`
	Citations int    `json:"citations,omitempty"`
	Patents   int    `json:"patents,omitempty"`
}

// Edge is a weighted edge. For undirected graphs From sorts before To
// under lexicographic id order.
type Edge struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Weight int    `json:"weight"`
}

// Graph is a weighted graph over string node ids. Directed graphs keep
// separate out- and in-adjacency; undirected graphs keep a symmetric
// adjacency with edges canonicalized so (a,b) and (b,a) never coexist.
// Self-loops are rejected.
type Graph struct {
	directed bool
	nodes    map[string]Node
	out      map[string]map[string]int
	in       map[string]map[string]int
}

// NewDirected returns an empty directed graph.
func NewDirected() *Graph {
	return &Graph{
		directed: true,
		nodes:    make(map[string]Node),
		out:      make(map[string]map[string]int),
		in:       make(map[string]map[string]int),
	}
}

// NewUndirected returns an empty undirected graph.
func NewUndirected() *Graph {
	return &Graph{
		nodes: make(map[string]Node),
		out:   make(map[string]map[string]int),
	}
}

// Directed reports whether the graph is directed.
func (g *Graph) Directed() bool { return g.directed }

// AddNode inserts or replaces a node.
func (g *Graph) AddNode(n Node) {
	g.nodes[n.ID] = n
}

// HasNode reports whether id is a node of the graph.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// AddEdge accumulates weight on the (from, to) edge, creating missing
// endpoint nodes. Self-loops are dropped. For undirected graphs the edge
// is stored symmetrically and canonicalized on enumeration.
func (g *Graph) AddEdge(from, to string, weight int) {
	if from == to {
		return
	}
	if !g.HasNode(from) {
		g.AddNode(Node{ID: from})
	}
	if !g.HasNode(to) {
		g.AddNode(Node{ID: to})
	}

	addAdj(g.out, from, to, weight)
	if g.directed {
		addAdj(g.in, to, from, weight)
	} else {
		addAdj(g.out, to, from, weight)
	}
}

func addAdj(adj map[string]map[string]int, a, b string, weight int) {
	m, ok := adj[a]
	if !ok {
		m = make(map[string]int)
		adj[a] = m
	}
	m[b] += weight
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges, counting each undirected edge once.
func (g *Graph) EdgeCount() int {
	total := 0
	for from, m := range g.out {
		if g.directed {
			total += len(m)
			continue
		}
		for to := range m {
			if from < to {
				total++
			}
		}
	}
	return total
}

// NodeIDs returns all node ids in lexicographic order.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Nodes returns all nodes ordered by id.
func (g *Graph) Nodes() []Node {
	ids := g.NodeIDs()
	nodes := make([]Node, len(ids))
	for i, id := range ids {
		nodes[i] = g.nodes[id]
	}
	return nodes
}

// Edges returns all edges ordered by (From, To). Undirected edges appear
// once, in canonical order.
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for from, m := range g.out {
		for to, w := range m {
			if !g.directed && from > to {
				continue
			}
			edges = append(edges, Edge{From: from, To: to, Weight: w})
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})
	return edges
}

// Weight returns the weight of the (a, b) edge, if present. Undirected
// lookups accept either endpoint order.
func (g *Graph) Weight(a, b string) (int, bool) {
	if m, ok := g.out[a]; ok {
		if w, ok := m[b]; ok {
			return w, true
		}
	}
	return 0, false
}

// OutNeighbors returns the out-adjacency of id (full adjacency for
// undirected graphs). The returned map is live; callers must not mutate it.
func (g *Graph) OutNeighbors(id string) map[string]int {
	return g.out[id]
}

// InNeighbors returns the in-adjacency of id for directed graphs, and the
// full adjacency for undirected ones.
func (g *Graph) InNeighbors(id string) map[string]int {
	if g.directed {
		return g.in[id]
	}
	return g.out[id]
}

// Degree returns the direct edge count for id: in+out for directed
// graphs, neighbor count for undirected ones.
func (g *Graph) Degree(id string) int {
	if g.directed {
		return len(g.out[id]) + len(g.in[id])
	}
	return len(g.out[id])
}

// Undirected returns the undirected projection of the graph: direction is
// dropped and antiparallel edge weights collapse by summation. An already
// undirected graph is returned as-is.
func (g *Graph) Undirected() *Graph {
	if !g.directed {
		return g
	}
	u := NewUndirected()
	for _, n := range g.nodes {
		u.AddNode(n)
	}
	for from, m := range g.out {
		for to, w := range m {
			u.AddEdge(from, to, w)
		}
	}
	return u
}
