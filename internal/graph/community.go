// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import (
	"sort"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/graph/community"
	"gonum.org/v1/gonum/graph/simple"
)

// Detector assigns graph nodes to discrete community ids. The variant is
// selected at construction so callers can assert which one is active
// instead of discovering a silent fallback: a singleton partition means
// "communities unavailable", not a structural signal.
type Detector interface {
	Name() string
	Detect(g *Graph) map[string]int
}

// LouvainDetector partitions by modularity maximization on the undirected
// projection of the graph.
type LouvainDetector struct {
	seed uint64
}

// NewLouvainDetector returns a Louvain detector seeded for deterministic
// partitions.
func NewLouvainDetector(seed uint64) *LouvainDetector {
	if seed == 0 {
		seed = 1
	}
	return &LouvainDetector{seed: seed}
}

// Name identifies the detector variant.
func (d *LouvainDetector) Name() string { return "louvain" }

// Detect runs modularity maximization and returns the community id of
// every node. Directed graphs are first projected to undirected by
// dropping direction. Community ids are assigned in order of each
// community's smallest member id, so the partition is stable across runs.
func (d *LouvainDetector) Detect(g *Graph) map[string]int {
	assignment := make(map[string]int)
	if g.NodeCount() == 0 {
		return assignment
	}

	u := g.Undirected()
	wg, fromGID := toWeightedUndirected(u)

	reduced := community.Modularize(wg, 1.0, rand.NewSource(d.seed))

	groups := make([][]string, 0)
	for _, comm := range reduced.Communities() {
		members := make([]string, 0, len(comm))
		for _, node := range comm {
			members = append(members, fromGID[node.ID()])
		}
		sort.Strings(members)
		groups = append(groups, members)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i][0] < groups[j][0] })

	for idx, members := range groups {
		for _, id := range members {
			assignment[id] = idx
		}
	}
	return assignment
}

// SingletonDetector is the degenerate fallback partition: every node its
// own community.
type SingletonDetector struct{}

// Name identifies the detector variant.
func (SingletonDetector) Name() string { return "singleton" }

// Detect assigns each node a distinct community id in lexicographic node
// order.
func (SingletonDetector) Detect(g *Graph) map[string]int {
	assignment := make(map[string]int, g.NodeCount())
	for idx, id := range g.NodeIDs() {
		assignment[id] = idx
	}
	return assignment
}

func toWeightedUndirected(g *Graph) (*simple.WeightedUndirectedGraph, map[int64]string) {
	ids := g.NodeIDs()
	toGID := make(map[string]int64, len(ids))
	fromGID := make(map[int64]string, len(ids))
	for i, id := range ids {
		toGID[id] = int64(i)
		fromGID[int64(i)] = id
	}

	wg := simple.NewWeightedUndirectedGraph(0, 0)
	for _, id := range ids {
		wg.AddNode(simple.Node(toGID[id]))
	}
	for _, e := range g.Edges() {
		wg.SetWeightedEdge(simple.WeightedEdge{
			F: simple.Node(toGID[e.From]),
			T: simple.Node(toGID[e.To]),
			W: float64(e.Weight),
		})
	}
	return wg, fromGID
}
