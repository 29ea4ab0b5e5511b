// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import (
	"math"
	"math/rand"
	"sort"

	gonumgraph "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/wz2708/FSU-PhD-Project2/pkg/types"
)

const (
	defaultDamping       = 0.85
	defaultMaxIterations = 100
	defaultExactLimit    = 500
	defaultSampleSize    = 100
	convergenceTolerance = 1e-6
)

// ComputeNodeMetrics computes degree, degree centrality, importance,
// betweenness, and clustering coefficient for every node of g. Importance
// is PageRank for directed graphs and eigenvector centrality for
// undirected ones; either falls back to all-zero scores when the power
// iteration fails to converge within the iteration cap. Betweenness is
// exact below the node-count threshold and source-sampled above it.
// Clustering is zero for every node of a directed graph.
func ComputeNodeMetrics(g *Graph, cfg types.GraphConfig) map[string]types.NodeMetrics {
	metrics := make(map[string]types.NodeMetrics)
	n := g.NodeCount()
	if n == 0 {
		return metrics
	}

	damping := cfg.Damping
	if damping <= 0 || damping >= 1 {
		damping = defaultDamping
	}
	maxIter := cfg.MaxIterations
	if maxIter <= 0 {
		maxIter = defaultMaxIterations
	}
	exactLimit := cfg.BetweennessExactLimit
	if exactLimit <= 0 {
		exactLimit = defaultExactLimit
	}
	sampleSize := cfg.BetweennessSampleSize
	if sampleSize <= 0 {
		sampleSize = defaultSampleSize
	}

	var importance map[string]float64
	var converged bool
	if g.Directed() {
		importance, converged = pageRank(g, damping, maxIter)
	} else {
		importance, converged = eigenvectorCentrality(g, maxIter)
	}
	if !converged {
		importance = nil
	}

	var betweenness map[string]float64
	if n < exactLimit {
		betweenness = exactBetweenness(g)
	} else {
		k := sampleSize
		if k > n {
			k = n
		}
		betweenness = sampledBetweenness(g, k, cfg.Seed)
	}

	var clustering map[string]float64
	if !g.Directed() {
		clustering = localClustering(g)
	}

	for _, id := range g.NodeIDs() {
		m := types.NodeMetrics{Degree: g.Degree(id)}
		if n > 1 {
			m.DegreeCentrality = float64(m.Degree) / float64(n-1)
		}
		m.Importance = importance[id]
		m.Betweenness = betweenness[id]
		m.Clustering = clustering[id]
		metrics[id] = m
	}
	return metrics
}

// pageRank runs weighted power iteration with sink redistribution.
// Returns false when the iteration did not converge within maxIter.
func pageRank(g *Graph, damping float64, maxIter int) (map[string]float64, bool) {
	ids := g.NodeIDs()
	n := float64(len(ids))

	rank := make(map[string]float64, len(ids))
	for _, id := range ids {
		rank[id] = 1 / n
	}

	outWeight := make(map[string]float64, len(ids))
	for _, id := range ids {
		total := 0.0
		for _, w := range g.OutNeighbors(id) {
			total += float64(w)
		}
		outWeight[id] = total
	}

	for iter := 0; iter < maxIter; iter++ {
		dangling := 0.0
		for _, id := range ids {
			if outWeight[id] == 0 {
				dangling += rank[id]
			}
		}

		next := make(map[string]float64, len(ids))
		base := (1-damping)/n + damping*dangling/n
		for _, id := range ids {
			next[id] = base
		}
		for _, u := range ids {
			if outWeight[u] == 0 {
				continue
			}
			share := damping * rank[u] / outWeight[u]
			for v, w := range g.OutNeighbors(u) {
				next[v] += share * float64(w)
			}
		}

		diff := 0.0
		for _, id := range ids {
			diff += math.Abs(next[id] - rank[id])
		}
		rank = next
		if diff < n*convergenceTolerance {
			return rank, true
		}
	}
	return rank, false
}

// eigenvectorCentrality runs shifted power iteration (x' = x + Ax,
// L2-normalized each step) on an undirected graph. Returns false when the
// iteration did not converge within maxIter.
func eigenvectorCentrality(g *Graph, maxIter int) (map[string]float64, bool) {
	ids := g.NodeIDs()
	n := float64(len(ids))

	x := make(map[string]float64, len(ids))
	for _, id := range ids {
		x[id] = 1 / n
	}

	for iter := 0; iter < maxIter; iter++ {
		next := make(map[string]float64, len(ids))
		for _, id := range ids {
			next[id] = x[id]
		}
		for _, u := range ids {
			for v, w := range g.OutNeighbors(u) {
				next[v] += x[u] * float64(w)
			}
		}

		norm := 0.0
		for _, id := range ids {
			norm += next[id] * next[id]
		}
		norm = math.Sqrt(norm)
		if norm == 0 {
			norm = 1
		}

		diff := 0.0
		for _, id := range ids {
			next[id] /= norm
			diff += math.Abs(next[id] - x[id])
		}
		x = next
		if diff < n*convergenceTolerance {
			return x, true
		}
	}
	return x, false
}

// exactBetweenness computes Brandes betweenness over every source via
// gonum and rescales to the normalized convention.
func exactBetweenness(g *Graph) map[string]float64 {
	sg, fromID := toSimple(g)
	raw := network.Betweenness(sg)

	scores := make(map[string]float64, g.NodeCount())
	for gid, v := range raw {
		scores[fromID[gid]] = v
	}
	rescaleBetweenness(scores, g.NodeCount(), 0)
	return scores
}

// sampledBetweenness accumulates Brandes dependencies from k randomly
// sampled source nodes and scales the estimate by n/k, trading exactness
// for bounded runtime on large graphs.
func sampledBetweenness(g *Graph, k int, seed int64) map[string]float64 {
	ids := g.NodeIDs()
	if seed == 0 {
		seed = 1
	}
	rng := rand.New(rand.NewSource(seed))

	scores := make(map[string]float64, len(ids))
	for _, i := range rng.Perm(len(ids))[:k] {
		brandesFrom(g, ids[i], scores)
	}
	rescaleBetweenness(scores, len(ids), k)
	return scores
}

// brandesFrom accumulates the single-source shortest-path dependencies of
// s into bc (Brandes 2001, unweighted BFS variant).
func brandesFrom(g *Graph, s string, bc map[string]float64) {
	var stack []string
	pred := make(map[string][]string)
	sigma := map[string]float64{s: 1}
	dist := map[string]int{s: 0}

	queue := []string{s}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		stack = append(stack, v)

		next := neighborIDs(g.OutNeighbors(v))
		for _, w := range next {
			if _, seen := dist[w]; !seen {
				dist[w] = dist[v] + 1
				queue = append(queue, w)
			}
			if dist[w] == dist[v]+1 {
				sigma[w] += sigma[v]
				pred[w] = append(pred[w], v)
			}
		}
	}

	delta := make(map[string]float64)
	for i := len(stack) - 1; i >= 0; i-- {
		w := stack[i]
		for _, v := range pred[w] {
			delta[v] += sigma[v] / sigma[w] * (1 + delta[w])
		}
		if w != s {
			bc[w] += delta[w]
		}
	}
}

func neighborIDs(adj map[string]int) []string {
	ids := make([]string, 0, len(adj))
	for id := range adj {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// rescaleBetweenness applies the 1/((n-1)(n-2)) normalization (undirected
// accumulation visits each pair from both endpoints, which this absorbs)
// and the n/k correction for sampled sources.
func rescaleBetweenness(scores map[string]float64, n, k int) {
	if n <= 2 {
		for id := range scores {
			scores[id] = 0
		}
		return
	}
	scale := 1 / (float64(n-1) * float64(n-2))
	if k > 0 {
		scale *= float64(n) / float64(k)
	}
	for id := range scores {
		scores[id] *= scale
	}
}

// localClustering computes the local clustering coefficient of every node
// of an undirected graph: realized links among neighbors over k(k-1)/2.
func localClustering(g *Graph) map[string]float64 {
	scores := make(map[string]float64, g.NodeCount())
	for _, id := range g.NodeIDs() {
		neighbors := neighborIDs(g.OutNeighbors(id))
		k := len(neighbors)
		if k < 2 {
			scores[id] = 0
			continue
		}
		links := 0
		for i := 0; i < k; i++ {
			for j := i + 1; j < k; j++ {
				if _, ok := g.Weight(neighbors[i], neighbors[j]); ok {
					links++
				}
			}
		}
		scores[id] = 2 * float64(links) / (float64(k) * float64(k-1))
	}
	return scores
}

// toSimple interns string node ids into a gonum graph for algorithms that
// need one, returning the reverse id mapping.
func toSimple(g *Graph) (gonumgraph.Graph, map[int64]string) {
	ids := g.NodeIDs()
	toGID := make(map[string]int64, len(ids))
	fromGID := make(map[int64]string, len(ids))
	for i, id := range ids {
		toGID[id] = int64(i)
		fromGID[int64(i)] = id
	}

	if g.Directed() {
		dg := simple.NewDirectedGraph()
		for _, id := range ids {
			dg.AddNode(simple.Node(toGID[id]))
		}
		for _, e := range g.Edges() {
			dg.SetEdge(simple.Edge{F: simple.Node(toGID[e.From]), T: simple.Node(toGID[e.To])})
		}
		return dg, fromGID
	}

	ug := simple.NewUndirectedGraph()
	for _, id := range ids {
		ug.AddNode(simple.Node(toGID[id]))
	}
	for _, e := range g.Edges() {
		ug.SetEdge(simple.Edge{F: simple.Node(toGID[e.From]), T: simple.Node(toGID[e.To])})
	}
	return ug, fromGID
}
