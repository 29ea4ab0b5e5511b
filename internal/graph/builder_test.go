// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/wz2708/FSU-PhD-Project2/internal/diskcache"
	"github.com/wz2708/FSU-PhD-Project2/internal/store"
	"github.com/wz2708/FSU-PhD-Project2/pkg/types"
)

// fakeStore serves canned rows and records every executed query.
type fakeStore struct {
	runs     []string
	edgeRows *types.Rows
	nodeRows *types.Rows
}

func (f *fakeStore) Run(_ context.Context, query string) (*types.Rows, error) {
	f.runs = append(f.runs, query)
	switch {
	case strings.Contains(query, "limited_authors"):
		return f.edgeRows, nil
	case strings.Contains(query, "SELECT DISTINCT authorid"):
		return f.nodeRows, nil
	case strings.Contains(query, "citing_refs"):
		return f.edgeRows, nil
	}
	return &types.Rows{}, nil
}

func (f *fakeStore) ReadParquet(t store.Table) string {
	return fmt.Sprintf("read_parquet('test_%s.parquet')", t)
}

func (f *fakeStore) RegisterIDs(_ context.Context, _ string, _ []string) error { return nil }
func (f *fakeStore) Drop(_ context.Context, _ string) error                   { return nil }

func builderSetup(t *testing.T, f *fakeStore) *Builder {
	t.Helper()
	cache, err := diskcache.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	criteria := types.FilterCriteria{InstitutionID: "I78577930"}
	return NewBuilder(f, types.GraphConfig{}, criteria, "abcd1234", cache, &strings.Builder{})
}

func testPapers() []types.Paper {
	return []types.Paper{
		{ID: "P1", Year: 2021, CitedByCount: 15},
		{ID: "P2", Year: 2022, CitedByCount: 3},
		{ID: "P3", Year: 2023, CitedByCount: 0},
	}
}

func citationEdgeRows() *types.Rows {
	return &types.Rows{
		Columns: []string{"citing_paperid", "cited_paperid", "weight"},
		Records: [][]any{
			{"P1", "P2", int64(2)},
			{"P2", "P3", int64(1)},
		},
	}
}

// --- citation graph tests ---

func TestBuildCitationGraph(t *testing.T) {
	f := &fakeStore{edgeRows: citationEdgeRows()}
	b := builderSetup(t, f)

	g, err := b.BuildCitationGraph(context.Background(), testPapers(), 5)
	if err != nil {
		t.Fatal(err)
	}

	if !g.Directed() {
		t.Error("citation graph should be directed")
	}
	if g.NodeCount() != 3 {
		t.Errorf("NodeCount = %d, want 3", g.NodeCount())
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount = %d, want 2", g.EdgeCount())
	}
	if w, _ := g.Weight("P1", "P2"); w != 2 {
		t.Errorf("Weight(P1,P2) = %d, want 2", w)
	}

	// Node attributes come from the paper table.
	n, _ := g.Node("P1")
	if n.Year != 2021 || n.Citations != 15 {
		t.Errorf("node P1 = %+v", n)
	}
}

func TestBuildCitationGraphEmptyPapers(t *testing.T) {
	f := &fakeStore{}
	b := builderSetup(t, f)

	g, err := b.BuildCitationGraph(context.Background(), nil, 5)
	if err != nil {
		t.Fatal(err)
	}
	if g.NodeCount() != 0 || g.EdgeCount() != 0 {
		t.Errorf("empty input: nodes=%d edges=%d", g.NodeCount(), g.EdgeCount())
	}
	if len(f.runs) != 0 {
		t.Errorf("ran %d queries for empty input, want 0", len(f.runs))
	}
}

func TestBuildCitationGraphUsesEdgeCache(t *testing.T) {
	f := &fakeStore{edgeRows: citationEdgeRows()}
	b := builderSetup(t, f)

	if _, err := b.BuildCitationGraph(context.Background(), testPapers(), 5); err != nil {
		t.Fatal(err)
	}
	if !b.cache.Exists("citation_network_5yr_abcd1234.json") {
		t.Fatal("edge list not persisted")
	}

	// A second builder over the same cache rebuilds without querying.
	f2 := &fakeStore{}
	b2 := NewBuilder(f2, types.GraphConfig{}, types.FilterCriteria{InstitutionID: "I78577930"},
		"abcd1234", b.cache, &strings.Builder{})
	g, err := b2.BuildCitationGraph(context.Background(), testPapers(), 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(f2.runs) != 0 {
		t.Errorf("cache hit ran %d queries, want 0", len(f2.runs))
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount = %d, want 2 from cache", g.EdgeCount())
	}
}

func TestBuildCitationGraphCacheSkipsMissingEndpoints(t *testing.T) {
	f := &fakeStore{edgeRows: citationEdgeRows()}
	b := builderSetup(t, f)
	if _, err := b.BuildCitationGraph(context.Background(), testPapers(), 5); err != nil {
		t.Fatal(err)
	}

	// Rebuild over a narrower paper set: the cached P2->P3 edge has a
	// missing endpoint and must be dropped.
	narrower := testPapers()[:2]
	g, err := b.BuildCitationGraph(context.Background(), narrower, 5)
	if err != nil {
		t.Fatal(err)
	}
	if g.NodeCount() != 2 {
		t.Errorf("NodeCount = %d, want 2", g.NodeCount())
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount = %d, want 1", g.EdgeCount())
	}
	if _, ok := g.Weight("P2", "P3"); ok {
		t.Error("edge with missing endpoint should be dropped")
	}
}

// --- collaboration graph tests ---

func TestBuildCollaborationGraph(t *testing.T) {
	f := &fakeStore{
		nodeRows: &types.Rows{
			Columns: []string{"authorid"},
			Records: [][]any{{"A1"}, {"A2"}, {"A3"}},
		},
		edgeRows: &types.Rows{
			Columns: []string{"author1", "author2", "weight"},
			Records: [][]any{{"A1", "A2", int64(3)}},
		},
	}
	b := builderSetup(t, f)

	g, err := b.BuildCollaborationGraph(context.Background(), testPapers(), 5)
	if err != nil {
		t.Fatal(err)
	}

	if g.Directed() {
		t.Error("collaboration graph should be undirected")
	}
	// A3 appears on a paper but shares none; it is still a node.
	if g.NodeCount() != 3 {
		t.Errorf("NodeCount = %d, want 3 including the isolate", g.NodeCount())
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount = %d, want 1", g.EdgeCount())
	}
	if w, _ := g.Weight("A2", "A1"); w != 3 {
		t.Errorf("Weight(A2,A1) = %d, want 3", w)
	}

	if !b.cache.Exists("coauthor_pairs_5yr_abcd1234.json") {
		t.Error("coauthor pairs not persisted")
	}
}

func TestBuildCollaborationGraphAppliesCoauthorCap(t *testing.T) {
	f := &fakeStore{
		nodeRows: &types.Rows{Columns: []string{"authorid"}},
		edgeRows: &types.Rows{Columns: []string{"author1", "author2", "weight"}},
	}
	b := builderSetup(t, f)

	if _, err := b.BuildCollaborationGraph(context.Background(), testPapers(), 5); err != nil {
		t.Fatal(err)
	}

	var pairQuery string
	for _, q := range f.runs {
		if strings.Contains(q, "limited_authors") {
			pairQuery = q
		}
	}
	if !strings.Contains(pairQuery, "author_count <= 50") {
		t.Errorf("pair query missing default co-author cap:\n%s", pairQuery)
	}
	if !strings.Contains(pairQuery, "a1.authorid < a2.authorid") {
		t.Errorf("pair query missing canonical pair ordering:\n%s", pairQuery)
	}
}

func TestScanEdgesMissingWeightColumn(t *testing.T) {
	rows := &types.Rows{Columns: []string{"author1", "author2"}}
	_, err := scanEdges(rows, "author1", "author2")

	var schemaErr *types.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("err = %v, want SchemaError", err)
	}
}
