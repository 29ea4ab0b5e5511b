// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import (
	"context"
	"fmt"
	"io"

	"github.com/wz2708/FSU-PhD-Project2/internal/diskcache"
	"github.com/wz2708/FSU-PhD-Project2/internal/store"
	"github.com/wz2708/FSU-PhD-Project2/pkg/types"
)

const (
	graphIDsTable = "graph_paper_ids"

	defaultMaxCoauthors = 50
)

// Store is the slice of the columnar store adapter the builder needs.
type Store interface {
	Run(ctx context.Context, query string) (*types.Rows, error)
	ReadParquet(t store.Table) string
	RegisterIDs(ctx context.Context, name string, ids []string) error
	Drop(ctx context.Context, name string) error
}

// Builder derives citation and collaboration graphs from a filtered paper
// table, caching derived edge lists under the same lookback-window and
// filter-signature key as the pipeline that produced the table.
type Builder struct {
	store       Store
	cfg         types.GraphConfig
	institution string
	signature   string
	cache       *diskcache.Cache
	w           io.Writer
}

// NewBuilder returns a builder bound to the filter criteria's institution
// and the pipeline's cache and signature.
func NewBuilder(s Store, cfg types.GraphConfig, criteria types.FilterCriteria, signature string, cache *diskcache.Cache, w io.Writer) *Builder {
	if cfg.MaxCoauthorsPerPaper <= 0 {
		cfg.MaxCoauthorsPerPaper = defaultMaxCoauthors
	}
	return &Builder{
		store:       s,
		cfg:         cfg,
		institution: criteria.InstitutionID,
		signature:   signature,
		cache:       cache,
		w:           w,
	}
}

func (b *Builder) citationFile(years int) string {
	return fmt.Sprintf("citation_network_%dyr_%s.json", years, b.signature)
}

func (b *Builder) coauthorFile(years int) string {
	return fmt.Sprintf("coauthor_pairs_%dyr_%s.json", years, b.signature)
}

// BuildCitationGraph builds the directed citation graph over papers: one
// node per paper, one edge per (citing, cited) pair with both endpoints in
// the set, self-citations excluded, duplicate pairs collapsed into the
// edge weight. A cached edge list for the same window skips the join.
func (b *Builder) BuildCitationGraph(ctx context.Context, papers []types.Paper, years int) (*Graph, error) {
	g := NewDirected()
	if len(papers) == 0 {
		return g, nil
	}

	for _, p := range papers {
		g.AddNode(Node{ID: p.ID, Year: p.Year, Citations: p.CitedByCount, Patents: p.PatentCount})
	}

	var cached []Edge
	switch b.cache.Read(b.citationFile(years), &cached) {
	case diskcache.Hit:
		for _, e := range cached {
			if g.HasNode(e.From) && g.HasNode(e.To) {
				g.AddEdge(e.From, e.To, e.Weight)
			}
		}
		return g, nil
	case diskcache.Corrupt:
		fmt.Fprintf(b.w, "warning: corrupt cache file %s, recomputing\n", b.citationFile(years))
	}

	edges, err := b.queryCitationEdges(ctx, papers)
	if err != nil {
		return nil, err
	}
	for _, e := range edges {
		g.AddEdge(e.From, e.To, e.Weight)
	}

	if len(edges) > 0 {
		if err := b.cache.Write(b.citationFile(years), edges); err != nil {
			fmt.Fprintf(b.w, "warning: %v\n", err)
		}
	}

	return g, nil
}

func (b *Builder) queryCitationEdges(ctx context.Context, papers []types.Paper) ([]Edge, error) {
	ids := make([]string, len(papers))
	for i, p := range papers {
		ids[i] = p.ID
	}
	if err := b.store.RegisterIDs(ctx, graphIDsTable, ids); err != nil {
		return nil, err
	}
	defer b.store.Drop(ctx, graphIDsTable)

	rows, err := b.store.Run(ctx, fmt.Sprintf(
		`WITH citing_refs AS (
    SELECT refs.citing_paperid, refs.cited_paperid
    FROM %s refs
    INNER JOIN %s fp1 ON refs.citing_paperid = fp1.paperid
)
SELECT citing_paperid, cited_paperid, COUNT(*) AS weight
FROM citing_refs
INNER JOIN %s fp2 ON citing_refs.cited_paperid = fp2.paperid
WHERE citing_paperid != cited_paperid
GROUP BY citing_paperid, cited_paperid
ORDER BY citing_paperid, cited_paperid`,
		b.store.ReadParquet(store.TablePaperRefs), graphIDsTable, graphIDsTable))
	if err != nil {
		return nil, err
	}

	return scanEdges(rows, "citing_paperid", "cited_paperid")
}

// BuildCollaborationGraph builds the undirected co-authorship graph over
// the institution's authors on papers: nodes are all institution-affiliated
// authors appearing on any paper in the set (every position, not just
// first authors), edge weight is the number of shared papers. Papers with
// more than the configured co-author cap are excluded from pair generation,
// which is quadratic in per-paper author count.
func (b *Builder) BuildCollaborationGraph(ctx context.Context, papers []types.Paper, years int) (*Graph, error) {
	g := NewUndirected()
	if len(papers) == 0 {
		return g, nil
	}

	ids := make([]string, len(papers))
	for i, p := range papers {
		ids[i] = p.ID
	}
	if err := b.store.RegisterIDs(ctx, graphIDsTable, ids); err != nil {
		return nil, err
	}
	defer b.store.Drop(ctx, graphIDsTable)

	authorsCTE := fmt.Sprintf(
		`institution_authors AS (
    SELECT DISTINCT affil.paperid, affil.authorid
    FROM %s affil
    INNER JOIN %s fp ON affil.paperid = fp.paperid
    WHERE affil.institutionid = '%s'
)`,
		b.store.ReadParquet(store.TableAffiliation), graphIDsTable, b.institution)

	nodes, err := b.store.Run(ctx, fmt.Sprintf(
		"WITH %s SELECT DISTINCT authorid FROM institution_authors ORDER BY authorid", authorsCTE))
	if err != nil {
		return nil, err
	}
	authorCol := nodes.ColumnIndex("authorid")
	for i := 0; i < nodes.Len(); i++ {
		g.AddNode(Node{ID: nodes.String(i, authorCol)})
	}

	rows, err := b.store.Run(ctx, fmt.Sprintf(
		`WITH %s,
paper_author_counts AS (
    SELECT paperid, COUNT(*) AS author_count
    FROM institution_authors
    GROUP BY paperid
),
limited_authors AS (
    SELECT ia.paperid, ia.authorid
    FROM institution_authors ia
    INNER JOIN paper_author_counts pac ON ia.paperid = pac.paperid
    WHERE pac.author_count <= %d
)
SELECT
    CASE WHEN a1.authorid < a2.authorid THEN a1.authorid ELSE a2.authorid END AS author1,
    CASE WHEN a1.authorid < a2.authorid THEN a2.authorid ELSE a1.authorid END AS author2,
    COUNT(*) AS weight
FROM limited_authors a1
INNER JOIN limited_authors a2
    ON a1.paperid = a2.paperid
    AND a1.authorid < a2.authorid
GROUP BY author1, author2
ORDER BY author1, author2`,
		authorsCTE, b.cfg.MaxCoauthorsPerPaper))
	if err != nil {
		return nil, err
	}

	edges, err := scanEdges(rows, "author1", "author2")
	if err != nil {
		return nil, err
	}
	for _, e := range edges {
		g.AddEdge(e.From, e.To, e.Weight)
	}

	if len(edges) > 0 {
		if err := b.cache.Write(b.coauthorFile(years), edges); err != nil {
			fmt.Fprintf(b.w, "warning: %v\n", err)
		}
	}

	return g, nil
}

func scanEdges(rows *types.Rows, fromCol, toCol string) ([]Edge, error) {
	fi := rows.ColumnIndex(fromCol)
	ti := rows.ColumnIndex(toCol)
	wi := rows.ColumnIndex("weight")
	if fi < 0 || ti < 0 || wi < 0 {
		return nil, &types.SchemaError{Column: "weight"}
	}

	edges := make([]Edge, 0, rows.Len())
	for i := 0; i < rows.Len(); i++ {
		edges = append(edges, Edge{
			From:   rows.String(i, fi),
			To:     rows.String(i, ti),
			Weight: rows.Int(i, wi),
		})
	}
	return edges, nil
}
