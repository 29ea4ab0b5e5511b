// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filter applies the fixed conjunction of corpus inclusion
// predicates and memoizes the resulting paper-id set and paper table per
// lookback window, in memory and on disk, keyed by the filter signature.
package filter

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/wz2708/FSU-PhD-Project2/internal/diskcache"
	"github.com/wz2708/FSU-PhD-Project2/internal/store"
	"github.com/wz2708/FSU-PhD-Project2/pkg/types"
)

const (
	// streamThreshold is the lookback window, in years, at or above which
	// the defining query spills through an intermediate parquet file
	// instead of materializing the full result in memory. The spill bounds
	// peak memory only; it never changes the result.
	streamThreshold = 10

	// chunkSize is the row count per read when reassembling the id set
	// from a spill file.
	chunkSize = 50000

	idsTableName = "filtered_ids"
)

// Store is the slice of the columnar store adapter the pipeline needs.
type Store interface {
	Run(ctx context.Context, query string) (*types.Rows, error)
	Exec(ctx context.Context, stmt string) error
	ReadParquet(t store.Table) string
	RegisterIDs(ctx context.Context, name string, ids []string) error
	Drop(ctx context.Context, name string) error
}

// Pipeline owns the fixed filter criteria, the per-window in-process
// caches, and the disk cache. Construct one per corpus; tests construct
// isolated instances with independent cache directories.
type Pipeline struct {
	store     Store
	criteria  types.FilterCriteria
	signature string
	cache     *diskcache.Cache
	w         io.Writer
	now       func() time.Time

	// mu serializes cache access. Exported methods lock it and call the
	// unexported, lock-free paths; the paper-table path reaches the id-set
	// path without re-acquiring, so the pipeline cannot deadlock against
	// itself.
	mu     sync.Mutex
	idSets map[int]map[string]struct{}
	tables map[int][]types.Paper
}

// New builds a pipeline for the fixed criteria derived from cfg: the
// configured institution and field, doctype article, not retracted, and
// first-author institution match.
func New(s Store, cfg types.FilterConfig, w io.Writer) (*Pipeline, error) {
	criteria := types.FilterCriteria{
		InstitutionID:    cfg.InstitutionID,
		FieldID:          cfg.FieldID,
		DocType:          types.DocTypeArticle,
		ExcludeRetracted: true,
		AuthorPosition:   types.PositionFirst,
	}

	sig, err := Signature(criteria)
	if err != nil {
		return nil, err
	}

	cache, err := diskcache.New(cfg.CacheDir)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		store:     s,
		criteria:  criteria,
		signature: sig,
		cache:     cache,
		w:         w,
		now:       time.Now,
		idSets:    make(map[int]map[string]struct{}),
		tables:    make(map[int][]types.Paper),
	}, nil
}

// Signature returns the stable hash of the serialized criteria, used to
// tag every cache file derived from it.
func Signature(c types.FilterCriteria) (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("serializing filter criteria: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:8], nil
}

// Criteria returns the fixed predicate tuple.
func (p *Pipeline) Criteria() types.FilterCriteria { return p.criteria }

// FilterSignature returns the signature tagging this pipeline's cache files.
func (p *Pipeline) FilterSignature() string { return p.signature }

// Cache returns the disk cache the pipeline persists artifacts to.
func (p *Pipeline) Cache() *diskcache.Cache { return p.cache }

// Invalidate drops the in-process caches. Disk files are left in place;
// they remain valid for the unchanged signature and are safe to delete
// externally to force recomputation.
func (p *Pipeline) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.idSets = make(map[int]map[string]struct{})
	p.tables = make(map[int][]types.Paper)
}

func (p *Pipeline) idsFile(years int) string {
	return fmt.Sprintf("filtered_paper_ids_%dyr_%s.json", years, p.signature)
}

func (p *Pipeline) papersFile(years int) string {
	return fmt.Sprintf("filtered_papers_%dyr_%s.json", years, p.signature)
}

// FilteredPaperIDs returns the set of paper ids matching all fixed
// predicates within the lookback window. Repeated calls with the same
// window hit the in-process cache and perform no store query.
func (p *Pipeline) FilteredPaperIDs(ctx context.Context, years int) (map[string]struct{}, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.filteredPaperIDsLocked(ctx, years)
}

func (p *Pipeline) filteredPaperIDsLocked(ctx context.Context, years int) (map[string]struct{}, error) {
	if ids, ok := p.idSets[years]; ok {
		return ids, nil
	}

	// Disk cache tagged with the current signature. A file tagged with a
	// different signature (including legacy untagged files) is never read:
	// a mismatched predicate tuple must not silently serve stale results.
	var cached []string
	switch p.cache.Read(p.idsFile(years), &cached) {
	case diskcache.Hit:
		ids := make(map[string]struct{}, len(cached))
		for _, id := range cached {
			ids[id] = struct{}{}
		}
		p.idSets[years] = ids
		return ids, nil
	case diskcache.Corrupt:
		fmt.Fprintf(p.w, "warning: corrupt cache file %s, recomputing\n", p.idsFile(years))
	}

	ids, err := p.queryPaperIDs(ctx, years)
	if err != nil {
		return nil, err
	}
	p.idSets[years] = ids

	sorted := make([]string, 0, len(ids))
	for id := range ids {
		sorted = append(sorted, id)
	}
	sort.Strings(sorted)
	if err := p.cache.Write(p.idsFile(years), sorted); err != nil {
		fmt.Fprintf(p.w, "warning: %v\n", err)
	}

	return ids, nil
}

// definingQuery composes the fixed-predicate id query for the window
// ending at the current year.
func (p *Pipeline) definingQuery(years int) string {
	currentYear := p.now().Year()
	startYear := currentYear - years

	return fmt.Sprintf(`WITH institution_first_author_papers AS (
    SELECT DISTINCT paperid
    FROM %s
    WHERE institutionid = '%s'
      AND author_position = '%s'
),
field_papers AS (
    SELECT DISTINCT paperid
    FROM %s
    WHERE fieldid = '%s'
),
filtered_papers AS (
    SELECT DISTINCT p.paperid
    FROM %s p
    INNER JOIN institution_first_author_papers c ON p.paperid = c.paperid
    INNER JOIN field_papers f ON p.paperid = f.paperid
    WHERE p.year >= %d AND p.year <= %d
      AND p.doctype = '%s'
      AND p.is_retracted = false
)
SELECT paperid FROM filtered_papers`,
		p.store.ReadParquet(store.TableAffiliation),
		p.criteria.InstitutionID,
		p.criteria.AuthorPosition,
		p.store.ReadParquet(store.TablePaperFields),
		p.criteria.FieldID,
		p.store.ReadParquet(store.TablePapers),
		startYear, currentYear,
		p.criteria.DocType,
	)
}

func (p *Pipeline) queryPaperIDs(ctx context.Context, years int) (map[string]struct{}, error) {
	query := p.definingQuery(years)

	if years >= streamThreshold {
		if ids, err := p.streamPaperIDs(ctx, query, years); err == nil {
			return ids, nil
		}
		// Spill failed; fall through to direct materialization.
		fmt.Fprintf(p.w, "warning: spill query failed for %dyr window, materializing directly\n", years)
	}

	rows, err := p.store.Run(ctx, query)
	if err != nil {
		return nil, err
	}
	return idSet(rows), nil
}

// streamPaperIDs copies the query result to an intermediate parquet file
// and reassembles the id set from bounded chunks.
func (p *Pipeline) streamPaperIDs(ctx context.Context, query string, years int) (map[string]struct{}, error) {
	tmp := p.cache.Path(fmt.Sprintf("temp_paper_ids_%dyr_%s.parquet", years, p.signature))
	defer os.Remove(tmp)

	copyStmt := fmt.Sprintf("COPY (%s) TO '%s' (FORMAT PARQUET, COMPRESSION SNAPPY)", query, tmp)
	if err := p.store.Exec(ctx, copyStmt); err != nil {
		return nil, err
	}

	ids := make(map[string]struct{})
	for offset := 0; ; offset += chunkSize {
		// The session disables insertion-order preservation, so pagination
		// needs an explicit ordering for stable chunk boundaries.
		chunk, err := p.store.Run(ctx, fmt.Sprintf(
			"SELECT paperid FROM read_parquet('%s') ORDER BY paperid LIMIT %d OFFSET %d",
			tmp, chunkSize, offset))
		if err != nil {
			return nil, err
		}
		if chunk.Empty() {
			break
		}
		for id := range idSet(chunk) {
			ids[id] = struct{}{}
		}
		if chunk.Len() < chunkSize {
			break
		}
	}
	return ids, nil
}

func idSet(rows *types.Rows) map[string]struct{} {
	ids := make(map[string]struct{}, rows.Len())
	col := rows.ColumnIndex("paperid")
	if col < 0 {
		return ids
	}
	for i := 0; i < rows.Len(); i++ {
		ids[rows.String(i, col)] = struct{}{}
	}
	return ids
}

// FilteredPapers joins the filtered id set back to the papers table and
// returns the attribute rows. An empty filter result yields an empty
// slice, not an error; a result missing the year column yields a
// SchemaError, since that indicates a malformed backing store.
func (p *Pipeline) FilteredPapers(ctx context.Context, years int) ([]types.Paper, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if papers, ok := p.tables[years]; ok {
		return papers, nil
	}

	var cached []types.Paper
	switch p.cache.Read(p.papersFile(years), &cached) {
	case diskcache.Hit:
		p.tables[years] = cached
		return cached, nil
	case diskcache.Corrupt:
		fmt.Fprintf(p.w, "warning: corrupt cache file %s, recomputing\n", p.papersFile(years))
	}

	ids, err := p.filteredPaperIDsLocked(ctx, years)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []types.Paper{}, nil
	}

	papers, err := p.joinPapers(ctx, ids)
	if err != nil {
		return nil, err
	}

	p.tables[years] = papers
	if err := p.cache.Write(p.papersFile(years), papers); err != nil {
		fmt.Fprintf(p.w, "warning: %v\n", err)
	}

	return papers, nil
}

func (p *Pipeline) joinPapers(ctx context.Context, ids map[string]struct{}) ([]types.Paper, error) {
	idList := make([]string, 0, len(ids))
	for id := range ids {
		idList = append(idList, id)
	}
	if err := p.store.RegisterIDs(ctx, idsTableName, idList); err != nil {
		return nil, err
	}
	defer p.store.Drop(ctx, idsTableName)

	rows, err := p.store.Run(ctx, fmt.Sprintf(
		"SELECT p.* FROM %s p INNER JOIN %s f ON p.paperid = f.paperid ORDER BY p.paperid",
		p.store.ReadParquet(store.TablePapers), idsTableName))
	if err != nil {
		return nil, err
	}
	if rows.Empty() {
		return []types.Paper{}, nil
	}

	return scanPapers(rows)
}

func scanPapers(rows *types.Rows) ([]types.Paper, error) {
	yearCol := rows.ColumnIndex("year")
	if yearCol < 0 {
		return nil, &types.SchemaError{Column: "year"}
	}
	idCol := rows.ColumnIndex("paperid")
	if idCol < 0 {
		return nil, &types.SchemaError{Column: "paperid"}
	}
	docCol := rows.ColumnIndex("doctype")
	retCol := rows.ColumnIndex("is_retracted")
	citeCol := rows.ColumnIndex("cited_by_count")
	patCol := rows.ColumnIndex("patent_count")

	papers := make([]types.Paper, 0, rows.Len())
	for i := 0; i < rows.Len(); i++ {
		paper := types.Paper{
			ID:   rows.String(i, idCol),
			Year: rows.Int(i, yearCol),
		}
		if docCol >= 0 {
			paper.DocType = rows.String(i, docCol)
		}
		if retCol >= 0 {
			paper.IsRetracted = rows.Bool(i, retCol)
		}
		if citeCol >= 0 {
			paper.CitedByCount = rows.Int(i, citeCol)
		}
		if patCol >= 0 {
			paper.PatentCount = rows.Int(i, patCol)
		}
		papers = append(papers, paper)
	}
	return papers, nil
}

// PatentCounts returns the patent-link cardinality for each paper id,
// zero-filled for papers with no links or when the patent table is absent.
// It takes the instance lock: the shared id temp table must not be
// re-registered or dropped while another pipeline operation is joining
// against it.
func (p *Pipeline) PatentCounts(ctx context.Context, ids map[string]struct{}) (map[string]int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	counts := make(map[string]int, len(ids))
	for id := range ids {
		counts[id] = 0
	}
	if len(ids) == 0 {
		return counts, nil
	}

	idList := make([]string, 0, len(ids))
	for id := range ids {
		idList = append(idList, id)
	}
	if err := p.store.RegisterIDs(ctx, idsTableName, idList); err != nil {
		return nil, err
	}
	defer p.store.Drop(ctx, idsTableName)

	rows, err := p.store.Run(ctx, fmt.Sprintf(
		`SELECT fp.paperid, COUNT(lp.patent) AS patent_count
FROM %s fp
LEFT JOIN %s lp ON fp.paperid = lp.paperid
GROUP BY fp.paperid`,
		idsTableName, p.store.ReadParquet(store.TableLinkPatents)))
	if err != nil {
		var unavailable *types.StoreUnavailableError
		if errors.As(err, &unavailable) {
			return counts, nil
		}
		return nil, err
	}

	idCol := rows.ColumnIndex("paperid")
	cntCol := rows.ColumnIndex("patent_count")
	for i := 0; i < rows.Len(); i++ {
		counts[rows.String(i, idCol)] = rows.Int(i, cntCol)
	}
	return counts, nil
}
