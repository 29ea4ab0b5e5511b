// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"context"
	"fmt"
	"time"

	"github.com/wz2708/FSU-PhD-Project2/internal/store"
	"github.com/wz2708/FSU-PhD-Project2/pkg/types"
)

const defaultAuthorLimit = 10

// Store is the slice of the columnar store adapter the query layer needs.
type Store interface {
	Run(ctx context.Context, query string) (*types.Rows, error)
	ReadParquet(t store.Table) string
}

// Result is a query result: ordered rows plus the row count. Summary
// statistics are derived from it by the Compute*Stats functions, which
// are pure functions of the rows.
type Result struct {
	Rows     *types.Rows `json:"rows"`
	RowCount int         `json:"row_count"`
}

func newResult(rows *types.Rows) *Result {
	return &Result{Rows: rows, RowCount: rows.Len()}
}

// Executor runs parameterized aggregation queries against the store.
// Predicate-level misses (unknown field names, empty matches) return
// empty results; only store-level failures are errors.
type Executor struct {
	store Store
	cfg   types.QueryConfig
	now   func() time.Time
}

// NewExecutor returns an executor over s.
func NewExecutor(s Store, cfg types.QueryConfig) *Executor {
	if cfg.DefaultAuthorLimit <= 0 {
		cfg.DefaultAuthorLimit = defaultAuthorLimit
	}
	return &Executor{store: s, cfg: cfg, now: time.Now}
}

// PapersByField returns paper counts grouped by field, most-published
// first.
func (e *Executor) PapersByField(ctx context.Context, opts FieldOptions) (*Result, error) {
	var c conditions
	if opts.FieldName != "" {
		c.and(containsFold("f.display_name", opts.FieldName))
	}

	query := fmt.Sprintf(
		`SELECT pf.fieldid, f.display_name, COUNT(DISTINCT pf.paperid) AS paper_count
FROM %s pf
LEFT JOIN %s f ON pf.fieldid = f.fieldid%s
GROUP BY pf.fieldid, f.display_name
ORDER BY paper_count DESC, pf.fieldid`,
		e.store.ReadParquet(store.TablePaperFields),
		e.store.ReadParquet(store.TableFields),
		c.where())
	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}

	rows, err := e.store.Run(ctx, query)
	if err != nil {
		return nil, err
	}
	return newResult(rows), nil
}

// Papers returns paper rows matching the generic filters, ordered by id.
func (e *Executor) Papers(ctx context.Context, f PaperFilters) (*Result, error) {
	var c conditions
	if f.Year > 0 {
		c.and(eqInt("year", f.Year))
	}
	if f.YearRange != nil {
		c.and(gteInt("year", f.YearRange[0]))
		c.and(lteInt("year", f.YearRange[1]))
	}
	if f.StartYear > 0 {
		c.and(gteInt("year", f.StartYear))
	}
	if f.EndYear > 0 {
		c.and(lteInt("year", f.EndYear))
	}
	if f.MinCitations != nil {
		c.and(gteInt("cited_by_count", *f.MinCitations))
	}
	if f.MaxCitations != nil {
		c.and(lteInt("cited_by_count", *f.MaxCitations))
	}
	if f.MinPatents != nil {
		c.and(gteInt("patent_count", *f.MinPatents))
	}
	if f.HasPatents {
		c.and(gtInt("patent_count", 0))
	}

	rows, err := e.store.Run(ctx, fmt.Sprintf(
		"SELECT * FROM %s%s ORDER BY paperid",
		e.store.ReadParquet(store.TablePapers), c.where()))
	if err != nil {
		return nil, err
	}
	return newResult(rows), nil
}

// PapersByYear returns paper counts grouped by year. The Years option
// counts back from the current year.
func (e *Executor) PapersByYear(ctx context.Context, opts YearOptions) (*Result, error) {
	var c conditions
	if opts.Year > 0 {
		c.and(eqInt("year", opts.Year))
	}
	if opts.StartYear > 0 {
		c.and(gteInt("year", opts.StartYear))
	}
	if opts.EndYear > 0 {
		c.and(lteInt("year", opts.EndYear))
	}
	if opts.Years > 0 {
		c.and(gteInt("year", e.now().Year()-opts.Years))
	}

	rows, err := e.store.Run(ctx, fmt.Sprintf(
		"SELECT year, COUNT(*) AS count FROM %s%s GROUP BY year ORDER BY year",
		e.store.ReadParquet(store.TablePapers), c.where()))
	if err != nil {
		return nil, err
	}
	return newResult(rows), nil
}

// PapersByCitations returns papers filtered by citation count, most-cited
// first. A field filter joins the field tables but groups on paper
// identity, so papers with several matching field assignments appear once.
func (e *Executor) PapersByCitations(ctx context.Context, opts CitationOptions) (*Result, error) {
	var c conditions
	if opts.MinCitations != nil {
		c.and(gteInt("p.cited_by_count", *opts.MinCitations))
	}
	if opts.MaxCitations != nil {
		c.and(lteInt("p.cited_by_count", *opts.MaxCitations))
	}
	if opts.Year > 0 {
		c.and(eqInt("p.year", opts.Year))
	}

	fieldJoin := ""
	if opts.Field != "" {
		fieldJoin = fmt.Sprintf("\nLEFT JOIN %s f ON pf.fieldid = f.fieldid",
			e.store.ReadParquet(store.TableFields))
		c.and(containsFold("f.display_name", opts.Field))
	}

	query := fmt.Sprintf(
		`SELECT p.*, COUNT(DISTINCT pf.fieldid) AS field_count
FROM %s p
LEFT JOIN %s pf ON p.paperid = pf.paperid%s%s
GROUP BY p.paperid, p.year, p.doctype, p.is_retracted, p.cited_by_count, p.patent_count
ORDER BY p.cited_by_count DESC, p.paperid`,
		e.store.ReadParquet(store.TablePapers),
		e.store.ReadParquet(store.TablePaperFields),
		fieldJoin, c.where())

	rows, err := e.store.Run(ctx, query)
	if err != nil {
		return nil, err
	}
	return newResult(rows), nil
}

// PapersByPatents returns papers filtered by patent-link count, computed
// from the link table rather than the denormalized column, most-linked
// first.
func (e *Executor) PapersByPatents(ctx context.Context, opts PatentOptions) (*Result, error) {
	var c conditions
	if opts.MinPatents != nil {
		c.and(gteInt("COALESCE(pat.patent_count, 0)", *opts.MinPatents))
	}
	if opts.HasPatents {
		c.and(gtInt("COALESCE(pat.patent_count, 0)", 0))
	}
	if opts.Year > 0 {
		c.and(eqInt("p.year", opts.Year))
	}

	query := fmt.Sprintf(
		`SELECT p.*, COALESCE(pat.patent_count, 0) AS actual_patent_count
FROM %s p
LEFT JOIN (
    SELECT paperid, COUNT(*) AS patent_count
    FROM %s
    GROUP BY paperid
) pat ON p.paperid = pat.paperid%s
ORDER BY actual_patent_count DESC, p.paperid`,
		e.store.ReadParquet(store.TablePapers),
		e.store.ReadParquet(store.TableLinkPatents),
		c.where())

	rows, err := e.store.Run(ctx, query)
	if err != nil {
		return nil, err
	}
	return newResult(rows), nil
}

// Advanced runs the general multi-predicate composition: AND across
// distinct predicate kinds, OR within the field group.
func (e *Executor) Advanced(ctx context.Context, f AdvancedFilters) (*Result, error) {
	var joins string
	var c conditions

	if f.Field != "" || len(f.Fields) > 0 {
		joins += fmt.Sprintf("\nINNER JOIN %s pf ON p.paperid = pf.paperid",
			e.store.ReadParquet(store.TablePaperFields))
		joins += fmt.Sprintf("\nINNER JOIN %s f ON pf.fieldid = f.fieldid",
			e.store.ReadParquet(store.TableFields))

		var group []predicate
		if f.Field != "" {
			group = append(group, containsFold("f.display_name", f.Field))
		}
		if len(f.Fields) > 0 {
			group = append(group, inStrs("f.display_name", f.Fields))
		}
		c.andAny(group...)
	}

	if f.AuthorID != "" {
		joins += fmt.Sprintf("\nINNER JOIN %s paa ON p.paperid = paa.paperid",
			e.store.ReadParquet(store.TableAffiliation))
		c.and(eqStr("paa.authorid", f.AuthorID))
	}

	if f.Year > 0 {
		c.and(eqInt("p.year", f.Year))
	}
	if f.StartYear > 0 {
		c.and(gteInt("p.year", f.StartYear))
	}
	if f.EndYear > 0 {
		c.and(lteInt("p.year", f.EndYear))
	}
	if f.YearRange != nil {
		c.and(gteInt("p.year", f.YearRange[0]))
		c.and(lteInt("p.year", f.YearRange[1]))
	}
	if f.MinCitations != nil {
		c.and(gteInt("p.cited_by_count", *f.MinCitations))
	}
	if f.MaxCitations != nil {
		c.and(lteInt("p.cited_by_count", *f.MaxCitations))
	}
	if f.MinPatents != nil {
		c.and(gteInt("p.patent_count", *f.MinPatents))
	}
	if f.HasPatents {
		c.and(gtInt("p.patent_count", 0))
	}

	query := fmt.Sprintf("SELECT DISTINCT p.*\nFROM %s p%s%s\nORDER BY p.paperid",
		e.store.ReadParquet(store.TablePapers), joins, c.where())
	if f.Limit > 0 {
		query += fmt.Sprintf("\nLIMIT %d", f.Limit)
	}

	rows, err := e.store.Run(ctx, query)
	if err != nil {
		return nil, err
	}
	return newResult(rows), nil
}

// AvailableFields lists every field carrying at least one paper,
// most-published first.
func (e *Executor) AvailableFields(ctx context.Context) (*Result, error) {
	rows, err := e.store.Run(ctx, fmt.Sprintf(
		`SELECT f.fieldid, f.display_name, COUNT(DISTINCT pf.paperid) AS paper_count
FROM %s f
LEFT JOIN %s pf ON f.fieldid = pf.fieldid
GROUP BY f.fieldid, f.display_name
HAVING COUNT(DISTINCT pf.paperid) > 0
ORDER BY paper_count DESC, f.fieldid`,
		e.store.ReadParquet(store.TableFields),
		e.store.ReadParquet(store.TablePaperFields)))
	if err != nil {
		return nil, err
	}
	return newResult(rows), nil
}

// AvailableYears lists every year with its paper count.
func (e *Executor) AvailableYears(ctx context.Context) (*Result, error) {
	rows, err := e.store.Run(ctx, fmt.Sprintf(
		"SELECT year, COUNT(*) AS paper_count FROM %s GROUP BY year ORDER BY year",
		e.store.ReadParquet(store.TablePapers)))
	if err != nil {
		return nil, err
	}
	return newResult(rows), nil
}

// TopAuthors ranks authors by distinct paper count.
func (e *Executor) TopAuthors(ctx context.Context, opts AuthorOptions) (*Result, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = e.cfg.DefaultAuthorLimit
	}

	query := fmt.Sprintf("SELECT paa.authorid, COUNT(DISTINCT paa.paperid) AS paper_count\nFROM %s paa",
		e.store.ReadParquet(store.TableAffiliation))
	if opts.Field != "" {
		query += fmt.Sprintf(
			"\nINNER JOIN %s pf ON paa.paperid = pf.paperid\nINNER JOIN %s f ON pf.fieldid = f.fieldid\nWHERE %s",
			e.store.ReadParquet(store.TablePaperFields),
			e.store.ReadParquet(store.TableFields),
			containsFold("f.display_name", opts.Field).sql)
	}
	query += "\nGROUP BY paa.authorid"
	if opts.MinPapers > 0 {
		query += fmt.Sprintf("\nHAVING COUNT(DISTINCT paa.paperid) >= %d", opts.MinPapers)
	}
	query += fmt.Sprintf("\nORDER BY paper_count DESC, paa.authorid\nLIMIT %d", limit)

	rows, err := e.store.Run(ctx, query)
	if err != nil {
		return nil, err
	}
	return newResult(rows), nil
}

// FieldTrends returns a per-year aggregate (paper count, average
// citations, or average patents), optionally restricted to one field.
func (e *Executor) FieldTrends(ctx context.Context, opts TrendOptions) (*Result, error) {
	var agg string
	switch opts.Metric {
	case MetricCitations:
		agg = "AVG(p.cited_by_count)"
	case MetricPatents:
		agg = "AVG(p.patent_count)"
	default:
		agg = "COUNT(DISTINCT p.paperid)"
	}

	query := fmt.Sprintf("SELECT p.year, %s AS value\nFROM %s p",
		agg, e.store.ReadParquet(store.TablePapers))

	var c conditions
	if opts.Field != "" {
		query += fmt.Sprintf(
			"\nINNER JOIN %s pf ON p.paperid = pf.paperid\nINNER JOIN %s f ON pf.fieldid = f.fieldid",
			e.store.ReadParquet(store.TablePaperFields),
			e.store.ReadParquet(store.TableFields))
		c.and(containsFold("f.display_name", opts.Field))
	}
	if opts.StartYear > 0 {
		c.and(gteInt("p.year", opts.StartYear))
	}
	if opts.EndYear > 0 {
		c.and(lteInt("p.year", opts.EndYear))
	}
	query += c.where() + "\nGROUP BY p.year ORDER BY p.year"

	rows, err := e.store.Run(ctx, query)
	if err != nil {
		return nil, err
	}
	return newResult(rows), nil
}

// CitationPatterns buckets papers into the fixed citation ranges
// (0, 1-10, 11-50, 51-100, 100+) and counts each bucket.
func (e *Executor) CitationPatterns(ctx context.Context, opts PatternOptions) (*Result, error) {
	var c conditions
	if opts.Year > 0 {
		c.and(eqInt("p.year", opts.Year))
	}
	if opts.MinCitations != nil {
		c.and(gteInt("p.cited_by_count", *opts.MinCitations))
	}

	fieldJoin := ""
	if opts.Field != "" {
		fieldJoin = fmt.Sprintf(
			"\nINNER JOIN %s pf ON p.paperid = pf.paperid\nINNER JOIN %s f ON pf.fieldid = f.fieldid",
			e.store.ReadParquet(store.TablePaperFields),
			e.store.ReadParquet(store.TableFields))
		c.and(containsFold("f.display_name", opts.Field))
	}

	query := fmt.Sprintf(
		`SELECT
    CASE
        WHEN p.cited_by_count = 0 THEN '0'
        WHEN p.cited_by_count BETWEEN 1 AND 10 THEN '1-10'
        WHEN p.cited_by_count BETWEEN 11 AND 50 THEN '11-50'
        WHEN p.cited_by_count BETWEEN 51 AND 100 THEN '51-100'
        ELSE '100+'
    END AS citation_range,
    COUNT(*) AS paper_count
FROM %s p%s%s
GROUP BY citation_range
ORDER BY MIN(p.cited_by_count)`,
		e.store.ReadParquet(store.TablePapers), fieldJoin, c.where())

	rows, err := e.store.Run(ctx, query)
	if err != nil {
		return nil, err
	}
	return newResult(rows), nil
}

// PatentDistribution counts papers grouped by exact patent-link count.
func (e *Executor) PatentDistribution(ctx context.Context, opts DistributionOptions) (*Result, error) {
	var inner conditions
	if opts.Year > 0 {
		inner.and(eqInt("year", opts.Year))
	}
	papersQuery := fmt.Sprintf("SELECT paperid FROM %s%s",
		e.store.ReadParquet(store.TablePapers), inner.where())

	fieldJoin := ""
	var c conditions
	if opts.Field != "" {
		fieldJoin = fmt.Sprintf(
			"\nINNER JOIN %s pf ON p.paperid = pf.paperid\nINNER JOIN %s f ON pf.fieldid = f.fieldid",
			e.store.ReadParquet(store.TablePaperFields),
			e.store.ReadParquet(store.TableFields))
		c.and(containsFold("f.display_name", opts.Field))
	}

	query := fmt.Sprintf(
		`WITH filtered_papers AS (%s)
SELECT
    COALESCE(pat.patent_count, 0) AS patent_count,
    COUNT(*) AS paper_count
FROM filtered_papers p
LEFT JOIN (
    SELECT paperid, COUNT(*) AS patent_count
    FROM %s
    GROUP BY paperid
) pat ON p.paperid = pat.paperid%s%s
GROUP BY patent_count
ORDER BY patent_count`,
		papersQuery,
		e.store.ReadParquet(store.TableLinkPatents),
		fieldJoin, c.where())

	rows, err := e.store.Run(ctx, query)
	if err != nil {
		return nil, err
	}
	return newResult(rows), nil
}
