// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/wz2708/FSU-PhD-Project2/internal/store"
	"github.com/wz2708/FSU-PhD-Project2/pkg/types"
)

// fakeStore returns canned rows and records the last composed query so
// tests can assert the predicate composition.
type fakeStore struct {
	rows *types.Rows
	last string
}

func (f *fakeStore) Run(_ context.Context, query string) (*types.Rows, error) {
	f.last = query
	if f.rows == nil {
		return &types.Rows{}, nil
	}
	return f.rows, nil
}

func (f *fakeStore) ReadParquet(t store.Table) string {
	return fmt.Sprintf("read_parquet('test_%s.parquet')", t)
}

func executorSetup(rows *types.Rows) (*Executor, *fakeStore) {
	f := &fakeStore{rows: rows}
	return NewExecutor(f, types.QueryConfig{}), f
}

// --- composition tests ---

func TestPapersByFieldComposesNameMatch(t *testing.T) {
	e, f := executorSetup(nil)

	_, err := e.PapersByField(context.Background(), FieldOptions{FieldName: "Machine Learning", Limit: 5})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(f.last, "f.display_name ILIKE '%Machine Learning%'") {
		t.Errorf("missing case-insensitive name match:\n%s", f.last)
	}
	if !strings.Contains(f.last, "LIMIT 5") {
		t.Errorf("missing limit:\n%s", f.last)
	}
	if !strings.Contains(f.last, "COUNT(DISTINCT pf.paperid)") {
		t.Errorf("missing distinct paper count:\n%s", f.last)
	}
}

func TestPapersByYearLookbackWindow(t *testing.T) {
	e, f := executorSetup(nil)

	_, err := e.PapersByYear(context.Background(), YearOptions{Years: 3})
	if err != nil {
		t.Fatal(err)
	}
	// The lookback renders as a concrete lower bound against the current
	// year; exact value depends on the clock, so only the shape is checked.
	if !strings.Contains(f.last, "year >= ") {
		t.Errorf("missing lookback bound:\n%s", f.last)
	}
	if !strings.Contains(f.last, "GROUP BY year") {
		t.Errorf("missing year grouping:\n%s", f.last)
	}
}

func TestPapersByCitationsDeduplicatesFieldJoin(t *testing.T) {
	e, f := executorSetup(nil)

	min := 10
	_, err := e.PapersByCitations(context.Background(), CitationOptions{
		MinCitations: &min,
		Field:        "Computer",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(f.last, "p.cited_by_count >= 10") {
		t.Errorf("missing citation bound:\n%s", f.last)
	}
	// Papers with several matching field rows must collapse to one row.
	if !strings.Contains(f.last, "GROUP BY p.paperid") {
		t.Errorf("missing paper-identity grouping:\n%s", f.last)
	}
}

func TestPapersByPatentsCountsFromLinkTable(t *testing.T) {
	e, f := executorSetup(nil)

	_, err := e.PapersByPatents(context.Background(), PatentOptions{HasPatents: true})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(f.last, "COALESCE(pat.patent_count, 0) > 0") {
		t.Errorf("missing has-patents predicate:\n%s", f.last)
	}
	if !strings.Contains(f.last, "test_link_patents.parquet") {
		t.Errorf("patent count should come from the link table:\n%s", f.last)
	}
}

func TestAdvancedComposesAndOfGroups(t *testing.T) {
	e, f := executorSetup(nil)

	min := 10
	_, err := e.Advanced(context.Background(), AdvancedFilters{
		Field:        "AI",
		Fields:       []string{"Machine learning"},
		AuthorID:     "A1",
		Year:         2022,
		MinCitations: &min,
		Limit:        100,
	})
	if err != nil {
		t.Fatal(err)
	}

	// Field name and field list form one OR group.
	if !strings.Contains(f.last, "(f.display_name ILIKE '%AI%' OR f.display_name IN ('Machine learning'))") {
		t.Errorf("field predicates should form an OR group:\n%s", f.last)
	}
	// Distinct predicate kinds are AND-composed.
	for _, frag := range []string{
		"paa.authorid = 'A1'",
		"p.year = 2022",
		"p.cited_by_count >= 10",
		"LIMIT 100",
		"SELECT DISTINCT p.*",
	} {
		if !strings.Contains(f.last, frag) {
			t.Errorf("missing %q:\n%s", frag, f.last)
		}
	}
}

func TestAdvancedNoFiltersHasNoWhere(t *testing.T) {
	e, f := executorSetup(nil)

	if _, err := e.Advanced(context.Background(), AdvancedFilters{}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(f.last, "WHERE") {
		t.Errorf("unconstrained query should have no WHERE:\n%s", f.last)
	}
}

func TestTopAuthorsDefaultLimit(t *testing.T) {
	e, f := executorSetup(nil)

	if _, err := e.TopAuthors(context.Background(), AuthorOptions{}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(f.last, "LIMIT 10") {
		t.Errorf("missing default author limit:\n%s", f.last)
	}
}

func TestTopAuthorsMinPapersRendersHaving(t *testing.T) {
	e, f := executorSetup(nil)

	if _, err := e.TopAuthors(context.Background(), AuthorOptions{MinPapers: 3}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(f.last, "HAVING COUNT(DISTINCT paa.paperid) >= 3") {
		t.Errorf("missing paper-count threshold:\n%s", f.last)
	}
}

func TestFieldTrendsMetricSelection(t *testing.T) {
	tests := []struct {
		metric TrendMetric
		want   string
	}{
		{MetricCount, "COUNT(DISTINCT p.paperid)"},
		{MetricCitations, "AVG(p.cited_by_count)"},
		{MetricPatents, "AVG(p.patent_count)"},
	}

	for _, tt := range tests {
		t.Run(string(tt.metric), func(t *testing.T) {
			e, f := executorSetup(nil)
			if _, err := e.FieldTrends(context.Background(), TrendOptions{Metric: tt.metric}); err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(f.last, tt.want) {
				t.Errorf("missing %q:\n%s", tt.want, f.last)
			}
		})
	}
}

func TestCitationPatternsBuckets(t *testing.T) {
	e, f := executorSetup(nil)

	if _, err := e.CitationPatterns(context.Background(), PatternOptions{}); err != nil {
		t.Fatal(err)
	}
	for _, bucket := range []string{"'0'", "'1-10'", "'11-50'", "'51-100'", "'100+'"} {
		if !strings.Contains(f.last, bucket) {
			t.Errorf("missing bucket %s:\n%s", bucket, f.last)
		}
	}
	if !strings.Contains(f.last, "ORDER BY MIN(p.cited_by_count)") {
		t.Errorf("buckets should order by citation floor:\n%s", f.last)
	}
}

func TestPatentDistributionRestrictsYearInCTE(t *testing.T) {
	e, f := executorSetup(nil)

	if _, err := e.PatentDistribution(context.Background(), DistributionOptions{Year: 2022}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(f.last, "WITH filtered_papers AS (SELECT paperid FROM") {
		t.Errorf("missing paper CTE:\n%s", f.last)
	}
	if !strings.Contains(f.last, "year = 2022") {
		t.Errorf("missing year restriction:\n%s", f.last)
	}
}

// --- result tests ---

func TestPapersByFieldResultAndStats(t *testing.T) {
	rows := &types.Rows{
		Columns: []string{"fieldid", "display_name", "paper_count"},
		Records: [][]any{
			{"C1", "Machine learning", int64(2)},
		},
	}
	e, _ := executorSetup(rows)

	result, err := e.PapersByField(context.Background(), FieldOptions{FieldName: "Machine"})
	if err != nil {
		t.Fatal(err)
	}
	if result.RowCount != 1 {
		t.Errorf("RowCount = %d, want 1", result.RowCount)
	}

	stats := ComputeFieldStats(result)
	if stats.TopFieldName != "Machine learning" || stats.TopFieldCount != 2 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestEmptyResultIsNotAnError(t *testing.T) {
	e, _ := executorSetup(&types.Rows{Columns: []string{"paperid"}})

	result, err := e.Advanced(context.Background(), AdvancedFilters{Field: "Underwater basket weaving"})
	if err != nil {
		t.Fatal(err)
	}
	if result.RowCount != 0 {
		t.Errorf("RowCount = %d, want 0", result.RowCount)
	}
}
