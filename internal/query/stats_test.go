// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"testing"

	"github.com/wz2708/FSU-PhD-Project2/pkg/types"
)

func result(columns []string, records ...[]any) *Result {
	return newResult(&types.Rows{Columns: columns, Records: records})
}

func TestComputeFieldStats(t *testing.T) {
	r := result(
		[]string{"fieldid", "display_name", "paper_count"},
		[]any{"C41008148", "Computer science", int64(120)},
		[]any{"C71924100", "Medicine", int64(30)},
	)

	stats := ComputeFieldStats(r)
	if stats.TotalFields != 2 {
		t.Errorf("TotalFields = %d, want 2", stats.TotalFields)
	}
	if stats.TotalPapers != 150 {
		t.Errorf("TotalPapers = %d, want 150", stats.TotalPapers)
	}
	if stats.TopFieldName != "Computer science" || stats.TopFieldCount != 120 {
		t.Errorf("top field = %q/%d", stats.TopFieldName, stats.TopFieldCount)
	}
}

func TestComputeYearStats(t *testing.T) {
	r := result(
		[]string{"year", "count"},
		[]any{int64(2021), int64(10)},
		[]any{int64(2022), int64(30)},
		[]any{int64(2023), int64(20)},
	)

	stats := ComputeYearStats(r)
	if stats.TotalYears != 3 || stats.TotalPapers != 60 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.AvgPerYear != 20 {
		t.Errorf("AvgPerYear = %f, want 20", stats.AvgPerYear)
	}
	if stats.PeakYear != 2022 || stats.PeakYearCount != 30 {
		t.Errorf("peak = %d/%d, want 2022/30", stats.PeakYear, stats.PeakYearCount)
	}
}

func TestComputeYearStatsAcceptsPaperCountColumn(t *testing.T) {
	r := result(
		[]string{"year", "paper_count"},
		[]any{int64(2021), int64(5)},
	)
	if got := ComputeYearStats(r).TotalPapers; got != 5 {
		t.Errorf("TotalPapers = %d, want 5", got)
	}
}

func TestComputeCitationStats(t *testing.T) {
	r := result(
		[]string{"paperid", "cited_by_count"},
		[]any{"P1", int64(15)},
		[]any{"P2", int64(5)},
	)

	stats := ComputeCitationStats(r)
	if stats.TotalPapers != 2 || stats.MaxCitations != 15 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.AvgCitations != 10 {
		t.Errorf("AvgCitations = %f, want 10", stats.AvgCitations)
	}
}

func TestComputePatentStats(t *testing.T) {
	r := result(
		[]string{"paperid", "actual_patent_count"},
		[]any{"P1", int64(4)},
		[]any{"P2", int64(0)},
	)

	stats := ComputePatentStats(r)
	if stats.TotalPapers != 2 || stats.PapersWithPatents != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.AvgPatents != 2 {
		t.Errorf("AvgPatents = %f, want 2", stats.AvgPatents)
	}
}

func TestComputeAuthorStats(t *testing.T) {
	r := result(
		[]string{"authorid", "paper_count"},
		[]any{"A1", int64(12)},
		[]any{"A2", int64(7)},
	)

	stats := ComputeAuthorStats(r)
	if stats.TotalAuthors != 2 || stats.TopAuthorPapers != 12 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestComputeTrendStatsDefaultsMetric(t *testing.T) {
	r := result([]string{"year", "value"}, []any{int64(2021), int64(3)})

	stats := ComputeTrendStats(r, "")
	if stats.Metric != MetricCount {
		t.Errorf("Metric = %q, want count", stats.Metric)
	}
	if stats.TotalYears != 1 {
		t.Errorf("TotalYears = %d, want 1", stats.TotalYears)
	}
}

func TestComputePatternStats(t *testing.T) {
	r := result(
		[]string{"citation_range", "paper_count"},
		[]any{"0", int64(10)},
		[]any{"1-10", int64(25)},
		[]any{"100+", int64(2)},
	)

	if got := ComputePatternStats(r).TotalPapers; got != 37 {
		t.Errorf("TotalPapers = %d, want 37", got)
	}
}

func TestComputeDistributionStats(t *testing.T) {
	r := result(
		[]string{"patent_count", "paper_count"},
		[]any{int64(0), int64(80)},
		[]any{int64(1), int64(15)},
		[]any{int64(3), int64(5)},
	)

	stats := ComputeDistributionStats(r)
	if stats.TotalPapers != 100 || stats.PapersWithPatents != 20 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.AvgPatents != 0.3 {
		t.Errorf("AvgPatents = %f, want 0.3", stats.AvgPatents)
	}
}

func TestStatsEmptyResult(t *testing.T) {
	r := result([]string{"paperid", "cited_by_count"})

	if got := ComputeCitationStats(r); got.TotalPapers != 0 || got.AvgCitations != 0 {
		t.Errorf("stats = %+v, want zero values", got)
	}
}
