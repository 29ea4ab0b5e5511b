// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

// Summary statistics are pure functions of a Result's rows: recomputing
// them over the same rows yields the same values regardless of caller.

// FieldStats summarizes a by-field result.
type FieldStats struct {
	TotalFields   int    `json:"total_fields"`
	TotalPapers   int    `json:"total_papers"`
	TopFieldName  string `json:"top_field_name,omitempty"`
	TopFieldCount int    `json:"top_field_count,omitempty"`
}

// ComputeFieldStats derives FieldStats from a PapersByField or
// AvailableFields result.
func ComputeFieldStats(r *Result) FieldStats {
	stats := FieldStats{TotalFields: r.RowCount}
	count := r.Rows.ColumnIndex("paper_count")
	name := r.Rows.ColumnIndex("display_name")
	if count < 0 {
		return stats
	}
	for i := 0; i < r.Rows.Len(); i++ {
		stats.TotalPapers += r.Rows.Int(i, count)
	}
	if r.Rows.Len() > 0 {
		stats.TopFieldCount = r.Rows.Int(0, count)
		if name >= 0 {
			stats.TopFieldName = r.Rows.String(0, name)
		}
	}
	return stats
}

// YearStats summarizes a by-year result.
type YearStats struct {
	TotalYears    int     `json:"total_years"`
	TotalPapers   int     `json:"total_papers"`
	AvgPerYear    float64 `json:"avg_per_year"`
	PeakYear      int     `json:"peak_year,omitempty"`
	PeakYearCount int     `json:"peak_year_count,omitempty"`
}

// ComputeYearStats derives YearStats from a PapersByYear or AvailableYears
// result.
func ComputeYearStats(r *Result) YearStats {
	stats := YearStats{TotalYears: r.RowCount}
	year := r.Rows.ColumnIndex("year")
	count := r.Rows.ColumnIndex("count")
	if count < 0 {
		count = r.Rows.ColumnIndex("paper_count")
	}
	if year < 0 || count < 0 {
		return stats
	}
	for i := 0; i < r.Rows.Len(); i++ {
		n := r.Rows.Int(i, count)
		stats.TotalPapers += n
		if n > stats.PeakYearCount {
			stats.PeakYearCount = n
			stats.PeakYear = r.Rows.Int(i, year)
		}
	}
	if r.RowCount > 0 {
		stats.AvgPerYear = float64(stats.TotalPapers) / float64(r.RowCount)
	}
	return stats
}

// CitationStats summarizes a by-citations result.
type CitationStats struct {
	TotalPapers  int     `json:"total_papers"`
	AvgCitations float64 `json:"avg_citations"`
	MaxCitations int     `json:"max_citations"`
}

// ComputeCitationStats derives CitationStats from a PapersByCitations or
// Papers result.
func ComputeCitationStats(r *Result) CitationStats {
	stats := CitationStats{TotalPapers: r.RowCount}
	col := r.Rows.ColumnIndex("cited_by_count")
	if col < 0 || r.RowCount == 0 {
		return stats
	}
	total := 0
	for i := 0; i < r.Rows.Len(); i++ {
		n := r.Rows.Int(i, col)
		total += n
		if n > stats.MaxCitations {
			stats.MaxCitations = n
		}
	}
	stats.AvgCitations = float64(total) / float64(r.RowCount)
	return stats
}

// PatentStats summarizes a by-patents result.
type PatentStats struct {
	TotalPapers       int     `json:"total_papers"`
	PapersWithPatents int     `json:"papers_with_patents"`
	AvgPatents        float64 `json:"avg_patents"`
}

// ComputePatentStats derives PatentStats from a PapersByPatents result.
func ComputePatentStats(r *Result) PatentStats {
	stats := PatentStats{TotalPapers: r.RowCount}
	col := r.Rows.ColumnIndex("actual_patent_count")
	if col < 0 || r.RowCount == 0 {
		return stats
	}
	total := 0
	for i := 0; i < r.Rows.Len(); i++ {
		n := r.Rows.Int(i, col)
		total += n
		if n > 0 {
			stats.PapersWithPatents++
		}
	}
	stats.AvgPatents = float64(total) / float64(r.RowCount)
	return stats
}

// AuthorStats summarizes a top-authors result.
type AuthorStats struct {
	TotalAuthors    int `json:"total_authors"`
	TopAuthorPapers int `json:"top_author_papers"`
}

// ComputeAuthorStats derives AuthorStats from a TopAuthors result.
func ComputeAuthorStats(r *Result) AuthorStats {
	stats := AuthorStats{TotalAuthors: r.RowCount}
	col := r.Rows.ColumnIndex("paper_count")
	if col >= 0 && r.Rows.Len() > 0 {
		stats.TopAuthorPapers = r.Rows.Int(0, col)
	}
	return stats
}

// TrendStats summarizes a trend-over-time result.
type TrendStats struct {
	TotalYears int         `json:"total_years"`
	Metric     TrendMetric `json:"metric"`
}

// ComputeTrendStats derives TrendStats from a FieldTrends result.
func ComputeTrendStats(r *Result, metric TrendMetric) TrendStats {
	if metric == "" {
		metric = MetricCount
	}
	return TrendStats{TotalYears: r.RowCount, Metric: metric}
}

// PatternStats summarizes a citation-pattern result.
type PatternStats struct {
	TotalPapers int `json:"total_papers"`
}

// ComputePatternStats derives PatternStats from a CitationPatterns result.
func ComputePatternStats(r *Result) PatternStats {
	var stats PatternStats
	col := r.Rows.ColumnIndex("paper_count")
	if col < 0 {
		return stats
	}
	for i := 0; i < r.Rows.Len(); i++ {
		stats.TotalPapers += r.Rows.Int(i, col)
	}
	return stats
}

// DistributionStats summarizes a patent-distribution result.
type DistributionStats struct {
	TotalPapers       int     `json:"total_papers"`
	PapersWithPatents int     `json:"papers_with_patents"`
	AvgPatents        float64 `json:"avg_patents"`
}

// ComputeDistributionStats derives DistributionStats from a
// PatentDistribution result, weighting each bucket by its paper count.
func ComputeDistributionStats(r *Result) DistributionStats {
	var stats DistributionStats
	patents := r.Rows.ColumnIndex("patent_count")
	papers := r.Rows.ColumnIndex("paper_count")
	if patents < 0 || papers < 0 {
		return stats
	}
	weighted := 0
	for i := 0; i < r.Rows.Len(); i++ {
		p := r.Rows.Int(i, patents)
		n := r.Rows.Int(i, papers)
		stats.TotalPapers += n
		if p > 0 {
			stats.PapersWithPatents += n
		}
		weighted += p * n
	}
	if stats.TotalPapers > 0 {
		stats.AvgPatents = float64(weighted) / float64(stats.TotalPapers)
	}
	return stats
}
