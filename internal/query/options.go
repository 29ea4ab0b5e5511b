// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

// FieldOptions parameterizes by-field paper counts.
type FieldOptions struct {
	// FieldName filters fields to those whose display name contains the
	// substring, case-insensitively. Empty matches all fields.
	FieldName string

	// Limit caps the number of returned fields; <=0 means no limit.
	Limit int
}

// YearOptions parameterizes by-year paper counts. Year, StartYear/EndYear,
// and Years (lookback from the current year) may be combined; all zero
// values are ignored.
type YearOptions struct {
	Year      int
	StartYear int
	EndYear   int
	Years     int
}

// PaperFilters parameterizes the generic paper listing. Nil pointer
// fields are ignored.
type PaperFilters struct {
	Year         int
	StartYear    int
	EndYear      int
	YearRange    *[2]int
	MinCitations *int
	MaxCitations *int
	MinPatents   *int
	HasPatents   bool
}

// CitationOptions parameterizes the by-citation-count query.
type CitationOptions struct {
	MinCitations *int
	MaxCitations *int
	Year         int

	// Field restricts to papers with a matching field assignment; the
	// required join is grouped on paper identity so multiply-assigned
	// papers are not duplicated.
	Field string
}

// PatentOptions parameterizes the by-patent-count query.
type PatentOptions struct {
	MinPatents *int
	HasPatents bool
	Year       int
}

// AdvancedFilters is the general multi-predicate composition. Distinct
// predicate kinds combine with AND; Field and Fields form a single OR
// group.
type AdvancedFilters struct {
	Field        string
	Fields       []string
	AuthorID     string
	Year         int
	StartYear    int
	EndYear      int
	YearRange    *[2]int
	MinCitations *int
	MaxCitations *int
	MinPatents   *int
	HasPatents   bool
	Limit        int
}

// AuthorOptions parameterizes the top-authors query.
type AuthorOptions struct {
	// Limit caps the number of authors returned (default 10).
	Limit int

	// MinPapers drops authors below the paper-count threshold; <=0 is
	// ignored.
	MinPapers int

	// Field restricts the count to papers in matching fields.
	Field string
}

// TrendMetric selects the per-year aggregate for trend analysis.
type TrendMetric string

const (
	MetricCount     TrendMetric = "count"
	MetricCitations TrendMetric = "citations"
	MetricPatents   TrendMetric = "patents"
)

// TrendOptions parameterizes trend-over-time analysis.
type TrendOptions struct {
	Field     string
	StartYear int
	EndYear   int
	Metric    TrendMetric
}

// PatternOptions parameterizes citation-pattern bucketing.
type PatternOptions struct {
	Year         int
	Field        string
	MinCitations *int
}

// DistributionOptions parameterizes the patent-count distribution.
type DistributionOptions struct {
	Year  int
	Field string
}
