package types

// StoreConfig holds settings for the columnar store adapter.
type StoreConfig struct {
	// DataDir is the directory containing the corpus parquet files.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// Prefix is the table-file name prefix (default "sciscinet"). Set it
	// to "sample" to run against a directory produced by the sample
	// exporter.
	Prefix string `json:"prefix" yaml:"prefix"`

	// MemoryLimit caps the engine's working memory (default "8GB").
	// The cap exists to keep concurrent callers from exhausting host
	// memory, not to implement timeouts.
	MemoryLimit string `json:"memory_limit" yaml:"memory_limit"`

	// Threads is the engine's internal worker-thread count (default 4).
	Threads int `json:"threads" yaml:"threads"`
}

// FilterConfig holds settings for the corpus filter pipeline.
type FilterConfig struct {
	// InstitutionID is the fixed institution predicate
	// (e.g. "I78577930" for Columbia University).
	InstitutionID string `json:"institution_id" yaml:"institution_id"`

	// FieldID is the fixed field predicate
	// (e.g. "C41008148" for Computer Science).
	FieldID string `json:"field_id" yaml:"field_id"`

	// CacheDir is the directory for disk-cached derived artifacts.
	// Files under it are the sole persisted state and are safe to delete
	// to force recomputation.
	CacheDir string `json:"cache_dir" yaml:"cache_dir"`

	// DefaultYears is the default lookback window (default 5).
	DefaultYears int `json:"default_years" yaml:"default_years"`
}

// GraphConfig holds settings for graph construction and analytics.
type GraphConfig struct {
	// MaxCoauthorsPerPaper excludes papers with more qualifying co-authors
	// than this from collaboration pair generation (default 50). Pair
	// generation is quadratic in per-paper author count.
	MaxCoauthorsPerPaper int `json:"max_coauthors_per_paper" yaml:"max_coauthors_per_paper"`

	// BetweennessExactLimit is the node count below which betweenness is
	// computed exactly (default 500).
	BetweennessExactLimit int `json:"betweenness_exact_limit" yaml:"betweenness_exact_limit"`

	// BetweennessSampleSize is the source-sample size for approximate
	// betweenness on large graphs (default 100, capped at n).
	BetweennessSampleSize int `json:"betweenness_sample_size" yaml:"betweenness_sample_size"`

	// Damping is the PageRank damping factor (default 0.85).
	Damping float64 `json:"damping" yaml:"damping"`

	// MaxIterations bounds the power iterations for PageRank and
	// eigenvector centrality (default 100). Non-convergence within the
	// bound yields all-zero scores rather than an error.
	MaxIterations int `json:"max_iterations" yaml:"max_iterations"`

	// Seed seeds betweenness source sampling and community detection.
	Seed int64 `json:"seed" yaml:"seed"`
}

// QueryConfig holds settings for the ad-hoc query layer.
type QueryConfig struct {
	// DefaultAuthorLimit is the default result limit for top-author
	// queries (default 10).
	DefaultAuthorLimit int `json:"default_author_limit" yaml:"default_author_limit"`
}

// Config is the root configuration for the engine.
type Config struct {
	Store  StoreConfig  `json:"store" yaml:"store"`
	Filter FilterConfig `json:"filter" yaml:"filter"`
	Graph  GraphConfig  `json:"graph" yaml:"graph"`
	Query  QueryConfig  `json:"query" yaml:"query"`
}
