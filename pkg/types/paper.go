// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// DocType classifies a paper's document type in the corpus.
type DocType string

const (
	DocTypeArticle DocType = "article"
)

// AuthorPosition is the position of an author on a paper's author list.
type AuthorPosition string

const (
	PositionFirst  AuthorPosition = "first"
	PositionMiddle AuthorPosition = "middle"
	PositionLast   AuthorPosition = "last"
)

// Paper holds the attributes of a single paper row from the corpus.
// Papers are immutable once loaded; the columnar store is the source of
// truth and is never mutated in place.
type Paper struct {
	// ID is the globally unique paper identifier (e.g. an OpenAlex work id).
	ID string `json:"paperid" yaml:"paperid"`

	// Year is the publication year.
	Year int `json:"year" yaml:"year"`

	// DocType is the document type (article, or other values passed through).
	DocType string `json:"doctype" yaml:"doctype"`

	// IsRetracted reports whether the paper has been retracted.
	IsRetracted bool `json:"is_retracted" yaml:"is_retracted"`

	// CitedByCount is the number of citations the paper has received.
	CitedByCount int `json:"cited_by_count" yaml:"cited_by_count"`

	// PatentCount is the number of patents linking to the paper.
	PatentCount int `json:"patent_count" yaml:"patent_count"`
}

// FilterCriteria is the fixed predicate tuple the filter pipeline applies.
// Its serialized form is hashed into the filter signature used as the
// cache-invalidation key for every derived artifact; any change to a field
// produces a different signature and never reuses stale cache data.
type FilterCriteria struct {
	// InstitutionID is the institution the first author must be affiliated with.
	InstitutionID string `json:"institution_id" yaml:"institution_id"`

	// FieldID is the field the paper must be assigned to.
	FieldID string `json:"field_id" yaml:"field_id"`

	// DocType constrains the document type (article).
	DocType DocType `json:"doctype" yaml:"doctype"`

	// ExcludeRetracted excludes retracted papers when true.
	ExcludeRetracted bool `json:"exclude_retracted" yaml:"exclude_retracted"`

	// AuthorPosition constrains which authorship rows count for the
	// institution match (first).
	AuthorPosition AuthorPosition `json:"author_position" yaml:"author_position"`
}

// NodeMetrics holds per-node structural metrics for a built graph.
// Metrics are recomputed whenever the graph is rebuilt and are never
// persisted incrementally.
type NodeMetrics struct {
	// Degree is the direct edge count (in+out for directed graphs).
	Degree int `json:"degree" yaml:"degree"`

	// DegreeCentrality is the degree normalized by n-1.
	DegreeCentrality float64 `json:"degree_centrality" yaml:"degree_centrality"`

	// Importance is the PageRank score for directed graphs or the
	// eigenvector centrality for undirected graphs. All-zero when the
	// underlying iteration failed to converge.
	Importance float64 `json:"importance" yaml:"importance"`

	// Betweenness is the (possibly sampled) betweenness centrality.
	Betweenness float64 `json:"betweenness" yaml:"betweenness"`

	// Clustering is the local clustering coefficient. Zero for every node
	// of a directed graph.
	Clustering float64 `json:"clustering" yaml:"clustering"`
}
