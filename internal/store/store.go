// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store opens an embedded DuckDB instance over a directory of
// parquet corpus files and exposes a run-query, get-rows primitive to the
// filter, graph, and ad-hoc query layers.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/wz2708/FSU-PhD-Project2/pkg/types"
)

// Table names a corpus parquet table.
type Table string

const (
	TablePapers      Table = "papers"
	TablePaperRefs   Table = "paperrefs"
	TableAffiliation Table = "paper_author_affiliation"
	TablePaperFields Table = "paperfields"
	TableLinkPatents Table = "link_patents"
	TableFields      Table = "fields"
)

// allTables lists every corpus table; link_patents and fields are optional.
var allTables = []Table{
	TablePapers, TablePaperRefs, TableAffiliation,
	TablePaperFields, TableLinkPatents, TableFields,
}

const (
	defaultPrefix      = "sciscinet"
	defaultMemoryLimit = "8GB"
	defaultThreads     = 4

	// exportBatchSize bounds IN-list length when extracting subsets.
	exportBatchSize = 10000
)

// Store is the columnar store adapter. A single query is spread across the
// engine's fixed worker-thread count internally, but callers see synchronous
// call-in, result-out semantics. The memory and thread caps bound worst-case
// resource use per query; cancellation mid-query is not supported.
type Store struct {
	db      *sql.DB
	dataDir string
	prefix  string
}

// Open verifies the data directory, opens an in-memory DuckDB instance,
// and applies the memory and thread caps. Missing optional table files
// produce a warning on w, not an error.
func Open(cfg types.StoreConfig, w io.Writer) (*Store, error) {
	if _, err := os.Stat(cfg.DataDir); err != nil {
		return nil, &types.StoreUnavailableError{Path: cfg.DataDir, Err: err}
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("opening duckdb: %w", err)
	}
	// Temp tables from RegisterIDs are session-scoped; a pooled second
	// connection would not see them.
	db.SetMaxOpenConns(1)

	memoryLimit := cfg.MemoryLimit
	if memoryLimit == "" {
		memoryLimit = defaultMemoryLimit
	}
	threads := cfg.Threads
	if threads <= 0 {
		threads = defaultThreads
	}

	settings := []string{
		fmt.Sprintf("SET memory_limit='%s'", memoryLimit),
		fmt.Sprintf("SET threads=%d", threads),
		"SET preserve_insertion_order=false",
	}
	for _, stmt := range settings {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying engine setting %q: %w", stmt, err)
		}
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = defaultPrefix
	}
	s := &Store{db: db, dataDir: cfg.DataDir, prefix: prefix}

	for _, t := range allTables {
		if _, err := os.Stat(s.tablePath(t)); err != nil {
			fmt.Fprintf(w, "warning: data file not found: %s\n", s.tablePath(t))
		}
	}

	return s, nil
}

// Close releases the engine connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DataDir returns the corpus directory the adapter was opened against.
func (s *Store) DataDir() string { return s.dataDir }

func (s *Store) tablePath(t Table) string {
	return filepath.Join(s.dataDir, fmt.Sprintf("%s_%s.parquet", s.prefix, t))
}

// ReadParquet returns the read_parquet() source fragment for a corpus table,
// for interpolation into composed query text.
func (s *Store) ReadParquet(t Table) string {
	return fmt.Sprintf("read_parquet('%s')", escapeSingle(s.tablePath(t)))
}

// Run executes query and scans the full result set into rows. Engine faults
// referencing missing files surface as StoreUnavailableError; everything
// else surfaces as QueryError carrying the query text.
func (s *Store) Run(ctx context.Context, query string) (*types.Rows, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, classify(query, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, classify(query, err)
	}

	out := &types.Rows{Columns: cols}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, classify(query, err)
		}
		out.Records = append(out.Records, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(query, err)
	}
	return out, nil
}

// Exec executes a statement with no result set (SET, COPY, CREATE, DROP).
func (s *Store) Exec(ctx context.Context, stmt string) error {
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return classify(stmt, err)
	}
	return nil
}

// RegisterIDs materializes ids as a single-column temporary table named
// name(paperid VARCHAR) for use as a join target. The caller drops it with
// Drop when done.
func (s *Store) RegisterIDs(ctx context.Context, name string, ids []string) error {
	if err := s.Exec(ctx, fmt.Sprintf(
		"CREATE OR REPLACE TEMP TABLE %s (paperid VARCHAR)", name)); err != nil {
		return err
	}

	sorted := make([]string, 0, len(ids))
	sorted = append(sorted, ids...)
	sort.Strings(sorted)

	for start := 0; start < len(sorted); start += exportBatchSize {
		end := start + exportBatchSize
		if end > len(sorted) {
			end = len(sorted)
		}
		var b strings.Builder
		fmt.Fprintf(&b, "INSERT INTO %s VALUES ", name)
		for i, id := range sorted[start:end] {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "('%s')", escapeSingle(id))
		}
		if err := s.Exec(ctx, b.String()); err != nil {
			return err
		}
	}
	return nil
}

// Drop removes a temporary table registered with RegisterIDs.
func (s *Store) Drop(ctx context.Context, name string) error {
	return s.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", name))
}

func classify(query string, err error) error {
	msg := err.Error()
	if strings.Contains(msg, "No files found") ||
		strings.Contains(msg, "No such file") ||
		strings.Contains(msg, "IO Error") {
		return &types.StoreUnavailableError{Path: "", Err: err}
	}
	return &types.QueryError{Query: query, Err: err}
}

// escapeSingle doubles single quotes for inclusion in SQL string literals.
func escapeSingle(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
