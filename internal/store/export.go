// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ExportSubset extracts the corpus rows touching the given paper ids into
// sample_*.parquet files under outDir, batching id lists to bound statement
// size. References are kept when either endpoint is in the set; the fields
// table is restricted to fields that appear on the extracted papers.
func (s *Store) ExportSubset(ctx context.Context, ids map[string]struct{}, outDir string, w io.Writer) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating sample directory: %w", err)
	}

	sorted := make([]string, 0, len(ids))
	for id := range ids {
		sorted = append(sorted, id)
	}
	sort.Strings(sorted)

	fmt.Fprintf(w, "extracting %d papers to %s\n", len(sorted), outDir)

	steps := []struct {
		table Table
		match string // column predicate template, %s = id list
	}{
		{TablePapers, "paperid IN (%s)"},
		{TablePaperRefs, "citing_paperid IN (%s) OR cited_paperid IN (%s)"},
		{TableAffiliation, "paperid IN (%s)"},
		{TablePaperFields, "paperid IN (%s)"},
		{TableLinkPatents, "paperid IN (%s)"},
	}

	for _, step := range steps {
		if err := s.exportTable(ctx, step.table, step.match, sorted, outDir); err != nil {
			return err
		}
		fmt.Fprintf(w, "saved sample_%s.parquet\n", step.table)
	}

	// Fields referenced by the extracted paper-field rows.
	out := filepath.Join(outDir, fmt.Sprintf("sample_%s.parquet", TableFields))
	stmt := fmt.Sprintf(
		"COPY (SELECT f.* FROM %s f WHERE f.fieldid IN (SELECT DISTINCT fieldid FROM read_parquet('%s'))) TO '%s' (FORMAT PARQUET, COMPRESSION SNAPPY)",
		s.ReadParquet(TableFields),
		escapeSingle(filepath.Join(outDir, fmt.Sprintf("sample_%s.parquet", TablePaperFields))),
		escapeSingle(out),
	)
	if err := s.Exec(ctx, stmt); err != nil {
		return err
	}
	fmt.Fprintf(w, "saved sample_%s.parquet\n", TableFields)

	return nil
}

func (s *Store) exportTable(ctx context.Context, t Table, match string, ids []string, outDir string) error {
	out := filepath.Join(outDir, fmt.Sprintf("sample_%s.parquet", t))

	var parts []string
	for start := 0; start < len(ids); start += exportBatchSize {
		end := start + exportBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		list := quoteList(ids[start:end])
		pred := match
		pred = strings.ReplaceAll(pred, "%s", list)
		parts = append(parts, fmt.Sprintf(
			"SELECT * FROM %s WHERE %s", s.ReadParquet(t), pred))
	}
	if len(parts) == 0 {
		parts = []string{fmt.Sprintf("SELECT * FROM %s WHERE 1=0", s.ReadParquet(t))}
	}

	stmt := fmt.Sprintf(
		"COPY (SELECT DISTINCT * FROM (%s)) TO '%s' (FORMAT PARQUET, COMPRESSION SNAPPY)",
		strings.Join(parts, " UNION ALL "), escapeSingle(out))
	return s.Exec(ctx, stmt)
}

func quoteList(ids []string) string {
	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = "'" + escapeSingle(id) + "'"
	}
	return strings.Join(quoted, ", ")
}
