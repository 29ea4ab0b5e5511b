// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package storetest seeds miniature parquet corpora for store-backed
// tests. Fixture rows are written through the engine itself, so the files
// carry the same schema the adapter expects in production.
package storetest

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wz2708/FSU-PhD-Project2/internal/store"
	"github.com/wz2708/FSU-PhD-Project2/pkg/types"
)

// Paper is one fixture row of the papers table.
type Paper struct {
	ID        string
	Year      int
	DocType   string
	Retracted bool
	CitedBy   int
	Patents   int
}

// Ref is one fixture row of the paperrefs table.
type Ref struct {
	Citing string
	Cited  string
}

// Affiliation is one fixture row of the paper_author_affiliation table.
type Affiliation struct {
	PaperID       string
	AuthorID      string
	InstitutionID string
	Position      string
}

// PaperField is one fixture row of the paperfields table.
type PaperField struct {
	PaperID string
	FieldID string
}

// PatentLink is one fixture row of the link_patents table.
type PatentLink struct {
	PaperID string
	Patent  string
}

// Field is one fixture row of the fields table.
type Field struct {
	ID          string
	DisplayName string
}

// Corpus holds literal rows for every fixture table. Empty slices produce
// empty (but schema-complete) parquet files.
type Corpus struct {
	Papers       []Paper
	Refs         []Ref
	Affiliations []Affiliation
	PaperFields  []PaperField
	PatentLinks  []PatentLink
	Fields       []Field
}

// Seed writes c as sciscinet_*.parquet files in a fresh temp directory and
// returns an open store over it. The store is closed on test cleanup.
func Seed(t *testing.T, c Corpus) *store.Store {
	t.Helper()
	dir := t.TempDir()

	s, err := store.Open(types.StoreConfig{DataDir: dir}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })

	ctx := context.Background()
	write := func(table store.Table, columns, emptyRow string, rows []string) {
		t.Helper()
		sel := fmt.Sprintf("SELECT * FROM (VALUES %s) AS t(%s)",
			strings.Join(rows, ", "), columns)
		if len(rows) == 0 {
			sel = fmt.Sprintf("SELECT * FROM (VALUES %s) AS t(%s) WHERE 1=0",
				emptyRow, columns)
		}
		path := filepath.Join(dir, fmt.Sprintf("sciscinet_%s.parquet", table))
		if err := s.Exec(ctx, fmt.Sprintf(
			"COPY (%s) TO '%s' (FORMAT PARQUET)", sel, path)); err != nil {
			t.Fatalf("seeding %s: %v", table, err)
		}
	}

	var rows []string
	for _, p := range c.Papers {
		rows = append(rows, fmt.Sprintf("('%s', %d, '%s', %t, %d, %d)",
			p.ID, p.Year, p.DocType, p.Retracted, p.CitedBy, p.Patents))
	}
	write(store.TablePapers,
		"paperid, year, doctype, is_retracted, cited_by_count, patent_count",
		"('', 0, '', false, 0, 0)", rows)

	rows = nil
	for _, r := range c.Refs {
		rows = append(rows, fmt.Sprintf("('%s', '%s')", r.Citing, r.Cited))
	}
	write(store.TablePaperRefs, "citing_paperid, cited_paperid", "('', '')", rows)

	rows = nil
	for _, a := range c.Affiliations {
		rows = append(rows, fmt.Sprintf("('%s', '%s', '%s', '%s')",
			a.PaperID, a.AuthorID, a.InstitutionID, a.Position))
	}
	write(store.TableAffiliation,
		"paperid, authorid, institutionid, author_position",
		"('', '', '', '')", rows)

	rows = nil
	for _, pf := range c.PaperFields {
		rows = append(rows, fmt.Sprintf("('%s', '%s')", pf.PaperID, pf.FieldID))
	}
	write(store.TablePaperFields, "paperid, fieldid", "('', '')", rows)

	rows = nil
	for _, lp := range c.PatentLinks {
		rows = append(rows, fmt.Sprintf("('%s', '%s')", lp.PaperID, lp.Patent))
	}
	write(store.TableLinkPatents, "paperid, patent", "('', '')", rows)

	rows = nil
	for _, f := range c.Fields {
		rows = append(rows, fmt.Sprintf("('%s', '%s')", f.ID, f.DisplayName))
	}
	write(store.TableFields, "fieldid, display_name", "('', '')", rows)

	return s
}
