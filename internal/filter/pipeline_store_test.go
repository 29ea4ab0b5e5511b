// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filter

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/wz2708/FSU-PhD-Project2/internal/storetest"
	"github.com/wz2708/FSU-PhD-Project2/pkg/types"
)

// seedFilterCorpus writes a corpus where only P1 survives every fixed
// predicate: P2 is too old, P3 is retracted, P4 is a book, P5 is in the
// wrong field, and P6 has no first author at the institution.
func seedFilterCorpus(t *testing.T) (*storetest.Corpus, int) {
	t.Helper()
	inWindow := time.Now().Year() - 1
	corpus := &storetest.Corpus{
		Papers: []storetest.Paper{
			{ID: "P1", Year: inWindow, DocType: "article", CitedBy: 7, Patents: 1},
			{ID: "P2", Year: inWindow - 20, DocType: "article"},
			{ID: "P3", Year: inWindow, DocType: "article", Retracted: true},
			{ID: "P4", Year: inWindow, DocType: "book"},
			{ID: "P5", Year: inWindow, DocType: "article"},
			{ID: "P6", Year: inWindow, DocType: "article"},
		},
		Affiliations: []storetest.Affiliation{
			{PaperID: "P1", AuthorID: "A1", InstitutionID: "I1", Position: "first"},
			{PaperID: "P2", AuthorID: "A1", InstitutionID: "I1", Position: "first"},
			{PaperID: "P3", AuthorID: "A1", InstitutionID: "I1", Position: "first"},
			{PaperID: "P4", AuthorID: "A1", InstitutionID: "I1", Position: "first"},
			{PaperID: "P5", AuthorID: "A1", InstitutionID: "I1", Position: "first"},
			{PaperID: "P6", AuthorID: "A2", InstitutionID: "I1", Position: "middle"},
		},
		PaperFields: []storetest.PaperField{
			{PaperID: "P1", FieldID: "C1"},
			{PaperID: "P2", FieldID: "C1"},
			{PaperID: "P3", FieldID: "C1"},
			{PaperID: "P4", FieldID: "C1"},
			{PaperID: "P5", FieldID: "C2"},
			{PaperID: "P6", FieldID: "C1"},
		},
		PatentLinks: []storetest.PatentLink{
			{PaperID: "P1", Patent: "US1"},
			{PaperID: "P1", Patent: "US2"},
		},
	}
	return corpus, inWindow
}

func TestFilteredPaperIDsAgainstParquet(t *testing.T) {
	corpus, _ := seedFilterCorpus(t)
	s := storetest.Seed(t, *corpus)

	p, err := New(s, types.FilterConfig{
		InstitutionID: "I1",
		FieldID:       "C1",
		CacheDir:      t.TempDir(),
	}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}

	ids, err := p.FilteredPaperIDs(context.Background(), 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 {
		t.Fatalf("got %d ids, want 1: %v", len(ids), ids)
	}
	if _, ok := ids["P1"]; !ok {
		t.Errorf("missing P1 in %v", ids)
	}
}

func TestFilteredPapersAgainstParquet(t *testing.T) {
	corpus, inWindow := seedFilterCorpus(t)
	s := storetest.Seed(t, *corpus)

	p, err := New(s, types.FilterConfig{
		InstitutionID: "I1",
		FieldID:       "C1",
		CacheDir:      t.TempDir(),
	}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}

	papers, err := p.FilteredPapers(context.Background(), 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(papers) != 1 {
		t.Fatalf("got %d papers, want 1", len(papers))
	}
	got := papers[0]
	if got.ID != "P1" || got.Year != inWindow || got.CitedByCount != 7 {
		t.Errorf("unexpected paper row: %+v", got)
	}
}

func TestPatentCountsAgainstParquet(t *testing.T) {
	corpus, _ := seedFilterCorpus(t)
	s := storetest.Seed(t, *corpus)

	p, err := New(s, types.FilterConfig{
		InstitutionID: "I1",
		FieldID:       "C1",
		CacheDir:      t.TempDir(),
	}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}

	counts, err := p.PatentCounts(context.Background(),
		map[string]struct{}{"P1": {}, "P3": {}})
	if err != nil {
		t.Fatal(err)
	}
	if counts["P1"] != 2 {
		t.Errorf("P1 patent count = %d, want 2", counts["P1"])
	}
	if counts["P3"] != 0 {
		t.Errorf("P3 patent count = %d, want 0", counts["P3"])
	}
}
