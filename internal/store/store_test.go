// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wz2708/FSU-PhD-Project2/pkg/types"
)

func TestOpenMissingDataDir(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")

	_, err := Open(types.StoreConfig{DataDir: missing}, &strings.Builder{})
	var unavailable *types.StoreUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("err = %v, want StoreUnavailableError", err)
	}
	if unavailable.Path != missing {
		t.Errorf("Path = %q, want %q", unavailable.Path, missing)
	}
}

func TestClassifyMissingFile(t *testing.T) {
	tests := []struct {
		name string
		msg  string
	}{
		{"glob miss", `No files found that match the pattern "data/*.parquet"`},
		{"file miss", "IO Error: No such file or directory"},
		{"io fault", "IO Error: failed to read block"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify("SELECT 1", errors.New(tt.msg))
			var unavailable *types.StoreUnavailableError
			if !errors.As(err, &unavailable) {
				t.Errorf("err = %v, want StoreUnavailableError", err)
			}
		})
	}
}

func TestClassifyQueryFault(t *testing.T) {
	err := classify("SELECT bogus FROM nowhere", errors.New("Binder Error: column bogus not found"))

	var queryErr *types.QueryError
	if !errors.As(err, &queryErr) {
		t.Fatalf("err = %v, want QueryError", err)
	}
	if queryErr.Query != "SELECT bogus FROM nowhere" {
		t.Errorf("Query = %q", queryErr.Query)
	}
	if !strings.Contains(err.Error(), "SELECT bogus FROM nowhere") {
		t.Errorf("error text should carry the query: %s", err.Error())
	}
}

func TestReadParquetNaming(t *testing.T) {
	s := &Store{dataDir: "/corpus", prefix: "sciscinet"}

	want := "read_parquet('/corpus/sciscinet_papers.parquet')"
	if got := s.ReadParquet(TablePapers); got != want {
		t.Errorf("ReadParquet = %q, want %q", got, want)
	}

	if got := s.ReadParquet(TableAffiliation); !strings.Contains(got, "sciscinet_paper_author_affiliation.parquet") {
		t.Errorf("affiliation path = %q", got)
	}
}

func TestEscapeSingle(t *testing.T) {
	if got := escapeSingle("it's"); got != "it''s" {
		t.Errorf("escapeSingle = %q", got)
	}
}
