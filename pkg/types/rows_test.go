// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRowsNilSafe(t *testing.T) {
	var r *Rows
	assert.Equal(t, 0, r.Len())
	assert.True(t, r.Empty())
}

func TestColumnIndex(t *testing.T) {
	r := &Rows{Columns: []string{"paperid", "year"}}

	assert.Equal(t, 1, r.ColumnIndex("year"))
	assert.Equal(t, -1, r.ColumnIndex("missing"))
}

func TestRowsAccessorConversions(t *testing.T) {
	r := &Rows{
		Columns: []string{"s", "b", "i32", "i64", "f", "null"},
		Records: [][]any{
			{"P1", true, int32(7), int64(42), 1.5, nil},
			{[]byte("P2"), false, int64(0), uint64(9), float32(2), nil},
		},
	}

	assert.Equal(t, "P1", r.String(0, 0))
	assert.Equal(t, "P2", r.String(1, 0), "string from []byte")
	assert.True(t, r.Bool(0, 1))
	assert.False(t, r.Bool(1, 1))
	assert.Equal(t, 7, r.Int(0, 2))
	assert.Equal(t, 42, r.Int(0, 3))
	assert.Equal(t, 9, r.Int(1, 3), "int from uint64")
	assert.Equal(t, 1.5, r.Float(0, 4))
	assert.Equal(t, 2.0, r.Float(1, 4), "float from float32")

	// NULLs collapse to zero values.
	assert.Equal(t, "", r.String(0, 5))
	assert.Equal(t, 0, r.Int(0, 5))
	assert.Equal(t, 0.0, r.Float(0, 5))
	assert.False(t, r.Bool(0, 5))
}
