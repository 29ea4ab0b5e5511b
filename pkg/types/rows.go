// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Rows is a generic tabular result set returned by the columnar store.
// Records preserve the engine's column and row order.
type Rows struct {
	// Columns lists the result column names in select order.
	Columns []string `json:"columns" yaml:"columns"`

	// Records holds one slice of values per row, aligned with Columns.
	Records [][]any `json:"records" yaml:"records"`
}

// Len returns the number of rows.
func (r *Rows) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Records)
}

// Empty reports whether the result set has no rows.
func (r *Rows) Empty() bool { return r.Len() == 0 }

// ColumnIndex returns the index of the named column, or -1 if absent.
func (r *Rows) ColumnIndex(name string) int {
	for i, c := range r.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// String returns the value at (row, col) as a string, or "" for NULL or
// non-string values.
func (r *Rows) String(row, col int) string {
	if s, ok := r.Records[row][col].(string); ok {
		return s
	}
	if b, ok := r.Records[row][col].([]byte); ok {
		return string(b)
	}
	return ""
}

// Int returns the value at (row, col) as an int, or 0 for NULL and
// non-numeric values. Engine integer widths and decimals all collapse
// to int.
func (r *Rows) Int(row, col int) int {
	return asInt(r.Records[row][col])
}

// Float returns the value at (row, col) as a float64, or 0 for NULL and
// non-numeric values.
func (r *Rows) Float(row, col int) float64 {
	return asFloat(r.Records[row][col])
}

// Bool returns the value at (row, col) as a bool, or false for NULL and
// non-boolean values.
func (r *Rows) Bool(row, col int) bool {
	b, _ := r.Records[row][col].(bool)
	return b
}

func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int8:
		return int(n)
	case int16:
		return int(n)
	case int32:
		return int(n)
	case int64:
		return int(n)
	case uint32:
		return int(n)
	case uint64:
		return int(n)
	case float32:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	}
	return 0
}
