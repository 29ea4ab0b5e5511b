// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package query composes parameterized aggregation queries over the
// columnar store, independent of the filter pipeline's fixed predicate
// set, and derives summary statistics from each result.
package query

import (
	"fmt"
	"strings"
)

// predicate is a single rendered SQL condition. Predicates are combined
// with AND across distinct kinds and OR within a repeated group, so the
// composition is explicit rather than encoded in string order.
type predicate struct {
	sql string
}

func eqStr(col, v string) predicate {
	return predicate{sql: fmt.Sprintf("%s = '%s'", col, escapeSingle(v))}
}

func eqInt(col string, v int) predicate {
	return predicate{sql: fmt.Sprintf("%s = %d", col, v)}
}

func gteInt(col string, v int) predicate {
	return predicate{sql: fmt.Sprintf("%s >= %d", col, v)}
}

func lteInt(col string, v int) predicate {
	return predicate{sql: fmt.Sprintf("%s <= %d", col, v)}
}

func gtInt(col string, v int) predicate {
	return predicate{sql: fmt.Sprintf("%s > %d", col, v)}
}

// containsFold matches col against a case-insensitive substring.
func containsFold(col, substr string) predicate {
	return predicate{sql: fmt.Sprintf("%s ILIKE '%%%s%%'", col, escapeSingle(substr))}
}

// inStrs matches col against any of the given values.
func inStrs(col string, values []string) predicate {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + escapeSingle(v) + "'"
	}
	return predicate{sql: fmt.Sprintf("%s IN (%s)", col, strings.Join(quoted, ", "))}
}

// conditions accumulates predicates for one query's WHERE clause.
type conditions struct {
	groups []string
}

// and adds a predicate that every returned row must satisfy.
func (c *conditions) and(p predicate) {
	c.groups = append(c.groups, p.sql)
}

// andAny adds a group satisfied by any one of its predicates.
func (c *conditions) andAny(ps ...predicate) {
	if len(ps) == 0 {
		return
	}
	if len(ps) == 1 {
		c.and(ps[0])
		return
	}
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = p.sql
	}
	c.groups = append(c.groups, "("+strings.Join(parts, " OR ")+")")
}

// empty reports whether no predicates were added.
func (c *conditions) empty() bool { return len(c.groups) == 0 }

// sql renders the AND-joined condition list without a WHERE keyword.
func (c *conditions) sql() string { return strings.Join(c.groups, " AND ") }

// where renders " WHERE ..." or "" when no predicates were added.
func (c *conditions) where() string {
	if c.empty() {
		return ""
	}
	return " WHERE " + c.sql()
}

func escapeSingle(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
