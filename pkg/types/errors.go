// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// StoreUnavailableError indicates a missing or unreadable backing file.
// Fatal to the operation; not retried automatically.
type StoreUnavailableError struct {
	Path string
	Err  error
}

func (e *StoreUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("store unavailable at %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("store unavailable at %s", e.Path)
}

func (e *StoreUnavailableError) Unwrap() error { return e.Err }

// QueryError indicates a malformed composed query or an engine fault.
// It carries the offending query text for diagnosis; not retried.
type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query execution failed: %v\nquery: %s", e.Err, e.Query)
}

func (e *QueryError) Unwrap() error { return e.Err }

// SchemaError indicates an expected column is absent after a join,
// i.e. a data-contract violation upstream. Fatal.
type SchemaError struct {
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("result missing required %q column", e.Column)
}
