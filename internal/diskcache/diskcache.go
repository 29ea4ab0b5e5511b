// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package diskcache persists derived artifacts as JSON files keyed by a
// filter-signature-tagged name. Reads distinguish a missing file from a
// corrupt one so both paths can converge on the same recomputation logic;
// neither outcome is an error to the caller.
package diskcache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Outcome is the result of a cache read.
type Outcome int

const (
	// Miss means no cache file exists under the given name.
	Miss Outcome = iota

	// Corrupt means a cache file exists but failed to deserialize.
	// Treated as absent; the value is recomputed and rewritten.
	Corrupt

	// Hit means the cache file was read and decoded successfully.
	Hit
)

// Cache is a directory of JSON cache files. The zero value is unusable;
// construct with New.
type Cache struct {
	dir string
}

// New creates the cache directory if needed and returns a Cache over it.
func New(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &Cache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// Path returns the absolute path of the named cache file.
func (c *Cache) Path(name string) string {
	return filepath.Join(c.dir, name)
}

// Read decodes the named cache file into v and reports the outcome.
// Miss and Corrupt leave v untouched or partially decoded; callers must
// only use v on Hit.
func (c *Cache) Read(name string, v any) Outcome {
	data, err := os.ReadFile(c.Path(name))
	if err != nil {
		return Miss
	}
	if err := json.Unmarshal(data, v); err != nil {
		return Corrupt
	}
	return Hit
}

// Write encodes v into the named cache file. Failures are returned so the
// caller can log them, but a failed write must never abort the caller's
// request; the computed value is still valid.
func (c *Cache) Write(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding cache payload %s: %w", name, err)
	}
	if err := os.WriteFile(c.Path(name), data, 0o644); err != nil {
		return fmt.Errorf("writing cache file %s: %w", name, err)
	}
	return nil
}

// Exists reports whether the named cache file is present.
func (c *Cache) Exists(name string) bool {
	_, err := os.Stat(c.Path(name))
	return err == nil
}
