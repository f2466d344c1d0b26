// Package buildcache implements the driver's incremental-build cache: a
// digest of a source file mapped to its last generated target source and
// build id, so an unchanged entry file skips re-running the pipeline.
//
// Grounded on the teacher's internal/evaluator/builtins_sql.go (funxy),
// which opens modernc.org/sqlite as the database/sql driver for its Sql*
// builtins; this package reuses that same driver/import shape for a
// concern the teacher exercises as a user-facing builtin rather than
// internal plumbing, repurposed here as the project's own cache store
// (DESIGN.md).
package buildcache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Entry is one cached compilation result.
type Entry struct {
	BuildID   string
	Generated string
}

// Cache wraps a single-table sqlite database keyed by source digest.
type Cache struct {
	db *sql.DB
}

// Open creates (if needed) and opens the cache database at path.
func Open(path string) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	const schema = `CREATE TABLE IF NOT EXISTS build_cache (
		digest TEXT PRIMARY KEY,
		build_id TEXT NOT NULL,
		generated TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error { return c.db.Close() }

// Digest returns the stable cache key for a source file's bytes.
func Digest(src []byte) string {
	sum := sha256.Sum256(src)
	return hex.EncodeToString(sum[:])
}

// Lookup returns the cached entry for digest, if present.
func (c *Cache) Lookup(digest string) (Entry, bool) {
	var e Entry
	row := c.db.QueryRow(`SELECT build_id, generated FROM build_cache WHERE digest = ?`, digest)
	if err := row.Scan(&e.BuildID, &e.Generated); err != nil {
		return Entry{}, false
	}
	return e, true
}

// Store records (or replaces) the cache entry for digest.
func (c *Cache) Store(digest, buildID, generated string) {
	c.db.Exec(`INSERT INTO build_cache (digest, build_id, generated) VALUES (?, ?, ?)
		ON CONFLICT(digest) DO UPDATE SET build_id = excluded.build_id, generated = excluded.generated`,
		digest, buildID, generated)
}
