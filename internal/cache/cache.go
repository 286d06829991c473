// Package cache provides a SQLite-backed cache for GitHub lookups.
// Commit-SHA search results and pull request bodies rarely change once a
// pull request is merged, so results are kept for a week and reused
// across runs. The cache sits in front of the transport only; the
// changelog engine itself stays stateless.
package cache

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// TTL is how long a cached lookup stays valid.
const TTL = 7 * 24 * time.Hour

// DefaultPath returns the cache database location, ~/.relnotes/cache.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".relnotes", "cache.db"), nil
}

// Cache wraps the SQLite database holding GitHub lookup results.
type Cache struct {
	db  *sql.DB
	ttl time.Duration
}

// Open opens (and if needed creates) the cache database at path,
// creating parent directories and tables as required.
func Open(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS sha_search_cache (
			repo_owner TEXT,
			repo_name TEXT,
			sha TEXT,
			pr_number INTEGER,
			is_pull_request BOOLEAN,
			fetched_at TIMESTAMP,
			PRIMARY KEY (repo_owner, repo_name, sha)
		)
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS pr_body_cache (
			repo_owner TEXT,
			repo_name TEXT,
			pr_number INTEGER,
			body TEXT,
			fetched_at TIMESTAMP,
			PRIMARY KEY (repo_owner, repo_name, pr_number)
		)
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Cache{db: db, ttl: TTL}, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// SHASearch returns a cached SHA search result. found is false on a
// cache miss or when the entry has expired.
func (c *Cache) SHASearch(owner, repo, sha string) (number int, isPullRequest bool, found bool, err error) {
	var fetchedAt time.Time
	err = c.db.QueryRow(
		"SELECT pr_number, is_pull_request, fetched_at FROM sha_search_cache WHERE repo_owner = ? AND repo_name = ? AND sha = ?",
		owner, repo, sha,
	).Scan(&number, &isPullRequest, &fetchedAt)

	if err == sql.ErrNoRows {
		return 0, false, false, nil
	}
	if err != nil {
		return 0, false, false, err
	}
	if time.Since(fetchedAt) > c.ttl {
		return 0, false, false, nil
	}
	return number, isPullRequest, true, nil
}

// StoreSHASearch stores a SHA search result. Negative results (no pull
// request for the commit) are cached too so that unindexed commits do
// not trigger a search on every run.
func (c *Cache) StoreSHASearch(owner, repo, sha string, number int, isPullRequest bool) error {
	_, err := c.db.Exec(
		"INSERT OR REPLACE INTO sha_search_cache (repo_owner, repo_name, sha, pr_number, is_pull_request, fetched_at) VALUES (?, ?, ?, ?, ?, ?)",
		owner, repo, sha, number, isPullRequest, time.Now(),
	)
	return err
}

// PRBody returns a cached pull request body. found is false on a cache
// miss or when the entry has expired.
func (c *Cache) PRBody(owner, repo string, number int) (body string, found bool, err error) {
	var fetchedAt time.Time
	err = c.db.QueryRow(
		"SELECT body, fetched_at FROM pr_body_cache WHERE repo_owner = ? AND repo_name = ? AND pr_number = ?",
		owner, repo, number,
	).Scan(&body, &fetchedAt)

	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if time.Since(fetchedAt) > c.ttl {
		return "", false, nil
	}
	return body, true, nil
}

// StorePRBody stores a pull request body.
func (c *Cache) StorePRBody(owner, repo string, number int, body string) error {
	_, err := c.db.Exec(
		"INSERT OR REPLACE INTO pr_body_cache (repo_owner, repo_name, pr_number, body, fetched_at) VALUES (?, ?, ?, ?, ?)",
		owner, repo, number, body, time.Now(),
	)
	return err
}

// Clear drops all cached entries, keeping the schema.
func (c *Cache) Clear() error {
	if _, err := c.db.Exec("DELETE FROM sha_search_cache"); err != nil {
		return err
	}
	_, err := c.db.Exec("DELETE FROM pr_body_cache")
	return err
}

// setTTL overrides the entry lifetime, for expiry tests.
func (c *Cache) setTTL(ttl time.Duration) {
	c.ttl = ttl
}
