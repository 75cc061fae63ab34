package fetch

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const cacheSchema = `
CREATE TABLE IF NOT EXISTS responses (
	url        TEXT PRIMARY KEY,
	status     INTEGER NOT NULL,
	headers    TEXT NOT NULL,
	body       BLOB NOT NULL,
	fetched_at INTEGER NOT NULL
);
`

// Cache is an on-disk HTTP response cache backed by SQLite
// (modernc.org/sqlite, pure Go, no CGO). Entries older than the
// configured expiry are treated as absent; within a run the cache is
// append-only.
type Cache struct {
	db     *sql.DB
	expiry time.Duration
	now    func() time.Time
}

// OpenCache opens (or creates) a cache database at the given path.
// A zero expiry means entries never expire.
func OpenCache(dbPath string, expiry time.Duration) (*Cache, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}

	// SQLite only supports one concurrent writer; a single connection
	// serializes all access through Go's connection pool.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	if _, err := db.Exec(cacheSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create cache schema: %w", err)
	}

	return &Cache{db: db, expiry: expiry, now: time.Now}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached response for url if one exists and has not
// expired.
func (c *Cache) Get(url string) (*Response, bool) {
	var (
		status    int
		headers   string
		body      []byte
		fetchedAt int64
	)
	row := c.db.QueryRow(
		`SELECT status, headers, body, fetched_at FROM responses WHERE url = ?`, url)
	if err := row.Scan(&status, &headers, &body, &fetchedAt); err != nil {
		return nil, false
	}
	if c.expiry > 0 && c.now().Sub(time.Unix(fetchedAt, 0)) >= c.expiry {
		return nil, false
	}
	var header http.Header
	if err := json.Unmarshal([]byte(headers), &header); err != nil {
		return nil, false
	}
	return &Response{StatusCode: status, Header: header, Body: body}, true
}

// Fresh reports whether a valid cache entry exists for url, without
// generating any network traffic.
func (c *Cache) Fresh(url string) bool {
	_, ok := c.Get(url)
	return ok
}

// Put stores a response for url, replacing any previous entry.
func (c *Cache) Put(url string, resp *Response) error {
	headers, err := json.Marshal(resp.Header)
	if err != nil {
		return err
	}
	body := resp.Body
	if body == nil {
		// redirect responses have no body
		body = []byte{}
	}
	_, err = c.db.Exec(
		`INSERT OR REPLACE INTO responses (url, status, headers, body, fetched_at)
		 VALUES (?, ?, ?, ?, ?)`,
		url, resp.StatusCode, string(headers), body, c.now().Unix())
	return err
}
