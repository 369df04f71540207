// ABOUTME: SQLite-based cache backend for persistent caching and key-value storage
// ABOUTME: Provides a file-based store that survives application restarts

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"newshub-core/core/interfaces"

	_ "github.com/mattn/go-sqlite3"
)

// noExpiry is stored for entries written with TTL 0
const noExpiry = math.MaxInt64

// Client implements the Cache interface using SQLite
type Client struct {
	db       *sql.DB
	filePath string
	logger   Logger
	now      func() time.Time

	stopOnce sync.Once
	stop     chan struct{}
}

// NewSQLiteCache creates a SQLite cache without key auditing
func NewSQLiteCache(filePath string) (*Client, error) {
	return NewSQLiteCacheWithLogger(filePath, nil)
}

// NewSQLiteCacheWithLogger creates a SQLite cache that reports suspicious keys to logger
func NewSQLiteCacheWithLogger(filePath string, logger Logger) (*Client, error) {
	if filePath == "" {
		filePath = "cache.db"
	}

	if filePath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// A single connection keeps :memory: databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to SQLite database: %w", err)
	}

	client := &Client{
		db:       db,
		filePath: filePath,
		logger:   logger,
		now:      time.Now,
		stop:     make(chan struct{}),
	}

	if err := client.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return client, nil
}

func (c *Client) initSchema() error {
	_, err := c.db.Exec(`
		CREATE TABLE IF NOT EXISTS entries (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			expiry INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_entries_expiry ON entries(expiry);
	`)
	return err
}

// Get retrieves a live value
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key, c.logger); err != nil {
		return nil, err
	}

	query, args := getQuery(key, c.now().UnixMilli())

	var value []byte
	err := c.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, interfaces.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get value: %w", err)
	}

	return value, nil
}

// Set stores a value; ttl 0 means it never expires
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ValidateKey(key, c.logger); err != nil {
		return err
	}
	if err := ValidateValue(value); err != nil {
		return err
	}

	expiry := int64(noExpiry)
	if ttl > 0 {
		expiry = c.now().Add(ttl).UnixMilli()
	}

	query, args := setQuery(key, value, expiry)
	if _, err := c.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to set value: %w", err)
	}

	return nil
}

// Delete removes a value
func (c *Client) Delete(ctx context.Context, key string) error {
	if err := ValidateKey(key, c.logger); err != nil {
		return err
	}

	query, args := deleteQuery(key)
	if _, err := c.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete value: %w", err)
	}

	return nil
}

// Keys lists live keys starting with prefix
func (c *Client) Keys(ctx context.Context, prefix string) ([]string, error) {
	query, args := keysQuery(prefix, c.now().UnixMilli())

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Cleanup removes expired entries
func (c *Client) Cleanup(ctx context.Context) error {
	query, args := cleanupQuery(c.now().UnixMilli())
	_, err := c.db.ExecContext(ctx, query, args...)
	return err
}

// StartCleanup runs Cleanup every interval until Close
func (c *Client) StartCleanup(interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				_ = c.Cleanup(context.Background())
			case <-c.stop:
				return
			}
		}
	}()
}

// Close stops the cleanup routine and closes the database
func (c *Client) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	return c.db.Close()
}

// Stats returns cache statistics
func (c *Client) Stats() (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	query, args := countQuery(c.now().UnixMilli())
	var live int
	if err := c.db.QueryRow(query, args...).Scan(&live); err != nil {
		return nil, err
	}
	stats["live_entries"] = live

	var pageCount, pageSize int
	if err := c.db.QueryRow("PRAGMA page_count").Scan(&pageCount); err == nil {
		if err := c.db.QueryRow("PRAGMA page_size").Scan(&pageSize); err == nil {
			stats["db_size_bytes"] = pageCount * pageSize
		}
	}

	stats["file_path"] = c.filePath
	return stats, nil
}
