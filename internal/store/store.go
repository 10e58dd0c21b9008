// Package store provides SQLite persistence for Sentinel.
package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sentinelai/sentinel/internal/feeds"
)

// Store handles SQLite persistence. NOT an interface - concrete type.
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Item is a persisted news row. Analysis and Category are empty until an
// analysis succeeds; the link uniqueness constraint is the sole dedup gate.
type Item struct {
	ID        int64
	Title     string
	Link      string
	Published string
	Source    string
	Analysis  string
	Category  string
	CreatedAt time.Time
}

// Open creates a new Store at the given database path.
// Uses WAL mode for file-based databases; ":memory:" works for tests.
func Open(dbPath string) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		// Shared cache so every pooled connection sees the same database
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS news (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		link TEXT NOT NULL UNIQUE,
		published TEXT,
		source TEXT NOT NULL,
		ai_analysis TEXT,
		category TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_news_created ON news(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_news_source ON news(source);

	CREATE TABLE IF NOT EXISTS sources (
		name TEXT PRIMARY KEY,
		last_fetched_at DATETIME,
		item_count INTEGER DEFAULT 0,
		error_count INTEGER DEFAULT 0,
		last_error TEXT
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Insert stores a feed item with no analysis yet. Returns the new row id and
// true when the row is new; a duplicate link is silently ignored via
// INSERT OR IGNORE, which is the authoritative race-proof dedup gate
// (no pre-check).
func (s *Store) Insert(item feeds.Item) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.Exec(`
		INSERT OR IGNORE INTO news (title, link, published, source)
		VALUES (?, ?, ?, ?)
	`, item.Title, item.Link, item.Published, item.Source)
	if err != nil {
		return 0, false, fmt.Errorf("insert item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, false, err
	}
	if affected == 0 {
		return 0, false, nil
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// UpdateAnalysis sets the rendered analysis text and category for a row.
func (s *Store) UpdateAnalysis(id int64, analysis, category string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("UPDATE news SET ai_analysis = ?, category = ? WHERE id = ?",
		analysis, category, id)
	if err != nil {
		return fmt.Errorf("update analysis: %w", err)
	}
	return nil
}

// pendingPredicate matches rows without a usable analysis: never analyzed,
// or carrying an error-tagged placeholder written by earlier versions.
const pendingPredicate = "(ai_analysis IS NULL OR ai_analysis = '' OR ai_analysis LIKE 'ERROR:%')"

// PendingAnalysis returns up to limit items awaiting analysis, oldest first
// so the backlog drains in arrival order.
func (s *Store) PendingAnalysis(limit int) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, title, link, published, source, ai_analysis, category, created_at
		FROM news
		WHERE `+pendingPredicate+`
		ORDER BY created_at ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanItems(rows)
}

// PendingCount returns the total number of items awaiting analysis.
func (s *Store) PendingCount() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM news WHERE " + pendingPredicate).Scan(&count)
	return count, err
}

// Recent returns the newest items for observability.
func (s *Store) Recent(limit int) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, title, link, published, source, ai_analysis, category, created_at
		FROM news
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanItems(rows)
}

// CountBySource returns per-source item counts.
func (s *Store) CountBySource() (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT source, COUNT(*) FROM news GROUP BY source")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var source string
		var count int
		if err := rows.Scan(&source, &count); err != nil {
			return nil, err
		}
		counts[source] = count
	}
	return counts, rows.Err()
}

// UpdateSourceStatus records the outcome of a fetch for one source.
// A non-empty lastError increments the consecutive error counter; success
// resets it.
func (s *Store) UpdateSourceStatus(name string, itemCount int, lastError string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO sources (name, last_fetched_at, item_count, last_error, error_count)
		VALUES (?, ?, ?, ?, CASE WHEN ? != '' THEN 1 ELSE 0 END)
		ON CONFLICT(name) DO UPDATE SET
			last_fetched_at = excluded.last_fetched_at,
			item_count = excluded.item_count,
			last_error = excluded.last_error,
			error_count = CASE WHEN excluded.last_error != '' THEN error_count + 1 ELSE 0 END
	`, name, time.Now(), itemCount, lastError, lastError)
	return err
}

func scanItems(rows *sql.Rows) ([]Item, error) {
	var items []Item
	for rows.Next() {
		var item Item
		var published, analysis, category sql.NullString
		err := rows.Scan(
			&item.ID,
			&item.Title,
			&item.Link,
			&published,
			&item.Source,
			&analysis,
			&category,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		item.Published = published.String
		item.Analysis = analysis.String
		item.Category = category.String
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
