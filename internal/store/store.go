// Package store persists memos and display settings in SQLite.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// Driver names registered with database/sql.
const (
	DriverCGO  = "sqlite3" // mattn/go-sqlite3
	DriverPure = "sqlite"  // modernc.org/sqlite
)

// ErrInvalidTabID is returned for tab ids that are not positive integers.
var ErrInvalidTabID = errors.New("invalid tab id")

// Store handles SQLite operations for memos and settings.
type Store struct {
	db     *sql.DB
	logger *slog.Logger

	settingsMu sync.Mutex // serializes settings read-modify-write
}

// Open opens (creating if needed) the database at path with the given
// driver.
func Open(driver, path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	dsn, err := dataSource(driver, path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db, logger: logger}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// dataSource builds the DSN enabling WAL and a busy timeout. The two
// drivers spell pragmas differently.
func dataSource(driver, path string) (string, error) {
	switch driver {
	case DriverCGO:
		return path + "?_busy_timeout=5000&_journal_mode=WAL", nil
	case DriverPure:
		return path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", nil
	default:
		return "", fmt.Errorf("unknown sqlite driver %q", driver)
	}
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) initSchema() error {
	schema := `
CREATE TABLE IF NOT EXISTS memos (
    tab_id INTEGER PRIMARY KEY,
    content TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`
	_, err := s.db.Exec(schema)
	return err
}

// ParseTabID converts a tab id from text.
func ParseTabID(v string) (int, error) {
	id, err := strconv.Atoi(v)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTabID, v)
	}
	return id, nil
}

func checkTabID(tabID int) error {
	if tabID <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTabID, tabID)
	}
	return nil
}

// SaveMemo stores the markup for a tab, replacing what was there.
func (s *Store) SaveMemo(tabID int, content string) error {
	if err := checkTabID(tabID); err != nil {
		return err
	}
	_, err := s.db.Exec(`
		INSERT INTO memos (tab_id, content, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(tab_id) DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at
	`, tabID, content, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save memo %d: %w", tabID, err)
	}
	s.logger.Debug("store: memo saved", "tab", tabID, "bytes", len(content))
	return nil
}

// LoadMemo returns the sanitized markup for a tab, or "" when nothing has
// been saved.
func (s *Store) LoadMemo(tabID int) (string, error) {
	if err := checkTabID(tabID); err != nil {
		return "", err
	}
	var content string
	err := s.db.QueryRow(`SELECT content FROM memos WHERE tab_id = ?`, tabID).Scan(&content)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load memo %d: %w", tabID, err)
	}
	return Sanitize(content), nil
}

// AllMemos returns every stored memo, sanitized, keyed by tab id.
func (s *Store) AllMemos() (map[int]string, error) {
	rows, err := s.db.Query(`SELECT tab_id, content FROM memos ORDER BY tab_id`)
	if err != nil {
		return nil, fmt.Errorf("query memos: %w", err)
	}
	defer rows.Close()

	memos := make(map[int]string)
	for rows.Next() {
		var id int
		var content string
		if err := rows.Scan(&id, &content); err != nil {
			return nil, fmt.Errorf("scan memo: %w", err)
		}
		memos[id] = Sanitize(content)
	}
	return memos, rows.Err()
}

func (s *Store) getKV(key string) (string, bool, error) {
	var v string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return v, true, nil
}

func (s *Store) putKV(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}
