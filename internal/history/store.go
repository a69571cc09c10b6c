package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/zjrosen/rawline/internal/log"
)

// Entry is one persisted history line.
type Entry struct {
	ID        int64
	Session   string
	Line      string
	CreatedAt time.Time
}

// Store persists history lines in a SQLite database.
type Store struct {
	db *sql.DB
}

// MemoryPath opens a throwaway in-memory store.
const MemoryPath = ":memory:"

// OpenStore opens the history database at path, creating its directory and
// applying pending migrations. An existing database is copied to path+".bak"
// before it is migrated.
func OpenStore(path string) (*Store, error) {
	existed := false
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
		if _, err := os.Stat(path); err == nil {
			existed = true
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if err := configure(db, path); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := upgrade(db, path, existed); err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Debug(log.CatHistory, "history store opened", "path", path)
	return &Store{db: db}, nil
}

func configure(db *sql.DB, path string) error {
	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	if path != MemoryPath {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("failed to configure history database (%s): %w", p, err)
		}
	}
	return nil
}

func upgrade(db *sql.DB, path string, existed bool) error {
	src, err := migrations()
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	current, err := schemaVersion(db)
	if err != nil {
		return err
	}
	pending, err := pendingMigrations(src, current)
	if err != nil {
		return fmt.Errorf("failed to list migrations: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	if existed {
		if err := checkpoint(db); err != nil {
			return err
		}
		if err := backupFile(path); err != nil {
			return fmt.Errorf("failed to back up history database: %w", err)
		}
		log.Info(log.CatHistory, "history database backed up", "path", path+".bak")
	}
	return migrate(db, src, pending)
}

// checkpoint folds the write-ahead log into the main file so a plain copy of
// it holds every committed row.
func checkpoint(db *sql.DB) error {
	var busy, walPages, moved int
	if err := db.QueryRow("PRAGMA wal_checkpoint(TRUNCATE)").Scan(&busy, &walPages, &moved); err != nil {
		return fmt.Errorf("failed to checkpoint history database: %w", err)
	}
	if busy != 0 {
		return fmt.Errorf("failed to checkpoint history database: database is busy")
	}
	log.Debug(log.CatHistory, "history wal checkpointed", "pages", walPages, "moved", moved)
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Append stores line under the given session id.
func (s *Store) Append(session, line string) error {
	_, err := s.db.Exec(
		`INSERT INTO history (session, line, created_at) VALUES (?, ?, ?)`,
		session, line, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, most recent first. limit <= 0 returns all.
func (s *Store) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(
		`SELECT id, session, line, created_at FROM history ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var (
			e         Entry
			createdAt int64
		)
		if err := rows.Scan(&e.ID, &e.Session, &e.Line, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan history: %w", err)
		}
		e.CreatedAt = time.Unix(createdAt, 0)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return entries, nil
}

// BySession returns up to limit entries recorded under session, most recent
// first. limit <= 0 returns all.
func (s *Store) BySession(session string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(
		`SELECT id, session, line, created_at FROM history WHERE session = ? ORDER BY id DESC LIMIT ?`,
		session, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	return scanEntries(rows)
}

// Clear deletes every stored line.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM history`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	log.Info(log.CatHistory, "history store cleared")
	return nil
}

// LoadInto pushes up to limit stored lines into l, oldest first, so l ends up
// with the same recency order as the store.
func (s *Store) LoadInto(l *List, limit int) error {
	entries, err := s.Recent(limit)
	if err != nil {
		return err
	}
	for i := len(entries) - 1; i >= 0; i-- {
		l.Push(entries[i].Line)
	}
	log.Debug(log.CatHistory, "history loaded", "entries", len(entries), "kept", l.Len())
	return nil
}
