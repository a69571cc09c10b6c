package history

import (
	"database/sql"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_AppendAndRecent(t *testing.T) {
	s := openTestStore(t)
	session := uuid.NewString()

	require.NoError(t, s.Append(session, "one"))
	require.NoError(t, s.Append(session, "two"))
	require.NoError(t, s.Append(session, "three"))

	entries, err := s.Recent(2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "three", entries[0].Line)
	assert.Equal(t, "two", entries[1].Line)
	assert.Equal(t, session, entries[0].Session)
	assert.False(t, entries[0].CreatedAt.IsZero())

	all, err := s.Recent(0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestStore_Clear(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Append("s", "line"))
	require.NoError(t, s.Clear())

	entries, err := s.Recent(0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStore_LoadInto(t *testing.T) {
	s := openTestStore(t)
	for _, line := range []string{"a", "b", "b", "c"} {
		require.NoError(t, s.Append("s", line))
	}

	l := NewList(0)
	require.NoError(t, s.LoadInto(l, 0))
	assert.Equal(t, []string{"c", "b", "a"}, l.Lines(), "recency kept, consecutive duplicates dropped")

	limited := NewList(0)
	require.NoError(t, s.LoadInto(limited, 2))
	assert.Equal(t, []string{"c", "b"}, limited.Lines())
}

func TestStore_PersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	s, err := OpenStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Append("s", "kept"))
	require.NoError(t, s.Close())

	s, err = OpenStore(path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	entries, err := s.Recent(0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0].Line)
}

func TestStore_BySession(t *testing.T) {
	s := openTestStore(t)
	a, b := uuid.NewString(), uuid.NewString()
	require.NoError(t, s.Append(a, "a1"))
	require.NoError(t, s.Append(b, "b1"))
	require.NoError(t, s.Append(a, "a2"))

	entries, err := s.BySession(a, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a2", entries[0].Line)
	assert.Equal(t, "a1", entries[1].Line)

	entries, err = s.BySession(b, 5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "b1", entries[0].Line)
}

func TestOpenStore_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "history.db")

	s, err := OpenStore(path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	require.True(t, info.IsDir())
	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), info.Mode().Perm())
	}
}

func TestOpenStore_AppliesMigrations(t *testing.T) {
	s := openTestStore(t)

	v, err := schemaVersion(s.db)
	require.NoError(t, err)
	assert.Equal(t, uint(2), v)

	var name string
	err = s.db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='index' AND name='idx_history_session'",
	).Scan(&name)
	require.NoError(t, err, "session index should exist after migrations")
}

func TestOpenStore_WALMode(t *testing.T) {
	s, err := OpenStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	var mode string
	require.NoError(t, s.db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)

	var timeout int
	require.NoError(t, s.db.QueryRow("PRAGMA busy_timeout").Scan(&timeout))
	assert.Equal(t, 5000, timeout)
}

func TestOpenStore_BacksUpBeforeMigrating(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	s, err := OpenStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Append("s", "kept"))
	require.NoError(t, s.Close())

	// Reopening an up to date database makes no backup.
	s, err = OpenStore(path)
	require.NoError(t, err)
	_, err = os.Stat(path + ".bak")
	require.ErrorIs(t, err, os.ErrNotExist)

	// Roll the schema back one version so the next open migrates.
	_, err = s.db.Exec("DROP INDEX idx_history_session")
	require.NoError(t, err)
	_, err = s.db.Exec("PRAGMA user_version = 1")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = OpenStore(path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	info, err := os.Stat(path + ".bak")
	require.NoError(t, err, "backup should exist after migrating")
	assert.Positive(t, info.Size())

	entries, err := s.Recent(0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0].Line)
}

func TestOpenStore_BackupIncludesUncheckpointedWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	// The first handle stays open so its writes sit in the -wal file.
	first, err := OpenStore(path)
	require.NoError(t, err)
	defer func() { _ = first.Close() }()
	require.NoError(t, first.Append("s", "only in wal"))
	_, err = first.db.Exec("DROP INDEX idx_history_session")
	require.NoError(t, err)
	_, err = first.db.Exec("PRAGMA user_version = 1")
	require.NoError(t, err)

	second, err := OpenStore(path)
	require.NoError(t, err)
	require.NoError(t, second.Close())

	bak, err := sql.Open("sqlite3", path+".bak")
	require.NoError(t, err)
	defer func() { _ = bak.Close() }()

	var line string
	require.NoError(t, bak.QueryRow("SELECT line FROM history").Scan(&line))
	assert.Equal(t, "only in wal", line)
}

func TestPendingMigrations(t *testing.T) {
	src, err := migrations()
	require.NoError(t, err)
	defer func() { _ = src.Close() }()

	pending, err := pendingMigrations(src, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2}, pending)

	pending, err = pendingMigrations(src, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{2}, pending)

	pending, err = pendingMigrations(src, 2)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
