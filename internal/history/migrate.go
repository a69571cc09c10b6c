package history

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/zjrosen/rawline/internal/log"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// migrations returns the embedded migration source.
func migrations() (source.Driver, error) {
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}
	return src, nil
}

// pendingMigrations lists the migration versions newer than current, in order.
func pendingMigrations(src source.Driver, current uint) ([]uint, error) {
	v, err := src.First()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var pending []uint
	for {
		if v > current {
			pending = append(pending, v)
		}
		v, err = src.Next(v)
		if errors.Is(err, fs.ErrNotExist) {
			return pending, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// schemaVersion reads the applied migration version, kept in user_version.
func schemaVersion(db *sql.DB) (uint, error) {
	var v int64
	if err := db.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return uint(max(v, 0)), nil
}

// migrate applies every pending up migration. Each migration runs in its own
// transaction together with the version bump.
func migrate(db *sql.DB, src source.Driver, pending []uint) error {
	for _, v := range pending {
		r, name, err := src.ReadUp(v)
		if err != nil {
			return fmt.Errorf("failed to read migration %d: %w", v, err)
		}
		body, err := io.ReadAll(r)
		_ = r.Close()
		if err != nil {
			return fmt.Errorf("failed to read migration %d: %w", v, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", v, err)
		}
		if _, err := tx.Exec(string(body)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", v, name, err)
		}
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", v)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", v, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", v, err)
		}
		log.Info(log.CatHistory, "applied migration", "version", v, "name", name)
	}
	return nil
}

// backupFile copies path to path+".bak". A missing or empty file is not
// backed up.
func backupFile(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && info.Size() == 0) {
		return nil
	}
	if err != nil {
		return err
	}

	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	dst, err := os.OpenFile(path+".bak", os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return err
	}
	return dst.Close()
}
