// Package sqlite реализует локальное хранилище дневника поверх SQLite (modernc, без cgo).
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"JourFlow/internal/cli/repo"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// JournalStore — локальная БД SQLite: users, posts, images.
type JournalStore struct {
	db  *sql.DB
	now func() time.Time
}

var _ repo.JournalRepository = (*JournalStore)(nil)

// DefaultPath возвращает путь к файлу БД: base или каталог конфига ОС.
func DefaultPath(base string) (string, error) {
	if base == "" {
		cfgDir, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(cfgDir, "JourFlow")
	}
	if err := os.MkdirAll(base, 0o700); err != nil {
		return "", err
	}
	return filepath.Join(base, "journal.sqlite"), nil
}

// Open открывает (и создаёт при необходимости) файл БД и применяет миграции.
func Open(ctx context.Context, path string) (*JournalStore, error) {
	if path == "" {
		return nil, errors.New("empty database path")
	}
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// один писатель: транзакции сериализуются, PRAGMA живут на единственном соединении
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	s := &JournalStore{db: db, now: time.Now}
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate применяет встроенные goose-миграции.
func (s *JournalStore) Migrate(ctx context.Context) error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	goose.SetLogger(goose.NopLogger())
	if err := goose.UpContext(ctx, s.db, "migrations"); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Close закрывает соединение с БД.
func (s *JournalStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SetClock подменяет источник времени (для тестов).
func (s *JournalStore) SetClock(now func() time.Time) { s.now = now }

func (s *JournalStore) stamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}

// placeholders возвращает "?, ?, ?" для n аргументов.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
