// Package persistence provides the durable cross-run translation
// memory. Entries are keyed by language pair and source text, so a
// restarted run only pays the API for values it has never seen.
package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS translations (
	source_lang TEXT NOT NULL,
	target_lang TEXT NOT NULL,
	source_text TEXT NOT NULL,
	translated_text TEXT NOT NULL,
	updated_at DATETIME NOT NULL,
	PRIMARY KEY (source_lang, target_lang, source_text)
);`

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &SQLiteStore{db: db}
	if err := store.init(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA journal_mode = WAL;"); err != nil {
		return fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "PRAGMA busy_timeout = 5000;"); err != nil {
		return fmt.Errorf("set busy timeout: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create translations table: %w", err)
	}
	return nil
}

// TranslationMemory scopes the store to one language pair, matching the
// translate.TranslationMemory interface.
type TranslationMemory struct {
	store      *SQLiteStore
	sourceLang string
	targetLang string
}

// Memory returns a language-pair view over the store.
func (s *SQLiteStore) Memory(sourceLang, targetLang string) *TranslationMemory {
	return &TranslationMemory{
		store:      s,
		sourceLang: sourceLang,
		targetLang: targetLang,
	}
}

func (m *TranslationMemory) Get(ctx context.Context, source string) (string, bool, error) {
	row := m.store.db.QueryRowContext(
		ctx,
		`SELECT translated_text
		 FROM translations
		 WHERE source_lang = ? AND target_lang = ? AND source_text = ?`,
		m.sourceLang,
		m.targetLang,
		source,
	)
	var translated string
	if err := row.Scan(&translated); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, err
	}
	return translated, true, nil
}

func (m *TranslationMemory) Put(ctx context.Context, source, translated string) error {
	_, err := m.store.db.ExecContext(
		ctx,
		`INSERT INTO translations (source_lang, target_lang, source_text, translated_text, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(source_lang, target_lang, source_text) DO UPDATE SET
			translated_text=excluded.translated_text,
			updated_at=excluded.updated_at`,
		m.sourceLang,
		m.targetLang,
		source,
		translated,
		time.Now().UTC(),
	)
	return err
}
