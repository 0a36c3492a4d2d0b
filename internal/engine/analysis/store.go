package analysis

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Persisted filter state. Stopwords a user dragged off the chart and saved
// length/language settings survive restarts; everything derived (rankings)
// does not.

var (
	storeDB   *sql.DB
	storeOnce sync.Once
	storeErr  error
)

// openStoreDB opens (or creates) the SQLite settings database.
func openStoreDB() (*sql.DB, error) {
	storeOnce.Do(func() {
		dir := filepath.Join(os.Getenv("HOME"), ".wordlens")
		if err := os.MkdirAll(dir, 0750); err != nil {
			storeErr = fmt.Errorf("store: mkdir %s: %w", dir, err)
			return
		}
		dbPath := filepath.Join(dir, "wordlens.db")
		db, err := sql.Open("sqlite", dbPath)
		if err != nil {
			storeErr = fmt.Errorf("store: open db: %w", err)
			return
		}
		db.SetMaxOpenConns(1) // SQLite: single writer
		if err := initStoreSchema(db); err != nil {
			storeErr = fmt.Errorf("store: init schema: %w", err)
			return
		}
		storeDB = db
	})
	return storeDB, storeErr
}

func initStoreSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS stopwords (
		word     TEXT PRIMARY KEY,
		added_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS settings (
		id         INTEGER PRIMARY KEY CHECK (id = 1),
		min_len    INTEGER NOT NULL,
		max_len    INTEGER NOT NULL,
		language   TEXT NOT NULL,
		top_n      INTEGER NOT NULL,
		updated_at TEXT NOT NULL
	)`)
	return err
}

// SaveStopword persists a single excluded word. Idempotent.
func SaveStopword(_ context.Context, word string) error {
	db, err := openStoreDB()
	if err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = db.Exec(`INSERT INTO stopwords (word, added_at) VALUES (?, ?)
		ON CONFLICT(word) DO NOTHING`, word, now)
	if err != nil {
		return fmt.Errorf("store: save stopword: %w", err)
	}
	return nil
}

// DeleteStopword removes a persisted exclusion.
func DeleteStopword(_ context.Context, word string) error {
	db, err := openStoreDB()
	if err != nil {
		return err
	}
	if _, err := db.Exec(`DELETE FROM stopwords WHERE word = ?`, word); err != nil {
		return fmt.Errorf("store: delete stopword: %w", err)
	}
	return nil
}

// LoadStopwords returns all persisted exclusions.
func LoadStopwords(_ context.Context) ([]string, error) {
	db, err := openStoreDB()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(`SELECT word FROM stopwords ORDER BY word`)
	if err != nil {
		return nil, fmt.Errorf("store: load stopwords: %w", err)
	}
	defer rows.Close()

	var words []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			continue
		}
		words = append(words, w)
	}
	return words, rows.Err()
}

// SaveSettings persists the non-stopword policy fields and topN.
func SaveSettings(_ context.Context, p Policy, topN int) error {
	if err := p.Validate(); err != nil {
		return err
	}
	db, err := openStoreDB()
	if err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = db.Exec(`INSERT INTO settings (id, min_len, max_len, language, top_n, updated_at)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			min_len = excluded.min_len,
			max_len = excluded.max_len,
			language = excluded.language,
			top_n = excluded.top_n,
			updated_at = excluded.updated_at`,
		p.MinLen, p.MaxLen, p.Language, topN, now)
	if err != nil {
		return fmt.Errorf("store: save settings: %w", err)
	}
	return nil
}

// LoadSettings returns the persisted policy (stopwords included) and topN.
// ok is false when nothing was ever saved; callers fall back to defaults.
func LoadSettings(ctx context.Context) (p Policy, topN int, ok bool, err error) {
	db, err := openStoreDB()
	if err != nil {
		return Policy{}, 0, false, err
	}

	row := db.QueryRow(`SELECT min_len, max_len, language, top_n FROM settings WHERE id = 1`)
	var minLen, maxLen, n int
	var language string
	switch err := row.Scan(&minLen, &maxLen, &language, &n); err {
	case nil:
	case sql.ErrNoRows:
		return Policy{}, 0, false, nil
	default:
		return Policy{}, 0, false, fmt.Errorf("store: load settings: %w", err)
	}

	words, err := LoadStopwords(ctx)
	if err != nil {
		return Policy{}, 0, false, err
	}
	return NewPolicy(words, minLen, maxLen, language), n, true, nil
}
