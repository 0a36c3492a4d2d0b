package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wordlens/wordlens/internal/engine"
)

// HistoryDB archives completed analyses in Postgres. Optional: when no
// DATABASE_URL is configured the package-level instance stays nil and every
// analysis is simply not archived.

// Package-level singleton, set from main.go.
var historyDB *HistoryDB

// SetHistoryDB sets the package-level history DB instance.
func SetHistoryDB(db *HistoryDB) { historyDB = db }

// GetHistoryDB returns the package-level history DB instance (may be nil).
func GetHistoryDB() *HistoryDB { return historyDB }

// HistoryDB holds the pgx connection pool for the analysis archive.
type HistoryDB struct {
	pool *pgxpool.Pool
}

const historySchema = `CREATE TABLE IF NOT EXISTS analyses (
	id          BIGSERIAL PRIMARY KEY,
	video_id    TEXT NOT NULL,
	title       TEXT NOT NULL DEFAULT '',
	kind        TEXT NOT NULL,
	item_count  INTEGER NOT NULL,
	top_words   JSONB NOT NULL,
	analyzed_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS analyses_analyzed_at_idx ON analyses (analyzed_at)`

// ConnectHistoryDB creates a pgx pool and ensures the schema exists.
func ConnectHistoryDB(ctx context.Context, databaseURL string) (*HistoryDB, error) {
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	config.MaxConns = 5
	config.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, historySchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}

	slog.Info("history postgres connected", slog.String("addr", config.ConnConfig.Host))
	return &HistoryDB{pool: pool}, nil
}

func (db *HistoryDB) Close() {
	db.pool.Close()
}

// AnalysisRecord is one archived analysis.
type AnalysisRecord struct {
	ID         int64       `json:"id"`
	VideoID    string      `json:"video_id"`
	Title      string      `json:"title"`
	Kind       string      `json:"kind"`
	ItemCount  int         `json:"item_count"`
	TopWords   []WordCount `json:"top_words"`
	AnalyzedAt time.Time   `json:"analyzed_at"`
}

// Record archives one completed analysis.
func (db *HistoryDB) Record(ctx context.Context, video engine.VideoMeta, kind engine.CorpusKind, itemCount int, ranked []WordCount) error {
	topJSON, err := json.Marshal(ranked)
	if err != nil {
		return fmt.Errorf("history: marshal top words: %w", err)
	}
	_, err = db.pool.Exec(ctx,
		`INSERT INTO analyses (video_id, title, kind, item_count, top_words) VALUES ($1, $2, $3, $4, $5)`,
		video.ID, video.Title, string(kind), itemCount, topJSON)
	if err != nil {
		return fmt.Errorf("history: insert: %w", err)
	}
	return nil
}

// Recent returns the newest archived analyses, most recent first.
func (db *HistoryDB) Recent(ctx context.Context, limit int) ([]AnalysisRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, video_id, title, kind, item_count, top_words, analyzed_at
		 FROM analyses ORDER BY analyzed_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: query recent: %w", err)
	}
	defer rows.Close()

	var out []AnalysisRecord
	for rows.Next() {
		var rec AnalysisRecord
		var topJSON []byte
		if err := rows.Scan(&rec.ID, &rec.VideoID, &rec.Title, &rec.Kind,
			&rec.ItemCount, &topJSON, &rec.AnalyzedAt); err != nil {
			continue
		}
		if err := json.Unmarshal(topJSON, &rec.TopWords); err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Since returns analyses archived at or after the cutoff, oldest first.
// The daily report aggregates over this.
func (db *HistoryDB) Since(ctx context.Context, cutoff time.Time) ([]AnalysisRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, video_id, title, kind, item_count, top_words, analyzed_at
		 FROM analyses WHERE analyzed_at >= $1 ORDER BY analyzed_at`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("history: query since: %w", err)
	}
	defer rows.Close()

	var out []AnalysisRecord
	for rows.Next() {
		var rec AnalysisRecord
		var topJSON []byte
		if err := rows.Scan(&rec.ID, &rec.VideoID, &rec.Title, &rec.Kind,
			&rec.ItemCount, &topJSON, &rec.AnalyzedAt); err != nil {
			continue
		}
		if err := json.Unmarshal(topJSON, &rec.TopWords); err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
