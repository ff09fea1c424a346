package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"joyfeed/internal/aggregate"
	"joyfeed/internal/logger"
)

// Postgres is the optional persistent backend. It is best-effort: read
// errors degrade to a cache miss and never fail a request.
type Postgres struct {
	db *sql.DB
}

// NewPostgres connects to the database and ensures the cache table exists.
func NewPostgres(connectionString string) (*Postgres, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	p := &Postgres{db: db}
	if err := p.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return p, nil
}

func (p *Postgres) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS result_cache (
		key VARCHAR(100) PRIMARY KEY,
		payload TEXT NOT NULL,
		written_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	`
	_, err := p.db.Exec(schema)
	return err
}

func (p *Postgres) Get(key string) (*Entry, bool) {
	var payload string
	var writtenAt time.Time
	query := `SELECT payload, written_at FROM result_cache WHERE key = $1`
	err := p.db.QueryRow(query, key).Scan(&payload, &writtenAt)
	if err == sql.ErrNoRows {
		return nil, false
	}
	if err != nil {
		logger.Warn("cache read failed", "key", key, "error", err)
		return nil, false
	}

	var result aggregate.Result
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		logger.Warn("cache payload corrupt", "key", key, "error", err)
		return nil, false
	}
	return &Entry{Result: &result, WrittenAt: writtenAt}, true
}

func (p *Postgres) Set(key string, e *Entry) error {
	payload, err := json.Marshal(e.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal cache payload: %w", err)
	}
	query := `
		INSERT INTO result_cache (key, payload, written_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET payload = $2, written_at = $3
	`
	if _, err := p.db.Exec(query, key, string(payload), e.WrittenAt); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (p *Postgres) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}
