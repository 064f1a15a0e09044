// Package storage handles the SQLite audit database: provider call tracking
// and completed-search summaries. Search sessions themselves live in memory
// for exactly one run — the database is a cost and usage log, not session
// state.
package storage

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // Blank import: registers the SQLite driver.
)

// Schema is embedded directly in the binary — no migration files need to
// exist at runtime.
const schema = `
CREATE TABLE IF NOT EXISTS llm_calls (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    provider    TEXT NOT NULL,
    model       TEXT NOT NULL,
    success     BOOLEAN NOT NULL DEFAULT 0,
    duration_ms INTEGER NOT NULL DEFAULT 0,
    error       TEXT,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS searches (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    query           TEXT NOT NULL,
    deal_type       TEXT NOT NULL,
    company_name    TEXT NOT NULL DEFAULT '',
    status          TEXT NOT NULL,
    total_investors INTEGER NOT NULL DEFAULT 0,
    avg_score       INTEGER NOT NULL DEFAULT 0,
    created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_llm_calls_provider ON llm_calls(provider);
CREATE INDEX IF NOT EXISTS idx_searches_status ON searches(status);
`

// NewDatabase opens the SQLite database and runs migrations.
// sqlx wraps database/sql with convenience methods like StructScan and NamedExec.
func NewDatabase(dbPath string) (*sqlx.DB, error) {
	// WAL mode allows concurrent reads while writing; busy_timeout waits up
	// to 5s on lock contention instead of failing.
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000", dbPath)

	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Ping actually opens the connection (Open is lazy in database/sql)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// SQLite performs best with a single writer connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}
