package migrations

import (
	"database/sql"
)

func init() {
	Register(Migration{
		Version: 1,
		Name:    "initial_schema",
		Up:      initialSchema,
	})
}

func initialSchema(db *sql.DB) error {
	statements := []string{
		// One conversation record per phone. State and context are only
		// ever written together at the end of a dialogue turn.
		`CREATE TABLE IF NOT EXISTS conversations (
			phone TEXT PRIMARY KEY,
			name TEXT,
			state TEXT NOT NULL DEFAULT 'idle' CHECK(state IN ('idle', 'booking', 'waiting_alt')),
			context_json TEXT NOT NULL DEFAULT '{}',
			last_seen DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Append-only audit log, write-only from the engine's point of view.
		`CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			phone TEXT NOT NULL,
			direction TEXT NOT NULL CHECK(direction IN ('in', 'out')),
			text TEXT NOT NULL,
			ts DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_phone_ts ON messages(phone, ts DESC)`,

		// Option 6 hand-off requests, kept for human follow-up.
		`CREATE TABLE IF NOT EXISTS handoffs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			phone TEXT NOT NULL,
			text TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
