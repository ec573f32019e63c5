package database

import (
	"fmt"
	"time"
)

// LogEntry represents one audited message, inbound or outbound.
type LogEntry struct {
	ID        int64
	Phone     string
	Direction string // "in" or "out"
	Text      string
	Timestamp time.Time
}

// Append writes one audit entry. The engine never reads these back; they
// exist for operators.
func (d *DB) Append(phone, direction, text string, ts time.Time) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	_, err := d.Exec(`
		INSERT INTO messages(phone, direction, text, ts) VALUES(?, ?, ?, ?)
	`, phone, direction, text, ts.UTC())
	if err != nil {
		return fmt.Errorf("failed to append message log: %w", err)
	}
	return nil
}

// RecentMessages returns the last N audit entries for a phone, newest first.
// Used by the operator endpoints only.
func (d *DB) RecentMessages(phone string, limit int) ([]LogEntry, error) {
	rows, err := d.Query(`
		SELECT id, phone, direction, text, ts
		FROM messages
		WHERE phone = ?
		ORDER BY ts DESC, id DESC
		LIMIT ?
	`, phone, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query message log: %w", err)
	}
	defer rows.Close()

	var entries []LogEntry
	for rows.Next() {
		var e LogEntry
		if err := rows.Scan(&e.ID, &e.Phone, &e.Direction, &e.Text, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message log entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// RecordHandoff stores an option-6 request so a human can follow up later.
func (d *DB) RecordHandoff(phone, text string) error {
	_, err := d.Exec(`INSERT INTO handoffs(phone, text) VALUES(?, ?)`, phone, text)
	if err != nil {
		return fmt.Errorf("failed to record handoff: %w", err)
	}
	return nil
}
