package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"turnera/internal/dialog"
)

// UpsertUser creates the conversation record for a phone if it does not exist
// and refreshes last_seen. New records start in idle with an empty context.
func (d *DB) UpsertUser(phone string) error {
	_, err := d.Exec(`
		INSERT INTO conversations(phone, last_seen) VALUES(?, CURRENT_TIMESTAMP)
		ON CONFLICT(phone) DO UPDATE SET last_seen = CURRENT_TIMESTAMP
	`, phone)
	if err != nil {
		return fmt.Errorf("failed to upsert user %s: %w", phone, err)
	}
	return nil
}

// GetState returns the conversation state for a phone, defaulting unknown
// users to idle.
func (d *DB) GetState(phone string) (dialog.State, error) {
	var state string
	err := d.QueryRow(`SELECT state FROM conversations WHERE phone = ?`, phone).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return dialog.StateIdle, nil
	}
	if err != nil {
		return dialog.StateIdle, fmt.Errorf("failed to get state for %s: %w", phone, err)
	}
	return dialog.State(state), nil
}

// SetState overwrites the conversation state for a phone.
func (d *DB) SetState(phone string, s dialog.State) error {
	_, err := d.Exec(`UPDATE conversations SET state = ? WHERE phone = ?`, string(s), phone)
	if err != nil {
		return fmt.Errorf("failed to set state for %s: %w", phone, err)
	}
	return nil
}

// GetContext returns the context payload for a phone. Unknown users and
// malformed payloads resolve to an empty context rather than an error, so a
// corrupted row cannot wedge a conversation.
func (d *DB) GetContext(phone string) (dialog.Context, error) {
	var raw string
	err := d.QueryRow(`SELECT context_json FROM conversations WHERE phone = ?`, phone).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return dialog.Context{}, nil
	}
	if err != nil {
		return dialog.Context{}, fmt.Errorf("failed to get context for %s: %w", phone, err)
	}

	var ctx dialog.Context
	if raw == "" {
		return ctx, nil
	}
	if err := json.Unmarshal([]byte(raw), &ctx); err != nil {
		return dialog.Context{}, nil
	}
	return ctx, nil
}

// SetContext overwrites the context payload for a phone.
func (d *DB) SetContext(phone string, c dialog.Context) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal context for %s: %w", phone, err)
	}
	_, err = d.Exec(`UPDATE conversations SET context_json = ? WHERE phone = ?`, string(raw), phone)
	if err != nil {
		return fmt.Errorf("failed to set context for %s: %w", phone, err)
	}
	return nil
}
