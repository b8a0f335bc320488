package store

import (
	"database/sql"
	"fmt"
	"time"
)

// LoadState returns the checkpointed conversation state for a thread,
// or nil when the thread has no checkpoint yet. The state is opaque
// JSON; the engine owns its shape.
func (db *DB) LoadState(threadID string) ([]byte, error) {
	var state string
	err := db.QueryRow(`
		SELECT state FROM conv_state WHERE thread_id = ?
	`, threadID).Scan(&state)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	return []byte(state), nil
}

// SaveState checkpoints the conversation state for a thread, replacing
// any previous checkpoint.
func (db *DB) SaveState(threadID string, state []byte) error {
	now := time.Now().UnixMilli()
	_, err := db.Exec(`
		INSERT INTO conv_state (thread_id, state, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(thread_id) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at
	`, threadID, string(state), now)
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}
