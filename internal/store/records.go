package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"lifelog/internal/model"
)

// StoredRecord is one persisted row, with its flat data decoded. UID
// is a stable identifier that survives export, unlike the rowid.
type StoredRecord struct {
	ID        int64        `json:"id"`
	UID       string       `json:"uid"`
	UserID    string       `json:"user_id"`
	Date      string       `json:"date"`
	Type      string       `json:"type"`
	Data      model.Record `json:"data"`
	CreatedAt int64        `json:"created_at"`
}

// SaveRecords inserts flat records for a user in one transaction. Each
// record's "date" and "type" keys become the indexed columns; the full
// record is stored as JSON.
func (db *DB) SaveRecords(userID string, records []model.Record) error {
	if len(records) == 0 {
		return nil
	}
	now := time.Now().UnixMilli()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	for _, r := range records {
		typ, _ := r["type"].(string)
		if typ == "" {
			typ = "unknown"
		}
		date, _ := r["date"].(string)
		if date == "" {
			date = time.Now().Format("2006-01-02")
		}
		data, err := json.Marshal(r)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("marshal record: %w", err)
		}
		if _, err := tx.Exec(`
			INSERT INTO records (uid, user_id, date, type, data, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, uuid.NewString(), userID, date, typ, string(data), now); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert record: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// RecentRecordsByType returns up to limit records of one type for a
// user, newest first.
func (db *DB) RecentRecordsByType(userID, typ string, limit int) ([]StoredRecord, error) {
	rows, err := db.Query(`
		SELECT id, uid, user_id, date, type, data, created_at
		FROM records WHERE user_id = ? AND type = ?
		ORDER BY date DESC, id DESC LIMIT ?
	`, userID, typ, limit)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// RecordsSince returns all records for a user on or after the given
// ISO date, newest first.
func (db *DB) RecordsSince(userID, sinceDate string) ([]StoredRecord, error) {
	rows, err := db.Query(`
		SELECT id, uid, user_id, date, type, data, created_at
		FROM records WHERE user_id = ? AND date >= ?
		ORDER BY date DESC, id DESC
	`, userID, sinceDate)
	if err != nil {
		return nil, fmt.Errorf("query records since: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanRecords(rows rowScanner) ([]StoredRecord, error) {
	var out []StoredRecord
	for rows.Next() {
		var r StoredRecord
		var data string
		if err := rows.Scan(&r.ID, &r.UID, &r.UserID, &r.Date, &r.Type, &data, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if err := json.Unmarshal([]byte(data), &r.Data); err != nil {
			return nil, fmt.Errorf("decode record %d: %w", r.ID, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}
