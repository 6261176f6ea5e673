package db

import (
	"fmt"
	"time"
)

type TapEvent struct {
	SessionID  string
	Kind       string // "tap", "foe" or "powerup"
	Correct    bool
	OccurredAt time.Time
}

func (d *DB) RecordTap(ev TapEvent) error {
	_, err := d.conn.Exec(`
		INSERT INTO tap_events (session_id, kind, correct, occurred_at)
		VALUES ($1, $2, $3, $4)
	`, ev.SessionID, ev.Kind, ev.Correct, ev.OccurredAt)
	if err != nil {
		return fmt.Errorf("recording tap: %w", err)
	}
	return nil
}

func (d *DB) BatchRecordTaps(events []TapEvent) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO tap_events (session_id, kind, correct, occurred_at)
		VALUES ($1, $2, $3, $4)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, ev := range events {
		if _, err := stmt.Exec(ev.SessionID, ev.Kind, ev.Correct, ev.OccurredAt); err != nil {
			return fmt.Errorf("recording tap in batch: %w", err)
		}
	}

	return tx.Commit()
}
