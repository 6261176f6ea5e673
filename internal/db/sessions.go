package db

import (
	"fmt"
	"time"
)

type SessionRecord struct {
	ID          string
	Mode        string
	FinalScore  float64
	CoinsGained int
	WrongTaps   int
	NewRecord   bool
	StartedAt   time.Time
	EndedAt     time.Time
}

func (d *DB) RecordSession(rec SessionRecord) error {
	_, err := d.conn.Exec(`
		INSERT INTO sessions (id, mode, final_score, coins_gained, wrong_taps, new_record, started_at, ended_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`, rec.ID, rec.Mode, rec.FinalScore, rec.CoinsGained, rec.WrongTaps, rec.NewRecord, rec.StartedAt, rec.EndedAt)
	if err != nil {
		return fmt.Errorf("recording session: %w", err)
	}
	return nil
}

func (d *DB) RecentSessions(limit int) ([]SessionRecord, error) {
	rows, err := d.conn.Query(`
		SELECT id, mode, final_score, coins_gained, wrong_taps, new_record, started_at, ended_at
		FROM sessions ORDER BY ended_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var recs []SessionRecord
	for rows.Next() {
		var r SessionRecord
		if err := rows.Scan(&r.ID, &r.Mode, &r.FinalScore, &r.CoinsGained, &r.WrongTaps, &r.NewRecord, &r.StartedAt, &r.EndedAt); err != nil {
			return nil, err
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}
