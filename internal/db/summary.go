package db

import "fmt"

type ModeSummary struct {
	Mode      string
	Games     int
	BestScore float64
	AvgScore  float64
}

// ModeSummaries aggregates every finished session per game mode.
func (d *DB) ModeSummaries() ([]ModeSummary, error) {
	rows, err := d.conn.Query(`
		SELECT mode, COUNT(*), MAX(final_score), AVG(final_score)
		FROM sessions GROUP BY mode ORDER BY mode
	`)
	if err != nil {
		return nil, fmt.Errorf("summarizing modes: %w", err)
	}
	defer rows.Close()

	var sums []ModeSummary
	for rows.Next() {
		var s ModeSummary
		if err := rows.Scan(&s.Mode, &s.Games, &s.BestScore, &s.AvgScore); err != nil {
			return nil, err
		}
		sums = append(sums, s)
	}
	return sums, rows.Err()
}

// SessionAccuracy reports correct and wrong tap counts for one session.
func (d *DB) SessionAccuracy(sessionID string) (correct, wrong int, err error) {
	err = d.conn.QueryRow(`
		SELECT
			COUNT(*) FILTER (WHERE correct),
			COUNT(*) FILTER (WHERE NOT correct)
		FROM tap_events WHERE session_id = $1
	`, sessionID).Scan(&correct, &wrong)
	if err != nil {
		return 0, 0, fmt.Errorf("computing session accuracy: %w", err)
	}
	return correct, wrong, nil
}
