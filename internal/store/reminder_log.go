package store

import (
	"database/sql"
	"fmt"
	"time"
)

// ReminderLog records which event occurrences already produced a reminder
// so restarts do not repeat them.
type ReminderLog struct {
	db *sql.DB
}

func NewReminderLog(db *sql.DB) *ReminderLog {
	return &ReminderLog{db: db}
}

// MarkSent records the occurrence and reports whether it was new.
func (s *ReminderLog) MarkSent(eventID, eventDate string) (bool, error) {
	result, err := s.db.Exec(
		`INSERT INTO reminder_log (event_id, event_date, sent_at) VALUES (?, ?, ?)
		 ON CONFLICT(event_id, event_date) DO NOTHING`,
		eventID, eventDate, time.Now().UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("mark reminder sent: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func (s *ReminderLog) WasSent(eventID, eventDate string) (bool, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM reminder_log WHERE event_id = ? AND event_date = ?`,
		eventID, eventDate,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check reminder: %w", err)
	}
	return n > 0, nil
}

// Prune drops entries sent before cutoff.
func (s *ReminderLog) Prune(cutoff time.Time) (int64, error) {
	result, err := s.db.Exec(`DELETE FROM reminder_log WHERE sent_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("prune reminder log: %w", err)
	}
	return result.RowsAffected()
}

// Clear forgets every reminder, used when the user signs out.
func (s *ReminderLog) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM reminder_log`); err != nil {
		return fmt.Errorf("clear reminder log: %w", err)
	}
	return nil
}
