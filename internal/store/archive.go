package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/custodykeeper/internal/model"
)

// ArchiveStore indexes the archives uploaded to object storage so they can
// be listed and pruned without listing the bucket.
type ArchiveStore struct {
	db *sql.DB
}

func NewArchiveStore(db *sql.DB) *ArchiveStore {
	return &ArchiveStore{db: db}
}

const archiveColumns = `id, user_id, object_key, size_bytes, status, error_message, created_at, completed_at`

func (s *ArchiveStore) Create(userID, objectKey string) (*model.Archive, error) {
	now := time.Now().UTC()
	result, err := s.db.Exec(
		`INSERT INTO archives (user_id, object_key, status, created_at) VALUES (?, ?, ?, ?)`,
		userID, objectKey, model.ArchiveStatusPending, now,
	)
	if err != nil {
		return nil, fmt.Errorf("create archive: %w", err)
	}
	id, _ := result.LastInsertId()
	return &model.Archive{
		ID:        id,
		UserID:    userID,
		ObjectKey: objectKey,
		Status:    model.ArchiveStatusPending,
		CreatedAt: now,
	}, nil
}

// Complete marks the upload finished.
func (s *ArchiveStore) Complete(id, size int64) error {
	_, err := s.db.Exec(
		`UPDATE archives SET status = ?, size_bytes = ?, completed_at = ? WHERE id = ?`,
		model.ArchiveStatusCompleted, size, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("complete archive %d: %w", id, err)
	}
	return nil
}

func (s *ArchiveStore) Fail(id int64, msg string) error {
	_, err := s.db.Exec(`UPDATE archives SET status = ?, error_message = ? WHERE id = ?`, model.ArchiveStatusFailed, msg, id)
	if err != nil {
		return fmt.Errorf("fail archive %d: %w", id, err)
	}
	return nil
}

// Get returns the archive with id owned by userID, or nil.
func (s *ArchiveStore) Get(id int64, userID string) (*model.Archive, error) {
	row := s.db.QueryRow(`SELECT `+archiveColumns+` FROM archives WHERE id = ? AND user_id = ?`, id, userID)
	a, err := scanArchive(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get archive %d: %w", id, err)
	}
	return a, nil
}

// List returns the user's archives, newest first.
func (s *ArchiveStore) List(userID string, limit int) ([]model.Archive, error) {
	rows, err := s.db.Query(
		`SELECT `+archiveColumns+` FROM archives WHERE user_id = ? ORDER BY id DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list archives: %w", err)
	}
	defer rows.Close()

	archives := []model.Archive{}
	for rows.Next() {
		a, err := scanArchive(rows)
		if err != nil {
			return nil, fmt.Errorf("scan archive: %w", err)
		}
		archives = append(archives, *a)
	}
	return archives, rows.Err()
}

// Expired returns the user's archives beyond the newest keep.
func (s *ArchiveStore) Expired(userID string, keep int) ([]model.Archive, error) {
	rows, err := s.db.Query(
		`SELECT `+archiveColumns+` FROM archives WHERE user_id = ?
		 ORDER BY id DESC LIMIT -1 OFFSET ?`,
		userID, keep,
	)
	if err != nil {
		return nil, fmt.Errorf("list expired archives: %w", err)
	}
	defer rows.Close()

	var archives []model.Archive
	for rows.Next() {
		a, err := scanArchive(rows)
		if err != nil {
			return nil, fmt.Errorf("scan archive: %w", err)
		}
		archives = append(archives, *a)
	}
	return archives, rows.Err()
}

func (s *ArchiveStore) Delete(id int64) error {
	if _, err := s.db.Exec(`DELETE FROM archives WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete archive %d: %w", id, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanArchive(row scanner) (*model.Archive, error) {
	var a model.Archive
	var errMsg sql.NullString
	var completedAt sql.NullTime
	if err := row.Scan(&a.ID, &a.UserID, &a.ObjectKey, &a.SizeBytes, &a.Status, &errMsg, &a.CreatedAt, &completedAt); err != nil {
		return nil, err
	}
	a.ErrorMessage = errMsg.String
	if completedAt.Valid {
		a.CompletedAt = &completedAt.Time
	}
	return &a, nil
}
