package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dukerupert/custodykeeper/internal/model"
)

// ErrNotFound is returned when a state key has no value.
var ErrNotFound = errors.New("not found")

// Keys held in client_state.
const (
	KeyToken = "token"
	KeyUser  = "user"
	KeyTheme = "theme"
)

// StateStore persists the client's own state: bearer token, cached user
// and theme. Everything else lives in the backend.
type StateStore struct {
	db *sql.DB
}

func NewStateStore(db *sql.DB) *StateStore {
	return &StateStore{db: db}
}

func (s *StateStore) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM client_state WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("state %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get state %q: %w", key, err)
	}
	return value, nil
}

func (s *StateStore) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO client_state (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("set state %q: %w", key, err)
	}
	return nil
}

// Delete removes keys. Missing keys are not an error.
func (s *StateStore) Delete(keys ...string) error {
	for _, key := range keys {
		if _, err := s.db.Exec(`DELETE FROM client_state WHERE key = ?`, key); err != nil {
			return fmt.Errorf("delete state %q: %w", key, err)
		}
	}
	return nil
}

// SaveCredentials stores the token and user together.
func (s *StateStore) SaveCredentials(token string, user model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for key, value := range map[string]string{KeyToken: token, KeyUser: string(data)} {
		if _, err := tx.Exec(
			`INSERT INTO client_state (key, value, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			key, value, now,
		); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}
	return tx.Commit()
}

// ClearCredentials removes the token and user but keeps preferences.
func (s *StateStore) ClearCredentials() error {
	return s.Delete(KeyToken, KeyUser)
}

func (s *StateStore) User() (*model.User, error) {
	raw, err := s.Get(KeyUser)
	if err != nil {
		return nil, err
	}
	var u model.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, fmt.Errorf("decode cached user: %w", err)
	}
	return &u, nil
}

// Theme returns the stored theme, light when unset or unrecognized.
func (s *StateStore) Theme() (model.Theme, error) {
	raw, err := s.Get(KeyTheme)
	if errors.Is(err, ErrNotFound) {
		return model.ThemeLight, nil
	}
	if err != nil {
		return model.ThemeLight, err
	}
	if t := model.Theme(raw); t.Valid() {
		return t, nil
	}
	return model.ThemeLight, nil
}

func (s *StateStore) SetTheme(t model.Theme) error {
	if !t.Valid() {
		return fmt.Errorf("invalid theme %q", t)
	}
	return s.Set(KeyTheme, string(t))
}
