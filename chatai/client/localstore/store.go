// Package localstore is the client's local cache, the analogue of the
// browser's localStorage: one JSON file holding the session token and
// the chat transcript under fixed keys.
package localstore

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
)

type Turn struct {
	Type    string `json:"type"` // "question" or "answer"
	Content string `json:"content"`
}

type State struct {
	Token      string `json:"token"`
	Transcript []Turn `json:"chatHistory"`
}

type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

// Load reads the cached state. A missing or unreadable cache is not an
// error: the client just starts clean.
func (s *Store) Load() State {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return State{}
	}
	var state State
	if err := json.Unmarshal(raw, &state); err != nil {
		return State{}
	}
	return state
}

func (s *Store) Save(state State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o600)
}

// Clear removes the cache file entirely.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
