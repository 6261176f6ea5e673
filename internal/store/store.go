package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Store persists the player's save documents as JSON files under a
// single data directory, one file per document key.
type Store struct {
	dir string
}

func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Load reads the document for key into v. The caller passes v already
// filled with defaults: a missing, empty, or unparsable file leaves v
// untouched, so corrupt saves degrade to a fresh profile instead of
// failing.
func (s *Store) Load(key string, v any) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return
	}
	if len(data) == 0 {
		return
	}
	if err := json.Unmarshal(data, v); err != nil {
		log.Printf("[Store] Corrupt %s.json, using defaults: %v\n", key, err)
	}
}

// Save writes the document for key. The write goes through a temp file
// and rename so a crash mid-write cannot truncate the previous save.
func (s *Store) Save(key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if err := os.Rename(tmp, s.path(key)); err != nil {
		return fmt.Errorf("renaming %s: %w", key, err)
	}
	return nil
}
