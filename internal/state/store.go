package state

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	"github.com/pworker3/whispers/internal/model"
)

// Store persists the sequence of already-notified reports as a JSON file.
// The file's order is delivery order across its entire history.
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the notified-report history. A missing or unreadable or corrupt
// file is treated as a first run and yields an empty history, never an error.
func (s *Store) Load() []model.ReportRecord {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[WARN] read state %s: %v, starting empty", s.path, err)
		}
		return nil
	}
	var records []model.ReportRecord
	if err := json.Unmarshal(data, &records); err != nil {
		log.Printf("[WARN] parse state %s: %v, starting empty", s.path, err)
		return nil
	}
	return records
}

// Save overwrites the state file with the full history, pretty-printed so the
// file stays human-diffable.
func (s *Store) Save(records []model.ReportRecord) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if records == nil {
		records = []model.ReportRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}
