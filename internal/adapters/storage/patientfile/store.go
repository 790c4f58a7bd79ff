package patientfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"aftercare/internal/domain"
	"aftercare/internal/observability"
)

// Store loads patient discharge records from a directory of JSON files, one
// record per file. The core consumes the loaded list read-only.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// ListAll reads every *.json file in the directory. Files that fail to parse
// are skipped with a warning so one bad record cannot take the service down.
func (s *Store) ListAll() ([]domain.PatientRecord, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading patients dir %s: %w", s.dir, err)
	}

	log := observability.Logger()
	var records []domain.PatientRecord
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}

		path := filepath.Join(s.dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			log.Warn("skipping unreadable patient file", "path", path, "error", err)
			continue
		}

		var rec domain.PatientRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			log.Warn("skipping malformed patient file", "path", path, "error", err)
			continue
		}
		records = append(records, rec)
	}

	log.Info("loaded patient records", "count", len(records), "dir", s.dir)
	return records, nil
}
