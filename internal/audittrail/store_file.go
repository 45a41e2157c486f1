package audittrail

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"offramp/pkg/platform/sentinel"
)

// FileStore keeps the whole audit trail in one JSON document. Every write
// rewrites the document through a temp file and rename, so a crashed writer
// leaves either the old or the new trail, never a torn one. Single writer
// assumed; the runner lock upholds that.
type FileStore struct {
	path string
}

// NewFileStore builds a file-backed trail at path. Parent directories are
// created on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Append(ctx context.Context, rec Record) error {
	records, err := s.LoadAll(ctx)
	if err != nil {
		return err
	}
	return s.replace(append(records, rec))
}

func (s *FileStore) LoadAll(_ context.Context) ([]Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Record{}, nil
		}
		return nil, fmt.Errorf("read audit trail: %w", err)
	}
	if len(data) == 0 {
		return []Record{}, nil
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode audit trail: %w", err)
	}
	return records, nil
}

func (s *FileStore) Rename(ctx context.Context, user, renamed string) error {
	records, err := s.LoadAll(ctx)
	if err != nil {
		return err
	}
	for i := range records {
		if records[i].User == user {
			records[i].User = renamed
			return s.replace(records)
		}
	}
	return fmt.Errorf("rename audit record %s: %w", user, sentinel.ErrNotFound)
}

func (s *FileStore) UpdateStatus(ctx context.Context, user, status string) error {
	records, err := s.LoadAll(ctx)
	if err != nil {
		return err
	}
	for i := range records {
		if records[i].User == user {
			records[i].Status = status
			return s.replace(records)
		}
	}
	return fmt.Errorf("update audit record %s: %w", user, sentinel.ErrNotFound)
}

// replace atomically swaps the document contents.
func (s *FileStore) replace(records []Record) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create audit trail dir: %w", err)
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode audit trail: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".audit-trail-*")
	if err != nil {
		return fmt.Errorf("create temp audit trail: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write audit trail: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync audit trail: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close audit trail: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace audit trail: %w", err)
	}
	return nil
}
