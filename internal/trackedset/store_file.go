package trackedset

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"offramp/pkg/domain"
)

// FileStore keeps the tracked set as a line-oriented document: one principal
// name per line, blank lines ignored on read. Saves go through a temp file
// and rename so a crash never leaves a torn document.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load(_ context.Context) (*Set, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewSet(), nil
		}
		return nil, fmt.Errorf("open tracked set: %w", err)
	}
	defer f.Close()

	set := NewSet()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		set.Add(domain.PrincipalName(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read tracked set: %w", err)
	}
	return set, nil
}

func (s *FileStore) Save(_ context.Context, set *Set) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create tracked set dir: %w", err)
	}

	var b strings.Builder
	for _, name := range set.Names() {
		b.WriteString(name.String())
		b.WriteByte('\n')
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".tracked-*")
	if err != nil {
		return fmt.Errorf("create temp tracked set: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write tracked set: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync tracked set: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close tracked set: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace tracked set: %w", err)
	}
	return nil
}
