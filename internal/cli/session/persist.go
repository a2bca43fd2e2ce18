package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Persister stores the whole session as one record, so token and user can
// never be persisted out of step with each other.
type Persister interface {
	Load() (Session, error)
	Save(Session) error
	Clear() error
}

// MemoryPersister keeps the record in process memory
type MemoryPersister struct {
	mu      sync.Mutex
	record  Session
	Saves   int
	Clears  int
	FailErr error // returned by Save and Clear when set
}

// NewMemoryPersister returns a persister preloaded with initial
func NewMemoryPersister(initial Session) *MemoryPersister {
	return &MemoryPersister{record: initial.clone()}
}

func (m *MemoryPersister) Load() (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.record.clone(), nil
}

func (m *MemoryPersister) Save(s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailErr != nil {
		return m.FailErr
	}
	m.Saves++
	m.record = s.clone()
	return nil
}

func (m *MemoryPersister) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailErr != nil {
		return m.FailErr
	}
	m.Clears++
	m.record = Session{}
	return nil
}

// FilePersister keeps one record per API in a JSON file. The file is
// replaced by rename, so a crash leaves either the old or the new content.
type FilePersister struct {
	path string
	key  string
}

// NewFilePersister stores the record for apiURL in the file at path
func NewFilePersister(path, apiURL string) *FilePersister {
	return &FilePersister{path: path, key: apiURL}
}

func (f *FilePersister) readAll() (map[string]Session, error) {
	records := make(map[string]Session)

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return records, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	if len(data) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	return records, nil
}

func (f *FilePersister) writeAll(records map[string]Session) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("failed to create temp session file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close session file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0600); err != nil {
		return fmt.Errorf("failed to set session file permissions: %w", err)
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}

func (f *FilePersister) Load() (Session, error) {
	records, err := f.readAll()
	if err != nil {
		return Session{}, err
	}
	return records[f.key], nil
}

func (f *FilePersister) Save(s Session) error {
	records, err := f.readAll()
	if err != nil {
		return err
	}
	records[f.key] = s
	return f.writeAll(records)
}

func (f *FilePersister) Clear() error {
	records, err := f.readAll()
	if err != nil {
		return err
	}
	if _, ok := records[f.key]; !ok {
		return nil // Already cleared
	}
	delete(records, f.key)
	return f.writeAll(records)
}
