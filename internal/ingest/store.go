package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Sentinel errors distinguishing a missing record from a damaged one.
var (
	ErrNotFound      = errors.New("job not found")
	ErrCorruptRecord = errors.New("job record corrupt")
)

// JobStore persists job records. Put fully replaces the record, so a
// re-read always returns the latest complete state.
type JobStore interface {
	Put(job *Job) error
	Get(id string) (*Job, error)
}

// FileStore keeps one JSON file per job id under a directory. The file
// is the authoritative record; it survives restarts and is what the
// status endpoint reads.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating job log dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Put writes the record atomically: temp file then rename, so a reader
// never observes a half-written record.
func (s *FileStore) Put(job *Job) error {
	data, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling job %s: %w", job.ID, err)
	}
	tmp := s.path(job.ID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing job %s: %w", job.ID, err)
	}
	if err := os.Rename(tmp, s.path(job.ID)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing job %s: %w", job.ID, err)
	}
	return nil
}

func (s *FileStore) Get(id string) (*Job, error) {
	data, err := os.ReadFile(s.path(id))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading job %s: %w", id, err)
	}

	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("job %s: %w", id, ErrCorruptRecord)
	}
	return &job, nil
}

// MemoryStore holds job records in memory, for tests.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string][]byte
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: map[string][]byte{}}
}

func (s *MemoryStore) Put(job *Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = data
	return nil
}

func (s *MemoryStore) Get(id string) (*Job, error) {
	s.mu.RLock()
	data, ok := s.jobs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("job %s: %w", id, ErrCorruptRecord)
	}
	return &job, nil
}
