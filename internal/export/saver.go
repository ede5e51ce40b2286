package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Saver persists an artifact and reports where it went
type Saver interface {
	Save(name string, data []byte) (string, error)
}

// DirSaver writes artifacts into a directory, creating it on first use
type DirSaver struct {
	Dir string
}

// Save writes data to Dir/name
func (s DirSaver) Save(name string, data []byte) (string, error) {
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(dir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0o644); err != nil { // #nosec G306 - exported images are meant to be shared
		return "", err
	}
	return path, nil
}

// MemorySaver keeps artifacts in memory
type MemorySaver struct {
	mu    sync.Mutex
	files map[string][]byte
}

// NewMemorySaver creates an empty MemorySaver
func NewMemorySaver() *MemorySaver {
	return &MemorySaver{files: make(map[string][]byte)}
}

// Save stores a copy of data under name
func (s *MemorySaver) Save(name string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[name] = append([]byte(nil), data...)
	return name, nil
}

// File returns the stored bytes for name
func (s *MemorySaver) File(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[name]
	return data, ok
}

// Len returns the number of stored artifacts
func (s *MemorySaver) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}
