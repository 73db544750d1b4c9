package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// FileSystem interface provides an abstraction for file operations so the
// loader and the fmt command work the same on disk and in memory.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
	ListFiles(dir string) ([]string, error)
	Exists(path string) bool
	IsDir(path string) bool
}

// LocalFS implements FileSystem using the local disk
type LocalFS struct {
	basePath string
}

func NewLocalFS(basePath string) *LocalFS {
	return &LocalFS{basePath: basePath}
}

func (l *LocalFS) resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(l.basePath, path)
}

func (l *LocalFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(l.resolvePath(path))
}

// WriteFile replaces the file, keeping its permissions if it already exists.
func (l *LocalFS) WriteFile(path string, data []byte) error {
	fullPath := l.resolvePath(path)
	mode := os.FileMode(0644)
	if info, err := os.Stat(fullPath); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(fullPath, data, mode)
}

// ListFiles returns the regular files directly inside dir, sorted.
func (l *LocalFS) ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(l.resolvePath(dir))
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

func (l *LocalFS) Exists(path string) bool {
	_, err := os.Stat(l.resolvePath(path))
	return err == nil
}

func (l *LocalFS) IsDir(path string) bool {
	info, err := os.Stat(l.resolvePath(path))
	return err == nil && info.IsDir()
}

// MemoryFS implements an in-memory file system
type MemoryFS struct {
	mu    sync.RWMutex
	files map[string][]byte
}

func NewMemoryFS() *MemoryFS {
	return &MemoryFS{
		files: make(map[string][]byte),
	}
}

func (m *MemoryFS) ReadFile(path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, exists := m.files[path]
	if !exists {
		return nil, fmt.Errorf("file not found: %s: %w", path, os.ErrNotExist)
	}
	return append([]byte(nil), data...), nil // Return a copy
}

func (m *MemoryFS) WriteFile(path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.files[path] = append([]byte(nil), data...) // Store a copy
	return nil
}

// ListFiles returns the files directly inside dir, sorted.
func (m *MemoryFS) ListFiles(dir string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	prefix := strings.TrimSuffix(dir, "/") + "/"
	if dir == "" || dir == "." {
		prefix = ""
	}
	var files []string
	for path := range m.files {
		rest, ok := strings.CutPrefix(path, prefix)
		if ok && !strings.Contains(rest, "/") {
			files = append(files, path)
		}
	}
	slices.Sort(files)
	return files, nil
}

func (m *MemoryFS) Exists(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.files[path]
	return exists
}

// IsDir reports whether some file lives under path.  Directories exist only
// implicitly through the files written into them.
func (m *MemoryFS) IsDir(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if path == "" || path == "." {
		return len(m.files) > 0
	}
	prefix := strings.TrimSuffix(path, "/") + "/"
	for p := range m.files {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}
