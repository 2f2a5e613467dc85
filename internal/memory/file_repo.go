package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

type FileRepository struct {
	path string
	mu   sync.Mutex
}

func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

func (r *FileRepository) Path() string { return r.path }

// Load returns an empty store when the file does not exist.
func (r *FileRepository) Load() (*Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, err := os.Open(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Store{Interactions: []Record{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)
	var store Store
	if err := json.NewDecoder(f).Decode(&store); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.path, err)
	}
	if store.Interactions == nil {
		store.Interactions = []Record{}
	}
	return &store, nil
}

// Save overwrites the file with the full store. A crash mid-write can leave a
// truncated file behind.
func (r *FileRepository) Save(store *Store) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure dir: %w", err)
		}
	}
	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open write: %w", err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)
	enc := json.NewEncoder(f)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	out := *store
	if out.Interactions == nil {
		out.Interactions = []Record{}
	}
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
