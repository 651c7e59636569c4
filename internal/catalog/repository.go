package catalog

import (
	"context"
	"os"
	"path/filepath"
	"sync"
)

// Repository persists user-added companies.
type Repository interface {
	// LoadAll returns every persisted entry.
	LoadAll(ctx context.Context) ([]Entry, error)
	// AppendAndSave adds e, replacing an entry with the same name, and
	// rewrites the whole store before returning.
	AppendAndSave(ctx context.Context, e Entry) error
}

// FileRepository keeps the entries in one JSON file. Writes go to a temp file
// in the same directory and are renamed over the original.
type FileRepository struct {
	path    string
	mu      sync.Mutex
	entries []Entry
	loaded  bool
}

var _ Repository = (*FileRepository)(nil)

// NewFileRepository stores entries in the JSON file at path. The file and
// its directory are created on the first save.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

func (r *FileRepository) LoadAll(ctx context.Context) ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.loadUnlocked(); err != nil {
		return nil, err
	}
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out, nil
}

func (r *FileRepository) AppendAndSave(ctx context.Context, e Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.loadUnlocked(); err != nil {
		return err
	}
	next := upsert(r.entries, e)
	if err := r.writeUnlocked(next); err != nil {
		return err
	}
	r.entries = next
	return nil
}

func (r *FileRepository) loadUnlocked() error {
	if r.loaded {
		return nil
	}
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		r.loaded = true
		return nil
	}
	if err != nil {
		return err
	}
	entries, err := decodeEntries(data)
	if err != nil {
		return err
	}
	r.entries = entries
	r.loaded = true
	return nil
}

func (r *FileRepository) writeUnlocked(entries []Entry) error {
	data, err := encodeEntries(entries)
	if err != nil {
		return err
	}
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".companies-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), r.path)
}

// MemoryRepository is a Repository for tests and for running without a data dir.
type MemoryRepository struct {
	mu      sync.Mutex
	entries []Entry
}

var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository starts with entries and never touches disk.
func NewMemoryRepository(entries ...Entry) *MemoryRepository {
	return &MemoryRepository{entries: entries}
}

func (r *MemoryRepository) LoadAll(ctx context.Context) ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out, nil
}

func (r *MemoryRepository) AppendAndSave(ctx context.Context, e Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = upsert(r.entries, e)
	return nil
}

// upsert returns a copy of entries with e added or replacing the same name.
func upsert(entries []Entry, e Entry) []Entry {
	out := make([]Entry, 0, len(entries)+1)
	replaced := false
	for _, old := range entries {
		if old.Name == e.Name {
			out = append(out, e)
			replaced = true
			continue
		}
		out = append(out, old)
	}
	if !replaced {
		out = append(out, e)
	}
	return out
}
