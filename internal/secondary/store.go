package secondary

import (
	"encoding/json"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Index maps a year to its public holidays (ISO date -> display name).
// Absence of a year means "no cross-check data", not "no holidays".
// JSON keys for years are strings, matching the persisted snapshot layout.
type Index map[int]map[string]string

// Clone returns a deep copy, so a refresh can merge into a fresh buffer and
// replace the snapshot instead of mutating shared state.
func (idx Index) Clone() Index {
	out := make(Index, len(idx))
	for year, days := range idx {
		copied := make(map[string]string, len(days))
		for date, name := range days {
			copied[date] = name
		}
		out[year] = copied
	}
	return out
}

// Store persists the cross-check index between runs.
type Store interface {
	// Load returns the persisted index. It never fails: a missing or
	// corrupt snapshot degrades to an empty index.
	Load() Index

	// Save overwrites the persisted snapshot with the full index.
	Save(idx Index) error
}

// FileStore keeps the index as a single flat JSON file.
type FileStore struct {
	path   string
	logger *zap.Logger
}

// NewFileStore creates a FileStore persisting to path.
func NewFileStore(path string, logger *zap.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

// Load reads the snapshot from disk. Missing file means an empty index;
// unreadable content is logged and also degrades to empty.
func (fs *FileStore) Load() Index {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		if !os.IsNotExist(err) {
			fs.logger.Warn("Failed to read holiday cache, starting empty",
				zap.String("file", fs.path),
				zap.Error(err))
		}
		return Index{}
	}

	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		fs.logger.Warn("Holiday cache is corrupt, starting empty",
			zap.String("file", fs.path),
			zap.Error(err))
		return Index{}
	}
	if idx == nil {
		idx = Index{}
	}

	return idx
}

// Save writes the full index via temp file + rename, creating the containing
// directory if needed.
func (fs *FileStore) Save(idx Index) error {
	data, err := json.Marshal(idx)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(fs.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmpPath := fs.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, fs.path); err != nil {
		return err
	}

	fs.logger.Info("Holiday cache saved",
		zap.String("file", fs.path),
		zap.Int("years", len(idx)))

	return nil
}

// MemoryStore is an in-memory Store for tests and ephemeral setups.
type MemoryStore struct {
	idx Index
}

// NewMemoryStore creates a MemoryStore seeded with idx (may be nil).
func NewMemoryStore(idx Index) *MemoryStore {
	if idx == nil {
		idx = Index{}
	}
	return &MemoryStore{idx: idx}
}

func (ms *MemoryStore) Load() Index { return ms.idx.Clone() }

func (ms *MemoryStore) Save(idx Index) error {
	ms.idx = idx.Clone()
	return nil
}
