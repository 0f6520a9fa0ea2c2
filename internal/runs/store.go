package runs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/danieljhkim/platerun/internal/fsops"
)

// ErrNotFound indicates that no record exists for a run ID.
var ErrNotFound = errors.New("run not found")

// RunStore persists run records.
type RunStore interface {
	// Save writes a record, replacing any record with the same ID.
	Save(rec *RunRecord) error

	// Load reads the record for id. Returns ErrNotFound if absent.
	Load(id string) (*RunRecord, error)

	// List returns all records, newest first.
	List() ([]*RunRecord, error)

	// Delete removes the record for id. Returns ErrNotFound if absent.
	Delete(id string) error
}

// FileRunStore implements RunStore using JSON files on disk.
type FileRunStore struct {
	fs  fsops.FS
	dir string
}

// NewFileRunStore creates a new FileRunStore.
func NewFileRunStore(fs fsops.FS, dir string) *FileRunStore {
	return &FileRunStore{fs: fs, dir: dir}
}

func (s *FileRunStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Save writes a record atomically.
func (s *FileRunStore) Save(rec *RunRecord) error {
	if err := fsops.ValidateIdentifier(rec.ID); err != nil {
		return fmt.Errorf("invalid run ID: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run record: %w", err)
	}

	if err := s.fs.AtomicWrite(s.path(rec.ID), data, 0644); err != nil {
		return fmt.Errorf("failed to write run record: %w", err)
	}
	return nil
}

// Load reads the record for id.
func (s *FileRunStore) Load(id string) (*RunRecord, error) {
	if err := fsops.ValidateIdentifier(id); err != nil {
		return nil, fmt.Errorf("invalid run ID: %w", err)
	}

	data, err := s.fs.ReadFile(s.path(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to read run record: %w", err)
	}

	var rec RunRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run record %s: %w", id, err)
	}
	return &rec, nil
}

// List returns all records, newest first. Ties keep ID order.
func (s *FileRunStore) List() ([]*RunRecord, error) {
	names, err := s.fs.List(s.dir, ".json")
	if err != nil {
		return nil, err
	}

	records := make([]*RunRecord, 0, len(names))
	for _, name := range names {
		rec, err := s.Load(strings.TrimSuffix(name, ".json"))
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

// Delete removes the record for id.
func (s *FileRunStore) Delete(id string) error {
	if err := fsops.ValidateIdentifier(id); err != nil {
		return fmt.Errorf("invalid run ID: %w", err)
	}

	if err := s.fs.Remove(s.path(id)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("failed to delete run record: %w", err)
	}
	return nil
}

// Resolve finds a run by full ID or unique ID prefix.
func Resolve(store RunStore, ref string) (*RunRecord, error) {
	if rec, err := store.Load(ref); err == nil {
		return rec, nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	all, err := store.List()
	if err != nil {
		return nil, err
	}

	var match *RunRecord
	for _, rec := range all {
		if strings.HasPrefix(rec.ID, ref) {
			if match != nil {
				return nil, fmt.Errorf("run reference %q is ambiguous", ref)
			}
			match = rec
		}
	}
	if match == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	return match, nil
}
