package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pbaille/moodlog/internal/domain"
)

var bom = []byte("\ufeff")

// ReadEntriesFile reads a persisted entry collection: a JSON array of entry
// records. A leading byte-order mark is ignored. Missing tag lists decode as
// empty lists.
func ReadEntriesFile(path string) ([]domain.Entry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read entries: %w", err)
	}
	raw = bytes.TrimPrefix(raw, bom)

	var entries []domain.Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse entries %s: %w", path, err)
	}
	for i := range entries {
		e := &entries[i]
		if e.Triggers == nil {
			e.Triggers = []string{}
		}
		if e.PhysicalSensations == nil {
			e.PhysicalSensations = []string{}
		}
		if e.Thoughts == nil {
			e.Thoughts = []string{}
		}
	}
	return entries, nil
}

// WriteEntriesFile writes entries as an indented JSON array. The file is
// replaced atomically through a temp file in the same directory.
func WriteEntriesFile(path string, entries []domain.Entry) error {
	if entries == nil {
		entries = []domain.Entry{}
	}
	b, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal entries: %w", err)
	}
	if err := writeFileAtomic(path, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("write entries: %w", err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte, mode fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".tmp_entries_*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
