package knowledge

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/pbaille/moodlog/internal/textutil"
)

// ErrTableUnavailable marks a lookup table that could not be loaded
var ErrTableUnavailable = errors.New("lookup table unavailable")

var bom = []byte("\ufeff")

// Table is a read-only label -> document mapping keyed by lower-cased label
type Table[T any] struct {
	docs    map[string]T
	loadErr error
}

// LoadTable reads a UTF-8 JSON object from path. It never fails: on error
// the table is empty and Err reports the cause wrapped with ErrTableUnavailable.
func LoadTable[T any](path string) *Table[T] {
	docs, err := readTable[T](path)
	if err != nil {
		return &Table[T]{docs: map[string]T{}, loadErr: fmt.Errorf("%w: %w", ErrTableUnavailable, err)}
	}
	return &Table[T]{docs: docs}
}

// NewTable builds a table from an in-memory mapping
func NewTable[T any](docs map[string]T) *Table[T] {
	t := &Table[T]{docs: make(map[string]T, len(docs))}
	for k, v := range docs {
		t.docs[textutil.Lower(k)] = v
	}
	return t
}

func readTable[T any](path string) (map[string]T, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	raw = bytes.TrimPrefix(raw, bom)

	var parsed map[string]T
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	docs := make(map[string]T, len(parsed))
	for k, v := range parsed {
		docs[textutil.Lower(k)] = v
	}
	return docs, nil
}

// Err returns the load failure or nil
func (t *Table[T]) Err() error {
	return t.loadErr
}

// Get looks up label case-insensitively
func (t *Table[T]) Get(label string) (T, bool) {
	doc, ok := t.docs[textutil.Lower(label)]
	return doc, ok
}

// Labels returns the known labels in sorted order
func (t *Table[T]) Labels() []string {
	labels := make([]string, 0, len(t.docs))
	for k := range t.docs {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	return labels
}
